package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/judgesched/internal/config"
	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/models"
)

// Roster is an event's judges and entrants as read from a YAML file
type Roster struct {
	Settings models.Settings
	Judges   []models.Judge
	Entrants []models.Entrant
}

type document struct {
	Settings config.ScheduleConfig `yaml:"settings"`
	Judges   []judgeDoc            `yaml:"judges"`
	Entrants []entrantDoc          `yaml:"entrants"`
}

// judgeDoc and entrantDoc default the active/included flags to true
type judgeDoc models.Judge

func (j *judgeDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain models.Judge
	p := plain{Active: true}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*j = judgeDoc(p)
	return nil
}

type entrantDoc models.Entrant

func (e *entrantDoc) UnmarshalYAML(n *yaml.Node) error {
	type plain models.Entrant
	p := plain{Included: true}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*e = entrantDoc(p)
	return nil
}

// Load reads and validates a roster file
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a roster document. Avoid relations are
// mirrored so each side sees the other.
func Parse(data []byte) (*Roster, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to unmarshal roster")
	}

	settings, err := doc.Settings.Settings()
	if err != nil {
		return nil, err
	}

	r := &Roster{Settings: settings}
	for _, j := range doc.Judges {
		r.Judges = append(r.Judges, models.Judge(j))
	}
	for _, e := range doc.Entrants {
		r.Entrants = append(r.Entrants, models.Entrant(e))
	}
	if err := Validate(r.Judges, r.Entrants); err != nil {
		return nil, err
	}
	r.Entrants = models.MirrorAvoid(r.Entrants)
	return r, nil
}

// Validate checks ids are unique and every reference resolves
func Validate(judges []models.Judge, entrants []models.Entrant) error {
	judgeIDs := make(map[string]bool, len(judges))
	for _, j := range judges {
		if j.ID == "" {
			return errors.Validation("judge without id")
		}
		if judgeIDs[j.ID] {
			return errors.Validationf("duplicate judge id %q", j.ID)
		}
		switch j.Category {
		case models.CategoryNone, models.CategoryA, models.CategoryB, models.CategoryC:
		default:
			return errors.Validationf("judge %q has unknown category %q", j.ID, j.Category)
		}
		judgeIDs[j.ID] = true
	}

	entrantIDs := make(map[string]bool, len(entrants))
	for _, e := range entrants {
		if e.ID == "" {
			return errors.Validation("entrant without id")
		}
		if entrantIDs[e.ID] {
			return errors.Validationf("duplicate entrant id %q", e.ID)
		}
		entrantIDs[e.ID] = true
	}

	for _, e := range entrants {
		if e.Format != models.FormatNone && !e.Format.Valid() {
			return errors.Validationf("entrant %q has unknown format %q", e.ID, e.Format)
		}
		if len(e.Preferences) > models.MaxPreferences {
			return errors.Validationf("entrant %q ranks %d judges, at most %d allowed", e.ID, len(e.Preferences), models.MaxPreferences)
		}
		for _, p := range e.Preferences {
			if p != "" && !judgeIDs[p] {
				return errors.Validationf("entrant %q prefers unknown judge %q", e.ID, p)
			}
		}
		for _, a := range e.Avoid {
			if a == e.ID {
				return errors.Validationf("entrant %q cannot avoid itself", e.ID)
			}
			if !entrantIDs[a] {
				return errors.Validationf("entrant %q avoids unknown entrant %q", e.ID, a)
			}
		}
	}
	return nil
}
