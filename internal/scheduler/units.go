package scheduler

import (
	"github.com/google/uuid"

	"github.com/abrezinsky/judgesched/internal/models"
)

// IDFunc produces identifiers for new session units
type IDFunc func() string

// NewUnitID returns a random unit id
func NewUnitID() string {
	return uuid.NewString()
}

type unitKey struct {
	entrantID string
	format    models.SessionFormat
	sequence  int
}

func keyOf(u models.SessionUnit) unitKey {
	return unitKey{entrantID: u.EntrantID, format: u.Format, sequence: u.SequenceIndex()}
}

// DeriveUnits builds the unscheduled units an entrant's format calls for.
// Entrants without a format get the default three-repetition format.
func DeriveUnits(e models.Entrant, newID IDFunc) []models.SessionUnit {
	if newID == nil {
		newID = NewUnitID
	}
	format := e.Format.OrDefault()
	reps := format.Repetitions()

	units := make([]models.SessionUnit, 0, reps)
	for i := 0; i < reps; i++ {
		u := models.SessionUnit{
			ID:          newID(),
			EntrantID:   e.ID,
			EntrantName: e.Name,
			Format:      format,
		}
		if reps > 1 {
			seq := i
			u.Sequence = &seq
		}
		units = append(units, u)
	}
	return units
}

// RegenerateUnits discards the entrant's units and derives new ones. A new
// unit inherits the placement of a scheduled old unit with the same
// (entrant, format, sequence) key.
func RegenerateUnits(units []models.SessionUnit, e models.Entrant, newID IDFunc) []models.SessionUnit {
	placed := make(map[unitKey]models.SessionUnit)
	out := make([]models.SessionUnit, 0, len(units)+3)
	for _, u := range units {
		if u.EntrantID != e.ID {
			out = append(out, u.Clone())
			continue
		}
		if u.Scheduled {
			placed[keyOf(u)] = u
		}
	}

	for _, u := range DeriveUnits(e, newID) {
		if old, ok := placed[keyOf(u)]; ok {
			u.Assign(old.JudgeID, old.Slot())
		}
		out = append(out, u)
	}
	return out
}

// RemoveUnits drops every unit owned by entrantID
func RemoveUnits(units []models.SessionUnit, entrantID string) []models.SessionUnit {
	out := make([]models.SessionUnit, 0, len(units))
	for _, u := range units {
		if u.EntrantID != entrantID {
			out = append(out, u.Clone())
		}
	}
	return out
}

// SyncUnits reconciles units with the entrant roster. Units of excluded or
// unknown entrants are dropped, included entrants without units get fresh
// ones, and entrants whose format no longer matches are regenerated.
// Output is ordered by entrant, then by the entrant's existing unit order.
func SyncUnits(units []models.SessionUnit, entrants []models.Entrant, newID IDFunc) []models.SessionUnit {
	byEntrant := make(map[string][]models.SessionUnit)
	for _, u := range units {
		byEntrant[u.EntrantID] = append(byEntrant[u.EntrantID], u)
	}

	out := make([]models.SessionUnit, 0, len(units))
	for _, e := range entrants {
		if !e.Included {
			continue
		}
		own := byEntrant[e.ID]
		if unitsMatch(own, e) {
			for _, u := range own {
				c := u.Clone()
				c.EntrantName = e.Name
				out = append(out, c)
			}
			continue
		}
		out = append(out, RegenerateUnits(own, e, newID)...)
	}
	return out
}

// unitsMatch reports whether own is exactly the unit set e's format needs
func unitsMatch(own []models.SessionUnit, e models.Entrant) bool {
	format := e.Format.OrDefault()
	if len(own) != format.Repetitions() {
		return false
	}
	seen := make(map[int]bool, len(own))
	for _, u := range own {
		if u.Format != format {
			return false
		}
		seq := u.SequenceIndex()
		if format.Repetitions() > 1 && (seq < 0 || seq >= format.Repetitions()) {
			return false
		}
		if seen[seq] {
			return false
		}
		seen[seq] = true
	}
	return true
}
