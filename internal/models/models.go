package models

// SessionFormat is the session format an entrant chooses
type SessionFormat string

const (
	FormatNone          SessionFormat = ""
	FormatLongSingle    SessionFormat = "long_single"
	FormatThreeByTwenty SessionFormat = "three_by_twenty"
	FormatThreeByTen    SessionFormat = "three_by_ten"
)

// Formats lists every schedulable format
var Formats = []SessionFormat{FormatLongSingle, FormatThreeByTwenty, FormatThreeByTen}

// DefaultFormat is used for entrants that have not chosen a format
const DefaultFormat = FormatThreeByTwenty

// Repetitions returns how many session units the format produces
func (f SessionFormat) Repetitions() int {
	switch f {
	case FormatLongSingle:
		return 1
	case FormatThreeByTwenty, FormatThreeByTen:
		return 3
	default:
		return 0
	}
}

// Valid reports whether f is a known, non-empty format
func (f SessionFormat) Valid() bool {
	return f.Repetitions() > 0
}

// OrDefault returns f, or DefaultFormat when f is unset
func (f SessionFormat) OrDefault() SessionFormat {
	if f == FormatNone {
		return DefaultFormat
	}
	return f
}

// GroupKind distinguishes small and large ensembles
type GroupKind string

const (
	KindSmallEnsemble GroupKind = "small"
	KindLargeEnsemble GroupKind = "large"
)

// Category is a judge's specialty
type Category string

const (
	CategoryNone Category = ""
	CategoryA    Category = "A"
	CategoryB    Category = "B"
	CategoryC    Category = "C"
)

// Categories lists the specialties in panel-lane order
var Categories = []Category{CategoryA, CategoryB, CategoryC}

// MaxPreferences is the number of ranked judge preferences an entrant may give
const MaxPreferences = 3

// Entrant is a competing group
type Entrant struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Kind        GroupKind          `json:"kind" yaml:"kind"`
	Format      SessionFormat      `json:"format" yaml:"format"`
	Preferences []string           `json:"preferences,omitempty" yaml:"preferences,omitempty"` // judge ids, best first
	Avoid       []string           `json:"avoid,omitempty" yaml:"avoid,omitempty"`             // entrant ids
	Room        string             `json:"room" yaml:"room"`
	Included    bool               `json:"included" yaml:"included"`
	Scores      map[string]float64 `json:"scores,omitempty" yaml:"scores,omitempty"` // display only
}

// Preference returns the judge id at rank (0-based), or "" when unset
func (e Entrant) Preference(rank int) string {
	if rank < 0 || rank >= len(e.Preferences) {
		return ""
	}
	return e.Preferences[rank]
}

// Avoids reports whether other is in the entrant's avoid set
func (e Entrant) Avoids(other string) bool {
	for _, id := range e.Avoid {
		if id == other {
			return true
		}
	}
	return false
}

// Judge is a grader
type Judge struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
	Room     string   `json:"room" yaml:"room"`
	Active   bool     `json:"active" yaml:"active"`
}

// SessionUnit is one judge visit belonging to an entrant. The scheduling
// fields are only changed through Assign and Unassign.
type SessionUnit struct {
	ID          string        `json:"id"`
	EntrantID   string        `json:"entrant_id"`
	EntrantName string        `json:"entrant_name"`
	Format      SessionFormat `json:"format"`
	Sequence    *int          `json:"sequence,omitempty"`
	Scheduled   bool          `json:"scheduled"`
	StartSlot   *int          `json:"start_slot,omitempty"`
	JudgeID     string        `json:"judge_id,omitempty"`
}

// Assign places the unit on a judge at a slot
func (u *SessionUnit) Assign(judgeID string, slot int) {
	if judgeID == "" || slot < 0 {
		u.Unassign()
		return
	}
	s := slot
	u.StartSlot = &s
	u.JudgeID = judgeID
	u.Scheduled = true
}

// Unassign clears the placement
func (u *SessionUnit) Unassign() {
	u.StartSlot = nil
	u.JudgeID = ""
	u.Scheduled = false
}

// Consistent reports whether Scheduled agrees with StartSlot and JudgeID
func (u SessionUnit) Consistent() bool {
	placed := u.StartSlot != nil && u.JudgeID != ""
	return u.Scheduled == placed
}

// Slot returns the start slot, or -1 when unscheduled
func (u SessionUnit) Slot() int {
	if !u.Scheduled || u.StartSlot == nil {
		return -1
	}
	return *u.StartSlot
}

// SequenceIndex returns the sequence index, or -1 for single-unit formats
func (u SessionUnit) SequenceIndex() int {
	if u.Sequence == nil {
		return -1
	}
	return *u.Sequence
}

// Clone returns a deep copy of the unit
func (u SessionUnit) Clone() SessionUnit {
	c := u
	if u.Sequence != nil {
		seq := *u.Sequence
		c.Sequence = &seq
	}
	if u.StartSlot != nil {
		slot := *u.StartSlot
		c.StartSlot = &slot
	}
	return c
}

// CloneUnits deep-copies a unit slice
func CloneUnits(units []SessionUnit) []SessionUnit {
	out := make([]SessionUnit, len(units))
	for i, u := range units {
		out[i] = u.Clone()
	}
	return out
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// MirrorAvoid returns a copy of entrants whose avoid sets are symmetric:
// if a avoids b, b also avoids a. Unknown ids are left alone.
func MirrorAvoid(entrants []Entrant) []Entrant {
	index := make(map[string]int, len(entrants))
	out := make([]Entrant, len(entrants))
	for i, e := range entrants {
		e.Avoid = append([]string(nil), e.Avoid...)
		out[i] = e
		index[e.ID] = i
	}
	for i := range out {
		for _, other := range out[i].Avoid {
			j, ok := index[other]
			if !ok || j == i || out[j].Avoids(out[i].ID) {
				continue
			}
			out[j].Avoid = append(out[j].Avoid, out[i].ID)
		}
	}
	return out
}
