package models

// ConflictKind identifies what rule a conflict breaks
type ConflictKind string

const (
	ConflictDoubleBooking  ConflictKind = "double_booking"
	ConflictCategoryRepeat ConflictKind = "category_repeat"
	ConflictRoomOverlap    ConflictKind = "room_overlap"
	ConflictRoomTurnover   ConflictKind = "room_turnover"
	ConflictAvoidOverlap   ConflictKind = "avoid_overlap"
	ConflictJudgeOvertime  ConflictKind = "judge_overtime"
	ConflictLateFinish     ConflictKind = "late_finish"
)

// Severity grades a conflict
type Severity string

const (
	SeverityHard Severity = "hard"
	SeveritySoft Severity = "soft"
)

// ConflictDetail describes one detected schedule problem. Which fields are
// set depends on Kind.
type ConflictDetail struct {
	Key              string       `json:"key"`
	Kind             ConflictKind `json:"kind"`
	Severity         Severity     `json:"severity"`
	EntrantID        string       `json:"entrant_id,omitempty"`
	EntrantName      string       `json:"entrant_name,omitempty"`
	OtherEntrantID   string       `json:"other_entrant_id,omitempty"`
	OtherEntrantName string       `json:"other_entrant_name,omitempty"`
	JudgeID          string       `json:"judge_id,omitempty"`
	JudgeName        string       `json:"judge_name,omitempty"`
	Room             string       `json:"room,omitempty"`
	Category         Category     `json:"category,omitempty"`
	TotalMinutes     int          `json:"total_minutes,omitempty"`
	EndClock         string       `json:"end_clock,omitempty"`
	UnitIDs          []string     `json:"unit_ids,omitempty"`
	Message          string       `json:"message"`
}
