package models

import (
	"fmt"

	"github.com/abrezinsky/judgesched/internal/errors"
)

// MovingMode says who changes rooms between sessions
type MovingMode string

const (
	// JudgesMove sends judges to the entrants' rooms
	JudgesMove MovingMode = "judges_move"
	// EntrantsMove sends entrants to the judges' rooms
	EntrantsMove MovingMode = "entrants_move"
)

// DefaultQuantumMinutes is the width of one grid slot
const DefaultQuantumMinutes = 5

// Settings configures the time grid and the conflict thresholds.
// Clock values are minutes after midnight.
type Settings struct {
	QuantumMinutes  int                   `json:"quantum_minutes"`
	Durations       map[SessionFormat]int `json:"durations"`
	EventStart      int                   `json:"event_start"`
	Moving          MovingMode            `json:"moving"`
	TurnoverSlots   int                   `json:"turnover_slots"`
	LateFinish      int                   `json:"late_finish"`
	OvertimeMinutes int                   `json:"overtime_minutes"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		QuantumMinutes: DefaultQuantumMinutes,
		Durations: map[SessionFormat]int{
			FormatLongSingle:    60,
			FormatThreeByTwenty: 20,
			FormatThreeByTen:    10,
		},
		EventStart:      9 * 60,
		Moving:          JudgesMove,
		TurnoverSlots:   1,
		LateFinish:      21 * 60,
		OvertimeMinutes: 120,
	}
}

// Validate checks that every duration is a positive multiple of the quantum
func (s Settings) Validate() error {
	if s.QuantumMinutes <= 0 {
		return errors.Validationf("quantum must be positive, got %d", s.QuantumMinutes)
	}
	for _, f := range Formats {
		d, ok := s.Durations[f]
		if !ok {
			return errors.Validationf("missing duration for %s", f)
		}
		if d <= 0 || d%s.QuantumMinutes != 0 {
			return errors.Validationf("duration for %s must be a positive multiple of %d minutes, got %d", f, s.QuantumMinutes, d)
		}
	}
	switch s.Moving {
	case JudgesMove, EntrantsMove:
	default:
		return errors.Validationf("unknown moving mode %q", s.Moving)
	}
	if s.TurnoverSlots < 0 {
		return errors.Validation("turnover slots cannot be negative")
	}
	return nil
}

// SlotsFor converts a format's duration into grid slots
func (s Settings) SlotsFor(f SessionFormat) int {
	if s.QuantumMinutes <= 0 {
		return 0
	}
	return s.Durations[f.OrDefault()] / s.QuantumMinutes
}

// MinutesFor returns the configured duration of a format
func (s Settings) MinutesFor(f SessionFormat) int {
	return s.Durations[f.OrDefault()]
}

// ShortestMinutes returns the smallest configured format duration, or 0
// when no format has a duration
func (s Settings) ShortestMinutes() int {
	shortest := 0
	for _, f := range Formats {
		if d := s.Durations[f]; d > 0 && (shortest == 0 || d < shortest) {
			shortest = d
		}
	}
	return shortest
}

// SlotMinute returns the clock minute (after midnight) at which slot begins
func (s Settings) SlotMinute(slot int) int {
	return s.EventStart + slot*s.QuantumMinutes
}

// SlotClock formats the start of a slot as HH:MM
func (s Settings) SlotClock(slot int) string {
	return FormatClock(s.SlotMinute(slot))
}

// FormatClock renders minutes after midnight as HH:MM
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", (minute/60)%24, minute%60)
}
