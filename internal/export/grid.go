package export

import (
	"fmt"

	"github.com/abrezinsky/judgesched/internal/models"
)

// Cell is one judge's occupancy at one slot
type Cell struct {
	UnitID      string `json:"unit_id"`
	EntrantID   string `json:"entrant_id"`
	EntrantName string `json:"entrant_name"`
	Sequence    int    `json:"sequence"` // -1 for single-unit formats
	Start       bool   `json:"start"`    // first slot of the unit
}

// Label renders the cell for display, e.g. "Choir 2/3"
func (c Cell) Label() string {
	if c.Sequence < 0 {
		return c.EntrantName
	}
	return fmt.Sprintf("%s %d/3", c.EntrantName, c.Sequence+1)
}

// Row is one time slot across every judge column
type Row struct {
	Slot  int     `json:"slot"`
	Clock string  `json:"clock"`
	Cells []*Cell `json:"cells"` // nil where the judge is idle
}

// Grid is the schedule laid out as slot rows by judge columns
type Grid struct {
	Judges []models.Judge `json:"judges"`
	Rows   []Row          `json:"rows"`
}

// BuildGrid lays out scheduled units. Units on unknown judges are left out.
// When two units overlap on one judge the earlier unit in the list wins.
func BuildGrid(units []models.SessionUnit, judges []models.Judge, s models.Settings) Grid {
	col := make(map[string]int, len(judges))
	for i, j := range judges {
		col[j.ID] = i
	}

	end := 0
	for _, u := range units {
		if _, ok := col[u.JudgeID]; !ok || !u.Scheduled {
			continue
		}
		if e := u.Slot() + s.SlotsFor(u.Format); e > end {
			end = e
		}
	}

	g := Grid{Judges: judges, Rows: make([]Row, end)}
	for slot := range g.Rows {
		g.Rows[slot] = Row{Slot: slot, Clock: s.SlotClock(slot), Cells: make([]*Cell, len(judges))}
	}

	for _, u := range units {
		c, ok := col[u.JudgeID]
		if !ok || !u.Scheduled {
			continue
		}
		start := u.Slot()
		for slot := start; slot < start+s.SlotsFor(u.Format); slot++ {
			if g.Rows[slot].Cells[c] != nil {
				continue
			}
			g.Rows[slot].Cells[c] = &Cell{
				UnitID:      u.ID,
				EntrantID:   u.EntrantID,
				EntrantName: u.EntrantName,
				Sequence:    u.SequenceIndex(),
				Start:       slot == start,
			}
		}
	}
	return g
}
