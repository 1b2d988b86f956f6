package scheduler

import (
	"sort"

	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
)

// Input is everything a populate pass reads
type Input struct {
	Entrants []models.Entrant
	Judges   []models.Judge
	Settings models.Settings
	Units    []models.SessionUnit
}

// Result is a populated unit set plus diagnostics about how it was built
type Result struct {
	Units      []models.SessionUnit `json:"units"`
	Pods       []Pod                `json:"pods"`
	Triads     int                  `json:"triads"`
	Placements []Placement          `json:"placements"`
	Unplaced   []string             `json:"unplaced,omitempty"`
	Offset     int                  `json:"offset"`
	Matrix     Matrix               `json:"-"`
	JudgeIDs   []string             `json:"judge_ids"`
}

// Scheduler fills the grid. It holds no state between calls.
type Scheduler struct {
	log   logger.Logger
	newID IDFunc
}

// New creates a Scheduler that mints unit ids with uuid
func New(log logger.Logger) *Scheduler {
	return NewWithIDFunc(log, NewUnitID)
}

// NewWithIDFunc creates a Scheduler with a custom unit id source
func NewWithIDFunc(log logger.Logger, newID IDFunc) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if newID == nil {
		newID = NewUnitID
	}
	return &Scheduler{log: log, newID: newID}
}

type run struct {
	judge int
	start int
}

// Populate places every included entrant that has nothing scheduled yet.
// Existing placements are kept and new sessions start after the latest
// scheduled end.
func (s *Scheduler) Populate(in Input) Result {
	entrants := make(map[string]models.Entrant, len(in.Entrants))
	for _, e := range in.Entrants {
		entrants[e.ID] = e
	}
	judgeIndex := make(map[string]bool, len(in.Judges))
	for _, j := range in.Judges {
		judgeIndex[j.ID] = true
	}
	for _, u := range in.Units {
		if _, ok := entrants[u.EntrantID]; !ok {
			s.log.Warn("Skipping unit for unknown entrant", "unit_id", u.ID, "entrant_id", u.EntrantID)
		}
	}

	units := SyncUnits(in.Units, in.Entrants, s.newID)

	offset := 0
	started := make(map[string]bool)
	for _, u := range units {
		if !u.Scheduled {
			continue
		}
		if !judgeIndex[u.JudgeID] {
			s.log.Warn("Scheduled unit references unknown judge", "unit_id", u.ID, "judge_id", u.JudgeID)
			continue
		}
		started[u.EntrantID] = true
		if end := u.Slot() + in.Settings.SlotsFor(u.Format); end > offset {
			offset = end
		}
	}

	var pending []models.Entrant
	countA, countB, long := 0, 0, 0
	for _, e := range in.Entrants {
		if !e.Included || started[e.ID] {
			continue
		}
		pending = append(pending, e)
		switch e.Format.OrDefault() {
		case TypeA:
			countA++
		case TypeB:
			countB++
		case models.FormatLongSingle:
			long++
		}
	}

	var active []models.Judge
	for _, j := range in.Judges {
		if j.Active {
			active = append(active, j)
		}
	}

	pods := PartitionPods(countA, countB)
	lanes, _ := BuildPodLanes(pods, in.Settings, 1)
	m := NewMatrix(len(active))
	m = AssignPodsToTriads(m, lanes)
	m = TrimTrailingByes(m)
	m = PackLongSessions(m, long, in.Settings.SlotsFor(models.FormatLongSingle))

	judgeIDs := ResolveJudges(len(active), m.Triads, active, pending)
	placements, unplaced := ResolveGroups(m, judgeIDs, pending)

	runs := groupRuns(m)
	unitIdx := make(map[string][]int)
	for i, u := range units {
		unitIdx[u.EntrantID] = append(unitIdx[u.EntrantID], i)
	}

	placed := 0
	for _, p := range placements {
		idx := unitIdx[p.EntrantID]
		sort.SliceStable(idx, func(a, b int) bool {
			return units[idx[a]].SequenceIndex() < units[idx[b]].SequenceIndex()
		})
		visits := runs[p.Group]
		if len(visits) != len(idx) {
			s.log.Warn("Group visit count does not match units",
				"entrant_id", p.EntrantID, "group", p.Group, "visits", len(visits), "units", len(idx))
		}
		for k := 0; k < len(idx) && k < len(visits); k++ {
			v := visits[k]
			units[idx[k]].Assign(judgeIDs[v.judge], offset+v.start)
			placed++
		}
		s.log.Debug("Placed entrant", "entrant_id", p.EntrantID, "group", p.Group, "tier", p.Tier.String())
	}
	for _, id := range unplaced {
		s.log.Warn("No group available for entrant", "entrant_id", id)
	}

	s.log.Info("Populated schedule",
		"pending", len(pending),
		"pods", len(pods),
		"triads", m.Triads,
		"long", long,
		"units_placed", placed,
		"unplaced", len(unplaced),
		"offset", offset)

	return Result{
		Units:      units,
		Pods:       pods,
		Triads:     m.Triads,
		Placements: placements,
		Unplaced:   unplaced,
		Offset:     offset,
		Matrix:     m,
		JudgeIDs:   judgeIDs,
	}
}

// groupRuns finds, for every group number, the contiguous slot runs that
// carry it, ordered by start slot then judge position.
func groupRuns(m Matrix) map[int][]run {
	out := make(map[int][]run)
	for j, seq := range m.Sequences {
		for i := 0; i < len(seq); i++ {
			g := seq[i]
			if g == Bye {
				continue
			}
			if i > 0 && seq[i-1] == g {
				continue
			}
			out[g] = append(out[g], run{judge: j, start: i})
		}
	}
	for g := range out {
		rs := out[g]
		sort.Slice(rs, func(a, b int) bool {
			if rs[a].start != rs[b].start {
				return rs[a].start < rs[b].start
			}
			return rs[a].judge < rs[b].judge
		})
	}
	return out
}

// Clear returns a copy of units with every placement removed
func Clear(units []models.SessionUnit) []models.SessionUnit {
	out := models.CloneUnits(units)
	for i := range out {
		out[i].Unassign()
	}
	return out
}
