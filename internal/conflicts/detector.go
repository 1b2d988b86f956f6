package conflicts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
)

// Snapshot is a realized schedule to audit
type Snapshot struct {
	Units    []models.SessionUnit
	Judges   []models.Judge
	Entrants []models.Entrant
	Settings models.Settings
}

// Detector audits schedules. It keeps no state between calls, so Detect
// may run concurrently on different snapshots.
type Detector struct {
	log logger.Logger
}

// NewDetector creates a Detector
func NewDetector(log logger.Logger) *Detector {
	if log == nil {
		log = logger.Nop()
	}
	return &Detector{log: log}
}

type placed struct {
	unit    models.SessionUnit
	entrant models.Entrant
	judge   models.Judge
	start   int
	end     int
}

func (p placed) overlaps(o placed) bool {
	return p.start < o.end && o.start < p.end
}

// gap returns the idle slots between two non-overlapping units
func (p placed) gap(o placed) int {
	if p.end <= o.start {
		return o.start - p.end
	}
	return p.start - o.end
}

type collector struct {
	index map[string]int
	out   []models.ConflictDetail
}

func (c *collector) add(d models.ConflictDetail, unitIDs ...string) {
	if i, ok := c.index[d.Key]; ok {
		c.out[i].UnitIDs = appendMissing(c.out[i].UnitIDs, unitIDs...)
		return
	}
	d.UnitIDs = appendMissing(nil, unitIDs...)
	c.index[d.Key] = len(c.out)
	c.out = append(c.out, d)
}

func appendMissing(ids []string, add ...string) []string {
	for _, id := range add {
		found := false
		for _, have := range ids {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			ids = append(ids, id)
		}
	}
	return ids
}

// Detect returns every conflict in the snapshot, each reported once under a
// stable key. Output order follows the first unit that exhibits each
// conflict, then judge overtime in judge order, then late finish. An empty
// or clean schedule yields nil.
func (d *Detector) Detect(s Snapshot) []models.ConflictDetail {
	units := d.realize(s)
	if len(units) == 0 {
		return nil
	}

	c := &collector{index: make(map[string]int)}
	for i, u := range units {
		for k, v := range units {
			if i == k {
				continue
			}
			if u.entrant.ID == v.entrant.ID {
				d.sameEntrant(c, u, v)
				continue
			}
			d.room(c, s.Settings, u, v)
			d.avoid(c, u, v)
		}
	}
	d.overtime(c, s, units)
	d.lateFinish(c, s.Settings, units)
	return c.out
}

// realize keeps scheduled units whose entrant and judge are known
func (d *Detector) realize(s Snapshot) []placed {
	entrants := make(map[string]models.Entrant, len(s.Entrants))
	for _, e := range s.Entrants {
		entrants[e.ID] = e
	}
	judges := make(map[string]models.Judge, len(s.Judges))
	for _, j := range s.Judges {
		judges[j.ID] = j
	}

	var out []placed
	for _, u := range s.Units {
		if !u.Scheduled || !u.Consistent() {
			continue
		}
		e, ok := entrants[u.EntrantID]
		if !ok {
			d.log.Warn("Skipping unit for unknown entrant", "unit_id", u.ID, "entrant_id", u.EntrantID)
			continue
		}
		j, ok := judges[u.JudgeID]
		if !ok {
			d.log.Warn("Skipping unit for unknown judge", "unit_id", u.ID, "judge_id", u.JudgeID)
			continue
		}
		start := u.Slot()
		out = append(out, placed{
			unit:    u,
			entrant: e,
			judge:   j,
			start:   start,
			end:     start + s.Settings.SlotsFor(u.Format),
		})
	}
	return out
}

func (d *Detector) sameEntrant(c *collector, u, v placed) {
	if u.overlaps(v) {
		c.add(models.ConflictDetail{
			Key:         "double_booking:" + u.entrant.ID,
			Kind:        models.ConflictDoubleBooking,
			Severity:    models.SeverityHard,
			EntrantID:   u.entrant.ID,
			EntrantName: u.entrant.Name,
			Message:     fmt.Sprintf("%s is booked for overlapping sessions", u.entrant.Name),
		}, u.unit.ID, v.unit.ID)
	}

	cat := u.judge.Category
	if cat != models.CategoryNone && cat == v.judge.Category {
		c.add(models.ConflictDetail{
			Key:         fmt.Sprintf("category_repeat:%s:%s", u.entrant.ID, cat),
			Kind:        models.ConflictCategoryRepeat,
			Severity:    models.SeveritySoft,
			EntrantID:   u.entrant.ID,
			EntrantName: u.entrant.Name,
			Category:    cat,
			Message:     fmt.Sprintf("%s sees more than one category %s judge", u.entrant.Name, cat),
		}, u.unit.ID, v.unit.ID)
	}
}

// roomOf returns where a unit takes place under the moving mode
func roomOf(mode models.MovingMode, p placed) string {
	if mode == models.EntrantsMove {
		return p.judge.Room
	}
	return p.entrant.Room
}

func pairKey(kind models.ConflictKind, scope, a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strings.Join([]string{string(kind), scope, a, b}, ":")
}

func (d *Detector) room(c *collector, s models.Settings, u, v placed) {
	room := roomOf(s.Moving, u)
	if room == "" || room != roomOf(s.Moving, v) {
		return
	}
	// A judge's own sessions in their room are serialized by the grid.
	if s.Moving == models.EntrantsMove && u.judge.ID == v.judge.ID {
		return
	}

	detail := models.ConflictDetail{
		EntrantID:        u.entrant.ID,
		EntrantName:      u.entrant.Name,
		OtherEntrantID:   v.entrant.ID,
		OtherEntrantName: v.entrant.Name,
		Room:             room,
	}
	if u.entrant.ID > v.entrant.ID {
		detail.EntrantID, detail.OtherEntrantID = v.entrant.ID, u.entrant.ID
		detail.EntrantName, detail.OtherEntrantName = v.entrant.Name, u.entrant.Name
	}

	switch {
	case u.overlaps(v):
		detail.Kind = models.ConflictRoomOverlap
		detail.Key = pairKey(detail.Kind, room, u.entrant.ID, v.entrant.ID)
		detail.Severity = models.SeverityHard
		if short := s.ShortestMinutes(); s.MinutesFor(u.unit.Format) == short && s.MinutesFor(v.unit.Format) == short {
			detail.Severity = models.SeveritySoft
		}
		detail.Message = fmt.Sprintf("%s and %s overlap in %s", detail.EntrantName, detail.OtherEntrantName, room)
	case u.gap(v) < s.TurnoverSlots:
		detail.Kind = models.ConflictRoomTurnover
		detail.Key = pairKey(detail.Kind, room, u.entrant.ID, v.entrant.ID)
		detail.Severity = models.SeveritySoft
		detail.Message = fmt.Sprintf("%s and %s change over in %s without a turnover gap", detail.EntrantName, detail.OtherEntrantName, room)
	default:
		return
	}
	c.add(detail, u.unit.ID, v.unit.ID)
}

func (d *Detector) avoid(c *collector, u, v placed) {
	if !u.entrant.Avoids(v.entrant.ID) || !u.overlaps(v) {
		return
	}
	c.add(models.ConflictDetail{
		Key:              pairKey(models.ConflictAvoidOverlap, "", u.entrant.ID, v.entrant.ID),
		Kind:             models.ConflictAvoidOverlap,
		Severity:         models.SeverityHard,
		EntrantID:        u.entrant.ID,
		EntrantName:      u.entrant.Name,
		OtherEntrantID:   v.entrant.ID,
		OtherEntrantName: v.entrant.Name,
		Message:          fmt.Sprintf("%s is scheduled at the same time as %s", u.entrant.Name, v.entrant.Name),
	}, u.unit.ID, v.unit.ID)
}

func (d *Detector) overtime(c *collector, s Snapshot, units []placed) {
	if s.Settings.OvertimeMinutes <= 0 {
		return
	}
	minutes := make(map[string]int)
	ids := make(map[string][]string)
	for _, p := range units {
		minutes[p.judge.ID] += s.Settings.MinutesFor(p.unit.Format)
		ids[p.judge.ID] = append(ids[p.judge.ID], p.unit.ID)
	}
	for _, j := range s.Judges {
		total := minutes[j.ID]
		if total <= s.Settings.OvertimeMinutes {
			continue
		}
		c.add(models.ConflictDetail{
			Key:          "judge_overtime:" + j.ID,
			Kind:         models.ConflictJudgeOvertime,
			Severity:     models.SeveritySoft,
			JudgeID:      j.ID,
			JudgeName:    j.Name,
			TotalMinutes: total,
			Message:      fmt.Sprintf("%s is booked for %d minutes (limit %d)", j.Name, total, s.Settings.OvertimeMinutes),
		}, ids[j.ID]...)
	}
}

func (d *Detector) lateFinish(c *collector, s models.Settings, units []placed) {
	if s.LateFinish <= 0 {
		return
	}
	latest := 0
	var late []placed
	for _, p := range units {
		end := s.SlotMinute(p.end)
		if end > latest {
			latest = end
		}
		if end > s.LateFinish {
			late = append(late, p)
		}
	}
	if latest <= s.LateFinish {
		return
	}
	sort.SliceStable(late, func(i, k int) bool { return late[i].end > late[k].end })
	ids := make([]string, len(late))
	for i, p := range late {
		ids[i] = p.unit.ID
	}
	clock := models.FormatClock(latest)
	c.add(models.ConflictDetail{
		Key:      "late_finish",
		Kind:     models.ConflictLateFinish,
		Severity: models.SeveritySoft,
		EndClock: clock,
		Message:  fmt.Sprintf("Schedule runs until %s, past %s", clock, models.FormatClock(s.LateFinish)),
	}, ids...)
}

// Summary counts conflicts by severity and kind
type Summary struct {
	Hard   int                         `json:"hard"`
	Soft   int                         `json:"soft"`
	ByKind map[models.ConflictKind]int `json:"by_kind"`
}

// Summarize tallies a conflict list
func Summarize(list []models.ConflictDetail) Summary {
	s := Summary{ByKind: make(map[models.ConflictKind]int)}
	for _, c := range list {
		if c.Severity == models.SeverityHard {
			s.Hard++
		} else {
			s.Soft++
		}
		s.ByKind[c.Kind]++
	}
	return s
}
