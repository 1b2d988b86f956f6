package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/abrezinsky/judgesched/internal/conflicts"
	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/export"
	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/metrics"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/scheduler"
)

// ScheduleService runs the scheduler and the conflict detector against the
// stored roster. Mutations are serialized on the unit lock, which services
// that rewrite session units share through UnitLock.
type ScheduleService struct {
	log         logger.Logger
	repo        repository.FullRepository
	settings    SettingsServicer
	scheduler   *scheduler.Scheduler
	detector    *conflicts.Detector
	metrics     *metrics.Metrics
	broadcaster Broadcaster
	views       *cache.Cache
	mu          *sync.Mutex
}

// judgeViewTTL bounds how stale a judge's schedule card can get when the
// database is changed by another process.
const judgeViewTTL = 30 * time.Second

// NewScheduleService creates a new ScheduleService. m may be nil.
func NewScheduleService(log logger.Logger, repo repository.FullRepository, settings SettingsServicer, m *metrics.Metrics) *ScheduleService {
	return &ScheduleService{
		log:       log,
		repo:      repo,
		settings:  settings,
		scheduler: scheduler.New(log),
		detector:  conflicts.NewDetector(log),
		metrics:   m,
		views:     cache.New(judgeViewTTL, 10*time.Minute),
		mu:        &sync.Mutex{},
	}
}

// UnitLock returns the lock guarding every read-modify-write of the stored
// session units
func (s *ScheduleService) UnitLock() *sync.Mutex {
	return s.mu
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ScheduleService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetIDFunc overrides how new unit ids are minted during populate
func (s *ScheduleService) SetIDFunc(newID scheduler.IDFunc) {
	s.scheduler = scheduler.NewWithIDFunc(s.log, newID)
}

// PopulateResult summarizes a populate run
type PopulateResult struct {
	Placements  []scheduler.Placement `json:"placements"`
	Unplaced    []string              `json:"unplaced"`
	Triads      int                   `json:"triads"`
	Offset      int                   `json:"offset"`
	UnitsPlaced int                   `json:"units_placed"`
	Conflicts   conflicts.Summary     `json:"conflicts"`
}

// Schedule is the current schedule with its conflict summary
type Schedule struct {
	Units     []models.SessionUnit `json:"units"`
	Grid      export.Grid          `json:"grid"`
	Conflicts conflicts.Summary    `json:"conflicts"`
}

// JudgeSlot is one entry on a judge's schedule card
type JudgeSlot struct {
	UnitID      string `json:"unit_id"`
	EntrantID   string `json:"entrant_id"`
	EntrantName string `json:"entrant_name"`
	Room        string `json:"room"`
	Sequence    int    `json:"sequence"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

// JudgeSchedule lists a judge's sessions in time order
type JudgeSchedule struct {
	Judge    models.Judge `json:"judge"`
	Sessions []JudgeSlot  `json:"sessions"`
}

func (s *ScheduleService) snapshot(ctx context.Context) (conflicts.Snapshot, error) {
	var snap conflicts.Snapshot
	var err error
	if snap.Entrants, err = s.repo.ListEntrants(ctx); err != nil {
		return snap, err
	}
	if snap.Judges, err = s.repo.ListJudges(ctx); err != nil {
		return snap, err
	}
	if snap.Units, err = s.repo.ListUnits(ctx); err != nil {
		return snap, err
	}
	if snap.Settings, err = s.settings.ScheduleSettings(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// Populate places every included entrant that has nothing scheduled yet
func (s *ScheduleService) Populate(ctx context.Context) (*PopulateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := snap.Settings.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := s.scheduler.Populate(scheduler.Input{
		Entrants: snap.Entrants,
		Judges:   snap.Judges,
		Settings: snap.Settings,
		Units:    snap.Units,
	})
	elapsed := time.Since(start)

	if err := s.repo.ReplaceUnits(ctx, res.Units); err != nil {
		return nil, err
	}

	placedEntrants := make(map[string]bool, len(res.Placements))
	tiers := make([]string, len(res.Placements))
	for i, p := range res.Placements {
		placedEntrants[p.EntrantID] = true
		tiers[i] = p.Tier.String()
	}
	placed := 0
	for _, u := range res.Units {
		if u.Scheduled && placedEntrants[u.EntrantID] {
			placed++
		}
	}
	if s.metrics != nil {
		s.metrics.ObservePopulate(elapsed, placed, tiers)
	}

	snap.Units = res.Units
	summary := s.afterMutation(snap, "populate")
	return &PopulateResult{
		Placements:  res.Placements,
		Unplaced:    res.Unplaced,
		Triads:      res.Triads,
		Offset:      res.Offset,
		UnitsPlaced: placed,
		Conflicts:   summary,
	}, nil
}

// Clear unschedules every unit
func (s *ScheduleService) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", func(units []models.SessionUnit) ([]models.SessionUnit, error) {
		return scheduler.Clear(units), nil
	})
}

// MoveUnit places a unit on a judge at a slot
func (s *ScheduleService) MoveUnit(ctx context.Context, unitID, judgeID string, slot int) (*models.SessionUnit, error) {
	if slot < 0 {
		return nil, errors.Validationf("slot must not be negative, got %d", slot)
	}
	if _, err := s.repo.GetJudge(ctx, judgeID); err == repository.ErrNotFound {
		return nil, errors.NotFoundf("judge %s not found", judgeID)
	} else if err != nil {
		return nil, err
	}

	var moved models.SessionUnit
	err := s.mutate(ctx, "move", func(units []models.SessionUnit) ([]models.SessionUnit, error) {
		i, err := findUnit(units, unitID)
		if err != nil {
			return nil, err
		}
		units[i].Assign(judgeID, slot)
		moved = units[i]
		return units, nil
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// UnscheduleUnit removes a unit's placement
func (s *ScheduleService) UnscheduleUnit(ctx context.Context, unitID string) error {
	return s.mutate(ctx, "unschedule", func(units []models.SessionUnit) ([]models.SessionUnit, error) {
		i, err := findUnit(units, unitID)
		if err != nil {
			return nil, err
		}
		units[i].Unassign()
		return units, nil
	})
}

// SwapUnits exchanges the placements of two units
func (s *ScheduleService) SwapUnits(ctx context.Context, a, b string) error {
	if a == b {
		return ErrSameUnit
	}
	return s.mutate(ctx, "swap", func(units []models.SessionUnit) ([]models.SessionUnit, error) {
		i, err := findUnit(units, a)
		if err != nil {
			return nil, err
		}
		k, err := findUnit(units, b)
		if err != nil {
			return nil, err
		}
		ui, uk := units[i].Clone(), units[k].Clone()
		units[i].Assign(uk.JudgeID, uk.Slot())
		units[k].Assign(ui.JudgeID, ui.Slot())
		return units, nil
	})
}

// Refresh re-audits the stored schedule and notifies clients. Roster
// changes made outside this service call it.
func (s *ScheduleService) Refresh(ctx context.Context, operation string) (conflicts.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return conflicts.Summary{}, err
	}
	return s.afterMutation(snap, operation), nil
}

// Conflicts audits the stored schedule
func (s *ScheduleService) Conflicts(ctx context.Context) ([]models.ConflictDetail, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(snap), nil
}

// Schedule returns all units, the slot grid and the conflict summary
func (s *ScheduleService) Schedule(ctx context.Context) (*Schedule, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Schedule{
		Units:     snap.Units,
		Grid:      export.BuildGrid(snap.Units, snap.Judges, snap.Settings),
		Conflicts: conflicts.Summarize(s.detector.Detect(snap)),
	}, nil
}

// Grid returns the slot-by-judge view of the stored schedule
func (s *ScheduleService) Grid(ctx context.Context) (export.Grid, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return export.Grid{}, err
	}
	return export.BuildGrid(snap.Units, snap.Judges, snap.Settings), nil
}

// JudgeSchedule returns one judge's sessions ordered by start time. Results
// are cached until the next mutation or refresh.
func (s *ScheduleService) JudgeSchedule(ctx context.Context, judgeID string) (*JudgeSchedule, error) {
	if v, ok := s.views.Get(judgeID); ok {
		return v.(*JudgeSchedule), nil
	}

	// Built and stored under the unit lock so a concurrent mutation cannot
	// flush the cache between the read and the store.
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.views.Get(judgeID); ok {
		return v.(*JudgeSchedule), nil
	}
	out, err := s.buildJudgeSchedule(ctx, judgeID)
	if err != nil {
		return nil, err
	}
	s.views.SetDefault(judgeID, out)
	return out, nil
}

func (s *ScheduleService) buildJudgeSchedule(ctx context.Context, judgeID string) (*JudgeSchedule, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var judge *models.Judge
	for i := range snap.Judges {
		if snap.Judges[i].ID == judgeID {
			judge = &snap.Judges[i]
			break
		}
	}
	if judge == nil {
		return nil, errors.NotFoundf("judge %s not found", judgeID)
	}

	rooms := make(map[string]string, len(snap.Entrants))
	for _, e := range snap.Entrants {
		rooms[e.ID] = e.Room
	}
	if snap.Settings.Moving == models.EntrantsMove {
		for id := range rooms {
			rooms[id] = judge.Room
		}
	}

	var own []models.SessionUnit
	for _, u := range snap.Units {
		if u.Scheduled && u.JudgeID == judgeID {
			own = append(own, u)
		}
	}
	sort.SliceStable(own, func(i, k int) bool { return own[i].Slot() < own[k].Slot() })

	out := &JudgeSchedule{Judge: *judge, Sessions: []JudgeSlot{}}
	for _, u := range own {
		out.Sessions = append(out.Sessions, JudgeSlot{
			UnitID:      u.ID,
			EntrantID:   u.EntrantID,
			EntrantName: u.EntrantName,
			Room:        rooms[u.EntrantID],
			Sequence:    u.SequenceIndex() + 1,
			Start:       snap.Settings.SlotClock(u.Slot()),
			End:         snap.Settings.SlotClock(u.Slot() + snap.Settings.SlotsFor(u.Format)),
		})
	}
	return out, nil
}

// ExportWorkbook writes the grid and conflict list as an xlsx workbook
func (s *ScheduleService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	grid := export.BuildGrid(snap.Units, snap.Judges, snap.Settings)
	return export.Write(w, grid, s.detector.Detect(snap))
}

// mutate loads every unit, applies fn and stores the result
func (s *ScheduleService) mutate(ctx context.Context, operation string, fn func([]models.SessionUnit) ([]models.SessionUnit, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	units, err := fn(models.CloneUnits(snap.Units))
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceUnits(ctx, units); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.CountMutation(operation)
	}
	snap.Units = units
	s.afterMutation(snap, operation)
	return nil
}

// afterMutation audits snap, updates the conflict gauges and tells clients
func (s *ScheduleService) afterMutation(snap conflicts.Snapshot, operation string) conflicts.Summary {
	s.views.Flush()
	found := s.detector.Detect(snap)
	summary := conflicts.Summarize(found)
	if s.metrics != nil {
		s.metrics.SetConflicts(found)
	}
	s.log.Info("Schedule updated", "operation", operation, "hard", summary.Hard, "soft", summary.Soft)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage("schedule_updated", map[string]interface{}{
			"operation": operation,
			"conflicts": summary,
		})
	}
	return summary
}

func findUnit(units []models.SessionUnit, id string) (int, error) {
	for i, u := range units {
		if u.ID == id {
			return i, nil
		}
	}
	return -1, errors.NotFoundf("unit %s not found", id)
}
