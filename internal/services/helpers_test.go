package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/scheduler"
	"github.com/abrezinsky/judgesched/internal/services"
	"github.com/abrezinsky/judgesched/internal/testutil"
)

// sequentialIDs returns an id source yielding prefix1, prefix2, ...
func sequentialIDs(prefix string) scheduler.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// recordingBroadcaster captures broadcast messages
type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []models.WSMessage
}

func (b *recordingBroadcaster) BroadcastMessage(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, models.WSMessage{Type: msgType, Payload: payload})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	for i, m := range b.messages {
		out[i] = m.Type
	}
	return out
}

type fixture struct {
	repo     *repository.Repository
	settings *services.SettingsService
	entrants *services.EntrantService
	judges   *services.JudgeService
	schedule *services.ScheduleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	log := logger.Nop()
	settings := services.NewSettingsService(log, repo, models.DefaultSettings(), "http://localhost:8080")
	entrants := services.NewEntrantService(log, repo)
	entrants.SetIDFunc(sequentialIDs("u"))
	schedule := services.NewScheduleService(log, repo, settings, nil)
	schedule.SetIDFunc(sequentialIDs("p"))
	judges := services.NewJudgeService(log, repo, settings)
	entrants.ShareUnitLock(schedule.UnitLock())
	judges.ShareUnitLock(schedule.UnitLock())
	settings.ShareUnitLock(schedule.UnitLock())
	return &fixture{
		repo:     repo,
		settings: settings,
		entrants: entrants,
		judges:   judges,
		schedule: schedule,
	}
}

// seed stores judges and entrants directly and derives their units
func (f *fixture) seed(t *testing.T, judges []models.Judge, entrants []models.Entrant) {
	t.Helper()
	ctx := context.Background()
	for _, j := range judges {
		if err := f.repo.SaveJudge(ctx, j); err != nil {
			t.Fatalf("SaveJudge failed: %v", err)
		}
	}
	for _, e := range entrants {
		if err := f.repo.SaveEntrant(ctx, e); err != nil {
			t.Fatalf("SaveEntrant failed: %v", err)
		}
	}
	units := scheduler.SyncUnits(nil, entrants, sequentialIDs("s"))
	if err := f.repo.ReplaceUnits(ctx, units); err != nil {
		t.Fatalf("ReplaceUnits failed: %v", err)
	}
}

// interleavingRepo runs a hook right after the next ListUnits read, letting
// a test slip a concurrent change between a service's read and its write.
type interleavingRepo struct {
	*repository.Repository
	mu   sync.Mutex
	hook func()
}

func (r *interleavingRepo) ListUnits(ctx context.Context) ([]models.SessionUnit, error) {
	units, err := r.Repository.ListUnits(ctx)
	r.mu.Lock()
	hook := r.hook
	r.hook = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return units, err
}

// duringNextListUnits starts fn in its own goroutine after the next
// ListUnits read and gives it a moment to finish before the read returns.
// The returned func blocks until fn has completed.
func (r *interleavingRepo) duringNextListUnits(fn func()) (wait func()) {
	done := make(chan struct{})
	r.mu.Lock()
	r.hook = func() {
		go func() {
			defer close(done)
			fn()
		}()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}
	r.mu.Unlock()
	return func() { <-done }
}

// newInterleavedFixture is newFixture with the schedule service reading
// units through an interleavingRepo
func newInterleavedFixture(t *testing.T) (*fixture, *interleavingRepo) {
	t.Helper()
	f := newFixture(t)
	hooked := &interleavingRepo{Repository: f.repo}
	log := logger.Nop()
	f.schedule = services.NewScheduleService(log, hooked, f.settings, nil)
	f.schedule.SetIDFunc(sequentialIDs("p"))
	f.entrants.ShareUnitLock(f.schedule.UnitLock())
	f.judges.ShareUnitLock(f.schedule.UnitLock())
	f.settings.ShareUnitLock(f.schedule.UnitLock())
	return f, hooked
}
