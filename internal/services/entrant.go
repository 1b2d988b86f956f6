package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/scheduler"
)

// EntrantServiceRepository defines the repository methods needed by EntrantService
type EntrantServiceRepository interface {
	repository.EntrantRepository
	repository.JudgeRepository
	repository.UnitRepository
}

// EntrantService handles entrant-related business logic. Every change keeps
// the stored session units in step with the roster.
type EntrantService struct {
	log   logger.Logger
	repo  EntrantServiceRepository
	newID scheduler.IDFunc
	mu    *sync.Mutex
}

// NewEntrantService creates a new EntrantService
func NewEntrantService(log logger.Logger, repo EntrantServiceRepository) *EntrantService {
	return &EntrantService{log: log, repo: repo, newID: scheduler.NewUnitID, mu: &sync.Mutex{}}
}

// ShareUnitLock makes roster changes take the same lock as schedule
// mutations, so neither overwrites the other's session units.
func (s *EntrantService) ShareUnitLock(mu *sync.Mutex) {
	if mu != nil {
		s.mu = mu
	}
}

// SetIDFunc overrides how entrant and unit ids are minted
func (s *EntrantService) SetIDFunc(newID scheduler.IDFunc) {
	if newID != nil {
		s.newID = newID
	}
}

// ListEntrants returns all entrants in creation order
func (s *EntrantService) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	return s.repo.ListEntrants(ctx)
}

// GetEntrant returns an entrant by id
func (s *EntrantService) GetEntrant(ctx context.Context, id string) (*models.Entrant, error) {
	e, err := s.repo.GetEntrant(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("entrant %s not found", id)
	}
	return e, err
}

// CreateEntrant adds an entrant and derives its session units
func (s *EntrantService) CreateEntrant(ctx context.Context, e models.Entrant) (*models.Entrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.newID()
	}
	if _, err := s.repo.GetEntrant(ctx, e.ID); err == nil {
		return nil, errors.Conflictf("entrant %s already exists", e.ID)
	} else if err != repository.ErrNotFound {
		return nil, err
	}
	if err := s.validate(ctx, e); err != nil {
		return nil, err
	}
	if err := s.repo.SaveEntrant(ctx, e); err != nil {
		return nil, err
	}
	if err := s.mirrorAvoid(ctx, e.ID, nil, e.Avoid); err != nil {
		return nil, err
	}
	if err := s.syncUnits(ctx); err != nil {
		return nil, err
	}
	s.log.Info("Entrant created", "entrant_id", e.ID, "format", e.Format.OrDefault())
	return s.repo.GetEntrant(ctx, e.ID)
}

// UpdateEntrant replaces an entrant's fields. A format change regenerates
// its units, keeping placements whose sequence still exists.
func (s *EntrantService) UpdateEntrant(ctx context.Context, id string, e models.Entrant) (*models.Entrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.GetEntrant(ctx, id)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if err := s.validate(ctx, e); err != nil {
		return nil, err
	}
	if err := s.repo.SaveEntrant(ctx, e); err != nil {
		return nil, err
	}
	if err := s.mirrorAvoid(ctx, id, old.Avoid, e.Avoid); err != nil {
		return nil, err
	}
	if err := s.syncUnits(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetEntrant(ctx, id)
}

// DeleteEntrant removes an entrant, its units, and any avoid references to it
func (s *EntrantService) DeleteEntrant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.GetEntrant(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteEntrant(ctx, id); err != nil {
		return err
	}
	if err := s.mirrorAvoid(ctx, id, old.Avoid, nil); err != nil {
		return err
	}
	s.log.Info("Entrant deleted", "entrant_id", id)
	return nil
}

// SetIncluded adds or removes an entrant from scheduling. Excluding drops
// its units; including derives fresh ones.
func (s *EntrantService) SetIncluded(ctx context.Context, id string, included bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetEntrant(ctx, id)
	if err != nil {
		return err
	}
	e.Included = included
	if err := s.repo.SaveEntrant(ctx, *e); err != nil {
		return err
	}
	return s.syncUnits(ctx)
}

// SetFormat changes an entrant's session format
func (s *EntrantService) SetFormat(ctx context.Context, id string, format models.SessionFormat) error {
	if format != models.FormatNone && !format.Valid() {
		return errors.Validationf("unknown format %q", format)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.GetEntrant(ctx, id)
	if err != nil {
		return err
	}
	e.Format = format
	if err := s.repo.SaveEntrant(ctx, *e); err != nil {
		return err
	}
	if !e.Included {
		return nil
	}
	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return err
	}
	units = scheduler.RegenerateUnits(units, *e, s.newID)
	if err := s.repo.ReplaceUnits(ctx, units); err != nil {
		return err
	}
	s.log.Info("Entrant format changed", "entrant_id", id, "format", format.OrDefault())
	return nil
}

// SeedMock adds count generated entrants. The same seed yields the same roster.
func (s *EntrantService) SeedMock(ctx context.Context, count int, seed int64) (int, error) {
	if count < 1 || count > 200 {
		return 0, ErrInvalidSeedCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	judges, err := s.repo.ListJudges(ctx)
	if err != nil {
		return 0, err
	}
	judgeIDs := make([]string, len(judges))
	for i, j := range judges {
		judgeIDs[i] = j.ID
	}

	faker := gofakeit.New(uint64(seed))
	formats := []string{
		string(models.FormatLongSingle),
		string(models.FormatThreeByTwenty),
		string(models.FormatThreeByTen),
	}
	kinds := []string{string(models.KindSmallEnsemble), string(models.KindLargeEnsemble)}

	added := 0
	for i := 0; i < count; i++ {
		prefs := append([]string(nil), judgeIDs...)
		faker.ShuffleAnySlice(prefs)
		if n := faker.Number(0, models.MaxPreferences); n < len(prefs) {
			prefs = prefs[:n]
		}
		e := models.Entrant{
			ID:          s.newID(),
			Name:        faker.Company(),
			Kind:        models.GroupKind(faker.RandomString(kinds)),
			Format:      models.SessionFormat(faker.RandomString(formats)),
			Preferences: prefs,
			Room:        fmt.Sprintf("Room %d", faker.Number(100, 399)),
			Included:    true,
		}
		if err := s.repo.SaveEntrant(ctx, e); err != nil {
			return added, err
		}
		added++
	}
	if err := s.syncUnits(ctx); err != nil {
		return added, err
	}
	s.log.Info("Seeded mock entrants", "count", added, "seed", seed)
	return added, nil
}

func (s *EntrantService) validate(ctx context.Context, e models.Entrant) error {
	if e.Name == "" {
		return errors.Validation("entrant name is required")
	}
	if e.Format != models.FormatNone && !e.Format.Valid() {
		return errors.Validationf("unknown format %q", e.Format)
	}
	if len(e.Preferences) > models.MaxPreferences {
		return errors.Validationf("at most %d judge preferences allowed", models.MaxPreferences)
	}
	for _, id := range e.Preferences {
		if _, err := s.repo.GetJudge(ctx, id); err == repository.ErrNotFound {
			return errors.Validationf("preferred judge %s does not exist", id)
		} else if err != nil {
			return err
		}
	}
	for _, id := range e.Avoid {
		if id == e.ID {
			return errors.Validation("an entrant cannot avoid itself")
		}
		if _, err := s.repo.GetEntrant(ctx, id); err == repository.ErrNotFound {
			return errors.Validationf("avoided entrant %s does not exist", id)
		} else if err != nil {
			return err
		}
	}
	return nil
}

// mirrorAvoid keeps avoid relations symmetric after id's set changed from
// before to after.
func (s *EntrantService) mirrorAvoid(ctx context.Context, id string, before, after []string) error {
	keep := make(map[string]bool, len(after))
	for _, other := range after {
		keep[other] = true
	}
	for _, other := range after {
		if err := s.editAvoid(ctx, other, id, true); err != nil {
			return err
		}
	}
	for _, other := range before {
		if keep[other] {
			continue
		}
		if err := s.editAvoid(ctx, other, id, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *EntrantService) editAvoid(ctx context.Context, owner, target string, add bool) error {
	e, err := s.repo.GetEntrant(ctx, owner)
	if err == repository.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	has := e.Avoids(target)
	switch {
	case add && !has:
		e.Avoid = append(e.Avoid, target)
	case !add && has:
		kept := e.Avoid[:0]
		for _, id := range e.Avoid {
			if id != target {
				kept = append(kept, id)
			}
		}
		e.Avoid = kept
	default:
		return nil
	}
	return s.repo.SaveEntrant(ctx, *e)
}

// syncUnits reconciles stored units with the current roster
func (s *EntrantService) syncUnits(ctx context.Context) error {
	entrants, err := s.repo.ListEntrants(ctx)
	if err != nil {
		return err
	}
	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return err
	}
	return s.repo.ReplaceUnits(ctx, scheduler.SyncUnits(units, entrants, s.newID))
}
