package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
	"github.com/abrezinsky/judgesched/internal/scheduler"
)

// JudgeService handles judge-related business logic
type JudgeService struct {
	log      logger.Logger
	repo     repository.JudgeRepository
	settings SettingsServicer
	newID    scheduler.IDFunc
	mu       *sync.Mutex
}

// NewJudgeService creates a new JudgeService
func NewJudgeService(log logger.Logger, repo repository.JudgeRepository, settings SettingsServicer) *JudgeService {
	return &JudgeService{log: log, repo: repo, settings: settings, newID: scheduler.NewUnitID, mu: &sync.Mutex{}}
}

// ShareUnitLock guards judge deletion, which unschedules the judge's units,
// with the schedule's unit lock
func (s *JudgeService) ShareUnitLock(mu *sync.Mutex) {
	if mu != nil {
		s.mu = mu
	}
}

// ListJudges returns all judges in creation order
func (s *JudgeService) ListJudges(ctx context.Context) ([]models.Judge, error) {
	return s.repo.ListJudges(ctx)
}

// GetJudge returns a judge by id
func (s *JudgeService) GetJudge(ctx context.Context, id string) (*models.Judge, error) {
	j, err := s.repo.GetJudge(ctx, id)
	if err == repository.ErrNotFound {
		return nil, errors.NotFoundf("judge %s not found", id)
	}
	return j, err
}

// CreateJudge adds a judge
func (s *JudgeService) CreateJudge(ctx context.Context, j models.Judge) (*models.Judge, error) {
	if j.ID == "" {
		j.ID = s.newID()
	}
	if err := validateJudge(j); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetJudge(ctx, j.ID); err == nil {
		return nil, errors.Conflictf("judge %s already exists", j.ID)
	} else if err != repository.ErrNotFound {
		return nil, err
	}
	if err := s.repo.SaveJudge(ctx, j); err != nil {
		return nil, err
	}
	s.log.Info("Judge created", "judge_id", j.ID, "category", j.Category)
	return &j, nil
}

// UpdateJudge replaces a judge's fields
func (s *JudgeService) UpdateJudge(ctx context.Context, id string, j models.Judge) (*models.Judge, error) {
	if _, err := s.GetJudge(ctx, id); err != nil {
		return nil, err
	}
	j.ID = id
	if err := validateJudge(j); err != nil {
		return nil, err
	}
	if err := s.repo.SaveJudge(ctx, j); err != nil {
		return nil, err
	}
	return &j, nil
}

// DeleteJudge removes a judge; its units become unscheduled
func (s *JudgeService) DeleteJudge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.DeleteJudge(ctx, id)
	if err == repository.ErrNotFound {
		return errors.NotFoundf("judge %s not found", id)
	}
	if err == nil {
		s.log.Info("Judge deleted", "judge_id", id)
	}
	return err
}

// SetActive marks a judge available or unavailable for new placements
func (s *JudgeService) SetActive(ctx context.Context, id string, active bool) error {
	j, err := s.GetJudge(ctx, id)
	if err != nil {
		return err
	}
	j.Active = active
	return s.repo.SaveJudge(ctx, *j)
}

// ScheduleQR renders a QR code PNG linking to the judge's public schedule
func (s *JudgeService) ScheduleQR(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.GetJudge(ctx, id); err != nil {
		return nil, err
	}
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, ErrBaseURLNotSet
	}
	url := fmt.Sprintf("%s/api/judges/%s/schedule", strings.TrimSuffix(baseURL, "/"), id)
	return qrcode.Encode(url, qrcode.Medium, 256)
}

func validateJudge(j models.Judge) error {
	if j.Name == "" {
		return errors.Validation("judge name is required")
	}
	switch j.Category {
	case models.CategoryNone, models.CategoryA, models.CategoryB, models.CategoryC:
		return nil
	default:
		return errors.Validationf("unknown category %q", j.Category)
	}
}
