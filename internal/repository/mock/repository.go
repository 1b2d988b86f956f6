package mock

import (
	"context"

	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ReplaceUnitsError = errors.New("database error")
//	svc := services.NewScheduleService(log, mockRepo, ...)
//	_, err := svc.Populate(ctx)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Entrant Errors =====
	ListEntrantsError  error
	GetEntrantError    error
	SaveEntrantError   error
	DeleteEntrantError error

	// ===== Judge Errors =====
	ListJudgesError  error
	GetJudgeError    error
	SaveJudgeError   error
	DeleteJudgeError error

	// ===== Unit Errors =====
	ListUnitsError    error
	GetUnitError      error
	SaveUnitError     error
	ReplaceUnitsError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	ClearTableError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Entrant Methods =====

func (m *Repository) ListEntrants(ctx context.Context) ([]models.Entrant, error) {
	if m.ListEntrantsError != nil {
		return nil, m.ListEntrantsError
	}
	return m.FullRepository.ListEntrants(ctx)
}

func (m *Repository) GetEntrant(ctx context.Context, id string) (*models.Entrant, error) {
	if m.GetEntrantError != nil {
		return nil, m.GetEntrantError
	}
	return m.FullRepository.GetEntrant(ctx, id)
}

func (m *Repository) SaveEntrant(ctx context.Context, e models.Entrant) error {
	if m.SaveEntrantError != nil {
		return m.SaveEntrantError
	}
	return m.FullRepository.SaveEntrant(ctx, e)
}

func (m *Repository) DeleteEntrant(ctx context.Context, id string) error {
	if m.DeleteEntrantError != nil {
		return m.DeleteEntrantError
	}
	return m.FullRepository.DeleteEntrant(ctx, id)
}

// ===== Judge Methods =====

func (m *Repository) ListJudges(ctx context.Context) ([]models.Judge, error) {
	if m.ListJudgesError != nil {
		return nil, m.ListJudgesError
	}
	return m.FullRepository.ListJudges(ctx)
}

func (m *Repository) GetJudge(ctx context.Context, id string) (*models.Judge, error) {
	if m.GetJudgeError != nil {
		return nil, m.GetJudgeError
	}
	return m.FullRepository.GetJudge(ctx, id)
}

func (m *Repository) SaveJudge(ctx context.Context, j models.Judge) error {
	if m.SaveJudgeError != nil {
		return m.SaveJudgeError
	}
	return m.FullRepository.SaveJudge(ctx, j)
}

func (m *Repository) DeleteJudge(ctx context.Context, id string) error {
	if m.DeleteJudgeError != nil {
		return m.DeleteJudgeError
	}
	return m.FullRepository.DeleteJudge(ctx, id)
}

// ===== Unit Methods =====

func (m *Repository) ListUnits(ctx context.Context) ([]models.SessionUnit, error) {
	if m.ListUnitsError != nil {
		return nil, m.ListUnitsError
	}
	return m.FullRepository.ListUnits(ctx)
}

func (m *Repository) GetUnit(ctx context.Context, id string) (*models.SessionUnit, error) {
	if m.GetUnitError != nil {
		return nil, m.GetUnitError
	}
	return m.FullRepository.GetUnit(ctx, id)
}

func (m *Repository) SaveUnit(ctx context.Context, u models.SessionUnit) error {
	if m.SaveUnitError != nil {
		return m.SaveUnitError
	}
	return m.FullRepository.SaveUnit(ctx, u)
}

func (m *Repository) ReplaceUnits(ctx context.Context, units []models.SessionUnit) error {
	if m.ReplaceUnitsError != nil {
		return m.ReplaceUnitsError
	}
	return m.FullRepository.ReplaceUnits(ctx, units)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
