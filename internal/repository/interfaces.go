package repository

import (
	"context"

	"github.com/abrezinsky/judgesched/internal/models"
)

// EntrantRepository defines entrant data operations. Entrants are listed in
// the order they were first saved.
type EntrantRepository interface {
	ListEntrants(ctx context.Context) ([]models.Entrant, error)
	GetEntrant(ctx context.Context, id string) (*models.Entrant, error)
	SaveEntrant(ctx context.Context, e models.Entrant) error
	DeleteEntrant(ctx context.Context, id string) error
}

// JudgeRepository defines judge data operations
type JudgeRepository interface {
	ListJudges(ctx context.Context) ([]models.Judge, error)
	GetJudge(ctx context.Context, id string) (*models.Judge, error)
	SaveJudge(ctx context.Context, j models.Judge) error
	DeleteJudge(ctx context.Context, id string) error
}

// UnitRepository defines session unit data operations
type UnitRepository interface {
	ListUnits(ctx context.Context) ([]models.SessionUnit, error)
	GetUnit(ctx context.Context, id string) (*models.SessionUnit, error)
	SaveUnit(ctx context.Context, u models.SessionUnit) error
	ReplaceUnits(ctx context.Context, units []models.SessionUnit) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	EntrantRepository
	JudgeRepository
	UnitRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
