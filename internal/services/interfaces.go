package services

import (
	"context"
	"io"

	"github.com/abrezinsky/judgesched/internal/conflicts"
	"github.com/abrezinsky/judgesched/internal/export"
	"github.com/abrezinsky/judgesched/internal/models"
)

// EntrantServicer defines the interface for entrant operations
type EntrantServicer interface {
	ListEntrants(ctx context.Context) ([]models.Entrant, error)
	GetEntrant(ctx context.Context, id string) (*models.Entrant, error)
	CreateEntrant(ctx context.Context, e models.Entrant) (*models.Entrant, error)
	UpdateEntrant(ctx context.Context, id string, e models.Entrant) (*models.Entrant, error)
	DeleteEntrant(ctx context.Context, id string) error
	SetIncluded(ctx context.Context, id string, included bool) error
	SetFormat(ctx context.Context, id string, format models.SessionFormat) error
	SeedMock(ctx context.Context, count int, seed int64) (int, error)
}

// JudgeServicer defines the interface for judge operations
type JudgeServicer interface {
	ListJudges(ctx context.Context) ([]models.Judge, error)
	GetJudge(ctx context.Context, id string) (*models.Judge, error)
	CreateJudge(ctx context.Context, j models.Judge) (*models.Judge, error)
	UpdateJudge(ctx context.Context, id string, j models.Judge) (*models.Judge, error)
	DeleteJudge(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) error
	ScheduleQR(ctx context.Context, id string) ([]byte, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	ScheduleSettings(ctx context.Context) (models.Settings, error)
	UpdateScheduleSettings(ctx context.Context, settings models.Settings) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// ScheduleServicer defines the interface for schedule operations
type ScheduleServicer interface {
	Populate(ctx context.Context) (*PopulateResult, error)
	Clear(ctx context.Context) error
	MoveUnit(ctx context.Context, unitID, judgeID string, slot int) (*models.SessionUnit, error)
	UnscheduleUnit(ctx context.Context, unitID string) error
	SwapUnits(ctx context.Context, a, b string) error
	Refresh(ctx context.Context, operation string) (conflicts.Summary, error)
	Conflicts(ctx context.Context) ([]models.ConflictDetail, error)
	Schedule(ctx context.Context) (*Schedule, error)
	Grid(ctx context.Context) (export.Grid, error)
	JudgeSchedule(ctx context.Context, judgeID string) (*JudgeSchedule, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
	SetBroadcaster(b Broadcaster)
}

// Ensure concrete types implement interfaces
var (
	_ EntrantServicer  = (*EntrantService)(nil)
	_ JudgeServicer    = (*JudgeService)(nil)
	_ SettingsServicer = (*SettingsService)(nil)
	_ ScheduleServicer = (*ScheduleService)(nil)
)
