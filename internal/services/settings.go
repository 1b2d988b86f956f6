package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/logger"
	"github.com/abrezinsky/judgesched/internal/models"
	"github.com/abrezinsky/judgesched/internal/repository"
)

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastMessage(msgType string, payload interface{})
}

const (
	settingSchedule = "schedule"
	settingBaseURL  = "base_url"
)

// SettingsService handles settings-related business logic
type SettingsService struct {
	log      logger.Logger
	repo     repository.SettingsRepository
	defaults models.Settings
	baseURL  string
	mu       *sync.Mutex
}

// NewSettingsService creates a new SettingsService. defaults and baseURL are
// returned until an administrator stores something else.
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, defaults models.Settings, baseURL string) *SettingsService {
	return &SettingsService{log: log, repo: repo, defaults: defaults, baseURL: baseURL, mu: &sync.Mutex{}}
}

// ShareUnitLock makes table resets wait for in-flight schedule mutations
func (s *SettingsService) ShareUnitLock(mu *sync.Mutex) {
	if mu != nil {
		s.mu = mu
	}
}

// ScheduleSettings returns the stored scheduling settings, or the defaults
func (s *SettingsService) ScheduleSettings(ctx context.Context) (models.Settings, error) {
	value, err := s.repo.GetSetting(ctx, settingSchedule)
	if err != nil {
		if err == repository.ErrNotFound {
			return s.defaults, nil
		}
		return models.Settings{}, err
	}
	var settings models.Settings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return models.Settings{}, errors.Wrap(err, errors.ErrInternal, "stored schedule settings are unreadable")
	}
	return settings, nil
}

// UpdateScheduleSettings validates and stores scheduling settings
func (s *SettingsService) UpdateScheduleSettings(ctx context.Context, settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.repo.SetSetting(ctx, settingSchedule, string(data)); err != nil {
		return err
	}
	s.log.Info("Schedule settings updated",
		"quantum_minutes", settings.QuantumMinutes,
		"moving", settings.Moving,
		"event_start", models.FormatClock(settings.EventStart))
	return nil
}

// GetBaseURL returns the public base URL used in QR links
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, settingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return s.baseURL, nil
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the public base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, settingBaseURL, url)
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string
	Message string
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"session_units": true, "entrants": true, "judges": true, "settings": true,
}

// ResetTables validates and resets the specified database tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		tablesToReset = append(tablesToReset, table)
	}

	// Units cannot outlive their entrants
	if containsTable(tablesToReset, "entrants") && !containsTable(tablesToReset, "session_units") {
		tablesToReset = append([]string{"session_units"}, tablesToReset...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}
	s.log.Info("Tables reset", "tables", tablesToReset)

	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Successfully deleted data from tables",
	}, nil
}

func containsTable(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
