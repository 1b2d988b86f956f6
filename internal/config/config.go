package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/judgesched/internal/errors"
	"github.com/abrezinsky/judgesched/internal/models"
)

// Config holds the application settings
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"` // used in judge schedule QR codes
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// AdminConfig holds admin authentication settings
type AdminConfig struct {
	Password string `yaml:"password"`
}

// ScheduleConfig seeds the scheduling settings when none are stored yet.
// Clock fields accept "09:00", "9am" or "5:30pm".
type ScheduleConfig struct {
	QuantumMinutes  int            `yaml:"quantum_minutes"`
	Durations       map[string]int `yaml:"durations"`
	EventStart      string         `yaml:"event_start"`
	LateFinish      string         `yaml:"late_finish"`
	Moving          string         `yaml:"moving"`
	TurnoverSlots   *int           `yaml:"turnover_slots"`
	OvertimeMinutes int            `yaml:"overtime_minutes"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8080", BaseURL: "http://localhost:8080"},
		Database: DatabaseConfig{Path: "judgesched.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Admin:    AdminConfig{Password: "admin"},
		Schedule: ScheduleConfig{
			EventStart: "09:00",
			LateFinish: "21:00",
		},
	}
}

// LoadConfig reads filename over the defaults. A missing file is not an
// error. Environment variables override both.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("JUDGESCHED_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("JUDGESCHED_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("JUDGESCHED_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("JUDGESCHED_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("JUDGESCHED_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("JUDGESCHED_ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("JUDGESCHED_EVENT_START"); v != "" {
		cfg.Schedule.EventStart = v
	}
	if v := os.Getenv("JUDGESCHED_LATE_FINISH"); v != "" {
		cfg.Schedule.LateFinish = v
	}
	if v := os.Getenv("JUDGESCHED_OVERTIME_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.OvertimeMinutes = n
		}
	}
}

// Settings converts the schedule section into validated scheduling
// settings, filling unset fields from models.DefaultSettings.
func (c ScheduleConfig) Settings() (models.Settings, error) {
	s := models.DefaultSettings()
	if c.QuantumMinutes > 0 {
		s.QuantumMinutes = c.QuantumMinutes
	}
	for name, minutes := range c.Durations {
		f := models.SessionFormat(name)
		if !f.Valid() {
			return s, errors.Validationf("unknown session format %q", name)
		}
		s.Durations[f] = minutes
	}
	if c.EventStart != "" {
		m, err := ParseClock(c.EventStart)
		if err != nil {
			return s, err
		}
		s.EventStart = m
	}
	if c.LateFinish != "" {
		m, err := ParseClock(c.LateFinish)
		if err != nil {
			return s, err
		}
		s.LateFinish = m
	}
	if c.Moving != "" {
		s.Moving = models.MovingMode(c.Moving)
	}
	if c.TurnoverSlots != nil {
		s.TurnoverSlots = *c.TurnoverSlots
	}
	if c.OvertimeMinutes > 0 {
		s.OvertimeMinutes = c.OvertimeMinutes
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

var clockParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return w
}()

// ParseClock converts a time of day into minutes after midnight. "15:04"
// is tried first; anything else ("9am", "5:30 pm") goes through the
// natural-language parser.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Validation("empty time of day")
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t.Hour()*60 + t.Minute(), nil
	}

	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	r, err := clockParser.Parse(strings.ToLower(s), base)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrValidation, fmt.Sprintf("cannot parse time of day %q", s))
	}
	if r == nil {
		return 0, errors.Validationf("cannot parse time of day %q", s)
	}
	return r.Time.Hour()*60 + r.Time.Minute(), nil
}
