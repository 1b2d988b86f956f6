package handlers

import (
	"net/http"

	"github.com/abrezinsky/judgesched/internal/auth"
	"github.com/abrezinsky/judgesched/internal/services"
	"github.com/abrezinsky/judgesched/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Entrant  services.EntrantServicer
	Judge    services.JudgeServicer
	Settings services.SettingsServicer
	Schedule services.ScheduleServicer
	Auth     *auth.Auth
	Hub      *websocket.Hub
	Log      HTTPLogger
	metrics  http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies. metrics may be
// nil, in which case /metrics is not mounted.
func New(
	entrant services.EntrantServicer,
	judge services.JudgeServicer,
	settings services.SettingsServicer,
	schedule services.ScheduleServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	metrics http.Handler,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Entrant:  entrant,
		Judge:    judge,
		Settings: settings,
		Schedule: schedule,
		Auth:     adminAuth,
		Hub:      hub,
		Log:      log,
		metrics:  metrics,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin password
// ("test-password") and no websocket hub or metrics.
func NewForTesting(
	entrant services.EntrantServicer,
	judge services.JudgeServicer,
	settings services.SettingsServicer,
	schedule services.ScheduleServicer,
) *Handlers {
	return &Handlers{
		Entrant:  entrant,
		Judge:    judge,
		Settings: settings,
		Schedule: schedule,
		Auth:     auth.New("test-password"),
		Log:      NoopHTTPLogger{},
	}
}
