package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.handleHealth)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics)
	}
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Schedule (public)
	r.Get("/api/schedule", h.handleGetSchedule)
	r.Get("/api/schedule/grid", h.handleGetGrid)
	r.Get("/api/schedule/conflicts", h.handleGetConflicts)
	r.Get("/api/judges/{id}/schedule", h.handleGetJudgeSchedule)

	// Auth
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Entrants
		r.Get("/api/admin/entrants", h.handleGetEntrants)
		r.Get("/api/admin/entrants/{id}", h.handleGetEntrant)
		r.Post("/api/admin/entrants", h.handleCreateEntrant)
		r.Put("/api/admin/entrants/{id}", h.handleUpdateEntrant)
		r.Put("/api/admin/entrants/{id}/included", h.handleSetIncluded)
		r.Put("/api/admin/entrants/{id}/format", h.handleSetFormat)
		r.Delete("/api/admin/entrants/{id}", h.handleDeleteEntrant)

		// Judges
		r.Get("/api/admin/judges", h.handleGetJudges)
		r.Get("/api/admin/judges/{id}", h.handleGetJudge)
		r.Post("/api/admin/judges", h.handleCreateJudge)
		r.Put("/api/admin/judges/{id}", h.handleUpdateJudge)
		r.Put("/api/admin/judges/{id}/active", h.handleSetActive)
		r.Delete("/api/admin/judges/{id}", h.handleDeleteJudge)
		r.Get("/api/admin/judges/{id}/qr", h.handleGetJudgeQR)

		// Schedule
		r.Post("/api/admin/schedule/populate", h.handlePopulate)
		r.Post("/api/admin/schedule/clear", h.handleClearSchedule)
		r.Post("/api/admin/schedule/units/{id}/move", h.handleMoveUnit)
		r.Post("/api/admin/schedule/units/{id}/unschedule", h.handleUnscheduleUnit)
		r.Post("/api/admin/schedule/swap", h.handleSwapUnits)
		r.Get("/api/admin/schedule/export.xlsx", h.handleExportWorkbook)

		// Settings
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)

		// Database Management
		r.Post("/api/admin/reset-database", h.handleResetDatabase)
		r.Post("/api/admin/seed-mock-data", h.handleSeedMockData)
	})

	return r
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}
