package handlers

import (
	"github.com/abrezinsky/judgesched/internal/conflicts"
	"github.com/abrezinsky/judgesched/internal/models"
)

// LoginResponse returns the session token
type LoginResponse struct {
	Token string `json:"token"`
}

// ConflictsResponse lists current conflicts with their counts
type ConflictsResponse struct {
	Conflicts []models.ConflictDetail `json:"conflicts"`
	Summary   conflicts.Summary       `json:"summary"`
}

// PlacementResponse is one entrant's outcome from a populate run
type PlacementResponse struct {
	EntrantID string `json:"entrant_id"`
	Group     int    `json:"group"`
	Tier      string `json:"tier"`
}

// PopulateResponse is the response for the populate operation
type PopulateResponse struct {
	Placements  []PlacementResponse `json:"placements"`
	Unplaced    []string            `json:"unplaced"`
	Triads      int                 `json:"triads"`
	Offset      int                 `json:"offset"`
	UnitsPlaced int                 `json:"units_placed"`
	Summary     conflicts.Summary   `json:"summary"`
}

// SettingsResponse is the response for settings
type SettingsResponse struct {
	Schedule models.Settings `json:"schedule"`
	BaseURL  string          `json:"base_url"`
}

// ResetResponse reports which tables were cleared
type ResetResponse struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// SeedResponse reports how many entrants were generated
type SeedResponse struct {
	Added int `json:"added"`
}
