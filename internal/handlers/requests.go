package handlers

import "github.com/abrezinsky/judgesched/internal/models"

// LoginRequest carries the admin password
type LoginRequest struct {
	Password string `json:"password"`
}

// EntrantRequest represents a request to create or update an entrant
type EntrantRequest struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Kind        models.GroupKind     `json:"kind"`
	Format      models.SessionFormat `json:"format"`
	Preferences []string             `json:"preferences"`
	Avoid       []string             `json:"avoid"`
	Room        string               `json:"room"`
	Included    *bool                `json:"included"`
	Scores      map[string]float64   `json:"scores"`
}

// Entrant converts the request into a model; entrants are included unless
// the request says otherwise.
func (req EntrantRequest) Entrant() models.Entrant {
	included := true
	if req.Included != nil {
		included = *req.Included
	}
	return models.Entrant{
		ID:          req.ID,
		Name:        req.Name,
		Kind:        req.Kind,
		Format:      req.Format,
		Preferences: req.Preferences,
		Avoid:       req.Avoid,
		Room:        req.Room,
		Included:    included,
		Scores:      req.Scores,
	}
}

// IncludedRequest toggles whether an entrant is scheduled
type IncludedRequest struct {
	Included bool `json:"included"`
}

// FormatRequest changes an entrant's session format
type FormatRequest struct {
	Format models.SessionFormat `json:"format"`
}

// JudgeRequest represents a request to create or update a judge
type JudgeRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Room     string          `json:"room"`
	Active   *bool           `json:"active"`
}

// Judge converts the request into a model; judges are active by default
func (req JudgeRequest) Judge() models.Judge {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return models.Judge{
		ID:       req.ID,
		Name:     req.Name,
		Category: req.Category,
		Room:     req.Room,
		Active:   active,
	}
}

// ActiveRequest toggles a judge's availability
type ActiveRequest struct {
	Active bool `json:"active"`
}

// MoveUnitRequest places a unit on a judge at a slot
type MoveUnitRequest struct {
	JudgeID string `json:"judge_id"`
	Slot    *int   `json:"slot"`
}

// SwapUnitsRequest exchanges the placements of two units
type SwapUnitsRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// SettingsUpdateRequest represents a request to update settings. Omitted
// fields keep their current values.
type SettingsUpdateRequest struct {
	Schedule *models.Settings `json:"schedule"`
	BaseURL  *string          `json:"base_url"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}

// SeedMockDataRequest represents a request to seed mock entrants
type SeedMockDataRequest struct {
	Count int   `json:"count"`
	Seed  int64 `json:"seed"`
}
