package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.Settings.ScheduleSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	baseURL, err := h.Settings.GetBaseURL(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, SettingsResponse{Schedule: schedule, BaseURL: baseURL})
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Schedule != nil {
		if err := h.Settings.UpdateScheduleSettings(r.Context(), *req.Schedule); err != nil {
			respondError(w, err)
			return
		}
		h.refresh(r.Context(), "settings_updated")
	}
	if req.BaseURL != nil {
		if err := h.Settings.SetBaseURL(r.Context(), *req.BaseURL); err != nil {
			respondError(w, err)
			return
		}
	}

	h.handleGetSettings(w, r)
}

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "reset")
	respondOK(w, ResetResponse{Tables: result.Tables, Message: result.Message})
}

func (h *Handlers) handleSeedMockData(w http.ResponseWriter, r *http.Request) {
	var req SeedMockDataRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	added, err := h.Entrant.SeedMock(r.Context(), req.Count, req.Seed)
	if err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "seed")
	respondOK(w, SeedResponse{Added: added})
}
