package handlers

import (
	"context"
	"log"
	"net/http"
)

// refresh re-audits the schedule after a roster change. The change itself
// already succeeded, so a failure here is only logged.
func (h *Handlers) refresh(ctx context.Context, operation string) {
	if _, err := h.Schedule.Refresh(ctx, operation); err != nil {
		log.Printf("Schedule refresh after %s failed: %v", operation, err)
	}
}

func (h *Handlers) handleGetEntrants(w http.ResponseWriter, r *http.Request) {
	entrants, err := h.Entrant.ListEntrants(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entrants)
}

func (h *Handlers) handleGetEntrant(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	e, err := h.Entrant.GetEntrant(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, e)
}

func (h *Handlers) handleCreateEntrant(w http.ResponseWriter, r *http.Request) {
	var req EntrantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	e, err := h.Entrant.CreateEntrant(r.Context(), req.Entrant())
	if err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "entrant_created")
	respondCreated(w, e)
}

func (h *Handlers) handleUpdateEntrant(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req EntrantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	e, err := h.Entrant.UpdateEntrant(r.Context(), id, req.Entrant())
	if err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "entrant_updated")
	respondOK(w, e)
}

func (h *Handlers) handleSetIncluded(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req IncludedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Entrant.SetIncluded(r.Context(), id, req.Included); err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "entrant_included")
	respondSuccess(w, "Entrant updated")
}

func (h *Handlers) handleSetFormat(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req FormatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Entrant.SetFormat(r.Context(), id, req.Format); err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "entrant_format")
	respondSuccess(w, "Format updated")
}

func (h *Handlers) handleDeleteEntrant(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Entrant.DeleteEntrant(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "entrant_deleted")
	respondDeleted(w)
}
