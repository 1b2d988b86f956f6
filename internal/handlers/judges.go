package handlers

import (
	"net/http"
)

func (h *Handlers) handleGetJudges(w http.ResponseWriter, r *http.Request) {
	judges, err := h.Judge.ListJudges(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, judges)
}

func (h *Handlers) handleGetJudge(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	j, err := h.Judge.GetJudge(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, j)
}

func (h *Handlers) handleCreateJudge(w http.ResponseWriter, r *http.Request) {
	var req JudgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	j, err := h.Judge.CreateJudge(r.Context(), req.Judge())
	if err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "judge_created")
	respondCreated(w, j)
}

func (h *Handlers) handleUpdateJudge(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req JudgeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	j, err := h.Judge.UpdateJudge(r.Context(), id, req.Judge())
	if err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "judge_updated")
	respondOK(w, j)
}

func (h *Handlers) handleSetActive(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req ActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Judge.SetActive(r.Context(), id, req.Active); err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "judge_active")
	respondSuccess(w, "Judge updated")
}

func (h *Handlers) handleDeleteJudge(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Judge.DeleteJudge(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	h.refresh(r.Context(), "judge_deleted")
	respondDeleted(w)
}

// handleGetJudgeQR serves a PNG linking to the judge's public schedule
func (h *Handlers) handleGetJudgeQR(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Judge.ScheduleQR(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
