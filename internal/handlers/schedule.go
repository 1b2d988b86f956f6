package handlers

import (
	"bytes"
	"net/http"

	"github.com/abrezinsky/judgesched/internal/conflicts"
)

func (h *Handlers) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := h.Schedule.Schedule(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, s)
}

func (h *Handlers) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	g, err := h.Schedule.Grid(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, g)
}

func (h *Handlers) handleGetConflicts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Schedule.Conflicts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ConflictsResponse{Conflicts: list, Summary: conflicts.Summarize(list)})
}

func (h *Handlers) handleGetJudgeSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	s, err := h.Schedule.JudgeSchedule(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, s)
}

func (h *Handlers) handlePopulate(w http.ResponseWriter, r *http.Request) {
	result, err := h.Schedule.Populate(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	resp := PopulateResponse{
		Placements:  make([]PlacementResponse, 0, len(result.Placements)),
		Unplaced:    result.Unplaced,
		Triads:      result.Triads,
		Offset:      result.Offset,
		UnitsPlaced: result.UnitsPlaced,
		Summary:     result.Conflicts,
	}
	if resp.Unplaced == nil {
		resp.Unplaced = []string{}
	}
	for _, p := range result.Placements {
		resp.Placements = append(resp.Placements, PlacementResponse{
			EntrantID: p.EntrantID,
			Group:     p.Group,
			Tier:      p.Tier.String(),
		})
	}
	respondOK(w, resp)
}

func (h *Handlers) handleClearSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.Schedule.Clear(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Schedule cleared")
}

func (h *Handlers) handleMoveUnit(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req MoveUnitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.JudgeID == "" || req.Slot == nil {
		respondError(w, BadRequest("judge_id and slot are required"))
		return
	}

	unit, err := h.Schedule.MoveUnit(r.Context(), id, req.JudgeID, *req.Slot)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, unit)
}

func (h *Handlers) handleUnscheduleUnit(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.Schedule.UnscheduleUnit(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Unit unscheduled")
}

func (h *Handlers) handleSwapUnits(w http.ResponseWriter, r *http.Request) {
	var req SwapUnitsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.A == "" || req.B == "" {
		respondError(w, BadRequest("a and b are required"))
		return
	}
	if err := h.Schedule.SwapUnits(r.Context(), req.A, req.B); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Units swapped")
}

// handleExportWorkbook streams the schedule as an xlsx download. The workbook
// is rendered into memory first so a failure still yields a JSON error.
func (h *Handlers) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Schedule.ExportWorkbook(r.Context(), &buf); err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.xlsx"`)
	w.Write(buf.Bytes())
}
