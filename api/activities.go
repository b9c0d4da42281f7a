package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// ListActivities returns every activity.
// GET /api/activities
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Activities.All())
}

// CreateActivity creates an activity. Routines (week days set) return
// every materialized occurrence.
// POST /api/activities
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var dto ActivityRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	records, err := h.Activities.Add(r.Context(), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, records)
}

// GetActivity returns a single activity.
// GET /api/activities/{id}
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Activities.Get(generic.RecordID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateActivity applies a partial update.
// PUT /api/activities/{id}
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var dto PatchRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	rec, err := h.Activities.Update(r.Context(), generic.RecordID(chi.URLParam(r, "id")), dto.toPatch())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ToggleActivity flips completion.
// POST /api/activities/{id}/toggle
func (h *Handler) ToggleActivity(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Activities.Toggle(r.Context(), generic.RecordID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteActivity removes an activity; routine occurrences cascade to
// their future siblings.
// DELETE /api/activities/{id}
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.Activities.Delete(r.Context(), generic.RecordID(chi.URLParam(r, "id"))); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DASHBOARD QUERIES
// =============================================================================

// ListDailyActivities returns today's daily tasks and routines.
// GET /api/activities/daily
func (h *Handler) ListDailyActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Activities.Daily())
}

// ListGoalActivities returns goals by priority.
// GET /api/activities/goals
func (h *Handler) ListGoalActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Activities.Goals())
}

// ListPriorities returns this week's priorities.
// GET /api/activities/priorities
func (h *Handler) ListPriorities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Activities.Priorities())
}

// ListActivitiesByDate returns activities scheduled on a date.
// GET /api/activities/date/{date}
func (h *Handler) ListActivitiesByDate(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Activities.ByDate(date))
}

// GetCompletionRate returns today's completed-versus-total.
// GET /api/activities/completion
func (h *Handler) GetCompletionRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Activities.CompletionRate())
}

// GetProductivity returns the 7-day status chart.
// GET /api/activities/productivity
func (h *Handler) GetProductivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Activities.ProductivityData())
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

// ExportActivities serializes the whole collection.
// GET /api/activities/export
func (h *Handler) ExportActivities(w http.ResponseWriter, r *http.Request) {
	data, err := h.Activities.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Export failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportActivities replaces the collection with exported data.
// POST /api/activities/import
func (h *Handler) ImportActivities(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Activities.Import(r.Context(), data); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearActivities removes every activity.
// DELETE /api/activities
func (h *Handler) ClearActivities(w http.ResponseWriter, r *http.Request) {
	if err := h.Activities.Clear(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
