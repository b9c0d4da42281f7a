package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/health"
)

// =============================================================================
// HEALTH METRIC HANDLERS
// =============================================================================

// ListMetrics returns metrics, with optional ?type= and ?date= filters.
// GET /api/health/metrics
func (h *Handler) ListMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if t := q.Get("type"); t != "" {
		writeJSON(w, http.StatusOK, h.Health.MetricsByType(health.MetricType(t)))
		return
	}
	if raw := q.Get("date"); raw != "" {
		date, err := generic.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		writeJSON(w, http.StatusOK, h.Health.MetricsByDate(date))
		return
	}

	writeJSON(w, http.StatusOK, h.Health.Metrics())
}

// ListTodaysMetrics returns today's measurements.
// GET /api/health/metrics/today
func (h *Handler) ListTodaysMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Health.TodaysMetrics())
}

// CreateMetric logs a measurement.
// POST /api/health/metrics
func (h *Handler) CreateMetric(w http.ResponseWriter, r *http.Request) {
	var dto MetricRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	metric, err := h.Health.AddMetric(r.Context(), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, metric)
}

// DeleteMetric removes a measurement.
// DELETE /api/health/metrics/{id}
func (h *Handler) DeleteMetric(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.DeleteMetric(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HEALTH GOAL HANDLERS
// =============================================================================

// ListHealthGoals returns every health goal.
// GET /api/health/goals
func (h *Handler) ListHealthGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Health.Goals())
}

// CreateHealthGoal creates a health goal.
// POST /api/health/goals
func (h *Handler) CreateHealthGoal(w http.ResponseWriter, r *http.Request) {
	var goal health.Goal
	if !decodeJSON(w, r, &goal) {
		return
	}

	created, err := h.Health.AddGoal(r.Context(), goal)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteHealthGoal removes a health goal.
// DELETE /api/health/goals/{id}
func (h *Handler) DeleteHealthGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Health.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealthGoalProgress returns today's progress against one goal.
// GET /api/health/goals/{id}/progress
func (h *Handler) GetHealthGoalProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, map[string]any{
		"goal_id":  id,
		"progress": h.Health.GoalProgress(id),
	})
}

// =============================================================================
// INSIGHTS
// =============================================================================

// GetHealthScore returns the aggregate wellbeing score.
// GET /api/health/score
func (h *Handler) GetHealthScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"score": h.Health.HealthScore()})
}

// ListHealthInsights returns generated achievements and warnings.
// GET /api/health/insights
func (h *Handler) ListHealthInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Health.GenerateInsights())
}
