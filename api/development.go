package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindflow/life-ledger/development"
)

// =============================================================================
// DEVELOPMENT PLAN HANDLERS
// =============================================================================

// ListPlans returns every development plan.
// GET /api/development/plans
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Development.Plans())
}

// CreatePlan creates a plan with its root skill.
// POST /api/development/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var dto PlanRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	plan, err := h.Development.AddPlan(r.Context(), dto.Title, dto.Category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// GetPlan returns a single plan.
// GET /api/development/plans/{id}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Development.Plan(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DeletePlan removes a plan.
// DELETE /api/development/plans/{id}
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.Development.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPlanProgress returns the derived plan progress.
// GET /api/development/plans/{id}/progress
func (h *Handler) GetPlanProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Development.Plan(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanProgressDTO{
		PlanID:   id,
		Progress: h.Development.PlanProgress(id),
	})
}

// =============================================================================
// MILESTONE HANDLERS
// =============================================================================

// CreateMilestone adds a milestone to a plan.
// POST /api/development/plans/{id}/milestones
func (h *Handler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	var m development.Milestone
	if !decodeJSON(w, r, &m) {
		return
	}

	plan, err := h.Development.AddMilestone(r.Context(), chi.URLParam(r, "id"), m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// ToggleMilestone flips milestone completion.
// POST /api/development/plans/{id}/milestones/{milestoneID}/toggle
func (h *Handler) ToggleMilestone(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Development.ToggleMilestone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "milestoneID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DeleteMilestone removes a milestone.
// DELETE /api/development/plans/{id}/milestones/{milestoneID}
func (h *Handler) DeleteMilestone(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Development.DeleteMilestone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "milestoneID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// =============================================================================
// HABIT HANDLERS
// =============================================================================

// CreateHabit adds a habit to a plan.
// POST /api/development/plans/{id}/habits
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var habit development.Habit
	if !decodeJSON(w, r, &habit) {
		return
	}

	plan, err := h.Development.AddHabit(r.Context(), chi.URLParam(r, "id"), habit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// MarkHabitDone records today's completion and updates the streak.
// POST /api/development/plans/{id}/habits/{habitID}/done
func (h *Handler) MarkHabitDone(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Development.MarkHabitDone(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "habitID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DeleteHabit removes a habit.
// DELETE /api/development/plans/{id}/habits/{habitID}
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Development.DeleteHabit(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "habitID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// =============================================================================
// SKILL HANDLERS
// =============================================================================

// CreateSkill attaches a child skill under a parent node.
// POST /api/development/plans/{id}/skills
func (h *Handler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var dto SkillRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	plan, err := h.Development.AddSkill(r.Context(), chi.URLParam(r, "id"), dto.ParentID, development.Skill{Name: dto.Name})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// UpdateSkillProgress sets a skill's progress; 100 levels it up.
// PUT /api/development/plans/{id}/skills/{skillID}/progress
func (h *Handler) UpdateSkillProgress(w http.ResponseWriter, r *http.Request) {
	var dto SkillProgressRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	plan, err := h.Development.UpdateSkillProgress(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "skillID"), dto.Progress)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
