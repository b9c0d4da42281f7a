package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns every transaction.
// GET /api/finance/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Finance.Transactions())
}

// CreateTransaction creates a transaction; recurring ones return every
// materialized occurrence, seed first.
// POST /api/finance/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto TransactionRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	records, err := h.Finance.AddTransaction(r.Context(), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, records)
}

// GetTransaction returns a single transaction.
// GET /api/finance/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Finance.Transaction(generic.RecordID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// UpdateTransaction applies a partial update.
// PUT /api/finance/transactions/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto PatchRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	rec, err := h.Finance.UpdateTransaction(r.Context(), generic.RecordID(chi.URLParam(r, "id")), dto.toPatch())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ToggleTransactionPaid flips paid status.
// POST /api/finance/transactions/{id}/toggle
func (h *Handler) ToggleTransactionPaid(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Finance.TogglePaid(r.Context(), generic.RecordID(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteTransaction removes a transaction; recurring occurrences cascade
// to their future siblings.
// DELETE /api/finance/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.DeleteTransaction(r.Context(), generic.RecordID(chi.URLParam(r, "id"))); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories returns all categories, defaults included.
// GET /api/finance/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Finance.Categories())
}

// CreateCategory adds a custom category.
// POST /api/finance/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	cat, err := h.Finance.AddCategory(r.Context(), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// UpdateCategory edits a category.
// PUT /api/finance/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	cat, err := h.Finance.UpdateCategory(r.Context(), chi.URLParam(r, "id"), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory removes a custom category.
// DELETE /api/finance/categories/{id}
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FINANCIAL GOAL HANDLERS
// =============================================================================

// ListFinanceGoals returns every savings goal.
// GET /api/finance/goals
func (h *Handler) ListFinanceGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Finance.Goals())
}

// CreateFinanceGoal creates a savings goal.
// POST /api/finance/goals
func (h *Handler) CreateFinanceGoal(w http.ResponseWriter, r *http.Request) {
	var dto FinanceGoalRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	goal, err := h.Finance.AddGoal(r.Context(), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// UpdateFinanceGoal edits a savings goal.
// PUT /api/finance/goals/{id}
func (h *Handler) UpdateFinanceGoal(w http.ResponseWriter, r *http.Request) {
	var dto FinanceGoalRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	goal, err := h.Finance.UpdateGoal(r.Context(), chi.URLParam(r, "id"), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteFinanceGoal removes a savings goal.
// DELETE /api/finance/goals/{id}
func (h *Handler) DeleteFinanceGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFinanceGoalProgress funds a goal; current never exceeds target.
// POST /api/finance/goals/{id}/progress
func (h *Handler) AddFinanceGoalProgress(w http.ResponseWriter, r *http.Request) {
	var dto GoalProgressRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Finance.AddGoalProgress(r.Context(), id, dto.Amount); err != nil {
		writeServiceError(w, err)
		return
	}

	goal, _ := h.Finance.GoalByID(id)
	writeJSON(w, http.StatusOK, goal)
}

// =============================================================================
// MONTHLY EXPENSE HANDLERS
// =============================================================================

// ListMonthlyExpenses returns monthly expense templates, optionally
// filtered by ?month=YYYY-MM.
// GET /api/finance/monthly
func (h *Handler) ListMonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	if month := r.URL.Query().Get("month"); month != "" {
		writeJSON(w, http.StatusOK, h.Finance.MonthlyExpensesFor(month))
		return
	}
	writeJSON(w, http.StatusOK, h.Finance.MonthlyExpenses())
}

// CreateMonthlyExpense creates a template.
// POST /api/finance/monthly
func (h *Handler) CreateMonthlyExpense(w http.ResponseWriter, r *http.Request) {
	var dto MonthlyExpenseRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	exp, err := h.Finance.AddMonthlyExpense(r.Context(), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

// UpdateMonthlyExpense edits a template.
// PUT /api/finance/monthly/{id}
func (h *Handler) UpdateMonthlyExpense(w http.ResponseWriter, r *http.Request) {
	var dto MonthlyExpenseRequestDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	exp, err := h.Finance.UpdateMonthlyExpense(r.Context(), chi.URLParam(r, "id"), dto.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// ToggleMonthlyExpense flips paid state, creating or removing the linked
// transaction.
// POST /api/finance/monthly/{id}/toggle
func (h *Handler) ToggleMonthlyExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := h.Finance.ToggleMonthlyExpensePaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// DeleteMonthlyExpense removes a template and its linked transaction.
// DELETE /api/finance/monthly/{id}
func (h *Handler) DeleteMonthlyExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.DeleteMonthlyExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetBalance returns the running paid balance.
// GET /api/finance/balance
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"balance": h.Finance.Balance()})
}

// GetSummary returns income/expense totals for ?period=day|week|month|year.
// GET /api/finance/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period := generic.Period(r.URL.Query().Get("period"))
	switch period {
	case generic.PeriodDay, generic.PeriodWeek, generic.PeriodMonth, generic.PeriodYear, generic.PeriodAll:
	default:
		writeError(w, http.StatusBadRequest, "Invalid period", nil)
		return
	}

	income := h.Finance.IncomeTotal(period)
	expenses := h.Finance.ExpenseTotal(period)
	writeJSON(w, http.StatusOK, SummaryDTO{
		Period:   string(period),
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	})
}

// GetCategoryTotals returns paid spending grouped by category for
// ?period=.
// GET /api/finance/reports/categories
func (h *Handler) GetCategoryTotals(w http.ResponseWriter, r *http.Request) {
	period := generic.Period(r.URL.Query().Get("period"))
	writeJSON(w, http.StatusOK, h.Finance.TotalsByCategory(period))
}

// GetDailySpending returns today's paid expense total.
// GET /api/finance/reports/daily
func (h *Handler) GetDailySpending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"total": h.Finance.DailySpending()})
}

// GetMonthlyCategoryTotals returns one month's expense templates grouped
// by category, for ?month=YYYY-MM.
// GET /api/finance/monthly/by-category
func (h *Handler) GetMonthlyCategoryTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Finance.MonthlyExpensesByCategory(r.URL.Query().Get("month")))
}

// GetCashFlow returns the per-date cash flow with running balance.
// GET /api/finance/reports/cashflow
func (h *Handler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Finance.CashFlow())
}

// GetBudgets returns per-category budget usage over the trailing month.
// GET /api/finance/reports/budgets
func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Finance.Budgets())
}

// GetUpcomingPayments returns unpaid expenses due within ?days (default 7).
// GET /api/finance/reports/upcoming
func (h *Handler) GetUpcomingPayments(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid days", err)
			return
		}
		days = parsed
	}
	writeJSON(w, http.StatusOK, h.Finance.UpcomingPayments(days))
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

// ExportFinance serializes transactions, categories, goals and templates.
// GET /api/finance/export
func (h *Handler) ExportFinance(w http.ResponseWriter, r *http.Request) {
	data, err := h.Finance.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Export failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportFinance replaces all financial data with exported data.
// POST /api/finance/import
func (h *Handler) ImportFinance(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Finance.Import(r.Context(), data); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearFinance wipes financial data and reseeds default categories.
// DELETE /api/finance
func (h *Handler) ClearFinance(w http.ResponseWriter, r *http.Request) {
	if err := h.Finance.Clear(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
