/*
dto.go - Request/response data structures for the REST API

PURPOSE:
  Wire-level shapes for the HTTP layer. Request DTOs decode the JSON the
  frontend sends and convert into the domain input types; responses
  mostly serialize domain types directly (they carry JSON tags), with a
  few envelope DTOs defined here.

CONVENTIONS:
  - Dates travel as "YYYY-MM-DD", times as "HH:MM"
  - Week days travel as integers 0-6 (Sunday = 0)
  - Amounts decode through shopspring/decimal

SEE ALSO:
  - handlers.go: writeJSON/writeError and the auth handlers
  - activities.go, finance.go, wellness.go, development.go: domain handlers
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/activity"
	"github.com/mindflow/life-ledger/auth"
	"github.com/mindflow/life-ledger/finance"
	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/health"
)

// ErrorResponse is the error envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// AUTH
// =============================================================================

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponseDTO struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

type VerifyResponseDTO struct {
	Valid bool      `json:"valid"`
	User  auth.User `json:"user"`
}

// =============================================================================
// ACTIVITIES
// =============================================================================

type ActivityRequestDTO struct {
	Kind        string             `json:"kind"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Priority    string             `json:"priority,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Order       int                `json:"order,omitempty"`
	Date        generic.Date       `json:"date"`
	Time        *generic.TimeOfDay `json:"time,omitempty"`
	WeekDays    []int              `json:"week_days,omitempty"`
	EndDate     *generic.Date      `json:"end_date,omitempty"`
}

func (d ActivityRequestDTO) toInput() activity.Input {
	return activity.Input{
		Kind:        activity.Kind(d.Kind),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Priority:    d.Priority,
		Notes:       d.Notes,
		Tags:        d.Tags,
		Order:       d.Order,
		Date:        d.Date,
		Time:        d.Time,
		WeekDays:    toWeekdays(d.WeekDays),
		EndDate:     d.EndDate,
	}
}

func toWeekdays(days []int) []time.Weekday {
	if len(days) == 0 {
		return nil
	}
	out := make([]time.Weekday, len(days))
	for i, d := range days {
		out[i] = time.Weekday(d)
	}
	return out
}

// PatchRequestDTO carries a partial update; absent fields stay unchanged.
type PatchRequestDTO struct {
	Title         *string            `json:"title,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Category      *string            `json:"category,omitempty"`
	Priority      *string            `json:"priority,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
	Tags          *[]string          `json:"tags,omitempty"`
	Order         *int               `json:"order,omitempty"`
	ScheduledDate *generic.Date      `json:"date,omitempty"`
	ScheduledTime *generic.TimeOfDay `json:"time,omitempty"`
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
	GoalID        *string            `json:"goal_id,omitempty"`
	Status        *generic.Status    `json:"status,omitempty"`
}

func (d PatchRequestDTO) toPatch() generic.Patch {
	return generic.Patch{
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		Priority:      d.Priority,
		Notes:         d.Notes,
		Tags:          d.Tags,
		Order:         d.Order,
		ScheduledDate: d.ScheduledDate,
		ScheduledTime: d.ScheduledTime,
		Amount:        d.Amount,
		GoalID:        d.GoalID,
		Status:        d.Status,
	}
}

// =============================================================================
// FINANCE
// =============================================================================

type TransactionRequestDTO struct {
	Kind        string             `json:"kind"` // income, expense
	Description string             `json:"description"`
	Amount      decimal.Decimal    `json:"amount"`
	Category    string             `json:"category,omitempty"`
	Date        generic.Date       `json:"date"`
	Time        *generic.TimeOfDay `json:"time,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Paid        *bool              `json:"paid,omitempty"`
	GoalID      string             `json:"goal_id,omitempty"`
	Recurring   bool               `json:"recurring,omitempty"`
	Frequency   string             `json:"frequency,omitempty"`
	EndDate     *generic.Date      `json:"end_date,omitempty"`
}

func (d TransactionRequestDTO) toInput() finance.TransactionInput {
	return finance.TransactionInput{
		Kind:        finance.Kind(d.Kind),
		Description: d.Description,
		Amount:      d.Amount,
		Category:    d.Category,
		Date:        d.Date,
		Time:        d.Time,
		Notes:       d.Notes,
		Tags:        d.Tags,
		Paid:        d.Paid,
		GoalID:      d.GoalID,
		Recurring:   d.Recurring,
		Frequency:   generic.Frequency(d.Frequency),
		EndDate:     d.EndDate,
	}
}

type CategoryRequestDTO struct {
	Name   string           `json:"name"`
	Icon   string           `json:"icon,omitempty"`
	Color  string           `json:"color,omitempty"`
	Budget *decimal.Decimal `json:"budget,omitempty"`
	Type   string           `json:"type"` // income, expense
}

func (d CategoryRequestDTO) toInput() finance.CategoryInput {
	return finance.CategoryInput{
		Name:   d.Name,
		Icon:   d.Icon,
		Color:  d.Color,
		Budget: d.Budget,
		Type:   finance.Kind(d.Type),
	}
}

type FinanceGoalRequestDTO struct {
	Name        string          `json:"name"`
	Target      decimal.Decimal `json:"target"`
	Deadline    generic.Date    `json:"deadline,omitempty"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Priority    string          `json:"priority,omitempty"`
}

func (d FinanceGoalRequestDTO) toInput() finance.GoalInput {
	return finance.GoalInput{
		Name:        d.Name,
		Target:      d.Target,
		Deadline:    d.Deadline,
		Description: d.Description,
		Category:    d.Category,
		Priority:    d.Priority,
	}
}

type GoalProgressRequestDTO struct {
	Amount decimal.Decimal `json:"amount"`
}

type MonthlyExpenseRequestDTO struct {
	CategoryID  string          `json:"category_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     generic.Date    `json:"due_date"`
	IsPaid      bool            `json:"is_paid,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Month       string          `json:"month"` // YYYY-MM
	IsRecurring bool            `json:"is_recurring,omitempty"`
}

func (d MonthlyExpenseRequestDTO) toInput() finance.MonthlyExpenseInput {
	return finance.MonthlyExpenseInput{
		CategoryID:  d.CategoryID,
		Description: d.Description,
		Amount:      d.Amount,
		DueDate:     d.DueDate,
		IsPaid:      d.IsPaid,
		Notes:       d.Notes,
		Month:       d.Month,
		IsRecurring: d.IsRecurring,
	}
}

// SummaryDTO is the period totals envelope for the finance dashboard.
type SummaryDTO struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// =============================================================================
// HEALTH
// =============================================================================

type MetricRequestDTO struct {
	Type  string             `json:"type"`
	Value float64            `json:"value"`
	Unit  string             `json:"unit,omitempty"`
	Date  generic.Date       `json:"date,omitempty"`
	Time  *generic.TimeOfDay `json:"time,omitempty"`
	Notes string             `json:"notes,omitempty"`
}

func (d MetricRequestDTO) toInput() health.MetricInput {
	return health.MetricInput{
		Type:  health.MetricType(d.Type),
		Value: d.Value,
		Unit:  d.Unit,
		Date:  d.Date,
		Time:  d.Time,
		Notes: d.Notes,
	}
}

// =============================================================================
// DEVELOPMENT
// =============================================================================

type PlanRequestDTO struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

type SkillRequestDTO struct {
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
}

type SkillProgressRequestDTO struct {
	Progress float64 `json:"progress"`
}

type PlanProgressDTO struct {
	PlanID   string  `json:"plan_id"`
	Progress float64 `json:"progress"`
}
