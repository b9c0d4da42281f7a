/*
reports.go - The financial aggregation surface

PURPOSE:
  Everything the dashboard charts read: signed balance, rolling-window
  income/expense totals, per-category breakdowns, daily spending,
  upcoming payments, cash flow and budget status. Only paid transactions
  count toward totals; unpaid ones only surface in upcoming payments.

WINDOWS:
  Period totals use the engine's rolling trailing windows anchored at
  today (week = [today-7d, today]), not calendar periods.
*/
package finance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// TOTALS
// =============================================================================

func paid(r generic.Record) bool { return r.Status == generic.StatusPaid }

func paidOfKind(kind Kind) func(generic.Record) bool {
	return func(r generic.Record) bool { return r.Kind == kind && paid(r) }
}

// Balance is the signed sum over paid transactions: income minus expenses.
func (s *Service) Balance() decimal.Decimal {
	balance := decimal.Zero
	for _, r := range s.ledger.All() {
		if !paid(r) || r.Amount == nil {
			continue
		}
		if r.Kind == KindIncome {
			balance = balance.Add(*r.Amount)
		} else {
			balance = balance.Sub(*r.Amount)
		}
	}
	return balance
}

// IncomeTotal sums paid income inside the rolling period window.
func (s *Service) IncomeTotal(p generic.Period) decimal.Decimal {
	return generic.Totals(s.ledger.All(), p, s.clock.Today(), paidOfKind(KindIncome))
}

// ExpenseTotal sums paid expenses inside the rolling period window.
func (s *Service) ExpenseTotal(p generic.Period) decimal.Decimal {
	return generic.Totals(s.ledger.All(), p, s.clock.Today(), paidOfKind(KindExpense))
}

// DailySpending is today's paid expense total.
func (s *Service) DailySpending() decimal.Decimal {
	return s.ExpenseTotal(generic.PeriodDay)
}

// =============================================================================
// CATEGORY BREAKDOWNS
// =============================================================================

// CategoryTotal is one slice of the category chart.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// TotalsByCategory breaks paid transactions inside the window down by
// category name, in first-seen order.
func (s *Service) TotalsByCategory(p generic.Period) []CategoryTotal {
	today := s.clock.Today()

	var order []string
	sums := make(map[string]*CategoryTotal)
	for _, r := range s.ledger.All() {
		if !paid(r) || r.Amount == nil || !p.Contains(r.ScheduledDate, today) {
			continue
		}
		ct, ok := sums[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category}
			sums[r.Category] = ct
			order = append(order, r.Category)
		}
		ct.Total = ct.Total.Add(*r.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, *sums[name])
	}
	return out
}

// MonthlyExpensesByCategory breaks one month's expense templates down by
// category name.
func (s *Service) MonthlyExpensesByCategory(month string) []CategoryTotal {
	var order []string
	sums := make(map[string]*CategoryTotal)
	for _, e := range s.MonthlyExpensesFor(month) {
		name := "Outros"
		if cat, ok := s.CategoryByID(e.CategoryID); ok {
			name = cat.Name
		}
		ct, ok := sums[name]
		if !ok {
			ct = &CategoryTotal{Category: name}
			sums[name] = ct
			order = append(order, name)
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, *sums[name])
	}
	return out
}

// =============================================================================
// UPCOMING PAYMENTS
// =============================================================================

// UpcomingPayments returns unpaid expenses due within the next N days
// (today inclusive), earliest first.
func (s *Service) UpcomingPayments(days int) []generic.Record {
	if days <= 0 {
		days = 7
	}
	today := s.clock.Today()
	horizon := today.AddDays(days)

	records := s.ledger.Query(func(r generic.Record) bool {
		return r.Kind == KindExpense &&
			r.Status == generic.StatusUnpaid &&
			r.ScheduledDate.AfterOrEqual(today) &&
			r.ScheduledDate.BeforeOrEqual(horizon)
	})
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ScheduledDate.Before(records[j].ScheduledDate)
	})
	return records
}

// =============================================================================
// CASH FLOW
// =============================================================================

// CashFlowPoint is one day of the cash-flow chart.
type CashFlowPoint struct {
	Date     generic.Date    `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// CashFlow returns per-date income, expenses and running balance over all
// paid transactions, oldest first.
func (s *Service) CashFlow() []CashFlowPoint {
	records := s.ledger.Query(paid)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ScheduledDate.Before(records[j].ScheduledDate)
	})

	var points []CashFlowPoint
	running := decimal.Zero
	for _, r := range records {
		if r.Amount == nil {
			continue
		}
		if len(points) == 0 || !points[len(points)-1].Date.Equal(r.ScheduledDate) {
			points = append(points, CashFlowPoint{Date: r.ScheduledDate})
		}
		p := &points[len(points)-1]
		if r.Kind == KindIncome {
			p.Income = p.Income.Add(*r.Amount)
			running = running.Add(*r.Amount)
		} else {
			p.Expenses = p.Expenses.Add(*r.Amount)
			running = running.Sub(*r.Amount)
		}
		p.Balance = running
	}
	return points
}

// =============================================================================
// BUDGET STATUS
// =============================================================================

// BudgetStatus is one budgeted category's month-to-date position.
type BudgetStatus struct {
	Category   string          `json:"category"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Budgets reports spend-versus-budget for every category carrying a
// budget, using the rolling month window.
func (s *Service) Budgets() []BudgetStatus {
	spent := make(map[string]decimal.Decimal)
	for _, ct := range s.TotalsByCategory(generic.PeriodMonth) {
		spent[ct.Category] = ct.Total
	}

	var out []BudgetStatus
	for _, cat := range s.Categories() {
		if cat.Budget == nil || !cat.Budget.IsPositive() {
			continue
		}
		used := spent[cat.Name]
		out = append(out, BudgetStatus{
			Category:   cat.Name,
			Spent:      used,
			Budget:     *cat.Budget,
			Percentage: used.Div(*cat.Budget).Mul(decimal.NewFromInt(100)),
		})
	}
	return out
}
