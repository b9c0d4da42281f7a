/*
monthly.go - Monthly expense templates coupled 1:1 to transactions

PURPOSE:
  A monthly expense is a per-month bill template ("rent, due the 5th").
  Its paid flag is coupled to transaction history: marking it paid creates
  exactly one linked expense transaction, unmarking removes that
  transaction again, and deleting the template deletes its transaction.
  The TransactionID field maintains the 1:1 link.
*/
package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// MONTHLY EXPENSES
// =============================================================================

func (s *Service) MonthlyExpenses() []MonthlyExpense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MonthlyExpense(nil), s.expenses...)
}

// MonthlyExpensesFor returns the templates of one month (YYYY-MM).
func (s *Service) MonthlyExpensesFor(month string) []MonthlyExpense {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []MonthlyExpense
	for _, e := range s.expenses {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out
}

// MonthlyExpenseInput is the template creation form.
type MonthlyExpenseInput struct {
	CategoryID  string
	Description string
	Amount      decimal.Decimal
	DueDate     generic.Date
	IsPaid      bool
	Notes       string
	Month       string // YYYY-MM
	IsRecurring bool
}

// AddMonthlyExpense creates a template; a template created already paid
// gets its linked transaction immediately.
func (s *Service) AddMonthlyExpense(ctx context.Context, in MonthlyExpenseInput) (MonthlyExpense, error) {
	if in.Description == "" {
		return MonthlyExpense{}, &generic.ValidationError{Field: "description", Reason: "required"}
	}
	if !in.Amount.IsPositive() {
		return MonthlyExpense{}, &generic.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if _, ok := s.CategoryByID(in.CategoryID); !ok {
		return MonthlyExpense{}, &generic.ValidationError{Field: "categoryId", Reason: "unknown category"}
	}

	expense := MonthlyExpense{
		ID:          newID(),
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		IsPaid:      in.IsPaid,
		Notes:       in.Notes,
		Month:       in.Month,
		IsRecurring: in.IsRecurring,
	}

	if in.IsPaid {
		rec, err := s.linkTransaction(ctx, expense)
		if err != nil {
			return MonthlyExpense{}, err
		}
		expense.TransactionID = rec.ID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, expense)
	s.saveSidecar(ctx, BlobKeyMonthlyExpenses, s.expenses)
	return expense, nil
}

func (s *Service) UpdateMonthlyExpense(ctx context.Context, id string, in MonthlyExpenseInput) (MonthlyExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID != id {
			continue
		}
		if in.Description != "" {
			e.Description = in.Description
		}
		if in.Amount.IsPositive() {
			e.Amount = in.Amount
		}
		if !in.DueDate.IsZero() {
			e.DueDate = in.DueDate
		}
		if in.CategoryID != "" {
			e.CategoryID = in.CategoryID
		}
		if in.Month != "" {
			e.Month = in.Month
		}
		if in.Notes != "" {
			e.Notes = in.Notes
		}
		s.expenses[i] = e
		s.saveSidecar(ctx, BlobKeyMonthlyExpenses, s.expenses)
		return e, nil
	}
	return MonthlyExpense{}, generic.ErrNotFound
}

// DeleteMonthlyExpense removes a template and its linked transaction.
func (s *Service) DeleteMonthlyExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	var linked generic.RecordID
	found := false
	for i, e := range s.expenses {
		if e.ID == id {
			linked = e.TransactionID
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			s.saveSidecar(ctx, BlobKeyMonthlyExpenses, s.expenses)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return generic.ErrNotFound
	}
	if linked != "" {
		return s.ledger.Delete(ctx, linked)
	}
	return nil
}

// ToggleMonthlyExpensePaid flips the paid flag, creating the linked
// transaction when paying and removing it when unpaying.
func (s *Service) ToggleMonthlyExpensePaid(ctx context.Context, id string) (MonthlyExpense, error) {
	s.mu.Lock()
	idx := -1
	for i, e := range s.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return MonthlyExpense{}, generic.ErrNotFound
	}
	expense := s.expenses[idx]
	s.mu.Unlock()

	if !expense.IsPaid {
		rec, err := s.linkTransaction(ctx, expense)
		if err != nil {
			return MonthlyExpense{}, err
		}
		expense.IsPaid = true
		expense.TransactionID = rec.ID
	} else {
		if expense.TransactionID != "" {
			if err := s.ledger.Delete(ctx, expense.TransactionID); err != nil {
				return MonthlyExpense{}, err
			}
		}
		expense.IsPaid = false
		expense.TransactionID = ""
	}

	// The slice may have been respliced while the ledger call ran, so the
	// expense must be re-found by ID, not written back through idx.
	s.mu.Lock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses[i] = expense
			s.saveSidecar(ctx, BlobKeyMonthlyExpenses, s.expenses)
			s.mu.Unlock()
			return expense, nil
		}
	}
	s.mu.Unlock()

	// Deleted concurrently: undo the transaction created above so no
	// orphan survives the lost toggle.
	if expense.IsPaid && expense.TransactionID != "" {
		if err := s.ledger.Delete(ctx, expense.TransactionID); err != nil {
			return MonthlyExpense{}, err
		}
	}
	return MonthlyExpense{}, generic.ErrNotFound
}

// linkTransaction creates the paid expense transaction for a template.
func (s *Service) linkTransaction(ctx context.Context, e MonthlyExpense) (generic.Record, error) {
	cat, _ := s.CategoryByID(e.CategoryID)
	now := s.clock.Now()
	return s.ledger.Add(ctx, generic.Record{
		Kind:          KindExpense,
		Title:         e.Description,
		Category:      cat.Name,
		Notes:         e.Notes,
		ScheduledDate: e.DueDate,
		Amount:        &e.Amount,
		Status:        generic.StatusPaid,
		CompletedAt:   &now,
	})
}
