/*
service.go - Transaction operations and sidecar collection plumbing

PURPOSE:
  Owns the finance ledger plus the three sidecar collections (categories,
  goals, monthly expenses), each persisted as its own blob under a fixed
  key. Mutations on the sidecars go through the service mutex so two
  callers never interleave a read-modify-write.

RECURRENCE:
  A recurring transaction uses frequency stepping: the seed transaction
  materializes on its own date (paid unless it is due in the future) and
  every later occurrence materializes unpaid, sharing the template key.
*/
package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/generic"
)

// Persistence keys, one blob per collection.
const (
	BlobKeyTransactions    = "financial_transactions"
	BlobKeyCategories      = "financial_categories"
	BlobKeyGoals           = "financial_goals"
	BlobKeyMonthlyExpenses = "financial_monthly_expenses"
)

func newID() string { return uuid.NewString() }

type Service struct {
	ledger *generic.Ledger
	blobs  generic.BlobStore
	clock  generic.Clock

	mu         sync.Mutex
	categories []Category
	goals      []Goal
	expenses   []MonthlyExpense
}

func NewService(ctx context.Context, blobs generic.BlobStore, clock generic.Clock) *Service {
	s := &Service{
		ledger: generic.NewLedger(ctx, BlobKeyTransactions, blobs, clock),
		blobs:  blobs,
		clock:  clock,
	}
	loadSidecar(ctx, blobs, BlobKeyCategories, &s.categories)
	loadSidecar(ctx, blobs, BlobKeyGoals, &s.goals)
	loadSidecar(ctx, blobs, BlobKeyMonthlyExpenses, &s.expenses)

	// First run seeds the default category set.
	if len(s.categories) == 0 {
		s.categories = defaultCategories()
		s.saveSidecar(ctx, BlobKeyCategories, s.categories)
	}
	return s
}

// loadSidecar fills dst from the blob under key. Malformed data is logged
// and treated as empty, same as the ledger's load policy.
func loadSidecar[T any](ctx context.Context, blobs generic.BlobStore, key string, dst *[]T) {
	blob, err := blobs.Load(ctx, key)
	if err != nil {
		log.Printf("finance: %v", &generic.StorageError{Key: key, Op: "load", Err: err})
		return
	}
	if blob == nil {
		return
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		log.Printf("finance: malformed blob %q, starting empty: %v", key, err)
		*dst = nil
	}
}

func (s *Service) saveSidecar(ctx context.Context, key string, v any) {
	blob, err := json.Marshal(v)
	if err != nil {
		log.Printf("finance: %v", &generic.StorageError{Key: key, Op: "save", Err: err})
		return
	}
	if err := s.blobs.Save(ctx, key, blob); err != nil {
		log.Printf("finance: %v", &generic.StorageError{Key: key, Op: "save", Err: err})
	}
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionInput is the transaction creation form.
type TransactionInput struct {
	Kind        Kind
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        generic.Date
	Time        *generic.TimeOfDay
	Notes       string
	Tags        []string

	// Paid defaults to "paid unless due in the future".
	Paid *bool

	// GoalID links an income transaction to the goal it funds.
	GoalID string

	// Recurring expands the transaction by Frequency until EndDate
	// (default one year). Future occurrences materialize unpaid.
	Recurring bool
	Frequency generic.Frequency
	EndDate   *generic.Date
}

// AddTransaction creates a transaction, expanding recurring ones, and
// funds a linked goal when the seed is a paid income. All created records
// are returned, seed first.
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) ([]generic.Record, error) {
	paid := !in.Date.After(s.clock.Today())
	if in.Paid != nil {
		paid = *in.Paid
	}

	var records []generic.Record
	if in.Recurring && in.Frequency != generic.FreqNone {
		tmpl := generic.Template{
			Kind:          in.Kind,
			Title:         in.Description,
			Category:      in.Category,
			Notes:         in.Notes,
			Tags:          in.Tags,
			ScheduledTime: in.Time,
			Amount:        &in.Amount,
			GoalID:        in.GoalID,
			Recurring:     true,
			SeedDone:      paid,
		}
		rule := generic.RecurrenceRule{
			StartDate: in.Date,
			EndDate:   in.EndDate,
			Frequency: in.Frequency,
		}
		made, err := s.ledger.AddRecurring(ctx, tmpl, rule)
		if err != nil {
			return nil, err
		}
		records = made
	} else {
		status := generic.StatusUnpaid
		var completedAt *time.Time
		if paid {
			status = generic.StatusPaid
			now := s.clock.Now()
			completedAt = &now
		}
		rec, err := s.ledger.Add(ctx, generic.Record{
			Kind:          in.Kind,
			Title:         in.Description,
			Category:      in.Category,
			Notes:         in.Notes,
			Tags:          in.Tags,
			ScheduledDate: in.Date,
			ScheduledTime: in.Time,
			Amount:        &in.Amount,
			GoalID:        in.GoalID,
			Status:        status,
			CompletedAt:   completedAt,
		})
		if err != nil {
			return nil, err
		}
		records = []generic.Record{rec}
	}

	if in.Kind == KindIncome && in.GoalID != "" && paid {
		if err := s.AddGoalProgress(ctx, in.GoalID, in.Amount); err != nil && !generic.IsNotFound(err) {
			return nil, err
		}
	}
	return records, nil
}

func (s *Service) UpdateTransaction(ctx context.Context, id generic.RecordID, patch generic.Patch) (generic.Record, error) {
	return s.ledger.Update(ctx, id, patch)
}

// TogglePaid flips a transaction between unpaid and paid.
func (s *Service) TogglePaid(ctx context.Context, id generic.RecordID) (generic.Record, error) {
	return s.ledger.ToggleComplete(ctx, id)
}

// DeleteTransaction removes a transaction; deleting a recurring occurrence
// cascades over its future siblings.
func (s *Service) DeleteTransaction(ctx context.Context, id generic.RecordID) error {
	return s.ledger.Delete(ctx, id)
}

func (s *Service) Transactions() []generic.Record {
	return s.ledger.All()
}

func (s *Service) Transaction(id generic.RecordID) (generic.Record, error) {
	return s.ledger.Get(id)
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

type exportEnvelope struct {
	Transactions    []generic.Record `json:"transactions"`
	Goals           []Goal           `json:"goals"`
	Categories      []Category       `json:"categories"`
	MonthlyExpenses []MonthlyExpense `json:"monthly_expenses"`
	ExportDate      time.Time        `json:"export_date"`
}

func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(exportEnvelope{
		Transactions:    s.ledger.All(),
		Goals:           s.goals,
		Categories:      s.categories,
		MonthlyExpenses: s.expenses,
		ExportDate:      s.clock.Now(),
	}, "", "  ")
}

func (s *Service) Import(ctx context.Context, data []byte) error {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse import: %w", err)
	}
	if err := s.ledger.Replace(ctx, env.Transactions); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = env.Goals
	s.expenses = env.MonthlyExpenses
	if len(env.Categories) > 0 {
		s.categories = env.Categories
	}
	s.saveSidecar(ctx, BlobKeyGoals, s.goals)
	s.saveSidecar(ctx, BlobKeyCategories, s.categories)
	s.saveSidecar(ctx, BlobKeyMonthlyExpenses, s.expenses)
	return nil
}

// Clear removes all financial data and reseeds the default categories.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.ledger.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = nil
	s.expenses = nil
	s.categories = defaultCategories()
	s.saveSidecar(ctx, BlobKeyGoals, s.goals)
	s.saveSidecar(ctx, BlobKeyCategories, s.categories)
	s.saveSidecar(ctx, BlobKeyMonthlyExpenses, s.expenses)
	return nil
}
