/*
ledger.go - The record collection and its invariants

PURPOSE:
  The Ledger owns the materialized record collection for one domain.
  It is the only component that mutates records; everything else reads
  through Query. Each public operation presents an all-or-nothing view:
  two AddRecurring calls never interleave their inserts.

CRITICAL INVARIANTS:
  1. OWNERSHIP: No other component mutates records directly
  2. ATOMICITY: AddRecurring inserts all expanded records or none
  3. IDENTITY:  Update never changes id or template key
  4. HISTORY:   Cascade delete removes the target and its strictly-future
     siblings; occurrences at or before today are preserved as history

PERSISTENCE:
  The whole collection is serialized as JSON under a fixed key on every
  mutation. A failed save is logged and the collection continues
  in-memory-only; the operation itself still succeeds and is not retried.
  This mirrors the product's storage semantics: persistence failures are
  a notice, never data loss within the session.

CONCURRENCY:
  Single mutex around the collection. The originating environment is
  single-writer, but the engine is exposed to concurrent HTTP handlers,
  so the mutex preserves the atomicity guarantees above.

SEE ALSO:
  - record.go: Record model and validation
  - recurrence.go: Expansion
  - materialize.go: Record construction
  - aggregate.go: Read-side reporting
*/
package generic

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER - Owns the record collection for one domain
// =============================================================================

type Ledger struct {
	mu      sync.Mutex
	key     string
	store   BlobStore
	clock   Clock
	records []Record
}

// NewLedger constructs a ledger for the given persistence key and loads the
// persisted collection once. A malformed blob or a failed load yields an
// empty collection and a log line, never an error to the caller.
func NewLedger(ctx context.Context, key string, store BlobStore, clock Clock) *Ledger {
	l := &Ledger{key: key, store: store, clock: clock}
	l.records = l.loadInitial(ctx)
	return l
}

func (l *Ledger) loadInitial(ctx context.Context) []Record {
	blob, err := l.store.Load(ctx, l.key)
	if err != nil {
		log.Printf("ledger %q: %v", l.key, &StorageError{Key: l.key, Op: "load", Err: err})
		return nil
	}
	if blob == nil {
		return nil
	}

	// Deserialize-then-validate: a record with an unknown kind or missing
	// required fields is quarantined, not fatal.
	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		log.Printf("ledger %q: malformed blob, starting empty: %v", l.key, err)
		return nil
	}
	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			log.Printf("ledger %q: quarantined record: %v", l.key, err)
			continue
		}
		if err := rec.Validate(); err != nil {
			log.Printf("ledger %q: quarantined record %s: %v", l.key, rec.ID, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// persistLocked saves the collection. Failures are logged and swallowed;
// the in-memory collection remains authoritative for the session.
func (l *Ledger) persistLocked(ctx context.Context) {
	blob, err := json.Marshal(l.records)
	if err != nil {
		log.Printf("ledger %q: %v", l.key, &StorageError{Key: l.key, Op: "save", Err: err})
		return
	}
	if err := l.store.Save(ctx, l.key, blob); err != nil {
		log.Printf("ledger %q: %v", l.key, &StorageError{Key: l.key, Op: "save", Err: err})
	}
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Add validates and appends a single record. Records without an id or
// creation stamp get them assigned; status defaults via InitialStatus when
// unset.
func (l *Ledger) Add(ctx context.Context, rec Record) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if rec.ID == "" {
		rec.ID = RecordID(uuid.NewString())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.Status == "" {
		rec.Status = InitialStatus(rec.Kind, rec.ScheduledDate, rec.ScheduledTime, now)
	}

	l.records = append(l.records, rec)
	l.persistLocked(ctx)
	return rec, nil
}

// AddRecurring expands the rule, materializes one record per occurrence and
// appends them all atomically. For frequency rules the template's own start
// date is the seed occurrence and the expander supplies the rest; weekday
// rules already include the start date when it matches.
func (l *Ledger) AddRecurring(ctx context.Context, tmpl Template, rule RecurrenceRule) ([]Record, error) {
	dates, err := Expand(rule)
	if err != nil {
		return nil, err
	}
	if len(rule.DaysOfWeek) == 0 {
		// Seed first: the start date is an occurrence for frequency rules
		// and for degenerate single-occurrence rules alike.
		dates = append([]Date{rule.StartDate}, dates...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := TemplateKey(uuid.NewString())
	records := Materialize(tmpl, key, rule, dates, l.clock.Now())

	// All-or-nothing: validate the whole batch before the first append.
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
	}

	l.records = append(l.records, records...)
	l.persistLocked(ctx)
	return records, nil
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title         *string
	Description   *string
	Category      *string
	Priority      *string
	Notes         *string
	Tags          *[]string
	Order         *int
	ScheduledDate *Date
	ScheduledTime *TimeOfDay
	Amount        *decimal.Decimal
	GoalID        *string
	Status        *Status
}

// Update merges a patch into the record with the given id. The id and
// template key are fixed at materialization and cannot be patched.
func (l *Ledger) Update(ctx context.Context, id RecordID, patch Patch) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}

	rec := l.records[i]
	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.Description != nil {
		rec.Description = *patch.Description
	}
	if patch.Category != nil {
		rec.Category = *patch.Category
	}
	if patch.Priority != nil {
		rec.Priority = *patch.Priority
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		rec.Tags = cloneTags(*patch.Tags)
	}
	if patch.Order != nil {
		rec.Order = *patch.Order
	}
	if patch.ScheduledDate != nil {
		rec.ScheduledDate = *patch.ScheduledDate
	}
	if patch.ScheduledTime != nil {
		rec.ScheduledTime = patch.ScheduledTime
	}
	if patch.Amount != nil {
		rec.Amount = patch.Amount
	}
	if patch.GoalID != nil {
		rec.GoalID = *patch.GoalID
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	l.records[i] = rec
	l.persistLocked(ctx)
	return rec, nil
}

// ToggleComplete flips the record between its kind's open and done status.
// Entering the done status stamps CompletedAt; leaving it clears it. A late
// record toggles straight to done.
func (l *Ledger) ToggleComplete(ctx context.Context, id RecordID) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}

	rec := l.records[i]
	if rec.Status == rec.Kind.DoneStatus() {
		rec.Status = rec.Kind.OpenStatus()
		rec.CompletedAt = nil
	} else {
		rec.Status = rec.Kind.DoneStatus()
		now := l.clock.Now()
		rec.CompletedAt = &now
	}

	l.records[i] = rec
	l.persistLocked(ctx)
	return rec, nil
}

// Delete removes the record with the given id. Deleting a recurring
// instance cascades to every strictly-future sibling sharing its template
// key; occurrences at or before today stay as history. A missing id is a
// silent no-op.
func (l *Ledger) Delete(ctx context.Context, id RecordID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		return nil
	}

	target := l.records[i]
	today := l.clock.Today()

	keep := l.records[:0]
	for _, rec := range l.records {
		if rec.ID == id {
			continue
		}
		if target.IsRecurringInstance &&
			rec.IsRecurringInstance &&
			rec.TemplateKey == target.TemplateKey &&
			rec.ScheduledDate.After(today) {
			continue
		}
		keep = append(keep, rec)
	}
	l.records = keep
	l.persistLocked(ctx)
	return nil
}

// Replace swaps the whole collection. Used by data import; records failing
// validation are rejected wholesale.
func (l *Ledger) Replace(ctx context.Context, records []Record) error {
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]Record(nil), records...)
	l.persistLocked(ctx)
	return nil
}

// Clear empties the collection.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.persistLocked(ctx)
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Get returns the record with the given id.
func (l *Ledger) Get(id RecordID) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Record{}, ErrNotFound
	}
	return l.records[i], nil
}

// Query returns an order-preserving filtered copy of the collection.
// A nil predicate matches everything. Never mutates.
func (l *Ledger) Query(pred func(Record) bool) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Record, 0, len(l.records))
	for _, rec := range l.records {
		if pred == nil || pred(rec) {
			result = append(result, rec)
		}
	}
	return result
}

// All returns a copy of the whole collection in insertion order.
func (l *Ledger) All() []Record {
	return l.Query(nil)
}

func (l *Ledger) indexLocked(id RecordID) int {
	for i, rec := range l.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}
