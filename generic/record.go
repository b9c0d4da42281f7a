/*
Package generic provides the core recurrence and ledger engine.

PURPOSE:
  This package contains domain-agnostic types and algorithms for tracking
  scheduled, optionally recurring records. Whether the record is a daily
  activity, a weekly routine or a monthly rent payment, the same engine
  handles recurrence expansion, status classification, storage and
  period-bucketed aggregation.

KEY CONCEPTS IN THIS FILE (record.go):
  - Kind: Domain adapter describing one record kind (status vocabulary,
    lateness eligibility, required fields)
  - Record: A materialized, dated ledger entry
  - Template: The shared fields cloned into every occurrence of a
    recurring record
  - TemplateKey: The stable key linking occurrences for cascade delete

DESIGN PRINCIPLES:
  1. One engine, many domains: the engine has NO knowledge of concrete
     record kinds; domain packages implement Kind and register it
  2. Precision: money amounts use decimal.Decimal, never float64
  3. Explicit dependencies: clock and storage are injected, never ambient
  4. Deserialize-then-validate: persisted records are checked at the
     storage boundary and quarantined when malformed, not crashed on

SEE ALSO:
  - recurrence.go: Rule expansion into occurrence dates
  - materialize.go: Occurrence dates into Records
  - status.go: Lifecycle classification
  - ledger.go: The record collection and its invariants
  - aggregate.go: Period bucketing and totals
*/
package generic

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - Domain adapter for one record kind
// =============================================================================

// Kind identifies what kind of record is being tracked and carries the
// kind-specific rules the engine needs. This is an interface so domain
// packages define their own concrete types; the generic package has NO
// knowledge of specific kinds.
//
// Domain packages implement this:
//
//	// In activity/types.go
//	type Kind string
//	func (k Kind) KindID() string { return string(k) }
//	func (k Kind) KindDomain() string { return "activities" }
//	const KindDaily Kind = "daily"
type Kind interface {
	// KindID returns the unique identifier for this kind within its domain.
	KindID() string

	// KindDomain returns which domain this kind belongs to.
	KindDomain() string

	// LateEligible reports whether records of this kind are classified late
	// when their scheduled deadline has passed at materialization time.
	LateEligible() bool

	// RequiresTime reports whether a scheduled time-of-day is mandatory.
	RequiresTime() bool

	// RequiresAmount reports whether a positive monetary amount is mandatory.
	RequiresAmount() bool

	// OpenStatus is the not-yet-done status ("pending", "unpaid").
	OpenStatus() Status

	// DoneStatus is the done status ("completed", "paid").
	DoneStatus() Status
}

// =============================================================================
// KIND REGISTRY - Rehydrates kinds when loading persisted records
// =============================================================================

var (
	kindsMu sync.RWMutex
	kinds   = make(map[string]Kind)
)

// RegisterKind makes a kind known to the engine so persisted records can be
// rehydrated by id. Domain packages call this from init().
func RegisterKind(k Kind) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[kindKey(k.KindDomain(), k.KindID())] = k
}

// KindByID looks up a registered kind. Returns nil if unknown.
func KindByID(domain, id string) Kind {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	return kinds[kindKey(domain, id)]
}

func kindKey(domain, id string) string { return domain + "/" + id }

// =============================================================================
// STATUS - Record lifecycle
// =============================================================================

// Status is a record's lifecycle tag. The open/done vocabulary is
// kind-specific (pending/completed for activities, unpaid/paid for
// transactions); late applies only to late-eligible kinds.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusLate      Status = "late"
	StatusUnpaid    Status = "unpaid"
	StatusPaid      Status = "paid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RecordID string

// TemplateKey is shared by every record materialized from one recurring
// template. Cascade delete of a recurring template is implemented as
// "delete future records with this key" - there is no template entity.
type TemplateKey string

// =============================================================================
// RECORD - A materialized, dated ledger entry
// =============================================================================

// Record generalizes an activity instance and a financial transaction.
// Template fields are embedded by value: records carry everything they need
// and never back-reference a template entity.
type Record struct {
	ID          RecordID
	TemplateKey TemplateKey
	Kind        Kind

	Title       string
	Description string
	Category    string
	Priority    string
	Notes       string
	Tags        []string
	Order       int

	ScheduledDate Date
	ScheduledTime *TimeOfDay

	// Amount is set only for kinds with RequiresAmount.
	Amount *decimal.Decimal

	// GoalID optionally links the record to a domain goal it funds.
	GoalID string

	Status              Status
	IsRecurringInstance bool
	Rule                RecurrenceRule

	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Done reports whether the record is in its kind's done status.
func (r Record) Done() bool {
	return r.Kind != nil && r.Status == r.Kind.DoneStatus()
}

// Validate enforces the record invariants. It is called both on the write
// path (Add) and at the storage boundary when rehydrating persisted blobs.
func (r Record) Validate() error {
	if r.Kind == nil {
		return &ValidationError{Field: "kind", Reason: "required"}
	}
	if r.Title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if r.ScheduledDate.IsZero() {
		return &ValidationError{Field: "scheduledDate", Reason: "required"}
	}
	if r.Kind.RequiresTime() && r.ScheduledTime == nil {
		return &ValidationError{Field: "scheduledTime", Reason: fmt.Sprintf("required for kind %s", r.Kind.KindID())}
	}
	if r.Kind.RequiresAmount() {
		if r.Amount == nil {
			return &ValidationError{Field: "amount", Reason: "required"}
		}
		if !r.Amount.IsPositive() {
			return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
		}
	}
	return nil
}

// =============================================================================
// JSON - Kind is persisted as domain/id and rehydrated via the registry
// =============================================================================

// recordJSON is the persisted shape of a Record.
type recordJSON struct {
	ID          RecordID    `json:"id"`
	TemplateKey TemplateKey `json:"template_key,omitempty"`
	Domain      string      `json:"domain"`
	Kind        string      `json:"kind"`

	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Order       int      `json:"order,omitempty"`

	ScheduledDate Date       `json:"scheduled_date"`
	ScheduledTime *TimeOfDay `json:"scheduled_time,omitempty"`

	Amount *decimal.Decimal `json:"amount,omitempty"`
	GoalID string           `json:"goal_id,omitempty"`

	Status              Status         `json:"status"`
	IsRecurringInstance bool           `json:"is_recurring_instance,omitempty"`
	Rule                RecurrenceRule `json:"rule,omitempty"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Kind == nil {
		return nil, &ValidationError{Field: "kind", Reason: "required"}
	}
	return json.Marshal(recordJSON{
		ID:                  r.ID,
		TemplateKey:         r.TemplateKey,
		Domain:              r.Kind.KindDomain(),
		Kind:                r.Kind.KindID(),
		Title:               r.Title,
		Description:         r.Description,
		Category:            r.Category,
		Priority:            r.Priority,
		Notes:               r.Notes,
		Tags:                r.Tags,
		Order:               r.Order,
		ScheduledDate:       r.ScheduledDate,
		ScheduledTime:       r.ScheduledTime,
		Amount:              r.Amount,
		GoalID:              r.GoalID,
		Status:              r.Status,
		IsRecurringInstance: r.IsRecurringInstance,
		Rule:                r.Rule,
		CompletedAt:         r.CompletedAt,
		CreatedAt:           r.CreatedAt,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind := KindByID(raw.Domain, raw.Kind)
	if kind == nil {
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %s/%s", raw.Domain, raw.Kind)}
	}
	*r = Record{
		ID:                  raw.ID,
		TemplateKey:         raw.TemplateKey,
		Kind:                kind,
		Title:               raw.Title,
		Description:         raw.Description,
		Category:            raw.Category,
		Priority:            raw.Priority,
		Notes:               raw.Notes,
		Tags:                raw.Tags,
		Order:               raw.Order,
		ScheduledDate:       raw.ScheduledDate,
		ScheduledTime:       raw.ScheduledTime,
		Amount:              raw.Amount,
		GoalID:              raw.GoalID,
		Status:              raw.Status,
		IsRecurringInstance: raw.IsRecurringInstance,
		Rule:                raw.Rule,
		CompletedAt:         raw.CompletedAt,
		CreatedAt:           raw.CreatedAt,
	}
	return nil
}
