package generic

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TEMPLATE - Shared fields cloned into each occurrence
// =============================================================================

// Template holds the fields every occurrence of one recurring record
// shares. Materialization clones these by value into each Record.
type Template struct {
	Kind        Kind
	Title       string
	Description string
	Category    string
	Priority    string
	Notes       string
	Tags        []string
	Order       int

	ScheduledTime *TimeOfDay
	Amount        *decimal.Decimal
	GoalID        string

	// Recurring explicitly flags the records as recurring instances even
	// when only one occurrence materializes.
	Recurring bool

	// SeedDone marks the occurrence on the rule's own start date as done
	// (paid). Transactions created without a future due date materialize
	// already paid; all later occurrences start unpaid.
	SeedDone bool
}

// =============================================================================
// MATERIALIZER - Occurrence dates into persisted records
// =============================================================================

// Materialize builds one Record per occurrence date.
//
// Guarantees: exactly one record per date, a fresh unique id per record,
// the shared template key on every record, output order matching input
// order. Initial status comes from InitialStatus; IsRecurringInstance is
// set when more than one record results or the template is flagged
// recurring.
func Materialize(tmpl Template, key TemplateKey, rule RecurrenceRule, dates []Date, now time.Time) []Record {
	records := make([]Record, 0, len(dates))
	recurring := tmpl.Recurring || len(dates) > 1
	for _, date := range dates {
		rec := Record{
			ID:                  RecordID(uuid.NewString()),
			TemplateKey:         key,
			Kind:                tmpl.Kind,
			Title:               tmpl.Title,
			Description:         tmpl.Description,
			Category:            tmpl.Category,
			Priority:            tmpl.Priority,
			Notes:               tmpl.Notes,
			Tags:                cloneTags(tmpl.Tags),
			Order:               tmpl.Order,
			ScheduledDate:       date,
			ScheduledTime:       tmpl.ScheduledTime,
			Amount:              tmpl.Amount,
			GoalID:              tmpl.GoalID,
			Status:              InitialStatus(tmpl.Kind, date, tmpl.ScheduledTime, now),
			IsRecurringInstance: recurring,
			Rule:                rule,
			CreatedAt:           now,
		}
		if tmpl.SeedDone && date.Equal(rule.StartDate) {
			rec.Status = tmpl.Kind.DoneStatus()
			done := now
			rec.CompletedAt = &done
		}
		records = append(records, rec)
	}
	return records
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append([]string(nil), tags...)
}
