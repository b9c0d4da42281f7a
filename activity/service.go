/*
service.go - Activity operations and dashboard queries

PURPOSE:
  Wraps the generic ledger with activity-specific creation rules and the
  read-side queries the dashboard needs: today's tasks, goals by
  priority, this week's priorities, the 7-day productivity chart and the
  daily completion rate.

ROUTINES:
  A routine is a weekday-set recurrence: "every Monday and Wednesday
  until the end date" (default one month). Creating one materializes
  every matching occurrence up front, each sharing a template key so a
  later delete can cascade over the remaining future occurrences while
  past ones stay as history.
*/
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mindflow/life-ledger/generic"
)

// BlobKey is the persistence key for the activity collection.
const BlobKey = "activities"

type Service struct {
	ledger *generic.Ledger
	clock  generic.Clock
}

func NewService(ctx context.Context, blobs generic.BlobStore, clock generic.Clock) *Service {
	return &Service{
		ledger: generic.NewLedger(ctx, BlobKey, blobs, clock),
		clock:  clock,
	}
}

// =============================================================================
// CREATION
// =============================================================================

// Input is the activity creation form.
type Input struct {
	Kind        Kind
	Title       string
	Description string
	Category    string
	Priority    string
	Notes       string
	Tags        []string
	Order       int

	Date generic.Date
	Time *generic.TimeOfDay

	// WeekDays turns the activity into a routine repeating on those days
	// from Date until EndDate (default one month out).
	WeekDays []time.Weekday
	EndDate  *generic.Date
}

// Add creates a single activity, or every occurrence of a routine when
// week days are given. It returns all created records.
func (s *Service) Add(ctx context.Context, in Input) ([]generic.Record, error) {
	if len(in.WeekDays) > 0 {
		tmpl := generic.Template{
			Kind:          in.Kind,
			Title:         in.Title,
			Description:   in.Description,
			Category:      in.Category,
			Priority:      in.Priority,
			Notes:         in.Notes,
			Tags:          in.Tags,
			Order:         in.Order,
			ScheduledTime: in.Time,
			Recurring:     true,
		}
		rule := generic.RecurrenceRule{
			StartDate:  in.Date,
			EndDate:    in.EndDate,
			DaysOfWeek: in.WeekDays,
		}
		return s.ledger.AddRecurring(ctx, tmpl, rule)
	}

	rec, err := s.ledger.Add(ctx, generic.Record{
		Kind:          in.Kind,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Priority:      in.Priority,
		Notes:         in.Notes,
		Tags:          in.Tags,
		Order:         in.Order,
		ScheduledDate: in.Date,
		ScheduledTime: in.Time,
	})
	if err != nil {
		return nil, err
	}
	return []generic.Record{rec}, nil
}

// =============================================================================
// MUTATION
// =============================================================================

func (s *Service) Update(ctx context.Context, id generic.RecordID, patch generic.Patch) (generic.Record, error) {
	return s.ledger.Update(ctx, id, patch)
}

func (s *Service) Toggle(ctx context.Context, id generic.RecordID) (generic.Record, error) {
	return s.ledger.ToggleComplete(ctx, id)
}

// Delete removes an activity; deleting a routine occurrence cascades over
// its future siblings.
func (s *Service) Delete(ctx context.Context, id generic.RecordID) error {
	return s.ledger.Delete(ctx, id)
}

// =============================================================================
// QUERIES
// =============================================================================

func (s *Service) All() []generic.Record {
	return s.ledger.All()
}

func (s *Service) Get(id generic.RecordID) (generic.Record, error) {
	return s.ledger.Get(id)
}

// Daily returns today's daily tasks and routine occurrences, in display
// order.
func (s *Service) Daily() []generic.Record {
	today := s.clock.Today()
	records := s.ledger.Query(func(r generic.Record) bool {
		return (r.Kind == KindDaily || r.Kind == KindRoutine) && r.ScheduledDate.Equal(today)
	})
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Order < records[j].Order
	})
	return records
}

// Goals returns every goal, highest priority first.
func (s *Service) Goals() []generic.Record {
	records := s.ledger.Query(func(r generic.Record) bool { return r.Kind == KindGoal })
	sort.SliceStable(records, func(i, j int) bool {
		return PriorityRank(records[i].Priority) < PriorityRank(records[j].Priority)
	})
	return records
}

// Priorities returns this calendar week's priority activities
// (Sunday through Saturday), highest priority first, then by date.
func (s *Service) Priorities() []generic.Record {
	today := s.clock.Today()
	weekStart := today.AddDays(-int(today.Weekday()))
	weekEnd := weekStart.AddDays(6)

	records := s.ledger.Query(func(r generic.Record) bool {
		return r.Kind == KindPriority &&
			r.ScheduledDate.AfterOrEqual(weekStart) &&
			r.ScheduledDate.BeforeOrEqual(weekEnd)
	})
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := PriorityRank(records[i].Priority), PriorityRank(records[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return records[i].ScheduledDate.Before(records[j].ScheduledDate)
	})
	return records
}

// ByDate returns every activity scheduled on the given date.
func (s *Service) ByDate(date generic.Date) []generic.Record {
	return s.ledger.Query(func(r generic.Record) bool {
		return r.ScheduledDate.Equal(date)
	})
}

// CompletionRate reports completed-versus-total over today's daily set.
func (s *Service) CompletionRate() generic.CompletionRate {
	return generic.RateOf(s.Daily())
}

// ProductivityData is the 7-day status chart ending today: one zero-filled
// bucket per day, oldest first.
func (s *Service) ProductivityData() []generic.DayBucket {
	return generic.BucketByDay(s.ledger.All(), s.clock.Today(), 7)
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

type exportEnvelope struct {
	Activities []generic.Record `json:"activities"`
	ExportDate time.Time        `json:"export_date"`
}

// Export serializes the whole collection.
func (s *Service) Export() ([]byte, error) {
	return json.MarshalIndent(exportEnvelope{
		Activities: s.ledger.All(),
		ExportDate: s.clock.Now(),
	}, "", "  ")
}

// Import replaces the collection with previously exported data.
func (s *Service) Import(ctx context.Context, data []byte) error {
	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse import: %w", err)
	}
	return s.ledger.Replace(ctx, env.Activities)
}

// Clear removes every activity.
func (s *Service) Clear(ctx context.Context) error {
	return s.ledger.Clear(ctx)
}
