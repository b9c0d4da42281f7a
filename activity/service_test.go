package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/life-ledger/activity"
	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/generic/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func d(s string) generic.Date { return generic.MustParseDate(s) }

func tod(h, m int) *generic.TimeOfDay { return &generic.TimeOfDay{Hour: h, Minute: m} }

// newTestService pins the clock to noon UTC on the given date.
func newTestService(t *testing.T, today string) (*activity.Service, *store.Memory) {
	t.Helper()
	clock := generic.NewFixedClock(d(today).At(generic.TimeOfDay{Hour: 12, Minute: 0}))
	mem := store.NewMemory()
	return activity.NewService(context.Background(), mem, clock), mem
}

func dailyInput(title string, date string) activity.Input {
	return activity.Input{
		Kind:  activity.KindDaily,
		Title: title,
		Date:  d(date),
		Time:  tod(18, 0),
	}
}

// =============================================================================
// CREATION
// =============================================================================

func TestService_Add_SingleDailyTask(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	records, err := svc.Add(context.Background(), dailyInput("water plants", "2025-03-12"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, generic.StatusPending, records[0].Status)
	assert.False(t, records[0].IsRecurringInstance)
}

func TestService_Add_DailyWithoutTimeRejected(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	in := dailyInput("no time", "2025-03-12")
	in.Time = nil
	_, err := svc.Add(context.Background(), in)

	assert.ErrorIs(t, err, generic.ErrValidation)
}

func TestService_Add_RoutineMaterializesOccurrences(t *testing.T) {
	// GIVEN: A Mon/Wed routine starting Monday with a one-week window
	// WHEN: Adding it
	// THEN: Both occurrences materialize up front, sharing a template key

	svc, _ := newTestService(t, "2025-03-03")

	end := d("2025-03-09")
	records, err := svc.Add(context.Background(), activity.Input{
		Kind:     activity.KindRoutine,
		Title:    "gym",
		Date:     d("2025-03-03"),
		Time:     tod(7, 0),
		WeekDays: []time.Weekday{time.Monday, time.Wednesday},
		EndDate:  &end,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, d("2025-03-03"), records[0].ScheduledDate)
	assert.Equal(t, d("2025-03-05"), records[1].ScheduledDate)
	assert.Equal(t, records[0].TemplateKey, records[1].TemplateKey)
	assert.True(t, records[0].IsRecurringInstance)
}

// =============================================================================
// DASHBOARD QUERIES
// =============================================================================

func TestService_Daily_TodayOnlySortedByOrder(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	second := dailyInput("second", "2025-03-10")
	second.Order = 2
	_, err := svc.Add(ctx, second)
	require.NoError(t, err)

	first := activity.Input{
		Kind: activity.KindRoutine, Title: "first",
		Date: d("2025-03-10"), Time: tod(8, 0), Order: 1,
	}
	_, err = svc.Add(ctx, first)
	require.NoError(t, err)

	_, err = svc.Add(ctx, dailyInput("tomorrow", "2025-03-11"))
	require.NoError(t, err)

	daily := svc.Daily()
	require.Len(t, daily, 2)
	assert.Equal(t, "first", daily[0].Title)
	assert.Equal(t, "second", daily[1].Title)
}

func TestService_Goals_HighestPriorityFirst(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	for _, p := range []string{"low", "high", "medium"} {
		_, err := svc.Add(ctx, activity.Input{
			Kind: activity.KindGoal, Title: p + " goal",
			Priority: p, Date: d("2025-06-01"),
		})
		require.NoError(t, err)
	}

	goals := svc.Goals()
	require.Len(t, goals, 3)
	assert.Equal(t, "high goal", goals[0].Title)
	assert.Equal(t, "medium goal", goals[1].Title)
	assert.Equal(t, "low goal", goals[2].Title)
}

func TestService_Priorities_CurrentCalendarWeekOnly(t *testing.T) {
	// GIVEN: Today is Monday Mar 10; the calendar week is Sun Mar 9
	//        through Sat Mar 15
	// WHEN: Listing priorities
	// THEN: Only in-week records appear, high priority first

	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	add := func(title, date, priority string) {
		_, err := svc.Add(ctx, activity.Input{
			Kind: activity.KindPriority, Title: title,
			Priority: priority, Date: d(date), Time: tod(9, 0),
		})
		require.NoError(t, err)
	}
	add("in low", "2025-03-15", "low")
	add("in high", "2025-03-09", "high")
	add("last week", "2025-03-08", "high")
	add("next week", "2025-03-16", "high")

	priorities := svc.Priorities()
	require.Len(t, priorities, 2)
	assert.Equal(t, "in high", priorities[0].Title)
	assert.Equal(t, "in low", priorities[1].Title)
}

func TestService_CompletionRate_TracksToggles(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	records, err := svc.Add(ctx, dailyInput("a", "2025-03-10"))
	require.NoError(t, err)
	_, err = svc.Add(ctx, dailyInput("b", "2025-03-10"))
	require.NoError(t, err)

	assert.Equal(t, generic.CompletionRate{Completed: 0, Total: 2}, svc.CompletionRate())

	_, err = svc.Toggle(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, generic.CompletionRate{Completed: 1, Total: 2}, svc.CompletionRate())
}

func TestService_ProductivityData_SevenBuckets(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	_, err := svc.Add(context.Background(), dailyInput("today", "2025-03-10"))
	require.NoError(t, err)

	buckets := svc.ProductivityData()
	require.Len(t, buckets, 7)
	assert.Equal(t, d("2025-03-04"), buckets[0].Date)
	assert.Equal(t, 1, buckets[6].Counts[generic.StatusPending])
}

// =============================================================================
// CASCADE DELETE
// =============================================================================

func TestService_Delete_RoutineCascadesFutureOnly(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	end := d("2025-03-12")
	records, err := svc.Add(ctx, activity.Input{
		Kind:  activity.KindRoutine,
		Title: "stretch",
		Date:  d("2025-03-08"),
		Time:  tod(7, 0),
		WeekDays: []time.Weekday{
			time.Saturday, time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		},
		EndDate: &end,
	})
	require.NoError(t, err)
	require.Len(t, records, 5) // Mar 8, 9, 10, 11, 12

	var target generic.RecordID
	for _, rec := range records {
		if rec.ScheduledDate.Equal(d("2025-03-11")) {
			target = rec.ID
		}
	}
	require.NotEmpty(t, target)
	require.NoError(t, svc.Delete(ctx, target))

	remaining := svc.All()
	require.Len(t, remaining, 3)
	for _, rec := range remaining {
		assert.True(t, rec.ScheduledDate.BeforeOrEqual(d("2025-03-10")),
			"only history at or before today survives, got %s", rec.ScheduledDate)
	}
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

func TestService_ExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.Add(ctx, dailyInput("keep me", "2025-03-12"))
	require.NoError(t, err)

	blob, err := svc.Export()
	require.NoError(t, err)

	fresh, _ := newTestService(t, "2025-03-10")
	require.NoError(t, fresh.Import(ctx, blob))

	records := fresh.All()
	require.Len(t, records, 1)
	assert.Equal(t, "keep me", records[0].Title)
	assert.Equal(t, activity.KindDaily, records[0].Kind)
}

func TestService_Import_RejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	assert.Error(t, svc.Import(context.Background(), []byte("not json")))
}
