/*
Health service tests: metric logging validation and filters, goal
progress against today's totals, the composite score and the insight
rules, plus blob persistence across a service restart.
*/
package health_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/generic/store"
	"github.com/mindflow/life-ledger/health"
)

func d(s string) generic.Date {
	d, err := generic.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// clockAt pins the clock to noon UTC on the given date.
func clockAt(s string) generic.FixedClock {
	return generic.NewFixedClock(d(s).At(generic.TimeOfDay{Hour: 12, Minute: 0}))
}

func newTestService(t *testing.T, today string) (*health.Service, *store.Memory) {
	t.Helper()
	blobs := store.NewMemory()
	return health.NewService(context.Background(), blobs, clockAt(today)), blobs
}

func water(value float64) health.MetricInput {
	return health.MetricInput{Type: health.MetricWater, Value: value, Unit: "ml"}
}

// =============================================================================
// METRICS
// =============================================================================

func TestAddMetricDefaultsDateToToday(t *testing.T) {
	// GIVEN a service on 2025-03-10
	svc, _ := newTestService(t, "2025-03-10")

	// WHEN logging a metric without a date
	m, err := svc.AddMetric(context.Background(), water(250))
	require.NoError(t, err)

	// THEN it gets an id and today's date
	assert.NotEmpty(t, m.ID)
	assert.True(t, m.Date.Equal(d("2025-03-10")))
	assert.Equal(t, health.MetricWater, m.Type)
}

func TestAddMetricRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	_, err := svc.AddMetric(context.Background(), health.MetricInput{Type: "steps", Value: 10})

	require.ErrorIs(t, err, generic.ErrValidation)
	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
	assert.Empty(t, svc.Metrics())
}

func TestAddMetricRejectsNonPositiveValue(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")

	_, err := svc.AddMetric(context.Background(), water(0))

	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "value", verr.Field)
}

func TestMetricFilters(t *testing.T) {
	// GIVEN metrics of mixed types and dates
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddMetric(ctx, water(250))
	require.NoError(t, err)
	_, err = svc.AddMetric(ctx, health.MetricInput{Type: health.MetricSleep, Value: 7.5, Unit: "h"})
	require.NoError(t, err)
	in := water(500)
	in.Date = d("2025-03-09")
	_, err = svc.AddMetric(ctx, in)
	require.NoError(t, err)

	// THEN filters slice by type and by date
	assert.Len(t, svc.MetricsByType(health.MetricWater), 2)
	assert.Len(t, svc.MetricsByType(health.MetricSleep), 1)
	assert.Len(t, svc.MetricsByDate(d("2025-03-09")), 1)
	assert.Len(t, svc.TodaysMetrics(), 2)
}

func TestDeleteMetric(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	m, err := svc.AddMetric(ctx, water(250))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMetric(ctx, m.ID))
	assert.Empty(t, svc.Metrics())

	assert.ErrorIs(t, svc.DeleteMetric(ctx, "missing"), generic.ErrNotFound)
}

// =============================================================================
// GOALS
// =============================================================================

func TestAddGoalValidation(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddGoal(ctx, health.Goal{Type: "steps", Target: 10000})
	assert.ErrorIs(t, err, generic.ErrValidation)

	_, err = svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 0})
	assert.ErrorIs(t, err, generic.ErrValidation)

	g, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, Unit: "ml", Frequency: "daily", IsActive: true})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Len(t, svc.Goals(), 1)
}

func TestDeleteGoal(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	g, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, IsActive: true})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGoal(ctx, g.ID))
	assert.Empty(t, svc.Goals())
	assert.ErrorIs(t, svc.DeleteGoal(ctx, g.ID), generic.ErrNotFound)
}

func TestGoalProgressCountsOnlyToday(t *testing.T) {
	// GIVEN a 2000ml daily water goal with 500ml logged today
	// and 1500ml logged yesterday
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	g, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, IsActive: true})
	require.NoError(t, err)

	_, err = svc.AddMetric(ctx, water(500))
	require.NoError(t, err)
	in := water(1500)
	in.Date = d("2025-03-09")
	_, err = svc.AddMetric(ctx, in)
	require.NoError(t, err)

	// THEN only today's total counts towards progress
	assert.InDelta(t, 25.0, svc.GoalProgress(g.ID), 0.001)
}

func TestGoalProgressCapsAtHundred(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	g, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 1000, IsActive: true})
	require.NoError(t, err)
	_, err = svc.AddMetric(ctx, water(2500))
	require.NoError(t, err)

	assert.InDelta(t, 100.0, svc.GoalProgress(g.ID), 0.001)
}

func TestGoalProgressUnknownGoal(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	assert.Zero(t, svc.GoalProgress("missing"))
}

// =============================================================================
// SCORE AND INSIGHTS
// =============================================================================

func TestHealthScoreAveragesActiveGoals(t *testing.T) {
	// GIVEN an active water goal at 50% and an active sleep goal at 100%,
	// plus an inactive goal that would drag the mean down
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, IsActive: true})
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, health.Goal{Type: health.MetricSleep, Target: 8, IsActive: true})
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, health.Goal{Type: health.MetricExercise, Target: 30, IsActive: false})
	require.NoError(t, err)

	_, err = svc.AddMetric(ctx, water(1000))
	require.NoError(t, err)
	_, err = svc.AddMetric(ctx, health.MetricInput{Type: health.MetricSleep, Value: 8, Unit: "h"})
	require.NoError(t, err)

	// THEN the score is the mean over active goals only
	assert.InDelta(t, 75.0, svc.HealthScore(), 0.001)
}

func TestHealthScoreZeroWithoutActiveGoals(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	assert.Zero(t, svc.HealthScore())
}

func TestGenerateInsights(t *testing.T) {
	// GIVEN a met water goal, a badly-missed sleep goal and a
	// comfortably-on-track exercise goal
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, IsActive: true})
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, health.Goal{Type: health.MetricSleep, Target: 8, IsActive: true})
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, health.Goal{Type: health.MetricExercise, Target: 30, IsActive: true})
	require.NoError(t, err)

	_, err = svc.AddMetric(ctx, water(2000))
	require.NoError(t, err)
	_, err = svc.AddMetric(ctx, health.MetricInput{Type: health.MetricSleep, Value: 2, Unit: "h"})
	require.NoError(t, err)
	_, err = svc.AddMetric(ctx, health.MetricInput{Type: health.MetricExercise, Value: 20, Unit: "min"})
	require.NoError(t, err)

	// WHEN generating insights
	insights := svc.GenerateInsights()

	// THEN the met goal yields an achievement, the missed one a warning,
	// and the middling one nothing
	require.Len(t, insights, 2)

	byType := map[string]health.Insight{}
	for _, in := range insights {
		byType[in.Type] = in
	}
	achievement, ok := byType["achievement"]
	require.True(t, ok)
	assert.Equal(t, "Meta atingida", achievement.Title)
	assert.Equal(t, string(health.MetricWater), achievement.Category)
	assert.Equal(t, "low", achievement.Priority)

	warning, ok := byType["warning"]
	require.True(t, ok)
	assert.Equal(t, "Abaixo da meta", warning.Title)
	assert.Equal(t, string(health.MetricSleep), warning.Category)
	assert.Equal(t, "high", warning.Priority)
}

func TestInsightsSkipInactiveGoals(t *testing.T) {
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	_, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, IsActive: false})
	require.NoError(t, err)

	assert.Empty(t, svc.GenerateInsights())
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestMetricsAndGoalsSurviveRestart(t *testing.T) {
	// GIVEN metrics and goals persisted by one service instance
	clock := clockAt("2025-03-10")
	blobs := store.NewMemory()
	ctx := context.Background()

	svc := health.NewService(ctx, blobs, clock)
	_, err := svc.AddMetric(ctx, water(500))
	require.NoError(t, err)
	g, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, Unit: "ml", IsActive: true})
	require.NoError(t, err)

	// WHEN a fresh service loads from the same store
	reloaded := health.NewService(ctx, blobs, clock)

	// THEN both collections come back intact
	require.Len(t, reloaded.Metrics(), 1)
	assert.True(t, reloaded.Metrics()[0].Date.Equal(d("2025-03-10")))
	require.Len(t, reloaded.Goals(), 1)
	assert.Equal(t, g.ID, reloaded.Goals()[0].ID)
	assert.InDelta(t, 25.0, reloaded.GoalProgress(g.ID), 0.001)
}

func TestMalformedBlobStartsEmpty(t *testing.T) {
	blobs := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, blobs.Save(ctx, health.BlobKeyMetrics, []byte("{not json")))

	svc := health.NewService(ctx, blobs, clockAt("2025-03-10"))
	assert.Empty(t, svc.Metrics())
}

func TestGoalProgressConcurrentWithGoalMutations(t *testing.T) {
	// GoalProgress must work from a snapshot of the goal, not a pointer
	// into the slice that concurrent mutations resplice.
	svc, _ := newTestService(t, "2025-03-10")
	ctx := context.Background()

	g, err := svc.AddGoal(ctx, health.Goal{Type: health.MetricWater, Target: 2000, IsActive: true})
	require.NoError(t, err)
	_, err = svc.AddMetric(ctx, water(500))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			svc.GoalProgress(g.ID)
			svc.HealthScore()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			extra, addErr := svc.AddGoal(ctx, health.Goal{Type: health.MetricSleep, Target: 8, IsActive: true})
			if addErr == nil {
				svc.DeleteGoal(ctx, extra.ID)
			}
		}
	}()
	wg.Wait()

	assert.InDelta(t, 25.0, svc.GoalProgress(g.ID), 0.001)
}
