/*
Package health implements health-metric logging: per-day metric entries
(water, sleep, exercise, nutrition, weight, mood), active goals per metric
type, a composite daily health score and rule-driven insights.

Metrics are plain measurements, not scheduled records - they have no
pending/late lifecycle - so this domain persists its own collections
through the blob contract instead of going through the ledger engine.
*/
package health

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/life-ledger/generic"
)

// Persistence keys.
const (
	BlobKeyMetrics = "health_metrics"
	BlobKeyGoals   = "health_goals"
)

// =============================================================================
// TYPES
// =============================================================================

type MetricType string

const (
	MetricWater     MetricType = "water"
	MetricSleep     MetricType = "sleep"
	MetricExercise  MetricType = "exercise"
	MetricNutrition MetricType = "nutrition"
	MetricWeight    MetricType = "weight"
	MetricMood      MetricType = "mood"
)

var validMetricTypes = map[MetricType]bool{
	MetricWater: true, MetricSleep: true, MetricExercise: true,
	MetricNutrition: true, MetricWeight: true, MetricMood: true,
}

// Metric is one logged measurement.
type Metric struct {
	ID    string             `json:"id"`
	Type  MetricType         `json:"type"`
	Value float64            `json:"value"`
	Unit  string             `json:"unit"`
	Date  generic.Date       `json:"date"`
	Time  *generic.TimeOfDay `json:"time,omitempty"`
	Notes string             `json:"notes,omitempty"`
}

// Goal is a daily/weekly/monthly target for one metric type.
type Goal struct {
	ID        string     `json:"id"`
	Type      MetricType `json:"type"`
	Target    float64    `json:"target"`
	Unit      string     `json:"unit"`
	Frequency string     `json:"frequency"` // daily, weekly, monthly
	IsActive  bool       `json:"is_active"`
}

// Insight is a generated recommendation, achievement or warning.
type Insight struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // recommendation, achievement, warning
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	blobs generic.BlobStore
	clock generic.Clock

	mu      sync.Mutex
	metrics []Metric
	goals   []Goal
}

func NewService(ctx context.Context, blobs generic.BlobStore, clock generic.Clock) *Service {
	s := &Service{blobs: blobs, clock: clock}
	s.load(ctx, BlobKeyMetrics, &s.metrics)
	s.load(ctx, BlobKeyGoals, &s.goals)
	return s
}

func (s *Service) load(ctx context.Context, key string, dst any) {
	blob, err := s.blobs.Load(ctx, key)
	if err != nil {
		log.Printf("health: %v", &generic.StorageError{Key: key, Op: "load", Err: err})
		return
	}
	if blob == nil {
		return
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		log.Printf("health: malformed blob %q, starting empty: %v", key, err)
	}
}

func (s *Service) save(ctx context.Context, key string, v any) {
	blob, err := json.Marshal(v)
	if err != nil {
		log.Printf("health: %v", &generic.StorageError{Key: key, Op: "save", Err: err})
		return
	}
	if err := s.blobs.Save(ctx, key, blob); err != nil {
		log.Printf("health: %v", &generic.StorageError{Key: key, Op: "save", Err: err})
	}
}

// =============================================================================
// METRICS
// =============================================================================

// MetricInput is the metric logging form.
type MetricInput struct {
	Type  MetricType
	Value float64
	Unit  string
	Date  generic.Date
	Time  *generic.TimeOfDay
	Notes string
}

func (s *Service) AddMetric(ctx context.Context, in MetricInput) (Metric, error) {
	if !validMetricTypes[in.Type] {
		return Metric{}, &generic.ValidationError{Field: "type", Reason: "unknown metric type"}
	}
	if in.Value <= 0 {
		return Metric{}, &generic.ValidationError{Field: "value", Reason: "must be greater than zero"}
	}
	if in.Date.IsZero() {
		in.Date = s.clock.Today()
	}

	m := Metric{
		ID:    uuid.NewString(),
		Type:  in.Type,
		Value: in.Value,
		Unit:  in.Unit,
		Date:  in.Date,
		Time:  in.Time,
		Notes: in.Notes,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
	s.save(ctx, BlobKeyMetrics, s.metrics)
	return m, nil
}

func (s *Service) DeleteMetric(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.metrics {
		if m.ID == id {
			s.metrics = append(s.metrics[:i], s.metrics[i+1:]...)
			s.save(ctx, BlobKeyMetrics, s.metrics)
			return nil
		}
	}
	return generic.ErrNotFound
}

func (s *Service) Metrics() []Metric {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Metric(nil), s.metrics...)
}

func (s *Service) MetricsByType(t MetricType) []Metric {
	return s.filter(func(m Metric) bool { return m.Type == t })
}

func (s *Service) MetricsByDate(d generic.Date) []Metric {
	return s.filter(func(m Metric) bool { return m.Date.Equal(d) })
}

func (s *Service) TodaysMetrics() []Metric {
	return s.MetricsByDate(s.clock.Today())
}

func (s *Service) filter(pred func(Metric) bool) []Metric {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Metric
	for _, m := range s.metrics {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// =============================================================================
// GOALS
// =============================================================================

func (s *Service) AddGoal(ctx context.Context, g Goal) (Goal, error) {
	if !validMetricTypes[g.Type] {
		return Goal{}, &generic.ValidationError{Field: "type", Reason: "unknown metric type"}
	}
	if g.Target <= 0 {
		return Goal{}, &generic.ValidationError{Field: "target", Reason: "must be greater than zero"}
	}
	g.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	s.save(ctx, BlobKeyGoals, s.goals)
	return g, nil
}

func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			s.save(ctx, BlobKeyGoals, s.goals)
			return nil
		}
	}
	return generic.ErrNotFound
}

func (s *Service) Goals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Goal(nil), s.goals...)
}

// GoalProgress returns today's logged total for the goal's metric type as
// a percentage of the target, capped at 100.
func (s *Service) GoalProgress(id string) float64 {
	s.mu.Lock()
	var goal Goal
	found := false
	for _, g := range s.goals {
		if g.ID == id {
			goal = g
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found || goal.Target <= 0 {
		return 0
	}

	total := 0.0
	for _, m := range s.TodaysMetrics() {
		if m.Type == goal.Type {
			total += m.Value
		}
	}
	pct := total / goal.Target * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// HealthScore is the mean progress across active goals, 0-100. No active
// goals scores 0.
func (s *Service) HealthScore() float64 {
	var active []Goal
	for _, g := range s.Goals() {
		if g.IsActive {
			active = append(active, g)
		}
	}
	if len(active) == 0 {
		return 0
	}

	sum := 0.0
	for _, g := range active {
		sum += s.GoalProgress(g.ID)
	}
	return sum / float64(len(active))
}

// =============================================================================
// INSIGHTS
// =============================================================================

// GenerateInsights derives insights from today's metrics versus active
// goals: a warning per active goal below half its daily target, an
// achievement per goal fully met.
func (s *Service) GenerateInsights() []Insight {
	now := s.clock.Now()

	var insights []Insight
	for _, g := range s.Goals() {
		if !g.IsActive {
			continue
		}
		progress := s.GoalProgress(g.ID)
		switch {
		case progress >= 100:
			insights = append(insights, Insight{
				ID:          uuid.NewString(),
				Type:        "achievement",
				Title:       "Meta atingida",
				Description: string(g.Type) + ": daily target reached",
				Category:    string(g.Type),
				Priority:    "low",
				CreatedAt:   now,
			})
		case progress < 50:
			insights = append(insights, Insight{
				ID:          uuid.NewString(),
				Type:        "warning",
				Title:       "Abaixo da meta",
				Description: string(g.Type) + ": below half the daily target",
				Category:    string(g.Type),
				Priority:    "high",
				CreatedAt:   now,
			})
		}
	}
	return insights
}
