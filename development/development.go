/*
Package development implements the development-journey tracker: plans
aggregating milestones, habits and a skill tree, with derived plan
progress.

Like health metrics, plans are not scheduled ledger records; the package
persists its collection through the blob contract. Habit streaks reuse
the engine's calendar dates so "done yesterday" is real calendar
arithmetic, not string comparison.
*/
package development

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/life-ledger/generic"
)

// BlobKey is the persistence key for the plan collection.
const BlobKey = "development_plans"

// =============================================================================
// TYPES
// =============================================================================

type Milestone struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Completed     bool         `json:"completed"`
	DueDate       generic.Date `json:"due_date,omitempty"`
	CompletedDate generic.Date `json:"completed_date,omitempty"`
}

type Habit struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Frequency     string             `json:"frequency"` // daily, weekly
	TimeOfDay     *generic.TimeOfDay `json:"time_of_day,omitempty"`
	Streak        int                `json:"streak"`
	LastCompleted generic.Date       `json:"last_completed,omitempty"`
}

type Skill struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Level    int     `json:"level"`
	Progress float64 `json:"progress"` // 0-100
	Children []Skill `json:"children,omitempty"`
}

type Plan struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	StartDate   generic.Date `json:"start_date"`
	TargetDate  generic.Date `json:"target_date"`
	Milestones  []Milestone  `json:"milestones"`
	Habits      []Habit      `json:"habits"`
	SkillTree   Skill        `json:"skill_tree"`
	CreatedAt   time.Time    `json:"created_at"`
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	blobs generic.BlobStore
	clock generic.Clock

	mu    sync.Mutex
	plans []Plan
}

func NewService(ctx context.Context, blobs generic.BlobStore, clock generic.Clock) *Service {
	s := &Service{blobs: blobs, clock: clock}
	blob, err := blobs.Load(ctx, BlobKey)
	if err != nil {
		log.Printf("development: %v", &generic.StorageError{Key: BlobKey, Op: "load", Err: err})
		return s
	}
	if blob != nil {
		if err := json.Unmarshal(blob, &s.plans); err != nil {
			log.Printf("development: malformed blob, starting empty: %v", err)
			s.plans = nil
		}
	}
	return s
}

func (s *Service) persist(ctx context.Context) {
	blob, err := json.Marshal(s.plans)
	if err != nil {
		log.Printf("development: %v", &generic.StorageError{Key: BlobKey, Op: "save", Err: err})
		return
	}
	if err := s.blobs.Save(ctx, BlobKey, blob); err != nil {
		log.Printf("development: %v", &generic.StorageError{Key: BlobKey, Op: "save", Err: err})
	}
}

// =============================================================================
// PLANS
// =============================================================================

// AddPlan creates a plan with a six-month default horizon and a root
// skill named after the category.
func (s *Service) AddPlan(ctx context.Context, title, category string) (Plan, error) {
	if title == "" {
		return Plan{}, &generic.ValidationError{Field: "title", Reason: "required"}
	}
	today := s.clock.Today()

	plan := Plan{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "Plano de desenvolvimento em " + category,
		Category:    category,
		StartDate:   today,
		TargetDate:  today.AddMonths(6),
		SkillTree:   Skill{ID: uuid.NewString(), Name: category, Level: 1},
		CreatedAt:   s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append(s.plans, plan)
	s.persist(ctx)
	return plan, nil
}

func (s *Service) Plans() []Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Plan(nil), s.plans...)
}

func (s *Service) Plan(id string) (Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Plan{}, generic.ErrNotFound
	}
	return s.plans[i], nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return generic.ErrNotFound
	}
	s.plans = append(s.plans[:i], s.plans[i+1:]...)
	s.persist(ctx)
	return nil
}

func (s *Service) indexLocked(id string) int {
	for i, p := range s.plans {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// mutatePlan applies fn to the plan under the lock and persists.
func (s *Service) mutatePlan(ctx context.Context, id string, fn func(*Plan) error) (Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Plan{}, generic.ErrNotFound
	}
	if err := fn(&s.plans[i]); err != nil {
		return Plan{}, err
	}
	s.persist(ctx)
	return s.plans[i], nil
}

// =============================================================================
// MILESTONES
// =============================================================================

func (s *Service) AddMilestone(ctx context.Context, planID string, m Milestone) (Plan, error) {
	if m.Title == "" {
		return Plan{}, &generic.ValidationError{Field: "title", Reason: "required"}
	}
	m.ID = uuid.NewString()
	m.Completed = false
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		p.Milestones = append(p.Milestones, m)
		return nil
	})
}

// ToggleMilestone flips completion, stamping or clearing the completion
// date.
func (s *Service) ToggleMilestone(ctx context.Context, planID, milestoneID string) (Plan, error) {
	today := s.clock.Today()
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		for i, m := range p.Milestones {
			if m.ID != milestoneID {
				continue
			}
			m.Completed = !m.Completed
			if m.Completed {
				m.CompletedDate = today
			} else {
				m.CompletedDate = generic.Date{}
			}
			p.Milestones[i] = m
			return nil
		}
		return generic.ErrNotFound
	})
}

func (s *Service) DeleteMilestone(ctx context.Context, planID, milestoneID string) (Plan, error) {
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		for i, m := range p.Milestones {
			if m.ID == milestoneID {
				p.Milestones = append(p.Milestones[:i], p.Milestones[i+1:]...)
				return nil
			}
		}
		return generic.ErrNotFound
	})
}

// =============================================================================
// HABITS
// =============================================================================

func (s *Service) AddHabit(ctx context.Context, planID string, h Habit) (Plan, error) {
	if h.Title == "" {
		return Plan{}, &generic.ValidationError{Field: "title", Reason: "required"}
	}
	h.ID = uuid.NewString()
	h.Streak = 0
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		p.Habits = append(p.Habits, h)
		return nil
	})
}

// MarkHabitDone records today's completion. A completion on the day after
// the previous one extends the streak; a gap resets it to 1; marking the
// same day twice is a no-op.
func (s *Service) MarkHabitDone(ctx context.Context, planID, habitID string) (Plan, error) {
	today := s.clock.Today()
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		for i, h := range p.Habits {
			if h.ID != habitID {
				continue
			}
			if h.LastCompleted.Equal(today) {
				return nil
			}
			if h.LastCompleted.Equal(today.AddDays(-1)) {
				h.Streak++
			} else {
				h.Streak = 1
			}
			h.LastCompleted = today
			p.Habits[i] = h
			return nil
		}
		return generic.ErrNotFound
	})
}

func (s *Service) DeleteHabit(ctx context.Context, planID, habitID string) (Plan, error) {
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		for i, h := range p.Habits {
			if h.ID == habitID {
				p.Habits = append(p.Habits[:i], p.Habits[i+1:]...)
				return nil
			}
		}
		return generic.ErrNotFound
	})
}

// =============================================================================
// SKILLS
// =============================================================================

// AddSkill attaches a child skill under the given parent in the tree.
func (s *Service) AddSkill(ctx context.Context, planID, parentID string, skill Skill) (Plan, error) {
	if skill.Name == "" {
		return Plan{}, &generic.ValidationError{Field: "name", Reason: "required"}
	}
	skill.ID = uuid.NewString()
	skill.Level = 1
	skill.Progress = 0
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		parent := findSkill(&p.SkillTree, parentID)
		if parent == nil {
			return generic.ErrNotFound
		}
		parent.Children = append(parent.Children, skill)
		return nil
	})
}

// UpdateSkillProgress sets a skill's progress; reaching 100 levels the
// skill up and resets progress.
func (s *Service) UpdateSkillProgress(ctx context.Context, planID, skillID string, progress float64) (Plan, error) {
	if progress < 0 || progress > 100 {
		return Plan{}, &generic.ValidationError{Field: "progress", Reason: "must be in [0, 100]"}
	}
	return s.mutatePlan(ctx, planID, func(p *Plan) error {
		skill := findSkill(&p.SkillTree, skillID)
		if skill == nil {
			return generic.ErrNotFound
		}
		if progress >= 100 {
			skill.Level++
			skill.Progress = 0
		} else {
			skill.Progress = progress
		}
		return nil
	})
}

func findSkill(root *Skill, id string) *Skill {
	if root.ID == id {
		return root
	}
	for i := range root.Children {
		if found := findSkill(&root.Children[i], id); found != nil {
			return found
		}
	}
	return nil
}

// =============================================================================
// PROGRESS
// =============================================================================

// PlanProgress derives overall progress (0-100) as the mean of the
// milestone completion share and the average skill progress, counting
// only the components the plan actually has.
func (s *Service) PlanProgress(id string) float64 {
	plan, err := s.Plan(id)
	if err != nil {
		return 0
	}

	var parts []float64
	if len(plan.Milestones) > 0 {
		done := 0
		for _, m := range plan.Milestones {
			if m.Completed {
				done++
			}
		}
		parts = append(parts, float64(done)/float64(len(plan.Milestones))*100)
	}
	if skills := collectSkills(plan.SkillTree); len(skills) > 0 {
		sum := 0.0
		for _, sk := range skills {
			sum += sk.Progress
		}
		parts = append(parts, sum/float64(len(skills)))
	}

	if len(parts) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range parts {
		total += p
	}
	return total / float64(len(parts))
}

func collectSkills(root Skill) []Skill {
	out := []Skill{root}
	for _, c := range root.Children {
		out = append(out, collectSkills(c)...)
	}
	return out
}
