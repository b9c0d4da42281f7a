package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// FINANCIAL GOALS
// =============================================================================

func (s *Service) Goals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Goal(nil), s.goals...)
}

func (s *Service) GoalByID(id string) (Goal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}

// GoalInput is the goal creation form.
type GoalInput struct {
	Name        string
	Target      decimal.Decimal
	Deadline    generic.Date
	Description string
	Category    string
	Priority    string
}

func (s *Service) AddGoal(ctx context.Context, in GoalInput) (Goal, error) {
	if in.Name == "" {
		return Goal{}, &generic.ValidationError{Field: "name", Reason: "required"}
	}
	if !in.Target.IsPositive() {
		return Goal{}, &generic.ValidationError{Field: "target", Reason: "must be greater than zero"}
	}

	goal := Goal{
		ID:          newID(),
		Name:        in.Name,
		Target:      in.Target,
		Current:     decimal.Zero,
		Deadline:    in.Deadline,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		CreatedAt:   s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, goal)
	s.saveSidecar(ctx, BlobKeyGoals, s.goals)
	return goal, nil
}

func (s *Service) UpdateGoal(ctx context.Context, id string, in GoalInput) (Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID != id {
			continue
		}
		if in.Name != "" {
			g.Name = in.Name
		}
		if in.Target.IsPositive() {
			g.Target = in.Target
		}
		if !in.Deadline.IsZero() {
			g.Deadline = in.Deadline
		}
		if in.Description != "" {
			g.Description = in.Description
		}
		if in.Category != "" {
			g.Category = in.Category
		}
		if in.Priority != "" {
			g.Priority = in.Priority
		}
		s.goals[i] = g
		s.saveSidecar(ctx, BlobKeyGoals, s.goals)
		return g, nil
	}
	return Goal{}, generic.ErrNotFound
}

func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			s.saveSidecar(ctx, BlobKeyGoals, s.goals)
			return nil
		}
	}
	return generic.ErrNotFound
}

// AddGoalProgress funds a goal, capping at its target.
func (s *Service) AddGoalProgress(ctx context.Context, id string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID != id {
			continue
		}
		g.Current = decimal.Min(g.Current.Add(amount), g.Target)
		s.goals[i] = g
		s.saveSidecar(ctx, BlobKeyGoals, s.goals)
		return nil
	}
	return generic.ErrNotFound
}

// GoalProgress returns the funded share as a percentage in [0, 100].
func (s *Service) GoalProgress(id string) decimal.Decimal {
	g, ok := s.GoalByID(id)
	if !ok || !g.Target.IsPositive() {
		return decimal.Zero
	}
	pct := g.Current.Div(g.Target).Mul(decimal.NewFromInt(100))
	return decimal.Min(pct, decimal.NewFromInt(100))
}
