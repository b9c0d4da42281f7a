package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mindflow/life-ledger/generic"
)

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *Service) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Category(nil), s.categories...)
}

// CategoryByID returns (nil) semantics via ok flag.
func (s *Service) CategoryByID(id string) (Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryInput is the category creation/update form.
type CategoryInput struct {
	Name   string
	Icon   string
	Color  string
	Budget *decimal.Decimal
	Type   Kind
}

func (s *Service) AddCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if in.Name == "" {
		return Category{}, &generic.ValidationError{Field: "name", Reason: "required"}
	}
	if in.Type != KindIncome && in.Type != KindExpense {
		return Category{}, &generic.ValidationError{Field: "type", Reason: "must be income or expense"}
	}

	cat := Category{
		ID:       newID(),
		Name:     in.Name,
		Icon:     in.Icon,
		Color:    in.Color,
		Budget:   in.Budget,
		Type:     in.Type,
		IsCustom: true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, cat)
	s.saveSidecar(ctx, BlobKeyCategories, s.categories)
	return cat, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID != id {
			continue
		}
		if in.Name != "" {
			c.Name = in.Name
		}
		if in.Icon != "" {
			c.Icon = in.Icon
		}
		if in.Color != "" {
			c.Color = in.Color
		}
		if in.Budget != nil {
			c.Budget = in.Budget
		}
		s.categories[i] = c
		s.saveSidecar(ctx, BlobKeyCategories, s.categories)
		return c, nil
	}
	return Category{}, generic.ErrNotFound
}

// DeleteCategory removes a custom category. The seeded defaults cannot be
// deleted.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID != id {
			continue
		}
		if !c.IsCustom {
			return &generic.ValidationError{Field: "category", Reason: "default categories cannot be deleted"}
		}
		s.categories = append(s.categories[:i], s.categories[i+1:]...)
		s.saveSidecar(ctx, BlobKeyCategories, s.categories)
		return nil
	}
	return generic.ErrNotFound
}
