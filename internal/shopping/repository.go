package shopping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	shoppingdb "weekly-meal-planner/internal/shopping/shopping_db"
)

// Repository persists which grocery items of a saved plan have been ticked off.
type Repository struct {
	queries *shoppingdb.Queries
	db      *sql.DB
}

// NewRepository creates a new grocery checklist repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: shoppingdb.New(d),
		db:      d,
	}
}

// SetChecked ticks or unticks an ingredient on a saved plan's grocery list.
func (r *Repository) SetChecked(ctx context.Context, planID int64, ingredient string, checked bool) error {
	ingredient = strings.ToLower(strings.TrimSpace(ingredient))
	if ingredient == "" {
		return errors.New("ingredient is required")
	}

	if !checked {
		err := r.queries.UncheckGroceryItem(ctx, shoppingdb.UncheckGroceryItemParams{
			PlanID:     planID,
			Ingredient: ingredient,
		})
		if err != nil {
			return fmt.Errorf("failed to uncheck %s: %w", ingredient, err)
		}
		return nil
	}

	err := r.queries.CheckGroceryItem(ctx, shoppingdb.CheckGroceryItemParams{
		PlanID:     planID,
		Ingredient: ingredient,
		CheckedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", ingredient, err)
	}
	return nil
}

// Checked returns the ticked ingredients of a saved plan.
func (r *Repository) Checked(ctx context.Context, planID int64) (map[string]bool, error) {
	rows, err := r.queries.ListGroceryChecks(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery checks for plan %d: %w", planID, err)
	}
	checked := make(map[string]bool, len(rows))
	for _, row := range rows {
		checked[row.Ingredient] = true
	}
	return checked, nil
}

// Clear unticks every ingredient of a saved plan.
func (r *Repository) Clear(ctx context.Context, planID int64) error {
	if err := r.queries.ClearGroceryChecks(ctx, planID); err != nil {
		return fmt.Errorf("failed to clear grocery checks for plan %d: %w", planID, err)
	}
	return nil
}
