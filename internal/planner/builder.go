package planner

import (
	"fmt"

	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/meal"
)

// CategoryStat summarizes one category's selection during a build.
type CategoryStat struct {
	Category meal.Category
	PoolSize int
	Selected int
}

// Builder assembles weekly plans from catalogue rows.
type Builder struct {
	selector *Selector
	log      *logger.Logger
}

// NewBuilder creates a Builder around a Selector.
func NewBuilder(selector *Selector, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{selector: selector, log: log.With("component", "planner.Builder")}
}

// Build normalizes the catalogue and fills a 7-day plan for every required category.
func (b *Builder) Build(rows []meal.Row) (*WeeklyPlan, error) {
	plan, _, err := b.BuildWithStats(rows)
	return plan, err
}

// BuildWithStats is Build plus per-category selection statistics.
// Rows that fail normalization are skipped. Under the strict policy any short
// category aborts the build and no plan is returned.
func (b *Builder) BuildWithStats(rows []meal.Row) (*WeeklyPlan, []CategoryStat, error) {
	records := make([]meal.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := meal.Normalize(row)
		if err != nil {
			b.log.Warn("skipping catalogue row", "index", i, "category", row.Category, "error", err)
			continue
		}
		records = append(records, rec)
	}

	grouped := meal.Group(records)
	plan := NewWeeklyPlan()
	stats := make([]CategoryStat, 0, len(meal.RequiredCategories))

	for _, category := range meal.RequiredCategories {
		pool := grouped[category]
		selected, err := b.selector.Select(category, pool, DaysPerWeek)
		if err != nil {
			return nil, stats, fmt.Errorf("failed to select %s meals: %w", category, err)
		}
		for i, rec := range selected {
			plan.Set(Day(i), category, rec)
		}
		if len(selected) < DaysPerWeek {
			b.log.Warn("category pool too small, leaving days empty",
				"category", category, "pool", len(pool), "selected", len(selected))
		}
		stats = append(stats, CategoryStat{Category: category, PoolSize: len(pool), Selected: len(selected)})
	}

	return plan, stats, nil
}
