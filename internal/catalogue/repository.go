package catalogue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	cataloguedb "weekly-meal-planner/internal/catalogue/catalogue_db"
	"weekly-meal-planner/internal/meal"
)

// Entry is a stored catalogue row together with its bookkeeping columns.
type Entry struct {
	ID        int64
	Row       meal.Row
	Source    string
	UpdatedAt time.Time
}

// Repository is a database-backed meal catalogue.
type Repository struct {
	queries *cataloguedb.Queries
	db      *sql.DB
	now     func() time.Time
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: cataloguedb.New(d),
		db:      d,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FetchMealRecords returns every catalogue row in insertion order. Rows are returned raw;
// normalization happens in the plan builder.
func (r *Repository) FetchMealRecords(ctx context.Context) ([]meal.Row, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]meal.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Row)
	}
	return rows, nil
}

// List returns every stored entry.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	dbMeals, err := r.queries.ListMeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return toEntries(dbMeals), nil
}

// ListByCategory returns the entries of a single category.
func (r *Repository) ListByCategory(ctx context.Context, category meal.Category) ([]Entry, error) {
	dbMeals, err := r.queries.ListMealsByCategory(ctx, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s meals: %w", category, err)
	}
	return toEntries(dbMeals), nil
}

// Add validates and inserts a row, returning its ID.
func (r *Repository) Add(ctx context.Context, row meal.Row) (int64, error) {
	params, err := r.insertParams(row)
	if err != nil {
		return 0, err
	}
	id, err := r.queries.InsertMeal(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal: %w", err)
	}
	return id, nil
}

// AddAll inserts rows in a single transaction. Invalid rows are reported in the returned
// slice and skipped; a database failure rolls back the whole batch.
func (r *Repository) AddAll(ctx context.Context, rows []meal.Row) (int, []error, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	var (
		added   int
		skipped []error
	)
	for i, row := range rows {
		params, err := r.insertParams(row)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		if _, err := q.InsertMeal(ctx, params); err != nil {
			return 0, nil, fmt.Errorf("failed to insert meal %q: %w", row.ItemName, err)
		}
		added++
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit meals: %w", err)
	}
	return added, skipped, nil
}

// UpsertBySource inserts a row keyed by its external source (a URL or CMS post ID), or
// replaces the existing row with the same source.
func (r *Repository) UpsertBySource(ctx context.Context, source string, row meal.Row) (int64, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return 0, errors.New("source is required for upsert")
	}
	params, err := r.insertParams(row)
	if err != nil {
		return 0, err
	}
	id, err := r.queries.UpsertMealBySource(ctx, cataloguedb.UpsertMealBySourceParams{
		ItemName:    params.ItemName,
		Category:    params.Category,
		Ingredients: params.Ingredients,
		Notes:       params.Notes,
		Source:      sql.NullString{String: source, Valid: true},
		UpdatedAt:   params.UpdatedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert meal from %s: %w", source, err)
	}
	return id, nil
}

// GetBySource returns the entry imported from source, or nil if there is none.
func (r *Repository) GetBySource(ctx context.Context, source string) (*Entry, error) {
	dbMeal, err := r.queries.GetMealBySource(ctx, sql.NullString{String: source, Valid: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal by source: %w", err)
	}
	e := toEntry(dbMeal)
	return &e, nil
}

// Delete removes a catalogue entry.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.queries.DeleteMeal(ctx, id); err != nil {
		return fmt.Errorf("failed to delete meal %d: %w", id, err)
	}
	return nil
}

// CountByCategory returns the number of stored meals per category.
func (r *Repository) CountByCategory(ctx context.Context) (map[meal.Category]int, error) {
	rows, err := r.queries.CountMealsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count meals: %w", err)
	}
	counts := make(map[meal.Category]int, len(rows))
	for _, row := range rows {
		counts[meal.Category(row.Category)] = int(row.Count)
	}
	return counts, nil
}

// Count returns the total number of stored meals.
func (r *Repository) Count(ctx context.Context) (int, error) {
	counts, err := r.CountByCategory(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// insertParams validates a row and stores its category in canonical form. Ingredients and
// notes are kept as written.
func (r *Repository) insertParams(row meal.Row) (cataloguedb.InsertMealParams, error) {
	rec, err := meal.Normalize(row)
	if err != nil {
		return cataloguedb.InsertMealParams{}, err
	}
	return cataloguedb.InsertMealParams{
		ItemName:    rec.ItemName,
		Category:    string(rec.Category),
		Ingredients: strings.TrimSpace(row.Ingredients),
		Notes:       rec.Notes,
		UpdatedAt:   r.now(),
	}, nil
}

func toEntries(dbMeals []cataloguedb.Meal) []Entry {
	entries := make([]Entry, 0, len(dbMeals))
	for _, m := range dbMeals {
		entries = append(entries, toEntry(m))
	}
	return entries
}

func toEntry(m cataloguedb.Meal) Entry {
	return Entry{
		ID: m.ID,
		Row: meal.Row{
			ItemName:    m.ItemName,
			Category:    m.Category,
			Ingredients: m.Ingredients,
			Notes:       m.Notes,
		},
		Source:    m.Source.String,
		UpdatedAt: m.UpdatedAt,
	}
}
