package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weekly-meal-planner/internal/catalogue"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/ghost"
	"weekly-meal-planner/internal/meal"
)

// ImportCatalogue reads a CSV, YAML or JSON file and adds its rows. Invalid rows are
// skipped and reported.
func (a *App) ImportCatalogue(ctx context.Context, path string) (int, []error, error) {
	rows, err := catalogue.ReadFile(path)
	if err != nil {
		return 0, nil, err
	}
	added, skipped, err := a.catalogue.AddAll(ctx, rows)
	if err != nil {
		return 0, nil, err
	}
	for _, s := range skipped {
		a.log.Warn("skipped catalogue row", "file", path, "error", s)
	}
	a.log.Info("imported catalogue", "file", path, "added", added, "skipped", len(skipped))
	return added, skipped, nil
}

// AddMeal validates and stores one catalogue row.
func (a *App) AddMeal(ctx context.Context, row meal.Row) (int64, error) {
	return a.catalogue.Add(ctx, row)
}

// ListMeals returns the catalogue, or one category of it when category is non-empty.
func (a *App) ListMeals(ctx context.Context, category meal.Category) ([]catalogue.Entry, error) {
	if category == "" {
		return a.catalogue.List(ctx)
	}
	return a.catalogue.ListByCategory(ctx, category)
}

// DeleteMeal removes a catalogue entry.
func (a *App) DeleteMeal(ctx context.Context, id int64) error {
	return a.catalogue.Delete(ctx, id)
}

// ClipMeal extracts a recipe from url and stores it in category, replacing an earlier
// clip of the same page.
func (a *App) ClipMeal(ctx context.Context, url string, category meal.Category) (*clipper.Recipe, int64, error) {
	if a.clipper == nil {
		return nil, 0, errors.New("recipe clipper is not configured")
	}
	if !category.IsRequired() {
		return nil, 0, fmt.Errorf("unknown meal category %q", category)
	}
	url = strings.TrimSpace(url)
	rec, err := a.clipper.ClipURL(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	id, err := a.catalogue.UpsertBySource(ctx, url, rec.Row(category))
	if err != nil {
		return nil, 0, err
	}
	a.log.Info("clipped recipe", "title", rec.Title, "method", rec.Method, "category", category, "id", id)
	return rec, id, nil
}

// SyncResult summarizes a Ghost sync.
type SyncResult struct {
	Imported  int
	Unchanged int
	Skipped   int
}

func ghostSource(post ghost.Post) string {
	return "ghost:" + post.ID
}

// SyncFromGhost imports every Ghost post tagged with a meal category. Posts already
// imported and not updated since are left alone.
func (a *App) SyncFromGhost(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	if a.ghost == nil || !a.cfg.GhostEnabled() {
		return res, ErrGhostDisabled
	}

	posts, err := a.ghost.FetchRecipes(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to fetch recipes from ghost: %w", err)
	}
	a.log.Info("fetched ghost posts", "count", len(posts))

	for _, post := range posts {
		category, ok := post.Category()
		if !ok {
			res.Skipped++
			continue
		}

		existing, err := a.catalogue.GetBySource(ctx, ghostSource(post))
		if err != nil {
			return res, err
		}
		if existing != nil && !postNewer(post, existing.UpdatedAt) {
			res.Unchanged++
			continue
		}

		rec, err := a.clipper.ExtractHTML(ctx, post.HTML)
		if err != nil {
			a.log.Warn("failed to extract ghost recipe", "title", post.Title, "error", err)
			res.Skipped++
			continue
		}
		rec.Title = post.Title
		rec.URL = post.URL

		if _, err := a.catalogue.UpsertBySource(ctx, ghostSource(post), rec.Row(category)); err != nil {
			a.log.Warn("failed to store ghost recipe", "title", post.Title, "error", err)
			res.Skipped++
			continue
		}
		res.Imported++
		a.log.Info("imported ghost recipe", "title", post.Title, "method", rec.Method)

		if rec.Method == clipper.MethodLLM && a.llmThrottle > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(a.llmThrottle):
			}
		}
	}

	a.log.Info("ghost sync complete", "imported", res.Imported, "unchanged", res.Unchanged, "skipped", res.Skipped)
	return res, nil
}

// postNewer reports whether the post changed after it was stored. Unparseable timestamps
// count as changed.
func postNewer(post ghost.Post, stored time.Time) bool {
	updated, err := time.Parse(time.RFC3339, post.UpdatedAt)
	if err != nil {
		return true
	}
	return updated.After(stored)
}
