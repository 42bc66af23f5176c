package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"weekly-meal-planner/internal/export"
	"weekly-meal-planner/internal/ghost"
	"weekly-meal-planner/internal/observability"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
	"weekly-meal-planner/internal/storage"
)

var tracer = observability.Tracer("app")

// GeneratePlan builds a fresh weekly plan from the whole catalogue and records one
// generation metric per category.
func (a *App) GeneratePlan(ctx context.Context) (*planner.WeeklyPlan, error) {
	ctx, span := tracer.Start(ctx, "plan.generate")
	defer span.End()

	rows, err := a.catalogue.FetchMealRecords(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to fetch meal records: %w", err)
	}

	start := time.Now()
	plan, stats, buildErr := a.builder.BuildWithStats(rows)
	latency := time.Since(start)
	span.SetAttributes(
		attribute.Int("catalogue.rows", len(rows)),
		attribute.String("planner.policy", a.policy.String()),
	)

	if err := a.metrics.RecordBuild(ctx, a.policy, stats, latency); err != nil {
		a.log.Warn("failed to record generation metrics", "error", err)
	}
	if buildErr != nil {
		span.RecordError(buildErr)
		span.SetStatus(codes.Error, "build failed")
		return nil, fmt.Errorf("failed to generate plan: %w", buildErr)
	}
	span.SetAttributes(attribute.Int("plan.meals", plan.MealCount()))

	if missing := plan.Missing(); len(missing) > 0 {
		a.log.Info("generated partial plan", "meals", plan.MealCount(), "empty_cells", len(missing))
	} else {
		a.log.Info("generated plan", "meals", plan.MealCount(), "latency", latency)
	}
	return plan, nil
}

// SavePlan stores plan under name and returns its id.
func (a *App) SavePlan(ctx context.Context, name string, plan *planner.WeeklyPlan) (int64, error) {
	id, err := a.plans.Save(ctx, strings.TrimSpace(name), plan)
	if err != nil {
		return 0, err
	}
	a.log.Info("saved plan", "id", id, "name", name)
	return id, nil
}

// ListSavedPlans returns saved plans newest first. limit <= 0 means all.
func (a *App) ListSavedPlans(ctx context.Context, limit int) ([]planner.SavedPlan, error) {
	return a.plans.FetchSavedPlans(ctx, limit)
}

// LoadPlan returns a saved plan and its decoded content.
func (a *App) LoadPlan(ctx context.Context, id int64) (*planner.SavedPlan, *planner.WeeklyPlan, error) {
	saved, err := a.plans.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if saved == nil {
		return nil, nil, fmt.Errorf("plan %d: %w", id, ErrPlanNotFound)
	}
	plan, err := saved.Plan()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode plan %d: %w", id, err)
	}
	return saved, plan, nil
}

// DeletePlan removes a saved plan along with its grocery ticks and exports.
func (a *App) DeletePlan(ctx context.Context, id int64) error {
	saved, err := a.plans.Get(ctx, id)
	if err != nil {
		return err
	}
	if saved == nil {
		return fmt.Errorf("plan %d: %w", id, ErrPlanNotFound)
	}
	if err := a.plans.Delete(ctx, id); err != nil {
		return err
	}
	if a.exports != nil {
		if err := a.exports.RemoveStaleVersions(storage.PlanKey(id), time.Time{}); err != nil {
			a.log.Warn("failed to remove plan exports", "id", id, "error", err)
		}
	}
	return nil
}

// Checklist returns the grocery list of a saved plan with its ticked state.
func (a *App) Checklist(ctx context.Context, id int64) ([]shopping.ChecklistItem, error) {
	_, plan, err := a.LoadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	checked, err := a.checks.Checked(ctx, id)
	if err != nil {
		return nil, err
	}
	return shopping.Checklist(shopping.BuildIngredientIndex(plan), checked), nil
}

// SetChecked ticks or unticks an ingredient on a saved plan's grocery list.
func (a *App) SetChecked(ctx context.Context, id int64, ingredient string, checked bool) error {
	_, plan, err := a.LoadPlan(ctx, id)
	if err != nil {
		return err
	}
	ingredient = strings.ToLower(strings.TrimSpace(ingredient))
	if _, ok := shopping.BuildIngredientIndex(plan)[ingredient]; !ok {
		return fmt.Errorf("%q: %w", ingredient, ErrUnknownIngredient)
	}
	return a.checks.SetChecked(ctx, id, ingredient, checked)
}

// Render writes plan in the given format.
func (a *App) Render(title string, createdAt time.Time, plan *planner.WeeklyPlan, format export.Format) ([]byte, export.Renderer, error) {
	r, err := export.NewRenderer(format, a.exportOpts)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, export.NewDocument(title, createdAt, plan)); err != nil {
		return nil, nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}
	return buf.Bytes(), r, nil
}

// ExportSaved renders a saved plan and keeps the file in the export directory, replacing
// exports of older versions. It returns the rendered bytes and the file path.
func (a *App) ExportSaved(ctx context.Context, id int64, format export.Format) ([]byte, export.Renderer, string, error) {
	ctx, span := tracer.Start(ctx, "plan.export")
	defer span.End()
	span.SetAttributes(attribute.Int64("plan.id", id), attribute.String("export.format", string(format)))

	saved, plan, err := a.LoadPlan(ctx, id)
	if err != nil {
		return nil, nil, "", err
	}
	data, r, err := a.Render(saved.Name, saved.CreatedAt, plan, format)
	if err != nil {
		return nil, nil, "", err
	}
	path, err := a.storeExport(storage.PlanKey(id), saved.CreatedAt, r.Extension(), data)
	if err != nil {
		return nil, nil, "", err
	}
	return data, r, path, nil
}

// ExportDraft renders an unsaved plan under a fresh key.
func (a *App) ExportDraft(plan *planner.WeeklyPlan, format export.Format) ([]byte, export.Renderer, string, error) {
	now := a.now()
	data, r, err := a.Render(export.DefaultTitle, now, plan, format)
	if err != nil {
		return nil, nil, "", err
	}
	path, err := a.storeExport(storage.NewKey(), now, r.Extension(), data)
	if err != nil {
		return nil, nil, "", err
	}
	return data, r, path, nil
}

func (a *App) storeExport(key string, version time.Time, ext string, data []byte) (string, error) {
	if a.exports == nil {
		return "", nil
	}
	path, err := a.exports.Save(key, version, ext, data)
	if err != nil {
		return "", err
	}
	if err := a.exports.RemoveStaleVersions(key, version); err != nil {
		a.log.Warn("failed to remove stale exports", "key", key, "error", err)
	}
	return path, nil
}

// PublishPlan posts a saved plan to Ghost as an HTML post, as a draft unless publish is set.
func (a *App) PublishPlan(ctx context.Context, id int64, publish bool) (*ghost.Post, error) {
	if a.ghost == nil || !a.cfg.GhostPublishEnabled() {
		return nil, ErrGhostDisabled
	}
	saved, plan, err := a.LoadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	html, _, err := a.Render(saved.Name, saved.CreatedAt, plan, export.FormatHTML)
	if err != nil {
		return nil, err
	}
	post, err := a.ghost.CreatePost(ctx, saved.Name, string(html), publish)
	if err != nil {
		return nil, fmt.Errorf("failed to publish plan %d: %w", id, err)
	}
	a.log.Info("published plan to ghost", "id", id, "post", post.ID, "published", publish)
	return post, nil
}
