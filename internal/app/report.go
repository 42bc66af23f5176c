package app

import (
	"context"

	"weekly-meal-planner/internal/meal"
	"weekly-meal-planner/internal/metrics"
)

// Report is the admin usage and health summary.
type Report struct {
	Daily   []metrics.DailyGeneration `json:"daily"`
	Health  metrics.SysHealth         `json:"health"`
	Meals   map[meal.Category]int     `json:"meals"`
	Planned int                       `json:"saved_plans"`
}

// Report gathers generation metrics for the last days together with process health.
func (a *App) Report(ctx context.Context, days int) (*Report, error) {
	daily, err := a.metrics.GetDailyGenerations(ctx, days)
	if err != nil {
		return nil, err
	}
	counts, err := a.catalogue.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := a.plans.FetchSavedPlans(ctx, 0)
	if err != nil {
		return nil, err
	}
	exportPath := ""
	if a.exports != nil {
		exportPath = a.exports.BasePath()
	}
	return &Report{
		Daily:   daily,
		Health:  metrics.GetSysHealth(a.cfg.DatabasePath, exportPath),
		Meals:   counts,
		Planned: len(saved),
	}, nil
}

// CleanupMetrics drops generation metrics older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	n, err := a.metrics.Cleanup(ctx, olderThanDays)
	if err != nil {
		return 0, err
	}
	a.log.Info("cleaned up generation metrics", "removed", n)
	return n, nil
}
