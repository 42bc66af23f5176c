package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	metricsdb "weekly-meal-planner/internal/metrics/metrics_db"
	"weekly-meal-planner/internal/planner"
)

// GenerationMetric records how one category fared during a plan build.
type GenerationMetric struct {
	Policy    string
	Category  string
	PoolSize  int
	Requested int
	Selected  int
	LatencyMS int64
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	err := s.queries.InsertPlanGeneration(ctx, metricsdb.InsertPlanGenerationParams{
		Policy:    m.Policy,
		Category:  m.Category,
		PoolSize:  int64(m.PoolSize),
		Requested: int64(m.Requested),
		Selected:  int64(m.Selected),
		LatencyMs: m.LatencyMS,
		Timestamp: ts.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record generation metric: %w", err)
	}
	return nil
}

// RecordBuild stores one metric per category of a finished build.
func (s *Store) RecordBuild(ctx context.Context, policy planner.Policy, stats []planner.CategoryStat, latency time.Duration) error {
	now := time.Now()
	for _, st := range stats {
		err := s.Record(ctx, GenerationMetric{
			Policy:    policy.String(),
			Category:  string(st.Category),
			PoolSize:  st.PoolSize,
			Requested: planner.DaysPerWeek,
			Selected:  st.Selected,
			LatencyMS: latency.Milliseconds(),
			Timestamp: now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DailyGeneration summarizes one category's builds on a single day.
type DailyGeneration struct {
	Date         string  `json:"date"`
	Category     string  `json:"category"`
	Builds       int     `json:"builds"`
	AvgPoolSize  float64 `json:"avg_pool_size"`
	ShortBuilds  int     `json:"short_builds"` // builds that could not fill every day
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// GetDailyGenerations retrieves per-day summaries for the last N days, newest first.
func (s *Store) GetDailyGenerations(ctx context.Context, days int) ([]DailyGeneration, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyGenerations(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily generations: %w", err)
	}

	results := make([]DailyGeneration, 0, len(rows))
	for _, r := range rows {
		results = append(results, DailyGeneration{
			Date:         r.Day,
			Category:     r.Category,
			Builds:       int(r.Builds),
			AvgPoolSize:  r.AvgPoolSize,
			ShortBuilds:  int(r.ShortBuilds),
			AvgLatencyMS: r.AvgLatencyMs,
		})
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and reports how many
// were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	n, err := s.queries.CleanupPlanGenerations(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up generation metrics: %w", err)
	}
	return n, nil
}
