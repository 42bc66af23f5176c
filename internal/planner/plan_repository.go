package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	plandb "weekly-meal-planner/internal/planner/plan_db"
)

// SavedPlan is an immutable, named snapshot of a weekly plan.
type SavedPlan struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	Payload   []byte // JSON produced by MarshalPlan
}

// Plan decodes the stored payload.
func (s SavedPlan) Plan() (*WeeklyPlan, error) {
	return UnmarshalPlan(s.Payload)
}

// PlanRepository is a database-backed, append-only store of saved plans.
type PlanRepository struct {
	queries *plandb.Queries
	db      *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{
		queries: plandb.New(d),
		db:      d,
	}
}

// Append stores a serialized plan under name and returns its ID.
func (r *PlanRepository) Append(ctx context.Context, name string, createdAt time.Time, payload []byte) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("saved plan name is required")
	}
	id, err := r.queries.InsertSavedPlan(ctx, plandb.InsertSavedPlanParams{
		Name:      name,
		CreatedAt: createdAt.UTC(),
		PlanJson:  string(payload),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert saved plan: %w", err)
	}
	return id, nil
}

// Save serializes plan and appends it.
func (r *PlanRepository) Save(ctx context.Context, name string, plan *WeeklyPlan) (int64, error) {
	payload, err := MarshalPlan(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize plan: %w", err)
	}
	return r.Append(ctx, name, time.Now(), payload)
}

// FetchSavedPlans lists saved plans newest first. A limit <= 0 returns all of them.
func (r *PlanRepository) FetchSavedPlans(ctx context.Context, limit int) ([]SavedPlan, error) {
	n := int64(limit)
	if n <= 0 {
		n = -1 // sqlite: no limit
	}
	dbPlans, err := r.queries.ListSavedPlans(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved plans: %w", err)
	}

	plans := make([]SavedPlan, 0, len(dbPlans))
	for _, p := range dbPlans {
		plans = append(plans, toSavedPlan(p))
	}
	return plans, nil
}

// Get returns a saved plan by ID, or nil if it does not exist.
func (r *PlanRepository) Get(ctx context.Context, id int64) (*SavedPlan, error) {
	dbPlan, err := r.queries.GetSavedPlan(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get saved plan %d: %w", id, err)
	}
	p := toSavedPlan(dbPlan)
	return &p, nil
}

// Delete removes a saved plan and, through the foreign key, its grocery checks.
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	if err := r.queries.DeleteSavedPlan(ctx, id); err != nil {
		return fmt.Errorf("failed to delete saved plan %d: %w", id, err)
	}
	return nil
}

func toSavedPlan(p plandb.SavedPlan) SavedPlan {
	return SavedPlan{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		Payload:   []byte(p.PlanJson),
	}
}
