package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"weekly-meal-planner/internal/database"
	"weekly-meal-planner/internal/logger"
)

func newTestPlanRepository(t *testing.T) *PlanRepository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "plans.db"), logger.Nop())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPlanRepository(db.SQL)
}

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestPlanRepository(t)
	plan := samplePlan(t)

	payload, err := MarshalPlan(plan)
	if err != nil {
		t.Fatalf("MarshalPlan failed: %v", err)
	}

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	older, err := repo.Append(ctx, "Week 9", base, payload)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	newer, err := repo.Append(ctx, "Week 10", base.Add(7*24*time.Hour), payload)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	sameTime, err := repo.Append(ctx, "Week 10 (again)", base.Add(7*24*time.Hour), payload)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	t.Run("NewestFirst", func(t *testing.T) {
		plans, err := repo.FetchSavedPlans(ctx, 0)
		if err != nil {
			t.Fatalf("FetchSavedPlans failed: %v", err)
		}
		want := []int64{sameTime, newer, older}
		if len(plans) != len(want) {
			t.Fatalf("Expected %d plans, got %d", len(want), len(plans))
		}
		for i, id := range want {
			if plans[i].ID != id {
				t.Errorf("Expected plan %d at position %d, got %d", id, i, plans[i].ID)
			}
		}
		if !plans[2].CreatedAt.Equal(base) {
			t.Errorf("Expected created_at %v, got %v", base, plans[2].CreatedAt)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		plans, err := repo.FetchSavedPlans(ctx, 1)
		if err != nil {
			t.Fatalf("FetchSavedPlans failed: %v", err)
		}
		if len(plans) != 1 || plans[0].ID != sameTime {
			t.Errorf("Expected only the newest plan, got %+v", plans)
		}
	})

	t.Run("GetDecodesPlan", func(t *testing.T) {
		saved, err := repo.Get(ctx, older)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if saved == nil || saved.Name != "Week 9" {
			t.Fatalf("Unexpected saved plan: %+v", saved)
		}
		restored, err := saved.Plan()
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}
		if !plan.Equal(restored) {
			t.Error("Stored plan does not round-trip")
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		saved, err := repo.Get(ctx, 9999)
		if err != nil || saved != nil {
			t.Errorf("Expected nil, nil; got %+v, %v", saved, err)
		}
	})

	t.Run("BlankNameRejected", func(t *testing.T) {
		if _, err := repo.Append(ctx, "   ", time.Now(), payload); err == nil {
			t.Error("Expected an error for a blank name")
		}
	})

	t.Run("SaveAndDelete", func(t *testing.T) {
		id, err := repo.Save(ctx, "Scratch", plan)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		saved, _ := repo.Get(ctx, id)
		if saved != nil {
			t.Error("Expected the plan to be gone")
		}
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		id, err := repo.Append(ctx, "Broken", time.Now(), []byte(`{"9":{}}`))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		saved, _ := repo.Get(ctx, id)
		if _, err := saved.Plan(); !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("Expected ErrMalformedPayload, got %v", err)
		}
	})
}
