package database

import (
	"path/filepath"
	"testing"

	"weekly-meal-planner/internal/logger"
)

func TestNewDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "meals.db")

	db, err := NewDB(path, logger.Nop())
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"meals", "saved_plans", "grocery_checks", "plan_generations", "sessions"} {
		var name string
		err := db.SQL.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}

	t.Run("MigrationsAreIdempotent", func(t *testing.T) {
		version, err := RunMigrations(path)
		if err != nil {
			t.Fatalf("Second migration run failed: %v", err)
		}
		if version != 4 {
			t.Errorf("Expected schema version 4, got %d", version)
		}
	})

	t.Run("ForeignKeysEnabled", func(t *testing.T) {
		var on int
		if err := db.SQL.QueryRow("PRAGMA foreign_keys").Scan(&on); err != nil {
			t.Fatalf("PRAGMA failed: %v", err)
		}
		if on != 1 {
			t.Error("Expected foreign keys to be enforced")
		}
	})
}
