package config

import (
	"strings"
	"testing"

	"weekly-meal-planner/internal/planner"
)

// clearEnv blanks every key so values from the host environment do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/meals.db" {
			t.Errorf("Expected default database path, got '%s'", cfg.DatabasePath)
		}
		if cfg.SelectionPolicy != planner.PolicyTolerant {
			t.Errorf("Expected tolerant policy by default, got %v", cfg.SelectionPolicy)
		}
		if cfg.Port != 8080 {
			t.Errorf("Expected port 8080, got %d", cfg.Port)
		}
		if cfg.GhostEnabled() || cfg.TelegramEnabled() || cfg.GhostPublishEnabled() {
			t.Error("Expected integrations to be disabled without keys")
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Errorf("Unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("Success", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GHOST_API_URL", "http://ghost.test/")
		t.Setenv("GHOST_CONTENT_API_KEY", "ghost_key")
		t.Setenv("GHOST_ADMIN_API_KEY", "id:abcdef")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("SELECTION_POLICY", "strict")
		t.Setenv("RANDOM_SEED", "42")
		t.Setenv("PORT", "9090")
		t.Setenv("TELEGRAM_BOT_TOKEN", "token")
		t.Setenv("TELEGRAM_WEBHOOK_URL", "https://bot.test/webhook")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "11, 22")
		t.Setenv("ADMIN_TELEGRAM_ID", "99")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GhostURL != "http://ghost.test" {
			t.Errorf("Expected GhostURL to be 'http://ghost.test', got '%s'", cfg.GhostURL)
		}
		if cfg.GhostContentKey != "ghost_key" {
			t.Errorf("Expected GhostContentKey to be 'ghost_key', got '%s'", cfg.GhostContentKey)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.SelectionPolicy != planner.PolicyStrict || cfg.RandomSeed != 42 || cfg.Port != 9090 {
			t.Errorf("Unexpected planner/server settings: %+v", cfg)
		}
		if !cfg.GhostEnabled() || !cfg.GhostPublishEnabled() || !cfg.TelegramEnabled() {
			t.Error("Expected integrations to be enabled")
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 22 {
			t.Errorf("Unexpected allowed IDs: %v", cfg.TelegramAllowedUserIDs)
		}
		if !cfg.IsAllowedUser(11) || !cfg.IsAllowedUser(99) || cfg.IsAllowedUser(33) {
			t.Error("Unexpected allow-list behavior")
		}
	})

	errorCases := []struct {
		name   string
		env    map[string]string
		expect string
	}{
		{"BadPolicy", map[string]string{"SELECTION_POLICY": "lenient"}, "SELECTION_POLICY"},
		{"BadUserIDs", map[string]string{"TELEGRAM_ALLOWED_USER_IDS": "11,abc"}, "TELEGRAM_ALLOWED_USER_IDS"},
		{"BadAdminID", map[string]string{"ADMIN_TELEGRAM_ID": "admin"}, "ADMIN_TELEGRAM_ID"},
		{"BadPort", map[string]string{"PORT": "70000"}, "PORT"},
		{"TokenWithoutWebhook", map[string]string{"TELEGRAM_BOT_TOKEN": "token"}, "TELEGRAM_WEBHOOK_URL"},
		{"BadAdminKey", map[string]string{"GHOST_ADMIN_API_KEY": "no-colon"}, "GHOST_ADMIN_API_KEY"},
		{"BadSampleRatio", map[string]string{"OTEL_SAMPLER_RATIO": "1.5"}, "OTEL_SAMPLER_RATIO"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := NewFromEnv()
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !strings.Contains(err.Error(), tc.expect) {
				t.Errorf("Expected error mentioning %s, got '%v'", tc.expect, err)
			}
		})
	}
}
