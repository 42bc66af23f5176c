package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"weekly-meal-planner/internal/planner"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	ExportPath   string
	LogMode      string

	// Planner
	SelectionPolicy planner.Policy
	RandomSeed      int64

	// HTTP server
	Port               int
	CORSAllowedOrigins []string

	// Ghost CMS
	GhostURL        string
	GhostContentKey string
	GhostAdminKey   string

	// LLM extraction fallback for the clipper
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	ExportFontPath string

	// Tracing
	TracingEnabled   bool
	OTLPEndpoint     string
	OTLPInsecure     bool
	TraceSampleRatio float64
}

// GhostEnabled reports whether recipes can be synced from Ghost.
func (c *Config) GhostEnabled() bool {
	return c.GhostURL != "" && c.GhostContentKey != ""
}

// GhostPublishEnabled reports whether plans can be published to Ghost.
func (c *Config) GhostPublishEnabled() bool {
	return c.GhostURL != "" && c.GhostAdminKey != ""
}

// TelegramEnabled reports whether the bot should be started.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// IsAllowedUser reports whether a Telegram user may talk to the bot.
func (c *Config) IsAllowedUser(id int64) bool {
	if id == c.AdminTelegramID && id != 0 {
		return true
	}
	for _, allowed := range c.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

var envKeys = []string{
	"DATABASE_PATH", "EXPORT_PATH", "LOG_MODE",
	"SELECTION_POLICY", "RANDOM_SEED",
	"PORT", "CORS_ALLOWED_ORIGINS",
	"GHOST_API_URL", "GHOST_CONTENT_API_KEY", "GHOST_ADMIN_API_KEY",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GROQ_API_KEY", "GROQ_MODEL",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID",
	"EXPORT_FONT_PATH",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SAMPLER_RATIO",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_PATH", "data/meals.db")
	v.SetDefault("EXPORT_PATH", "data/exports")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("SELECTION_POLICY", planner.PolicyTolerant.String())
	v.SetDefault("RANDOM_SEED", 0)
	v.SetDefault("PORT", 8080)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SAMPLER_RATIO", 0.1)
}

// NewFromEnv creates a new Config object from environment variables. A .env file in the
// working directory is loaded first when present; real environment variables win.
func NewFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	policy, err := planner.ParsePolicy(v.GetString("SELECTION_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid SELECTION_POLICY: %w", err)
	}

	allowed, err := parseIDList(v.GetString("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if raw := strings.TrimSpace(v.GetString("ADMIN_TELEGRAM_ID")); raw != "" {
		if adminID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	cfg := &Config{
		DatabasePath:           v.GetString("DATABASE_PATH"),
		ExportPath:             v.GetString("EXPORT_PATH"),
		LogMode:                v.GetString("LOG_MODE"),
		SelectionPolicy:        policy,
		RandomSeed:             v.GetInt64("RANDOM_SEED"),
		Port:                   v.GetInt("PORT"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		GhostURL:               strings.TrimRight(v.GetString("GHOST_API_URL"), "/"),
		GhostContentKey:        v.GetString("GHOST_CONTENT_API_KEY"),
		GhostAdminKey:          v.GetString("GHOST_ADMIN_API_KEY"),
		GeminiAPIKey:           v.GetString("GEMINI_API_KEY"),
		GeminiModel:            v.GetString("GEMINI_MODEL"),
		GroqAPIKey:             v.GetString("GROQ_API_KEY"),
		GroqModel:              v.GetString("GROQ_MODEL"),
		TelegramBotToken:       v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     v.GetString("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		ExportFontPath:         v.GetString("EXPORT_FONT_PATH"),
		TracingEnabled:         v.GetBool("OTEL_ENABLED"),
		OTLPEndpoint:           strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:           v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		TraceSampleRatio:       v.GetFloat64("OTEL_SAMPLER_RATIO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.TelegramBotToken != "" && c.TelegramWebhookURL == "" {
		return errors.New("TELEGRAM_WEBHOOK_URL is required when TELEGRAM_BOT_TOKEN is set")
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLER_RATIO must be within 0..1, got %v", c.TraceSampleRatio)
	}
	if c.GhostAdminKey != "" && strings.Count(c.GhostAdminKey, ":") != 1 {
		return errors.New("GHOST_ADMIN_API_KEY must have the form id:secret")
	}
	return nil
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
