package app

import (
	"context"
	"fmt"
	"time"

	"weekly-meal-planner/internal/catalogue"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/database"
	"weekly-meal-planner/internal/ghost"
	"weekly-meal-planner/internal/llm"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
	"weekly-meal-planner/internal/storage"
)

// Runtime is a fully wired App together with the resources it owns.
type Runtime struct {
	*App
	DB      *database.DB
	closers []llm.Closer
}

// Close releases the LLM client and the database.
func (r *Runtime) Close() error {
	for _, c := range r.closers {
		c.Close()
	}
	return r.DB.Close()
}

// NewTextGenerator picks the LLM used as the clipper's fallback: Gemini when a key is set,
// then Groq. It returns nil when neither is configured.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case cfg.GroqAPIKey != "":
		return llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel), nil
	default:
		return nil, nil
	}
}

// Open connects every component described by cfg.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	db, err := database.NewDB(cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	exports, err := storage.NewExportStore(cfg.ExportPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	rt := &Runtime{DB: db}

	textGen, err := NewTextGenerator(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	if c, ok := textGen.(llm.Closer); ok {
		rt.closers = append(rt.closers, c)
	}
	if textGen == nil {
		log.Info("no llm configured, clipper falls back to structured data only")
	}

	var ghostClient ghost.Client
	if cfg.GhostEnabled() || cfg.GhostPublishEnabled() {
		ghostClient = ghost.NewClient(cfg)
	}

	rt.App = New(Deps{
		Config:      cfg,
		Log:         log,
		Catalogue:   catalogue.NewRepository(db.SQL),
		Builder:     planner.NewBuilder(planner.NewSelector(cfg.SelectionPolicy, planner.NewLockedRand(cfg.RandomSeed)), log),
		Plans:       planner.NewPlanRepository(db.SQL),
		Checks:      shopping.NewRepository(db.SQL),
		Metrics:     metrics.NewStore(db.SQL),
		Exports:     exports,
		Clipper:     clipper.NewClipper(textGen, log),
		Ghost:       ghostClient,
		LLMThrottle: 4 * time.Second,
	})
	return rt, nil
}
