package app

import (
	"errors"
	"time"

	"weekly-meal-planner/internal/catalogue"
	"weekly-meal-planner/internal/clipper"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/export"
	"weekly-meal-planner/internal/ghost"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/metrics"
	"weekly-meal-planner/internal/planner"
	"weekly-meal-planner/internal/shopping"
	"weekly-meal-planner/internal/storage"
)

var (
	// ErrPlanNotFound is returned when a saved plan id does not exist.
	ErrPlanNotFound = errors.New("saved plan not found")
	// ErrUnknownIngredient is returned when ticking an ingredient the plan does not use.
	ErrUnknownIngredient = errors.New("ingredient is not on the grocery list")
	// ErrGhostDisabled is returned by Ghost operations when no Ghost site is configured.
	ErrGhostDisabled = errors.New("ghost integration is not configured")
)

// Deps are the collaborators an App is assembled from. Ghost and Clipper are optional.
type Deps struct {
	Config    *config.Config
	Log       *logger.Logger
	Catalogue *catalogue.Repository
	Builder   *planner.Builder
	Plans     *planner.PlanRepository
	Checks    *shopping.Repository
	Metrics   *metrics.Store
	Exports   *storage.ExportStore
	Clipper   *clipper.Clipper
	Ghost     ghost.Client

	// LLMThrottle is the pause after each LLM-backed extraction during a Ghost sync.
	LLMThrottle time.Duration
}

// App holds the application's dependencies.
type App struct {
	cfg         *config.Config
	log         *logger.Logger
	catalogue   *catalogue.Repository
	builder     *planner.Builder
	policy      planner.Policy
	plans       *planner.PlanRepository
	checks      *shopping.Repository
	metrics     *metrics.Store
	exports     *storage.ExportStore
	clipper     *clipper.Clipper
	ghost       ghost.Client
	llmThrottle time.Duration
	exportOpts  export.Options
	now         func() time.Time
}

// New creates and initializes a new App instance.
func New(d Deps) *App {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	cfg := d.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &App{
		cfg:         cfg,
		log:         log.With("component", "app"),
		catalogue:   d.Catalogue,
		builder:     d.Builder,
		policy:      cfg.SelectionPolicy,
		plans:       d.Plans,
		checks:      d.Checks,
		metrics:     d.Metrics,
		exports:     d.Exports,
		clipper:     d.Clipper,
		ghost:       d.Ghost,
		llmThrottle: d.LLMThrottle,
		exportOpts:  export.Options{FontPath: cfg.ExportFontPath},
		now:         time.Now,
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}
