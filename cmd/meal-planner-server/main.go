package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"weekly-meal-planner/internal/api"
	"weekly-meal-planner/internal/app"
	"weekly-meal-planner/internal/config"
	"weekly-meal-planner/internal/logger"
	"weekly-meal-planner/internal/observability"
	"weekly-meal-planner/internal/telegram"
)

const sessionTTL = 7 * 24 * time.Hour

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, zl)
	if err != nil {
		zl.Warn("tracing disabled", "error", err)
	}

	// 2. Wire storage, planner and integrations
	rt, err := app.Open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open application", "error", err)
	}
	defer rt.Close()

	// 3. Telegram bot, when configured
	var (
		webhook  http.Handler
		sessions *telegram.SessionRepository
	)
	if cfg.TelegramEnabled() {
		sessions = telegram.NewSessionRepository(rt.DB.SQL)
		bot, err := telegram.NewBot(cfg, rt.App, sessions, zl.With("component", "telegram"))
		if err != nil {
			zl.Fatal("failed to initialize telegram bot", "error", err)
		}
		webhook = bot
	}

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(rt.App, webhook, zl),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("server listening", "port", cfg.Port, "telegram", webhook != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if shutdownTracing != nil {
			if err := shutdownTracing(shutdownCtx); err != nil {
				zl.Warn("failed to flush traces", "error", err)
			}
		}
		return nil
	})
	if sessions != nil {
		g.Go(func() error {
			cleanupSessions(gctx, sessions, zl)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zl.Error("server stopped with error", "error", err)
	}
	zl.Info("server exiting")
}

// cleanupSessions drops stale chat sessions once an hour until ctx is done.
func cleanupSessions(ctx context.Context, sessions *telegram.SessionRepository, zl *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanupExpired(ctx, sessionTTL)
			if err != nil {
				zl.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				zl.Info("removed expired sessions", "count", n)
			}
		}
	}
}
