// Command ingest runs the weather ingestion service: every cycle it fetches
// the Buienradar current-observations feed, normalizes it into stations and
// measurements, and persists both in a SQLite database. It runs in the
// foreground until interrupted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-ingest/internal/adapter/buienradar"
	httpadapter "github.com/couchcryptid/weather-ingest/internal/adapter/http"
	"github.com/couchcryptid/weather-ingest/internal/config"
	"github.com/couchcryptid/weather-ingest/internal/observability"
	"github.com/couchcryptid/weather-ingest/internal/pipeline"
	"github.com/couchcryptid/weather-ingest/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog, err := observability.NewLogger(cfg)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer closeLog() //nolint:errcheck // process is exiting

	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.DBPath)

	fetcher := buienradar.NewClient(cfg.FeedURL, cfg.FetchTimeout, logger)
	cycle := pipeline.NewCycle(fetcher, st, logger, metrics)
	scheduler := pipeline.NewScheduler(cycle, cfg.CycleInterval, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cycle, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := scheduler.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := st.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
