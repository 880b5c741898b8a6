// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

// Command server runs the Tastevin HTTP backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tastevin-app/tastevin/internal/api"
	"github.com/tastevin-app/tastevin/internal/cache"
	"github.com/tastevin-app/tastevin/internal/config"
	"github.com/tastevin-app/tastevin/internal/database"
	"github.com/tastevin-app/tastevin/internal/enrich"
	"github.com/tastevin-app/tastevin/internal/logging"
	"github.com/tastevin-app/tastevin/internal/provider"
	"github.com/tastevin-app/tastevin/internal/supervisor"
	"github.com/tastevin-app/tastevin/internal/taste"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting Tastevin")

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("opening provider cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// One collector shared by every provider adapter: its hit rate
	// describes the whole outbound surface.
	collector := provider.NewCollector()
	fetcher := provider.NewFetcher(store, collector, cfg.Cache, cfg.Providers.Timeout)
	registry := provider.NewRegistry(fetcher, cfg.Providers)

	engine := taste.NewEngine(db, db, db, db, registry, cfg.Versus)
	enricher := enrich.New(registry, db, cfg.Enrich)

	handler := api.NewHandler(cfg, db, store, collector, registry, engine, enricher)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	slogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	tree := supervisor.NewTree(slogger, supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))
	tree.AddMaintenanceService(supervisor.NewSweeperService(store, time.Hour))
	tree.AddMaintenanceService(supervisor.NewEnricherService(db, enricher, 6*time.Hour, cfg.Enrich.FreshnessWindow))
	tree.AddMaintenanceService(supervisor.NewUptimeService(time.Now()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Serving")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
