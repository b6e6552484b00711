// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/insight/internal/api"
	"github.com/tomtom215/insight/internal/config"
	"github.com/tomtom215/insight/internal/database"
	"github.com/tomtom215/insight/internal/ingest"
	"github.com/tomtom215/insight/internal/logging"
	"github.com/tomtom215/insight/internal/snapshot"
	"github.com/tomtom215/insight/internal/supervisor"
	"github.com/tomtom215/insight/internal/supervisor/services"
	ws "github.com/tomtom215/insight/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this goes through the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_driver", cfg.Database.Driver).
		Str("db_path", cfg.Database.Path).
		Str("static_root", cfg.Snapshot.StaticRoot).
		Msg("Configuration loaded")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	snapshots, err := snapshot.NewStore(cfg.Snapshot)
	if err != nil {
		return err
	}

	rawHub := ws.NewHub(ws.FeedRaw)
	globalHub := ws.NewHub(ws.FeedGlobal)

	processor := ingest.NewProcessor(cfg.Ingest, db, snapshots, rawHub, globalHub)
	pipeline := ingest.NewPipeline(cfg.Ingest, processor)
	defer func() {
		if err := pipeline.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ingest pipeline")
		}
	}()

	handler := api.NewHandler(cfg, db, pipeline, processor, rawHub, globalHub)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddFeedService(services.NewFeedHubService(rawHub))
	tree.AddFeedService(services.NewFeedHubService(globalHub))
	tree.AddIngestService(services.NewIngestPipelineService(pipeline))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}
