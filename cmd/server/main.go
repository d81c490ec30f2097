// Seedrec - Seed Variety Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedrec

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/seedrec/internal/api"
	"github.com/tomtom215/seedrec/internal/config"
	"github.com/tomtom215/seedrec/internal/logging"
	"github.com/tomtom215/seedrec/internal/middleware"
	"github.com/tomtom215/seedrec/internal/seedrec"
	"github.com/tomtom215/seedrec/internal/supervisor"
	"github.com/tomtom215/seedrec/internal/supervisor/services"
	"github.com/tomtom215/seedrec/internal/traits"
	"github.com/tomtom215/seedrec/internal/yield"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	perfSampleCapacity = 1000
	slowRequest        = time.Second
)

//nolint:gocyclo // sequential startup wiring
func main() {
	configPath := config.FindConfigFile()
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("config_file", configPath).
		Str("config", cfg.String()).
		Msg("Starting seedrec")

	repo := traits.NewRepository(cfg.Traits.Path, logging.WithComponent("traits"))
	snap, _, err := repo.Load()
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Traits.Path).Msg("Failed to load traits table")
	}
	logging.Info().
		Int("varieties", snap.Len()).
		Int("rejected_rows", snap.RejectedRows).
		Msg("Traits table loaded")

	// Both stay untyped nil without an artifacts directory so the engine
	// and handlers see no gateway at all.
	var (
		gateway seedrec.YieldGateway
		catalog api.ModelCatalog
	)
	if cfg.Yield.ArtifactsDir != "" {
		g := yield.NewGateway(yield.NewStore(cfg.Yield.ArtifactsDir), cfg.Yield.GatewayOptions(), logging.WithComponent("yield"))
		gateway, catalog = g, g
		if crops, err := g.AvailableCrops(); err != nil {
			logging.Warn().Err(err).Str("dir", cfg.Yield.ArtifactsDir).Msg("Could not list yield models")
		} else {
			logging.Info().Strs("crops", crops).Msg("Yield models available")
		}
	} else {
		logging.Info().Msg("Yield models disabled (YIELD_ARTIFACTS_DIR not set)")
	}

	engine, err := seedrec.NewEngine(&cfg.Scoring, repo, gateway, logging.WithComponent("engine"),
		seedrec.WithRequestIDFunc(logging.RequestIDFromContext))
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid scoring configuration")
	}

	perfMon := middleware.NewPerformanceMonitor(perfSampleCapacity, slowRequest, logging.WithComponent("perf"))
	handler := api.NewHandler(engine, repo, catalog, perfMon, api.HandlerConfig{
		Version:        version,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	chiMW := api.NewChiMiddlewareFromServer(
		cfg.Server.CORSOrigins,
		cfg.Server.RateLimitRequests,
		cfg.Server.RateLimitWindow,
		cfg.Server.RateLimitDisabled,
	)
	router := api.NewRouter(handler, chiMW, perfMon)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	serviceLogger := logging.WithComponent("services")
	tree.AddDataService(services.NewTraitsWatchService(repo, cfg.Traits, serviceLogger))
	if configPath != "" {
		tree.AddDataService(services.NewConfigWatchService(configPath, engine, serviceLogger))
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.Addr(), cfg.Server.ShutdownTimeout, serviceLogger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Server stopped")
}
