// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package main is the entry point for the Lodestar server.
//
// Lodestar is a content discovery and recommendation engine for learning
// platforms. It searches and ranks a catalog of learning content, builds
// personalized recommendation groups from learner profiles, and plans
// capacity-constrained study-group assignments.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, config.yaml, and
//     LODESTAR_-prefixed environment variables (Koanf v2)
//  2. Snapshot cache: BadgerDB store persisting the last good catalog
//  3. Catalog pipeline: store + loader pulling from the content store
//     (or a local JSON file) on a refresh interval
//  4. Engines: search engine, recommendation generator, group assigner
//  5. Profile store client (optional): personalization lookups behind a
//     circuit breaker
//  6. HTTP server: chi REST API with Prometheus metrics
//
// All long-running components run under a suture supervisor tree so that a
// crash in the catalog refresh loop cannot take down request serving.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (LODESTAR_ prefix)
//   - Config file (config.yaml, or LODESTAR_CONFIG_PATH)
//   - Built-in defaults
//
// # Example Usage
//
// Serve a local catalog file:
//
//	export LODESTAR_CATALOG_SOURCE=file
//	export LODESTAR_CATALOG_SOURCE_PATH=/data/catalog.json
//	./lodestar
//
// Pull the catalog from a content store, with profile lookups:
//
//	export LODESTAR_CATALOG_SOURCE=http
//	export LODESTAR_CATALOG_STORE_BASE_URL=http://content-store:8080
//	export LODESTAR_PROFILES_ENABLED=true
//	export LODESTAR_PROFILES_STORE_BASE_URL=http://profile-store:8080
//	./lodestar
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests within the configured
// shutdown timeout, and closes the snapshot cache.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/lodestar-learning/lodestar/internal/api"
	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/config"
	"github.com/lodestar-learning/lodestar/internal/discovery"
	"github.com/lodestar-learning/lodestar/internal/logging"
	"github.com/lodestar-learning/lodestar/internal/profiles"
	"github.com/lodestar-learning/lodestar/internal/recommend"
	"github.com/lodestar-learning/lodestar/internal/roster"
	"github.com/lodestar-learning/lodestar/internal/supervisor"
	"github.com/lodestar-learning/lodestar/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)

	logging.Info().
		Str("catalog_source", cfg.Catalog.Source).
		Bool("profiles_enabled", cfg.Profiles.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	// Snapshot cache: persists the last good catalog across restarts so a
	// content-store outage at boot doesn't leave the API empty.
	var cache *catalog.SnapshotCache
	var cacheDB *badger.DB
	if cfg.Catalog.CachePath != "" {
		opts := badger.DefaultOptions(cfg.Catalog.CachePath)
		opts.Logger = nil // Suppress BadgerDB logs

		cacheDB, err = badger.Open(opts)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.Catalog.CachePath).
				Msg("Failed to open snapshot cache, continuing without persistence")
		} else {
			cache = catalog.NewSnapshotCache(cacheDB)
			defer func() {
				if err := cacheDB.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing snapshot cache")
				}
			}()
		}
	} else {
		logging.Info().Msg("Snapshot cache disabled (no cache path configured)")
	}

	// Catalog source: the content store behind a circuit breaker, or a
	// local JSON file.
	var source catalog.Source
	switch cfg.Catalog.Source {
	case "http":
		source = catalog.NewContentStoreClient(cfg.Catalog.Store)
	case "file":
		source = catalog.NewFileSource(cfg.Catalog.SourcePath)
	default:
		logging.Fatal().Str("source", cfg.Catalog.Source).Msg("Unknown catalog source")
	}

	store := catalog.NewStore()
	loader := catalog.NewLoader(store, cache, source, cfg.Catalog.Loader, logging.Logger())

	engine := discovery.NewEngine(cfg.Engine, logging.Logger())
	generator := recommend.NewGenerator(cfg.Recommend, cfg.Engine.Personalization, logging.Logger())
	assigner := roster.NewAssigner(logging.Logger())

	var profileFetcher api.ProfileFetcher
	if cfg.Profiles.Enabled {
		profileFetcher = profiles.NewClient(cfg.Profiles.Store)
		logging.Info().Str("base_url", cfg.Profiles.Store.BaseURL).Msg("Profile store enabled")
	} else {
		logging.Info().Msg("Profile store disabled, serving anonymous requests only")
	}

	handler := api.NewHandler(store, engine, generator, assigner, profileFetcher)
	middleware := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	router := api.NewRouter(handler, middleware)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED")
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(loader)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
