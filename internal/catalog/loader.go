// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
)

// LoaderConfig configures the catalog refresh loop.
type LoaderConfig struct {
	// RefreshInterval is the time between catalog refreshes; 0 means 5m.
	RefreshInterval time.Duration `json:"refresh_interval" koanf:"refresh_interval"`
}

// Loader keeps the catalog store fresh. It runs as a supervised service:
// an initial load at startup (falling back to the Badger cache when the
// source is unreachable), then periodic refreshes until the context is
// canceled.
//
// A failed refresh keeps the previous snapshot in place. Serving a stale
// catalog beats serving no catalog.
type Loader struct {
	store    *Store
	cache    *SnapshotCache
	source   Source
	interval time.Duration
	logger   zerolog.Logger
}

// NewLoader creates a catalog loader. The cache may be nil, in which case
// snapshots are not persisted and startup has no cache fallback.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLoader(store *Store, cache *SnapshotCache, source Source, cfg LoaderConfig, logger zerolog.Logger) *Loader {
	interval := cfg.RefreshInterval
	if interval == 0 {
		interval = 5 * time.Minute
	}

	return &Loader{
		store:    store,
		cache:    cache,
		source:   source,
		interval: interval,
		logger:   logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Serve implements suture.Service. It performs the initial load, then
// refreshes on a ticker until the context is canceled.
func (l *Loader) Serve(ctx context.Context) error {
	l.initialLoad(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.refresh(ctx)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (l *Loader) String() string {
	return "catalog-loader"
}

// initialLoad populates the store at startup. Source first; on failure the
// cached snapshot from the previous run, if any.
func (l *Loader) initialLoad(ctx context.Context) {
	start := time.Now()

	items, err := l.source.Fetch(ctx)
	if err == nil {
		l.install(items, time.Now())
		metrics.RecordCatalogRefresh("success", len(items), time.Since(start))
		l.logger.Info().Int("items", len(items)).Msg("catalog loaded")
		return
	}

	l.logger.Warn().Err(err).Msg("initial catalog load failed, trying cache")

	if l.cache != nil {
		cached, savedAt, cacheErr := l.cache.Load()
		if cacheErr == nil {
			l.store.Swap(NewSnapshot(cached, savedAt))
			metrics.RecordCatalogRefresh("cache_fallback", len(cached), time.Since(start))
			l.logger.Info().
				Int("items", len(cached)).
				Time("saved_at", savedAt).
				Msg("catalog restored from cache")
			return
		}
		l.logger.Warn().Err(cacheErr).Msg("no cached catalog available")
	}

	metrics.RecordCatalogRefresh("failure", 0, time.Since(start))
	l.logger.Error().Err(err).Msg("starting without a catalog, searches will return 503 until first refresh")
}

// refresh fetches the catalog and swaps it in. The previous snapshot stays
// current on failure.
func (l *Loader) refresh(ctx context.Context) {
	start := time.Now()

	items, err := l.source.Fetch(ctx)
	if err != nil {
		metrics.RecordCatalogRefresh("failure", 0, time.Since(start))
		l.logger.Warn().Err(err).Msg("catalog refresh failed, keeping previous snapshot")
		return
	}

	l.install(items, time.Now())
	metrics.RecordCatalogRefresh("success", len(items), time.Since(start))
	l.logger.Debug().Int("items", len(items)).Msg("catalog refreshed")
}

// install swaps the new snapshot in and persists it to the cache.
func (l *Loader) install(items []models.ContentItem, loadedAt time.Time) {
	l.store.Swap(NewSnapshot(items, loadedAt))

	if l.cache != nil {
		if err := l.cache.Save(items, loadedAt); err != nil {
			l.logger.Warn().Err(err).Msg("failed to persist catalog snapshot")
		}
	}
}
