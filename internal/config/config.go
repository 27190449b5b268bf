// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package config loads and validates application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file for persistent settings
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/discovery"
	"github.com/lodestar-learning/lodestar/internal/logging"
	"github.com/lodestar-learning/lodestar/internal/profiles"
	"github.com/lodestar-learning/lodestar/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Engine    discovery.Config `koanf:"engine"`
	Recommend recommend.Config `koanf:"recommend"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Profiles  ProfilesConfig   `koanf:"profiles"`
	Security  SecurityConfig   `koanf:"security"`
	Logging   logging.Config   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout bounds request handling (read, write, and per-request).
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// CatalogConfig holds catalog sourcing and caching settings.
type CatalogConfig struct {
	// Source selects where the catalog comes from: "http" pulls from the
	// content store, "file" reads SourcePath.
	Source string `koanf:"source"`

	// SourcePath is the catalog JSON file used when Source is "file".
	SourcePath string `koanf:"source_path"`

	// Store configures the content store client used when Source is "http".
	Store catalog.ClientConfig `koanf:"store"`

	// Loader configures the refresh loop.
	Loader catalog.LoaderConfig `koanf:"loader"`

	// CachePath is the BadgerDB directory for persisting the last good
	// snapshot; empty disables the cache.
	CachePath string `koanf:"cache_path"`
}

// ProfilesConfig holds profile store settings.
type ProfilesConfig struct {
	// Enabled turns learner profile lookups on. When disabled every search
	// runs anonymously and learner recommendation endpoints return only
	// trending.
	Enabled bool `koanf:"enabled"`

	// Store configures the profile store client.
	Store profiles.ClientConfig `koanf:"store"`
}

// SecurityConfig holds API hardening settings.
type SecurityConfig struct {
	// RateLimitReqs is the allowed requests per window per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns rate limiting off.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// Validate checks the configuration for inconsistencies that would make the
// server misbehave at runtime rather than fail at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	switch c.Catalog.Source {
	case "http":
		if err := validateURL("catalog.store.base_url", c.Catalog.Store.BaseURL); err != nil {
			return err
		}
	case "file":
		if c.Catalog.SourcePath == "" {
			return fmt.Errorf("catalog.source_path is required when catalog.source is \"file\"")
		}
	default:
		return fmt.Errorf("catalog.source must be \"http\" or \"file\", got %q", c.Catalog.Source)
	}

	if c.Profiles.Enabled {
		if err := validateURL("profiles.store.base_url", c.Profiles.Store.BaseURL); err != nil {
			return err
		}
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	if c.Engine.MaxResults < 0 {
		return fmt.Errorf("engine.max_results must not be negative, got %d", c.Engine.MaxResults)
	}
	if c.Recommend.ItemsPerGroup < 0 {
		return fmt.Errorf("recommend.items_per_group must not be negative, got %d", c.Recommend.ItemsPerGroup)
	}
	if c.Recommend.TrendingConfidence < 0 || c.Recommend.TrendingConfidence > 1 {
		return fmt.Errorf("recommend.trending_confidence must be in [0, 1], got %g", c.Recommend.TrendingConfidence)
	}

	return nil
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the server runs in production mode.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// validateURL checks that value is an absolute http(s) URL.
func validateURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}
