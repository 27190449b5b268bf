// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/discovery"
	"github.com/lodestar-learning/lodestar/internal/logging"
	"github.com/lodestar-learning/lodestar/internal/profiles"
	"github.com/lodestar-learning/lodestar/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/lodestar/config.yaml",
	"/etc/lodestar/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "LODESTAR_CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Engine:    discovery.DefaultConfig(),
		Recommend: recommend.DefaultConfig(),
		Catalog: CatalogConfig{
			Source:     "file",
			SourcePath: "/data/catalog.json",
			Store: catalog.ClientConfig{
				Timeout: 30 * time.Second,
			},
			Loader: catalog.LoaderConfig{
				RefreshInterval: 5 * time.Minute,
			},
			CachePath: "/data/cache",
		},
		Profiles: ProfilesConfig{
			Enabled: false,
			Store: profiles.ClientConfig{
				Timeout: 5 * time.Second,
			},
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: logging.Config{
			Level:     "info",
			Format:    "json",
			Caller:    false,
			Timestamp: true,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: optional YAML config file (if it exists)
//  3. Environment Variables: override any setting
//
// Precedence: ENV > File > Defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// LODESTAR_SERVER_PORT -> server.port
	envProvider := env.Provider("LODESTAR_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; known slice fields take comma-separated
	// values.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file: LODESTAR_CONFIG_PATH first,
// then the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps LODESTAR_* environment variable names to koanf
// config paths.
//
// Examples:
//   - LODESTAR_SERVER_PORT -> server.port
//   - LODESTAR_CATALOG_SOURCE_PATH -> catalog.source_path
//   - LODESTAR_SECURITY_RATE_LIMIT_REQS -> security.rate_limit_reqs
//
// The first underscore separates the section; the rest of the name is the
// key within it, except for known multi-word sections handled explicitly.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "LODESTAR_"))

	// Exact mappings where splitting on the first underscore would guess
	// the section boundary wrong.
	exact := map[string]string{
		"catalog_source_path":        "catalog.source_path",
		"catalog_cache_path":         "catalog.cache_path",
		"catalog_store_base_url":     "catalog.store.base_url",
		"catalog_store_api_key":      "catalog.store.api_key",
		"catalog_store_timeout":      "catalog.store.timeout",
		"catalog_refresh_interval":   "catalog.loader.refresh_interval",
		"profiles_store_base_url":    "profiles.store.base_url",
		"profiles_store_api_key":     "profiles.store.api_key",
		"profiles_store_timeout":     "profiles.store.timeout",
		"engine_max_results":         "engine.max_results",
		"recommend_items_per_group":  "recommend.items_per_group",
		"recommend_trending_conf":    "recommend.trending_confidence",
		"server_shutdown_timeout":    "server.shutdown_timeout",
		"security_rate_limit_reqs":   "security.rate_limit_reqs",
		"security_rate_limit_window": "security.rate_limit_window",
		"security_rate_limit_off":    "security.rate_limit_disabled",
		"security_cors_origins":      "security.cors_origins",
	}
	if path, ok := exact[key]; ok {
		return path
	}

	// Generic case: SECTION_KEY -> section.key
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// set from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults).
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
