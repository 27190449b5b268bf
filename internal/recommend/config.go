// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package recommend

// Config contains the tunable parameters of the recommendation generator.
type Config struct {
	// ItemsPerGroup is the maximum number of items per recommendation
	// group; 0 means the default of 3.
	ItemsPerGroup int `json:"items_per_group" koanf:"items_per_group"`

	// TrendingConfidence is the fixed confidence attached to the trending
	// group. Trending is a population-level signal, so its confidence does
	// not vary per learner; 0 means the default of 0.75.
	TrendingConfidence float64 `json:"trending_confidence" koanf:"trending_confidence"`
}

// DefaultConfig returns the standard generator configuration.
func DefaultConfig() Config {
	return Config{
		ItemsPerGroup:      3,
		TrendingConfidence: 0.75,
	}
}

// normalized returns cfg with zero values replaced by defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.ItemsPerGroup <= 0 {
		c.ItemsPerGroup = def.ItemsPerGroup
	}
	if c.TrendingConfidence <= 0 {
		c.TrendingConfidence = def.TrendingConfidence
	}
	return c
}
