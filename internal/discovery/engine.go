// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
)

// Config contains the tunable weight tables of the search engine. Zero
// values fall back to the documented defaults, so an empty Config is valid.
type Config struct {
	// Relevance is the query-match weight table.
	Relevance RelevanceWeights `json:"relevance" koanf:"relevance"`

	// Personalization is the profile-match weight table.
	Personalization PersonalizationWeights `json:"personalization" koanf:"personalization"`

	// Composite blends relevance and personalization for personalized search.
	Composite CompositeWeights `json:"composite" koanf:"composite"`

	// MaxResults caps the returned result list; 0 means unbounded.
	MaxResults int `json:"max_results" koanf:"max_results"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Relevance:       DefaultRelevanceWeights(),
		Personalization: DefaultPersonalizationWeights(),
		Composite:       DefaultCompositeWeights(),
		MaxResults:      0,
	}
}

// Request is one search invocation: a free-text query, a filter set, a sort
// key, and an optional learner profile. A nil profile runs the search
// anonymously with zero personalization signal.
type Request struct {
	Query   string
	Filters models.SearchFilters
	SortKey models.SortKey
	Profile *models.LearnerProfile
}

// Result is the ordered outcome of a search.
type Result struct {
	// Items is the ranked result list with per-item score breakdown.
	Items []models.ScoredItem `json:"items"`

	// TotalMatched is the number of catalog items that passed the filters,
	// before any MaxResults truncation.
	TotalMatched int `json:"total_matched"`

	// Personalized reports whether a learner profile contributed to ranking.
	Personalized bool `json:"personalized"`
}

// Engine runs the search pipeline: filter, score, rank. It is stateless with
// respect to its inputs and safe for concurrent use.
type Engine struct {
	relevance       *RelevanceScorer
	personalization *PersonalizationScorer
	ranker          *Ranker
	maxResults      int
	logger          zerolog.Logger
}

// NewEngine creates a search engine from the given configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		relevance:       NewRelevanceScorer(cfg.Relevance),
		personalization: NewPersonalizationScorer(cfg.Personalization),
		ranker:          NewRanker(cfg.Composite),
		maxResults:      cfg.MaxResults,
		logger:          logger.With().Str("component", "discovery").Logger(),
	}
}

// Search filters the snapshot, scores the survivors against the query and
// profile, and returns them ranked by the requested sort key. Identical
// inputs always produce identical ordered output.
//
// An empty sort key defaults to relevance. An empty catalog yields an empty
// result, not an error. Malformed filter ranges and unknown sort keys are
// rejected at this boundary.
func (e *Engine) Search(ctx context.Context, snap *catalog.Snapshot, req Request) (*Result, error) {
	start := time.Now()

	if err := req.Filters.ValidateRanges(); err != nil {
		return nil, err
	}

	sortKey := req.SortKey
	if sortKey == "" {
		sortKey = models.SortByRelevance
	}

	filtered := ApplyFilters(snap.Items(), req.Filters)

	scored := make([]models.ScoredItem, 0, len(filtered))
	for i := range filtered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scored = append(scored, models.ScoredItem{
			Item:            filtered[i],
			Relevance:       e.relevance.Score(&filtered[i], req.Query),
			Personalization: e.personalization.Score(&filtered[i], req.Profile),
		})
	}

	personalized := req.Profile != nil
	ranked, err := e.ranker.Rank(scored, sortKey, personalized)
	if err != nil {
		return nil, err
	}

	total := len(ranked)
	if e.maxResults > 0 && len(ranked) > e.maxResults {
		ranked = ranked[:e.maxResults]
	}

	metrics.SearchDuration.WithLabelValues(string(sortKey)).Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(total))

	e.logger.Debug().
		Str("sort_key", string(sortKey)).
		Int("catalog_size", snap.Len()).
		Int("matched", total).
		Int("returned", len(ranked)).
		Bool("personalized", personalized).
		Msg("search complete")

	return &Result{
		Items:        ranked,
		TotalMatched: total,
		Personalized: personalized,
	}, nil
}
