// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"strings"

	"github.com/lodestar-learning/lodestar/internal/models"
)

// NeutralRelevance is returned for an empty or whitespace-only query so that
// empty-query result sets keep a deterministic, meaningful sort instead of
// collapsing to all-zero scores.
const NeutralRelevance = 0.5

// RelevanceWeights is the per-field weight table for query matching.
// Weights apply per query token, without de-duplicating across tokens, and
// the accumulated score is capped at 1.0 rather than averaged: a query that
// matches many tokens in many fields saturates instead of being penalized
// for its length.
type RelevanceWeights struct {
	Title       float64 `json:"title"`
	Subject     float64 `json:"subject"`
	Tag         float64 `json:"tag"`
	Description float64 `json:"description"`
}

// DefaultRelevanceWeights returns the standard weight table.
func DefaultRelevanceWeights() RelevanceWeights {
	return RelevanceWeights{
		Title:       0.4,
		Subject:     0.3,
		Tag:         0.2,
		Description: 0.1,
	}
}

// RelevanceScorer scores a catalog item against a free-text query.
type RelevanceScorer struct {
	weights RelevanceWeights
}

// NewRelevanceScorer creates a scorer with the given weights; zero-valued
// weights fall back to the defaults field by field.
func NewRelevanceScorer(w RelevanceWeights) *RelevanceScorer {
	def := DefaultRelevanceWeights()
	if w.Title == 0 {
		w.Title = def.Title
	}
	if w.Subject == 0 {
		w.Subject = def.Subject
	}
	if w.Tag == 0 {
		w.Tag = def.Tag
	}
	if w.Description == 0 {
		w.Description = def.Description
	}
	return &RelevanceScorer{weights: w}
}

// Score returns the relevance of item to query, in [0, 1].
//
// The query is tokenized on whitespace and lowercased; no stemming. Matching
// is case-insensitive substring containment, not token-boundary matching, so
// short fragments can match inside longer words ("art" matches "chart").
func (s *RelevanceScorer) Score(item *models.ContentItem, query string) float64 {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return NeutralRelevance
	}

	title := strings.ToLower(item.Title)
	description := strings.ToLower(item.Description)

	var score float64
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += s.weights.Title
		}
		if containsToken(item.Subjects, token) {
			score += s.weights.Subject
		}
		if containsToken(item.Tags, token) {
			score += s.weights.Tag
		}
		if strings.Contains(description, token) {
			score += s.weights.Description
		}
	}

	return clamp01(score)
}

// containsToken reports whether any value contains token, case-insensitively.
func containsToken(values []string, token string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), token) {
			return true
		}
	}
	return false
}

// clamp01 clamps v to the [0, 1] interval.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
