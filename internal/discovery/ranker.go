// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"fmt"
	"sort"

	"github.com/lodestar-learning/lodestar/internal/models"
)

// CompositeWeights blends relevance and personalization when a search
// carries both a query and a learner profile. The default favors explicit
// query intent over inferred preference: a learner typing a specific query
// has stated intent that should dominate background personalization.
type CompositeWeights struct {
	Relevance       float64 `json:"relevance"`
	Personalization float64 `json:"personalization"`
}

// DefaultCompositeWeights returns the standard 0.6/0.4 blend.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{Relevance: 0.6, Personalization: 0.4}
}

// UnknownSortKeyError is returned when ranking is requested with a sort key
// outside the supported set. The offending key is carried for reporting.
type UnknownSortKeyError struct {
	Key models.SortKey
}

func (e *UnknownSortKeyError) Error() string {
	return fmt.Sprintf("unknown sort key %q", string(e.Key))
}

// Ranker orders scored items by a configured sort key.
type Ranker struct {
	composite CompositeWeights
}

// NewRanker creates a ranker with the given composite blend; zero weights
// fall back to the defaults.
func NewRanker(w CompositeWeights) *Ranker {
	def := DefaultCompositeWeights()
	if w.Relevance == 0 {
		w.Relevance = def.Relevance
	}
	if w.Personalization == 0 {
		w.Personalization = def.Personalization
	}
	return &Ranker{composite: w}
}

// Rank sorts items by the given key, descending, and returns the ordered
// slice. The sort is stable: items with equal key values keep their relative
// catalog order. When personalized is true and the key is relevance, the
// effective score is the composite blend of relevance and personalization.
//
// The input slice is not modified.
func (r *Ranker) Rank(items []models.ScoredItem, key models.SortKey, personalized bool) ([]models.ScoredItem, error) {
	less, err := r.lessFunc(key, personalized)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.ScoredItem, len(items))
	copy(ranked, items)

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(&ranked[i], &ranked[j])
	})

	return ranked, nil
}

// lessFunc returns the descending comparison for the given sort key.
func (r *Ranker) lessFunc(key models.SortKey, personalized bool) (func(a, b *models.ScoredItem) bool, error) {
	switch key {
	case models.SortByRelevance:
		if personalized {
			return func(a, b *models.ScoredItem) bool {
				return r.CompositeScore(a) > r.CompositeScore(b)
			}, nil
		}
		return func(a, b *models.ScoredItem) bool {
			return a.Relevance > b.Relevance
		}, nil
	case models.SortByDate:
		return func(a, b *models.ScoredItem) bool {
			return a.Item.UpdatedAt.After(b.Item.UpdatedAt)
		}, nil
	case models.SortByRating:
		return func(a, b *models.ScoredItem) bool {
			return clampRating(a.Item.Rating) > clampRating(b.Item.Rating)
		}, nil
	case models.SortByPopularity:
		return func(a, b *models.ScoredItem) bool {
			return a.Item.InteractionCount > b.Item.InteractionCount
		}, nil
	default:
		return nil, &UnknownSortKeyError{Key: key}
	}
}

// CompositeScore blends relevance and personalization for one item.
func (r *Ranker) CompositeScore(s *models.ScoredItem) float64 {
	return r.composite.Relevance*s.Relevance + r.composite.Personalization*s.Personalization
}

// clampRating clamps a rating to the valid [0, 5] range. Out-of-range
// catalog data is tolerated rather than rejected.
func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
