// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"errors"
	"testing"
	"time"

	"github.com/lodestar-learning/lodestar/internal/models"
)

func scoredFixture() []models.ScoredItem {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.ScoredItem{
		{
			Item: models.ContentItem{
				ID: "c-1", Rating: 3.0, InteractionCount: 500,
				UpdatedAt: base.AddDate(0, 0, 1),
			},
			Relevance: 0.2, Personalization: 0.9,
		},
		{
			Item: models.ContentItem{
				ID: "c-2", Rating: 4.5, InteractionCount: 100,
				UpdatedAt: base.AddDate(0, 0, 3),
			},
			Relevance: 0.8, Personalization: 0.1,
		},
		{
			Item: models.ContentItem{
				ID: "c-3", Rating: 4.0, InteractionCount: 300,
				UpdatedAt: base.AddDate(0, 0, 2),
			},
			Relevance: 0.5, Personalization: 0.5,
		},
	}
}

func rankedIDs(items []models.ScoredItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].Item.ID
	}
	return ids
}

func TestRankSortKeys(t *testing.T) {
	ranker := NewRanker(CompositeWeights{})

	tests := []struct {
		name         string
		key          models.SortKey
		personalized bool
		wantIDs      []string
	}{
		{"relevance descending", models.SortByRelevance, false, []string{"c-2", "c-3", "c-1"}},
		// Composite: c-1 = .6*.2+.4*.9 = .48, c-2 = .52, c-3 = .5
		{"personalized relevance blends composite", models.SortByRelevance, true, []string{"c-2", "c-3", "c-1"}},
		{"date by updated time", models.SortByDate, false, []string{"c-2", "c-3", "c-1"}},
		{"rating descending", models.SortByRating, false, []string{"c-2", "c-3", "c-1"}},
		{"popularity by interactions", models.SortByPopularity, false, []string{"c-1", "c-3", "c-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := scoredFixture()
			got, err := ranker.Rank(items, tt.key, tt.personalized)
			if err != nil {
				t.Fatalf("Rank: %v", err)
			}

			gotIDs := rankedIDs(got)
			for i := range tt.wantIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Fatalf("order = %v, want %v", gotIDs, tt.wantIDs)
				}
			}

			// Input order untouched.
			if items[0].Item.ID != "c-1" {
				t.Error("input slice was reordered")
			}
		})
	}
}

func TestRankUnknownSortKey(t *testing.T) {
	ranker := NewRanker(CompositeWeights{})

	_, err := ranker.Rank(scoredFixture(), models.SortKey("title"), false)

	var unknownKey *UnknownSortKeyError
	if !errors.As(err, &unknownKey) {
		t.Fatalf("expected UnknownSortKeyError, got %v", err)
	}
	if unknownKey.Key != "title" {
		t.Errorf("Key = %q, want %q", unknownKey.Key, "title")
	}
}

func TestRankStableOnTies(t *testing.T) {
	ranker := NewRanker(CompositeWeights{})

	items := []models.ScoredItem{
		{Item: models.ContentItem{ID: "a"}, Relevance: 0.5},
		{Item: models.ContentItem{ID: "b"}, Relevance: 0.5},
		{Item: models.ContentItem{ID: "c"}, Relevance: 0.5},
		{Item: models.ContentItem{ID: "d"}, Relevance: 0.7},
	}

	got, err := ranker.Rank(items, models.SortByRelevance, false)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	want := []string{"d", "a", "b", "c"}
	gotIDs := rankedIDs(got)
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("order = %v, want %v (ties keep catalog order)", gotIDs, want)
		}
	}
}

func TestRankClampsOutOfRangeRatings(t *testing.T) {
	ranker := NewRanker(CompositeWeights{})

	items := []models.ScoredItem{
		{Item: models.ContentItem{ID: "wild", Rating: 99}},
		{Item: models.ContentItem{ID: "top", Rating: 5}},
		{Item: models.ContentItem{ID: "neg", Rating: -3}},
		{Item: models.ContentItem{ID: "zero", Rating: 0}},
	}

	got, err := ranker.Rank(items, models.SortByRating, false)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	// 99 clamps to 5, tying with "top"; -3 clamps to 0, tying with "zero".
	want := []string{"wild", "top", "neg", "zero"}
	gotIDs := rankedIDs(got)
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("order = %v, want %v", gotIDs, want)
		}
	}
}

func TestCompositeScore(t *testing.T) {
	ranker := NewRanker(CompositeWeights{})

	s := models.ScoredItem{Relevance: 1.0, Personalization: 0.5}
	if got := ranker.CompositeScore(&s); !almostEqual(got, 0.8) {
		t.Errorf("CompositeScore = %v, want 0.8", got)
	}
}
