// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/models"
)

func engineSnapshot() *catalog.Snapshot {
	items := []models.ContentItem{
		{
			ID: "c-1", Title: "Intro to Algebra",
			Subjects: []string{"math"}, Language: "en",
			Format: models.FormatVideo, Difficulty: models.DifficultyBeginner,
			DurationMinutes: 30, Rating: 4.5, InteractionCount: 100,
			Status: models.StatusPublished,
		},
		{
			ID: "c-2", Title: "Algebra Practice Problems",
			Subjects: []string{"math"}, Language: "en",
			Format: models.FormatText, Difficulty: models.DifficultyIntermediate,
			DurationMinutes: 60, Rating: 4.0, InteractionCount: 300,
			Status: models.StatusPublished,
		},
		{
			ID: "c-3", Title: "World History Overview",
			Subjects: []string{"history"}, Language: "en",
			Format: models.FormatVideo, Difficulty: models.DifficultyBeginner,
			DurationMinutes: 45, Rating: 3.5, InteractionCount: 50,
			Status: models.StatusPublished,
		},
		{
			ID: "c-4", Title: "Draft Algebra Notes",
			Subjects: []string{"math"}, Language: "en",
			Format: models.FormatText, Difficulty: models.DifficultyBeginner,
			DurationMinutes: 20, Rating: 0, InteractionCount: 0,
			Status: models.StatusDraft,
		},
	}
	return catalog.NewSnapshot(items, time.Now())
}

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, zerolog.Nop())
}

func TestSearchFiltersThenRanks(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := engineSnapshot()

	result, err := engine.Search(context.Background(), snap, Request{
		Query:   "algebra",
		Filters: models.DefaultFilters(),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Draft item is filtered out before scoring.
	if result.TotalMatched != 3 {
		t.Errorf("TotalMatched = %d, want 3", result.TotalMatched)
	}
	if result.Personalized {
		t.Error("anonymous search must not report personalized")
	}

	// Title matches rank above the non-matching history item.
	if result.Items[0].Item.ID != "c-1" && result.Items[0].Item.ID != "c-2" {
		t.Errorf("top item = %s, want an algebra title match", result.Items[0].Item.ID)
	}
	last := result.Items[len(result.Items)-1]
	if last.Item.ID != "c-3" {
		t.Errorf("last item = %s, want c-3", last.Item.ID)
	}
	if last.Relevance != 0.0 {
		t.Errorf("non-matching relevance = %v, want 0", last.Relevance)
	}
}

func TestSearchEmptyQueryIsNeutral(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := engineSnapshot()

	result, err := engine.Search(context.Background(), snap, Request{
		Filters: models.DefaultFilters(),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	for _, s := range result.Items {
		if s.Relevance != NeutralRelevance {
			t.Errorf("item %s relevance = %v, want neutral %v", s.Item.ID, s.Relevance, NeutralRelevance)
		}
	}
	// Neutral scores tie, so catalog order survives the stable sort.
	if got := result.Items[0].Item.ID; got != "c-1" {
		t.Errorf("first item = %s, want c-1", got)
	}
}

func TestSearchPersonalized(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := engineSnapshot()

	profile := &models.LearnerProfile{
		LearnerID:         "l-1",
		PreferredSubjects: []string{"history"},
		PreferredFormats:  []models.Format{models.FormatVideo},
	}

	result, err := engine.Search(context.Background(), snap, Request{
		Filters: models.DefaultFilters(),
		Profile: profile,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !result.Personalized {
		t.Error("expected personalized result")
	}
	// Equal neutral relevance everywhere, so the composite blend promotes
	// the history video.
	if got := result.Items[0].Item.ID; got != "c-3" {
		t.Errorf("top item = %s, want c-3", got)
	}
}

func TestSearchSortKeys(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := engineSnapshot()

	tests := []struct {
		key     models.SortKey
		wantTop string
	}{
		{models.SortByRating, "c-1"},
		{models.SortByPopularity, "c-2"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			result, err := engine.Search(context.Background(), snap, Request{
				Filters: models.DefaultFilters(),
				SortKey: tt.key,
			})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := result.Items[0].Item.ID; got != tt.wantTop {
				t.Errorf("top item = %s, want %s", got, tt.wantTop)
			}
		})
	}
}

func TestSearchErrors(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := engineSnapshot()

	t.Run("inverted filter range", func(t *testing.T) {
		filters := models.DefaultFilters()
		filters.DurationMin = 90
		filters.DurationMax = 30

		_, err := engine.Search(context.Background(), snap, Request{Filters: filters})
		if !errors.Is(err, models.ErrInvalidFilterRange) {
			t.Fatalf("expected ErrInvalidFilterRange, got %v", err)
		}
	})

	t.Run("unknown sort key", func(t *testing.T) {
		_, err := engine.Search(context.Background(), snap, Request{
			Filters: models.DefaultFilters(),
			SortKey: models.SortKey("title"),
		})

		var unknownKey *UnknownSortKeyError
		if !errors.As(err, &unknownKey) {
			t.Fatalf("expected UnknownSortKeyError, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := engine.Search(ctx, snap, Request{Filters: models.DefaultFilters()})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSearchEmptyCatalog(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := catalog.NewSnapshot(nil, time.Now())

	result, err := engine.Search(context.Background(), snap, Request{
		Query:   "anything",
		Filters: models.DefaultFilters(),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Items) != 0 || result.TotalMatched != 0 {
		t.Errorf("expected empty result, got %d items", len(result.Items))
	}
}

func TestSearchMaxResultsTruncation(t *testing.T) {
	engine := newTestEngine(Config{MaxResults: 2})
	snap := engineSnapshot()

	result, err := engine.Search(context.Background(), snap, Request{
		Filters: models.DefaultFilters(),
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(result.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(result.Items))
	}
	// TotalMatched counts before truncation.
	if result.TotalMatched != 3 {
		t.Errorf("TotalMatched = %d, want 3", result.TotalMatched)
	}
}

func TestSearchDeterministic(t *testing.T) {
	engine := newTestEngine(Config{})
	snap := engineSnapshot()

	req := Request{
		Query:   "algebra history",
		Filters: models.DefaultFilters(),
		Profile: &models.LearnerProfile{PreferredSubjects: []string{"math"}},
	}

	first, err := engine.Search(context.Background(), snap, req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := engine.Search(context.Background(), snap, req)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different result", i)
		}
	}
}
