// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/discovery"
	"github.com/lodestar-learning/lodestar/internal/models"
)

func newTestGenerator(cfg Config) *Generator {
	return NewGenerator(cfg, discovery.PersonalizationWeights{}, zerolog.Nop())
}

func recommendSnapshot() *catalog.Snapshot {
	items := []models.ContentItem{
		{
			ID: "c-1", Title: "Intro to Algebra",
			Subjects: []string{"math"}, Tags: []string{"algebra"},
			Format: models.FormatVideo, Language: "en",
			InteractionCount: 500, Status: models.StatusPublished,
		},
		{
			ID: "c-2", Title: "Algebra Word Problems",
			Subjects: []string{"math"}, Tags: []string{"algebra", "word-problems"},
			Format: models.FormatText, Language: "en",
			InteractionCount: 200, Status: models.StatusPublished,
		},
		{
			ID: "c-3", Title: "Geometry Basics",
			Subjects: []string{"math"}, Tags: []string{"geometry"},
			Format: models.FormatVideo, Language: "en",
			InteractionCount: 800, Status: models.StatusPublished,
		},
		{
			ID: "c-4", Title: "World History",
			Subjects: []string{"history"},
			Format:   models.FormatVideo, Language: "en",
			InteractionCount: 900, Status: models.StatusPublished,
		},
		{
			ID: "c-5", Title: "Unreleased Chemistry",
			Subjects: []string{"science"},
			Format:   models.FormatText, Language: "en",
			InteractionCount: 9999, Status: models.StatusDraft,
		},
	}
	return catalog.NewSnapshot(items, time.Now())
}

func groupByType(t *testing.T, groups []models.RecommendationGroup, gt models.GroupType) models.RecommendationGroup {
	t.Helper()
	for _, g := range groups {
		if g.Type == gt {
			return g
		}
	}
	t.Fatalf("no group of type %q in %v", gt, groups)
	return models.RecommendationGroup{}
}

func TestGenerateAnonymous(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	groups, err := gen.Generate(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("anonymous learner got %d groups, want 1", len(groups))
	}
	trending := groups[0]
	if trending.Type != models.GroupTrending {
		t.Fatalf("group type = %q, want trending", trending.Type)
	}

	// Ordered by interaction count, drafts excluded, capped at K=3.
	want := []string{"c-4", "c-3", "c-1"}
	if len(trending.Items) != len(want) {
		t.Fatalf("trending has %d items, want %d", len(trending.Items), len(want))
	}
	for i, id := range want {
		if trending.Items[i].ID != id {
			t.Errorf("trending[%d] = %s, want %s", i, trending.Items[i].ID, id)
		}
	}
	if trending.Confidence != 0.75 {
		t.Errorf("trending confidence = %v, want 0.75", trending.Confidence)
	}
}

func TestGeneratePersonalized(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	profile := &models.LearnerProfile{
		LearnerID:         "l-1",
		PreferredSubjects: []string{"math"},
		PreferredFormats:  []models.Format{models.FormatVideo},
		ViewedItemIDs:     []string{"c-1"},
	}

	groups, err := gen.Generate(context.Background(), snap, profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	personalized := groupByType(t, groups, models.GroupPersonalized)
	if personalized.ID != string(models.GroupPersonalized) {
		t.Errorf("group ID = %q, want stable type-derived ID", personalized.ID)
	}
	// Math videos outrank math texts, which outrank the history video.
	if got := personalized.Items[0].ID; got != "c-1" && got != "c-3" {
		t.Errorf("top personalized = %s, want a math video", got)
	}
	if personalized.Confidence <= 0 || personalized.Confidence > 1 {
		t.Errorf("confidence = %v, want (0, 1]", personalized.Confidence)
	}

	similar := groupByType(t, groups, models.GroupSimilar)
	if similar.Title != "Because you viewed Intro to Algebra" {
		t.Errorf("similar title = %q", similar.Title)
	}
	// c-2 shares subject math + tag algebra with the anchor, 2 of 3 distinct
	// pair labels; c-3 shares only the subject, 1 of 3.
	want := []string{"c-2", "c-3"}
	if len(similar.Items) != len(want) {
		t.Fatalf("similar has %d items, want %d", len(similar.Items), len(want))
	}
	for i, id := range want {
		if similar.Items[i].ID != id {
			t.Errorf("similar[%d] = %s, want %s", i, similar.Items[i].ID, id)
		}
	}
	if similar.Confidence != 0.5 { // mean of 2/3 and 1/3
		t.Errorf("similar confidence = %v, want 0.5", similar.Confidence)
	}
}

func TestGenerateExcludesCompleted(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	profile := &models.LearnerProfile{
		LearnerID:         "l-1",
		PreferredSubjects: []string{"math"},
		CompletedItemIDs:  []string{"c-3", "c-4"},
	}

	groups, err := gen.Generate(context.Background(), snap, profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, g := range groups {
		for _, item := range g.Items {
			if item.ID == "c-3" || item.ID == "c-4" {
				t.Errorf("group %q contains completed item %s", g.Type, item.ID)
			}
		}
	}
}

func TestGenerateCompletedFallback(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	// Everything published is completed; exclusion would empty every group.
	profile := &models.LearnerProfile{
		LearnerID:        "l-1",
		CompletedItemIDs: []string{"c-1", "c-2", "c-3", "c-4"},
	}

	groups, err := gen.Generate(context.Background(), snap, profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	trending := groupByType(t, groups, models.GroupTrending)
	if len(trending.Items) == 0 {
		t.Error("trending fell empty instead of re-including completed items")
	}
	personalized := groupByType(t, groups, models.GroupPersonalized)
	if len(personalized.Items) == 0 {
		t.Error("personalized fell empty instead of re-including completed items")
	}
}

func TestGenerateSimilarFallsBackWithoutAnchor(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	// Viewed item no longer exists in the catalog.
	profile := &models.LearnerProfile{
		LearnerID:         "l-1",
		PreferredSubjects: []string{"math"},
		ViewedItemIDs:     []string{"deleted-item"},
	}

	groups, err := gen.Generate(context.Background(), snap, profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	similar := groupByType(t, groups, models.GroupSimilar)
	if similar.Title != "You might also like" {
		t.Errorf("fallback title = %q", similar.Title)
	}
	if len(similar.Items) == 0 {
		t.Error("fallback similar group is empty")
	}
}

func TestGenerateItemsPerGroupCap(t *testing.T) {
	gen := newTestGenerator(Config{ItemsPerGroup: 2})
	snap := recommendSnapshot()

	groups, err := gen.Generate(context.Background(), snap, &models.LearnerProfile{LearnerID: "l-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, g := range groups {
		if len(g.Items) > 2 {
			t.Errorf("group %q has %d items, want <= 2", g.Type, len(g.Items))
		}
	}
}

func TestGenerateEmptyCatalog(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := catalog.NewSnapshot(nil, time.Now())

	groups, err := gen.Generate(context.Background(), snap, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	trending := groupByType(t, groups, models.GroupTrending)
	if len(trending.Items) != 0 {
		t.Error("expected empty trending group")
	}
	if trending.Confidence != 0 {
		t.Errorf("empty group confidence = %v, want 0", trending.Confidence)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	profile := &models.LearnerProfile{
		LearnerID:         "l-1",
		PreferredSubjects: []string{"math"},
		ViewedItemIDs:     []string{"c-1"},
	}

	first, err := gen.Generate(context.Background(), snap, profile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := gen.Generate(context.Background(), snap, profile)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different groups", i)
		}
	}
}

func TestOverlapFraction(t *testing.T) {
	tests := []struct {
		name   string
		anchor models.ContentItem
		item   models.ContentItem
		want   float64
	}{
		{
			"identical labels",
			models.ContentItem{Subjects: []string{"math"}, Tags: []string{"algebra"}},
			models.ContentItem{Subjects: []string{"math"}, Tags: []string{"algebra"}},
			1.0,
		},
		{
			// The extra candidate label widens the denominator: 2 shared
			// labels out of 3 distinct across the pair, not 2 out of 2.
			"candidate superset",
			models.ContentItem{Subjects: []string{"math"}, Tags: []string{"algebra"}},
			models.ContentItem{Subjects: []string{"math"}, Tags: []string{"algebra", "word-problems"}},
			2.0 / 3.0,
		},
		{
			"anchor superset",
			models.ContentItem{Subjects: []string{"math"}, Tags: []string{"algebra", "geometry"}},
			models.ContentItem{Subjects: []string{"math"}},
			1.0 / 3.0,
		},
		{
			"disjoint labels",
			models.ContentItem{Subjects: []string{"math"}},
			models.ContentItem{Subjects: []string{"history"}},
			0,
		},
		{
			"subject does not match tag of same name",
			models.ContentItem{Subjects: []string{"math"}},
			models.ContentItem{Tags: []string{"math"}},
			0,
		},
		{
			"both unlabeled",
			models.ContentItem{},
			models.ContentItem{},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlapFraction(&tt.anchor, &tt.item)
			if got != tt.want {
				t.Errorf("overlapFraction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateCanceledContext(t *testing.T) {
	gen := newTestGenerator(Config{})
	snap := recommendSnapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, snap, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
