// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/lodestar-learning/lodestar/internal/models"
)

func newTestCache(t *testing.T) *SnapshotCache {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close badger: %v", err)
		}
	})

	return NewSnapshotCache(db)
}

func TestSnapshotCacheRoundtrip(t *testing.T) {
	cache := newTestCache(t)

	items := []models.ContentItem{
		{ID: "c-1", Title: "Intro to Algebra", Subjects: []string{"math"}, Rating: 4.5},
		{ID: "c-2", Title: "Chemistry Lab", Subjects: []string{"science"}, Status: models.StatusPublished},
	}
	savedAt := time.Now().Truncate(time.Millisecond)

	if err := cache.Save(items, savedAt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, loadedAt, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(loaded) != len(items) {
		t.Fatalf("loaded %d items, want %d", len(loaded), len(items))
	}
	if loaded[0].ID != "c-1" || loaded[1].ID != "c-2" {
		t.Errorf("item order lost: %v, %v", loaded[0].ID, loaded[1].ID)
	}
	if loaded[0].Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", loaded[0].Rating)
	}
	if !loadedAt.Equal(savedAt) {
		t.Errorf("SavedAt = %v, want %v", loadedAt, savedAt)
	}
}

func TestSnapshotCacheEmpty(t *testing.T) {
	cache := newTestCache(t)

	_, _, err := cache.Load()
	if !errors.Is(err, ErrNoCachedSnapshot) {
		t.Fatalf("expected ErrNoCachedSnapshot, got %v", err)
	}
}

func TestSnapshotCacheOverwrite(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Save([]models.ContentItem{{ID: "old"}}, time.Now()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := cache.Save([]models.ContentItem{{ID: "new-1"}, {ID: "new-2"}}, time.Now()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := cache.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "new-1" {
		t.Errorf("expected the second snapshot, got %v", loaded)
	}
}
