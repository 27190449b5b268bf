// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package catalog provides the in-memory catalog snapshot the engine reads
// from, plus the plumbing that keeps it fresh: an atomically swappable store,
// a Badger-backed cache of the last good snapshot, and a loader that pulls
// from the external content store.
//
// A Snapshot is immutable after construction. Every engine call operates on
// the snapshot reference it was handed, so a concurrent refresh never
// disturbs an in-flight request.
package catalog

import (
	"sync/atomic"
	"time"

	"github.com/lodestar-learning/lodestar/internal/models"
)

// Snapshot is an immutable view of the content catalog at one point in time.
type Snapshot struct {
	items    []models.ContentItem
	byID     map[string]int
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from the given items, preserving their order.
// The input slice is copied; later mutation of the caller's slice does not
// affect the snapshot.
func NewSnapshot(items []models.ContentItem, loadedAt time.Time) *Snapshot {
	copied := make([]models.ContentItem, len(items))
	copy(copied, items)

	byID := make(map[string]int, len(copied))
	for i := range copied {
		byID[copied[i].ID] = i
	}

	return &Snapshot{
		items:    copied,
		byID:     byID,
		loadedAt: loadedAt,
	}
}

// Items returns the catalog items in catalog order. The returned slice is
// shared; callers must treat it as read-only.
func (s *Snapshot) Items() []models.ContentItem {
	return s.items
}

// Get returns the item with the given ID.
func (s *Snapshot) Get(id string) (models.ContentItem, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.ContentItem{}, false
	}
	return s.items[i], true
}

// Len returns the number of items in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.items)
}

// LoadedAt returns when the snapshot was loaded.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Store holds the current catalog snapshot behind an atomic pointer.
// Readers take a reference without locking; the loader swaps in a fresh
// snapshot atomically.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates an empty store. Current returns false until the first Swap.
func NewStore() *Store {
	return &Store{}
}

// Current returns the current snapshot. The second return value is false
// when no catalog has been loaded yet, which is distinct from an empty
// catalog having been loaded.
func (st *Store) Current() (*Snapshot, bool) {
	snap := st.current.Load()
	if snap == nil {
		return nil, false
	}
	return snap, true
}

// Swap atomically replaces the current snapshot.
func (st *Store) Swap(snap *Snapshot) {
	st.current.Store(snap)
}
