// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/lodestar-learning/lodestar/internal/models"
)

// snapshotKey is the BadgerDB key holding the cached catalog snapshot.
const snapshotKey = "catalog:snapshot"

// ErrNoCachedSnapshot indicates the cache holds no snapshot yet.
var ErrNoCachedSnapshot = errors.New("no cached catalog snapshot")

// cachedSnapshot is the persisted form of a catalog snapshot.
type cachedSnapshot struct {
	Items   []models.ContentItem `json:"items"`
	SavedAt time.Time            `json:"saved_at"`
}

// SnapshotCache persists the last good catalog snapshot in BadgerDB so a
// restarted server can serve searches before its first refresh completes.
type SnapshotCache struct {
	db *badger.DB
}

// NewSnapshotCache creates a cache backed by the given BadgerDB handle.
func NewSnapshotCache(db *badger.DB) *SnapshotCache {
	return &SnapshotCache{db: db}
}

// Save stores the snapshot items, replacing any previous snapshot.
func (c *SnapshotCache) Save(items []models.ContentItem, savedAt time.Time) error {
	data, err := json.Marshal(cachedSnapshot{Items: items, SavedAt: savedAt})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

// Load returns the cached snapshot items and the time they were saved.
// Returns ErrNoCachedSnapshot when the cache is empty.
func (c *SnapshotCache) Load() ([]models.ContentItem, time.Time, error) {
	var cached cachedSnapshot

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoCachedSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cached)
		})
	})
	if err != nil {
		return nil, time.Time{}, err
	}

	return cached.Items, cached.SavedAt, nil
}
