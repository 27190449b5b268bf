// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/lodestar-learning/lodestar/internal/models"
)

// FileSource loads the catalog from a local JSON file. Used for development
// and for deployments that ship a static catalog instead of running a
// content store.
//
// The file holds either a bare array of items or an object with an "items"
// key, matching the content store's response shape.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed catalog source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and parses the catalog file.
func (f *FileSource) Fetch(_ context.Context) ([]models.ContentItem, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var items []models.ContentItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var payload catalogResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", f.path, err)
	}

	return payload.Items, nil
}
