// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"github.com/lodestar-learning/lodestar/internal/models"
)

// ApplyFilters returns the catalog items that satisfy every dimension of the
// filter set, preserving catalog order. Dimensions combine with AND semantics;
// within a single dimension an item matches if any of its values is in the
// requested set ("contains at least one of"). An empty set on a dimension
// means no constraint for that dimension.
//
// Malformed ranges (min > max) are applied literally and yield an empty
// result; callers validate ranges upstream via SearchFilters.ValidateRanges.
func ApplyFilters(items []models.ContentItem, f models.SearchFilters) []models.ContentItem {
	result := make([]models.ContentItem, 0, len(items))
	for i := range items {
		if matchesFilters(&items[i], &f) {
			result = append(result, items[i])
		}
	}
	return result
}

// matchesFilters checks all filter dimensions conjunctively.
func matchesFilters(item *models.ContentItem, f *models.SearchFilters) bool {
	if !matchesContentType(item, f.ContentTypes) {
		return false
	}
	if !matchesDifficulty(item, f.Difficulties) {
		return false
	}
	if !matchesSubjects(item, f.Subjects) {
		return false
	}
	if !matchesFormat(item, f.Formats) {
		return false
	}
	if !matchesLanguage(item, f.Language) {
		return false
	}
	if item.Rating < f.MinRating {
		return false
	}
	if item.DurationMinutes < f.DurationMin || item.DurationMinutes > f.DurationMax {
		return false
	}
	if !matchesStatus(item, f.Statuses) {
		return false
	}
	return true
}

func matchesContentType(item *models.ContentItem, types []models.ContentType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if item.ContentType == t {
			return true
		}
	}
	return false
}

func matchesDifficulty(item *models.ContentItem, levels []models.Difficulty) bool {
	if len(levels) == 0 {
		return true
	}
	for _, d := range levels {
		if item.Difficulty == d {
			return true
		}
	}
	return false
}

// matchesSubjects applies any-of semantics: the item passes when at least one
// of its subjects appears in the requested subject set.
func matchesSubjects(item *models.ContentItem, subjects []string) bool {
	if len(subjects) == 0 {
		return true
	}
	for _, want := range subjects {
		for _, have := range item.Subjects {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesFormat(item *models.ContentItem, formats []models.Format) bool {
	if len(formats) == 0 {
		return true
	}
	for _, f := range formats {
		if item.Format == f {
			return true
		}
	}
	return false
}

func matchesLanguage(item *models.ContentItem, language string) bool {
	if language == "" || language == models.LanguageAll {
		return true
	}
	return item.Language == language
}

func matchesStatus(item *models.ContentItem, statuses []models.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if item.Status == s {
			return true
		}
	}
	return false
}
