// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package api

import (
	"github.com/lodestar-learning/lodestar/internal/models"
)

// SearchRequest is the POST /api/v1/search body.
type SearchRequest struct {
	// Query is the free-text search query; empty means browse.
	Query string `json:"query" validate:"max=512"`

	// Filters narrows the result set; omitted fields fall back to the
	// learner-facing defaults.
	Filters *SearchFiltersRequest `json:"filters,omitempty"`

	// SortKey selects the ranking dimension; empty means relevance.
	SortKey string `json:"sort_key" validate:"omitempty,oneof=relevance date rating popularity"`

	// LearnerID personalizes the search when profiles are enabled.
	LearnerID string `json:"learner_id" validate:"omitempty,max=128"`
}

// SearchFiltersRequest mirrors models.SearchFilters with validation tags.
// Pointer fields distinguish "absent, use default" from explicit zeroes.
type SearchFiltersRequest struct {
	ContentTypes []string `json:"content_types" validate:"omitempty,dive,oneof=lesson activity assessment resource"`
	Difficulties []string `json:"difficulties" validate:"omitempty,dive,oneof=beginner intermediate advanced"`
	Subjects     []string `json:"subjects" validate:"omitempty,max=32,dive,max=128"`
	Formats      []string `json:"formats" validate:"omitempty,dive,oneof=text video audio interactive mixed"`
	Language     string   `json:"language" validate:"omitempty,max=32"`
	MinRating    float64  `json:"min_rating" validate:"omitempty,gte=0,lte=5"`
	DurationMin  *int     `json:"duration_min" validate:"omitempty,gte=0"`
	DurationMax  *int     `json:"duration_max" validate:"omitempty,gte=0"`
	Statuses     []string `json:"statuses" validate:"omitempty,dive,oneof=draft published archived"`
}

// toFilters converts the request filters into the domain filter set,
// starting from the defaults so omitted fields keep their documented
// behavior. Range validity is checked by the engine, not here, so inverted
// ranges surface as INVALID_FILTER_RANGE rather than a generic validation
// error.
func (f *SearchFiltersRequest) toFilters() models.SearchFilters {
	filters := models.DefaultFilters()
	if f == nil {
		return filters
	}

	for _, t := range f.ContentTypes {
		filters.ContentTypes = append(filters.ContentTypes, models.ContentType(t))
	}
	for _, d := range f.Difficulties {
		filters.Difficulties = append(filters.Difficulties, models.Difficulty(d))
	}
	filters.Subjects = f.Subjects
	for _, fm := range f.Formats {
		filters.Formats = append(filters.Formats, models.Format(fm))
	}
	if f.Language != "" {
		filters.Language = f.Language
	}
	filters.MinRating = f.MinRating
	if f.DurationMin != nil {
		filters.DurationMin = *f.DurationMin
	}
	if f.DurationMax != nil {
		filters.DurationMax = *f.DurationMax
	}
	if len(f.Statuses) > 0 {
		filters.Statuses = filters.Statuses[:0]
		for _, s := range f.Statuses {
			filters.Statuses = append(filters.Statuses, models.Status(s))
		}
	}

	return filters
}

// RecommendationsRequest is the POST /api/v1/recommendations body. The
// profile travels inline, for callers that manage profiles themselves
// instead of relying on the profile store.
type RecommendationsRequest struct {
	Profile *LearnerProfileRequest `json:"profile,omitempty"`
}

// LearnerProfileRequest mirrors models.LearnerProfile with validation tags.
type LearnerProfileRequest struct {
	LearnerID             string   `json:"learner_id" validate:"required,max=128"`
	PreferredSubjects     []string `json:"preferred_subjects" validate:"omitempty,max=32,dive,max=128"`
	PreferredDifficulties []string `json:"preferred_difficulties" validate:"omitempty,dive,oneof=beginner intermediate advanced"`
	PreferredFormats      []string `json:"preferred_formats" validate:"omitempty,dive,oneof=text video audio interactive mixed"`
	PreferredLanguages    []string `json:"preferred_languages" validate:"omitempty,max=16,dive,max=32"`
	ViewedItemIDs         []string `json:"viewed_item_ids" validate:"omitempty,max=1024,dive,max=128"`
	CompletedItemIDs      []string `json:"completed_item_ids" validate:"omitempty,max=1024,dive,max=128"`
}

// toProfile converts the request profile into the domain type.
func (p *LearnerProfileRequest) toProfile() *models.LearnerProfile {
	if p == nil {
		return nil
	}

	profile := &models.LearnerProfile{
		LearnerID:          p.LearnerID,
		PreferredSubjects:  p.PreferredSubjects,
		PreferredLanguages: p.PreferredLanguages,
		ViewedItemIDs:      p.ViewedItemIDs,
		CompletedItemIDs:   p.CompletedItemIDs,
	}
	for _, d := range p.PreferredDifficulties {
		profile.PreferredDifficulties = append(profile.PreferredDifficulties, models.Difficulty(d))
	}
	for _, f := range p.PreferredFormats {
		profile.PreferredFormats = append(profile.PreferredFormats, models.Format(f))
	}

	return profile
}

// AutoAssignRequest is the POST /api/v1/groups/auto-assign body.
type AutoAssignRequest struct {
	// MemberIDs are the unplaced members to distribute.
	MemberIDs []string `json:"member_ids" validate:"omitempty,max=10000,dive,required,max=128"`

	// Groups are the target groups with their current membership.
	Groups []GroupRequest `json:"groups" validate:"omitempty,max=1000,dive"`

	// Seed drives the placement shuffle. The same seed reproduces the same
	// plan; omitted or zero means derive from the current time.
	Seed int64 `json:"seed,omitempty"`
}

// GroupRequest mirrors models.Group with validation tags.
type GroupRequest struct {
	ID        string   `json:"id" validate:"required,max=128"`
	Capacity  int      `json:"capacity" validate:"omitempty,gte=0"`
	MemberIDs []string `json:"member_ids" validate:"omitempty,max=10000,dive,max=128"`
}

// toGroups converts request groups into the domain type.
func toGroups(reqs []GroupRequest) []models.Group {
	groups := make([]models.Group, len(reqs))
	for i, g := range reqs {
		groups[i] = models.Group{
			ID:        g.ID,
			Capacity:  g.Capacity,
			MemberIDs: g.MemberIDs,
		}
	}
	return groups
}
