// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package models defines the shared data types of the discovery engine:
// catalog items, learner profiles, search filters, and the derived result
// and recommendation types. All types are plain immutable values; the engine
// never mutates an input it receives.
package models

import (
	"errors"
	"fmt"
	"time"
)

// ContentType classifies a catalog entry.
type ContentType string

const (
	ContentTypeLesson     ContentType = "lesson"
	ContentTypeActivity   ContentType = "activity"
	ContentTypeAssessment ContentType = "assessment"
	ContentTypeResource   ContentType = "resource"
)

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeLesson, ContentTypeActivity, ContentTypeAssessment, ContentTypeResource:
		return true
	default:
		return false
	}
}

// Difficulty is the declared difficulty level of a content item.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// Format is the delivery format of a content item.
type Format string

const (
	FormatText        Format = "text"
	FormatVideo       Format = "video"
	FormatAudio       Format = "audio"
	FormatInteractive Format = "interactive"
	FormatMixed       Format = "mixed"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatVideo, FormatAudio, FormatInteractive, FormatMixed:
		return true
	default:
		return false
	}
}

// Status is the publication status of a content item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// SortKey selects the ranking dimension for search results.
type SortKey string

const (
	SortByRelevance  SortKey = "relevance"
	SortByDate       SortKey = "date"
	SortByRating     SortKey = "rating"
	SortByPopularity SortKey = "popularity"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortByRelevance, SortByDate, SortByRating, SortByPopularity:
		return true
	default:
		return false
	}
}

// ContentItem is a single catalog entry with the metadata the engine scores on.
type ContentItem struct {
	// ID is the unique content identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Description is the free-text summary.
	Description string `json:"description,omitempty"`

	// ContentType classifies the item (lesson, activity, assessment, resource).
	ContentType ContentType `json:"content_type"`

	// Difficulty is the declared difficulty level.
	Difficulty Difficulty `json:"difficulty"`

	// Subjects is the non-empty set of subject areas the item covers.
	Subjects []string `json:"subjects"`

	// DurationMinutes is the estimated completion time in minutes.
	DurationMinutes int `json:"duration_minutes"`

	// Tags is an optional set of free-form labels.
	Tags []string `json:"tags,omitempty"`

	// Format is the delivery format.
	Format Format `json:"format"`

	// Language is an ISO-like language code (e.g. "en", "es").
	Language string `json:"language"`

	// AuthorID identifies the content author.
	AuthorID string `json:"author_id,omitempty"`

	// CreatedAt is when the item was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the last modification time (>= CreatedAt).
	UpdatedAt time.Time `json:"updated_at"`

	// Rating is the average review rating on a 0-5 scale.
	Rating float64 `json:"rating"`

	// ReviewCount is the number of reviews behind Rating.
	ReviewCount int `json:"review_count"`

	// Status is the publication status.
	Status Status `json:"status"`

	// InteractionCount is the total number of learner interactions.
	InteractionCount int `json:"interaction_count"`

	// CompletionRatePercent is the observed completion rate (0-100).
	CompletionRatePercent int `json:"completion_rate_percent"`
}

// LearnerProfile carries the personalization signal for one learner.
// A nil *LearnerProfile represents an anonymous learner: no preference
// signal, so personalization contributes nothing.
//
// The engine treats the profile as read-only; observed-interaction updates
// are the caller's responsibility.
type LearnerProfile struct {
	// LearnerID identifies the learner.
	LearnerID string `json:"learner_id"`

	// PreferredSubjects are subjects the learner has opted into.
	PreferredSubjects []string `json:"preferred_subjects,omitempty"`

	// PreferredDifficulties are difficulty levels the learner prefers.
	PreferredDifficulties []Difficulty `json:"preferred_difficulties,omitempty"`

	// PreferredFormats are delivery formats the learner prefers.
	PreferredFormats []Format `json:"preferred_formats,omitempty"`

	// PreferredLanguages are language codes the learner prefers.
	PreferredLanguages []string `json:"preferred_languages,omitempty"`

	// ViewedItemIDs lists viewed items, most recent first. The head of the
	// list is the "most recently viewed" item used for similar-content
	// recommendations; the whole list doubles as the viewed set.
	ViewedItemIDs []string `json:"viewed_item_ids,omitempty"`

	// CompletedItemIDs is the set of completed items.
	CompletedItemIDs []string `json:"completed_item_ids,omitempty"`

	// FavoriteCategories is a bounded list of categories, most recent first.
	FavoriteCategories []string `json:"favorite_categories,omitempty"`
}

// HasViewed reports whether the learner has viewed the given item.
func (p *LearnerProfile) HasViewed(itemID string) bool {
	if p == nil {
		return false
	}
	return contains(p.ViewedItemIDs, itemID)
}

// HasCompleted reports whether the learner has completed the given item.
func (p *LearnerProfile) HasCompleted(itemID string) bool {
	if p == nil {
		return false
	}
	return contains(p.CompletedItemIDs, itemID)
}

// LanguageAll is the wildcard language filter value meaning "no constraint".
const LanguageAll = "all"

// Default duration filter bounds, in minutes.
const (
	DefaultDurationMin = 0
	DefaultDurationMax = 180
)

// SearchFilters is the request-scoped, immutable filter set. Each dimension
// is conjunctive with the others; within one dimension an item matches if any
// of its values is in the requested set. An empty set on a dimension means
// "no constraint", not "exclude all".
type SearchFilters struct {
	// ContentTypes restricts results to the given content types.
	ContentTypes []ContentType `json:"content_types,omitempty"`

	// Difficulties restricts results to the given difficulty levels.
	Difficulties []Difficulty `json:"difficulties,omitempty"`

	// Subjects restricts results to items covering at least one listed subject.
	Subjects []string `json:"subjects,omitempty"`

	// Formats restricts results to the given formats.
	Formats []Format `json:"formats,omitempty"`

	// Language restricts results to one language; "all" (or empty) means any.
	Language string `json:"language,omitempty"`

	// MinRating is the inclusive rating floor.
	MinRating float64 `json:"min_rating,omitempty"`

	// DurationMin and DurationMax bound DurationMinutes, inclusive on both ends.
	DurationMin int `json:"duration_min"`
	DurationMax int `json:"duration_max"`

	// Statuses restricts results to the given publication statuses.
	Statuses []Status `json:"statuses,omitempty"`
}

// DefaultFilters returns the learner-facing defaults: published content only,
// duration between 0 and 180 minutes, any language.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		Language:    LanguageAll,
		DurationMin: DefaultDurationMin,
		DurationMax: DefaultDurationMax,
		Statuses:    []Status{StatusPublished},
	}
}

// ErrInvalidFilterRange indicates a bounded filter field with min > max.
// Ranges are validated at the request boundary; the filter pipeline itself
// treats malformed ranges literally.
var ErrInvalidFilterRange = errors.New("invalid filter range")

// ValidateRanges checks bounded filter fields. It returns an error wrapping
// ErrInvalidFilterRange when a range is inverted.
func (f SearchFilters) ValidateRanges() error {
	if f.DurationMin > f.DurationMax {
		return fmt.Errorf("%w: duration_min %d > duration_max %d",
			ErrInvalidFilterRange, f.DurationMin, f.DurationMax)
	}
	return nil
}

// ScoredItem pairs a catalog item with its per-request scores. It is derived
// and ephemeral: recomputed on every request, never persisted.
type ScoredItem struct {
	Item ContentItem `json:"item"`

	// Relevance is the query-match score in [0, 1].
	Relevance float64 `json:"relevance"`

	// Personalization is the profile-match score in [0, 1].
	Personalization float64 `json:"personalization"`
}

// GroupType classifies a recommendation group.
type GroupType string

const (
	GroupPersonalized  GroupType = "personalized"
	GroupTrending      GroupType = "trending"
	GroupSimilar       GroupType = "similar"
	GroupCollaborative GroupType = "collaborative"
)

// RecommendationGroup is a named, ordered set of recommended items.
type RecommendationGroup struct {
	// ID identifies the group. IDs are stable across calls for a given type
	// so repeated generation is byte-identical.
	ID string `json:"id"`

	// Type classifies the group.
	Type GroupType `json:"type"`

	// Title is the display heading.
	Title string `json:"title"`

	// Description explains why the group was generated.
	Description string `json:"description,omitempty"`

	// Items is the ordered recommendation list, at most the configured K.
	Items []ContentItem `json:"items"`

	// Confidence estimates how trustworthy the group is, in [0, 1].
	Confidence float64 `json:"confidence"`
}

// Group is a class group for roster assignment.
type Group struct {
	// ID identifies the group.
	ID string `json:"id"`

	// Capacity is the optional member limit; 0 means unbounded.
	Capacity int `json:"capacity,omitempty"`

	// MemberIDs are the current members. Member IDs are unique within a
	// group, and a member belongs to at most one group.
	MemberIDs []string `json:"member_ids"`
}

// AtCapacity reports whether the group cannot accept extra members beyond
// the given number of already-planned additions.
func (g Group) AtCapacity(planned int) bool {
	if g.Capacity <= 0 {
		return false
	}
	return len(g.MemberIDs)+planned >= g.Capacity
}

// AssignmentPlan is the result of an auto-assignment run: which members to
// add to which group, plus the members that could not be placed. Applying
// the plan is the caller's responsibility.
type AssignmentPlan struct {
	// Assignments maps group ID to the ordered list of members to add.
	Assignments map[string][]string `json:"assignments"`

	// Unassigned lists members that could not be placed because every group
	// was at capacity. Never silently dropped.
	Unassigned []string `json:"unassigned,omitempty"`

	// Placed is the total number of members placed.
	Placed int `json:"placed"`
}

// contains reports whether s is present in list.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
