// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package discovery

import (
	"github.com/lodestar-learning/lodestar/internal/models"
)

// PersonalizationWeights is the weight table for profile matching. Each
// criterion is independent and additive, with no diminishing returns; the
// defaults sum to exactly 1.0, so the clamp is a safety net rather than an
// active constraint.
type PersonalizationWeights struct {
	Subject    float64 `json:"subject"`
	Difficulty float64 `json:"difficulty"`
	Format     float64 `json:"format"`
	Language   float64 `json:"language"`
	Viewed     float64 `json:"viewed"`
	Completed  float64 `json:"completed"`
}

// DefaultPersonalizationWeights returns the standard weight table.
func DefaultPersonalizationWeights() PersonalizationWeights {
	return PersonalizationWeights{
		Subject:    0.3,
		Difficulty: 0.2,
		Format:     0.2,
		Language:   0.1,
		Viewed:     0.1,
		Completed:  0.1,
	}
}

// PersonalizationScorer scores a catalog item against a learner profile.
type PersonalizationScorer struct {
	weights PersonalizationWeights
}

// NewPersonalizationScorer creates a scorer with the given weights;
// zero-valued weights fall back to the defaults field by field.
func NewPersonalizationScorer(w PersonalizationWeights) *PersonalizationScorer {
	def := DefaultPersonalizationWeights()
	if w.Subject == 0 {
		w.Subject = def.Subject
	}
	if w.Difficulty == 0 {
		w.Difficulty = def.Difficulty
	}
	if w.Format == 0 {
		w.Format = def.Format
	}
	if w.Language == 0 {
		w.Language = def.Language
	}
	if w.Viewed == 0 {
		w.Viewed = def.Viewed
	}
	if w.Completed == 0 {
		w.Completed = def.Completed
	}
	return &PersonalizationScorer{weights: w}
}

// Score returns how well item matches the learner's preferences, in [0, 1].
//
// A nil profile (anonymous learner) scores 0.0, not a neutral constant: an
// anonymous learner has no preference signal to be neutral about. This is a
// deliberate asymmetry with the relevance scorer's neutral-on-empty-query
// behavior.
func (s *PersonalizationScorer) Score(item *models.ContentItem, profile *models.LearnerProfile) float64 {
	if profile == nil {
		return 0.0
	}

	var score float64

	if sharesSubject(item.Subjects, profile.PreferredSubjects) {
		score += s.weights.Subject
	}
	if containsDifficulty(profile.PreferredDifficulties, item.Difficulty) {
		score += s.weights.Difficulty
	}
	if containsFormat(profile.PreferredFormats, item.Format) {
		score += s.weights.Format
	}
	if containsString(profile.PreferredLanguages, item.Language) {
		score += s.weights.Language
	}
	if profile.HasViewed(item.ID) {
		score += s.weights.Viewed
	}
	if profile.HasCompleted(item.ID) {
		score += s.weights.Completed
	}

	return clamp01(score)
}

// sharesSubject reports whether the item and the profile share any subject.
func sharesSubject(itemSubjects, preferred []string) bool {
	for _, want := range preferred {
		for _, have := range itemSubjects {
			if have == want {
				return true
			}
		}
	}
	return false
}

func containsDifficulty(levels []models.Difficulty, d models.Difficulty) bool {
	for _, v := range levels {
		if v == d {
			return true
		}
	}
	return false
}

func containsFormat(formats []models.Format, f models.Format) bool {
	for _, v := range formats {
		if v == f {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
