// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package recommend

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/discovery"
	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
)

// Generator produces the recommendation groups for one learner: a
// personalized group from profile affinity, a trending group from
// population-level interaction counts, and a similar group anchored on the
// learner's most recently viewed item.
//
// Generation is a pure function of the snapshot, the profile, and the
// configuration. Identical inputs yield identical groups, item order
// included.
type Generator struct {
	scorer *discovery.PersonalizationScorer
	cfg    Config
	logger zerolog.Logger
}

// NewGenerator creates a recommendation generator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGenerator(cfg Config, weights discovery.PersonalizationWeights, logger zerolog.Logger) *Generator {
	return &Generator{
		scorer: discovery.NewPersonalizationScorer(weights),
		cfg:    cfg.normalized(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// Generate builds the recommendation groups for the given learner. A nil
// profile yields only the trending group; the personalized and similar
// groups need preference and history signal that an anonymous learner does
// not have.
//
// Completed items are excluded from every group, unless the exclusion would
// empty a group that had candidates, in which case the group falls back to
// including them. A learner who has completed the whole relevant catalog
// still gets recommendations.
func (g *Generator) Generate(ctx context.Context, snap *catalog.Snapshot, profile *models.LearnerProfile) ([]models.RecommendationGroup, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	personalized := profile != nil

	groups := make([]models.RecommendationGroup, 0, 3)
	if personalized {
		groups = append(groups, g.personalizedGroup(snap, profile))
	}
	groups = append(groups, g.trendingGroup(snap, profile))
	if personalized {
		groups = append(groups, g.similarGroup(snap, profile))
	}

	for i := range groups {
		metrics.RecommendationGroupSize.
			WithLabelValues(string(groups[i].Type)).
			Observe(float64(len(groups[i].Items)))
	}
	metrics.RecommendationRequests.WithLabelValues(strconv.FormatBool(personalized)).Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	g.logger.Debug().
		Bool("personalized", personalized).
		Int("groups", len(groups)).
		Int("catalog_size", snap.Len()).
		Msg("recommendations generated")

	return groups, nil
}

// personalizedGroup ranks published items by profile affinity.
func (g *Generator) personalizedGroup(snap *catalog.Snapshot, profile *models.LearnerProfile) models.RecommendationGroup {
	type candidate struct {
		item  models.ContentItem
		score float64
	}

	collect := func(includeCompleted bool) []candidate {
		var out []candidate
		for _, item := range snap.Items() {
			if item.Status != models.StatusPublished {
				continue
			}
			if !includeCompleted && profile.HasCompleted(item.ID) {
				continue
			}
			out = append(out, candidate{item: item, score: g.scorer.Score(&item, profile)})
		}
		return out
	}

	candidates := collect(false)
	if len(candidates) == 0 {
		candidates = collect(true)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > g.cfg.ItemsPerGroup {
		candidates = candidates[:g.cfg.ItemsPerGroup]
	}

	items := make([]models.ContentItem, len(candidates))
	var sum float64
	for i, c := range candidates {
		items[i] = c.item
		sum += c.score
	}

	var confidence float64
	if len(candidates) > 0 {
		confidence = round2(sum / float64(len(candidates)))
	}

	return models.RecommendationGroup{
		ID:          string(models.GroupPersonalized),
		Type:        models.GroupPersonalized,
		Title:       "Picked for you",
		Description: "Matched to your subjects, level, and learning style",
		Items:       items,
		Confidence:  confidence,
	}
}

// trendingGroup ranks published items by total interaction count. The signal
// is population-wide, so the group is available to anonymous learners too.
func (g *Generator) trendingGroup(snap *catalog.Snapshot, profile *models.LearnerProfile) models.RecommendationGroup {
	collect := func(includeCompleted bool) []models.ContentItem {
		var out []models.ContentItem
		for _, item := range snap.Items() {
			if item.Status != models.StatusPublished {
				continue
			}
			if !includeCompleted && profile != nil && profile.HasCompleted(item.ID) {
				continue
			}
			out = append(out, item)
		}
		return out
	}

	items := collect(false)
	if len(items) == 0 && profile != nil {
		items = collect(true)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].InteractionCount > items[j].InteractionCount
	})
	if len(items) > g.cfg.ItemsPerGroup {
		items = items[:g.cfg.ItemsPerGroup]
	}

	var confidence float64
	if len(items) > 0 {
		confidence = g.cfg.TrendingConfidence
	}

	return models.RecommendationGroup{
		ID:          string(models.GroupTrending),
		Type:        models.GroupTrending,
		Title:       "Trending now",
		Description: "Most active content across all learners",
		Items:       items,
		Confidence:  confidence,
	}
}

// similarGroup anchors on the learner's most recently viewed item still in
// the catalog and ranks other items by subject and tag overlap with it.
// Without a usable anchor the group degrades to profile affinity so the
// learner still sees three groups.
func (g *Generator) similarGroup(snap *catalog.Snapshot, profile *models.LearnerProfile) models.RecommendationGroup {
	anchor, ok := g.anchorItem(snap, profile)
	if !ok {
		fallback := g.personalizedGroup(snap, profile)
		fallback.ID = string(models.GroupSimilar)
		fallback.Type = models.GroupSimilar
		fallback.Title = "You might also like"
		fallback.Description = "Based on your preferences"
		return fallback
	}

	type candidate struct {
		item    models.ContentItem
		overlap float64
	}

	collect := func(includeCompleted bool) []candidate {
		var out []candidate
		for _, item := range snap.Items() {
			if item.Status != models.StatusPublished || item.ID == anchor.ID {
				continue
			}
			if !includeCompleted && profile.HasCompleted(item.ID) {
				continue
			}
			overlap := overlapFraction(&anchor, &item)
			if overlap == 0 {
				continue
			}
			out = append(out, candidate{item: item, overlap: overlap})
		}
		return out
	}

	candidates := collect(false)
	if len(candidates) == 0 {
		candidates = collect(true)
	}

	if len(candidates) == 0 {
		fallback := g.personalizedGroup(snap, profile)
		fallback.ID = string(models.GroupSimilar)
		fallback.Type = models.GroupSimilar
		fallback.Title = "You might also like"
		fallback.Description = "Based on your preferences"
		return fallback
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})
	if len(candidates) > g.cfg.ItemsPerGroup {
		candidates = candidates[:g.cfg.ItemsPerGroup]
	}

	items := make([]models.ContentItem, len(candidates))
	var sum float64
	for i, c := range candidates {
		items[i] = c.item
		sum += c.overlap
	}

	return models.RecommendationGroup{
		ID:          string(models.GroupSimilar),
		Type:        models.GroupSimilar,
		Title:       "Because you viewed " + anchor.Title,
		Description: "Content covering similar subjects and topics",
		Items:       items,
		Confidence:  round2(sum / float64(len(items))),
	}
}

// anchorItem returns the most recently viewed item that still exists in the
// snapshot.
func (g *Generator) anchorItem(snap *catalog.Snapshot, profile *models.LearnerProfile) (models.ContentItem, bool) {
	for _, id := range profile.ViewedItemIDs {
		if item, ok := snap.Get(id); ok {
			return item, true
		}
	}
	return models.ContentItem{}, false
}

// overlapFraction measures subject and tag overlap between the anchor and a
// candidate: shared distinct labels divided by the distinct labels of the
// pair. Subjects and tags are separate namespaces, so a subject never matches
// a tag of the same name.
func overlapFraction(anchor, item *models.ContentItem) float64 {
	anchorLabels := labelSet(anchor)
	itemLabels := labelSet(item)

	shared := 0
	union := len(itemLabels)
	for label := range anchorLabels {
		if _, ok := itemLabels[label]; ok {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}

	return float64(shared) / float64(union)
}

// labelSet collects an item's subjects and tags into one namespaced set.
func labelSet(item *models.ContentItem) map[string]struct{} {
	set := make(map[string]struct{}, len(item.Subjects)+len(item.Tags))
	for _, s := range item.Subjects {
		set["subject:"+s] = struct{}{}
	}
	for _, t := range item.Tags {
		set["tag:"+t] = struct{}{}
	}
	return set
}

// round2 rounds to two decimal places for stable, presentable confidences.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
