// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/lodestar-learning/lodestar/internal/catalog"
	"github.com/lodestar-learning/lodestar/internal/discovery"
	"github.com/lodestar-learning/lodestar/internal/logging"
	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
	"github.com/lodestar-learning/lodestar/internal/profiles"
	"github.com/lodestar-learning/lodestar/internal/recommend"
	"github.com/lodestar-learning/lodestar/internal/roster"
)

// maxRequestBodySize bounds request bodies to prevent unbounded allocation.
const maxRequestBodySize = 1 << 20 // 1MB

// ProfileFetcher retrieves learner profiles. Implemented by
// profiles.Client; nil when profile lookups are disabled.
type ProfileFetcher interface {
	Fetch(ctx context.Context, learnerID string) (*models.LearnerProfile, error)
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store     *catalog.Store
	engine    *discovery.Engine
	generator *recommend.Generator
	assigner  *roster.Assigner
	profiles  ProfileFetcher
	startTime time.Time
}

// NewHandler creates the API handler. profileFetcher may be nil, in which
// case every request runs anonymously.
func NewHandler(store *catalog.Store, engine *discovery.Engine, generator *recommend.Generator, assigner *roster.Assigner, profileFetcher ProfileFetcher) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		generator: generator,
		assigner:  assigner,
		profiles:  profileFetcher,
		startTime: time.Now(),
	}
}

// Search handles POST /api/v1/search: filter, score, and rank the catalog.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req SearchRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	snap, ok := h.store.Current()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded yet", nil)
		return
	}

	profile, degraded := h.resolveProfile(ctx, req.LearnerID)

	result, err := h.engine.Search(ctx, snap, discovery.Request{
		Query:   req.Query,
		Filters: req.Filters.toFilters(),
		SortKey: models.SortKey(req.SortKey),
		Profile: profile,
	})
	if err != nil {
		h.respondSearchError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, result, Metadata{
		QueryTimeMS:     time.Since(start).Milliseconds(),
		ProfileDegraded: degraded,
	})
}

// Recommendations handles POST /api/v1/recommendations with an inline
// profile.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req RecommendationsRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	snap, ok := h.store.Current()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded yet", nil)
		return
	}

	groups, err := h.generator.Generate(ctx, snap, req.Profile.toProfile())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate recommendations", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
	}, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// RecommendationsForLearner handles GET /api/v1/recommendations/learner/{learnerID},
// resolving the profile through the profile store.
func (h *Handler) RecommendationsForLearner(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	learnerID := chi.URLParam(r, "learnerID")
	if learnerID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "learnerID is required", nil)
		return
	}

	snap, ok := h.store.Current()
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded yet", nil)
		return
	}

	profile, degraded := h.resolveProfile(ctx, learnerID)

	groups, err := h.generator.Generate(ctx, snap, profile)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate recommendations", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"learner_id": learnerID,
		"groups":     groups,
	}, Metadata{
		QueryTimeMS:     time.Since(start).Milliseconds(),
		ProfileDegraded: degraded,
	})
}

// AutoAssignGroups handles POST /api/v1/groups/auto-assign.
func (h *Handler) AutoAssignGroups(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AutoAssignRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	plan, err := h.assigner.AutoAssign(req.MemberIDs, toGroups(req.Groups), seed)
	if err != nil {
		if errors.Is(err, roster.ErrNoGroupsAvailable) {
			respondError(w, http.StatusUnprocessableEntity, "NO_GROUPS_AVAILABLE", "No groups available for assignment", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to plan assignment", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"plan": plan,
		"seed": seed,
	}, Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap, loaded := h.store.Current()

	payload := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"catalog_loaded": loaded,
	}
	if loaded {
		payload["catalog_items"] = snap.Len()
		payload["catalog_loaded_at"] = snap.LoadedAt()
	}

	respondSuccess(w, http.StatusOK, payload, Metadata{})
}

// HealthLive handles GET /api/v1/health/live: process liveness only.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{"status": "ok"}, Metadata{})
}

// HealthReady handles GET /api/v1/health/ready: ready once a catalog
// snapshot is available.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	if _, ok := h.store.Current(); !ok {
		respondError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Catalog has not been loaded yet", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"status": "ready"}, Metadata{})
}

// decodeBody decodes a bounded JSON request body. Writes the error response
// and returns false on failure.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON request body", err)
		return false
	}
	return true
}

// resolveProfile fetches the learner's profile when an ID was supplied and
// profile lookups are enabled. A fetch failure degrades the request to
// anonymous rather than failing it; degraded reports that fallback.
func (h *Handler) resolveProfile(ctx context.Context, learnerID string) (profile *models.LearnerProfile, degraded bool) {
	if learnerID == "" || h.profiles == nil {
		return nil, false
	}

	profile, err := h.profiles.Fetch(ctx, learnerID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			return nil, false
		}
		logging.Ctx(ctx).Warn().Err(err).Str("learner_id", sanitizeLogValue(learnerID)).Msg("profile fetch failed, serving anonymous")
		return nil, true
	}

	return profile, false
}

// respondSearchError maps engine errors onto API error codes.
func (h *Handler) respondSearchError(w http.ResponseWriter, err error) {
	var unknownKey *discovery.UnknownSortKeyError

	switch {
	case errors.Is(err, models.ErrInvalidFilterRange):
		metrics.SearchErrors.WithLabelValues("invalid_filter_range").Inc()
		respondError(w, http.StatusBadRequest, "INVALID_FILTER_RANGE", err.Error(), nil)
	case errors.As(err, &unknownKey):
		metrics.SearchErrors.WithLabelValues("unknown_sort_key").Inc()
		respondError(w, http.StatusBadRequest, "UNKNOWN_SORT_KEY", err.Error(), nil)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "REQUEST_CANCELED", "Request canceled or timed out", nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Search failed", err)
	}
}
