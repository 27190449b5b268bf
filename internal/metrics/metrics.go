// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Search pipeline latency and result sizes
// - Recommendation generation
// - Group assignment outcomes
// - API endpoint latency and throughput
// - Catalog refresh and snapshot state
// - Circuit breakers on upstream clients

var (
	// Search Metrics
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Duration of search pipeline runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"sort_key"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_results_matched",
			Help:    "Number of catalog items matched per search, before truncation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	SearchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_errors_total",
			Help: "Total number of rejected search requests",
		},
		[]string{"error_type"}, // "invalid_filter_range", "unknown_sort_key"
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation generation runs",
		},
		[]string{"personalized"}, // "true", "false"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RecommendationGroupSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_group_size",
			Help:    "Number of items per recommendation group",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
		[]string{"group_type"}, // "personalized", "trending", "similar"
	)

	// Group Assignment Metrics
	AssignmentRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "group_assignment_runs_total",
			Help: "Total number of auto-assignment runs",
		},
	)

	AssignmentMembersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "group_assignment_members_placed_total",
			Help: "Total number of members placed into groups",
		},
	)

	AssignmentMembersUnassigned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "group_assignment_members_unassigned_total",
			Help: "Total number of members left unassigned because all groups were full",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Catalog Metrics
	CatalogSnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_items",
			Help: "Number of items in the current catalog snapshot",
		},
	)

	CatalogSnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_loaded_timestamp",
			Help: "Unix timestamp of the current catalog snapshot load",
		},
	)

	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Total number of catalog refresh attempts",
		},
		[]string{"result"}, // "success", "failure", "cache_fallback"
	)

	CatalogRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Duration of catalog refresh operations in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Profile Store Metrics
	ProfileFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_fetch_total",
			Help: "Total number of learner profile fetches",
		},
		[]string{"result"}, // "hit", "not_found", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogRefresh records a catalog refresh attempt and, on success,
// updates the snapshot gauges.
func RecordCatalogRefresh(result string, itemCount int, duration time.Duration) {
	CatalogRefreshTotal.WithLabelValues(result).Inc()
	CatalogRefreshDuration.Observe(duration.Seconds())
	if result != "failure" {
		CatalogSnapshotItems.Set(float64(itemCount))
		CatalogSnapshotAge.SetToCurrentTime()
	}
}

// RecordAssignment records the outcome of one auto-assignment run.
func RecordAssignment(placed, unassigned int) {
	AssignmentRuns.Inc()
	AssignmentMembersPlaced.Add(float64(placed))
	AssignmentMembersUnassigned.Add(float64(unassigned))
}
