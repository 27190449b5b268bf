// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

/*
Package metrics provides Prometheus metrics collection and export.

Metrics are registered via promauto at package init and exposed at the
/metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Search Metrics:
  - search_duration_seconds: Search pipeline latency (histogram)
    Labels: sort_key
  - search_results_matched: Items matched per search before truncation (histogram)
  - search_errors_total: Rejected searches (counter)
    Labels: error_type (invalid_filter_range, unknown_sort_key)

Recommendation Metrics:
  - recommendation_requests_total: Generation runs (counter)
    Labels: personalized
  - recommendation_duration_seconds: Generation latency (histogram)
  - recommendation_group_size: Items per group (histogram)
    Labels: group_type

Group Assignment Metrics:
  - group_assignment_runs_total: Auto-assignment runs (counter)
  - group_assignment_members_placed_total: Members placed (counter)
  - group_assignment_members_unassigned_total: Members left over (counter)

API Metrics:
  - api_requests_total: Total requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Catalog Metrics:
  - catalog_snapshot_items: Items in the current snapshot (gauge)
  - catalog_snapshot_loaded_timestamp: Snapshot load time (gauge)
  - catalog_refresh_total: Refresh attempts (counter)
    Labels: result (success, failure, cache_fallback)
  - catalog_refresh_duration_seconds: Refresh latency (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge, 0=closed, 1=half-open, 2=open)
    Labels: name
  - circuit_breaker_requests_total: Requests through breakers (counter)
    Labels: name, result
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

# Thread Safety

All metric recording functions are safe for concurrent use; the Prometheus
client library handles synchronization internally.

# Cardinality Management

Endpoint labels use the chi route pattern, never the raw URL path, so
per-resource IDs do not explode the series count. Error types and breaker
names come from small fixed sets.
*/
package metrics
