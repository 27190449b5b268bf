// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lodestar-learning/lodestar/internal/logging"
	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// Source supplies the full catalog. Implemented by ContentStoreClient for the
// upstream content store and by FileSource for a local JSON catalog.
type Source interface {
	Fetch(ctx context.Context) ([]models.ContentItem, error)
}

// ClientConfig configures the upstream content store client.
type ClientConfig struct {
	// BaseURL is the content store base URL, e.g. "http://content-store:9000".
	BaseURL string `json:"base_url" koanf:"base_url"`

	// APIKey is sent as a bearer token when non-empty.
	APIKey string `json:"api_key" koanf:"api_key"`

	// Timeout bounds each catalog fetch; 0 means 30s.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`
}

// ContentStoreClient fetches the catalog from the upstream content store over
// HTTP, protected by a circuit breaker so a slow or dead upstream cannot
// stall refresh cycles indefinitely.
//
// The breaker uses real time for its interval and timeout calculations. The
// timing governs recovery from failures, not data integrity; tests exercise
// the HTTP layer directly against httptest servers.
type ContentStoreClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[[]models.ContentItem]
	name    string
}

// catalogResponse is the content store's catalog payload.
type catalogResponse struct {
	Items []models.ContentItem `json:"items"`
}

// NewContentStoreClient creates a content store client.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 5 requests
func NewContentStoreClient(cfg ClientConfig) *ContentStoreClient {
	cbName := "content-store"

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]models.ContentItem](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		// Refresh traffic is low-volume, so the minimum request count for
		// statistical significance is lower than for request-path breakers.
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening content store circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &ContentStoreClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		cb:      cb,
		name:    cbName,
	}
}

// Fetch retrieves the full catalog with circuit breaker protection.
func (c *ContentStoreClient) Fetch(ctx context.Context) ([]models.ContentItem, error) {
	items, err := c.cb.Execute(func() ([]models.ContentItem, error) {
		return c.fetchOnce(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	return items, nil
}

// fetchOnce performs one catalog request without breaker involvement.
func (c *ContentStoreClient) fetchOnce(ctx context.Context) ([]models.ContentItem, error) {
	reqURL := c.baseURL + "/api/v1/catalog"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("content store returned %d: %s", resp.StatusCode, string(body))
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	return payload.Items, nil
}

// readBodyForError reads a bounded prefix of the response body for error
// reporting.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// stateToFloat converts circuit breaker state to the numeric metric value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a label string.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
