// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

// Package profiles fetches learner profiles from the upstream profile store.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lodestar-learning/lodestar/internal/logging"
	"github.com/lodestar-learning/lodestar/internal/metrics"
	"github.com/lodestar-learning/lodestar/internal/models"
)

// ErrProfileNotFound indicates the profile store has no profile for the
// learner. Callers treat the learner as anonymous.
var ErrProfileNotFound = errors.New("learner profile not found")

// maxErrorBodySize limits error response body reads.
const maxErrorBodySize = 64 * 1024 // 64KB

// ClientConfig configures the profile store client.
type ClientConfig struct {
	// BaseURL is the profile store base URL, e.g. "http://profiles:9100".
	BaseURL string `json:"base_url" koanf:"base_url"`

	// APIKey is sent as a bearer token when non-empty.
	APIKey string `json:"api_key" koanf:"api_key"`

	// Timeout bounds each fetch; 0 means 5s. Profile lookups sit on the
	// request path, so the bound is much tighter than the catalog client's.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`
}

// Client fetches learner profiles over HTTP with circuit breaker
// protection. A not-found profile is a normal outcome, not a breaker
// failure; only transport and server errors count against the circuit.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*models.LearnerProfile]
	name    string
}

// NewClient creates a profile store client.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewClient(cfg ClientConfig) *Client {
	cbName := "profile-store"

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*models.LearnerProfile](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		// A missing profile is a fast, healthy response from the store, not
		// an upstream failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProfileNotFound)
		},

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening profile store circuit")
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

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		cb:      cb,
		name:    cbName,
	}
}

// Fetch retrieves the profile for learnerID. Returns ErrProfileNotFound when
// the store has no profile for the learner.
func (c *Client) Fetch(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	profile, err := c.cb.Execute(func() (*models.LearnerProfile, error) {
		return c.fetchOnce(ctx, learnerID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			metrics.ProfileFetchTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			metrics.ProfileFetchTotal.WithLabelValues("error").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
			metrics.ProfileFetchTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	metrics.ProfileFetchTotal.WithLabelValues("hit").Inc()
	return profile, nil
}

// fetchOnce performs one profile request without breaker involvement.
func (c *Client) fetchOnce(ctx context.Context, learnerID string) (*models.LearnerProfile, error) {
	reqURL := c.baseURL + "/api/v1/profiles/" + url.PathEscape(learnerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("profile store returned %d: %s", resp.StatusCode, string(body))
	}

	var profile models.LearnerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}

	return &profile, nil
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
