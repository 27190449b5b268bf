// Lodestar - Content Discovery & Recommendation Engine for Learning Platforms
// Copyright 2026 Lodestar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodestar-learning/lodestar

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestContentStoreClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/catalog" {
			t.Errorf("path = %q, want /api/v1/catalog", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"items": [{"id": "c-1", "title": "Intro to Algebra"}]}`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewContentStoreClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "secret",
		Timeout: 2 * time.Second,
	})

	items, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].ID != "c-1" {
		t.Errorf("items = %v, want [c-1]", items)
	}
}

func TestContentStoreClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "catalog exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewContentStoreClient(ClientConfig{BaseURL: server.URL})

	_, err := client.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should carry the status code", err)
	}
	if !strings.Contains(err.Error(), "catalog exploded") {
		t.Errorf("error %q should carry the body excerpt", err)
	}
}

func TestContentStoreClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte(`{not json`)); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewContentStoreClient(ClientConfig{BaseURL: server.URL})

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestContentStoreClientUnreachable(t *testing.T) {
	client := NewContentStoreClient(ClientConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	})

	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("expected connection error")
	}
}
