// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

//go:build integration

package testinfra

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/newsdesk/internal/feed"
)

// FeedRequest is one captured top-headlines call.
type FeedRequest struct {
	Category string
	Query    url.Values
}

// MockFeedServer serves top headlines from an in-memory category map.
type MockFeedServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	items    map[string][]feed.Item
	failing  map[string]int
	requests []FeedRequest
}

// NewMockFeedServer starts the server and closes it with the test.
func NewMockFeedServer(t *testing.T) *MockFeedServer {
	t.Helper()

	m := &MockFeedServer{
		items:   map[string][]feed.Item{},
		failing: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/top-headlines", m.topHeadlines)
	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Server.Close)

	return m
}

// URL returns the base URL for config.FeedConfig.BaseURL.
func (m *MockFeedServer) URL() string {
	return m.Server.URL
}

// SetItems replaces the items served for category.
func (m *MockFeedServer) SetItems(category string, items ...feed.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[category] = items
}

// FailCategory answers category with the given HTTP status.
func (m *MockFeedServer) FailCategory(category string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[category] = status
}

// Requests returns a copy of the captured requests.
func (m *MockFeedServer) Requests() []FeedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]FeedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockFeedServer) topHeadlines(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")

	m.mu.Lock()
	m.requests = append(m.requests, FeedRequest{Category: category, Query: q})
	status, failing := m.failing[category]
	items := m.items[category]
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if failing {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(feed.Response{Status: "error", Code: "unexpectedError", Message: "mock failure"}) //nolint:errcheck
		return
	}
	if items == nil {
		items = []feed.Item{}
	}
	json.NewEncoder(w).Encode(feed.Response{Status: "ok", TotalResults: len(items), Articles: items}) //nolint:errcheck
}
