// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/newsdesk/internal/config"
)

const sampleResponse = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {"source": {"id": "bbc-news", "name": "BBC News"}, "title": "First", "description": "d1",
     "url": "https://example.com/1", "urlToImage": "https://example.com/1.jpg", "publishedAt": "2024-01-15T10:00:00Z"},
    {"source": {"id": null, "name": "Wire"}, "title": "[Removed]", "publishedAt": "not a date"},
    {"source": {"id": null, "name": "Wire", "country": "us"}, "title": "Second", "publishedAt": "2024-01-15T11:30:00.123Z"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.FeedConfig{
		BaseURL:  srv.URL + "/",
		APIKey:   "secret-key",
		Language: "en",
		Timeout:  5 * time.Second,
	})
}

func TestTopHeadlines_Success(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			t.Errorf("path = %s, want /v2/top-headlines", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"language": q.Get("language"),
			"category": q.Get("category"),
			"apiKey":   q.Get("apiKey"),
			"pageSize": q.Get("pageSize"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	items, err := c.TopHeadlines(context.Background(), "sports")
	if err != nil {
		t.Fatalf("TopHeadlines() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	want := map[string]string{"language": "en", "category": "sports", "apiKey": "secret-key", "pageSize": ""}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if items[0].Source.ID == nil || *items[0].Source.ID != "bbc-news" {
		t.Errorf("source id = %v, want bbc-news", items[0].Source.ID)
	}
	if items[1].Source.ID != nil {
		t.Errorf("null source id decoded as %v", *items[1].Source.ID)
	}
}

func TestTopHeadlines_PageSize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pageSize"); got != "50" {
			t.Errorf("pageSize = %q, want 50", got)
		}
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	})
	c.pageSize = 50

	items, err := c.TopHeadlines(context.Background(), "general")
	if err != nil {
		t.Fatalf("TopHeadlines() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %#v, want empty slice", items)
	}
}

func TestTopHeadlines_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream broke", http.StatusBadGateway)
			},
			wantMsg: "status 502",
		},
		{
			name: "error status in body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
			},
			wantMsg: "Your API key is invalid.",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":`))
			},
			wantMsg: "decode response",
		},
		{
			name: "unknown status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"maintenance"}`))
			},
			wantMsg: `"maintenance"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.TopHeadlines(context.Background(), "business")
			if !errors.Is(err, ErrUpstreamFetch) {
				t.Fatalf("error = %v, want ErrUpstreamFetch", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestTopHeadlines_TransportErrorRedactsKey(t *testing.T) {
	c := NewClient(&config.FeedConfig{
		BaseURL: "http://127.0.0.1:1",
		APIKey:  "secret-key",
		Timeout: time.Second,
	})
	_, err := c.TopHeadlines(context.Background(), "health")
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("error = %v, want ErrUpstreamFetch", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("error leaks api key: %v", err)
	}
}

func TestItemToArticle(t *testing.T) {
	id := "src"
	it := Item{
		Title:       "Headline",
		Description: "desc",
		URL:         "https://example.com",
		URLToImage:  "https://example.com/i.png",
		PublishedAt: "2024-01-15T10:00:00+02:00",
		Source:      ItemSource{ID: &id, Name: "Source", Country: "de"},
	}

	a := it.ToArticle("technology")
	if a.Category != "technology" {
		t.Errorf("Category = %q, want technology", a.Category)
	}
	if a.Source.ID != "src" || a.Source.Name != "Source" || a.Source.Country != "de" {
		t.Errorf("Source = %+v", a.Source)
	}
	want := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	if a.PublishedAt == nil || !a.PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", a.PublishedAt, want)
	}
	if a.ID != "" || a.Likes != nil {
		t.Errorf("unsaved article should have no id or likes: %+v", a)
	}

	it.PublishedAt = "yesterday"
	if a := it.ToArticle("general"); a.PublishedAt != nil {
		t.Errorf("unparseable publishedAt should be nil, got %v", a.PublishedAt)
	}
}

func TestItemUsable(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Real headline", true},
		{"", false},
		{"   ", false},
		{"[Removed]", false},
	}
	for _, tt := range tests {
		if got := (Item{Title: tt.title}).Usable(); got != tt.want {
			t.Errorf("Usable(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}
