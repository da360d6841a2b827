// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package feed fetches top headlines from a NewsAPI compatible service.
//
// A Client performs one GET per category with no pagination and no retry.
// CircuitBreakerClient wraps it so a feed that keeps failing is
// short-circuited instead of being called for every category.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/models"
)

// ErrUpstreamFetch marks any failure to obtain headlines from the feed.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// maxErrorBodySize bounds how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// removedTitle is what NewsAPI puts in place of withdrawn articles.
const removedTitle = "[Removed]"

// Fetcher returns the current top headlines for a category.
type Fetcher interface {
	TopHeadlines(ctx context.Context, category string) ([]Item, error)
}

// ItemSource is the publisher block of a feed item. NewsAPI sends a null
// id for many sources.
type ItemSource struct {
	ID      *string `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
}

// Item is one article as the feed returns it.
type Item struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	URLToImage  string     `json:"urlToImage"`
	PublishedAt string     `json:"publishedAt"`
	Source      ItemSource `json:"source"`
}

// Response is the top-headlines envelope. Code and Message are only set
// when Status is "error".
type Response struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []Item `json:"articles"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Usable reports whether the item carries a real title.
func (it Item) Usable() bool {
	t := strings.TrimSpace(it.Title)
	return t != "" && t != removedTitle
}

// ToArticle maps the item to an unsaved article in category. The feed's
// own category, if any, is ignored. An unparseable publishedAt is dropped.
func (it Item) ToArticle(category string) *models.Article {
	a := &models.Article{
		Title:       it.Title,
		Description: it.Description,
		URL:         it.URL,
		URLToImage:  it.URLToImage,
		Category:    category,
		Source: models.Source{
			Name:    it.Source.Name,
			Country: it.Source.Country,
		},
	}
	if it.Source.ID != nil {
		a.Source.ID = *it.Source.ID
	}
	if t, ok := parsePublishedAt(it.PublishedAt); ok {
		a.PublishedAt = &t
	}
	return a
}

func parsePublishedAt(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Client calls {BaseURL}/v2/top-headlines.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	pageSize int
	client   *http.Client
}

// NewClient builds a client from cfg. The HTTP client timeout is
// cfg.Timeout.
func NewClient(cfg *config.FeedConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		pageSize: cfg.PageSize,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) buildURL(category string) string {
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	params.Set("category", category)
	params.Set("apiKey", c.apiKey)
	if c.pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(c.pageSize))
	}
	return fmt.Sprintf("%s/v2/top-headlines?%s", c.baseURL, params.Encode())
}

// TopHeadlines fetches one page of headlines for category. Every failure
// wraps ErrUpstreamFetch.
func (c *Client) TopHeadlines(ctx context.Context, category string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(category), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstreamFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamFetch, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamFetch, resp.StatusCode, string(body))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstreamFetch, err)
	}
	if out.Status != "ok" {
		msg := out.Message
		if msg == "" {
			msg = "status " + strconv.Quote(out.Status)
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstreamFetch, msg)
	}
	if out.Articles == nil {
		out.Articles = []Item{}
	}
	return out.Articles, nil
}

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// redact removes the API key from transport errors, which quote the URL.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "REDACTED")
}
