// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package ingest pulls top headlines for each category and stores the
// ones whose title has not been seen before.
//
// Categories are processed one at a time and items one at a time in feed
// order. A failing category is logged and does not stop the next one.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/newsdesk/internal/events"
	"github.com/tomtom215/newsdesk/internal/feed"
	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/metrics"
	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/store"
)

// Result counts what happened to one category's items.
type Result struct {
	Category string `json:"category"`
	Fetched  int    `json:"fetched"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Invalid  int    `json:"invalid"`
}

// Summary is the outcome of IngestAll. Errors is keyed by category.
type Summary struct {
	Results  []Result
	Errors   map[string]error
	Duration time.Duration
}

// Failed reports whether any category failed.
func (s Summary) Failed() bool {
	return len(s.Errors) > 0
}

// Service runs ingestion.
type Service struct {
	feed       feed.Fetcher
	store      store.ArticleStore
	events     *events.Publisher
	categories []string
}

// Option configures a Service.
type Option func(*Service)

// WithEvents publishes an article.ingested event for every insert.
func WithEvents(p *events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithCategories overrides the category list and order.
func WithCategories(categories ...string) Option {
	return func(s *Service) { s.categories = categories }
}

// NewService builds a Service over the default ingest categories.
func NewService(f feed.Fetcher, st store.ArticleStore, opts ...Option) *Service {
	s := &Service{
		feed:       f,
		store:      st,
		categories: models.IngestCategories(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the categories IngestAll walks, in order.
func (s *Service) Categories() []string {
	return append([]string(nil), s.categories...)
}

// IngestAll ingests every category in order. Category errors are logged
// and collected; only a cancelled ctx stops the walk early.
func (s *Service) IngestAll(ctx context.Context) Summary {
	start := time.Now()
	summary := Summary{Errors: map[string]error{}}

	logging.Info().Strs("categories", s.categories).Msg("Starting headline ingest")

	for _, category := range s.categories {
		if err := ctx.Err(); err != nil {
			summary.Errors[category] = err
			continue
		}

		res, err := s.IngestCategory(ctx, category)
		summary.Results = append(summary.Results, res)
		if err != nil {
			summary.Errors[category] = err
			metrics.RecordIngestCategoryError(category, err)
			logging.Error().Err(err).Str("category", category).Msg("Category ingest failed")
			continue
		}
		logging.Info().
			Str("category", category).
			Int("fetched", res.Fetched).
			Int("inserted", res.Inserted).
			Int("skipped", res.Skipped).
			Int("invalid", res.Invalid).
			Msg("Category ingested")
	}

	summary.Duration = time.Since(start)
	metrics.RecordIngestRun(summary.Duration, len(summary.Errors))

	ev := logging.Info()
	if summary.Failed() {
		ev = logging.Warn()
	}
	ev.Int("categories", len(s.categories)).
		Int("failed", len(summary.Errors)).
		Dur("duration", summary.Duration).
		Msg("Headline ingest finished")
	return summary
}

// IngestCategory fetches category and inserts each usable item. A feed
// failure wraps feed.ErrUpstreamFetch and names the category. A store
// failure aborts the rest of the category.
func (s *Service) IngestCategory(ctx context.Context, category string) (Result, error) {
	res := Result{Category: category}

	items, err := s.feed.TopHeadlines(ctx, category)
	if err != nil {
		return res, fmt.Errorf("failed to fetch %s headlines: %w", category, err)
	}
	res.Fetched = len(items)

	defer func() {
		metrics.RecordIngestArticles(category, "inserted", res.Inserted)
		metrics.RecordIngestArticles(category, "skipped", res.Skipped)
		metrics.RecordIngestArticles(category, "invalid", res.Invalid)
	}()

	for _, item := range items {
		if !item.Usable() {
			res.Invalid++
			continue
		}

		a := item.ToArticle(category)
		inserted, err := s.store.InsertIfAbsent(ctx, a)
		if err != nil {
			return res, fmt.Errorf("failed to store %s headline %q: %w", category, a.Title, err)
		}
		if !inserted {
			res.Skipped++
			continue
		}
		res.Inserted++
		s.events.ArticleIngested(ctx, a)
	}
	return res, nil
}
