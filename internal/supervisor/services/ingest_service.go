// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package services

import (
	"context"
	"sync/atomic"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/newsdesk/internal/ingest"
)

// Ingester is satisfied by *ingest.Service.
type Ingester interface {
	IngestAll(ctx context.Context) ingest.Summary
}

// IngestService performs one ingest run and then asks suture not to
// restart it. Category failures are part of the summary, not service
// failures, so there is no retry.
type IngestService struct {
	ingester Ingester
	done     atomic.Bool
	last     atomic.Pointer[ingest.Summary]
}

// NewIngestService wraps ingester.
func NewIngestService(ingester Ingester) *IngestService {
	return &IngestService{ingester: ingester}
}

// Serve implements suture.Service.
func (s *IngestService) Serve(ctx context.Context) error {
	if s.done.Load() {
		return suture.ErrDoNotRestart
	}
	summary := s.ingester.IngestAll(ctx)
	s.last.Store(&summary)
	s.done.Store(true)
	return suture.ErrDoNotRestart
}

// Done reports whether the run has finished.
func (s *IngestService) Done() bool {
	return s.done.Load()
}

// Summary returns the finished run's summary, or nil while running.
func (s *IngestService) Summary() *ingest.Summary {
	return s.last.Load()
}

func (s *IngestService) String() string {
	return "startup-ingest"
}
