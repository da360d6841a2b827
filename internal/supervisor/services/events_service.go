// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package services

import (
	"context"
	"fmt"
	"time"
)

// TransportRunner is satisfied by *events.Transport.
type TransportRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventsService keeps the event transport open for the life of the tree
// and shuts it down (closing the publisher and any embedded NATS server)
// when the tree stops.
type EventsService struct {
	transport       TransportRunner
	shutdownTimeout time.Duration
}

// NewEventsService wraps transport with a 10 second shutdown timeout.
func NewEventsService(transport TransportRunner) *EventsService {
	return &EventsService{transport: transport, shutdownTimeout: 10 * time.Second}
}

// Serve implements suture.Service.
func (s *EventsService) Serve(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		return fmt.Errorf("event transport start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.transport.Shutdown(shutdownCtx)
	return ctx.Err()
}

func (s *EventsService) String() string {
	return "event-transport"
}
