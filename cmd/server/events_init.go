// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package main

import (
	"context"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/events"
	"github.com/tomtom215/newsdesk/internal/logging"
)

// initEvents opens the event transport when enabled. Publication is best
// effort, so a transport that fails to open is logged and the server runs
// without events. Both results are nil when events are off.
func initEvents(ctx context.Context, cfg *config.EventsConfig) (*events.Transport, *events.Publisher) {
	if !cfg.Enabled {
		logging.Info().Msg("Domain events disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	tr, err := events.Open(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Str("driver", cfg.Driver).Msg("Failed to open event transport, continuing without events")
		return nil, nil
	}

	logging.Info().
		Str("driver", tr.Driver).
		Str("topic_prefix", cfg.TopicPrefix).
		Bool("embedded_nats", tr.Server != nil).
		Msg("Event transport ready")
	return tr, events.NewPublisher(tr.Publisher, cfg.TopicPrefix)
}
