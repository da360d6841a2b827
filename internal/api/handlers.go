// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package api serves the Newsdesk HTTP surface: category and search
// queries, like and unlike, the identity provider webhook and the health
// probes. Every failure is written as
//
//	{"success": false, "message": "...", "error": "..."}
//
// with "error" present only on 5xx responses.
package api

import (
	"time"

	"github.com/tomtom215/newsdesk/internal/events"
	"github.com/tomtom215/newsdesk/internal/store"
)

// Handler holds the dependencies shared by every endpoint.
//
// Handler methods are split across files:
//   - handlers_articles.go: category, headline and search queries, like, unlike
//   - handlers_webhook.go: identity provider user sync
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	store     store.Store
	events    *events.Publisher
	location  *time.Location
	startTime time.Time
	now       func() time.Time
}

// NewHandler builds a Handler. events may be nil, in which case nothing is
// published. loc resolves search dates to a day window; nil means
// time.Local.
func NewHandler(st store.Store, pub *events.Publisher, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:     st,
		events:    pub,
		location:  loc,
		startTime: time.Now(),
		now:       time.Now,
	}
}
