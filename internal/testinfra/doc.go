// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package testinfra provides container and fake-upstream helpers for
// integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// # NATS Container
//
// NATSContainer runs a JetStream-enabled nats-server image so the event
// transport can be exercised against a real broker instead of the
// embedded server:
//
//	natsC, err := testinfra.NewNATSContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, natsC.Container)
//
//	tr, err := events.Open(ctx, &config.EventsConfig{
//	    Driver: config.EventsDriverNATS,
//	    NATS:   config.NATSConfig{URL: natsC.URL, StreamName: "NEWSDESK"},
//	})
//
// # Mock Feed
//
// MockFeedServer answers /v2/top-headlines with per-category items and
// records every request, so ingest runs need no network access.
//
// Tests skip themselves when Docker is not available.
package testinfra
