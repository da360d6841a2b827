// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package main is the entry point for the Newsdesk server.
//
// Newsdesk ingests top headlines per category from a news feed, stores
// them deduplicated by title, and serves them over a JSON API together
// with likes and identity provider user sync.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Store: DuckDB or Badger, selected by DATABASE_DRIVER
//  3. Events: optional publisher over GoChannel, NATS JetStream or Kafka
//  4. Feed client: HTTP client behind a circuit breaker
//  5. HTTP server: chi router with rate limiting and Prometheus metrics
//  6. Supervisor tree: store maintenance, event transport, the startup
//     ingest run and the HTTP server
//
// A store that fails to open does not stop the process. The API keeps
// serving and answers store-backed requests with 500 and readiness with
// 503 until restarted with a working store.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the
// HTTP server (10s drain), the transport and maintenance, and main then
// closes the store.
//
// # Example Usage
//
//	export NEWS_API_KEY=your-key
//	export DATABASE_DRIVER=badger
//	export DATABASE_URL=/data/newsdesk
//	./newsdesk
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/newsdesk/internal/api"
	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/feed"
	"github.com/tomtom215/newsdesk/internal/ingest"
	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/supervisor"
	"github.com/tomtom215/newsdesk/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("store_driver", cfg.Database.Driver).
		Str("db_path", cfg.Database.Path).
		Bool("events", cfg.Events.Enabled).
		Bool("ingest_on_startup", cfg.Ingest.OnStartup).
		Msg("Starting Newsdesk")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, maintenance := openStore(&cfg.Database)
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	transport, publisher := initEvents(ctx, &cfg.Events)
	if transport != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := transport.Close(closeCtx); err != nil {
				logging.Error().Err(err).Msg("Error closing event transport")
			}
		}()
	}

	fetcher := feed.NewCircuitBreakerClient(feed.NewClient(&cfg.Feed), feed.DefaultBreakerSettings())
	ingester := ingest.NewService(fetcher, st, ingest.WithEvents(publisher))

	handler := api.NewHandler(st, publisher, cfg.Server.Location())
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Security, &cfg.Server)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	if maintenance != nil {
		tree.AddDataService(services.NewMaintenanceService("store-maintenance", 5*time.Minute, maintenance))
	}

	// Messaging layer
	if transport != nil {
		tree.AddMessagingService(services.NewEventsService(transport))
	}
	if cfg.Ingest.OnStartup {
		tree.AddMessagingService(services.NewIngestService(ingester))
		logging.Info().Strs("categories", ingester.Categories()).Msg("Startup ingest scheduled")
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Serve returns once ctx is canceled and every layer has stopped.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Newsdesk stopped")
}
