// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/logging"
)

// Transport owns the Watermill publisher for the configured driver and,
// for an embedded NATS deployment, the NATS server itself.
//
// Subscriber is only set for the in-process channel driver, where it is
// the same GoChannel the publisher writes to and is closed with it.
type Transport struct {
	Driver     string
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Server     *EmbeddedServer

	mu      sync.Mutex
	running bool
	closed  bool
}

// Open builds the transport for cfg.Driver. For NATS it starts the
// embedded server when configured and ensures the JetStream stream exists
// before creating the publisher.
func Open(ctx context.Context, cfg *config.EventsConfig) (*Transport, error) {
	logger := logging.NewWatermillAdapter()

	switch cfg.Driver {
	case config.EventsDriverChannel, "":
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, logger)
		return &Transport{Driver: config.EventsDriverChannel, Publisher: ch, Subscriber: ch}, nil

	case config.EventsDriverNATS:
		t := &Transport{Driver: config.EventsDriverNATS}
		url := cfg.NATS.URL
		if cfg.NATS.EmbeddedServer {
			srv, err := NewEmbeddedServer(&cfg.NATS)
			if err != nil {
				return nil, err
			}
			t.Server = srv
			url = srv.ClientURL()
		}
		if err := EnsureStream(ctx, url, cfg.NATS.StreamName, []string{Topic(cfg.TopicPrefix, ">")}); err != nil {
			_ = t.shutdownServer(ctx)
			return nil, err
		}
		pub, err := NewNATSPublisher(url, logger)
		if err != nil {
			_ = t.shutdownServer(ctx)
			return nil, err
		}
		t.Publisher = pub
		return t, nil

	case config.EventsDriverKafka:
		return &Transport{
			Driver:    config.EventsDriverKafka,
			Publisher: NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.WriteTimeout),
		}, nil

	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// Start marks the transport running. Everything was connected by Open.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrPublisherClosed
	}
	t.running = true
	logging.Info().Str("driver", t.Driver).Msg("Event transport running")
	return nil
}

// IsRunning reports whether Start was called and Shutdown was not.
func (t *Transport) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Shutdown closes the publisher and stops the embedded server.
func (t *Transport) Shutdown(ctx context.Context) {
	if err := t.Close(ctx); err != nil {
		logging.Warn().Err(err).Str("driver", t.Driver).Msg("Event transport shutdown error")
	}
}

// Close is Shutdown with the error returned. It is safe to call twice.
func (t *Transport) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.running = false
	t.mu.Unlock()

	var errs []error
	if t.Publisher != nil {
		if err := t.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := t.shutdownServer(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (t *Transport) shutdownServer(ctx context.Context) error {
	if t.Server == nil {
		return nil
	}
	if err := t.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown NATS server: %w", err)
	}
	return nil
}
