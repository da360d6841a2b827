// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package events publishes domain events (article ingested, liked and
// unliked; user created and deleted) over a Watermill publisher.
//
// Publication is best effort. A failed publish is logged and counted but
// never fails the store operation that triggered it. A nil *Publisher is
// valid and publishes nothing.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/metrics"
	"github.com/tomtom215/newsdesk/internal/models"
)

// Event types, also the topic suffixes.
const (
	TypeArticleIngested = "article.ingested"
	TypeArticleLiked    = "article.liked"
	TypeArticleUnliked  = "article.unliked"
	TypeUserCreated     = "user.created"
	TypeUserDeleted     = "user.deleted"
)

// Metadata keys set on every message.
const (
	MetadataEventType  = "event_type"
	MetadataOccurredAt = "occurred_at"
)

// ErrPublisherClosed is returned by Close on a second call and used
// internally once the publisher is shut down.
var ErrPublisherClosed = errors.New("event publisher is closed")

// Topic returns the full topic name for an event type.
func Topic(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// ArticleEvent is the payload of the article.* events. UserID and
// LikeCount are zero for article.ingested.
type ArticleEvent struct {
	ArticleID  string    `json:"articleId"`
	Title      string    `json:"title,omitempty"`
	Category   string    `json:"category,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	LikeCount  int       `json:"likeCount"`
	OccurredAt time.Time `json:"occurredAt"`
}

// UserEvent is the payload of the user.* events.
type UserEvent struct {
	ExternalID string    `json:"externalId"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher turns domain changes into Watermill messages.
type Publisher struct {
	pub    message.Publisher
	prefix string
	cb     *gobreaker.CircuitBreaker[struct{}]
	warn   *rate.Sometimes
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. Topics are "<prefix>.<event type>".
func NewPublisher(pub message.Publisher, prefix string) *Publisher {
	name := "events-" + prefix
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] Event publisher state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Publisher{
		pub:    pub,
		prefix: prefix,
		cb:     cb,
		warn:   &rate.Sometimes{First: 3, Interval: time.Minute},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ArticleIngested announces a newly stored article.
func (p *Publisher) ArticleIngested(ctx context.Context, a *models.Article) {
	if p == nil || a == nil {
		return
	}
	p.publish(ctx, TypeArticleIngested, ArticleEvent{
		ArticleID:  a.ID,
		Title:      a.Title,
		Category:   a.Category,
		OccurredAt: p.now(),
	})
}

// ArticleLiked announces a like and the resulting count.
func (p *Publisher) ArticleLiked(ctx context.Context, articleID, userID string, count int) {
	if p == nil {
		return
	}
	p.publish(ctx, TypeArticleLiked, ArticleEvent{
		ArticleID:  articleID,
		UserID:     userID,
		LikeCount:  count,
		OccurredAt: p.now(),
	})
}

// ArticleUnliked announces an unlike and the resulting count.
func (p *Publisher) ArticleUnliked(ctx context.Context, articleID, userID string, count int) {
	if p == nil {
		return
	}
	p.publish(ctx, TypeArticleUnliked, ArticleEvent{
		ArticleID:  articleID,
		UserID:     userID,
		LikeCount:  count,
		OccurredAt: p.now(),
	})
}

// UserCreated announces a user synced from the identity provider.
func (p *Publisher) UserCreated(ctx context.Context, u *models.User) {
	if p == nil || u == nil {
		return
	}
	p.publish(ctx, TypeUserCreated, UserEvent{
		ExternalID: u.ExternalID,
		Email:      u.Email,
		OccurredAt: p.now(),
	})
}

// UserDeleted announces a user removal. It is published even when the
// user did not exist locally.
func (p *Publisher) UserDeleted(ctx context.Context, externalID string) {
	if p == nil {
		return
	}
	p.publish(ctx, TypeUserDeleted, UserEvent{
		ExternalID: externalID,
		OccurredAt: p.now(),
	})
}

func (p *Publisher) publish(ctx context.Context, eventType string, payload interface{}) {
	topic := Topic(p.prefix, eventType)
	err := p.send(ctx, topic, eventType, payload)
	metrics.RecordEventPublish(topic, err)
	if err != nil {
		p.warn.Do(func() {
			logging.Ctx(ctx).Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
		})
	}
}

func (p *Publisher) send(ctx context.Context, topic, eventType string, payload interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataEventType, eventType)
	msg.Metadata.Set(MetadataOccurredAt, p.now().Format(time.RFC3339Nano))
	if id := correlationID(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.SetContext(context.WithoutCancel(ctx))

	_, err = p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.pub.Publish(topic, msg)
	})
	return err
}

func correlationID(ctx context.Context) string {
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		return id
	}
	return logging.RequestIDFromContext(ctx)
}

// Close closes the underlying publisher. Later publishes are dropped.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.pub.Close()
}
