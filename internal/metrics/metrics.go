// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package metrics holds the Prometheus collectors for Newsdesk and small
// helpers for recording into them. Collectors register on the default
// registry through promauto and are exposed at /metrics.
package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsdesk_store_query_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_store_query_errors_total",
			Help: "Total number of failed store operations",
		},
		[]string{"backend", "operation", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsdesk_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsdesk_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Engagement Metrics
	ArticleLikes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_article_like_operations_total",
			Help: "Like and unlike operations by outcome",
		},
		[]string{"action", "outcome"}, // action: like, unlike; outcome: ok, bad_request, not_found, error
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_webhook_events_total",
			Help: "Identity provider webhook deliveries by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	// Ingest Metrics
	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsdesk_ingest_duration_seconds",
			Help:    "Duration of a full ingest run",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IngestArticles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_ingest_articles_total",
			Help: "Feed articles processed during ingest",
		},
		[]string{"category", "outcome"}, // outcome: inserted, skipped, invalid, error
	)

	IngestCategoryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_ingest_category_errors_total",
			Help: "Categories whose ingest failed",
		},
		[]string{"category", "error_type"},
	)

	IngestLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsdesk_ingest_last_success_timestamp",
			Help: "Unix timestamp of the last ingest run with no category failures",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsdesk_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_events_published_total",
			Help: "Domain events published",
		},
		[]string{"topic"},
	)

	EventsPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsdesk_events_publish_errors_total",
			Help: "Domain events that failed to publish",
		},
		[]string{"topic"},
	)
)

// RecordStoreQuery records a store operation.
func RecordStoreQuery(backend, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(backend, operation, classifyError(err)).Inc()
	}
}

// RecordAPIRequest records an API request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLike counts a like or unlike by outcome.
func RecordLike(action, outcome string) {
	ArticleLikes.WithLabelValues(action, outcome).Inc()
}

// RecordWebhookEvent counts an identity provider delivery.
func RecordWebhookEvent(eventType, outcome string) {
	WebhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordIngestRun records a completed ingest run. failedCategories of zero
// also refreshes the last-success timestamp.
func RecordIngestRun(duration time.Duration, failedCategories int) {
	IngestDuration.Observe(duration.Seconds())
	if failedCategories == 0 {
		IngestLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordIngestArticles adds n articles with the given outcome.
func RecordIngestArticles(category, outcome string, n int) {
	if n > 0 {
		IngestArticles.WithLabelValues(category, outcome).Add(float64(n))
	}
}

// RecordIngestCategoryError counts a failed category.
func RecordIngestCategoryError(category string, err error) {
	IngestCategoryErrors.WithLabelValues(category, classifyError(err)).Inc()
}

// RecordEventPublish records one publish attempt.
func RecordEventPublish(topic string, err error) {
	if err != nil {
		EventsPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	EventsPublished.WithLabelValues(topic).Inc()
}

// classifyError maps an error to a low-cardinality label.
func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "conflict"), strings.Contains(msg, "constraint"):
		return "conflict"
	case strings.Contains(msg, "upstream"):
		return "upstream"
	case strings.Contains(msg, "unavailable"):
		return "unavailable"
	default:
		return "other"
	}
}
