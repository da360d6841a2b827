// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tomtom215/newsdesk/internal/logging"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	var ctxID, chiID, corrID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
		chiID = chimiddleware.GetReqID(r.Context())
		corrID = logging.CorrelationIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/headlines", nil))

	header := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("response %s %q is not a UUID: %v", RequestIDHeader, header, err)
	}
	if ctxID != header {
		t.Errorf("context id = %q, want %q", ctxID, header)
	}
	if chiID != header {
		t.Errorf("chi GetReqID = %q, want %q", chiID, header)
	}
	if corrID == "" {
		t.Error("expected a correlation id in context")
	}
}

func TestRequestID_Upstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"well formed", "edge-7f3a-0001", true},
		{"uuid", "0b8e4a57-7a0c-4c89-9a36-3f0e6f1f9a10", true},
		{"newline injection", "abc\ninjected", false},
		{"space", "abc def", false},
		{"too long", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.incoming)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if tt.keep && got != tt.incoming {
				t.Errorf("request id = %q, want upstream %q", got, tt.incoming)
			}
			if !tt.keep {
				if got == tt.incoming {
					t.Errorf("request id %q should have been replaced", got)
				}
				if _, err := uuid.Parse(got); err != nil {
					t.Errorf("replacement %q is not a UUID", got)
				}
			}
			if rec.Header().Get(RequestIDHeader) != got {
				t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), got)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		id := rec.Header().Get(RequestIDHeader)
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
	}
}
