// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/models"
)

func TestNewChiMiddleware_DefaultConfig(t *testing.T) {
	m := NewChiMiddleware(nil)

	if m.config == nil {
		t.Fatal("config is nil")
	}
	if len(m.config.CORSAllowedOrigins) != 0 {
		t.Errorf("CORSAllowedOrigins = %v, want none by default", m.config.CORSAllowedOrigins)
	}
	if m.config.RateLimitRequests != 100 || m.config.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/1m", m.config.RateLimitRequests, m.config.RateLimitWindow)
	}
}

func TestNewChiMiddlewareConfig_FromConfig(t *testing.T) {
	cfg := NewChiMiddlewareConfig(
		&config.SecurityConfig{
			RateLimitReqs:     7,
			RateLimitWindow:   10 * time.Second,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"https://news.example"},
		},
		&config.ServerConfig{Timeout: 5 * time.Second},
	)

	if cfg.RateLimitRequests != 7 || cfg.RateLimitWindow != 10*time.Second || !cfg.RateLimitDisabled {
		t.Errorf("rate limit fields = %+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://news.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}

	if got := NewChiMiddlewareConfig(nil, nil); got.RateLimitRequests != 100 {
		t.Errorf("nil inputs should keep defaults, got %+v", got)
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("limits by ip", func(t *testing.T) {
		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitRequests = 2
		handler := NewChiMiddleware(cfg).RateLimit()(okHandler())

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/sports", nil)
			req.RemoteAddr = "203.0.113.9:5000"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
			t.Errorf("status codes = %v, want [200 200 429]", codes)
		}
	})

	t.Run("limited response is json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rateLimited(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		checkError(t, rec, http.StatusTooManyRequests, "too many requests")
	})

	t.Run("disabled passes through", func(t *testing.T) {
		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitRequests = 1
		cfg.RateLimitDisabled = true
		m := NewChiMiddleware(cfg)

		for _, mw := range []func(http.Handler) http.Handler{m.RateLimit(), m.RateLimitHealth(), m.RateLimitWebhook()} {
			handler := mw(okHandler())
			for i := 0; i < 3; i++ {
				rec := httptest.NewRecorder()
				handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
				if rec.Code != http.StatusOK {
					t.Fatalf("request %d status = %d, want 200", i, rec.Code)
				}
			}
		}
	})
}

func TestTimeout(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RequestTimeout = 0
	var hasDeadline bool
	NewChiMiddleware(cfg).Timeout()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if hasDeadline {
		t.Error("zero timeout should not set a deadline")
	}

	cfg.RequestTimeout = time.Minute
	NewChiMiddleware(cfg).Timeout()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !hasDeadline {
		t.Error("request context should carry a deadline")
	}
}

func TestCORS(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://news.example"}
	handler := NewChiMiddleware(cfg).CORS()(okHandler())

	tests := []struct {
		origin string
		want   string
	}{
		{"https://news.example", "https://news.example"},
		{"https://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/headlines", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	handler := APISecurityHeaders()(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/headlines", nil))
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/headlines", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing over TLS")
	}

	req = httptest.NewRequest(http.MethodGet, "/headlines", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing behind a TLS proxy")
	}
}

func TestRateLimitedUsesErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	rateLimited(rec, httptest.NewRequest(http.MethodPost, "/api/webhooks", nil))

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Success || resp.Message == "" {
		t.Errorf("response = %+v", resp)
	}
}
