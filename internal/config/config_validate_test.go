// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Database.Path = ":memory:"
	cfg.Feed.APIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"missing database path", func(c *Config) { c.Database.Path = " " }, "DATABASE_URL is required"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }, "DATABASE_DRIVER"},
		{"badger driver", func(c *Config) { c.Database.Driver = DriverBadger }, ""},
		{"missing api key", func(c *Config) { c.Feed.APIKey = "" }, "NEWS_API_KEY is required"},
		{"relative feed url", func(c *Config) { c.Feed.BaseURL = "newsapi.org" }, "NEWS_API_URL"},
		{"ftp feed url", func(c *Config) { c.Feed.BaseURL = "ftp://newsapi.org" }, "http or https"},
		{"page size too large", func(c *Config) { c.Feed.PageSize = 500 }, "NEWS_API_PAGESIZE"},
		{"zero feed timeout", func(c *Config) { c.Feed.Timeout = 0 }, "NEWS_API_TIMEOUT"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"bad timezone", func(c *Config) { c.Server.Timezone = "Mars/Olympus" }, "TZ_SEARCH"},
		{"utc timezone", func(c *Config) { c.Server.Timezone = "UTC" }, ""},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"zero rate limit but disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"events kafka without brokers", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Driver = EventsDriverKafka
		}, "KAFKA_BROKERS"},
		{"events unknown driver", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Driver = "sqs"
		}, "EVENTS_DRIVER"},
		{"events disabled ignores driver", func(c *Config) { c.Events.Driver = "sqs" }, ""},
		{"external nats without url", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Driver = EventsDriverNATS
			c.Events.NATS.EmbeddedServer = false
			c.Events.NATS.URL = ""
		}, "NATS_URL"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfigLocation(t *testing.T) {
	t.Parallel()

	if loc := (ServerConfig{Timezone: "Local"}).Location(); loc != time.Local {
		t.Errorf("Location() = %v, want Local", loc)
	}
	if loc := (ServerConfig{}).Location(); loc != time.Local {
		t.Errorf("Location() = %v, want Local for empty zone", loc)
	}
	if loc := (ServerConfig{Timezone: "UTC"}).Location(); loc.String() != "UTC" {
		t.Errorf("Location() = %v, want UTC", loc)
	}
	if loc := (ServerConfig{Timezone: "Nowhere/Land"}).Location(); loc != time.Local {
		t.Errorf("Location() = %v, want Local fallback", loc)
	}
}
