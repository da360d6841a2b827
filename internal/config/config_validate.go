// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.Database.Driver {
	case DriverDuckDB, DriverBadger:
		return nil
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverDuckDB, DriverBadger, c.Database.Driver)
	}
}

func (c *Config) validateFeed() error {
	if strings.TrimSpace(c.Feed.APIKey) == "" {
		return fmt.Errorf("NEWS_API_KEY is required")
	}
	u, err := url.Parse(c.Feed.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("NEWS_API_URL must be an absolute URL, got %q", c.Feed.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("NEWS_API_URL must use http or https, got %q", u.Scheme)
	}
	if c.Feed.PageSize < 0 || c.Feed.PageSize > 100 {
		return fmt.Errorf("NEWS_API_PAGESIZE must be between 0 and 100, got %d", c.Feed.PageSize)
	}
	if c.Feed.Timeout <= 0 {
		return fmt.Errorf("NEWS_API_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if tz := c.Server.Timezone; tz != "" && tz != "Local" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("TZ_SEARCH %q is not a valid IANA time zone: %w", tz, err)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive when rate limiting is enabled")
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	switch c.Events.Driver {
	case EventsDriverChannel:
	case EventsDriverNATS:
		if !c.Events.NATS.EmbeddedServer && c.Events.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when NATS_EMBEDDED=false")
		}
		if c.Events.NATS.StreamName == "" {
			return fmt.Errorf("NATS_STREAM is required when EVENTS_DRIVER=nats")
		}
	case EventsDriverKafka:
		if len(c.Events.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_DRIVER=kafka")
		}
	default:
		return fmt.Errorf("EVENTS_DRIVER must be one of channel, nats, kafka; got %q", c.Events.Driver)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled", "":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not recognized", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
