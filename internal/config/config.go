// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package config loads Newsdesk configuration from defaults, an optional
// YAML file and environment variables (in that order of precedence) using
// koanf, then validates the result.
package config

import (
	"time"
)

// Store drivers.
const (
	DriverDuckDB = "duckdb"
	DriverBadger = "badger"
)

// Event transports.
const (
	EventsDriverChannel = "channel"
	EventsDriverNATS    = "nats"
	EventsDriverKafka   = "kafka"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Feed     FeedConfig     `koanf:"feed"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Events   EventsConfig   `koanf:"events"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig selects and tunes the article/user store.
type DatabaseConfig struct {
	// Driver is duckdb or badger.
	Driver string `koanf:"driver"`

	// Path is the store location: a DuckDB file (or ":memory:") or a
	// Badger directory. Required.
	Path string `koanf:"path"`

	// MaxMemory and Threads apply to DuckDB only. Threads 0 means NumCPU.
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// FeedConfig configures the top-headlines client.
type FeedConfig struct {
	BaseURL  string        `koanf:"base_url"`
	APIKey   string        `koanf:"api_key"`
	Language string        `koanf:"language"`
	PageSize int           `koanf:"page_size"`
	Timeout  time.Duration `koanf:"timeout"`
}

// IngestConfig controls the startup ingest run.
type IngestConfig struct {
	OnStartup bool `koanf:"on_startup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`

	// Timezone is the IANA zone used to resolve search dates to a day
	// window. "Local" uses the process zone.
	Timezone string `koanf:"timezone"`
}

// SecurityConfig holds CORS and API rate limit settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// EventsConfig controls domain event publication.
type EventsConfig struct {
	Enabled     bool        `koanf:"enabled"`
	Driver      string      `koanf:"driver"`
	TopicPrefix string      `koanf:"topic_prefix"`
	NATS        NATSConfig  `koanf:"nats"`
	Kafka       KafkaConfig `koanf:"kafka"`
}

// NATSConfig holds JetStream transport settings.
type NATSConfig struct {
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	StoreDir       string `koanf:"store_dir"`
	StreamName     string `koanf:"stream_name"`
	MaxMemory      int64  `koanf:"max_memory"`
	MaxStore       int64  `koanf:"max_store"`
}

// KafkaConfig holds Kafka transport settings.
type KafkaConfig struct {
	Brokers      []string      `koanf:"brokers"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Location resolves Server.Timezone. Unknown zones fall back to time.Local;
// Validate rejects them before this is reached in normal startup.
func (s ServerConfig) Location() *time.Location {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsProduction reports whether Environment is "production".
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// Load reads configuration from all sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
