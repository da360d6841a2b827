// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/database"
	"github.com/tomtom215/newsdesk/internal/kvstore"
	"github.com/tomtom215/newsdesk/internal/store"
)

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		check  func(t *testing.T, st store.Store)
	}{
		{"duckdb", config.DriverDuckDB, func(t *testing.T, st store.Store) {
			if _, ok := st.(*database.DB); !ok {
				t.Errorf("store = %T, want *database.DB", st)
			}
		}},
		{"default is duckdb", "", func(t *testing.T, st store.Store) {
			if _, ok := st.(*database.DB); !ok {
				t.Errorf("store = %T, want *database.DB", st)
			}
		}},
		{"badger", config.DriverBadger, func(t *testing.T, st store.Store) {
			if _, ok := st.(*kvstore.Store); !ok {
				t.Errorf("store = %T, want *kvstore.Store", st)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, task := openStore(&config.DatabaseConfig{Driver: tt.driver, Path: ":memory:"})
			defer st.Close()

			tt.check(t, st)
			if err := st.Ping(context.Background()); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
			if task == nil {
				t.Fatal("maintenance task is nil")
			}
			if err := task(context.Background()); err != nil {
				t.Errorf("maintenance task error = %v", err)
			}
		})
	}
}

func TestOpenStore_UnknownDriverDegrades(t *testing.T) {
	st, task := openStore(&config.DatabaseConfig{Driver: "postgres", Path: ":memory:"})
	defer st.Close()

	if task != nil {
		t.Error("degraded store should have no maintenance task")
	}
	if err := st.Ping(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Ping() error = %v, want ErrUnavailable", err)
	}
}

func TestInitEvents(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		tr, pub := initEvents(context.Background(), &config.EventsConfig{Enabled: false})
		if tr != nil || pub != nil {
			t.Errorf("initEvents() = %v, %v, want nil, nil", tr, pub)
		}
	})

	t.Run("channel", func(t *testing.T) {
		tr, pub := initEvents(context.Background(), &config.EventsConfig{
			Enabled:     true,
			Driver:      config.EventsDriverChannel,
			TopicPrefix: "maintest",
		})
		if tr == nil || pub == nil {
			t.Fatal("expected transport and publisher")
		}
		defer tr.Close(context.Background())
		if tr.Driver != config.EventsDriverChannel {
			t.Errorf("Driver = %q", tr.Driver)
		}
	})

	t.Run("unknown driver continues without events", func(t *testing.T) {
		tr, pub := initEvents(context.Background(), &config.EventsConfig{Enabled: true, Driver: "carrier-pigeon"})
		if tr != nil || pub != nil {
			t.Errorf("initEvents() = %v, %v, want nil, nil", tr, pub)
		}
	})
}
