// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/database"
	"github.com/tomtom215/newsdesk/internal/kvstore"
	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/store"
)

// gcDiscardRatio is the Badger value log GC threshold.
const gcDiscardRatio = 0.5

// maintenanceFunc is a periodic store upkeep task.
type maintenanceFunc func(ctx context.Context) error

// openStore opens the configured backend together with its maintenance
// task. A backend that fails to open is replaced by store.Unavailable so
// the API still starts; the returned task is nil in that case.
func openStore(cfg *config.DatabaseConfig) (store.Store, maintenanceFunc) {
	st, task, err := openBackend(cfg)
	if err != nil {
		logging.Error().Err(err).Str("driver", cfg.Driver).Str("path", cfg.Path).
			Msg("Store unavailable, serving degraded")
		return store.NewUnavailable(err), nil
	}
	return st, task
}

func openBackend(cfg *config.DatabaseConfig) (store.Store, maintenanceFunc, error) {
	switch cfg.Driver {
	case config.DriverDuckDB, "":
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Checkpoint, nil

	case config.DriverBadger:
		kv, err := kvstore.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		return kv, func(context.Context) error { return kv.RunGC(gcDiscardRatio) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
