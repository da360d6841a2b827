// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package kvstore is the BadgerDB implementation of store.Store.
//
// Keys:
//
//	article:<id>        JSON encoded models.Article
//	title:<title>       article id, the uniqueness index
//	user:<external id>  JSON encoded models.User
//
// Category lookups and searches scan the article prefix and filter with
// the predicates from internal/search.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/metrics"
	"github.com/tomtom215/newsdesk/internal/store"
)

const backendName = "badger"

const (
	prefixArticle = "article:"
	prefixTitle   = "title:"
	prefixUser    = "user:"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("badger store is closed")

// Store wraps a BadgerDB instance.
type Store struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

// Open opens (creating if needed) the Badger directory at cfg.Path.
// ":memory:" runs Badger in memory.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	var opts badger.Options
	if cfg.Path == ":memory:" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("Badger store ready")
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Ping reports whether the store is open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the database. Further calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// RunGC reclaims value log space until Badger reports nothing to rewrite.
func (s *Store) RunGC(discardRatio float64) error {
	if err := s.Ping(context.Background()); err != nil {
		return err
	}
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func observe(operation string, start time.Time, err error) {
	if errors.Is(err, store.ErrNotFound) {
		err = nil
	}
	metrics.RecordStoreQuery(backendName, operation, time.Since(start), err)
}

func articleKey(id string) []byte { return []byte(prefixArticle + id) }
func titleKey(title string) []byte { return []byte(prefixTitle + title) }
func userKey(id string) []byte { return []byte(prefixUser + id) }

var _ store.Store = (*Store)(nil)
