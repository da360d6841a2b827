// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/store"
)

// CreateUser stores u. An existing external id, or a concurrent create of
// the same id, returns store.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u *models.User) (err error) {
	defer func(start time.Time) { observe("create_user", start, err) }(time.Now())
	if err := s.checkOpen(); err != nil {
		return err
	}

	rec := *u
	rec.CreatedAt = s.now()
	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(userKey(u.ExternalID))
		if err == nil {
			return store.ErrConflict
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(userKey(u.ExternalID), data)
	})
	if errors.Is(err, store.ErrConflict) || errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("user %s: %w", u.ExternalID, store.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.CreatedAt = rec.CreatedAt
	return nil
}

// GetUserByExternalID returns store.ErrNotFound for unknown ids.
func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (u *models.User, err error) {
	defer func(start time.Time) { observe("get_user", start, err) }(time.Now())
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(externalID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("user %s: %w", externalID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// DeleteUserByExternalID removes the user if present. Likes that
// reference the user are left in place.
func (s *Store) DeleteUserByExternalID(ctx context.Context, externalID string) (err error) {
	defer func(start time.Time) { observe("delete_user", start, err) }(time.Now())
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(userKey(externalID))
	}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
