// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package store defines the persistence contracts for articles and users
// and the errors backends report through them. Implementations live in
// internal/database (DuckDB) and internal/kvstore (Badger).
package store

import (
	"context"
	"errors"

	"github.com/tomtom215/newsdesk/internal/models"
)

var (
	// ErrNotFound means the requested record, or any search result, is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a create collided with an existing unique key.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable means the backend could not be opened at startup.
	ErrUnavailable = errors.New("store unavailable")
)

// ArticleStore persists articles keyed by id with a unique title.
//
// Like and Unlike are read-modify-write on a single article without a
// version check. Two concurrent calls on the same article can lose one
// of the updates; the last save wins.
type ArticleStore interface {
	// Exists reports whether an article with exactly this title is stored.
	Exists(ctx context.Context, title string) (bool, error)

	// InsertIfAbsent stores a with an empty like set unless its title is
	// already present, in which case nothing is written and inserted is false.
	InsertIfAbsent(ctx context.Context, a *models.Article) (inserted bool, err error)

	// GetByID returns ErrNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*models.Article, error)

	// FindByCategory matches category exactly. No match is an empty slice.
	FindByCategory(ctx context.Context, category string) ([]models.Article, error)

	// Search returns ErrNotFound when nothing matches.
	Search(ctx context.Context, c models.SearchCriteria) ([]models.Article, error)

	// Like adds userID to the like set and returns the resulting count.
	Like(ctx context.Context, articleID, userID string) (int, error)

	// Unlike removes userID from the like set and returns the resulting count.
	Unlike(ctx context.Context, articleID, userID string) (int, error)
}

// UserStore persists identity provider users keyed by external id.
type UserStore interface {
	// CreateUser returns ErrConflict when the external id exists.
	CreateUser(ctx context.Context, u *models.User) error

	// GetUserByExternalID returns ErrNotFound for unknown ids.
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)

	// DeleteUserByExternalID is a no-op for unknown ids.
	DeleteUserByExternalID(ctx context.Context, externalID string) error
}

// Store is a complete backend.
type Store interface {
	ArticleStore
	UserStore
	Ping(ctx context.Context) error
	Close() error
}
