// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/newsdesk/internal/models"
)

// Unavailable is a Store whose every operation fails with ErrUnavailable.
// main installs it when the real backend cannot be opened so the process
// keeps serving and each request reports the failure.
type Unavailable struct {
	cause error
}

// NewUnavailable wraps the error that prevented the backend from opening.
func NewUnavailable(cause error) *Unavailable {
	return &Unavailable{cause: cause}
}

func (u *Unavailable) err() error {
	if u.cause == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.cause)
}

func (u *Unavailable) Exists(context.Context, string) (bool, error) { return false, u.err() }

func (u *Unavailable) InsertIfAbsent(context.Context, *models.Article) (bool, error) {
	return false, u.err()
}

func (u *Unavailable) GetByID(context.Context, string) (*models.Article, error) { return nil, u.err() }

func (u *Unavailable) FindByCategory(context.Context, string) ([]models.Article, error) {
	return nil, u.err()
}

func (u *Unavailable) Search(context.Context, models.SearchCriteria) ([]models.Article, error) {
	return nil, u.err()
}

func (u *Unavailable) Like(context.Context, string, string) (int, error)   { return 0, u.err() }
func (u *Unavailable) Unlike(context.Context, string, string) (int, error) { return 0, u.err() }

func (u *Unavailable) CreateUser(context.Context, *models.User) error { return u.err() }

func (u *Unavailable) GetUserByExternalID(context.Context, string) (*models.User, error) {
	return nil, u.err()
}

func (u *Unavailable) DeleteUserByExternalID(context.Context, string) error { return u.err() }

func (u *Unavailable) Ping(context.Context) error { return u.err() }

// Close is a no-op.
func (u *Unavailable) Close() error { return nil }
