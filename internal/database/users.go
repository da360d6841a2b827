// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/store"
)

// CreateUser inserts u. A duplicate external id returns store.ErrConflict.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (err error) {
	defer func(start time.Time) { observe("create_user", start, err) }(time.Now())

	createdAt := db.now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (external_id, first_name, last_name, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ExternalID, nullString(u.FirstName), nullString(u.LastName), nullString(u.Email), createdAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("user %s: %w", u.ExternalID, store.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.CreatedAt = createdAt
	return nil
}

// GetUserByExternalID returns store.ErrNotFound for unknown ids.
func (db *DB) GetUserByExternalID(ctx context.Context, externalID string) (u *models.User, err error) {
	defer func(start time.Time) { observe("get_user", start, err) }(time.Now())

	var (
		user                   models.User
		first, last, emailAddr sql.NullString
	)
	err = db.conn.QueryRowContext(ctx,
		`SELECT external_id, first_name, last_name, email, created_at FROM users WHERE external_id = ?`,
		externalID).Scan(&user.ExternalID, &first, &last, &emailAddr, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", externalID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.FirstName = first.String
	user.LastName = last.String
	user.Email = emailAddr.String
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// DeleteUserByExternalID removes the user if present. Likes that reference
// the user are left in place.
func (db *DB) DeleteUserByExternalID(ctx context.Context, externalID string) (err error) {
	defer func(start time.Time) { observe("delete_user", start, err) }(time.Now())

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE external_id = ?`, externalID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
