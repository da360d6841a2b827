// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package database

import (
	"context"
	"fmt"
	"time"
)

// Timestamps are stored as UTC TIMESTAMP values; TIMESTAMPTZ would need
// the ICU extension, which autoload is disabled for.
var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL UNIQUE,
		description VARCHAR,
		url VARCHAR,
		url_to_image VARCHAR,
		published_at TIMESTAMP,
		source_id VARCHAR,
		source_name VARCHAR,
		source_country VARCHAR,
		category VARCHAR NOT NULL,
		likes VARCHAR NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		external_id VARCHAR PRIMARY KEY,
		first_name VARCHAR,
		last_name VARCHAR,
		email VARCHAR,
		created_at TIMESTAMP NOT NULL
	)`,
}

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}
