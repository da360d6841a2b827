// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/newsdesk/internal/config"
	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/store"
	"github.com/tomtom215/newsdesk/internal/store/storetest"
)

// testDBSemaphore keeps one DuckDB instance active at a time. Concurrent
// CGO calls from parallel tests can hang under CI resource pressure.
var testDBSemaphore = make(chan struct{}, 1)

var testDBMutex sync.Mutex

// setupTestDB opens an in-memory database. The semaphore is held until the
// test finishes and creation fails after 120 seconds rather than hanging.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout creating test database after 120 seconds")
		return nil
	}
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return setupTestDB(t)
	})
}

func TestNew_FileBacked(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "news.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "512MB", Threads: 2}
	ctx := context.Background()

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a := &models.Article{Title: "Persisted headline", Category: models.CategoryGeneral}
	if _, err := db.InsertIfAbsent(ctx, a); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if _, err := db.Like(ctx, a.ID, "u1"); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer closeQuietly(reopened)

	got, err := reopened.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() after reopen error = %v", err)
	}
	if got.Title != a.Title || !got.HasLike("u1") {
		t.Errorf("reopened article = %+v", got)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	var nilConn DB
	if err := nilConn.Ping(context.Background()); err == nil {
		t.Error("Ping() on nil connection should fail")
	}
}

func TestInsertIfAbsent_RoundTripsFields(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	published := time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("EST", -5*3600))

	a := &models.Article{
		Title:       "Full record",
		Description: "desc",
		URL:         "https://example.com/a",
		URLToImage:  "https://example.com/a.png",
		PublishedAt: &published,
		Source:      models.Source{ID: "src", Name: "Source", Country: "us"},
		Category:    models.CategoryTechnology,
	}
	if _, err := db.InsertIfAbsent(ctx, a); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}

	got, err := db.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Description != "desc" || got.URL != a.URL || got.URLToImage != a.URLToImage {
		t.Errorf("text fields = %+v", got)
	}
	if got.Source != a.Source {
		t.Errorf("Source = %+v, want %+v", got.Source, a.Source)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, published)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if got.Likes == nil || len(got.Likes) != 0 {
		t.Errorf("Likes = %#v, want empty slice", got.Likes)
	}
}

func TestInsertIfAbsent_NullOptionalFields(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := &models.Article{Title: "Bare", Category: models.CategoryGeneral}
	if _, err := db.InsertIfAbsent(ctx, a); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}

	var nulls int
	err := db.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE id = ? AND description IS NULL AND published_at IS NULL AND source_country IS NULL`,
		a.ID).Scan(&nulls)
	if err != nil {
		t.Fatalf("query error = %v", err)
	}
	if nulls != 1 {
		t.Error("empty optional fields should be stored as NULL")
	}
}

func TestFindByCategory_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, a := range []*models.Article{
		{Title: "undated", Category: models.CategorySports},
		{Title: "older", Category: models.CategorySports, PublishedAt: &older},
		{Title: "newer", Category: models.CategorySports, PublishedAt: &newer},
	} {
		if _, err := db.InsertIfAbsent(ctx, a); err != nil {
			t.Fatalf("InsertIfAbsent(%s) error = %v", a.Title, err)
		}
	}

	got, err := db.FindByCategory(ctx, models.CategorySports)
	if err != nil {
		t.Fatalf("FindByCategory() error = %v", err)
	}
	var order []string
	for _, a := range got {
		order = append(order, a.Title)
	}
	if strings.Join(order, ",") != "newer,older,undated" {
		t.Errorf("order = %v, want [newer older undated]", order)
	}
}

func TestSearch_TimezoneWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// 2024-01-15 in Tokyo is 2024-01-14T15:00Z through 2024-01-15T14:59:59.999Z.
	early := time.Date(2024, 1, 14, 16, 0, 0, 0, time.UTC)
	late := time.Date(2024, 1, 15, 16, 0, 0, 0, time.UTC)
	for _, a := range []*models.Article{
		{Title: "inside", Category: models.CategoryGeneral, PublishedAt: &early},
		{Title: "outside", Category: models.CategoryGeneral, PublishedAt: &late},
	} {
		if _, err := db.InsertIfAbsent(ctx, a); err != nil {
			t.Fatalf("InsertIfAbsent() error = %v", err)
		}
	}

	tokyo := time.FixedZone("JST", 9*3600)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, tokyo)
	got, err := db.Search(ctx, models.SearchCriteria{Date: &day})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "inside" {
		t.Errorf("Search() = %v, want [inside]", got)
	}
}

func TestCorruptLikesColumn(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := &models.Article{Title: "Corrupt", Category: models.CategoryGeneral}
	if _, err := db.InsertIfAbsent(ctx, a); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if _, err := db.Conn().ExecContext(ctx, `UPDATE articles SET likes = 'not json' WHERE id = ?`, a.ID); err != nil {
		t.Fatalf("corrupting likes: %v", err)
	}

	_, err := db.GetByID(ctx, a.ID)
	if err == nil || errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want decode error", err)
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Constraint Error: Duplicate key \"title: x\" violates unique constraint"), true},
		{errors.New("violates primary key constraint"), true},
		{errors.New("Catalog Error: table not found"), false},
	}
	for _, tt := range tests {
		if got := isUniqueConstraintError(tt.err); got != tt.want {
			t.Errorf("isUniqueConstraintError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
