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

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/newsdesk/internal/database/query"
	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/search"
	"github.com/tomtom215/newsdesk/internal/store"
)

const articleColumns = `id, title, description, url, url_to_image, published_at,
	source_id, source_name, source_country, category, likes, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		a                                   models.Article
		description, url, urlToImage        sql.NullString
		sourceID, sourceName, sourceCountry sql.NullString
		publishedAt                         sql.NullTime
		likes                               string
	)
	if err := row.Scan(&a.ID, &a.Title, &description, &url, &urlToImage, &publishedAt,
		&sourceID, &sourceName, &sourceCountry, &a.Category, &likes, &a.CreatedAt); err != nil {
		return nil, err
	}

	a.Description = description.String
	a.URL = url.String
	a.URLToImage = urlToImage.String
	a.Source = models.Source{ID: sourceID.String, Name: sourceName.String, Country: sourceCountry.String}
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		a.PublishedAt = &t
	}
	a.CreatedAt = a.CreatedAt.UTC()

	a.Likes = []string{}
	if err := json.Unmarshal([]byte(likes), &a.Likes); err != nil {
		return nil, fmt.Errorf("failed to decode likes for article %s: %w", a.ID, err)
	}
	return &a, nil
}

func (db *DB) queryArticles(ctx context.Context, where string, args ...interface{}) ([]models.Article, error) {
	q := fmt.Sprintf("SELECT %s FROM articles %s ORDER BY published_at DESC NULLS LAST, created_at DESC", articleColumns, where)
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer closeWithLog(rows, "article rows")

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

// Exists reports whether an article with exactly this title is stored.
func (db *DB) Exists(ctx context.Context, title string) (exists bool, err error) {
	defer func(start time.Time) { observe("exists", start, err) }(time.Now())

	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE title = ?", title).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check article title: %w", err)
	}
	return n > 0, nil
}

// InsertIfAbsent stores a unless its title is taken. On insert, a.ID,
// a.Likes and a.CreatedAt are set to the stored values.
func (db *DB) InsertIfAbsent(ctx context.Context, a *models.Article) (inserted bool, err error) {
	defer func(start time.Time) { observe("insert_if_absent", start, err) }(time.Now())

	exists, err := db.Exists(ctx, a.Title)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	id := uuid.NewString()
	createdAt := db.now()

	var publishedAt interface{}
	if a.PublishedAt != nil {
		publishedAt = a.PublishedAt.UTC()
	}

	_, err = db.conn.ExecContext(ctx, `INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '[]', ?)`,
		id, a.Title, nullString(a.Description), nullString(a.URL), nullString(a.URLToImage), publishedAt,
		nullString(a.Source.ID), nullString(a.Source.Name), nullString(a.Source.Country), a.Category, createdAt)
	if err != nil {
		// Another writer stored the same title between Exists and INSERT.
		if isUniqueConstraintError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	a.ID = id
	a.Likes = []string{}
	a.CreatedAt = createdAt
	return true, nil
}

// GetByID returns store.ErrNotFound for unknown ids.
func (db *DB) GetByID(ctx context.Context, id string) (a *models.Article, err error) {
	defer func(start time.Time) { observe("get_by_id", start, err) }(time.Now())

	row := db.conn.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = ?", id)
	a, err = scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

// FindByCategory returns the articles whose category equals category.
func (db *DB) FindByCategory(ctx context.Context, category string) (articles []models.Article, err error) {
	defer func(start time.Time) { observe("find_by_category", start, err) }(time.Now())

	where, args := query.NewWhereBuilder().AddEquals("category", category).BuildWithPrefix()
	return db.queryArticles(ctx, where, args...)
}

// Search renders the criteria to SQL and returns store.ErrNotFound when
// nothing matches.
func (db *DB) Search(ctx context.Context, c models.SearchCriteria) (articles []models.Article, err error) {
	defer func(start time.Time) { observe("search", start, err) }(time.Now())

	where, args := buildSearchWhere(search.Normalize(c))
	articles, err = db.queryArticles(ctx, where, args...)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, store.ErrNotFound
	}
	return articles, nil
}

// Like adds userID to the article's like set.
func (db *DB) Like(ctx context.Context, articleID, userID string) (int, error) {
	return db.mutateLikes(ctx, "like", articleID, func(a *models.Article) bool { return a.AddLike(userID) })
}

// Unlike removes userID from the article's like set.
func (db *DB) Unlike(ctx context.Context, articleID, userID string) (int, error) {
	return db.mutateLikes(ctx, "unlike", articleID, func(a *models.Article) bool { return a.RemoveLike(userID) })
}

// mutateLikes loads the article, applies change and writes the whole like
// set back when it changed. There is no version check between the read
// and the write.
func (db *DB) mutateLikes(ctx context.Context, op, articleID string, change func(*models.Article) bool) (count int, err error) {
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	a, err := db.GetByID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	if !change(a) {
		return a.LikeCount(), nil
	}

	likes, err := json.Marshal(a.Likes)
	if err != nil {
		return 0, fmt.Errorf("failed to encode likes: %w", err)
	}
	res, err := db.conn.ExecContext(ctx, "UPDATE articles SET likes = ? WHERE id = ?", string(likes), articleID)
	if err != nil {
		return 0, fmt.Errorf("failed to update likes: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("article %s: %w", articleID, store.ErrNotFound)
	}
	return a.LikeCount(), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
