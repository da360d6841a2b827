// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/search"
	"github.com/tomtom215/newsdesk/internal/store"
)

// Exists reports whether an article with exactly this title is stored.
func (s *Store) Exists(ctx context.Context, title string) (exists bool, err error) {
	defer func(start time.Time) { observe("exists", start, err) }(time.Now())
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(titleKey(title))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check article title: %w", err)
	}
	return exists, nil
}

// InsertIfAbsent writes the article and its title index in one
// transaction. A concurrent insert of the same title surfaces as a Badger
// transaction conflict and is treated as already present.
func (s *Store) InsertIfAbsent(ctx context.Context, a *models.Article) (inserted bool, err error) {
	defer func(start time.Time) { observe("insert_if_absent", start, err) }(time.Now())
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	rec := *a
	rec.ID = uuid.NewString()
	rec.Likes = []string{}
	rec.CreatedAt = s.now()
	if rec.PublishedAt != nil {
		t := rec.PublishedAt.UTC()
		rec.PublishedAt = &t
	}
	data, err := json.Marshal(&rec)
	if err != nil {
		return false, fmt.Errorf("failed to encode article: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(titleKey(rec.Title))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(titleKey(rec.Title), []byte(rec.ID)); err != nil {
			return err
		}
		if err := txn.Set(articleKey(rec.ID), data); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	if inserted {
		a.ID = rec.ID
		a.Likes = rec.Likes
		a.CreatedAt = rec.CreatedAt
	}
	return inserted, nil
}

func readArticle(txn *badger.Txn, id string) (*models.Article, error) {
	item, err := txn.Get(articleKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("article %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var a models.Article
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &a)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode article %s: %w", id, err)
	}
	if a.Likes == nil {
		a.Likes = []string{}
	}
	return &a, nil
}

// GetByID returns store.ErrNotFound for unknown ids.
func (s *Store) GetByID(ctx context.Context, id string) (a *models.Article, err error) {
	defer func(start time.Time) { observe("get_by_id", start, err) }(time.Now())
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		a, err = readArticle(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// scan decodes every article matching p, newest first.
func (s *Store) scan(ctx context.Context, p search.Predicate) ([]models.Article, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	articles := []models.Article{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixArticle)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var a models.Article
			item := it.Item()
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", item.Key(), err)
			}
			if a.Likes == nil {
				a.Likes = []string{}
			}
			if p(&a) {
				articles = append(articles, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}

	sortNewestFirst(articles)
	return articles, nil
}

// sortNewestFirst orders by published time descending with undated
// articles last, then by creation time descending.
func sortNewestFirst(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		pi, pj := articles[i].PublishedAt, articles[j].PublishedAt
		switch {
		case pi != nil && pj != nil && !pi.Equal(*pj):
			return pi.After(*pj)
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
}

// FindByCategory returns the articles whose category equals category.
func (s *Store) FindByCategory(ctx context.Context, category string) (articles []models.Article, err error) {
	defer func(start time.Time) { observe("find_by_category", start, err) }(time.Now())

	return s.scan(ctx, func(a *models.Article) bool { return a.Category == category })
}

// Search returns store.ErrNotFound when nothing matches.
func (s *Store) Search(ctx context.Context, c models.SearchCriteria) (articles []models.Article, err error) {
	defer func(start time.Time) { observe("search", start, err) }(time.Now())

	articles, err = s.scan(ctx, search.Build(c))
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, store.ErrNotFound
	}
	return articles, nil
}

// Like adds userID to the article's like set.
func (s *Store) Like(ctx context.Context, articleID, userID string) (int, error) {
	return s.mutateLikes(ctx, "like", articleID, func(a *models.Article) bool { return a.AddLike(userID) })
}

// Unlike removes userID from the article's like set.
func (s *Store) Unlike(ctx context.Context, articleID, userID string) (int, error) {
	return s.mutateLikes(ctx, "unlike", articleID, func(a *models.Article) bool { return a.RemoveLike(userID) })
}

// mutateLikes reads in one transaction and writes the whole record in
// another, so it behaves like the SQL backend: concurrent updates to the
// same article are last-writer-wins.
func (s *Store) mutateLikes(ctx context.Context, op, articleID string, change func(*models.Article) bool) (count int, err error) {
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	a, err := s.GetByID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	if !change(a) {
		return a.LikeCount(), nil
	}

	data, err := json.Marshal(a)
	if err != nil {
		return 0, fmt.Errorf("failed to encode article: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(articleKey(articleID), data)
	}); err != nil {
		return 0, fmt.Errorf("failed to update likes: %w", err)
	}
	return a.LikeCount(), nil
}
