// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package models defines the article and user records shared by the
// store backends, the ingest pipeline and the HTTP API.
package models

import (
	"time"
)

// Fixed ingest categories. Any other string is still a valid category on
// the generic /categories/{category} route.
const (
	CategoryGeneral    = "general"
	CategorySports     = "sports"
	CategoryTechnology = "technology"
	CategoryHealth     = "health"
	CategoryBusiness   = "business"
)

// IngestCategories is the order the startup ingest walks categories in.
func IngestCategories() []string {
	return []string{
		CategoryGeneral,
		CategorySports,
		CategoryTechnology,
		CategoryHealth,
		CategoryBusiness,
	}
}

// Source identifies the publisher of an article.
type Source struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Country string `json:"country,omitempty"`
}

// Article is a stored headline. Title is unique across the store.
//
// Likes holds user ids with set semantics. Ids are opaque and are not
// checked against the user store, so a like can outlive its user.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	URLToImage  string     `json:"urlToImage,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Source      Source     `json:"source"`
	Category    string     `json:"category"`
	Likes       []string   `json:"likes"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LikeCount returns the size of the like set.
func (a *Article) LikeCount() int {
	return len(a.Likes)
}

// HasLike reports whether userID is in the like set.
func (a *Article) HasLike(userID string) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// AddLike inserts userID into the like set. It returns false when the id
// was already present and nothing changed.
func (a *Article) AddLike(userID string) bool {
	if a.HasLike(userID) {
		return false
	}
	a.Likes = append(a.Likes, userID)
	return true
}

// RemoveLike deletes userID from the like set. It returns false when the
// id was absent.
func (a *Article) RemoveLike(userID string) bool {
	for i, id := range a.Likes {
		if id == userID {
			a.Likes = append(a.Likes[:i], a.Likes[i+1:]...)
			return true
		}
	}
	return false
}

// ArticleView is the /headlines representation: the stored article plus
// its computed like count.
type ArticleView struct {
	*Article
	LikeCount int `json:"likeCount"`
}

// NewArticleViews wraps articles with their like counts.
func NewArticleViews(articles []Article) []ArticleView {
	views := make([]ArticleView, len(articles))
	for i := range articles {
		views[i] = ArticleView{Article: &articles[i], LikeCount: articles[i].LikeCount()}
	}
	return views
}
