// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestArticleLikeSet(t *testing.T) {
	t.Parallel()

	a := &Article{Title: "t"}
	if !a.AddLike("u1") {
		t.Fatal("AddLike(u1) = false on empty set")
	}
	if a.AddLike("u1") {
		t.Error("AddLike(u1) twice should report no change")
	}
	a.AddLike("u2")
	if a.LikeCount() != 2 {
		t.Errorf("LikeCount() = %d, want 2", a.LikeCount())
	}
	if !a.RemoveLike("u1") {
		t.Error("RemoveLike(u1) = false, want true")
	}
	if a.RemoveLike("u1") {
		t.Error("RemoveLike(u1) twice should report no change")
	}
	if a.HasLike("u1") || !a.HasLike("u2") {
		t.Errorf("unexpected like set %v", a.Likes)
	}
}

func TestIngestCategoriesOrder(t *testing.T) {
	t.Parallel()

	got := strings.Join(IngestCategories(), ",")
	if got != "general,sports,technology,health,business" {
		t.Errorf("IngestCategories() = %s", got)
	}
}

func TestArticleViewJSON(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	articles := []Article{{
		ID:          "a1",
		Title:       "Markets rally",
		PublishedAt: &published,
		Source:      Source{Name: "Wire"},
		Category:    CategoryGeneral,
		Likes:       []string{"u1", "u2"},
	}}

	data, err := json.Marshal(NewArticleViews(articles))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(data)
	for _, want := range []string{`"likeCount":2`, `"title":"Markets rally"`, `"publishedAt":"2024-01-15T10:00:00Z"`, `"category":"general"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
}

func TestSearchCriteriaIsEmpty(t *testing.T) {
	t.Parallel()

	if !(SearchCriteria{}).IsEmpty() {
		t.Error("zero criteria should be empty")
	}
	d := time.Now()
	if (SearchCriteria{Date: &d}).IsEmpty() {
		t.Error("criteria with date should not be empty")
	}
	if (SearchCriteria{Country: "us"}).IsEmpty() {
		t.Error("criteria with country should not be empty")
	}
}
