// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package storetest is a behavioural test suite every store.Store backend
// must pass. Backends call Run from their own tests with a constructor
// returning a fresh, empty store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/store"
)

// Factory returns an empty store. It is responsible for cleanup.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"InsertIfAbsentIsIdempotent", testInsertIfAbsentIdempotent},
		{"InsertIfAbsentKeepsFirstRecord", testInsertKeepsFirst},
		{"ExistsMatchesExactTitle", testExistsExactTitle},
		{"FindByCategory", testFindByCategory},
		{"SearchEmptyCriteriaReturnsAll", testSearchEmptyCriteria},
		{"SearchNoMatchIsNotFound", testSearchNoMatch},
		{"SearchSubstringFields", testSearchSubstringFields},
		{"SearchDateWindow", testSearchDateWindow},
		{"LikeIsIdempotent", testLikeIdempotent},
		{"LikeThenUnlikeRestoresCount", testLikeUnlikeRoundTrip},
		{"UnlikeAbsentUserIsNoop", testUnlikeAbsent},
		{"LikeUnknownArticleIsNotFound", testLikeUnknownArticle},
		{"DanglingLikesTolerated", testDanglingLikes},
		{"CreateUserConflict", testCreateUserConflict},
		{"DeleteUnknownUserIsNoop", testDeleteUnknownUser},
		{"DeleteThenRecreateUser", testDeleteThenRecreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func timePtr(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func dayIn(s string, loc *time.Location) *time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		panic(err)
	}
	return &t
}

func mustInsert(t *testing.T, s store.Store, a models.Article) *models.Article {
	t.Helper()
	inserted, err := s.InsertIfAbsent(context.Background(), &a)
	if err != nil {
		t.Fatalf("InsertIfAbsent(%q) error = %v", a.Title, err)
	}
	if !inserted {
		t.Fatalf("InsertIfAbsent(%q) = false, want true", a.Title)
	}
	if a.ID == "" {
		t.Fatalf("InsertIfAbsent(%q) did not assign an id", a.Title)
	}
	return &a
}

func titles(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title
	}
	sort.Strings(out)
	return out
}

func checkTitles(t *testing.T, got []models.Article, want ...string) {
	t.Helper()
	sort.Strings(want)
	g := titles(got)
	if fmt.Sprint(g) != fmt.Sprint(want) {
		t.Errorf("titles = %v, want %v", g, want)
	}
}

func seed(t *testing.T, s store.Store) {
	t.Helper()
	mustInsert(t, s, models.Article{
		Title: "Stocks rally on rate cut", Category: models.CategoryBusiness,
		Source: models.Source{ID: "wire", Name: "Wire", Country: "US"}, PublishedAt: timePtr("2024-01-15T10:00:00Z"),
	})
	mustInsert(t, s, models.Article{
		Title: "Cup final preview", Category: models.CategorySports,
		Source: models.Source{Name: "Sports Daily", Country: "gb"}, PublishedAt: timePtr("2024-01-16T00:00:01Z"),
	})
	mustInsert(t, s, models.Article{
		Title: "New chip unveiled", Category: models.CategoryTechnology,
		Source: models.Source{Name: "Tech Today", Country: "us"},
	})
}

func testInsertIfAbsentIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := models.Article{Title: "Only once", Category: models.CategoryGeneral}

	first, err := s.InsertIfAbsent(ctx, &a)
	if err != nil || !first {
		t.Fatalf("first InsertIfAbsent = (%v, %v), want (true, nil)", first, err)
	}
	dup := models.Article{Title: "Only once", Category: models.CategoryGeneral}
	second, err := s.InsertIfAbsent(ctx, &dup)
	if err != nil {
		t.Fatalf("second InsertIfAbsent error = %v", err)
	}
	if second {
		t.Error("second InsertIfAbsent = true, want false")
	}

	got, err := s.FindByCategory(ctx, models.CategoryGeneral)
	if err != nil {
		t.Fatalf("FindByCategory error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("stored %d records, want 1", len(got))
	}
	if got[0].LikeCount() != 0 {
		t.Errorf("new article has %d likes, want 0", got[0].LikeCount())
	}
}

func testInsertKeepsFirst(t *testing.T, s store.Store) {
	ctx := context.Background()
	orig := mustInsert(t, s, models.Article{Title: "Same title", Description: "first", Category: models.CategoryHealth})

	if _, err := s.InsertIfAbsent(ctx, &models.Article{Title: "Same title", Description: "second", Category: models.CategorySports}); err != nil {
		t.Fatalf("InsertIfAbsent error = %v", err)
	}

	got, err := s.GetByID(ctx, orig.ID)
	if err != nil {
		t.Fatalf("GetByID error = %v", err)
	}
	if got.Description != "first" || got.Category != models.CategoryHealth {
		t.Errorf("existing record was modified: %+v", got)
	}
}

func testExistsExactTitle(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustInsert(t, s, models.Article{Title: "Exact Title", Category: models.CategoryGeneral})

	tests := []struct {
		title string
		want  bool
	}{
		{"Exact Title", true},
		{"exact title", false},
		{"Exact", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := s.Exists(ctx, tt.title)
		if err != nil {
			t.Fatalf("Exists(%q) error = %v", tt.title, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func testFindByCategory(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed(t, s)
	mustInsert(t, s, models.Article{Title: "Local bake sale", Category: "community"})

	got, err := s.FindByCategory(ctx, models.CategorySports)
	if err != nil {
		t.Fatalf("FindByCategory error = %v", err)
	}
	checkTitles(t, got, "Cup final preview")

	got, err = s.FindByCategory(ctx, "community")
	if err != nil {
		t.Fatalf("FindByCategory(community) error = %v", err)
	}
	checkTitles(t, got, "Local bake sale")

	got, err = s.FindByCategory(ctx, "Sports")
	if err != nil {
		t.Fatalf("FindByCategory(Sports) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("category match should be exact, got %v", titles(got))
	}
}

func testSearchEmptyCriteria(t *testing.T, s store.Store) {
	seed(t, s)
	got, err := s.Search(context.Background(), models.SearchCriteria{})
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	checkTitles(t, got, "Stocks rally on rate cut", "Cup final preview", "New chip unveiled")
}

func testSearchNoMatch(t *testing.T, s store.Store) {
	ctx := context.Background()

	if _, err := s.Search(ctx, models.SearchCriteria{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Search on empty store error = %v, want ErrNotFound", err)
	}

	seed(t, s)
	_, err := s.Search(ctx, models.SearchCriteria{Title: "election"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Search error = %v, want ErrNotFound", err)
	}
}

func testSearchSubstringFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed(t, s)

	tests := []struct {
		name     string
		criteria models.SearchCriteria
		want     []string
	}{
		{"title case-insensitive", models.SearchCriteria{Title: "RALLY"}, []string{"Stocks rally on rate cut"}},
		{"country case-insensitive", models.SearchCriteria{Country: "us"}, []string{"Stocks rally on rate cut", "New chip unveiled"}},
		{"category substring", models.SearchCriteria{Category: "tech"}, []string{"New chip unveiled"}},
		{"fields are ANDed", models.SearchCriteria{Country: "US", Category: "business"}, []string{"Stocks rally on rate cut"}},
		{"like wildcard is literal", models.SearchCriteria{Title: "%"}, nil},
	}

	for _, tt := range tests {
		got, err := s.Search(ctx, tt.criteria)
		if len(tt.want) == 0 {
			if !errors.Is(err, store.ErrNotFound) {
				t.Errorf("%s: error = %v, want ErrNotFound", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: Search error = %v", tt.name, err)
		}
		checkTitles(t, got, tt.want...)
	}
}

func testSearchDateWindow(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed(t, s)

	got, err := s.Search(ctx, models.SearchCriteria{Date: dayIn("2024-01-15", time.UTC)})
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	checkTitles(t, got, "Stocks rally on rate cut")

	mustInsert(t, s, models.Article{Title: "Late edition", Category: models.CategoryGeneral, PublishedAt: timePtr("2024-01-15T23:59:59.999Z")})
	got, err = s.Search(ctx, models.SearchCriteria{Date: dayIn("2024-01-15", time.UTC)})
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	checkTitles(t, got, "Stocks rally on rate cut", "Late edition")

	_, err = s.Search(ctx, models.SearchCriteria{Date: dayIn("2024-01-14", time.UTC)})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Search(2024-01-14) error = %v, want ErrNotFound", err)
	}
}

func testLikeIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustInsert(t, s, models.Article{Title: "Likeable", Category: models.CategoryGeneral})

	n, err := s.Like(ctx, a.ID, "u1")
	if err != nil || n != 1 {
		t.Fatalf("Like = (%d, %v), want (1, nil)", n, err)
	}
	n, err = s.Like(ctx, a.ID, "u1")
	if err != nil || n != 1 {
		t.Errorf("second Like = (%d, %v), want (1, nil)", n, err)
	}
	n, err = s.Like(ctx, a.ID, "u2")
	if err != nil || n != 2 {
		t.Errorf("Like(u2) = (%d, %v), want (2, nil)", n, err)
	}

	got, err := s.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID error = %v", err)
	}
	if !got.HasLike("u1") || !got.HasLike("u2") || got.LikeCount() != 2 {
		t.Errorf("stored likes = %v, want [u1 u2]", got.Likes)
	}
}

func testLikeUnlikeRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustInsert(t, s, models.Article{Title: "Round trip", Category: models.CategoryGeneral})
	if _, err := s.Like(ctx, a.ID, "existing"); err != nil {
		t.Fatalf("Like error = %v", err)
	}

	before, err := s.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID error = %v", err)
	}
	if _, err := s.Like(ctx, a.ID, "u9"); err != nil {
		t.Fatalf("Like error = %v", err)
	}
	n, err := s.Unlike(ctx, a.ID, "u9")
	if err != nil {
		t.Fatalf("Unlike error = %v", err)
	}
	if n != before.LikeCount() {
		t.Errorf("count after like+unlike = %d, want %d", n, before.LikeCount())
	}
}

func testUnlikeAbsent(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustInsert(t, s, models.Article{Title: "Unliked", Category: models.CategoryGeneral})

	n, err := s.Unlike(ctx, a.ID, "never-liked")
	if err != nil {
		t.Fatalf("Unlike error = %v", err)
	}
	if n != 0 {
		t.Errorf("Unlike count = %d, want 0", n)
	}
}

func testLikeUnknownArticle(t *testing.T, s store.Store) {
	ctx := context.Background()
	if _, err := s.Like(ctx, "missing-id", "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Like error = %v, want ErrNotFound", err)
	}
	if _, err := s.Unlike(ctx, "missing-id", "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Unlike error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetByID(ctx, "missing-id"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
}

func testDanglingLikes(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustInsert(t, s, models.Article{Title: "Dangling", Category: models.CategoryGeneral})

	if err := s.CreateUser(ctx, &models.User{ExternalID: "gone"}); err != nil {
		t.Fatalf("CreateUser error = %v", err)
	}
	if _, err := s.Like(ctx, a.ID, "gone"); err != nil {
		t.Fatalf("Like error = %v", err)
	}
	if err := s.DeleteUserByExternalID(ctx, "gone"); err != nil {
		t.Fatalf("DeleteUserByExternalID error = %v", err)
	}
	if _, err := s.Like(ctx, a.ID, "never-existed"); err != nil {
		t.Fatalf("Like for unknown user error = %v", err)
	}

	got, err := s.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID error = %v", err)
	}
	if got.LikeCount() != 2 || !got.HasLike("gone") {
		t.Errorf("likes = %v, want dangling ids kept", got.Likes)
	}
	n, err := s.Unlike(ctx, a.ID, "gone")
	if err != nil || n != 1 {
		t.Errorf("Unlike dangling = (%d, %v), want (1, nil)", n, err)
	}
}

func testCreateUserConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := &models.User{ExternalID: "u1", FirstName: "A", LastName: "B", Email: "a@b.com"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser error = %v", err)
	}

	err := s.CreateUser(ctx, &models.User{ExternalID: "u1", FirstName: "A", LastName: "B", Email: "a@b.com"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate CreateUser error = %v, want ErrConflict", err)
	}

	got, err := s.GetUserByExternalID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserByExternalID error = %v", err)
	}
	if got.Email != "a@b.com" || got.FirstName != "A" || got.LastName != "B" {
		t.Errorf("stored user = %+v", got)
	}
}

func testDeleteUnknownUser(t *testing.T, s store.Store) {
	if err := s.DeleteUserByExternalID(context.Background(), "nobody"); err != nil {
		t.Errorf("DeleteUserByExternalID error = %v, want nil", err)
	}
}

func testDeleteThenRecreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	if err := s.CreateUser(ctx, &models.User{ExternalID: "u2"}); err != nil {
		t.Fatalf("CreateUser error = %v", err)
	}
	if err := s.DeleteUserByExternalID(ctx, "u2"); err != nil {
		t.Fatalf("DeleteUserByExternalID error = %v", err)
	}
	if _, err := s.GetUserByExternalID(ctx, "u2"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserByExternalID after delete error = %v, want ErrNotFound", err)
	}
	if err := s.CreateUser(ctx, &models.User{ExternalID: "u2"}); err != nil {
		t.Errorf("re-create after delete error = %v", err)
	}
}
