// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package search turns a models.SearchCriteria into an article predicate.
//
// Each provided criterion becomes one sub-predicate and the results are
// combined with All, so a backend that can only scan (Badger) evaluates
// the criteria directly while a SQL backend renders the same Terms into a
// WHERE clause. Both paths share DayWindow so date matching is identical.
package search

import (
	"strings"
	"time"

	"github.com/tomtom215/newsdesk/internal/models"
)

// Predicate reports whether an article satisfies a condition.
type Predicate func(*models.Article) bool

// All is the conjunction of preds. With no predicates it matches everything.
func All(preds ...Predicate) Predicate {
	return func(a *models.Article) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// Field names a searchable article attribute.
type Field string

const (
	FieldTitle    Field = "title"
	FieldCountry  Field = "country"
	FieldCategory Field = "category"
)

// Term is one substring condition. Needle is already lowercased.
type Term struct {
	Field  Field
	Needle string
}

// Window is an inclusive published-at range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Query is the normalized form of a SearchCriteria.
type Query struct {
	Terms []Term
	Date  *Window
}

// Normalize drops empty fields and lowercases needles.
func Normalize(c models.SearchCriteria) Query {
	var q Query
	add := func(f Field, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Terms = append(q.Terms, Term{Field: f, Needle: strings.ToLower(v)})
		}
	}
	add(FieldTitle, c.Title)
	add(FieldCountry, c.Country)
	add(FieldCategory, c.Category)
	if c.Date != nil {
		w := DayWindow(*c.Date)
		q.Date = &w
	}
	return q
}

// DayWindow returns [00:00:00.000, 23:59:59.999] of the calendar day d
// falls on, in d's location.
func DayWindow(d time.Time) Window {
	y, m, day := d.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, d.Location())
	end := time.Date(y, m, day, 23, 59, 59, int(999*time.Millisecond), d.Location())
	return Window{Start: start, End: end}
}

// Contains reports whether t is inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Predicate builds the conjunction for q.
func (q Query) Predicate() Predicate {
	preds := make([]Predicate, 0, len(q.Terms)+1)
	for _, t := range q.Terms {
		preds = append(preds, substring(t))
	}
	if q.Date != nil {
		w := *q.Date
		preds = append(preds, func(a *models.Article) bool {
			return a.PublishedAt != nil && w.Contains(*a.PublishedAt)
		})
	}
	return All(preds...)
}

// Build is Normalize(c).Predicate().
func Build(c models.SearchCriteria) Predicate {
	return Normalize(c).Predicate()
}

func substring(t Term) Predicate {
	return func(a *models.Article) bool {
		return strings.Contains(strings.ToLower(fieldValue(a, t.Field)), t.Needle)
	}
}

func fieldValue(a *models.Article, f Field) string {
	switch f {
	case FieldTitle:
		return a.Title
	case FieldCountry:
		return a.Source.Country
	case FieldCategory:
		return a.Category
	default:
		return ""
	}
}

// Filter returns the articles matching p, preserving order.
func Filter(articles []models.Article, p Predicate) []models.Article {
	out := make([]models.Article, 0, len(articles))
	for i := range articles {
		if p(&articles[i]) {
			out = append(out, articles[i])
		}
	}
	return out
}
