// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package database

import (
	"github.com/tomtom215/newsdesk/internal/database/query"
	"github.com/tomtom215/newsdesk/internal/search"
)

var searchColumns = map[search.Field]string{
	search.FieldTitle:    "title",
	search.FieldCountry:  "source_country",
	search.FieldCategory: "category",
}

// buildSearchWhere renders a normalized search query as a WHERE clause.
// It applies the same conditions search.Query.Predicate evaluates in memory.
func buildSearchWhere(q search.Query) (string, []interface{}) {
	wb := query.NewWhereBuilder()
	for _, t := range q.Terms {
		wb.AddContains(searchColumns[t.Field], t.Needle)
	}
	if q.Date != nil {
		wb.AddBetween("published_at", q.Date.Start, q.Date.End)
	}
	return wb.BuildWithPrefix()
}
