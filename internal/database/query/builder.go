// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

// Package query builds parameterized SQL fragments for the database package.
package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder accumulates AND-ed conditions with positional arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddContains("title", "rally")
//	wb.AddBetween("published_at", start, end)
//	where, args := wb.BuildWithPrefix()
//	// WHERE contains(lower(title), ?) AND published_at BETWEEN ? AND ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(fmt.Sprintf("%s = ?", column), value)
}

// AddContains adds a case-insensitive substring match. The needle is bound
// as a parameter and lowercased here, so LIKE wildcards in it match literally.
func (wb *WhereBuilder) AddContains(column, needle string) *WhereBuilder {
	return wb.AddClause(fmt.Sprintf("contains(lower(COALESCE(%s, '')), ?)", column), strings.ToLower(needle))
}

// AddBetween adds an inclusive range on a timestamp column. Bounds are
// converted to UTC to match how timestamps are stored.
func (wb *WhereBuilder) AddBetween(column string, start, end time.Time) *WhereBuilder {
	return wb.AddClause(fmt.Sprintf("%s BETWEEN ? AND ?", column), start.UTC(), end.UTC())
}

// Build joins the clauses with AND. With no clauses it returns "1=1".
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	where, args := wb.Build()
	return "WHERE " + where, args
}
