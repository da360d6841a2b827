// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package models

import (
	"time"
)

// SearchCriteria holds the optional article search fields. Empty strings
// and a nil Date impose no constraint; everything provided is ANDed.
//
// Title, Country and Category are case-insensitive substring matches.
// Date selects the calendar day it falls on, in Date's own location.
type SearchCriteria struct {
	Title    string
	Country  string
	Category string
	Date     *time.Time
}

// IsEmpty reports whether no field is set.
func (c SearchCriteria) IsEmpty() bool {
	return c.Title == "" && c.Country == "" && c.Category == "" && c.Date == nil
}
