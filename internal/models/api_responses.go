// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package models

// MessageResponse is the body of webhook acknowledgements.
//
//	{"success": true, "message": "user created"}
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request. Error carries the
// underlying cause for internal failures and is omitted otherwise.
//
//	{"success": false, "message": "article not found"}
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// LikesResponse is returned by like and unlike.
type LikesResponse struct {
	LikesCount int `json:"likesCount"`
}

// HealthResponse is returned by the probe endpoints.
type HealthResponse struct {
	Status string  `json:"status"`
	Store  string  `json:"store,omitempty"`
	Uptime float64 `json:"uptime"`
}
