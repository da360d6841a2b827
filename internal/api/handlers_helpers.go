// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/models"
)

// sanitizeLogValue escapes control characters so client-supplied values
// cannot forge log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes v with the given status.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondMessage writes {"success": true, "message": ...}.
func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, models.MessageResponse{Success: true, Message: message})
}

// respondError writes {"success": false, "message": ...}. Server-side
// failures also carry the cause in "error" and are logged.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := models.ErrorResponse{Success: false, Message: message}

	if status >= http.StatusInternalServerError && err != nil {
		resp.Error = err.Error()
		logging.Ctx(r.Context()).Error().
			Int("status", status).
			Str("method", r.Method).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, resp)
}

// respondErr derives the status from err. Bad requests echo their own
// message; other failures use fallback.
func respondErr(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusForError(err)
	message := fallback
	if status == http.StatusBadRequest {
		message = err.Error()
	}
	respondError(w, r, status, message, err)
}
