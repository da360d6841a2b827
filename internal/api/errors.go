// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/newsdesk/internal/store"
)

var (
	// ErrBadRequest marks malformed or incomplete client input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnknownEventType is returned for webhook types other than
	// user.created and user.deleted.
	ErrUnknownEventType = errors.New("unknown event type")
)

// requestError is client input rejected with a message safe to echo back.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func (e *requestError) Is(target error) bool {
	return target == ErrBadRequest
}

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// statusForError maps store and request errors onto HTTP status codes.
// Anything unrecognized, including store.ErrUnavailable, is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrUnknownEventType):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
