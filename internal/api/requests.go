// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/validation"
)

// maxBodyBytes caps webhook and like request bodies.
const maxBodyBytes = 1 << 20

// searchDateLayout is the only accepted form of the search date parameter.
const searchDateLayout = "2006-01-02"

// Identity provider event types.
const (
	EventUserCreated = "user.created"
	EventUserDeleted = "user.deleted"
)

// WebhookEvent is an identity provider delivery:
//
//	{"type": "user.created", "data": {"id": "user_2x", "first_name": "Ada", ...}}
type WebhookEvent struct {
	Type string      `json:"type" validate:"notblank"`
	Data WebhookUser `json:"data"`
}

// WebhookUser is the account carried by a WebhookEvent.
type WebhookUser struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []WebhookEmail `json:"email_addresses"`
}

// WebhookEmail accepts both field spellings providers use.
type WebhookEmail struct {
	Email        string `json:"email"`
	EmailAddress string `json:"email_address"`
}

// Address returns whichever spelling is set.
func (e WebhookEmail) Address() string {
	if e.EmailAddress != "" {
		return e.EmailAddress
	}
	return e.Email
}

// PrimaryEmail returns the first address in the list, or "".
func (u *WebhookUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].Address()
}

// ToUser maps the account onto a stored user.
func (u *WebhookUser) ToUser(now time.Time) *models.User {
	return &models.User{
		ExternalID: strings.TrimSpace(u.ID),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.PrimaryEmail(),
		CreatedAt:  now.UTC(),
	}
}

// userRef validates the account id of created and deleted events.
type userRef struct {
	ID string `json:"id" validate:"notblank"`
}

// LikeRequest is the body of like and unlike.
type LikeRequest struct {
	UserID string `json:"userId" validate:"notblank"`
}

// SearchRequest holds the /search query parameters.
type SearchRequest struct {
	Title    string `json:"title"`
	Country  string `json:"country"`
	Category string `json:"category"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func parseSearchRequest(r *http.Request) SearchRequest {
	q := r.URL.Query()
	return SearchRequest{
		Title:    strings.TrimSpace(q.Get("title")),
		Country:  strings.TrimSpace(q.Get("country")),
		Category: strings.TrimSpace(q.Get("category")),
		Date:     strings.TrimSpace(q.Get("date")),
	}
}

// Criteria resolves the request into search criteria. The date names a
// calendar day in loc.
func (s *SearchRequest) Criteria(loc *time.Location) (models.SearchCriteria, error) {
	c := models.SearchCriteria{
		Title:    s.Title,
		Country:  s.Country,
		Category: s.Category,
	}
	if s.Date == "" {
		return c, nil
	}
	day, err := time.ParseInLocation(searchDateLayout, s.Date, loc)
	if err != nil {
		return c, badRequest("date must be a date in YYYY-MM-DD format")
	}
	c.Date = &day
	return c, nil
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched so
// that validation reports the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest("request body exceeds %d bytes", tooLarge.Limit)
		}
		return badRequest("invalid JSON payload")
	}
	return nil
}

// validate runs struct validation and reports the first failure as a
// bad request.
func validate(v interface{}) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return badRequest("%s", verr.Message())
	}
	return nil
}
