// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/metrics"
	"github.com/tomtom215/newsdesk/internal/store"
)

// Webhook applies an identity provider user event to the user store.
//
//	user.created  200 created, 400 missing id, 409 already present
//	user.deleted  200 deleted (also when absent), 400 missing id
//	anything else 400 unknown event type
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var ev WebhookEvent
	err := decodeJSON(w, r, &ev)
	if err == nil {
		ev.Data.ID = strings.TrimSpace(ev.Data.ID)
		err = validate(&ev)
	}
	if err != nil {
		metrics.RecordWebhookEvent("invalid", "bad_request")
		respondErr(w, r, err, "")
		return
	}

	switch ev.Type {
	case EventUserCreated:
		h.webhookUserCreated(w, r, &ev)
	case EventUserDeleted:
		h.webhookUserDeleted(w, r, &ev)
	default:
		metrics.RecordWebhookEvent("unknown", "bad_request")
		logging.Ctx(r.Context()).Warn().
			Str("type", sanitizeLogValue(ev.Type)).
			Msg("Ignoring webhook with unknown event type")
		respondError(w, r, http.StatusBadRequest, ErrUnknownEventType.Error(), ErrUnknownEventType)
	}
}

func (h *Handler) webhookUserCreated(w http.ResponseWriter, r *http.Request, ev *WebhookEvent) {
	if err := validate(&userRef{ID: ev.Data.ID}); err != nil {
		metrics.RecordWebhookEvent(ev.Type, "bad_request")
		respondErr(w, r, err, "")
		return
	}

	user := ev.Data.ToUser(h.now())
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			metrics.RecordWebhookEvent(ev.Type, "conflict")
			respondError(w, r, http.StatusConflict, "user already exists", err)
			return
		}
		metrics.RecordWebhookEvent(ev.Type, "error")
		respondError(w, r, http.StatusInternalServerError, "failed to create user", err)
		return
	}

	metrics.RecordWebhookEvent(ev.Type, "ok")
	logging.Ctx(r.Context()).Info().
		Str("external_id", sanitizeLogValue(user.ExternalID)).
		Msg("User created from webhook")
	h.events.UserCreated(r.Context(), user)
	respondMessage(w, "user created")
}

func (h *Handler) webhookUserDeleted(w http.ResponseWriter, r *http.Request, ev *WebhookEvent) {
	ref := userRef{ID: ev.Data.ID}
	if err := validate(&ref); err != nil {
		metrics.RecordWebhookEvent(ev.Type, "bad_request")
		respondErr(w, r, err, "")
		return
	}

	if err := h.store.DeleteUserByExternalID(r.Context(), ref.ID); err != nil {
		metrics.RecordWebhookEvent(ev.Type, "error")
		respondError(w, r, http.StatusInternalServerError, "failed to delete user", err)
		return
	}

	metrics.RecordWebhookEvent(ev.Type, "ok")
	logging.Ctx(r.Context()).Info().
		Str("external_id", sanitizeLogValue(ref.ID)).
		Msg("User deleted from webhook")
	h.events.UserDeleted(r.Context(), ref.ID)
	respondMessage(w, "user deleted")
}
