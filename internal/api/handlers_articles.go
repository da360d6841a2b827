// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/newsdesk/internal/logging"
	"github.com/tomtom215/newsdesk/internal/metrics"
	"github.com/tomtom215/newsdesk/internal/models"
	"github.com/tomtom215/newsdesk/internal/store"
)

// Headlines returns general articles, each with its computed likeCount.
func (h *Handler) Headlines(w http.ResponseWriter, r *http.Request) {
	articles, err := h.store.FindByCategory(r.Context(), models.CategoryGeneral)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to fetch headlines", err)
		return
	}
	respondJSON(w, http.StatusOK, models.NewArticleViews(articles))
}

// FixedCategory serves one of the fixed category routes.
func (h *Handler) FixedCategory(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeCategory(w, r, category)
	}
}

// Category serves /categories/{category}. Any category string is accepted;
// an unknown one yields an empty list.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	h.writeCategory(w, r, chi.URLParam(r, "category"))
}

func (h *Handler) writeCategory(w http.ResponseWriter, r *http.Request, category string) {
	articles, err := h.store.FindByCategory(r.Context(), category)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "failed to fetch "+category+" articles", err)
		return
	}
	if articles == nil {
		articles = []models.Article{}
	}
	respondJSON(w, http.StatusOK, articles)
}

// Search filters articles by title, country, category and date. All
// supplied parameters must match; an empty result is a 404.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req := parseSearchRequest(r)
	if err := validate(&req); err != nil {
		respondErr(w, r, err, "")
		return
	}
	criteria, err := req.Criteria(h.location)
	if err != nil {
		respondErr(w, r, err, "")
		return
	}

	articles, err := h.store.Search(r.Context(), criteria)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "no articles match the search criteria", err)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "failed to search articles", err)
		return
	}
	respondJSON(w, http.StatusOK, articles)
}

// LikeArticle adds the body's userId to the article's like set.
func (h *Handler) LikeArticle(w http.ResponseWriter, r *http.Request) {
	h.mutateLikes(w, r, "like", h.store.Like, h.events.ArticleLiked)
}

// UnlikeArticle removes the body's userId from the article's like set.
func (h *Handler) UnlikeArticle(w http.ResponseWriter, r *http.Request) {
	h.mutateLikes(w, r, "unlike", h.store.Unlike, h.events.ArticleUnliked)
}

type likeFunc func(ctx context.Context, articleID, userID string) (int, error)

type likeEventFunc func(ctx context.Context, articleID, userID string, count int)

func (h *Handler) mutateLikes(w http.ResponseWriter, r *http.Request, action string, apply likeFunc, publish likeEventFunc) {
	articleID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req LikeRequest
	err := decodeJSON(w, r, &req)
	if err == nil {
		err = validate(&req)
	}
	if err != nil {
		metrics.RecordLike(action, "bad_request")
		respondErr(w, r, err, "")
		return
	}

	count, err := apply(r.Context(), articleID, req.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordLike(action, "not_found")
		respondError(w, r, http.StatusNotFound, "article not found", err)
		return
	case err != nil:
		metrics.RecordLike(action, "error")
		respondError(w, r, http.StatusInternalServerError, "failed to "+action+" article", err)
		return
	}

	metrics.RecordLike(action, "ok")
	logging.Ctx(r.Context()).Debug().
		Str("article_id", sanitizeLogValue(articleID)).
		Str("action", action).
		Int("likes", count).
		Msg("Article like set updated")
	publish(r.Context(), articleID, req.UserID, count)

	respondJSON(w, http.StatusOK, models.LikesResponse{LikesCount: count})
}
