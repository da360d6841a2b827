// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/newsdesk/internal/middleware"
	"github.com/tomtom215/newsdesk/internal/models"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the HTTP handler.
//
// /health is the health news category; the probes live under /health/live
// and /health/ready.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, models.ErrorResponse{Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Message: "method not allowed"})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebhook())
		r.Use(APISecurityHeaders())
		r.Use(router.chiMiddleware.Timeout())
		r.Post("/api/webhooks", router.handler.Webhook)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(router.chiMiddleware.Timeout())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/headlines", router.handler.Headlines)
		r.Get("/sports", router.handler.FixedCategory(models.CategorySports))
		r.Get("/health", router.handler.FixedCategory(models.CategoryHealth))
		r.Get("/business", router.handler.FixedCategory(models.CategoryBusiness))
		r.Get("/technology", router.handler.FixedCategory(models.CategoryTechnology))
		r.Get("/categories/{category}", router.handler.Category)
		r.Get("/search", router.handler.Search)

		r.Post("/articles/{id}/like", router.handler.LikeArticle)
		r.Post("/articles/{id}/unlike", router.handler.UnlikeArticle)
	})

	return r
}
