// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

// Package api provides HTTP routing and handlers using the Chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tastevin-app/tastevin/internal/config"
)

// NewRouter assembles the full route tree over a handler.
func NewRouter(h *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health endpoints: permissive rate limit for monitoring.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, cfg.RateLimitWindow))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(prometheusMetrics)

		r.Post("/seen", h.MarkSeen)
		r.Get("/users/{userID}/preferences", h.Preferences)
		r.Get("/users/{userID}/profile", h.Profile)
		r.Get("/compatibility", h.Compatibility)

		r.Post("/friends/request", h.RequestFriend)
		r.Post("/friends/respond", h.RespondFriend)
		r.Get("/users/{userID}/friends", h.Friends)

		r.Post("/versus", h.CreateMatch)
		r.Post("/versus/{matchID}/choice", h.SubmitChoice)
		r.Get("/versus/{matchID}", h.MatchResults)
		r.Get("/users/{userID}/versus", h.Matches)

		r.Get("/search", h.Search)
		r.Get("/trending", h.Trending)
		r.Get("/content/{externalID}", h.ContentDetails)

		r.Post("/items", h.CreateItem)
		r.Get("/items", h.ListItems)
		r.Get("/items/{itemID}", h.GetItem)
		r.Post("/items/{itemID}/enrich", h.EnrichItem)
	})

	// Admin endpoints: cache maintenance and introspection.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(httprate.LimitByIP(60, cfg.RateLimitWindow))

		r.Get("/cache/metrics", h.CacheMetrics)
		r.Post("/cache/metrics/reset", h.CacheMetricsReset)
		r.Post("/cache/sweep", h.CacheSweep)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
