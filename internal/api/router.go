// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reeldeck/reeldeck/internal/config"
)

// NewRouter assembles the chi router: the embedded UI at the root, the
// versioned JSON API, health probes and Prometheus metrics.
func NewRouter(cfg config.SecurityConfig, h *Handler) chi.Router {
	mw := NewMiddleware(cfg)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Get("/", h.UI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)

		// Probes stay outside the rate limit so orchestrators are
		// never throttled.
		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Get("/movies", h.Movies)
			r.Get("/recommendations", h.Recommendations)
			r.Get("/history", h.History)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"method not allowed", nil)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	})

	return r
}
