// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package api

import (
	"net/http"
	"time"

	"github.com/reeldeck/reeldeck/internal/models"
)

// Health reports overall service health.
//
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "healthy"
	if !h.engine.IsTrained() {
		status = "degraded"
	}

	respondSuccess(w, models.HealthStatus{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Movies:        h.store.NumMovies(),
		Ratings:       h.store.NumRatings(),
		ModelTrained:  h.engine.IsTrained(),
		Enrichment:    h.enricher.Enabled(),
		Timestamp:     time.Now().UTC(),
	}, start)
}

// HealthLive is the liveness probe. It succeeds whenever the process
// can serve HTTP.
//
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// HealthReady is the readiness probe. It fails until the model has
// trained, so load balancers hold traffic during startup.
//
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !h.engine.IsTrained() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not_ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
