// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package models defines the HTTP API payload types.
package models

import (
	"time"

	"github.com/reeldeck/reeldeck/internal/enrich"
	"github.com/reeldeck/reeldeck/internal/recommend"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a structured error with a machine-readable code.
//
// Common codes: VALIDATION_ERROR, TITLE_NOT_FOUND, NOT_TRAINED,
// METHOD_NOT_ALLOWED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MoviesPayload lists the catalog titles for the selection dropdown.
type MoviesPayload struct {
	Titles []string `json:"titles"`
	Total  int      `json:"total"`
}

// RecommendationItem is one recommended movie with its optional
// enrichment.
type RecommendationItem struct {
	Title      string             `json:"title"`
	Genres     string             `json:"genres"`
	MovieID    int64              `json:"movie_id"`
	TMDBID     int64              `json:"tmdb_id,omitempty"`
	Score      float64            `json:"score"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Enrichment enrich.Enrichment  `json:"enrichment"`
}

// RecommendationsPayload is the recommendations endpoint response body.
type RecommendationsPayload struct {
	Query    string                     `json:"query"`
	Mode     string                     `json:"mode"`
	K        int                        `json:"k"`
	Items    []RecommendationItem       `json:"items"`
	Metadata recommend.ResponseMetadata `json:"engine_metadata"`
}

// HistoryEntry records one past recommendation query for a session.
type HistoryEntry struct {
	Title     string    `json:"title"`
	Mode      string    `json:"mode"`
	K         int       `json:"k"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryPayload lists a session's recent queries, newest first.
type HistoryPayload struct {
	Entries []HistoryEntry `json:"entries"`
}

// HealthStatus is the health endpoint response body.
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Movies        int       `json:"movies"`
	Ratings       int       `json:"ratings"`
	ModelTrained  bool      `json:"model_trained"`
	Enrichment    bool      `json:"enrichment_enabled"`
	Timestamp     time.Time `json:"timestamp"`
}
