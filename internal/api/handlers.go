// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package api provides the HTTP surface: the JSON API under /api/v1,
// the embedded single-page UI, and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/reeldeck/reeldeck/internal/dataset"
	"github.com/reeldeck/reeldeck/internal/enrich"
	"github.com/reeldeck/reeldeck/internal/models"
	"github.com/reeldeck/reeldeck/internal/recommend"
)

// handlerTimeout bounds each request's work, enrichment included.
const handlerTimeout = 10 * time.Second

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store     *dataset.Store
	engine    *recommend.Engine
	enricher  *enrich.Enricher
	history   *HistoryStore
	version   string
	startedAt time.Time
}

// NewHandler creates the handler set.
func NewHandler(store *dataset.Store, engine *recommend.Engine, enricher *enrich.Enricher, version string) *Handler {
	return &Handler{
		store:     store,
		engine:    engine,
		enricher:  enricher,
		history:   NewHistoryStore(),
		version:   version,
		startedAt: time.Now(),
	}
}

// Close releases handler-owned resources.
func (h *Handler) Close() {
	h.history.Close()
}

// Movies returns catalog titles in dataset order, optionally filtered
// by a case-insensitive prefix and capped by limit.
//
// GET /api/v1/movies?q=&limit=
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := getIntParam(r, "limit", 0)
	if err != nil || limit < 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"limit must be a non-negative integer", nil)
		return
	}

	titles := h.store.Titles()
	if q := r.URL.Query().Get("q"); q != "" {
		prefix := strings.ToLower(q)
		filtered := make([]string, 0, len(titles))
		for _, title := range titles {
			if strings.HasPrefix(strings.ToLower(title), prefix) {
				filtered = append(filtered, title)
			}
		}
		titles = filtered
	}
	total := len(titles)
	if limit > 0 && len(titles) > limit {
		titles = titles[:limit]
	}

	respondSuccess(w, models.MoviesPayload{
		Titles: titles,
		Total:  total,
	}, start)
}

// Recommendations answers a similarity query and decorates the result
// with posters and trailer links.
//
// GET /api/v1/recommendations?title=...&k=5&mode=content
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	title := r.URL.Query().Get("title")
	if title == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"title query parameter is required", nil)
		return
	}

	k, err := getIntParam(r, "k", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	mode := recommend.Mode(r.URL.Query().Get("mode"))
	if mode != "" && !mode.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"mode must be one of content, collaborative, hybrid", nil)
		return
	}

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		Title: title,
		K:     k,
		Mode:  mode,
	})
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrTitleNotFound):
			respondError(w, http.StatusNotFound, "TITLE_NOT_FOUND",
				"title not found in catalog", nil)
		case errors.Is(err, recommend.ErrNotTrained):
			respondError(w, http.StatusServiceUnavailable, "NOT_TRAINED",
				"recommendation model is still training", nil)
		case errors.Is(err, recommend.ErrInvalidMode):
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"invalid recommendation mode", nil)
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"failed to compute recommendations", err)
		}
		return
	}

	h.history.Record(sessionID(w, r), models.HistoryEntry{
		Title:     resp.Query.Title,
		Mode:      resp.Metadata.Mode,
		K:         resp.Metadata.K,
		Timestamp: time.Now(),
	})

	respondSuccess(w, h.buildRecommendationsPayload(ctx, resp), start)
}

// buildRecommendationsPayload enriches the engine response. A failed
// or disabled enrichment leaves the fields empty; it never fails the
// request.
func (h *Handler) buildRecommendationsPayload(ctx context.Context, resp *recommend.Response) models.RecommendationsPayload {
	movies := make([]dataset.Movie, len(resp.Items))
	for i, item := range resp.Items {
		movies[i] = item.Movie
	}
	enrichments := h.enricher.EnrichMovies(ctx, movies)

	items := make([]models.RecommendationItem, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = models.RecommendationItem{
			Title:      item.Movie.Title,
			Genres:     item.Movie.Genres,
			MovieID:    item.Movie.MovieID,
			TMDBID:     item.Movie.TMDBID,
			Score:      item.Score,
			Scores:     item.Scores,
			Enrichment: enrichments[i],
		}
	}

	return models.RecommendationsPayload{
		Query:    resp.Query.Title,
		Mode:     resp.Metadata.Mode,
		K:        resp.Metadata.K,
		Items:    items,
		Metadata: resp.Metadata,
	}
}

// History returns the session's recent queries, newest first.
//
// GET /api/v1/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entries := h.history.Get(sessionID(w, r))
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	respondSuccess(w, models.HistoryPayload{Entries: entries}, start)
}
