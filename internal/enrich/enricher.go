// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package enrich decorates recommendations with poster art and
// trailer links from outbound APIs.
//
// Enrichment is strictly best-effort: a missing API key disables the
// provider, a failed lookup leaves the corresponding fields empty, and
// a flapping provider is fenced off by a circuit breaker. The
// recommendation itself never fails because enrichment did.
package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/reeldeck/reeldeck/internal/cache"
	"github.com/reeldeck/reeldeck/internal/config"
	"github.com/reeldeck/reeldeck/internal/dataset"
)

// maxConcurrent bounds parallel enrichment lookups per request.
const maxConcurrent = 4

// Enrichment holds the optional decoration for one movie. Empty
// fields mean the lookup was skipped or failed.
type Enrichment struct {
	PosterURL    string  `json:"poster_url,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	TrailerURL   string  `json:"trailer_url,omitempty"`
	TrailerTitle string  `json:"trailer_title,omitempty"`
}

// Enricher coordinates the enrichment providers and caches results.
type Enricher struct {
	tmdb   *TMDBClient
	video  *VideoClient
	cache  *cache.Cache
	logger zerolog.Logger
}

// New creates an Enricher from the enrichment config. Providers
// without an API key stay nil and are skipped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg config.EnrichConfig, logger zerolog.Logger) *Enricher {
	e := &Enricher{
		cache:  cache.New("enrich", cfg.CacheTTL),
		logger: logger.With().Str("component", "enrich").Logger(),
	}
	if cfg.TMDBAPIKey != "" {
		e.tmdb = NewTMDBClient(cfg.TMDBBaseURL, cfg.PosterBaseURL, cfg.TMDBAPIKey, cfg.Timeout)
	} else {
		e.logger.Info().Msg("tmdb api key not set, poster enrichment disabled")
	}
	if cfg.VideoAPIKey != "" {
		e.video = NewVideoClient(cfg.VideoBaseURL, cfg.VideoAPIKey, cfg.Timeout)
	} else {
		e.logger.Info().Msg("video api key not set, trailer enrichment disabled")
	}
	return e
}

// Close releases the enrichment cache.
func (e *Enricher) Close() {
	e.cache.Close()
}

// Enabled reports whether any provider is configured.
func (e *Enricher) Enabled() bool {
	return e.tmdb != nil || e.video != nil
}

// EnrichMovies decorates movies concurrently. The returned slice is
// parallel to the input; entries for failed lookups are zero-valued.
func (e *Enricher) EnrichMovies(ctx context.Context, movies []dataset.Movie) []Enrichment {
	out := make([]Enrichment, len(movies))
	if !e.Enabled() || len(movies) == 0 {
		return out
	}

	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	for i := range movies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = e.enrichMovie(ctx, movies[i])
		}(i)
	}
	wg.Wait()
	return out
}

// enrichMovie decorates a single movie, serving from cache when the
// entry is fresh. Provider failures are logged and degrade to empty
// fields.
func (e *Enricher) enrichMovie(ctx context.Context, movie dataset.Movie) Enrichment {
	key := fmt.Sprintf("movie:%d", movie.MovieID)
	if val, ok := e.cache.Get(key); ok {
		if cached, ok := val.(Enrichment); ok {
			return cached
		}
	}

	var result Enrichment
	complete := true

	if e.tmdb != nil && movie.TMDBID != 0 {
		details, err := e.tmdb.GetMovie(ctx, movie.TMDBID)
		if err != nil {
			complete = false
			e.logger.Warn().
				Err(err).
				Int64("tmdb_id", movie.TMDBID).
				Str("title", movie.Title).
				Msg("tmdb lookup failed")
		} else {
			result.PosterURL = e.tmdb.PosterURL(details.PosterPath)
			result.Overview = details.Overview
			result.VoteAverage = details.VoteAverage
		}
	}

	if e.video != nil {
		trailer, err := e.video.SearchTrailer(ctx, movie.Title)
		if err != nil {
			complete = false
			e.logger.Warn().
				Err(err).
				Str("title", movie.Title).
				Msg("trailer search failed")
		} else if trailer.VideoID != "" {
			result.TrailerURL = trailer.URL
			result.TrailerTitle = trailer.Title
		}
	}

	// Only fully resolved results are cached, so transient failures
	// are retried on the next request.
	if complete {
		e.cache.Set(key, result)
	}
	return result
}

// CacheStats exposes enrichment cache counters for the health report.
func (e *Enricher) CacheStats() cache.Stats {
	return e.cache.GetStats()
}
