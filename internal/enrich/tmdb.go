// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reeldeck/reeldeck/internal/metrics"
)

// tmdbProvider labels TMDB calls in metrics.
const tmdbProvider = "tmdb"

// MovieDetails is the subset of the TMDB movie response the service
// uses.
type MovieDetails struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// TMDBClient fetches movie metadata from the TMDB API, protected by a
// circuit breaker.
type TMDBClient struct {
	baseURL       string
	posterBaseURL string
	apiKey        string
	http          *http.Client
	cb            *gobreaker.CircuitBreaker[any]
}

// NewTMDBClient creates a TMDB client. timeout bounds each request.
func NewTMDBClient(baseURL, posterBaseURL, apiKey string, timeout time.Duration) *TMDBClient {
	return &TMDBClient{
		baseURL:       baseURL,
		posterBaseURL: posterBaseURL,
		apiKey:        apiKey,
		http:          &http.Client{Timeout: timeout},
		cb:            newBreaker("tmdb-api"),
	}
}

// GetMovie fetches details for a TMDB movie ID.
func (c *TMDBClient) GetMovie(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	start := time.Now()
	details, err := castResult[MovieDetails](c.cb.Execute(func() (any, error) {
		return c.fetchMovie(ctx, tmdbID)
	}))

	switch {
	case err == nil:
		metrics.RecordEnrichCall(tmdbProvider, "success", time.Since(start))
	case breakerRejected(err):
		metrics.RecordEnrichCall(tmdbProvider, "rejected", time.Since(start))
	default:
		metrics.RecordEnrichCall(tmdbProvider, "failure", time.Since(start))
	}
	return details, err
}

// PosterURL resolves a TMDB poster path to a full image URL. Empty
// paths yield an empty URL.
func (c *TMDBClient) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.posterBaseURL + posterPath
}

func (c *TMDBClient) fetchMovie(ctx context.Context, tmdbID int64) (*MovieDetails, error) {
	u := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, tmdbID, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb returned status %d for movie %d", resp.StatusCode, tmdbID)
	}

	var details MovieDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}
	return &details, nil
}
