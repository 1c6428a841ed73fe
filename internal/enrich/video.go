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

// videoProvider labels video search calls in metrics.
const videoProvider = "video_search"

// Trailer is the top video search result for a movie.
type Trailer struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// videoSearchResponse mirrors the YouTube Data API v3 search response.
type videoSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// VideoClient searches for movie trailers via the YouTube Data API v3,
// protected by a circuit breaker.
type VideoClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[any]
}

// NewVideoClient creates a video search client.
func NewVideoClient(baseURL, apiKey string, timeout time.Duration) *VideoClient {
	return &VideoClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		cb:      newBreaker("video-search-api"),
	}
}

// SearchTrailer returns the top search hit for "<title> trailer". A
// search with no results yields a zero-valued Trailer, not an error.
func (c *VideoClient) SearchTrailer(ctx context.Context, title string) (*Trailer, error) {
	start := time.Now()
	trailer, err := castResult[Trailer](c.cb.Execute(func() (any, error) {
		return c.search(ctx, title+" trailer")
	}))

	switch {
	case err == nil:
		metrics.RecordEnrichCall(videoProvider, "success", time.Since(start))
	case breakerRejected(err):
		metrics.RecordEnrichCall(videoProvider, "rejected", time.Since(start))
	default:
		metrics.RecordEnrichCall(videoProvider, "failure", time.Since(start))
	}
	return trailer, err
}

func (c *VideoClient) search(ctx context.Context, query string) (*Trailer, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build video search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video search failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video search returned status %d", resp.StatusCode)
	}

	var body videoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode video search response: %w", err)
	}

	if len(body.Items) == 0 || body.Items[0].ID.VideoID == "" {
		// No hit is a valid outcome, not a provider failure.
		return &Trailer{}, nil
	}

	item := body.Items[0]
	return &Trailer{
		VideoID: item.ID.VideoID,
		Title:   item.Snippet.Title,
		URL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
	}, nil
}
