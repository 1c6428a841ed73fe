// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/reeldeck/reeldeck/internal/config"
	"github.com/reeldeck/reeldeck/internal/dataset"
	"github.com/reeldeck/reeldeck/internal/enrich"
	"github.com/reeldeck/reeldeck/internal/logging"
	"github.com/reeldeck/reeldeck/internal/models"
	"github.com/reeldeck/reeldeck/internal/recommend"
	"github.com/reeldeck/reeldeck/internal/recommend/algorithms"
)

func apiTestStore(t *testing.T) *dataset.Store {
	t.Helper()

	movies := []dataset.Movie{
		{MovieID: 1, Title: "Toy Story (1995)", Genres: "Adventure|Animation|Children|Comedy|Fantasy", TMDBID: 862},
		{MovieID: 2, Title: "Jumanji (1995)", Genres: "Adventure|Children|Fantasy", TMDBID: 8844},
		{MovieID: 3, Title: "Heat (1995)", Genres: "Action|Crime|Thriller"},
		{MovieID: 4, Title: "Casino (1995)", Genres: "Crime|Drama"},
		{MovieID: 5, Title: "Balto (1995)", Genres: "Adventure|Animation|Children"},
		{MovieID: 6, Title: "Se7en (1995)", Genres: "Crime|Mystery|Thriller"},
		{MovieID: 7, Title: "Sabrina (1995)", Genres: "Comedy|Romance"},
		{MovieID: 8, Title: "GoldenEye (1995)", Genres: "Action|Adventure|Thriller"},
	}

	var ratings []dataset.Rating
	for user := int64(1); user <= 4; user++ {
		for _, m := range movies {
			ratings = append(ratings, dataset.Rating{
				UserID:  user,
				MovieID: m.MovieID,
				Value:   float64((int(user)+int(m.MovieID))%5 + 1),
			})
		}
	}

	store, err := dataset.NewStore(movies, ratings)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store
}

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()

	store := apiTestStore(t)
	logger := logging.NewTestLogger(io.Discard)

	cfg := recommend.DefaultConfig()
	engine, err := recommend.NewEngine(cfg, store, logger)
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	engine.RegisterAlgorithm(algorithms.NewContentSimilarity(cfg.Neighbors))
	engine.RegisterAlgorithm(algorithms.NewItemBasedCF(cfg.Neighbors, 2))
	if err := engine.Train(context.Background()); err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	t.Cleanup(engine.Close)

	enricher := enrich.New(config.EnrichConfig{}, logger)
	t.Cleanup(enricher.Close)

	h := NewHandler(store, engine, enricher, "test")
	t.Cleanup(h.Close)

	srv := httptest.NewServer(NewRouter(config.SecurityConfig{
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}, h))
	t.Cleanup(srv.Close)

	return srv, h
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) models.APIResponse {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	var envelope models.APIResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v\nbody: %s", err, raw)
	}

	if data != nil && envelope.Data != nil {
		dataRaw, err := json.Marshal(envelope.Data)
		if err != nil {
			t.Fatalf("re-marshal data: %v", err)
		}
		if err := json.Unmarshal(dataRaw, data); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
	}

	return envelope
}

func TestMoviesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/movies")
	if err != nil {
		t.Fatalf("GET /movies failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload models.MoviesPayload
	envelope := decodeEnvelope(t, resp, &payload)
	if envelope.Status != "success" {
		t.Errorf("status = %q, want success", envelope.Status)
	}
	if payload.Total != 8 || len(payload.Titles) != 8 {
		t.Errorf("total = %d, titles = %d, want 8", payload.Total, len(payload.Titles))
	}
	if payload.Titles[0] != "Toy Story (1995)" {
		t.Errorf("first title = %q, want Toy Story (1995)", payload.Titles[0])
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	url := srv.URL + "/api/v1/recommendations?title=" +
		"Toy+Story+%281995%29&k=3&mode=content"
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET /recommendations failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload models.RecommendationsPayload
	decodeEnvelope(t, resp, &payload)

	if payload.Query != "Toy Story (1995)" {
		t.Errorf("query = %q", payload.Query)
	}
	if payload.Mode != "content" || payload.K != 3 {
		t.Errorf("mode = %q k = %d, want content 3", payload.Mode, payload.K)
	}
	if len(payload.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(payload.Items))
	}
	for _, item := range payload.Items {
		if item.Title == "Toy Story (1995)" {
			t.Error("query title returned as its own recommendation")
		}
		if item.Score <= 0 || item.Score > 1 {
			t.Errorf("score %f for %q out of (0,1]", item.Score, item.Title)
		}
	}
	for i := 1; i < len(payload.Items); i++ {
		if payload.Items[i].Score > payload.Items[i-1].Score {
			t.Error("items not sorted by score descending")
		}
	}
}

func TestRecommendationsValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"missing title", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown title", "title=Nope+%282099%29", http.StatusNotFound, "TITLE_NOT_FOUND"},
		{"bad mode", "title=Heat+%281995%29&mode=psychic", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad k", "title=Heat+%281995%29&k=abc", http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/v1/recommendations?" + tt.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			envelope := decodeEnvelope(t, resp, nil)
			if envelope.Status != "error" {
				t.Errorf("envelope status = %q, want error", envelope.Status)
			}
			if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Errorf("error code = %v, want %q", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestHistoryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	jar := newCookieClient(t)

	// A fresh session has no history.
	resp, err := jar.Get(srv.URL + "/api/v1/history")
	if err != nil {
		t.Fatalf("GET /history failed: %v", err)
	}
	var payload models.HistoryPayload
	decodeEnvelope(t, resp, &payload)
	resp.Body.Close()
	if len(payload.Entries) != 0 {
		t.Fatalf("fresh session has %d entries, want 0", len(payload.Entries))
	}

	// Two queries in the same session.
	for _, title := range []string{"Heat+%281995%29", "Casino+%281995%29"} {
		r, err := jar.Get(srv.URL + "/api/v1/recommendations?title=" + title)
		if err != nil {
			t.Fatalf("GET /recommendations failed: %v", err)
		}
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
	}

	resp, err = jar.Get(srv.URL + "/api/v1/history")
	if err != nil {
		t.Fatalf("GET /history failed: %v", err)
	}
	defer resp.Body.Close()
	payload = models.HistoryPayload{}
	decodeEnvelope(t, resp, &payload)

	if len(payload.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(payload.Entries))
	}
	if payload.Entries[0].Title != "Casino (1995)" {
		t.Errorf("newest entry = %q, want Casino (1995)", payload.Entries[0].Title)
	}
	if payload.Entries[1].Title != "Heat (1995)" {
		t.Errorf("oldest entry = %q, want Heat (1995)", payload.Entries[1].Title)
	}
}

func TestHistoryCapsAtFiveEntries(t *testing.T) {
	srv, _ := newTestServer(t)

	jar := newCookieClient(t)
	titles := []string{
		"Toy+Story+%281995%29", "Jumanji+%281995%29", "Heat+%281995%29",
		"Casino+%281995%29", "Balto+%281995%29", "Se7en+%281995%29",
	}
	for _, title := range titles {
		r, err := jar.Get(srv.URL + "/api/v1/recommendations?title=" + title)
		if err != nil {
			t.Fatalf("GET /recommendations failed: %v", err)
		}
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
	}

	resp, err := jar.Get(srv.URL + "/api/v1/history")
	if err != nil {
		t.Fatalf("GET /history failed: %v", err)
	}
	defer resp.Body.Close()

	var payload models.HistoryPayload
	decodeEnvelope(t, resp, &payload)
	if len(payload.Entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(payload.Entries))
	}
	if payload.Entries[0].Title != "Se7en (1995)" {
		t.Errorf("newest entry = %q, want Se7en (1995)", payload.Entries[0].Title)
	}
}

func TestHistoryIsolatedPerSession(t *testing.T) {
	srv, _ := newTestServer(t)

	first := newCookieClient(t)
	r, err := first.Get(srv.URL + "/api/v1/recommendations?title=Heat+%281995%29")
	if err != nil {
		t.Fatalf("GET /recommendations failed: %v", err)
	}
	io.Copy(io.Discard, r.Body)
	r.Body.Close()

	second := newCookieClient(t)
	resp, err := second.Get(srv.URL + "/api/v1/history")
	if err != nil {
		t.Fatalf("GET /history failed: %v", err)
	}
	defer resp.Body.Close()

	var payload models.HistoryPayload
	decodeEnvelope(t, resp, &payload)
	if len(payload.Entries) != 0 {
		t.Errorf("second session sees %d entries, want 0", len(payload.Entries))
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}

	var payload models.HealthStatus
	decodeEnvelope(t, resp, &payload)
	if payload.Status != "healthy" {
		t.Errorf("status = %q, want healthy", payload.Status)
	}
	if !payload.ModelTrained {
		t.Error("model_trained = false after training")
	}
	if payload.Movies != 8 {
		t.Errorf("movies = %d, want 8", payload.Movies)
	}
	if payload.Enrichment {
		t.Error("enrichment reported enabled without API keys")
	}

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		r, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		r.Body.Close()
		if r.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, r.StatusCode)
		}
	}
}

func TestNotFoundRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/nonexistent")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp, nil)
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %v, want NOT_FOUND", envelope.Error)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/movies", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestUIEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !containsAll(string(body), "Reel", "query-form", "title-select") {
		t.Error("UI page missing expected markup")
	}
}

func TestResponseETag(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/movies")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.Header.Get("ETag") == "" {
		t.Error("missing ETag header on JSON response")
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func newCookieClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func TestMoviesPrefixFilterAndLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/movies?q=s")
	if err != nil {
		t.Fatalf("GET /movies?q=s failed: %v", err)
	}
	var payload models.MoviesPayload
	decodeEnvelope(t, resp, &payload)
	resp.Body.Close()

	// Se7en and Sabrina share the prefix; matching ignores case.
	if payload.Total != 2 || len(payload.Titles) != 2 {
		t.Fatalf("q=s matched %d titles (%v), want 2", payload.Total, payload.Titles)
	}
	for _, title := range payload.Titles {
		if !strings.HasPrefix(strings.ToLower(title), "s") {
			t.Errorf("title %q does not match prefix", title)
		}
	}

	resp, err = http.Get(srv.URL + "/api/v1/movies?limit=3")
	if err != nil {
		t.Fatalf("GET /movies?limit=3 failed: %v", err)
	}
	payload = models.MoviesPayload{}
	decodeEnvelope(t, resp, &payload)
	resp.Body.Close()

	if len(payload.Titles) != 3 {
		t.Errorf("limit=3 returned %d titles", len(payload.Titles))
	}
	if payload.Total != 8 {
		t.Errorf("total = %d, want full catalog count 8", payload.Total)
	}
}

func TestHistoryDeduplicatesRepeatedTitle(t *testing.T) {
	srv, _ := newTestServer(t)

	jar := newCookieClient(t)
	for _, title := range []string{"Heat+%281995%29", "Casino+%281995%29", "Heat+%281995%29"} {
		r, err := jar.Get(srv.URL + "/api/v1/recommendations?title=" + title)
		if err != nil {
			t.Fatalf("GET /recommendations failed: %v", err)
		}
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
	}

	resp, err := jar.Get(srv.URL + "/api/v1/history")
	if err != nil {
		t.Fatalf("GET /history failed: %v", err)
	}
	defer resp.Body.Close()

	var payload models.HistoryPayload
	decodeEnvelope(t, resp, &payload)
	if len(payload.Entries) != 2 {
		t.Fatalf("entries = %d, want 2 after dedupe", len(payload.Entries))
	}
	if payload.Entries[0].Title != "Heat (1995)" || payload.Entries[1].Title != "Casino (1995)" {
		t.Errorf("order = [%s, %s], want [Heat (1995), Casino (1995)]",
			payload.Entries[0].Title, payload.Entries[1].Title)
	}
}
