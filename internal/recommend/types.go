// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/reeldeck/reeldeck/internal/dataset"
)

// Mode selects which similarity signal drives a recommendation.
type Mode string

const (
	// ModeContent ranks by genre TF-IDF cosine similarity.
	ModeContent Mode = "content"

	// ModeCollaborative ranks by item-based collaborative filtering
	// over user ratings.
	ModeCollaborative Mode = "collaborative"

	// ModeHybrid blends both signals with configured weights.
	ModeHybrid Mode = "hybrid"
)

// Valid reports whether the mode is one of the supported values.
func (m Mode) Valid() bool {
	switch m {
	case ModeContent, ModeCollaborative, ModeHybrid:
		return true
	}
	return false
}

var (
	// ErrTitleNotFound is returned when the query title is not in the
	// catalog. The title must match exactly, year suffix included.
	ErrTitleNotFound = errors.New("title not found in catalog")

	// ErrNotTrained is returned when a recommendation is requested
	// before the engine finished training.
	ErrNotTrained = errors.New("engine not trained")
)

// Request is a recommendation query.
type Request struct {
	// Title is the exact catalog title to find similar movies for.
	Title string `json:"title"`

	// K is the number of recommendations to return. Zero means the
	// configured default; out-of-range values are clamped.
	K int `json:"k,omitempty"`

	// Mode selects the similarity signal. Empty means ModeContent.
	Mode Mode `json:"mode,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredMovie is a recommended movie with its similarity score.
type ScoredMovie struct {
	// Movie is the catalog entry.
	Movie dataset.Movie `json:"movie"`

	// Score is the blended similarity score in [0, 1].
	Score float64 `json:"score"`

	// Scores breaks the blended score down by algorithm.
	Scores map[string]float64 `json:"scores,omitempty"`
}

// Response is an ordered recommendation list with diagnostics.
type Response struct {
	// Query is the catalog entry the recommendations are relative to.
	Query dataset.Movie `json:"query"`

	// Items is ordered by descending score. Ties keep dataset order.
	Items []ScoredMovie `json:"items"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID      string    `json:"request_id"`
	Mode           string    `json:"mode"`
	K              int       `json:"k"`
	AlgorithmsUsed []string  `json:"algorithms_used"`
	LatencyMS      int64     `json:"latency_ms"`
	CacheHit       bool      `json:"cache_hit"`
	ModelVersion   int       `json:"model_version"`
	TrainedAt      time.Time `json:"trained_at"`
	Timestamp      time.Time `json:"timestamp"`
}

// Algorithm is a single similarity model. Implementations precompute
// per-movie neighbor lists at train time so queries are lookups.
type Algorithm interface {
	// Name returns the algorithm identifier (e.g. "content", "itemcf").
	Name() string

	// Train fits the model on the dataset. Safe to call again to
	// retrain; queries during training see the previous model.
	Train(ctx context.Context, store *dataset.Store) error

	// PredictSimilar returns neighbor scores for the movie at the
	// given dataset index. Keys are dataset indexes of neighbors,
	// values are normalized scores in [0, 1]. The query movie itself
	// is never a key.
	PredictSimilar(ctx context.Context, index int) (map[int]float64, error)

	// IsTrained reports whether the model has been trained.
	IsTrained() bool

	// Version returns the model version, incremented on each train.
	Version() int

	// LastTrainedAt returns when the model was last trained.
	LastTrainedAt() time.Time
}
