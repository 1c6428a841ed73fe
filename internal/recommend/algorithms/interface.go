// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package algorithms implements the similarity models behind the
// recommendation engine.
//
// Each algorithm implements the recommend.Algorithm interface. Models
// precompute a top-N neighbor list per movie at train time; queries
// are then a lookup over the precomputed row. Training acquires an
// exclusive lock while prediction uses a shared lock, so queries keep
// serving the previous model during a retrain.
package algorithms

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/reeldeck/reeldeck/internal/recommend"
)

// BaseAlgorithm provides common state for all algorithms.
type BaseAlgorithm struct {
	name          string
	trained       bool
	version       int
	lastTrainedAt time.Time
	mu            sync.RWMutex
}

// NewBaseAlgorithm creates a base algorithm with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained reports whether the model has been trained.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// Version returns the model version.
func (b *BaseAlgorithm) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// LastTrainedAt returns when the model was last trained.
func (b *BaseAlgorithm) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

// markTrained updates the trained state.
// Must be called while holding the training lock.
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
	b.version++
	b.lastTrainedAt = time.Now()
}

func (b *BaseAlgorithm) acquireTrainLock()   { b.mu.Lock() }
func (b *BaseAlgorithm) releaseTrainLock()   { b.mu.Unlock() }
func (b *BaseAlgorithm) acquirePredictLock() { b.mu.RLock() }
func (b *BaseAlgorithm) releasePredictLock() { b.mu.RUnlock() }

// Neighbor is a similar movie referenced by dataset index.
type Neighbor struct {
	Index int
	Score float64
}

// topNeighbors selects the n highest-scoring neighbors from raw
// scores keyed by dataset index. Ties keep dataset order.
func topNeighbors(scores map[int]float64, n int) []Neighbor {
	neighbors := make([]Neighbor, 0, len(scores))
	for idx, score := range scores {
		neighbors = append(neighbors, Neighbor{Index: idx, Score: score})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Score != neighbors[j].Score {
			return neighbors[i].Score > neighbors[j].Score
		}
		return neighbors[i].Index < neighbors[j].Index
	})

	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors
}

// neighborScores converts a precomputed neighbor row into the score
// map the engine consumes.
func neighborScores(row []Neighbor) map[int]float64 {
	scores := make(map[int]float64, len(row))
	for _, n := range row {
		scores[n.Index] = n.Score
	}
	return scores
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure all algorithms implement the interface.
var (
	_ recommend.Algorithm = (*ContentSimilarity)(nil)
	_ recommend.Algorithm = (*ItemBasedCF)(nil)
)
