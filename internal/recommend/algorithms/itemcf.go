// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package algorithms

import (
	"context"
	"math"

	"github.com/reeldeck/reeldeck/internal/dataset"
)

// ItemBasedCF ranks movies by item-item cosine similarity over the
// user rating matrix: two movies are similar when the same users rated
// them similarly.
//
// Training accumulates pairwise dot products per user, so the cost is
// the sum over users of the square of their rating counts. Pairs with
// fewer than minCommonRaters shared raters are discarded; their
// similarity would be dominated by noise.
type ItemBasedCF struct {
	BaseAlgorithm

	neighbors       int
	minCommonRaters int

	// Trained model
	rows [][]Neighbor
}

// NewItemBasedCF creates the collaborative model.
func NewItemBasedCF(neighbors, minCommonRaters int) *ItemBasedCF {
	return &ItemBasedCF{
		BaseAlgorithm:   NewBaseAlgorithm("itemcf"),
		neighbors:       neighbors,
		minCommonRaters: minCommonRaters,
	}
}

// pairKey packs an ordered movie index pair into one map key.
func pairKey(i, j int) uint64 {
	return uint64(i)<<32 | uint64(uint32(j))
}

// Train computes item-item cosine similarities and precomputes
// neighbor rows.
func (a *ItemBasedCF) Train(ctx context.Context, store *dataset.Store) error {
	movies := store.Movies()

	// Group each user's ratings as (movie index, value) pairs.
	byUser := make(map[int64][]Neighbor)
	norms := make([]float64, len(movies))
	for _, r := range store.Ratings() {
		m, ok := store.MovieByID(r.MovieID)
		if !ok {
			continue
		}
		byUser[r.UserID] = append(byUser[r.UserID], Neighbor{Index: m.Index, Score: r.Value})
		norms[m.Index] += r.Value * r.Value
	}
	for i := range norms {
		norms[i] = math.Sqrt(norms[i])
	}

	// Accumulate pairwise dot products and co-rater counts.
	dots := make(map[uint64]float64)
	common := make(map[uint64]int)
	for _, ratings := range byUser {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		for x := 0; x < len(ratings); x++ {
			for y := x + 1; y < len(ratings); y++ {
				i, j := ratings[x].Index, ratings[y].Index
				if i > j {
					i, j = j, i
				}
				key := pairKey(i, j)
				dots[key] += ratings[x].Score * ratings[y].Score
				common[key]++
			}
		}
	}

	scores := make([]map[int]float64, len(movies))
	for key, dot := range dots {
		if common[key] < a.minCommonRaters {
			continue
		}
		i, j := int(key>>32), int(uint32(key))
		if norms[i] == 0 || norms[j] == 0 {
			continue
		}
		sim := dot / (norms[i] * norms[j])
		if sim <= 0 {
			continue
		}
		if scores[i] == nil {
			scores[i] = make(map[int]float64)
		}
		if scores[j] == nil {
			scores[j] = make(map[int]float64)
		}
		scores[i][j] = sim
		scores[j][i] = sim
	}

	rows := make([][]Neighbor, len(movies))
	for i := range rows {
		if scores[i] != nil {
			rows[i] = topNeighbors(scores[i], a.neighbors)
		}
	}

	a.acquireTrainLock()
	defer a.releaseTrainLock()
	a.rows = rows
	a.markTrained()
	return nil
}

// PredictSimilar returns the precomputed neighbor scores for the movie
// at the given dataset index. Movies with too few ratings yield an
// empty map.
func (a *ItemBasedCF) PredictSimilar(_ context.Context, index int) (map[int]float64, error) {
	a.acquirePredictLock()
	defer a.releasePredictLock()

	if !a.trained || index < 0 || index >= len(a.rows) {
		return nil, nil
	}
	return neighborScores(a.rows[index]), nil
}
