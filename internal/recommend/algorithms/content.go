// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package algorithms

import (
	"context"

	"github.com/reeldeck/reeldeck/internal/dataset"
)

// ContentSimilarity ranks movies by genre TF-IDF cosine similarity.
//
// Training vectorizes every movie's genre tokens, then precomputes the
// top-N neighbor row per movie. An inverted index over terms keeps the
// pairwise pass proportional to shared-term candidates rather than the
// full catalog square.
type ContentSimilarity struct {
	BaseAlgorithm

	neighbors int

	// Trained model
	rows [][]Neighbor
}

// NewContentSimilarity creates the content model. neighbors is the
// per-movie row length.
func NewContentSimilarity(neighbors int) *ContentSimilarity {
	return &ContentSimilarity{
		BaseAlgorithm: NewBaseAlgorithm("content"),
		neighbors:     neighbors,
	}
}

// Train vectorizes genres and precomputes neighbor rows.
func (c *ContentSimilarity) Train(ctx context.Context, store *dataset.Store) error {
	movies := store.Movies()

	docs := make([][]string, len(movies))
	for i := range movies {
		docs[i] = movies[i].GenreTokens()
	}

	vectorizer := FitVectorizer(docs)
	vectors := make([]SparseVector, len(movies))
	for i, doc := range docs {
		vectors[i] = vectorizer.Transform(doc)
	}

	// Inverted index: term -> movies containing it.
	byTerm := make([][]int, vectorizer.VocabSize())
	for i, vec := range vectors {
		for _, term := range vec.Terms {
			byTerm[term] = append(byTerm[term], i)
		}
	}

	rows := make([][]Neighbor, len(movies))
	for i := range movies {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		candidates := make(map[int]struct{})
		for _, term := range vectors[i].Terms {
			for _, j := range byTerm[term] {
				if j != i {
					candidates[j] = struct{}{}
				}
			}
		}

		scores := make(map[int]float64, len(candidates))
		for j := range candidates {
			if sim := vectors[i].Dot(vectors[j]); sim > 0 {
				scores[j] = sim
			}
		}
		rows[i] = topNeighbors(scores, c.neighbors)
	}

	c.acquireTrainLock()
	defer c.releaseTrainLock()
	c.rows = rows
	c.markTrained()
	return nil
}

// PredictSimilar returns the precomputed neighbor scores for the movie
// at the given dataset index.
func (c *ContentSimilarity) PredictSimilar(_ context.Context, index int) (map[int]float64, error) {
	c.acquirePredictLock()
	defer c.releasePredictLock()

	if !c.trained || index < 0 || index >= len(c.rows) {
		return nil, nil
	}
	return neighborScores(c.rows[index]), nil
}
