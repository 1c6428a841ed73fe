// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package algorithms

import (
	"context"
	"testing"

	"github.com/reeldeck/reeldeck/internal/dataset"
)

// cfTestStore builds a store where movies 1 and 2 are rated alike by
// the same users, movie 3 is rated oppositely, and movie 4 has a
// single rater.
func cfTestStore(t *testing.T) *dataset.Store {
	t.Helper()
	movies := []dataset.Movie{
		{MovieID: 1, Title: "First (1990)", Genres: "Drama"},
		{MovieID: 2, Title: "Second (1991)", Genres: "Drama"},
		{MovieID: 3, Title: "Third (1992)", Genres: "Drama"},
		{MovieID: 4, Title: "Fourth (1993)", Genres: "Drama"},
	}
	ratings := []dataset.Rating{
		{UserID: 1, MovieID: 1, Value: 5.0},
		{UserID: 1, MovieID: 2, Value: 5.0},
		{UserID: 1, MovieID: 3, Value: 1.0},
		{UserID: 2, MovieID: 1, Value: 4.5},
		{UserID: 2, MovieID: 2, Value: 4.0},
		{UserID: 2, MovieID: 3, Value: 1.5},
		{UserID: 3, MovieID: 1, Value: 5.0},
		{UserID: 3, MovieID: 2, Value: 4.5},
		{UserID: 3, MovieID: 3, Value: 2.0},
		{UserID: 4, MovieID: 4, Value: 5.0},
	}
	store, err := dataset.NewStore(movies, ratings)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func TestItemCFTrainAndPredict(t *testing.T) {
	store := cfTestStore(t)
	alg := NewItemBasedCF(10, 2)

	if err := alg.Train(context.Background(), store); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if !alg.IsTrained() {
		t.Fatal("algorithm not trained after Train")
	}

	scores, err := alg.PredictSimilar(context.Background(), 0)
	if err != nil {
		t.Fatalf("PredictSimilar failed: %v", err)
	}
	if len(scores) == 0 {
		t.Fatal("no neighbors for movie with shared raters")
	}
	if _, self := scores[0]; self {
		t.Error("query movie appears in its own neighbors")
	}

	// Movies 1 and 2 share high ratings from the same users; their
	// similarity must exceed the 1-3 pairing.
	if scores[1] <= scores[2] {
		t.Errorf("co-liked pair score %f should exceed disliked pair score %f",
			scores[1], scores[2])
	}
}

func TestItemCFMinCommonRaters(t *testing.T) {
	store := cfTestStore(t)
	alg := NewItemBasedCF(10, 2)
	if err := alg.Train(context.Background(), store); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	// Movie 4 (index 3) shares no raters with anything.
	scores, err := alg.PredictSimilar(context.Background(), 3)
	if err != nil {
		t.Fatalf("PredictSimilar failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("single-rater movie has neighbors: %v", scores)
	}

	for idx, s := range mustPredict(t, alg, 0) {
		if idx == 3 {
			t.Errorf("movie without common raters appeared as neighbor with score %f", s)
		}
	}
}

func TestItemCFScoresWithinUnitRange(t *testing.T) {
	store := cfTestStore(t)
	alg := NewItemBasedCF(10, 2)
	if err := alg.Train(context.Background(), store); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	for i := range store.Movies() {
		for idx, score := range mustPredict(t, alg, i) {
			if score <= 0 || score > 1.0000001 {
				t.Errorf("movie %d neighbor %d score %f outside (0, 1]", i, idx, score)
			}
		}
	}
}

func TestItemCFSymmetry(t *testing.T) {
	store := cfTestStore(t)
	alg := NewItemBasedCF(10, 2)
	if err := alg.Train(context.Background(), store); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	a := mustPredict(t, alg, 0)
	b := mustPredict(t, alg, 1)
	if a[1] != b[0] {
		t.Errorf("similarity not symmetric: sim(0,1)=%f sim(1,0)=%f", a[1], b[0])
	}
}

func TestItemCFPredictBeforeTrain(t *testing.T) {
	alg := NewItemBasedCF(10, 2)
	scores, err := alg.PredictSimilar(context.Background(), 0)
	if err != nil {
		t.Fatalf("PredictSimilar failed: %v", err)
	}
	if scores != nil {
		t.Errorf("untrained model returned scores: %v", scores)
	}
}

func mustPredict(t *testing.T, alg *ItemBasedCF, index int) map[int]float64 {
	t.Helper()
	scores, err := alg.PredictSimilar(context.Background(), index)
	if err != nil {
		t.Fatalf("PredictSimilar(%d) failed: %v", index, err)
	}
	return scores
}
