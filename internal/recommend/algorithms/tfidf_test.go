// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package algorithms

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenizeTerms(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"plain genres", []string{"adventure", "comedy"}, []string{"adventure", "comedy"}},
		{"hyphenated", []string{"sci-fi"}, []string{"sci", "fi"}},
		{"film noir", []string{"film-noir"}, []string{"film", "noir"}},
		{"stop words dropped", []string{"the", "and", "drama"}, []string{"drama"}},
		{"short fragments dropped", []string{"x", "war"}, []string{"war"}},
		{"mixed case", []string{"IMAX"}, []string{"imax"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenizeTerms(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenizeTerms(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVectorizerTransformNormalized(t *testing.T) {
	docs := [][]string{
		{"adventure", "comedy"},
		{"adventure", "drama"},
		{"comedy"},
	}
	v := FitVectorizer(docs)

	for i, doc := range docs {
		vec := v.Transform(doc)
		var norm float64
		for _, w := range vec.Weights {
			norm += w * w
		}
		if math.Abs(norm-1.0) > 1e-9 {
			t.Errorf("doc %d: squared norm = %f, want 1", i, norm)
		}
	}
}

func TestVectorizerSelfSimilarity(t *testing.T) {
	docs := [][]string{
		{"adventure", "comedy"},
		{"drama"},
	}
	v := FitVectorizer(docs)

	vec := v.Transform(docs[0])
	if sim := vec.Dot(vec); math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("self similarity = %f, want 1", sim)
	}
}

func TestVectorizerDisjointDocsHaveZeroSimilarity(t *testing.T) {
	docs := [][]string{
		{"adventure"},
		{"drama"},
	}
	v := FitVectorizer(docs)

	a := v.Transform(docs[0])
	b := v.Transform(docs[1])
	if sim := a.Dot(b); sim != 0 {
		t.Errorf("disjoint similarity = %f, want 0", sim)
	}
}

func TestVectorizerSharedTermsScoreHigher(t *testing.T) {
	docs := [][]string{
		{"adventure", "comedy", "fantasy"},
		{"adventure", "comedy", "drama"},
		{"adventure", "war", "thriller"},
	}
	v := FitVectorizer(docs)

	base := v.Transform(docs[0])
	closer := base.Dot(v.Transform(docs[1]))
	farther := base.Dot(v.Transform(docs[2]))

	if closer <= farther {
		t.Errorf("two shared terms (%f) should outscore one (%f)", closer, farther)
	}
}

func TestVectorizerRareTermsWeighHigher(t *testing.T) {
	// "rare" appears in one doc, "common" in all.
	docs := [][]string{
		{"common", "rare"},
		{"common", "other"},
		{"common", "another"},
	}
	v := FitVectorizer(docs)

	vec := v.Transform(docs[0])
	weights := make(map[int]float64)
	for i, term := range vec.Terms {
		weights[term] = vec.Weights[i]
	}

	commonIdx := v.vocab["common"]
	rareIdx := v.vocab["rare"]
	if weights[rareIdx] <= weights[commonIdx] {
		t.Errorf("rare term weight %f should exceed common term weight %f",
			weights[rareIdx], weights[commonIdx])
	}
}

func TestVectorizerEmptyDoc(t *testing.T) {
	v := FitVectorizer([][]string{{"drama"}})

	vec := v.Transform(nil)
	if len(vec.Terms) != 0 {
		t.Errorf("empty doc produced terms: %v", vec.Terms)
	}
	other := v.Transform([]string{"drama"})
	if sim := vec.Dot(other); sim != 0 {
		t.Errorf("empty doc similarity = %f, want 0", sim)
	}
}

func TestVectorizerIgnoresUnknownTerms(t *testing.T) {
	v := FitVectorizer([][]string{{"drama"}})

	vec := v.Transform([]string{"drama", "unseen"})
	if len(vec.Terms) != 1 {
		t.Errorf("expected 1 known term, got %d", len(vec.Terms))
	}
}
