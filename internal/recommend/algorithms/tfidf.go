// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package algorithms

import (
	"math"
	"sort"
	"strings"
)

// englishStopWords filters common English words out of the term space.
// Genre vocabularies rarely contain these, but free-text tags do.
var englishStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "no": {}, "not": {}, "of": {},
	"on": {}, "or": {}, "such": {}, "that": {}, "the": {}, "their": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"to": {}, "was": {}, "will": {}, "with": {},
}

// SparseVector is an l2-normalized term weight vector, sorted by term
// index for linear-time dot products.
type SparseVector struct {
	Terms   []int
	Weights []float64
}

// Dot computes the dot product of two sparse vectors. For normalized
// vectors this is the cosine similarity.
func (v SparseVector) Dot(other SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Terms) && j < len(other.Terms) {
		switch {
		case v.Terms[i] == other.Terms[j]:
			sum += v.Weights[i] * other.Weights[j]
			i++
			j++
		case v.Terms[i] < other.Terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Vectorizer converts token documents into TF-IDF vectors. Fit once
// over the corpus, then Transform each document.
//
// Weighting follows the common smoothed formulation:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// with raw term counts for tf and l2 normalization of the result.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// FitVectorizer learns the vocabulary and document frequencies from
// the corpus. Terms are normalized via tokenizeTerms.
func FitVectorizer(docs [][]string) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range tokenizeTerms(doc) {
			if _, dup := seen[term]; !dup {
				df[term]++
				seen[term] = struct{}{}
			}
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &Vectorizer{
		vocab: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.vocab[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

// VocabSize returns the number of distinct terms.
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// Transform converts a token document into an l2-normalized TF-IDF
// vector. Out-of-vocabulary terms are ignored. An empty document
// yields an empty vector, which has zero similarity to everything.
func (v *Vectorizer) Transform(doc []string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range tokenizeTerms(doc) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	terms := make([]int, 0, len(counts))
	for idx := range counts {
		terms = append(terms, idx)
	}
	sort.Ints(terms)

	weights := make([]float64, len(terms))
	var norm float64
	for i, idx := range terms {
		w := counts[idx] * v.idf[idx]
		weights[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range weights {
		weights[i] /= norm
	}

	return SparseVector{Terms: terms, Weights: weights}
}

// tokenizeTerms splits raw tokens on non-alphanumeric runs, lowercases
// them and drops stop words and single-character fragments. A genre
// like "Sci-Fi" becomes the terms "sci" and "fi".
func tokenizeTerms(raw []string) []string {
	var out []string
	for _, token := range raw {
		for _, part := range strings.FieldsFunc(strings.ToLower(token), isTermSeparator) {
			if len(part) < 2 {
				continue
			}
			if _, stop := englishStopWords[part]; stop {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func isTermSeparator(r rune) bool {
	return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
}
