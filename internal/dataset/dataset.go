// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package dataset acquires and loads the MovieLens dataset.
//
// On startup the service ensures the dataset archive is downloaded and
// extracted into the configured directory, then parses movies.csv,
// ratings.csv and links.csv into an in-memory Store. The Store is
// immutable after Load and safe for concurrent reads.
package dataset

import (
	"fmt"
	"strings"
)

// Movie is a single catalog entry merged from movies.csv and links.csv.
type Movie struct {
	// MovieID is the MovieLens identifier.
	MovieID int64 `json:"movie_id"`

	// Title is the display title, year suffix included, e.g.
	// "Toy Story (1995)". Unique within the small dataset.
	Title string `json:"title"`

	// Genres is the pipe-separated genre list from movies.csv, e.g.
	// "Adventure|Animation|Children".
	Genres string `json:"genres"`

	// TMDBID is the TMDB identifier from links.csv, 0 when absent.
	TMDBID int64 `json:"tmdb_id,omitempty"`

	// Index is the movie's position in dataset order. Used as the
	// stable tie-break for equal similarity scores.
	Index int `json:"-"`
}

// GenreTokens returns the genres as a normalized token list for the
// TF-IDF vectorizer. The "(no genres listed)" marker passes through
// unchanged; the vectorizer treats it as ordinary text, so unlabeled
// movies cluster with each other instead of matching nothing.
func (m Movie) GenreTokens() []string {
	if m.Genres == "" {
		return nil
	}
	parts := strings.Split(m.Genres, "|")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Rating is a single user rating from ratings.csv.
type Rating struct {
	UserID    int64
	MovieID   int64
	Value     float64
	Timestamp int64
}

// NewStore builds a Store from already-parsed movies and ratings.
// Load is the usual entry point; NewStore exists for callers that
// assemble the catalog themselves.
func NewStore(movies []Movie, ratings []Rating) (*Store, error) {
	s := &Store{movies: movies, ratings: ratings}
	if err := s.buildIndexes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Store holds the parsed dataset. Built once at startup, read-only
// afterwards.
type Store struct {
	movies   []Movie
	byID     map[int64]int
	byTitle  map[string]int
	ratings  []Rating
	byMovie  map[int64][]int
	numUsers int
}

// Movies returns the catalog in dataset order. Callers must not
// modify the returned slice.
func (s *Store) Movies() []Movie {
	return s.movies
}

// Ratings returns all ratings in file order.
func (s *Store) Ratings() []Rating {
	return s.ratings
}

// MovieByID returns the movie with the given MovieLens ID.
func (s *Store) MovieByID(id int64) (Movie, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Movie{}, false
	}
	return s.movies[idx], true
}

// MovieByTitle returns the movie with the given exact title.
func (s *Store) MovieByTitle(title string) (Movie, bool) {
	idx, ok := s.byTitle[title]
	if !ok {
		return Movie{}, false
	}
	return s.movies[idx], true
}

// RatingsFor returns the ratings for a movie, in file order.
func (s *Store) RatingsFor(movieID int64) []Rating {
	idxs := s.byMovie[movieID]
	out := make([]Rating, len(idxs))
	for i, idx := range idxs {
		out[i] = s.ratings[idx]
	}
	return out
}

// NumMovies returns the catalog size.
func (s *Store) NumMovies() int {
	return len(s.movies)
}

// NumRatings returns the total rating count.
func (s *Store) NumRatings() int {
	return len(s.ratings)
}

// NumUsers returns the number of distinct raters.
func (s *Store) NumUsers() int {
	return s.numUsers
}

// Titles returns all titles in dataset order, for the UI dropdown.
func (s *Store) Titles() []string {
	titles := make([]string, len(s.movies))
	for i, m := range s.movies {
		titles[i] = m.Title
	}
	return titles
}

// buildIndexes populates the lookup maps after loading. The first
// occurrence wins when a title appears twice.
func (s *Store) buildIndexes() error {
	s.byID = make(map[int64]int, len(s.movies))
	s.byTitle = make(map[string]int, len(s.movies))
	for i := range s.movies {
		m := &s.movies[i]
		m.Index = i
		if _, dup := s.byID[m.MovieID]; dup {
			return fmt.Errorf("duplicate movie id %d", m.MovieID)
		}
		s.byID[m.MovieID] = i
		if _, dup := s.byTitle[m.Title]; !dup {
			s.byTitle[m.Title] = i
		}
	}

	s.byMovie = make(map[int64][]int)
	users := make(map[int64]struct{})
	for i, r := range s.ratings {
		s.byMovie[r.MovieID] = append(s.byMovie[r.MovieID], i)
		users[r.UserID] = struct{}{}
	}
	s.numUsers = len(users)

	return nil
}
