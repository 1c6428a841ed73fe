// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/reeldeck/reeldeck/internal/logging"
	"github.com/reeldeck/reeldeck/internal/metrics"
)

// Load parses the dataset CSVs under dir into a Store. Malformed rows
// are an error: the catalog must be complete for the similarity model
// to be meaningful.
func Load(dir string) (*Store, error) {
	start := time.Now()
	s := &Store{}

	movies, err := loadMovies(filepath.Join(dir, "movies.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	s.movies = movies

	if err := mergeLinks(filepath.Join(dir, "links.csv"), s); err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}

	ratings, err := loadRatings(filepath.Join(dir, "ratings.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	s.ratings = ratings

	if err := s.buildIndexes(); err != nil {
		return nil, err
	}

	metrics.DatasetMovies.Set(float64(len(s.movies)))
	metrics.DatasetRatings.Set(float64(len(s.ratings)))

	logging.Info().
		Int("movies", len(s.movies)).
		Int("ratings", len(s.ratings)).
		Int("users", s.numUsers).
		Dur("elapsed", time.Since(start)).
		Msg("dataset loaded")

	return s, nil
}

// loadMovies parses movies.csv (movieId,title,genres).
func loadMovies(path string) ([]Movie, error) {
	var movies []Movie
	err := readCSV(path, 3, func(line int, rec []string) error {
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad movieId %q", line, rec[0])
		}
		movies = append(movies, Movie{
			MovieID: id,
			Title:   rec[1],
			Genres:  rec[2],
		})
		return nil
	})
	return movies, err
}

// mergeLinks parses links.csv (movieId,imdbId,tmdbId) and attaches
// TMDB IDs to loaded movies. Rows with an empty tmdbId are kept with
// TMDBID zero; enrichment skips those movies.
func mergeLinks(path string, s *Store) error {
	byID := make(map[int64]*Movie, len(s.movies))
	for i := range s.movies {
		byID[s.movies[i].MovieID] = &s.movies[i]
	}

	return readCSV(path, 3, func(line int, rec []string) error {
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad movieId %q", line, rec[0])
		}
		m, ok := byID[id]
		if !ok {
			// links.csv can reference movies absent from movies.csv.
			return nil
		}
		if rec[2] == "" {
			return nil
		}
		tmdbID, err := strconv.ParseInt(rec[2], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad tmdbId %q", line, rec[2])
		}
		m.TMDBID = tmdbID
		return nil
	})
}

// loadRatings parses ratings.csv (userId,movieId,rating,timestamp).
func loadRatings(path string) ([]Rating, error) {
	var ratings []Rating
	err := readCSV(path, 4, func(line int, rec []string) error {
		userID, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad userId %q", line, rec[0])
		}
		movieID, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad movieId %q", line, rec[1])
		}
		value, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: bad rating %q", line, rec[2])
		}
		ts, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: bad timestamp %q", line, rec[3])
		}
		ratings = append(ratings, Rating{
			UserID:    userID,
			MovieID:   movieID,
			Value:     value,
			Timestamp: ts,
		})
		return nil
	})
	return ratings, err
}

// readCSV streams a CSV file row by row, skipping the header line and
// enforcing a minimum field count.
func readCSV(path string, minFields int, fn func(line int, rec []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if line == 1 {
			// Header row.
			continue
		}
		if len(rec) < minFields {
			return fmt.Errorf("line %d: expected %d fields, got %d", line, minFields, len(rec))
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}
