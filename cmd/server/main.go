// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package main is the entry point for the Reeldeck server.
//
// Reeldeck is a self-hosted movie recommendation service built on the
// MovieLens dataset. It serves a single-page UI and a JSON API that
// ranks similar movies by genre TF-IDF cosine similarity, item-based
// collaborative filtering over user ratings, or a weighted blend of
// both, and decorates results with TMDB posters and trailer links.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered defaults, config.yaml, env vars
//  2. Dataset: download and extract the MovieLens archive if absent,
//     then parse movies.csv, ratings.csv and links.csv into memory
//  3. Training: fit both similarity models before accepting traffic
//  4. Enrichment: TMDB and video providers, enabled per API key
//  5. HTTP server: UI, /api/v1 endpoints, health probes, /metrics
//
// # Configuration
//
// Everything is tunable through environment variables (see
// internal/config). The common ones:
//
//	export HTTP_PORT=8394
//	export TMDB_API_KEY=your-tmdb-key      # optional, enables posters
//	export YOUTUBE_API_KEY=your-yt-key     # optional, enables trailers
//	./reeldeck
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the server stops
// accepting connections and waits up to 10 seconds for in-flight
// requests before exiting.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reeldeck/reeldeck/internal/api"
	"github.com/reeldeck/reeldeck/internal/config"
	"github.com/reeldeck/reeldeck/internal/dataset"
	"github.com/reeldeck/reeldeck/internal/enrich"
	"github.com/reeldeck/reeldeck/internal/logging"
	"github.com/reeldeck/reeldeck/internal/recommend"
	"github.com/reeldeck/reeldeck/internal/recommend/algorithms"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Msg("Starting Reeldeck")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := loadDataset(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load dataset")
	}
	logging.Info().
		Int("movies", store.NumMovies()).
		Int("ratings", store.NumRatings()).
		Int("users", store.NumUsers()).
		Msg("Dataset loaded")

	engine, err := buildEngine(ctx, cfg, store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to train recommendation engine")
	}
	defer engine.Close()

	enricher := enrich.New(cfg.Enrich, logging.Logger())
	defer enricher.Close()

	handler := api.NewHandler(store, engine, enricher, version)
	defer handler.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg.Security, handler),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// loadDataset ensures the MovieLens archive is present and parses it.
func loadDataset(ctx context.Context, cfg *config.Config) (*dataset.Store, error) {
	dlCtx, dlCancel := context.WithTimeout(ctx, cfg.Dataset.DownloadTimeout)
	defer dlCancel()

	if err := dataset.Ensure(dlCtx, cfg.Dataset.URL, cfg.Dataset.Dir); err != nil {
		return nil, fmt.Errorf("ensuring dataset: %w", err)
	}
	return dataset.Load(cfg.Dataset.Dir)
}

// buildEngine constructs and trains the recommendation engine with
// both similarity models registered.
func buildEngine(ctx context.Context, cfg *config.Config, store *dataset.Store) (*recommend.Engine, error) {
	engineCfg := recommend.Config{
		DefaultK:            cfg.Recommend.DefaultK,
		MinK:                cfg.Recommend.MinK,
		MaxK:                cfg.Recommend.MaxK,
		Neighbors:           cfg.Recommend.Neighbors,
		ContentWeight:       cfg.Recommend.ContentWeight,
		CollaborativeWeight: cfg.Recommend.CollaborativeWeight,
		MinCommonRaters:     cfg.Recommend.MinCommonRaters,
		CacheTTL:            cfg.Recommend.CacheTTL,
	}

	engine, err := recommend.NewEngine(engineCfg, store, logging.Logger())
	if err != nil {
		return nil, err
	}
	engine.RegisterAlgorithm(algorithms.NewContentSimilarity(engineCfg.Neighbors))
	engine.RegisterAlgorithm(algorithms.NewItemBasedCF(engineCfg.Neighbors, engineCfg.MinCommonRaters))

	start := time.Now()
	if err := engine.Train(ctx); err != nil {
		engine.Close()
		return nil, err
	}
	logging.Info().
		Dur("duration", time.Since(start)).
		Msg("Recommendation models trained")

	return engine, nil
}
