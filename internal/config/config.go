// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

// Package config loads and validates Reeldeck configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables > optional YAML config file >
// built-in defaults. See koanf.go for the environment variable mapping.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatasetConfig holds MovieLens dataset acquisition settings.
type DatasetConfig struct {
	// URL is the dataset archive to download on first run.
	URL string `koanf:"url" validate:"required,url"`

	// Dir is the directory the archive is extracted into.
	Dir string `koanf:"dir" validate:"required"`

	// DownloadTimeout bounds the archive download.
	DownloadTimeout time.Duration `koanf:"download_timeout"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	// DefaultK is the number of recommendations when the caller omits k.
	DefaultK int `koanf:"default_k" validate:"min=1"`

	// MinK and MaxK bound the caller-supplied k.
	MinK int `koanf:"min_k" validate:"min=1"`
	MaxK int `koanf:"max_k" validate:"min=1"`

	// Neighbors is the per-movie neighbor list length precomputed at
	// startup. Must be >= MaxK so every query can be answered from the
	// precomputed row.
	Neighbors int `koanf:"neighbors" validate:"min=1"`

	// ContentWeight and CollaborativeWeight blend algorithm scores in
	// hybrid mode. Normalized at engine construction.
	ContentWeight       float64 `koanf:"content_weight" validate:"min=0"`
	CollaborativeWeight float64 `koanf:"collaborative_weight" validate:"min=0"`

	// MinCommonRaters is the minimum number of users two movies must
	// share before item-based CF trusts their similarity.
	MinCommonRaters int `koanf:"min_common_raters" validate:"min=1"`

	// CacheTTL is the response cache lifetime.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// EnrichConfig holds outbound enrichment API settings.
// Missing API keys disable the corresponding provider; recommendations
// then render without posters or trailers.
type EnrichConfig struct {
	// TMDBAPIKey authenticates metadata/poster lookups. Optional.
	TMDBAPIKey string `koanf:"tmdb_api_key"`

	// TMDBBaseURL is the TMDB API root.
	TMDBBaseURL string `koanf:"tmdb_base_url" validate:"required,url"`

	// PosterBaseURL prefixes TMDB poster paths.
	PosterBaseURL string `koanf:"poster_base_url" validate:"required,url"`

	// VideoAPIKey authenticates trailer searches. Optional.
	VideoAPIKey string `koanf:"video_api_key"`

	// VideoBaseURL is the video search API root (YouTube Data API v3).
	VideoBaseURL string `koanf:"video_base_url" validate:"required,url"`

	// Timeout bounds each outbound call.
	Timeout time.Duration `koanf:"timeout"`

	// CacheTTL is the enrichment cache lifetime (posters and trailer
	// links change rarely; default one day).
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all sensible default values.
// These defaults are applied first, then overridden by config file and
// env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8394,
			Timeout: 30 * time.Second,
		},
		Dataset: DatasetConfig{
			URL:             "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip",
			Dir:             "data",
			DownloadTimeout: 2 * time.Minute,
		},
		Recommend: RecommendConfig{
			DefaultK:            5,
			MinK:                3,
			MaxK:                10,
			Neighbors:           50,
			ContentWeight:       0.5,
			CollaborativeWeight: 0.5,
			MinCommonRaters:     3,
			CacheTTL:            5 * time.Minute,
		},
		Enrich: EnrichConfig{
			TMDBAPIKey:    "",
			TMDBBaseURL:   "https://api.themoviedb.org/3",
			PosterBaseURL: "https://image.tmdb.org/t/p/w500",
			VideoAPIKey:   "",
			VideoBaseURL:  "https://www.googleapis.com/youtube/v3",
			Timeout:       10 * time.Second,
			CacheTTL:      24 * time.Hour,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// validate is the shared validator instance for struct tag validation.
var validate = validator.New()

// Validate checks the configuration for consistency. Called after all
// layers have been merged.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Recommend.MinK > c.Recommend.MaxK {
		return fmt.Errorf("recommend.min_k (%d) must not exceed recommend.max_k (%d)",
			c.Recommend.MinK, c.Recommend.MaxK)
	}
	if c.Recommend.DefaultK < c.Recommend.MinK || c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("recommend.default_k (%d) must be within [%d, %d]",
			c.Recommend.DefaultK, c.Recommend.MinK, c.Recommend.MaxK)
	}
	if c.Recommend.Neighbors < c.Recommend.MaxK {
		return fmt.Errorf("recommend.neighbors (%d) must be >= recommend.max_k (%d)",
			c.Recommend.Neighbors, c.Recommend.MaxK)
	}
	if c.Recommend.ContentWeight+c.Recommend.CollaborativeWeight <= 0 {
		return fmt.Errorf("recommend weights must not both be zero")
	}

	return nil
}

// EnrichmentEnabled reports whether any enrichment provider has a key.
func (c *Config) EnrichmentEnabled() bool {
	return c.Enrich.TMDBAPIKey != "" || c.Enrich.VideoAPIKey != ""
}
