// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package recommend

import (
	"fmt"
	"time"
)

// Config holds recommendation engine settings.
type Config struct {
	// DefaultK is the list length when the request omits K.
	DefaultK int

	// MinK and MaxK clamp the requested list length.
	MinK int
	MaxK int

	// Neighbors is the per-movie neighbor list length precomputed at
	// train time. Must be >= MaxK.
	Neighbors int

	// ContentWeight and CollaborativeWeight blend scores in hybrid
	// mode. Normalized to sum to 1 when used.
	ContentWeight       float64
	CollaborativeWeight float64

	// MinCommonRaters is the minimum number of shared raters before
	// item-based CF trusts a movie pair's similarity.
	MinCommonRaters int

	// CacheTTL is the response cache lifetime. Zero disables caching.
	CacheTTL time.Duration
}

// DefaultConfig returns engine defaults matching the service defaults.
func DefaultConfig() Config {
	return Config{
		DefaultK:            5,
		MinK:                3,
		MaxK:                10,
		Neighbors:           50,
		ContentWeight:       0.5,
		CollaborativeWeight: 0.5,
		MinCommonRaters:     3,
		CacheTTL:            5 * time.Minute,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.MinK < 1 {
		return fmt.Errorf("min k must be >= 1, got %d", c.MinK)
	}
	if c.MinK > c.MaxK {
		return fmt.Errorf("min k (%d) must not exceed max k (%d)", c.MinK, c.MaxK)
	}
	if c.DefaultK < c.MinK || c.DefaultK > c.MaxK {
		return fmt.Errorf("default k (%d) must be within [%d, %d]", c.DefaultK, c.MinK, c.MaxK)
	}
	if c.Neighbors < c.MaxK {
		return fmt.Errorf("neighbors (%d) must be >= max k (%d)", c.Neighbors, c.MaxK)
	}
	if c.ContentWeight < 0 || c.CollaborativeWeight < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	if c.ContentWeight+c.CollaborativeWeight == 0 {
		return fmt.Errorf("weights must not both be zero")
	}
	if c.MinCommonRaters < 1 {
		return fmt.Errorf("min common raters must be >= 1, got %d", c.MinCommonRaters)
	}
	return nil
}

// normalizedWeights returns the hybrid blend weights scaled to sum to 1.
func (c Config) normalizedWeights() (content, collaborative float64) {
	total := c.ContentWeight + c.CollaborativeWeight
	return c.ContentWeight / total, c.CollaborativeWeight / total
}
