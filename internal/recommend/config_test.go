// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package recommend

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero min k", func(c *Config) { c.MinK = 0 }},
		{"min above max", func(c *Config) { c.MinK = 20 }},
		{"default below min", func(c *Config) { c.DefaultK = 1 }},
		{"default above max", func(c *Config) { c.DefaultK = 50 }},
		{"neighbors below max k", func(c *Config) { c.Neighbors = 5 }},
		{"negative weight", func(c *Config) { c.ContentWeight = -1 }},
		{"both weights zero", func(c *Config) { c.ContentWeight = 0; c.CollaborativeWeight = 0 }},
		{"zero min common raters", func(c *Config) { c.MinCommonRaters = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestNormalizedWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContentWeight = 3
	cfg.CollaborativeWeight = 1

	content, collaborative := cfg.normalizedWeights()
	if content != 0.75 || collaborative != 0.25 {
		t.Errorf("normalized weights = (%f, %f), want (0.75, 0.25)", content, collaborative)
	}
}
