// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import "fmt"

// Draw call capacity defaults.
const (
	DefaultMaxVertices = 10000
	DefaultMaxIndices  = 5000

	// MaxVertexCapacity is the largest vertex capacity addressable by
	// 16-bit indices.
	MaxVertexCapacity = 1 << 16
)

// Config holds the batcher configuration.
//
// Example:
//
//	cfg := quad.DefaultConfig()
//	cfg.MaxVertices = 20000
//	b, err := quad.New(backend, quad.WithConfig(cfg))
type Config struct {
	// MaxVertices is the vertex capacity of one draw call.
	MaxVertices int `yaml:"max_vertices"`

	// MaxIndices is the index capacity of one draw call.
	MaxIndices int `yaml:"max_indices"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxVertices: DefaultMaxVertices,
		MaxIndices:  DefaultMaxIndices,
	}
}

// Validate reports whether the capacities are usable.
func (c Config) Validate() error {
	return validateCapacity(c.MaxVertices, c.MaxIndices)
}

func validateCapacity(maxVertices, maxIndices int) error {
	if maxVertices < 1 || maxVertices > MaxVertexCapacity {
		return fmt.Errorf("%w: %d vertices (want 1..%d)", ErrInvalidCapacity, maxVertices, MaxVertexCapacity)
	}
	if maxIndices < 1 {
		return fmt.Errorf("%w: %d indices", ErrInvalidCapacity, maxIndices)
	}
	return nil
}

// Option configures a Batcher during creation.
//
// Example:
//
//	b, err := quad.New(backend, quad.WithMaxVertices(20000))
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithMaxVertices sets the vertex capacity of a draw call.
func WithMaxVertices(n int) Option {
	return func(c *Config) {
		c.MaxVertices = n
	}
}

// WithMaxIndices sets the index capacity of a draw call.
func WithMaxIndices(n int) Option {
	return func(c *Config) {
		c.MaxIndices = n
	}
}
