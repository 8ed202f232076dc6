// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"errors"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxVertices != 10000 || cfg.MaxIndices != 5000 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want Config
	}{
		{"none", nil, DefaultConfig()},
		{"max vertices", []Option{WithMaxVertices(100)}, Config{MaxVertices: 100, MaxIndices: DefaultMaxIndices}},
		{"max indices", []Option{WithMaxIndices(300)}, Config{MaxVertices: DefaultMaxVertices, MaxIndices: 300}},
		{"config then override", []Option{WithConfig(Config{MaxVertices: 1, MaxIndices: 2}), WithMaxIndices(3)}, Config{MaxVertices: 1, MaxIndices: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			for _, opt := range tt.opts {
				opt(&cfg)
			}
			if cfg != tt.want {
				t.Errorf("config = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"minimum", Config{MaxVertices: 1, MaxIndices: 1}, false},
		{"index range limit", Config{MaxVertices: MaxVertexCapacity, MaxIndices: 1}, false},
		{"zero vertices", Config{MaxIndices: 1}, true},
		{"too many vertices", Config{MaxVertices: MaxVertexCapacity + 1, MaxIndices: 1}, true},
		{"negative indices", Config{MaxVertices: 1, MaxIndices: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCapacity) {
				t.Errorf("Validate() = %v, want ErrInvalidCapacity", err)
			}
		})
	}
}
