// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	const doc = `
backend: noop
width: 320
frames: 7
batcher:
  max_vertices: 4096
native:
  bind_group_cache_size: 32
  submit_timeout: 2s
log:
  level: debug
`
	cfg := defaultConfig()
	if err := loadConfig(strings.NewReader(doc), &cfg); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Backend != backendNoop || cfg.Width != 320 || cfg.Frames != 7 {
		t.Errorf("top-level fields not decoded: %+v", cfg)
	}
	if cfg.Height != 600 {
		t.Errorf("Height = %d, want the default 600", cfg.Height)
	}
	if cfg.Batcher.MaxVertices != 4096 || cfg.Batcher.MaxIndices != 5000 {
		t.Errorf("Batcher = %+v", cfg.Batcher)
	}
	if cfg.Native.BindGroupCacheSize != 32 || cfg.Native.SubmitTimeout != 2*time.Second {
		t.Errorf("Native = %+v", cfg.Native)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxBackups != 3 {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg := defaultConfig()
	if err := loadConfig(strings.NewReader(""), &cfg); err != nil {
		t.Fatalf("loadConfig(empty) error = %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("empty document changed the config: %+v", cfg)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	cfg := defaultConfig()
	if err := loadConfig(strings.NewReader("colour: red\n"), &cfg); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte("quads: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := defaultConfig()
	if err := loadConfigFile(path, &cfg); err != nil {
		t.Fatalf("loadConfigFile() error = %v", err)
	}
	if cfg.Quads != 12 {
		t.Errorf("Quads = %d, want 12", cfg.Quads)
	}
	if err := loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("missing file accepted")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*config)
		wantErr bool
	}{
		{"defaults", func(*config) {}, false},
		{"noop with output", func(c *config) { c.Backend = backendNoop; c.Output = "out.png" }, false},
		{"unknown backend", func(c *config) { c.Backend = "metal" }, true},
		{"zero width", func(c *config) { c.Width = 0 }, true},
		{"no frames", func(c *config) { c.Frames = 0 }, true},
		{"recording with output", func(c *config) { c.Output = "out.png" }, true},
		{"bad capacity", func(c *config) { c.Batcher.MaxVertices = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(&cfg)
			if err := cfg.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.log")
	logger, closer, err := newLogger(logConfig{File: path, Level: "debug", MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("hello", "n", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %q, want a JSON record", data)
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	if _, _, err := newLogger(logConfig{Level: "loud"}); err == nil {
		t.Error("bad level accepted")
	}
}

func TestRunRecording(t *testing.T) {
	cfg := defaultConfig()
	cfg.Width, cfg.Height = 256, 192
	cfg.Frames = 2
	cfg.Quads = 16
	if err := run(cfg, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRunNoop(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend = backendNoop
	cfg.Width, cfg.Height = 128, 128
	cfg.Frames = 1
	cfg.Quads = 4
	if err := run(cfg, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}
