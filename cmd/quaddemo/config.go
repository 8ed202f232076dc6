// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/quad"
	"github.com/gogpu/quad/backend/native"
	"github.com/gogpu/quad/gpucore"
	"github.com/gogpu/quad/recording"
)

// Backends selectable with -backend. Any name registered with gpucore
// is accepted.
const (
	backendRecording = recording.Name
	backendNoop      = native.DeviceNoop
	backendVulkan    = native.DeviceVulkan
)

// config is the demo configuration. Flags provide defaults; a YAML file
// given with -config overrides them.
type config struct {
	Backend string        `yaml:"backend"`
	Width   uint32        `yaml:"width"`
	Height  uint32        `yaml:"height"`
	Frames  int           `yaml:"frames"`
	Output  string        `yaml:"output"`
	Quads   int           `yaml:"quads"`
	Batcher quad.Config   `yaml:"batcher"`
	Native  native.Config `yaml:"native"`
	Log     logConfig     `yaml:"log"`
}

// logConfig configures the rotating JSON log file.
type logConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func defaultConfig() config {
	return config{
		Backend: backendRecording,
		Width:   800,
		Height:  600,
		Frames:  3,
		Quads:   200,
		Batcher: quad.DefaultConfig(),
		Native:  native.DefaultConfig(),
		Log: logConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// loadConfig decodes a YAML document over cfg. Unknown keys are rejected.
func loadConfig(r io.Reader, cfg *config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func loadConfigFile(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return loadConfig(f, cfg)
}

func (c *config) validate() error {
	if !gpucore.IsRegistered(c.Backend) {
		return fmt.Errorf("unknown backend %q (have %s)", c.Backend, strings.Join(gpucore.Backends(), ", "))
	}
	if c.Width == 0 || c.Height == 0 {
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", c.Frames)
	}
	if c.Output != "" && c.Backend == backendRecording {
		return errors.New("output requires a native backend")
	}
	return c.Batcher.Validate()
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// newLogger returns a JSON logger writing to a rotating file, or a text
// logger on stderr when no file is configured. The returned closer must
// be called before exit.
func newLogger(c logConfig) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.File == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), io.NopCloser(nil), nil
	}
	w := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   c.Compress,
	}
	return slog.New(slog.NewJSONHandler(w, opts)), w, nil
}
