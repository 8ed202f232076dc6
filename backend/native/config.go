// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
)

// Device kinds accepted by NewOffscreen.
const (
	// DeviceVulkan opens the first hardware adapter of the Vulkan backend.
	DeviceVulkan = "vulkan"

	// DeviceNoop opens the noop backend. Commands are validated and dropped.
	DeviceNoop = "noop"
)

// Default configuration values.
const (
	DefaultWidth              = 800
	DefaultHeight             = 600
	DefaultBindGroupCacheSize = 256
	DefaultUniformChunkSize   = 64 << 10
	DefaultSubmitTimeout      = 5 * time.Second
)

// Config configures a native backend.
type Config struct {
	// Width and Height are the size of the default target. For surface
	// rendering they are replaced by SetSurfaceTarget.
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`

	// Format is the color format of the default target. Offscreen targets
	// default to RGBA8Unorm so ReadPixels needs no swizzle.
	Format gputypes.TextureFormat `yaml:"-"`

	// Device selects the HAL backend opened by NewOffscreen.
	Device string `yaml:"device"`

	// BindGroupCacheSize bounds the number of live bind groups.
	BindGroupCacheSize int `yaml:"bind_group_cache_size"`

	// UniformChunkSize is the size of each uniform ring buffer in bytes.
	UniformChunkSize int `yaml:"uniform_chunk_size"`

	// SubmitTimeout bounds the wait for each submitted pass.
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
}

// DefaultConfig returns the configuration used by NewOffscreen when no
// fields are set.
func DefaultConfig() Config {
	return Config{
		Width:              DefaultWidth,
		Height:             DefaultHeight,
		Format:             gputypes.TextureFormatRGBA8Unorm,
		Device:             DeviceVulkan,
		BindGroupCacheSize: DefaultBindGroupCacheSize,
		UniformChunkSize:   DefaultUniformChunkSize,
		SubmitTimeout:      DefaultSubmitTimeout,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Height == 0 {
		c.Height = d.Height
	}
	if c.Format == gputypes.TextureFormatUndefined {
		c.Format = d.Format
	}
	if c.Device == "" {
		c.Device = d.Device
	}
	if c.BindGroupCacheSize <= 0 {
		c.BindGroupCacheSize = d.BindGroupCacheSize
	}
	if c.UniformChunkSize < uniformAlignment {
		c.UniformChunkSize = d.UniformChunkSize
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = d.SubmitTimeout
	}
	return c
}

// Validate reports configuration errors that withDefaults cannot repair.
func (c Config) Validate() error {
	switch c.Device {
	case "", DeviceVulkan, DeviceNoop:
	default:
		return fmt.Errorf("native: unknown device %q", c.Device)
	}
	return nil
}
