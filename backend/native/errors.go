// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNilDevice is returned when a backend is created without a device or queue.
	ErrNilDevice = errors.New("native: nil device or queue")

	// ErrNoGPU is returned when no adapter is available for an offscreen device.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrUnsupportedProvider is returned when a device provider does not
	// expose HAL device and queue handles.
	ErrUnsupportedProvider = errors.New("native: provider does not expose HAL types")

	// ErrInvalidDimensions is returned when width or height is zero.
	ErrInvalidDimensions = errors.New("native: invalid dimensions")

	// ErrInvalidDescriptor is returned for malformed buffer, texture or
	// pipeline descriptors.
	ErrInvalidDescriptor = errors.New("native: invalid descriptor")

	// ErrTooManyImages is returned when a shader declares more images than
	// a bind group can hold.
	ErrTooManyImages = errors.New("native: too many images")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("native: unknown resource")

	// ErrShaderCompile wraps WGSL validation failures.
	ErrShaderCompile = errors.New("native: shader compilation failed")

	// ErrNotOffscreen is returned by ReadPixels on a surface target.
	ErrNotOffscreen = errors.New("native: default target is not offscreen")

	// ErrSubmitTimeout is returned when the GPU does not signal a fence in time.
	ErrSubmitTimeout = errors.New("native: timed out waiting for GPU")

	// ErrClosed is returned when the backend has been closed.
	ErrClosed = errors.New("native: backend closed")
)
