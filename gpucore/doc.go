// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore defines the graphics backend contract used by the quad
// batching core.
//
// The batcher never touches a GPU API directly. It talks to a [Backend],
// which owns every buffer, texture, shader and pipeline and hands out opaque
// IDs in return. This keeps the batching rules testable without a GPU and lets
// the same core drive different implementations:
//   - backend/native (gogpu/wgpu HAL: Vulkan, Metal, DX12, GLES, noop)
//   - recording (captures the command stream, used by tests and tooling)
//
// # Architecture
//
//	               +-----------------+
//	               |   quad.Batcher  |
//	               | (batch + flush) |
//	               +--------+--------+
//	                        |
//	                 gpucore.Backend
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	| backend/native  |          |    recording    |
//	|  (hal.Device)   |          | (command log)   |
//	+-----------------+          +-----------------+
//
// # Resource IDs
//
// All resources are referenced by uint64 IDs. [InvalidID] (zero) is never
// handed out, so the zero value of every ID type means "none".
//
// # Coordinate Conventions
//
// Viewport and scissor rectangles passed to a [Backend] use a bottom-left
// origin, the convention of GL-style APIs. Backends whose native origin is
// top-left (WebGPU, Vulkan, Metal) flip the rectangle against the height of
// the current pass target.
//
// # Thread Safety
//
// A Backend is driven from the goroutine that owns the rendering context.
// Implementations may allow resource creation from other goroutines but
// command recording (passes, bindings, draws) is single-threaded.
package gpucore
