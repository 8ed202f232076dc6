// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native implements gpucore.Backend on a gogpu/wgpu HAL device.
//
// Shaders are WGSL modules holding both vs_main and fs_main. They are
// validated with naga before the module is created. The bind group of
// every shader follows one layout:
//
//	@group(0) @binding(0)      uniform block
//	@group(0) @binding(1+2*i)  texture_2d<f32> of image i
//	@group(0) @binding(2+2*i)  sampler of image i
//
// Viewport and scissor rectangles arrive with a bottom-left origin and are
// flipped to WebGPU's top-left origin against the current target.
//
// A backend either owns its device (NewOffscreen) or borrows one from an
// application (New, NewFromProvider). Offscreen backends render to a
// color texture that ReadPixels copies back to the CPU. Surface backends
// render into the view passed to SetSurfaceTarget each frame.
//
// Example:
//
//	b, err := native.NewOffscreen(native.Config{Width: 256, Height: 256, Device: native.DeviceNoop})
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
package native
