// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package quad provides a batched 2D/3D geometry renderer.
//
// # Overview
//
// quad accumulates immediate-mode geometry submissions into as few GPU draw
// calls as possible. Consecutive submissions that share a render state
// (texture, clip, viewport, model matrix, pipeline, render target and draw
// mode) are merged into one draw call; a state change or a full call opens
// a new one. Flush issues the pending calls in submission order.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/quad"
//	    "github.com/gogpu/quad/backend/native"
//	)
//
//	backend, err := native.NewOffscreen(native.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	b, err := quad.New(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Release()
//
//	cam := quad.Camera2DFromRect(0, 0, 800, 600)
//	b.Clear(quad.Black)
//	b.DrawMesh(quad.NewQuad(quad.Vec3{X: 400, Y: 300}, quad.Vec2{X: 64, Y: 64}, quad.Red))
//	b.Flush(cam.Matrix())
//
// # Pipelines
//
// Four built-in pipelines cover triangles and lines with and without depth
// testing. Custom pipelines are created from a shader, fixed-function
// parameters, a list of extra uniforms and a list of extra named textures.
// Every pipeline receives the built-in uniforms Projection, Model and _Time
// at the start of its uniform block, and the primary texture as "Texture".
//
// A pipeline's uniforms are snapshotted when a draw call is opened, so
// changing a uniform between submissions affects only later geometry.
//
// # Backends
//
// Drawing goes through gpucore.Backend. The backend/native package
// implements it on gogpu/wgpu; the recording package records commands in
// memory for tests and tooling.
//
// # Logging
//
// The package is silent by default. Use SetLogger to route diagnostics to
// any slog.Handler.
package quad
