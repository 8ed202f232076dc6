// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"fmt"

	"github.com/gogpu/quad/gpucore"
)

// DrawMode selects the primitive topology of submitted geometry.
type DrawMode uint8

const (
	// DrawTriangles interprets indices as a triangle list.
	DrawTriangles DrawMode = iota

	// DrawLines interprets indices as a line list.
	DrawLines
)

// String returns the draw mode name.
func (m DrawMode) String() string {
	switch m {
	case DrawTriangles:
		return "Triangles"
	case DrawLines:
		return "Lines"
	default:
		return fmt.Sprintf("DrawMode(%d)", m)
	}
}

func (m DrawMode) primitive() gpucore.PrimitiveType {
	if m == DrawLines {
		return gpucore.PrimitiveLines
	}
	return gpucore.PrimitiveTriangles
}

// Rect is an integer rectangle in pixels with a top-left origin.
type Rect struct {
	X, Y, W, H int32
}

// optRect is an optional rectangle. The zero value is unset.
type optRect struct {
	rect Rect
	set  bool
}

func someRect(r *Rect) optRect {
	if r == nil {
		return optRect{}
	}
	return optRect{rect: *r, set: true}
}

// BatchState is the render state applied to the next geometry submission.
//
// The zero value is not usable; create one with NewBatchState.
type BatchState struct {
	pipeline  PipelineID
	texture   gpucore.TextureID
	clip      optRect
	viewport  optRect
	target    gpucore.RenderTargetID
	drawMode  DrawMode
	depthTest bool

	// modelStack always holds at least the base identity.
	modelStack []Mat4

	// forceNewBatch makes the next submission open a new draw call.
	forceNewBatch bool
}

// NewBatchState returns the default state: default pipeline, no texture,
// clip, viewport or render target, triangles, depth test off, identity model.
func NewBatchState() *BatchState {
	s := &BatchState{modelStack: make([]Mat4, 1, 8)}
	s.modelStack[0] = Mat4Identity()
	return s
}

// Pipeline returns the explicitly selected pipeline, zero if the default
// pipeline for the draw mode and depth test is used.
func (s *BatchState) Pipeline() PipelineID { return s.pipeline }

// Texture returns the active texture.
func (s *BatchState) Texture() gpucore.TextureID { return s.texture }

// Clip returns the active clip rectangle.
func (s *BatchState) Clip() (Rect, bool) { return s.clip.rect, s.clip.set }

// Viewport returns the active viewport.
func (s *BatchState) Viewport() (Rect, bool) { return s.viewport.rect, s.viewport.set }

// RenderTarget returns the active render target, zero for the default one.
func (s *BatchState) RenderTarget() gpucore.RenderTargetID { return s.target }

// DrawMode returns the active draw mode.
func (s *BatchState) DrawMode() DrawMode { return s.drawMode }

// DepthTest reports whether depth testing is enabled.
func (s *BatchState) DepthTest() bool { return s.depthTest }

// Model returns the current model matrix (the top of the stack).
func (s *BatchState) Model() Mat4 { return s.modelStack[len(s.modelStack)-1] }

// Depth returns the number of pushed model matrices.
func (s *BatchState) Depth() int { return len(s.modelStack) - 1 }

// ForceNewBatch reports whether the next submission opens a new draw call
// regardless of state.
func (s *BatchState) ForceNewBatch() bool { return s.forceNewBatch }

// BreakBatching makes the next submission open a new draw call.
func (s *BatchState) BreakBatching() { s.forceNewBatch = true }

// PushModel pushes top * m onto the model stack.
func (s *BatchState) PushModel(m Mat4) {
	s.modelStack = append(s.modelStack, s.Model().Mul(m))
}

// PopModel pops the model stack. The base identity is never popped.
func (s *BatchState) PopModel() {
	if len(s.modelStack) > 1 {
		s.modelStack = s.modelStack[:len(s.modelStack)-1]
	}
}

// Reset clears the clip, the texture and the model stack. Pipeline, draw
// mode, depth test, viewport and render target are kept.
func (s *BatchState) Reset() {
	s.clip = optRect{}
	s.texture = gpucore.InvalidID
	s.modelStack = s.modelStack[:1]
	s.modelStack[0] = Mat4Identity()
}
