// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import "github.com/gogpu/quad/gpucore"

// DrawCall is one pending GPU draw: fixed-capacity geometry storage plus the
// state snapshot it was opened with.
//
// Draw calls are owned by a Batcher and reused across frames.
type DrawCall struct {
	vertices []Vertex
	indices  []uint16

	verticesUsed int
	indicesUsed  int

	texture  gpucore.TextureID
	clip     optRect
	viewport optRect
	model    Mat4
	drawMode DrawMode
	pipeline PipelineID
	target   gpucore.RenderTargetID

	// uniforms is the pipeline's uniform bytes when the call was opened.
	uniforms []byte
}

func newDrawCall(maxVertices, maxIndices int) *DrawCall {
	return &DrawCall{
		vertices: make([]Vertex, maxVertices),
		indices:  make([]uint16, maxIndices),
	}
}

// Vertices returns the used part of the vertex array.
func (c *DrawCall) Vertices() []Vertex { return c.vertices[:c.verticesUsed] }

// Indices returns the used part of the index array.
func (c *DrawCall) Indices() []uint16 { return c.indices[:c.indicesUsed] }

// Texture returns the primary texture of the call.
func (c *DrawCall) Texture() gpucore.TextureID { return c.texture }

// Clip returns the clip rectangle of the call.
func (c *DrawCall) Clip() (Rect, bool) { return c.clip.rect, c.clip.set }

// Viewport returns the viewport of the call.
func (c *DrawCall) Viewport() (Rect, bool) { return c.viewport.rect, c.viewport.set }

// Model returns the model matrix of the call.
func (c *DrawCall) Model() Mat4 { return c.model }

// DrawMode returns the draw mode of the call.
func (c *DrawCall) DrawMode() DrawMode { return c.drawMode }

// Pipeline returns the pipeline of the call.
func (c *DrawCall) Pipeline() PipelineID { return c.pipeline }

// RenderTarget returns the render target of the call.
func (c *DrawCall) RenderTarget() gpucore.RenderTargetID { return c.target }

// Uniforms returns the uniform snapshot of the call.
func (c *DrawCall) Uniforms() []byte { return c.uniforms }

// capacity returns the vertex and index capacity.
func (c *DrawCall) capacity() (int, int) { return len(c.vertices), len(c.indices) }

// fits reports whether nv vertices and ni indices can be appended.
func (c *DrawCall) fits(nv, ni int) bool {
	return c.verticesUsed+nv <= len(c.vertices) && c.indicesUsed+ni <= len(c.indices)
}

// matches reports whether geometry submitted with state s and pipeline p
// can be appended to the call.
func (c *DrawCall) matches(s *BatchState, p PipelineID) bool {
	return c.texture == s.texture &&
		c.clip == s.clip &&
		c.viewport == s.viewport &&
		c.model == s.Model() &&
		c.pipeline == p &&
		c.target == s.target &&
		c.drawMode == s.drawMode
}

// open resets the call for reuse with state s.
func (c *DrawCall) open(s *BatchState, p PipelineID, uniforms []byte) {
	c.verticesUsed = 0
	c.indicesUsed = 0
	c.texture = s.texture
	c.clip = s.clip
	c.viewport = s.viewport
	c.model = s.Model()
	c.drawMode = s.drawMode
	c.pipeline = p
	c.target = s.target
	c.uniforms = append(c.uniforms[:0], uniforms...)
}

// appendGeometry copies vertices verbatim and indices rebased by the
// current vertex count.
func (c *DrawCall) appendGeometry(vertices []Vertex, indices []uint16) {
	base := uint16(c.verticesUsed) //nolint:gosec // capacity is bounded by the uint16 index range
	copy(c.vertices[c.verticesUsed:], vertices)
	dst := c.indices[c.indicesUsed : c.indicesUsed+len(indices)]
	for i, idx := range indices {
		dst[i] = idx + base
	}
	c.verticesUsed += len(vertices)
	c.indicesUsed += len(indices)
}

// resize reallocates the geometry arrays, dropping any pending content.
func (c *DrawCall) resize(maxVertices, maxIndices int) {
	c.vertices = make([]Vertex, maxVertices)
	c.indices = make([]uint16, maxIndices)
	c.verticesUsed = 0
	c.indicesUsed = 0
}

func (c *DrawCall) empty() bool { return c.indicesUsed == 0 && c.verticesUsed == 0 }
