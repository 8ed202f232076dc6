// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/quad/gpucore"
)

// bufferBinding is the vertex and index buffer pair backing one draw call.
type bufferBinding struct {
	vertex gpucore.BufferID
	index  gpucore.BufferID
}

// Batcher accumulates geometry into draw calls and turns them into backend
// commands.
//
// Geometry submitted with the same render state (texture, clip, viewport,
// model matrix, pipeline, render target and draw mode) is merged into one
// draw call until the call is full. Flush issues every pending call in the
// order it was opened.
//
// Usage:
//
//	b, err := quad.New(backend)
//	if err != nil {
//	    return err
//	}
//	defer b.Release()
//
//	b.SetTexture(tex)
//	b.DrawMesh(quad.NewQuad(quad.Vec3{X: 10, Y: 10}, quad.Vec2{X: 32, Y: 32}, quad.White))
//	b.Flush(camera.Matrix())
//
// Batcher is not safe for concurrent use; it belongs to the render thread.
type Batcher struct {
	backend   gpucore.Backend
	config    Config
	pipelines *PipelineRegistry
	state     *BatchState

	calls    []*DrawCall
	next     int // calls[:next] are pending this frame
	bindings []bufferBinding

	white gpucore.TextureID

	vertexBytes []byte
	indexBytes  []byte
	images      []gpucore.TextureID

	stats FrameStats
	last  FrameStats
}

// New creates a Batcher drawing through backend.
//
// New compiles the default shader, creates the default pipelines and a 1x1
// white texture used when no texture is selected.
func New(backend gpucore.Backend, opts ...Option) (*Batcher, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	propagateLogger(backend, Logger())

	pipelines, err := NewPipelineRegistry(backend)
	if err != nil {
		return nil, err
	}
	white, err := backend.NewTexture(gpucore.TextureDesc{
		Label:  "quad_white",
		Width:  1,
		Height: 1,
		Format: gpucore.TextureFormatRGBA8,
		Filter: gpucore.FilterNearest,
	}, []byte{255, 255, 255, 255})
	if err != nil {
		pipelines.Release()
		return nil, fmt.Errorf("quad: create white texture: %w", err)
	}

	b := &Batcher{
		backend:   backend,
		config:    cfg,
		pipelines: pipelines,
		state:     NewBatchState(),
		white:     white,
	}
	b.allocScratch()
	track(b)

	Logger().Info("quad: batcher created",
		"max_vertices", cfg.MaxVertices,
		"max_indices", cfg.MaxIndices)
	return b, nil
}

func (b *Batcher) allocScratch() {
	b.vertexBytes = make([]byte, b.config.MaxVertices*VertexSize)
	b.indexBytes = make([]byte, b.config.MaxIndices*2)
}

// Backend returns the backend the batcher draws through.
func (b *Batcher) Backend() gpucore.Backend { return b.backend }

// Config returns the active configuration.
func (b *Batcher) Config() Config { return b.config }

// State returns the batch state. Changes made through it apply to the next
// submission.
func (b *Batcher) State() *BatchState { return b.state }

// Pipelines returns the pipeline registry.
func (b *Batcher) Pipelines() *PipelineRegistry { return b.pipelines }

// WhiteTexture returns the texture bound when no texture is selected.
func (b *Batcher) WhiteTexture() gpucore.TextureID { return b.white }

// SetTexture selects the primary texture. InvalidID selects the white
// texture.
func (b *Batcher) SetTexture(tex gpucore.TextureID) { b.state.texture = tex }

// SetPipeline selects a pipeline. The zero PipelineID selects the default
// pipeline for the current draw mode and depth test.
func (b *Batcher) SetPipeline(id PipelineID) { b.state.pipeline = id }

// SetClip sets the clip rectangle in pixels of the active target with a
// top-left origin. nil disables clipping.
func (b *Batcher) SetClip(r *Rect) { b.state.clip = someRect(r) }

// SetViewport sets the viewport in backend coordinates (bottom-left
// origin). nil selects the full target.
func (b *Batcher) SetViewport(r *Rect) { b.state.viewport = someRect(r) }

// SetRenderTarget selects an offscreen render target. InvalidID selects the
// default target.
func (b *Batcher) SetRenderTarget(rt gpucore.RenderTargetID) { b.state.target = rt }

// SetDrawMode selects triangles or lines.
func (b *Batcher) SetDrawMode(m DrawMode) { b.state.drawMode = m }

// SetDepthTest toggles depth testing for the default pipelines.
func (b *Batcher) SetDepthTest(enabled bool) { b.state.depthTest = enabled }

// PushModel pushes Model() * m onto the model stack.
func (b *Batcher) PushModel(m Mat4) { b.state.PushModel(m) }

// PopModel pops the model stack. The base identity is never popped.
func (b *Batcher) PopModel() { b.state.PopModel() }

// Model returns the current model matrix.
func (b *Batcher) Model() Mat4 { return b.state.Model() }

// Reset clears the clip, the texture and the model stack.
func (b *Batcher) Reset() { b.state.Reset() }

// activePipeline resolves the pipeline for the next submission.
func (b *Batcher) activePipeline() PipelineID {
	if b.state.pipeline.IsValid() {
		return b.state.pipeline
	}
	return b.pipelines.Default(b.state.drawMode, b.state.depthTest)
}

// Submit appends geometry to the current draw call, opening a new one when
// the render state changed or the call is full.
//
// Indices are relative to vertices. Geometry larger than a draw call is
// truncated to the configured capacity.
//
// Submit panics if the selected pipeline has been deleted.
func (b *Batcher) Submit(vertices []Vertex, indices []uint16) {
	if len(vertices) > b.config.MaxVertices || len(indices) > b.config.MaxIndices {
		Logger().Warn("quad: geometry exceeds draw call capacity, clamping",
			"vertices", len(vertices),
			"indices", len(indices),
			"max_vertices", b.config.MaxVertices,
			"max_indices", b.config.MaxIndices)
		vertices = vertices[:min(len(vertices), b.config.MaxVertices)]
		indices = indices[:min(len(indices), b.config.MaxIndices)]
		b.stats.Clamped++
	}

	pip := b.activePipeline()
	ext := b.pipelines.mustGet(pip)

	var call *DrawCall
	if b.next > 0 {
		call = b.calls[b.next-1]
	}
	if call == nil ||
		b.state.forceNewBatch ||
		!call.matches(b.state, pip) ||
		!call.fits(len(vertices), len(indices)) {
		call = b.openCall(pip, ext)
	}

	call.appendGeometry(vertices, indices)
	call.texture = b.state.texture
}

// openCall takes the next draw call slot, allocating one if needed.
func (b *Batcher) openCall(pip PipelineID, ext *PipelineExt) *DrawCall {
	if b.next == len(b.calls) {
		b.calls = append(b.calls, newDrawCall(b.config.MaxVertices, b.config.MaxIndices))
		Logger().Debug("quad: draw call allocated", "count", len(b.calls))
	}
	call := b.calls[b.next]
	b.next++
	call.open(b.state, pip, ext.uniformData)
	b.state.forceNewBatch = false
	return call
}

// DrawMesh submits a mesh.
func (b *Batcher) DrawMesh(m *Mesh) {
	b.Submit(m.Vertices, m.Indices)
}

// PendingDrawCalls returns the draw calls opened since the last Flush or
// Clear, in submission order.
func (b *Batcher) PendingDrawCalls() []*DrawCall { return b.calls[:b.next] }

// ensureBindings creates buffers for every allocated draw call. It returns
// the number of calls that have buffers.
func (b *Batcher) ensureBindings() int {
	for len(b.bindings) < len(b.calls) {
		bb, err := b.newBinding(b.config.MaxVertices, b.config.MaxIndices)
		if err != nil {
			Logger().Error("quad: buffer binding creation failed", "err", err)
			break
		}
		b.bindings = append(b.bindings, bb)
		Logger().Debug("quad: buffer binding created", "count", len(b.bindings))
	}
	return len(b.bindings)
}

func (b *Batcher) newBinding(maxVertices, maxIndices int) (bufferBinding, error) {
	vb, err := b.backend.NewBuffer(gpucore.BufferDesc{
		Label: "quad_vertices",
		Type:  gpucore.BufferTypeVertex,
		Usage: gpucore.BufferUsageStream,
		Size:  maxVertices * VertexSize,
	})
	if err != nil {
		return bufferBinding{}, fmt.Errorf("vertex buffer: %w", err)
	}
	ib, err := b.backend.NewBuffer(gpucore.BufferDesc{
		Label: "quad_indices",
		Type:  gpucore.BufferTypeIndex,
		Usage: gpucore.BufferUsageStream,
		Size:  maxIndices * 2,
	})
	if err != nil {
		b.backend.DeleteBuffer(vb)
		return bufferBinding{}, fmt.Errorf("index buffer: %w", err)
	}
	return bufferBinding{vertex: vb, index: ib}, nil
}

func (b *Batcher) deleteBindings(bindings []bufferBinding) {
	for _, bb := range bindings {
		b.backend.DeleteBuffer(bb.vertex)
		b.backend.DeleteBuffer(bb.index)
	}
}

func (b *Batcher) releaseBindings() {
	b.deleteBindings(b.bindings)
	b.bindings = b.bindings[:0]
}

// targetSize returns the pixel size of a render target, the screen for
// InvalidID.
func (b *Batcher) targetSize(rt gpucore.RenderTargetID) (int32, int32) {
	var w, h uint32
	if rt == gpucore.InvalidID {
		w, h = b.backend.ScreenSize()
	} else {
		w, h = b.backend.TextureSize(b.backend.RenderTargetTexture(rt))
	}
	return int32(w), int32(h) //nolint:gosec // target sizes fit int32
}

func (b *Batcher) beginPass(rt gpucore.RenderTargetID, action gpucore.PassAction) {
	if rt == gpucore.InvalidID {
		b.backend.BeginDefaultPass(action)
	} else {
		b.backend.BeginPass(rt, action)
	}
	b.stats.Passes++
}

// Flush issues every pending draw call with the given projection and
// commits the frame.
//
// Each call gets its own pass loading the previous target content. The
// uniforms of a call are the pipeline uniforms at the time it was opened,
// with Projection, Model and _Time overwritten.
//
// Flush panics if a pending call references a deleted pipeline.
func (b *Batcher) Flush(projection Mat4) {
	bound := b.ensureBindings()

	secs := b.backend.ElapsedTime().Seconds()
	timeVec := Vec4Value(float32(secs), float32(math.Sin(secs)), float32(math.Cos(secs)), 0)

	for i, call := range b.calls[:b.next] {
		if call.indicesUsed == 0 {
			continue
		}
		if i >= bound {
			Logger().Warn("quad: draw call dropped, no buffer binding", "index", i)
			call.verticesUsed, call.indicesUsed = 0, 0
			continue
		}
		ext := b.pipelines.mustGet(call.pipeline)
		b.issue(call, ext, b.bindings[i], projection, timeVec)
	}
	b.next = 0
	b.stats.Flushes++

	b.backend.CommitFrame()
	b.endFrame()
}

// issue records the pass of one draw call.
func (b *Batcher) issue(call *DrawCall, ext *PipelineExt, bb bufferBinding, projection Mat4, timeVec UniformValue) {
	w, h := b.targetSize(call.target)
	b.beginPass(call.target, gpucore.LoadAction())

	nv, ni := call.verticesUsed, call.indicesUsed
	encodeVertices(b.vertexBytes, call.vertices[:nv])
	encodeIndices(b.indexBytes, call.indices[:ni])
	b.backend.UpdateBuffer(bb.vertex, b.vertexBytes[:nv*VertexSize])
	b.backend.UpdateBuffer(bb.index, b.indexBytes[:ni*2])

	tex := call.texture
	if tex == gpucore.InvalidID {
		tex = b.white
	}
	b.images = append(b.images[:0], tex)
	for _, name := range ext.textures {
		named := ext.textureData[name]
		if named == gpucore.InvalidID {
			named = b.white
		}
		b.images = append(b.images, named)
	}

	b.backend.ApplyPipeline(ext.handle)

	if call.viewport.set {
		vp := call.viewport.rect
		b.backend.ApplyViewport(vp.X, vp.Y, vp.W, vp.H)
	} else {
		b.backend.ApplyViewport(0, 0, w, h)
	}
	if call.clip.set {
		c := call.clip.rect
		b.backend.ApplyScissorRect(c.X, h-(c.Y+c.H), c.W, c.H)
	} else {
		b.backend.ApplyScissorRect(0, 0, w, h)
	}

	b.backend.ApplyBindings(&gpucore.Bindings{
		VertexBuffer: bb.vertex,
		IndexBuffer:  bb.index,
		Images:       b.images,
	})

	copy(ext.uniformData, call.uniforms)
	projection.putBytes(ext.uniformData[offsetProjection:])
	call.model.putBytes(ext.uniformData[offsetModel:])
	timeVec.put(ext.uniformData[offsetTime:])
	b.backend.ApplyUniforms(ext.uniformData)

	b.backend.Draw(0, ni, 1)
	b.backend.EndRenderPass()

	b.stats.DrawCalls++
	b.stats.Vertices += nv
	b.stats.Indices += ni
	call.verticesUsed, call.indicesUsed = 0, 0
}

func (b *Batcher) endFrame() {
	b.last = b.stats
	Logger().Debug("quad: frame", "stats", b.last)
	b.stats = FrameStats{Frame: b.last.Frame + 1}
}

// Clear clears the active render target (or the default target) to c and
// discards every pending draw call.
func (b *Batcher) Clear(c Color) {
	b.beginPass(b.state.target, gpucore.ClearAction(c.clearColor()))
	b.backend.EndRenderPass()
	b.discard()
}

func (b *Batcher) discard() {
	for _, call := range b.calls[:b.next] {
		call.verticesUsed, call.indicesUsed = 0, 0
	}
	b.next = 0
}

// UpdateDrawCallCapacity changes the geometry capacity of every draw call.
// Pending draw calls are discarded and every buffer binding is recreated.
//
// The replacement buffers are created before anything changes; if one
// fails, the batcher keeps its previous capacity, bindings and pending
// calls.
func (b *Batcher) UpdateDrawCallCapacity(maxVertices, maxIndices int) error {
	if err := validateCapacity(maxVertices, maxIndices); err != nil {
		return err
	}
	fresh := make([]bufferBinding, 0, len(b.calls))
	for range b.calls {
		bb, err := b.newBinding(maxVertices, maxIndices)
		if err != nil {
			b.deleteBindings(fresh)
			return fmt.Errorf("quad: recreate buffer bindings (%d of %d done): %w", len(fresh), len(b.calls), err)
		}
		fresh = append(fresh, bb)
	}

	b.releaseBindings()
	b.bindings = fresh
	b.config.MaxVertices = maxVertices
	b.config.MaxIndices = maxIndices
	b.next = 0
	for _, call := range b.calls {
		call.resize(maxVertices, maxIndices)
	}
	b.allocScratch()
	Logger().Debug("quad: draw call capacity updated",
		"max_vertices", maxVertices,
		"max_indices", maxIndices,
		"calls", len(b.calls))
	return nil
}

// CreatePipeline creates a pipeline. See PipelineRegistry.Create.
func (b *Batcher) CreatePipeline(src ShaderSource, params gpucore.PipelineParams, uniforms []UniformDesc, textures []string) (PipelineID, error) {
	return b.pipelines.Create(src, params, uniforms, textures)
}

// DeletePipeline deletes a pipeline. It returns ErrPipelineInUse if a
// pending draw call uses it.
func (b *Batcher) DeletePipeline(id PipelineID) error {
	for _, call := range b.calls[:b.next] {
		if call.pipeline == id && !call.empty() {
			return fmt.Errorf("%w: %v", ErrPipelineInUse, id)
		}
	}
	err := b.pipelines.Delete(id)
	if (err == nil || errors.Is(err, ErrStaleHandle)) && b.state.pipeline == id {
		b.state.pipeline = PipelineID{}
	}
	return err
}

// SetUniform sets a pipeline uniform. On success the next submission opens
// a new draw call so earlier geometry keeps the previous value.
func (b *Batcher) SetUniform(id PipelineID, name string, v UniformValue) bool {
	if !b.pipelines.SetUniform(id, name, v) {
		return false
	}
	b.state.forceNewBatch = true
	return true
}

// SetPipelineTexture binds a texture to a named slot of a pipeline. It
// panics if the name was not declared when the pipeline was created.
func (b *Batcher) SetPipelineTexture(id PipelineID, name string, tex gpucore.TextureID) {
	b.pipelines.SetTexture(id, name, tex)
}

// DefaultPipeline returns the built-in pipeline for a draw mode and depth
// setting.
func (b *Batcher) DefaultPipeline(mode DrawMode, depth bool) PipelineID {
	return b.pipelines.Default(mode, depth)
}

// NewRenderTarget creates an offscreen target and returns it with its
// color texture.
func (b *Batcher) NewRenderTarget(width, height uint32) (gpucore.RenderTargetID, gpucore.TextureID, error) {
	rt, err := b.backend.NewRenderTarget(width, height)
	if err != nil {
		return gpucore.InvalidID, gpucore.InvalidID, fmt.Errorf("quad: create render target: %w", err)
	}
	return rt, b.backend.RenderTargetTexture(rt), nil
}

// Stats returns the statistics of the last flushed frame.
func (b *Batcher) Stats() FrameStats { return b.last }

// Release destroys every backend resource owned by the batcher. The
// batcher must not be used afterwards.
func (b *Batcher) Release() {
	b.discard()
	b.releaseBindings()
	if b.white != gpucore.InvalidID {
		b.backend.DeleteTexture(b.white)
		b.white = gpucore.InvalidID
	}
	b.pipelines.Release()
	b.calls = nil
	untrack(b)
	Logger().Debug("quad: batcher released")
}
