// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import "time"

// Backend abstracts over the graphics API used to execute draw calls.
//
// Resource lifecycle:
//   - Resources are created via New* methods
//   - Resources must be explicitly released via Delete* methods
//   - Deleting a resource referenced by a pending draw is undefined behavior
//   - IDs become invalid after deletion and are never reissued
//
// Command recording follows a strict order per pass:
//
//	BeginDefaultPass / BeginPass
//	  ApplyPipeline
//	  ApplyViewport, ApplyScissorRect
//	  ApplyBindings, ApplyUniforms
//	  Draw ...
//	EndRenderPass
//	... more passes ...
//	CommitFrame
type Backend interface {
	// === Buffers ===

	// NewBuffer creates a vertex or index buffer of desc.Size bytes.
	NewBuffer(desc BufferDesc) (BufferID, error)

	// UpdateBuffer replaces the buffer content starting at offset zero.
	// len(data) must not exceed the buffer size.
	UpdateBuffer(id BufferID, data []byte)

	// DeleteBuffer releases a buffer.
	DeleteBuffer(id BufferID)

	// === Textures ===

	// NewTexture creates a sampled texture. pixels may be nil, in which case
	// the content is undefined until UpdateTexture.
	NewTexture(desc TextureDesc, pixels []byte) (TextureID, error)

	// UpdateTexture replaces the whole texture content.
	UpdateTexture(id TextureID, pixels []byte)

	// TextureSize returns the texture dimensions in pixels.
	TextureSize(id TextureID) (width, height uint32)

	// DeleteTexture releases a texture.
	DeleteTexture(id TextureID)

	// === Render targets ===

	// NewRenderTarget creates an offscreen color target with a depth buffer.
	NewRenderTarget(width, height uint32) (RenderTargetID, error)

	// RenderTargetTexture returns the color texture of a render target so it
	// can be sampled by later draws.
	RenderTargetTexture(id RenderTargetID) TextureID

	// DeleteRenderTarget releases a render target and its textures.
	DeleteRenderTarget(id RenderTargetID)

	// === Shaders and pipelines ===

	// NewShader compiles a shader program. Compilation failures are returned
	// as errors and leave no resources behind.
	NewShader(desc ShaderDesc) (ShaderID, error)

	// DeleteShader releases a shader.
	DeleteShader(id ShaderID)

	// NewPipeline creates a render pipeline.
	NewPipeline(desc PipelineDesc) (PipelineID, error)

	// DeletePipeline releases a pipeline.
	DeletePipeline(id PipelineID)

	// === Command recording ===

	// ScreenSize returns the size of the default target in pixels.
	ScreenSize() (width, height uint32)

	// BeginDefaultPass begins a pass on the default target.
	BeginDefaultPass(action PassAction)

	// BeginPass begins a pass on an offscreen render target.
	BeginPass(target RenderTargetID, action PassAction)

	// EndRenderPass ends the current pass.
	EndRenderPass()

	// ApplyPipeline binds a pipeline for subsequent draws.
	ApplyPipeline(id PipelineID)

	// ApplyViewport sets the viewport (bottom-left origin).
	ApplyViewport(x, y, width, height int32)

	// ApplyScissorRect sets the scissor rectangle (bottom-left origin).
	ApplyScissorRect(x, y, width, height int32)

	// ApplyBindings binds vertex/index buffers and images.
	ApplyBindings(b *Bindings)

	// ApplyUniforms uploads the uniform block of the current pipeline.
	ApplyUniforms(data []byte)

	// Draw issues an indexed draw of numElements indices.
	Draw(baseElement, numElements, numInstances int)

	// CommitFrame submits all recorded passes and presents the frame.
	CommitFrame()

	// === Time ===

	// ElapsedTime returns the monotonic time since the backend was created.
	ElapsedTime() time.Duration
}
