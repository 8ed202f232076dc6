// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import "github.com/gogpu/quad/gpucore"

// bufferEntry is a CPU-side buffer.
type bufferEntry struct {
	desc gpucore.BufferDesc
	data []byte
}

// textureEntry is a CPU-side texture.
type textureEntry struct {
	desc   gpucore.TextureDesc
	pixels []byte
}

// targetEntry is an offscreen render target.
type targetEntry struct {
	width, height uint32
	color         gpucore.TextureID
}

// ResourcePool stores the resources created through a recording Backend.
// IDs are allocated from a single counter so that an ID is never reused,
// even across resource kinds.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	nextID uint64

	buffers   map[gpucore.BufferID]*bufferEntry
	textures  map[gpucore.TextureID]*textureEntry
	targets   map[gpucore.RenderTargetID]*targetEntry
	shaders   map[gpucore.ShaderID]gpucore.ShaderDesc
	pipelines map[gpucore.PipelineID]gpucore.PipelineDesc
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		nextID:    1,
		buffers:   make(map[gpucore.BufferID]*bufferEntry),
		textures:  make(map[gpucore.TextureID]*textureEntry),
		targets:   make(map[gpucore.RenderTargetID]*targetEntry),
		shaders:   make(map[gpucore.ShaderID]gpucore.ShaderDesc),
		pipelines: make(map[gpucore.PipelineID]gpucore.PipelineDesc),
	}
}

func (p *ResourcePool) allocID() uint64 {
	id := p.nextID
	p.nextID++
	return id
}

// BufferCount returns the number of live buffers.
func (p *ResourcePool) BufferCount() int { return len(p.buffers) }

// TextureCount returns the number of live textures, render target color
// textures included.
func (p *ResourcePool) TextureCount() int { return len(p.textures) }

// ShaderCount returns the number of live shaders.
func (p *ResourcePool) ShaderCount() int { return len(p.shaders) }

// PipelineCount returns the number of live pipelines.
func (p *ResourcePool) PipelineCount() int { return len(p.pipelines) }

// BufferData returns the current content of a buffer, or nil if the buffer
// does not exist. The returned slice aliases the pool's storage.
func (p *ResourcePool) BufferData(id gpucore.BufferID) []byte {
	e, ok := p.buffers[id]
	if !ok {
		return nil
	}
	return e.data
}

// BufferDesc returns the descriptor a buffer was created with.
func (p *ResourcePool) BufferDesc(id gpucore.BufferID) (gpucore.BufferDesc, bool) {
	e, ok := p.buffers[id]
	if !ok {
		return gpucore.BufferDesc{}, false
	}
	return e.desc, true
}

// TexturePixels returns the pixel content of a texture.
func (p *ResourcePool) TexturePixels(id gpucore.TextureID) []byte {
	e, ok := p.textures[id]
	if !ok {
		return nil
	}
	return e.pixels
}

// Shader returns the descriptor of a live shader.
func (p *ResourcePool) Shader(id gpucore.ShaderID) (gpucore.ShaderDesc, bool) {
	d, ok := p.shaders[id]
	return d, ok
}

// Pipeline returns the descriptor of a live pipeline.
func (p *ResourcePool) Pipeline(id gpucore.PipelineID) (gpucore.PipelineDesc, bool) {
	d, ok := p.pipelines[id]
	return d, ok
}
