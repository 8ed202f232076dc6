// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/gpucore"
)

// passState is the command recording state of the open render pass.
type passState struct {
	encoder hal.CommandEncoder
	rp      hal.RenderPassEncoder
	format  gputypes.TextureFormat
	width   uint32
	height  uint32

	pipeline *pipeline

	// Bind group inputs of the next draw.
	uniformSet bool
	chunk      int
	offset     uint64
	images     [maxImages]gpucore.TextureID

	draws int
}

// BeginDefaultPass begins a pass on the default target.
func (b *Backend) BeginDefaultPass(action gpucore.PassAction) {
	b.beginPass(&b.screen, "quad_default_pass", action)
}

// BeginPass begins a pass on an offscreen render target.
func (b *Backend) BeginPass(id gpucore.RenderTargetID, action gpucore.PassAction) {
	b.mu.RLock()
	rt, ok := b.renderTargets[id]
	b.mu.RUnlock()
	if !ok {
		b.fail("begin pass", fmt.Errorf("%w: render target %d", ErrUnknownResource, id))
		return
	}
	b.beginPass(&rt.target, "quad_offscreen_pass", action)
}

func (b *Backend) beginPass(t *target, label string, action gpucore.PassAction) {
	if b.closed {
		b.fail("begin pass", ErrClosed)
		return
	}
	if b.pass != nil {
		b.log().Warn("pass begun while another is open; ending it")
		b.EndRenderPass()
	}
	if t.color == nil {
		b.fail("begin pass", fmt.Errorf("%w: target has no color attachment", ErrInvalidDescriptor))
		return
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		b.fail("create command encoder", err)
		return
	}
	if err := encoder.BeginEncoding(label); err != nil {
		b.fail("begin encoding", err)
		return
	}

	depthLoad := loadOp(action.ClearDepth)
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.color,
			LoadOp:     loadOp(action.Clear),
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor(action.ClearColor),
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              t.depth,
			DepthLoadOp:       depthLoad,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   1.0,
			StencilLoadOp:     depthLoad,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		},
	})

	b.pass = &passState{
		encoder: encoder,
		rp:      rp,
		format:  t.format,
		width:   t.width,
		height:  t.height,
	}
}

// EndRenderPass ends the pass and submits it, waiting for the GPU so that
// buffers may be rewritten by the next pass.
func (b *Backend) EndRenderPass() {
	ps := b.pass
	if ps == nil {
		b.fail("end render pass", errNoPass)
		return
	}
	b.pass = nil
	ps.rp.End()

	if err := b.submit(ps.encoder); err != nil {
		b.fail("submit pass", err)
	}
	b.uniforms.reset()
	b.groups.flushRetired()
}

func (b *Backend) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, b.config.SubmitTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return ErrSubmitTimeout
	}
	return nil
}

// ApplyPipeline binds a pipeline for subsequent draws.
func (b *Backend) ApplyPipeline(id gpucore.PipelineID) {
	ps := b.pass
	if ps == nil {
		b.fail("apply pipeline", errNoPass)
		return
	}
	b.mu.RLock()
	p, ok := b.pipelines[id]
	b.mu.RUnlock()
	if !ok {
		b.fail("apply pipeline", fmt.Errorf("%w: pipeline %d", ErrUnknownResource, id))
		return
	}
	rp, err := p.variant(b.device, ps.format)
	if err != nil {
		b.fail("apply pipeline", err)
		return
	}
	ps.rp.SetPipeline(rp)
	ps.pipeline = p
	ps.uniformSet = false
}

// ApplyViewport sets the viewport. The rectangle has a bottom-left origin.
func (b *Backend) ApplyViewport(x, y, width, height int32) {
	ps := b.pass
	if ps == nil {
		b.fail("apply viewport", errNoPass)
		return
	}
	top := int32(ps.height) - y - height //nolint:gosec // target sizes fit int32
	ps.rp.SetViewport(float32(x), float32(top), float32(width), float32(height), 0, 1)
}

// ApplyScissorRect sets the scissor rectangle. The rectangle has a
// bottom-left origin and is clamped to the target.
func (b *Backend) ApplyScissorRect(x, y, width, height int32) {
	ps := b.pass
	if ps == nil {
		b.fail("apply scissor rect", errNoPass)
		return
	}
	sx, sy, sw, sh := flipRect(x, y, width, height, ps.width, ps.height)
	ps.rp.SetScissorRect(sx, sy, sw, sh)
}

// ApplyBindings binds the vertex and index buffers and records the images
// for the bind group of the next draw.
func (b *Backend) ApplyBindings(bind *gpucore.Bindings) {
	ps := b.pass
	if ps == nil {
		b.fail("apply bindings", errNoPass)
		return
	}
	if len(bind.Images) > maxImages {
		b.fail("apply bindings", fmt.Errorf("%w: %d images", ErrTooManyImages, len(bind.Images)))
		return
	}

	b.mu.RLock()
	vb, vok := b.buffers[bind.VertexBuffer]
	ib, iok := b.buffers[bind.IndexBuffer]
	b.mu.RUnlock()
	if !vok || !iok {
		b.fail("apply bindings", fmt.Errorf("%w: buffers %d/%d", ErrUnknownResource, bind.VertexBuffer, bind.IndexBuffer))
		return
	}
	ps.rp.SetVertexBuffer(0, vb.buf, 0)
	ps.rp.SetIndexBuffer(ib.buf, gputypes.IndexFormatUint16, 0)

	ps.images = [maxImages]gpucore.TextureID{}
	copy(ps.images[:], bind.Images)
}

// ApplyUniforms copies the uniform block of the current pipeline into the
// uniform ring.
func (b *Backend) ApplyUniforms(data []byte) {
	ps := b.pass
	if ps == nil || ps.pipeline == nil {
		b.fail("apply uniforms", errNoPass)
		return
	}
	size := ps.pipeline.shader.uniformSize
	if uint64(len(data)) > size {
		data = data[:size]
	}
	chunk, offset, err := b.uniforms.write(data, size)
	if err != nil {
		b.fail("apply uniforms", err)
		return
	}
	ps.chunk, ps.offset, ps.uniformSet = chunk, offset, true
}

// Draw issues an indexed draw with the current bindings and uniforms.
func (b *Backend) Draw(baseElement, numElements, numInstances int) {
	ps := b.pass
	if ps == nil || ps.pipeline == nil {
		b.fail("draw", errNoPass)
		return
	}
	if numElements <= 0 || numInstances <= 0 {
		return
	}
	if !ps.uniformSet {
		// Shaders always declare the uniform block; bind zeros.
		b.ApplyUniforms(make([]byte, ps.pipeline.shader.uniformSize))
		if !ps.uniformSet {
			return
		}
	}
	group, err := b.bindGroup(ps)
	if err != nil {
		b.fail("draw", err)
		return
	}
	ps.rp.SetBindGroup(0, group, nil)
	ps.rp.DrawIndexed(uint32(numElements), uint32(numInstances), uint32(baseElement), 0, 0) //nolint:gosec // non-negative counts
	ps.draws++
}

// bindGroup returns the cached bind group for the pass inputs, creating
// it on a miss.
func (b *Backend) bindGroup(ps *passState) (hal.BindGroup, error) {
	s := ps.pipeline.shader
	key := bindGroupKey{shader: ps.pipeline.shaderID, chunk: ps.chunk, offset: ps.offset}
	copy(key.images[:s.images], ps.images[:s.images])
	if g, ok := b.groups.get(key); ok {
		return g, nil
	}

	entries := make([]gputypes.BindGroupEntry, 0, 1+2*s.images)
	entries = append(entries, gputypes.BindGroupEntry{
		Binding: 0,
		Resource: gputypes.BufferBinding{
			Buffer: b.uniforms.buffer(ps.chunk).NativeHandle(),
			Offset: ps.offset,
			Size:   s.uniformSize,
		},
	})
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := range s.images {
		t, ok := b.textures[key.images[i]]
		if !ok {
			return nil, fmt.Errorf("%w: image %d texture %d", ErrUnknownResource, i, key.images[i])
		}
		entries = append(entries,
			gputypes.BindGroupEntry{
				Binding:  uint32(1 + 2*i), //nolint:gosec // bounded by maxImages
				Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()},
			},
			gputypes.BindGroupEntry{
				Binding:  uint32(2 + 2*i), //nolint:gosec // bounded by maxImages
				Resource: gputypes.SamplerBinding{Sampler: b.samplers[t.filter].NativeHandle()},
			},
		)
	}

	g, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "quad_bind_group",
		Layout:  s.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	b.groups.add(key, g)
	return g, nil
}

// CommitFrame ends a pass left open and advances the frame counter.
// Passes are submitted as they end, so nothing else is pending.
func (b *Backend) CommitFrame() {
	if b.pass != nil {
		b.log().Warn("frame committed with an open pass")
		b.EndRenderPass()
	}
	b.frames++
	b.log().Debug("frame committed", "frame", b.frames,
		"bind_groups", b.groups.len(), "bind_group_hits", b.groups.hits, "bind_group_misses", b.groups.misses)
}
