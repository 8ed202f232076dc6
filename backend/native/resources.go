// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/gpucore"
)

// depthFormat is the depth/stencil format of every target.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

type buffer struct {
	buf  hal.Buffer
	typ  gpucore.BufferType
	size uint64
}

type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
	filter gpucore.FilterMode

	// owner is set for render target color textures; they are released
	// with the render target.
	owner gpucore.RenderTargetID
}

func (t *texture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// target is a color attachment and its depth/stencil buffer.
type target struct {
	color     hal.TextureView
	colorTex  hal.Texture // nil when color is a borrowed surface view
	depth     hal.TextureView
	depthTex  hal.Texture
	format    gputypes.TextureFormat
	width     uint32
	height    uint32
	borrowing bool
}

// ensure (re)creates an owned color texture and depth buffer of the given
// size. It is a no-op when the target already matches.
func (t *target) ensure(device hal.Device, w, h uint32, format gputypes.TextureFormat, label string) error {
	if w == 0 || h == 0 {
		return ErrInvalidDimensions
	}
	if !t.borrowing && t.colorTex != nil && t.width == w && t.height == h && t.format == format {
		return nil
	}
	t.destroy(device)

	tex, view, err := createTexture(device, label+"_color", w, h, format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageTextureBinding|
			gputypes.TextureUsageCopySrc|gputypes.TextureUsageCopyDst)
	if err != nil {
		return err
	}
	t.colorTex, t.color = tex, view
	t.format, t.width, t.height = format, w, h
	if err := t.ensureDepth(device, label); err != nil {
		t.destroy(device)
		return err
	}
	return nil
}

// attachSurface borrows a surface view as the color attachment and sizes
// the depth buffer to it.
func (t *target) attachSurface(device hal.Device, view hal.TextureView, w, h uint32, format gputypes.TextureFormat) error {
	if !t.borrowing || t.width != w || t.height != h {
		t.destroy(device)
	}
	t.borrowing = true
	t.color = view
	t.format, t.width, t.height = format, w, h
	return t.ensureDepth(device, "quad_surface")
}

func (t *target) ensureDepth(device hal.Device, label string) error {
	if t.depthTex != nil {
		return nil
	}
	tex, view, err := createTexture(device, label+"_depth", t.width, t.height, depthFormat,
		gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	t.depthTex, t.depth = tex, view
	return nil
}

func (t *target) destroyDepth(device hal.Device) {
	if t.depth != nil {
		device.DestroyTextureView(t.depth)
		t.depth = nil
	}
	if t.depthTex != nil {
		device.DestroyTexture(t.depthTex)
		t.depthTex = nil
	}
}

func (t *target) destroy(device hal.Device) {
	t.destroyDepth(device)
	if !t.borrowing {
		if t.color != nil {
			device.DestroyTextureView(t.color)
		}
		if t.colorTex != nil {
			device.DestroyTexture(t.colorTex)
		}
	}
	t.color, t.colorTex = nil, nil
	t.borrowing = false
	t.width, t.height = 0, 0
}

// renderTarget is an offscreen target whose color texture is registered
// as a sampled texture.
type renderTarget struct {
	target
	colorID gpucore.TextureID
}

func createTexture(device hal.Device, label string, w, h uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	return tex, view, nil
}

// === Buffers ===

// NewBuffer creates a vertex or index buffer.
func (b *Backend) NewBuffer(desc gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc.Size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: buffer size %d", ErrInvalidDescriptor, desc.Size)
	}
	var usage gputypes.BufferUsage
	switch desc.Type {
	case gpucore.BufferTypeVertex:
		usage = gputypes.BufferUsageVertex
	case gpucore.BufferTypeIndex:
		usage = gputypes.BufferUsageIndex
	default:
		return gpucore.InvalidID, fmt.Errorf("%w: buffer type %v", ErrInvalidDescriptor, desc.Type)
	}
	// Copy sizes must be 4-byte aligned.
	size := alignUp(uint64(desc.Size), 4)
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}

	id := gpucore.BufferID(b.newID())
	b.mu.Lock()
	b.buffers[id] = &buffer{buf: buf, typ: desc.Type, size: size}
	b.mu.Unlock()
	b.log().Debug("buffer created", "id", id, "type", desc.Type.String(), "size", size)
	return id, nil
}

// UpdateBuffer writes data at offset zero. Writes take effect for passes
// submitted afterwards.
func (b *Backend) UpdateBuffer(id gpucore.BufferID, data []byte) {
	b.mu.RLock()
	buf, ok := b.buffers[id]
	b.mu.RUnlock()
	if !ok {
		b.fail("update buffer", fmt.Errorf("%w: buffer %d", ErrUnknownResource, id))
		return
	}
	if uint64(len(data)) > buf.size {
		b.fail("update buffer", fmt.Errorf("%w: %d bytes into %d", ErrInvalidDescriptor, len(data), buf.size))
		return
	}
	if len(data) == 0 {
		return
	}
	if len(data)%4 != 0 {
		padded := make([]byte, alignUp(uint64(len(data)), 4))
		copy(padded, data)
		data = padded
	}
	b.queue.WriteBuffer(buf.buf, 0, data)
}

// DeleteBuffer releases a buffer.
func (b *Backend) DeleteBuffer(id gpucore.BufferID) {
	b.mu.Lock()
	buf, ok := b.buffers[id]
	delete(b.buffers, id)
	b.mu.Unlock()
	if ok {
		b.device.DestroyBuffer(buf.buf)
	}
}

// === Textures ===

// NewTexture creates a sampled RGBA8 texture.
func (b *Backend) NewTexture(desc gpucore.TextureDesc, pixels []byte) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, ErrInvalidDimensions
	}
	if desc.Format != gpucore.TextureFormatRGBA8 {
		return gpucore.InvalidID, fmt.Errorf("%w: texture format %d", ErrInvalidDescriptor, desc.Format)
	}
	tex, view, err := createTexture(b.device, desc.Label, desc.Width, desc.Height,
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: %w", err)
	}
	t := &texture{tex: tex, view: view, width: desc.Width, height: desc.Height, filter: desc.Filter}
	if pixels != nil {
		if err := b.writeTexture(t, pixels); err != nil {
			t.destroy(b.device)
			return gpucore.InvalidID, err
		}
	}

	id := gpucore.TextureID(b.newID())
	b.mu.Lock()
	b.textures[id] = t
	b.mu.Unlock()
	b.log().Debug("texture created", "id", id, "width", desc.Width, "height", desc.Height)
	return id, nil
}

func (b *Backend) writeTexture(t *texture, pixels []byte) error {
	want := int(t.width) * int(t.height) * 4
	if len(pixels) != want {
		return fmt.Errorf("%w: %d pixel bytes, want %d", ErrInvalidDescriptor, len(pixels), want)
	}
	b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: t.width * 4, RowsPerImage: t.height},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	return nil
}

// UpdateTexture replaces the whole texture content.
func (b *Backend) UpdateTexture(id gpucore.TextureID, pixels []byte) {
	b.mu.RLock()
	t, ok := b.textures[id]
	b.mu.RUnlock()
	if !ok {
		b.fail("update texture", fmt.Errorf("%w: texture %d", ErrUnknownResource, id))
		return
	}
	if err := b.writeTexture(t, pixels); err != nil {
		b.fail("update texture", err)
	}
}

// TextureSize returns the texture dimensions, or zero for unknown IDs.
func (b *Backend) TextureSize(id gpucore.TextureID) (width, height uint32) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if t, ok := b.textures[id]; ok {
		return t.width, t.height
	}
	return 0, 0
}

// DeleteTexture releases a texture. Render target color textures are
// released by DeleteRenderTarget only.
func (b *Backend) DeleteTexture(id gpucore.TextureID) {
	b.mu.Lock()
	t, ok := b.textures[id]
	if ok && t.owner != gpucore.InvalidID {
		ok = false
	}
	if ok {
		delete(b.textures, id)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	b.groups.removeTexture(id)
	b.releaseRetired()
	t.destroy(b.device)
}

// === Render targets ===

// NewRenderTarget creates an offscreen target with an RGBA8 color texture
// and a depth buffer.
func (b *Backend) NewRenderTarget(width, height uint32) (gpucore.RenderTargetID, error) {
	rt := &renderTarget{}
	if err := rt.ensure(b.device, width, height, gputypes.TextureFormatRGBA8Unorm, "quad_render_target"); err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create render target: %w", err)
	}
	id := gpucore.RenderTargetID(b.newID())
	rt.colorID = gpucore.TextureID(b.newID())

	b.mu.Lock()
	b.renderTargets[id] = rt
	b.textures[rt.colorID] = &texture{
		tex:    rt.colorTex,
		view:   rt.color,
		width:  width,
		height: height,
		filter: gpucore.FilterLinear,
		owner:  id,
	}
	b.mu.Unlock()
	b.log().Debug("render target created", "id", id, "width", width, "height", height)
	return id, nil
}

// RenderTargetTexture returns the color texture of a render target.
func (b *Backend) RenderTargetTexture(id gpucore.RenderTargetID) gpucore.TextureID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if rt, ok := b.renderTargets[id]; ok {
		return rt.colorID
	}
	return gpucore.InvalidID
}

// DeleteRenderTarget releases a render target and its color texture.
func (b *Backend) DeleteRenderTarget(id gpucore.RenderTargetID) {
	b.mu.Lock()
	rt, ok := b.renderTargets[id]
	if ok {
		delete(b.renderTargets, id)
		delete(b.textures, rt.colorID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	b.groups.removeTexture(rt.colorID)
	b.releaseRetired()
	rt.destroy(b.device)
}
