// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/gpucore"
)

// copyPitchAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyPitchAlignment = 256

// ReadPixels copies the offscreen default target into an image. It must
// be called outside a pass.
func (b *Backend) ReadPixels() (*image.RGBA, error) {
	if b.surface {
		return nil, ErrNotOffscreen
	}
	return b.readTarget(&b.screen)
}

// ReadRenderTarget copies the color texture of a render target into an
// image. It must be called outside a pass.
func (b *Backend) ReadRenderTarget(id gpucore.RenderTargetID) (*image.RGBA, error) {
	b.mu.RLock()
	rt, ok := b.renderTargets[id]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: render target %d", ErrUnknownResource, id)
	}
	return b.readTarget(&rt.target)
}

func (b *Backend) readTarget(t *target) (*image.RGBA, error) {
	if b.pass != nil {
		return nil, fmt.Errorf("native: read pixels: pass in progress")
	}
	if t.colorTex == nil {
		return nil, fmt.Errorf("%w: target has no color texture", ErrInvalidDescriptor)
	}
	w, h := t.width, t.height
	bytesPerRow := w * 4
	alignedBytesPerRow := uint32(alignUp(uint64(bytesPerRow), copyPitchAlignment)) //nolint:gosec // bounded by texture width
	size := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create readback buffer: %w", err)
	}
	defer b.device.DestroyBuffer(staging)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "quad_readback_encoder"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("quad_readback"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.colorTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	if err := b.submit(encoder); err != nil {
		return nil, fmt.Errorf("native: read pixels: %w", err)
	}

	data := make([]byte, size)
	if err := b.queue.ReadBuffer(staging, 0, data); err != nil {
		return nil, fmt.Errorf("native: read pixels: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for row := range int(h) {
		src := data[row*int(alignedBytesPerRow) : row*int(alignedBytesPerRow)+int(bytesPerRow)]
		copy(img.Pix[row*img.Stride:], src)
	}
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	return img, nil
}
