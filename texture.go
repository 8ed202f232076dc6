// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/quad/gpucore"
)

// ErrEmptyImage is returned when creating a texture from an image with no
// pixels.
var ErrEmptyImage = errors.New("quad: empty image")

// NewTextureFromImage uploads img as an RGBA8 texture.
//
// Any image.Image is accepted; non-RGBA images are converted first.
func NewTextureFromImage(b gpucore.Backend, img image.Image, filter gpucore.FilterMode) (gpucore.TextureID, error) {
	rgba, err := toRGBA(img)
	if err != nil {
		return gpucore.InvalidID, err
	}
	size := rgba.Bounds().Size()
	id, err := b.NewTexture(gpucore.TextureDesc{
		Label:  "quad_image",
		Width:  uint32(size.X), //nolint:gosec // positive image bounds
		Height: uint32(size.Y), //nolint:gosec // positive image bounds
		Format: gpucore.TextureFormatRGBA8,
		Filter: filter,
	}, rgba.Pix)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("quad: create texture: %w", err)
	}
	Logger().Debug("quad: texture created", "id", id, "width", size.X, "height", size.Y)
	return id, nil
}

// UpdateTextureFromImage replaces the content of tex with img. The image
// must have the texture's size.
func UpdateTextureFromImage(b gpucore.Backend, tex gpucore.TextureID, img image.Image) error {
	rgba, err := toRGBA(img)
	if err != nil {
		return err
	}
	w, h := b.TextureSize(tex)
	size := rgba.Bounds().Size()
	if uint32(size.X) != w || uint32(size.Y) != h { //nolint:gosec // positive image bounds
		return fmt.Errorf("quad: image %dx%d does not match texture %dx%d", size.X, size.Y, w, h)
	}
	b.UpdateTexture(tex, rgba.Pix)
	return nil
}

// ScaleImage resamples img to width x height with Catmull-Rom filtering.
func ScaleImage(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// toRGBA returns img as a tightly packed *image.RGBA with a zero origin.
func toRGBA(img image.Image) (*image.RGBA, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == 4*bounds.Dx() {
		return rgba, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return dst, nil
}
