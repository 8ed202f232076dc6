// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"math"

	"github.com/gogpu/quad/gpucore"
)

// Camera2D produces the projection matrix of a 2D scene.
//
// The world point Target is mapped to the center of the target (shifted by
// Offset in clip space), scaled by Zoom and rotated by Rotation degrees.
type Camera2D struct {
	// Target is the world point at the center of the view.
	Target Vec2

	// Zoom scales world units to clip space units.
	Zoom Vec2

	// Offset is added in clip space after projection.
	Offset Vec2

	// Rotation is the view rotation in degrees.
	Rotation float32

	// RenderTarget is the target the camera draws into, InvalidID for the
	// default target.
	RenderTarget gpucore.RenderTargetID
}

// NewCamera2D returns a camera with unit zoom looking at the origin.
func NewCamera2D() Camera2D {
	return Camera2D{Zoom: Vec2{X: 1, Y: 1}}
}

// Camera2DFromRect returns a camera showing the w x h world rectangle at
// x, y with Y growing downwards, so x, y is the top-left corner of the view.
func Camera2DFromRect(x, y, w, h float32) Camera2D {
	return Camera2D{
		Target: Vec2{X: x + w/2, Y: y + h/2},
		Zoom:   Vec2{X: 2 / w, Y: 2 / h},
	}
}

// Matrix returns the projection matrix to pass to Batcher.Flush.
//
// On the default target the Y axis is flipped; render targets are not
// flipped so their content samples upright.
func (c Camera2D) Matrix() Mat4 {
	invertY := float32(-1)
	if c.RenderTarget != gpucore.InvalidID {
		invertY = 1
	}
	origin := Mat4Translate(-c.Target.X, -c.Target.Y, 0)
	rotation := Mat4RotateZ(c.Rotation * math.Pi / 180)
	scale := Mat4Scale(c.Zoom.X, c.Zoom.Y*invertY, 1)
	translation := Mat4Translate(c.Offset.X, c.Offset.Y, 0)
	return translation.Mul(scale.Mul(rotation).Mul(origin))
}

// WorldToScreen converts a world point to pixels on a target of the given
// size (top-left origin).
func (c Camera2D) WorldToScreen(p Vec2, width, height float32) Vec2 {
	ndc := c.Matrix().TransformPoint(Vec3{X: p.X, Y: p.Y})
	return Vec2{
		X: (ndc.X + 1) / 2 * width,
		Y: (1 - ndc.Y) / 2 * height,
	}
}
