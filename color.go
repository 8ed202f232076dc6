// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"image/color"
	"math"

	"github.com/gogpu/quad/gpucore"
)

// Color is a non-premultiplied 8-bit RGBA color, the per-vertex color format.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	White       = Color{255, 255, 255, 255}
	Black       = Color{0, 0, 0, 255}
	Transparent = Color{0, 0, 0, 0}
	Red         = Color{230, 41, 55, 255}
	Green       = Color{0, 228, 48, 255}
	Blue        = Color{0, 121, 241, 255}
	Yellow      = Color{253, 249, 0, 255}
	Gray        = Color{130, 130, 130, 255}
)

// RGBA8 creates a color from 8-bit components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromFloat creates a color from components in [0, 1]. Out of range values
// are clamped.
func FromFloat(r, g, b, a float32) Color {
	return Color{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)}
}

// FromColor converts a standard color.Color (alpha-premultiplied) to Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Floats returns the components scaled to [0, 1].
func (c Color) Floats() (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// clearColor converts c to a backend clear value.
func (c Color) clearColor() gpucore.Color {
	r, g, b, a := c.Floats()
	return gpucore.Color{R: r, G: g, B: b, A: a}
}

func unit8(v float32) uint8 {
	if v <= 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

var _ color.Color = Color{}
