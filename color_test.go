// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"image/color"
	"math"
	"testing"
)

func TestColor_ColorInterface(t *testing.T) {
	tests := []struct {
		name                       string
		c                          Color
		wantR, wantG, wantB, wantA uint32
	}{
		{"opaque black", Black, 0, 0, 0, 65535},
		{"opaque white", White, 65535, 65535, 65535, 65535},
		{"transparent", Transparent, 0, 0, 0, 0},
		{"half alpha white", Color{255, 255, 255, 128}, 32896, 32896, 32896, 32896},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if r != tt.wantR || g != tt.wantG || b != tt.wantB || a != tt.wantA {
				t.Errorf("RGBA() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					r, g, b, a, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b, a float32
		want       Color
	}{
		{"white", 1, 1, 1, 1, White},
		{"black", 0, 0, 0, 1, Black},
		{"clamped", 2, -1, 0.5, 1, Color{255, 0, 128, 255}},
		{"nan", float32(math.NaN()), 0, 0, 0, Color{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFloat(tt.r, tt.g, tt.b, tt.a); got != tt.want {
				t.Errorf("FromFloat() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	src := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if got := FromColor(src); got != (Color{10, 20, 30, 255}) {
		t.Errorf("FromColor(%v) = %+v", src, got)
	}
	if got := FromColor(color.Transparent); got != Transparent {
		t.Errorf("FromColor(Transparent) = %+v", got)
	}
}

func TestColorFloats(t *testing.T) {
	r, g, b, a := Color{255, 0, 51, 255}.Floats()
	if r != 1 || g != 0 || math.Abs(float64(b)-0.2) > 1e-6 || a != 1 {
		t.Errorf("Floats() = (%v, %v, %v, %v)", r, g, b, a)
	}
	cc := Color{0, 255, 0, 255}.clearColor()
	if cc.G != 1 || cc.R != 0 || cc.A != 1 {
		t.Errorf("clearColor() = %+v", cc)
	}
}
