// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/quad/gpucore"
)

func TestFlipRect(t *testing.T) {
	tests := []struct {
		name           string
		x, y, w, h     int32
		wx, wy, ww, wh uint32
	}{
		{"full target", 0, 0, 100, 50, 0, 0, 100, 50},
		{"bottom strip", 0, 0, 100, 10, 0, 40, 100, 10},
		{"top strip", 0, 40, 100, 10, 0, 0, 100, 10},
		{"clamped left", -20, 0, 50, 50, 0, 0, 30, 50},
		{"clamped above", 0, 30, 10, 40, 0, 0, 10, 20},
		{"outside", 200, 0, 10, 10, 100, 40, 0, 10},
		{"negative size", 10, 10, -5, -5, 10, 45, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := flipRect(tt.x, tt.y, tt.w, tt.h, 100, 50)
			if x != tt.wx || y != tt.wy || w != tt.ww || h != tt.wh {
				t.Errorf("flipRect() = (%d,%d,%d,%d), want (%d,%d,%d,%d)", x, y, w, h, tt.wx, tt.wy, tt.ww, tt.wh)
			}
		})
	}
}

func TestBlendState(t *testing.T) {
	if blendState(gpucore.PipelineParams{}) != nil {
		t.Error("nil color blend should disable blending")
	}

	add := gpucore.BlendState{Op: gpucore.BlendOpAdd, Src: gpucore.BlendOne, Dst: gpucore.BlendOne}
	tests := []struct {
		name      string
		params    gpucore.PipelineParams
		wantAlpha gputypes.BlendComponent
	}{
		{
			name:   "alpha reuses color",
			params: gpucore.PipelineParams{ColorBlend: &gpucore.AlphaBlend},
			wantAlpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorSrcAlpha,
				DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
				Operation: gputypes.BlendOperationAdd,
			},
		},
		{
			name:   "separate alpha",
			params: gpucore.PipelineParams{ColorBlend: &gpucore.AlphaBlend, AlphaBlend: &add},
			wantAlpha: gputypes.BlendComponent{
				SrcFactor: gputypes.BlendFactorOne,
				DstFactor: gputypes.BlendFactorOne,
				Operation: gputypes.BlendOperationAdd,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blendState(tt.params)
			if got == nil {
				t.Fatal("blendState() = nil")
			}
			if got.Color.SrcFactor != gputypes.BlendFactorSrcAlpha {
				t.Errorf("color src = %v", got.Color.SrcFactor)
			}
			if got.Alpha != tt.wantAlpha {
				t.Errorf("alpha = %+v, want %+v", got.Alpha, tt.wantAlpha)
			}
		})
	}
}

func TestConversions(t *testing.T) {
	if topology(gpucore.PrimitiveLines) != gputypes.PrimitiveTopologyLineList {
		t.Error("lines topology")
	}
	if topology(gpucore.PrimitiveTriangles) != gputypes.PrimitiveTopologyTriangleList {
		t.Error("triangles topology")
	}
	if compareFunction(gpucore.CompareLessEqual) != gputypes.CompareFunctionLessEqual {
		t.Error("less-equal compare")
	}
	if compareFunction(gpucore.CompareAlways) != gputypes.CompareFunctionAlways {
		t.Error("always compare")
	}
	if filterMode(gpucore.FilterNearest) != gputypes.FilterModeNearest {
		t.Error("nearest filter")
	}
	if loadOp(true) != gputypes.LoadOpClear || loadOp(false) != gputypes.LoadOpLoad {
		t.Error("load op")
	}
	if f, ok := vertexFormat(gpucore.VertexFormatUByte4N); !ok || f != gputypes.VertexFormatUnorm8x4 {
		t.Error("unorm8x4 vertex format")
	}
	if _, ok := vertexFormat(0); ok {
		t.Error("zero vertex format accepted")
	}
}
