// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/quad/gpucore"
)

func vertexFormat(f gpucore.VertexFormat) (gputypes.VertexFormat, bool) {
	switch f {
	case gpucore.VertexFormatFloat2:
		return gputypes.VertexFormatFloat32x2, true
	case gpucore.VertexFormatFloat3:
		return gputypes.VertexFormatFloat32x3, true
	case gpucore.VertexFormatFloat4:
		return gputypes.VertexFormatFloat32x4, true
	case gpucore.VertexFormatUByte4N:
		return gputypes.VertexFormatUnorm8x4, true
	default:
		return 0, false
	}
}

func topology(p gpucore.PrimitiveType) gputypes.PrimitiveTopology {
	if p == gpucore.PrimitiveLines {
		return gputypes.PrimitiveTopologyLineList
	}
	return gputypes.PrimitiveTopologyTriangleList
}

func compareFunction(c gpucore.CompareFunc) gputypes.CompareFunction {
	switch c {
	case gpucore.CompareNever:
		return gputypes.CompareFunctionNever
	case gpucore.CompareLess:
		return gputypes.CompareFunctionLess
	case gpucore.CompareLessEqual:
		return gputypes.CompareFunctionLessEqual
	case gpucore.CompareEqual:
		return gputypes.CompareFunctionEqual
	case gpucore.CompareGreater:
		return gputypes.CompareFunctionGreater
	case gpucore.CompareGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	case gpucore.CompareNotEqual:
		return gputypes.CompareFunctionNotEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}

func blendFactor(f gpucore.BlendFactor) gputypes.BlendFactor {
	switch f {
	case gpucore.BlendOne:
		return gputypes.BlendFactorOne
	case gpucore.BlendSrcColor:
		return gputypes.BlendFactorSrc
	case gpucore.BlendOneMinusSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case gpucore.BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case gpucore.BlendOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case gpucore.BlendDstColor:
		return gputypes.BlendFactorDst
	case gpucore.BlendOneMinusDstColor:
		return gputypes.BlendFactorOneMinusDst
	case gpucore.BlendDstAlpha:
		return gputypes.BlendFactorDstAlpha
	case gpucore.BlendOneMinusDstAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	default:
		return gputypes.BlendFactorZero
	}
}

func blendOperation(op gpucore.BlendOp) gputypes.BlendOperation {
	switch op {
	case gpucore.BlendOpSubtract:
		return gputypes.BlendOperationSubtract
	case gpucore.BlendOpReverseSubtract:
		return gputypes.BlendOperationReverseSubtract
	default:
		return gputypes.BlendOperationAdd
	}
}

func blendComponent(s gpucore.BlendState) gputypes.BlendComponent {
	return gputypes.BlendComponent{
		SrcFactor: blendFactor(s.Src),
		DstFactor: blendFactor(s.Dst),
		Operation: blendOperation(s.Op),
	}
}

// blendState converts the pipeline blend equations. A nil color equation
// disables blending; a nil alpha equation reuses the color one.
func blendState(p gpucore.PipelineParams) *gputypes.BlendState {
	if p.ColorBlend == nil {
		return nil
	}
	alpha := p.ColorBlend
	if p.AlphaBlend != nil {
		alpha = p.AlphaBlend
	}
	return &gputypes.BlendState{
		Color: blendComponent(*p.ColorBlend),
		Alpha: blendComponent(*alpha),
	}
}

func filterMode(f gpucore.FilterMode) gputypes.FilterMode {
	if f == gpucore.FilterNearest {
		return gputypes.FilterModeNearest
	}
	return gputypes.FilterModeLinear
}

func clearColor(c gpucore.Color) gputypes.Color {
	return gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

func loadOp(clear bool) gputypes.LoadOp {
	if clear {
		return gputypes.LoadOpClear
	}
	return gputypes.LoadOpLoad
}

// flipRect converts a bottom-left origin rectangle to the top-left origin
// used by WebGPU and clamps it to the target.
func flipRect(x, y, w, h int32, targetW, targetH uint32) (rx, ry, rw, rh uint32) {
	top := int64(targetH) - int64(y) - int64(h)
	x0 := clamp64(int64(x), 0, int64(targetW))
	y0 := clamp64(top, 0, int64(targetH))
	x1 := clamp64(int64(x)+int64(w), 0, int64(targetW))
	y1 := clamp64(top+int64(h), 0, int64(targetH))
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0) //nolint:gosec // clamped to target
}

func clamp64(v, lo, hi int64) int64 {
	return max(lo, min(v, hi))
}

func alignUp(n, a uint64) uint64 {
	return (n + a - 1) &^ (a - 1)
}
