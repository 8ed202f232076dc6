// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/quad/gpucore"
)

// VertexSize is the size of one encoded Vertex in bytes.
const VertexSize = 24

// Vertex is the fixed per-vertex layout consumed by the batcher.
//
// Memory layout (little-endian, 24 bytes):
//
//	offset  0: position  3 x float32
//	offset 12: texcoord  2 x float32
//	offset 20: color0    4 x uint8 (normalized in the shader)
type Vertex struct {
	Position Vec3
	UV       Vec2
	Color    Color
}

// NewVertex creates a vertex.
func NewVertex(x, y, z, u, v float32, c Color) Vertex {
	return Vertex{Position: Vec3{x, y, z}, UV: Vec2{u, v}, Color: c}
}

// VertexAttributes returns the attribute layout declared to the backend for
// every pipeline.
func VertexAttributes() []gpucore.VertexAttribute {
	return []gpucore.VertexAttribute{
		{Name: "position", Format: gpucore.VertexFormatFloat3, Offset: 0},
		{Name: "texcoord", Format: gpucore.VertexFormatFloat2, Offset: 12},
		{Name: "color0", Format: gpucore.VertexFormatUByte4N, Offset: 20},
	}
}

// putVertex encodes v into b[:VertexSize].
func putVertex(b []byte, v *Vertex) {
	_ = b[VertexSize-1]
	le := binary.LittleEndian
	le.PutUint32(b[0:], math.Float32bits(v.Position.X))
	le.PutUint32(b[4:], math.Float32bits(v.Position.Y))
	le.PutUint32(b[8:], math.Float32bits(v.Position.Z))
	le.PutUint32(b[12:], math.Float32bits(v.UV.X))
	le.PutUint32(b[16:], math.Float32bits(v.UV.Y))
	b[20] = v.Color.R
	b[21] = v.Color.G
	b[22] = v.Color.B
	b[23] = v.Color.A
}

// decodeVertex is the inverse of putVertex.
func decodeVertex(b []byte) Vertex {
	le := binary.LittleEndian
	f := func(off int) float32 { return math.Float32frombits(le.Uint32(b[off:])) }
	return Vertex{
		Position: Vec3{f(0), f(4), f(8)},
		UV:       Vec2{f(12), f(16)},
		Color:    Color{b[20], b[21], b[22], b[23]},
	}
}

// encodeVertices writes vs into dst, which must hold len(vs)*VertexSize bytes.
func encodeVertices(dst []byte, vs []Vertex) {
	for i := range vs {
		putVertex(dst[i*VertexSize:], &vs[i])
	}
}

// encodeIndices writes idx into dst, which must hold len(idx)*2 bytes.
func encodeIndices(dst []byte, idx []uint16) {
	for i, v := range idx {
		binary.LittleEndian.PutUint16(dst[i*2:], v)
	}
}
