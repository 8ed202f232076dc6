// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/quad/gpucore"
)

func TestVertexAttributesLayout(t *testing.T) {
	attrs := VertexAttributes()
	want := []struct {
		name   string
		format gpucore.VertexFormat
		offset int
	}{
		{"position", gpucore.VertexFormatFloat3, 0},
		{"texcoord", gpucore.VertexFormatFloat2, 12},
		{"color0", gpucore.VertexFormatUByte4N, 20},
	}
	if len(attrs) != len(want) {
		t.Fatalf("len(VertexAttributes()) = %d, want %d", len(attrs), len(want))
	}
	end := 0
	for i, w := range want {
		a := attrs[i]
		if a.Name != w.name || a.Format != w.format || a.Offset != w.offset {
			t.Errorf("attribute %d = %+v, want %s/%d@%d", i, a, w.name, w.format, w.offset)
		}
		end = a.Offset + a.Format.Size()
	}
	if end != VertexSize {
		t.Errorf("attributes end at %d, want VertexSize %d", end, VertexSize)
	}
}

func TestVertexEncoding(t *testing.T) {
	v := NewVertex(1.5, -2, 0.25, 0.5, 1, Color{1, 2, 3, 4})
	buf := make([]byte, VertexSize)
	putVertex(buf, &v)

	if got := decodeVertex(buf); got != v {
		t.Errorf("decodeVertex(putVertex(v)) = %+v, want %+v", got, v)
	}
	if buf[20] != 1 || buf[23] != 4 {
		t.Errorf("color bytes = %v, want [1 2 3 4]", buf[20:24])
	}
}

func TestEncodeIndices(t *testing.T) {
	buf := make([]byte, 6)
	encodeIndices(buf, []uint16{1, 256, 65535})
	for i, want := range []uint16{1, 256, 65535} {
		if got := binary.LittleEndian.Uint16(buf[i*2:]); got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}
}
