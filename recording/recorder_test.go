// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/quad/gpucore"
)

func newTestPipeline(t *testing.T, b *Backend, stride int) gpucore.PipelineID {
	t.Helper()
	sh, err := b.NewShader(gpucore.ShaderDesc{Label: "test"})
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	p, err := b.NewPipeline(gpucore.PipelineDesc{Shader: sh, Stride: stride})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

func newTestBuffer(t *testing.T, b *Backend, typ gpucore.BufferType, size int) gpucore.BufferID {
	t.Helper()
	id, err := b.NewBuffer(gpucore.BufferDesc{Type: typ, Size: size, Usage: gpucore.BufferUsageStream})
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	return id
}

func TestBackendIDsNeverReused(t *testing.T) {
	b := NewBackend(100, 100)
	seen := make(map[uint64]bool)
	for i := 0; i < 10; i++ {
		id := newTestBuffer(t, b, gpucore.BufferTypeVertex, 16)
		if id == gpucore.InvalidID {
			t.Fatal("NewBuffer returned InvalidID")
		}
		if seen[uint64(id)] {
			t.Fatalf("buffer id %d reused", id)
		}
		seen[uint64(id)] = true
		b.DeleteBuffer(id)
	}
	if b.Err() != nil {
		t.Errorf("unexpected protocol error: %v", b.Err())
	}
}

func TestBackendDrawResolvesState(t *testing.T) {
	b := NewBackend(320, 240)
	pip := newTestPipeline(t, b, 4)
	vb := newTestBuffer(t, b, gpucore.BufferTypeVertex, 64)
	ib := newTestBuffer(t, b, gpucore.BufferTypeIndex, 32)
	tex, err := b.NewTexture(gpucore.TextureDesc{Width: 1, Height: 1, Format: gpucore.TextureFormatRGBA8}, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}

	b.UpdateBuffer(vb, []byte{0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3})
	idx := make([]byte, 6)
	binary.LittleEndian.PutUint16(idx[0:], 0)
	binary.LittleEndian.PutUint16(idx[2:], 2)
	binary.LittleEndian.PutUint16(idx[4:], 1)
	b.UpdateBuffer(ib, idx)

	b.BeginDefaultPass(gpucore.LoadAction())
	b.ApplyPipeline(pip)
	b.ApplyScissorRect(1, 2, 3, 4)
	b.ApplyBindings(&gpucore.Bindings{VertexBuffer: vb, IndexBuffer: ib, Images: []gpucore.TextureID{tex}})
	b.ApplyUniforms([]byte{9, 9})
	b.Draw(0, 3, 1)
	b.EndRenderPass()
	b.CommitFrame()

	if err := b.Err(); err != nil {
		t.Fatalf("protocol error: %v", err)
	}
	draws := b.Draws()
	if len(draws) != 1 {
		t.Fatalf("len(Draws()) = %d, want 1", len(draws))
	}
	d := draws[0]
	if d.Pipeline != pip {
		t.Errorf("Pipeline = %d, want %d", d.Pipeline, pip)
	}
	if d.Viewport != (Rect{Width: 320, Height: 240}) {
		t.Errorf("Viewport = %+v, want full target", d.Viewport)
	}
	if d.Scissor != (Rect{X: 1, Y: 2, Width: 3, Height: 4}) {
		t.Errorf("Scissor = %+v", d.Scissor)
	}
	if want := []uint16{0, 2, 1}; len(d.Indices) != 3 || d.Indices[0] != want[0] || d.Indices[1] != want[1] || d.Indices[2] != want[2] {
		t.Errorf("Indices = %v, want %v", d.Indices, want)
	}
	if len(d.Vertices) != 12 {
		t.Errorf("len(Vertices) = %d, want 12 (3 vertices of stride 4)", len(d.Vertices))
	}
	if len(d.Images) != 1 || d.Images[0] != tex {
		t.Errorf("Images = %v, want [%d]", d.Images, tex)
	}
	if b.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", b.Frames())
	}
}

func TestBackendProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(b *Backend)
		want error
	}{
		{
			name: "draw outside pass",
			run:  func(b *Backend) { b.Draw(0, 3, 1) },
			want: ErrNoPass,
		},
		{
			name: "nested pass",
			run: func(b *Backend) {
				b.BeginDefaultPass(gpucore.LoadAction())
				b.BeginDefaultPass(gpucore.LoadAction())
			},
			want: ErrNestedPass,
		},
		{
			name: "unknown buffer update",
			run:  func(b *Backend) { b.UpdateBuffer(42, []byte{1}) },
			want: ErrUnknownResource,
		},
		{
			name: "unknown render target",
			run:  func(b *Backend) { b.BeginPass(42, gpucore.LoadAction()) },
			want: ErrUnknownResource,
		},
		{
			name: "buffer overflow",
			run: func(b *Backend) {
				id, _ := b.NewBuffer(gpucore.BufferDesc{Type: gpucore.BufferTypeVertex, Size: 2})
				b.UpdateBuffer(id, []byte{1, 2, 3})
			},
			want: ErrBufferOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend(10, 10)
			tt.run(b)
			if !errors.Is(b.Err(), tt.want) {
				t.Errorf("Err() = %v, want %v", b.Err(), tt.want)
			}
		})
	}
}

func TestBackendShaderCheck(t *testing.T) {
	b := NewBackend(10, 10)
	boom := errors.New("bad shader")
	b.ShaderCheck = func(gpucore.ShaderDesc) error { return boom }
	if _, err := b.NewShader(gpucore.ShaderDesc{}); !errors.Is(err, boom) {
		t.Errorf("NewShader() error = %v, want %v", err, boom)
	}
	if b.Resources().ShaderCount() != 0 {
		t.Errorf("failed shader left %d shaders behind", b.Resources().ShaderCount())
	}
}

func TestBackendRenderTarget(t *testing.T) {
	b := NewBackend(10, 10)
	rt, err := b.NewRenderTarget(64, 32)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	tex := b.RenderTargetTexture(rt)
	if w, h := b.TextureSize(tex); w != 64 || h != 32 {
		t.Errorf("TextureSize() = %dx%d, want 64x32", w, h)
	}

	b.BeginPass(rt, gpucore.ClearAction(gpucore.Color{A: 1}))
	begin, ok := b.Commands()[0].(BeginPassCommand)
	if !ok || begin.Target != rt || !begin.Action.Clear {
		t.Errorf("first command = %#v, want clearing BeginPass on %d", b.Commands()[0], rt)
	}
	b.EndRenderPass()

	b.DeleteRenderTarget(rt)
	if b.Resources().TextureCount() != 0 {
		t.Errorf("TextureCount() = %d after DeleteRenderTarget, want 0", b.Resources().TextureCount())
	}
	if b.Err() != nil {
		t.Errorf("unexpected protocol error: %v", b.Err())
	}
}

func TestBackendReset(t *testing.T) {
	b := NewBackend(10, 10)
	b.Draw(0, 0, 1)
	if b.Err() == nil {
		t.Fatal("expected protocol error")
	}
	b.BeginDefaultPass(gpucore.LoadAction())
	b.EndRenderPass()
	b.Reset()
	if len(b.Commands()) != 0 || len(b.Draws()) != 0 || b.Err() != nil {
		t.Errorf("Reset() left commands=%d draws=%d err=%v", len(b.Commands()), len(b.Draws()), b.Err())
	}
}

func TestRegisteredByName(t *testing.T) {
	gb, err := gpucore.NewBackend(Name, 40, 30)
	if err != nil {
		t.Fatalf("NewBackend(%q) error = %v", Name, err)
	}
	if w, h := gb.ScreenSize(); w != 40 || h != 30 {
		t.Errorf("ScreenSize() = %dx%d, want 40x30", w, h)
	}
	if _, ok := gb.(*Backend); !ok {
		t.Errorf("NewBackend(%q) = %T, want *Backend", Name, gb)
	}
}
