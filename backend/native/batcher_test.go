// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native_test

import (
	"errors"
	"testing"

	"github.com/gogpu/quad"
	"github.com/gogpu/quad/backend/native"
	"github.com/gogpu/quad/gpucore"
)

func TestBatcherOnNoopDevice(t *testing.T) {
	b, err := native.NewOffscreen(native.Config{Width: 320, Height: 240, Device: native.DeviceNoop})
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer b.Close()

	batcher, err := quad.New(b, quad.WithMaxVertices(64), quad.WithMaxIndices(96))
	if err != nil {
		t.Fatalf("quad.New() error = %v", err)
	}
	defer batcher.Release()

	cam := quad.Camera2DFromRect(0, 0, 320, 240)
	for frame := range 3 {
		batcher.Clear(quad.Black)
		batcher.DrawMesh(quad.NewQuad(quad.Vec3{X: 10, Y: 10}, quad.Vec2{X: 50, Y: 50}, quad.Red))
		batcher.SetClip(&quad.Rect{X: 0, Y: 0, W: 100, H: 100})
		batcher.DrawMesh(quad.NewCircle(quad.Vec3{X: 160, Y: 120}, 40, 24, quad.Blue))
		batcher.SetClip(nil)
		batcher.Flush(cam.Matrix())

		if err := b.Err(); err != nil {
			t.Fatalf("frame %d: backend error = %v", frame, err)
		}
		if got := batcher.Stats().DrawCalls; got != 2 {
			t.Errorf("frame %d: DrawCalls = %d, want 2", frame, got)
		}
	}
	if b.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", b.Frames())
	}
}

func TestBatcherRenderTargetOnNoopDevice(t *testing.T) {
	b, err := native.NewOffscreen(native.Config{Width: 64, Height: 64, Device: native.DeviceNoop})
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer b.Close()

	batcher, err := quad.New(b)
	if err != nil {
		t.Fatal(err)
	}
	defer batcher.Release()

	rt, tex, err := batcher.NewRenderTarget(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	cam := quad.Camera2DFromRect(0, 0, 32, 32)
	cam.RenderTarget = rt

	batcher.SetRenderTarget(rt)
	batcher.Clear(quad.White)
	batcher.DrawMesh(quad.NewQuad(quad.Vec3{}, quad.Vec2{X: 16, Y: 16}, quad.Green))
	batcher.Flush(cam.Matrix())

	batcher.SetRenderTarget(0)
	batcher.SetTexture(tex)
	batcher.DrawMesh(quad.NewQuad(quad.Vec3{}, quad.Vec2{X: 64, Y: 64}, quad.White))
	batcher.Flush(quad.Camera2DFromRect(0, 0, 64, 64).Matrix())

	if err := b.Err(); err != nil {
		t.Fatalf("backend error = %v", err)
	}
}

func TestBatcherShaderErrorOnNoopDevice(t *testing.T) {
	b, err := native.NewOffscreen(native.Config{Width: 16, Height: 16, Device: native.DeviceNoop})
	if err != nil {
		t.Fatalf("NewOffscreen() error = %v", err)
	}
	defer b.Close()
	batcher, err := quad.New(b)
	if err != nil {
		t.Fatal(err)
	}
	defer batcher.Release()

	src := quad.ShaderSource{Label: "broken", Vertex: "@vertex fn vs_main( -> {"}
	_, err = batcher.CreatePipeline(src, gpucore.PipelineParams{}, nil, nil)
	if !errors.Is(err, quad.ErrShaderCompile) {
		t.Errorf("CreatePipeline() error = %v, want quad.ErrShaderCompile", err)
	}
	if !errors.Is(err, native.ErrShaderCompile) {
		t.Errorf("CreatePipeline() error = %v, want native.ErrShaderCompile in the chain", err)
	}
}
