// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import "testing"

func TestNewBatchState(t *testing.T) {
	s := NewBatchState()
	if s.Pipeline().IsValid() {
		t.Error("default state selects an explicit pipeline")
	}
	if _, ok := s.Clip(); ok {
		t.Error("default state has a clip")
	}
	if _, ok := s.Viewport(); ok {
		t.Error("default state has a viewport")
	}
	if s.DrawMode() != DrawTriangles || s.DepthTest() {
		t.Errorf("mode = %v, depth = %v", s.DrawMode(), s.DepthTest())
	}
	if !s.Model().IsIdentity() || s.Depth() != 0 {
		t.Error("model stack is not a single identity")
	}
}

func TestBatchStateModelStack(t *testing.T) {
	s := NewBatchState()
	a := Mat4Translate(10, 0, 0)
	b := Mat4Scale(2, 2, 1)

	s.PushModel(a)
	s.PushModel(b)
	if s.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", s.Depth())
	}
	// top * m: b is applied first.
	got := s.Model().TransformPoint(Vec3{X: 1})
	if !vecNear(got, Vec3{X: 12}) {
		t.Errorf("Model() applied to (1,0,0) = %v, want (12,0,0)", got)
	}

	s.PopModel()
	if s.Model() != a {
		t.Errorf("after pop Model() = %v, want %v", s.Model(), a)
	}
	s.PopModel()
	s.PopModel()
	s.PopModel()
	if s.Depth() != 0 || !s.Model().IsIdentity() {
		t.Error("popping past the base removed the identity")
	}
}

func TestBatchStateReset(t *testing.T) {
	s := NewBatchState()
	s.texture = 7
	s.clip = someRect(&Rect{W: 5, H: 5})
	s.viewport = someRect(&Rect{W: 5, H: 5})
	s.drawMode = DrawLines
	s.target = 3
	s.PushModel(Mat4Scale(3, 3, 3))

	s.Reset()

	if s.Texture() != 0 {
		t.Error("texture kept")
	}
	if _, ok := s.Clip(); ok {
		t.Error("clip kept")
	}
	if !s.Model().IsIdentity() {
		t.Error("model kept")
	}
	if _, ok := s.Viewport(); !ok {
		t.Error("viewport cleared")
	}
	if s.DrawMode() != DrawLines || s.RenderTarget() != 3 {
		t.Error("mode or render target cleared")
	}
}

func TestBatchStateBreakBatching(t *testing.T) {
	s := NewBatchState()
	if s.ForceNewBatch() {
		t.Fatal("new state forces a new batch")
	}
	s.BreakBatching()
	if !s.ForceNewBatch() {
		t.Error("BreakBatching did not set the flag")
	}
}

func TestSomeRect(t *testing.T) {
	if r := someRect(nil); r.set {
		t.Error("someRect(nil) is set")
	}
	r := someRect(&Rect{X: 1, Y: 2, W: 3, H: 4})
	if !r.set || r.rect != (Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Errorf("someRect() = %+v", r)
	}
}

func TestDrawModeString(t *testing.T) {
	tests := []struct {
		m    DrawMode
		want string
	}{
		{DrawTriangles, "Triangles"},
		{DrawLines, "Lines"},
		{DrawMode(9), "DrawMode(9)"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
