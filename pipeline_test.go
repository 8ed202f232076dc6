// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/quad/gpucore"
	"github.com/gogpu/quad/recording"
)

func newTestRegistry(t *testing.T) (*PipelineRegistry, *recording.Backend) {
	t.Helper()
	rb := recording.NewBackend(testWidth, testHeight)
	r, err := NewPipelineRegistry(rb)
	if err != nil {
		t.Fatalf("NewPipelineRegistry() error = %v", err)
	}
	return r, rb
}

func createTestPipeline(r *PipelineRegistry) (PipelineID, error) {
	return r.Create(ShaderSource{Label: "test", Vertex: "vs", Fragment: "fs"}, gpucore.PipelineParams{}, nil, nil)
}

func TestPipelineRegistryDefaults(t *testing.T) {
	r, rb := newTestRegistry(t)

	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}
	tests := []struct {
		mode      DrawMode
		depth     bool
		index     int
		primitive gpucore.PrimitiveType
	}{
		{DrawTriangles, false, 0, gpucore.PrimitiveTriangles},
		{DrawLines, false, 1, gpucore.PrimitiveLines},
		{DrawTriangles, true, 2, gpucore.PrimitiveTriangles},
		{DrawLines, true, 3, gpucore.PrimitiveLines},
	}
	for _, tt := range tests {
		id := r.Default(tt.mode, tt.depth)
		if id.Index() != tt.index {
			t.Errorf("Default(%v, %v).Index() = %d, want %d", tt.mode, tt.depth, id.Index(), tt.index)
		}
		ext, err := r.Get(id)
		if err != nil {
			t.Fatalf("Get(%v) error = %v", id, err)
		}
		p := ext.Params()
		if p.PrimitiveType != tt.primitive {
			t.Errorf("%v primitive = %v, want %v", id, p.PrimitiveType, tt.primitive)
		}
		wantCompare := gpucore.CompareAlways
		if tt.depth {
			wantCompare = gpucore.CompareLessEqual
		}
		if p.DepthTest != wantCompare || p.DepthWrite != tt.depth {
			t.Errorf("%v depth = %v/%v, want %v/%v", id, p.DepthTest, p.DepthWrite, wantCompare, tt.depth)
		}
		if p.ColorBlend == nil || *p.ColorBlend != gpucore.AlphaBlend {
			t.Errorf("%v color blend = %v, want alpha blend", id, p.ColorBlend)
		}
		if p.AlphaBlend != nil {
			t.Errorf("%v alpha blend = %v, want nil", id, p.AlphaBlend)
		}
		if ext.UniformSize() != builtinUniformSize {
			t.Errorf("%v uniform size = %d, want %d", id, ext.UniformSize(), builtinUniformSize)
		}
	}

	// The defaults share one shader declaring the primary texture.
	if got := rb.Resources().ShaderCount(); got != 1 {
		t.Errorf("ShaderCount() = %d, want 1", got)
	}
	ext, _ := r.Get(r.Default(DrawTriangles, false))
	desc, _ := rb.Resources().Pipeline(ext.Handle())
	shader, _ := rb.Resources().Shader(desc.Shader)
	if !slices.Equal(shader.Images, []string{TextureName}) {
		t.Errorf("default shader images = %v", shader.Images)
	}
	if desc.Stride != VertexSize || len(desc.Attributes) != 3 {
		t.Errorf("pipeline layout = stride %d, %d attributes", desc.Stride, len(desc.Attributes))
	}
}

func TestPipelineRegistryCreate(t *testing.T) {
	r, rb := newTestRegistry(t)

	uniforms := []UniformDesc{
		{Name: "Tint", Type: UniformFloat4},
		{Name: "Strength", Type: UniformFloat1},
		{Name: "Transform", Type: UniformMat4},
	}
	id, err := r.Create(ShaderSource{Label: "custom", Vertex: "vs"}, gpucore.PipelineParams{}, uniforms, []string{"Mask"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id.Index() != 4 {
		t.Errorf("first custom pipeline index = %d, want 4", id.Index())
	}
	ext, err := r.Get(id)
	if err != nil {
		t.Fatal(err)
	}

	wantOffsets := map[string]int{
		UniformProjection: 0,
		UniformModel:      64,
		UniformTime:       128,
		"Tint":            144,
		"Strength":        160,
		"Transform":       164,
	}
	for name, want := range wantOffsets {
		_, off, ok := ext.Uniform(name)
		if !ok || off != want {
			t.Errorf("Uniform(%q) offset = %d (ok %v), want %d", name, off, ok, want)
		}
	}
	if got := ext.UniformSize(); got != 164+64 {
		t.Errorf("UniformSize() = %d, want %d", got, 164+64)
	}
	if got := ext.Textures(); !slices.Equal(got, []string{"Mask"}) {
		t.Errorf("Textures() = %v", got)
	}

	desc, _ := rb.Resources().Pipeline(ext.Handle())
	shader, _ := rb.Resources().Shader(desc.Shader)
	if !slices.Equal(shader.Images, []string{TextureName, "Mask"}) {
		t.Errorf("shader images = %v", shader.Images)
	}
	if len(shader.Uniforms) != 6 || shader.Uniforms[3].Name != "Tint" {
		t.Errorf("shader uniforms = %v", shader.Uniforms)
	}
}

func TestPipelineRegistryCreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		uniforms []UniformDesc
		textures []string
		want     error
	}{
		{"reserved texture", nil, []string{TextureName}, ErrReservedTextureName},
		{"duplicate texture", nil, []string{"A", "A"}, ErrDuplicateTexture},
		{"duplicate uniform", []UniformDesc{{Name: "X", Type: UniformFloat1}, {Name: "X", Type: UniformFloat2}}, nil, ErrDuplicateUniform},
		{"builtin uniform", []UniformDesc{{Name: UniformModel, Type: UniformMat4}}, nil, ErrDuplicateUniform},
		{"empty uniform name", []UniformDesc{{Name: "", Type: UniformFloat1}}, nil, ErrInvalidUniform},
		{"invalid uniform type", []UniformDesc{{Name: "X", Type: gpucore.UniformType(99)}}, nil, ErrInvalidUniform},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rb := newTestRegistry(t)
			shaders := rb.Resources().ShaderCount()
			_, err := r.Create(DefaultShaderSource(), gpucore.PipelineParams{}, tt.uniforms, tt.textures)
			if !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
			if r.Len() != 4 || rb.Resources().ShaderCount() != shaders {
				t.Error("failed Create left resources behind")
			}
		})
	}
}

func TestPipelineRegistryShaderError(t *testing.T) {
	r, rb := newTestRegistry(t)
	compileErr := errors.New("syntax error at 1:1")
	rb.ShaderCheck = func(gpucore.ShaderDesc) error { return compileErr }

	_, err := r.Create(ShaderSource{Label: "broken"}, gpucore.PipelineParams{}, nil, nil)
	var se *ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("Create() error = %v, want *ShaderError", err)
	}
	if se.Label != "broken" || !errors.Is(err, compileErr) || !errors.Is(err, ErrShaderCompile) {
		t.Errorf("ShaderError = %+v", se)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
}

func TestPipelineRegistryCapacity(t *testing.T) {
	r, _ := newTestRegistry(t)

	ids := make([]PipelineID, 0, MaxPipelines-4)
	for range MaxPipelines - 4 {
		id, err := createTestPipeline(r)
		if err != nil {
			t.Fatalf("Create() error = %v after %d pipelines", err, r.Len())
		}
		ids = append(ids, id)
	}
	if r.Len() != MaxPipelines {
		t.Fatalf("Len() = %d, want %d", r.Len(), MaxPipelines)
	}
	if _, err := createTestPipeline(r); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Create() at capacity error = %v, want ErrCapacityExceeded", err)
	}

	// Freeing a slot makes exactly one more creation possible.
	if err := r.Delete(ids[7]); err != nil {
		t.Fatal(err)
	}
	id, err := createTestPipeline(r)
	if err != nil {
		t.Fatalf("Create() after Delete error = %v", err)
	}
	if id.Index() != ids[7].Index() {
		t.Errorf("reused slot = %d, want %d", id.Index(), ids[7].Index())
	}
	if _, err := createTestPipeline(r); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Create() error = %v, want ErrCapacityExceeded", err)
	}
}

func TestPipelineRegistryLowestFreeSlot(t *testing.T) {
	r, _ := newTestRegistry(t)
	a, _ := createTestPipeline(r)
	b, _ := createTestPipeline(r)
	c, _ := createTestPipeline(r)

	for _, id := range []PipelineID{c, a} {
		if err := r.Delete(id); err != nil {
			t.Fatal(err)
		}
	}
	next, _ := createTestPipeline(r)
	if next.Index() != a.Index() {
		t.Errorf("slot = %d, want lowest free %d", next.Index(), a.Index())
	}
	if _, err := r.Get(b); err != nil {
		t.Errorf("Get(b) error = %v", err)
	}
}

func TestPipelineRegistryStaleHandle(t *testing.T) {
	r, rb := newTestRegistry(t)
	id, _ := createTestPipeline(r)
	pipelines := rb.Resources().PipelineCount()

	if err := r.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := rb.Resources().PipelineCount(); got != pipelines-1 {
		t.Errorf("backend pipelines = %d, want %d", got, pipelines-1)
	}
	if _, err := r.Get(id); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Get(deleted) error = %v, want ErrStaleHandle", err)
	}
	if err := r.Delete(id); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Delete(deleted) error = %v, want ErrStaleHandle", err)
	}

	// The slot is reused with a new generation.
	reused, _ := createTestPipeline(r)
	if reused.Index() != id.Index() || reused == id {
		t.Errorf("reused = %v, old = %v", reused, id)
	}
	if _, err := r.Get(id); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Get(old id) after reuse error = %v, want ErrStaleHandle", err)
	}
	if _, err := r.Get(PipelineID{}); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Get(zero) error = %v, want ErrStaleHandle", err)
	}
	if r.SetUniform(id, UniformTime, Vec4Value(0, 0, 0, 0)) {
		t.Error("SetUniform on a stale pipeline = true")
	}
	if err := rb.Err(); err != nil {
		t.Error(err)
	}
}

func TestPipelineRegistryDeleteDefault(t *testing.T) {
	r, _ := newTestRegistry(t)
	for _, depth := range []bool{false, true} {
		if err := r.Delete(r.Default(DrawTriangles, depth)); !errors.Is(err, ErrDefaultPipeline) {
			t.Errorf("Delete(default) error = %v, want ErrDefaultPipeline", err)
		}
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
}

func TestPipelineRegistrySetUniform(t *testing.T) {
	r, _ := newTestRegistry(t)
	id, err := r.Create(DefaultShaderSource(), gpucore.PipelineParams{},
		[]UniformDesc{{Name: "Tint", Type: UniformFloat4}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	ext, _ := r.Get(id)

	if !r.SetUniform(id, "Tint", Vec4Value(0.25, 0.5, 0.75, 1)) {
		t.Fatal("SetUniform() = false")
	}
	data := ext.UniformData()
	for k, want := range []float32{0.25, 0.5, 0.75, 1} {
		if got := floatAt(data, builtinUniformSize+k*4); got != want {
			t.Errorf("Tint[%d] = %v, want %v", k, got, want)
		}
	}
	if r.SetUniform(id, "Tint", Vec3Value(1, 1, 1)) {
		t.Error("SetUniform with a vec3 for a vec4 = true")
	}
	if got := floatAt(ext.UniformData(), builtinUniformSize); got != 0.25 {
		t.Errorf("Tint[0] after mismatch = %v, want 0.25", got)
	}
}

func TestPipelineRegistrySetTexture(t *testing.T) {
	r, rb := newTestRegistry(t)
	id, err := r.Create(DefaultShaderSource(), gpucore.PipelineParams{}, nil, []string{"Mask"})
	if err != nil {
		t.Fatal(err)
	}
	tex, _ := rb.NewTexture(gpucore.TextureDesc{Width: 1, Height: 1, Format: gpucore.TextureFormatRGBA8}, nil)
	r.SetTexture(id, "Mask", tex)
	ext, _ := r.Get(id)
	if got := ext.TextureBinding("Mask"); got != tex {
		t.Errorf("TextureBinding() = %d, want %d", got, tex)
	}

	for _, name := range []string{TextureName, "Other"} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("SetTexture(%q) did not panic", name)
				}
			}()
			r.SetTexture(id, name, tex)
		})
	}
}

func TestPipelineRegistryRelease(t *testing.T) {
	r, rb := newTestRegistry(t)
	if _, err := createTestPipeline(r); err != nil {
		t.Fatal(err)
	}
	r.Release()
	res := rb.Resources()
	if res.PipelineCount() != 0 || res.ShaderCount() != 0 {
		t.Errorf("after Release: %d pipelines, %d shaders", res.PipelineCount(), res.ShaderCount())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	if err := rb.Err(); err != nil {
		t.Error(err)
	}
}

func TestPipelineIDString(t *testing.T) {
	if got := (PipelineID{}).String(); got != "pipeline(none)" {
		t.Errorf("zero String() = %q", got)
	}
	if got := (PipelineID{index: 5, gen: 2}).String(); got != "pipeline(5#2)" {
		t.Errorf("String() = %q", got)
	}
}
