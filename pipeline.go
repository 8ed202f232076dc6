// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"fmt"
	"slices"

	"github.com/gogpu/quad/gpucore"
)

// MaxPipelines is the number of pipeline slots, the four defaults included.
const MaxPipelines = 32

// PipelineID identifies a pipeline in a PipelineRegistry.
//
// An ID carries the generation of its slot: once the pipeline is deleted,
// the ID stays stale even after the slot is reused. The zero value is not a
// valid pipeline and selects the default pipeline in Batcher.SetPipeline.
type PipelineID struct {
	index uint16
	gen   uint32
}

// IsValid reports whether id was issued by a registry. It does not check
// that the pipeline is still alive.
func (id PipelineID) IsValid() bool { return id.gen != 0 }

// Index returns the slot index.
func (id PipelineID) Index() int { return int(id.index) }

// String implements fmt.Stringer.
func (id PipelineID) String() string {
	if !id.IsValid() {
		return "pipeline(none)"
	}
	return fmt.Sprintf("pipeline(%d#%d)", id.index, id.gen)
}

// PipelineExt is a compiled pipeline together with its uniform layout,
// uniform data and named texture bindings.
type PipelineExt struct {
	handle     gpucore.PipelineID
	shader     gpucore.ShaderID
	ownsShader bool
	params     gpucore.PipelineParams

	uniforms    []uniformSlot
	uniformData []byte

	textures    []string
	textureData map[string]gpucore.TextureID
}

// Handle returns the backend pipeline.
func (p *PipelineExt) Handle() gpucore.PipelineID { return p.handle }

// Params returns the fixed-function configuration.
func (p *PipelineExt) Params() gpucore.PipelineParams { return p.params }

// UniformSize returns the size of the uniform block in bytes.
func (p *PipelineExt) UniformSize() int { return len(p.uniformData) }

// UniformData returns the live uniform bytes. The slice aliases the
// pipeline's buffer and must not be retained.
func (p *PipelineExt) UniformData() []byte { return p.uniformData }

// Uniform returns the type and byte offset of a declared uniform.
func (p *PipelineExt) Uniform(name string) (typ gpucore.UniformType, offset int, ok bool) {
	if s := p.findUniform(name); s != nil {
		return s.typ, s.offset, true
	}
	return 0, 0, false
}

// Uniforms returns the declared uniforms in layout order, built-ins first.
func (p *PipelineExt) Uniforms() []UniformDesc {
	out := make([]UniformDesc, len(p.uniforms))
	for i, s := range p.uniforms {
		out[i] = UniformDesc{Name: s.name, Type: s.typ}
	}
	return out
}

// Textures returns the declared texture names (the primary texture excluded).
func (p *PipelineExt) Textures() []string { return slices.Clone(p.textures) }

// TextureBinding returns the texture bound to a declared name.
func (p *PipelineExt) TextureBinding(name string) gpucore.TextureID { return p.textureData[name] }

func (p *PipelineExt) findUniform(name string) *uniformSlot {
	for i := range p.uniforms {
		if p.uniforms[i].name == name {
			return &p.uniforms[i]
		}
	}
	return nil
}

// setUniform writes v at the offset of name. It returns false, leaving the
// buffer unchanged, when the uniform is unknown or v has a different type.
func (p *PipelineExt) setUniform(name string, v UniformValue) bool {
	s := p.findUniform(name)
	if s == nil {
		Logger().Warn("quad: set of undeclared uniform", "name", name)
		return false
	}
	if v.Type() != s.typ {
		Logger().Warn("quad: uniform type mismatch",
			"name", name,
			"declared", s.typ.String(),
			"declared_size", s.typ.Size(),
			"got", v.Type().String(),
			"got_size", v.Type().Size())
		return false
	}
	v.put(p.uniformData[s.offset : s.offset+s.typ.Size()])
	return true
}

// pipelineSlot is one arena entry.
type pipelineSlot struct {
	ext *PipelineExt
	gen uint32
}

// PipelineRegistry is a fixed-capacity arena of pipelines.
//
// Slots are allocated lowest-index first from a free list. The first four
// slots hold the built-in pipelines for {triangles, lines} x {no depth,
// depth} and are never freed.
//
// PipelineRegistry is not safe for concurrent use.
type PipelineRegistry struct {
	backend gpucore.Backend

	slots [MaxPipelines]pipelineSlot
	free  []uint16 // ascending
	live  int

	defaultShader gpucore.ShaderID
	defaults      [4]PipelineID
}

// NewPipelineRegistry compiles the default shader and creates the default
// pipelines.
func NewPipelineRegistry(b gpucore.Backend) (*PipelineRegistry, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	r := &PipelineRegistry{
		backend: b,
		free:    make([]uint16, MaxPipelines),
	}
	for i := range r.free {
		r.free[i] = uint16(i) //nolint:gosec // i < MaxPipelines
	}

	slots, size, err := computeUniformLayout(nil)
	if err != nil {
		return nil, err
	}
	src := DefaultShaderSource()
	shader, err := b.NewShader(shaderDesc(src, slots, nil))
	if err != nil {
		return nil, &ShaderError{Label: src.Label, Err: err}
	}
	r.defaultShader = shader

	blend := gpucore.AlphaBlend
	base := gpucore.PipelineParams{ColorBlend: &blend}
	depth := base
	depth.DepthTest = gpucore.CompareLessEqual
	depth.DepthWrite = true

	configs := []struct {
		mode   DrawMode
		params gpucore.PipelineParams
	}{
		{DrawTriangles, base},
		{DrawLines, base},
		{DrawTriangles, depth},
		{DrawLines, depth},
	}
	for i, c := range configs {
		c.params.PrimitiveType = c.mode.primitive()
		id, err := r.insert(shader, false, c.params, slots, size, nil)
		if err != nil {
			r.Release()
			return nil, fmt.Errorf("quad: create default pipeline %d: %w", i, err)
		}
		r.defaults[i] = id
	}
	return r, nil
}

// Create compiles src and creates a pipeline with the given uniforms and
// textures.
//
// The uniform layout is Projection, Model and _Time followed by uniforms in
// declaration order, packed without padding. The primary texture is always
// available to the shader as TextureName; textures lists the additional
// named textures, bound in order after it.
//
// Errors: ErrReservedTextureName, ErrDuplicateTexture, ErrDuplicateUniform,
// ErrInvalidUniform, ErrCapacityExceeded, or a *ShaderError (matching
// ErrShaderCompile) when the backend rejects the shader.
func (r *PipelineRegistry) Create(src ShaderSource, params gpucore.PipelineParams, uniforms []UniformDesc, textures []string) (PipelineID, error) {
	seen := make(map[string]struct{}, len(textures))
	for _, name := range textures {
		if name == TextureName {
			return PipelineID{}, fmt.Errorf("%w: %q", ErrReservedTextureName, name)
		}
		if _, dup := seen[name]; dup {
			return PipelineID{}, fmt.Errorf("%w: %q", ErrDuplicateTexture, name)
		}
		seen[name] = struct{}{}
	}

	slots, size, err := computeUniformLayout(uniforms)
	if err != nil {
		return PipelineID{}, err
	}
	if len(r.free) == 0 {
		return PipelineID{}, ErrCapacityExceeded
	}

	shader, err := r.backend.NewShader(shaderDesc(src, slots, textures))
	if err != nil {
		return PipelineID{}, &ShaderError{Label: src.Label, Err: err}
	}
	id, err := r.insert(shader, true, params, slots, size, slices.Clone(textures))
	if err != nil {
		r.backend.DeleteShader(shader)
		return PipelineID{}, err
	}
	Logger().Debug("quad: pipeline created",
		"id", id.String(),
		"label", src.Label,
		"uniform_bytes", size,
		"textures", len(textures))
	return id, nil
}

// insert creates the backend pipeline and stores it in the lowest free slot.
func (r *PipelineRegistry) insert(shader gpucore.ShaderID, ownsShader bool, params gpucore.PipelineParams,
	slots []uniformSlot, size int, textures []string) (PipelineID, error) {
	if len(r.free) == 0 {
		return PipelineID{}, ErrCapacityExceeded
	}
	handle, err := r.backend.NewPipeline(gpucore.PipelineDesc{
		Label:      "quad_pipeline",
		Shader:     shader,
		Attributes: VertexAttributes(),
		Stride:     VertexSize,
		Params:     params,
	})
	if err != nil {
		return PipelineID{}, fmt.Errorf("quad: create pipeline: %w", err)
	}

	index := r.free[0]
	r.free = r.free[1:]
	slot := &r.slots[index]
	slot.gen++
	slot.ext = &PipelineExt{
		handle:      handle,
		shader:      shader,
		ownsShader:  ownsShader,
		params:      params,
		uniforms:    slots,
		uniformData: make([]byte, size),
		textures:    textures,
		textureData: make(map[string]gpucore.TextureID, len(textures)),
	}
	r.live++
	return PipelineID{index: index, gen: slot.gen}, nil
}

// Default returns the built-in pipeline for a draw mode and depth setting.
func (r *PipelineRegistry) Default(mode DrawMode, depth bool) PipelineID {
	i := 0
	if mode == DrawLines {
		i = 1
	}
	if depth {
		i += 2
	}
	return r.defaults[i]
}

func (r *PipelineRegistry) isDefault(id PipelineID) bool {
	return slices.Contains(r.defaults[:], id)
}

// Get returns the pipeline for id, or ErrStaleHandle if it was deleted.
func (r *PipelineRegistry) Get(id PipelineID) (*PipelineExt, error) {
	if !id.IsValid() || int(id.index) >= MaxPipelines {
		return nil, fmt.Errorf("%w: %v", ErrStaleHandle, id)
	}
	slot := &r.slots[id.index]
	if slot.ext == nil || slot.gen != id.gen {
		return nil, fmt.Errorf("%w: %v", ErrStaleHandle, id)
	}
	return slot.ext, nil
}

// mustGet is Get for callers where a stale id is a programming error.
func (r *PipelineRegistry) mustGet(id PipelineID) *PipelineExt {
	p, err := r.Get(id)
	if err != nil {
		panic(err)
	}
	return p
}

// Delete destroys a pipeline and frees its slot. Deleting a built-in
// pipeline returns ErrDefaultPipeline.
func (r *PipelineRegistry) Delete(id PipelineID) error {
	p, err := r.Get(id)
	if err != nil {
		return err
	}
	if r.isDefault(id) {
		return ErrDefaultPipeline
	}
	r.release(id.index, p)
	Logger().Debug("quad: pipeline deleted", "id", id.String())
	return nil
}

func (r *PipelineRegistry) release(index uint16, p *PipelineExt) {
	r.backend.DeletePipeline(p.handle)
	if p.ownsShader {
		r.backend.DeleteShader(p.shader)
	}
	r.slots[index].ext = nil
	pos, _ := slices.BinarySearch(r.free, index)
	r.free = slices.Insert(r.free, pos, index)
	r.live--
}

// SetUniform writes a uniform value into the pipeline's uniform buffer.
//
// An unknown pipeline, an undeclared name or a value of the wrong type is
// logged and ignored; SetUniform then returns false and the buffer is left
// unchanged.
func (r *PipelineRegistry) SetUniform(id PipelineID, name string, v UniformValue) bool {
	p, err := r.Get(id)
	if err != nil {
		Logger().Warn("quad: set uniform on unknown pipeline", "id", id.String(), "name", name)
		return false
	}
	return p.setUniform(name, v)
}

// SetTexture binds a texture to one of the pipeline's declared texture
// names. It panics if the pipeline is stale or the name was not declared
// at creation.
func (r *PipelineRegistry) SetTexture(id PipelineID, name string, tex gpucore.TextureID) {
	p := r.mustGet(id)
	if !slices.Contains(p.textures, name) {
		panic(fmt.Sprintf("quad: %v has no texture named %q", id, name))
	}
	p.textureData[name] = tex
}

// Len returns the number of live pipelines, defaults included.
func (r *PipelineRegistry) Len() int { return r.live }

// Release destroys every pipeline and the default shader.
func (r *PipelineRegistry) Release() {
	for i := range r.slots {
		if p := r.slots[i].ext; p != nil {
			r.release(uint16(i), p) //nolint:gosec // i < MaxPipelines
		}
	}
	if r.defaultShader != gpucore.InvalidID {
		r.backend.DeleteShader(r.defaultShader)
		r.defaultShader = gpucore.InvalidID
	}
	r.defaults = [4]PipelineID{}
}
