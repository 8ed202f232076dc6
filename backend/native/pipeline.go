// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/gpucore"
)

// shader is a compiled WGSL module with the bind group layout implied by
// its declared uniforms and images:
//
//	binding 0:       uniform block
//	binding 1+2i:    image i
//	binding 2+2i:    sampler of image i
type shader struct {
	module      hal.ShaderModule
	layout      hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	uniformSize uint64
	images      int
}

func (s *shader) destroy(device hal.Device) {
	if s.pipeLayout != nil {
		device.DestroyPipelineLayout(s.pipeLayout)
	}
	if s.layout != nil {
		device.DestroyBindGroupLayout(s.layout)
	}
	if s.module != nil {
		device.DestroyShaderModule(s.module)
	}
}

// pipeline holds one render pipeline per color format it has been used
// with. Variants are created on first use by a pass.
type pipeline struct {
	label    string
	shaderID gpucore.ShaderID
	shader   *shader
	desc     hal.RenderPipelineDescriptor
	variants map[gputypes.TextureFormat]hal.RenderPipeline
}

func (p *pipeline) destroy(device hal.Device) {
	for f, rp := range p.variants {
		device.DestroyRenderPipeline(rp)
		delete(p.variants, f)
	}
}

// variant returns the pipeline for a color format, creating it if needed.
func (p *pipeline) variant(device hal.Device, format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if rp, ok := p.variants[format]; ok {
		return rp, nil
	}
	desc := p.desc
	frag := *desc.Fragment
	targets := make([]gputypes.ColorTargetState, len(frag.Targets))
	copy(targets, frag.Targets)
	targets[0].Format = format
	frag.Targets = targets
	desc.Fragment = &frag
	desc.Label = fmt.Sprintf("%s_%d", p.label, format)

	rp, err := device.CreateRenderPipeline(&desc)
	if err != nil {
		return nil, fmt.Errorf("create render pipeline %s: %w", desc.Label, err)
	}
	p.variants[format] = rp
	return rp, nil
}

// NewShader validates the WGSL source and creates the shader module and
// its bind group layout. The module must define vs_main and fs_main.
func (b *Backend) NewShader(desc gpucore.ShaderDesc) (gpucore.ShaderID, error) {
	source := desc.Vertex
	if desc.Fragment != "" && desc.Fragment != desc.Vertex {
		source += "\n" + desc.Fragment
	}
	if len(desc.Images) > maxImages {
		return gpucore.InvalidID, fmt.Errorf("%w: %d declared, limit %d", ErrTooManyImages, len(desc.Images), maxImages)
	}
	if _, err := naga.Compile(source); err != nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %s: %w", ErrShaderCompile, desc.Label, err)
	}

	var uniformSize uint64
	for _, u := range desc.Uniforms {
		uniformSize += uint64(u.Type.Size()) //nolint:gosec // sizes are small constants
	}
	// WGSL rounds struct sizes up to their 16-byte alignment.
	uniformSize = alignUp(max(uniformSize, 16), 16)

	s := &shader{uniformSize: uniformSize, images: len(desc.Images)}
	var err error
	s.module, err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %s: %w", ErrShaderCompile, desc.Label, err)
	}

	entries := make([]gputypes.BindGroupLayoutEntry, 0, 1+2*len(desc.Images))
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	})
	for i := range desc.Images {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    uint32(1 + 2*i), //nolint:gosec // bounded by maxImages
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    uint32(2 + 2*i), //nolint:gosec // bounded by maxImages
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	s.layout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		s.destroy(b.device)
		return gpucore.InvalidID, fmt.Errorf("native: create bind group layout: %w", err)
	}
	s.pipeLayout, err = b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{s.layout},
	})
	if err != nil {
		s.destroy(b.device)
		return gpucore.InvalidID, fmt.Errorf("native: create pipeline layout: %w", err)
	}

	id := gpucore.ShaderID(b.newID())
	b.mu.Lock()
	b.shaders[id] = s
	b.mu.Unlock()
	b.log().Debug("shader created", "id", id, "label", desc.Label,
		"uniform_size", uniformSize, "images", len(desc.Images))
	return id, nil
}

// DeleteShader releases a shader. Pipelines created from it must be
// deleted first.
func (b *Backend) DeleteShader(id gpucore.ShaderID) {
	b.mu.Lock()
	s, ok := b.shaders[id]
	delete(b.shaders, id)
	b.mu.Unlock()
	if !ok {
		return
	}
	b.groups.removeShader(id)
	b.releaseRetired()
	s.destroy(b.device)
}

// NewPipeline creates a render pipeline. The GPU pipeline object is built
// lazily for each color format it renders to.
func (b *Backend) NewPipeline(desc gpucore.PipelineDesc) (gpucore.PipelineID, error) {
	b.mu.RLock()
	s, ok := b.shaders[desc.Shader]
	b.mu.RUnlock()
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: shader %d", ErrUnknownResource, desc.Shader)
	}
	if desc.Stride <= 0 || len(desc.Attributes) == 0 {
		return gpucore.InvalidID, fmt.Errorf("%w: empty vertex layout", ErrInvalidDescriptor)
	}

	attrs := make([]gputypes.VertexAttribute, len(desc.Attributes))
	for i, a := range desc.Attributes {
		f, ok := vertexFormat(a.Format)
		if !ok {
			return gpucore.InvalidID, fmt.Errorf("%w: attribute %q format %d", ErrInvalidDescriptor, a.Name, a.Format)
		}
		attrs[i] = gputypes.VertexAttribute{
			Format:         f,
			Offset:         uint64(a.Offset), //nolint:gosec // offsets are within the stride
			ShaderLocation: uint32(i),        //nolint:gosec // few attributes
		}
	}

	params := desc.Params
	p := &pipeline{
		label:    desc.Label,
		shaderID: desc.Shader,
		shader:   s,
		variants: make(map[gputypes.TextureFormat]hal.RenderPipeline),
		desc: hal.RenderPipelineDescriptor{
			Label:  desc.Label,
			Layout: s.pipeLayout,
			Vertex: hal.VertexState{
				Module:     s.module,
				EntryPoint: "vs_main",
				Buffers: []gputypes.VertexBufferLayout{{
					ArrayStride: uint64(desc.Stride), //nolint:gosec // validated positive
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes:  attrs,
				}},
			},
			Fragment: &hal.FragmentState{
				Module:     s.module,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{{
					Format:    b.config.Format,
					Blend:     blendState(params),
					WriteMask: gputypes.ColorWriteMaskAll,
				}},
			},
			DepthStencil: &hal.DepthStencilState{
				Format:            depthFormat,
				DepthWriteEnabled: params.DepthWrite,
				DepthCompare:      compareFunction(params.DepthTest),
				StencilFront: hal.StencilFaceState{
					Compare:     gputypes.CompareFunctionAlways,
					FailOp:      hal.StencilOperationKeep,
					DepthFailOp: hal.StencilOperationKeep,
					PassOp:      hal.StencilOperationKeep,
				},
				StencilBack: hal.StencilFaceState{
					Compare:     gputypes.CompareFunctionAlways,
					FailOp:      hal.StencilOperationKeep,
					DepthFailOp: hal.StencilOperationKeep,
					PassOp:      hal.StencilOperationKeep,
				},
				StencilReadMask:  0xFF,
				StencilWriteMask: 0x00,
			},
			Primitive: gputypes.PrimitiveState{
				Topology: topology(params.PrimitiveType),
				CullMode: gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		},
	}

	// Build the default-target variant now so descriptor errors surface
	// at creation.
	if _, err := p.variant(b.device, b.config.Format); err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: %w", err)
	}

	id := gpucore.PipelineID(b.newID())
	b.mu.Lock()
	b.pipelines[id] = p
	b.mu.Unlock()
	b.log().Debug("pipeline created", "id", id, "label", desc.Label,
		"primitive", params.PrimitiveType.String())
	return id, nil
}

// DeletePipeline releases a pipeline and all of its variants.
func (b *Backend) DeletePipeline(id gpucore.PipelineID) {
	b.mu.Lock()
	p, ok := b.pipelines[id]
	delete(b.pipelines, id)
	b.mu.Unlock()
	if ok {
		p.destroy(b.device)
	}
}
