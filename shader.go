// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	_ "embed"

	"github.com/gogpu/quad/gpucore"
)

// TextureName is the name of the primary texture slot. It is always bound
// first and holds the texture selected with Batcher.SetTexture.
const TextureName = "Texture"

//go:embed shaders/default.wgsl
var defaultShaderWGSL string

// ShaderSource is the source of a pipeline shader.
//
// WGSL backends take a single module holding both vs_main and fs_main in
// Vertex and ignore Fragment. GL-style backends use both stages.
type ShaderSource struct {
	Label    string
	Vertex   string
	Fragment string
}

// DefaultShaderSource returns the built-in shader: position transformed by
// Projection * Model, fragment color = vertex color * Texture sample.
//
// Custom shaders typically start from this source and extend the uniform
// block after the built-in members.
func DefaultShaderSource() ShaderSource {
	return ShaderSource{Label: "quad_default", Vertex: defaultShaderWGSL}
}

// shaderDesc builds the backend descriptor of a shader with the full
// uniform layout and image list (primary texture first).
func shaderDesc(src ShaderSource, slots []uniformSlot, textures []string) gpucore.ShaderDesc {
	uniforms := make([]gpucore.UniformDesc, len(slots))
	for i, s := range slots {
		uniforms[i] = gpucore.UniformDesc{Name: s.name, Type: s.typ}
	}
	images := make([]string, 0, len(textures)+1)
	images = append(images, TextureName)
	images = append(images, textures...)
	return gpucore.ShaderDesc{
		Label:    src.Label,
		Vertex:   src.Vertex,
		Fragment: src.Fragment,
		Uniforms: uniforms,
		Images:   images,
	}
}
