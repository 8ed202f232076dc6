// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/quad/gpucore"
)

// Uniform types, re-exported for callers declaring pipeline uniforms.
const (
	UniformFloat1 = gpucore.UniformFloat1
	UniformFloat2 = gpucore.UniformFloat2
	UniformFloat3 = gpucore.UniformFloat3
	UniformFloat4 = gpucore.UniformFloat4
	UniformMat4   = gpucore.UniformMat4
)

// UniformDesc declares a named, typed uniform of a pipeline.
type UniformDesc = gpucore.UniformDesc

// Built-in uniform names. Every pipeline layout starts with these three.
const (
	UniformProjection = "Projection"
	UniformModel      = "Model"
	UniformTime       = "_Time"
)

// Fixed byte offsets of the built-in uniforms.
const (
	offsetProjection = 0
	offsetModel      = 64
	offsetTime       = 128

	builtinUniformSize = 144
)

// builtinUniforms returns the uniforms prepended to every pipeline.
func builtinUniforms() []UniformDesc {
	return []UniformDesc{
		{Name: UniformProjection, Type: gpucore.UniformMat4},
		{Name: UniformModel, Type: gpucore.UniformMat4},
		{Name: UniformTime, Type: gpucore.UniformFloat4},
	}
}

// uniformSlot is a uniform with its resolved byte offset.
type uniformSlot struct {
	name   string
	typ    gpucore.UniformType
	offset int
}

// computeUniformLayout prepends the built-in uniforms to user and packs
// everything contiguously in declaration order. It returns the slots and
// the total byte size.
func computeUniformLayout(user []UniformDesc) ([]uniformSlot, int, error) {
	all := append(builtinUniforms(), user...)
	slots := make([]uniformSlot, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	offset := 0
	for _, u := range all {
		if u.Name == "" || u.Type.Size() == 0 {
			return nil, 0, fmt.Errorf("%w: %q of type %d", ErrInvalidUniform, u.Name, u.Type)
		}
		if _, dup := seen[u.Name]; dup {
			return nil, 0, fmt.Errorf("%w: %q", ErrDuplicateUniform, u.Name)
		}
		seen[u.Name] = struct{}{}
		slots = append(slots, uniformSlot{name: u.Name, typ: u.Type, offset: offset})
		offset += u.Type.Size()
	}
	return slots, offset, nil
}

// UniformValue is a typed uniform value.
//
// Construct values with Float, Vec2Value, Vec3Value, Vec4Value or Mat4Value.
// The zero value has no type and is rejected by SetUniform.
type UniformValue struct {
	typ gpucore.UniformType
	f   [16]float32
}

// Float returns a float uniform value.
func Float(v float32) UniformValue {
	return UniformValue{typ: gpucore.UniformFloat1, f: [16]float32{v}}
}

// Vec2Value returns a vec2 uniform value.
func Vec2Value(x, y float32) UniformValue {
	return UniformValue{typ: gpucore.UniformFloat2, f: [16]float32{x, y}}
}

// Vec3Value returns a vec3 uniform value.
func Vec3Value(x, y, z float32) UniformValue {
	return UniformValue{typ: gpucore.UniformFloat3, f: [16]float32{x, y, z}}
}

// Vec4Value returns a vec4 uniform value.
func Vec4Value(x, y, z, w float32) UniformValue {
	return UniformValue{typ: gpucore.UniformFloat4, f: [16]float32{x, y, z, w}}
}

// ColorValue returns a vec4 uniform value holding c scaled to [0, 1].
func ColorValue(c Color) UniformValue {
	r, g, b, a := c.Floats()
	return Vec4Value(r, g, b, a)
}

// Mat4Value returns a mat4 uniform value.
func Mat4Value(m Mat4) UniformValue {
	return UniformValue{typ: gpucore.UniformMat4, f: m}
}

// Type returns the uniform type of the value.
func (v UniformValue) Type() gpucore.UniformType { return v.typ }

// Floats returns the components of the value.
func (v UniformValue) Floats() []float32 {
	return v.f[:v.typ.Size()/4]
}

// put writes the little-endian encoding of v into b.
func (v UniformValue) put(b []byte) {
	for i, f := range v.Floats() {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}

// String implements fmt.Stringer.
func (v UniformValue) String() string {
	return fmt.Sprintf("%s%v", v.typ, v.Floats())
}
