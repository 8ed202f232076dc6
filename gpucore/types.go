// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// ShaderID is an opaque handle to a compiled shader program.
type ShaderID uint64

// PipelineID is an opaque handle to a render pipeline.
type PipelineID uint64

// RenderTargetID is an opaque handle to an offscreen render target.
// Zero means the default (window or surface) target.
type RenderTargetID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferType selects the binding point of a buffer.
type BufferType uint8

// Buffer types.
const (
	// BufferTypeVertex is a vertex buffer.
	BufferTypeVertex BufferType = iota + 1

	// BufferTypeIndex is a 16-bit index buffer.
	BufferTypeIndex
)

// String returns the buffer type name.
func (t BufferType) String() string {
	switch t {
	case BufferTypeVertex:
		return "vertex"
	case BufferTypeIndex:
		return "index"
	default:
		return "unknown"
	}
}

// BufferUsage is a hint describing how often a buffer's content changes.
type BufferUsage uint8

// Buffer usage hints.
const (
	// BufferUsageImmutable buffers are written once at creation.
	BufferUsageImmutable BufferUsage = iota

	// BufferUsageDynamic buffers are rewritten occasionally.
	BufferUsageDynamic

	// BufferUsageStream buffers are rewritten every frame.
	BufferUsageStream
)

// BufferDesc describes a buffer to create.
type BufferDesc struct {
	// Label is an optional debug label.
	Label string

	// Type is the binding point (vertex or index).
	Type BufferType

	// Usage is the update-frequency hint.
	Usage BufferUsage

	// Size is the buffer size in bytes.
	Size int
}

// TextureFormat specifies the format of texture data.
type TextureFormat uint8

// Texture formats.
const (
	// TextureFormatRGBA8 is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8 TextureFormat = iota + 1

	// TextureFormatDepth is a depth(-stencil) attachment format.
	TextureFormatDepth
)

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatRGBA8:
		return 4
	case TextureFormatDepth:
		return 4
	default:
		return 0
	}
}

// FilterMode is the texture sampling filter.
type FilterMode uint8

// Filter modes.
const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// TextureDesc describes a sampled texture to create.
type TextureDesc struct {
	Label  string
	Width  uint32
	Height uint32
	Format TextureFormat
	Filter FilterMode
}

// VertexFormat is the format of a single vertex attribute.
type VertexFormat uint8

// Vertex attribute formats.
const (
	// VertexFormatFloat2 is two float32 components.
	VertexFormatFloat2 VertexFormat = iota + 1

	// VertexFormatFloat3 is three float32 components.
	VertexFormatFloat3

	// VertexFormatFloat4 is four float32 components.
	VertexFormatFloat4

	// VertexFormatUByte4N is four uint8 components normalized to [0, 1].
	VertexFormatUByte4N
)

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() int {
	switch f {
	case VertexFormatFloat2:
		return 8
	case VertexFormatFloat3:
		return 12
	case VertexFormatFloat4:
		return 16
	case VertexFormatUByte4N:
		return 4
	default:
		return 0
	}
}

// VertexAttribute declares one attribute of the vertex layout.
type VertexAttribute struct {
	Name   string
	Format VertexFormat
	Offset int
}

// UniformType is the type of a declared shader uniform.
type UniformType uint8

// Uniform types.
const (
	UniformFloat1 UniformType = iota + 1
	UniformFloat2
	UniformFloat3
	UniformFloat4
	UniformMat4
)

// Size returns the packed byte size of the uniform type.
func (t UniformType) Size() int {
	switch t {
	case UniformFloat1:
		return 4
	case UniformFloat2:
		return 8
	case UniformFloat3:
		return 12
	case UniformFloat4:
		return 16
	case UniformMat4:
		return 64
	default:
		return 0
	}
}

// String returns the shader-language name of the type.
func (t UniformType) String() string {
	switch t {
	case UniformFloat1:
		return "float"
	case UniformFloat2:
		return "vec2"
	case UniformFloat3:
		return "vec3"
	case UniformFloat4:
		return "vec4"
	case UniformMat4:
		return "mat4"
	default:
		return "invalid"
	}
}

// UniformDesc names one uniform of a shader's uniform block.
type UniformDesc struct {
	Name string
	Type UniformType
}

// ShaderDesc describes a shader program and the resources it declares.
type ShaderDesc struct {
	// Label is an optional debug label.
	Label string

	// Vertex is the vertex stage source.
	Vertex string

	// Fragment is the fragment stage source. Backends consuming a single
	// module (WGSL) accept it empty when Vertex holds both entry points.
	Fragment string

	// Uniforms is the uniform block layout in declaration order.
	Uniforms []UniformDesc

	// Images lists the sampled texture names in binding order.
	Images []string
}

// PrimitiveType is the primitive topology of a pipeline.
type PrimitiveType uint8

// Primitive types.
const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveLines
)

// String returns the topology name.
func (p PrimitiveType) String() string {
	if p == PrimitiveLines {
		return "lines"
	}
	return "triangles"
}

// CompareFunc is a depth comparison function.
type CompareFunc uint8

// Comparison functions.
const (
	CompareAlways CompareFunc = iota
	CompareNever
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreater
	CompareGreaterEqual
	CompareNotEqual
)

// BlendFactor is a blend equation factor.
type BlendFactor uint8

// Blend factors.
const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// BlendOp is a blend equation operation.
type BlendOp uint8

// Blend operations.
const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
)

// BlendState describes one blend equation.
type BlendState struct {
	Op  BlendOp
	Src BlendFactor
	Dst BlendFactor
}

// AlphaBlend is the conventional non-premultiplied "over" equation.
var AlphaBlend = BlendState{Op: BlendOpAdd, Src: BlendSrcAlpha, Dst: BlendOneMinusSrcAlpha}

// PipelineParams is the fixed-function configuration of a pipeline.
type PipelineParams struct {
	// PrimitiveType selects triangle or line lists.
	PrimitiveType PrimitiveType

	// DepthTest is the depth comparison. CompareAlways disables the test.
	DepthTest CompareFunc

	// DepthWrite enables writes to the depth buffer.
	DepthWrite bool

	// ColorBlend is the color blend equation. Nil disables blending.
	ColorBlend *BlendState

	// AlphaBlend is the alpha blend equation. Nil reuses ColorBlend.
	AlphaBlend *BlendState
}

// PipelineDesc describes a render pipeline to create.
type PipelineDesc struct {
	Label      string
	Shader     ShaderID
	Attributes []VertexAttribute
	Stride     int
	Params     PipelineParams
}

// Color is a linear RGBA clear color.
type Color struct {
	R, G, B, A float32
}

// PassAction tells a render pass what to do with the existing target content.
type PassAction struct {
	// Clear replaces the color attachment with ClearColor when true.
	// Otherwise the previous content is kept (load).
	Clear bool

	// ClearColor is the clear value used when Clear is set.
	ClearColor Color

	// ClearDepth resets the depth buffer to 1.0 when true.
	ClearDepth bool
}

// LoadAction keeps the existing contents of the target.
func LoadAction() PassAction { return PassAction{} }

// ClearAction clears color and depth.
func ClearAction(c Color) PassAction {
	return PassAction{Clear: true, ClearColor: c, ClearDepth: true}
}

// Bindings is the resource set applied before a draw.
type Bindings struct {
	VertexBuffer BufferID
	IndexBuffer  BufferID

	// Images are bound in order to the shader's declared image slots.
	Images []TextureID
}
