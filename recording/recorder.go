// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/quad/gpucore"
)

// Protocol errors reported by Backend.Err.
var (
	// ErrNoPass is reported when a state or draw command is recorded outside
	// of a render pass.
	ErrNoPass = errors.New("recording: command outside of render pass")

	// ErrNestedPass is reported when a pass begins while another is open.
	ErrNestedPass = errors.New("recording: render pass already open")

	// ErrUnknownResource is reported when a command references a resource
	// that does not exist (never created or already deleted).
	ErrUnknownResource = errors.New("recording: unknown resource")

	// ErrBufferOverflow is reported when an update exceeds the buffer size.
	ErrBufferOverflow = errors.New("recording: buffer overflow")
)

// Backend is a gpucore.Backend that records commands in memory.
//
// Backend is not safe for concurrent use.
type Backend struct {
	width, height uint32

	pool     *ResourcePool
	commands []Command
	draws    []DrawRecord
	frames   int
	err      error

	// Current pass state.
	inPass   bool
	target   gpucore.RenderTargetID
	pipeline gpucore.PipelineID
	viewport Rect
	scissor  Rect
	bindings gpucore.Bindings
	uniforms []byte

	// Elapsed is returned by ElapsedTime. Tests set it to control the
	// time uniform.
	Elapsed time.Duration

	// ShaderCheck, when set, is called by NewShader; a non-nil result is
	// returned as the compile error.
	ShaderCheck func(desc gpucore.ShaderDesc) error
}

// NewBackend creates a recorder whose default target is width x height.
func NewBackend(width, height uint32) *Backend {
	return &Backend{
		width:  width,
		height: height,
		pool:   NewResourcePool(),
	}
}

// Resize changes the size of the default target.
func (b *Backend) Resize(width, height uint32) {
	b.width = width
	b.height = height
}

// Resources returns the resource pool.
func (b *Backend) Resources() *ResourcePool { return b.pool }

// Commands returns the commands recorded since the last Reset.
func (b *Backend) Commands() []Command { return b.commands }

// CommandsOf returns the recorded commands of the given type.
func (b *Backend) CommandsOf(t CommandType) []Command {
	var out []Command
	for _, c := range b.commands {
		if c.Type() == t {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns the resolved draws recorded since the last Reset.
func (b *Backend) Draws() []DrawRecord { return b.draws }

// Frames returns the number of committed frames.
func (b *Backend) Frames() int { return b.frames }

// Err returns the first protocol violation, if any.
func (b *Backend) Err() error { return b.err }

// Reset drops recorded commands and draws. Resources are kept.
func (b *Backend) Reset() {
	b.commands = b.commands[:0]
	b.draws = b.draws[:0]
	b.err = nil
}

func (b *Backend) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Backend) record(c Command) {
	b.commands = append(b.commands, c)
}

func (b *Backend) requirePass(op string) bool {
	if !b.inPass {
		b.fail(fmt.Errorf("%w: %s", ErrNoPass, op))
		return false
	}
	return true
}

// NewBuffer implements gpucore.Backend.
func (b *Backend) NewBuffer(desc gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc.Size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("recording: invalid buffer size %d", desc.Size)
	}
	id := gpucore.BufferID(b.pool.allocID())
	b.pool.buffers[id] = &bufferEntry{desc: desc, data: make([]byte, desc.Size)}
	return id, nil
}

// UpdateBuffer implements gpucore.Backend.
func (b *Backend) UpdateBuffer(id gpucore.BufferID, data []byte) {
	e, ok := b.pool.buffers[id]
	if !ok {
		b.fail(fmt.Errorf("%w: buffer %d", ErrUnknownResource, id))
		return
	}
	if len(data) > len(e.data) {
		b.fail(fmt.Errorf("%w: %d bytes into %d byte buffer %d", ErrBufferOverflow, len(data), len(e.data), id))
		return
	}
	copy(e.data, data)
	b.record(UpdateBufferCommand{Buffer: id, Size: len(data)})
}

// DeleteBuffer implements gpucore.Backend.
func (b *Backend) DeleteBuffer(id gpucore.BufferID) {
	if _, ok := b.pool.buffers[id]; !ok {
		b.fail(fmt.Errorf("%w: delete buffer %d", ErrUnknownResource, id))
		return
	}
	delete(b.pool.buffers, id)
}

// NewTexture implements gpucore.Backend.
func (b *Backend) NewTexture(desc gpucore.TextureDesc, pixels []byte) (gpucore.TextureID, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return gpucore.InvalidID, fmt.Errorf("recording: invalid texture size %dx%d", desc.Width, desc.Height)
	}
	size := int(desc.Width) * int(desc.Height) * desc.Format.BytesPerPixel()
	data := make([]byte, size)
	copy(data, pixels)
	id := gpucore.TextureID(b.pool.allocID())
	b.pool.textures[id] = &textureEntry{desc: desc, pixels: data}
	return id, nil
}

// UpdateTexture implements gpucore.Backend.
func (b *Backend) UpdateTexture(id gpucore.TextureID, pixels []byte) {
	e, ok := b.pool.textures[id]
	if !ok {
		b.fail(fmt.Errorf("%w: texture %d", ErrUnknownResource, id))
		return
	}
	copy(e.pixels, pixels)
}

// TextureSize implements gpucore.Backend.
func (b *Backend) TextureSize(id gpucore.TextureID) (width, height uint32) {
	e, ok := b.pool.textures[id]
	if !ok {
		return 0, 0
	}
	return e.desc.Width, e.desc.Height
}

// DeleteTexture implements gpucore.Backend.
func (b *Backend) DeleteTexture(id gpucore.TextureID) {
	if _, ok := b.pool.textures[id]; !ok {
		b.fail(fmt.Errorf("%w: delete texture %d", ErrUnknownResource, id))
		return
	}
	delete(b.pool.textures, id)
}

// NewRenderTarget implements gpucore.Backend.
func (b *Backend) NewRenderTarget(width, height uint32) (gpucore.RenderTargetID, error) {
	color, err := b.NewTexture(gpucore.TextureDesc{
		Label:  "render_target",
		Width:  width,
		Height: height,
		Format: gpucore.TextureFormatRGBA8,
	}, nil)
	if err != nil {
		return gpucore.InvalidID, err
	}
	id := gpucore.RenderTargetID(b.pool.allocID())
	b.pool.targets[id] = &targetEntry{width: width, height: height, color: color}
	return id, nil
}

// RenderTargetTexture implements gpucore.Backend.
func (b *Backend) RenderTargetTexture(id gpucore.RenderTargetID) gpucore.TextureID {
	e, ok := b.pool.targets[id]
	if !ok {
		return gpucore.InvalidID
	}
	return e.color
}

// DeleteRenderTarget implements gpucore.Backend.
func (b *Backend) DeleteRenderTarget(id gpucore.RenderTargetID) {
	e, ok := b.pool.targets[id]
	if !ok {
		b.fail(fmt.Errorf("%w: delete render target %d", ErrUnknownResource, id))
		return
	}
	delete(b.pool.textures, e.color)
	delete(b.pool.targets, id)
}

// NewShader implements gpucore.Backend.
func (b *Backend) NewShader(desc gpucore.ShaderDesc) (gpucore.ShaderID, error) {
	if b.ShaderCheck != nil {
		if err := b.ShaderCheck(desc); err != nil {
			return gpucore.InvalidID, err
		}
	}
	id := gpucore.ShaderID(b.pool.allocID())
	b.pool.shaders[id] = desc
	return id, nil
}

// DeleteShader implements gpucore.Backend.
func (b *Backend) DeleteShader(id gpucore.ShaderID) {
	if _, ok := b.pool.shaders[id]; !ok {
		b.fail(fmt.Errorf("%w: delete shader %d", ErrUnknownResource, id))
		return
	}
	delete(b.pool.shaders, id)
}

// NewPipeline implements gpucore.Backend.
func (b *Backend) NewPipeline(desc gpucore.PipelineDesc) (gpucore.PipelineID, error) {
	if _, ok := b.pool.shaders[desc.Shader]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: shader %d", ErrUnknownResource, desc.Shader)
	}
	id := gpucore.PipelineID(b.pool.allocID())
	b.pool.pipelines[id] = desc
	return id, nil
}

// DeletePipeline implements gpucore.Backend.
func (b *Backend) DeletePipeline(id gpucore.PipelineID) {
	if _, ok := b.pool.pipelines[id]; !ok {
		b.fail(fmt.Errorf("%w: delete pipeline %d", ErrUnknownResource, id))
		return
	}
	delete(b.pool.pipelines, id)
}

// ScreenSize implements gpucore.Backend.
func (b *Backend) ScreenSize() (width, height uint32) {
	return b.width, b.height
}

// BeginDefaultPass implements gpucore.Backend.
func (b *Backend) BeginDefaultPass(action gpucore.PassAction) {
	b.beginPass(gpucore.InvalidID, action)
}

// BeginPass implements gpucore.Backend.
func (b *Backend) BeginPass(target gpucore.RenderTargetID, action gpucore.PassAction) {
	if _, ok := b.pool.targets[target]; !ok {
		b.fail(fmt.Errorf("%w: render target %d", ErrUnknownResource, target))
	}
	b.beginPass(target, action)
}

func (b *Backend) beginPass(target gpucore.RenderTargetID, action gpucore.PassAction) {
	if b.inPass {
		b.fail(ErrNestedPass)
	}
	b.inPass = true
	b.target = target
	b.pipeline = gpucore.InvalidID
	b.bindings = gpucore.Bindings{}
	b.uniforms = nil

	w, h := b.targetSize(target)
	full := Rect{Width: int32(w), Height: int32(h)} //nolint:gosec // target sizes fit int32
	b.viewport = full
	b.scissor = full
	b.record(BeginPassCommand{Target: target, Action: action})
}

func (b *Backend) targetSize(target gpucore.RenderTargetID) (uint32, uint32) {
	if e, ok := b.pool.targets[target]; ok {
		return e.width, e.height
	}
	return b.width, b.height
}

// EndRenderPass implements gpucore.Backend.
func (b *Backend) EndRenderPass() {
	if !b.requirePass("EndRenderPass") {
		return
	}
	b.inPass = false
	b.record(EndPassCommand{})
}

// ApplyPipeline implements gpucore.Backend.
func (b *Backend) ApplyPipeline(id gpucore.PipelineID) {
	if !b.requirePass("ApplyPipeline") {
		return
	}
	if _, ok := b.pool.pipelines[id]; !ok {
		b.fail(fmt.Errorf("%w: pipeline %d", ErrUnknownResource, id))
	}
	b.pipeline = id
	b.record(ApplyPipelineCommand{Pipeline: id})
}

// ApplyViewport implements gpucore.Backend.
func (b *Backend) ApplyViewport(x, y, width, height int32) {
	if !b.requirePass("ApplyViewport") {
		return
	}
	b.viewport = Rect{X: x, Y: y, Width: width, Height: height}
	b.record(ApplyViewportCommand{Rect: b.viewport})
}

// ApplyScissorRect implements gpucore.Backend.
func (b *Backend) ApplyScissorRect(x, y, width, height int32) {
	if !b.requirePass("ApplyScissorRect") {
		return
	}
	b.scissor = Rect{X: x, Y: y, Width: width, Height: height}
	b.record(ApplyScissorCommand{Rect: b.scissor})
}

// ApplyBindings implements gpucore.Backend.
func (b *Backend) ApplyBindings(bindings *gpucore.Bindings) {
	if !b.requirePass("ApplyBindings") {
		return
	}
	for _, id := range []gpucore.BufferID{bindings.VertexBuffer, bindings.IndexBuffer} {
		if _, ok := b.pool.buffers[id]; !ok {
			b.fail(fmt.Errorf("%w: bound buffer %d", ErrUnknownResource, id))
		}
	}
	for _, id := range bindings.Images {
		if _, ok := b.pool.textures[id]; !ok {
			b.fail(fmt.Errorf("%w: bound texture %d", ErrUnknownResource, id))
		}
	}
	b.bindings = gpucore.Bindings{
		VertexBuffer: bindings.VertexBuffer,
		IndexBuffer:  bindings.IndexBuffer,
		Images:       append([]gpucore.TextureID(nil), bindings.Images...),
	}
	b.record(ApplyBindingsCommand{Bindings: b.bindings})
}

// ApplyUniforms implements gpucore.Backend.
func (b *Backend) ApplyUniforms(data []byte) {
	if !b.requirePass("ApplyUniforms") {
		return
	}
	b.uniforms = append([]byte(nil), data...)
	b.record(ApplyUniformsCommand{Data: b.uniforms})
}

// Draw implements gpucore.Backend.
func (b *Backend) Draw(baseElement, numElements, numInstances int) {
	if !b.requirePass("Draw") {
		return
	}
	b.record(DrawCommand{BaseElement: baseElement, NumElements: numElements, Instances: numInstances})
	b.draws = append(b.draws, b.resolveDraw(baseElement, numElements))
}

// resolveDraw snapshots the bound state and the referenced geometry.
func (b *Backend) resolveDraw(base, count int) DrawRecord {
	rec := DrawRecord{
		Frame:        b.frames,
		Target:       b.target,
		Pipeline:     b.pipeline,
		Viewport:     b.viewport,
		Scissor:      b.scissor,
		VertexBuffer: b.bindings.VertexBuffer,
		IndexBuffer:  b.bindings.IndexBuffer,
		Images:       b.bindings.Images,
		Uniforms:     b.uniforms,
		Count:        count,
	}

	idx := b.pool.BufferData(b.bindings.IndexBuffer)
	if (base+count)*2 > len(idx) {
		b.fail(fmt.Errorf("%w: draw of %d indices past index buffer end", ErrBufferOverflow, count))
		return rec
	}
	rec.Indices = make([]uint16, count)
	maxIndex := -1
	for i := range rec.Indices {
		v := binary.LittleEndian.Uint16(idx[(base+i)*2:])
		rec.Indices[i] = v
		maxIndex = max(maxIndex, int(v))
	}

	stride := 0
	if p, ok := b.pool.pipelines[b.pipeline]; ok {
		stride = p.Stride
	}
	vtx := b.pool.BufferData(b.bindings.VertexBuffer)
	if n := (maxIndex + 1) * stride; n > 0 && n <= len(vtx) {
		rec.Vertices = append([]byte(nil), vtx[:n]...)
	}
	return rec
}

// CommitFrame implements gpucore.Backend.
func (b *Backend) CommitFrame() {
	if b.inPass {
		b.fail(fmt.Errorf("%w: commit with open pass", ErrNestedPass))
	}
	b.frames++
	b.record(CommitCommand{})
}

// ElapsedTime implements gpucore.Backend.
func (b *Backend) ElapsedTime() time.Duration {
	return b.Elapsed
}

// Ensure Backend implements gpucore.Backend.
var _ gpucore.Backend = (*Backend)(nil)
