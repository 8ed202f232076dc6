// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import "github.com/gogpu/quad/gpucore"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// Pass commands
	CmdBeginPass CommandType = iota // Begin a render pass
	CmdEndPass                      // End the current render pass
	CmdCommit                       // Commit the frame

	// State commands
	CmdApplyPipeline // Bind a pipeline
	CmdApplyViewport // Set the viewport
	CmdApplyScissor  // Set the scissor rectangle

	// Resource commands
	CmdApplyBindings // Bind buffers and images
	CmdApplyUniforms // Upload the uniform block
	CmdUpdateBuffer  // Rewrite a buffer

	// Draw commands
	CmdDraw // Indexed draw
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdBeginPass:     "BeginPass",
	CmdEndPass:       "EndPass",
	CmdCommit:        "Commit",
	CmdApplyPipeline: "ApplyPipeline",
	CmdApplyViewport: "ApplyViewport",
	CmdApplyScissor:  "ApplyScissor",
	CmdApplyBindings: "ApplyBindings",
	CmdApplyUniforms: "ApplyUniforms",
	CmdUpdateBuffer:  "UpdateBuffer",
	CmdDraw:          "Draw",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// Rect is a rectangle in backend coordinates (bottom-left origin).
type Rect struct {
	X, Y, Width, Height int32
}

// BeginPassCommand begins a pass. Target is zero for the default pass.
type BeginPassCommand struct {
	Target gpucore.RenderTargetID
	Action gpucore.PassAction
}

// Type implements Command.
func (BeginPassCommand) Type() CommandType { return CmdBeginPass }

// EndPassCommand ends the current pass.
type EndPassCommand struct{}

// Type implements Command.
func (EndPassCommand) Type() CommandType { return CmdEndPass }

// CommitCommand marks the end of a frame.
type CommitCommand struct{}

// Type implements Command.
func (CommitCommand) Type() CommandType { return CmdCommit }

// ApplyPipelineCommand binds a pipeline.
type ApplyPipelineCommand struct {
	Pipeline gpucore.PipelineID
}

// Type implements Command.
func (ApplyPipelineCommand) Type() CommandType { return CmdApplyPipeline }

// ApplyViewportCommand sets the viewport.
type ApplyViewportCommand struct {
	Rect Rect
}

// Type implements Command.
func (ApplyViewportCommand) Type() CommandType { return CmdApplyViewport }

// ApplyScissorCommand sets the scissor rectangle.
type ApplyScissorCommand struct {
	Rect Rect
}

// Type implements Command.
func (ApplyScissorCommand) Type() CommandType { return CmdApplyScissor }

// ApplyBindingsCommand binds buffers and images.
type ApplyBindingsCommand struct {
	Bindings gpucore.Bindings
}

// Type implements Command.
func (ApplyBindingsCommand) Type() CommandType { return CmdApplyBindings }

// ApplyUniformsCommand uploads a uniform block. Data is a private copy.
type ApplyUniformsCommand struct {
	Data []byte
}

// Type implements Command.
func (ApplyUniformsCommand) Type() CommandType { return CmdApplyUniforms }

// UpdateBufferCommand rewrites the first Size bytes of a buffer.
type UpdateBufferCommand struct {
	Buffer gpucore.BufferID
	Size   int
}

// Type implements Command.
func (UpdateBufferCommand) Type() CommandType { return CmdUpdateBuffer }

// DrawCommand is an indexed draw.
type DrawCommand struct {
	BaseElement int
	NumElements int
	Instances   int
}

// Type implements Command.
func (DrawCommand) Type() CommandType { return CmdDraw }

// DrawRecord is a resolved draw: the state bound at the time of a Draw
// command together with copies of the data it referenced.
type DrawRecord struct {
	// Frame is the number of CommitFrame calls before this draw.
	Frame int

	Target   gpucore.RenderTargetID
	Pipeline gpucore.PipelineID
	Viewport Rect
	Scissor  Rect

	VertexBuffer gpucore.BufferID
	IndexBuffer  gpucore.BufferID
	Images       []gpucore.TextureID

	// Uniforms is the last uniform block uploaded before the draw.
	Uniforms []byte

	// Indices holds the drawn index range.
	Indices []uint16

	// Vertices holds the vertex buffer bytes up to the highest referenced
	// vertex (inclusive).
	Vertices []byte

	// Count is the number of indices drawn.
	Count int
}
