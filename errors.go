// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when every pipeline slot is in use.
	ErrCapacityExceeded = errors.New("quad: pipeline capacity exceeded")

	// ErrStaleHandle is returned when a PipelineID refers to a deleted
	// pipeline or to a slot that has since been reused.
	ErrStaleHandle = errors.New("quad: stale pipeline handle")

	// ErrReservedTextureName is returned when a pipeline declares a texture
	// with the name of the primary texture slot.
	ErrReservedTextureName = errors.New("quad: texture name is reserved")

	// ErrDuplicateTexture is returned when a pipeline declares the same
	// texture name twice.
	ErrDuplicateTexture = errors.New("quad: duplicate texture name")

	// ErrDuplicateUniform is returned when a uniform name is declared twice
	// or collides with a built-in uniform.
	ErrDuplicateUniform = errors.New("quad: duplicate uniform name")

	// ErrInvalidUniform is returned for a uniform declaration with an unknown
	// type or an empty name.
	ErrInvalidUniform = errors.New("quad: invalid uniform declaration")

	// ErrDefaultPipeline is returned when deleting a built-in pipeline.
	ErrDefaultPipeline = errors.New("quad: default pipelines cannot be deleted")

	// ErrPipelineInUse is returned when deleting a pipeline referenced by
	// a draw call that has not been flushed yet.
	ErrPipelineInUse = errors.New("quad: pipeline referenced by pending draw calls")

	// ErrInvalidCapacity is returned for draw call capacities outside
	// [1, MaxVertexCapacity] vertices or below one index.
	ErrInvalidCapacity = errors.New("quad: invalid draw call capacity")

	// ErrShaderCompile is the sentinel matched by every *ShaderError.
	ErrShaderCompile = errors.New("quad: shader compilation failed")

	// ErrNilBackend is returned by New when no backend is given.
	ErrNilBackend = errors.New("quad: nil backend")
)

// ShaderError reports a shader that the backend failed to compile or link.
type ShaderError struct {
	// Label is the debug label of the shader, if any.
	Label string

	// Err is the backend error.
	Err error
}

// Error implements the error interface.
func (e *ShaderError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("quad: shader compilation failed: %v", e.Err)
	}
	return fmt.Sprintf("quad: shader %q compilation failed: %v", e.Label, e.Err)
}

// Unwrap returns the backend error.
func (e *ShaderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrShaderCompile.
func (e *ShaderError) Is(target error) bool { return target == ErrShaderCompile }
