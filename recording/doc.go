// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package recording provides a [gpucore.Backend] that records the command
// stream instead of executing it.
//
// The recorder keeps every buffer and texture in CPU memory and captures
// passes, pipeline binds, viewport/scissor state, bindings, uniform uploads
// and draws as typed command structs. It serves two purposes:
//   - deterministic tests of the batching rules without a GPU
//   - inspection tooling (dumping what a frame would have drawn)
//
// # Architecture
//
// Commands are stored in order of recording:
//   - Pass commands (BeginPass, EndPass, Commit)
//   - State commands (ApplyPipeline, ApplyViewport, ApplyScissor)
//   - Resource commands (ApplyBindings, ApplyUniforms, UpdateBuffer)
//   - Draw commands (Draw)
//
// In addition to the raw stream, each Draw is resolved into a [DrawRecord]
// holding the state that was bound at the time of the draw and a copy of the
// referenced vertex bytes and indices.
//
// # Example
//
//	rec := recording.NewBackend(800, 600)
//	b, _ := quad.New(rec)
//	b.Submit(vertices, indices)
//	b.Flush(projection)
//
//	for _, d := range rec.Draws() {
//	    fmt.Println(d.Pipeline, d.Count, d.Images)
//	}
//
// # Protocol Checks
//
// The recorder validates the recording order (no draw outside a pass, no
// nested passes, no use of deleted resources). Violations do not panic; the
// first one is kept and reported by [Backend.Err].
package recording
