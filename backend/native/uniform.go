// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// uniformAlignment is the minimum uniform buffer offset alignment
// guaranteed by WebGPU limits.
const uniformAlignment = 256

// uniformRing hands out aligned slices of uniform buffers. Every draw of a
// pass gets its own slice; the ring rewinds after the pass is submitted.
// Chunks are added when a pass outgrows the existing ones and kept for
// later passes.
type uniformRing struct {
	device    hal.Device
	queue     hal.Queue
	chunkSize uint64
	chunks    []hal.Buffer
	chunk     int
	offset    uint64
}

func newUniformRing(device hal.Device, queue hal.Queue, chunkSize uint64) *uniformRing {
	return &uniformRing{device: device, queue: queue, chunkSize: alignUp(chunkSize, uniformAlignment)}
}

// write copies data into the next free slice and returns its location.
// size is the binding size and may exceed len(data).
func (r *uniformRing) write(data []byte, size uint64) (chunk int, offset uint64, err error) {
	if size > r.chunkSize {
		return 0, 0, fmt.Errorf("%w: uniform block of %d bytes exceeds chunk size %d",
			ErrInvalidDescriptor, size, r.chunkSize)
	}
	if r.chunk < len(r.chunks) && r.offset+size > r.chunkSize {
		r.chunk++
		r.offset = 0
	}
	if r.chunk == len(r.chunks) {
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("quad_uniforms_%d", len(r.chunks)),
			Size:  r.chunkSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return 0, 0, fmt.Errorf("create uniform buffer: %w", err)
		}
		r.chunks = append(r.chunks, buf)
	}

	chunk, offset = r.chunk, r.offset
	if len(data) > 0 {
		if len(data)%4 != 0 {
			padded := make([]byte, alignUp(uint64(len(data)), 4))
			copy(padded, data)
			data = padded
		}
		r.queue.WriteBuffer(r.chunks[chunk], offset, data)
	}
	r.offset = alignUp(offset+size, uniformAlignment)
	return chunk, offset, nil
}

func (r *uniformRing) buffer(chunk int) hal.Buffer {
	return r.chunks[chunk]
}

func (r *uniformRing) reset() {
	r.chunk = 0
	r.offset = 0
}

func (r *uniformRing) destroy() {
	for _, buf := range r.chunks {
		r.device.DestroyBuffer(buf)
	}
	r.chunks = nil
	r.reset()
}
