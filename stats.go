// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package quad

import "log/slog"

// FrameStats counts the work of one frame.
type FrameStats struct {
	// Frame is the number of frames ended before this one.
	Frame uint64

	// DrawCalls is the number of backend draws issued.
	DrawCalls int

	// Vertices and Indices are the uploaded geometry.
	Vertices int
	Indices  int

	// Passes counts render passes, clears included.
	Passes int

	// Flushes counts Flush calls.
	Flushes int

	// Clamped counts submissions truncated to the draw call capacity.
	Clamped int
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frame", s.Frame),
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("vertices", s.Vertices),
		slog.Int("indices", s.Indices),
		slog.Int("passes", s.Passes),
		slog.Int("flushes", s.Flushes),
		slog.Int("clamped", s.Clamped),
	)
}
