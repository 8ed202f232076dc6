// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"testing"

	"github.com/gogpu/quad/gpucore"
)

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{BeginPassCommand{}, "BeginPass"},
		{EndPassCommand{}, "EndPass"},
		{CommitCommand{}, "Commit"},
		{ApplyPipelineCommand{}, "ApplyPipeline"},
		{ApplyViewportCommand{}, "ApplyViewport"},
		{ApplyScissorCommand{}, "ApplyScissor"},
		{ApplyBindingsCommand{}, "ApplyBindings"},
		{ApplyUniformsCommand{}, "ApplyUniforms"},
		{UpdateBufferCommand{}, "UpdateBuffer"},
		{DrawCommand{}, "Draw"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.cmd.Type().String(); got != tt.want {
				t.Errorf("Type().String() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := CommandType(200).String(); got != "Unknown" {
		t.Errorf("CommandType(200).String() = %q, want Unknown", got)
	}
}

func TestCommandsOf(t *testing.T) {
	b := NewBackend(8, 8)
	b.BeginDefaultPass(gpucore.LoadAction())
	b.ApplyViewport(0, 0, 4, 4)
	b.ApplyViewport(4, 4, 4, 4)
	b.EndRenderPass()

	vps := b.CommandsOf(CmdApplyViewport)
	if len(vps) != 2 {
		t.Fatalf("len(CommandsOf(ApplyViewport)) = %d, want 2", len(vps))
	}
	if r := vps[1].(ApplyViewportCommand).Rect; r != (Rect{X: 4, Y: 4, Width: 4, Height: 4}) {
		t.Errorf("second viewport = %+v", r)
	}
}
