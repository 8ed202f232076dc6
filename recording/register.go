// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import "github.com/gogpu/quad/gpucore"

// Name is the registry name of the recorder.
const Name = "recording"

func init() {
	gpucore.Register(Name, func(width, height uint32) (gpucore.Backend, error) {
		return NewBackend(width, height), nil
	})
}
