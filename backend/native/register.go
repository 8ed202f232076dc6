// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "github.com/gogpu/quad/gpucore"

// init registers one offscreen factory per device kind. Backends created
// through the registry use DefaultConfig with the requested size.
func init() {
	for _, device := range []string{DeviceNoop, DeviceVulkan} {
		gpucore.Register(device, func(width, height uint32) (gpucore.Backend, error) {
			cfg := DefaultConfig()
			cfg.Width, cfg.Height, cfg.Device = width, height, device
			b, err := NewOffscreen(cfg)
			if err != nil {
				return nil, err
			}
			return b, nil
		})
	}
}
