// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import "github.com/gogpu/cellgrid/backend"

func init() {
	backend.Register(backend.BackendVulkan, func() backend.GPUBackend {
		return NewVulkanBackend()
	})
	backend.Register(backend.BackendNoop, func() backend.GPUBackend {
		return NewNoopBackend()
	})
}
