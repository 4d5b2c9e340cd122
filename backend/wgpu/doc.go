// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements gpucore on top of the gogpu/wgpu HAL.
//
// # Architecture Overview
//
//	cellgrid.Simulation -> gpucore.GPUAdapter -> HALAdapter -> hal.Device / hal.Queue
//
// Key components:
//
//   - HALAdapter: maps gpucore IDs to HAL resources and records one
//     command encoder per frame
//   - HALBackend: enumerates adapters and opens a standalone device
//     ("vulkan" or "noop")
//   - OffscreenSurface: a texture render target for headless runs
//   - ViewSurface: renders into a view handed over by a window host
//
// # Registration and Selection
//
// Both backends are registered when this package is imported:
//
//	import _ "github.com/gogpu/cellgrid/backend/wgpu"
//
//	dev, err := backend.Open("vulkan")
//
// # Shared Devices
//
// Inside a gogpu window the device belongs to the host. FromProvider wraps
// gogpu's device provider, whose Device() exposes HalDevice() and HalQueue():
//
//	gpu, err := wgpu.FromProvider(app.GPUContextProvider())
//
// # Submission
//
// Submit ends the frame encoder and queues the command buffer without
// waiting. Each Submit polls the queue's completed submission index and
// frees the command buffers it covers; WaitIdle frees the rest. A storage
// barrier separates the compute pass from the render pass that reads its
// output.
package wgpu
