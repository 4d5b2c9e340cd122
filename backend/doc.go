// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a pluggable GPU device abstraction.
//
// A backend is a graphics API that can list adapters and open a device.
// The opened [Device] exposes its resources through gpucore, so the
// simulation never sees the underlying API.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The HAL backends are registered on import:
//
//	import _ "github.com/gogpu/cellgrid/backend/wgpu"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	dev, err := backend.Open("")       // best available
//	dev, err := backend.Open("noop")   // no GPU required
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
// # Available Backends
//
//   - "vulkan": hardware adapters through gogpu/wgpu HAL
//   - "noop": a device that accepts every command and executes nothing
package backend
