// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import "errors"

// Initialization errors. Any of these aborts startup; no partially built
// Context or Simulation is returned alongside them.
var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("cellgrid: invalid config")

	// ErrNoAdapter is returned when no compatible GPU adapter is available.
	ErrNoAdapter = errors.New("cellgrid: no compatible GPU adapter")

	// ErrDeviceRequest is returned when the adapter rejects the device request.
	ErrDeviceRequest = errors.New("cellgrid: device request rejected")

	// ErrComputeUnsupported is returned when the device cannot run compute shaders.
	ErrComputeUnsupported = errors.New("cellgrid: compute shaders not supported")

	// ErrSurfaceFormat is returned when the surface's preferred format is not
	// an accepted 8-bit sRGB-compatible format.
	ErrSurfaceFormat = errors.New("cellgrid: unsupported surface format")

	// ErrSurfaceConfigure is returned when the surface rejects a configuration.
	ErrSurfaceConfigure = errors.New("cellgrid: surface configuration failed")

	// ErrBufferTooLarge is returned when a generation buffer exceeds the
	// device's maximum buffer size.
	ErrBufferTooLarge = errors.New("cellgrid: generation buffer exceeds device limit")

	// ErrWorkgroupSize is returned when the compute workgroup exceeds the
	// device's maximum workgroup size.
	ErrWorkgroupSize = errors.New("cellgrid: workgroup size exceeds device limit")
)

// Frame loop errors.
var (
	// ErrSurfaceAcquire is returned when the next presentable image cannot
	// be acquired. The frame loop terminates.
	ErrSurfaceAcquire = errors.New("cellgrid: failed to acquire surface image")

	// ErrSubmit is returned when the frame's command buffer cannot be submitted.
	ErrSubmit = errors.New("cellgrid: command submission failed")

	// ErrClosed is returned when using a Simulation after Close.
	ErrClosed = errors.New("cellgrid: simulation closed")
)
