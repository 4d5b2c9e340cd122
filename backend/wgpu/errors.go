// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import "errors"

// Backend errors.
var (
	// ErrBackendUnavailable is returned when the HAL backend is not compiled in.
	ErrBackendUnavailable = errors.New("wgpu: HAL backend not available")

	// ErrNotHALProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNotHALProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrNoSurfaceView is returned by ViewSurface.AcquireTexture when the
	// host has not supplied a view for the current frame.
	ErrNoSurfaceView = errors.New("wgpu: no surface view for this frame")
)
