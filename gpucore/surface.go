// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// Surface is a presentable image source bound to a GPUAdapter.
//
// A frame acquires one image with AcquireTexture, renders into it through
// the adapter, submits, then calls Present. Acquire may block when the
// presentation queue is full.
type Surface interface {
	// DefaultConfig returns the preferred configuration for the given size.
	DefaultConfig(width, height uint32) (SurfaceConfig, error)

	// Configure (re)configures the surface against the device.
	Configure(cfg SurfaceConfig) error

	// AcquireTexture returns a view of the next presentable image.
	AcquireTexture() (TextureViewID, error)

	// Present queues the acquired image for display.
	Present() error

	// Release frees the surface's backend resources.
	Release()
}
