// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpucore provides the GPU abstractions the cellgrid simulation is
// written against.
//
// This package defines the [GPUAdapter] and [Surface] interfaces, which
// abstract over backend implementations, allowing the same simulation to run
// with:
//   - gogpu/wgpu HAL devices opened standalone (Vulkan, noop)
//   - the device owned by a gogpu window
//
// # Architecture
//
// Shared core + thin adapters. The simulate-then-render pipeline lives in the
// root cellgrid package, while adapters translate between [GPUAdapter] and
// the backend API.
//
//	               +-----------------+
//	               |    cellgrid     |
//	               |   (FrameLoop)   |
//	               +--------+--------+
//	                        |
//	               +--------v--------+
//	               |     gpucore     |
//	               +--------+--------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|  backend/wgpu   |          | gogpuapp window |
//	|  (hal.Device)   |          | (shared device) |
//	+-----------------+          +-----------------+
//
// # Resource Management
//
// GPU resources are managed via opaque IDs ([BufferID], [BindGroupID], etc.).
// Adapters are responsible for tracking the mapping between IDs and actual
// GPU resources. [InvalidID] is never handed out.
//
// # Command Recording
//
// Passes are recorded on an implicit pending command stream. A frame begins a
// compute pass and a render pass, then calls [GPUAdapter.Submit] once so both
// passes reach the queue as a single command buffer.
package gpucore
