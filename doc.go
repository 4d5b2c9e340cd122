// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cellgrid runs a cellular automaton entirely on the GPU.
//
// # Overview
//
// Two storage buffers hold consecutive generations of an N×N grid. Every
// step a compute pass reads one generation and writes the other, then a
// render pass draws the generation just written as N·N instanced quads.
// The CPU never touches cell state after seeding.
//
// # Quick Start
//
//	gpu, surface := ... // from backend/wgpu or integration/gogpuapp
//
//	ctx, err := cellgrid.NewContext(gpu, surface, 512, 512)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sim, err := cellgrid.NewSimulation(ctx, cellgrid.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sim.Close()
//
//	loop := cellgrid.NewFrameLoop(sim)
//	for ev := range events {
//	    if loop.Handle(ev) == cellgrid.ActionExit {
//	        break
//	    }
//	}
//
// # Double Buffering
//
// Generation A and generation B are bound through a [BindGroupPair]:
// pair 0 reads A and writes B, pair 1 reads B and writes A. The
// [FrameLoop] keeps a single [Parity] bit. A step records the compute pass
// with pair[parity], flips the bit and records the render pass with the
// flipped pair, so the draw always sees the output of the dispatch
// submitted in the same command buffer.
//
// # Pacing
//
// Redraw events arrive as fast as the host delivers them. A step runs only
// when more than [Config.StepInterval] (500 ms by default) has passed since
// the previous one; other redraws are skipped.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] with an *slog.Logger
// to receive lifecycle messages at Info and per-step messages at Debug.
package cellgrid

// Version information
const (
	// Version is the current version of the module
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
