// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gogpuapp runs a cellgrid simulation in a gogpu window.
//
// The window, device and swapchain belong to gogpu. The host wraps the
// shared device with wgpu.FromProvider on the first frame, then forwards
// every draw callback to the frame loop as a redraw event:
//
//	cfg := cellgrid.DefaultConfig().WithGridSize(64)
//	if err := gogpuapp.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// Escape and window close stop the loop. A failed frame stops the loop and
// Run returns its error.
package gogpuapp
