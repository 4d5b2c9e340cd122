// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gogpuapp

import (
	"errors"
	"fmt"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/backend/wgpu"
	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	corewgpu "github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
)

// gogpu hands each frame a *corewgpu.TextureView; the host renders into its
// HAL view.
var _ interface{ HalTextureView() hal.TextureView } = (*corewgpu.TextureView)(nil)

// windowFormats are the swapchain formats the host renders into. gogpu
// picks the swapchain format, so the unorm variants are accepted as well.
var windowFormats = []gpucore.TextureFormat{
	gpucore.TextureFormatRGBA8UnormSRGB,
	gpucore.TextureFormatBGRA8UnormSRGB,
	gpucore.TextureFormatRGBA8Unorm,
	gpucore.TextureFormatBGRA8Unorm,
}

// Host drives a FrameLoop from gogpu window callbacks. It is used from the
// gogpu main thread only.
type Host struct {
	cfg      cellgrid.Config
	loopOpts []cellgrid.LoopOption
	app      *gogpu.App
	quit     func()

	gpu     *wgpu.HALAdapter
	surface *wgpu.ViewSurface
	ctx     *cellgrid.Context
	sim     *cellgrid.Simulation
	loop    *cellgrid.FrameLoop

	width, height uint32
	done          bool
	err           error
}

// New creates a host for cfg. Loop options are passed to the frame loop;
// the host always adds WithStepInterval(cfg.StepInterval) and
// WithRedrawOnSkip.
func New(cfg cellgrid.Config, opts ...cellgrid.LoopOption) *Host {
	h := &Host{cfg: cfg, loopOpts: opts}
	h.app = gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Title).
		WithSize(int(cfg.Width), int(cfg.Height)))
	h.quit = h.app.Quit

	h.app.OnDraw(h.draw)
	h.app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		h.dispatch(cellgrid.KeyEvent(mapKey(key)))
	})
	h.app.OnClose(func() {
		h.dispatch(cellgrid.CloseEvent())
		h.shutdown()
	})
	return h
}

// Run opens the window and blocks until it closes. It returns the error that
// stopped the loop, if any.
func (h *Host) Run() error {
	if err := h.cfg.Validate(); err != nil {
		return err
	}
	runErr := h.app.Run()
	h.shutdown()
	return errors.Join(runErr, h.err)
}

func (h *Host) draw(dc *gogpu.Context) {
	if h.done {
		return
	}
	w, ht := dc.Width(), dc.Height()
	if w <= 0 || ht <= 0 {
		return
	}

	if h.loop == nil {
		ready, err := h.init(uint32(w), uint32(ht))
		if err != nil {
			h.fail(err)
			return
		}
		if !ready {
			return
		}
	}

	var view hal.TextureView
	if sv := dc.SurfaceView(); sv != nil {
		view = sv.HalTextureView()
	}
	sw, sh := dc.SurfaceSize()
	h.frame(view, sw, sh)
}

// frame renders one window frame into view. A nil view is still dispatched
// so the loop fails on acquire instead of stalling.
func (h *Host) frame(view hal.TextureView, width, height uint32) {
	if h.loop == nil || h.done {
		return
	}
	if width != h.width || height != h.height {
		h.width, h.height = width, height
		h.dispatch(cellgrid.ResizeEvent(width, height))
		if h.done {
			return
		}
	}

	h.surface.SetView(view)
	h.dispatch(cellgrid.RedrawEvent())
}

// init builds the context, simulation and loop on the window's device. It
// reports false while gogpu has no device yet.
func (h *Host) init(width, height uint32) (bool, error) {
	provider := h.app.GPUContextProvider()
	if provider == nil {
		return false, nil
	}

	gpu, err := wgpu.FromProvider(provider)
	if err != nil {
		return false, fmt.Errorf("%w: %w", cellgrid.ErrNoAdapter, err)
	}
	format := wgpu.TextureFormatFromHAL(provider.SurfaceFormat())
	if err := h.start(gpu, format, width, height); err != nil {
		return false, err
	}
	return true, nil
}

// start builds the context, simulation and loop on gpu. The host takes
// ownership of gpu even on failure.
func (h *Host) start(gpu *wgpu.HALAdapter, format gpucore.TextureFormat, width, height uint32) error {
	h.gpu = gpu
	if !format.IsSRGB() {
		cellgrid.Logger().Warn("gogpuapp: window surface is not sRGB; colors are written unconverted",
			"format", format.String())
	}

	surface := wgpu.NewViewSurface(gpu, format)
	ctx, err := cellgrid.NewContext(gpu, surface, width, height,
		cellgrid.WithAcceptedFormats(windowFormats...),
		cellgrid.WithPresentMode(h.cfg.PresentMode))
	if err != nil {
		return err
	}
	sim, err := cellgrid.NewSimulation(ctx, h.cfg)
	if err != nil {
		_ = ctx.Close()
		return err
	}

	opts := append([]cellgrid.LoopOption{
		cellgrid.WithStepInterval(h.cfg.StepInterval),
		cellgrid.WithRedrawOnSkip(),
	}, h.loopOpts...)

	h.surface, h.ctx, h.sim = surface, ctx, sim
	h.loop = cellgrid.NewFrameLoop(sim, opts...)
	h.width, h.height = width, height
	return nil
}

// dispatch hands ev to the loop and quits the app once the loop exits.
func (h *Host) dispatch(ev cellgrid.Event) {
	if h.loop == nil || h.done {
		return
	}
	if h.loop.Handle(ev) == cellgrid.ActionExit {
		h.done = true
		h.err = h.loop.Err()
		h.quit()
	}
}

func (h *Host) fail(err error) {
	cellgrid.Logger().Warn("gogpuapp: initialization failed", "err", err)
	h.done = true
	h.err = err
	h.quit()
}

// shutdown releases the simulation while the shared device is still alive.
func (h *Host) shutdown() {
	h.done = true
	if h.sim != nil {
		if err := h.sim.Close(); err != nil && !errors.Is(err, cellgrid.ErrClosed) {
			cellgrid.Logger().Warn("gogpuapp: close simulation", "err", err)
		}
		h.sim = nil
	}
	if h.ctx != nil {
		_ = h.ctx.Close()
		h.ctx = nil
	}
	if h.gpu != nil {
		if err := h.gpu.Release(); err != nil {
			cellgrid.Logger().Warn("gogpuapp: release adapter", "err", err)
		}
		h.gpu = nil
	}
}
