// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/backend"
	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestBackendsRegistered(t *testing.T) {
	for _, name := range []string{backend.BackendVulkan, backend.BackendNoop} {
		if !backend.IsRegistered(name) {
			t.Errorf("backend %q not registered", name)
		}
	}
	if b := backend.Get(backend.BackendNoop); b == nil || b.Name() != backend.BackendNoop {
		t.Errorf("Get(noop) = %v", b)
	}
}

func TestNoopBackendAdapters(t *testing.T) {
	infos, err := NewNoopBackend().Adapters()
	if err != nil {
		t.Fatalf("Adapters: %v", err)
	}
	if len(infos) == 0 {
		t.Fatal("noop backend reports no adapters")
	}
	for _, info := range infos {
		if info.Backend != backend.BackendNoop {
			t.Errorf("Backend = %q, want noop", info.Backend)
		}
	}
}

func TestSelectAdapter(t *testing.T) {
	if selectAdapter(nil) != nil {
		t.Error("selectAdapter(nil) must return nil")
	}

	instance, err := noopInstance()
	if err != nil {
		t.Fatalf("noopInstance: %v", err)
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	got := selectAdapter(adapters)
	if got == nil {
		t.Fatal("selectAdapter returned nil for a non-empty list")
	}
	if got != &adapters[0] && got.Info.DeviceType != gputypes.DeviceTypeDiscreteGPU &&
		got.Info.DeviceType != gputypes.DeviceTypeIntegratedGPU {
		t.Errorf("selectAdapter picked %q (%v)", got.Info.Name, got.Info.DeviceType)
	}
}

func TestBackendOpenFailure(t *testing.T) {
	b := &HALBackend{name: "broken", newInstance: func() (hal.Instance, error) {
		return nil, errors.New("no driver")
	}}
	if _, err := b.Open(); !errors.Is(err, cellgrid.ErrNoAdapter) {
		t.Errorf("Open error = %v, want ErrNoAdapter", err)
	}
	if _, err := b.Adapters(); err == nil {
		t.Error("Adapters: expected error")
	}
}

func openNoopDevice(t *testing.T) *Device {
	t.Helper()
	dev, err := NewNoopBackend().Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return dev.(*Device)
}

func TestDeviceLifecycle(t *testing.T) {
	dev := openNoopDevice(t)

	if dev.Info().Backend != backend.BackendNoop {
		t.Errorf("Info().Backend = %q", dev.Info().Backend)
	}
	if dev.GPU() == nil || dev.Adapter() == nil {
		t.Fatal("device has no adapter")
	}
	if _, err := dev.NewSurface(0, 10); err == nil {
		t.Error("NewSurface(0, 10): expected error")
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

// TestHeadlessFrames runs the whole pipeline on the noop device: context,
// simulation, and several paced frames through an offscreen surface.
func TestHeadlessFrames(t *testing.T) {
	dev := openNoopDevice(t)

	surface, err := dev.NewSurface(64, 64)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	ctx, err := cellgrid.NewContext(dev.GPU(), surface, 64, 64, cellgrid.WithOwnedDevice(dev))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	defer func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("Context.Close: %v", err)
		}
	}()

	sim, err := cellgrid.NewSimulation(ctx, cellgrid.DefaultConfig().WithGridSize(16).WithDispatchZ(1))
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	loop := cellgrid.NewFrameLoop(sim, cellgrid.WithStepInterval(0))
	for i := 0; i < 4; i++ {
		if action := loop.Handle(cellgrid.RedrawEvent()); action != cellgrid.ActionContinue {
			t.Fatalf("frame %d: action = %v, err = %v", i, action, loop.Err())
		}
	}
	if loop.Steps() != 4 {
		t.Errorf("Steps() = %d, want 4", loop.Steps())
	}
	if loop.Parity() != cellgrid.Parity(0) {
		t.Errorf("Parity() = %d after an even number of steps", loop.Parity())
	}
	if got := surface.(*OffscreenSurface).Frames(); got != 4 {
		t.Errorf("presented %d frames, want 4", got)
	}

	if loop.Handle(cellgrid.ResizeEvent(128, 96)) != cellgrid.ActionContinue {
		t.Fatalf("resize failed: %v", loop.Err())
	}
	if cfg := ctx.SurfaceConfig(); cfg.Width != 128 || cfg.Height != 96 {
		t.Errorf("config after resize = %dx%d", cfg.Width, cfg.Height)
	}
	if loop.Handle(cellgrid.KeyEvent(cellgrid.KeyEscape)) != cellgrid.ActionExit {
		t.Error("escape did not stop the loop")
	}

	if err := sim.Close(); err != nil {
		t.Errorf("Simulation.Close: %v", err)
	}
}

func TestOffscreenSurface(t *testing.T) {
	a := newTestAdapter(t)
	s := NewOffscreenSurface(a, gpucore.TextureFormatBGRA8UnormSRGB)
	defer s.Release()

	if _, err := s.AcquireTexture(); err == nil {
		t.Error("AcquireTexture before Configure: expected error")
	}
	if err := s.Present(); err == nil {
		t.Error("Present without acquire: expected error")
	}

	cfg, err := s.DefaultConfig(32, 16)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != gpucore.TextureFormatBGRA8UnormSRGB || cfg.Width != 32 || cfg.Height != 16 {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	first, err := s.AcquireTexture()
	if err != nil {
		t.Fatalf("AcquireTexture: %v", err)
	}
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	cfg.Width, cfg.Height = 64, 64
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	second, _ := s.AcquireTexture()
	if second == first {
		t.Error("reconfigure must replace the render target view")
	}
	if s.Config().Width != 64 {
		t.Errorf("Config().Width = %d", s.Config().Width)
	}

	bad := cfg
	bad.Width = 0
	if err := s.Configure(bad); err == nil {
		t.Error("Configure with zero width: expected error")
	}
	if s.Config().Width != 64 {
		t.Error("failed Configure changed the configuration")
	}
}

func TestViewSurface(t *testing.T) {
	a := newTestAdapter(t)
	s := NewViewSurface(a, gpucore.TextureFormatBGRA8UnormSRGB)
	defer s.Release()

	if _, err := s.AcquireTexture(); !errors.Is(err, ErrNoSurfaceView) {
		t.Errorf("AcquireTexture without view error = %v, want ErrNoSurfaceView", err)
	}

	cfg, _ := s.DefaultConfig(8, 8)
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	cfg.Format = gpucore.TextureFormatRGBA8Unorm
	if err := s.Configure(cfg); err == nil {
		t.Error("Configure with a different format: expected error")
	}

	host := NewOffscreenSurface(a, gpucore.TextureFormatBGRA8UnormSRGB)
	defer host.Release()
	hostCfg, _ := host.DefaultConfig(8, 8)
	if err := host.Configure(hostCfg); err != nil {
		t.Fatalf("host Configure: %v", err)
	}

	s.SetView(host.view)
	id, err := s.AcquireTexture()
	if err != nil || id == gpucore.InvalidID {
		t.Fatalf("AcquireTexture = %d, %v", id, err)
	}
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if _, err := s.AcquireTexture(); !errors.Is(err, ErrNoSurfaceView) {
		t.Error("view must be dropped after Present")
	}
}

func TestOffscreenSurfaceReconfigureWaitsForGPU(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	dev := &idleDevice{Device: device}
	a := NewHALAdapter(dev, slowQueue{Queue: queue}, nil)
	defer a.Release()

	s := NewOffscreenSurface(a, gpucore.TextureFormatRGBA8UnormSRGB)
	defer s.Release()
	cfg, _ := s.DefaultConfig(8, 8)
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	id, _ := s.AcquireTexture()
	a.BeginRenderPass(&gpucore.RenderPassDesc{Label: "frame", ColorView: id}).End()
	if err := a.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if n := a.InFlight(); n != 1 {
		t.Fatalf("InFlight = %d, want 1 before reconfigure", n)
	}

	dev.err = errInjectedIdle
	cfg.Width = 16
	if err := s.Configure(cfg); !errors.Is(err, errInjectedIdle) {
		t.Errorf("Configure error = %v, want the WaitIdle failure", err)
	}
	if s.Config().Width != 8 {
		t.Error("failed reconfigure replaced the render target")
	}

	dev.err = nil
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("reconfigure: %v", err)
	}
	if dev.waits == 0 || a.InFlight() != 0 {
		t.Errorf("waits=%d inflight=%d, want the old target idle before destroy", dev.waits, a.InFlight())
	}
}

var errInjectedIdle = errors.New("device lost")

// idleDevice counts WaitIdle calls and can fail them.
type idleDevice struct {
	hal.Device
	waits int
	err   error
}

func (d *idleDevice) WaitIdle() error {
	d.waits++
	if d.err != nil {
		return d.err
	}
	return d.Device.WaitIdle()
}

// slowQueue never reports a submission complete, as a busy GPU would.
type slowQueue struct {
	hal.Queue
}

func (slowQueue) PollCompleted() uint64 { return 0 }
