// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestAdapter(t *testing.T) *HALAdapter {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	limits := gputypes.DefaultLimits()
	a := NewHALAdapter(device, queue, &limits)
	t.Cleanup(func() {
		if err := a.Release(); err != nil {
			t.Errorf("Release: %v", err)
		}
		cleanup()
	})
	return a
}

func TestHALAdapterCapabilities(t *testing.T) {
	a := newTestAdapter(t)

	if !a.SupportsCompute() {
		t.Error("SupportsCompute() = false")
	}
	if a.MaxBufferSize() == 0 {
		t.Error("MaxBufferSize() = 0")
	}
	wg := a.MaxWorkgroupSize()
	if wg[0] < 8 || wg[1] < 8 {
		t.Errorf("MaxWorkgroupSize() = %v, want at least 8x8", wg)
	}
	if a.Device() == nil {
		t.Error("Device() = nil")
	}
}

func TestHALAdapterBuffers(t *testing.T) {
	a := newTestAdapter(t)

	id, err := a.CreateBuffer("cells", 64, gpucore.BufferUsageStorage|gpucore.BufferUsageCopyDst)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if id == gpucore.InvalidID {
		t.Fatal("CreateBuffer returned InvalidID")
	}
	a.WriteBuffer(id, 0, make([]byte, 64))

	// Unknown buffers are ignored.
	a.WriteBuffer(gpucore.BufferID(9999), 0, []byte{1})
	a.DestroyBuffer(gpucore.BufferID(9999))

	if _, err := a.ReadBuffer(gpucore.BufferID(9999), 0, 4); err == nil {
		t.Error("ReadBuffer on unknown buffer: expected error")
	}

	a.DestroyBuffer(id)
	if _, err := a.ReadBuffer(id, 0, 4); err == nil {
		t.Error("ReadBuffer after DestroyBuffer: expected error")
	}
}

func TestHALAdapterZeroSizeBuffer(t *testing.T) {
	a := newTestAdapter(t)
	if _, err := a.CreateBuffer("empty", 0, gpucore.BufferUsageStorage); err == nil {
		t.Error("expected error for zero-size buffer")
	}
}

func TestHALAdapterShaderModule(t *testing.T) {
	a := newTestAdapter(t)

	if _, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{Label: "empty"}); err == nil {
		t.Error("expected error for a module without source")
	}

	id, err := a.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: "compute",
		WGSL:  "@compute @workgroup_size(1) fn main() {}",
	})
	if err != nil {
		t.Fatalf("CreateShaderModule: %v", err)
	}
	a.DestroyShaderModule(id)
}

func TestHALAdapterBindGroupUnknownResources(t *testing.T) {
	a := newTestAdapter(t)

	if _, err := a.CreateBindGroup("bad", gpucore.BindGroupLayoutID(42), nil); err == nil {
		t.Error("expected error for unknown layout")
	}

	layout, err := a.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label: "layout",
		Entries: []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gpucore.ShaderStageCompute, Type: gpucore.BindingTypeUniformBuffer},
		},
	})
	if err != nil {
		t.Fatalf("CreateBindGroupLayout: %v", err)
	}
	_, err = a.CreateBindGroup("bad", layout, []gpucore.BindGroupEntry{
		{Binding: 0, Buffer: gpucore.BufferID(4242)},
	})
	if err == nil {
		t.Error("expected error for unknown buffer")
	}
	if _, err := a.CreatePipelineLayout("bad", []gpucore.BindGroupLayoutID{777}); err == nil {
		t.Error("expected error for unknown bind group layout")
	}
}

func TestHALAdapterViews(t *testing.T) {
	a := newTestAdapter(t)

	s := NewOffscreenSurface(a, gpucore.TextureFormatRGBA8UnormSRGB)
	cfg, _ := s.DefaultConfig(4, 4)
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer s.Release()

	id, err := s.AcquireTexture()
	if err != nil {
		t.Fatalf("AcquireTexture: %v", err)
	}

	pass := a.BeginRenderPass(&gpucore.RenderPassDesc{Label: "clear", ColorView: id, ClearColor: gpucore.Color{A: 1}})
	pass.End()
	if err := a.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := a.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func TestHALAdapterUnknownViewFailsSubmit(t *testing.T) {
	a := newTestAdapter(t)

	pass := a.BeginRenderPass(&gpucore.RenderPassDesc{Label: "missing", ColorView: gpucore.TextureViewID(12345)})
	pass.SetPipeline(gpucore.RenderPipelineID(1))
	pass.Draw(6, 1, 0, 0)
	pass.End()
	if err := a.Submit(); err == nil {
		t.Error("Submit with unknown view: expected error")
	}
	// The failed frame is dropped; the next one starts clean.
	if err := a.Submit(); err != nil {
		t.Errorf("Submit after failure: %v", err)
	}
}

func TestHALAdapterSubmitEmpty(t *testing.T) {
	a := newTestAdapter(t)
	for i := 0; i < 3; i++ {
		if err := a.Submit(); err != nil {
			t.Fatalf("Submit #%d: %v", i, err)
		}
	}
	a.DiscardPending()
	if err := a.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func TestHALAdapterSubmitDoesNotBlock(t *testing.T) {
	a := newTestAdapter(t)
	id, err := a.CreateBuffer("cells", 16, gpucore.BufferUsageStorage)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	for i := 0; i < 3; i++ {
		a.StorageBarrier(id)
		if err := a.Submit(); err != nil {
			t.Fatalf("Submit #%d: %v", i, err)
		}
	}
	// noop completes every submission at once, so polling after Submit
	// reclaims them without a wait.
	if n := a.InFlight(); n != 0 {
		t.Errorf("InFlight = %d after completed submissions, want 0", n)
	}
}

func TestHALAdapterReclaimKeepsPending(t *testing.T) {
	a := newTestAdapter(t)
	a.inflight = []inFlight{{index: 1}, {index: 5}, {index: 9}}
	a.reclaimLocked(5)
	if len(a.inflight) != 1 || a.inflight[0].index != 9 {
		t.Fatalf("inflight = %+v, want only index 9", a.inflight)
	}
	if err := a.WaitIdle(); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	if n := a.InFlight(); n != 0 {
		t.Errorf("InFlight = %d after WaitIdle, want 0", n)
	}
}

func TestHALAdapterStorageBarrier(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	rec := &barrierDevice{Device: device}
	a := NewHALAdapter(rec, queue, nil)
	defer a.Release()

	id, err := a.CreateBuffer("cells", 16, gpucore.BufferUsageStorage)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	a.BeginComputePass("step").End()
	a.StorageBarrier(id)
	if err := a.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(rec.barriers) != 1 || len(rec.barriers[0]) != 1 {
		t.Fatalf("barriers = %v, want one transition", rec.barriers)
	}
	got := rec.barriers[0][0].Usage
	if got.OldUsage != gputypes.BufferUsageStorage || got.NewUsage != gputypes.BufferUsageStorage {
		t.Errorf("transition = %+v, want storage to storage", got)
	}

	a.StorageBarrier(gpucore.BufferID(4242))
	if err := a.Submit(); err == nil {
		t.Error("Submit after barrier on unknown buffer: expected error")
	}
	if err := a.Submit(); err != nil {
		t.Errorf("Submit after failure: %v", err)
	}
}

func TestHALAdapterReadBuffer(t *testing.T) {
	a := newTestAdapter(t)
	id, err := a.CreateBuffer("cells", 8, gpucore.BufferUsageStorage|gpucore.BufferUsageCopySrc)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	got, err := a.ReadBuffer(id, 0, 8)
	if err != nil {
		t.Fatalf("ReadBuffer: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("ReadBuffer returned %d bytes, want 8", len(got))
	}
	if got, err := a.ReadBuffer(id, 0, 0); err != nil || got != nil {
		t.Errorf("ReadBuffer(size 0) = %v, %v", got, err)
	}
}

// barrierDevice records the buffer transitions of every encoder it creates.
type barrierDevice struct {
	hal.Device
	barriers [][]hal.BufferBarrier
}

func (d *barrierDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &barrierEncoder{CommandEncoder: enc, dev: d}, nil
}

type barrierEncoder struct {
	hal.CommandEncoder
	dev *barrierDevice
}

func (e *barrierEncoder) TransitionBuffers(barriers []hal.BufferBarrier) {
	e.dev.barriers = append(e.dev.barriers, barriers)
	e.CommandEncoder.TransitionBuffers(barriers)
}

func TestFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	handles := halDeviceHandles{device: device, queue: queue}
	accepted := []struct {
		name     string
		provider any
	}{
		{"hal handles", handles},
		{"device provider", contextProvider{device: handles}},
		{"untyped handles", fakeProvider{device: device, queue: queue}},
	}
	for _, tt := range accepted {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromProvider(tt.provider)
			if err != nil {
				t.Fatalf("FromProvider: %v", err)
			}
			if a.Device() != device {
				t.Error("FromProvider did not wrap the provider's device")
			}
			if err := a.Release(); err != nil {
				t.Errorf("Release: %v", err)
			}
		})
	}

	tests := []struct {
		name     string
		provider any
	}{
		{"not a provider", struct{}{}},
		{"nil", nil},
		{"wrong device", fakeProvider{device: "device", queue: queue}},
		{"wrong queue", fakeProvider{device: device, queue: 7}},
		{"released device", halDeviceHandles{}},
		{"provider without hal device", contextProvider{device: struct{}{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromProvider(tt.provider); !errors.Is(err, ErrNotHALProvider) {
				t.Errorf("FromProvider error = %v, want ErrNotHALProvider", err)
			}
		})
	}
}

type fakeProvider struct {
	device any
	queue  any
}

func (p fakeProvider) HalDevice() any { return p.device }
func (p fakeProvider) HalQueue() any  { return p.queue }

// halDeviceHandles has the method set of *wgpu.Device that FromProvider uses.
type halDeviceHandles struct {
	device hal.Device
	queue  hal.Queue
}

func (h halDeviceHandles) HalDevice() hal.Device { return h.device }
func (h halDeviceHandles) HalQueue() hal.Queue   { return h.queue }

// contextProvider mirrors gogpu's gpucontext.DeviceProvider adapter.
type contextProvider struct {
	device gpucontext.Device
}

func (p contextProvider) Device() gpucontext.Device { return p.device }
