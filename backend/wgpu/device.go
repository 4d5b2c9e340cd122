// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/backend"
	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// instanceFunc creates a HAL instance for one graphics API.
type instanceFunc func() (hal.Instance, error)

func vulkanInstance() (hal.Instance, error) {
	b, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan", ErrBackendUnavailable)
	}
	return b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
}

func noopInstance() (hal.Instance, error) {
	return noop.API{}.CreateInstance(nil)
}

// HALBackend implements backend.GPUBackend for one HAL graphics API.
type HALBackend struct {
	name        string
	newInstance instanceFunc
}

// NewVulkanBackend returns the Vulkan backend.
func NewVulkanBackend() *HALBackend {
	return &HALBackend{name: backend.BackendVulkan, newInstance: vulkanInstance}
}

// NewNoopBackend returns a backend whose device accepts every command and
// executes nothing. It needs no GPU.
func NewNoopBackend() *HALBackend {
	return &HALBackend{name: backend.BackendNoop, newInstance: noopInstance}
}

// Name returns the backend identifier.
func (b *HALBackend) Name() string {
	return b.name
}

// Adapters lists the adapters the backend can see.
func (b *HALBackend) Adapters() ([]backend.AdapterInfo, error) {
	instance, err := b.newInstance()
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	infos := make([]backend.AdapterInfo, len(adapters))
	for i := range adapters {
		infos[i] = adapterInfo(b.name, &adapters[i])
	}
	return infos, nil
}

// Open selects an adapter and opens a device on it.
func (b *HALBackend) Open() (backend.Device, error) {
	instance, err := b.newInstance()
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", cellgrid.ErrNoAdapter, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := selectAdapter(adapters)
	if selected == nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w: %s", cellgrid.ErrNoAdapter, backend.ErrNoAdapter, b.name)
	}

	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %w: %w", cellgrid.ErrDeviceRequest, backend.ErrDeviceRequest, err)
	}

	d := &Device{
		info:     adapterInfo(b.name, selected),
		instance: instance,
		device:   openDev.Device,
		gpu:      NewHALAdapter(openDev.Device, openDev.Queue, &limits),
	}
	cellgrid.Logger().Info("wgpu: device opened",
		"backend", b.name, "adapter", d.info.Name, "type", d.info.DeviceType, "driver", d.info.Driver)
	return d, nil
}

// selectAdapter prefers discrete and integrated GPUs and falls back to the
// first adapter. It returns nil if the list is empty.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	if len(adapters) == 0 {
		return nil
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

func adapterInfo(backendName string, a *hal.ExposedAdapter) backend.AdapterInfo {
	return backend.AdapterInfo{
		Name:       a.Info.Name,
		Vendor:     fmt.Sprint(a.Info.Vendor),
		DeviceType: fmt.Sprint(a.Info.DeviceType),
		Backend:    backendName,
		Driver:     fmt.Sprint(a.Info.Driver),
	}
}

// Device is a standalone HAL device with its instance.
type Device struct {
	info     backend.AdapterInfo
	instance hal.Instance
	device   hal.Device
	gpu      *HALAdapter
	closed   bool
}

// Info describes the adapter the device was opened on.
func (d *Device) Info() backend.AdapterInfo {
	return d.info
}

// GPU returns the device's gpucore adapter.
func (d *Device) GPU() gpucore.GPUAdapter {
	return d.gpu
}

// Adapter returns the concrete HAL adapter.
func (d *Device) Adapter() *HALAdapter {
	return d.gpu
}

// NewSurface creates an 8-bit sRGB offscreen surface.
func (d *Device) NewSurface(width, height uint32) (gpucore.Surface, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("wgpu: surface size %dx%d must be positive", width, height)
	}
	return NewOffscreenSurface(d.gpu, gpucore.TextureFormatRGBA8UnormSRGB), nil
}

// Close releases all resources, the device and the instance.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	err := d.gpu.Release()
	d.device.Destroy()
	d.instance.Destroy()
	if err != nil {
		return fmt.Errorf("wgpu: close device: %w", err)
	}
	return nil
}
