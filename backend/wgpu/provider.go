// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	corewgpu "github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"
)

// halHandles is implemented by *corewgpu.Device, the device gogpu hands out.
type halHandles interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

var _ halHandles = (*corewgpu.Device)(nil)

// FromProvider wraps the device shared by an external provider (e.g.,
// gogpu). It accepts, in order:
//
//   - a value exposing HalDevice() hal.Device and HalQueue() hal.Queue,
//   - a gpucontext.DeviceProvider whose Device() does, such as gogpu's
//     App.GPUContextProvider(),
//   - a value whose HalDevice() any and HalQueue() any hold hal types.
//
// The adapter does not own the device.
func FromProvider(provider any) (*HALAdapter, error) {
	if h, ok := provider.(halHandles); ok {
		return fromHandles(h)
	}
	if dp, ok := provider.(interface{ Device() gpucontext.Device }); ok {
		h, ok := dp.Device().(halHandles)
		if !ok {
			return nil, fmt.Errorf("%w: %T does not expose HAL handles", ErrNotHALProvider, dp.Device())
		}
		return fromHandles(h)
	}

	type untypedProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(untypedProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNotHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNotHALProvider)
	}
	return NewHALAdapter(device, queue, nil), nil
}

func fromHandles(h halHandles) (*HALAdapter, error) {
	device, queue := h.HalDevice(), h.HalQueue()
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: device has no HAL handles", ErrNotHALProvider)
	}
	return NewHALAdapter(device, queue, nil), nil
}
