// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"

	"github.com/gogpu/cellgrid/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNoAdapter is returned when a backend enumerates no usable adapter.
	ErrNoAdapter = errors.New("backend: no adapter found")

	// ErrDeviceRequest is returned when an adapter refuses to open a device.
	ErrDeviceRequest = errors.New("backend: device request failed")
)

// AdapterInfo describes a physical adapter as reported by the driver.
type AdapterInfo struct {
	// Name is the adapter name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the vendor name or ID.
	Vendor string
	// DeviceType is the adapter class (discrete, integrated, cpu, ...).
	DeviceType string
	// Backend is the graphics API the adapter is exposed through.
	Backend string
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the adapter.
func (a AdapterInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.Name, a.DeviceType, a.Backend)
}

// Device is an opened logical device exposed through gpucore.
type Device interface {
	// Info describes the adapter the device was opened on.
	Info() AdapterInfo

	// GPU returns the resource and command interface of the device.
	GPU() gpucore.GPUAdapter

	// NewSurface creates an offscreen presentation surface of the given size.
	// Headless runs render into it.
	NewSurface(width, height uint32) (gpucore.Surface, error)

	// Close waits for outstanding work and destroys the device.
	Close() error
}

// GPUBackend is a graphics API that can enumerate adapters and open a
// device on the best one.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type GPUBackend interface {
	// Name returns the backend identifier (e.g., "vulkan", "noop").
	Name() string

	// Adapters lists the adapters the backend can see.
	Adapters() ([]AdapterInfo, error)

	// Open selects an adapter and opens a device on it. Discrete and
	// integrated GPUs are preferred over software adapters.
	Open() (Device, error)
}
