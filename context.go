// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/cellgrid/gpucore"
)

// DefaultSurfaceFormats are the 8-bit sRGB formats accepted by NewContext.
var DefaultSurfaceFormats = []gpucore.TextureFormat{
	gpucore.TextureFormatRGBA8UnormSRGB,
	gpucore.TextureFormatBGRA8UnormSRGB,
}

// DeviceCloser releases a device owned by a Context.
type DeviceCloser interface {
	Close() error
}

// ContextOption configures a Context during creation.
//
// Example:
//
//	ctx, err := cellgrid.NewContext(gpu, surface, 800, 600,
//	    cellgrid.WithPresentMode(gpucore.PresentModeMailbox))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	formats     []gpucore.TextureFormat
	presentMode *gpucore.PresentMode
	device      DeviceCloser
}

// defaultContextOptions returns the default context options.
func defaultContextOptions() contextOptions {
	return contextOptions{
		formats: DefaultSurfaceFormats,
	}
}

// WithAcceptedFormats replaces the set of surface formats NewContext accepts.
// Hosts that pick the swapchain format themselves may widen it to the
// 8-bit unorm variants.
func WithAcceptedFormats(formats ...gpucore.TextureFormat) ContextOption {
	return func(o *contextOptions) {
		o.formats = formats
	}
}

// WithPresentMode overrides the present mode of the derived configuration.
func WithPresentMode(mode gpucore.PresentMode) ContextOption {
	return func(o *contextOptions) {
		o.presentMode = &mode
	}
}

// WithOwnedDevice hands device ownership to the Context. The device is
// closed by Context.Close, or immediately if NewContext fails.
func WithOwnedDevice(d DeviceCloser) ContextOption {
	return func(o *contextOptions) {
		o.device = d
	}
}

// Context owns the GPU adapter and the configured presentation surface.
// It is passed by reference to every component built on it.
type Context struct {
	gpu     gpucore.GPUAdapter
	surface gpucore.Surface
	device  DeviceCloser
	config  gpucore.SurfaceConfig
}

// NewContext derives the default surface configuration for the given size,
// checks its format and configures the surface.
//
// Every failure is fatal: the returned error wraps ErrNoAdapter,
// ErrComputeUnsupported, ErrSurfaceFormat or ErrSurfaceConfigure, the
// surface is released and an owned device is closed.
func NewContext(gpu gpucore.GPUAdapter, surface gpucore.Surface, width, height uint32, opts ...ContextOption) (_ *Context, err error) {
	o := defaultContextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	defer func() {
		if err == nil {
			return
		}
		if surface != nil {
			surface.Release()
		}
		if o.device != nil {
			if cerr := o.device.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	if gpu == nil {
		return nil, ErrNoAdapter
	}
	if !gpu.SupportsCompute() {
		return nil, ErrComputeUnsupported
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: no surface", ErrSurfaceConfigure)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: initial size %dx%d", ErrSurfaceConfigure, width, height)
	}

	cfg, err := surface.DefaultConfig(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceConfigure, err)
	}
	if !slices.Contains(o.formats, cfg.Format) {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceFormat, cfg.Format)
	}
	if o.presentMode != nil {
		cfg.PresentMode = *o.presentMode
	}
	if err := surface.Configure(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceConfigure, err)
	}

	Logger().Info("cellgrid: surface configured",
		"width", cfg.Width, "height", cfg.Height, "format", cfg.Format.String())

	return &Context{
		gpu:     gpu,
		surface: surface,
		device:  o.device,
		config:  cfg,
	}, nil
}

// GPU returns the adapter.
func (c *Context) GPU() gpucore.GPUAdapter {
	return c.gpu
}

// Surface returns the presentation surface.
func (c *Context) Surface() gpucore.Surface {
	return c.surface
}

// SurfaceConfig returns the active surface configuration.
func (c *Context) SurfaceConfig() gpucore.SurfaceConfig {
	return c.config
}

// Format returns the configured surface format.
func (c *Context) Format() gpucore.TextureFormat {
	return c.config.Format
}

// Resize reconfigures the surface for a new size. If either dimension is
// zero the call is a no-op and the previous configuration stays active.
// Simulation buffers are never touched.
func (c *Context) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	cfg := c.config
	cfg.Width = width
	cfg.Height = height
	if err := c.surface.Configure(cfg); err != nil {
		return fmt.Errorf("%w: resize to %dx%d: %w", ErrSurfaceConfigure, width, height, err)
	}
	c.config = cfg

	Logger().Debug("cellgrid: surface resized", "width", width, "height", height)
	return nil
}

// Close releases the surface and, if owned, the device.
func (c *Context) Close() error {
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.device != nil {
		d := c.device
		c.device = nil
		return d.Close()
	}
	return nil
}
