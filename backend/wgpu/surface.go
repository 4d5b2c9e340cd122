// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// OffscreenSurface presents into a texture owned by the surface. It backs
// headless runs and tests; Present only counts frames.
type OffscreenSurface struct {
	gpu    *HALAdapter
	format gpucore.TextureFormat
	config gpucore.SurfaceConfig

	texture hal.Texture
	view    hal.TextureView
	viewID  gpucore.TextureViewID

	acquired bool
	frames   uint64
}

// NewOffscreenSurface creates an unconfigured surface of the given format.
func NewOffscreenSurface(gpu *HALAdapter, format gpucore.TextureFormat) *OffscreenSurface {
	return &OffscreenSurface{gpu: gpu, format: format}
}

// DefaultConfig returns the surface format at the requested size.
func (s *OffscreenSurface) DefaultConfig(width, height uint32) (gpucore.SurfaceConfig, error) {
	return gpucore.SurfaceConfig{
		Width:       width,
		Height:      height,
		Format:      s.format,
		PresentMode: gpucore.PresentModeFifo,
	}, nil
}

// Configure recreates the render target at the configured size.
func (s *OffscreenSurface) Configure(cfg gpucore.SurfaceConfig) error {
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("wgpu: surface size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	format := convertTextureFormat(cfg.Format)
	if format == gputypes.TextureFormatUndefined {
		return fmt.Errorf("wgpu: unsupported surface format %v", cfg.Format)
	}

	device := s.gpu.Device()
	texture, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "offscreen_surface",
		Size: hal.Extent3D{
			Width:              cfg.Width,
			Height:             cfg.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create surface texture: %w", err)
	}
	view, err := device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label: "offscreen_surface_view",
	})
	if err != nil {
		device.DestroyTexture(texture)
		return fmt.Errorf("create surface view: %w", err)
	}

	if s.texture != nil {
		// The old target may still be referenced by in-flight frames.
		if err := s.gpu.WaitIdle(); err != nil {
			device.DestroyTextureView(view)
			device.DestroyTexture(texture)
			return fmt.Errorf("wgpu: reconfigure surface: %w", err)
		}
	}
	s.destroyTarget()
	s.texture = texture
	s.view = view
	s.viewID = s.gpu.RegisterView(view)
	s.config = cfg
	return nil
}

// AcquireTexture returns the render target view.
func (s *OffscreenSurface) AcquireTexture() (gpucore.TextureViewID, error) {
	if s.view == nil {
		return gpucore.InvalidID, errors.New("wgpu: surface not configured")
	}
	s.acquired = true
	return s.viewID, nil
}

// Present completes the frame.
func (s *OffscreenSurface) Present() error {
	if !s.acquired {
		return errors.New("wgpu: present without acquire")
	}
	s.acquired = false
	s.frames++
	return nil
}

// Config returns the active configuration.
func (s *OffscreenSurface) Config() gpucore.SurfaceConfig {
	return s.config
}

// Frames returns the number of presented frames.
func (s *OffscreenSurface) Frames() uint64 {
	return s.frames
}

// Release destroys the render target.
func (s *OffscreenSurface) Release() {
	s.destroyTarget()
}

func (s *OffscreenSurface) destroyTarget() {
	if s.viewID != gpucore.InvalidID {
		s.gpu.UnregisterView(s.viewID)
		s.viewID = gpucore.InvalidID
	}
	device := s.gpu.Device()
	if s.view != nil {
		device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.texture != nil {
		device.DestroyTexture(s.texture)
		s.texture = nil
	}
	s.acquired = false
}

// ViewSurface presents into a view supplied by a windowing host for each
// frame. The host owns the swapchain: Configure only records the size and
// Present hands the frame back.
type ViewSurface struct {
	gpu    *HALAdapter
	format gpucore.TextureFormat
	config gpucore.SurfaceConfig

	viewID gpucore.TextureViewID
}

// NewViewSurface creates a surface for a host whose swapchain uses format.
func NewViewSurface(gpu *HALAdapter, format gpucore.TextureFormat) *ViewSurface {
	return &ViewSurface{gpu: gpu, format: format}
}

// SetView supplies the view to render the next frame into. It replaces any
// view not yet presented.
func (s *ViewSurface) SetView(view hal.TextureView) {
	s.clearView()
	if view != nil {
		s.viewID = s.gpu.RegisterView(view)
	}
}

// DefaultConfig returns the host's swapchain format at the requested size.
func (s *ViewSurface) DefaultConfig(width, height uint32) (gpucore.SurfaceConfig, error) {
	return gpucore.SurfaceConfig{
		Width:       width,
		Height:      height,
		Format:      s.format,
		PresentMode: gpucore.PresentModeFifo,
	}, nil
}

// Configure records the configuration. The format cannot change.
func (s *ViewSurface) Configure(cfg gpucore.SurfaceConfig) error {
	if cfg.Format != s.format {
		return fmt.Errorf("wgpu: host surface format is %v, not %v", s.format, cfg.Format)
	}
	s.config = cfg
	return nil
}

// AcquireTexture returns the view set for this frame.
func (s *ViewSurface) AcquireTexture() (gpucore.TextureViewID, error) {
	if s.viewID == gpucore.InvalidID {
		return gpucore.InvalidID, ErrNoSurfaceView
	}
	return s.viewID, nil
}

// Present ends the frame and drops the view; the host presents it.
func (s *ViewSurface) Present() error {
	s.clearView()
	return nil
}

// Config returns the recorded configuration.
func (s *ViewSurface) Config() gpucore.SurfaceConfig {
	return s.config
}

// Release drops any pending view.
func (s *ViewSurface) Release() {
	s.clearView()
}

func (s *ViewSurface) clearView() {
	if s.viewID != gpucore.InvalidID {
		s.gpu.UnregisterView(s.viewID)
		s.viewID = gpucore.InvalidID
	}
}
