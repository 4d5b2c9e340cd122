// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"fmt"
	"time"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/cellgrid/rule"
)

// Defaults used by DefaultConfig.
const (
	DefaultGridSize     = 32
	DefaultStepInterval = 500 * time.Millisecond
	DefaultWidth        = 512
	DefaultHeight       = 512
	DefaultTitle        = "cellgrid"
)

// MaxGridSize bounds the grid edge so N*N cells fit the instance count of a
// single draw call and the uniform stays exactly representable as float32.
const MaxGridSize = 4096

// Config holds startup configuration. Grid dimensions are fixed for the
// lifetime of a Simulation.
//
// Use DefaultConfig and the With* methods:
//
//	cfg := cellgrid.DefaultConfig().
//	    WithGridSize(64).
//	    WithStepInterval(250 * time.Millisecond)
type Config struct {
	// GridSize is N for the N×N cell grid.
	GridSize uint32

	// StepInterval is the minimum wall-clock time between simulation steps.
	StepInterval time.Duration

	// Rule is the transition rule compiled into the compute shader.
	Rule rule.Rule

	// DispatchZ is the third workgroup-count argument of the compute
	// dispatch. Zero matches the reference program; WebGPU treats a zero
	// extent as an empty dispatch.
	DispatchZ uint32

	// Width and Height are the initial surface size in pixels.
	Width  uint32
	Height uint32

	// Title is the window title used by windowed hosts.
	Title string

	// PresentMode is the surface present mode.
	PresentMode gpucore.PresentMode

	// PrecompileShaders compiles WGSL to SPIR-V with naga before module
	// creation instead of handing WGSL to the device.
	PrecompileShaders bool
}

// DefaultConfig returns the configuration of the reference program:
// a 32×32 Conway grid on a torus stepped every 500 ms.
func DefaultConfig() Config {
	return Config{
		GridSize:     DefaultGridSize,
		StepInterval: DefaultStepInterval,
		Rule:         rule.Conway,
		DispatchZ:    0,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Title:        DefaultTitle,
		PresentMode:  gpucore.PresentModeFifo,
	}
}

// WithGridSize returns a copy with the grid edge set to n.
func (c Config) WithGridSize(n uint32) Config {
	c.GridSize = n
	return c
}

// WithStepInterval returns a copy with the step interval set to d.
func (c Config) WithStepInterval(d time.Duration) Config {
	c.StepInterval = d
	return c
}

// WithRule returns a copy using rule r.
func (c Config) WithRule(r rule.Rule) Config {
	c.Rule = r
	return c
}

// WithDispatchZ returns a copy with the dispatch z extent set to z.
func (c Config) WithDispatchZ(z uint32) Config {
	c.DispatchZ = z
	return c
}

// WithSize returns a copy with the initial surface size set.
func (c Config) WithSize(width, height uint32) Config {
	c.Width = width
	c.Height = height
	return c
}

// WithTitle returns a copy with the window title set.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithPrecompiledShaders returns a copy that compiles shaders with naga.
func (c Config) WithPrecompiledShaders(on bool) Config {
	c.PrecompileShaders = on
	return c
}

// Grid returns the grid described by the config.
func (c Config) Grid() Grid {
	return Grid{Size: c.GridSize}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.GridSize == 0:
		return fmt.Errorf("%w: grid size must be positive", ErrInvalidConfig)
	case c.GridSize > MaxGridSize:
		return fmt.Errorf("%w: grid size %d exceeds %d", ErrInvalidConfig, c.GridSize, MaxGridSize)
	case c.StepInterval < 0:
		return fmt.Errorf("%w: negative step interval %v", ErrInvalidConfig, c.StepInterval)
	case c.Width == 0 || c.Height == 0:
		return fmt.Errorf("%w: initial size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}
