// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"fmt"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/cellgrid/shaders"
)

// clearColor is opaque black.
var clearColor = gpucore.Color{R: 0, G: 0, B: 0, A: 1}

// Simulation owns every GPU resource of the automaton, built against one
// Context: the generation buffers, both pipelines and the bind group pair.
type Simulation struct {
	ctx       *Context
	grid      Grid
	dispatchZ uint32

	Buffers   *SimulationBuffers
	Pipelines *Pipelines
	Pair      *BindGroupPair

	closed bool
}

// NewSimulation builds buffers, pipelines and bind groups in data-flow
// order. On error everything already created is released.
func NewSimulation(ctx *Context, cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, err := shaders.Build(cfg.Rule, cfg.PrecompileShaders)
	if err != nil {
		return nil, fmt.Errorf("build shaders: %w", err)
	}

	gpu := ctx.GPU()
	s := &Simulation{ctx: ctx, grid: cfg.Grid(), dispatchZ: cfg.DispatchZ}

	if s.Buffers, err = NewSimulationBuffers(gpu, s.grid); err != nil {
		return nil, err
	}
	if s.Pipelines, err = NewPipelines(gpu, ctx.Format(), set); err != nil {
		s.release()
		return nil, err
	}
	if s.Pair, err = BuildBindGroupPair(gpu, s.Pipelines.BindGroupLayout,
		s.Buffers.Uniform, s.Buffers.Generations[GenerationA], s.Buffers.Generations[GenerationB]); err != nil {
		s.release()
		return nil, err
	}

	x, y, z := s.Workgroups()
	if z == 0 {
		Logger().Warn("cellgrid: compute dispatch has a zero z extent and may run no invocations",
			"x", x, "y", y, "z", z)
	}
	Logger().Info("cellgrid: simulation ready",
		"grid", s.grid.Size, "rule", cfg.Rule.String(), "workgroups", [3]uint32{x, y, z})
	return s, nil
}

// Grid returns the simulated grid.
func (s *Simulation) Grid() Grid {
	return s.grid
}

// Context returns the context the simulation was built on.
func (s *Simulation) Context() *Context {
	return s.ctx
}

// Workgroups returns the compute dispatch size.
func (s *Simulation) Workgroups() (x, y, z uint32) {
	return s.grid.Workgroups(s.dispatchZ)
}

// encodeStep records the compute pass reading generation parity.Input()
// and writing generation parity.Output(), followed by a barrier that makes
// the written generation visible to the vertex stage.
func (s *Simulation) encodeStep(parity Parity) {
	gpu := s.ctx.GPU()
	pass := gpu.BeginComputePass("Compute pass")
	pass.SetPipeline(s.Pipelines.Compute)
	pass.SetBindGroup(0, s.Pair.Select(parity))
	pass.Dispatch(s.Workgroups())
	pass.End()
	gpu.StorageBarrier(s.Pair.Bindings(parity).Output)
}

// encodeRender records the render pass drawing generation parity.Input()
// into view.
func (s *Simulation) encodeRender(parity Parity, view gpucore.TextureViewID) {
	gpu := s.ctx.GPU()
	pass := gpu.BeginRenderPass(&gpucore.RenderPassDesc{
		Label:      "Render pass",
		ColorView:  view,
		ClearColor: clearColor,
	})
	pass.SetPipeline(s.Pipelines.Render)
	pass.SetVertexBuffer(0, s.Pipelines.Geometry, 0)
	pass.SetBindGroup(0, s.Pair.Select(parity))
	pass.Draw(QuadVertexCount, s.grid.Cells(), 0, 0)
	pass.End()
}

// Close waits for submitted work and releases all resources. The Context
// is not closed.
func (s *Simulation) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	err := s.ctx.GPU().WaitIdle()
	s.release()
	if err != nil {
		return fmt.Errorf("cellgrid: wait for GPU: %w", err)
	}
	return nil
}

func (s *Simulation) release() {
	if s.Pair != nil {
		s.Pair.Destroy()
	}
	if s.Pipelines != nil {
		s.Pipelines.Destroy()
	}
	if s.Buffers != nil {
		s.Buffers.Destroy()
	}
}
