// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/cellgrid/shaders"
)

// QuadVertexCount is the vertex count of one cell quad (two triangles).
const QuadVertexCount = 6

// QuadVertices is the shared cell geometry in normalized device coordinates.
var QuadVertices = [QuadVertexCount * 2]float32{
	-0.8, -0.8,
	0.8, -0.8,
	0.8, 0.8,

	-0.8, -0.8,
	0.8, 0.8,
	-0.8, 0.8,
}

// CellBindGroupLayout is the binding contract shared by both programs.
func CellBindGroupLayout() *gpucore.BindGroupLayoutDesc {
	return &gpucore.BindGroupLayoutDesc{
		Label: "Cell bind group layout",
		Entries: []gpucore.BindGroupLayoutEntry{
			{
				Binding:    BindingUniform,
				Visibility: gpucore.ShaderStageVertex | gpucore.ShaderStageCompute | gpucore.ShaderStageFragment,
				Type:       gpucore.BindingTypeUniformBuffer,
			},
			{
				Binding:    BindingInput,
				Visibility: gpucore.ShaderStageVertex | gpucore.ShaderStageCompute,
				Type:       gpucore.BindingTypeReadOnlyStorageBuffer,
			},
			{
				Binding:    BindingOutput,
				Visibility: gpucore.ShaderStageCompute,
				Type:       gpucore.BindingTypeStorageBuffer,
			},
		},
	}
}

// QuadVertexLayout is the geometry contract: one Float32x2 at offset 0,
// stride 8, shader location 0.
func QuadVertexLayout() gpucore.VertexBufferLayout {
	return gpucore.VertexBufferLayout{
		ArrayStride: gpucore.VertexFormatFloat32x2.Size(),
		Attributes: []gpucore.VertexAttribute{
			{Format: gpucore.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		},
	}
}

// Pipelines holds the compute and render pipelines, the layout they share
// and the static quad geometry.
type Pipelines struct {
	gpu gpucore.GPUAdapter

	BindGroupLayout gpucore.BindGroupLayoutID
	Layout          gpucore.PipelineLayoutID
	Compute         gpucore.ComputePipelineID
	Render          gpucore.RenderPipelineID
	Geometry        gpucore.BufferID

	simulationModule gpucore.ShaderModuleID
	cellModule       gpucore.ShaderModuleID
}

// NewPipelines builds both pipelines against one bind group layout. The
// render target format is the surface's configured format.
func NewPipelines(gpu gpucore.GPUAdapter, format gpucore.TextureFormat, set shaders.Set) (*Pipelines, error) {
	if limit := gpu.MaxWorkgroupSize(); shaders.WorkgroupSize > limit[0] || shaders.WorkgroupSize > limit[1] {
		return nil, fmt.Errorf("%w: %dx%d, device allows %dx%d",
			ErrWorkgroupSize, shaders.WorkgroupSize, shaders.WorkgroupSize, limit[0], limit[1])
	}
	p := &Pipelines{gpu: gpu}
	if err := p.init(format, set); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func (p *Pipelines) init(format gpucore.TextureFormat, set shaders.Set) error {
	var err error

	vertices := make([]byte, 0, len(QuadVertices)*4)
	for _, v := range QuadVertices {
		vertices = binary.LittleEndian.AppendUint32(vertices, math.Float32bits(v))
	}
	if p.Geometry, err = p.gpu.CreateBuffer("Vertex buffer", len(vertices), gpucore.BufferUsageVertex|gpucore.BufferUsageCopyDst); err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	p.gpu.WriteBuffer(p.Geometry, 0, vertices)

	if p.cellModule, err = p.gpu.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: "Cell shader",
		WGSL:  set.CellWGSL,
		SPIRV: set.CellSPIRV,
	}); err != nil {
		return fmt.Errorf("create cell shader: %w", err)
	}
	if p.simulationModule, err = p.gpu.CreateShaderModule(&gpucore.ShaderModuleDesc{
		Label: "Game of Life simulation shader",
		WGSL:  set.SimulationWGSL,
		SPIRV: set.SimulationSPIRV,
	}); err != nil {
		return fmt.Errorf("create simulation shader: %w", err)
	}

	if p.BindGroupLayout, err = p.gpu.CreateBindGroupLayout(CellBindGroupLayout()); err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	if p.Layout, err = p.gpu.CreatePipelineLayout("Cell pipeline layout", []gpucore.BindGroupLayoutID{p.BindGroupLayout}); err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	if p.Compute, err = p.gpu.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        "Simulation pipeline",
		Layout:       p.Layout,
		ShaderModule: p.simulationModule,
		EntryPoint:   shaders.ComputeEntryPoint,
	}); err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}

	if p.Render, err = p.gpu.CreateRenderPipeline(&gpucore.RenderPipelineDesc{
		Label:              "Cell pipeline",
		Layout:             p.Layout,
		ShaderModule:       p.cellModule,
		VertexEntryPoint:   shaders.VertexEntryPoint,
		FragmentEntryPoint: shaders.FragmentEntryPoint,
		VertexBuffers:      []gpucore.VertexBufferLayout{QuadVertexLayout()},
		TargetFormat:       format,
	}); err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	return nil
}

// Destroy releases pipelines, layouts, modules and geometry in reverse
// creation order.
func (p *Pipelines) Destroy() {
	if p.Render != gpucore.InvalidID {
		p.gpu.DestroyRenderPipeline(p.Render)
		p.Render = gpucore.InvalidID
	}
	if p.Compute != gpucore.InvalidID {
		p.gpu.DestroyComputePipeline(p.Compute)
		p.Compute = gpucore.InvalidID
	}
	if p.Layout != gpucore.InvalidID {
		p.gpu.DestroyPipelineLayout(p.Layout)
		p.Layout = gpucore.InvalidID
	}
	if p.BindGroupLayout != gpucore.InvalidID {
		p.gpu.DestroyBindGroupLayout(p.BindGroupLayout)
		p.BindGroupLayout = gpucore.InvalidID
	}
	if p.simulationModule != gpucore.InvalidID {
		p.gpu.DestroyShaderModule(p.simulationModule)
		p.simulationModule = gpucore.InvalidID
	}
	if p.cellModule != gpucore.InvalidID {
		p.gpu.DestroyShaderModule(p.cellModule)
		p.cellModule = gpucore.InvalidID
	}
	if p.Geometry != gpucore.InvalidID {
		p.gpu.DestroyBuffer(p.Geometry)
		p.Geometry = gpucore.InvalidID
	}
}
