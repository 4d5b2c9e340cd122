// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

// GPUAdapter abstracts over the GPU device and queue.
//
// The simulation core is written once against this interface, while thin
// adapters translate to specific backend APIs. Implementations must be safe
// for concurrent use.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - Destroying a resource while in use is undefined behavior
//   - IDs become invalid after destruction and must not be reused
type GPUAdapter interface {
	// === Capabilities ===

	// SupportsCompute returns whether compute shaders are supported.
	SupportsCompute() bool

	// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
	MaxWorkgroupSize() [3]uint32

	// MaxBufferSize returns the maximum buffer size in bytes.
	MaxBufferSize() uint64

	// === Shader Compilation ===

	// CreateShaderModule creates a shader module from WGSL or SPIR-V.
	CreateShaderModule(desc *ShaderModuleDesc) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// === Buffer Management ===

	// CreateBuffer creates a GPU buffer of size bytes.
	CreateBuffer(label string, size int, usage BufferUsage) (BufferID, error)

	// DestroyBuffer releases a GPU buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer writes data to a buffer through the queue.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// ReadBuffer reads data back from a buffer.
	// This causes a GPU-CPU synchronization stall.
	ReadBuffer(id BufferID, offset, size uint64) ([]byte, error)

	// === Pipeline Management ===

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreatePipelineLayout creates a pipeline layout from bind group layouts.
	CreatePipelineLayout(label string, layouts []BindGroupLayoutID) (PipelineLayoutID, error)

	// DestroyPipelineLayout releases a pipeline layout.
	DestroyPipelineLayout(id PipelineLayoutID)

	// CreateComputePipeline creates a compute pipeline.
	CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error)

	// DestroyComputePipeline releases a compute pipeline.
	DestroyComputePipeline(id ComputePipelineID)

	// CreateRenderPipeline creates a render pipeline.
	CreateRenderPipeline(desc *RenderPipelineDesc) (RenderPipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id RenderPipelineID)

	// CreateBindGroup creates a bind group.
	CreateBindGroup(label string, layout BindGroupLayoutID, entries []BindGroupEntry) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)

	// === Command Recording and Execution ===

	// BeginComputePass begins a compute pass on the pending command stream.
	// The encoder must be ended with ComputePassEncoder.End().
	BeginComputePass(label string) ComputePassEncoder

	// BeginRenderPass begins a render pass on the pending command stream.
	// The encoder must be ended with RenderPassEncoder.End().
	BeginRenderPass(desc *RenderPassDesc) RenderPassEncoder

	// StorageBarrier orders earlier shader writes to the buffers before later
	// shader reads of them on the pending command stream. It must be called
	// outside a pass.
	StorageBarrier(buffers ...BufferID)

	// Submit ends the pending command stream and submits it to the queue as
	// a single command buffer. It does not wait for completion.
	Submit() error

	// DiscardPending drops any recorded but unsubmitted commands.
	DiscardPending()

	// WaitIdle waits for all submitted GPU work to complete.
	WaitIdle() error
}

// ComputePassEncoder records compute commands.
//
// The encoder is single-use and cannot be reused after End().
type ComputePassEncoder interface {
	// SetPipeline sets the active compute pipeline.
	SetPipeline(pipeline ComputePipelineID)

	// SetBindGroup sets a bind group at the specified index.
	SetBindGroup(index uint32, group BindGroupID)

	// Dispatch dispatches compute workgroups.
	// x, y, z are the number of workgroups in each dimension.
	Dispatch(x, y, z uint32)

	// End finishes the compute pass.
	End()
}

// RenderPassEncoder records draw commands.
//
// The encoder is single-use and cannot be reused after End().
type RenderPassEncoder interface {
	// SetPipeline sets the active render pipeline.
	SetPipeline(pipeline RenderPipelineID)

	// SetBindGroup sets a bind group at the specified index.
	SetBindGroup(index uint32, group BindGroupID)

	// SetVertexBuffer binds a vertex buffer to a slot.
	SetVertexBuffer(slot uint32, buffer BufferID, offset uint64)

	// Draw issues a non-indexed, instanced draw.
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// End finishes the render pass.
	End()
}
