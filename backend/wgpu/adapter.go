// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// inFlight is a submitted command buffer and its queue submission index.
type inFlight struct {
	cmd   hal.CommandBuffer
	index uint64
}

// HALAdapter implements gpucore.GPUAdapter using gogpu/wgpu/hal directly.
//
// Commands recorded between two Submit calls go into one command encoder
// and are submitted as one command buffer. Submit never waits for the GPU;
// command buffers are freed once the queue reports their index completed.
//
// Thread Safety: HALAdapter is safe for concurrent use from multiple goroutines.
// All resource operations are protected by a mutex.
type HALAdapter struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	// Adapter limits and capabilities
	hasCompute   bool
	maxBufferSz  uint64
	maxWorkgroup [3]uint32

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps gpucore IDs to hal resources
	buffers          map[gpucore.BufferID]hal.Buffer
	views            map[gpucore.TextureViewID]hal.TextureView
	shaderModules    map[gpucore.ShaderModuleID]hal.ShaderModule
	computePipelines map[gpucore.ComputePipelineID]hal.ComputePipeline
	renderPipelines  map[gpucore.RenderPipelineID]hal.RenderPipeline
	bindGroupLayouts map[gpucore.BindGroupLayoutID]hal.BindGroupLayout
	pipelineLayouts  map[gpucore.PipelineLayoutID]hal.PipelineLayout
	bindGroups       map[gpucore.BindGroupID]hal.BindGroup

	// Command encoder for the pending submission
	encoder   hal.CommandEncoder
	encodeErr error
	inflight  []inFlight
}

// NewHALAdapter creates a new HALAdapter wrapping the given device and queue.
// The limits parameter provides the adapter's capability limits.
// If limits is nil, default limits are used.
func NewHALAdapter(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *HALAdapter {
	var lim gputypes.Limits
	if limits != nil {
		lim = *limits
	} else {
		lim = gputypes.DefaultLimits()
	}

	adapter := &HALAdapter{
		device:           device,
		queue:            queue,
		hasCompute:       true,
		maxBufferSz:      lim.MaxBufferSize,
		maxWorkgroup:     [3]uint32{lim.MaxComputeWorkgroupSizeX, lim.MaxComputeWorkgroupSizeY, lim.MaxComputeWorkgroupSizeZ},
		buffers:          make(map[gpucore.BufferID]hal.Buffer),
		views:            make(map[gpucore.TextureViewID]hal.TextureView),
		shaderModules:    make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		computePipelines: make(map[gpucore.ComputePipelineID]hal.ComputePipeline),
		renderPipelines:  make(map[gpucore.RenderPipelineID]hal.RenderPipeline),
		bindGroupLayouts: make(map[gpucore.BindGroupLayoutID]hal.BindGroupLayout),
		pipelineLayouts:  make(map[gpucore.PipelineLayoutID]hal.PipelineLayout),
		bindGroups:       make(map[gpucore.BindGroupID]hal.BindGroup),
	}

	// Start ID generation at 1 (0 is invalid)
	adapter.nextID.Store(1)

	return adapter
}

// newID generates a unique resource ID.
func (a *HALAdapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// Device returns the underlying hal device.
func (a *HALAdapter) Device() hal.Device {
	return a.device
}

// === Capabilities ===

// SupportsCompute returns whether compute shaders are supported.
func (a *HALAdapter) SupportsCompute() bool {
	return a.hasCompute
}

// MaxWorkgroupSize returns the maximum workgroup size in each dimension.
func (a *HALAdapter) MaxWorkgroupSize() [3]uint32 {
	return a.maxWorkgroup
}

// MaxBufferSize returns the maximum buffer size in bytes.
func (a *HALAdapter) MaxBufferSize() uint64 {
	return a.maxBufferSz
}

// === Shader Compilation ===

// CreateShaderModule creates a shader module. SPIR-V takes precedence over
// WGSL when both are set.
func (a *HALAdapter) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("nil shader module descriptor")
	}

	var source hal.ShaderSource
	switch {
	case len(desc.SPIRV) > 0:
		source.SPIRV = desc.SPIRV
	case desc.WGSL != "":
		source.WGSL = desc.WGSL
	default:
		return gpucore.InvalidID, fmt.Errorf("shader module %q has no source", desc.Label)
	}

	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: source,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create shader module %q: %w", desc.Label, err)
	}

	id := gpucore.ShaderModuleID(a.newID())

	a.mu.Lock()
	a.shaderModules[id] = module
	a.mu.Unlock()

	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *HALAdapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	module, ok := a.shaderModules[id]
	if ok {
		delete(a.shaderModules, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyShaderModule(module)
	}
}

// === Buffer Management ===

// CreateBuffer creates a GPU buffer.
func (a *HALAdapter) CreateBuffer(label string, size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("buffer size must be positive")
	}

	buffer, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}

	id := gpucore.BufferID(a.newID())

	a.mu.Lock()
	a.buffers[id] = buffer
	a.mu.Unlock()

	return id, nil
}

// DestroyBuffer releases a GPU buffer.
func (a *HALAdapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	buffer, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBuffer(buffer)
	}
}

// WriteBuffer writes data to a buffer.
func (a *HALAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	a.mu.RLock()
	buffer, ok := a.buffers[id]
	a.mu.RUnlock()

	if ok && len(data) > 0 {
		if err := a.queue.WriteBuffer(buffer, offset, data); err != nil {
			cellgrid.Logger().Warn("wgpu: write buffer", "buffer", id, "err", err)
		}
	}
}

// ReadBuffer copies a buffer range into a staging buffer, waits for the
// copy and returns the bytes.
func (a *HALAdapter) ReadBuffer(id gpucore.BufferID, offset, size uint64) ([]byte, error) {
	a.mu.RLock()
	buffer, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("buffer %d not found", id)
	}
	if size == 0 {
		return nil, nil
	}

	staging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "staging-readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(staging)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "buffer-read-encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("buffer-read"); err != nil {
		return nil, fmt.Errorf("failed to begin encoding: %w", err)
	}

	encoder.CopyBufferToBuffer(buffer, staging, []hal.BufferCopy{
		{SrcOffset: offset, DstOffset: 0, Size: size},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("failed to end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	if _, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return nil, fmt.Errorf("failed to submit readback: %w", err)
	}
	if err := a.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wait for readback: %w", err)
	}

	mapping, err := a.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := a.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return out, nil
}

// === Texture Views ===

// RegisterView makes an externally owned texture view addressable by ID.
// The adapter never destroys registered views.
func (a *HALAdapter) RegisterView(view hal.TextureView) gpucore.TextureViewID {
	id := gpucore.TextureViewID(a.newID())
	a.mu.Lock()
	a.views[id] = view
	a.mu.Unlock()
	return id
}

// UnregisterView forgets a view registered with RegisterView.
func (a *HALAdapter) UnregisterView(id gpucore.TextureViewID) {
	a.mu.Lock()
	delete(a.views, id)
	a.mu.Unlock()
}

// === Pipeline Management ===

// CreateBindGroupLayout creates a bind group layout.
func (a *HALAdapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("nil bind group layout descriptor")
	}

	entries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		entries[i] = convertBindGroupLayoutEntry(entry)
	}

	layout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	id := gpucore.BindGroupLayoutID(a.newID())

	a.mu.Lock()
	a.bindGroupLayouts[id] = layout
	a.mu.Unlock()

	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (a *HALAdapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	layout, ok := a.bindGroupLayouts[id]
	if ok {
		delete(a.bindGroupLayouts, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBindGroupLayout(layout)
	}
}

// CreatePipelineLayout creates a pipeline layout.
func (a *HALAdapter) CreatePipelineLayout(label string, layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	a.mu.RLock()
	halLayouts := make([]hal.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		layout, ok := a.bindGroupLayouts[id]
		if !ok {
			a.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("bind group layout %d not found", id)
		}
		halLayouts[i] = layout
	}
	a.mu.RUnlock()

	pipelineLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	id := gpucore.PipelineLayoutID(a.newID())

	a.mu.Lock()
	a.pipelineLayouts[id] = pipelineLayout
	a.mu.Unlock()

	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (a *HALAdapter) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	a.mu.Lock()
	layout, ok := a.pipelineLayouts[id]
	if ok {
		delete(a.pipelineLayouts, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyPipelineLayout(layout)
	}
}

// CreateComputePipeline creates a compute pipeline.
func (a *HALAdapter) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("nil compute pipeline descriptor")
	}

	a.mu.RLock()
	pipelineLayout, layoutOK := a.pipelineLayouts[desc.Layout]
	shaderModule, moduleOK := a.shaderModules[desc.ShaderModule]
	a.mu.RUnlock()

	if !layoutOK {
		return gpucore.InvalidID, fmt.Errorf("pipeline layout %d not found", desc.Layout)
	}
	if !moduleOK {
		return gpucore.InvalidID, fmt.Errorf("shader module %d not found", desc.ShaderModule)
	}

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     shaderModule,
			EntryPoint: desc.EntryPoint,
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create compute pipeline: %w", err)
	}

	id := gpucore.ComputePipelineID(a.newID())

	a.mu.Lock()
	a.computePipelines[id] = pipeline
	a.mu.Unlock()

	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (a *HALAdapter) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	a.mu.Lock()
	pipeline, ok := a.computePipelines[id]
	if ok {
		delete(a.computePipelines, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyComputePipeline(pipeline)
	}
}

// CreateRenderPipeline creates a render pipeline drawing triangle lists
// into a single color target without blending or culling.
func (a *HALAdapter) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if desc == nil {
		return gpucore.InvalidID, fmt.Errorf("nil render pipeline descriptor")
	}

	a.mu.RLock()
	pipelineLayout, layoutOK := a.pipelineLayouts[desc.Layout]
	shaderModule, moduleOK := a.shaderModules[desc.ShaderModule]
	a.mu.RUnlock()

	if !layoutOK {
		return gpucore.InvalidID, fmt.Errorf("pipeline layout %d not found", desc.Layout)
	}
	if !moduleOK {
		return gpucore.InvalidID, fmt.Errorf("shader module %d not found", desc.ShaderModule)
	}

	buffers := make([]gputypes.VertexBufferLayout, len(desc.VertexBuffers))
	for i, vb := range desc.VertexBuffers {
		buffers[i] = convertVertexBufferLayout(vb)
	}

	pipeline, err := a.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipelineLayout,
		Vertex: hal.VertexState{
			Module:     shaderModule,
			EntryPoint: desc.VertexEntryPoint,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     shaderModule,
			EntryPoint: desc.FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    convertTextureFormat(desc.TargetFormat),
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create render pipeline: %w", err)
	}

	id := gpucore.RenderPipelineID(a.newID())

	a.mu.Lock()
	a.renderPipelines[id] = pipeline
	a.mu.Unlock()

	return id, nil
}

// DestroyRenderPipeline releases a render pipeline.
func (a *HALAdapter) DestroyRenderPipeline(id gpucore.RenderPipelineID) {
	a.mu.Lock()
	pipeline, ok := a.renderPipelines[id]
	if ok {
		delete(a.renderPipelines, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyRenderPipeline(pipeline)
	}
}

// CreateBindGroup creates a bind group of buffer bindings.
func (a *HALAdapter) CreateBindGroup(label string, layout gpucore.BindGroupLayoutID, entries []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	a.mu.RLock()
	halLayout, ok := a.bindGroupLayouts[layout]
	if !ok {
		a.mu.RUnlock()
		return gpucore.InvalidID, fmt.Errorf("bind group layout %d not found", layout)
	}

	halEntries := make([]gputypes.BindGroupEntry, len(entries))
	for i, entry := range entries {
		buffer, ok := a.buffers[entry.Buffer]
		if !ok {
			a.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("bind group entry %d: buffer %d not found", entry.Binding, entry.Buffer)
		}
		halEntries[i] = gputypes.BindGroupEntry{
			Binding: entry.Binding,
			Resource: gputypes.BufferBinding{
				Buffer: buffer.NativeHandle(),
				Offset: entry.Offset,
				Size:   entry.Size,
			},
		}
	}
	a.mu.RUnlock()

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label,
		Layout:  halLayout,
		Entries: halEntries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create bind group %q: %w", label, err)
	}

	id := gpucore.BindGroupID(a.newID())

	a.mu.Lock()
	a.bindGroups[id] = bindGroup
	a.mu.Unlock()

	return id, nil
}

// DestroyBindGroup releases a bind group.
func (a *HALAdapter) DestroyBindGroup(id gpucore.BindGroupID) {
	a.mu.Lock()
	group, ok := a.bindGroups[id]
	if ok {
		delete(a.bindGroups, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBindGroup(group)
	}
}

// === Command Recording and Execution ===

// ensureEncoder opens the pending command encoder. Must be called with mu held.
// It returns false if no encoder could be opened; the failure is reported by
// the next Submit.
func (a *HALAdapter) ensureEncoder() bool {
	if a.encoder != nil {
		return true
	}
	if a.encodeErr != nil {
		return false
	}

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame-encoder",
	})
	if err != nil {
		a.encodeErr = fmt.Errorf("create command encoder: %w", err)
		return false
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		a.encodeErr = fmt.Errorf("begin encoding: %w", err)
		return false
	}
	a.encoder = encoder
	return true
}

// BeginComputePass begins a compute pass on the pending encoder.
func (a *HALAdapter) BeginComputePass(label string) gpucore.ComputePassEncoder {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ensureEncoder() {
		// Return a no-op encoder on error
		return &halComputePassEncoder{adapter: a}
	}

	return &halComputePassEncoder{
		adapter: a,
		pass:    a.encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: label}),
	}
}

// BeginRenderPass begins a render pass with one cleared color attachment.
func (a *HALAdapter) BeginRenderPass(desc *gpucore.RenderPassDesc) gpucore.RenderPassEncoder {
	a.mu.Lock()
	defer a.mu.Unlock()

	view, ok := a.views[desc.ColorView]
	if !ok {
		if a.encodeErr == nil {
			a.encodeErr = fmt.Errorf("texture view %d not found", desc.ColorView)
		}
		return &halRenderPassEncoder{adapter: a}
	}
	if !a.ensureEncoder() {
		return &halRenderPassEncoder{adapter: a}
	}

	pass := a.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: desc.ClearColor.R,
				G: desc.ClearColor.G,
				B: desc.ClearColor.B,
				A: desc.ClearColor.A,
			},
		}},
	})
	return &halRenderPassEncoder{adapter: a, pass: pass}
}

// StorageBarrier records a storage-to-storage transition on each buffer so
// shader writes from earlier passes are visible to later shader stages.
func (a *HALAdapter) StorageBarrier(ids ...gpucore.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	barriers := make([]hal.BufferBarrier, 0, len(ids))
	for _, id := range ids {
		buffer, ok := a.buffers[id]
		if !ok {
			if a.encodeErr == nil {
				a.encodeErr = fmt.Errorf("barrier: buffer %d not found", id)
			}
			return
		}
		barriers = append(barriers, hal.BufferBarrier{
			Buffer: buffer,
			Usage: hal.BufferUsageTransition{
				OldUsage: gputypes.BufferUsageStorage,
				NewUsage: gputypes.BufferUsageStorage,
			},
		})
	}
	if len(barriers) == 0 || !a.ensureEncoder() {
		return
	}
	a.encoder.TransitionBuffers(barriers)
}

// Submit ends the pending encoder and queues it as one command buffer.
// It does not wait; completed submissions are freed on the way.
func (a *HALAdapter) Submit() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.encodeErr; err != nil {
		a.discardLocked()
		return err
	}
	if a.encoder == nil {
		return nil
	}

	cmdBuf, err := a.encoder.EndEncoding()
	a.encoder = nil
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}

	index, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		a.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("submit: %w", err)
	}
	a.inflight = append(a.inflight, inFlight{cmd: cmdBuf, index: index})
	a.reclaimLocked(a.queue.PollCompleted())
	return nil
}

// DiscardPending drops the pending encoder and any recording error.
func (a *HALAdapter) DiscardPending() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.discardLocked()
}

func (a *HALAdapter) discardLocked() {
	if a.encoder != nil {
		a.encoder.DiscardEncoding()
		a.encoder = nil
	}
	a.encodeErr = nil
}

// WaitIdle waits for every submission to complete.
func (a *HALAdapter) WaitIdle() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.waitLocked()
}

// waitLocked blocks until the device is idle and frees all in-flight
// command buffers. Must be called with mu held.
func (a *HALAdapter) waitLocked() error {
	if err := a.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	a.reclaimLocked(^uint64(0))
	return nil
}

// reclaimLocked frees command buffers whose submission index is at most
// done. Must be called with mu held.
func (a *HALAdapter) reclaimLocked(done uint64) {
	kept := a.inflight[:0]
	for _, f := range a.inflight {
		if f.index <= done {
			a.device.FreeCommandBuffer(f.cmd)
			continue
		}
		kept = append(kept, f)
	}
	clear(a.inflight[len(kept):])
	a.inflight = kept
}

// InFlight returns the number of submissions not yet known to be complete.
func (a *HALAdapter) InFlight() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.inflight)
}

// Release waits for outstanding work and destroys every tracked resource.
// Registered views are forgotten, not destroyed.
func (a *HALAdapter) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.discardLocked()
	err := a.waitLocked()

	for id, g := range a.bindGroups {
		a.device.DestroyBindGroup(g)
		delete(a.bindGroups, id)
	}
	for id, p := range a.renderPipelines {
		a.device.DestroyRenderPipeline(p)
		delete(a.renderPipelines, id)
	}
	for id, p := range a.computePipelines {
		a.device.DestroyComputePipeline(p)
		delete(a.computePipelines, id)
	}
	for id, l := range a.pipelineLayouts {
		a.device.DestroyPipelineLayout(l)
		delete(a.pipelineLayouts, id)
	}
	for id, l := range a.bindGroupLayouts {
		a.device.DestroyBindGroupLayout(l)
		delete(a.bindGroupLayouts, id)
	}
	for id, m := range a.shaderModules {
		a.device.DestroyShaderModule(m)
		delete(a.shaderModules, id)
	}
	for id, b := range a.buffers {
		a.device.DestroyBuffer(b)
		delete(a.buffers, id)
	}
	clear(a.views)

	return err
}

// === Pass Encoders ===

// halComputePassEncoder implements gpucore.ComputePassEncoder.
type halComputePassEncoder struct {
	adapter *HALAdapter
	pass    hal.ComputePassEncoder
}

// SetPipeline sets the active compute pipeline.
func (e *halComputePassEncoder) SetPipeline(pipeline gpucore.ComputePipelineID) {
	if e.pass == nil {
		return
	}

	e.adapter.mu.RLock()
	halPipeline, ok := e.adapter.computePipelines[pipeline]
	e.adapter.mu.RUnlock()

	if ok {
		e.pass.SetPipeline(halPipeline)
	}
}

// SetBindGroup sets a bind group at the specified index.
func (e *halComputePassEncoder) SetBindGroup(index uint32, group gpucore.BindGroupID) {
	if e.pass == nil {
		return
	}

	e.adapter.mu.RLock()
	halGroup, ok := e.adapter.bindGroups[group]
	e.adapter.mu.RUnlock()

	if ok {
		e.pass.SetBindGroup(index, halGroup, nil)
	}
}

// Dispatch dispatches compute workgroups.
func (e *halComputePassEncoder) Dispatch(x, y, z uint32) {
	if e.pass == nil {
		return
	}
	e.pass.Dispatch(x, y, z)
}

// End finishes the compute pass.
func (e *halComputePassEncoder) End() {
	if e.pass == nil {
		return
	}
	e.pass.End()
}

// halRenderPassEncoder implements gpucore.RenderPassEncoder.
type halRenderPassEncoder struct {
	adapter *HALAdapter
	pass    hal.RenderPassEncoder
}

// SetPipeline sets the active render pipeline.
func (e *halRenderPassEncoder) SetPipeline(pipeline gpucore.RenderPipelineID) {
	if e.pass == nil {
		return
	}

	e.adapter.mu.RLock()
	halPipeline, ok := e.adapter.renderPipelines[pipeline]
	e.adapter.mu.RUnlock()

	if ok {
		e.pass.SetPipeline(halPipeline)
	}
}

// SetBindGroup sets a bind group at the specified index.
func (e *halRenderPassEncoder) SetBindGroup(index uint32, group gpucore.BindGroupID) {
	if e.pass == nil {
		return
	}

	e.adapter.mu.RLock()
	halGroup, ok := e.adapter.bindGroups[group]
	e.adapter.mu.RUnlock()

	if ok {
		e.pass.SetBindGroup(index, halGroup, nil)
	}
}

// SetVertexBuffer binds a vertex buffer to a slot.
func (e *halRenderPassEncoder) SetVertexBuffer(slot uint32, buffer gpucore.BufferID, offset uint64) {
	if e.pass == nil {
		return
	}

	e.adapter.mu.RLock()
	halBuffer, ok := e.adapter.buffers[buffer]
	e.adapter.mu.RUnlock()

	if ok {
		e.pass.SetVertexBuffer(slot, halBuffer, offset)
	}
}

// Draw issues an instanced draw.
func (e *halRenderPassEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if e.pass == nil {
		return
	}
	e.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

// End finishes the render pass.
func (e *halRenderPassEncoder) End() {
	if e.pass == nil {
		return
	}
	e.pass.End()
}
