// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/cellgrid/rule"
)

var errInjected = errors.New("injected failure")

// fakeOp is one recorded command.
type fakeOp struct {
	kind      string // "compute" or "render"
	pipeline  uint64
	group     gpucore.BindGroupID
	dispatch  [3]uint32
	view      gpucore.TextureViewID
	vertexBuf gpucore.BufferID
	vertices  uint32
	instances uint32
	clear     gpucore.Color
}

type fakeBuffer struct {
	label string
	usage gpucore.BufferUsage
	data  []byte
}

type fakeBindGroup struct {
	label   string
	layout  gpucore.BindGroupLayoutID
	entries []gpucore.BindGroupEntry
}

// fakeGPU is a recording gpucore.GPUAdapter. Submitted compute dispatches
// are executed on the CPU with a rule so tests can observe generations.
type fakeGPU struct {
	nextID       uint64
	compute      bool
	maxBuffer    uint64
	maxWorkgroup [3]uint32
	rule         rule.Rule

	buffers          map[gpucore.BufferID]*fakeBuffer
	modules          map[gpucore.ShaderModuleID]gpucore.ShaderModuleDesc
	layouts          map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDesc
	pipelineLayouts  map[gpucore.PipelineLayoutID][]gpucore.BindGroupLayoutID
	computePipelines map[gpucore.ComputePipelineID]gpucore.ComputePipelineDesc
	renderPipelines  map[gpucore.RenderPipelineID]gpucore.RenderPipelineDesc
	bindGroups       map[gpucore.BindGroupID]fakeBindGroup

	pending   []fakeOp
	submitted [][]fakeOp
	discarded int
	waitIdle  int

	// barriers holds the buffers of every StorageBarrier call, in order.
	barriers [][]gpucore.BufferID

	// failOn makes the named method return errInjected.
	failOn    string
	submitErr error
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{
		nextID:           1,
		compute:          true,
		maxBuffer:        1 << 28,
		maxWorkgroup:     [3]uint32{256, 256, 64},
		rule:             rule.Conway,
		buffers:          make(map[gpucore.BufferID]*fakeBuffer),
		modules:          make(map[gpucore.ShaderModuleID]gpucore.ShaderModuleDesc),
		layouts:          make(map[gpucore.BindGroupLayoutID]gpucore.BindGroupLayoutDesc),
		pipelineLayouts:  make(map[gpucore.PipelineLayoutID][]gpucore.BindGroupLayoutID),
		computePipelines: make(map[gpucore.ComputePipelineID]gpucore.ComputePipelineDesc),
		renderPipelines:  make(map[gpucore.RenderPipelineID]gpucore.RenderPipelineDesc),
		bindGroups:       make(map[gpucore.BindGroupID]fakeBindGroup),
	}
}

func (g *fakeGPU) id() uint64 {
	id := g.nextID
	g.nextID++
	return id
}

// live returns the number of resources not yet destroyed.
func (g *fakeGPU) live() int {
	return len(g.buffers) + len(g.modules) + len(g.layouts) + len(g.pipelineLayouts) +
		len(g.computePipelines) + len(g.renderPipelines) + len(g.bindGroups)
}

func (g *fakeGPU) SupportsCompute() bool       { return g.compute }
func (g *fakeGPU) MaxWorkgroupSize() [3]uint32 { return g.maxWorkgroup }
func (g *fakeGPU) MaxBufferSize() uint64       { return g.maxBuffer }

func (g *fakeGPU) CreateShaderModule(desc *gpucore.ShaderModuleDesc) (gpucore.ShaderModuleID, error) {
	if g.failOn == "CreateShaderModule" {
		return gpucore.InvalidID, errInjected
	}
	id := gpucore.ShaderModuleID(g.id())
	g.modules[id] = *desc
	return id, nil
}

func (g *fakeGPU) DestroyShaderModule(id gpucore.ShaderModuleID) { delete(g.modules, id) }

func (g *fakeGPU) CreateBuffer(label string, size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if g.failOn == "CreateBuffer" || g.failOn == "CreateBuffer:"+label {
		return gpucore.InvalidID, errInjected
	}
	id := gpucore.BufferID(g.id())
	g.buffers[id] = &fakeBuffer{label: label, usage: usage, data: make([]byte, size)}
	return id, nil
}

func (g *fakeGPU) DestroyBuffer(id gpucore.BufferID) { delete(g.buffers, id) }

func (g *fakeGPU) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	if b, ok := g.buffers[id]; ok {
		copy(b.data[offset:], data)
	}
}

func (g *fakeGPU) ReadBuffer(id gpucore.BufferID, offset, size uint64) ([]byte, error) {
	b, ok := g.buffers[id]
	if !ok {
		return nil, fmt.Errorf("buffer %d not found", id)
	}
	out := make([]byte, size)
	copy(out, b.data[offset:offset+size])
	return out, nil
}

func (g *fakeGPU) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	if g.failOn == "CreateBindGroupLayout" {
		return gpucore.InvalidID, errInjected
	}
	id := gpucore.BindGroupLayoutID(g.id())
	g.layouts[id] = *desc
	return id, nil
}

func (g *fakeGPU) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) { delete(g.layouts, id) }

func (g *fakeGPU) CreatePipelineLayout(_ string, layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	if g.failOn == "CreatePipelineLayout" {
		return gpucore.InvalidID, errInjected
	}
	id := gpucore.PipelineLayoutID(g.id())
	g.pipelineLayouts[id] = layouts
	return id, nil
}

func (g *fakeGPU) DestroyPipelineLayout(id gpucore.PipelineLayoutID) { delete(g.pipelineLayouts, id) }

func (g *fakeGPU) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	if g.failOn == "CreateComputePipeline" {
		return gpucore.InvalidID, errInjected
	}
	id := gpucore.ComputePipelineID(g.id())
	g.computePipelines[id] = *desc
	return id, nil
}

func (g *fakeGPU) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	delete(g.computePipelines, id)
}

func (g *fakeGPU) CreateRenderPipeline(desc *gpucore.RenderPipelineDesc) (gpucore.RenderPipelineID, error) {
	if g.failOn == "CreateRenderPipeline" {
		return gpucore.InvalidID, errInjected
	}
	id := gpucore.RenderPipelineID(g.id())
	g.renderPipelines[id] = *desc
	return id, nil
}

func (g *fakeGPU) DestroyRenderPipeline(id gpucore.RenderPipelineID) { delete(g.renderPipelines, id) }

func (g *fakeGPU) CreateBindGroup(label string, layout gpucore.BindGroupLayoutID, entries []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	if g.failOn == "CreateBindGroup" {
		return gpucore.InvalidID, errInjected
	}
	if _, ok := g.layouts[layout]; !ok {
		return gpucore.InvalidID, fmt.Errorf("bind group layout %d not found", layout)
	}
	id := gpucore.BindGroupID(g.id())
	g.bindGroups[id] = fakeBindGroup{label: label, layout: layout, entries: entries}
	return id, nil
}

func (g *fakeGPU) DestroyBindGroup(id gpucore.BindGroupID) { delete(g.bindGroups, id) }

func (g *fakeGPU) BeginComputePass(string) gpucore.ComputePassEncoder {
	return &fakeComputePass{gpu: g, op: fakeOp{kind: "compute"}}
}

func (g *fakeGPU) BeginRenderPass(desc *gpucore.RenderPassDesc) gpucore.RenderPassEncoder {
	return &fakeRenderPass{gpu: g, op: fakeOp{kind: "render", view: desc.ColorView, clear: desc.ClearColor}}
}

func (g *fakeGPU) StorageBarrier(buffers ...gpucore.BufferID) {
	g.barriers = append(g.barriers, append([]gpucore.BufferID(nil), buffers...))
}

func (g *fakeGPU) Submit() error {
	if g.submitErr != nil {
		g.pending = nil
		return g.submitErr
	}
	ops := g.pending
	g.pending = nil
	for _, op := range ops {
		if op.kind == "compute" {
			g.execute(op)
		}
	}
	g.submitted = append(g.submitted, ops)
	return nil
}

func (g *fakeGPU) DiscardPending() {
	g.pending = nil
	g.discarded++
}

func (g *fakeGPU) WaitIdle() error {
	g.waitIdle++
	return nil
}

// execute runs a dispatch on the CPU. An empty dispatch does nothing.
func (g *fakeGPU) execute(op fakeOp) {
	if op.dispatch[0]*op.dispatch[1]*op.dispatch[2] == 0 {
		return
	}
	bg := g.bindGroups[op.group]
	var uniform, in, out *fakeBuffer
	for _, e := range bg.entries {
		switch e.Binding {
		case BindingUniform:
			uniform = g.buffers[e.Buffer]
		case BindingInput:
			in = g.buffers[e.Buffer]
		case BindingOutput:
			out = g.buffers[e.Buffer]
		}
	}
	n := int(math.Float32frombits(binary.LittleEndian.Uint32(uniform.data)))
	dst := make([]uint32, n*n)
	g.rule.Step(dst, DecodeCells(in.data), n)
	copy(out.data, EncodeCells(dst))
}

// ops returns all submitted ops flattened.
func (g *fakeGPU) ops() []fakeOp {
	var all []fakeOp
	for _, s := range g.submitted {
		all = append(all, s...)
	}
	return all
}

type fakeComputePass struct {
	gpu *fakeGPU
	op  fakeOp
}

func (p *fakeComputePass) SetPipeline(id gpucore.ComputePipelineID) { p.op.pipeline = uint64(id) }
func (p *fakeComputePass) SetBindGroup(_ uint32, g gpucore.BindGroupID) {
	p.op.group = g
}
func (p *fakeComputePass) Dispatch(x, y, z uint32) { p.op.dispatch = [3]uint32{x, y, z} }
func (p *fakeComputePass) End()                    { p.gpu.pending = append(p.gpu.pending, p.op) }

type fakeRenderPass struct {
	gpu *fakeGPU
	op  fakeOp
}

func (p *fakeRenderPass) SetPipeline(id gpucore.RenderPipelineID) { p.op.pipeline = uint64(id) }
func (p *fakeRenderPass) SetBindGroup(_ uint32, g gpucore.BindGroupID) {
	p.op.group = g
}
func (p *fakeRenderPass) SetVertexBuffer(_ uint32, b gpucore.BufferID, _ uint64) {
	p.op.vertexBuf = b
}
func (p *fakeRenderPass) Draw(vertices, instances, _, _ uint32) {
	p.op.vertices = vertices
	p.op.instances = instances
}
func (p *fakeRenderPass) End() { p.gpu.pending = append(p.gpu.pending, p.op) }

// fakeSurface is a recording gpucore.Surface.
type fakeSurface struct {
	format       gpucore.TextureFormat
	config       gpucore.SurfaceConfig
	configured   int
	configureErr error
	acquireErr   error
	nextView     gpucore.TextureViewID
	acquired     int
	presented    int
	released     bool
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{format: gpucore.TextureFormatRGBA8UnormSRGB, nextView: 100}
}

func (s *fakeSurface) DefaultConfig(w, h uint32) (gpucore.SurfaceConfig, error) {
	return gpucore.SurfaceConfig{Width: w, Height: h, Format: s.format, PresentMode: gpucore.PresentModeFifo}, nil
}

func (s *fakeSurface) Configure(cfg gpucore.SurfaceConfig) error {
	if s.configureErr != nil {
		return s.configureErr
	}
	s.config = cfg
	s.configured++
	return nil
}

func (s *fakeSurface) AcquireTexture() (gpucore.TextureViewID, error) {
	if s.acquireErr != nil {
		return gpucore.InvalidID, s.acquireErr
	}
	s.acquired++
	s.nextView++
	return s.nextView, nil
}

func (s *fakeSurface) Present() error {
	s.presented++
	return nil
}

func (s *fakeSurface) Release() { s.released = true }

// manualClock is a Clock advanced by hand.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
