// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"fmt"

	"github.com/gogpu/cellgrid/gpucore"
)

// Binding slots of the shared layout.
const (
	BindingUniform = 0
	BindingInput   = 1
	BindingOutput  = 2
)

// Bindings names the buffers bound by one bind group.
type Bindings struct {
	Uniform gpucore.BufferID
	Input   gpucore.BufferID
	Output  gpucore.BufferID
}

// BindGroupPair holds the two precomputed bind groups: index 0 binds
// (uniform, A, B) and index 1 binds (uniform, B, A). No other order exists.
type BindGroupPair struct {
	gpu      gpucore.GPUAdapter
	groups   [2]gpucore.BindGroupID
	bindings [2]Bindings
}

// BuildBindGroupPair creates both bind groups against layout.
func BuildBindGroupPair(gpu gpucore.GPUAdapter, layout gpucore.BindGroupLayoutID, uniform, genA, genB gpucore.BufferID) (*BindGroupPair, error) {
	p := &BindGroupPair{
		gpu: gpu,
		bindings: [2]Bindings{
			{Uniform: uniform, Input: genA, Output: genB},
			{Uniform: uniform, Input: genB, Output: genA},
		},
	}

	labels := [2]string{"Cell bind group A", "Cell bind group B"}
	for i, b := range p.bindings {
		id, err := gpu.CreateBindGroup(labels[i], layout, []gpucore.BindGroupEntry{
			{Binding: BindingUniform, Buffer: b.Uniform},
			{Binding: BindingInput, Buffer: b.Input},
			{Binding: BindingOutput, Buffer: b.Output},
		})
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("create bind group %d: %w", i, err)
		}
		p.groups[i] = id
	}
	return p, nil
}

// Select returns the bind group for parity p.
func (p *BindGroupPair) Select(parity Parity) gpucore.BindGroupID {
	return p.groups[parity]
}

// Bindings returns the buffers bound under parity p.
func (p *BindGroupPair) Bindings(parity Parity) Bindings {
	return p.bindings[parity]
}

// Destroy releases both bind groups.
func (p *BindGroupPair) Destroy() {
	for i, id := range p.groups {
		if id != gpucore.InvalidID {
			p.gpu.DestroyBindGroup(id)
			p.groups[i] = gpucore.InvalidID
		}
	}
}
