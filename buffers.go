// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/cellgrid/gpucore"
)

// Generation buffer slots.
const (
	GenerationA = 0
	GenerationB = 1
)

// Usage flags by binding role. Generation buffers are copy sources so they
// can be read back for verification.
const (
	uniformUsage    = gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst
	generationUsage = gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst | gpucore.BufferUsageCopySrc
)

// SeedGeneration returns the initial contents of a generation buffer.
// Slot A is alive everywhere; slot B is alive where the linear index is even.
func SeedGeneration(cells uint32, slot int) []uint32 {
	out := make([]uint32, cells)
	for i := range out {
		if slot == GenerationA || i%2 == 0 {
			out[i] = 1
		}
	}
	return out
}

// UniformBytes encodes the (width, height) uniform as two little-endian
// float32 values.
func UniformBytes(g Grid) []byte {
	b := make([]byte, 0, 8)
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(g.Size)))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(g.Size)))
	return b
}

// EncodeCells packs activation values as little-endian u32.
func EncodeCells(cells []uint32) []byte {
	b := make([]byte, 0, len(cells)*CellBytes)
	for _, c := range cells {
		b = binary.LittleEndian.AppendUint32(b, c)
	}
	return b
}

// DecodeCells unpacks little-endian u32 activation values.
func DecodeCells(b []byte) []uint32 {
	out := make([]uint32, len(b)/CellBytes)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*CellBytes:])
	}
	return out
}

// SimulationBuffers owns the two generation buffers and the dimensions
// uniform. Buffers are created once and never resized.
type SimulationBuffers struct {
	gpu  gpucore.GPUAdapter
	grid Grid

	// Uniform holds (N, N) as float32.
	Uniform gpucore.BufferID

	// Generations holds A at index 0 and B at index 1.
	Generations [2]gpucore.BufferID
}

// NewSimulationBuffers allocates and seeds the generation buffers and the
// uniform for grid. On error nothing is left allocated.
func NewSimulationBuffers(gpu gpucore.GPUAdapter, grid Grid) (*SimulationBuffers, error) {
	if grid.Size == 0 {
		return nil, fmt.Errorf("%w: grid size must be positive", ErrInvalidConfig)
	}
	size := grid.GenerationBytes()
	if limit := gpu.MaxBufferSize(); limit > 0 && uint64(size) > limit {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrBufferTooLarge, size, limit)
	}

	b := &SimulationBuffers{gpu: gpu, grid: grid}

	uniform := UniformBytes(grid)
	id, err := gpu.CreateBuffer("Grid uniforms", len(uniform), uniformUsage)
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	b.Uniform = id
	gpu.WriteBuffer(b.Uniform, 0, uniform)

	labels := [2]string{"Activation storage A", "Activation storage B"}
	for slot := range b.Generations {
		id, err := gpu.CreateBuffer(labels[slot], size, generationUsage)
		if err != nil {
			b.Destroy()
			return nil, fmt.Errorf("create generation buffer %d: %w", slot, err)
		}
		b.Generations[slot] = id
		gpu.WriteBuffer(id, 0, EncodeCells(SeedGeneration(grid.Cells(), slot)))
	}

	Logger().Debug("cellgrid: simulation buffers created",
		"grid", grid.Size, "generation_bytes", size)
	return b, nil
}

// Grid returns the grid the buffers were sized for.
func (b *SimulationBuffers) Grid() Grid {
	return b.grid
}

// ReadGeneration reads a generation buffer back from the GPU.
func (b *SimulationBuffers) ReadGeneration(slot int) ([]uint32, error) {
	if slot != GenerationA && slot != GenerationB {
		return nil, fmt.Errorf("cellgrid: generation slot %d out of range", slot)
	}
	data, err := b.gpu.ReadBuffer(b.Generations[slot], 0, uint64(b.grid.GenerationBytes()))
	if err != nil {
		return nil, fmt.Errorf("read generation %d: %w", slot, err)
	}
	return DecodeCells(data), nil
}

// Destroy releases all buffers. Safe to call more than once.
func (b *SimulationBuffers) Destroy() {
	for slot, id := range b.Generations {
		if id != gpucore.InvalidID {
			b.gpu.DestroyBuffer(id)
			b.Generations[slot] = gpucore.InvalidID
		}
	}
	if b.Uniform != gpucore.InvalidID {
		b.gpu.DestroyBuffer(b.Uniform)
		b.Uniform = gpucore.InvalidID
	}
}
