// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import "github.com/gogpu/cellgrid/shaders"

// CellBytes is the size of one cell activation value.
const CellBytes = 4

// Grid is the logical N×N cell field.
type Grid struct {
	Size uint32
}

// Cells returns N·N, the element count of each generation buffer and the
// instance count of the draw call.
func (g Grid) Cells() uint32 {
	return g.Size * g.Size
}

// GenerationBytes returns the byte size of one generation buffer.
func (g Grid) GenerationBytes() int {
	return int(g.Cells()) * CellBytes
}

// Workgroups returns the compute dispatch size covering the grid with
// 8×8 workgroups: ceil(N/8) in x and y, and z as given.
func (g Grid) Workgroups(z uint32) (x, y, zOut uint32) {
	n := (g.Size + shaders.WorkgroupSize - 1) / shaders.WorkgroupSize
	return n, n, z
}
