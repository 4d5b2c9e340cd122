// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gogpuapp

import (
	"github.com/gogpu/cellgrid"
	"github.com/gogpu/gpucontext"
)

// mapKey translates a window key to a frame loop key.
func mapKey(k gpucontext.Key) cellgrid.Key {
	switch k {
	case gpucontext.KeyEscape:
		return cellgrid.KeyEscape
	default:
		return cellgrid.KeyUnknown
	}
}
