// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package image renders generations on the CPU the way the cell shader
// draws them, for snapshots and headless runs.
//
// A live cell is a quad covering the middle 80% of its cell, colored from
// its grid position: red = x/N, green = y/N, blue = 1 - x/N. Dead cells are
// left at the black clear color. Row 0 is at the bottom, as in clip space.
package image

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/cellgrid/internal/color"
)

// DefaultCellPixels is the edge of one cell in a rendering.
const DefaultCellPixels = 10

// quadInset is the fraction of a cell edge left empty on each side.
const quadInset = 0.1

// ErrCellCount is returned when a generation does not hold N·N cells.
var ErrCellCount = errors.New("image: cell count does not match grid size")

// Options control a rendering.
type Options struct {
	// CellPixels is the edge of one cell in pixels. Zero means
	// DefaultCellPixels.
	CellPixels int

	// Format is the attachment format to emulate. Zero means
	// gpucore.TextureFormatRGBA8UnormSRGB.
	Format gpucore.TextureFormat

	// Caption is drawn in the top-left corner when non-empty.
	Caption string
}

func (o Options) cellPixels() int {
	if o.CellPixels <= 0 {
		return DefaultCellPixels
	}
	return o.CellPixels
}

func (o Options) encoding() color.Encoding {
	if o.Format == gpucore.TextureFormatUndefined {
		return color.LinearToSRGB
	}
	return color.ForFormat(o.Format)
}

// CellColor returns the stored color of a live cell at (x, y) on an n×n grid.
func CellColor(x, y, n int, enc color.Encoding) stdcolor.RGBA {
	fx := float32(x) / float32(n)
	fy := float32(y) / float32(n)
	return stdcolor.RGBA{R: enc(fx), G: enc(fy), B: enc(1 - fx), A: 255}
}

// Render draws an n×n generation at opts.CellPixels per cell.
func Render(cells []uint32, n int, opts Options) (*image.RGBA, error) {
	if n <= 0 || len(cells) != n*n {
		return nil, fmt.Errorf("%w: %d cells for N=%d", ErrCellCount, len(cells), n)
	}
	px := opts.cellPixels()
	enc := opts.encoding()

	size := n * px
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	lo, hi := coveredRange(px)
	for y := 0; y < n; y++ {
		top := (n - 1 - y) * px
		for x := 0; x < n; x++ {
			if cells[y*n+x] == 0 {
				continue
			}
			quad := image.Rect(x*px+lo, top+lo, x*px+hi, top+hi)
			draw.Draw(img, quad, image.NewUniform(CellColor(x, y, n, enc)), image.Point{}, draw.Src)
		}
	}

	if opts.Caption != "" {
		DrawCaption(img, opts.Caption)
	}
	return img, nil
}

// coveredRange returns the pixel span [lo, hi) of a quad inside a cell of
// px pixels: pixels whose centers fall within the inset quad.
func coveredRange(px int) (lo, hi int) {
	lo, hi = px, 0
	for i := 0; i < px; i++ {
		c := (float64(i) + 0.5) / float64(px)
		if c >= quadInset && c < 1-quadInset {
			lo = min(lo, i)
			hi = max(hi, i+1)
		}
	}
	if hi <= lo {
		return 0, 0
	}
	return lo, hi
}

// Snapshot renders a generation stretched to a width×height surface, as the
// render pass does. The grid is rendered at opts.CellPixels per cell and
// resampled with nearest-neighbor filtering; the caption is drawn after
// resampling.
func Snapshot(cells []uint32, n, width, height int, opts Options) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image: snapshot size %dx%d must be positive", width, height)
	}
	caption := opts.Caption
	opts.Caption = ""

	src, err := Render(cells, n, opts)
	if err != nil {
		return nil, err
	}
	dst := src
	if src.Bounds().Dx() != width || src.Bounds().Dy() != height {
		dst = image.NewRGBA(image.Rect(0, 0, width, height))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	if caption != "" {
		DrawCaption(dst, caption)
	}
	return dst, nil
}
