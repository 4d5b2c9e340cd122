// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rule

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows is the smallest band of rows worth a goroutine.
const minBandRows = 16

// StepParallel is Step split into row bands computed by up to workers
// goroutines. workers <= 0 uses GOMAXPROCS. It returns ctx's error if ctx
// is canceled before every band was started; dst is then incomplete.
func (r Rule) StepParallel(ctx context.Context, dst, src []uint32, n, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bands := min(workers, max(1, n/minBandRows))
	if bands == 1 {
		r.Step(dst, src, n)
		return ctx.Err()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	rows := (n + bands - 1) / bands
	for y0 := 0; y0 < n; y0 += rows {
		if err := ctx.Err(); err != nil {
			break
		}
		y1 := min(y0+rows, n)
		g.Go(func() error {
			r.stepRows(dst, src, n, y0, y1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
