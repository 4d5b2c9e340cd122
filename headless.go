// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/gogpu/cellgrid/internal/image"
)

// HeadlessOptions configure RunHeadless.
type HeadlessOptions struct {
	// Steps is the number of generations to compute. Zero runs until ctx
	// is canceled.
	Steps uint64

	// Verify reads every new generation back and compares it with the
	// rule evaluated on the CPU.
	Verify bool

	// SnapshotPath, when set, receives a PNG of the final generation at the
	// surface size.
	SnapshotPath string

	// CellPixels is the cell edge used to render the snapshot before it is
	// stretched to the surface size.
	CellPixels int

	// LoopOptions are passed to the frame loop. The step interval is
	// always zero; RunHeadless paces steps itself.
	LoopOptions []LoopOption
}

// HeadlessReport summarizes a headless run.
type HeadlessReport struct {
	Steps      uint64
	Parity     Parity
	Verified   uint64
	Mismatches uint64
	Elapsed    time.Duration
	Snapshot   string
}

// RunHeadless steps a simulation built on c without a window. Steps are
// issued every cfg.StepInterval, or back to back when the interval is zero.
// The simulation is closed on return; c is not.
//
// A canceled ctx ends the run early and its error is returned with the
// report of the steps completed so far.
func RunHeadless(ctx context.Context, c *Context, cfg Config, opts HeadlessOptions) (report HeadlessReport, err error) {
	sim, err := NewSimulation(c, cfg)
	if err != nil {
		return report, err
	}
	defer func() {
		if cerr := sim.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	loopOpts := append(slices.Clone(opts.LoopOptions), WithStepInterval(0))
	loop := NewFrameLoop(sim, loopOpts...)

	var tick <-chan time.Time
	if cfg.StepInterval > 0 {
		t := time.NewTicker(cfg.StepInterval)
		defer t.Stop()
		tick = t.C
	}

	start := time.Now()
	defer func() {
		report.Steps = loop.Steps()
		report.Parity = loop.Parity()
		report.Elapsed = time.Since(start)
	}()

	for opts.Steps == 0 || loop.Steps() < opts.Steps {
		if tick != nil {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return report, err
		}

		var prev []uint32
		if opts.Verify {
			if prev, err = sim.Buffers.ReadGeneration(loop.Parity().Input()); err != nil {
				return report, err
			}
		}

		if loop.Handle(RedrawEvent()) == ActionExit {
			return report, loop.Err()
		}

		if opts.Verify {
			ok, err := verifyStep(ctx, sim, cfg, prev, loop.Parity())
			if err != nil {
				return report, err
			}
			report.Verified++
			if !ok {
				report.Mismatches++
				Logger().Warn("cellgrid: generation differs from CPU reference",
					"step", loop.Steps(), "parity", loop.Parity())
			}
		}
	}

	if opts.SnapshotPath != "" {
		if err := saveSnapshot(sim, loop, opts); err != nil {
			return report, err
		}
		report.Snapshot = opts.SnapshotPath
	}
	return report, nil
}

// verifyStep compares the generation at parity.Input(), the newest one,
// with cfg.Rule applied to prev.
func verifyStep(ctx context.Context, sim *Simulation, cfg Config, prev []uint32, parity Parity) (bool, error) {
	got, err := sim.Buffers.ReadGeneration(parity.Input())
	if err != nil {
		return false, err
	}
	want := make([]uint32, len(prev))
	if err := cfg.Rule.StepParallel(ctx, want, prev, int(cfg.GridSize), 0); err != nil {
		return false, err
	}
	return slices.Equal(got, want), nil
}

func saveSnapshot(sim *Simulation, loop *FrameLoop, opts HeadlessOptions) error {
	cells, err := sim.Buffers.ReadGeneration(loop.Parity().Input())
	if err != nil {
		return err
	}
	sc := sim.Context().SurfaceConfig()
	img, err := image.Snapshot(cells, int(sim.Grid().Size), int(sc.Width), int(sc.Height), image.Options{
		CellPixels: opts.CellPixels,
		Format:     sc.Format,
		Caption:    fmt.Sprintf("gen %d", loop.Steps()),
	})
	if err != nil {
		return fmt.Errorf("cellgrid: snapshot: %w", err)
	}
	if err := image.SavePNG(opts.SnapshotPath, img); err != nil {
		return fmt.Errorf("cellgrid: snapshot: %w", err)
	}
	Logger().Info("cellgrid: snapshot saved", "path", opts.SnapshotPath, "step", loop.Steps())
	return nil
}
