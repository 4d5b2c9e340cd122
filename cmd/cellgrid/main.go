// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Command cellgrid runs a GPU cellular automaton in a window, or headless on
// an offscreen surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/backend"
	_ "github.com/gogpu/cellgrid/backend/wgpu" // Register the vulkan and noop backends
	"github.com/gogpu/cellgrid/integration/gogpuapp"
	"github.com/gogpu/cellgrid/internal/metrics"
)

// errVerify is returned when a headless run found generations that differ
// from the CPU reference.
var errVerify = errors.New("generation verification failed")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "cellgrid:", err)
		return 2
	}

	runID := uuid.New().String()
	cellgrid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: opts.logLevel,
	})).With("run", runID))

	if opts.listAdapters {
		if err := writeAdapters(os.Stdout, collectAdapters()); err != nil {
			fmt.Fprintln(os.Stderr, "cellgrid:", err)
			return 1
		}
		return 0
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	obs := metrics.NewObserver(runID)
	g, gctx := errgroup.WithContext(ctx)
	if opts.metricsAddr != "" {
		serveMetrics(gctx, g, opts.metricsAddr, obs)
	}

	var runErr error
	if opts.headless {
		g.Go(func() error {
			defer cancel()
			return runHeadless(gctx, opts, runID, obs)
		})
	} else {
		// The window must own the main goroutine.
		runErr = gogpuapp.New(opts.cfg, cellgrid.WithObserver(obs)).Run()
		cancel()
	}

	if err := errors.Join(runErr, g.Wait()); err != nil {
		cellgrid.Logger().Warn("cellgrid: exiting with error", "err", err)
		fmt.Fprintln(os.Stderr, "cellgrid:", err)
		return 1
	}
	return 0
}

// serveMetrics runs the metrics server in g until ctx is done.
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, obs *metrics.Observer) {
	srv := metrics.NewServer(addr, obs.Registry())
	g.Go(func() error {
		cellgrid.Logger().Info("cellgrid: serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func runHeadless(ctx context.Context, opts options, runID string, obs *metrics.Observer) error {
	cfg := opts.cfg
	dev, err := backend.Open(opts.backend)
	if err != nil {
		return err
	}
	cellgrid.Logger().Info("cellgrid: headless device", "adapter", dev.Info().String())

	surface, err := dev.NewSurface(cfg.Width, cfg.Height)
	if err != nil {
		return errors.Join(err, dev.Close())
	}
	c, err := cellgrid.NewContext(dev.GPU(), surface, cfg.Width, cfg.Height,
		cellgrid.WithOwnedDevice(dev),
		cellgrid.WithPresentMode(cfg.PresentMode))
	if err != nil {
		return err
	}

	report, err := cellgrid.RunHeadless(ctx, c, cfg, cellgrid.HeadlessOptions{
		Steps:        opts.steps,
		Verify:       opts.verify,
		SnapshotPath: opts.snapshot,
		CellPixels:   opts.scale,
		LoopOptions:  []cellgrid.LoopOption{cellgrid.WithObserver(obs)},
	})
	err = errors.Join(ignoreCanceled(err), c.Close())
	if werr := writeReport(os.Stdout, runID, cfg, report); werr != nil {
		err = errors.Join(err, werr)
	}
	if err == nil && report.Mismatches > 0 {
		err = fmt.Errorf("%w: %d of %d generations", errVerify, report.Mismatches, report.Verified)
	}
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// collectAdapters enumerates the adapters of every registered backend.
func collectAdapters() []adapterRow {
	var rows []adapterRow
	for _, name := range backend.Available() {
		b := backend.Get(name)
		if b == nil {
			continue
		}
		infos, err := b.Adapters()
		if err != nil {
			rows = append(rows, adapterRow{backend: name, err: err})
			continue
		}
		for _, info := range infos {
			rows = append(rows, adapterRow{backend: name, info: info})
		}
	}
	return rows
}
