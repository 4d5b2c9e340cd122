// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/cellgrid"
	"github.com/gogpu/cellgrid/gpucore"
	"github.com/gogpu/cellgrid/rule"
)

// options is the parsed command line.
type options struct {
	cfg cellgrid.Config

	headless     bool
	steps        uint64
	verify       bool
	snapshot     string
	scale        int
	backend      string
	listAdapters bool
	metricsAddr  string
	logLevel     slog.Level
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	def := cellgrid.DefaultConfig()
	fs := flag.NewFlagSet("cellgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		size      = fs.Uint("size", uint(def.GridSize), "grid edge N (N×N cells)")
		interval  = fs.Duration("interval", def.StepInterval, "minimum time between steps")
		ruleStr   = fs.String("rule", def.Rule.Notation(), "transition rule in B/S notation")
		edges     = fs.String("edges", def.Rule.Edges.String(), "edge handling: wrap or dead")
		dispatchZ = fs.Uint("dispatch-z", uint(def.DispatchZ), "z workgroup count of the compute dispatch (0 dispatches nothing)")
		width     = fs.Uint("width", uint(def.Width), "surface width in pixels")
		height    = fs.Uint("height", uint(def.Height), "surface height in pixels")
		title     = fs.String("title", def.Title, "window title")
		precomp   = fs.Bool("precompile", false, "compile shaders to SPIR-V with naga before module creation")
		mailbox   = fs.Bool("mailbox", false, "use mailbox presentation instead of fifo")
		logLevel  = fs.String("log-level", "info", "log level: debug, info, warn or error")
	)

	var o options
	fs.BoolVar(&o.headless, "headless", false, "run without a window on an offscreen surface")
	fs.Uint64Var(&o.steps, "steps", 10, "headless: number of steps (0 runs until interrupted)")
	fs.BoolVar(&o.verify, "verify", false, "headless: check every generation against the CPU rule")
	fs.StringVar(&o.snapshot, "snapshot", "", "headless: write the final generation to this PNG file")
	fs.IntVar(&o.scale, "scale", 0, "headless: snapshot pixels per cell before stretching to the surface (0 = default)")
	fs.StringVar(&o.backend, "backend", "", "headless: GPU backend (vulkan, noop; empty picks the best available)")
	fs.BoolVar(&o.listAdapters, "list-adapters", false, "list GPU adapters of every backend and exit")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *size > cellgrid.MaxGridSize {
		return options{}, fmt.Errorf("%w: grid size %d exceeds %d", cellgrid.ErrInvalidConfig, *size, cellgrid.MaxGridSize)
	}

	r, err := rule.Parse(*ruleStr)
	if err != nil {
		return options{}, err
	}
	edge, err := rule.ParseEdge(*edges)
	if err != nil {
		return options{}, err
	}
	if err := o.logLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return options{}, fmt.Errorf("invalid -log-level %q: %w", *logLevel, err)
	}

	o.cfg = def.
		WithGridSize(uint32(*size)).
		WithStepInterval(*interval).
		WithRule(r.WithEdges(edge)).
		WithDispatchZ(uint32(*dispatchZ)).
		WithSize(uint32(*width), uint32(*height)).
		WithTitle(*title).
		WithPrecompiledShaders(*precomp)
	if *mailbox {
		o.cfg.PresentMode = gpucore.PresentModeMailbox
	}

	if err := o.cfg.Validate(); err != nil {
		return options{}, err
	}
	return o, nil
}
