// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"fmt"
	"time"
)

// Observer receives frame loop notifications. Implementations must not
// block; they run on the loop's goroutine.
type Observer interface {
	// FrameStepped is called after a step was submitted and presented.
	FrameStepped(parity Parity, encode time.Duration)

	// FrameSkipped is called for a redraw that arrived before the step
	// interval elapsed.
	FrameSkipped()

	// SurfaceResized is called after a successful reconfiguration.
	SurfaceResized(width, height uint32)

	// LoopStopped is called once when the loop leaves StateRunning.
	LoopStopped(state LoopState, err error)
}

type nopObserver struct{}

func (nopObserver) FrameStepped(Parity, time.Duration) {}
func (nopObserver) FrameSkipped()                      {}
func (nopObserver) SurfaceResized(uint32, uint32)      {}
func (nopObserver) LoopStopped(LoopState, error)       {}

// LoopOption configures a FrameLoop.
type LoopOption func(*FrameLoop)

// WithClock sets the clock used for pacing. Tests pass a manual clock.
func WithClock(c Clock) LoopOption {
	return func(l *FrameLoop) {
		l.clock = c
	}
}

// WithStepInterval overrides the minimum time between steps.
func WithStepInterval(d time.Duration) LoopOption {
	return func(l *FrameLoop) {
		l.interval = d
	}
}

// WithRedrawOnSkip makes skipped redraws render the current generation
// without stepping. Hosts that present on every redraw need this.
func WithRedrawOnSkip() LoopOption {
	return func(l *FrameLoop) {
		l.redrawOnSkip = true
	}
}

// WithObserver installs an Observer.
func WithObserver(o Observer) LoopOption {
	return func(l *FrameLoop) {
		if o == nil {
			o = nopObserver{}
		}
		l.observer = o
	}
}

// FrameLoop drives the simulation. Its only simulation state is the step
// parity; it is owned by a single goroutine and needs no locking.
//
// Each executed step records the compute pass with pair[parity], toggles
// parity, acquires the surface image, records the render pass with the
// toggled pair, submits both passes as one command buffer and presents.
type FrameLoop struct {
	sim      *Simulation
	clock    Clock
	interval time.Duration
	observer Observer

	redrawOnSkip bool

	parity Parity
	last   time.Time
	steps  uint64
	state  LoopState
	err    error
}

// NewFrameLoop creates a loop at parity 0. The pacing reference is the
// construction time, so the first step runs one interval later.
func NewFrameLoop(sim *Simulation, opts ...LoopOption) *FrameLoop {
	l := &FrameLoop{
		sim:      sim,
		clock:    SystemClock(),
		interval: DefaultStepInterval,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.last = l.clock.Now()
	return l
}

// Handle applies ev to the loop and reports whether the host should keep
// running.
func (l *FrameLoop) Handle(ev Event) Action {
	if t, ok := transitions[transitionKey{ev.Kind, l.state}]; ok {
		return t(l, ev)
	}
	if l.state != StateRunning {
		return ActionExit
	}
	return ActionContinue
}

// Parity returns the current step parity.
func (l *FrameLoop) Parity() Parity {
	return l.parity
}

// Steps returns the number of executed steps.
func (l *FrameLoop) Steps() uint64 {
	return l.steps
}

// State returns the run state.
func (l *FrameLoop) State() LoopState {
	return l.state
}

// Err returns the error that moved the loop to StateFailed.
func (l *FrameLoop) Err() error {
	return l.err
}

func (l *FrameLoop) redraw(Event) Action {
	now := l.clock.Now()
	if l.interval > 0 && now.Sub(l.last) <= l.interval {
		l.observer.FrameSkipped()
		if l.redrawOnSkip {
			return l.present()
		}
		return ActionContinue
	}
	l.last = now
	return l.step()
}

func (l *FrameLoop) step() Action {
	start := time.Now()
	gpu := l.sim.ctx.GPU()

	l.sim.encodeStep(l.parity)
	l.parity = l.parity.Flip()

	view, err := l.sim.ctx.Surface().AcquireTexture()
	if err != nil {
		gpu.DiscardPending()
		return l.fail(fmt.Errorf("%w: %w", ErrSurfaceAcquire, err))
	}
	l.sim.encodeRender(l.parity, view)

	if err := gpu.Submit(); err != nil {
		return l.fail(fmt.Errorf("%w: %w", ErrSubmit, err))
	}
	if err := l.sim.ctx.Surface().Present(); err != nil {
		return l.fail(fmt.Errorf("%w: present: %w", ErrSubmit, err))
	}

	l.steps++
	encode := time.Since(start)
	l.observer.FrameStepped(l.parity, encode)
	Logger().Debug("cellgrid: step", "n", l.steps, "parity", l.parity, "encode", encode)
	return ActionContinue
}

// present renders the current generation without stepping.
func (l *FrameLoop) present() Action {
	gpu := l.sim.ctx.GPU()

	view, err := l.sim.ctx.Surface().AcquireTexture()
	if err != nil {
		return l.fail(fmt.Errorf("%w: %w", ErrSurfaceAcquire, err))
	}
	l.sim.encodeRender(l.parity, view)

	if err := gpu.Submit(); err != nil {
		return l.fail(fmt.Errorf("%w: %w", ErrSubmit, err))
	}
	if err := l.sim.ctx.Surface().Present(); err != nil {
		return l.fail(fmt.Errorf("%w: present: %w", ErrSubmit, err))
	}
	return ActionContinue
}

func (l *FrameLoop) resize(ev Event) Action {
	if ev.Width == 0 || ev.Height == 0 {
		return ActionContinue
	}
	if err := l.sim.ctx.Resize(ev.Width, ev.Height); err != nil {
		return l.fail(err)
	}
	l.observer.SurfaceResized(ev.Width, ev.Height)
	return ActionContinue
}

func (l *FrameLoop) key(ev Event) Action {
	if ev.Key == KeyEscape {
		return l.stop(ev)
	}
	return ActionContinue
}

func (l *FrameLoop) stop(ev Event) Action {
	l.state = StateStopped
	l.observer.LoopStopped(l.state, nil)
	Logger().Info("cellgrid: frame loop stopped", "event", ev.Kind.String(), "steps", l.steps)
	return ActionExit
}

func (l *FrameLoop) fail(err error) Action {
	l.state = StateFailed
	l.err = err
	l.observer.LoopStopped(l.state, err)
	Logger().Warn("cellgrid: frame loop terminated", "err", err, "steps", l.steps)
	return ActionExit
}
