// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package metrics exports frame loop activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/cellgrid"
)

const namespace = "cellgrid"

// Observer implements cellgrid.Observer with Prometheus collectors.
type Observer struct {
	registry *prometheus.Registry

	steps   prometheus.Counter
	skipped prometheus.Counter
	resizes prometheus.Counter
	stops   *prometheus.CounterVec
	encode  prometheus.Histogram
	parity  prometheus.Gauge
}

var _ cellgrid.Observer = (*Observer)(nil)

// NewObserver creates an observer whose collectors live in a private
// registry labelled with the run ID.
func NewObserver(runID string) *Observer {
	reg := prometheus.NewRegistry()
	f := promauto.With(prometheus.WrapRegistererWith(prometheus.Labels{"run": runID}, reg))

	return &Observer{
		registry: reg,
		steps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Simulation steps submitted and presented",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redraws_skipped_total",
			Help:      "Redraw requests that arrived before the step interval elapsed",
		}),
		resizes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "surface_resizes_total",
			Help:      "Successful surface reconfigurations",
		}),
		stops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_stops_total",
			Help:      "Frame loop exits by final state",
		}, []string{"state"}),
		encode: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_encode_seconds",
			Help:      "Time to record, submit and present one step",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		parity: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parity",
			Help:      "Current step parity (index of the generation holding the newest state)",
		}),
	}
}

// Registry returns the registry holding the observer's collectors.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}

// FrameStepped records a step.
func (o *Observer) FrameStepped(parity cellgrid.Parity, encode time.Duration) {
	o.steps.Inc()
	o.encode.Observe(encode.Seconds())
	o.parity.Set(float64(parity))
}

// FrameSkipped records a skipped redraw.
func (o *Observer) FrameSkipped() {
	o.skipped.Inc()
}

// SurfaceResized records a reconfiguration.
func (o *Observer) SurfaceResized(uint32, uint32) {
	o.resizes.Inc()
}

// LoopStopped records the loop's exit.
func (o *Observer) LoopStopped(state cellgrid.LoopState, _ error) {
	o.stops.WithLabelValues(state.String()).Inc()
}

// NewServer returns an HTTP server exposing reg on /metrics.
func NewServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
}
