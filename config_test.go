// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import (
	"errors"
	"testing"
	"time"

	"github.com/gogpu/cellgrid/rule"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GridSize != 32 {
		t.Errorf("GridSize = %d, want 32", cfg.GridSize)
	}
	if cfg.StepInterval != 500*time.Millisecond {
		t.Errorf("StepInterval = %v, want 500ms", cfg.StepInterval)
	}
	if cfg.Rule != rule.Conway {
		t.Errorf("Rule = %v, want Conway", cfg.Rule)
	}
	if cfg.DispatchZ != 0 {
		t.Errorf("DispatchZ = %d, want 0", cfg.DispatchZ)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigBuilders(t *testing.T) {
	base := DefaultConfig()
	cfg := base.WithGridSize(64).
		WithStepInterval(time.Second).
		WithDispatchZ(1).
		WithSize(800, 600).
		WithTitle("life").
		WithRule(rule.Conway.WithEdges(rule.EdgeDead)).
		WithPrecompiledShaders(true)

	if cfg.GridSize != 64 || cfg.StepInterval != time.Second || cfg.DispatchZ != 1 {
		t.Errorf("builders not applied: %+v", cfg)
	}
	if cfg.Width != 800 || cfg.Height != 600 || cfg.Title != "life" || !cfg.PrecompileShaders {
		t.Errorf("builders not applied: %+v", cfg)
	}
	if cfg.Rule.Edges != rule.EdgeDead {
		t.Errorf("rule edges = %v", cfg.Rule.Edges)
	}
	if base.GridSize != DefaultGridSize {
		t.Error("builder mutated the receiver")
	}
	if cfg.Grid().Cells() != 64*64 {
		t.Errorf("Grid().Cells() = %d", cfg.Grid().Cells())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"zero interval", DefaultConfig().WithStepInterval(0), true},
		{"max grid", DefaultConfig().WithGridSize(MaxGridSize), true},
		{"zero grid", DefaultConfig().WithGridSize(0), false},
		{"oversized grid", DefaultConfig().WithGridSize(MaxGridSize + 1), false},
		{"negative interval", DefaultConfig().WithStepInterval(-time.Millisecond), false},
		{"zero width", DefaultConfig().WithSize(0, 10), false},
		{"zero height", DefaultConfig().WithSize(10, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
