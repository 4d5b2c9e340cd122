// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shaders holds the WGSL programs used by the cellgrid pipelines.
//
// Both programs bind the same three slots: 0 is the (width, height) uniform,
// 1 is the input generation and 2 (compute only) is the output generation.
// The render program is static; the simulation program is generated from a
// rule.Rule so the neighbor thresholds and edge handling are chosen at
// startup.
package shaders

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gogpu/naga"

	"github.com/gogpu/cellgrid/internal/cache"
	"github.com/gogpu/cellgrid/rule"
)

// Entry points shared with the pipeline descriptors.
const (
	VertexEntryPoint   = "vertex_main"
	FragmentEntryPoint = "fragment_main"
	ComputeEntryPoint  = "compute_main"
)

// WorkgroupSize is the edge length of the square compute workgroup.
const WorkgroupSize = 8

//go:embed cell.wgsl
var cellShaderWGSL string

//go:embed simulation.wgsl.tmpl
var simulationTemplateSrc string

var simulationTemplate = template.Must(template.New("simulation").Parse(simulationTemplateSrc))

// Cell returns the render program (vertex_main, fragment_main).
func Cell() string {
	return cellShaderWGSL
}

// Simulation returns the compute program (compute_main) implementing r.
func Simulation(r rule.Rule) (string, error) {
	params := struct {
		Notation      string
		Edges         string
		Wrap          bool
		BirthMask     uint32
		SurviveMask   uint32
		WorkgroupSize int
	}{
		Notation:      r.Notation(),
		Edges:         r.Edges.String(),
		Wrap:          r.Edges == rule.EdgeWrap,
		BirthMask:     uint32(r.Birth),
		SurviveMask:   uint32(r.Survive),
		WorkgroupSize: WorkgroupSize,
	}

	var b strings.Builder
	if err := simulationTemplate.Execute(&b, params); err != nil {
		return "", fmt.Errorf("shaders: render simulation template: %w", err)
	}
	return b.String(), nil
}

// Set is a pair of programs ready for module creation. When SPIRV fields
// are non-nil they take precedence over the WGSL text.
type Set struct {
	CellWGSL       string
	SimulationWGSL string

	CellSPIRV       []uint32
	SimulationSPIRV []uint32
}

// buildKey identifies one Build result.
type buildKey struct {
	rule       rule.Rule
	precompile bool
}

// programs holds built sets. A Set is shared between callers and must not
// be modified.
var programs = cache.New[buildKey, Set](16)

// Build renders the programs for r. With precompile set, both programs are
// also compiled to SPIR-V through naga, which validates them before any
// device sees them. Results are cached per rule.
func Build(r rule.Rule, precompile bool) (Set, error) {
	return programs.Load(buildKey{r, precompile}, func() (Set, error) {
		return build(r, precompile)
	})
}

func build(r rule.Rule, precompile bool) (Set, error) {
	sim, err := Simulation(r)
	if err != nil {
		return Set{}, err
	}
	set := Set{CellWGSL: Cell(), SimulationWGSL: sim}
	if !precompile {
		return set, nil
	}

	if set.CellSPIRV, err = CompileSPIRV(set.CellWGSL); err != nil {
		return Set{}, fmt.Errorf("shaders: cell: %w", err)
	}
	if set.SimulationSPIRV, err = CompileSPIRV(set.SimulationWGSL); err != nil {
		return Set{}, fmt.Errorf("shaders: simulation: %w", err)
	}
	return set, nil
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
