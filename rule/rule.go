// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package rule describes outer-totalistic cellular automaton rules in B/S
// notation and provides a CPU reference stepper.
//
// The GPU transition shader is generated from a [Rule] (see package shaders),
// so the reference [Rule.Step] and the compute pipeline share one definition.
package rule

import (
	"errors"
	"fmt"
	"strings"
)

// MaxNeighbors is the size of the Moore neighborhood.
const MaxNeighbors = 8

// Errors returned by Parse and ParseEdge.
var (
	// ErrSyntax is returned for strings that are not in B/S notation.
	ErrSyntax = errors.New("rule: invalid B/S notation")

	// ErrEdgeMode is returned for an unknown edge mode name.
	ErrEdgeMode = errors.New("rule: unknown edge mode")
)

// EdgeMode selects how neighbors beyond the grid border are resolved.
type EdgeMode uint8

const (
	// EdgeWrap treats the grid as a torus.
	EdgeWrap EdgeMode = iota

	// EdgeDead treats every cell beyond the border as dead.
	EdgeDead
)

// String returns the flag name of the mode.
func (m EdgeMode) String() string {
	switch m {
	case EdgeWrap:
		return "wrap"
	case EdgeDead:
		return "dead"
	default:
		return fmt.Sprintf("EdgeMode(%d)", uint8(m))
	}
}

// ParseEdge parses "wrap" or "dead".
func ParseEdge(s string) (EdgeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wrap", "torus":
		return EdgeWrap, nil
	case "dead", "clamp":
		return EdgeDead, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrEdgeMode, s)
}

// Rule is an outer-totalistic transition rule.
//
// Bit n of Birth is set when a dead cell with n live neighbors becomes alive;
// bit n of Survive is set when a live cell with n live neighbors stays alive.
type Rule struct {
	Birth   uint16
	Survive uint16
	Edges   EdgeMode
}

// Conway is B3/S23 on a torus.
var Conway = Rule{
	Birth:   1 << 3,
	Survive: 1<<2 | 1<<3,
	Edges:   EdgeWrap,
}

// Parse parses a rule string such as "B3/S23" or "b36/s23". The edge mode
// of the result is EdgeWrap.
func Parse(s string) (Rule, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "/")
	if len(parts) != 2 {
		return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}

	var r Rule
	for _, p := range parts {
		if p == "" {
			return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		mask, err := parseCounts(p[1:])
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q: %w", ErrSyntax, s, err)
		}
		switch p[0] {
		case 'B':
			r.Birth = mask
		case 'S':
			r.Survive = mask
		default:
			return Rule{}, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
	}
	return r, nil
}

func parseCounts(digits string) (uint16, error) {
	var mask uint16
	for _, c := range digits {
		if c < '0' || c > '0'+MaxNeighbors {
			return 0, fmt.Errorf("neighbor count %q out of range", c)
		}
		mask |= 1 << uint(c-'0')
	}
	return mask, nil
}

// WithEdges returns a copy of r using the given edge mode.
func (r Rule) WithEdges(m EdgeMode) Rule {
	r.Edges = m
	return r
}

// String formats the rule in B/S notation followed by the edge mode.
func (r Rule) String() string {
	return r.Notation() + " (" + r.Edges.String() + ")"
}

// Notation formats the rule in B/S notation.
func (r Rule) Notation() string {
	var b strings.Builder
	b.WriteByte('B')
	writeCounts(&b, r.Birth)
	b.WriteString("/S")
	writeCounts(&b, r.Survive)
	return b.String()
}

func writeCounts(b *strings.Builder, mask uint16) {
	for n := 0; n <= MaxNeighbors; n++ {
		if mask&(1<<uint(n)) != 0 {
			b.WriteByte(byte('0' + n))
		}
	}
}

// Next returns the next state of a cell given whether it is alive and its
// live neighbor count.
func (r Rule) Next(alive bool, neighbors int) uint32 {
	mask := r.Birth
	if alive {
		mask = r.Survive
	}
	return uint32(mask>>uint(neighbors)) & 1
}

// Step computes one generation of an n×n grid from src into dst.
// Nonzero values in src are alive; dst receives 0 or 1.
// dst and src must not alias and must both hold n*n cells.
func (r Rule) Step(dst, src []uint32, n int) {
	r.stepRows(dst, src, n, 0, n)
}

// stepRows computes rows [y0, y1) of the next generation.
func (r Rule) stepRows(dst, src []uint32, n, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < n; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if r.alive(src, n, x+dx, y+dy) {
						neighbors++
					}
				}
			}
			idx := y*n + x
			dst[idx] = r.Next(src[idx] != 0, neighbors)
		}
	}
}

func (r Rule) alive(cells []uint32, n, x, y int) bool {
	if r.Edges == EdgeWrap {
		x = (x + n) % n
		y = (y + n) % n
	} else if x < 0 || y < 0 || x >= n || y >= n {
		return false
	}
	return cells[y*n+x] != 0
}
