// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

// Parity selects which generation is the compute input. Parity p reads
// generation p and writes generation 1-p.
type Parity uint8

// Flip returns the other parity.
func (p Parity) Flip() Parity {
	return 1 - p
}

// Input returns the generation slot read under this parity.
func (p Parity) Input() int {
	return int(p)
}

// Output returns the generation slot written under this parity.
func (p Parity) Output() int {
	return int(1 - p)
}
