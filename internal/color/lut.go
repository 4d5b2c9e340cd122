// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package color encodes shader output the way a color attachment stores it.
//
// Fragment shaders write linear values. An sRGB attachment applies the sRGB
// transfer function on store; a unorm attachment stores the value as is.
// CPU renderings of a frame use the same encoding so they match what the
// surface shows.
package color

import (
	"math"

	"github.com/gogpu/cellgrid/gpucore"
)

// linearToSRGBLUT maps linear [0, 1] in 4096 steps to an sRGB byte.
// 12 bits of input precision are enough for 8-bit output.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := range linearToSRGBLUT {
		linearToSRGBLUT[i] = LinearToSRGBSlow(float32(i) / 4095.0)
	}
}

// Encoding converts a linear channel value to a stored byte.
type Encoding func(linear float32) uint8

// ForFormat returns the encoding of an attachment format. Non-sRGB formats
// store values unconverted.
func ForFormat(f gpucore.TextureFormat) Encoding {
	if f.IsSRGB() {
		return LinearToSRGB
	}
	return Unorm
}

// LinearToSRGB encodes a linear value with the sRGB transfer function
// using a lookup table. Input is clamped to [0, 1].
//
// Example:
//
//	s := LinearToSRGB(0.5) // 188, not 128
func LinearToSRGB(l float32) uint8 {
	index := int(clamp01(l)*4095.0 + 0.5)
	if index > 4095 {
		index = 4095
	}
	return linearToSRGBLUT[index]
}

// LinearToSRGBSlow is the math.Pow reference for LinearToSRGB.
func LinearToSRGBSlow(l float32) uint8 {
	lf := float64(clamp01(l))
	var s float64
	if lf <= 0.0031308 {
		s = lf * 12.92
	} else {
		s = 1.055*math.Pow(lf, 1.0/2.4) - 0.055
	}
	return toByte(s)
}

// Unorm stores a value in [0, 1] as a byte without conversion.
func Unorm(l float32) uint8 {
	return toByte(float64(clamp01(l)))
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float64) uint8 {
	b := int(v*255.0 + 0.5)
	if b < 0 {
		b = 0
	}
	if b > 255 {
		b = 255
	}
	//nolint:gosec // G115: clamped to [0,255]
	return uint8(b)
}
