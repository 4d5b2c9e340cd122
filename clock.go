// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cellgrid

import "time"

// Clock supplies the current time to the frame loop's pacing check.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}
