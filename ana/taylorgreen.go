// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// TaylorGreen is the 2-D decaying vortex, an exact unsteady solution of
// the unforced Navier-Stokes equations used to validate the full KIO91
// time-splitting (not just its steady-state Helmholtz solves, as
// Kovasznay does).
type TaylorGreen struct {
	Nu float64
}

// U returns the exact streamwise velocity at (x,y,t).
func (tg *TaylorGreen) U(x, y, t float64) float64 {
	return math.Cos(x) * math.Sin(y) * math.Exp(-2*tg.Nu*t)
}

// V returns the exact transverse velocity at (x,y,t).
func (tg *TaylorGreen) V(x, y, t float64) float64 {
	return -math.Sin(x) * math.Cos(y) * math.Exp(-2*tg.Nu*t)
}

// P returns the exact pressure at (x,y,t).
func (tg *TaylorGreen) P(x, y, t float64) float64 {
	return -0.25 * (math.Cos(2*x) + math.Cos(2*y)) * math.Exp(-4*tg.Nu*t)
}
