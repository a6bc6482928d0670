// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements the analytic reference flows used to validate
// the solver (spec §8, scenarios S1-S3): Kovasznay flow, the Taylor-Green
// vortex, the Womersley pulsatile pipe flow, and a manufactured Helmholtz
// solution. Grounded on the teacher's own `ana` package
// (BookmarkSciencePrrojects-gofem/ana), which holds exactly this kind of
// closed-form/ODE-cross-checked reference solution alongside the FE
// solver it validates.
package ana

import "math"

// Kovasznay is the steady 2-D exact solution of the incompressible
// Navier-Stokes equations at Reynolds number Re, spec §8 scenario S1.
type Kovasznay struct {
	Re     float64
	lambda float64
}

// NewKovasznay precomputes lambda = Re/2 - sqrt(Re^2/4 + 4*pi^2).
func NewKovasznay(re float64) *Kovasznay {
	lambda := re/2 - math.Sqrt(re*re/4+4*math.Pi*math.Pi)
	return &Kovasznay{Re: re, lambda: lambda}
}

// U returns the exact streamwise velocity at (x,y).
func (k *Kovasznay) U(x, y float64) float64 {
	return 1 - math.Exp(k.lambda*x)*math.Cos(2*math.Pi*y)
}

// V returns the exact transverse velocity at (x,y).
func (k *Kovasznay) V(x, y float64) float64 {
	return (k.lambda / (2 * math.Pi)) * math.Exp(k.lambda*x) * math.Sin(2*math.Pi*y)
}

// P returns the exact pressure at (x,y), up to the arbitrary additive
// constant incompressible pressure always carries.
func (k *Kovasznay) P(x, y float64) float64 {
	return 0.5 * (1 - math.Exp(2*k.lambda*x))
}
