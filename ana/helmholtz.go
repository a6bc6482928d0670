// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// HelmholtzManufactured is the manufactured solution spec §8 scenario S3
// uses to validate the per-mode Helmholtz solve (C7) in isolation:
// (lambda2 - Laplacian) u = f on the unit square, u = Exact on the
// boundary, with lambda2 = 1.
type HelmholtzManufactured struct{}

// Exact returns the manufactured solution u = sin(2*pi*x)*sinh(2*pi*y)/sinh(2*pi).
func (HelmholtzManufactured) Exact(x, y float64) float64 {
	return math.Sin(2*math.Pi*x) * math.Sinh(2*math.Pi*y) / math.Sinh(2*math.Pi)
}

// Forcing returns f = -(1+8*pi^2)*sin(2*pi*x)*sinh(2*pi*y)/sinh(2*pi), the
// right-hand side that makes Exact solve (1 - Laplacian) u = f.
func (HelmholtzManufactured) Forcing(x, y float64) float64 {
	return -(1 + 8*math.Pi*math.Pi) * math.Sin(2*math.Pi*x) * math.Sinh(2*math.Pi*y) / math.Sinh(2*math.Pi)
}
