// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package nonlin implements the nonlinear advection term (C9): the five
// equivalent forms of u.grad(u) (convective, divergence, skew-symmetric,
// rotational, alternating), the per-step alternation between convective
// and divergence sub-forms that cancels aliasing error to leading order,
// and an optional high-wavenumber filter applied before the term is
// carried into Fourier space (supplemented from
// original_source/femlib/filter.c, distinct from the spectral vanishing
// viscosity applied inside the Helmholtz operator in matsys).
package nonlin

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/field"
)

// Form selects which algebraically-equivalent (in the continuum, not
// discretely) expression of the advection term is evaluated.
type Form int

const (
	Convective    Form = iota // u.grad(phi)
	Divergence                // div(phi u) = u.grad(phi) + phi*div(u)
	SkewSymmetric             // 1/2 (u.grad(phi) + div(phi u))
	Rotational                // (curl u) x u, momentum components only
	Alternating               // convective/divergence, switching every step
	Stokes                    // advection term suppressed entirely (-N CLI flag)
)

// Sample bundles one physical-space plane's convecting velocity, the field
// being advected, and the elemental derivatives Evaluate needs to compute
// whichever form is configured. DivU, DUdy and DVdx are only read by the
// Divergence/SkewSymmetric and Rotational forms respectively; a Term whose
// Form never needs them may leave the corresponding slice nil.
type Sample struct {
	U, V           []float64 // convecting velocity components (x,y)
	Phi            []float64 // the field being advected (u, v, w or c)
	DPhiDx, DPhiDy []float64 // gradient of Phi
	DivU           []float64 // du/dx + dv/dy, for Divergence/SkewSymmetric
	DUdy, DVdx     []float64 // cross derivatives, for Rotational's z-vorticity
}

// Term evaluates the advection term for one advected field component.
type Term struct {
	Form Form
	// Component names the field this Term produces N(.) for ("u", "v",
	// "w" or "c"). Rotational's z-vorticity cross product is only
	// meaningful for the in-plane momentum components "u" and "v"; for
	// any other Component, Rotational falls back to Convective.
	Component string
	alt       bool // Alternating's internal parity, flipped every Step call
	Elements  []elem.Element
	Maps      []*elem.AssemblyMap
	Filter    Filter
}

// Filter, if non-nil, is applied by Apply to the plane set it returns,
// before the nonlinear term is handed back to the time integrator; Apply
// works in physical space, so the planes the filter receives are physical
// z-planes (the integrator transforms them to Fourier space afterwards).
type Filter func(planes [][]float64)

// Evaluate computes the configured advection form for one physical-space
// plane, returning N(phi) at every node of s.Phi.
func (t *Term) Evaluate(s Sample) ([]float64, error) {
	n := len(s.U)
	if len(s.V) != n || len(s.DPhiDx) != n || len(s.DPhiDy) != n {
		return nil, chk.Err("nonlin: Evaluate: mismatched plane lengths")
	}
	form := t.Form
	if form == Alternating {
		if t.alt {
			form = Divergence
		} else {
			form = Convective
		}
	}
	out := make([]float64, n)
	switch form {
	case Convective:
		for i := range out {
			out[i] = s.U[i]*s.DPhiDx[i] + s.V[i]*s.DPhiDy[i]
		}
	case Divergence:
		if len(s.Phi) != n || len(s.DivU) != n {
			return nil, chk.Err("nonlin: Evaluate: Divergence form needs Phi and DivU")
		}
		for i := range out {
			out[i] = s.U[i]*s.DPhiDx[i] + s.V[i]*s.DPhiDy[i] + s.Phi[i]*s.DivU[i]
		}
	case SkewSymmetric:
		if len(s.Phi) != n || len(s.DivU) != n {
			return nil, chk.Err("nonlin: Evaluate: SkewSymmetric form needs Phi and DivU")
		}
		for i := range out {
			out[i] = s.U[i]*s.DPhiDx[i] + s.V[i]*s.DPhiDy[i] + 0.5*s.Phi[i]*s.DivU[i]
		}
	case Rotational:
		if (t.Component != "u" && t.Component != "v") || len(s.DUdy) != n || len(s.DVdx) != n {
			for i := range out {
				out[i] = s.U[i]*s.DPhiDx[i] + s.V[i]*s.DPhiDy[i]
			}
			break
		}
		for i := range out {
			omegaZ := s.DVdx[i] - s.DUdy[i]
			if t.Component == "v" {
				out[i] = -s.U[i] * omegaZ
			} else {
				out[i] = s.V[i] * omegaZ
			}
		}
	case Stokes:
		// out is already zeroed; Stokes flow carries no advection term.
	default:
		return nil, chk.Err("nonlin: Evaluate: unhandled form %v", form)
	}
	return out, nil
}

// Step flips Alternating's internal parity; called once per integrator
// step regardless of the configured Form (a no-op unless Form ==
// Alternating).
func (t *Term) Step() {
	t.alt = !t.alt
}

// Apply runs the nonlinear term over every plane of the field being
// advected (phi), given the convecting velocity (u,v) and the elemental
// derivatives gathered by the caller. divU, dudy and dvdx may be nil when
// the configured Form never reads them.
func (t *Term) Apply(u, v, phi *field.Field, dphidx, dphidy, divU, dudy, dvdx [][]float64) ([][]float64, error) {
	out := make([][]float64, len(phi.Planes))
	for z := range phi.Planes {
		s := Sample{
			U: u.Planes[z], V: v.Planes[z], Phi: phi.Planes[z],
			DPhiDx: dphidx[z], DPhiDy: dphidy[z],
		}
		if divU != nil {
			s.DivU = divU[z]
		}
		if dudy != nil {
			s.DUdy = dudy[z]
		}
		if dvdx != nil {
			s.DVdx = dvdx[z]
		}
		var err error
		out[z], err = t.Evaluate(s)
		if err != nil {
			return nil, chk.Err("nonlin: Apply: plane %d: %v", z, err)
		}
	}
	if t.Filter != nil {
		t.Filter(out)
	}
	return out, nil
}

// HighWavenumberFilter builds a Filter that damps every Fourier plane
// (pair) at or above cutoff by factor amplitude in [0,1), the
// femlib/filter.c hook supplemented into this spec's C9.
func HighWavenumberFilter(cutoff int, amplitude float64) Filter {
	return func(planes [][]float64) {
		for z := range planes {
			k := z / 2
			if k < cutoff {
				continue
			}
			for i := range planes[z] {
				planes[z][i] *= amplitude
			}
		}
	}
}
