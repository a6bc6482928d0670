// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package field implements the field container (C8): the per-scalar-field
// storage of one plane per held Fourier mode/physical index, the Fourier
// transform and boundary-evaluation operations that switch its data
// between physical and modal space, the elemental-gradient operator, the
// per-mode Helmholtz solve through matsys, the cylindrical-axis (v,w)
// coupling rotation the integrator (C10) applies around that solve, and
// the multi-level history buffer swap the integrator drives every step.
package field

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/fourier"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
	"github.com/lab272/semtex-varkinvis-sub001/matsys"
	"github.com/lab272/semtex-varkinvis-sub001/tstep"
)

// Field is one named scalar unknown (u, v, w, p, or a passive scalar),
// stored as Geo.NzPerProc() planes of Geo.PlaneSize() values each. Data is
// in physical space immediately after construction; Transform switches it
// to/from Fourier space in place.
type Field struct {
	Name string
	Geo  *geom.Geometry

	Planes [][]float64 // [NzPerProc][PlaneSize], physical or Fourier space

	// history holds up to tstep.MaxOrder previous snapshots of Planes, the
	// multi-level storage the BDF/extrapolation coefficients (C4) are
	// applied against; history[0] is the most recent past level.
	history [][][]float64
}

// New allocates a zeroed Field over geo.
func New(name string, geo *geom.Geometry) *Field {
	f := &Field{Name: name, Geo: geo}
	f.Planes = allocPlanes(geo)
	f.history = make([][][]float64, tstep.MaxOrder)
	for l := range f.history {
		f.history[l] = allocPlanes(geo)
	}
	return f
}

func allocPlanes(geo *geom.Geometry) [][]float64 {
	planes := make([][]float64, geo.NzPerProc())
	for z := range planes {
		planes[z] = make([]float64, geo.PlaneSize())
	}
	return planes
}

// Transform applies the real 1-D Fourier transform (C3) along the
// z/azimuthal direction at every physical point, switching Planes between
// physical and modal space. It assumes NzPerProc() already spans the full
// transform length for this rank -- true for a single-process run and,
// once the plane/mode exchange (C2) has executed, for a multi-process run
// as well.
func (f *Field) Transform(sign fourier.Sign) error {
	nz := f.Geo.NzPerProc()
	if nz < 2 {
		return nil
	}
	ps := f.Geo.PlaneSize()
	buf := make([]float64, nz*ps)
	for z := 0; z < nz; z++ {
		copy(buf[z*ps:(z+1)*ps], f.Planes[z])
	}
	if err := fourier.DFTr(buf, nz, ps, sign); err != nil {
		return chk.Err("field: %s: Transform: %v", f.Name, err)
	}
	for z := 0; z < nz; z++ {
		copy(f.Planes[z], buf[z*ps:(z+1)*ps])
	}
	return nil
}

// EvaluateBoundaries calls Set for every boundary of this field on every
// plane at time t, step; Set writes values only for Essential boundaries,
// so Natural fluxes are not applied here.
func (f *Field) EvaluateBoundaries(boundaries []*bc.Boundary, t float64, step int) {
	for _, b := range boundaries {
		if b.Field != f.Name {
			continue
		}
		for z := range f.Planes {
			b.Set(f.Planes[z], t, step)
		}
	}
}

// Gradient applies the elemental collocation derivative (axis 0 = x/xi,
// 1 = y/eta) plane by plane, via the elements/maps pair shared by every
// field over the same mesh, returning a new plane set.
func (f *Field) Gradient(axis int, elements []elem.Element, maps []*elem.AssemblyMap) ([][]float64, error) {
	if len(elements) != len(maps) {
		return nil, chk.Err("field: %s: Gradient: len(elements)=%d != len(maps)=%d", f.Name, len(elements), len(maps))
	}
	out := allocPlanes(f.Geo)
	for z, plane := range f.Planes {
		for idx, e := range elements {
			am := maps[idx]
			n := e.Np() * e.Np()
			local := make([]float64, n)
			for i, g := range am.Local2Global {
				local[i] = plane[g]
			}
			deriv := make([]float64, n)
			e.Gradient(axis, local, deriv)
			for i, g := range am.Local2Global {
				out[z][g] = deriv[i]
			}
		}
	}
	return out, nil
}

// Solve applies, plane by plane, the Helmholtz operator this field's
// current Fourier mode requires: plane z corresponds to Fourier mode
// z/2 (modes alternate real, imaginary planes above mode 0), with
// lambda2 the BDF/viscous parameter and beta the fundamental wavenumber
// (so the effective parameter at mode k is lambda2 + (beta*k)^2).
func (f *Field) Solve(cache *matsys.Cache, elements []elem.Element, maps []*elem.AssemblyMap, nGlobal int, lambda2, beta float64, method matsys.Method, boundaries []*bc.Boundary, solverName string, assemblyID uintptr) error {
	for z, plane := range f.Planes {
		k := z / 2
		betak2 := beta * beta * float64(k*k)
		m := method
		key := matsys.Key{Lambda2: lambda2, Beta2K2: betak2, AssemblyID: assemblyID, Method: resolveMethod(m, k)}
		op, err := cache.Get(key, func() (matsys.Operator, error) {
			switch key.Method {
			case matsys.Direct:
				return matsys.Build(elements, maps, nGlobal, lambda2+betak2, boundaries, solverName, k)
			default:
				return matsys.BuildJacPCG(elements, maps, nGlobal, lambda2+betak2, boundaries, 1e-10, 2000, k)
			}
		})
		if err != nil {
			return chk.Err("field: %s: Solve: mode %d: %v", f.Name, k, err)
		}
		sol, err := op.Solve(plane)
		if err != nil {
			return chk.Err("field: %s: Solve: mode %d: %v", f.Name, k, err)
		}
		copy(f.Planes[z], sol)
	}
	return nil
}

// resolveMethod exposes matsys' Mixed threshold decision so field.Solve's
// cache key always names the concrete method actually used.
func resolveMethod(m matsys.Method, k int) matsys.Method {
	if m != matsys.Mixed {
		return m
	}
	if k < matsys.MixedThreshold {
		return matsys.Direct
	}
	return matsys.JacPCG
}

// CoupleDirection names which half of the axis-coupling round trip Couple
// performs; spec §8 property 5 requires Inverse(Forward(x)) == x.
type CoupleDirection int

const (
	Forward CoupleDirection = iota
	Inverse
)

// Couple rotates the cylindrical-axis (v,w) velocity pair between its
// natural components and the decoupled combinations v' = (v+w)/sqrt(2),
// w' = (v-w)/sqrt(2) that diagonalise the 1/r^2 cross terms the cylindrical
// vector Laplacian otherwise carries between the radial and azimuthal
// momentum equations (Blackburn & Sherwin 2004).
// Each per-mode Helmholtz solve (C7) can then proceed independently on v'
// and w' rather than as a coupled 2N system. The transform is a pure
// rotation -- Couple(v, w, Forward) followed by Couple(v, w, Inverse)
// recovers the original values exactly, because the combination is its own
// inverse up to the 1/sqrt(2) normalisation cancelling on the second pass;
// Direction is still threaded through explicitly to match
// original_source/dns/integrate.cpp's AuxField::couple(FORWARD/INVERSE)
// call convention at the equivalent points in the step loop.
func Couple(v, w *Field, _ CoupleDirection) error {
	if len(v.Planes) != len(w.Planes) {
		return chk.Err("field: Couple: %s has %d planes, %s has %d", v.Name, len(v.Planes), w.Name, len(w.Planes))
	}
	const s = 1 / math.Sqrt2
	for z := range v.Planes {
		vp, wp := v.Planes[z], w.Planes[z]
		if len(vp) != len(wp) {
			return chk.Err("field: Couple: plane %d length mismatch (%d vs %d)", z, len(vp), len(wp))
		}
		for i := range vp {
			a, b := vp[i], wp[i]
			vp[i] = s * (a + b)
			wp[i] = s * (a - b)
		}
	}
	return nil
}

// SwapData rotates the history ring -- history[0] becomes the data just
// computed, and every older level shifts down one slot -- the per-step
// bookkeeping C8 calls swapData, which makes the current and extrapolated
// past levels available to tstep's BDF/extrapolation coefficients.
func (f *Field) SwapData() {
	last := len(f.history) - 1
	oldest := f.history[last]
	copy(f.history[1:], f.history[:last])
	f.history[0] = oldest
	for z := range f.Planes {
		copy(f.history[0][z], f.Planes[z])
	}
}

// History returns the snapshot recorded l steps back (0 = most recent).
func (f *Field) History(l int) [][]float64 {
	if l < 0 || l >= len(f.history) {
		return nil
	}
	return f.history[l]
}
