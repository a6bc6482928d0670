// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package matsys implements the modal matrix system (C7): the per-field,
// per-Fourier-mode Helmholtz operator (lambda^2 - del^2) u = f, built from
// the elemental gradient/weight operators of elem.Element, with a choice
// of solution method -- DIRECT (a sparse factorisation via gosl/la.LinSol,
// the teacher's own linear-solver abstraction), JACPCG (a matrix-free
// Jacobi-preconditioned conjugate-gradient matvec loop), or MIXED (DIRECT
// below a mode-number threshold, JACPCG above it, the semtex default) --
// and a cache keyed on the operator's defining scalars so repeated steps
// at the same mode reuse the assembled/factorised operator.
package matsys

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
)

// Method selects the per-mode solution strategy.
type Method int

const (
	Direct Method = iota
	JacPCG
	Mixed
)

// MixedThreshold is the Fourier mode index spec §4.7 picks as the
// Direct/JacPCG crossover for Mixed: modes below it use Direct, at or
// above it use JacPCG.
const MixedThreshold = 1

// resolve turns Mixed into a concrete Direct/JacPCG choice for mode k.
func resolve(method Method, k int) Method {
	if method != Mixed {
		return method
	}
	if k < MixedThreshold {
		return Direct
	}
	return JacPCG
}

// Key identifies one cached operator: the Helmholtz parameter lambda^2,
// the effective mode wavenumber term beta^2*k^2, the identity of the
// assembly map it was built against, and the resolved method.
type Key struct {
	Lambda2    float64
	Beta2K2    float64
	AssemblyID uintptr
	Method     Method
}

// Operator solves (lambda^2 + beta^2k^2 - del^2) u = f for one field at
// one Fourier mode, subject to the essential dofs already fixed and the
// natural/mixed boundary terms already folded in by the caller.
type Operator interface {
	Solve(rhs []float64) ([]float64, error)
	Free()
}

// Cache memoises Operators by Key; Cache.Get holds a mutex, so it is safe
// for concurrent use (field.Solve calls it once per plane, in sequence).
type Cache struct {
	mu  sync.Mutex
	ops map[Key]Operator
}

// NewCache returns an empty operator cache.
func NewCache() *Cache {
	return &Cache{ops: make(map[Key]Operator)}
}

// Get returns the cached operator for key, building it with build if
// absent.
func (c *Cache) Get(key Key, build func() (Operator, error)) (Operator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if op, ok := c.ops[key]; ok {
		return op, nil
	}
	op, err := build()
	if err != nil {
		return nil, err
	}
	c.ops[key] = op
	return op, nil
}

// Free releases every cached operator's resources (direct factorisations
// hold onto solver state that must be explicitly freed, per
// gosl/la.LinSol's own Free method).
func (c *Cache) Free() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, op := range c.ops {
		op.Free()
		delete(c.ops, k)
	}
}

// weakHelmholtz builds K[i][j] = integral(grad(phi_i).grad(phi_j)) +
// lambda2Eff*integral(phi_i*phi_j), using the elemental collocation
// gradient operator applied to each reference basis vector and the
// elemental quadrature weights for both the stiffness and mass terms --
// the standard spectral-element weak form, diagonal mass matrix because
// GLL collocation quadrature is exact for the basis self-products.
func weakHelmholtz(e elem.Element, lambda2Eff float64) [][]float64 {
	np := e.Np()
	n := np * np
	dphiX := make([][]float64, n)
	dphiY := make([][]float64, n)
	basis := make([]float64, n)
	massDiag := make([]float64, n)
	for i := range massDiag {
		massDiag[i] = 1
	}
	e.Weight(massDiag)
	for j := 0; j < n; j++ {
		for i := range basis {
			basis[i] = 0
		}
		basis[j] = 1
		gx := make([]float64, n)
		gy := make([]float64, n)
		e.Gradient(0, basis, gx)
		e.Gradient(1, basis, gy)
		dphiX[j] = gx
		dphiY[j] = gy
	}
	k := make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var stiff float64
			for q := 0; q < n; q++ {
				stiff += massDiag[q] * (dphiX[i][q]*dphiX[j][q] + dphiY[i][q]*dphiY[j][q])
			}
			k[i][j] = stiff
		}
		k[i][i] += lambda2Eff * massDiag[i]
	}
	return k
}

// Build assembles the DIRECT operator across elements (with parallel
// per-element assembly maps into a global dof space of size nGlobal),
// applies every boundary's essential mask, AugmentOp term, and (for Axis
// boundaries at Fourier mode k) AugmentSC regularity penalty, and
// factorises it with solverName (passed straight to la.GetSolver, the
// teacher's own "mumps"/"umfpack" registry).
func Build(elements []elem.Element, maps []*elem.AssemblyMap, nGlobal int, lambda2Eff float64, boundaries []*bc.Boundary, solverName string, k int) (Operator, error) {
	if len(elements) != len(maps) {
		return nil, chk.Err("matsys: len(elements)=%d != len(maps)=%d", len(elements), len(maps))
	}
	essential := make([]bool, nGlobal)
	for _, am := range maps {
		for i, g := range am.Local2Global {
			if am.Essential[i] {
				essential[g] = true
			}
		}
	}
	nnzEst := 0
	for _, e := range elements {
		n := e.Np() * e.Np()
		nnzEst += n * n
	}
	trip := new(la.Triplet)
	trip.Init(nGlobal, nGlobal, nnzEst+nGlobal)
	for idx, e := range elements {
		am := maps[idx]
		kLocal := weakHelmholtz(e, lambda2Eff)
		n := len(kLocal)
		for i := 0; i < n; i++ {
			gi := am.Local2Global[i]
			if essential[gi] {
				continue
			}
			for j := 0; j < n; j++ {
				gj := am.Local2Global[j]
				if essential[gj] {
					continue
				}
				trip.Put(gi, gj, kLocal[i][j])
			}
		}
	}
	for _, b := range boundaries {
		b.AugmentOp(trip)
		b.AugmentSC(trip, k)
	}
	for g, ess := range essential {
		if ess {
			trip.Put(g, g, 1.0)
		}
	}
	solver := la.GetSolver(solverName)
	if err := solver.InitR(trip, false, false, false); err != nil {
		return nil, chk.Err("matsys: solver init: %v", err)
	}
	if err := solver.Fact(); err != nil {
		return nil, chk.Err("matsys: factorisation: %v", err)
	}
	return &directOperator{solver: solver, n: nGlobal, essential: essential}, nil
}

type directOperator struct {
	solver    la.LinSol
	n         int
	essential []bool
}

func (o *directOperator) Solve(rhs []float64) ([]float64, error) {
	if len(rhs) != o.n {
		return nil, chk.Err("matsys: rhs length %d != %d", len(rhs), o.n)
	}
	out := make([]float64, o.n)
	if err := o.solver.SolveR(out, rhs, false); err != nil {
		return nil, chk.Err("matsys: solve: %v", err)
	}
	return out, nil
}

func (o *directOperator) Free() { o.solver.Free() }

// BuildJacPCG returns a matrix-free Jacobi-preconditioned CG operator,
// used for the JacPCG method and for Mixed at high Fourier modes where
// factorisation cost no longer pays for itself.
func BuildJacPCG(elements []elem.Element, maps []*elem.AssemblyMap, nGlobal int, lambda2Eff float64, boundaries []*bc.Boundary, tol float64, maxIter int, k int) (Operator, error) {
	if len(elements) != len(maps) {
		return nil, chk.Err("matsys: len(elements)=%d != len(maps)=%d", len(elements), len(maps))
	}
	essential := make([]bool, nGlobal)
	for _, am := range maps {
		for i, g := range am.Local2Global {
			if am.Essential[i] {
				essential[g] = true
			}
		}
	}
	diag := make([]float64, nGlobal)
	for idx, e := range elements {
		am := maps[idx]
		kLocal := weakHelmholtz(e, lambda2Eff)
		for i, g := range am.Local2Global {
			if !essential[g] {
				diag[g] += kLocal[i][i]
			}
		}
	}
	for _, b := range boundaries {
		b.AugmentDg(diag)
		b.AugmentSCDg(diag, k)
	}
	for g, ess := range essential {
		if ess {
			diag[g] = 1.0
		}
	}
	return &jacPCGOperator{
		elements: elements, maps: maps, n: nGlobal,
		lambda2Eff: lambda2Eff, essential: essential, diag: diag,
		tol: tol, maxIter: maxIter,
	}, nil
}

type jacPCGOperator struct {
	elements   []elem.Element
	maps       []*elem.AssemblyMap
	n          int
	lambda2Eff float64
	essential  []bool
	diag       []float64
	tol        float64
	maxIter    int
}

// matvec applies the global (unassembled) Helmholtz operator to v,
// element by element, writing into out.
func (o *jacPCGOperator) matvec(v []float64) []float64 {
	out := make([]float64, o.n)
	for idx, e := range o.elements {
		am := o.maps[idx]
		n := e.Np() * e.Np()
		local := make([]float64, n)
		for i, g := range am.Local2Global {
			local[i] = v[g]
		}
		k := weakHelmholtz(e, o.lambda2Eff)
		for i := 0; i < n; i++ {
			gi := am.Local2Global[i]
			if o.essential[gi] {
				continue
			}
			var sum float64
			for j := 0; j < n; j++ {
				sum += k[i][j] * local[j]
			}
			out[gi] += sum
		}
	}
	for g, ess := range o.essential {
		if ess {
			out[g] = v[g]
		}
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// Solve runs Jacobi-preconditioned CG to the configured tolerance.
func (o *jacPCGOperator) Solve(rhs []float64) ([]float64, error) {
	if len(rhs) != o.n {
		return nil, chk.Err("matsys: rhs length %d != %d", len(rhs), o.n)
	}
	x := make([]float64, o.n)
	copy(x, rhs)
	for g, ess := range o.essential {
		if !ess {
			x[g] = 0
		}
	}
	r := make([]float64, o.n)
	ax := o.matvec(x)
	for i := range r {
		r[i] = rhs[i] - ax[i]
	}
	z := make([]float64, o.n)
	for i := range z {
		z[i] = r[i] / o.diag[i]
	}
	p := make([]float64, o.n)
	copy(p, z)
	rz := dot(r, z)
	rhsNorm := la.VecNorm(rhs)
	if rhsNorm == 0 {
		rhsNorm = 1
	}
	for iter := 0; iter < o.maxIter; iter++ {
		if la.VecNorm(r)/rhsNorm < o.tol {
			break
		}
		ap := o.matvec(p)
		pap := dot(p, ap)
		if pap == 0 {
			break
		}
		alpha := rz / pap
		la.VecAdd(x, alpha, p)
		la.VecAdd(r, -alpha, ap)
		for i := range z {
			z[i] = r[i] / o.diag[i]
		}
		rzNew := dot(r, z)
		if rz == 0 {
			break
		}
		beta := rzNew / rz
		la.VecAdd2(p, 1, z, beta, p)
		rz = rzNew
		if math.IsNaN(rz) {
			return nil, chk.Err("matsys: JacPCG diverged at iteration %d", iter)
		}
	}
	return x, nil
}

func (o *jacPCGOperator) Free() {}
