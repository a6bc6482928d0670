// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/expr"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
	"github.com/lab272/semtex-varkinvis-sub001/matsys"
	"github.com/lab272/semtex-varkinvis-sub001/nonlin"
)

// oneElementMesh builds a single np x np QuadElement on the unit square
// with an identity assembly map, the ring of boundary dofs essential, and
// the matching physical (x,y) coordinate arrays, enough to exercise a
// full Integrator.Step call.
func oneElementMesh(tst *testing.T, np int) ([]elem.Element, []*elem.AssemblyMap, int, []float64, []float64, []int) {
	q, err := elem.NewQuadElement(0, np, 0, 0, 1, 1)
	if err != nil {
		tst.Fatalf("NewQuadElement: %v", err)
	}
	n := np * np
	am := elem.NewAssemblyMap(n)
	var ring []int
	for i := 0; i < n; i++ {
		am.Local2Global[i] = i
		row, col := i/np, i%np
		if row == 0 || row == np-1 || col == 0 || col == np-1 {
			am.Essential[i] = true
			ring = append(ring, i)
		}
	}
	x := make([]float64, n)
	y := make([]float64, n)
	q.MeshElmt(x, y)
	return []elem.Element{q}, []*elem.AssemblyMap{am}, n, x, y, ring
}

func zeroBoundary(field string, dofs []int) *bc.Boundary {
	return &bc.Boundary{
		Field: field,
		Cond:  bc.Condition{Kind: bc.Essential, Val: expr.Const(0)},
		Dofs:  dofs,
		X:     make([]float64, len(dofs)),
		Y:     make([]float64, len(dofs)),
	}
}

func newTestIntegrator(tst *testing.T, nSteps int) *Integrator {
	g, err := geom.New(3, 4, 1, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		tst.Fatalf("geom.New: %v", err)
	}
	elements, maps, n, x, y, ring := oneElementMesh(tst, 3)
	boundaries := map[string][]*bc.Boundary{
		"u": {zeroBoundary("u", ring)},
		"v": {zeroBoundary("v", ring)},
		"w": {zeroBoundary("w", ring)},
	}
	terms := map[string]*nonlin.Term{
		"u": {Form: nonlin.Convective},
		"v": {Form: nonlin.Convective},
		"w": {Form: nonlin.Convective},
	}
	cfg := Config{
		Nu: 0.1, Dt: 0.01, Beta: 1.0, Order: 2,
		Method: matsys.JacPCG, PressureMethod: matsys.JacPCG,
		NSteps: nSteps,
	}
	return New(g, elements, maps, n, boundaries, nil, matsys.NewCache(), terms, nil, x, y, cfg)
}

func Test_solver01(tst *testing.T) {

	chk.PrintTitle("solver01. A single Step advances the step counter and simulated time")

	in := newTestIntegrator(tst, 1)
	if err := in.Step(); err != nil {
		tst.Fatalf("Step: %v", err)
	}
	if in.StepNo != 1 {
		tst.Errorf("StepNo = %d, want 1", in.StepNo)
	}
	if in.T != in.Cfg.Dt {
		tst.Errorf("T = %v, want %v", in.T, in.Cfg.Dt)
	}
}

func Test_solver02(tst *testing.T) {

	chk.PrintTitle("solver02. Run advances exactly NSteps steps then stops")

	in := newTestIntegrator(tst, 3)
	if err := in.Run(); err != nil {
		tst.Fatalf("Run: %v", err)
	}
	if in.StepNo != 3 {
		tst.Errorf("StepNo = %d, want 3", in.StepNo)
	}
}

func Test_solver03(tst *testing.T) {

	chk.PrintTitle("solver03. Essential velocity boundaries stay zero across a step")

	in := newTestIntegrator(tst, 1)
	if err := in.Step(); err != nil {
		tst.Fatalf("Step: %v", err)
	}
	_, _, _, _, _, ring := oneElementMesh(tst, 3)
	for _, d := range ring {
		for z, plane := range in.Fields["u"].Planes {
			if plane[d] != 0 {
				tst.Errorf("u plane %d dof %d = %v, want 0 on the essential ring", z, d, plane[d])
			}
		}
	}
}

func Test_solver04(tst *testing.T) {

	chk.PrintTitle("solver04. FreezeVelocity with no scalar leaves velocity fields untouched by Step")

	in := newTestIntegrator(tst, 1)
	in.Cfg.FreezeVelocity = true
	before := make([]float64, len(in.Fields["u"].Planes[0]))
	copy(before, in.Fields["u"].Planes[0])
	if err := in.Step(); err != nil {
		tst.Fatalf("Step: %v", err)
	}
	for i, v := range in.Fields["u"].Planes[0] {
		if v != before[i] {
			tst.Errorf("u.Planes[0][%d] changed from %v to %v under FreezeVelocity with no scalar", i, before[i], v)
		}
	}
}
