// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bc

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/lab272/semtex-varkinvis-sub001/expr"
	"github.com/lab272/semtex-varkinvis-sub001/session"
)

const sample = `
NODES 4
0 0.0 0.0
1 1.0 0.0
2 1.0 1.0
3 0.0 1.0
ENDNODES

ELEMENTS 1
0 0 1 2 3
ENDELEMENTS

SURFACES 1
0 0 wall
ENDSURFACES

GROUPS 1
w wall
ENDGROUPS

BCS 1
w u essential 2.5
ENDBCS
`

func mustSession(tst *testing.T) *session.Session {
	s, err := session.Parse(strings.NewReader(sample))
	if err != nil {
		tst.Fatalf("Parse failed: %v", err)
	}
	return s
}

func Test_bc01(tst *testing.T) {

	chk.PrintTitle("bc01. Build collects the two essential dofs on edge 0")

	s := mustSession(tst)
	nodesByID := make(map[int]session.Node)
	for _, n := range s.Nodes {
		nodesByID[n.Id] = n
	}
	bnds, err := Build(s, nodesByID, func(spec session.BCSpec) (expr.Expr, error) {
		switch spec.Value {
		case "2.5":
			return expr.Const(2.5), nil
		default:
			return expr.Const(0), nil
		}
	})
	if err != nil {
		tst.Errorf("Build failed: %v", err)
		return
	}
	chk.IntAssert(len(bnds), 1)
	chk.IntAssert(len(bnds[0].Dofs), 2)
	if bnds[0].Cond.Kind != Essential {
		tst.Errorf("Cond.Kind = %v, want Essential", bnds[0].Cond.Kind)
	}
}

func Test_bc02(tst *testing.T) {

	chk.PrintTitle("bc02. Set writes the essential value into the global vector")

	s := mustSession(tst)
	nodesByID := make(map[int]session.Node)
	for _, n := range s.Nodes {
		nodesByID[n.Id] = n
	}
	bnds, err := Build(s, nodesByID, func(spec session.BCSpec) (expr.Expr, error) {
		return expr.Const(2.5), nil
	})
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	glob := make([]float64, 4)
	bnds[0].Set(glob, 0, 0)
	for _, d := range bnds[0].Dofs {
		if glob[d] != 2.5 {
			tst.Errorf("glob[%d] = %v, want 2.5", d, glob[d])
		}
	}
}

func Test_bc03(tst *testing.T) {

	chk.PrintTitle("bc03. AugmentOp and AugmentDg only act on Mixed boundaries")

	mixed := &Boundary{Dofs: []int{1, 2}, Cond: Condition{Kind: Mixed, Alpha: 3.0, Val: expr.Const(0)}}
	essential := &Boundary{Dofs: []int{0}, Cond: Condition{Kind: Essential, Val: expr.Const(0)}}

	op := new(la.Triplet)
	op.Init(4, 4, 8)
	mixed.AugmentOp(op)
	essential.AugmentOp(op) // must be a no-op: an essential boundary never augments the operator

	diag := make([]float64, 4)
	mixed.AugmentDg(diag)
	essential.AugmentDg(diag)
	for _, d := range mixed.Dofs {
		if diag[d] != 3.0 {
			tst.Errorf("diag[%d] = %v, want 3.0", d, diag[d])
		}
	}
	if diag[0] != 0 {
		tst.Errorf("diag[0] = %v, want 0 (essential boundary must not augment)", diag[0])
	}
}

func Test_bc04(tst *testing.T) {

	chk.PrintTitle("bc04. Build computes the outward normal and half-edge area on a unit-square edge")

	s := mustSession(tst)
	nodesByID := make(map[int]session.Node)
	for _, n := range s.Nodes {
		nodesByID[n.Id] = n
	}
	bnds, err := Build(s, nodesByID, func(spec session.BCSpec) (expr.Expr, error) {
		return expr.Const(2.5), nil
	})
	if err != nil {
		tst.Fatalf("Build failed: %v", err)
	}
	b := bnds[0]
	// edge 0 runs from node 0 (0,0) to node 1 (1,0): outward normal (0,-1),
	// half-edge length 0.5 at each endpoint.
	for i := range b.Dofs {
		if b.Nx[i] != 0 || b.Ny[i] != -1 {
			tst.Errorf("dof %d: (Nx,Ny) = (%v,%v), want (0,-1)", b.Dofs[i], b.Nx[i], b.Ny[i])
		}
		if b.Area[i] != 0.5 {
			tst.Errorf("dof %d: Area = %v, want 0.5", b.Dofs[i], b.Area[i])
		}
	}
}

func Test_bc05(tst *testing.T) {

	chk.PrintTitle("bc05. AugmentSC and AugmentSCDg penalize an Axis boundary only for k != 0")

	axis := &Boundary{Dofs: []int{1, 2}, Cond: Condition{Kind: Axis, Val: expr.Const(0)}}

	op := new(la.Triplet)
	op.Init(4, 4, 8)
	axis.AugmentSC(op, 0)
	if op.Len() != 0 {
		tst.Errorf("AugmentSC at k=0 must be a no-op, got %d entries", op.Len())
	}
	axis.AugmentSC(op, 1)
	if op.Len() != 2 {
		tst.Errorf("AugmentSC at k=1 should add 2 entries, got %d", op.Len())
	}

	diag := make([]float64, 4)
	axis.AugmentSCDg(diag, 0)
	for _, d := range axis.Dofs {
		if diag[d] != 0 {
			tst.Errorf("AugmentSCDg at k=0 must be a no-op, diag[%d] = %v", d, diag[d])
		}
	}
	axis.AugmentSCDg(diag, 2)
	for _, d := range axis.Dofs {
		if diag[d] != AxisPenalty {
			tst.Errorf("diag[%d] = %v, want %v", d, diag[d], AxisPenalty)
		}
	}
}

func Test_pbc01(tst *testing.T) {

	chk.PrintTitle("pbc01. MaintainFourier ring buffer and Extrapolate")

	m := NewManager([]int{0, 1}, []float64{1, 1}, []float64{0, 0})
	if err := m.MaintainFourier([]float64{1, 1}); err != nil {
		tst.Fatalf("MaintainFourier: %v", err)
	}
	if err := m.MaintainFourier([]float64{2, 2}); err != nil {
		tst.Fatalf("MaintainFourier: %v", err)
	}
	out, err := m.Extrapolate(2, 3)
	if err != nil {
		tst.Fatalf("Extrapolate: %v", err)
	}
	// order ramps to 2 at step 2: beta = {2,-1} -> 2*history[0] - history[1]
	// history[0]={2,2}, history[1]={1,1} -> want {3,3}
	want := 3.0
	if out[0] != want || out[1] != want {
		tst.Errorf("Extrapolate = %v, want [%v %v]", out, want, want)
	}
}
