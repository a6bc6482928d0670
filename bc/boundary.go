// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bc implements the boundary system (C5): named groups of mesh
// edges with an attached condition (essential, natural, mixed, axis, or
// high-order computed pressure) per field, plus the operations the
// matsys/field/solver packages drive through: evaluating a condition at
// the current time, writing it into a global vector, accumulating a
// natural-flux right-hand side, and augmenting the assembled operator for
// mixed and axis conditions. It also carries the high-order pressure
// boundary condition manager (C6).
package bc

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"
	"github.com/cpmech/gosl/la"

	"github.com/lab272/semtex-varkinvis-sub001/expr"
	"github.com/lab272/semtex-varkinvis-sub001/session"
)

// Kind enumerates the condition variants spec §4.5 names.
type Kind int

const (
	Essential Kind = iota // Dirichlet: u = g(x,t)
	Natural               // Neumann: du/dn = g(x,t)
	Mixed                 // Robin: alpha*u + beta*du/dn = g(x,t)
	Axis                  // cylindrical-axis regularity: modes k != 0 penalised to zero (AugmentSC), no free value
	PBC                   // high-order computed pressure BC, see Manager
)

// Condition is the value (or coupling law) attached to one Boundary.
type Condition struct {
	Kind        Kind
	Val         expr.Expr // essential/natural/mixed right-hand side g(x,t)
	Alpha, Beta float64   // mixed-condition coefficients
}

// Boundary is one named group of global degrees of freedom sharing a
// Condition for a single field.
type Boundary struct {
	Group string
	Field string
	Cond  Condition
	Dofs  []int
	X, Y  []float64 // coordinates aligned with Dofs, for evaluating Val

	// Nx, Ny is the unit outward normal and Area the quadrature weight at
	// each Dofs entry, both accumulated over the incident surface edges by
	// Build. Natural boundaries need Area to turn a flux density into a
	// consistent nodal force; the analyser's wall-traction diagnostic (C11)
	// needs Nx, Ny to resolve the stress tensor into normal/tangential
	// components.
	Nx, Ny, Area []float64
}

// Evaluate returns g(x,t) at every dof of the boundary at time t, step.
func (b *Boundary) Evaluate(t float64, step int) []float64 {
	out := make([]float64, len(b.Dofs))
	for i := range b.Dofs {
		env := expr.Env{X: b.X[i], Y: b.Y[i], T: t, Step: step}
		out[i] = b.Cond.Val.At(env)
	}
	return out
}

// Set writes the essential value into glob at every dof of the boundary.
// No-op for non-essential boundaries.
func (b *Boundary) Set(glob []float64, t float64, step int) {
	if b.Cond.Kind != Essential {
		return
	}
	vals := b.Evaluate(t, step)
	for i, d := range b.Dofs {
		glob[d] = vals[i]
	}
}

// Sum accumulates the natural-flux contribution into rhs at every dof of
// the boundary, weighted by the boundary's quadrature Area so a flux
// density g(x,t) becomes a consistent nodal force. No-op for non-natural
// boundaries.
func (b *Boundary) Sum(rhs []float64, t float64, step int) {
	if b.Cond.Kind != Natural {
		return
	}
	vals := b.Evaluate(t, step)
	for i, d := range b.Dofs {
		rhs[d] += vals[i] * b.Area[i]
	}
}

// AugmentOp folds a mixed (Robin) boundary's alpha*u term into the
// assembled operator, used by the DIRECT Helmholtz assembly (C7).
func (b *Boundary) AugmentOp(op *la.Triplet) {
	if b.Cond.Kind != Mixed || b.Cond.Alpha == 0 {
		return
	}
	for _, d := range b.Dofs {
		op.Put(d, d, b.Cond.Alpha)
	}
}

// AugmentDg folds the same mixed-condition alpha*u term into a
// diagonal-only representation, used by the JACPCG preconditioner (C7)
// which never assembles the full operator.
func (b *Boundary) AugmentDg(diag []float64) {
	if b.Cond.Kind != Mixed || b.Cond.Alpha == 0 {
		return
	}
	for _, d := range b.Dofs {
		diag[d] += b.Cond.Alpha
	}
}

// AxisPenalty is the diagonal weight AugmentSC/AugmentSCDg add at an Axis
// boundary's dofs for a non-axisymmetric Fourier mode, large enough relative
// to a typical Helmholtz stiffness entry to drive that mode's solution at
// r=0 to within solver tolerance of zero without reworking the assembly's
// essential-dof bookkeeping for a condition that is only sometimes
// essential, depending on which mode is currently being solved.
const AxisPenalty = 1e8

// AugmentSC enforces the cylindrical-axis regularity condition on an Axis
// boundary for the DIRECT operator assembly (C7): a field value at r=0 is
// only single-valued for the axisymmetric (k=0) Fourier mode, so every
// higher mode's dofs there must vanish. k=0 is left unconstrained; k!=0
// gets a large diagonal penalty, the same penalty-method idiom AugmentOp
// already uses for Robin conditions. No-op for non-axis boundaries.
func (b *Boundary) AugmentSC(op *la.Triplet, k int) {
	if b.Cond.Kind != Axis || k == 0 {
		return
	}
	for _, d := range b.Dofs {
		op.Put(d, d, AxisPenalty)
	}
}

// AugmentSCDg is AugmentSC's diagonal-only counterpart, used by the JACPCG
// preconditioner (C7) which never assembles the full operator.
func (b *Boundary) AugmentSCDg(diag []float64, k int) {
	if b.Cond.Kind != Axis || k == 0 {
		return
	}
	for _, d := range b.Dofs {
		diag[d] += AxisPenalty
	}
}

// NodeIndex resolves raw (x,y) coordinates to the nearest mesh node id,
// used to build boundary dof lists and by the analyser (C11) to locate
// history points, the same role gosl/out's NodBins plays in the teacher.
type NodeIndex struct {
	bins gm.Bins
	ids  []int
}

// NewNodeIndex bins every node in nodes for nearest-point lookup.
func NewNodeIndex(nodes []session.Node) (*NodeIndex, error) {
	if len(nodes) == 0 {
		return nil, chk.Err("bc: NewNodeIndex: no nodes")
	}
	xi := []float64{nodes[0].X, nodes[0].Y}
	xf := []float64{nodes[0].X, nodes[0].Y}
	for _, n := range nodes[1:] {
		if n.X < xi[0] {
			xi[0] = n.X
		}
		if n.Y < xi[1] {
			xi[1] = n.Y
		}
		if n.X > xf[0] {
			xf[0] = n.X
		}
		if n.Y > xf[1] {
			xf[1] = n.Y
		}
	}
	ndiv := []int{int(1 + (xf[0]-xi[0])), int(1 + (xf[1]-xi[1]))}
	ni := &NodeIndex{}
	if err := ni.bins.Init(xi, xf, ndiv); err != nil {
		return nil, chk.Err("bc: bins.Init: %v", err)
	}
	for _, n := range nodes {
		if err := ni.bins.Append([]float64{n.X, n.Y}, n.Id); err != nil {
			return nil, chk.Err("bc: bins.Append: %v", err)
		}
		ni.ids = append(ni.ids, n.Id)
	}
	return ni, nil
}

// Nearest returns the id of the node closest to (x,y), or -1 if the point
// falls outside the indexed bounding box.
func (ni *NodeIndex) Nearest(x, y float64) int {
	return ni.bins.Find([]float64{x, y})
}

// edgeVerts returns the two global node ids of side (0..3) of a
// quadrilateral element, CCW convention matching session.Element.Verts.
func edgeVerts(e session.Element, side int) (int, int) {
	a := side
	b := (side + 1) % 4
	return e.Verts[a], e.Verts[b]
}

// nodeAccum accumulates the outward-normal and quadrature-weight
// contributions from every surface edge incident to one node.
type nodeAccum struct {
	nx, ny, area float64
}

// Build constructs one Boundary per (group, field, BCSpec) triple named in
// sess, by collecting every node touched by a Surface tagged with that
// group and accumulating each node's outward normal and quadrature weight
// from the edges it sits on. An edge (v0,v1) with CCW tangent (dx,dy)
// contributes the unit normal (dy,-dx)/length -- pointing away from the
// element's interior for a CCW-wound quad -- weighted by the half-edge
// length at each endpoint, a trapezoidal nodal-weight rule (it matches
// elem.Element.Weight's GLL edge weights only for np=2). Val is resolved with
// valueFor, which the caller supplies so BC literals ("0.0") and named
// function-table entries share one path (expr.Const vs expr.New).
func Build(sess *session.Session, nodesByID map[int]session.Node, valueFor func(spec session.BCSpec) (expr.Expr, error)) ([]*Boundary, error) {
	elemByID := make(map[int]session.Element, len(sess.Elements))
	for _, e := range sess.Elements {
		elemByID[e.Id] = e
	}

	accumByGroup := make(map[string]map[int]*nodeAccum)
	for _, s := range sess.Surfaces {
		e, ok := elemByID[s.ElementID]
		if !ok {
			return nil, chk.Err("bc: surface references unknown element %d", s.ElementID)
		}
		v0, v1 := edgeVerts(e, s.Side)
		n0, ok0 := nodesByID[v0]
		n1, ok1 := nodesByID[v1]
		if !ok0 || !ok1 {
			return nil, chk.Err("bc: surface (element %d, side %d) references unknown node", s.ElementID, s.Side)
		}
		dx, dy := n1.X-n0.X, n1.Y-n0.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			return nil, chk.Err("bc: degenerate surface edge (element %d, side %d)", s.ElementID, s.Side)
		}
		nx, ny := dy/length, -dx/length
		half := length / 2

		group := accumByGroup[s.Group]
		if group == nil {
			group = make(map[int]*nodeAccum)
			accumByGroup[s.Group] = group
		}
		for _, v := range [2]int{v0, v1} {
			a := group[v]
			if a == nil {
				a = &nodeAccum{}
				group[v] = a
			}
			a.nx += nx * half
			a.ny += ny * half
			a.area += half
		}
	}

	var out []*Boundary
	for _, spec := range sess.BCs {
		accum, ok := accumByGroup[spec.Group]
		if !ok || len(accum) == 0 {
			return nil, chk.Err("bc: group %q has no surfaces", spec.Group)
		}
		var kind Kind
		switch spec.Kind {
		case "essential":
			kind = Essential
		case "natural":
			kind = Natural
		case "mixed":
			kind = Mixed
		case "axis":
			kind = Axis
		case "pbc":
			kind = PBC
		default:
			return nil, chk.Err("bc: unknown condition kind %q", spec.Kind)
		}
		val, err := valueFor(spec)
		if err != nil {
			return nil, err
		}
		b := &Boundary{Group: spec.Group, Field: spec.Field, Cond: Condition{Kind: kind, Val: val}}
		ids := make([]int, 0, len(accum))
		for id := range accum {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			n, ok := nodesByID[id]
			if !ok {
				return nil, chk.Err("bc: surface references unknown node %d", id)
			}
			a := accum[id]
			mag := math.Hypot(a.nx, a.ny)
			var nx, ny float64
			if mag > 0 {
				nx, ny = a.nx/mag, a.ny/mag
			}
			b.Dofs = append(b.Dofs, id)
			b.X = append(b.X, n.X)
			b.Y = append(b.Y, n.Y)
			b.Nx = append(b.Nx, nx)
			b.Ny = append(b.Ny, ny)
			b.Area = append(b.Area, a.area)
		}
		out = append(out, b)
	}
	return out, nil
}
