// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package elem defines the consumed interface to the 2-D spectral-element
// operators (spec §6.1): reference-quad shape functions, Gauss-Lobatto
// quadrature, elemental mass/stiffness/derivative matrices, and the
// element-to-global assembly map. These are deliberately out of the core's
// scope -- this package carries only the narrow interface the core calls
// through, plus a reference implementation (Gauss-Lobatto-Legendre nodal
// quads) so the rest of the module has something concrete to exercise and
// test against.
package elem

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// gaussLobattoLegendre returns the np Gauss-Lobatto-Legendre nodes on
// [-1,1] and their quadrature weights, via Newton iteration on the
// derivative of the (np-1)-th Legendre polynomial (the interior nodes are
// its roots; the endpoints are always included).
func gaussLobattoLegendre(np int) (x, w []float64) {
	n := np - 1 // polynomial degree
	x = make([]float64, np)
	w = make([]float64, np)
	x[0], x[np-1] = -1, 1
	for i := 1; i < np-1; i++ {
		// Chebyshev-Gauss-Lobatto initial guess
		guess := -math.Cos(math.Pi * float64(i) / float64(n))
		xi := guess
		for it := 0; it < 100; it++ {
			pn, dpn, d2pn := legendreAndDerivs(n, xi)
			_ = pn
			// Newton on P'_n(x) = 0
			delta := dpn / d2pn
			xi -= delta
			if math.Abs(delta) < 1e-15 {
				break
			}
		}
		x[i] = xi
	}
	for i := 0; i < np; i++ {
		pn, _, _ := legendreAndDerivs(n, x[i])
		w[i] = 2.0 / (float64(n*(n+1)) * pn * pn)
	}
	return
}

// legendreAndDerivs evaluates the degree-n Legendre polynomial and its
// first two derivatives at x via the standard three-term recurrence.
func legendreAndDerivs(n int, x float64) (p, dp, d2p float64) {
	p0, p1 := 1.0, x
	dp0, dp1 := 0.0, 1.0
	d2p0, d2p1 := 0.0, 0.0
	if n == 0 {
		return p0, dp0, d2p0
	}
	for k := 1; k < n; k++ {
		kk := float64(k)
		p2 := ((2*kk+1)*x*p1 - kk*p0) / (kk + 1)
		dp2 := ((2*kk+1)*(p1+x*dp1) - kk*dp0) / (kk + 1)
		d2p2 := ((2*kk+1)*(2*dp1+x*d2p1) - kk*d2p0) / (kk + 1)
		p0, p1 = p1, p2
		dp0, dp1 = dp1, dp2
		d2p0, d2p1 = d2p1, d2p2
	}
	return p1, dp1, d2p1
}

// Element is the per-element spectral operator set the core calls through.
type Element interface {
	Id() int
	Np() int

	// MeshElmt fills np*np physical coordinates from reference-quad nodal
	// locations.
	MeshElmt(xOut, yOut []float64)

	// Weight multiplies v in place by the element's quadrature weights,
	// including the geometric Jacobian.
	Weight(v []float64)

	// MulY multiplies v in place by the y-coordinate (radius in
	// cylindrical coordinates).
	MulY(v []float64)

	// Gradient applies the collocation derivative along axis (0=xi,1=eta)
	// followed by the metric, writing into out.
	Gradient(axis int, in, out []float64)
}

// AssemblyMap maps element-edge-local indices to global degree-of-freedom
// indices, plus a bitmap of essential (masked) indices.
type AssemblyMap struct {
	Local2Global []int  // local index -> global DOF index
	Essential    []bool // true where the global DOF carries an essential BC
}

// NewAssemblyMap allocates an identity-sized map for n local DOFs.
func NewAssemblyMap(n int) *AssemblyMap {
	return &AssemblyMap{Local2Global: make([]int, n), Essential: make([]bool, n)}
}

// QuadElement is a reference implementation of Element on an np x np
// Gauss-Lobatto-Legendre tensor-product quad, sufficient to drive the
// manufactured-solution and property tests in this repository; production
// deployments replace it with the full spectral-element operator library
// named in spec §6.1.
type QuadElement struct {
	id     int
	np     int
	x0, y0 float64 // lower-left corner
	hx, hy float64 // element extents
	gll    []float64
	wgl    []float64
}

// NewQuadElement builds a rectangular element [x0,x0+hx] x [y0,y0+hy]
// discretised with an np x np Gauss-Lobatto-Legendre nodal grid.
func NewQuadElement(id, np int, x0, y0, hx, hy float64) (*QuadElement, error) {
	if np < 2 {
		return nil, chk.Err("elem: Np must be >= 2 (got %d)", np)
	}
	gll, wgl := gaussLobattoLegendre(np)
	return &QuadElement{id: id, np: np, x0: x0, y0: y0, hx: hx, hy: hy, gll: gll, wgl: wgl}, nil
}

func (o *QuadElement) Id() int { return o.id }
func (o *QuadElement) Np() int { return o.np }

func (o *QuadElement) MeshElmt(xOut, yOut []float64) {
	for j := 0; j < o.np; j++ {
		y := o.y0 + 0.5*o.hy*(o.gll[j]+1)
		for i := 0; i < o.np; i++ {
			x := o.x0 + 0.5*o.hx*(o.gll[i]+1)
			idx := j*o.np + i
			xOut[idx] = x
			yOut[idx] = y
		}
	}
}

func (o *QuadElement) Weight(v []float64) {
	jac := 0.25 * o.hx * o.hy
	for j := 0; j < o.np; j++ {
		for i := 0; i < o.np; i++ {
			idx := j*o.np + i
			v[idx] *= o.wgl[i] * o.wgl[j] * jac
		}
	}
}

func (o *QuadElement) MulY(v []float64) {
	for j := 0; j < o.np; j++ {
		y := o.y0 + 0.5*o.hy*(o.gll[j]+1)
		for i := 0; i < o.np; i++ {
			v[j*o.np+i] *= y
		}
	}
}

// Gradient applies the collocation derivative matrix along xi (axis==0) or
// eta (axis==1), scaled by the (constant, rectangular-element) metric.
func (o *QuadElement) Gradient(axis int, in, out []float64) {
	d := lagrangeDerivMatrix(o.gll)
	np := o.np
	switch axis {
	case 0:
		scale := 2.0 / o.hx
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				var sum float64
				for k := 0; k < np; k++ {
					sum += d[i][k] * in[j*np+k]
				}
				out[j*np+i] = scale * sum
			}
		}
	case 1:
		scale := 2.0 / o.hy
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				var sum float64
				for k := 0; k < np; k++ {
					sum += d[j][k] * in[k*np+i]
				}
				out[j*np+i] = scale * sum
			}
		}
	}
}

// lagrangeDerivMatrix returns the np x np differentiation matrix of the
// Lagrange interpolant through nodes (the standard spectral collocation
// derivative).
func lagrangeDerivMatrix(nodes []float64) [][]float64 {
	n := len(nodes)
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			wi, wj := 1.0, 1.0
			for k := 0; k < n; k++ {
				if k != i {
					wi *= nodes[i] - nodes[k]
				}
				if k != j {
					wj *= nodes[j] - nodes[k]
				}
			}
			d[i][j] = wi / (wj * (nodes[i] - nodes[j]))
		}
		var rowsum float64
		for k := 0; k < n; k++ {
			if k != i {
				rowsum += d[i][k]
			}
		}
		d[i][i] = -rowsum
	}
	return d
}
