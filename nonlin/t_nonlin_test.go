// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nonlin

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_nonlin01(tst *testing.T) {

	chk.PrintTitle("nonlin01. Convective form matches u*dphi/dx + v*dphi/dy")

	term := &Term{Form: Convective}
	s := Sample{
		U: []float64{1, 2, 3}, V: []float64{4, 5, 6},
		DPhiDx: []float64{0.1, 0.2, 0.3}, DPhiDy: []float64{1, 1, 1},
	}
	out, err := term.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	for i := range out {
		want := s.U[i]*s.DPhiDx[i] + s.V[i]*s.DPhiDy[i]
		if out[i] != want {
			tst.Errorf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func Test_nonlin02(tst *testing.T) {

	chk.PrintTitle("nonlin02. Alternating flips between Convective and Divergence each Step")

	term := &Term{Form: Alternating}
	s := Sample{
		U: []float64{2}, V: []float64{3},
		DPhiDx: []float64{1}, DPhiDy: []float64{1},
		Phi: []float64{5}, DivU: []float64{0.5},
	}

	out1, err := term.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	term.Step()
	out2, err := term.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	term.Step()
	out3, err := term.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}

	if out1[0] != out3[0] {
		tst.Errorf("two Step() calls should return to the original sub-form: %v != %v", out1[0], out3[0])
	}
	if out1[0] == out2[0] {
		tst.Errorf("the two alternating sub-forms should differ when phi*div(u) != 0: both gave %v", out1[0])
	}
}

func Test_nonlin04(tst *testing.T) {

	chk.PrintTitle("nonlin04. Stokes suppresses the advection term entirely")

	term := &Term{Form: Stokes}
	out, err := term.Evaluate(Sample{
		Phi: []float64{1, 2}, U: []float64{3, 4},
		V: []float64{5, 6}, DPhiDx: []float64{7, 8}, DPhiDy: []float64{9, 10},
	})
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	for i, v := range out {
		if v != 0 {
			tst.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}

func Test_nonlin03(tst *testing.T) {

	chk.PrintTitle("nonlin03. HighWavenumberFilter damps only planes at or above the cutoff")

	f := HighWavenumberFilter(2, 0.5)
	planes := [][]float64{{1}, {1}, {1}, {1}, {1}, {1}}
	f(planes)
	for z, p := range planes {
		k := z / 2
		want := 1.0
		if k >= 2 {
			want = 0.5
		}
		if p[0] != want {
			tst.Errorf("planes[%d][0] = %v, want %v (k=%d)", z, p[0], want, k)
		}
	}
}

func Test_nonlin05(tst *testing.T) {

	chk.PrintTitle("nonlin05. Divergence form adds phi*div(u) to the convective term")

	s := Sample{
		U: []float64{2}, V: []float64{3}, Phi: []float64{4},
		DPhiDx: []float64{1}, DPhiDy: []float64{1}, DivU: []float64{0.5},
	}
	term := &Term{Form: Divergence}
	out, err := term.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	want := s.U[0]*s.DPhiDx[0] + s.V[0]*s.DPhiDy[0] + s.Phi[0]*s.DivU[0]
	if out[0] != want {
		tst.Errorf("out = %v, want %v", out[0], want)
	}
}

func Test_nonlin06(tst *testing.T) {

	chk.PrintTitle("nonlin06. SkewSymmetric is the average of Convective and Divergence")

	s := Sample{
		U: []float64{2}, V: []float64{3}, Phi: []float64{4},
		DPhiDx: []float64{1}, DPhiDy: []float64{1}, DivU: []float64{0.5},
	}
	conv, err := (&Term{Form: Convective}).Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	div, err := (&Term{Form: Divergence}).Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	skew, err := (&Term{Form: SkewSymmetric}).Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	want := 0.5 * (conv[0] + div[0])
	if skew[0] != want {
		tst.Errorf("skew = %v, want %v", skew[0], want)
	}
}

func Test_nonlin07(tst *testing.T) {

	chk.PrintTitle("nonlin07. Rotational cross-multiplies velocity by z-vorticity for u and v")

	s := Sample{
		U: []float64{2}, V: []float64{3},
		DPhiDx: []float64{1}, DPhiDy: []float64{1},
		DUdy: []float64{0.4}, DVdx: []float64{0.1}, // omegaZ = dv/dx - du/dy = -0.3
	}
	omegaZ := s.DVdx[0] - s.DUdy[0]

	uTerm := &Term{Form: Rotational, Component: "u"}
	outU, err := uTerm.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	if want := s.V[0] * omegaZ; outU[0] != want {
		tst.Errorf("u-component out = %v, want %v", outU[0], want)
	}

	vTerm := &Term{Form: Rotational, Component: "v"}
	outV, err := vTerm.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	if want := -s.U[0] * omegaZ; outV[0] != want {
		tst.Errorf("v-component out = %v, want %v", outV[0], want)
	}

	// Without vorticity data (e.g. for "w" or "c"), Rotational falls back
	// to the plain convective form rather than erroring.
	wTerm := &Term{Form: Rotational, Component: "w"}
	outW, err := wTerm.Evaluate(s)
	if err != nil {
		tst.Fatalf("Evaluate: %v", err)
	}
	if want := s.U[0]*s.DPhiDx[0] + s.V[0]*s.DPhiDy[0]; outW[0] != want {
		tst.Errorf("w-component out = %v, want %v", outW[0], want)
	}
}
