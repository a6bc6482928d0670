// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_flows01(tst *testing.T) {

	chk.PrintTitle("flows01. Kovasznay flow has a negative decay rate and matches its closed form at x=0")

	k := NewKovasznay(40)
	if k.lambda >= 0 {
		tst.Fatalf("lambda = %v, want negative (Re=40)", k.lambda)
	}
	u := k.U(0, 0.25)
	want := 1 - math.Cos(2*math.Pi*0.25)
	if math.Abs(u-want) > 1e-12 {
		tst.Errorf("U(0,0.25) = %v, want %v", u, want)
	}
}

func Test_flows02(tst *testing.T) {

	chk.PrintTitle("flows02. Taylor-Green vortex decays in time and is divergence-free")

	tg := &TaylorGreen{Nu: 0.1}
	u0 := tg.U(0.3, 0.7, 0)
	u1 := tg.U(0.3, 0.7, 1.0)
	if math.Abs(u1) >= math.Abs(u0) {
		tst.Errorf("U should decay: U(t=0)=%v, U(t=1)=%v", u0, u1)
	}
	h := 1e-6
	dudx := (tg.U(0.3+h, 0.7, 0) - tg.U(0.3-h, 0.7, 0)) / (2 * h)
	dvdy := (tg.V(0.3, 0.7+h, 0) - tg.V(0.3, 0.7-h, 0)) / (2 * h)
	if math.Abs(dudx+dvdy) > 1e-6 {
		tst.Errorf("divergence = %v, want ~0", dudx+dvdy)
	}
}

func Test_flows03(tst *testing.T) {

	chk.PrintTitle("flows03. Helmholtz manufactured solution vanishes on y=0 and matches sin(2pi x) on y=1")

	h := HelmholtzManufactured{}
	if v := h.Exact(0.3, 0); math.Abs(v) > 1e-12 {
		tst.Errorf("Exact(x,0) = %v, want 0", v)
	}
	v := h.Exact(0.25, 1)
	want := math.Sin(2 * math.Pi * 0.25)
	if math.Abs(v-want) > 1e-9 {
		tst.Errorf("Exact(0.25,1) = %v, want %v", v, want)
	}
}

func Test_flows04(tst *testing.T) {

	chk.PrintTitle("flows04. besselJ0 matches the known value J0(0)=1")

	if v := real(besselJ0(complex(0, 0))); math.Abs(v-1) > 1e-12 {
		tst.Errorf("besselJ0(0) = %v, want 1", v)
	}
}

func Test_flows05(tst *testing.T) {

	chk.PrintTitle("flows05. VerifyBesselJ0 agrees with an independent ODE integration to 1e-6")

	for _, r := range []float64{0.5, 1.0, 2.0} {
		series, odeVal, err := VerifyBesselJ0(r)
		if err != nil {
			tst.Fatalf("VerifyBesselJ0(%v): %v", r, err)
		}
		if math.Abs(series-odeVal) > 1e-6 {
			tst.Errorf("r=%v: series=%v, ode=%v, diff=%v", r, series, odeVal, series-odeVal)
		}
	}
}

func Test_flows06(tst *testing.T) {

	chk.PrintTitle("flows06. Womersley centreline velocity is finite and periodic with the driving frequency")

	w := &Womersley{R: 1, Nu: 0.01, Rho: 1, Omega: 2 * math.Pi, DPdx: 1}
	v0 := w.CenterlineVelocity(0)
	vQuarter := w.CenterlineVelocity(0.25)
	if math.IsNaN(v0) || math.IsNaN(vQuarter) {
		tst.Fatalf("CenterlineVelocity produced NaN: v0=%v vQuarter=%v", v0, vQuarter)
	}
	vPeriod := w.CenterlineVelocity(1.0) // one full period later (Omega*1 = 2*pi)
	if math.Abs(vPeriod-v0) > 1e-9 {
		tst.Errorf("velocity should repeat after one period: v(0)=%v, v(T)=%v", v0, vPeriod)
	}
}
