// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tstep computes the stiffly-stable (Karniadakis-Israeli-Orszag)
// multi-level integration coefficients: BDF-alpha for the implicit viscous
// term and extrapolation-beta for the explicit nonlinear term.
package tstep

import "github.com/cpmech/gosl/chk"

// MaxOrder is the highest supported time-integration order.
const MaxOrder = 3

// bdfAlpha[J] holds alpha[0..J] for BDF order J (index 0 unused).
var bdfAlpha = [MaxOrder + 1][]float64{
	nil,
	{1.0, -1.0},
	{3.0 / 2.0, -2.0, 1.0 / 2.0},
	{11.0 / 6.0, -3.0, 3.0 / 2.0, -1.0 / 3.0},
}

// extrapBeta[J] holds beta[0..J-1] for extrapolation order J (index 0 unused).
var extrapBeta = [MaxOrder + 1][]float64{
	nil,
	{1.0},
	{2.0, -1.0},
	{3.0, -3.0, 1.0},
}

// Order returns the active time-integration order during ramp-up: for
// step < N the order is min(step, N); for step >= N it is N.
func Order(step, n int) int {
	if n < 1 {
		n = 1
	}
	if n > MaxOrder {
		n = MaxOrder
	}
	if step < 1 {
		step = 1
	}
	if step < n {
		return step
	}
	return n
}

// BDFAlpha returns the J+1 BDF coefficients alpha[0..J] for order J in
// {1,2,3}: alpha[0] multiplies the new (unknown) time level.
func BDFAlpha(j int) ([]float64, error) {
	if j < 1 || j > MaxOrder {
		return nil, chk.Err("tstep: BDF order must be in [1,%d] (got %d)", MaxOrder, j)
	}
	out := make([]float64, len(bdfAlpha[j]))
	copy(out, bdfAlpha[j])
	return out, nil
}

// ExtrapBeta returns the J extrapolation coefficients beta[0..J-1] for
// order J in {1,2,3}, matching KIO91.
func ExtrapBeta(j int) ([]float64, error) {
	if j < 1 || j > MaxOrder {
		return nil, chk.Err("tstep: extrapolation order must be in [1,%d] (got %d)", MaxOrder, j)
	}
	out := make([]float64, len(extrapBeta[j]))
	copy(out, extrapBeta[j])
	return out, nil
}

// Coefs bundles the active-order alpha and beta vectors for one step, as
// consumed by the integrator (C10).
type Coefs struct {
	N     int       // configured (maximum) integration order
	Order int       // active order this step (ramps up to N)
	Alpha []float64 // BDF coefficients, length Order+1
	Beta  []float64 // extrapolation coefficients, length Order
}

// AtStep builds the Coefs active at the given step, for a configured order n.
func AtStep(step, n int) (*Coefs, error) {
	order := Order(step, n)
	alpha, err := BDFAlpha(order)
	if err != nil {
		return nil, err
	}
	beta, err := ExtrapBeta(order)
	if err != nil {
		return nil, err
	}
	return &Coefs{N: n, Order: order, Alpha: alpha, Beta: beta}, nil
}
