// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bc

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/tstep"
)

// Manager implements the high-order pressure boundary condition (C6):
// maintaining, at every pressure-boundary dof, a short history of the
// normal derivative of the extrapolated nonlinear/viscous terms so the
// pressure Poisson solve can use a consistent, Order-accurate Neumann
// condition instead of freezing it at the previous step's value.
type Manager struct {
	order  int
	dofs   []int
	nx, ny []float64 // dof-aligned outward normal, for projecting N(u) onto n
	// history[l] holds the dof-aligned values recorded l steps back,
	// history[0] is the most recent; maintainFourier rotates this ring.
	history [][]float64
}

// NewManager allocates a Manager tracking len(dofs) pressure-boundary dofs
// up to tstep.MaxOrder levels of history. nx, ny are the dof-aligned
// outward normal components used to project the nonlinear forcing onto
// the boundary normal direction.
func NewManager(dofs []int, nx, ny []float64) *Manager {
	m := &Manager{dofs: dofs, nx: nx, ny: ny, history: make([][]float64, tstep.MaxOrder)}
	for l := range m.history {
		m.history[l] = make([]float64, len(dofs))
	}
	return m
}

// Normal returns the dof-aligned outward normal components this manager
// was built with.
func (m *Manager) Normal() (nx, ny []float64) { return m.nx, m.ny }

// MaintainFourier rotates the history ring and records the latest
// per-dof normal-derivative sample, mirroring the bcmgr ring buffer named
// in spec §4.6.
func (m *Manager) MaintainFourier(sample []float64) error {
	if len(sample) != len(m.dofs) {
		return chk.Err("bc: MaintainFourier: sample length %d != %d dofs", len(sample), len(m.dofs))
	}
	for l := len(m.history) - 1; l > 0; l-- {
		copy(m.history[l], m.history[l-1])
	}
	copy(m.history[0], sample)
	m.order++
	if m.order > tstep.MaxOrder {
		m.order = tstep.MaxOrder
	}
	return nil
}

// Extrapolate returns the Order(step,n)-accurate extrapolated
// normal-derivative value at every tracked dof, for use as the current
// step's pressure Neumann condition.
func (m *Manager) Extrapolate(step, n int) ([]float64, error) {
	order := tstep.Order(step, n)
	if order > m.order {
		order = m.order
	}
	if order == 0 {
		return make([]float64, len(m.dofs)), nil
	}
	beta, err := tstep.ExtrapBeta(order)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(m.dofs))
	for l, b := range beta {
		for i := range out {
			out[i] += b * m.history[l][i]
		}
	}
	return out, nil
}

// Dofs returns the pressure-boundary dofs this manager tracks.
func (m *Manager) Dofs() []int { return m.dofs }
