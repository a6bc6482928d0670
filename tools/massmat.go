// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command massmat prints the diagonal lumped mass matrix (quadrature
// weight times Jacobian at every nodal point) of one element of a session's
// mesh, spec §6.5's massmat utility -- the diagonal a Gauss-Lobatto-Legendre
// collocation scheme uses in place of a full consistent mass matrix.
// Grounded on elem.QuadElement.Weight, the same operator matsys.Build
// applies to assemble the real mass-weighted system.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lab272/semtex-varkinvis-sub001/mesh"
	"github.com/lab272/semtex-varkinvis-sub001/session"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	np := flag.Int("np", 2, "Gauss-Lobatto-Legendre points per element edge")
	elID := flag.Int("elem", 0, "element id to report")
	flag.Parse()
	if flag.NArg() < 1 {
		chk.Panic("usage: massmat [-np N] [-elem ID] session.sim")
	}
	fn := flag.Arg(0)
	if io.FnExt(fn) == "" {
		fn += ".sim"
	}

	sess, err := session.Read(fn)
	if err != nil {
		chk.Panic("%v", err)
	}
	m, err := mesh.Build(sess, *np)
	if err != nil {
		chk.Panic("%v", err)
	}

	var el = -1
	for i, e := range m.Elements {
		if e.Id() == *elID {
			el = i
		}
	}
	if el < 0 {
		chk.Panic("no element with id %d", *elID)
	}

	n := (*np) * (*np)
	diag := make([]float64, n)
	for i := range diag {
		diag[i] = 1
	}
	m.Elements[el].Weight(diag)

	io.Pf("element %d diagonal mass matrix (%d entries):\n", *elID, n)
	total := 0.0
	for i, v := range diag {
		io.Pf("  %4d %14.6e\n", i, v)
		total += v
	}
	io.Pf("sum (element area) = %.6e\n", total)
}
