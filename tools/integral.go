// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command integral reads a session and a field dump and prints the domain
// integral of one named field at every z-plane, spec §6.5's integral
// utility -- the building block S5's wall-shear-vs-pressure-drop check and
// any conservation diagnostic reduce to. Grounded on elem.Element.Weight,
// the same per-element quadrature-times-Jacobian operator matsys.Build
// folds into its assembly.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lab272/semtex-varkinvis-sub001/dump"
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
	fieldName := flag.String("field", "u", "field letter to integrate")
	flag.Parse()
	if flag.NArg() < 2 {
		chk.Panic("usage: integral [-np N] [-field X] session.sim field.dump")
	}
	sessfn, dumpfn := flag.Arg(0), flag.Arg(1)
	if io.FnExt(sessfn) == "" {
		sessfn += ".sim"
	}

	sess, err := session.Read(sessfn)
	if err != nil {
		chk.Panic("%v", err)
	}
	m, err := mesh.Build(sess, *np)
	if err != nil {
		chk.Panic("%v", err)
	}
	hdr, planes, err := dump.Read(dumpfn)
	if err != nil {
		chk.Panic("%v", err)
	}
	data, ok := planes[*fieldName]
	if !ok {
		chk.Panic("dump %q carries no field %q (has %q)", dumpfn, *fieldName, hdr.Fields)
	}

	n := (*np) * (*np)
	local := make([]float64, n)
	io.Pf("%6s %16s\n", "plane", "integral")
	for z, plane := range data {
		total := 0.0
		for idx, am := range m.Maps {
			for i, g := range am.Local2Global {
				local[i] = plane[g]
			}
			m.Elements[idx].Weight(local)
			for _, v := range local {
				total += v
			}
		}
		io.Pf("%6d %16.8e\n", z, total)
	}
}
