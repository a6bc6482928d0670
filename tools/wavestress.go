// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command wavestress prints the wall shear stress kinvis*du/dy at y=ymin,
// resolved Fourier wave by wave (one value per z-plane), spec §6.5's
// wavestress utility -- the per-mode quantity S5's time-averaged,
// wave-summed wall-traction check integrates against the driving
// pressure drop. Grounded on elem.Element.Gradient, the same collocation
// derivative the viscous Helmholtz operator applies.
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
	kinvis := flag.Float64("kinvis", 0.01, "kinematic viscosity")
	flag.Parse()
	if flag.NArg() < 2 {
		chk.Panic("usage: wavestress [-np N] [-kinvis NU] session.sim u.dump")
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
	data, ok := planes["u"]
	if !ok {
		chk.Panic("dump %q carries no u field (has %q)", dumpfn, hdr.Fields)
	}

	ymin := m.Y[0]
	for _, y := range m.Y {
		if y < ymin {
			ymin = y
		}
	}

	n := (*np) * (*np)
	local := make([]float64, n)
	dudy := make([]float64, n)
	io.Pf("%6s %16s\n", "wave", "wall stress")
	for z, plane := range data {
		total := 0.0
		count := 0
		for idx, am := range m.Maps {
			for i, g := range am.Local2Global {
				local[i] = plane[g]
			}
			m.Elements[idx].Gradient(1, local, dudy)
			for i, g := range am.Local2Global {
				if m.Y[g] == ymin {
					total += *kinvis * dudy[i]
					count++
				}
			}
		}
		if count > 0 {
			io.Pf("%6d %16.8e\n", z, total/float64(count))
		}
	}
}
