// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command symmetrise enforces mirror symmetry about the domain's vertical
// centerline on one field of a dump, averaging every point with its mirror
// image, spec §6.5's symmetrise utility -- useful for removing round-off
// asymmetry from a nominally symmetric channel/duct run. Grounded on
// bc.NodeIndex's nearest-point lookup and dump.Read/Write.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/dump"
	"github.com/lab272/semtex-varkinvis-sub001/field"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
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
	fieldName := flag.String("field", "u", "field letter to symmetrise")
	out := flag.String("out", "", "output dump path (required)")
	flag.Parse()
	if flag.NArg() < 2 || *out == "" {
		chk.Panic("usage: symmetrise -out PATH [-np N] [-field X] session.sim field.dump")
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
		chk.Panic("dump carries no field %q (has %q)", *fieldName, hdr.Fields)
	}

	xmin, xmax := m.X[0], m.X[0]
	for _, x := range m.X {
		if x < xmin {
			xmin = x
		}
		if x > xmax {
			xmax = x
		}
	}
	axis := 0.5 * (xmin + xmax)

	nodes := make([]session.Node, m.NGlobal)
	for id := range nodes {
		nodes[id] = session.Node{Id: id, X: m.X[id], Y: m.Y[id]}
	}
	idx, err := bc.NewNodeIndex(nodes)
	if err != nil {
		chk.Panic("%v", err)
	}

	for _, plane := range data {
		averaged := make([]bool, len(plane))
		for g := 0; g < m.NGlobal; g++ {
			if averaged[g] {
				continue
			}
			mirror := idx.Nearest(2*axis-m.X[g], m.Y[g])
			if mirror < 0 || mirror == g {
				averaged[g] = true
				continue
			}
			avg := 0.5 * (plane[g] + plane[mirror])
			plane[g], plane[mirror] = avg, avg
			averaged[g], averaged[mirror] = true, true
		}
	}
	io.Pf("field %q symmetrised about x = %.6e\n", *fieldName, axis)

	geo, err := geom.New(hdr.Np, hdr.Nz, hdr.Nel, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		chk.Panic("%v", err)
	}
	fields := map[string]*field.Field{}
	for _, name := range hdr.Fields {
		key := string(name)
		f := field.New(key, geo)
		f.Planes = planes[key]
		fields[key] = f
	}
	if err := dump.Write(*out, hdr, geo, fields); err != nil {
		chk.Panic("%v", err)
	}
}
