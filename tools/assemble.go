// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command assemble concatenates the per-process dump files of one parallel
// run (each rank's slab of Fourier planes, geom.Geometry's NzPerProc split)
// into a single whole-domain dump, spec §6.5's assemble utility.
// Grounded on geom.Geometry's per-rank Nz partition and dump.Read/Write.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lab272/semtex-varkinvis-sub001/dump"
	"github.com/lab272/semtex-varkinvis-sub001/field"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	out := flag.String("out", "", "output dump path (required)")
	flag.Parse()
	if flag.NArg() < 2 || *out == "" {
		chk.Panic("usage: assemble -out PATH rank0.dump rank1.dump ...")
	}

	var hdr dump.Header
	merged := map[string][][]float64{}
	for rank, path := range flag.Args() {
		h, planes, err := dump.Read(path)
		if err != nil {
			chk.Panic("%v", err)
		}
		if rank == 0 {
			hdr = h
			for name := range planes {
				merged[name] = nil
			}
		} else if h.Step != hdr.Step || h.Fields != hdr.Fields {
			chk.Panic("%s: step/fields mismatch with %s", path, flag.Arg(0))
		}
		for name := range merged {
			merged[name] = append(merged[name], planes[name]...)
		}
	}

	hdr.Nz = len(merged[string(hdr.Fields[0])])
	io.Pf("assembled %d ranks into %d planes per field\n", flag.NArg(), hdr.Nz)

	geo, err := geom.New(hdr.Np, hdr.Nz, hdr.Nel, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		chk.Panic("%v", err)
	}
	fields := map[string]*field.Field{}
	for _, name := range hdr.Fields {
		key := string(name)
		f := field.New(key, geo)
		f.Planes = merged[key]
		fields[key] = f
	}
	if err := dump.Write(*out, hdr, geo, fields); err != nil {
		chk.Panic("%v", err)
	}
}
