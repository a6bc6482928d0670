// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command normalize reads a field dump and rescales one named field by the
// reciprocal of its peak absolute value across every z-plane, writing a new
// dump with the same header apart from that field's data, spec §6.5's
// normalize utility. Grounded on dump.Read/Write and field.New's
// geometry-sized plane allocation.
package main

import (
	"flag"
	"math"

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

	fieldName := flag.String("field", "u", "field letter to normalize")
	out := flag.String("out", "", "output dump path (required)")
	flag.Parse()
	if flag.NArg() < 1 || *out == "" {
		chk.Panic("usage: normalize -out PATH [-field X] field.dump")
	}

	hdr, planes, err := dump.Read(flag.Arg(0))
	if err != nil {
		chk.Panic("%v", err)
	}
	data, ok := planes[*fieldName]
	if !ok {
		chk.Panic("dump carries no field %q (has %q)", *fieldName, hdr.Fields)
	}

	peak := 0.0
	for _, plane := range data {
		for _, v := range plane {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		chk.Panic("field %q is identically zero, nothing to normalize", *fieldName)
	}
	for _, plane := range data {
		for i := range plane {
			plane[i] /= peak
		}
	}
	io.Pf("field %q: peak |value| = %.8e, rescaled to 1\n", *fieldName, peak)

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
