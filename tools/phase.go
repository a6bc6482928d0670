// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command phase rotates a field's Fourier coefficients by a fixed angle,
// spec §6.5's phase utility -- used to phase-lock an azimuthally travelling
// mode before averaging it against others, or to check a run's rotational
// invariance. A field in Fourier space stores plane 0 as the mean, plane 1
// as the Nyquist mode, and every wavenumber above that as a consecutive
// (real, imaginary) plane pair, the layout package fourier's DFTr
// produces and consumes.
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

	fieldName := flag.String("field", "u", "field letter to rotate")
	theta := flag.Float64("theta", 0, "phase angle in radians")
	out := flag.String("out", "", "output dump path (required)")
	flag.Parse()
	if flag.NArg() < 1 || *out == "" {
		chk.Panic("usage: phase -out PATH [-field X] -theta RAD field.dump")
	}

	hdr, planes, err := dump.Read(flag.Arg(0))
	if err != nil {
		chk.Panic("%v", err)
	}
	data, ok := planes[*fieldName]
	if !ok {
		chk.Panic("dump carries no field %q (has %q)", *fieldName, hdr.Fields)
	}
	if len(data) < 4 || len(data)%2 != 0 {
		chk.Panic("field %q has %d planes, expected an even count >= 4 (mean, Nyquist, then re/im pairs)", *fieldName, len(data))
	}

	c, s := math.Cos(*theta), math.Sin(*theta)
	for k := 1; 2*k+1 < len(data); k++ {
		re, im := data[2*k], data[2*k+1]
		for i := range re {
			re[i], im[i] = re[i]*c-im[i]*s, re[i]*s+im[i]*c
		}
	}
	io.Pf("field %q rotated by %.6f rad\n", *fieldName, *theta)

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
