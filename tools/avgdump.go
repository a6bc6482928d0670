// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command avgdump reads a sequence of field dumps sharing the same mesh
// and writes their plane-by-plane arithmetic mean, spec §6.5's avgdump
// utility -- the time-averaging pass S5's statistics and turbulence
// post-processing run over a checkpoint sequence. Grounded on
// dump.Read/Write.
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
		chk.Panic("usage: avgdump -out PATH dump1 dump2 ...")
	}

	var hdr dump.Header
	sum := map[string][][]float64{}
	n := 0
	for i, path := range flag.Args() {
		h, planes, err := dump.Read(path)
		if err != nil {
			chk.Panic("%v", err)
		}
		if i == 0 {
			hdr = h
			for name, data := range planes {
				sum[name] = make([][]float64, len(data))
				for z := range data {
					sum[name][z] = make([]float64, len(data[z]))
				}
			}
		} else if h.Fields != hdr.Fields || h.Nz != hdr.Nz {
			chk.Panic("%s: shape mismatch with %s", path, flag.Arg(0))
		}
		for name, data := range planes {
			for z, plane := range data {
				for k, v := range plane {
					sum[name][z][k] += v
				}
			}
		}
		n++
	}

	for _, data := range sum {
		for _, plane := range data {
			for k := range plane {
				plane[k] /= float64(n)
			}
		}
	}
	io.Pf("averaged %d dumps\n", n)
	hdr.Step, hdr.Created = 0, "avgdump"

	geo, err := geom.New(hdr.Np, hdr.Nz, hdr.Nel, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		chk.Panic("%v", err)
	}
	fields := map[string]*field.Field{}
	for _, name := range hdr.Fields {
		key := string(name)
		f := field.New(key, geo)
		f.Planes = sum[key]
		fields[key] = f
	}
	if err := dump.Write(*out, hdr, geo, fields); err != nil {
		chk.Panic("%v", err)
	}
}
