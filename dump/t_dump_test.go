// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/field"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
)

func Test_dump01(tst *testing.T) {

	chk.PrintTitle("dump01. Write then Read reproduces the field data exactly")

	g, err := geom.New(3, 2, 1, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		tst.Fatalf("geom.New: %v", err)
	}
	u := field.New("u", g)
	p := field.New("p", g)
	for z := range u.Planes {
		for i := range u.Planes[z] {
			u.Planes[z][i] = float64(z*10 + i)
		}
	}
	for z := range p.Planes {
		for i := range p.Planes[z] {
			p.Planes[z][i] = float64(z) - float64(i)*0.5
		}
	}
	fields := map[string]*field.Field{"u": u, "p": p}

	hdr := Header{
		Session: "test", Created: "today", Np: g.Np, Nz: g.Nz, Nel: g.Nel,
		Step: 5, Time: 0.05, Dt: 0.01, Kinvis: 0.1, Beta: 1.0,
		Fields: "up", Format: "binary little-endian",
	}

	path := filepath.Join(tst.TempDir(), "test.fld")
	if err := Write(path, hdr, g, fields); err != nil {
		tst.Fatalf("Write: %v", err)
	}

	got, body, err := Read(path)
	if err != nil {
		tst.Fatalf("Read: %v", err)
	}
	if got.Session != "test" || got.Step != 5 || got.Fields != "up" {
		tst.Errorf("header round trip mismatch: %+v", got)
	}
	if got.Np != g.Np || got.Nz != g.Nz || got.Nel != g.Nel {
		tst.Errorf("header dims mismatch: %+v", got)
	}
	if got.Time != 0.05 || got.Dt != 0.01 || got.Kinvis != 0.1 || got.Beta != 1.0 {
		tst.Errorf("header scalar mismatch: %+v", got)
	}

	for z := range u.Planes {
		for i := range u.Planes[z] {
			if body["u"][z][i] != u.Planes[z][i] {
				tst.Errorf("u[%d][%d] = %v, want %v", z, i, body["u"][z][i], u.Planes[z][i])
			}
			if body["p"][z][i] != p.Planes[z][i] {
				tst.Errorf("p[%d][%d] = %v, want %v", z, i, body["p"][z][i], p.Planes[z][i])
			}
		}
	}
}

func Test_dump02(tst *testing.T) {

	chk.PrintTitle("dump02. Write rejects a Fields letter with no matching field map entry")

	g, err := geom.New(3, 2, 1, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		tst.Fatalf("geom.New: %v", err)
	}
	fields := map[string]*field.Field{"u": field.New("u", g)}
	hdr := Header{Fields: "uc", Format: "binary little-endian", Np: g.Np, Nz: g.Nz, Nel: g.Nel}
	path := filepath.Join(tst.TempDir(), "bad.fld")
	if err := Write(path, hdr, g, fields); err == nil {
		tst.Errorf("Write: expected error for missing field %q, got nil", "c")
	}
}
