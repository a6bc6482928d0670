// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_geom01(tst *testing.T) {

	chk.PrintTitle("geom01. plane size rounding, serial")

	g, err := New(9, 32, 8, 1, 0, Cartesian, SVV{})
	if err != nil {
		tst.Errorf("New failed: %v", err)
		return
	}
	chk.IntAssert(g.NDim(), 3)
	chk.IntAssert(g.NzPerProc(), 32)
	// nPlane = 8*9*9 = 648, already even -> no padding needed
	chk.IntAssert(g.PlaneSize(), 648)
}

func Test_geom02(tst *testing.T) {

	chk.PrintTitle("geom02. N_PROC > 1 is rejected")

	// Field storage holds NzPerProc() whole planes at full PlaneSize(),
	// which has no room for the plane/mode exchange's z-pencil layout;
	// multi-process construction must fail rather than silently running
	// a truncated transform.
	if _, err := New(9, 16, 5, 4, 1, Cartesian, SVV{}); err == nil {
		tst.Errorf("expected error for N_PROC > 1")
	}
}

func Test_geom03(tst *testing.T) {

	chk.PrintTitle("geom03. rejects bad N_Z")

	if _, err := New(9, 7, 8, 1, 0, Cartesian, SVV{}); err == nil {
		tst.Errorf("expected error for odd N_Z > 1")
	}
}

func Test_geom04(tst *testing.T) {

	chk.PrintTitle("geom04. Init is single-shot")

	if _, err := Init(9, 16, 4, 1, 0, Cartesian, SVV{}); err != nil {
		tst.Errorf("first Init failed: %v", err)
		return
	}
	if _, err := Init(9, 16, 4, 1, 0, Cartesian, SVV{}); err == nil {
		tst.Errorf("expected second Init to fail")
	}
}
