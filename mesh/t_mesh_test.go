// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/session"
)

// twoElementSession builds two unit squares sharing the edge x=1, with
// four corner nodes each, node ids shared at the common edge.
func twoElementSession(tst *testing.T) *session.Session {
	const src = `
NODES
  0 0 0
  1 1 0
  2 1 1
  3 0 1
  4 2 0
  5 2 1
ENDNODES
ELEMENTS
  0 0 1 2 3
  1 1 4 5 2
ENDELEMENTS
SURFACES
  0 3 wall
  1 1 wall
ENDSURFACES
BCS
  wall u essential 0.0
ENDBCS
`
	s, err := session.Parse(strings.NewReader(src))
	if err != nil {
		tst.Fatalf("Parse: %v", err)
	}
	return s
}

func Test_mesh01(tst *testing.T) {

	chk.PrintTitle("mesh01. Build merges coincident corner nodes and keeps their session ids")

	sess := twoElementSession(tst)
	m, err := Build(sess, 2)
	if err != nil {
		tst.Fatalf("Build: %v", err)
	}
	if len(m.Elements) != 2 || len(m.Maps) != 2 {
		tst.Fatalf("got %d elements, %d maps, want 2 and 2", len(m.Elements), len(m.Maps))
	}
	// np=2 means every local node is a corner node; no new ids are minted.
	if m.NGlobal != 6 {
		tst.Errorf("NGlobal = %d, want 6 (no new interior/edge points at np=2)", m.NGlobal)
	}
	// element 1's local nodes 0 and 2 (its left edge, i=0) sit at (1,0)
	// and (1,1), coincident with element 0's global nodes 1 and 2.
	am1 := m.Maps[1]
	if am1.Local2Global[0] != 1 {
		tst.Errorf("elem1 local 0 -> global %d, want 1", am1.Local2Global[0])
	}
	if am1.Local2Global[2] != 2 {
		tst.Errorf("elem1 local 2 -> global %d, want 2", am1.Local2Global[2])
	}
}

func Test_mesh02(tst *testing.T) {

	chk.PrintTitle("mesh02. Build at np>2 mints fresh ids past the highest session node id")

	sess := twoElementSession(tst)
	m, err := Build(sess, 4)
	if err != nil {
		tst.Fatalf("Build: %v", err)
	}
	if m.NGlobal <= 6 {
		tst.Errorf("NGlobal = %d, want > 6 once np=4 introduces edge/interior points", m.NGlobal)
	}
	// the shared edge (x=1) must still be merged: element 0's right edge
	// (column i=np-1) and element 1's left edge (column i=0) must agree
	// pointwise, row by row.
	am0, am1 := m.Maps[0], m.Maps[1]
	np := 4
	for row := 0; row < np; row++ {
		g0 := am0.Local2Global[row*np+(np-1)]
		g1 := am1.Local2Global[row*np+0]
		if g0 != g1 {
			tst.Errorf("row %d: elem0 right edge global=%d, elem1 left edge global=%d, want equal", row, g0, g1)
		}
	}
}

func Test_mesh03(tst *testing.T) {

	chk.PrintTitle("mesh03. MarkEssential masks only the dofs an essential boundary touches")

	sess := twoElementSession(tst)
	m, err := Build(sess, 2)
	if err != nil {
		tst.Fatalf("Build: %v", err)
	}
	b := &bc.Boundary{Group: "wall", Field: "u", Cond: bc.Condition{Kind: bc.Essential}, Dofs: []int{0, 3}}
	marked := MarkEssential(m.Maps, m.NGlobal, []*bc.Boundary{b})
	for idx, am := range marked {
		for i, g := range am.Local2Global {
			want := g == 0 || g == 3
			if am.Essential[i] != want {
				tst.Errorf("elem %d local %d (global %d): Essential=%v, want %v", idx, i, g, am.Essential[i], want)
			}
		}
	}
}

func Test_mesh04(tst *testing.T) {

	chk.PrintTitle("mesh04. Build rejects an element referencing an unknown vertex")

	sess := twoElementSession(tst)
	sess.Elements[0].Verts[0] = 99
	if _, err := Build(sess, 2); err == nil {
		tst.Fatalf("Build: expected error for unknown vertex, got nil")
	}
}
