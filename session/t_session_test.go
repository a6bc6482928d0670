// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package session

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
)

const sample = `
NODES 4
0 0.0 0.0
1 1.0 0.0
2 1.0 1.0
3 0.0 1.0
ENDNODES

ELEMENTS 1
0 0 1 2 3
ENDELEMENTS

SURFACES 2
0 0 wall
0 2 inlet
ENDSURFACES

GROUPS 2
w wall
i inlet
ENDGROUPS

FIELDS 3
u
v
p
ENDFIELDS

BCS 2
w u essential 0.0
i u essential 1.0
ENDBCS

FORCE 1
sponge mask=cos rate=0.5
ENDFORCE

USER 1
CHKPOINT 10
ENDUSER
`

func Test_session01(tst *testing.T) {

	chk.PrintTitle("session01. parse a well-formed session file")

	s, err := Parse(strings.NewReader(sample))
	if err != nil {
		tst.Errorf("Parse failed: %v", err)
		return
	}
	chk.IntAssert(len(s.Nodes), 4)
	chk.IntAssert(len(s.Elements), 1)
	chk.IntAssert(len(s.Surfaces), 2)
	chk.IntAssert(len(s.Groups), 2)
	chk.IntAssert(len(s.Fields), 3)
	chk.IntAssert(len(s.BCs), 2)
	chk.IntAssert(len(s.Forces), 1)
	if s.Forces[0].Name != "sponge" {
		tst.Errorf("Forces[0].Name = %q, want sponge", s.Forces[0].Name)
	}
	if s.Forces[0].Params["rate"] != "0.5" {
		tst.Errorf("Forces[0].Params[rate] = %q, want 0.5", s.Forces[0].Params["rate"])
	}
	if s.User["CHKPOINT"] != "10" {
		tst.Errorf("User[CHKPOINT] = %q, want 10", s.User["CHKPOINT"])
	}
}

func Test_session02(tst *testing.T) {

	chk.PrintTitle("session02. group and BC lookups")

	s, err := Parse(strings.NewReader(sample))
	if err != nil {
		tst.Errorf("Parse failed: %v", err)
		return
	}
	g, ok := s.Group("w")
	if !ok || g.Name != "wall" {
		tst.Errorf("Group(w) = %+v, ok=%v, want wall", g, ok)
	}
	bcs := s.BCsFor("w", "u")
	if len(bcs) != 1 || bcs[0].Value != "0.0" {
		tst.Errorf("BCsFor(w,u) = %+v, want one essential 0.0 entry", bcs)
	}
}

func Test_session03(tst *testing.T) {

	chk.PrintTitle("session03. unterminated section is an error")

	_, err := Parse(strings.NewReader("NODES 1\n0 0.0 0.0\n"))
	if err == nil {
		tst.Errorf("expected error for unterminated NODES section")
	}
}

func Test_session04(tst *testing.T) {

	chk.PrintTitle("session04. malformed line is an error")

	_, err := Parse(strings.NewReader("NODES 1\nnotanumber 0.0 0.0\nENDNODES\n"))
	if err == nil {
		tst.Errorf("expected error for non-numeric node id")
	}
}
