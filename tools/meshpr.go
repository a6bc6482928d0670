// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command meshpr reads a session file, builds its element/global-dof bridge
// and prints the node and element tables to stdout, spec §6.5's meshpr
// utility. Grounded on tools/GenVtu.go's flag.Parse/io.Pf reporting idiom.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

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
	flag.Parse()
	if flag.NArg() < 1 {
		chk.Panic("usage: meshpr [-np N] session.sim")
	}
	fn := flag.Arg(0)
	if io.FnExt(fn) == "" {
		fn += ".sim"
	}

	sess, err := session.Read(fn)
	if err != nil {
		chk.Panic("%v", err)
	}
	m, err := mesh.Build(sess, *np)
	if err != nil {
		chk.Panic("%v", err)
	}

	io.Pf("session %q: %d elements, %d global dofs (np=%d)\n\n", sess.Key, len(m.Elements), m.NGlobal, *np)
	io.Pf("%6s %14s %14s\n", "dof", "x", "y")
	for id := 0; id < m.NGlobal; id++ {
		io.Pf("%6d %14.6e %14.6e\n", id, m.X[id], m.Y[id])
	}
	io.Pf("\n%6s %8s\n", "elem", "local2global")
	for idx, am := range m.Maps {
		io.Pf("%6d %v\n", idx, am.Local2Global)
	}
}
