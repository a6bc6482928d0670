// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command wallmesh prints the coordinates of every global dof touched by a
// named group's boundary condition on one field (of any kind), spec §6.5's wallmesh utility
// -- the node set a wall-traction diagnostic (S5) integrates over.
// Grounded on bc.Build's group/field boundary lookup and mesh.Build's
// coordinate-by-global-dof table.
package main

import (
	"flag"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/expr"
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
	group := flag.String("group", "wall", "surface group name")
	field := flag.String("field", "u", "BC field name")
	flag.Parse()
	if flag.NArg() < 1 {
		chk.Panic("usage: wallmesh [-np N] [-group NAME] [-field NAME] session.sim")
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
	valueFor := func(spec session.BCSpec) (expr.Expr, error) {
		if v, err := strconv.ParseFloat(spec.Value, 64); err == nil {
			return expr.Const(v), nil
		}
		return expr.New(spec.Value, dbf.Params{})
	}
	boundaries, err := bc.Build(sess, m.NodesByID, valueFor)
	if err != nil {
		chk.Panic("%v", err)
	}

	io.Pf("%6s %14s %14s\n", "dof", "x", "y")
	seen := map[int]bool{}
	for _, b := range boundaries {
		if b.Group != *group || b.Field != *field {
			continue
		}
		for _, d := range b.Dofs {
			if seen[d] {
				continue
			}
			seen[d] = true
			io.Pf("%6d %14.6e %14.6e\n", d, m.X[d], m.Y[d])
		}
	}
	if len(seen) == 0 {
		io.PfYel("no boundary matched group=%q field=%q\n", *group, *field)
	}
}
