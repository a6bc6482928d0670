// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// Command calc evaluates a named gosl/fun function kind (the same factory
// backing expr.New, e.g. "cte", "rmp", "sin") over every nodal point of a
// session's mesh at a given time and prints the result, spec §6.5's calc
// utility -- a standalone check of a BC/forcing expression before wiring
// it into a run. Grounded on package expr's Env/New and bc.Build's
// literal-vs-named-function value resolution.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

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
	kind := flag.String("kind", "cte", "gosl/fun function kind")
	amp := flag.Float64("a", 1, "parameter \"a\" passed to the function")
	b := flag.Float64("b", 0, "parameter \"b\" passed to the function")
	t := flag.Float64("t", 0, "time at which to evaluate")
	flag.Parse()
	if flag.NArg() < 1 {
		chk.Panic("usage: calc [-kind NAME -a V -b V -t T -np N] session.sim")
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

	e, err := expr.New(*kind, dbf.Params{&dbf.P{N: "a", V: *amp}, &dbf.P{N: "b", V: *b}})
	if err != nil {
		chk.Panic("%v", err)
	}

	io.Pf("%6s %14s %14s %14s\n", "dof", "x", "y", "value")
	for id := 0; id < m.NGlobal; id++ {
		v := e.At(expr.Env{X: m.X[id], Y: m.Y[id], T: *t})
		io.Pf("%6d %14.6e %14.6e %14.6e\n", id, m.X[id], m.Y[id], v)
	}
}
