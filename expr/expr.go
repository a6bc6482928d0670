// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package expr wraps gosl/fun and gosl/fun/dbf to provide the symbolic
// expression evaluator used by boundary conditions and body-force
// plug-ins (spec §5 design note "Expression evaluation for BCs and
// forcing"). The symbol table is the explicit Env value below, updated
// once per step by the integrator, rather than a hidden global table.
package expr

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
)

// Env is the variable binding {x,y,z,t,step} evaluated per node.
type Env struct {
	X, Y, Z, T float64
	Step       int
}

// Expr evaluates to a scalar given an Env. Constants and gosl/fun-backed
// symbolic functions both implement it.
type Expr interface {
	At(env Env) float64
}

// constExpr is a trivial copy, used for the common case of a constant
// essential/natural boundary value or forcing amplitude.
type constExpr float64

func (c constExpr) At(Env) float64 { return float64(c) }

// Const returns an Expr that ignores its Env and always returns v.
func Const(v float64) Expr { return constExpr(v) }

// funExpr adapts a gosl/fun.TimeSpace (equivalently dbf.T) callback, which
// is evaluated at (t, x) with x=[x,y,z]; the step variable is not visible
// to it, matching the upstream library's signature.
type funExpr struct {
	fcn fun.Func
}

func (f funExpr) At(env Env) float64 {
	return f.fcn.F(env.T, []float64{env.X, env.Y, env.Z})
}

// FromFunc wraps a gosl/fun.Func (or dbf.T, which is the same interface)
// as an Expr.
func FromFunc(fcn fun.Func) Expr {
	if fcn == nil {
		return constExpr(0)
	}
	return funExpr{fcn: fcn}
}

// New builds an Expr from a function-type name and parameters using
// gosl/fun.New (the same factory `inp.FuncsData.Get` uses in the teacher),
// e.g. "cte", "rmp", "sin", "pts" as registered by gosl/fun.
func New(kind string, prms dbf.Params) (Expr, error) {
	fcn, err := fun.New(kind, prms)
	if err != nil {
		return nil, chk.Err("expr: cannot build function %q: %v", kind, err)
	}
	return FromFunc(fcn), nil
}

// EvalVec fills out[i] = e.At(envs[i]) for a batch of nodes -- the
// vectorised evaluation loop spec §9 calls out as the tight inner loop.
func EvalVec(e Expr, envs []Env, out []float64) {
	for i, env := range envs {
		out[i] = e.At(env)
	}
}
