// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matsys

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/elem"
)

// oneElementSetup builds a single np x np QuadElement on the unit square
// with an identity assembly map and the four boundary-ring dofs marked
// essential, the smallest configuration that exercises Build/BuildJacPCG.
func oneElementSetup(tst *testing.T, np int) ([]elem.Element, []*elem.AssemblyMap, int) {
	q, err := elem.NewQuadElement(0, np, 0, 0, 1, 1)
	if err != nil {
		tst.Fatalf("NewQuadElement: %v", err)
	}
	n := np * np
	am := elem.NewAssemblyMap(n)
	for i := 0; i < n; i++ {
		am.Local2Global[i] = i
		row, col := i/np, i%np
		if row == 0 || row == np-1 || col == 0 || col == np-1 {
			am.Essential[i] = true
		}
	}
	return []elem.Element{q}, []*elem.AssemblyMap{am}, n
}

func Test_matsys01(tst *testing.T) {

	chk.PrintTitle("matsys01. JacPCG recovers a manufactured compatible solution")

	elements, maps, n := oneElementSetup(tst, 6)
	op, err := BuildJacPCG(elements, maps, n, 1.5, nil, 1e-10, 500, 0)
	if err != nil {
		tst.Fatalf("BuildJacPCG: %v", err)
	}
	jop := op.(*jacPCGOperator)

	xTrue := make([]float64, n)
	for i := range xTrue {
		row, col := i/6, i%6
		xTrue[i] = float64(row) * float64(col) * 0.01
	}
	for i, ess := range jop.essential {
		if ess {
			xTrue[i] = 0
		}
	}
	rhs := jop.matvec(xTrue)
	for i, ess := range jop.essential {
		if ess {
			rhs[i] = xTrue[i]
		}
	}

	x, err := op.Solve(rhs)
	if err != nil {
		tst.Fatalf("Solve: %v", err)
	}
	var maxDiff float64
	for i := range x {
		d := x[i] - xTrue[i]
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff > 1e-6 {
		tst.Errorf("max|x - xTrue| = %v, want < 1e-6", maxDiff)
	}
}

func Test_matsys02(tst *testing.T) {

	chk.PrintTitle("matsys02. Mixed resolves to Direct below threshold, JacPCG at/above it")

	if resolve(Mixed, 0) != Direct {
		tst.Errorf("resolve(Mixed,0) = %v, want Direct", resolve(Mixed, 0))
	}
	if resolve(Mixed, MixedThreshold) != JacPCG {
		tst.Errorf("resolve(Mixed,%d) = %v, want JacPCG", MixedThreshold, resolve(Mixed, MixedThreshold))
	}
	if resolve(JacPCG, 0) != JacPCG {
		tst.Errorf("resolve(JacPCG,0) = %v, want JacPCG (non-Mixed passes through)", resolve(JacPCG, 0))
	}
}

func Test_matsys03(tst *testing.T) {

	chk.PrintTitle("matsys03. Cache.Get builds once and reuses the cached operator")

	elements, maps, n := oneElementSetup(tst, 4)
	c := NewCache()
	key := Key{Lambda2: 1.0, Beta2K2: 0.0, Method: JacPCG}
	calls := 0
	build := func() (Operator, error) {
		calls++
		return BuildJacPCG(elements, maps, n, 1.0, nil, 1e-8, 200, 0)
	}
	op1, err := c.Get(key, build)
	if err != nil {
		tst.Fatalf("Get: %v", err)
	}
	op2, err := c.Get(key, build)
	if err != nil {
		tst.Fatalf("Get: %v", err)
	}
	if op1 != op2 {
		tst.Errorf("Get returned different operators for the same key")
	}
	if calls != 1 {
		tst.Errorf("build called %d times, want 1", calls)
	}
}
