// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyser

import (
	"os"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/field"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
)

// oneElementSetup builds a single np x np QuadElement on the unit square,
// an identity assembly map, u/v/p fields over a one-plane Geometry, and a
// WallGroup along the bottom edge (row 0, outward normal (0,-1)).
func oneElementSetup(tst *testing.T, np int) (*geom.Geometry, []elem.Element, []*elem.AssemblyMap, map[string]*field.Field, WallGroup) {
	g, err := geom.New(np, 1, 1, 1, 0, geom.Cartesian, geom.SVV{})
	if err != nil {
		tst.Fatalf("geom.New: %v", err)
	}
	q, err := elem.NewQuadElement(0, np, 0, 0, 1, 1)
	if err != nil {
		tst.Fatalf("NewQuadElement: %v", err)
	}
	n := np * np
	am := elem.NewAssemblyMap(n)
	for i := 0; i < n; i++ {
		am.Local2Global[i] = i
	}
	x := make([]float64, n)
	y := make([]float64, n)
	q.MeshElmt(x, y)

	elements := []elem.Element{q}
	maps := []*elem.AssemblyMap{am}

	fields := map[string]*field.Field{
		"u": field.New("u", g),
		"v": field.New("v", g),
		"p": field.New("p", g),
	}

	var dofs []int
	for col := 0; col < np; col++ {
		dofs = append(dofs, col) // row 0
	}
	wx := make([]float64, len(dofs))
	wy := make([]float64, len(dofs))
	nx := make([]float64, len(dofs))
	ny := make([]float64, len(dofs))
	area := make([]float64, len(dofs))
	for i, d := range dofs {
		wx[i], wy[i] = x[d], y[d]
		nx[i], ny[i] = 0, -1
		area[i] = 1.0 / float64(np-1)
	}
	wall := WallGroup{
		Name: "bottom",
		Boundary: &bc.Boundary{
			Field: "u",
			Dofs:  dofs,
			X:     wx,
			Y:     wy,
			Nx:    nx,
			Ny:    ny,
			Area:  area,
		},
	}
	return g, elements, maps, fields, wall
}

func Test_analyser01(tst *testing.T) {

	chk.PrintTitle("analyser01. writeHistoryPoints appends one line per probe")

	dir := tst.TempDir()
	_, elements, maps, fields, _ := oneElementSetup(tst, 3)
	fields["u"].Planes[0][0] = 1.5
	m := NewManager(dir, "run", Cadence{}, []HistoryPoint{{Name: "u", Dof: 0}}, nil, fields, elements, maps, 0.1, 1.0, false, nil)

	if err := m.writeHistoryPoints(0, 0.0); err != nil {
		tst.Fatalf("writeHistoryPoints: %v", err)
	}
	data, err := os.ReadFile(m.hisPath)
	if err != nil {
		tst.Fatalf("ReadFile: %v", err)
	}
	line := strings.TrimSpace(string(data))
	fields2 := strings.Fields(line)
	if len(fields2) != 3 {
		tst.Fatalf("line has %d fields, want 3: %q", len(fields2), line)
	}
	if !strings.Contains(fields2[2], "1.5") {
		tst.Errorf("third field = %q, want it to contain the probe value 1.5", fields2[2])
	}
}

func Test_analyser02(tst *testing.T) {

	chk.PrintTitle("analyser02. Analyse gates history writes on cadence, 0 disables")

	dir := tst.TempDir()
	_, elements, maps, fields, _ := oneElementSetup(tst, 3)
	m := NewManager(dir, "run", Cadence{History: 2}, []HistoryPoint{{Name: "u", Dof: 0}}, nil, fields, elements, maps, 0.1, 1.0, false, nil)

	for step := 0; step < 4; step++ {
		if err := m.Analyse(step, float64(step)*0.01); err != nil {
			tst.Fatalf("Analyse step %d: %v", step, err)
		}
	}
	data, err := os.ReadFile(m.hisPath)
	if err != nil {
		tst.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		tst.Fatalf("got %d .his lines, want 2 (steps 0 and 2)", len(lines))
	}
}

func Test_analyser03(tst *testing.T) {

	chk.PrintTitle("analyser03. Analyse invokes the checkpoint callback only at its cadence")

	dir := tst.TempDir()
	_, elements, maps, fields, _ := oneElementSetup(tst, 3)
	var calls []int
	cb := func(step int, t float64) error {
		calls = append(calls, step)
		return nil
	}
	m := NewManager(dir, "run", Cadence{Checkpoint: 3}, nil, nil, fields, elements, maps, 0.1, 1.0, false, cb)

	for step := 0; step < 7; step++ {
		if err := m.Analyse(step, 0); err != nil {
			tst.Fatalf("Analyse step %d: %v", step, err)
		}
	}
	if len(calls) != 3 {
		tst.Fatalf("checkpoint invoked %d times, want 3 (steps 0,3,6): %v", len(calls), calls)
	}
}

func Test_analyser04(tst *testing.T) {

	chk.PrintTitle("analyser04. writeWallDiagnostics appends a .flx line and per-plane .wss bytes")

	dir := tst.TempDir()
	_, elements, maps, fields, wall := oneElementSetup(tst, 3)
	m := NewManager(dir, "run", Cadence{}, nil, []WallGroup{wall}, fields, elements, maps, 0.1, 1.0, false, nil)

	if err := m.writeWallDiagnostics(0, 0.0); err != nil {
		tst.Fatalf("writeWallDiagnostics: %v", err)
	}
	flxData, err := os.ReadFile(m.flxPath)
	if err != nil {
		tst.Fatalf("ReadFile .flx: %v", err)
	}
	line := strings.TrimSpace(string(flxData))
	fields2 := strings.Fields(line)
	if len(fields2) != 8 {
		tst.Fatalf(".flx line has %d fields, want 8 (step,time,name,pInt,nInt,tInt,meanInt,scalarFlux): %q", len(fields2), line)
	}

	wssData, err := os.ReadFile(dir + "/run.wss")
	if err != nil {
		tst.Fatalf("ReadFile .wss: %v", err)
	}
	wantBytes := len(wall.Boundary.Dofs) * 3 * 8 // 3 float64 per dof, one z plane
	if len(wssData) != wantBytes {
		tst.Errorf(".wss has %d bytes, want %d", len(wssData), wantBytes)
	}
}
