// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package analyser implements the end-of-step diagnostics (C11): history-
// point probes, periodic field checkpoints, and at wall-group cadences the
// integrated pressure/viscous traction plus scalar flux written to a
// `.flx` log and the pointwise wall-traction field written to a `.wss`
// binary file. Grounded on the teacher's `DebugKb_t`-style callback hook
// (`fem/fem.go`) for the checkpoint delegation, and on
// `original_source/dns/analysis.cpp` for the traction/flux computation
// and cadence rules this package implements.
package analyser

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/tsr"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/field"
)

// HistoryPoint is a single probe location, resolved once to its nearest
// global dof at construction (see bc.NodeIndex).
type HistoryPoint struct {
	Name string
	X, Y float64
	Dof  int
}

// Cadence names the step interval between diagnostic writes; 0 disables
// the corresponding output.
type Cadence struct {
	History    int
	Checkpoint int
	Wall       int
}

// WallGroup names a no-slip boundary whose traction and flux are
// integrated at the configured wall cadence, using Boundary.Nx/Ny
// (populated by bc.Build from the wall's edge geometry) to resolve the
// stress tensor; the surface integrals are chord-length trapezoid sums
// over Boundary.X/Y (arcLength), and Boundary.Area is not read.
type WallGroup struct {
	Name     string
	Boundary *bc.Boundary
}

// CheckpointFunc persists the current field state at step, t; set by the
// caller (cmd/dns) to dump.Write bound to the live field set, the same
// role the teacher's DebugKb_t callback gives its Jacobian-debug hook.
type CheckpointFunc func(step int, t float64) error

// Manager owns every diagnostic output stream for one run.
type Manager struct {
	DirOut, Key string
	Cadence     Cadence
	Points      []HistoryPoint
	Walls       []WallGroup
	Fields      map[string]*field.Field
	Elements    []elem.Element
	Maps        []*elem.AssemblyMap
	Nu, Pr      float64
	HasScalar   bool
	Checkpoint  CheckpointFunc

	hisPath string
	flxPath string
}

// NewManager wires a Manager against the live field set and wall
// boundaries; DirOut/Key name the output directory and session key the
// `.his`/`.flx`/`.wss` files are derived from.
func NewManager(dirOut, key string, cadence Cadence, points []HistoryPoint, walls []WallGroup,
	fields map[string]*field.Field, elements []elem.Element, maps []*elem.AssemblyMap,
	nu, pr float64, hasScalar bool, checkpoint CheckpointFunc) *Manager {
	return &Manager{
		DirOut: dirOut, Key: key, Cadence: cadence, Points: points, Walls: walls,
		Fields: fields, Elements: elements, Maps: maps, Nu: nu, Pr: pr, HasScalar: hasScalar,
		Checkpoint: checkpoint,
		hisPath:    filepath.Join(dirOut, key+".his"),
		flxPath:    filepath.Join(dirOut, key+".flx"),
	}
}

// Analyse is the end-of-step hook the integrator (C10) calls once per
// step; it implements solver.Analyser by structural typing.
func (m *Manager) Analyse(step int, t float64) error {
	if m.Cadence.History > 0 && step%m.Cadence.History == 0 {
		if err := m.writeHistoryPoints(step, t); err != nil {
			return chk.Err("analyser: history points: %v", err)
		}
	}
	if m.Cadence.Wall > 0 && step%m.Cadence.Wall == 0 {
		if err := m.writeWallDiagnostics(step, t); err != nil {
			return chk.Err("analyser: wall diagnostics: %v", err)
		}
	}
	if m.Cadence.Checkpoint > 0 && step%m.Cadence.Checkpoint == 0 && m.Checkpoint != nil {
		if err := m.Checkpoint(step, t); err != nil {
			return chk.Err("analyser: checkpoint: %v", err)
		}
	}
	return nil
}

// writeHistoryPoints appends one line per probe to the `.his` file:
// step, time, then the physical-space value of every probe's field at
// its resolved dof on plane 0 (the mean/axisymmetric mode).
func (m *Manager) writeHistoryPoints(step int, t float64) error {
	f, err := os.OpenFile(m.hisPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	line := io.Sf("%6d %14.6e", step, t)
	for _, p := range m.Points {
		fld, ok := m.Fields[p.Name]
		if !ok {
			return chk.Err("writeHistoryPoints: unknown field %q", p.Name)
		}
		line += io.Sf(" %14.6e", fld.Planes[0][p.Dof])
	}
	_, err = f.WriteString(line + "\n")
	return err
}

// mandelStress builds the 2-D viscous stress tensor at one dof, in the
// Mandel basis [s11, s22, s33, s12*sqrt2] the msolid stress routines use,
// with the homogeneous (z) normal component left at zero.
func mandelStress(dudx, dudy, dvdx, dvdy, nu float64) []float64 {
	s11 := 2 * nu * dudx
	s22 := 2 * nu * dvdy
	s12 := nu * (dudy + dvdx)
	return []float64{s11, s22, 0, s12 * tsr.SQ2}
}

// traction resolves the viscous stress tensor against the outward normal
// (nx,ny), returning the normal and tangential scalar components.
func traction(sig []float64, nx, ny float64) (normal, tangent float64) {
	tx := sig[0]*nx + sig[3]/tsr.SQ2*ny
	ty := sig[3]/tsr.SQ2*nx + sig[1]*ny
	normal = tx*nx + ty*ny
	tanx, tany := tx-normal*nx, ty-normal*ny
	tangent = tanx*ny - tany*nx // signed magnitude along the tangent (nx,ny) rotated 90deg
	return
}

// arcLength integrates a trapezoidal approximation of f along the wall's
// dofs, using chord length between consecutive boundary points as the
// integration weight; no gosl quadrature helper covers 1-D boundary
// integration over an arbitrary dof ordering, so this is a deliberate
// stdlib fallback.
func arcLength(x, y, f []float64) float64 {
	var total float64
	for i := 1; i < len(x); i++ {
		dx, dy := x[i]-x[i-1], y[i]-y[i-1]
		ds := dx*dx + dy*dy
		if ds <= 0 {
			continue
		}
		seg := (f[i] + f[i-1]) / 2
		total += seg * math.Sqrt(ds)
	}
	return total
}

// writeWallDiagnostics computes, for every configured wall group, the
// integrated pressure and viscous traction and scalar flux (appended as
// one `.flx` line), and the pointwise wall-traction field across every
// held z plane, appended to the `.wss` binary stream.
func (m *Manager) writeWallDiagnostics(step int, t float64) error {
	if len(m.Walls) == 0 {
		return nil
	}
	u, v, p := m.Fields["u"], m.Fields["v"], m.Fields["p"]
	dudx, err := u.Gradient(0, m.Elements, m.Maps)
	if err != nil {
		return err
	}
	dudy, err := u.Gradient(1, m.Elements, m.Maps)
	if err != nil {
		return err
	}
	dvdx, err := v.Gradient(0, m.Elements, m.Maps)
	if err != nil {
		return err
	}
	dvdy, err := v.Gradient(1, m.Elements, m.Maps)
	if err != nil {
		return err
	}

	flx, err := os.OpenFile(m.flxPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer flx.Close()

	wss, err := os.OpenFile(filepath.Join(m.DirOut, m.Key+".wss"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer wss.Close()

	for _, w := range m.Walls {
		n := len(w.Boundary.Dofs)
		pTrac := make([]float64, n)
		viscN := make([]float64, n)
		viscT := make([]float64, n)
		viscMean := make([]float64, n)
		for i, d := range w.Boundary.Dofs {
			nx, ny := w.Boundary.Nx[i], w.Boundary.Ny[i]
			sig := mandelStress(dudx[0][d], dudy[0][d], dvdx[0][d], dvdy[0][d], m.Nu)
			pTrac[i] = -p.Planes[0][d]
			viscN[i], viscT[i] = traction(sig, nx, ny)
			viscMean[i] = tsr.M_p(sig)
		}
		pInt := arcLength(w.Boundary.X, w.Boundary.Y, pTrac)
		nInt := arcLength(w.Boundary.X, w.Boundary.Y, viscN)
		tInt := arcLength(w.Boundary.X, w.Boundary.Y, viscT)
		meanInt := arcLength(w.Boundary.X, w.Boundary.Y, viscMean)
		scalarFlux := 0.0
		if m.HasScalar {
			c := m.Fields["c"]
			dcdx, err := c.Gradient(0, m.Elements, m.Maps)
			if err != nil {
				return err
			}
			dcdy, err := c.Gradient(1, m.Elements, m.Maps)
			if err != nil {
				return err
			}
			flux := make([]float64, n)
			for i, d := range w.Boundary.Dofs {
				flux[i] = dcdx[0][d]*w.Boundary.Nx[i] + dcdy[0][d]*w.Boundary.Ny[i]
			}
			scalarFlux = arcLength(w.Boundary.X, w.Boundary.Y, flux) * (m.Nu / m.Pr)
		}
		line := io.Sf("%6d %14.6e %-12s %14.6e %14.6e %14.6e %14.6e %14.6e\n",
			step, t, w.Name, pInt, nInt, tInt, meanInt, scalarFlux)
		if _, err := flx.WriteString(line); err != nil {
			return err
		}

		for z := range u.Planes {
			if err := writeWSSPlane(wss, z, w, dudx, dudy, dvdx, dvdy, m.Nu); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeWSSPlane appends the 3-component traction vector (1 normal, 2
// tangential) at every wall dof of one z plane to the `.wss` stream, as
// little-endian float64. The second (azimuthal) tangential component
// needs the z-derivative of the in-plane velocity, not computed by this
// 2-D elemental gradient pass, and is written as zero.
func writeWSSPlane(w *os.File, z int, wall WallGroup, dudx, dudy, dvdx, dvdy [][]float64, nu float64) error {
	buf := make([]byte, 8)
	for i, d := range wall.Boundary.Dofs {
		nx, ny := wall.Boundary.Nx[i], wall.Boundary.Ny[i]
		sig := mandelStress(dudx[z][d], dudy[z][d], dvdx[z][d], dvdy[z][d], nu)
		normal, tangent := traction(sig, nx, ny)
		for _, val := range [3]float64{normal, tangent, 0} {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(val))
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}
