// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solver implements the time-stepping integrator (C10): the
// per-step algorithm that composes the nonlinear term (nonlin), the
// pressure boundary-condition history (bc.Manager), the pressure Poisson
// solve and velocity projection, the viscous Helmholtz correction
// (matsys), and the end-of-step analyser hook (C11), grounded on the
// teacher's fem.FEM / fem.Solver stage-and-run shape in fem/fem.go and
// fem/solver.go generalized from an unstructured-FE stage loop to the
// fixed fractional-step sequence this spec names.
package solver

import (
	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/field"
	"github.com/lab272/semtex-varkinvis-sub001/forcing"
	"github.com/lab272/semtex-varkinvis-sub001/fourier"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
	"github.com/lab272/semtex-varkinvis-sub001/matsys"
	"github.com/lab272/semtex-varkinvis-sub001/nonlin"
	"github.com/lab272/semtex-varkinvis-sub001/tstep"
)

// Analyser receives control once at the end of every completed step, the
// same end-of-step hook the teacher's Domain.Out gives its output writer;
// the analyser package implements it.
type Analyser interface {
	Analyse(step int, t float64) error
}

// Config holds the per-run physical and numerical parameters an
// Integrator needs beyond the mesh and boundary data.
type Config struct {
	Nu             float64 // kinematic viscosity
	Pr             float64 // Prandtl number, used only when HasScalar
	Dt             float64
	Beta           float64 // fundamental axial/azimuthal wavenumber, 2*pi/Lz
	Order          int     // target BDF/extrapolation order, 1..tstep.MaxOrder
	Method         matsys.Method
	PressureMethod matsys.Method
	SolverName     string
	FreezeVelocity bool // C3.1: advance only the scalar, velocity held fixed
	HasScalar      bool
	NSteps         int
}

// Integrator owns every buffer the time-stepping loop reads and writes:
// the velocity/pressure/scalar fields (each with its own multi-level
// history ring, C8), the matching nonlinear-forcing fields, the modal
// matrix cache (C7) shared across fields, and the pressure BC history
// (C6). Every field here is allocated once, by New or (for the viscous
// RHS scratch fields) on first use by rhsField, and reused for the life
// of the run.
type Integrator struct {
	Geo        *geom.Geometry
	Elements   []elem.Element
	Maps       []*elem.AssemblyMap
	NGlobal    int
	Boundaries map[string][]*bc.Boundary
	PBC        *bc.Manager
	Cache      *matsys.Cache
	Terms      map[string]*nonlin.Term
	Forces     []forcing.Plugin
	Fields     map[string]*field.Field
	X, Y       []float64 // physical coordinates per global dof
	Cfg        Config
	Analyser   Analyser

	StepNo int
	T      float64

	assemblyIDs map[string]uintptr
}

// New allocates an Integrator and every field it owns. elements/maps/
// nGlobal describe the shared spectral-element mesh; boundaries is keyed
// by field name ("u","v","w","p", and "c" when Cfg.HasScalar); pbc may be
// nil when the pressure boundary carries no PBC condition.
func New(geo *geom.Geometry, elements []elem.Element, maps []*elem.AssemblyMap, nGlobal int,
	boundaries map[string][]*bc.Boundary, pbcMgr *bc.Manager, cache *matsys.Cache,
	terms map[string]*nonlin.Term, forces []forcing.Plugin, x, y []float64, cfg Config) *Integrator {

	in := &Integrator{
		Geo: geo, Elements: elements, Maps: maps, NGlobal: nGlobal,
		Boundaries: boundaries, PBC: pbcMgr, Cache: cache, Terms: terms, Forces: forces,
		X: x, Y: y, Cfg: cfg,
		Fields:      map[string]*field.Field{"p": field.New("p", geo)},
		assemblyIDs: map[string]uintptr{"p": 1},
	}
	for idx, name := range in.velocityComponents() {
		in.Fields[name] = field.New(name, geo)
		in.Fields["N"+name] = field.New("N"+name, geo)
		in.assemblyIDs[name] = uintptr(idx + 2)
	}
	return in
}

// velocityComponents lists the advected unknowns: u, v, w, plus a passive
// scalar c when Cfg.HasScalar.
func (in *Integrator) velocityComponents() []string {
	comps := []string{"u", "v", "w"}
	if in.Cfg.HasScalar {
		comps = append(comps, "c")
	}
	return comps
}

// advectedComponents lists the components this step actually advances:
// all of them, unless FreezeVelocity restricts advancement to the scalar.
func (in *Integrator) advectedComponents() []string {
	if in.Cfg.FreezeVelocity {
		if in.Cfg.HasScalar {
			return []string{"c"}
		}
		return nil
	}
	return in.velocityComponents()
}

// Run drives Step until the configured step horizon is reached.
func (in *Integrator) Run() error {
	for in.StepNo < in.Cfg.NSteps {
		if err := in.Step(); err != nil {
			return chk.Err("solver: step %d: %v", in.StepNo, err)
		}
	}
	return nil
}

// Step advances the solution by one time level, implementing the 11-point
// per-step algorithm: nonlinear term and forcing, PBC update, extrapolated
// intermediate velocity, pressure solve, projection, velocity BC
// re-evaluation, viscous Helmholtz correction, and the analyser call.
func (in *Integrator) Step() error {

	if err := in.buildNonlinear(); err != nil {
		return chk.Err("nonlinear term: %v", err)
	}

	in.StepNo++
	in.T += in.Cfg.Dt

	if err := in.updatePressureBCs(); err != nil {
		return chk.Err("PBC update: %v", err)
	}

	if in.Geo.Coord == geom.Cylindrical {
		in.multiplyByRadius(in.Fields["Nu"].Planes)
		in.multiplyByRadius(in.Fields["Nw"].Planes)
	}

	coefs, err := tstep.AtStep(in.StepNo, in.Cfg.Order)
	if err != nil {
		return chk.Err("integration coefficients: %v", err)
	}

	uhat := map[string][][]float64{}
	for _, name := range in.advectedComponents() {
		uhat[name] = in.extrapolate(name, coefs)
	}
	if in.Cfg.FreezeVelocity {
		// velocity is held at its current (frozen) Fourier-space values, read
		// from a prior dump rather than extrapolated.
		for _, name := range []string{"u", "v", "w"} {
			uhat[name] = in.Fields[name].Planes
		}
	}

	if err := in.solvePressure(uhat); err != nil {
		return chk.Err("pressure solve: %v", err)
	}
	if err := in.project(uhat, coefs); err != nil {
		return chk.Err("projection: %v", err)
	}
	if err := in.evaluateVelocityBCs(); err != nil {
		return chk.Err("velocity BC re-evaluation: %v", err)
	}
	if err := in.solveViscous(coefs); err != nil {
		return chk.Err("viscous solve: %v", err)
	}

	for _, name := range in.advectedComponents() {
		in.Fields[name].SwapData()
	}

	if in.Analyser != nil {
		if err := in.Analyser.Analyse(in.StepNo, in.T); err != nil {
			return chk.Err("analyser: %v", err)
		}
	}
	return nil
}

// buildNonlinear computes N(u^n) plus body forcing in physical space for
// every advected component, transforms the result forward into Fourier
// space, and commits it as the newest nonlinear-forcing history level
// (spec step 1). Velocity fields are left back in Fourier space on exit,
// matching their storage convention between steps.
func (in *Integrator) buildNonlinear() error {
	velComps := []string{"u", "v", "w"}
	for _, name := range velComps {
		if err := in.Fields[name].Transform(fourier.Inverse); err != nil {
			return err
		}
	}
	if in.Cfg.HasScalar {
		if err := in.Fields["c"].Transform(fourier.Inverse); err != nil {
			return err
		}
	}

	grad := map[string][][]float64{}
	for _, name := range in.advectedComponents() {
		dx, err := in.Fields[name].Gradient(0, in.Elements, in.Maps)
		if err != nil {
			return err
		}
		dy, err := in.Fields[name].Gradient(1, in.Elements, in.Maps)
		if err != nil {
			return err
		}
		grad[name+"x"], grad[name+"y"] = dx, dy
	}

	// div(u) = du/dx + dv/dy, needed by the Divergence/SkewSymmetric forms
	// and by Rotational's z-vorticity; both u and v are always advected.
	divU := make([][]float64, len(grad["ux"]))
	for z := range divU {
		divU[z] = make([]float64, len(grad["ux"][z]))
		for i := range divU[z] {
			divU[z][i] = grad["ux"][z][i] + grad["vy"][z][i]
		}
	}

	for _, name := range in.advectedComponents() {
		term := in.Terms[name]
		if term == nil {
			return chk.Err("buildNonlinear: no nonlinear term configured for %q", name)
		}
		out, err := term.Apply(in.Fields["u"], in.Fields["v"], in.Fields[name],
			grad[name+"x"], grad[name+"y"], divU, grad["uy"], grad["vx"])
		if err != nil {
			return err
		}
		term.Step()
		for z := range out {
			ctx := forcing.Context{
				Self: in.Fields[name].Planes[z],
				U:    in.Fields["u"].Planes[z],
				V:    in.Fields["v"].Planes[z],
			}
			if in.Cfg.HasScalar {
				ctx.Scalar = in.Fields["c"].Planes[z]
			}
			forcing.Apply(in.Forces, name, in.X, in.Y, out[z], ctx, in.T, in.StepNo)
		}
		nf := in.Fields["N"+name]
		for z := range out {
			copy(nf.Planes[z], out[z])
		}
		if err := nf.Transform(fourier.Forward); err != nil {
			return err
		}
		nf.SwapData()
	}

	for _, name := range velComps {
		if err := in.Fields[name].Transform(fourier.Forward); err != nil {
			return err
		}
	}
	if in.Cfg.HasScalar {
		if err := in.Fields["c"].Transform(fourier.Forward); err != nil {
			return err
		}
	}
	return nil
}

// updatePressureBCs pushes the current nonlinear-forcing sample at the
// pressure BC dofs into the PBC ring buffer and writes the extrapolated
// value into the pressure field's PBC dofs at the new time level (spec
// step 3). The sample is n . N(u), the nonlinear forcing projected onto
// the boundary outward normal, evaluated on the first plane as semtex's
// own Field::evaluateBoundaries does in the 2-D limit.
func (in *Integrator) updatePressureBCs() error {
	if in.PBC == nil {
		return nil
	}
	dofs := in.PBC.Dofs()
	nx, ny := in.PBC.Normal()
	sample := make([]float64, len(dofs))
	nu := in.Fields["Nu"]
	nv := in.Fields["Nv"]
	for idx, d := range dofs {
		sample[idx] = nu.Planes[0][d]*nx[idx] + nv.Planes[0][d]*ny[idx]
	}
	if err := in.PBC.MaintainFourier(sample); err != nil {
		return err
	}
	extrap, err := in.PBC.Extrapolate(in.StepNo, in.Cfg.Order)
	if err != nil {
		return err
	}
	p := in.Fields["p"]
	for z := range p.Planes {
		for idx, d := range dofs {
			p.Planes[z][d] = extrap[idx]
		}
	}
	return nil
}

// multiplyByRadius scales every plane of planes pointwise by the
// cylindrical radius in.Y (spec step 4).
func (in *Integrator) multiplyByRadius(planes [][]float64) {
	for z := range planes {
		for p := range planes[z] {
			planes[z][p] *= in.Y[p]
		}
	}
}

// extrapolate builds the intermediate velocity uhat = sum(-alpha_q *
// u^{n-q}) + dt*sum(beta_q * N^{n-q}) for one component (spec step 5),
// reading u^{n-q} and N^{n-q} from the field's own history ring (history
// level q-1 for the alpha sum, level q for the beta sum, since the
// nonlinear field's newest level was already committed this step while
// the velocity field's newest level was committed at the end of the
// previous one).
func (in *Integrator) extrapolate(name string, coefs *tstep.Coefs) [][]float64 {
	u := in.Fields[name]
	n := in.Fields["N"+name]
	out := make([][]float64, len(u.Planes))
	for z := range out {
		out[z] = make([]float64, len(u.Planes[z]))
		for q := 1; q <= coefs.Order; q++ {
			hist := u.History(q - 1)
			for p := range out[z] {
				out[z][p] += -coefs.Alpha[q] * hist[z][p]
			}
		}
		for q := 0; q < coefs.Order; q++ {
			hist := n.History(q)
			for p := range out[z] {
				out[z][p] += in.Cfg.Dt * coefs.Beta[q] * hist[z][p]
			}
		}
	}
	return out
}

// wrap adapts a raw plane set to field.Gradient/Transform without
// allocating a fresh history ring; it is used for the throwaway pressure
// and intermediate-velocity gradients the projection step needs.
func wrap(geo *geom.Geometry, planes [][]float64) *field.Field {
	return &field.Field{Geo: geo, Planes: planes}
}

// fourierZDerivative returns d/dz of a Fourier-space plane set, where
// plane 2k holds the real part and plane 2k+1 the imaginary part of
// azimuthal/axial mode k: multiplication by d/dz is multiplication by
// i*k*beta, which swaps and signs the real/imaginary pair.
func fourierZDerivative(planes [][]float64, beta float64) [][]float64 {
	out := make([][]float64, len(planes))
	for z := range planes {
		out[z] = make([]float64, len(planes[z]))
	}
	for k := 0; 2*k+1 < len(planes); k++ {
		re, im := planes[2*k], planes[2*k+1]
		factor := beta * float64(k)
		for p := range re {
			out[2*k][p] = -factor * im[p]
			out[2*k+1][p] = factor * re[p]
		}
	}
	return out
}

// divergence computes div(uhat) = d(uhat_u)/dx + d(uhat_v)/dy, plus
// d(uhat_w)/dz when w is present, for the pressure Poisson RHS.
func (in *Integrator) divergence(uhat map[string][][]float64) ([][]float64, error) {
	dudx, err := wrap(in.Geo, uhat["u"]).Gradient(0, in.Elements, in.Maps)
	if err != nil {
		return nil, err
	}
	dvdy, err := wrap(in.Geo, uhat["v"]).Gradient(1, in.Elements, in.Maps)
	if err != nil {
		return nil, err
	}
	div := make([][]float64, len(dudx))
	for z := range div {
		div[z] = make([]float64, len(dudx[z]))
		for p := range div[z] {
			div[z][p] = dudx[z][p] + dvdy[z][p]
		}
	}
	if w, ok := uhat["w"]; ok {
		dwdz := fourierZDerivative(w, in.Cfg.Beta)
		for z := range div {
			for p := range div[z] {
				div[z][p] += dwdz[z][p]
			}
		}
	}
	return div, nil
}

// solvePressure assembles RHS = div(uhat)/dt into the pressure field and
// solves the pressure Poisson problem (lambda2 = 0) subject to the
// extrapolated PBC and any essential pressure boundaries (spec step 6).
func (in *Integrator) solvePressure(uhat map[string][][]float64) error {
	div, err := in.divergence(uhat)
	if err != nil {
		return err
	}
	p := in.Fields["p"]
	for z := range p.Planes {
		for k := range p.Planes[z] {
			p.Planes[z][k] = div[z][k] / in.Cfg.Dt
		}
	}
	return p.Solve(in.Cache, in.Elements, in.Maps, in.NGlobal, 0, in.Cfg.Beta,
		in.Cfg.PressureMethod, in.Boundaries["p"], in.Cfg.SolverName, in.assemblyIDs["p"])
}

// project computes u^ = uhat - dt*grad(p) and scales it into the viscous
// Helmholtz RHS -u^/(dt*nu) (spec step 7), applying the cylindrical
// radius premultiplication to the axial/azimuthal components and the
// Prandtl-weighted diffusivity substitution for a passive scalar.
func (in *Integrator) project(uhat map[string][][]float64, coefs *tstep.Coefs) error {
	p := in.Fields["p"]
	dpdx, err := wrap(in.Geo, p.Planes).Gradient(0, in.Elements, in.Maps)
	if err != nil {
		return err
	}
	dpdy, err := wrap(in.Geo, p.Planes).Gradient(1, in.Elements, in.Maps)
	if err != nil {
		return err
	}
	pgrad := map[string][][]float64{"u": dpdx, "v": dpdy}
	comps := []string{"u", "v"}
	if _, ok := uhat["w"]; ok {
		pgrad["w"] = fourierZDerivative(p.Planes, in.Cfg.Beta)
		comps = append(comps, "w")
	}
	for _, name := range comps {
		diffusivity := in.Cfg.Nu
		scale := -1.0 / (in.Cfg.Dt * diffusivity)
		rhs := in.rhsField(name)
		for z := range rhs.Planes {
			for k := range rhs.Planes[z] {
				uproj := uhat[name][z][k] - in.Cfg.Dt*pgrad[name][z][k]
				rhs.Planes[z][k] = scale * uproj
			}
		}
		if in.Geo.Coord == geom.Cylindrical && name != "v" {
			in.multiplyByRadius(rhs.Planes)
		}
	}
	if in.Cfg.HasScalar {
		diffusivity := in.Cfg.Nu / in.Cfg.Pr
		scale := -1.0 / (in.Cfg.Dt * diffusivity)
		rhs := in.rhsField("c")
		uc := uhat["c"]
		for z := range rhs.Planes {
			for k := range rhs.Planes[z] {
				rhs.Planes[z][k] = scale * uc[z][k]
			}
		}
	}
	return nil
}

// rhsField returns the (lazily allocated) scratch field holding the
// viscous Helmholtz RHS for component name, reused across steps.
func (in *Integrator) rhsField(name string) *field.Field {
	key := "rhs_" + name
	f, ok := in.Fields[key]
	if !ok {
		f = field.New(key, in.Geo)
		in.Fields[key] = f
	}
	return f
}

// evaluateVelocityBCs re-evaluates every advected component's essential
// boundary values at the new time level, in physical space, then
// transforms the result back into Fourier space before it feeds the
// viscous Helmholtz RHS (spec step 8). Cylindrical axis (v,w) coupling
// happens later, in solveViscous, around the per-mode Helmholtz solve.
func (in *Integrator) evaluateVelocityBCs() error {
	for _, name := range in.advectedComponents() {
		rhs := in.rhsField(name)
		if err := rhs.Transform(fourier.Inverse); err != nil {
			return err
		}
		rhs.EvaluateBoundaries(in.Boundaries[name], in.T, in.StepNo)
		if err := rhs.Transform(fourier.Forward); err != nil {
			return err
		}
	}
	return nil
}

// axisCoupled reports whether this step advances both v and w on a
// cylindrical 3-D geometry, the condition under which the radial and
// azimuthal momentum equations carry the 1/r^2 cross terms that
// field.Couple's rotation decouples (spec §4.7, §4.10 step 9).
func (in *Integrator) axisCoupled(components []string) bool {
	if in.Geo.Coord != geom.Cylindrical || in.Geo.NDim() != 3 {
		return false
	}
	hasV, hasW := false, false
	for _, name := range components {
		hasV = hasV || name == "v"
		hasW = hasW || name == "w"
	}
	return hasV && hasW
}

// solveViscous solves the per-mode viscous Helmholtz correction for every
// advected component (spec step 9), with lambda2 = alpha0/(dt*nu) the
// BDF-implicit parameter, then commits the result into the component's
// own field (spec step 10's copy, ahead of the SwapData in Step). On a
// cylindrical 3-D geometry the (v,w) pair is rotated to decoupled
// variables before the per-mode solves and rotated back afterward.
func (in *Integrator) solveViscous(coefs *tstep.Coefs) error {
	components := in.advectedComponents()
	for _, name := range components {
		rhs := in.rhsField(name)
		f := in.Fields[name]
		for z := range f.Planes {
			copy(f.Planes[z], rhs.Planes[z])
		}
	}

	coupled := in.axisCoupled(components)
	if coupled {
		if err := field.Couple(in.Fields["v"], in.Fields["w"], field.Forward); err != nil {
			return chk.Err("axis coupling: %v", err)
		}
	}

	for _, name := range components {
		diffusivity := in.Cfg.Nu
		if name == "c" {
			diffusivity = in.Cfg.Nu / in.Cfg.Pr
		}
		lambda2 := coefs.Alpha[0] / (in.Cfg.Dt * diffusivity)
		f := in.Fields[name]
		if err := f.Solve(in.Cache, in.Elements, in.Maps, in.NGlobal, lambda2, in.Cfg.Beta,
			in.Cfg.Method, in.Boundaries[name], in.Cfg.SolverName, in.assemblyIDs[name]); err != nil {
			return err
		}
	}

	if coupled {
		if err := field.Couple(in.Fields["v"], in.Fields["w"], field.Inverse); err != nil {
			return chk.Err("axis uncoupling: %v", err)
		}
	}
	return nil
}
