// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dns runs one spectral-element/Fourier DNS simulation from a
// session file, spec §6.5. Grounded on the teacher's root main.go: the
// same flag.Parse/positional-filename/`.sim`-extension idiom, the same
// mpi.Start/defer mpi.Stop lifecycle, and the same top-level
// defer/recover panic handler that prints caller frames and the error on
// failure.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"

	"github.com/lab272/semtex-varkinvis-sub001/analyser"
	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/dump"
	"github.com/lab272/semtex-varkinvis-sub001/expr"
	"github.com/lab272/semtex-varkinvis-sub001/forcing"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
	"github.com/lab272/semtex-varkinvis-sub001/matsys"
	"github.com/lab272/semtex-varkinvis-sub001/mesh"
	"github.com/lab272/semtex-varkinvis-sub001/nonlin"
	"github.com/lab272/semtex-varkinvis-sub001/session"
	"github.com/lab272/semtex-varkinvis-sub001/solver"
)

func main() {

	verbose := false
	iterative := false
	freeze := false
	doCheckpoint := false
	var skew, convective, stokesFlag bool

	flag.BoolVar(&verbose, "v", false, "verbose progress messages")
	flag.BoolVar(&iterative, "i", false, "force the iterative (JacPCG) viscous solver")
	flag.BoolVar(&freeze, "f", false, "freeze velocity, advance the scalar only")
	flag.BoolVar(&doCheckpoint, "chk", false, "write a field checkpoint at every analyser cadence tick")
	flag.BoolVar(&skew, "S", false, "skew-symmetric advection")
	flag.BoolVar(&convective, "C", false, "convective advection")
	flag.BoolVar(&stokesFlag, "N", false, "Stokes flow, no advection term")

	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	if mpi.Rank() == 0 {
		io.PfWhite("\ndns -- spectral-element/Fourier incompressible Navier-Stokes\n\n")
	}

	flag.Parse()
	var fnamepath string
	if flag.NArg() > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a session filename. Ex.: channel.sim")
	}
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".sim"
	}

	defer utl.DoProf(false)()

	if err := run(fnamepath, runOptions{
		verbose: verbose, iterative: iterative, freeze: freeze, checkpoint: doCheckpoint,
		form: advectionForm(skew, convective, stokesFlag),
	}); err != nil {
		chk.Panic("Run failed: %v\n", err)
	}
}

type runOptions struct {
	verbose    bool
	iterative  bool
	freeze     bool
	checkpoint bool
	form       nonlin.Form
}

// advectionForm resolves the mutually exclusive -S/-C/-N flags to a
// nonlin.Form, defaulting to Alternating (spec §6.5: "default is
// alternating skew-symmetric").
func advectionForm(skew, convective, stokes bool) nonlin.Form {
	switch {
	case stokes:
		return nonlin.Stokes
	case convective:
		return nonlin.Convective
	case skew:
		return nonlin.SkewSymmetric
	default:
		return nonlin.Alternating
	}
}

// run wires a parsed session into a solver.Integrator and drives it to
// completion; split from main so the top-level recover() is the only
// panic boundary and everything below returns ordinary errors.
func run(fnamepath string, opt runOptions) error {
	sess, err := session.Read(fnamepath)
	if err != nil {
		return err
	}

	cfg, err := newRunConfig(sess, opt)
	if err != nil {
		return err
	}

	if opt.verbose && mpi.Rank() == 0 {
		io.Pf("session %q: N_P=%d N_Z=%d N_EL=%d nu=%v dt=%v nsteps=%d\n",
			sess.Key, cfg.np, cfg.geo.Nz, len(sess.Elements), cfg.nu, cfg.dt, cfg.nsteps)
	}

	m, err := mesh.Build(sess, cfg.np)
	if err != nil {
		return err
	}

	nodesByID := m.NodesByID
	valueFor := func(spec session.BCSpec) (expr.Expr, error) {
		if v, err := strconv.ParseFloat(spec.Value, 64); err == nil {
			return expr.Const(v), nil
		}
		return expr.New(spec.Value, dbf.Params{})
	}
	boundaries, err := bc.Build(sess, nodesByID, valueFor)
	if err != nil {
		return err
	}

	boundariesByField := map[string][]*bc.Boundary{}
	var allEssential []*bc.Boundary
	var pbcDofs []int
	var pbcNx, pbcNy []float64
	var walls []analyser.WallGroup
	for _, b := range boundaries {
		boundariesByField[b.Field] = append(boundariesByField[b.Field], b)
		allEssential = append(allEssential, b)
		if b.Cond.Kind == bc.PBC {
			pbcDofs = append(pbcDofs, b.Dofs...)
			pbcNx = append(pbcNx, b.Nx...)
			pbcNy = append(pbcNy, b.Ny...)
		}
		// a no-slip wall is an Essential condition on u; its own Nx/Ny/Area,
		// populated by bc.Build from the group's edge geometry, are enough
		// to drive the wall-traction diagnostic directly.
		if b.Field == "u" && b.Cond.Kind == bc.Essential {
			walls = append(walls, analyser.WallGroup{Name: b.Group, Boundary: b})
		}
	}
	maps := mesh.MarkEssential(m.Maps, m.NGlobal, allEssential)

	var pbcMgr *bc.Manager
	if len(pbcDofs) > 0 {
		pbcMgr = bc.NewManager(pbcDofs, pbcNx, pbcNy)
	}

	forces, err := forcing.Build(sess)
	if err != nil {
		return err
	}

	// solver.Integrator always carries u, v, w (2-D runs simply leave w at
	// zero) plus c when HasScalar, matching Integrator.velocityComponents.
	terms := map[string]*nonlin.Term{}
	for _, name := range []string{"u", "v", "w"} {
		terms[name] = &nonlin.Term{Form: opt.form, Component: name, Elements: m.Elements, Maps: maps}
	}
	if cfg.hasScalar {
		terms["c"] = &nonlin.Term{Form: opt.form, Component: "c", Elements: m.Elements, Maps: maps}
	}

	in := solver.New(cfg.geo, m.Elements, maps, m.NGlobal, boundariesByField, pbcMgr,
		matsys.NewCache(), terms, forces, m.X, m.Y, solver.Config{
			Nu: cfg.nu, Pr: cfg.pr, Dt: cfg.dt, Beta: cfg.beta,
			Order: cfg.order, Method: cfg.method, PressureMethod: cfg.pressureMethod,
			SolverName: cfg.solverName, FreezeVelocity: opt.freeze, HasScalar: cfg.hasScalar,
			NSteps: cfg.nsteps,
		})

	checkpoint := func(step int, t float64) error {
		if !opt.checkpoint {
			return nil
		}
		hdr := dump.Header{
			Session: sess.Key, Created: "dns", Np: cfg.np, Nz: cfg.geo.Nz, Nel: len(sess.Elements),
			Step: step, Time: t, Dt: cfg.dt, Kinvis: cfg.nu, Beta: cfg.beta,
			Fields: fieldsWritten(in), Format: "binary, little-endian",
		}
		path := fmt.Sprintf("%s.chk.%d", sess.Key, step)
		return dump.Write(path, hdr, cfg.geo, in.Fields)
	}

	an := analyser.NewManager(cfg.dirOut, sess.Key, cfg.cadence, nil, walls,
		in.Fields, m.Elements, maps, cfg.nu, cfg.pr, cfg.hasScalar, checkpoint)
	in.Analyser = an

	return in.Run()
}

// fieldsWritten lists the solved field names (excluding the nonlinear
// forcing scratch fields prefixed "N") in a stable order for dump.Write.
func fieldsWritten(in *solver.Integrator) string {
	var b strings.Builder
	for _, name := range []string{"u", "v", "w", "c", "p"} {
		if _, ok := in.Fields[name]; ok {
			b.WriteString(name)
		}
	}
	return b.String()
}

// runConfig holds the numeric/configuration values pulled out of
// session.Session.User, spec §6.2's free-form key/value escape hatch for
// run parameters the fixed NODES/ELEMENTS/... sections don't carry.
type runConfig struct {
	np, nsteps, order int
	nu, pr, dt, beta  float64
	hasScalar         bool
	method            matsys.Method
	pressureMethod    matsys.Method
	solverName        string
	dirOut            string
	cadence           analyser.Cadence
	geo               *geom.Geometry
}

func userFloat(sess *session.Session, key string, def float64) float64 {
	if v, ok := sess.User[key]; ok {
		return io.Atof(v)
	}
	return def
}

func userInt(sess *session.Session, key string, def int) int {
	if v, ok := sess.User[key]; ok {
		return io.Atoi(v)
	}
	return def
}

func userString(sess *session.Session, key, def string) string {
	if v, ok := sess.User[key]; ok {
		return v
	}
	return def
}

func parseMethod(name string) matsys.Method {
	switch strings.ToLower(name) {
	case "direct":
		return matsys.Direct
	case "jacpcg":
		return matsys.JacPCG
	default:
		return matsys.Mixed
	}
}

func newRunConfig(sess *session.Session, opt runOptions) (*runConfig, error) {
	np := userInt(sess, "N_P", 2)
	nel := len(sess.Elements)
	if nel == 0 {
		return nil, chk.Err("cmd/dns: session has no elements")
	}
	nz := userInt(sess, "N_Z", 1)
	nproc := 1
	pid := 0
	if mpi.IsOn() {
		nproc = mpi.Size()
		pid = mpi.Rank()
	}
	coord := geom.Cartesian
	if strings.EqualFold(userString(sess, "COORD", "cartesian"), "cylindrical") {
		coord = geom.Cylindrical
	}
	svv := geom.SVV{MZ: userInt(sess, "SVV_MZ", 0), Eps: userFloat(sess, "SVV_EPS", 0)}

	geo, err := geom.New(np, nz, nel, nproc, pid, coord, svv)
	if err != nil {
		return nil, err
	}

	hasScalar := false
	for _, f := range sess.Fields {
		if f.Name == "c" {
			hasScalar = true
		}
	}

	method := parseMethod(userString(sess, "METHOD", "mixed"))
	pressureMethod := parseMethod(userString(sess, "PRESSURE_METHOD", "mixed"))
	if opt.iterative {
		method = matsys.JacPCG
		pressureMethod = matsys.JacPCG
	}

	solverName := "umfpack"
	if mpi.IsOn() && mpi.Size() > 1 {
		solverName = "mumps"
	}
	solverName = userString(sess, "LINSOLVER", solverName)

	cfg := &runConfig{
		np: np, nsteps: userInt(sess, "N_STEP", 1), order: userInt(sess, "ORDER", 2),
		nu: userFloat(sess, "KINVIS", 0.01), pr: userFloat(sess, "PRANDTL", 1),
		dt: userFloat(sess, "D_T", 0.01), beta: userFloat(sess, "BETA", 1),
		hasScalar: hasScalar, method: method, pressureMethod: pressureMethod,
		solverName: solverName, dirOut: userString(sess, "DIR_OUT", "."),
		cadence: analyser.Cadence{
			History:    userInt(sess, "IO_HIS", 0),
			Checkpoint: userInt(sess, "IO_CHK", 0),
			Wall:       userInt(sess, "IO_WSS", 0),
		},
		geo: geo,
	}
	return cfg, nil
}
