// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh bridges a parsed session.Session into the element/
// assembly-map pair the core packages (matsys, field, solver) are built
// around: one rectangular elem.QuadElement per session.Element, on an
// np x np Gauss-Lobatto-Legendre grid derived from the element's corner
// bounding box (elem.QuadElement is rectangular-only, spec §6.1), with
// coincident nodal points across element edges merged into one global
// dof space. Grounded on the teacher's own mesh-construction idiom of
// building an explicit, once-computed struct tree from parsed input
// (inp.ReadSim -> inp.Mesh) rather than deriving connectivity lazily at
// solve time.
package mesh

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/lab272/semtex-varkinvis-sub001/bc"
	"github.com/lab272/semtex-varkinvis-sub001/elem"
	"github.com/lab272/semtex-varkinvis-sub001/session"
)

// Mesh is the bridge result: elements and assembly maps ready for
// solver.New, the merged global dof count, and a coordinate lookup for
// every global dof (bc.Build's node-id space and the analyser's history
// points both key off it).
type Mesh struct {
	Elements  []elem.Element
	Maps      []*elem.AssemblyMap
	NGlobal   int
	NodesByID map[int]session.Node
	X, Y      []float64 // coordinates indexed by global dof, 0..NGlobal-1
}

const posScale = 1e6

type posKey struct{ xi, yi int64 }

func quantize(x, y float64) posKey {
	return posKey{int64(math.Round(x * posScale)), int64(math.Round(y * posScale))}
}

// Build assembles one Element/AssemblyMap pair per entry of sess.Elements.
// Points coincident with a session corner node keep that node's own id,
// so bc.Build's convention of using the raw session node id directly as a
// global dof lines up with this numbering; new edge/interior points
// (present whenever np>2) are assigned fresh ids past the highest session
// node id. geom.Geometry.PlaneSize() (computed independently from
// Nel*Np*Np) is always >= NGlobal, since it sizes storage for the
// worst case of no sharing at all; the surplus entries simply go unused.
func Build(sess *session.Session, np int) (*Mesh, error) {
	if len(sess.Elements) == 0 {
		return nil, chk.Err("mesh: session has no elements")
	}

	nodeByID := make(map[int]session.Node, len(sess.Nodes))
	maxID := -1
	for _, n := range sess.Nodes {
		nodeByID[n.Id] = n
		if n.Id > maxID {
			maxID = n.Id
		}
	}

	globalID := make(map[posKey]int, len(sess.Nodes))
	var x, y []float64
	for _, n := range sess.Nodes {
		globalID[quantize(n.X, n.Y)] = n.Id
		for len(x) <= n.Id {
			x = append(x, 0)
			y = append(y, 0)
		}
		x[n.Id], y[n.Id] = n.X, n.Y
	}
	nextID := maxID + 1

	elements := make([]elem.Element, len(sess.Elements))
	maps := make([]*elem.AssemblyMap, len(sess.Elements))

	for idx, se := range sess.Elements {
		var xs, ys [4]float64
		for i, vid := range se.Verts {
			n, ok := nodeByID[vid]
			if !ok {
				return nil, chk.Err("mesh: element %d: unknown vertex %d", se.Id, vid)
			}
			xs[i], ys[i] = n.X, n.Y
		}
		x0, x1 := minmax(xs[:])
		y0, y1 := minmax(ys[:])
		q, err := elem.NewQuadElement(se.Id, np, x0, y0, x1-x0, y1-y0)
		if err != nil {
			return nil, chk.Err("mesh: element %d: %v", se.Id, err)
		}
		elements[idx] = q

		n := np * np
		ex := make([]float64, n)
		ey := make([]float64, n)
		q.MeshElmt(ex, ey)

		am := elem.NewAssemblyMap(n)
		for i := 0; i < n; i++ {
			key := quantize(ex[i], ey[i])
			gid, ok := globalID[key]
			if !ok {
				gid = nextID
				nextID++
				globalID[key] = gid
				x = append(x, ex[i])
				y = append(y, ey[i])
			}
			am.Local2Global[i] = gid
		}
		maps[idx] = am
	}

	nodesByID := make(map[int]session.Node, nextID)
	for id := range x {
		nodesByID[id] = session.Node{Id: id, X: x[id], Y: y[id]}
	}

	return &Mesh{Elements: elements, Maps: maps, NGlobal: nextID, NodesByID: nodesByID, X: x, Y: y}, nil
}

func minmax(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, f := range v[1:] {
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return
}

// MarkEssential clones base into a fresh set of AssemblyMaps (same
// Local2Global, independent Essential bitmaps) with Essential[i] set
// wherever the local dof's global id is touched by an Essential boundary
// in boundaries. solver.Integrator carries a single shared Maps slice
// used by every field's matsys solve, so boundaries here is every
// field's boundary list flattened together -- a dof essential for any
// one field is masked for all of them, a documented simplification (a
// separate AssemblyMap per field would remove it, at the cost of
// threading per-field maps through solver.Integrator).
func MarkEssential(base []*elem.AssemblyMap, nGlobal int, boundaries []*bc.Boundary) []*elem.AssemblyMap {
	essential := make([]bool, nGlobal)
	for _, b := range boundaries {
		if b.Cond.Kind != bc.Essential {
			continue
		}
		for _, d := range b.Dofs {
			essential[d] = true
		}
	}
	out := make([]*elem.AssemblyMap, len(base))
	for i, am := range base {
		clone := &elem.AssemblyMap{Local2Global: am.Local2Global, Essential: make([]bool, len(am.Local2Global))}
		for j, g := range am.Local2Global {
			clone.Essential[j] = essential[g]
		}
		out[i] = clone
	}
	return out
}
