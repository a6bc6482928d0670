// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package session implements the session-file reader named in spec §6.2: a
// text format with delimited sections (NODES, ELEMENTS, SURFACES, BCS,
// GROUPS, FIELDS, FORCE, USER), parsed once at startup into an in-memory
// Session value. Grounded on the teacher's inp.ReadSim idiom (parse once
// into an explicit struct tree, panic/error on malformed input) adapted to
// this spec's own section-delimited text grammar instead of gofem's JSON.
package session

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	gio "github.com/cpmech/gosl/io"
)

// Node is one mesh vertex.
type Node struct {
	Id   int
	X, Y float64
}

// Element is one spectral element's vertex connectivity (CCW, 4 corners).
type Element struct {
	Id    int
	Verts [4]int
}

// Surface is one element edge exposed to a boundary group.
type Surface struct {
	ElementID int
	Side      int // 0..3
	Group     string
}

// BCSpec is one boundary-condition declaration: the condition attached to
// a (group, field) pair.
type BCSpec struct {
	Group string
	Field string
	Kind  string // "essential" | "natural" | "mixed" | "axis" | "pbc"
	Value string // literal constant or a function-table name
}

// Group names a boundary group referenced by Surfaces and BCSpecs.
type Group struct {
	Char string
	Name string
}

// FieldSpec declares one solved field ("u","v","w","c","p").
type FieldSpec struct {
	Name string
}

// ForceSpec is one body-force plug-in activation with its parameters.
type ForceSpec struct {
	Name   string
	Params map[string]string
}

// Session is the fully parsed, immutable session file.
type Session struct {
	Key      string
	Nodes    []Node
	Elements []Element
	Surfaces []Surface
	BCs      []BCSpec
	Groups   []Group
	Fields   []FieldSpec
	Forces   []ForceSpec
	User     map[string]string
}

// Read parses the session file at path. All subsequent lookups against the
// returned Session are in-memory (spec §6.2).
func Read(path string) (*Session, error) {
	buf, err := gio.ReadFile(path)
	if err != nil {
		return nil, chk.Err("session: cannot open %q: %v", path, err)
	}
	s, err := Parse(strings.NewReader(string(buf)))
	if err != nil {
		return nil, chk.Err("session: %q: %v", path, err)
	}
	s.Key = gio.FnKey(path)
	return s, nil
}

// Parse reads a session file from r.
func Parse(r io.Reader) (*Session, error) {
	s := &Session{User: map[string]string{}}
	sc := bufio.NewScanner(r)
	var section string
	var lineno int
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if section == "" {
			fields := strings.Fields(line)
			section = strings.ToUpper(fields[0])
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "END"+section) {
			section = ""
			continue
		}
		if err := parseLine(s, section, line); err != nil {
			return nil, chk.Err("line %d: %v", lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, chk.Err("scan error: %v", err)
	}
	if section != "" {
		return nil, chk.Err("unterminated section %q", section)
	}
	return s, nil
}

func parseLine(s *Session, section, line string) error {
	f := strings.Fields(line)
	switch section {
	case "NODES":
		if len(f) < 3 {
			return chk.Err("NODES: expected 'id x y', got %q", line)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return err
		}
		x, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return err
		}
		y, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return err
		}
		s.Nodes = append(s.Nodes, Node{Id: id, X: x, Y: y})

	case "ELEMENTS":
		if len(f) < 5 {
			return chk.Err("ELEMENTS: expected 'id v0 v1 v2 v3', got %q", line)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return err
		}
		var e Element
		e.Id = id
		for i := 0; i < 4; i++ {
			v, err := strconv.Atoi(f[1+i])
			if err != nil {
				return err
			}
			e.Verts[i] = v
		}
		s.Elements = append(s.Elements, e)

	case "SURFACES":
		if len(f) < 3 {
			return chk.Err("SURFACES: expected 'elementId side group', got %q", line)
		}
		eid, err := strconv.Atoi(f[0])
		if err != nil {
			return err
		}
		side, err := strconv.Atoi(f[1])
		if err != nil {
			return err
		}
		s.Surfaces = append(s.Surfaces, Surface{ElementID: eid, Side: side, Group: f[2]})

	case "BCS":
		if len(f) < 4 {
			return chk.Err("BCS: expected 'group field kind value', got %q", line)
		}
		s.BCs = append(s.BCs, BCSpec{Group: f[0], Field: f[1], Kind: f[2], Value: strings.Join(f[3:], " ")})

	case "GROUPS":
		if len(f) < 2 {
			return chk.Err("GROUPS: expected 'char name', got %q", line)
		}
		s.Groups = append(s.Groups, Group{Char: f[0], Name: f[1]})

	case "FIELDS":
		s.Fields = append(s.Fields, FieldSpec{Name: f[0]})

	case "FORCE":
		fs := ForceSpec{Name: f[0], Params: map[string]string{}}
		for _, kv := range f[1:] {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				fs.Params[parts[0]] = parts[1]
			}
		}
		s.Forces = append(s.Forces, fs)

	case "USER":
		if len(f) < 2 {
			return chk.Err("USER: expected 'key value', got %q", line)
		}
		s.User[f[0]] = strings.Join(f[1:], " ")

	default:
		return chk.Err("unrecognised section %q", section)
	}
	return nil
}

// Group looks up a group by its character code.
func (s *Session) Group(char string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Char == char {
			return g, true
		}
	}
	return Group{}, false
}

// BCsFor returns every BCSpec attached to (group, field).
func (s *Session) BCsFor(group, field string) []BCSpec {
	var out []BCSpec
	for _, b := range s.BCs {
		if b.Group == group && b.Field == field {
			out = append(out, b)
		}
	}
	return out
}
