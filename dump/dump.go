// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package dump implements the persisted field dump format (spec §6.4): a
// ten-line, fixed-width-80 ASCII header describing the run and mesh,
// followed by a binary body of nFields*NzPerProc*PlaneSize IEEE-754
// doubles. Grounded on original_source/src/misc.cpp's writeField/readField
// (the ten-field header layout and its value-then-label column shape) and
// on the teacher's VTU writer (tools/GenVtu.go's pvd_header/vtu_write) for
// the gosl idiom of building output in bytes.Buffer via io.Ff and handing
// the finished buffers to io.WriteFile.
package dump

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/lab272/semtex-varkinvis-sub001/field"
	"github.com/lab272/semtex-varkinvis-sub001/geom"
)

// lineWidth is the fixed width of every header line, spec §6.4's "ten
// fixed 80-byte lines" (79 content bytes plus the trailing newline).
const lineWidth = 80

// Header carries every value the ten header lines record.
type Header struct {
	Session string
	Created string
	Np      int
	Nz      int
	Nel     int
	Step    int
	Time    float64
	Dt      float64
	Kinvis  float64
	Beta    float64
	Fields  string // e.g. "uvwp" or "uvwcp", one letter per field in body order
	Format  string // e.g. "binary little-endian"
}

var headerLabels = [10]string{
	"Session", "Created", "Np, Nz, Elements", "Step", "Time",
	"Time step", "Kinvis", "Beta", "Fields written", "Format",
}

func headerLine(value, label string) string {
	line := io.Sf("%-25s %s", value, label)
	if len(line) < lineWidth-1 {
		line += strings.Repeat(" ", lineWidth-1-len(line))
	}
	return line + "\n"
}

// Write persists session's current field state to path: the ten-line
// header followed by the binary body, one field after another in the
// order named by hdr.Fields, each as NzPerProc planes of PlaneSize
// little-endian float64.
func Write(path string, hdr Header, geo *geom.Geometry, fields map[string]*field.Field) error {
	var head bytes.Buffer
	head.WriteString(headerLine(hdr.Session, headerLabels[0]))
	head.WriteString(headerLine(hdr.Created, headerLabels[1]))
	head.WriteString(headerLine(io.Sf("%d %d %d", hdr.Np, hdr.Nz, hdr.Nel), headerLabels[2]))
	head.WriteString(headerLine(io.Sf("%d", hdr.Step), headerLabels[3]))
	head.WriteString(headerLine(io.Sf("%.6g", hdr.Time), headerLabels[4]))
	head.WriteString(headerLine(io.Sf("%.6g", hdr.Dt), headerLabels[5]))
	head.WriteString(headerLine(io.Sf("%.6g", hdr.Kinvis), headerLabels[6]))
	head.WriteString(headerLine(io.Sf("%.6g", hdr.Beta), headerLabels[7]))
	head.WriteString(headerLine(hdr.Fields, headerLabels[8]))
	head.WriteString(headerLine(hdr.Format, headerLabels[9]))

	var body bytes.Buffer
	for _, name := range hdr.Fields {
		f, ok := fields[string(name)]
		if !ok {
			return chk.Err("dump: Write: no field %q to match header Fields=%q", string(name), hdr.Fields)
		}
		for z := 0; z < geo.NzPerProc(); z++ {
			if err := binary.Write(&body, binary.LittleEndian, f.Planes[z]); err != nil {
				return chk.Err("dump: Write: field %q plane %d: %v", string(name), z, err)
			}
		}
	}

	return io.WriteFile(path, &head, &body)
}

// Read loads a dump written by Write, byte-swapping the body if the
// header's endian token disagrees with this host's (assumed little-endian,
// true of every platform the corpus targets).
func Read(path string) (Header, map[string][][]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Header{}, nil, err
	}
	if len(raw) < 10*lineWidth {
		return Header{}, nil, chk.Err("dump: Read: %s: file shorter than the 10-line header", path)
	}
	hdr, err := parseHeader(raw[:10*lineWidth])
	if err != nil {
		return Header{}, nil, err
	}
	swap := strings.Contains(hdr.Format, "big-endian")

	body := raw[10*lineWidth:]
	planeSize := len(body) / (len([]rune(hdr.Fields)) * hdr.Nz)
	if planeSize <= 0 {
		return Header{}, nil, chk.Err("dump: Read: %s: header/body size mismatch", path)
	}

	out := make(map[string][][]float64, len(hdr.Fields))
	off := 0
	for _, name := range hdr.Fields {
		planes := make([][]float64, hdr.Nz)
		for z := 0; z < hdr.Nz; z++ {
			plane := make([]float64, planeSize)
			for i := 0; i < planeSize; i++ {
				bits := binary.LittleEndian.Uint64(body[off : off+8])
				if swap {
					bits = binary.BigEndian.Uint64(body[off : off+8])
				}
				plane[i] = math.Float64frombits(bits)
				off += 8
			}
			planes[z] = plane
		}
		out[string(name)] = planes
	}
	return hdr, out, nil
}

func parseHeader(lines []byte) (Header, error) {
	rows := make([]string, 10)
	for i := 0; i < 10; i++ {
		rows[i] = string(lines[i*lineWidth : (i+1)*lineWidth])
	}
	value := func(row string) string {
		if len(row) < 25 {
			return strings.TrimSpace(row)
		}
		return strings.TrimSpace(row[:25])
	}

	var hdr Header
	hdr.Session = value(rows[0])
	hdr.Created = value(rows[1])
	dims := strings.Fields(value(rows[2]))
	if len(dims) != 3 {
		return Header{}, chk.Err("dump: parseHeader: malformed dims line %q", rows[2])
	}
	var err error
	if hdr.Np, err = strconv.Atoi(dims[0]); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Np: %v", err)
	}
	if hdr.Nz, err = strconv.Atoi(dims[1]); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Nz: %v", err)
	}
	if hdr.Nel, err = strconv.Atoi(dims[2]); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Nel: %v", err)
	}
	if hdr.Step, err = strconv.Atoi(value(rows[3])); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Step: %v", err)
	}
	if hdr.Time, err = strconv.ParseFloat(value(rows[4]), 64); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Time: %v", err)
	}
	if hdr.Dt, err = strconv.ParseFloat(value(rows[5]), 64); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Dt: %v", err)
	}
	if hdr.Kinvis, err = strconv.ParseFloat(value(rows[6]), 64); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Kinvis: %v", err)
	}
	if hdr.Beta, err = strconv.ParseFloat(value(rows[7]), 64); err != nil {
		return Header{}, chk.Err("dump: parseHeader: Beta: %v", err)
	}
	hdr.Fields = value(rows[8])
	hdr.Format = value(rows[9])
	return hdr, nil
}
