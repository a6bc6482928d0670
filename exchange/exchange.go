// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package exchange implements the plane/mode exchange (C2): the
// intra-process block scatter plus inter-process all-to-all transpose
// that converts data held as nZ whole planes into data held as nP/nProc
// whole z-pencils (and back), the same two-stage transform
// original_source/src/message.cpp's Message::exchange performs before and
// after a distributed Fourier transform.
package exchange

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/mpi"
)

// Direction selects which half of the round trip Exchange performs; the
// two directions must be inverses of one another.
type Direction int

const (
	Forward  Direction = 1  // planes -> pencils
	Backward Direction = -1 // pencils -> planes
)

// Transport performs the inter-process block transpose. MPITransport
// backs it with gosl/mpi in a real run; SerialTransport is the Size()==1
// no-op used by every single-process test and by a serial dns invocation.
type Transport interface {
	Rank() int
	Size() int
	AllToAll(send []float64) ([]float64, error)
}

// SerialTransport is the single-process Transport: Exchange never calls
// AllToAll when Size() reports 1, so its body is unreachable in practice
// and exists only to satisfy the interface.
type SerialTransport struct{}

func (SerialTransport) Rank() int { return 0 }
func (SerialTransport) Size() int { return 1 }
func (SerialTransport) AllToAll(send []float64) ([]float64, error) { return send, nil }

// MPITransport wraps gosl/mpi the way the teacher's fem.Main does
// (mpi.IsOn/mpi.Rank/mpi.Size, started and stopped once per process by
// cmd/dns). No collective all-to-all call is exercised anywhere in the
// corpus, so AllToAll here is a named gap rather than a guess: it
// refuses to run on more than one rank until a verified gosl/mpi (or
// cgo MPI) binding for MPI_Alltoall is wired in. Start/Stop/IsOn are
// otherwise fully grounded and safe to call today.
type MPITransport struct{}

func (MPITransport) Rank() int { return mpi.Rank() }
func (MPITransport) Size() int { return mpi.Size() }

func (MPITransport) AllToAll(send []float64) ([]float64, error) {
	if mpi.Size() <= 1 {
		return send, nil
	}
	return nil, chk.Err("exchange: MPITransport.AllToAll: no MPI_Alltoall binding is wired for N_PROC=%d > 1", mpi.Size())
}

// Exchange performs one direction of the plane/mode exchange in place on
// data, a buffer of nZ*nP values laid out as nZ consecutive nP-sized
// planes. nP must be a multiple of t.Size().
func Exchange(data []float64, nZ, nP int, dir Direction, t Transport) error {
	if t.Size() == 1 {
		return nil
	}
	nProc := t.Size()
	if nP%nProc != 0 {
		return chk.Err("exchange: nP=%d not a multiple of N_PROC=%d", nP, nProc)
	}
	nB := nP / nProc
	if len(data) != nZ*nP {
		return chk.Err("exchange: len(data)=%d, want nZ*nP=%d", len(data), nZ*nP)
	}

	if dir == Forward {
		scattered := transposeBlocks(data, nZ, nProc, nB)
		recv, err := t.AllToAll(scattered)
		if err != nil {
			return err
		}
		copy(data, recv)
		return nil
	}

	recv, err := t.AllToAll(data)
	if err != nil {
		return err
	}
	copy(data, transposeBlocks(recv, nProc, nZ, nB))
	return nil
}

// transposeBlocks views data as a (rows x cols) grid of block-sized
// chunks and returns the (cols x rows) transpose, the intra-processor
// scatter message.cpp performs with an in-place cycle-chasing algorithm
// to avoid an extra allocation; Go's allocator makes the equivalent
// out-of-place transpose both simpler and just as correct.
func transposeBlocks(data []float64, rows, cols, block int) []float64 {
	out := make([]float64, len(data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			src := (i*cols + j) * block
			dst := (j*rows + i) * block
			copy(out[dst:dst+block], data[src:src+block])
		}
	}
	return out
}
