// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package exchange

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// fakeTransport emulates a multi-rank AllToAll with an identity
// permutation, enough to exercise Exchange's two-stage dispatch without a
// real MPI runtime.
type fakeTransport struct{ size int }

func (f fakeTransport) Rank() int                            { return 0 }
func (f fakeTransport) Size() int                            { return f.size }
func (f fakeTransport) AllToAll(send []float64) ([]float64, error) {
	out := make([]float64, len(send))
	copy(out, send)
	return out, nil
}

func Test_exchange01(tst *testing.T) {

	chk.PrintTitle("exchange01. transposeBlocks forward then backward is the identity")

	rows, cols, block := 3, 2, 4
	data := make([]float64, rows*cols*block)
	for i := range data {
		data[i] = float64(i)
	}
	fwd := transposeBlocks(data, rows, cols, block)
	back := transposeBlocks(fwd, cols, rows, block)
	for i := range data {
		if back[i] != data[i] {
			tst.Fatalf("back[%d] = %v, want %v", i, back[i], data[i])
		}
	}
}

func Test_exchange02(tst *testing.T) {

	chk.PrintTitle("exchange02. Exchange is a no-op when the transport reports Size()==1")

	data := []float64{1, 2, 3, 4}
	orig := append([]float64{}, data...)
	if err := Exchange(data, 2, 2, Forward, SerialTransport{}); err != nil {
		tst.Fatalf("Exchange: %v", err)
	}
	for i := range data {
		if data[i] != orig[i] {
			tst.Errorf("data[%d] = %v, want unchanged %v", i, data[i], orig[i])
		}
	}
}

func Test_exchange03(tst *testing.T) {

	chk.PrintTitle("exchange03. Exchange rejects nP not divisible by N_PROC")

	data := make([]float64, 6)
	err := Exchange(data, 2, 3, Forward, fakeTransport{size: 2})
	if err == nil {
		tst.Errorf("Exchange: expected error for nP=3 not divisible by N_PROC=2")
	}
}

func Test_exchange04(tst *testing.T) {

	chk.PrintTitle("exchange04. Forward then Backward round-trips data through a fake multi-rank transport")

	nZ, nP, nProc := 2, 4, 2
	data := make([]float64, nZ*nP)
	for i := range data {
		data[i] = float64(i)
	}
	orig := append([]float64{}, data...)
	trans := fakeTransport{size: nProc}

	if err := Exchange(data, nZ, nP, Forward, trans); err != nil {
		tst.Fatalf("Exchange Forward: %v", err)
	}
	if err := Exchange(data, nZ, nP, Backward, trans); err != nil {
		tst.Fatalf("Exchange Backward: %v", err)
	}
	for i := range data {
		if data[i] != orig[i] {
			tst.Errorf("data[%d] = %v, want %v after round trip", i, data[i], orig[i])
		}
	}
}
