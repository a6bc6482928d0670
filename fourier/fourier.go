// Copyright 2026 The Spectral DNS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fourier implements the real 1-D FFT driver (C3) used to move
// field planes between physical space and Fourier space along z (or the
// azimuthal direction). It standardises on the Temperton mixed-radix
// coefficient ordering named in spec §4.3: forward output is ordered
// [Re0, Re_{N/2}, Re1, Im1, Re2, Im2, ...], scaled by 1/tlen.
package fourier

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cpmech/gosl/chk"
)

// Sign selects transform direction.
type Sign int

const (
	Forward Sign = 1
	Inverse Sign = -1
)

// plan caches the radix decomposition for one transform length.
type plan struct {
	tlen    int
	factors []int
}

var (
	planCacheMu sync.Mutex
	planCache   = map[int]*plan{}
)

// getPlan returns (building and caching if necessary) the radix-235
// decomposition of tlen, or an error if tlen has a prime factor outside
// {2,3,5}.
func getPlan(tlen int) (*plan, error) {
	planCacheMu.Lock()
	defer planCacheMu.Unlock()
	if p, ok := planCache[tlen]; ok {
		return p, nil
	}
	factors, err := factorize235(tlen)
	if err != nil {
		return nil, err
	}
	p := &plan{tlen: tlen, factors: factors}
	planCache[tlen] = p
	return p, nil
}

// factorize235 returns the prime factorisation of n restricted to {2,3,5},
// failing if n has any other prime factor.
func factorize235(n int) ([]int, error) {
	if n < 1 {
		return nil, chk.Err("fourier: transform length must be positive (got %d)", n)
	}
	m := n
	var factors []int
	for _, p := range []int{2, 3, 5} {
		for m%p == 0 {
			factors = append(factors, p)
			m /= p
		}
	}
	if m != 1 {
		return nil, chk.Err("fourier: transform length %d has prime factors other than 2, 3, 5", n)
	}
	if len(factors) == 0 {
		factors = []int{1}
	}
	return factors, nil
}

// DFTr performs ntrn simultaneous real 1-D DFTs of length tlen on data,
// which holds tlen*ntrn reals interleaved with stride ntrn (successive
// points of one transform are ntrn apart, matching the plane/mode buffer
// layout). sign selects Forward (physical -> Fourier) or Inverse.
//
// Forward requires tlen to be even (every plane count in this system is
// even, per geom's N_Z invariant) since the Nyquist coefficient is only
// defined for even tlen. ntrn must be even.
func DFTr(data []float64, tlen, ntrn int, sign Sign) error {
	if ntrn%2 != 0 {
		return chk.Err("fourier: ntrn (%d) must be even", ntrn)
	}
	if tlen < 2 {
		return chk.Err("fourier: tlen (%d) must be >= 2", tlen)
	}
	if tlen%2 != 0 {
		return chk.Err("fourier: tlen (%d) must be even (Nyquist mode undefined)", tlen)
	}
	if len(data) != tlen*ntrn {
		return chk.Err("fourier: data length %d != tlen*ntrn (%d)", len(data), tlen*ntrn)
	}
	if _, err := getPlan(tlen); err != nil {
		return err
	}

	nh := tlen / 2
	stream := make([]complex128, tlen)

	for s := 0; s < ntrn; s++ {
		if sign == Forward {
			for n := 0; n < tlen; n++ {
				stream[n] = complex(data[n*ntrn+s], 0)
			}
			Y := mixedRadixTransform(stream, -1)
			out := make([]float64, tlen)
			out[0] = real(Y[0]) / float64(tlen)
			out[1] = real(Y[nh]) / float64(tlen)
			for j := 1; j < nh; j++ {
				out[2*j] = real(Y[j]) / float64(tlen)
				out[2*j+1] = imag(Y[j]) / float64(tlen)
			}
			for n := 0; n < tlen; n++ {
				data[n*ntrn+s] = out[n]
			}
		} else {
			in := make([]float64, tlen)
			for n := 0; n < tlen; n++ {
				in[n] = data[n*ntrn+s]
			}
			Y := make([]complex128, tlen)
			Y[0] = complex(in[0], 0)
			Y[nh] = complex(in[1], 0)
			for j := 1; j < nh; j++ {
				Y[j] = complex(in[2*j], in[2*j+1])
				Y[tlen-j] = cmplx.Conj(Y[j])
			}
			x := mixedRadixTransform(Y, 1)
			for n := 0; n < tlen; n++ {
				data[n*ntrn+s] = real(x[n])
			}
		}
	}
	return nil
}

// mixedRadixTransform evaluates X[k] = sum_n x[n] * exp(signDir*i*2*pi*k*n/N)
// for N = len(x), using a recursive radix-{2,3,5} decimation-in-time
// decomposition. signDir is -1 for the forward transform and +1 for the
// (unnormalised) inverse.
func mixedRadixTransform(x []complex128, signDir float64) []complex128 {
	n := len(x)
	if n == 1 {
		return []complex128{x[0]}
	}
	p := 0
	for _, f := range []int{2, 3, 5} {
		if n%f == 0 {
			p = f
			break
		}
	}
	if p == 0 {
		// unreachable once DFTr has validated tlen via factorize235
		p = n
	}
	m := n / p
	subs := make([][]complex128, p)
	for j := 0; j < p; j++ {
		sub := make([]complex128, m)
		for k := 0; k < m; k++ {
			sub[k] = x[p*k+j]
		}
		subs[j] = mixedRadixTransform(sub, signDir)
	}
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		km := k % m
		var sum complex128
		for j := 0; j < p; j++ {
			angle := signDir * 2 * math.Pi * float64(j*k) / float64(n)
			sum += cmplx.Rect(1, angle) * subs[j][km]
		}
		out[k] = sum
	}
	return out
}
