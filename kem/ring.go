// Package kem implements the BIKE-1 Round-2 KEM orchestration layer:
// keypair generation, encapsulation, and constant-time decapsulation
// over the quotient ring R = GF(2)[x]/(x^r - 1). The ring arithmetic,
// decoder, hash/PRF primitives, and entropy source are treated as
// external collaborators (internal/gf2x, internal/decode,
// internal/primitive, internal/entropy); this package wires them into
// the protocol described by the BIKE Round-2 specification.
package kem

import (
	"github.com/bike-kem/bike/internal/gf2x"
	"github.com/bike-kem/bike/internal/params"
)

const (
	rBits       = params.RBits
	rSize       = params.RSize
	nSize       = params.NSize
	totalWeight = params.T1
)

// RingElement is a polynomial in R, packed as RSize little-endian
// bytes with the unused high bits of the last byte masked to zero.
type RingElement [rSize]byte

// Mask clears the unused high bits of the final byte, restoring the
// RingElement invariant after any operation that might have set them.
func (e *RingElement) Mask() {
	e[rSize-1] &= params.LastRByteMask
}

// Weight returns the Hamming weight of e.
func (e *RingElement) Weight() int {
	n := 0
	for _, b := range e {
		for b != 0 {
			n += int(b & 1)
			b >>= 1
		}
	}
	return n
}

// Xor computes e = a XOR b (polynomial addition in GF(2)[x]).
func (e *RingElement) Xor(a, b *RingElement) {
	gf2x.Add(e[:], a[:], b[:], rSize)
}

// MulMod computes e = a*b mod (x^r - 1), delegating to the gf2x
// collaborator which requires double-width scratch space. The scratch
// holds the product (secret whenever an operand is), so it is scrubbed
// before release.
func (e *RingElement) MulMod(a, b *RingElement) {
	var pad gf2x.Padded
	defer zeroize(pad[:])
	gf2x.MulMod(&pad, a[:], b[:])
	copy(e[:], pad[:rSize])
}

// SetBit sets bit i of e (i in [0, rBits)).
func (e *RingElement) SetBit(i int) {
	e[i/8] |= 1 << uint(i%8)
}

// TestBit reports whether bit i of e is set.
func (e *RingElement) TestBit(i int) bool {
	return e[i/8]&(1<<uint(i%8)) != 0
}

// Split takes a 2r-bit packed buffer buf (NSize bytes) and produces
// (e0, e1) such that e0 is the low r bits and e1 is the high r bits
// realigned to occupy positions 0..r-1. buf's r-th bit boundary need
// not be byte-aligned.
func Split(buf []byte) (e0, e1 RingElement) {
	copy(e0[:], buf[:rSize])

	for i := rSize; i < nSize; i++ {
		e1[i-rSize] = (buf[i] << params.LastRByteTrail) | (buf[i-1] >> params.LastRByteLead)
	}

	// Corner case: when nSize < 2*rSize, the loop above does not reach
	// the final byte of e1; fill it from the last byte of buf alone.
	if nSize < 2*rSize {
		e1[rSize-1] = buf[nSize-1] >> params.LastRByteLead
	}

	e0.Mask()
	e1.Mask()
	return e0, e1
}
