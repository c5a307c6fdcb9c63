// Package decode implements the QC-MDPC bit-flipping decoder that
// recovers an error vector from a syndrome: the external decoder
// collaborator the KEM orchestration layer treats as opaque.
//
// This is the Black-Gray-Flip (BGF) variant: one full black/gray
// candidate-tracking pass followed by plain threshold flipping for
// the remaining iterations. The reference implementation keeps its
// unsatisfied-parity-check (UPC) counters in a bit-sliced matrix for
// vectorization; this package keeps a plain per-bit integer counter
// instead: same bit-flipping decision, no hardware-vector trick to
// reproduce in a portable build.
package decode

import (
	"github.com/bike-kem/bike/internal/gf2x"
	"github.com/bike-kem/bike/internal/params"
)

const (
	rBits = params.RBits
	rSize = params.RSize
	dv    = params.DV

	// maxIt is MAX_IT for the BGF decoder at security Level 1.
	maxIt = 5

	// Threshold coefficients from the BIKE Round-2 specification,
	// section "Threshold Selection Rule", Level 1 parameterization.
	thresholdCoeff0 = 13.530
	thresholdCoeff1 = 0.0069722

	// delta is the gray-candidate gap below threshold: a position whose
	// UPC count falls in [threshold-delta, threshold) is gray rather
	// than black.
	delta = 3
)

// Input bundles the decoder's view of the ciphertext and secret key.
// All RingElement-shaped fields are params.RSize bytes.
type Input struct {
	C0, C1         []byte
	H0, H1         []byte
	Wlist0, Wlist1 []uint32
}

// Decode runs the BGF bit-flipping algorithm and returns a candidate
// error pair (e0, e1) plus ok=true iff the final recomputed syndrome
// is all-zero. A false ok is a decoding failure, not a program error;
// callers fold it into the constant-time implicit-rejection predicate
// rather than branching on it directly.
func Decode(in Input) (e0, e1 []byte, ok bool) {
	e0 = make([]byte, rSize)
	e1 = make([]byte, rSize)
	blackE0 := make([]byte, rSize)
	blackE1 := make([]byte, rSize)
	grayE0 := make([]byte, rSize)
	grayE1 := make([]byte, rSize)

	s := computeSyndrome(in.C0, in.C1, in.H0, in.H1)

	for iter := 0; iter < maxIt; iter++ {
		threshold := thresholdFor(s)

		findErr1(e0, blackE0, grayE0, s, in.Wlist0, threshold)
		findErr1(e1, blackE1, grayE1, s, in.Wlist1, threshold)

		s = recomputeSyndrome(in.C0, in.C1, in.H0, in.H1, e0, e1)

		if iter >= 1 {
			continue
		}

		maskedThreshold := uint8((dv+1)/2 + 1)

		findErr2(e0, blackE0, s, in.Wlist0, maskedThreshold)
		findErr2(e1, blackE1, s, in.Wlist1, maskedThreshold)
		s = recomputeSyndrome(in.C0, in.C1, in.H0, in.H1, e0, e1)

		findErr2(e0, grayE0, s, in.Wlist0, maskedThreshold)
		findErr2(e1, grayE1, s, in.Wlist1, maskedThreshold)
		s = recomputeSyndrome(in.C0, in.C1, in.H0, in.H1, e0, e1)
	}

	maskLast(e0)
	maskLast(e1)

	return e0, e1, weight(s) == 0
}

func computeSyndrome(c0, c1, h0, h1 []byte) []byte {
	var pad gf2x.Padded
	gf2x.MulMod(&pad, c0, h0)
	s0 := append([]byte(nil), pad[:rSize]...)

	gf2x.MulMod(&pad, c1, h1)
	s1 := pad[:rSize]

	s := make([]byte, rSize)
	gf2x.Add(s, s0, s1, rSize)
	return s
}

// recomputeSyndrome computes the syndrome of the adapted ciphertext
// (c0^e0, c1^e1) under (h0, h1): s = (c0+e0)*h0 + (c1+e1)*h1.
func recomputeSyndrome(c0, c1, h0, h1, e0, e1 []byte) []byte {
	adaptedC0 := make([]byte, rSize)
	adaptedC1 := make([]byte, rSize)
	gf2x.Add(adaptedC0, c0, e0, rSize)
	gf2x.Add(adaptedC1, c1, e1, rSize)
	return computeSyndrome(adaptedC0, adaptedC1, h0, h1)
}

// maskLast clears the unused high bits of a RingElement's final byte.
func maskLast(buf []byte) {
	buf[rSize-1] &= params.LastRByteMask
}

func weight(buf []byte) int {
	n := 0
	for _, b := range buf {
		for b != 0 {
			n += int(b & 1)
			b >>= 1
		}
	}
	return n
}

func testBit(buf []byte, i int) bool {
	return buf[i/8]&(1<<uint(i%8)) != 0
}

// thresholdFor evaluates the threshold selection rule on the syndrome
// weight, floored at (dv+1)/2 per the Level 1 parameterization.
func thresholdFor(s []byte) uint8 {
	w := weight(s)
	th := int(thresholdCoeff0 + thresholdCoeff1*float64(w))
	if floor := (dv + 1) / 2; th < floor {
		th = floor
	}
	return uint8(th)
}

// upcCounts computes, for every candidate bit position p in [0, rBits),
// the number of secret-key support offsets j (from wlist) for which
// syndrome bit (p+wlist[j]) mod rBits is set. This is the UPC count
// the reference computes via rotate-and-bit-slice-add; a candidate
// position with a high UPC is likely to be an error bit.
func upcCounts(s []byte, wlist []uint32) []int {
	counts := make([]int, rBits)
	for _, off := range wlist {
		shift := int(off)
		for p := 0; p < rBits; p++ {
			idx := p + shift
			if idx >= rBits {
				idx -= rBits
			}
			if testBit(s, idx) {
				counts[p]++
			}
		}
	}
	return counts
}

// findErr1 is Step I of BGF: flip every position whose UPC count meets
// threshold (recording it in black), and record near-threshold
// positions not already black in gray.
func findErr1(e, black, gray, s []byte, wlist []uint32, threshold uint8) {
	counts := upcCounts(s, wlist)
	for i := range black {
		black[i] = 0
		gray[i] = 0
	}
	th := int(threshold)
	gth := th - delta
	for p := 0; p < rBits; p++ {
		c := counts[p]
		if c >= th {
			setBit(black, p)
			toggleBit(e, p)
		} else if c >= gth {
			setBit(gray, p)
		}
	}
	maskLast(e)
}

// findErr2 is Step II/III of BGF: recompute UPC counts and flip only
// the positions selected by mask (black or gray from Step I) whose
// count meets the masked threshold.
func findErr2(e, mask, s []byte, wlist []uint32, threshold uint8) {
	counts := upcCounts(s, wlist)
	th := int(threshold)
	for p := 0; p < rBits; p++ {
		if testBit(mask, p) && counts[p] >= th {
			toggleBit(e, p)
		}
	}
	maskLast(e)
}

func setBit(buf []byte, i int) {
	buf[i/8] |= 1 << uint(i%8)
}

func toggleBit(buf []byte, i int) {
	buf[i/8] ^= 1 << uint(i%8)
}
