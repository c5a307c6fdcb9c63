package kem

import (
	"encoding/binary"
	"sort"

	"github.com/bike-kem/bike/internal/params"
	"github.com/bike-kem/bike/internal/primitive"
)

// Restriction constrains the Hamming weight parity a sampled
// RingElement must satisfy.
type Restriction int

const (
	// NoRestriction accepts the first uniform candidate drawn.
	NoRestriction Restriction = iota
	// MustBeOdd retries until the candidate has odd Hamming weight.
	MustBeOdd
)

// sampleUniformRBits fills out with uniform r bits drawn from prf,
// re-masking the high bits of the final byte on every draw, retrying
// whole-element draws from the same PRF stream until the restriction
// is satisfied.
func sampleUniformRBits(out *RingElement, prf *primitive.PRF, restriction Restriction) error {
	for {
		if err := prf.Read(out[:]); err != nil {
			return err
		}
		out.Mask()
		if restriction == NoRestriction || out.Weight()%2 == 1 {
			return nil
		}
	}
}

// SampleUniformRBits fills out with uniform r bits, owning its own
// ephemeral PRF context keyed by seed.
func SampleUniformRBits(out *RingElement, seed [params.SeedLen]byte, restriction Restriction) error {
	prf, err := primitive.NewAESCTRPRF(seed)
	if err != nil {
		return err
	}
	defer prf.Zeroize()
	return sampleUniformRBits(out, prf, restriction)
}

// SampleUniformRBitsWithContext fills out with uniform r bits drawn
// from an externally owned PRF context, so multiple elements can
// share one CTR stream and remain independent samples.
func SampleUniformRBitsWithContext(out *RingElement, prf *primitive.PRF, restriction Restriction) error {
	return sampleUniformRBits(out, prf, restriction)
}

// GenerateSparseRep rejection-samples w distinct indices in
// [0, bits) from prf, setting the corresponding bits in buf (sized
// for at least ceil(bits/8) bytes; zeroed here first) and returning
// the sorted index list. bits is r when sampling a single
// RingElement's support, 2r for the N-bit error vector.
//
// Rejection against already-accepted indices uses a linear scan
// rather than the reference implementation's swap-based technique;
// both are O(w) per candidate and data-independent in control flow,
// since every candidate is compared against every accepted index
// regardless of outcome.
func GenerateSparseRep(buf []byte, w, bits int, prf *primitive.PRF) ([]uint32, error) {
	for i := range buf {
		buf[i] = 0
	}

	idx := make([]uint32, 0, w)
	for len(idx) < w {
		cand, err := sampleIndex(prf, bits)
		if err != nil {
			for i := range idx {
				idx[i] = 0
			}
			return nil, err
		}
		if containsIndex(idx, cand) {
			continue
		}
		idx = append(idx, cand)
	}

	sort.Slice(idx, func(i, j int) bool { return idx[i] < idx[j] })
	for _, p := range idx {
		buf[p/8] |= 1 << uint(p%8)
	}
	return idx, nil
}

// containsIndex reports whether cand is already present in idx. Every
// entry is compared regardless of an earlier match, so the scan's
// running time depends only on len(idx), not on which entries match.
func containsIndex(idx []uint32, cand uint32) bool {
	found := false
	for _, v := range idx {
		if v == cand {
			found = true
		}
	}
	return found
}

// sampleIndex draws a uniform index in [0, bits) via rejection
// sampling on 32-bit PRF outputs, discarding values that would bias
// the result towards the low end of the range.
func sampleIndex(prf *primitive.PRF, bits int) (uint32, error) {
	limit := uint32(bits)
	// largest multiple of limit that fits in 32 bits
	boundary := (uint32(0xFFFFFFFF) / limit) * limit
	var buf [4]byte
	defer zeroize(buf[:])
	for {
		if err := prf.Read(buf[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint32(buf[:])
		if v < boundary {
			return v % limit, nil
		}
	}
}
