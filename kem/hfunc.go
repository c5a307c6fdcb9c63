package kem

import (
	"github.com/bike-kem/bike/internal/params"
	"github.com/bike-kem/bike/internal/primitive"
)

const ssLen = params.SSLen

// SharedSecret is a fixed-length KEM output.
type SharedSecret [ssLen]byte

// ErrorPair is the split representation of an N-bit error vector of
// combined weight t.
type ErrorPair struct {
	E0, E1 RingElement
}

// functionH is the extract-then-expand error generator H:
// SHA-384(in0 || in1) is truncated to a 32-byte seed, which keys an
// AES-256-CTR PRF driving sparse-representation sampling of an N-bit
// error vector of weight t, split into (e0, e1).
func functionH(in0, in1 *RingElement) (ErrorPair, error) {
	concat := make([]byte, 2*rSize)
	copy(concat[:rSize], in0[:])
	copy(concat[rSize:], in1[:])

	digest := primitive.SHA384(concat)
	zeroize(concat)

	var seed [params.SeedLen]byte
	copy(seed[:], digest[:params.SeedLen])
	zeroizeDigest(&digest)

	prf, err := primitive.NewAESCTRPRF(seed)
	zeroize(seed[:])
	if err != nil {
		return ErrorPair{}, err
	}
	defer prf.Zeroize()

	nBuf := make([]byte, params.NSize)
	defer zeroize(nBuf)
	if _, err := GenerateSparseRep(nBuf, params.T1, params.NBits, prf); err != nil {
		return ErrorPair{}, err
	}

	e0, e1 := Split(nBuf)
	return ErrorPair{E0: e0, E1: e1}, nil
}

// getSS is the KDF: K = truncate(SHA-384(a0 || a1 || c0 || c1),
// ss_len).
func getSS(a0, a1 *RingElement, c0, c1 *RingElement) SharedSecret {
	tmp := make([]byte, 4*rSize)
	copy(tmp[0*rSize:1*rSize], a0[:])
	copy(tmp[1*rSize:2*rSize], a1[:])
	copy(tmp[2*rSize:3*rSize], c0[:])
	copy(tmp[3*rSize:4*rSize], c1[:])
	defer zeroize(tmp)

	digest := primitive.SHA384(tmp)
	defer zeroizeDigest(&digest)

	var ss SharedSecret
	copy(ss[:], digest[:ssLen])
	return ss
}
