package decode

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bike-kem/bike/internal/gf2x"
	"github.com/bike-kem/bike/internal/params"
)

// randomSparse returns a RBits-weight-dv RingElement plus its sorted
// support, using a local PRNG (this is test-only, never the entropy
// collaborator used in production code paths).
func randomSparse(t *testing.T, rnd *rand.Rand, weight int) ([]byte, []uint32) {
	t.Helper()
	buf := make([]byte, rSize)
	seen := map[int]bool{}
	idx := make([]uint32, 0, weight)
	for len(idx) < weight {
		p := rnd.Intn(rBits)
		if seen[p] {
			continue
		}
		seen[p] = true
		idx = append(idx, uint32(p))
		setBit(buf, p)
	}
	maskLast(buf)
	return buf, idx
}

// TestComputeSyndromeCommutedProductsCancel exploits commutativity in
// R: with c0 = h1 and c1 = h0 the syndrome h1*h0 + h0*h1 must vanish
// identically.
func TestComputeSyndromeCommutedProductsCancel(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	h0, _ := randomSparse(t, rnd, dv)
	h1, _ := randomSparse(t, rnd, dv)

	s := computeSyndrome(h1, h0, h0, h1)
	require.Len(t, s, rSize)
	for i, v := range s {
		require.Zerof(t, v, "syndrome byte %d", i)
	}
}

func TestUpcCountsBoundedByWeight(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	_, wlist := randomSparse(t, rnd, dv)

	s := make([]byte, rSize)
	setBit(s, 0)

	counts := upcCounts(s, wlist)
	for _, c := range counts {
		require.LessOrEqual(t, c, dv)
	}
}

func TestDecodeZeroErrorConverges(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	h0, wlist0 := randomSparse(t, rnd, dv)
	h1, wlist1 := randomSparse(t, rnd, dv)

	// c = (0,0) with no error has syndrome zero; decode should report a
	// zero syndrome after zero iterations of flipping (trivial case).
	c0 := make([]byte, rSize)
	c1 := make([]byte, rSize)

	_, _, ok := Decode(Input{
		C0: c0, C1: c1,
		H0: h0, H1: h1,
		Wlist0: wlist0, Wlist1: wlist1,
	})
	require.True(t, ok)
}

// randomDense returns a uniform RingElement, retried to odd Hamming
// weight when odd is set.
func randomDense(t *testing.T, rnd *rand.Rand, odd bool) []byte {
	t.Helper()
	buf := make([]byte, rSize)
	for {
		rnd.Read(buf)
		maskLast(buf)
		if !odd || weight(buf)%2 == 1 {
			return buf
		}
	}
}

// randomErrorPair samples t distinct positions over the full 2r bits
// and splits them into the (e0, e1) halves, the same shape the KEM's
// H function hands the decapsulation path.
func randomErrorPair(t *testing.T, rnd *rand.Rand) (e0, e1 []byte) {
	t.Helper()
	e0 = make([]byte, rSize)
	e1 = make([]byte, rSize)
	seen := map[int]bool{}
	for n := 0; n < params.T1; {
		p := rnd.Intn(2 * rBits)
		if seen[p] {
			continue
		}
		seen[p] = true
		if p < rBits {
			setBit(e0, p)
		} else {
			setBit(e1, p-rBits)
		}
		n++
	}
	return e0, e1
}

func mulMod(a, b []byte) []byte {
	var pad gf2x.Padded
	gf2x.MulMod(&pad, a, b)
	return append([]byte(nil), pad[:rSize]...)
}

// TestDecodeRecoversInjectedErrors is a Monte Carlo convergence check:
// for a sample of keys and weight-t errors shaped exactly like the
// ones the KEM produces (sparse (h0, h1) of weight dv, cross-wired
// public key with odd-weight g, uniform m, error split over 2r bits),
// Decode must recover the injected error and report success. The BGF
// decoder's failure rate at these parameters is far below anything a
// test of this size could observe, so a single miss is a decoder bug,
// not bad luck.
func TestDecodeRecoversInjectedErrors(t *testing.T) {
	trials := 12
	if testing.Short() {
		trials = 2
	}
	rnd := rand.New(rand.NewSource(5))

	for i := 0; i < trials; i++ {
		h0, wlist0 := randomSparse(t, rnd, dv)
		h1, wlist1 := randomSparse(t, rnd, dv)

		g := randomDense(t, rnd, true)
		f0 := mulMod(g, h1)
		f1 := mulMod(g, h0)

		m := randomDense(t, rnd, false)
		mf0 := mulMod(m, f0)
		mf1 := mulMod(m, f1)

		e0, e1 := randomErrorPair(t, rnd)

		c0 := make([]byte, rSize)
		c1 := make([]byte, rSize)
		gf2x.Add(c0, mf0, e0, rSize)
		gf2x.Add(c1, mf1, e1, rSize)

		got0, got1, ok := Decode(Input{
			C0: c0, C1: c1,
			H0: h0, H1: h1,
			Wlist0: wlist0, Wlist1: wlist1,
		})
		require.Truef(t, ok, "trial %d: decoder reported failure", i)
		require.Equalf(t, e0, got0, "trial %d: e0 mismatch", i)
		require.Equalf(t, e1, got1, "trial %d: e1 mismatch", i)
	}
}

func TestMaskLastClearsHighBits(t *testing.T) {
	buf := make([]byte, rSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	maskLast(buf)
	require.Zero(t, buf[rSize-1]&^params.LastRByteMask)
}
