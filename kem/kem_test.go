package kem

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bike-kem/bike/internal/entropy"
	"github.com/bike-kem/bike/internal/params"
)

// TestRoundTrip exercises the KEM round-trip property: for a
// generated (pk, sk), decapsulating an honestly produced ciphertext
// must reproduce the shared secret encapsulation returned.
//
// This is a probabilistic test: the underlying BGF decoder has a
// nonzero (cryptographically small) decoding-failure rate, so a rare
// run may exercise the implicit-rejection path instead. Several
// independent trials make a spurious failure here vanishingly
// unlikely without flaking on real decoder bugs.
func TestRoundTrip(t *testing.T) {
	const trials = 3
	ok := false
	for i := 0; i < trials; i++ {
		pk, sk, err := KeyGen()
		require.NoError(t, err)

		ct, ssEnc, err := Encapsulate(&pk)
		require.NoError(t, err)

		ssDec, err := Decapsulate(&sk, &ct)
		require.NoError(t, err)

		if ssEnc == ssDec {
			ok = true
			break
		}
	}
	require.True(t, ok, "round trip failed to reproduce the shared secret across %d trials", trials)
}

// TestWeightInvariantsKeyGen checks the weight invariants on the
// parts KeyGen produces directly.
func TestWeightInvariantsKeyGen(t *testing.T) {
	_, sk, err := KeyGen()
	require.NoError(t, err)
	require.Equal(t, params.DV, sk.H0.Weight())
	require.Equal(t, params.DV, sk.H1.Weight())
	require.Len(t, sk.Wlist0, params.DV)
	require.Len(t, sk.Wlist1, params.DV)
}

// TestBitMaskInvariant checks, on every RingElement a
// keypair/encapsulate round produces, that no bit at position >= r
// is ever set.
func TestBitMaskInvariant(t *testing.T) {
	pk, sk, err := KeyGen()
	require.NoError(t, err)

	assertMasked(t, pk.F0)
	assertMasked(t, pk.F1)
	assertMasked(t, sk.H0)
	assertMasked(t, sk.H1)
	assertMasked(t, sk.Sigma0)
	assertMasked(t, sk.Sigma1)

	ct, _, err := Encapsulate(&pk)
	require.NoError(t, err)
	assertMasked(t, ct.C0)
	assertMasked(t, ct.C1)
}

func assertMasked(t *testing.T, e RingElement) {
	t.Helper()
	require.Zero(t, e[rSize-1]&^params.LastRByteMask)
}

// TestImplicitRejection checks the implicit-rejection property:
// tampering a ciphertext bit so that decoding/verification
// fails must yield ss = getSS(sigma0, sigma1, c_tampered), not an
// error and not the honest shared secret.
func TestImplicitRejection(t *testing.T) {
	pk, sk, err := KeyGen()
	require.NoError(t, err)

	ct, ssEnc, err := Encapsulate(&pk)
	require.NoError(t, err)

	tampered := ct
	tampered.C0[0] ^= 0x01

	ss, err := Decapsulate(&sk, &tampered)
	require.NoError(t, err)

	want := getSS(&sk.Sigma0, &sk.Sigma1, &tampered.C0, &tampered.C1)
	require.Equal(t, want, ss)
	require.NotEqual(t, ssEnc, ss)
}

// TestDecapsPredicateWeightMismatch checks that an ErrorPair whose
// combined weight is not t fails the predicate
// even when the decoder itself reports success and e' equals e''.
func TestDecapsPredicateWeightMismatch(t *testing.T) {
	var e RingElement
	e.SetBit(0)
	ePrime := ErrorPair{E0: e, E1: e}
	eDoublePrime := ePrime

	mask := decapsPredicate(true, &ePrime, &eDoublePrime)
	require.Zero(t, mask)
}

// TestDecapsPredicateSucceedsOnMatch checks the predicate accepts
// when all three conditions hold.
func TestDecapsPredicateSucceedsOnMatch(t *testing.T) {
	var e0, e1 RingElement
	idx := make([]int, 0, params.T1)
	for i := 0; i < params.T1; i++ {
		idx = append(idx, i)
	}
	for i, p := range idx {
		if i%2 == 0 {
			e0.SetBit(p)
		} else {
			e1.SetBit(p)
		}
	}
	ePrime := ErrorPair{E0: e0, E1: e1}
	eDoublePrime := ePrime

	mask := decapsPredicate(true, &ePrime, &eDoublePrime)
	require.Equal(t, byte(0xFF), mask)
}

// TestSplitRoundTrip checks the split operator bit-for-bit against
// a direct reading of the packed 2r-bit buffer.
func TestSplitRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	buf := make([]byte, nSize)
	rnd.Read(buf)
	// Clear bits above N so the buffer matches a real N-bit vector.
	buf[nSize-1] &= lastNByteMask()

	e0, e1 := Split(buf)

	for i := 0; i < rBits; i++ {
		want := testBitBuf(buf, i)
		require.Equal(t, want, e0.TestBit(i), "e0 bit %d", i)
	}
	for i := 0; i < rBits; i++ {
		want := testBitBuf(buf, rBits+i)
		require.Equal(t, want, e1.TestBit(i), "e1 bit %d", i)
	}
}

func testBitBuf(buf []byte, i int) bool {
	return buf[i/8]&(1<<uint(i%8)) != 0
}

func lastNByteMask() byte {
	bits := params.NBits % 8
	if bits == 0 {
		return 0xFF
	}
	return byte(1<<uint(bits) - 1)
}

// TestDeterministicKeyGenAndEncaps checks the KAT-determinism
// property: with a fixed entropy stream, keypair generation and
// encapsulation produce bit-identical outputs across runs. The
// expected byte values themselves are locked by the reference KAT
// vectors; what this test pins down is that nothing in the pipeline
// (sampling, H, the XOR assembly) consumes entropy outside the
// deterministic reader.
func TestDeterministicKeyGenAndEncaps(t *testing.T) {
	seed := make([]byte, 32)
	seed[0] = 0x5E

	keyGen := func() (PublicKey, SecretKey) {
		r, err := entropy.NewDeterministicReader(seed)
		require.NoError(t, err)
		pk, sk, err := KeyGenFromReader(r)
		require.NoError(t, err)
		return pk, sk
	}

	pk1, sk1 := keyGen()
	pk2, sk2 := keyGen()
	require.Equal(t, pk1.Marshal(), pk2.Marshal())
	require.Equal(t, sk1.Marshal(), sk2.Marshal())

	encap := func() (Ciphertext, SharedSecret) {
		r, err := entropy.NewDeterministicReader(seed)
		require.NoError(t, err)
		ct, ss, err := EncapsulateFromReader(&pk1, r)
		require.NoError(t, err)
		return ct, ss
	}

	ct1, ss1 := encap()
	ct2, ss2 := encap()
	require.Equal(t, ct1.Marshal(), ct2.Marshal())
	require.Equal(t, ss1, ss2)
}

// TestWeightInvariantFunctionH checks the weight invariant on H's
// output: the split error pair always carries combined weight
// exactly t.
func TestWeightInvariantFunctionH(t *testing.T) {
	var in0, in1 RingElement
	in0.SetBit(1)
	in1.SetBit(100)

	e, err := functionH(&in0, &in1)
	require.NoError(t, err)
	require.Equal(t, params.T1, e.E0.Weight()+e.E1.Weight())
	assertMasked(t, e.E0)
	assertMasked(t, e.E1)
}

// TestParallelEncapsulateDistinctSecrets checks that independent
// encapsulate calls against the same pk produce distinct shared
// secrets with overwhelming probability.
func TestParallelEncapsulateDistinctSecrets(t *testing.T) {
	pk, _, err := KeyGen()
	require.NoError(t, err)

	const n = 8
	type result struct {
		ss  SharedSecret
		err error
	}
	results := make(chan result, n)
	for i := 0; i < n; i++ {
		go func() {
			_, ss, err := Encapsulate(&pk)
			results <- result{ss, err}
		}()
	}

	seen := make(map[SharedSecret]bool, n)
	for i := 0; i < n; i++ {
		r := <-results
		require.NoError(t, r.err)
		require.False(t, seen[r.ss], "duplicate shared secret across parallel encapsulations")
		seen[r.ss] = true
	}
}
