package kem

import (
	"io"

	"github.com/bike-kem/bike/internal/entropy"
	"github.com/bike-kem/bike/internal/params"
	"github.com/bike-kem/bike/internal/primitive"
)

// calcPK derives the public key: sample g of odd weight from gSeed,
// then cross-wire f0 = g*h1, f1 = g*h0. The cross-wiring is the BIKE
// construction, not a transposition bug; it is what makes
// c0*h0 + c1*h1 a valid syndrome.
func calcPK(h0, h1 *RingElement, gSeed [params.SeedLen]byte) (PublicKey, error) {
	var g RingElement
	defer zeroizeRing(&g)
	if err := SampleUniformRBits(&g, gSeed, MustBeOdd); err != nil {
		return PublicKey{}, err
	}

	var pk PublicKey
	pk.F0.MulMod(&g, h1)
	pk.F1.MulMod(&g, h0)
	return pk, nil
}

// KeyGen generates a BIKE keypair, drawing its three seeds from
// crypto/rand.
func KeyGen() (PublicKey, SecretKey, error) {
	return KeyGenFromReader(nil)
}

// KeyGenFromReader is KeyGen with the entropy source made explicit, so
// KAT tests and the deterministic-derivation facade
// (bike.Scheme.DeriveKeyPair) can drive keypair generation from a
// reproducible stream instead of crypto/rand. It draws three fresh
// seeds from r, samples (h0, h1) of weight dv each from seed[0],
// samples (sigma0, sigma1) from seed[2], and derives pk from seed[1]
// via calcPK.
func KeyGenFromReader(r io.Reader) (PublicKey, SecretKey, error) {
	seeds, err := entropy.GetSeeds(r)
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	defer zeroizeSeeds(&seeds)

	hPRF, err := primitive.NewAESCTRPRF(seeds[0])
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	defer hPRF.Zeroize()

	sPRF, err := primitive.NewAESCTRPRF(seeds[2])
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	defer sPRF.Zeroize()

	var sk SecretKey
	done := false
	defer func() {
		if done {
			return
		}
		zeroizeRing(&sk.H0)
		zeroizeRing(&sk.H1)
		zeroizeRing(&sk.Sigma0)
		zeroizeRing(&sk.Sigma1)
		for _, wl := range [][]uint32{sk.Wlist0, sk.Wlist1} {
			for i := range wl {
				wl[i] = 0
			}
		}
	}()

	h0Buf := make([]byte, rSize)
	defer zeroize(h0Buf)
	wlist0, err := GenerateSparseRep(h0Buf, params.DV, params.RBits, hPRF)
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	copy(sk.H0[:], h0Buf)
	sk.Wlist0 = wlist0

	h1Buf := make([]byte, rSize)
	defer zeroize(h1Buf)
	wlist1, err := GenerateSparseRep(h1Buf, params.DV, params.RBits, hPRF)
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	copy(sk.H1[:], h1Buf)
	sk.Wlist1 = wlist1

	if err := SampleUniformRBitsWithContext(&sk.Sigma0, sPRF, NoRestriction); err != nil {
		return PublicKey{}, SecretKey{}, err
	}
	if err := SampleUniformRBitsWithContext(&sk.Sigma1, sPRF, NoRestriction); err != nil {
		return PublicKey{}, SecretKey{}, err
	}

	pk, err := calcPK(&sk.H0, &sk.H1, seeds[1])
	if err != nil {
		return PublicKey{}, SecretKey{}, err
	}

	done = true
	return pk, sk, nil
}

func zeroizeSeeds(s *entropy.Seeds) {
	for i := range s {
		zeroize(s[i][:])
	}
}
