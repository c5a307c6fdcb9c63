package kem

import (
	"io"

	"github.com/bike-kem/bike/internal/entropy"
	"github.com/bike-kem/bike/internal/params"
)

// Encapsulate derives a fresh shared secret against pk and the
// ciphertext carrying it, drawing its three seeds from crypto/rand.
func Encapsulate(pk *PublicKey) (Ciphertext, SharedSecret, error) {
	return EncapsulateFromReader(pk, nil)
}

// EncapsulateFromReader is Encapsulate with the entropy source made
// explicit: it draws three fresh seeds from r, samples m from seed[1]
// (seed[0] is intentionally unused, matching the reference), computes
// mf = m*pk in R, derives (e0,e1) from functionH, XORs them onto mf
// to form ct, and derives ss from the pre-XOR (mf0,mf1) and ct via
// getSS.
func EncapsulateFromReader(pk *PublicKey, r io.Reader) (Ciphertext, SharedSecret, error) {
	seeds, err := entropy.GetSeeds(r)
	if err != nil {
		return Ciphertext{}, SharedSecret{}, err
	}
	defer zeroizeSeeds(&seeds)

	return EncapsulateWithSeed(pk, seeds[1])
}

// EncapsulateWithSeed does the work of Encapsulate given seed[1]
// directly, for callers (the deterministic-derivation facade, KAT
// tests) that already hold the exact per-field seed rather than a
// stream to draw three fresh ones from.
func EncapsulateWithSeed(pk *PublicKey, mSeed [params.SeedLen]byte) (Ciphertext, SharedSecret, error) {
	var m RingElement
	defer zeroizeRing(&m)
	if err := SampleUniformRBits(&m, mSeed, NoRestriction); err != nil {
		return Ciphertext{}, SharedSecret{}, err
	}

	var mf0, mf1 RingElement
	defer zeroizeRing(&mf0)
	defer zeroizeRing(&mf1)
	mf0.MulMod(&m, &pk.F0)
	mf1.MulMod(&m, &pk.F1)

	ePair, err := functionH(&mf0, &mf1)
	if err != nil {
		return Ciphertext{}, SharedSecret{}, err
	}
	defer zeroizeRing(&ePair.E0)
	defer zeroizeRing(&ePair.E1)

	var ct Ciphertext
	ct.C0.Xor(&mf0, &ePair.E0)
	ct.C1.Xor(&mf1, &ePair.E1)

	ss := getSS(&mf0, &mf1, &ct.C0, &ct.C1)
	return ct, ss, nil
}
