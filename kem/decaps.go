package kem

import "github.com/bike-kem/bike/internal/decode"

// Decapsulate recovers the shared secret carried by ct. It always
// returns one: a genuine decoding failure, a weight mismatch, or a
// reencryption mismatch are never surfaced to the caller as an
// error, only as a silent switch to the sigma-derived
// implicit-rejection key. Both candidate shared secrets are computed
// unconditionally and selected between with a constant-time byte
// mask, so the selection never branches on secret data and decoding
// failure is never observable by return code or control flow.
func Decapsulate(sk *SecretKey, ct *Ciphertext) (SharedSecret, error) {
	e0Raw, e1Raw, decOK := decode.Decode(decode.Input{
		C0:     ct.C0[:],
		C1:     ct.C1[:],
		H0:     sk.H0[:],
		H1:     sk.H1[:],
		Wlist0: sk.Wlist0,
		Wlist1: sk.Wlist1,
	})

	var ePrime ErrorPair
	copy(ePrime.E0[:], e0Raw)
	copy(ePrime.E1[:], e1Raw)
	zeroize(e0Raw)
	zeroize(e1Raw)
	defer zeroizeRing(&ePrime.E0)
	defer zeroizeRing(&ePrime.E1)

	mfPrime, eDoublePrime, err := reencrypt(ct, &ePrime)
	if err != nil {
		return SharedSecret{}, err
	}
	defer zeroizeRing(&mfPrime.E0)
	defer zeroizeRing(&mfPrime.E1)
	defer zeroizeRing(&eDoublePrime.E0)
	defer zeroizeRing(&eDoublePrime.E1)

	predicate := decapsPredicate(decOK, &ePrime, &eDoublePrime)

	ssSucc := getSS(&mfPrime.E0, &mfPrime.E1, &ct.C0, &ct.C1)
	ssFail := getSS(&sk.Sigma0, &sk.Sigma1, &ct.C0, &ct.C1)
	defer zeroize(ssSucc[:])
	defer zeroize(ssFail[:])

	var ss SharedSecret
	selectBytes(ss[:], ssSucc[:], ssFail[:], predicate)
	return ss, nil
}

// decapsPredicate forms the constant-time AND of the three success
// conditions: the decoder reported success, the decoded error has
// the expected total weight t, and the decoded error matches the
// reencryption's recomputed error byte-for-byte.
// Each sub-condition is reduced to an 0xFF/0x00 mask before being
// combined, so the combination is a bitwise AND rather than a
// short-circuiting boolean expression.
func decapsPredicate(decOK bool, ePrime, eDoublePrime *ErrorPair) byte {
	decMask := selectMask(decOK)

	weight := ePrime.E0.Weight() + ePrime.E1.Weight()
	weightMask := selectMask(secureCmp32(uint32(weight), uint32(totalWeight)))

	eqMask := selectMask(secureCmp(ePrime.E0[:], eDoublePrime.E0[:])) &
		selectMask(secureCmp(ePrime.E1[:], eDoublePrime.E1[:]))

	return decMask & weightMask & eqMask
}
