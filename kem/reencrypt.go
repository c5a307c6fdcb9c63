package kem

// reencrypt recomputes, from a decoded candidate error pair e' and
// the ciphertext ct, mf' = c XOR e' and e'' = H(mf'), returning both
// for decapsulation's verification step.
func reencrypt(ct *Ciphertext, ePrime *ErrorPair) (mfPrime ErrorPair, eDoublePrime ErrorPair, err error) {
	mfPrime.E0.Xor(&ct.C0, &ePrime.E0)
	mfPrime.E1.Xor(&ct.C1, &ePrime.E1)

	eDoublePrime, err = functionH(&mfPrime.E0, &mfPrime.E1)
	if err != nil {
		return ErrorPair{}, ErrorPair{}, err
	}
	return mfPrime, eDoublePrime, nil
}
