package kem

import (
	"encoding/binary"

	"github.com/bike-kem/bike/internal/params"
)

// PublicKeySize is the packed byte length of a PublicKey.
const PublicKeySize = 2 * rSize

// CiphertextSize is the packed byte length of a Ciphertext.
const CiphertextSize = 2 * rSize

// SecretKeySize is the packed byte length of a SecretKey.
const SecretKeySize = 2*rSize + 2*params.DV*4 + 2*rSize

// SharedSecretSize is the packed byte length of a SharedSecret.
const SharedSecretSize = ssLen

// PublicKey is (f0, f1) with f0 = g*h1, f1 = g*h0 for some odd-weight
// g never retained past keypair generation.
type PublicKey struct {
	F0, F1 RingElement
}

// Ciphertext is (c0, c1).
type Ciphertext struct {
	C0, C1 RingElement
}

// SecretKey is (h0, h1) of Hamming weight dv each, their sparse
// support lists, and the implicit-rejection pads (sigma0, sigma1).
type SecretKey struct {
	H0, H1         RingElement
	Wlist0, Wlist1 []uint32
	Sigma0, Sigma1 RingElement
}

// KeyType names pk's PEM block type for core/crypto/pem.
func (pk *PublicKey) KeyType() string { return "BIKE PUBLIC KEY" }

// Marshal packs pk as f0.raw || f1.raw.
func (pk *PublicKey) Marshal() []byte {
	out := make([]byte, PublicKeySize)
	copy(out[:rSize], pk.F0[:])
	copy(out[rSize:], pk.F1[:])
	return out
}

// Unmarshal unpacks pk from a PublicKeySize-byte buffer.
func (pk *PublicKey) Unmarshal(buf []byte) {
	copy(pk.F0[:], buf[:rSize])
	copy(pk.F1[:], buf[rSize:2*rSize])
}

// KeyType names ct's PEM block type for core/crypto/pem.
func (ct *Ciphertext) KeyType() string { return "BIKE CIPHERTEXT" }

// Marshal packs ct as c0.raw || c1.raw.
func (ct *Ciphertext) Marshal() []byte {
	out := make([]byte, CiphertextSize)
	copy(out[:rSize], ct.C0[:])
	copy(out[rSize:], ct.C1[:])
	return out
}

// Unmarshal unpacks ct from a CiphertextSize-byte buffer.
func (ct *Ciphertext) Unmarshal(buf []byte) {
	copy(ct.C0[:], buf[:rSize])
	copy(ct.C1[:], buf[rSize:2*rSize])
}

// KeyType names sk's PEM block type for core/crypto/pem.
func (sk *SecretKey) KeyType() string { return "BIKE PRIVATE KEY" }

// Marshal packs sk as bin[0] || bin[1] || wlist[0] || wlist[1] ||
// sigma0 || sigma1, with each wlist a sequence of dv little-endian
// 32-bit indices in sorted order.
func (sk *SecretKey) Marshal() []byte {
	out := make([]byte, SecretKeySize)
	off := 0
	copy(out[off:off+rSize], sk.H0[:])
	off += rSize
	copy(out[off:off+rSize], sk.H1[:])
	off += rSize
	off = marshalWlist(out, off, sk.Wlist0)
	off = marshalWlist(out, off, sk.Wlist1)
	copy(out[off:off+rSize], sk.Sigma0[:])
	off += rSize
	copy(out[off:off+rSize], sk.Sigma1[:])
	return out
}

// Unmarshal unpacks sk from a SecretKeySize-byte buffer.
func (sk *SecretKey) Unmarshal(buf []byte) {
	off := 0
	copy(sk.H0[:], buf[off:off+rSize])
	off += rSize
	copy(sk.H1[:], buf[off:off+rSize])
	off += rSize
	sk.Wlist0, off = unmarshalWlist(buf, off, params.DV)
	sk.Wlist1, off = unmarshalWlist(buf, off, params.DV)
	copy(sk.Sigma0[:], buf[off:off+rSize])
	off += rSize
	copy(sk.Sigma1[:], buf[off:off+rSize])
}

func marshalWlist(out []byte, off int, wlist []uint32) int {
	for _, idx := range wlist {
		binary.LittleEndian.PutUint32(out[off:off+4], idx)
		off += 4
	}
	return off
}

func unmarshalWlist(buf []byte, off, dv int) ([]uint32, int) {
	wlist := make([]uint32, dv)
	for i := 0; i < dv; i++ {
		wlist[i] = binary.LittleEndian.Uint32(buf[off : off+4])
		off += 4
	}
	return wlist, off
}
