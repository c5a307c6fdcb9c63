// Package bike adapts the BIKE-1 Round-2 KEM orchestration layer in
// package kem to the shape of github.com/cloudflare/circl/kem's
// Scheme/PublicKey/PrivateKey trio, the Go ecosystem's de facto
// common KEM interface, for callers that expect a
// marshal/equal/size-accessor surface rather than the raw NIST
// C-style keypair/encaps/decaps triple.
package bike

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"

	circlkem "github.com/cloudflare/circl/kem"

	"github.com/bike-kem/bike/internal/params"
	"github.com/bike-kem/bike/kem"
)

// Name identifies this scheme instance, analogous to the string
// circl's kem/schemes registry keys each Scheme by.
const Name = "BIKE-1-L1"

// PublicKey adapts kem.PublicKey to circlkem.PublicKey.
type PublicKey struct {
	pub    kem.PublicKey
	scheme *Scheme
}

// Scheme returns the scheme this public key belongs to.
func (p *PublicKey) Scheme() circlkem.Scheme { return p.scheme }

// MarshalBinary packs the public key as f0.raw || f1.raw.
func (p *PublicKey) MarshalBinary() ([]byte, error) {
	return p.pub.Marshal(), nil
}

// Equal reports whether pubkey is the same public key, comparing its
// packed bytes with crypto/hmac.Equal (constant-time, though public
// keys carry no secret this actually needs to hide).
func (p *PublicKey) Equal(pubkey circlkem.PublicKey) bool {
	other, ok := pubkey.(*PublicKey)
	if !ok || other.scheme != p.scheme {
		return false
	}
	return hmac.Equal(p.pub.Marshal(), other.pub.Marshal())
}

// PrivateKey adapts kem.SecretKey to circlkem.PrivateKey.
type PrivateKey struct {
	priv   kem.SecretKey
	scheme *Scheme
}

// Scheme returns the scheme this private key belongs to.
func (p *PrivateKey) Scheme() circlkem.Scheme { return p.scheme }

// MarshalBinary packs the private key as h0 || h1 || wlist0 ||
// wlist1 || sigma0 || sigma1.
func (p *PrivateKey) MarshalBinary() ([]byte, error) {
	return p.priv.Marshal(), nil
}

// Equal reports whether privkey is the same private key.
func (p *PrivateKey) Equal(privkey circlkem.PrivateKey) bool {
	other, ok := privkey.(*PrivateKey)
	if !ok || other.scheme != p.scheme {
		return false
	}
	return hmac.Equal(p.priv.Marshal(), other.priv.Marshal())
}

// Public is not supported: the BIKE secret key layout (h0, h1,
// wlist0, wlist1, sigma0, sigma1) never retains g, and pk is only
// recoverable given g (pk.f0 = g*h1, pk.f1 = g*h0). Callers must
// retain the PublicKey that GenerateKeyPair/DeriveKeyPair returned
// alongside this PrivateKey.
func (p *PrivateKey) Public() circlkem.PublicKey {
	panic("bike: PrivateKey.Public is unsupported; BIKE secret keys do not retain their public key")
}

// Scheme is the BIKE-1 Round-2, Level 1 circlkem.Scheme instance.
type Scheme struct{}

// New returns the BIKE-1 Round-2 Level 1 KEM scheme.
func New() *Scheme { return &Scheme{} }

var (
	_ circlkem.Scheme     = (*Scheme)(nil)
	_ circlkem.PublicKey  = (*PublicKey)(nil)
	_ circlkem.PrivateKey = (*PrivateKey)(nil)
)

// Name of the scheme.
func (s *Scheme) Name() string { return Name }

// GenerateKeyPair creates a new key pair, drawing entropy from
// crypto/rand.
func (s *Scheme) GenerateKeyPair() (circlkem.PublicKey, circlkem.PrivateKey, error) {
	pub, priv, err := kem.KeyGen()
	if err != nil {
		return nil, nil, err
	}
	return &PublicKey{pub: pub, scheme: s}, &PrivateKey{priv: priv, scheme: s}, nil
}

// Encapsulate generates a shared key ss for the public key and
// encapsulates it into a ciphertext ct, drawing entropy from
// crypto/rand.
func (s *Scheme) Encapsulate(pk circlkem.PublicKey) (ct, ss []byte, err error) {
	seed := make([]byte, s.EncapsulationSeedSize())
	if _, err := rand.Read(seed); err != nil {
		return nil, nil, err
	}
	return s.EncapsulateDeterministically(pk, seed)
}

// Decapsulate returns the shared key encapsulated in ct for sk.
// A well-sized but tampered ct is never surfaced here as an error:
// kem.Decapsulate always succeeds, silently substituting the
// sigma-derived implicit-rejection key when decoding or verification
// would have failed.
func (s *Scheme) Decapsulate(sk circlkem.PrivateKey, ct []byte) ([]byte, error) {
	if len(ct) != s.CiphertextSize() {
		return nil, circlkem.ErrCiphertextSize
	}
	skk, ok := sk.(*PrivateKey)
	if !ok || skk.scheme != s {
		return nil, circlkem.ErrTypeMismatch
	}

	var ctStruct kem.Ciphertext
	ctStruct.Unmarshal(ct)

	ss, err := kem.Decapsulate(&skk.priv, &ctStruct)
	if err != nil {
		return nil, err
	}
	return ss[:], nil
}

// UnmarshalBinaryPublicKey unmarshals a PublicKey from b.
func (s *Scheme) UnmarshalBinaryPublicKey(b []byte) (circlkem.PublicKey, error) {
	if len(b) != s.PublicKeySize() {
		return nil, circlkem.ErrPubKeySize
	}
	var pk kem.PublicKey
	pk.Unmarshal(b)
	return &PublicKey{pub: pk, scheme: s}, nil
}

// UnmarshalBinaryPrivateKey unmarshals a PrivateKey from b.
func (s *Scheme) UnmarshalBinaryPrivateKey(b []byte) (circlkem.PrivateKey, error) {
	if len(b) != s.PrivateKeySize() {
		return nil, circlkem.ErrPrivKeySize
	}
	var sk kem.SecretKey
	sk.Unmarshal(b)
	return &PrivateKey{priv: sk, scheme: s}, nil
}

// CiphertextSize is the packed byte length of a ciphertext.
func (s *Scheme) CiphertextSize() int { return kem.CiphertextSize }

// SharedKeySize is the byte length of a derived shared secret.
func (s *Scheme) SharedKeySize() int { return kem.SharedSecretSize }

// PrivateKeySize is the packed byte length of a private key.
func (s *Scheme) PrivateKeySize() int { return kem.SecretKeySize }

// PublicKeySize is the packed byte length of a public key.
func (s *Scheme) PublicKeySize() int { return kem.PublicKeySize }

// SeedSize is the byte length of the seed DeriveKeyPair consumes:
// BIKE keypair generation draws three independent 32-byte seeds (for
// (h0,h1), for g, and for (sigma0,sigma1)), so the derivation seed is
// their concatenation, consumed in that order via a bytes.Reader fed
// to kem.KeyGenFromReader.
func (s *Scheme) SeedSize() int { return 3 * params.SeedLen }

// DeriveKeyPair deterministically derives a key pair from seed. Panics
// if len(seed) != SeedSize(), matching circlkem.Scheme's contract.
func (s *Scheme) DeriveKeyPair(seed []byte) (circlkem.PublicKey, circlkem.PrivateKey) {
	if len(seed) != s.SeedSize() {
		panic(circlkem.ErrSeedSize)
	}
	pub, priv, err := kem.KeyGenFromReader(bytes.NewReader(seed))
	if err != nil {
		panic(err)
	}
	return &PublicKey{pub: pub, scheme: s}, &PrivateKey{priv: priv, scheme: s}
}

// EncapsulationSeedSize is the byte length of the seed
// EncapsulateDeterministically consumes: only seed[1] of BIKE's
// three-seed draw feeds encapsulation (seed[0] goes unused, matching
// the reference implementation), so this is a single SeedLen.
func (s *Scheme) EncapsulationSeedSize() int { return params.SeedLen }

// EncapsulateDeterministically generates a shared key for pk,
// deterministically from seed, and encapsulates it into ct.
func (s *Scheme) EncapsulateDeterministically(pk circlkem.PublicKey, seed []byte) (ct, ss []byte, err error) {
	if len(seed) != s.EncapsulationSeedSize() {
		return nil, nil, circlkem.ErrSeedSize
	}
	pkk, ok := pk.(*PublicKey)
	if !ok || pkk.scheme != s {
		return nil, nil, circlkem.ErrTypeMismatch
	}

	var mSeed [params.SeedLen]byte
	copy(mSeed[:], seed)

	ctStruct, ssVal, err := kem.EncapsulateWithSeed(&pkk.pub, mSeed)
	if err != nil {
		return nil, nil, err
	}
	return ctStruct.Marshal(), ssVal[:], nil
}
