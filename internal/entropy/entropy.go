// Package entropy acquires the seed material the KEM orchestration
// layer consumes for keypair generation and encapsulation: the
// get_seeds collaborator, plus a deterministic variant for KAT tests.
package entropy

import (
	"crypto/rand"
	"io"

	"github.com/katzenpost/chacha20"

	"github.com/bike-kem/bike/internal/params"
)

// Seeds holds the three independent 32-byte seeds a single keypair
// generation or encapsulation call consumes.
type Seeds [3][params.SeedLen]byte

// GetSeeds reads 3*SeedLen bytes from r into three seeds. Pass nil to
// default to crypto/rand.Reader.
func GetSeeds(r io.Reader) (Seeds, error) {
	if r == nil {
		r = rand.Reader
	}
	var s Seeds
	for i := range s {
		if _, err := io.ReadFull(r, s[i][:]); err != nil {
			return Seeds{}, err
		}
	}
	return s, nil
}

// DeterministicReader is an io.Reader whose output is a chacha20
// keystream keyed by a fixed seed, for reproducing KAT-style fixed
// vectors in tests.
type DeterministicReader struct {
	cipher *chacha20.Cipher
}

// NewDeterministicReader keys a DeterministicReader from a 32-byte
// seed with a zero nonce.
func NewDeterministicReader(seed []byte) (*DeterministicReader, error) {
	var nonce [8]byte
	c, err := chacha20.New(seed, nonce[:])
	if err != nil {
		return nil, err
	}
	return &DeterministicReader{cipher: c}, nil
}

// Read fills dst with keystream output. Always fills dst completely.
func (r *DeterministicReader) Read(dst []byte) (int, error) {
	r.cipher.KeyStream(dst)
	return len(dst), nil
}
