package primitive

import (
	"crypto/cipher"
	"errors"

	"gitlab.com/yawning/bsaes.git"

	"github.com/bike-kem/bike/internal/params"
)

// ErrExhausted is returned once a PRF context has served more bytes
// than its invocation budget allows. For a sane BIKE parameter set
// this is statistically unreachable; callers treat it as a fatal
// programming error.
var ErrExhausted = errors.New("primitive: PRF invocation budget exhausted")

const aesBlockSize = 16

type resetable interface {
	Reset()
}

// PRF is an AES-256-CTR keystream, keyed by a 32-byte seed with a
// zero IV (the seed alone determines the keystream, matching BIKE's
// construction).
type PRF struct {
	cipher.Stream
	served uint64
	budget uint64
}

// NewAESCTRPRF keys an AES-256-CTR stream from a 32-byte seed, with
// the invocation budget set to params.MaxAESInvocations 16-byte
// blocks.
func NewAESCTRPRF(seed [params.SeedLen]byte) (*PRF, error) {
	// bsaes is smart enough to detect if the Go runtime and the CPU
	// support AES-NI and PCLMULQDQ and call `crypto/aes`.
	blk, err := bsaes.NewCipher(seed[:])
	if err != nil {
		return nil, err
	}
	var iv [aesBlockSize]byte
	return &PRF{
		Stream: cipher.NewCTR(blk, iv[:]),
		budget: params.MaxAESInvocations * aesBlockSize,
	}, nil
}

// Read extends the keystream into dst, counting served bytes against
// the invocation budget. It never returns a short read; it either
// fills dst or returns ErrExhausted without modifying dst's tail.
func (p *PRF) Read(dst []byte) error {
	if p.served+uint64(len(dst)) > p.budget {
		return ErrExhausted
	}
	for i := range dst {
		dst[i] = 0
	}
	p.XORKeyStream(dst, dst)
	p.served += uint64(len(dst))
	return nil
}

// Zeroize clears the PRF such that no sensitive data is left in
// memory, including the key schedule and counter inside the CTR
// stream.
func (p *PRF) Zeroize() {
	// bsaes's ctrAble implementation exposes this; `crypto/aes`
	// (which bsaes hands the work to on AES-NI hardware) does not,
	// c'est la vie.
	if r, ok := p.Stream.(resetable); ok {
		r.Reset()
	}
	p.served = 0
	p.budget = 0
}
