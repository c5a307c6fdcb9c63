// Package primitive wraps the SHA-384 hash and the AES-256-CTR PRF
// the KEM orchestration layer treats as opaque collaborators.
package primitive

import "crypto/sha512"

// DigestSize is the output size of SHA-384 in bytes.
const DigestSize = sha512.Size384

// SHA384 computes the SHA-384 digest of buf.
func SHA384(buf []byte) [DigestSize]byte {
	return sha512.Sum384(buf)
}
