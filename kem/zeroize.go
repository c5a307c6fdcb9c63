package kem

import (
	"runtime"

	"github.com/bike-kem/bike/internal/primitive"
)

// zeroize overwrites b with zero bytes. The //go:noinline +
// runtime.KeepAlive pair keeps the compiler from eliding a
// zeroization it deems dead; every secret-bearing buffer in this
// package is released through one of these helpers on every exit
// path, success or failure.
//
//go:noinline
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

//go:noinline
func zeroizeRing(e *RingElement) {
	for i := range e {
		e[i] = 0
	}
	runtime.KeepAlive(e)
}

//go:noinline
func zeroizeDigest(d *[primitive.DigestSize]byte) {
	for i := range d {
		d[i] = 0
	}
	runtime.KeepAlive(d)
}
