package gf2x

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bike-kem/bike/internal/params"
)

func TestAddXOR(t *testing.T) {
	a := make([]byte, rSize)
	b := make([]byte, rSize)
	a[0] = 0xFF
	b[0] = 0x0F
	dst := make([]byte, rSize)
	Add(dst, a, b, rSize)
	require.Equal(t, byte(0xF0), dst[0])
}

func TestAddSelfInverse(t *testing.T) {
	a := make([]byte, rSize)
	a[3] = 0x42
	dst := make([]byte, rSize)
	Add(dst, a, a, rSize)
	for _, v := range dst {
		require.Zero(t, v)
	}
}

// TestMulModOne checks that multiplying by the identity element (x^0 = 1)
// returns the operand unchanged, modulo the final-byte mask.
func TestMulModOne(t *testing.T) {
	one := make([]byte, rSize)
	one[0] = 1

	a := make([]byte, rSize)
	a[0] = 0x5A
	a[10] = 0x01
	a[rSize-1] = 0xFF & params.LastRByteMask

	var dst Padded
	MulMod(&dst, a, one)

	for i := 0; i < rSize; i++ {
		require.Equalf(t, a[i], dst[i], "byte %d", i)
	}
	for i := rSize; i < len(dst); i++ {
		require.Zerof(t, dst[i], "padding byte %d", i)
	}
}

// TestMulModZero checks that multiplying by the zero polynomial yields
// the zero polynomial.
func TestMulModZero(t *testing.T) {
	zero := make([]byte, rSize)
	a := make([]byte, rSize)
	a[5] = 0x77

	var dst Padded
	MulMod(&dst, a, zero)
	for _, v := range dst {
		require.Zero(t, v)
	}
}

// TestMulModCommutative checks a*b == b*a on small sparse inputs.
func TestMulModCommutative(t *testing.T) {
	a := make([]byte, rSize)
	b := make([]byte, rSize)
	a[0] = 0b0000_0101 // x^0 + x^2
	b[1] = 0b0000_0011 // x^8 + x^9

	var ab, ba Padded
	MulMod(&ab, a, b)
	MulMod(&ba, b, a)
	require.Equal(t, ab, ba)
}

// TestMulModReducesHighDegree checks that multiplying two terms whose
// product degree exceeds r actually folds: x^(r-1) * x^2 = x^(r+1) ≡ x^1.
func TestMulModReducesHighDegree(t *testing.T) {
	a := make([]byte, rSize)
	setBit(a, params.RBits-1)

	b := make([]byte, rSize)
	setBit(b, 2)

	var dst Padded
	MulMod(&dst, a, b)

	want := make([]byte, rSize)
	setBit(want, 1)

	for i := 0; i < rSize; i++ {
		require.Equalf(t, want[i], dst[i], "byte %d", i)
	}
}

// TestMulModMasksFinalByte checks the result never carries stray bits in
// the unused high bits of the final RingElement byte.
func TestMulModMasksFinalByte(t *testing.T) {
	a := make([]byte, rSize)
	setBit(a, params.RBits-1)
	b := make([]byte, rSize)
	setBit(b, 0)

	var dst Padded
	MulMod(&dst, a, b)
	require.Zero(t, dst[rSize-1]&^params.LastRByteMask)
}

func setBit(buf []byte, bit int) {
	buf[bit/8] |= 1 << uint(bit%8)
}
