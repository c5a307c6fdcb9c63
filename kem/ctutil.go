package kem

import "crypto/subtle"

// secureCmp reports whether a and b are byte-for-byte equal in time
// independent of where they first differ.
func secureCmp(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// secureCmp32 reports whether a equals b, in constant time.
func secureCmp32(a, b uint32) bool {
	return subtle.ConstantTimeEq(int32(a), int32(b)) == 1
}

// selectMask returns 0xFF if cond is true, else 0x00, without
// branching on cond at the machine-instruction level: it is the
// broadcast of the 0/1 value chosen by subtle.ConstantTimeSelect.
func selectMask(cond bool) byte {
	c := 0
	if cond {
		c = 1
	}
	return byte(-subtle.ConstantTimeSelect(c, 1, 0)) & 0xFF
}

// selectBytes copies succ into dst where mask (from selectMask) is
// 0xFF, and fail where it is 0x00, byte-wise and without branching on
// individual bytes.
func selectBytes(dst, succ, fail []byte, mask byte) {
	for i := range dst {
		dst[i] = (mask & succ[i]) | (^mask & fail[i])
	}
}
