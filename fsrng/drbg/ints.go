package drbg

import (
	"encoding/binary"
	"math/bits"
)

// Uint32 returns the next 4 bytes of the stream as a little-endian uint32.
func (g *Generator) Uint32() uint32 {
	var b [4]byte
	g.Fill(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns the next 8 bytes of the stream as a little-endian uint64.
func (g *Generator) Uint64() uint64 {
	var b [8]byte
	g.Fill(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Uint64n returns a uniform value in [0, n). It panics if n == 0.
func (g *Generator) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("drbg: Uint64n called with n == 0")
	}
	if n&(n-1) == 0 {
		return g.Uint64() & (n - 1)
	}
	// Lemire's multiply-and-reject.
	hi, lo := bits.Mul64(g.Uint64(), n)
	if lo < n {
		threshold := -n % n
		for lo < threshold {
			hi, lo = bits.Mul64(g.Uint64(), n)
		}
	}
	return hi
}

// Intn returns a uniform value in [0, n). It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("drbg: Intn called with n <= 0")
	}
	return int(g.Uint64n(uint64(n)))
}
