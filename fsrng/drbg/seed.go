package drbg

import (
	"crypto/rand"
	"fmt"
	"io"
)

// NewFromReader seeds a generator with exactly SeedSize bytes read from r.
func NewFromReader(r io.Reader) (*Generator, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		wipe(seed[:])
		return nil, fmt.Errorf("drbg: read seed: %w", err)
	}
	return New(&seed), nil
}

// NewRandom seeds a generator from the operating system's CSPRNG.
func NewRandom() (*Generator, error) {
	return NewFromReader(rand.Reader)
}
