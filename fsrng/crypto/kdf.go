package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/TheusHen/fsrng/fsrng/drbg"
)

// DeriveKey derives a key of the specified length using HKDF-SHA256.
// salt can be nil (uses zero salt), info provides context binding.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveSeed derives a generator seed from secret material of any length.
func DeriveSeed(secret, salt, info []byte) ([drbg.SeedSize]byte, error) {
	var seed [drbg.SeedSize]byte
	hk := hkdf.New(sha256.New, secret, salt, info)
	if _, err := io.ReadFull(hk, seed[:]); err != nil {
		return [drbg.SeedSize]byte{}, err
	}
	return seed, nil
}

// NewGenerator returns a generator bound to (secret, salt, info).
// Distinct info strings give independent streams from the same secret.
func NewGenerator(secret, salt, info []byte) (*drbg.Generator, error) {
	seed, err := DeriveSeed(secret, salt, info)
	if err != nil {
		return nil, err
	}
	return drbg.New(&seed), nil
}
