package drbg

import (
	"bytes"
	"encoding/hex"
	"errors"
)

var ErrSelfTest = errors.New("drbg: known-answer self-test failed")

// knownAnswer is Read(64) after Init with the all-zero seed: bytes 32..95 of
// the ChaCha20 keystream for the zero key and nonce.
const knownAnswer = "da41597c5157488d7724e03fb8d84a376a43b8f41518a11cc387b669b2ee6586" +
	"9f07e7be5551387a98ba977c732d080dcb0f29a048e3656912c6533e32ee7aed"

// SelfTest runs the zero-seed known-answer test on a throwaway generator.
func SelfTest() error {
	want, _ := hex.DecodeString(knownAnswer)

	var seed [SeedSize]byte
	g := New(&seed)
	defer g.Wipe()

	got := make([]byte, len(want))
	g.Fill(got)
	if !bytes.Equal(got, want) {
		return ErrSelfTest
	}
	return nil
}
