// Package fsrng provides a forward-secure pseudo-random byte generator and the
// pieces built around it.
//
// The core lives in fsrng/drbg: a ChaCha20 pool generator that rekeys itself on
// every refill, so a captured state reveals nothing about earlier output.
// Source wraps it for concurrent use with a startup self-test. The crypto,
// ratchet and identity packages turn a generator into key material.
package fsrng
