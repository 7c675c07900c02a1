// Package ratchet provides forward-secret message keys drawn from a drbg.Generator.
//
// Both ends seed a generator from the same 32-byte key. Every message consumes
// the next 32 bytes of the stream as its key, and the generator rekeys itself as
// it goes, so compromise of the current state does not reveal earlier messages.
//
// This is a single-ratchet (symmetric) design suitable for unidirectional streams.
// For bidirectional communication, use two ratchets (one per direction).
package ratchet
