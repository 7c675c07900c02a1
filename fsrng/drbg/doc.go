// Package drbg implements a forward-secure deterministic random byte generator.
//
// A Generator expands a 32-byte seed into an unbounded stream using ChaCha20:
//   - The state is a 512-byte pool and a cursor into it
//   - The first 32 bytes of the pool are the next ChaCha20 key and are never returned
//   - The remaining 480 bytes are handed out in order
//   - Each refill encrypts the pool under its own first 32 bytes, so old output
//     cannot be recovered from the current state
//
// Splitting a read never changes the stream: Read(a) followed by Read(b) returns
// the same bytes as a single Read(a+b) from the same state.
//
// A Generator is not safe for concurrent use. Use one generator per goroutine
// (see Fork) or wrap it with the pool package.
package drbg
