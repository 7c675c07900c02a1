// Package crypto derives keys and generators from secret material.
//
// Design goals:
//   - Generators seeded from arbitrary-length secrets via HKDF-SHA256
//   - Domain separation through the HKDF info string
//   - X25519 and ChaCha20-Poly1305 keyed from any io.Reader, including a
//     drbg.Generator for reproducible key material
package crypto
