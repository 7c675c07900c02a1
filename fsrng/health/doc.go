// Package health runs statistical sanity checks over generator output.
//
// The checks catch gross failures (a stuck or repeating source, a broken
// refill) and back the fork-independence tests. Passing them says nothing
// about cryptographic strength.
package health
