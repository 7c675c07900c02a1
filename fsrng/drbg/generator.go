package drbg

import (
	harpocrates "github.com/agilira/harpocrates"
	"golang.org/x/crypto/chacha20"
)

const (
	// SeedSize is the size of a generator seed.
	SeedSize = 32
	// KeySize is the number of pool bytes reserved as the next refill key.
	KeySize = chacha20.KeySize
	// PoolSize is the size of the internal pool.
	PoolSize = 512
	// BlockSize is the number of output bytes made available by one refill.
	BlockSize = PoolSize - KeySize
)

// The stream is defined with djb ChaCha20 (64-bit zero nonce, 64-bit counter).
// A 96-bit zero nonce with a 32-bit counter produces the same input blocks for
// counters 0..7, which is all a refill ever uses.
var zeroNonce [chacha20.NonceSize]byte

// Generator is a forward-secure pseudo-random byte generator.
// The zero value is not usable; call Init or New first.
type Generator struct {
	pool       [PoolSize]byte
	cursor     int
	generation uint64
}

// New returns a generator seeded with seed. The seed is wiped.
func New(seed *[SeedSize]byte) *Generator {
	g := new(Generator)
	g.Init(seed)
	return g
}

// Init (re)seeds g from seed and wipes the seed array before returning.
func (g *Generator) Init(seed *[SeedSize]byte) {
	copy(g.pool[:KeySize], seed[:])
	g.generation = 0
	g.refill()
	wipe(seed[:])
}

// refill replaces the whole pool with the ChaCha20 keystream keyed by pool[:32].
func (g *Generator) refill() {
	c, err := chacha20.NewUnauthenticatedCipher(g.pool[:KeySize], zeroNonce[:])
	if err != nil {
		// Key and nonce sizes are fixed by the types above.
		panic("drbg: " + err.Error())
	}
	clear(g.pool[:])
	c.XORKeyStream(g.pool[:], g.pool[:])
	g.cursor = KeySize
	g.generation++
}

// Read fills p with the next len(p) bytes of the stream.
// It implements io.Reader and never returns an error.
func (g *Generator) Read(p []byte) (int, error) {
	g.Fill(p)
	return len(p), nil
}

// Fill fills p with the next len(p) bytes of the stream.
func (g *Generator) Fill(p []byte) {
	if g.cursor < KeySize {
		panic("drbg: generator used before Init")
	}

	// Use what is left of the current pool.
	n := copy(p, g.pool[g.cursor:])
	g.cursor += n
	p = p[n:]

	// Whole blocks.
	for len(p) > BlockSize {
		g.refill()
		copy(p, g.pool[KeySize:])
		g.cursor = PoolSize
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		g.refill()
		g.cursor += copy(p, g.pool[KeySize:])
	}
}

// Fork seeds child from the next 32 bytes of g. Both generators remain usable
// and share no state; child may be the zero value or a used generator.
func (g *Generator) Fork(child *Generator) {
	var seed [SeedSize]byte
	g.Fill(seed[:])
	child.Init(&seed)
}

// Child is Fork into a freshly allocated generator.
func (g *Generator) Child() *Generator {
	child := new(Generator)
	g.Fork(child)
	return child
}

// Generation returns the number of refills since the last Init.
// It is 1 right after Init.
func (g *Generator) Generation() uint64 {
	return g.generation
}

// Buffered returns how many output bytes are left before the next refill.
func (g *Generator) Buffered() int {
	if g.cursor < KeySize {
		return 0
	}
	return PoolSize - g.cursor
}

// Wipe zeroes the generator state. g must be re-initialized before reuse.
func (g *Generator) Wipe() {
	wipe(g.pool[:])
	g.cursor = 0
	g.generation = 0
}

func wipe(b []byte) {
	harpocrates.Zeroize(b)
}
