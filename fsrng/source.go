package fsrng

import (
	"crypto/rand"
	"fmt"
	"io"

	harpocrates "github.com/agilira/harpocrates"

	"github.com/TheusHen/fsrng/fsrng/drbg"
	"github.com/TheusHen/fsrng/fsrng/health"
	"github.com/TheusHen/fsrng/fsrng/pool"
)

// selfTestSize is the amount of output checked by the startup self-test.
const selfTestSize = 4096

// SourceOptions configures a Source.
type SourceOptions struct {
	// MaxIdle bounds the number of idle forked generators kept for reuse.
	MaxIdle int
	// SkipSelfTest disables the startup health check.
	SkipSelfTest bool
}

// Source is a concurrency-safe io.Reader backed by generators forked from one
// seed. Each concurrent reader draws from its own child generator.
type Source struct {
	pool *pool.Pool
}

// NewSource builds a Source from seed and wipes the seed.
// Unless disabled, it runs a known-answer test and screens a sample of
// output before returning.
func NewSource(seed *[drbg.SeedSize]byte, opts SourceOptions) (*Source, error) {
	s := &Source{pool: pool.New(seed, opts.MaxIdle)}
	if opts.SkipSelfTest {
		return s, nil
	}
	if err := s.selfTest(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// NewSystemSource builds a Source seeded from the operating system's CSPRNG.
func NewSystemSource(opts SourceOptions) (*Source, error) {
	return newSourceFromReader(rand.Reader, opts)
}

func newSourceFromReader(r io.Reader, opts SourceOptions) (*Source, error) {
	var seed [drbg.SeedSize]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		harpocrates.Zeroize(seed[:])
		return nil, fmt.Errorf("fsrng: read system seed: %w", err)
	}
	return NewSource(&seed, opts)
}

// selfTest runs the drbg known-answer test, then screens output of a throwaway
// grandchild for gross failures so no live stream is consumed.
func (s *Source) selfTest() error {
	if err := drbg.SelfTest(); err != nil {
		return fmt.Errorf("fsrng: self-test: %w", err)
	}

	g, err := s.pool.Acquire()
	if err != nil {
		return err
	}
	scratch := g.Child()
	s.pool.Release(g)
	defer scratch.Wipe()

	sample := make([]byte, selfTestSize)
	scratch.Fill(sample)
	defer harpocrates.Zeroize(sample)
	if _, err := health.Screen(sample); err != nil {
		return fmt.Errorf("fsrng: self-test: %w", err)
	}
	return nil
}

// Read fills p with pseudo-random bytes. It is safe for concurrent use.
func (s *Source) Read(p []byte) (int, error) {
	return s.pool.Read(p)
}

// Generator returns a new generator forked for the caller's exclusive use.
func (s *Source) Generator() (*drbg.Generator, error) {
	g, err := s.pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer s.pool.Release(g)
	return g.Child(), nil
}

// Close wipes all generator state held by the Source.
func (s *Source) Close() error {
	return s.pool.Close()
}
