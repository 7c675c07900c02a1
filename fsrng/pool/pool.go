// Package pool shares forward-secure generators between goroutines.
//
// A drbg.Generator is owned by one goroutine at a time. Locked serializes
// access to a single generator, while Pool hands each caller its own forked
// child so independent goroutines never contend on the same state.
package pool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/TheusHen/fsrng/fsrng/drbg"
)

var ErrPoolClosed = errors.New("pool: generator pool closed")

// Locked is a generator guarded by a mutex. It is safe for concurrent use.
type Locked struct {
	mu sync.Mutex
	g  drbg.Generator
}

// NewLocked returns a locked generator seeded with seed. The seed is wiped.
func NewLocked(seed *[drbg.SeedSize]byte) *Locked {
	l := &Locked{}
	l.g.Init(seed)
	return l
}

// Read fills p with the next len(p) bytes of the shared stream.
func (l *Locked) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Read(p)
}

// Fork seeds child from the shared stream.
func (l *Locked) Fork(child *drbg.Generator) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.g.Fork(child)
}

// Wipe zeroes the shared generator. Reads after Wipe panic.
func (l *Locked) Wipe() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.g.Wipe()
}

// Pool hands out generators forked from a shared parent.
// Released generators are kept for reuse, up to maxIdle of them.
type Pool struct {
	parent  *Locked
	idle    chan *drbg.Generator
	mu      sync.Mutex
	closed  atomic.Bool
	created atomic.Int32
}

// New creates a pool whose children are forked from a parent seeded with seed.
// The seed is wiped.
func New(seed *[drbg.SeedSize]byte, maxIdle int) *Pool {
	if maxIdle <= 0 {
		maxIdle = 8
	}
	return &Pool{
		parent: NewLocked(seed),
		idle:   make(chan *drbg.Generator, maxIdle),
	}
}

// Acquire returns an idle generator or forks a new one from the parent.
// The caller owns it until Release.
func (p *Pool) Acquire() (*drbg.Generator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	select {
	case g := <-p.idle:
		return g, nil
	default:
	}

	g := new(drbg.Generator)
	p.parent.Fork(g)
	p.created.Add(1)
	return g, nil
}

// Release returns g to the pool. Generators that cannot be kept are wiped.
func (p *Pool) Release(g *drbg.Generator) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		g.Wipe()
		return
	}

	select {
	case p.idle <- g:
	default:
		g.Wipe()
	}
}

// Read fills b using a generator borrowed from the pool.
// It is safe for concurrent use.
func (p *Pool) Read(b []byte) (int, error) {
	g, err := p.Acquire()
	if err != nil {
		return 0, err
	}
	defer p.Release(g)
	return g.Read(b)
}

// Close wipes the parent and every idle generator.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Swap(true) {
		return nil
	}

	close(p.idle)
	for g := range p.idle {
		g.Wipe()
	}
	p.parent.Wipe()
	return nil
}

// Size returns the number of idle generators.
func (p *Pool) Size() int {
	return len(p.idle)
}

// Created returns the number of generators forked so far.
func (p *Pool) Created() int {
	return int(p.created.Load())
}
