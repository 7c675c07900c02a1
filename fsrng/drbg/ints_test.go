package drbg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestUintsFollowStream(t *testing.T) {
	s1, s2 := testSeed(), testSeed()
	a, b := New(&s1), New(&s2)

	var raw [12]byte
	b.Fill(raw[:])

	if got, want := a.Uint32(), binary.LittleEndian.Uint32(raw[:4]); got != want {
		t.Fatalf("Uint32 = %#x, want %#x", got, want)
	}
	if got, want := a.Uint64(), binary.LittleEndian.Uint64(raw[4:]); got != want {
		t.Fatalf("Uint64 = %#x, want %#x", got, want)
	}
}

func TestUint64nRange(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	for _, n := range []uint64{1, 2, 3, 7, 10, 64, 1000, 1<<63 + 1} {
		for i := 0; i < 200; i++ {
			if v := g.Uint64n(n); v >= n {
				t.Fatalf("Uint64n(%d) = %d", n, v)
			}
		}
	}
}

func TestIntnCoversRange(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	seen := make([]bool, 6)
	for i := 0; i < 600; i++ {
		seen[g.Intn(len(seen))] = true
	}
	for v, ok := range seen {
		if !ok {
			t.Fatalf("Intn(6) never returned %d", v)
		}
	}
}

func TestIntnPanicsOnNonPositive(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	g.Intn(0)
}

func TestNewFromReader(t *testing.T) {
	seedBytes := bytes.Repeat([]byte{0x42}, SeedSize)
	g, err := NewFromReader(bytes.NewReader(seedBytes))
	if err != nil {
		t.Fatalf("NewFromReader: %v", err)
	}

	var seed [SeedSize]byte
	copy(seed[:], seedBytes)
	want := New(&seed)

	a := make([]byte, 100)
	b := make([]byte, 100)
	g.Fill(a)
	want.Fill(b)
	if !bytes.Equal(a, b) {
		t.Fatalf("NewFromReader output differs from New")
	}
}

func TestNewFromReaderShortSeed(t *testing.T) {
	_, err := NewFromReader(strings.NewReader("too short"))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestNewRandomDiffers(t *testing.T) {
	a, err := NewRandom()
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	b, err := NewRandom()
	if err != nil {
		t.Fatalf("NewRandom: %v", err)
	}
	if a.Uint64() == b.Uint64() && a.Uint64() == b.Uint64() {
		t.Fatalf("independently seeded generators agree")
	}
}
