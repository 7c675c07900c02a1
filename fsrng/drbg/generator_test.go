package drbg

import (
	"bytes"
	"encoding/hex"
	"testing"

	"golang.org/x/crypto/chacha20"
)

// referenceStream recomputes n output bytes with a direct keystream loop.
func referenceStream(t testing.TB, seed [SeedSize]byte, n int) []byte {
	t.Helper()
	key := seed
	var out []byte
	for len(out) < n {
		var block [PoolSize]byte
		c, err := chacha20.NewUnauthenticatedCipher(key[:], make([]byte, chacha20.NonceSize))
		if err != nil {
			t.Fatalf("NewUnauthenticatedCipher: %v", err)
		}
		c.XORKeyStream(block[:], block[:])
		copy(key[:], block[:KeySize])
		out = append(out, block[KeySize:]...)
	}
	return out[:n]
}

func testSeed() [SeedSize]byte {
	var seed [SeedSize]byte
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

func TestGoldenVectorZeroSeed(t *testing.T) {
	want, _ := hex.DecodeString(knownAnswer)

	var seed [SeedSize]byte
	g := New(&seed)
	got := make([]byte, 64)
	n, err := g.Read(got)
	if err != nil || n != 64 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("golden vector mismatch\n got %x\nwant %x", got, want)
	}
}

func TestSelfTest(t *testing.T) {
	if err := SelfTest(); err != nil {
		t.Fatalf("SelfTest: %v", err)
	}
}

func TestMatchesReferenceStream(t *testing.T) {
	seed := testSeed()
	want := referenceStream(t, seed, 5000)

	g := New(&seed)
	got := make([]byte, len(want))
	g.Fill(got)
	if !bytes.Equal(got, want) {
		t.Fatalf("stream differs from reference")
	}
}

func TestDeterministic(t *testing.T) {
	s1, s2 := testSeed(), testSeed()
	a, b := New(&s1), New(&s2)

	outA := make([]byte, 1000)
	outB := make([]byte, 1000)
	a.Fill(outA)
	b.Fill(outB)
	if !bytes.Equal(outA, outB) {
		t.Fatalf("same seed produced different output")
	}
}

func TestInitWipesSeed(t *testing.T) {
	seed := testSeed()
	New(&seed)
	if seed != ([SeedSize]byte{}) {
		t.Fatalf("seed not wiped: %x", seed)
	}
}

func TestSplitReadsMatchSingleRead(t *testing.T) {
	sizes := []int{0, 1, 31, 32, 33, 479, 480, 481, 959, 960, 961, 1440, 5000}
	for _, a := range sizes {
		for _, b := range sizes {
			s1, s2 := testSeed(), testSeed()
			split, whole := New(&s1), New(&s2)

			got := make([]byte, a+b)
			split.Fill(got[:a])
			split.Fill(got[a:])

			want := make([]byte, a+b)
			whole.Fill(want)

			if !bytes.Equal(got, want) {
				t.Fatalf("Read(%d)+Read(%d) != Read(%d)", a, b, a+b)
			}
			if split.cursor != whole.cursor || split.generation != whole.generation {
				t.Fatalf("state diverged after Read(%d)+Read(%d): cursor %d/%d generation %d/%d",
					a, b, split.cursor, whole.cursor, split.generation, whole.generation)
			}
		}
	}
}

func TestSuccessiveReadsDiffer(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	first := make([]byte, 64)
	second := make([]byte, 64)
	g.Fill(first)
	g.Fill(second)
	if bytes.Equal(first, second) {
		t.Fatalf("successive reads returned the same bytes")
	}
}

func TestPoolBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		cursor     int
		generation uint64
	}{
		{"zero", 0, KeySize, 1},
		{"one", 1, KeySize + 1, 1},
		{"full block", BlockSize, PoolSize, 1},
		{"one past block", BlockSize + 1, KeySize + 1, 2},
		{"two blocks", 2 * BlockSize, PoolSize, 2},
		{"two blocks plus one", 2*BlockSize + 1, KeySize + 1, 3},
		{"ten thousand", 10000, KeySize + 400, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := testSeed()
			g := New(&seed)
			g.Fill(make([]byte, tt.size))
			if g.cursor != tt.cursor {
				t.Fatalf("cursor = %d, want %d", g.cursor, tt.cursor)
			}
			if g.Generation() != tt.generation {
				t.Fatalf("generation = %d, want %d", g.Generation(), tt.generation)
			}
		})
	}
}

func TestLargeReadMatchesBlockReads(t *testing.T) {
	s1, s2 := testSeed(), testSeed()
	whole, pieces := New(&s1), New(&s2)

	want := make([]byte, 10000)
	whole.Fill(want)

	var got []byte
	buf := make([]byte, BlockSize)
	pieces.Fill(buf)
	got = append(got, buf...)
	for i := 0; i < 19; i++ {
		pieces.Fill(buf)
		got = append(got, buf...)
	}
	rest := make([]byte, 10000-len(got))
	pieces.Fill(rest)
	got = append(got, rest...)

	if !bytes.Equal(got, want) {
		t.Fatalf("21 sequential reads differ from one 10000-byte read")
	}
}

func TestKeyBytesNeverExposed(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	out := make([]byte, BlockSize)
	g.Fill(out)
	key := g.pool[:KeySize]
	if bytes.Contains(out, key) {
		t.Fatalf("output contains the pending refill key")
	}
}

func TestForkAdvancesParentBy32(t *testing.T) {
	seed := testSeed()
	parent := New(&seed)
	parent.Fill(make([]byte, 100))
	dup := *parent

	var child Generator
	parent.Fork(&child)

	var childSeed [SeedSize]byte
	dup.Fill(childSeed[:])

	a := make([]byte, 700)
	b := make([]byte, 700)
	parent.Fill(a)
	dup.Fill(b)
	if !bytes.Equal(a, b) {
		t.Fatalf("fork did not advance the parent by exactly %d bytes", SeedSize)
	}

	want := New(&childSeed)
	c1 := make([]byte, 700)
	c2 := make([]byte, 700)
	child.Fill(c1)
	want.Fill(c2)
	if !bytes.Equal(c1, c2) {
		t.Fatalf("child is not seeded from the parent's next 32 bytes")
	}
}

func TestForkChildNotInParentStream(t *testing.T) {
	seed := testSeed()
	parent := New(&seed)
	past := make([]byte, 4096)
	parent.Fill(past)

	child := parent.Child()
	future := make([]byte, 4096)
	parent.Fill(future)

	head := make([]byte, 16)
	child.Fill(head)
	if bytes.Contains(past, head) || bytes.Contains(future, head) {
		t.Fatalf("child output found in parent stream")
	}
}

func TestForkIntoUsedGenerator(t *testing.T) {
	s1, s2 := testSeed(), testSeed()
	p1, p2 := New(&s1), New(&s2)

	used := p1.Child()
	used.Fill(make([]byte, 1234))
	p1.Fork(used)

	// p1 gave its first 32 bytes to the earlier child; skip them on p2 too.
	p2.Fill(make([]byte, SeedSize))
	fresh := p2.Child()
	a := make([]byte, 64)
	b := make([]byte, 64)
	used.Fill(a)
	fresh.Fill(b)
	if !bytes.Equal(a, b) {
		t.Fatalf("Fork into a used generator did not fully reseed it")
	}
	if used.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", used.Generation())
	}
}

func TestWipe(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	g.Wipe()
	if g.pool != ([PoolSize]byte{}) || g.cursor != 0 || g.Buffered() != 0 {
		t.Fatalf("state not wiped")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on read after Wipe")
		}
	}()
	g.Fill(make([]byte, 1))
}

func TestUseBeforeInitPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on zero Generator")
		}
	}()
	var g Generator
	_, _ = g.Read(make([]byte, 1))
}

func TestBuffered(t *testing.T) {
	seed := testSeed()
	g := New(&seed)
	if g.Buffered() != BlockSize {
		t.Fatalf("Buffered = %d, want %d", g.Buffered(), BlockSize)
	}
	g.Fill(make([]byte, 100))
	if g.Buffered() != BlockSize-100 {
		t.Fatalf("Buffered = %d, want %d", g.Buffered(), BlockSize-100)
	}
}

func BenchmarkRead(b *testing.B) {
	seed := testSeed()
	g := New(&seed)
	buf := make([]byte, 64*1024)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Fill(buf)
	}
}

func BenchmarkFork(b *testing.B) {
	seed := testSeed()
	g := New(&seed)
	var child Generator
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Fork(&child)
	}
}

func TestWipeZeroesBuffer(t *testing.T) {
	b := bytes.Repeat([]byte{0xaa}, 100)
	wipe(b)
	if !bytes.Equal(b, make([]byte, 100)) {
		t.Fatalf("wipe left data behind: %x", b)
	}
}
