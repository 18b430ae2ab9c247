package prp

import (
	"testing"

	"plinkopir/internal/blockcipher"
)

func zeroKey() blockcipher.Key128 {
	return blockcipher.Key128{}
}

func TestBijectionAndCoverage(t *testing.T) {
	for _, n := range []uint64{1, 2, 10, 100, 1000} {
		p := New(zeroKey(), n)
		seen := make(map[uint64]bool, n)
		for x := uint64(0); x < n; x++ {
			y := p.Forward(x)
			if y >= n {
				t.Fatalf("n=%d: Forward(%d)=%d out of range", n, x, y)
			}
			if seen[y] {
				t.Fatalf("n=%d: collision at y=%d", n, y)
			}
			seen[y] = true
			if p.Inverse(y) != x {
				t.Fatalf("n=%d: Inverse(Forward(%d))=%d, want %d", n, x, p.Inverse(y), x)
			}
		}
		if len(seen) != int(n) {
			t.Fatalf("n=%d: only %d/%d values covered", n, len(seen), n)
		}
		for y := uint64(0); y < n; y++ {
			x := p.Inverse(y)
			if p.Forward(x) != y {
				t.Fatalf("n=%d: Forward(Inverse(%d))=%d, want %d", n, y, p.Forward(x), y)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	key := zeroKey()
	key[0] = 7
	p1 := New(key, 500)
	p2 := New(key, 500)
	for x := uint64(0); x < 500; x++ {
		if p1.Forward(x) != p2.Forward(x) {
			t.Fatalf("non-deterministic at x=%d", x)
		}
	}
}

func TestDistinctKeysDiverge(t *testing.T) {
	k1 := zeroKey()
	k2 := zeroKey()
	k2[0] = 1
	p1 := New(k1, 1000)
	p2 := New(k2, 1000)
	diff := 0
	for x := uint64(0); x < 1000; x++ {
		if p1.Forward(x) != p2.Forward(x) {
			diff++
		}
	}
	if diff < 900 {
		t.Fatalf("distinct keys only disagreed on %d/1000 positions", diff)
	}
}

func TestOutOfDomainPanics(t *testing.T) {
	p := New(zeroKey(), 10)

	mustPanic := func(name string, f func()) {
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		f()
	}
	mustPanic("Forward(10)", func() { p.Forward(10) })
	mustPanic("Inverse(10)", func() { p.Inverse(10) })
}

func TestSmokeN2(t *testing.T) {
	p := New(zeroKey(), 2)
	y0, y1 := p.Forward(0), p.Forward(1)
	if y0 == y1 {
		t.Fatalf("Forward(0) == Forward(1) == %d", y0)
	}
	if p.Inverse(y0) != 0 || p.Inverse(y1) != 1 {
		t.Fatalf("inverse mismatch for n=2")
	}
}
