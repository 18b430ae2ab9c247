package iprf

import "testing"

func keyOf(b byte) [32]byte {
	var k [32]byte
	for i := range k {
		k[i] = b
	}
	return k
}

func TestRoundTrip(t *testing.T) {
	var key [32]byte
	for i := 0; i < 16; i++ {
		key[i] = byte(i)
		key[i+16] = byte(i)
	}
	f := New(key, 1024, 256)

	for x := uint64(0); x < 1024; x++ {
		y := f.Forward(x)
		if y >= 256 {
			t.Fatalf("Forward(%d) = %d out of range", x, y)
		}
		preimages := f.Inverse(y)
		found := false
		for _, v := range preimages {
			if v >= 1024 {
				t.Fatalf("Inverse(%d) returned %d outside original domain [0,1024)", y, v)
			}
			if v == x {
				found = true
			}
		}
		if !found {
			t.Fatalf("x=%d not found in Inverse(Forward(%d))=%v", x, x, preimages)
		}
	}
}

func TestCoverage(t *testing.T) {
	f := New(keyOf(3), 500, 64)
	total := 0
	seen := make(map[uint64]bool, 500)
	for y := uint64(0); y < 64; y++ {
		for _, x := range f.Inverse(y) {
			if seen[x] {
				t.Fatalf("duplicate preimage x=%d", x)
			}
			seen[x] = true
			total++
		}
	}
	if total != 500 {
		t.Fatalf("total coverage = %d, want 500", total)
	}
}

func TestDeterminism(t *testing.T) {
	key := keyOf(9)
	f1 := New(key, 777, 32)
	f2 := New(key, 777, 32)
	for x := uint64(0); x < 777; x++ {
		if f1.Forward(x) != f2.Forward(x) {
			t.Fatalf("non-deterministic forward at x=%d", x)
		}
	}
}
