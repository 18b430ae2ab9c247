package hintengine

import "testing"

func TestDeriveParamsPowerOfTwo(t *testing.T) {
	for _, dbSize := range []uint64{1, 7, 64, 1000, 1 << 20} {
		w, c := DeriveParams(dbSize)
		if w&(w-1) != 0 {
			t.Fatalf("DeriveParams(%d): w=%d is not a power of two", dbSize, w)
		}
		if c*w < dbSize {
			t.Fatalf("DeriveParams(%d): c*w=%d smaller than dbSize", dbSize, c*w)
		}
	}
}

func TestDeriveParamsZero(t *testing.T) {
	w, c := DeriveParams(0)
	if w != 1 || c != 0 {
		t.Fatalf("DeriveParams(0) = (%d, %d), want (1, 0)", w, c)
	}
}
