// Package prp implements a small-domain pseudorandom permutation: a keyed
// bijection on [0, n) built once as a pair of lookup tables via a
// deterministic Fisher-Yates shuffle. The table approach is simple,
// constant-time per operation, and guaranteed bijective, which is why it
// is used here instead of cycle-walking or a Feistel construction.
package prp

import (
	"fmt"

	"plinkopir/internal/blockcipher"
	"plinkopir/internal/kdf"
)

// PRP is a keyed bijection on [0, n). Built once at construction; the
// tables are never mutated afterward.
type PRP struct {
	n       uint64
	forward []uint64 // forward[i] = i's image
	inverse []uint64 // inverse[forward[i]] = i
}

// New builds a PRP over [0, n) keyed by key. n must be at least 1.
//
// The build procedure initializes forward[i] = i, then walks i from n-1
// down to 1, drawing j uniformly from [0, i+1) via the counter-mode stream
// in internal/kdf and swapping forward[i] with forward[j]. This is a
// textbook Fisher-Yates shuffle seeded by a PRF rather than a system RNG,
// so the same (key, n) always yields the same permutation.
func New(key blockcipher.Key128, n uint64) *PRP {
	if n == 0 {
		panic("prp: domain size n cannot be zero")
	}

	forward := make([]uint64, n)
	for i := range forward {
		forward[i] = uint64(i)
	}

	// domainSep = 0: the shuffle is the only consumer of this key.
	stream := kdf.NewStream(key, 0)
	for i := n - 1; i > 0; i-- {
		j := stream.Uint64N(i + 1)
		forward[i], forward[j] = forward[j], forward[i]
	}

	inverse := make([]uint64, n)
	for i, y := range forward {
		inverse[y] = uint64(i)
	}

	return &PRP{n: n, forward: forward, inverse: inverse}
}

// DomainSize returns n.
func (p *PRP) DomainSize() uint64 { return p.n }

// Forward evaluates the permutation at x. Panics if x is out of [0, n).
func (p *PRP) Forward(x uint64) uint64 {
	if x >= p.n {
		panic(fmt.Sprintf("prp: Forward(%d) out of domain [0, %d)", x, p.n))
	}
	return p.forward[x]
}

// Inverse computes the preimage of y. Panics if y is out of [0, n).
func (p *PRP) Inverse(y uint64) uint64 {
	if y >= p.n {
		panic(fmt.Sprintf("prp: Inverse(%d) out of domain [0, %d)", y, p.n))
	}
	return p.inverse[y]
}
