// Package iprf composes a PRP and a PMNS into an invertible pseudorandom
// function: forward(x) = PMNS.Forward(PRP.Forward(x)), inverse(y) =
// { PRP.Inverse(u) : u in PMNS.Backward(y) }, with preimages always
// returned in the original domain [0, n), never the permuted space PMNS
// operates on internally. Both transformations must be undone on the
// inverse path, not just one.
package iprf

import (
	"sort"

	"plinkopir/internal/blockcipher"
	"plinkopir/internal/kdf"
	"plinkopir/internal/pmns"
	"plinkopir/internal/prp"
)

// IPRF is the composed invertible pseudorandom function over [0, n) -> [0, m).
type IPRF struct {
	prp  *prp.PRP
	pmns *pmns.PMNS
}

// New builds an IPRF from a 32-byte key, split into a 16-byte PRP half and
// a 16-byte PMNS half.
func New(key [32]byte, n, m uint64) *IPRF {
	k1, k2 := kdf.SplitKey32(key)
	return &IPRF{
		prp:  prp.New(k1, n),
		pmns: pmns.New(k2, n, m),
	}
}

// NewFromHalves builds an IPRF from explicit PRP/PMNS keys, for callers
// that already hold split key material.
func NewFromHalves(prpKey, pmnsKey blockcipher.Key128, n, m uint64) *IPRF {
	return &IPRF{prp: prp.New(prpKey, n), pmns: pmns.New(pmnsKey, n, m)}
}

// DomainSize returns n.
func (f *IPRF) DomainSize() uint64 { return f.prp.DomainSize() }

// RangeSize returns m.
func (f *IPRF) RangeSize() uint64 { return f.pmns.RangeSize() }

// Forward evaluates F(x) = PMNS.Forward(PRP.Forward(x)).
func (f *IPRF) Forward(x uint64) uint64 {
	return f.pmns.Forward(f.prp.Forward(x))
}

// Inverse returns, in ascending order of the original domain, every x such
// that Forward(x) == y. Preimages are always in [0, n), never the permuted
// space PMNS operates on internally: each PMNS preimage is run back through
// PRP.Inverse before being returned.
func (f *IPRF) Inverse(y uint64) []uint64 {
	permuted := f.pmns.Backward(y)
	out := make([]uint64, len(permuted))
	for i, u := range permuted {
		out[i] = f.prp.Inverse(u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
