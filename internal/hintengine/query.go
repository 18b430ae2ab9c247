package hintengine

import (
	"crypto/rand"
	"encoding/binary"
)

// Plan is a query plan returned by GetHint: reading database index
// alpha*w+beta requires XORing DB[b*w + Offsets[b]] over every block b in
// Blocks, which must equal Parity. Offsets holds one entry per block of the
// database (length c), indexed by block number.
type Plan struct {
	HintIdx    uint64
	Blocks     []uint64
	Parity     Parity
	Offsets    []uint64
	IsPromoted bool
}

// cryptoUint64N draws an unbiased integer from [0, k) using the host's
// cryptographic RNG, not a PRF: the hint shuffle is the one place in the
// core that needs a genuine entropy source.
func cryptoUint64N(k uint64) uint64 {
	if k <= 1 {
		return 0
	}
	t := -k % k
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic(err)
		}
		r := binary.BigEndian.Uint64(buf[:])
		if r < t {
			continue
		}
		return r % k
	}
}

// cryptoShuffle performs an in-place Fisher-Yates shuffle sourced from
// crypto/rand.
func cryptoShuffle(s []uint64) {
	for i := len(s) - 1; i > 0; i-- {
		j := cryptoUint64N(uint64(i + 1))
		s[i], s[j] = s[j], s[i]
	}
}

// offsetsForHint builds the per-block intra-block offset vector for hint j:
// offsets[k] = iprf[k].forward(j).
func (e *Engine) offsetsForHint(j uint64) []uint64 {
	offsets := make([]uint64, e.c)
	for k := uint64(0); k < e.c; k++ {
		offsets[k] = e.blocks[k].Forward(j)
	}
	return offsets
}

// GetHint returns a query plan for reading database index alpha*w+beta, or
// ok=false if no hint currently covers that coordinate. A normal protocol
// event, not a fault: callers must refresh or fall back.
func (e *Engine) GetHint(alpha, beta uint64) (Plan, bool) {
	if alpha >= e.c || beta >= e.w {
		return Plan{}, false
	}

	candidates := e.blocks[alpha].Inverse(beta)
	shuffled := make([]uint64, len(candidates))
	copy(shuffled, candidates)
	cryptoShuffle(shuffled)

	for _, j := range shuffled {
		if j >= e.numReg {
			continue
		}
		if e.consumedRegular[j] {
			continue
		}
		if !containsBlock(e.regular[j].Blocks, alpha) {
			continue
		}
		return Plan{
			HintIdx: j,
			Blocks:  e.regular[j].Blocks,
			Parity:  e.regular[j].Parity,
			Offsets: e.offsetsForHint(j),
		}, true
	}

	for _, j := range shuffled {
		if j < e.numReg {
			continue
		}
		k := j - e.numReg
		p := e.promoted[k]
		if p == nil {
			continue
		}
		alphaStar := p.QueryIndex / e.w
		betaStar := p.QueryIndex % e.w
		if alpha == alphaStar && beta != betaStar {
			continue
		}
		offsets := e.offsetsForHint(j)
		offsets[alphaStar] = betaStar
		return Plan{
			HintIdx:    j,
			Blocks:     unionBlock(p.Blocks, alphaStar),
			Parity:     p.Parity,
			Offsets:    offsets,
			IsPromoted: true,
		}, true
	}

	return Plan{}, false
}

// ConsumeHint records the outcome of a completed query and, if the
// consumed hint was regular, promotes the next available backup hint.
func (e *Engine) ConsumeHint(hintIdx, queryIdx uint64, value Parity) {
	e.cache[queryIdx] = cacheEntry{value: value, hintIdx: hintIdx}

	if hintIdx >= e.numReg {
		return
	}
	e.consumedRegular[hintIdx] = true

	if e.nextBackup >= e.numBkp {
		return
	}
	k := e.nextBackup
	e.nextBackup++

	b := e.backup[k]
	alpha := queryIdx / e.w
	if containsBlock(b.Blocks, alpha) {
		e.promoted[k] = &PromotedHint{
			Blocks:     b.Blocks,
			QueryIndex: queryIdx,
			Parity:     xorOf(b.ParityOut, value),
		}
	} else {
		e.promoted[k] = &PromotedHint{
			Blocks:     complementBlocks(b.Blocks, e.c),
			QueryIndex: queryIdx,
			Parity:     xorOf(b.ParityIn, value),
		}
	}
	e.backup[k] = nil
}

// GetCached returns the plaintext cached for database index i, if any.
func (e *Engine) GetCached(i uint64) (Parity, bool) {
	entry, ok := e.cache[i]
	if !ok {
		return Parity{}, false
	}
	return entry.value, true
}
