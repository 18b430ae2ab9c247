// Package hintengine implements the Plinko hint-set state machine: the
// regular/backup/promoted hint lifecycle built on top of one iPRF instance
// per database block, streaming construction via ProcessEntry, query
// planning via GetHint, promotion via ConsumeHint, and online update via
// UpdateHint.
package hintengine

import (
	"fmt"
	"sort"

	"plinkopir/internal/blockcipher"
	"plinkopir/internal/iprf"
	"plinkopir/internal/kdf"
	"plinkopir/internal/subsetgen"
)

// Parity is a 256-bit accumulator manipulated exclusively via XOR.
type Parity [4]uint64

// XOR accumulates other into p in place.
func (p *Parity) XOR(other Parity) {
	for i := range p {
		p[i] ^= other[i]
	}
}

func xorOf(a, b Parity) Parity {
	out := a
	out.XOR(b)
	return out
}

// RegularHint covers |B| = floor(c/2)+1 blocks with a single parity.
type RegularHint struct {
	Blocks []uint64
	Parity Parity
}

// BackupHint covers |B| = floor(c/2) blocks with separate in/out parities.
type BackupHint struct {
	Blocks    []uint64
	ParityIn  Parity
	ParityOut Parity
}

// PromotedHint is a spent backup hint, now bound to the database index that
// caused its promotion.
type PromotedHint struct {
	Blocks     []uint64
	QueryIndex uint64
	Parity     Parity
}

type cacheEntry struct {
	value   Parity
	hintIdx uint64
}

// Engine is a single HintEngine instance, owned by one task.
type Engine struct {
	n, w           uint64
	lambda, q      uint32
	c              uint64
	numReg, numBkp uint64
	hintDomain     uint64
	masterKey      [32]byte
	blocks         []*iprf.IPRF
	subsetGen      *subsetgen.Gen

	regular  []*RegularHint
	backup   []*BackupHint
	promoted []*PromotedHint

	consumedRegular map[uint64]bool
	nextBackup      uint64
	cache           map[uint64]cacheEntry
}

// New constructs an Engine for database size n, block size w, security
// parameter lambda, and refresh budget q, keyed by a 32-byte master secret.
// Rejects n not a multiple of w, and w not a power of two (PMNS requires a
// power-of-two range, and each block's iPRF uses w as its range).
func New(n, w uint64, lambda, q uint32, masterKey [32]byte) (*Engine, error) {
	if w == 0 {
		return nil, fmt.Errorf("hintengine: block size w cannot be zero")
	}
	if n%w != 0 {
		return nil, fmt.Errorf("hintengine: n=%d is not a multiple of w=%d", n, w)
	}
	if w&(w-1) != 0 {
		return nil, fmt.Errorf("hintengine: block size w=%d is not a power of two", w)
	}

	c := n / w
	numReg := uint64(lambda) * w
	numBkp := uint64(q)
	hintDomain := numReg + numBkp

	var masterHalf blockcipher.Key128
	copy(masterHalf[:], masterKey[:16])

	blocks := make([]*iprf.IPRF, c)
	for alpha := uint64(0); alpha < c; alpha++ {
		blockKey := kdf.DeriveBlockKey(masterHalf, alpha)
		blocks[alpha] = iprf.New(blockKey, hintDomain, w)
	}

	sg := subsetgen.New(masterHalf)

	e := &Engine{
		n: n, w: w, lambda: lambda, q: q,
		c: c, numReg: numReg, numBkp: numBkp, hintDomain: hintDomain,
		masterKey: masterKey,
		blocks:    blocks,
		subsetGen: sg,
	}
	e.initializeHints()
	return e, nil
}

// initializeHints draws the regular and backup block subsets from
// SubsetGen and resets all lifecycle state.
func (e *Engine) initializeHints() {
	halfC := e.c / 2

	e.regular = make([]*RegularHint, e.numReg)
	for j := uint64(0); j < e.numReg; j++ {
		blocks := e.subsetGen.Generate(j, halfC+1, e.c)
		sort.Slice(blocks, func(i, k int) bool { return blocks[i] < blocks[k] })
		e.regular[j] = &RegularHint{Blocks: blocks}
	}

	e.backup = make([]*BackupHint, e.numBkp)
	for k := uint64(0); k < e.numBkp; k++ {
		blocks := e.subsetGen.Generate(e.numReg+k, halfC, e.c)
		sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
		e.backup[k] = &BackupHint{Blocks: blocks}
	}

	e.promoted = make([]*PromotedHint, e.numBkp)
	e.consumedRegular = make(map[uint64]bool)
	e.nextBackup = 0
	e.cache = make(map[uint64]cacheEntry)
}

// containsBlock reports whether alpha is a member of a sorted block slice.
func containsBlock(blocks []uint64, alpha uint64) bool {
	i := sort.Search(len(blocks), func(i int) bool { return blocks[i] >= alpha })
	return i < len(blocks) && blocks[i] == alpha
}

// complementBlocks returns [0,c) \ blocks, blocks assumed sorted.
func complementBlocks(blocks []uint64, c uint64) []uint64 {
	out := make([]uint64, 0, c-uint64(len(blocks)))
	idx := 0
	for alpha := uint64(0); alpha < c; alpha++ {
		if idx < len(blocks) && blocks[idx] == alpha {
			idx++
			continue
		}
		out = append(out, alpha)
	}
	return out
}

// unionBlock returns blocks with alpha inserted if absent, preserving sort
// order. Does not mutate blocks.
func unionBlock(blocks []uint64, alpha uint64) []uint64 {
	i := sort.Search(len(blocks), func(i int) bool { return blocks[i] >= alpha })
	if i < len(blocks) && blocks[i] == alpha {
		return blocks
	}
	out := make([]uint64, 0, len(blocks)+1)
	out = append(out, blocks[:i]...)
	out = append(out, alpha)
	out = append(out, blocks[i:]...)
	return out
}

// ProcessEntry streams one database entry into every hint parity the
// per-block iPRF maps it to. Indices outside [0, n) are silently ignored.
func (e *Engine) ProcessEntry(i uint64, value Parity) {
	if i >= e.n {
		return
	}
	alpha := i / e.w
	beta := i % e.w
	if alpha >= e.c {
		return
	}
	for _, j := range e.blocks[alpha].Inverse(beta) {
		if j < e.numReg {
			if containsBlock(e.regular[j].Blocks, alpha) {
				e.regular[j].Parity.XOR(value)
			}
			continue
		}
		k := j - e.numReg
		if containsBlock(e.backup[k].Blocks, alpha) {
			e.backup[k].ParityIn.XOR(value)
		} else {
			e.backup[k].ParityOut.XOR(value)
		}
	}
}
