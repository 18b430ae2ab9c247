// Package subsetgen implements a deterministic fixed-size subset
// generator: given a 16-byte key and a (seed, size, total) triple, it
// draws a uniform-ish subset of [0, total) of the requested size by walking
// an AES counter-mode stream and reducing each word modulo total, dropping
// duplicates. The modulo reduction introduces a small bias when total
// isn't a divisor of 2^32; tolerated here rather than rejection-sampled,
// since the subsets it produces aren't security-sensitive.
package subsetgen

import (
	"encoding/binary"
	"fmt"

	"plinkopir/internal/blockcipher"
)

// Gen is a keyed deterministic subset generator over [0, total).
type Gen struct {
	cipher *blockcipher.Cipher
}

// New builds a Gen from a 16-byte key.
func New(key blockcipher.Key128) *Gen {
	return &Gen{cipher: blockcipher.New(key)}
}

// wordsForCounter encrypts counter||seed and splits the 16-byte result into
// four big-endian 32-bit words.
func (g *Gen) wordsForCounter(counter, seed uint64) [4]uint32 {
	var in [blockcipher.BlockSize]byte
	binary.LittleEndian.PutUint64(in[0:8], counter)
	binary.LittleEndian.PutUint64(in[8:16], seed)
	out := g.cipher.EncryptBlock(in)

	var words [4]uint32
	for i := 0; i < 4; i++ {
		words[i] = binary.BigEndian.Uint32(out[i*4 : i*4+4])
	}
	return words
}

// Generate returns a size-element subset of [0, total) as a slice in
// admission order, which is deterministic but not ascending (callers
// needing ascending order should sort). Panics if size > total.
func (g *Gen) Generate(seed uint64, size, total uint64) []uint64 {
	if size > total {
		panic(fmt.Sprintf("subsetgen: size=%d exceeds total=%d", size, total))
	}
	if size == 0 {
		return nil
	}

	set := make(map[uint64]bool, size)
	order := make([]uint64, 0, size)
	counter := uint64(0)
	for uint64(len(order)) < size {
		words := g.wordsForCounter(counter, seed)
		counter++
		for _, w := range words {
			if uint64(len(order)) == size {
				break
			}
			candidate := uint64(w) % total
			if set[candidate] {
				continue
			}
			set[candidate] = true
			order = append(order, candidate)
		}
	}
	return order
}

// Contains reports whether idx would be admitted into Generate(seed, size,
// total) without materializing the full subset: it replays the same stream
// and returns true the moment idx is admitted, false once the subset fills
// without ever admitting it. Panics if size > total.
func (g *Gen) Contains(seed uint64, size, total, idx uint64) bool {
	if size > total {
		panic(fmt.Sprintf("subsetgen: size=%d exceeds total=%d", size, total))
	}
	if size == 0 {
		return false
	}

	set := make(map[uint64]bool, size)
	admitted := uint64(0)
	counter := uint64(0)
	for admitted < size {
		words := g.wordsForCounter(counter, seed)
		counter++
		for _, w := range words {
			if admitted == size {
				break
			}
			candidate := uint64(w) % total
			if set[candidate] {
				continue
			}
			set[candidate] = true
			admitted++
			if candidate == idx {
				return true
			}
		}
	}
	return false
}
