// Package kdf implements the deterministic counter-mode stream shared by the
// PRP's Fisher-Yates shuffle, SubsetGen, and the HintEngine's per-block iPRF
// key derivation.
//
// Every stream is built the same way: a monotonically increasing 64-bit
// counter is placed in a 16-byte block alongside an 8-byte domain-separation
// constant, the block is encrypted, and the ciphertext supplies 16 fresh
// bytes. Bytes [0,8) hold the counter little-endian, bytes [8,16) hold the
// domain-separation constant.
package kdf

import (
	"encoding/binary"

	"plinkopir/internal/blockcipher"
)

// plnkTag is the domain-separation tag "PLNK" used for per-block iPRF key
// derivation.
const plnkTag uint32 = 0x504C4E4B

// Stream is a deterministic counter-mode random stream keyed by a block
// cipher. The same (key, domainSep) always produces the same sequence.
type Stream struct {
	cipher    *blockcipher.Cipher
	domainSep uint64
	counter   uint64
}

// NewStream creates a counter-mode stream. domainSep occupies the high
// 8 bytes of each input block (the SubsetGen seed, or the high half of the
// PRP shuffle nonce).
func NewStream(key blockcipher.Key128, domainSep uint64) *Stream {
	return &Stream{cipher: blockcipher.New(key), domainSep: domainSep}
}

// NextBlock advances the stream by one AES evaluation and returns the raw
// 16-byte output.
func (s *Stream) NextBlock() [blockcipher.BlockSize]byte {
	var in [blockcipher.BlockSize]byte
	binary.LittleEndian.PutUint64(in[0:8], s.counter)
	binary.LittleEndian.PutUint64(in[8:16], s.domainSep)
	s.counter++
	return s.cipher.EncryptBlock(in)
}

// NextUint64 returns the leading 64 bits of the next stream block.
func (s *Stream) NextUint64() uint64 {
	block := s.NextBlock()
	return binary.BigEndian.Uint64(block[:8])
}

// Uint64N draws an integer uniformly from [0, k) via rejection sampling:
// let t = 2^64 mod k; draw words, reject any r < t; otherwise return r mod
// k. Because [t, 2^64) has size exactly a multiple of k, r mod k is
// exactly uniform over the accepted range. Panics if k is zero; callers
// never draw from an empty range.
func (s *Stream) Uint64N(k uint64) uint64 {
	if k == 0 {
		panic("kdf: Uint64N(0)")
	}
	if k == 1 {
		return 0
	}
	t := -k % k // 2^64 mod k, computed without an intermediate overflow
	for {
		r := s.NextUint64()
		if r < t {
			continue
		}
		return r % k
	}
}

// DeriveBlockKey derives the 32-byte per-block iPRF key used to seed block
// alpha's iPRF instance:
//
//	AES(masterKey, blockIdx || "PLNK" || counter) for counter in {0,1},
//	concatenated to 32 bytes.
//
// masterKey is the 16-byte component used as the AES key for this
// derivation (the caller passes the first 16 bytes of the HintEngine's
// 32-byte master secret).
func DeriveBlockKey(masterKey blockcipher.Key128, blockIdx uint64) [32]byte {
	c := blockcipher.New(masterKey)

	var out [32]byte
	for counter := uint32(0); counter < 2; counter++ {
		var in [blockcipher.BlockSize]byte
		binary.BigEndian.PutUint64(in[0:8], blockIdx)
		binary.BigEndian.PutUint32(in[8:12], plnkTag)
		binary.BigEndian.PutUint32(in[12:16], counter)

		block := c.EncryptBlock(in)
		copy(out[counter*16:counter*16+16], block[:])
	}
	return out
}

// SplitKey32 splits a 32-byte iPRF key into its two 16-byte PRP/PMNS halves.
func SplitKey32(key [32]byte) (k1, k2 blockcipher.Key128) {
	copy(k1[:], key[:16])
	copy(k2[:], key[16:])
	return k1, k2
}
