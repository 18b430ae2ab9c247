// Package blockcipher wraps the single 128-bit block permutation (C1) used
// everywhere in this repository as a PRF and as a deterministic stream
// source: PRP table construction, PMNS node sampling, SubsetGen, and key
// derivation all bottom out in a single Cipher.
package blockcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// KeySize is the fixed 128-bit key width used throughout the core.
const KeySize = 16

// BlockSize is the fixed 128-bit block width.
const BlockSize = aes.BlockSize

// Key128 is an opaque 128-bit key.
type Key128 [KeySize]byte

// Cipher is a keyed 128-bit block permutation backed by the standard
// library's AES-128, which selects a hardware-accelerated path when
// available and runs constant-time otherwise.
type Cipher struct {
	block cipher.Block
}

// New builds a Cipher from a 128-bit key.
func New(key Key128) *Cipher {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		panic(fmt.Sprintf("blockcipher: %v", err))
	}
	return &Cipher{block: block}
}

// Encrypt writes the encryption of in into out. in and out may alias.
func (c *Cipher) Encrypt(out, in *[BlockSize]byte) {
	c.block.Encrypt(out[:], in[:])
}

// EncryptBlock is a convenience wrapper over Encrypt taking and returning
// fresh arrays, for callers that don't need to manage buffers themselves.
func (c *Cipher) EncryptBlock(in [BlockSize]byte) [BlockSize]byte {
	var out [BlockSize]byte
	c.block.Encrypt(out[:], in[:])
	return out
}
