package hintengine

import (
	"encoding/binary"
	"fmt"
)

const (
	hintMagic   uint32 = 0x504C484E // "PLHN"
	hintVersion uint32 = 1
	headerSize         = 32
)

func writeParity(dst []byte, p Parity) {
	for i, word := range p {
		binary.LittleEndian.PutUint64(dst[i*8:i*8+8], word)
	}
}

func readParity(src []byte) Parity {
	var p Parity
	for i := range p {
		p[i] = binary.LittleEndian.Uint64(src[i*8 : i*8+8])
	}
	return p
}

// ToBytes persists the header and parity state only. Subset membership,
// consumedRegular, nextBackup, promoted, and cache are
// not part of the payload; FromBytes regenerates the first deterministically
// and resets the rest to empty. A backup slot already promoted at the time
// of serialization (backup[k] == nil) writes as zeros, matching the "zeros
// for null slots" rule stated for regular hints.
func (e *Engine) ToBytes() []byte {
	total := headerSize + int(e.numReg)*32 + int(e.numBkp)*64
	buf := make([]byte, total)

	binary.LittleEndian.PutUint32(buf[0:4], hintMagic)
	binary.LittleEndian.PutUint32(buf[4:8], hintVersion)
	binary.LittleEndian.PutUint64(buf[8:16], e.n)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(e.w))
	binary.LittleEndian.PutUint32(buf[20:24], e.lambda)
	binary.LittleEndian.PutUint32(buf[24:28], e.q)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(e.c))

	off := headerSize
	for j := uint64(0); j < e.numReg; j++ {
		writeParity(buf[off:off+32], e.regular[j].Parity)
		off += 32
	}
	for k := uint64(0); k < e.numBkp; k++ {
		var p Parity
		if e.backup[k] != nil {
			p = e.backup[k].ParityIn
		}
		writeParity(buf[off:off+32], p)
		off += 32
	}
	for k := uint64(0); k < e.numBkp; k++ {
		var p Parity
		if e.backup[k] != nil {
			p = e.backup[k].ParityOut
		}
		writeParity(buf[off:off+32], p)
		off += 32
	}
	return buf
}

// FromBytes validates the header, reconstructs a fresh Engine via New
// (which regenerates subset membership from masterKey deterministically),
// then overwrites parities from the payload. Rejects unknown magic,
// unsupported versions, a stored c disagreeing with the recomputed n/w, and
// a payload length that doesn't match the reconstructed parameters.
func FromBytes(data []byte, masterKey [32]byte) (*Engine, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("hintengine: payload too short for header (%d bytes)", len(data))
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != hintMagic {
		return nil, fmt.Errorf("hintengine: bad magic %#x", magic)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != hintVersion {
		return nil, fmt.Errorf("hintengine: unsupported version %d", version)
	}
	n := binary.LittleEndian.Uint64(data[8:16])
	w := uint64(binary.LittleEndian.Uint32(data[16:20]))
	lambda := binary.LittleEndian.Uint32(data[20:24])
	q := binary.LittleEndian.Uint32(data[24:28])
	storedC := uint64(binary.LittleEndian.Uint32(data[28:32]))

	if w == 0 || n%w != 0 {
		return nil, fmt.Errorf("hintengine: stored n=%d not a multiple of w=%d", n, w)
	}
	if n/w != storedC {
		return nil, fmt.Errorf("hintengine: stored c=%d disagrees with n/w=%d", storedC, n/w)
	}

	e, err := New(n, w, lambda, q, masterKey)
	if err != nil {
		return nil, err
	}

	expected := headerSize + int(e.numReg)*32 + int(e.numBkp)*64
	if len(data) != expected {
		return nil, fmt.Errorf("hintengine: payload length %d, want %d", len(data), expected)
	}

	off := headerSize
	for j := uint64(0); j < e.numReg; j++ {
		e.regular[j].Parity = readParity(data[off : off+32])
		off += 32
	}
	for k := uint64(0); k < e.numBkp; k++ {
		e.backup[k].ParityIn = readParity(data[off : off+32])
		off += 32
	}
	for k := uint64(0); k < e.numBkp; k++ {
		e.backup[k].ParityOut = readParity(data[off : off+32])
		off += 32
	}
	return e, nil
}
