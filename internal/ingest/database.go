package ingest

import (
	"encoding/binary"
	"fmt"
	"os"

	"plinkopir/internal/hintengine"
)

// LoadDatabase reads the flat 8-byte-per-entry little-endian database file
// published alongside a snapshot into an n-entry slice of parities, zero
// padding when the file holds fewer than n entries and ignoring anything
// beyond n. Each file entry occupies the low word of its parity; the high
// words stay zero, matching how EthBlockSource records balances.
func LoadDatabase(path string, n uint64) ([]hintengine.Parity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read database: %w", err)
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("ingest: database size %d is not a multiple of 8", len(data))
	}

	entries := uint64(len(data) / 8)
	if entries > n {
		entries = n
	}

	db := make([]hintengine.Parity, n)
	for i := uint64(0); i < entries; i++ {
		db[i] = hintengine.Parity{binary.LittleEndian.Uint64(data[i*8 : (i+1)*8]), 0, 0, 0}
	}
	return db, nil
}
