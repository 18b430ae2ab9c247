package ingest

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// LoadAddressMapping reads the fixed 24-byte-per-entry (20-byte address +
// little-endian uint32 index) table published alongside a database
// snapshot, mapping lower-cased hex addresses to database indices.
func LoadAddressMapping(path string) (map[string]uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: read address mapping: %w", err)
	}

	const entrySize = 24
	if len(data)%entrySize != 0 {
		return nil, fmt.Errorf("ingest: address mapping size %d is not a multiple of %d", len(data), entrySize)
	}

	mapping := make(map[string]uint64, len(data)/entrySize)
	for offset := 0; offset < len(data); offset += entrySize {
		addrBytes := data[offset : offset+20]
		index := binary.LittleEndian.Uint32(data[offset+20 : offset+24])
		addr := strings.ToLower(common.BytesToAddress(addrBytes).Hex())
		mapping[addr] = uint64(index)
	}
	return mapping, nil
}
