package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestSimulatedSourceDeterministic(t *testing.T) {
	s1 := NewSimulatedSource(100, 5)
	s2 := NewSimulatedSource(100, 5)

	for tick := 0; tick < 10; tick++ {
		u1, ok1, err1 := s1.Next()
		u2, ok2, err2 := s2.Next()
		if err1 != nil || err2 != nil {
			t.Fatalf("tick %d: errors %v %v", tick, err1, err2)
		}
		if ok1 != ok2 || len(u1) != len(u2) {
			t.Fatalf("tick %d: shape mismatch", tick)
		}
		for i := range u1 {
			if u1[i] != u2[i] {
				t.Fatalf("tick %d update %d differs: %+v vs %+v", tick, i, u1[i], u2[i])
			}
		}
	}
}

func TestSimulatedSourceDeltaConsistency(t *testing.T) {
	s := NewSimulatedSource(50, 3)
	for tick := 0; tick < 5; tick++ {
		updates, ok, err := s.Next()
		if err != nil || !ok {
			t.Fatalf("Next: ok=%v err=%v", ok, err)
		}
		for _, u := range updates {
			want := u.OldValue
			want.XOR(u.NewValue)
			if want != u.Delta {
				t.Fatalf("delta mismatch for index %d: got %v want %v", u.Index, u.Delta, want)
			}
		}
	}
}

func TestLoadDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.bin")

	buf := make([]byte, 24)
	buf[0] = 0x11  // entry 0 = 0x11
	buf[8] = 0x22  // entry 1 = 0x22
	buf[16] = 0x33 // entry 2 = 0x33
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	db, err := LoadDatabase(path, 5)
	if err != nil {
		t.Fatalf("LoadDatabase: %v", err)
	}
	if len(db) != 5 {
		t.Fatalf("len(db) = %d, want 5", len(db))
	}
	for i, want := range []uint64{0x11, 0x22, 0x33, 0, 0} {
		if db[i][0] != want || db[i][1] != 0 || db[i][2] != 0 || db[i][3] != 0 {
			t.Fatalf("db[%d] = %v, want low word %#x", i, db[i], want)
		}
	}
}

func TestLoadDatabaseRejectsRaggedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.bin")
	if err := os.WriteFile(path, make([]byte, 13), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadDatabase(path, 5); err == nil {
		t.Fatal("expected error for file size not a multiple of 8")
	}
}

func TestLoadAddressMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "address-mapping.bin")

	addr1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	addr2 := common.HexToAddress("0x2222222222222222222222222222222222222222")

	buf := make([]byte, 48)
	copy(buf[0:20], addr1.Bytes())
	buf[20] = 7 // index 7, little-endian
	copy(buf[24:44], addr2.Bytes())
	buf[44] = 9 // index 9

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	mapping, err := LoadAddressMapping(path)
	if err != nil {
		t.Fatalf("LoadAddressMapping: %v", err)
	}
	key1, key2 := strings.ToLower(addr1.Hex()), strings.ToLower(addr2.Hex())
	if mapping[key1] != 7 {
		t.Fatalf("addr1 index = %d, want 7", mapping[key1])
	}
	if mapping[key2] != 9 {
		t.Fatalf("addr2 index = %d, want 9", mapping[key2])
	}
}
