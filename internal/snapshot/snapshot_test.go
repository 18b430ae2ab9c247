package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPublishWritesManifestAndSymlink(t *testing.T) {
	root := t.TempDir()
	payload := []byte("hint engine serialized parity state")

	manifest, err := Publish(root, "", payload, 64, 8, 2, 3, nil)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if manifest.Version == "" {
		t.Fatal("expected derived version from content hash")
	}
	if len(manifest.Files) != 1 || manifest.Files[0].Size != int64(len(payload)) {
		t.Fatalf("unexpected manifest files: %+v", manifest.Files)
	}

	dataPath := filepath.Join(root, "snapshots", manifest.Version, "hints.bin")
	got, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("read snapshot data: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatal("snapshot payload mismatch")
	}

	latest := filepath.Join(root, "snapshots", "latest")
	target, err := os.Readlink(latest)
	if err != nil {
		t.Fatalf("readlink latest: %v", err)
	}
	if target != manifest.Version {
		t.Fatalf("latest symlink points to %q, want %q", target, manifest.Version)
	}
}

func TestPublishDeterministicVersionFromContent(t *testing.T) {
	root1, root2 := t.TempDir(), t.TempDir()
	payload := []byte("identical content")

	m1, err := Publish(root1, "", payload, 1, 1, 1, 1, nil)
	if err != nil {
		t.Fatalf("Publish 1: %v", err)
	}
	m2, err := Publish(root2, "", payload, 1, 1, 1, 1, nil)
	if err != nil {
		t.Fatalf("Publish 2: %v", err)
	}
	if m1.Version != m2.Version {
		t.Fatalf("identical payloads produced different versions: %s vs %s", m1.Version, m2.Version)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	size, hash, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if size != 5 {
		t.Fatalf("size = %d, want 5", size)
	}
	if len(hash) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(hash))
	}
}
