// Package snapshot writes a HintEngine's serialized parity state to the
// public snapshot tree, manifests it with a blake3 content hash, and
// optionally publishes it to IPFS. Writes are atomic (write to a temp
// path, then rename) and a "latest" symlink always points at the most
// recently published version.
package snapshot

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"lukechampine.com/blake3"
)

// File describes one artifact inside a manifest.
type File struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Blake3 string `json:"blake3"`
}

// Manifest describes one published hint-state snapshot.
type Manifest struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	N           uint64    `json:"n"`
	W           uint64    `json:"w"`
	Lambda      uint32    `json:"lambda"`
	Q           uint32    `json:"q"`
	Files       []File    `json:"files"`
	CID         string    `json:"cid,omitempty"`
}

// Publish writes payload to <publicRoot>/snapshots/<version>/hints.bin,
// hashes it, writes manifest.json alongside it, updates the "latest"
// symlink, and returns the manifest. version is derived from the content
// hash when not explicitly set.
func Publish(publicRoot, version string, payload []byte, n, w uint64, lambda, q uint32, publisher *IPFSPublisher) (Manifest, error) {
	hash := blake3.Sum256(payload)
	hashHex := hex.EncodeToString(hash[:])

	if version == "" {
		version = hashHex[:12]
	}

	snapshotDir := filepath.Join(snapshotsDir(publicRoot), version)
	if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("snapshot: create dir: %w", err)
	}

	dataPath := filepath.Join(snapshotDir, "hints.bin")
	if err := atomicWrite(dataPath, payload); err != nil {
		return Manifest{}, fmt.Errorf("snapshot: write payload: %w", err)
	}

	manifest := Manifest{
		Version:     version,
		GeneratedAt: time.Now().UTC(),
		N:           n, W: w, Lambda: lambda, Q: q,
		Files: []File{{Path: "hints.bin", Size: int64(len(payload)), Blake3: hashHex}},
	}

	if publisher != nil {
		cid, err := publisher.PublishFile(dataPath, hashHex)
		if err != nil {
			return Manifest{}, fmt.Errorf("snapshot: publish to ipfs: %w", err)
		}
		manifest.CID = cid
	}

	if err := writeJSON(filepath.Join(snapshotDir, "manifest.json"), manifest); err != nil {
		return Manifest{}, fmt.Errorf("snapshot: write manifest: %w", err)
	}

	if err := updateLatestSymlink(snapshotsDir(publicRoot), version); err != nil {
		return Manifest{}, fmt.Errorf("snapshot: update latest symlink: %w", err)
	}

	return manifest, nil
}

func snapshotsDir(publicRoot string) string {
	if publicRoot == "" {
		return "snapshots"
	}
	return filepath.Join(publicRoot, "snapshots")
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func writeJSON(path string, v interface{}) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func updateLatestSymlink(rootDir, version string) error {
	latestPath := filepath.Join(rootDir, "latest")
	if _, err := os.Lstat(latestPath); err == nil {
		if err := os.Remove(latestPath); err != nil {
			return err
		}
	}
	return os.Symlink(version, latestPath)
}

// HashFile computes the blake3 digest of a file on disk, for callers that
// want to verify a snapshot against its manifest.
func HashFile(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	size, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(h.Sum(nil)), nil
}
