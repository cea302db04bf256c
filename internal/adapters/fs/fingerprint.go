package fs

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/zerr"
)

// Fingerprinter derives the cheap change detector of one asset.
type Fingerprinter interface {
	Fingerprint(name, path string, info os.FileInfo) (string, error)
}

// NewFingerprinter returns the fingerprinter for the given mode.
// An empty mode selects metadata fingerprints.
func NewFingerprinter(mode domain.FingerprintMode) (Fingerprinter, error) {
	mode, err := domain.ParseFingerprintMode(string(mode))
	if err != nil {
		return nil, err
	}
	if mode == domain.FingerprintContent {
		return ContentFingerprinter{}, nil
	}
	return MetadataFingerprinter{}, nil
}

// MetadataFingerprinter hashes the asset name with its modification time, size and birth time.
// It never reads file contents.
type MetadataFingerprinter struct{}

// Fingerprint implements Fingerprinter.
func (MetadataFingerprinter) Fingerprint(name, path string, info os.FileInfo) (string, error) {
	return MetadataFingerprint(name, info.ModTime().UnixMilli(), info.Size(), birthTimeMillis(path, info)), nil
}

// MetadataFingerprint computes xxhash64 over name, mtime, size and birth time in milliseconds.
func MetadataFingerprint(name string, mtimeMillis, size, birthMillis int64) string {
	hasher := xxhash.New()
	_, _ = hasher.WriteString(name)
	_, _ = hasher.Write([]byte{0})

	var buf [8]byte
	for _, v := range []int64{mtimeMillis, size, birthMillis} {
		binary.LittleEndian.PutUint64(buf[:], uint64(v)) //nolint:gosec // Bit pattern is what gets hashed
		_, _ = hasher.Write(buf[:])
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// ContentFingerprinter hashes the asset name with the file bytes.
// It is immune to timestamp-preserving edits at the cost of reading every file.
type ContentFingerprinter struct{}

// Fingerprint implements Fingerprinter.
func (ContentFingerprinter) Fingerprint(name, path string, _ os.FileInfo) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the scanned source directory
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := blake3.New()
	_, _ = hasher.Write([]byte(name))
	_, _ = hasher.Write([]byte{0})
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFingerprintFailed.Error()), "path", path)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
