// Package cas implements the persistent byte store of the atlas cache.
package cas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ByteStore = (*Store)(nil)

// Store implements ports.ByteStore using a file-per-key strategy.
// File names are the sha256 of the key so arbitrary keys map to safe names.
type Store struct {
	dir         string
	compression domain.Compression
}

// NewStore creates a Store backed by dir, creating it if needed.
func NewStore(dir string, compression domain.Compression) (*Store, error) {
	compression, err := domain.ParseCompression(string(compression))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "dir", dir)
	}

	return &Store{dir: dir, compression: compression}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Get retrieves the entry stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	entry, err := os.ReadFile(s.filename(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key)
	}

	data, err := decode(entry)
	if err != nil {
		return nil, false, zerr.With(err, "key", key)
	}

	return data, true, nil
}

// Put stores data under key.
// The entry is written to a temporary file and renamed so readers never see a partial entry.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, err := encode(data, s.compression)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(entry); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}
	if err := os.Rename(tmpName, s.filename(key)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}

	return nil
}

func (s *Store) filename(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(hash[:]))
}
