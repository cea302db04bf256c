package ports

import (
	"context"

	"go.trai.ch/atlas/internal/core/domain"
)

// ByteStore is a persistent key/value store of cache entries.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ByteStore interface {
	// Get returns the entry stored under key.
	// found is false, with a nil error, when the key does not exist.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Put stores data under key, replacing any previous entry.
	Put(ctx context.Context, key string, data []byte) error
}

// StoreOpener opens the byte store rooted at a directory.
type StoreOpener interface {
	// Open returns the store for dir, creating the directory if needed.
	// Opening the same directory twice returns a store sharing the same in-memory state.
	Open(dir string, compression domain.Compression) (ByteStore, error)
}
