package cas

import (
	"bytes"
	"context"

	lru "github.com/hashicorp/golang-lru"
	"go.trai.ch/atlas/internal/core/ports"
)

// DefaultMemoryEntries bounds the in-memory layer of a store.
const DefaultMemoryEntries = 256

var _ ports.ByteStore = (*MemoryStore)(nil)

// MemoryStore is a read-through LRU layer over another byte store.
// It keeps hot entries of repeated build passes in memory. Puts write through.
type MemoryStore struct {
	next  ports.ByteStore
	cache *lru.Cache
}

// NewMemoryStore wraps next with an LRU holding at most size entries.
func NewMemoryStore(next ports.ByteStore, size int) (*MemoryStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{next: next, cache: cache}, nil
}

// Get returns the entry from memory or loads it from the next store.
// Callers own the returned slice.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := m.cache.Get(key); ok {
		data, _ := v.([]byte)
		return bytes.Clone(data), true, nil
	}

	data, found, err := m.next.Get(ctx, key)
	if err != nil || !found {
		return data, found, err
	}

	m.cache.Add(key, bytes.Clone(data))
	return data, true, nil
}

// Put writes data through to the next store and remembers it on success.
func (m *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	if err := m.next.Put(ctx, key, data); err != nil {
		m.cache.Remove(key)
		return err
	}
	m.cache.Add(key, bytes.Clone(data))
	return nil
}

// Len returns the number of entries held in memory.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

// Purge drops every in-memory entry.
func (m *MemoryStore) Purge() {
	m.cache.Purge()
}
