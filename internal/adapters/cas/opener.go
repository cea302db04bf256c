package cas

import (
	"path/filepath"
	"sync"

	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
)

var _ ports.StoreOpener = (*Opener)(nil)

// Opener opens byte stores and keeps them for the lifetime of the process,
// so that repeated passes over the same cache directory share one memory layer.
type Opener struct {
	mu      sync.Mutex
	entries int
	stores  map[string]*MemoryStore
}

// NewOpener creates an Opener whose stores keep up to entries items in memory.
func NewOpener(entries int) *Opener {
	return &Opener{
		entries: entries,
		stores:  make(map[string]*MemoryStore),
	}
}

// Open returns the store rooted at dir.
func (o *Opener) Open(dir string, compression domain.Compression) (ports.ByteStore, error) {
	compression, err := domain.ParseCompression(string(compression))
	if err != nil {
		return nil, err
	}

	key := filepath.Clean(dir) + "\x00" + string(compression)

	o.mu.Lock()
	defer o.mu.Unlock()

	if s, ok := o.stores[key]; ok {
		return s, nil
	}

	disk, err := NewStore(dir, compression)
	if err != nil {
		return nil, err
	}
	s, err := NewMemoryStore(disk, o.entries)
	if err != nil {
		return nil, err
	}
	o.stores[key] = s
	return s, nil
}
