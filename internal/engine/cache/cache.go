// Package cache keeps the last known structure and built bytes of every atlas.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"

	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports"
	"go.trai.ch/zerr"
)

// StructureCache maps output keys to atlas structures and persists them,
// together with the bytes built in the current pass, in a ByteStore.
// It is safe for concurrent use.
type StructureCache struct {
	store  ports.ByteStore
	logger ports.Logger

	mu         sync.Mutex
	structures map[string]*domain.AtlasStructure
	// built holds the outputs produced in this pass, by output key.
	built map[string][]domain.OutputAsset
	dirty bool
}

// New creates an empty cache over store.
func New(store ports.ByteStore, logger ports.Logger) *StructureCache {
	return &StructureCache{
		store:      store,
		logger:     logger,
		structures: make(map[string]*domain.AtlasStructure),
		built:      make(map[string][]domain.OutputAsset),
	}
}

// Load replaces the in-memory entries with the stored snapshot.
// A missing snapshot is a cold start; an unreadable one is logged and ignored.
func (c *StructureCache) Load(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.structures = make(map[string]*domain.AtlasStructure)
	c.built = make(map[string][]domain.OutputAsset)
	c.dirty = false

	data, found, err := c.store.Get(ctx, domain.SnapshotKey)
	if err != nil {
		c.logger.Warn(zerr.Wrap(err, domain.ErrCacheLoadFailed.Error()).Error())
		return
	}
	if !found {
		return
	}

	var snapshot map[string]*domain.AtlasStructure
	if err := json.Unmarshal(data, &snapshot); err != nil {
		err = zerr.Wrap(zerr.Wrap(err, domain.ErrSnapshotUnmarshalFailed.Error()), domain.ErrCacheLoadFailed.Error())
		c.logger.Warn(err.Error())
		return
	}
	for key, s := range snapshot {
		if s != nil {
			c.structures[key] = s
		}
	}
}

// Get returns the structure stored under key.
func (c *StructureCache) Get(key string) (*domain.AtlasStructure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.structures[key]
	return s, ok
}

// Set stores a fresh structure. Its outputs are unknown until SetOutputs.
func (c *StructureCache) Set(key string, s *domain.AtlasStructure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s.ResultAssetNames = nil
	c.structures[key] = s
	delete(c.built, key)
	c.dirty = true
}

// SetOutputs records the outputs built for key. The bytes are persisted by Write.
func (c *StructureCache) SetOutputs(key string, outputs []domain.OutputAsset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.structures[key]
	if !ok {
		return
	}
	s.ResultAssetNames = domain.OutputNames(outputs)
	c.built[key] = outputs
	c.dirty = true
}

// Delete drops the entry for key.
func (c *StructureCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.structures[key]; ok {
		delete(c.structures, key)
		delete(c.built, key)
		c.dirty = true
	}
}

// Retain drops every entry whose key is not in keys.
func (c *StructureCache) Retain(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.structures {
		if !slices.Contains(keys, key) {
			delete(c.structures, key)
			delete(c.built, key)
			c.dirty = true
		}
	}
}

// Keys returns the stored output keys in sorted order.
func (c *StructureCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.structures))
}

// Outputs returns the previously built outputs of key. Any missing byte
// entry turns the whole lookup into a miss.
func (c *StructureCache) Outputs(ctx context.Context, key string) ([]domain.OutputAsset, bool) {
	c.mu.Lock()
	s, ok := c.structures[key]
	var names []string
	var hash string
	if ok {
		names = s.ResultAssetNames
		hash = s.IdentityHash()
	}
	c.mu.Unlock()

	if !ok || names == nil || hash == "" {
		return nil, false
	}

	outputs := make([]domain.OutputAsset, 0, len(names))
	for _, name := range names {
		data, found, err := c.store.Get(ctx, domain.ByteKey(hash, name))
		if err != nil {
			c.logger.Warn(zerr.With(err, "output", name).Error())
			return nil, false
		}
		if !found {
			return nil, false
		}
		outputs = append(outputs, domain.OutputAsset{Name: name, Contents: data})
	}
	return outputs, true
}

// Write persists the snapshot and the bytes built in this pass. Every
// failure is logged and joined into the result; none stops the others.
// Nothing is written when no entry changed since Load.
func (c *StructureCache) Write(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	var errs []error
	fail := func(err error) {
		err = zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
		c.logger.Warn(err.Error())
		errs = append(errs, err)
	}

	data, err := json.Marshal(c.structures)
	if err != nil {
		fail(zerr.Wrap(err, domain.ErrSnapshotMarshalFailed.Error()))
	} else if err := c.store.Put(ctx, domain.SnapshotKey, data); err != nil {
		fail(err)
	}

	for _, key := range slices.Sorted(maps.Keys(c.built)) {
		hash := c.structures[key].IdentityHash()
		for _, out := range c.built[key] {
			if err := c.store.Put(ctx, domain.ByteKey(hash, out.Name), out.Contents); err != nil {
				fail(zerr.With(err, "output", out.Name))
			}
		}
	}

	if len(errs) == 0 {
		c.built = make(map[string][]domain.OutputAsset)
		c.dirty = false
	}
	return errors.Join(errs...)
}
