package domain

import (
	"context"
	"sync"
)

// EmitAtlasFunc observes the artifacts of one atlas right after they were written.
// Asset contents are shared with the pass and must not be modified.
type EmitAtlasFunc func(ctx context.Context, assets []EmittedAsset, extra map[string]any) error

// EmitCompleteFunc observes the end of a build pass.
type EmitCompleteFunc func(ctx context.Context) error

// Hooks holds the observers of one build pass.
// A Hooks value is created per build and handed to whoever emits or observes.
type Hooks struct {
	mu       sync.Mutex
	atlas    []EmitAtlasFunc
	complete []EmitCompleteFunc
}

// NewHooks creates an empty hook set.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnEmitAtlas registers an observer for emitted atlases.
func (h *Hooks) OnEmitAtlas(fn EmitAtlasFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.atlas = append(h.atlas, fn)
}

// OnEmitComplete registers an observer for the end of the build pass.
func (h *Hooks) OnEmitComplete(fn EmitCompleteFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.complete = append(h.complete, fn)
}

// EmitAtlas calls every atlas observer in registration order and waits for each.
// Observer errors are collected and returned; they never stop later observers.
func (h *Hooks) EmitAtlas(ctx context.Context, assets []EmittedAsset, extra map[string]any) []error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	fns := append([]EmitAtlasFunc(nil), h.atlas...)
	h.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(ctx, assets, extra); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// EmitComplete calls every completion observer in registration order and waits for each.
func (h *Hooks) EmitComplete(ctx context.Context) []error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	fns := append([]EmitCompleteFunc(nil), h.complete...)
	h.mu.Unlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
