package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/atlas/internal/core/domain"
)

func TestHooks_RunInOrderAndCollectErrors(t *testing.T) {
	hooks := domain.NewHooks()
	var calls []string
	errFirst := errors.New("first failed")

	hooks.OnEmitAtlas(func(_ context.Context, assets []domain.EmittedAsset, extra map[string]any) error {
		calls = append(calls, "first:"+assets[0].Path+":"+extra["group"].(string))
		return errFirst
	})
	hooks.OnEmitAtlas(func(_ context.Context, assets []domain.EmittedAsset, _ map[string]any) error {
		calls = append(calls, "second:"+assets[0].Path)
		return nil
	})
	hooks.OnEmitComplete(func(context.Context) error {
		calls = append(calls, "complete")
		return nil
	})

	errs := hooks.EmitAtlas(context.Background(),
		[]domain.EmittedAsset{{Path: "out/a.png"}}, map[string]any{"group": "game"})
	assert.Equal(t, []error{errFirst}, errs)
	assert.Empty(t, hooks.EmitComplete(context.Background()))

	assert.Equal(t, []string{"first:out/a.png:game", "second:out/a.png", "complete"}, calls)
}

func TestHooks_NilIsSafe(t *testing.T) {
	var hooks *domain.Hooks
	assert.Nil(t, hooks.EmitAtlas(context.Background(), nil, nil))
	assert.Nil(t, hooks.EmitComplete(context.Background()))
}
