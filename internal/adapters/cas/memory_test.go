package cas_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/cas"
	"go.trai.ch/atlas/internal/core/domain"
	"go.trai.ch/atlas/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestMemoryStore_ReadThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockByteStore(ctrl)
	ctx := context.Background()

	next.EXPECT().Get(ctx, "hit").Return([]byte("bytes"), true, nil).Times(1)
	next.EXPECT().Get(ctx, "miss").Return(nil, false, nil).Times(2)

	store, err := cas.NewMemoryStore(next, 8)
	require.NoError(t, err)

	for range 3 {
		data, found, err := store.Get(ctx, "hit")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte("bytes"), data)
	}

	for range 2 {
		_, found, err := store.Get(ctx, "miss")
		require.NoError(t, err)
		assert.False(t, found)
	}

	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_PutWritesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockByteStore(ctrl)
	ctx := context.Background()

	next.EXPECT().Put(ctx, "k", []byte("v")).Return(nil)

	store, err := cas.NewMemoryStore(next, 8)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "k", []byte("v")))

	// Served from memory, next.Get is never called.
	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), data)
}

func TestMemoryStore_FailedPutIsNotRemembered(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockByteStore(ctrl)
	ctx := context.Background()
	writeErr := errors.New("disk full")

	next.EXPECT().Put(ctx, "k", []byte("v")).Return(writeErr)
	next.EXPECT().Get(ctx, "k").Return(nil, false, nil)

	store, err := cas.NewMemoryStore(next, 8)
	require.NoError(t, err)

	require.ErrorIs(t, store.Put(ctx, "k", []byte("v")), writeErr)

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Evicts(t *testing.T) {
	disk, err := cas.NewStore(t.TempDir(), domain.CompressionNone)
	require.NoError(t, err)

	store, err := cas.NewMemoryStore(disk, 2)
	require.NoError(t, err)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Put(ctx, k, []byte(k)))
	}
	assert.Equal(t, 2, store.Len())

	store.Purge()
	assert.Equal(t, 0, store.Len())

	// Evicted entries are still served from disk.
	data, found, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("a"), data)
}

func TestOpener_SharesStorePerDirectory(t *testing.T) {
	opener := cas.NewOpener(cas.DefaultMemoryEntries)
	dir := t.TempDir()

	first, err := opener.Open(dir, domain.CompressionZstd)
	require.NoError(t, err)
	second, err := opener.Open(dir+"/", domain.CompressionZstd)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := opener.Open(t.TempDir(), domain.CompressionZstd)
	require.NoError(t, err)
	assert.NotSame(t, first, other)

	_, err = opener.Open(dir, "gzip")
	require.Error(t, err)
}

func TestMemoryStore_CallersCannotCorruptEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockByteStore(ctrl)
	ctx := context.Background()

	loaded := []byte("loaded")
	next.EXPECT().Get(ctx, "loaded").Return(loaded, true, nil).Times(1)
	next.EXPECT().Put(ctx, "put", gomock.Any()).Return(nil)

	store, err := cas.NewMemoryStore(next, 8)
	require.NoError(t, err)

	first, found, err := store.Get(ctx, "loaded")
	require.NoError(t, err)
	require.True(t, found)
	first[0] = 'X'
	loaded[1] = 'X'

	again, _, err := store.Get(ctx, "loaded")
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), again)
	again[0] = 'Y'

	hit, _, err := store.Get(ctx, "loaded")
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), hit)

	data := []byte("put")
	require.NoError(t, store.Put(ctx, "put", data))
	data[0] = 'X'

	stored, found, err := store.Get(ctx, "put")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("put"), stored)
}
