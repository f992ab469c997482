package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "books")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "books", []byte(`[{"id":"1"}]`)))

	got, err := store.Get(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	store := NewFile(path)

	_, err := store.Get(ctx, "books")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "books", []byte(`["a"]`)))
	require.NoError(t, store.Set(ctx, "profiles", []byte(`["b"]`)))

	got, err := store.Get(ctx, "books")
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(got))

	// A fresh handle over the same path sees the persisted data.
	reopened := NewFile(path)
	got, err = reopened.Get(ctx, "profiles")
	require.NoError(t, err)
	assert.JSONEq(t, `["b"]`, string(got))
}

func TestFileCorruptDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFile(path)
	_, err := store.Get(ctx, "books")
	assert.ErrorIs(t, err, ErrUnavailable)

	err = store.Set(ctx, "books", []byte("[]"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFileUnreadablePath(t *testing.T) {
	ctx := context.Background()
	store := NewFile(filepath.Join(t.TempDir(), "missing-dir") + string(os.PathSeparator))

	_, err := store.Get(ctx, "books")
	assert.ErrorIs(t, err, ErrNotFound, "a missing file is uninitialized, not broken")
}
