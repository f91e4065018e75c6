package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvContract exercises the behavior both implementations must share.
func kvContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	// Missing key: absent, not an error.
	_, ok, err := kv.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	// Set then get.
	require.NoError(t, kv.Set(ctx, KeyItems, `[{"id":"bookmark_1"}]`))
	v, ok, err := kv.Get(ctx, KeyItems)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"bookmark_1"}]`, v)

	// Overwrite.
	require.NoError(t, kv.Set(ctx, KeyItems, `[]`))
	v, ok, err = kv.Get(ctx, KeyItems)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)

	// Delete, including a missing key.
	require.NoError(t, kv.Delete(ctx, KeyItems))
	_, ok, err = kv.Get(ctx, KeyItems)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, kv.Delete(ctx, "never-existed"))
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	defer func() { _ = kv.Close() }()
	kvContract(t, kv)
}

func TestSQLiteKV_InMemory(t *testing.T) {
	kv, err := NewSQLiteKV("")
	require.NoError(t, err)
	defer func() { _ = kv.Close() }()
	kvContract(t, kv)
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "webstash.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyIndexBlob, "blob-v1"))
	require.NoError(t, kv.Close())

	reopened, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	v, ok, err := reopened.Get(ctx, KeyIndexBlob)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "blob-v1", v)
}

func TestSQLiteKV_ClosedStoreErrors(t *testing.T) {
	kv, err := NewSQLiteKV("")
	require.NoError(t, err)
	require.NoError(t, kv.Close())
	require.NoError(t, kv.Close(), "double close is safe")

	_, _, err = kv.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, kv.Set(context.Background(), "k", "v"))
}
