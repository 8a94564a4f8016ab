package local

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStores(t *testing.T) {
	sqlite, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "ceoos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	stores := map[string]BlobStore{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "blobs")),
		"sqlite": sqlite,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(MainKey)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(MainKey, []byte(`{"a":1}`)))
			require.NoError(t, store.Set(MainKey, []byte(`{"a":2}`)))
			blob, ok, err := store.Get(MainKey)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"a":2}`, string(blob))

			require.NoError(t, store.Delete(MainKey))
			_, ok, err = store.Get(MainKey)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.NoError(t, store.Delete(MainKey))
		})
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())
	assert.Error(t, store.Set("../escape", []byte("x")))
	_, _, err := store.Get("a/b")
	assert.Error(t, err)
}
