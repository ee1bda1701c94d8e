package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "matriculas")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "matriculas", []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Set(ctx, "matriculas", []byte(`[]`)))

	data, found, err := store.Get(ctx, "matriculas")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(data))

	entries, err := os.ReadDir(store.baseDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Set(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}
