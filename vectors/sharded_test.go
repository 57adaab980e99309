package vectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/casesearch/core"
	"github.com/poiesic/casesearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLibraryAndOpenSharded(t *testing.T) {
	src, err := NewInlineSource(map[string][]float64{
		"cat":      {1, 0},
		"dog":      {0, 1},
		"and/or":   {1, 1},
		"contract": {0.25, -0.5},
	})
	require.NoError(t, err)

	root := filepath.Join(t.TempDir(), "library")
	failed, err := BuildLibrary(root, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"and/or"}, failed)

	data, err := os.ReadFile(filepath.Join(root, "c", "contract"))
	require.NoError(t, err)
	assert.Equal(t, "0.25,-0.5", string(data))

	sharded, err := OpenSharded(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sharded.Dimension())
	assert.Equal(t, 0, sharded.Cached())

	vec, ok := sharded.Lookup("dog")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1}, vec)
	assert.Equal(t, 1, sharded.Cached())

	_, ok = sharded.Lookup("zebra")
	assert.False(t, ok)
	_, ok = sharded.Lookup("../c/cat")
	assert.False(t, ok)
	assert.Equal(t, 1, sharded.Cached())

	store, err := NewStore(sharded)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, store.GetVector("cat dog zebra"))
}

func TestShardedSource_UnparseableShard(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c", "cat"), []byte("1,0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c", "cow"), []byte("1,oops"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "c", "cub"), []byte("1,0,0"), 0644))

	sharded, err := OpenSharded(root, nil)
	require.NoError(t, err)

	_, ok := sharded.Lookup("cow")
	assert.False(t, ok, "unparseable shard is treated as not found")
	_, ok = sharded.Lookup("cub")
	assert.False(t, ok, "shard with wrong dimension is treated as not found")
}

func TestOpenSharded_Empty(t *testing.T) {
	_, err := OpenSharded(t.TempDir(), nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)
	assert.ErrorIs(t, err, ErrEmptyLibrary)

	_, err = OpenSharded(filepath.Join(t.TempDir(), "nope"), nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestRepositorySource(t *testing.T) {
	repo, backend, err := badger.NewMemoryVectorRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = NewRepositorySource(ctx, repo, nil)
	assert.ErrorIs(t, err, core.ErrConfiguration)

	src, err := NewInlineSource(map[string][]float64{
		"cat": {1, 0},
		"dog": {0, 1},
		"owl": {0.5, 0.5},
	})
	require.NoError(t, err)

	written, err := ImportLibrary(ctx, repo, src, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	lazy, err := NewRepositorySource(ctx, repo, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, lazy.Dimension())

	store, err := NewStore(lazy)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0.5}, store.GetVector("cat owl mouse"))
}
