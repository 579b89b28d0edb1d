package s3

import (
	"context"
	"testing"

	"github.com/hupe1980/drometa/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDDBCommitStore_CurrentPointer(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	ddb := newMockDDBClient()
	store := NewDDBCommitStore(blobs, ddb, "drometa-commits", "s3://bucket/datasets")

	_, err := store.Open(ctx, blobstore.CurrentName)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, store.Put(ctx, "snapshots/a.drm", []byte("a")))
	require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte("snapshots/a.drm")))
	require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte("snapshots/b.drm")))

	version, snapshot, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)
	assert.Equal(t, "snapshots/b.drm", snapshot)

	data, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "snapshots/b.drm", string(data))

	// CURRENT never reaches the wrapped store.
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/a.drm"}, names)
}

func TestDDBCommitStore_ConcurrentModification(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://bucket/x")
	rival := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://bucket/x")

	ddb.beforePut = func() {
		require.NoError(t, rival.Put(ctx, blobstore.CurrentName, []byte("rival")))
	}
	err := store.Put(ctx, blobstore.CurrentName, []byte("mine"))
	assert.ErrorIs(t, err, ErrConcurrentModification)

	_, snapshot, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rival", snapshot)
}

func TestDDBCommitStore_PartitionsByBaseURI(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	a := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://bucket/a")
	b := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://bucket/b")

	require.NoError(t, a.Put(ctx, blobstore.CurrentName, []byte("one")))
	version, _, err := b.Latest(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)
}
