package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"github.com/poiesic/derechos/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", InMemory())
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.False(t, backend.IsReadOnly())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

	backend, err := OpenBackend(tmpFile)
	assert.ErrorIs(t, err, storage.ErrNotDirectory)
	assert.Nil(t, backend)
}

func TestOpenBackend_ReadOnlyMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	backend, err := OpenBackend(dir, ReadOnly())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Nil(t, backend)

	// Read-only open never creates the directory
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenBackend_ReadOnlyEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	backend, err := OpenBackend(dir, ReadOnly())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Nil(t, backend)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenBackend_ReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	writer, err := OpenBackend(dir)
	require.NoError(t, err)
	store := NewStore(writer)
	require.NoError(t, store.Manifests().SaveManifest(ctx, &core.Manifest{Version: "v1"}))
	require.NoError(t, writer.Close())

	reader, err := OpenBackend(dir, ReadOnly())
	require.NoError(t, err)
	defer reader.Close()
	assert.True(t, reader.IsReadOnly())

	ro := NewStore(reader)
	m, err := ro.Manifests().LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "v1", m.Version)

	err = ro.Manifests().SaveManifest(ctx, &core.Manifest{Version: "v2"})
	assert.ErrorIs(t, err, storage.ErrReadOnly)
	assert.ErrorIs(t, ro.Reset(ctx), storage.ErrReadOnly)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", InMemory())
	require.NoError(t, err)
	require.NotNil(t, backend)

	assert.False(t, backend.IsClosed())

	err = backend.Close()
	require.NoError(t, err)

	assert.True(t, backend.IsClosed())

	_, err = NewStore(backend).Situations().ListSituations(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		store, backend, err := NewMemoryRepositories()
		require.NoError(t, err)
		t.Cleanup(func() { backend.Close() })
		return store
	})
}

func TestEncodeOrder(t *testing.T) {
	orders := []int{-5, -1, 0, 1, 2, 10, 300, 1 << 20}
	for i := 1; i < len(orders); i++ {
		assert.Less(t, encodeOrder(orders[i-1]), encodeOrder(orders[i]),
			"encoded %d should sort before %d", orders[i-1], orders[i])
	}
}

func TestMakeScanPrefix(t *testing.T) {
	assert.Equal(t, "sit:", string(makeScanPrefix(situationPrefix)))
	assert.Equal(t, "sitrig:s1:", string(makeScanPrefix(situationRightPrefix, "s1")))
	assert.Equal(t, "sitrig:s1:right_a:normal", string(makeSituationRightKey("s1", "right_a", "normal")))
}
