package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"github.com/poiesic/derechos/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	store, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return setupTestStore(t)
	})
}

func TestOpen_FilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "derechos.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Manifests().SaveManifest(ctx, &core.Manifest{Version: "v1", Country: "PE"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	m, err := reopened.Manifests().LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "v1", m.Version)
	assert.Equal(t, "PE", m.Country)
}

func TestSchemaTableNames(t *testing.T) {
	store := setupTestStore(t)
	for _, table := range []string{
		tableSituations, tableRights, tableActions, tableContacts, tableTimeLimits,
		tableContexts, tableSources, tableMyths, tableSituationRights,
		tableSituationActions, tableSituationContacts, tableRightSources, tableManifest,
	} {
		assert.True(t, store.db.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestFalseBooleansSurvive(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	require.NoError(t, store.Situations().AddSituations(ctx, &core.Situation{
		ID: "off", Category: "c", Title: "t", Description: "d", Severity: core.SeverityLow,
		Keywords: []string{"k"}, NaturalQueries: []string{"q"}, IsActive: false,
	}))
	got, err := store.Situations().GetSituation(ctx, "off")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := store.Situations().ListActiveSituations(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpsertEmptyIsNoop(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Situations().AddSituations(context.Background()))
	assert.NoError(t, store.References().AddRights(context.Background()))
}
