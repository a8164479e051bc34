package catalog

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundledDir = "../data/PE"

func minimalFS() fstest.MapFS {
	return fstest.MapFS{
		"metadata.json": {Data: []byte(`{"country_code": "XX", "data_version": "1"}`)},
		"contexts/contexts.json": {Data: []byte(`[
			{"id": "normal", "name": "Normal", "context_type": "normal", "is_currently_active": true}
		]`)},
		"sources/sources.json": {Data: []byte(`[
			{"id": "src_1", "source_type": "ley", "name": "Ley 1", "full_text": "texto", "summary": "resumen", "status": "vigente"}
		]`)},
		"rights/rights.json": {Data: []byte(`[
			{"id": "right_a", "title": "A", "description": "d", "legal_basis": "Ley 1", "category": "libertad", "source_ids": ["src_1"]}
		]`)},
		"actions/actions.json": {Data: []byte(`[
			{"id": "action_a", "action_type": "decir", "title": "A", "description": "d"},
			{"id": "action_b", "action_type": "hacer", "title": "B", "description": "d"}
		]`)},
		"contacts/contacts.json": {Data: []byte(`{"id": "contact_a", "institution": "I", "description": "d", "phone": "1", "contact_type": "denuncia"}`)},
		"situations/s.json": {Data: []byte(`[
			{
				"id": "sit_a", "category": "c", "title": "Situación A", "description": "d",
				"keywords": ["uno"], "natural_queries": ["frase uno"],
				"rights": [{"right_id": "right_a"}],
				"actions": [{"action_id": "action_a", "step_order": 1}, {"action_id": "action_b", "step_order": 2, "is_available": false}],
				"contacts": ["contact_a"],
				"time_limits": [{"id": "tl_a", "description": "d", "max_hours": 4}]
			}
		]`)},
	}
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(minimalFS())
	require.NoError(t, err)

	require.Len(t, c.Situations, 1)
	s := c.Situations[0]
	assert.True(t, s.IsActive)
	assert.Equal(t, core.SeverityMedium, s.Severity)

	require.Len(t, c.SituationRights, 1)
	assert.Equal(t, core.ContextNormal, c.SituationRights[0].ContextID)
	assert.True(t, c.SituationRights[0].Applies)

	require.Len(t, c.SituationActions, 2)
	assert.True(t, c.SituationActions[0].IsAvailable)
	assert.False(t, c.SituationActions[1].IsAvailable)

	require.Len(t, c.SituationContacts, 1)
	assert.Equal(t, 1, c.SituationContacts[0].Priority)

	require.Len(t, c.TimeLimits, 1)
	assert.Equal(t, core.AppliesToAll, c.TimeLimits[0].AppliesTo)
	assert.Equal(t, "sit_a", c.TimeLimits[0].SituationID)

	require.Len(t, c.RightSources, 1)
	assert.Equal(t, core.RelevancePrimary, c.RightSources[0].Relevance)

	// single-object files are accepted
	assert.Len(t, c.Contacts, 1)
	assert.Equal(t, "XX", c.Metadata.CountryCode)
}

func TestLoad_MissingOptionalDirectories(t *testing.T) {
	c, err := Load(fstest.MapFS{})
	require.NoError(t, err)
	assert.Empty(t, c.Situations)
	assert.ErrorIs(t, c.Validate(), ErrInvalidCatalog)
}

func TestLoad_MalformedDocument(t *testing.T) {
	fsys := minimalFS()
	fsys["rights/broken.json"] = &fstest.MapFile{Data: []byte(`[{"id": `)}

	_, err := Load(fsys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Contains(t, err.Error(), "rights/broken.json")
}

func TestLoadDir_NotFound(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestBundledCatalog(t *testing.T) {
	c, err := LoadDir(bundledDir)
	require.NoError(t, err)

	assert.Empty(t, c.Problems())
	require.NoError(t, c.Validate())

	assert.Equal(t, "PE", c.Metadata.CountryCode)
	assert.Len(t, c.Situations, 14)
	assert.Len(t, c.Rights, 13)
	assert.Len(t, c.Actions, 17)
	assert.Len(t, c.Contacts, 5)
	assert.Len(t, c.Contexts, 3)
	assert.Len(t, c.Sources, 8)
	assert.Len(t, c.Myths, 4)
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
		want   error
	}{
		{
			name: "dangling right",
			mutate: func(c *Catalog) {
				c.SituationRights[0].RightID = "right_missing"
			},
			want: ErrDanglingReference,
		},
		{
			name: "unknown action type",
			mutate: func(c *Catalog) {
				c.Actions[0].ActionType = "bailar"
			},
			want: core.ErrInvalidActionType,
		},
		{
			name: "step order gap",
			mutate: func(c *Catalog) {
				c.SituationActions[1].StepOrder = 3
			},
			want: core.ErrStepOrderGap,
		},
		{
			name: "missing normal context",
			mutate: func(c *Catalog) {
				c.Contexts[0].ID = "otro"
			},
			want: ErrMissingNormalContext,
		},
		{
			name: "duplicate id",
			mutate: func(c *Catalog) {
				dup := *c.Actions[0]
				c.Actions = append(c.Actions, &dup)
			},
			want: ErrDuplicateID,
		},
		{
			name: "dangling source",
			mutate: func(c *Catalog) {
				c.RightSources[0].SourceID = "src_missing"
			},
			want: ErrDanglingReference,
		},
		{
			name: "dangling parent",
			mutate: func(c *Catalog) {
				c.Situations[0].ParentID = "sit_missing"
			},
			want: ErrDanglingReference,
		},
		{
			name: "situation without contacts",
			mutate: func(c *Catalog) {
				c.SituationContacts = nil
			},
			want: ErrEmptySituation,
		},
		{
			name: "unknown severity",
			mutate: func(c *Catalog) {
				c.Situations[0].Severity = "extreme"
			},
			want: core.ErrInvalidSeverity,
		},
		{
			name: "contact without channel",
			mutate: func(c *Catalog) {
				c.Contacts[0].Phone = ""
			},
			want: core.ErrNoContactChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(minimalFS())
			require.NoError(t, err)
			require.NoError(t, c.Validate())

			tt.mutate(c)
			err = c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	c, err := Load(minimalFS())
	require.NoError(t, err)

	c.SituationRights[0].RightID = "right_missing"
	c.SituationContacts[0].ContactID = "contact_missing"
	c.Contexts[0].ID = "otro"

	problems := c.Problems()
	assert.GreaterOrEqual(t, len(problems), 3)
}

func TestDigest(t *testing.T) {
	a, err := Load(minimalFS())
	require.NoError(t, err)
	b, err := Load(minimalFS())
	require.NoError(t, err)

	da, err := a.Digest()
	require.NoError(t, err)
	db, err := b.Digest()
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 32)

	b.Situations[0].Title = "Otro título"
	changed, err := b.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, da, changed)
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	store, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	installer, err := NewInstaller(store, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	c, err := LoadDir(bundledDir)
	require.NoError(t, err)

	manifest, err := installer.Install(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "PE", manifest.Country)
	assert.Equal(t, "2026.09", manifest.DataVersion)
	assert.Equal(t, 14, manifest.Counts["situations"])
	assert.Equal(t, fixed, manifest.BuiltAt)

	loaded, err := store.Manifests().LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, manifest.Version, loaded.Version)

	all, err := store.Situations().ListSituations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 14)

	t.Run("reinstall yields same version", func(t *testing.T) {
		again, err := installer.Install(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, manifest.Version, again.Version)

		all, err := store.Situations().ListSituations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 14)
	})

	t.Run("reinstall replaces previous catalog", func(t *testing.T) {
		small, err := Load(minimalFS())
		require.NoError(t, err)
		m, err := installer.Install(ctx, small)
		require.NoError(t, err)
		assert.NotEqual(t, manifest.Version, m.Version)

		all, err := store.Situations().ListSituations(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "sit_a", all[0].ID)
	})

	t.Run("invalid catalog is rejected before reset", func(t *testing.T) {
		broken, err := Load(minimalFS())
		require.NoError(t, err)
		broken.Contexts = nil

		_, err = installer.Install(ctx, broken)
		assert.ErrorIs(t, err, ErrInvalidCatalog)

		all, err := store.Situations().ListSituations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestNewInstaller_RequiresStore(t *testing.T) {
	_, err := NewInstaller(nil)
	assert.True(t, errors.Is(err, ErrStoreRequired))
}

func TestInstall_Progress(t *testing.T) {
	store, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	var out bytes.Buffer
	installer, err := NewInstaller(store, WithProgress(&out))
	require.NoError(t, err)

	c, err := Load(minimalFS())
	require.NoError(t, err)
	_, err = installer.Install(context.Background(), c)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Installing: 1/12")
	assert.Contains(t, out.String(), "Installing: 12/12 (100.0%) time limits")
	assert.Contains(t, out.String(), "Installed ")
}

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, 2)
	p.start()
	p.step("rights", 3)
	p.step("actions", 4)
	p.step("extra", 1)
	assert.Equal(t, 8, p.Records())
	assert.Contains(t, out.String(), "2/2 (100.0%)")
	assert.NotContains(t, out.String(), "3/2")

	var nilProgress *Progress
	nilProgress.start()
	nilProgress.step("rights", 1)
	nilProgress.finish()
	assert.Zero(t, nilProgress.Records())
}
