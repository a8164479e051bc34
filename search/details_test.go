package search

import (
	"context"
	"testing"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"github.com/poiesic/derechos/storage/badger"
	"github.com/poiesic/derechos/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAssembler(t *testing.T, store storage.Store) *Assembler {
	t.Helper()
	a, err := NewAssembler(store.Situations(), store.References())
	require.NoError(t, err)
	return a
}

func rightKeys(details *core.Details) [][2]string {
	out := make([][2]string, 0, len(details.Rights))
	for _, r := range details.Rights {
		out = append(out, [2]string{r.Right.ID, r.ContextID})
	}
	return out
}

func actionIDs(details *core.Details) []string {
	out := make([]string, 0, len(details.Actions))
	for _, a := range details.Actions {
		out = append(out, a.Action.ID)
	}
	return out
}

func TestNewAssembler(t *testing.T) {
	store, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewAssembler(nil, store.References())
	assert.Equal(t, ErrSituationRepositoryRequired, err)

	_, err = NewAssembler(store.Situations(), nil)
	assert.Equal(t, ErrReferenceRepositoryRequired, err)

	a, err := NewAssembler(store.Situations(), store.References(), WithAssemblerLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, a.logger)
}

func TestDetails(t *testing.T) {
	ctx := context.Background()
	a := setupAssembler(t, setupBadgerStore(t))

	t.Run("unavailable actions are omitted", func(t *testing.T) {
		d, err := a.Details(ctx, "police_phone_search")
		require.NoError(t, err)

		assert.Equal(t, [][2]string{
			{"right_silence", "normal"},
			{"right_communications_secrecy", "normal"},
			{"right_communications_secrecy", "estado_emergencia"},
		}, rightKeys(d))
		assert.Equal(t, []string{"action_stay_calm", "action_refuse_phone_unlock", "action_request_acta"}, actionIDs(d))

		require.Len(t, d.Contacts, 2)
		assert.Equal(t, "contact_defensoria", d.Contacts[0].Contact.ID)
		assert.Equal(t, "contact_defensa_publica", d.Contacts[1].Contact.ID)
		assert.Less(t, d.Contacts[0].Priority, d.Contacts[1].Priority)

		assert.NotNil(t, d.TimeLimits)
		assert.Empty(t, d.TimeLimits)
	})

	t.Run("time limits", func(t *testing.T) {
		d, err := a.Details(ctx, "cannabis_possession")
		require.NoError(t, err)
		require.Len(t, d.TimeLimits, 2)
		for _, tl := range d.TimeLimits {
			assert.Equal(t, "cannabis_possession", tl.SituationID)
			assert.Positive(t, tl.MaxHours)
		}
	})

	t.Run("rights ordered by display order", func(t *testing.T) {
		d, err := a.Details(ctx, "cannabis_possession")
		require.NoError(t, err)
		for i := 1; i < len(d.Rights); i++ {
			assert.LessOrEqual(t, d.Rights[i-1].Right.DisplayOrder, d.Rights[i].Right.DisplayOrder)
		}
	})

	t.Run("emergency rows keep their applies flag", func(t *testing.T) {
		d, err := a.Details(ctx, "home_entry")
		require.NoError(t, err)
		require.Len(t, d.Rights, 2)
		assert.Equal(t, core.ContextNormal, d.Rights[0].ContextID)
		assert.True(t, d.Rights[0].Applies)
		assert.Equal(t, "estado_emergencia", d.Rights[1].ContextID)
		assert.False(t, d.Rights[1].Applies)
	})

	t.Run("unknown id yields empty lists", func(t *testing.T) {
		d, err := a.Details(ctx, "does_not_exist")
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.NotNil(t, d.Rights)
		assert.NotNil(t, d.Actions)
		assert.NotNil(t, d.Contacts)
		assert.NotNil(t, d.TimeLimits)
		assert.True(t, d.IsEmpty())
	})

	t.Run("steps are contiguous per context", func(t *testing.T) {
		situations, err := a.situations.ListSituations(ctx)
		require.NoError(t, err)
		for _, s := range situations {
			d, err := a.Details(ctx, s.ID)
			require.NoError(t, err)

			byContext := make(map[string][]int)
			for _, step := range d.Actions {
				byContext[step.ContextID] = append(byContext[step.ContextID], step.StepOrder)
			}
			for contextID, steps := range byContext {
				for i := 1; i < len(steps); i++ {
					assert.Equal(t, steps[i-1]+1, steps[i], "%s/%s: %v", s.ID, contextID, steps)
				}
			}
		}
	})
}

func TestDetailsForContext(t *testing.T) {
	ctx := context.Background()
	a := setupAssembler(t, setupBadgerStore(t))

	t.Run("context rows replace normal ones", func(t *testing.T) {
		d, err := a.DetailsForContext(ctx, "police_id_check", "estado_emergencia")
		require.NoError(t, err)
		assert.Equal(t, [][2]string{
			{"right_know_reason", "normal"},
			{"right_identity_control_limits", "normal"},
			{"right_freedom_movement", "estado_emergencia"},
		}, rightKeys(d))
		assert.False(t, d.Rights[2].Applies)

		// no emergency steps, so the normal sequence is used
		assert.Len(t, d.Actions, 5)
		for _, step := range d.Actions {
			assert.Equal(t, core.ContextNormal, step.ContextID)
		}
	})

	t.Run("context steps used when defined", func(t *testing.T) {
		d, err := a.DetailsForContext(ctx, "home_entry", "estado_emergencia")
		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"right_home_inviolability", "estado_emergencia"}}, rightKeys(d))
		assert.Equal(t, []string{"action_ask_reason", "action_request_acta"}, actionIDs(d))
	})

	t.Run("normal context", func(t *testing.T) {
		d, err := a.DetailsForContext(ctx, "home_entry", "")
		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"right_home_inviolability", "normal"}}, rightKeys(d))
		assert.Equal(t, []string{"action_ask_reason", "action_record", "action_request_acta"}, actionIDs(d))
		assert.Len(t, d.Contacts, 2)
	})

	t.Run("unknown id", func(t *testing.T) {
		d, err := a.DetailsForContext(ctx, "does_not_exist", "estado_emergencia")
		require.NoError(t, err)
		assert.True(t, d.IsEmpty())
	})
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	a := setupAssembler(t, setupBadgerStore(t))

	s, err := a.Lookup(ctx, "police_id_check")
	require.NoError(t, err)
	assert.Equal(t, "police_id_check", s.ID)

	_, err = a.Lookup(ctx, "does_not_exist")
	assert.ErrorIs(t, err, ErrSituationNotFound)
}

func TestActiveEmergencyContext(t *testing.T) {
	ctx := context.Background()
	store := setupBadgerStore(t)
	a := setupAssembler(t, store)

	active, err := a.ActiveEmergencyContext(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	emergency, err := store.References().GetContext(ctx, "estado_emergencia")
	require.NoError(t, err)
	emergency.IsCurrentlyActive = true
	require.NoError(t, store.References().AddContexts(ctx, emergency))

	active, err = a.ActiveEmergencyContext(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "estado_emergencia", active.ID)
}

func TestRightSources(t *testing.T) {
	ctx := context.Background()
	a := setupAssembler(t, setupBadgerStore(t))

	sources, err := a.RightSources(ctx, "right_know_reason")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "const_art2", sources[0].ID)
	assert.Equal(t, "cpp_art71", sources[1].ID)

	none, err := a.RightSources(ctx, "right_missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDetails_SQLiteParity(t *testing.T) {
	ctx := context.Background()
	badgerAssembler := setupAssembler(t, setupBadgerStore(t))

	sqlStore, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { sqlStore.Close() })
	installBundled(t, sqlStore)
	sqlAssembler := setupAssembler(t, sqlStore)

	for _, id := range []string{"police_phone_search", "cannabis_possession", "home_entry", "does_not_exist"} {
		want, err := badgerAssembler.Details(ctx, id)
		require.NoError(t, err)
		got, err := sqlAssembler.Details(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, rightKeys(want), rightKeys(got), id)
		assert.Equal(t, actionIDs(want), actionIDs(got), id)
		assert.Equal(t, len(want.Contacts), len(got.Contacts), id)
		assert.ElementsMatch(t, want.TimeLimits, got.TimeLimits, id)
	}
}
