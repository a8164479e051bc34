// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storagetest holds a conformance suite every storage backend runs.
package storagetest

import (
	"context"
	"testing"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty, writable store. Cleanup belongs to t.
type Factory func(t *testing.T) storage.Store

// Run exercises every repository contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("situations", func(t *testing.T) { testSituations(t, newStore(t)) })
	t.Run("join rows", func(t *testing.T) { testJoinRows(t, newStore(t)) })
	t.Run("references", func(t *testing.T) { testReferences(t, newStore(t)) })
	t.Run("manifest", func(t *testing.T) { testManifest(t, newStore(t)) })
	t.Run("reset", func(t *testing.T) { testReset(t, newStore(t)) })
}

func situation(id string, order int, active bool) *core.Situation {
	return &core.Situation{
		ID:             id,
		Category:       "test",
		Title:          "Situación " + id,
		Description:    "Descripción " + id,
		Severity:       core.SeverityMedium,
		Keywords:       []string{"clave", id},
		NaturalQueries: []string{"consulta " + id},
		IsActive:       active,
		DisplayOrder:   order,
	}
}

func testSituations(t *testing.T, store storage.Store) {
	ctx := context.Background()
	repo := store.Situations()

	child := situation("child", 3, true)
	child.ParentID = "parent"
	require.NoError(t, repo.AddSituations(ctx,
		situation("parent", 2, true),
		situation("hidden", 1, false),
		child,
		situation("alpha", 3, true),
	))

	t.Run("get existing", func(t *testing.T) {
		got, err := repo.GetSituation(ctx, "parent")
		require.NoError(t, err)
		assert.Equal(t, situation("parent", 2, true), got)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.GetSituation(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list orders by display order then id", func(t *testing.T) {
		all, err := repo.ListSituations(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"hidden", "parent", "alpha", "child"}, ids(all))
	})

	t.Run("list active skips inactive", func(t *testing.T) {
		active, err := repo.ListActiveSituations(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"parent", "alpha", "child"}, ids(active))
	})

	t.Run("children", func(t *testing.T) {
		children, err := repo.ChildSituations(ctx, "parent")
		require.NoError(t, err)
		assert.Equal(t, []string{"child"}, ids(children))

		none, err := repo.ChildSituations(ctx, "alpha")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("upsert replaces and moves parent", func(t *testing.T) {
		moved := situation("child", 3, true)
		moved.ParentID = "alpha"
		moved.Title = "Nuevo título"
		require.NoError(t, repo.AddSituations(ctx, moved))

		got, err := repo.GetSituation(ctx, "child")
		require.NoError(t, err)
		assert.Equal(t, "Nuevo título", got.Title)

		old, err := repo.ChildSituations(ctx, "parent")
		require.NoError(t, err)
		assert.Empty(t, old)

		now, err := repo.ChildSituations(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, []string{"child"}, ids(now))
	})
}

func testJoinRows(t *testing.T, store storage.Store) {
	ctx := context.Background()
	repo := store.Situations()
	emergency := 48.0

	require.NoError(t, repo.AddSituations(ctx, situation("s1", 1, true), situation("s2", 2, true)))
	require.NoError(t, repo.AddSituationRights(ctx,
		&core.SituationRight{SituationID: "s1", RightID: "right_a", ContextID: core.ContextNormal, Applies: true},
		&core.SituationRight{SituationID: "s1", RightID: "right_a", ContextID: "estado_emergencia", Applies: false, Notes: "suspendido"},
		&core.SituationRight{SituationID: "s2", RightID: "right_b", ContextID: core.ContextNormal, Applies: true},
	))
	require.NoError(t, repo.AddSituationActions(ctx,
		&core.SituationAction{SituationID: "s1", ActionID: "action_c", ContextID: core.ContextNormal, StepOrder: 3, IsAvailable: true},
		&core.SituationAction{SituationID: "s1", ActionID: "action_a", ContextID: core.ContextNormal, StepOrder: 1, IsAvailable: true},
		&core.SituationAction{SituationID: "s1", ActionID: "action_b", ContextID: core.ContextNormal, StepOrder: 2, IsAvailable: false},
	))
	require.NoError(t, repo.AddSituationContacts(ctx,
		&core.SituationContact{SituationID: "s1", ContactID: "contact_z", Priority: 1},
		&core.SituationContact{SituationID: "s1", ContactID: "contact_a", Priority: 2},
	))
	require.NoError(t, repo.AddTimeLimits(ctx,
		&core.TimeLimit{ID: "tl_1", SituationID: "s1", Description: "d", MaxHours: 4, AppliesTo: core.AppliesToAll},
		&core.TimeLimit{ID: "tl_2", SituationID: "s1", Description: "d", MaxHours: 24, MaxHoursEmergency: &emergency, AppliesTo: core.AppliesToAll},
	))

	t.Run("rights keep one row per context", func(t *testing.T) {
		rows, err := repo.SituationRights(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		byContext := map[string]*core.SituationRight{}
		for _, r := range rows {
			byContext[r.ContextID] = r
		}
		assert.True(t, byContext[core.ContextNormal].Applies)
		assert.False(t, byContext["estado_emergencia"].Applies)
		assert.Equal(t, "suspendido", byContext["estado_emergencia"].Notes)
	})

	t.Run("actions ordered by step including unavailable", func(t *testing.T) {
		rows, err := repo.SituationActions(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []int{1, 2, 3}, []int{rows[0].StepOrder, rows[1].StepOrder, rows[2].StepOrder})
		assert.False(t, rows[1].IsAvailable)
	})

	t.Run("contacts ordered by priority", func(t *testing.T) {
		rows, err := repo.SituationContacts(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "contact_z", rows[0].ContactID)
		assert.Equal(t, "contact_a", rows[1].ContactID)
	})

	t.Run("time limits", func(t *testing.T) {
		rows, err := repo.TimeLimits(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, tl := range rows {
			if tl.ID == "tl_2" {
				require.NotNil(t, tl.MaxHoursEmergency)
				assert.InDelta(t, 48.0, *tl.MaxHoursEmergency, 1e-9)
			}
		}
	})

	t.Run("unknown situation has no rows", func(t *testing.T) {
		rights, err := repo.SituationRights(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, rights)
		actions, err := repo.SituationActions(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, actions)
		contacts, err := repo.SituationContacts(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, contacts)
		limits, err := repo.TimeLimits(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, limits)
	})

	t.Run("rows do not leak across situations with shared id prefix", func(t *testing.T) {
		require.NoError(t, repo.AddSituations(ctx, situation("s10", 3, true)))
		require.NoError(t, repo.AddSituationRights(ctx,
			&core.SituationRight{SituationID: "s10", RightID: "right_x", ContextID: core.ContextNormal, Applies: true},
		))
		rows, err := repo.SituationRights(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func testReferences(t *testing.T, store storage.Store) {
	ctx := context.Background()
	repo := store.References()

	require.NoError(t, repo.AddRights(ctx,
		&core.Right{ID: "right_b", Title: "B", Description: "b", LegalBasis: "x", Category: "libertad", DisplayOrder: 2},
		&core.Right{ID: "right_a", Title: "A", Description: "a", LegalBasis: "x", Category: "libertad", DisplayOrder: 1, NeverSuspended: true},
	))
	require.NoError(t, repo.AddActions(ctx,
		&core.Action{ID: "action_a", ActionType: core.ActionSay, Title: "A", Description: "a", Script: "Oficial..."},
	))
	require.NoError(t, repo.AddContacts(ctx,
		&core.EmergencyContact{ID: "contact_b", Institution: "B", Description: "b", Phone: "1", ContactType: "denuncia", Priority: 2},
		&core.EmergencyContact{ID: "contact_a", Institution: "A", Description: "a", Phone: "2", ContactType: "asesoria", Priority: 1, IsFree: true},
	))
	require.NoError(t, repo.AddContexts(ctx,
		&core.Context{ID: core.ContextNormal, Name: "Normal", ContextType: core.ContextTypeNormal, IsCurrentlyActive: true},
		&core.Context{ID: "estado_emergencia", Name: "Emergencia", ContextType: core.ContextTypeEmergency, AffectsRights: []string{"right_a"}, ActiveRegions: []string{"Lima"}},
	))
	require.NoError(t, repo.AddSources(ctx,
		&core.LegalSource{ID: "src_1", SourceType: "constitucion", Name: "Constitución", FullText: "t", Summary: "s", Status: "vigente"},
	))
	require.NoError(t, repo.AddMyths(ctx,
		&core.Myth{ID: "myth_2", Myth: "m2", Reality: "r", Explanation: "e", Category: "c", DisplayOrder: 2},
		&core.Myth{ID: "myth_1", Myth: "m1", Reality: "r", Explanation: "e", Category: "c", DisplayOrder: 1, RelatedSourceIDs: []string{"src_1"}},
	))
	require.NoError(t, repo.AddRightSources(ctx,
		&core.RightSource{RightID: "right_a", SourceID: "src_1", Relevance: core.RelevancePrimary},
	))

	t.Run("get by ids keeps order and skips missing", func(t *testing.T) {
		rights, err := repo.GetRights(ctx, "right_b", "missing", "right_a")
		require.NoError(t, err)
		require.Len(t, rights, 2)
		assert.Equal(t, "right_b", rights[0].ID)
		assert.Equal(t, "right_a", rights[1].ID)
		assert.True(t, rights[1].NeverSuspended)

		actions, err := repo.GetActions(ctx, "action_a")
		require.NoError(t, err)
		require.Len(t, actions, 1)
		assert.Equal(t, core.ActionSay, actions[0].ActionType)
		assert.Equal(t, "Oficial...", actions[0].Script)

		contacts, err := repo.GetContacts(ctx, "contact_a")
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.True(t, contacts[0].IsFree)

		sources, err := repo.GetSources(ctx, "src_1", "src_2")
		require.NoError(t, err)
		assert.Len(t, sources, 1)
	})

	t.Run("lists", func(t *testing.T) {
		rights, err := repo.ListRights(ctx)
		require.NoError(t, err)
		require.Len(t, rights, 2)
		assert.Equal(t, "right_a", rights[0].ID)

		contacts, err := repo.ListContacts(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "contact_a", contacts[0].ID)

		contexts, err := repo.ListContexts(ctx)
		require.NoError(t, err)
		assert.Len(t, contexts, 2)

		sources, err := repo.ListSources(ctx)
		require.NoError(t, err)
		assert.Len(t, sources, 1)

		myths, err := repo.ListMyths(ctx)
		require.NoError(t, err)
		require.Len(t, myths, 2)
		assert.Equal(t, "myth_1", myths[0].ID)
		assert.Equal(t, []string{"src_1"}, myths[0].RelatedSourceIDs)
	})

	t.Run("context lookup", func(t *testing.T) {
		c, err := repo.GetContext(ctx, "estado_emergencia")
		require.NoError(t, err)
		assert.Equal(t, []string{"right_a"}, c.AffectsRights)
		assert.Equal(t, []string{"Lima"}, c.ActiveRegions)

		_, err = repo.GetContext(ctx, "toque_queda")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("right sources", func(t *testing.T) {
		rows, err := repo.RightSources(ctx, "right_a")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, core.RelevancePrimary, rows[0].Relevance)

		none, err := repo.RightSources(ctx, "right_b")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func testManifest(t *testing.T, store storage.Store) {
	ctx := context.Background()
	repo := store.Manifests()

	m, err := repo.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Nil(t, m)

	require.NoError(t, repo.SaveManifest(ctx, &core.Manifest{Version: "v1", Country: "PE", Counts: map[string]int{"situations": 2}}))
	require.NoError(t, repo.SaveManifest(ctx, &core.Manifest{Version: "v2", Country: "PE", Counts: map[string]int{"situations": 3}}))

	m, err = repo.LoadManifest(ctx)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "v2", m.Version)
	assert.Equal(t, 3, m.Counts["situations"])
	assert.False(t, m.BuiltAt.IsZero())
}

func testReset(t *testing.T, store storage.Store) {
	ctx := context.Background()

	require.NoError(t, store.Situations().AddSituations(ctx, situation("s1", 1, true)))
	require.NoError(t, store.References().AddMyths(ctx, &core.Myth{ID: "myth_1", Myth: "m", Reality: "r", Explanation: "e", Category: "c"}))
	require.NoError(t, store.Manifests().SaveManifest(ctx, &core.Manifest{Version: "v1"}))

	require.NoError(t, store.Reset(ctx))

	all, err := store.Situations().ListSituations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	myths, err := store.References().ListMyths(ctx)
	require.NoError(t, err)
	assert.Empty(t, myths)

	m, err := store.Manifests().LoadManifest(ctx)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func ids(situations []*core.Situation) []string {
	out := make([]string, 0, len(situations))
	for _, s := range situations {
		out = append(out, s.ID)
	}
	return out
}
