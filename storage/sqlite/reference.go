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

package sqlite

import (
	"context"
	"errors"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"gorm.io/gorm"
)

// ReferenceRepository implements storage.ReferenceRepository on SQLite.
type ReferenceRepository struct {
	db *gorm.DB
}

var _ storage.ReferenceRepository = (*ReferenceRepository)(nil)

// Close releases resources. The connection belongs to the Store.
func (r *ReferenceRepository) Close() error {
	return nil
}

func (r *ReferenceRepository) AddRights(ctx context.Context, rights ...*core.Right) error {
	return upsert(ctx, r.db, mapAll(rights, toRightModel))
}

func (r *ReferenceRepository) AddActions(ctx context.Context, actions ...*core.Action) error {
	return upsert(ctx, r.db, mapAll(actions, toActionModel))
}

func (r *ReferenceRepository) AddContacts(ctx context.Context, contacts ...*core.EmergencyContact) error {
	return upsert(ctx, r.db, mapAll(contacts, toContactModel))
}

func (r *ReferenceRepository) AddContexts(ctx context.Context, contexts ...*core.Context) error {
	return upsert(ctx, r.db, mapAll(contexts, toContextModel))
}

func (r *ReferenceRepository) AddSources(ctx context.Context, sources ...*core.LegalSource) error {
	return upsert(ctx, r.db, mapAll(sources, toSourceModel))
}

func (r *ReferenceRepository) AddMyths(ctx context.Context, myths ...*core.Myth) error {
	return upsert(ctx, r.db, mapAll(myths, toMythModel))
}

func (r *ReferenceRepository) AddRightSources(ctx context.Context, rows ...*core.RightSource) error {
	return upsert(ctx, r.db, mapAll(rows, func(row *core.RightSource) *rightSourceModel {
		return &rightSourceModel{RightID: row.RightID, SourceID: row.SourceID, Relevance: row.Relevance}
	}))
}

// findByIDs loads models by primary key and returns them in the order of ids.
func findByIDs[M any, T any](ctx context.Context, db *gorm.DB, ids []string, id func(*M) string, conv func(*M) *T) ([]*T, error) {
	if len(ids) == 0 {
		return []*T{}, nil
	}
	var models []*M
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*M, len(models))
	for _, m := range models {
		byID[id(m)] = m
	}
	out := make([]*T, 0, len(models))
	for _, k := range ids {
		if m, ok := byID[k]; ok {
			out = append(out, conv(m))
		}
	}
	return out, nil
}

func (r *ReferenceRepository) GetRights(ctx context.Context, ids ...string) ([]*core.Right, error) {
	return findByIDs(ctx, r.db, ids, func(m *rightModel) string { return m.ID }, (*rightModel).toCore)
}

func (r *ReferenceRepository) GetActions(ctx context.Context, ids ...string) ([]*core.Action, error) {
	return findByIDs(ctx, r.db, ids, func(m *actionModel) string { return m.ID }, (*actionModel).toCore)
}

func (r *ReferenceRepository) GetContacts(ctx context.Context, ids ...string) ([]*core.EmergencyContact, error) {
	return findByIDs(ctx, r.db, ids, func(m *contactModel) string { return m.ID }, (*contactModel).toCore)
}

func (r *ReferenceRepository) GetSources(ctx context.Context, ids ...string) ([]*core.LegalSource, error) {
	return findByIDs(ctx, r.db, ids, func(m *sourceModel) string { return m.ID }, (*sourceModel).toCore)
}

func (r *ReferenceRepository) GetContext(ctx context.Context, id string) (*core.Context, error) {
	var m contextModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return m.toCore(), nil
}

func listOrdered[M any, T any](ctx context.Context, db *gorm.DB, order string, conv func(*M) *T) ([]*T, error) {
	var models []*M
	if err := db.WithContext(ctx).Order(order).Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAll(models, conv), nil
}

func (r *ReferenceRepository) ListRights(ctx context.Context) ([]*core.Right, error) {
	return listOrdered(ctx, r.db, "display_order, id", (*rightModel).toCore)
}

func (r *ReferenceRepository) ListContacts(ctx context.Context) ([]*core.EmergencyContact, error) {
	return listOrdered(ctx, r.db, "priority, id", (*contactModel).toCore)
}

func (r *ReferenceRepository) ListContexts(ctx context.Context) ([]*core.Context, error) {
	return listOrdered(ctx, r.db, "id", (*contextModel).toCore)
}

func (r *ReferenceRepository) ListSources(ctx context.Context) ([]*core.LegalSource, error) {
	return listOrdered(ctx, r.db, "id", (*sourceModel).toCore)
}

func (r *ReferenceRepository) ListMyths(ctx context.Context) ([]*core.Myth, error) {
	return listOrdered(ctx, r.db, "display_order, id", (*mythModel).toCore)
}

func (r *ReferenceRepository) RightSources(ctx context.Context, rightID string) ([]*core.RightSource, error) {
	var models []*rightSourceModel
	err := r.db.WithContext(ctx).Where("right_id = ?", rightID).Order("source_id").Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapAll(models, func(m *rightSourceModel) *core.RightSource {
		return &core.RightSource{RightID: m.RightID, SourceID: m.SourceID, Relevance: m.Relevance}
	}), nil
}
