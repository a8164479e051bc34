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

package badger

import (
	"cmp"
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
)

// ReferenceRepository implements storage.ReferenceRepository for BadgerDB.
type ReferenceRepository struct {
	backend *Backend
}

var _ storage.ReferenceRepository = (*ReferenceRepository)(nil)

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository(backend *Backend) *ReferenceRepository {
	return &ReferenceRepository{
		backend: backend,
	}
}

// Close releases resources. ReferenceRepository has no resources to release.
func (r *ReferenceRepository) Close() error {
	return nil
}

func keyFor(prefix string) func(string) []byte {
	return func(id string) []byte { return makeKey(prefix, id) }
}

// addAll upserts records keyed by prefix:id in one transaction.
func addAll[T storage.Record](b *Backend, prefix string, id func(*T) string, records []*T) error {
	return b.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := putRecord(tx, makeKey(prefix, id(record)), record); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func getAll[T storage.Record](b *Backend, prefix string, ids []string) ([]*T, error) {
	var result []*T
	err := b.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readByIDs[T](tx, keyFor(prefix), ids)
		return err
	}, false)
	return result, err
}

func listAll[T storage.Record](b *Backend, prefix string) ([]*T, error) {
	var result []*T
	err := b.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[T](tx, makeScanPrefix(prefix))
		return err
	}, false)
	return result, err
}

func (r *ReferenceRepository) AddRights(ctx context.Context, rights ...*core.Right) error {
	return addAll(r.backend, rightPrefix, func(v *core.Right) string { return v.ID }, rights)
}

func (r *ReferenceRepository) AddActions(ctx context.Context, actions ...*core.Action) error {
	return addAll(r.backend, actionPrefix, func(v *core.Action) string { return v.ID }, actions)
}

func (r *ReferenceRepository) AddContacts(ctx context.Context, contacts ...*core.EmergencyContact) error {
	return addAll(r.backend, contactPrefix, func(v *core.EmergencyContact) string { return v.ID }, contacts)
}

func (r *ReferenceRepository) AddContexts(ctx context.Context, contexts ...*core.Context) error {
	return addAll(r.backend, contextPrefix, func(v *core.Context) string { return v.ID }, contexts)
}

func (r *ReferenceRepository) AddSources(ctx context.Context, sources ...*core.LegalSource) error {
	return addAll(r.backend, sourcePrefix, func(v *core.LegalSource) string { return v.ID }, sources)
}

func (r *ReferenceRepository) AddMyths(ctx context.Context, myths ...*core.Myth) error {
	return addAll(r.backend, mythPrefix, func(v *core.Myth) string { return v.ID }, myths)
}

// AddRightSources upserts citation rows keyed by (right, source).
func (r *ReferenceRepository) AddRightSources(ctx context.Context, rows ...*core.RightSource) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			if err := putRecord(tx, makeRightSourceKey(row.RightID, row.SourceID), row); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *ReferenceRepository) GetRights(ctx context.Context, ids ...string) ([]*core.Right, error) {
	return getAll[core.Right](r.backend, rightPrefix, ids)
}

func (r *ReferenceRepository) GetActions(ctx context.Context, ids ...string) ([]*core.Action, error) {
	return getAll[core.Action](r.backend, actionPrefix, ids)
}

func (r *ReferenceRepository) GetContacts(ctx context.Context, ids ...string) ([]*core.EmergencyContact, error) {
	return getAll[core.EmergencyContact](r.backend, contactPrefix, ids)
}

func (r *ReferenceRepository) GetSources(ctx context.Context, ids ...string) ([]*core.LegalSource, error) {
	return getAll[core.LegalSource](r.backend, sourcePrefix, ids)
}

// GetContext retrieves a single context by ID.
func (r *ReferenceRepository) GetContext(ctx context.Context, id string) (*core.Context, error) {
	var result *core.Context
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord[core.Context](tx, makeKey(contextPrefix, id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListRights returns rights by display order, then ID.
func (r *ReferenceRepository) ListRights(ctx context.Context) ([]*core.Right, error) {
	rights, err := listAll[core.Right](r.backend, rightPrefix)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rights, func(a, b *core.Right) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	return rights, nil
}

// ListContacts returns contacts by their own priority, then ID.
func (r *ReferenceRepository) ListContacts(ctx context.Context) ([]*core.EmergencyContact, error) {
	contacts, err := listAll[core.EmergencyContact](r.backend, contactPrefix)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(contacts, func(a, b *core.EmergencyContact) int {
		return cmp.Or(cmp.Compare(a.Priority, b.Priority), cmp.Compare(a.ID, b.ID))
	})
	return contacts, nil
}

// ListContexts returns contexts by ID.
func (r *ReferenceRepository) ListContexts(ctx context.Context) ([]*core.Context, error) {
	return listAll[core.Context](r.backend, contextPrefix)
}

// ListSources returns legal sources by ID.
func (r *ReferenceRepository) ListSources(ctx context.Context) ([]*core.LegalSource, error) {
	return listAll[core.LegalSource](r.backend, sourcePrefix)
}

// ListMyths returns myths by display order, then ID.
func (r *ReferenceRepository) ListMyths(ctx context.Context) ([]*core.Myth, error) {
	myths, err := listAll[core.Myth](r.backend, mythPrefix)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(myths, func(a, b *core.Myth) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
	return myths, nil
}

// RightSources returns the citation rows of a right by source ID.
func (r *ReferenceRepository) RightSources(ctx context.Context, rightID string) ([]*core.RightSource, error) {
	var result []*core.RightSource
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[core.RightSource](tx, makeScanPrefix(rightSourcePrefix, rightID))
		return err
	}, false)
	return result, err
}
