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

// SituationRepository implements storage.SituationRepository for BadgerDB.
type SituationRepository struct {
	backend *Backend
}

var _ storage.SituationRepository = (*SituationRepository)(nil)

// NewSituationRepository creates a new SituationRepository.
func NewSituationRepository(backend *Backend) *SituationRepository {
	return &SituationRepository{
		backend: backend,
	}
}

// Close releases resources. SituationRepository has no resources to release.
func (r *SituationRepository) Close() error {
	return nil
}

// AddSituations upserts situations and maintains the parent index.
func (r *SituationRepository) AddSituations(ctx context.Context, situations ...*core.Situation) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, s := range situations {
			key := makeSituationKey(s.ID)

			// Read old record to detect a parent change
			old, err := readRecord[core.Situation](tx, key)
			if err != nil {
				return err
			}
			if old != nil && old.ParentID != "" && old.ParentID != s.ParentID {
				if err := tx.Delete(makeSituationParentKey(old.ParentID, s.ID)); err != nil {
					return err
				}
			}

			if err := putRecord(tx, key, s); err != nil {
				return err
			}
			if s.ParentID != "" {
				if err := tx.Set(makeSituationParentKey(s.ParentID, s.ID), []byte(s.ID)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetSituation retrieves a single situation by ID.
func (r *SituationRepository) GetSituation(ctx context.Context, id string) (*core.Situation, error) {
	var result *core.Situation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord[core.Situation](tx, makeSituationKey(id))
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

// ListSituations returns all situations by display order, then ID.
func (r *SituationRepository) ListSituations(ctx context.Context) ([]*core.Situation, error) {
	var result []*core.Situation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[core.Situation](tx, makeScanPrefix(situationPrefix))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	sortSituations(result)
	return result, nil
}

// ListActiveSituations returns active situations by display order, then ID.
func (r *SituationRepository) ListActiveSituations(ctx context.Context) ([]*core.Situation, error) {
	all, err := r.ListSituations(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(s *core.Situation) bool { return !s.IsActive }), nil
}

// ChildSituations resolves the parent index.
func (r *SituationRepository) ChildSituations(ctx context.Context, parentID string) ([]*core.Situation, error) {
	var result []*core.Situation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeScanPrefix(situationParentPrefix, parentID)
		keys := scanKeys(tx, prefix)
		ids := make([]string, 0, len(keys))
		for _, k := range keys {
			ids = append(ids, string(k[len(prefix):]))
		}
		var err error
		result, err = readByIDs[core.Situation](tx, makeSituationKey, ids)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	sortSituations(result)
	return result, nil
}

// AddSituationRights upserts situation/right rows.
func (r *SituationRepository) AddSituationRights(ctx context.Context, rows ...*core.SituationRight) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			if err := putRecord(tx, makeSituationRightKey(row.SituationID, row.RightID, row.ContextID), row); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AddSituationActions upserts situation/action rows.
func (r *SituationRepository) AddSituationActions(ctx context.Context, rows ...*core.SituationAction) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			if err := putRecord(tx, makeSituationActionKey(row.SituationID, row.StepOrder, row.ContextID), row); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AddSituationContacts upserts situation/contact rows.
func (r *SituationRepository) AddSituationContacts(ctx context.Context, rows ...*core.SituationContact) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			if err := putRecord(tx, makeSituationContactKey(row.SituationID, row.ContactID), row); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AddTimeLimits upserts time limits under their owning situation.
func (r *SituationRepository) AddTimeLimits(ctx context.Context, limits ...*core.TimeLimit) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, tl := range limits {
			if err := putRecord(tx, makeTimeLimitKey(tl.SituationID, tl.ID), tl); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// SituationRights returns the right rows of a situation in key order.
func (r *SituationRepository) SituationRights(ctx context.Context, situationID string) ([]*core.SituationRight, error) {
	var result []*core.SituationRight
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[core.SituationRight](tx, makeScanPrefix(situationRightPrefix, situationID))
		return err
	}, false)
	return result, err
}

// SituationActions returns the action rows of a situation ordered by step.
// The key layout already sorts them; ties across contexts sort by context ID.
func (r *SituationRepository) SituationActions(ctx context.Context, situationID string) ([]*core.SituationAction, error) {
	var result []*core.SituationAction
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[core.SituationAction](tx, makeScanPrefix(situationActionPrefix, situationID))
		return err
	}, false)
	return result, err
}

// SituationContacts returns the contact rows of a situation ordered by priority.
func (r *SituationRepository) SituationContacts(ctx context.Context, situationID string) ([]*core.SituationContact, error) {
	var result []*core.SituationContact
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[core.SituationContact](tx, makeScanPrefix(situationContactPrefix, situationID))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(result, func(a, b *core.SituationContact) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return result, nil
}

// TimeLimits returns the time limits owned by a situation.
func (r *SituationRepository) TimeLimits(ctx context.Context, situationID string) ([]*core.TimeLimit, error) {
	var result []*core.TimeLimit
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = scanRecords[core.TimeLimit](tx, makeScanPrefix(timeLimitPrefix, situationID))
		return err
	}, false)
	return result, err
}

func sortSituations(situations []*core.Situation) {
	slices.SortFunc(situations, func(a, b *core.Situation) int {
		return cmp.Or(cmp.Compare(a.DisplayOrder, b.DisplayOrder), cmp.Compare(a.ID, b.ID))
	})
}
