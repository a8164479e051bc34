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
	"fmt"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SituationRepository implements storage.SituationRepository on SQLite.
type SituationRepository struct {
	db *gorm.DB
}

var _ storage.SituationRepository = (*SituationRepository)(nil)

// Close releases resources. The connection belongs to the Store.
func (r *SituationRepository) Close() error {
	return nil
}

// upsert inserts rows, replacing every column on primary key conflict.
func upsert[M any](ctx context.Context, db *gorm.DB, rows []*M) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

func mapAll[I, O any](in []I, f func(I) O) []O {
	out := make([]O, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func (r *SituationRepository) AddSituations(ctx context.Context, situations ...*core.Situation) error {
	return upsert(ctx, r.db, mapAll(situations, toSituationModel))
}

func (r *SituationRepository) GetSituation(ctx context.Context, id string) (*core.Situation, error) {
	var m situationModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return m.toCore(), nil
}

func (r *SituationRepository) listWhere(ctx context.Context, query any, args ...any) ([]*core.Situation, error) {
	var models []*situationModel
	tx := r.db.WithContext(ctx).Order("display_order, id")
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapAll(models, (*situationModel).toCore), nil
}

func (r *SituationRepository) ListSituations(ctx context.Context) ([]*core.Situation, error) {
	return r.listWhere(ctx, nil)
}

func (r *SituationRepository) ListActiveSituations(ctx context.Context) ([]*core.Situation, error) {
	return r.listWhere(ctx, "is_active = ?", true)
}

func (r *SituationRepository) ChildSituations(ctx context.Context, parentID string) ([]*core.Situation, error) {
	return r.listWhere(ctx, "parent_situation_id = ?", parentID)
}

func (r *SituationRepository) AddSituationRights(ctx context.Context, rows ...*core.SituationRight) error {
	return upsert(ctx, r.db, mapAll(rows, func(row *core.SituationRight) *situationRightModel {
		return &situationRightModel{
			SituationID: row.SituationID,
			RightID:     row.RightID,
			ContextID:   row.ContextID,
			Applies:     row.Applies,
			Notes:       row.Notes,
		}
	}))
}

func (r *SituationRepository) AddSituationActions(ctx context.Context, rows ...*core.SituationAction) error {
	return upsert(ctx, r.db, mapAll(rows, func(row *core.SituationAction) *situationActionModel {
		return &situationActionModel{
			SituationID: row.SituationID,
			ContextID:   row.ContextID,
			StepOrder:   row.StepOrder,
			ActionID:    row.ActionID,
			IsAvailable: row.IsAvailable,
		}
	}))
}

func (r *SituationRepository) AddSituationContacts(ctx context.Context, rows ...*core.SituationContact) error {
	return upsert(ctx, r.db, mapAll(rows, func(row *core.SituationContact) *situationContactModel {
		return &situationContactModel{
			SituationID: row.SituationID,
			ContactID:   row.ContactID,
			Priority:    row.Priority,
		}
	}))
}

func (r *SituationRepository) AddTimeLimits(ctx context.Context, limits ...*core.TimeLimit) error {
	return upsert(ctx, r.db, mapAll(limits, toTimeLimitModel))
}

func (r *SituationRepository) SituationRights(ctx context.Context, situationID string) ([]*core.SituationRight, error) {
	var models []*situationRightModel
	err := r.db.WithContext(ctx).
		Where("situation_id = ?", situationID).
		Order("right_id, context_id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapAll(models, func(m *situationRightModel) *core.SituationRight {
		return &core.SituationRight{
			SituationID: m.SituationID,
			RightID:     m.RightID,
			ContextID:   m.ContextID,
			Applies:     m.Applies,
			Notes:       m.Notes,
		}
	}), nil
}

func (r *SituationRepository) SituationActions(ctx context.Context, situationID string) ([]*core.SituationAction, error) {
	var models []*situationActionModel
	err := r.db.WithContext(ctx).
		Where("situation_id = ?", situationID).
		Order("step_order, context_id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapAll(models, func(m *situationActionModel) *core.SituationAction {
		return &core.SituationAction{
			SituationID: m.SituationID,
			ActionID:    m.ActionID,
			ContextID:   m.ContextID,
			StepOrder:   m.StepOrder,
			IsAvailable: m.IsAvailable,
		}
	}), nil
}

func (r *SituationRepository) SituationContacts(ctx context.Context, situationID string) ([]*core.SituationContact, error) {
	var models []*situationContactModel
	err := r.db.WithContext(ctx).
		Where("situation_id = ?", situationID).
		Order("priority, contact_id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapAll(models, func(m *situationContactModel) *core.SituationContact {
		return &core.SituationContact{
			SituationID: m.SituationID,
			ContactID:   m.ContactID,
			Priority:    m.Priority,
		}
	}), nil
}

func (r *SituationRepository) TimeLimits(ctx context.Context, situationID string) ([]*core.TimeLimit, error) {
	var models []*timeLimitModel
	err := r.db.WithContext(ctx).
		Where("situation_id = ?", situationID).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapAll(models, (*timeLimitModel).toCore), nil
}
