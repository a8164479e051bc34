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

package search

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
)

// Assembler expands a situation into the records attached to it.
type Assembler struct {
	situations storage.SituationRepository
	references storage.ReferenceRepository
	logger     *slog.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler) error

// WithAssemblerLogger sets a custom logger.
// Default is slog.Default().
func WithAssemblerLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAssembler creates a new detail assembler.
func NewAssembler(
	situations storage.SituationRepository,
	references storage.ReferenceRepository,
	opts ...AssemblerOption,
) (*Assembler, error) {
	if situations == nil {
		return nil, ErrSituationRepositoryRequired
	}
	if references == nil {
		return nil, ErrReferenceRepositoryRequired
	}

	a := &Assembler{
		situations: situations,
		references: references,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Lookup returns a situation by id.
// Returns ErrSituationNotFound if it doesn't exist.
func (a *Assembler) Lookup(ctx context.Context, id string) (*core.Situation, error) {
	situation, err := a.situations.GetSituation(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSituationNotFound
		}
		return nil, err
	}
	return situation, nil
}

// Details returns every right, available action, contact and time limit of
// a situation across all contexts. Rights are ordered by display order,
// actions by step order and contacts by priority. An unknown id yields
// empty lists, not an error.
func (a *Assembler) Details(ctx context.Context, id string) (*core.Details, error) {
	rights, err := a.rights(ctx, id)
	if err != nil {
		return nil, err
	}
	actions, err := a.actions(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.assemble(ctx, id, rights, actions)
}

// DetailsForContext is Details restricted to one legal context.
// A right listed under contextID replaces its normal entry. Actions come
// from contextID when the situation defines steps for it, otherwise from
// the normal context.
func (a *Assembler) DetailsForContext(ctx context.Context, id, contextID string) (*core.Details, error) {
	if contextID == "" {
		contextID = core.ContextNormal
	}

	rights, err := a.rights(ctx, id)
	if err != nil {
		return nil, err
	}
	overridden := make(map[string]bool)
	for _, r := range rights {
		if r.ContextID == contextID {
			overridden[r.Right.ID] = true
		}
	}
	kept := rights[:0]
	for _, r := range rights {
		switch {
		case r.ContextID == contextID:
			kept = append(kept, r)
		case r.ContextID == core.ContextNormal && !overridden[r.Right.ID]:
			kept = append(kept, r)
		}
	}

	actions, err := a.actions(ctx, id)
	if err != nil {
		return nil, err
	}
	source := core.ContextNormal
	for _, step := range actions {
		if step.ContextID == contextID {
			source = contextID
			break
		}
	}
	steps := make([]core.ActionStep, 0, len(actions))
	for _, step := range actions {
		if step.ContextID == source {
			steps = append(steps, step)
		}
	}

	return a.assemble(ctx, id, kept, steps)
}

// ActiveEmergencyContext returns the declared emergency currently in force,
// or nil if there is none.
func (a *Assembler) ActiveEmergencyContext(ctx context.Context) (*core.Context, error) {
	contexts, err := a.references.ListContexts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range contexts {
		if c.IsActiveEmergency() {
			return c, nil
		}
	}
	return nil, nil
}

// RightSources returns the legal sources cited by a right.
func (a *Assembler) RightSources(ctx context.Context, rightID string) ([]*core.LegalSource, error) {
	rows, err := a.references.RightSources(ctx, rightID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SourceID)
	}
	return a.references.GetSources(ctx, ids...)
}

func (a *Assembler) assemble(ctx context.Context, id string, rights []core.RightDetail, actions []core.ActionStep) (*core.Details, error) {
	details := core.NewDetails()
	details.Rights = append(details.Rights, rights...)
	details.Actions = append(details.Actions, actions...)

	contacts, err := a.contacts(ctx, id)
	if err != nil {
		return nil, err
	}
	details.Contacts = append(details.Contacts, contacts...)

	limits, err := a.situations.TimeLimits(ctx, id)
	if err != nil {
		a.logger.Error("error reading time limits", "situation", id, "err", err)
		return nil, err
	}
	for _, l := range limits {
		details.TimeLimits = append(details.TimeLimits, *l)
	}
	return details, nil
}

func contextRank(contextID string) int {
	if contextID == core.ContextNormal {
		return 0
	}
	return 1
}

func (a *Assembler) rights(ctx context.Context, id string) ([]core.RightDetail, error) {
	rows, err := a.situations.SituationRights(ctx, id)
	if err != nil {
		a.logger.Error("error reading situation rights", "situation", id, "err", err)
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RightID)
	}
	records, err := a.references.GetRights(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*core.Right, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	out := make([]core.RightDetail, 0, len(rows))
	for _, row := range rows {
		right, ok := byID[row.RightID]
		if !ok {
			a.logger.Warn("situation references missing right", "situation", id, "right", row.RightID)
			continue
		}
		out = append(out, core.RightDetail{
			Right:     *right,
			ContextID: row.ContextID,
			Applies:   row.Applies,
			Notes:     row.Notes,
		})
	}
	slices.SortStableFunc(out, func(x, y core.RightDetail) int {
		return cmp.Or(
			cmp.Compare(x.Right.DisplayOrder, y.Right.DisplayOrder),
			cmp.Compare(x.Right.ID, y.Right.ID),
			cmp.Compare(contextRank(x.ContextID), contextRank(y.ContextID)),
			cmp.Compare(x.ContextID, y.ContextID),
		)
	})
	return out, nil
}

func (a *Assembler) actions(ctx context.Context, id string) ([]core.ActionStep, error) {
	rows, err := a.situations.SituationActions(ctx, id)
	if err != nil {
		a.logger.Error("error reading situation actions", "situation", id, "err", err)
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.IsAvailable {
			ids = append(ids, row.ActionID)
		}
	}
	records, err := a.references.GetActions(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*core.Action, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	out := make([]core.ActionStep, 0, len(ids))
	for _, row := range rows {
		if !row.IsAvailable {
			continue
		}
		action, ok := byID[row.ActionID]
		if !ok {
			a.logger.Warn("situation references missing action", "situation", id, "action", row.ActionID)
			continue
		}
		out = append(out, core.ActionStep{
			Action:    *action,
			ContextID: row.ContextID,
			StepOrder: row.StepOrder,
		})
	}
	slices.SortStableFunc(out, func(x, y core.ActionStep) int {
		return cmp.Or(
			cmp.Compare(x.StepOrder, y.StepOrder),
			cmp.Compare(contextRank(x.ContextID), contextRank(y.ContextID)),
			cmp.Compare(x.ContextID, y.ContextID),
		)
	})
	return out, nil
}

func (a *Assembler) contacts(ctx context.Context, id string) ([]core.ContactDetail, error) {
	rows, err := a.situations.SituationContacts(ctx, id)
	if err != nil {
		a.logger.Error("error reading situation contacts", "situation", id, "err", err)
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ContactID)
	}
	records, err := a.references.GetContacts(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*core.EmergencyContact, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	out := make([]core.ContactDetail, 0, len(rows))
	for _, row := range rows {
		contact, ok := byID[row.ContactID]
		if !ok {
			a.logger.Warn("situation references missing contact", "situation", id, "contact", row.ContactID)
			continue
		}
		out = append(out, core.ContactDetail{Contact: *contact, Priority: row.Priority})
	}
	slices.SortStableFunc(out, func(x, y core.ContactDetail) int {
		return cmp.Compare(x.Priority, y.Priority)
	})
	return out, nil
}
