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

package storage

import (
	"context"

	"github.com/poiesic/derechos/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	// It does not close the shared backend.
	Close() error
}

// SituationRepository provides operations for situations and the rows that
// hang off them: join rows to rights, actions and contacts, and time limits.
type SituationRepository interface {
	Repository

	// AddSituations upserts situations by ID.
	AddSituations(ctx context.Context, situations ...*core.Situation) error

	// GetSituation retrieves a single situation by ID.
	// Returns ErrNotFound if the situation doesn't exist.
	GetSituation(ctx context.Context, id string) (*core.Situation, error)

	// ListSituations returns every situation ordered by display order, then ID.
	ListSituations(ctx context.Context) ([]*core.Situation, error)

	// ListActiveSituations is ListSituations restricted to active situations.
	ListActiveSituations(ctx context.Context) ([]*core.Situation, error)

	// ChildSituations returns the situations grouped under parentID,
	// ordered by display order, then ID.
	ChildSituations(ctx context.Context, parentID string) ([]*core.Situation, error)

	// AddSituationRights upserts rows keyed by (situation, right, context).
	AddSituationRights(ctx context.Context, rows ...*core.SituationRight) error

	// AddSituationActions upserts rows keyed by (situation, context, step order).
	AddSituationActions(ctx context.Context, rows ...*core.SituationAction) error

	// AddSituationContacts upserts rows keyed by (situation, contact).
	AddSituationContacts(ctx context.Context, rows ...*core.SituationContact) error

	// AddTimeLimits upserts time limits by ID.
	AddTimeLimits(ctx context.Context, limits ...*core.TimeLimit) error

	// SituationRights returns the right rows of a situation in no particular order.
	SituationRights(ctx context.Context, situationID string) ([]*core.SituationRight, error)

	// SituationActions returns every action row of a situation, available or
	// not, ordered by step order.
	SituationActions(ctx context.Context, situationID string) ([]*core.SituationAction, error)

	// SituationContacts returns the contact rows of a situation ordered by priority.
	SituationContacts(ctx context.Context, situationID string) ([]*core.SituationContact, error)

	// TimeLimits returns the time limits owned by a situation.
	TimeLimits(ctx context.Context, situationID string) ([]*core.TimeLimit, error)
}

// ReferenceRepository provides operations for the shared reference entities
// that situations point at.
type ReferenceRepository interface {
	Repository

	AddRights(ctx context.Context, rights ...*core.Right) error
	AddActions(ctx context.Context, actions ...*core.Action) error
	AddContacts(ctx context.Context, contacts ...*core.EmergencyContact) error
	AddContexts(ctx context.Context, contexts ...*core.Context) error
	AddSources(ctx context.Context, sources ...*core.LegalSource) error
	AddMyths(ctx context.Context, myths ...*core.Myth) error
	AddRightSources(ctx context.Context, rows ...*core.RightSource) error

	// GetRights, GetActions and GetContacts return only the records that
	// exist, in the order of ids. Missing ids are not an error.
	GetRights(ctx context.Context, ids ...string) ([]*core.Right, error)
	GetActions(ctx context.Context, ids ...string) ([]*core.Action, error)
	GetContacts(ctx context.Context, ids ...string) ([]*core.EmergencyContact, error)
	GetSources(ctx context.Context, ids ...string) ([]*core.LegalSource, error)

	// GetContext retrieves a single context by ID.
	// Returns ErrNotFound if the context doesn't exist.
	GetContext(ctx context.Context, id string) (*core.Context, error)

	// List methods return records ordered by ID unless they carry a display
	// order, in which case by display order, then ID.
	ListRights(ctx context.Context) ([]*core.Right, error)
	ListContacts(ctx context.Context) ([]*core.EmergencyContact, error)
	ListContexts(ctx context.Context) ([]*core.Context, error)
	ListSources(ctx context.Context) ([]*core.LegalSource, error)
	ListMyths(ctx context.Context) ([]*core.Myth, error)

	// RightSources returns the source citations of a right.
	RightSources(ctx context.Context, rightID string) ([]*core.RightSource, error)
}

// ManifestRepository stores the description of the installed catalog.
type ManifestRepository interface {
	// SaveManifest persists the manifest, replacing any previous one.
	SaveManifest(ctx context.Context, manifest *core.Manifest) error

	// LoadManifest retrieves the manifest.
	// Returns nil, nil if no catalog was ever installed.
	LoadManifest(ctx context.Context) (*core.Manifest, error)
}

// Resetter wipes every catalog record so a new catalog can be installed whole.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Store bundles every contract a catalog installer needs.
type Store interface {
	Situations() SituationRepository
	References() ReferenceRepository
	Manifests() ManifestRepository
	Resetter
}
