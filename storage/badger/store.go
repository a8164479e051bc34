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
	"context"

	"github.com/poiesic/derechos/storage"
)

// Store groups the BadgerDB repositories over one backend.
type Store struct {
	backend    *Backend
	situations *SituationRepository
	references *ReferenceRepository
	manifests  *ManifestRepository
}

var _ storage.Store = (*Store)(nil)

// NewStore creates the repositories for backend.
// The caller keeps ownership of the backend.
func NewStore(backend *Backend) *Store {
	return &Store{
		backend:    backend,
		situations: NewSituationRepository(backend),
		references: NewReferenceRepository(backend),
		manifests:  NewManifestRepository(backend),
	}
}

func (s *Store) Situations() storage.SituationRepository {
	return s.situations
}

func (s *Store) References() storage.ReferenceRepository {
	return s.references
}

func (s *Store) Manifests() storage.ManifestRepository {
	return s.manifests
}

// Reset drops every record in the backend.
func (s *Store) Reset(ctx context.Context) error {
	return s.backend.Reset()
}
