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

// Package storage provides the storage abstraction layer for derechos.
//
// This package defines repository interfaces that decouple the matcher and
// the detail assembler from the persistence engine. Two backends implement
// them:
//
//   - badger: an embedded key-value store with prefix-keyed secondary indexes,
//     used as the primary, read-only store at query time
//   - sqlite: a relational database (via gorm) with the same tables the mobile
//     application reads
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - SituationRepository: situations, their join rows and time limits
//   - ReferenceRepository: rights, actions, contacts, contexts, sources, myths
//   - ManifestRepository: the description of the installed catalog
//   - Store: all of the above plus Reset, used by the catalog installer
//
// # Usage
//
// Open a store read-only for querying:
//
//	backend, err := badger.OpenBackend("/path/to/db", badger.ReadOnly())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	store := badger.NewStore(backend)
//
// Use in tests with in-memory storage:
//
//	store, backend, err := badger.NewMemoryRepositories()
//
// # Lifecycle
//
// Records are written in bulk by the catalog installer, which resets the
// store and upserts everything by identifier. The query side never writes.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
