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

package catalog

import "errors"

var (
	// ErrCatalogNotFound is returned when the catalog directory doesn't exist.
	ErrCatalogNotFound = errors.New("catalog directory not found")

	// ErrMalformedDocument is returned when a catalog file is not valid JSON
	// of the expected shape.
	ErrMalformedDocument = errors.New("malformed catalog document")

	// ErrInvalidCatalog wraps every problem found by Validate.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrDuplicateID is returned when two records of the same kind share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrDanglingReference is returned when a record points at an id that
	// doesn't exist.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrMissingNormalContext is returned when the catalog lacks the normal context.
	ErrMissingNormalContext = errors.New("catalog must define the normal context")

	// ErrEmptySituation is returned when a situation has no rights, actions or contacts.
	ErrEmptySituation = errors.New("situation needs at least one right, action and contact")

	// ErrStoreRequired is returned when an installer is built without a store.
	ErrStoreRequired = errors.New("store required")
)
