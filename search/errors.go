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

import "errors"

var (
	// ErrSituationRepositoryRequired is returned when a situation repository is not provided.
	ErrSituationRepositoryRequired = errors.New("situation repository required")

	// ErrManifestRepositoryRequired is returned when a manifest repository is not provided.
	ErrManifestRepositoryRequired = errors.New("manifest repository required")

	// ErrReferenceRepositoryRequired is returned when a reference repository is not provided.
	ErrReferenceRepositoryRequired = errors.New("reference repository required")

	// ErrDataSourceUnavailable is returned when no catalog has been installed.
	// It is distinct from an empty result, which means nothing was relevant.
	ErrDataSourceUnavailable = errors.New("no catalog installed, run the build step first")

	// ErrSituationNotFound is returned by Lookup for an unknown situation id.
	ErrSituationNotFound = errors.New("situation not found")
)
