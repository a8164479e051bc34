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

// Package search matches free-text Spanish queries to cataloged situations
// and assembles the rights, actions, contacts and time limits attached to them.
//
// The Searcher scores every active situation with four signals:
//   - Natural query similarity against the canned phrasings
//   - Keyword overlap
//   - Title overlap
//   - Four-rune prefix matching for inflected or misspelled words
//
// The signals are fused with fixed weights; situations at or below
// RelevanceFloor are dropped. Situations are loaded once per catalog version
// and kept pre-tokenized, so concurrent searches share one immutable snapshot.
//
// The Assembler expands a situation id into its Details.
package search
