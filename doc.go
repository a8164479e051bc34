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

// Package derechos answers plain Spanish questions about police encounters
// with the matching cataloged situation and the rights, steps, contacts and
// time limits that apply to it.
//
// Build a database once from a country catalog:
//
//	db, err := derechos.NewDatabase("derechos.db")
//	cat, err := catalog.LoadDir("data/PE")
//	installer, err := db.NewInstaller()
//	_, err = installer.Install(ctx, cat)
//
// Then query it, read-only:
//
//	db, err := derechos.OpenDatabase("derechos.db")
//	searcher, err := db.NewSearcher()
//	results, err := searcher.Search(ctx, "me piden el DNI", 3)
//	assembler, err := db.NewAssembler()
//	details, err := assembler.Details(ctx, results[0].SituationID)
package derechos
