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

// Package catalog loads a country's legal catalog from JSON documents,
// validates it and installs it into a store.
//
// A catalog directory looks like:
//
//	data/PE/
//	  metadata.json
//	  contexts/*.json
//	  sources/*.json
//	  rights/*.json
//	  actions/*.json
//	  contacts/*.json
//	  situations/*.json
//	  myths/*.json
//
// Every file holds an array of records, or a single record. Situations embed
// their links to rights, actions and contacts together with their time limits.
//
// Installation replaces the whole catalog:
//
//	cat, err := catalog.LoadDir("data/PE")
//	if err != nil {
//	    return err
//	}
//	installer, err := catalog.NewInstaller(store)
//	if err != nil {
//	    return err
//	}
//	manifest, err := installer.Install(ctx, cat)
package catalog
