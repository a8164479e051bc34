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

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/poiesic/derechos/core"
)

const metadataFile = "metadata.json"

// Catalog subdirectories. Each is optional.
const (
	dirContexts   = "contexts"
	dirSources    = "sources"
	dirRights     = "rights"
	dirActions    = "actions"
	dirContacts   = "contacts"
	dirSituations = "situations"
	dirMyths      = "myths"
)

// LoadDir reads a catalog from a directory on disk.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCatalogNotFound, dir)
	}
	return Load(os.DirFS(dir))
}

// Load reads a catalog rooted at fsys. Files within a subdirectory are read
// in name order, so record order is stable across runs.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}

	if raw, err := fs.ReadFile(fsys, metadataFile); err == nil {
		if err := json.Unmarshal(raw, &c.Metadata); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, metadataFile, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var err error
	if c.Contexts, err = loadKind[core.Context](fsys, dirContexts); err != nil {
		return nil, err
	}
	if c.Sources, err = loadKind[core.LegalSource](fsys, dirSources); err != nil {
		return nil, err
	}
	rights, err := loadKind[rightDocument](fsys, dirRights)
	if err != nil {
		return nil, err
	}
	for _, doc := range rights {
		c.addRight(doc)
	}
	if c.Actions, err = loadKind[core.Action](fsys, dirActions); err != nil {
		return nil, err
	}
	if c.Contacts, err = loadKind[core.EmergencyContact](fsys, dirContacts); err != nil {
		return nil, err
	}
	situations, err := loadKind[situationDocument](fsys, dirSituations)
	if err != nil {
		return nil, err
	}
	for _, doc := range situations {
		c.addSituation(doc)
	}
	if c.Myths, err = loadKind[core.Myth](fsys, dirMyths); err != nil {
		return nil, err
	}

	return c, nil
}

// loadKind decodes every *.json file of a subdirectory.
// A missing subdirectory yields no records.
func loadKind[T any](fsys fs.FS, dir string) ([]*T, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0)
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		records, err := decodeRecords[T](raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, name, err)
		}
		for _, r := range records {
			if r != nil {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

// decodeRecords accepts either an array of records or a single record.
func decodeRecords[T any](raw []byte) ([]*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var records []*T
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return records, nil
	}
	var record T
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, err
	}
	return []*T{&record}, nil
}
