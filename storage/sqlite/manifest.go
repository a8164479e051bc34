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

package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ManifestRepository implements storage.ManifestRepository on SQLite.
type ManifestRepository struct {
	db *gorm.DB
}

var _ storage.ManifestRepository = (*ManifestRepository)(nil)

// SaveManifest replaces the single manifest row.
// BuiltAt is set to now when zero.
func (r *ManifestRepository) SaveManifest(ctx context.Context, manifest *core.Manifest) error {
	if manifest.BuiltAt.IsZero() {
		manifest.BuiltAt = time.Now().UTC()
	}
	counts := manifest.Counts
	if counts == nil {
		counts = map[string]int{}
	}
	return upsert(ctx, r.db, []*manifestModel{{
		ID:          manifestRowID,
		Version:     manifest.Version,
		Country:     manifest.Country,
		DataVersion: manifest.DataVersion,
		BuiltAt:     manifest.BuiltAt,
		Counts:      datatypes.NewJSONType(counts),
	}})
}

// LoadManifest returns nil, nil when no catalog is installed.
func (r *ManifestRepository) LoadManifest(ctx context.Context) (*core.Manifest, error) {
	var m manifestModel
	if err := r.db.WithContext(ctx).First(&m, manifestRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &core.Manifest{
		Version:     m.Version,
		Country:     m.Country,
		DataVersion: m.DataVersion,
		BuiltAt:     m.BuiltAt,
		Counts:      m.Counts.Data(),
	}, nil
}
