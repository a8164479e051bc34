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

// Package sqlite implements the storage contracts on a relational SQLite
// database through gorm. The schema is the one the mobile application ships.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/derechos/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements storage.Store on a gorm connection.
type Store struct {
	db         *gorm.DB
	situations *SituationRepository
	references *ReferenceRepository
	manifests  *ManifestRepository
	logger     *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// Open opens or creates the SQLite database at path and migrates the schema.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if path == MemoryPath {
		// Every pooled connection to :memory: is a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	s := &Store{
		db:         db,
		situations: &SituationRepository{db: db},
		references: &ReferenceRepository{db: db},
		manifests:  &ManifestRepository{db: db},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			closeDB(db)
			return nil, err
		}
	}
	s.logger.Debug("opened sqlite store", "path", path)
	return s, nil
}

// OpenMemory opens an empty in-memory store.
func OpenMemory(opts ...Option) (*Store, error) {
	return Open(MemoryPath, opts...)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
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

// Reset deletes every row of every table in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range allModels() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("reset: %w", err)
			}
		}
		return nil
	})
}
