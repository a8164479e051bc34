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

package derechos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/derechos/catalog"
	"github.com/poiesic/derechos/core"
	"github.com/poiesic/derechos/search"
	"github.com/poiesic/derechos/storage"
	"github.com/poiesic/derechos/storage/badger"
	"github.com/poiesic/derechos/storage/sqlite"
)

// ErrDataSourceUnavailable is returned when no catalog has been built yet.
var ErrDataSourceUnavailable = search.ErrDataSourceUnavailable

// Database is a catalog store on disk together with the services built on it.
type Database struct {
	backend *badger.Backend
	store   *badger.Store
	logger  *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to the store and every service the
// database creates. Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

func applyOptions(opts []DatabaseOption) *databaseOptions {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// NewDatabase opens or creates a writable database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := applyOptions(opts)
	backend, err := badger.OpenBackend(filePath, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	return newDatabase(backend, options), nil
}

// OpenDatabase opens an existing database read-only.
// A missing database is ErrDataSourceUnavailable.
func OpenDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := applyOptions(opts)
	backend, err := badger.OpenBackend(filePath, badger.ReadOnly(), badger.WithLogger(options.logger))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrDataSourceUnavailable, err)
		}
		return nil, err
	}
	return newDatabase(backend, options), nil
}

func newDatabase(backend *badger.Backend, options *databaseOptions) *Database {
	return &Database{
		backend: backend,
		store:   badger.NewStore(backend),
		logger:  options.logger,
	}
}

func (db *Database) Close() error {
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the repositories of the database.
func (db *Database) Store() storage.Store {
	return db.store
}

func (db *Database) Situations() storage.SituationRepository {
	return db.store.Situations()
}

func (db *Database) References() storage.ReferenceRepository {
	return db.store.References()
}

// Manifest describes the installed catalog.
// Returns ErrDataSourceUnavailable if none was installed.
func (db *Database) Manifest(ctx context.Context) (*core.Manifest, error) {
	m, err := db.store.Manifests().LoadManifest(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrDataSourceUnavailable
	}
	return m, nil
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(db.store.Situations(), db.store.Manifests(), opts...)
}

func (db *Database) NewAssembler(opts ...search.AssemblerOption) (*search.Assembler, error) {
	opts = append([]search.AssemblerOption{search.WithAssemblerLogger(db.logger)}, opts...)
	return search.NewAssembler(db.store.Situations(), db.store.References(), opts...)
}

func (db *Database) NewInstaller(opts ...catalog.Option) (*catalog.Installer, error) {
	opts = append([]catalog.Option{catalog.WithLogger(db.logger)}, opts...)
	return catalog.NewInstaller(db.store, opts...)
}

// ExportSQLite installs a catalog into a relational SQLite file at path,
// replacing any catalog already there.
func ExportSQLite(ctx context.Context, c *catalog.Catalog, path string, opts ...DatabaseOption) (*core.Manifest, error) {
	options := applyOptions(opts)
	store, err := sqlite.Open(path, sqlite.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			options.logger.Error("error closing sqlite export", "path", path, "err", err)
		}
	}()

	installer, err := catalog.NewInstaller(store, catalog.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}
	return installer.Install(ctx, c)
}
