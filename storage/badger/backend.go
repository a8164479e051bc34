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

package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/derechos/storage"
)

// Backend wraps a BadgerDB instance and provides low-level operations.
type Backend struct {
	db       *badger.DB
	readOnly bool
	logger   *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

// Badger is chatty at info level; its progress lines go to debug.
func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// badgerManifest is the file badger writes when it creates a database.
const badgerManifest = "MANIFEST"

type backendOptions struct {
	inMemory bool
	readOnly bool
	logger   *slog.Logger
}

// BackendOption configures OpenBackend.
type BackendOption func(*backendOptions)

// InMemory keeps the whole database in memory. The path is ignored.
func InMemory() BackendOption {
	return func(o *backendOptions) { o.inMemory = true }
}

// ReadOnly opens an existing database without write access.
// Several processes may share a read-only database.
func ReadOnly() BackendOption {
	return func(o *backendOptions) { o.readOnly = true }
}

// WithLogger sets the logger used by the backend and the badger engine.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) BackendOption {
	return func(o *backendOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist, unless opening read-only, in
// which case a missing directory or one without a badger MANIFEST is
// storage.ErrNotFound.
func OpenBackend(filePath string, opts ...BackendOption) (*Backend, error) {
	o := &backendOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var bopts badger.Options
	if o.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(filePath, !o.readOnly); err != nil {
			return nil, err
		}
		bopts = badger.DefaultOptions(filePath).WithReadOnly(o.readOnly)
	}

	bopts.Logger = &badgerLoggerAdapter{logger: o.logger}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:       db,
		readOnly: o.readOnly && !o.inMemory,
		logger:   o.logger,
	}, nil
}

func ensureDir(filePath string, create bool) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if !create {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, filePath)
		}
		if err := os.MkdirAll(filePath, 0755); err != nil {
			return err
		}
		info, err = os.Stat(filePath)
		if err != nil {
			return err
		}
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", storage.ErrNotDirectory, filePath)
	}
	if !create {
		if _, err := os.Stat(filepath.Join(filePath, badgerManifest)); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: no database in %s", storage.ErrNotFound, filePath)
		}
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// IsReadOnly reports whether the backend rejects writes.
func (b *Backend) IsReadOnly() bool {
	return b.readOnly
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction; fn is responsible for
// committing it. The transaction is always discarded afterwards.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	if isWrite && b.readOnly {
		return storage.ErrReadOnly
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Reset drops every key in the database.
func (b *Backend) Reset() error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	if b.readOnly {
		return storage.ErrReadOnly
	}
	b.logger.Debug("dropping all catalog data")
	return b.db.DropAll()
}
