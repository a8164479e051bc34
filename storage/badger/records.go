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

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/derechos/storage"
)

// putRecord serializes and stores a record under key.
func putRecord[T storage.Record](tx *badger.Txn, key []byte, record *T) error {
	value, err := storage.Marshal(record)
	if err != nil {
		return err
	}
	return tx.Set(key, value)
}

// readRecord reads a record by key.
// Returns nil, nil if the key doesn't exist.
func readRecord[T storage.Record](tx *badger.Txn, key []byte) (*T, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *T
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.Unmarshal[T](val)
		return unmarshalErr
	})
	return record, err
}

// scanRecords reads every record whose key starts with prefix, in key order.
func scanRecords[T storage.Record](tx *badger.Txn, prefix []byte) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var records []*T
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		var record *T
		err := iter.Item().Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.Unmarshal[T](val)
			return unmarshalErr
		})
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// scanKeys returns the keys starting with prefix without reading values.
func scanKeys(tx *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}

// readByIDs reads records whose keys are built by keyFn, keeping the order of
// ids and skipping missing ones.
func readByIDs[T storage.Record](tx *badger.Txn, keyFn func(string) []byte, ids []string) ([]*T, error) {
	records := make([]*T, 0, len(ids))
	for _, id := range ids {
		record, err := readRecord[T](tx, keyFn(id))
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, record)
		}
	}
	return records, nil
}
