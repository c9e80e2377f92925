// Package storage wraps goleveldb as the core's persistent KV with WAL,
// generalizing the teacher's levelDB/db.go Init/Get/Put/Delete trio with a
// prefix-scan iterator the state store needs.
package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/aegenchain/aegen-core/aerr"
)

// DB is a thin handle over a leveldb instance. Reads are safe for
// concurrent use by multiple goroutines; goleveldb internally serializes
// writes via its own lock, matching the spec's "contract storage writes go
// through the underlying KV's own lock" note.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if absent) a leveldb database rooted at path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w: %v", path, aerr.ErrStorage, err)
	}
	return &DB{ldb: ldb}, nil
}

func (db *DB) Close() error {
	if err := db.ldb.Close(); err != nil {
		return fmt.Errorf("storage: close: %w: %v", aerr.ErrStorage, err)
	}
	return nil
}

// Get returns the value for key, or (nil, false, nil) if the key is
// missing — missing keys are not errors per the spec.
func (db *DB) Get(key []byte) ([]byte, bool, error) {
	v, err := db.ldb.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: get: %w: %v", aerr.ErrStorage, err)
	}
	return v, true, nil
}

func (db *DB) Put(key, value []byte) error {
	if err := db.ldb.Put(key, value, nil); err != nil {
		return fmt.Errorf("storage: put: %w: %v", aerr.ErrStorage, err)
	}
	return nil
}

func (db *DB) Delete(key []byte) error {
	if err := db.ldb.Delete(key, nil); err != nil {
		return fmt.Errorf("storage: delete: %w: %v", aerr.ErrStorage, err)
	}
	return nil
}

// ScanPrefix calls fn for every key/value pair whose key starts with
// prefix, in key order. fn returning false stops the scan early.
func (db *DB) ScanPrefix(prefix []byte, fn func(key, value []byte) bool) error {
	iter := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		if !fn(iter.Key(), iter.Value()) {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("storage: scan: %w: %v", aerr.ErrStorage, err)
	}
	return nil
}

// Batch groups writes into a single atomic leveldb batch.
type Batch struct {
	b *leveldb.Batch
}

func NewBatch() *Batch { return &Batch{b: new(leveldb.Batch)} }

func (wb *Batch) Put(key, value []byte) { wb.b.Put(key, value) }
func (wb *Batch) Delete(key []byte)     { wb.b.Delete(key) }

func (db *DB) WriteBatch(wb *Batch) error {
	if err := db.ldb.Write(wb.b, nil); err != nil {
		return fmt.Errorf("storage: write batch: %w: %v", aerr.ErrStorage, err)
	}
	return nil
}
