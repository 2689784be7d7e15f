// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Store = MutableStorage(nil)
	_ Store = (*Database)(nil)
)

// MutableStorage implements [Store] by wrapping a key-value map.
type MutableStorage map[string][]byte

func (m MutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := m[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

func (m MutableStorage) Insert(_ context.Context, key []byte, value []byte) error {
	m[string(key)] = value
	return nil
}

func (m MutableStorage) Remove(_ context.Context, key []byte) error {
	delete(m, string(key))
	return nil
}

func (m MutableStorage) NewBatch() Batch {
	return &storageBatch{m: m}
}

type storageBatch struct {
	m   MutableStorage
	ops database.BatchOps
}

func (b *storageBatch) Insert(_ context.Context, key []byte, value []byte) error {
	return b.ops.Put(key, value)
}

func (b *storageBatch) Remove(_ context.Context, key []byte) error {
	return b.ops.Delete(key)
}

func (b *storageBatch) Write() error {
	for _, op := range b.ops.Ops {
		if op.Delete {
			delete(b.m, string(op.Key))
			continue
		}
		b.m[string(op.Key)] = op.Value
	}
	b.ops.Reset()
	return nil
}

// KeyValueStore is the subset of an avalanchego database the ledger needs.
type KeyValueStore interface {
	database.KeyValueReaderWriterDeleter
	database.Batcher
}

// Database implements [Store] on top of an avalanchego key-value store
// (memdb in tests, pebble on disk).
type Database struct {
	db KeyValueStore
}

func NewDatabase(db KeyValueStore) *Database {
	return &Database{db: db}
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return d.db.Get(key)
}

func (d *Database) Insert(_ context.Context, key []byte, value []byte) error {
	return d.db.Put(key, value)
}

func (d *Database) Remove(_ context.Context, key []byte) error {
	return d.db.Delete(key)
}

func (d *Database) NewBatch() Batch {
	return &databaseBatch{batch: d.db.NewBatch()}
}

type databaseBatch struct {
	batch database.Batch
}

func (b *databaseBatch) Insert(_ context.Context, key []byte, value []byte) error {
	return b.batch.Put(key, value)
}

func (b *databaseBatch) Remove(_ context.Context, key []byte) error {
	return b.batch.Delete(key)
}

func (b *databaseBatch) Write() error {
	return b.batch.Write()
}
