// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "context"

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Batch buffers writes until Write applies all of them at once.
type Batch interface {
	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
	Write() error
}

type Batcher interface {
	NewBatch() Batch
}

// Store is a [Mutable] that can also apply a group of writes atomically.
type Store interface {
	Mutable
	Batcher
}
