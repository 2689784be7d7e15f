// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/piggybank/state"
)

const defaultOps = 4

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	k           string
	pastChanged bool
	pastV       maybe.Maybe[[]byte]
}

// TStateView buffers the writes of a single call on top of [base]. Nothing
// reaches [base] until [Commit] is called, so a failed call is discarded by
// dropping the view (or rolling it back to 0).
type TStateView struct {
	base  state.Immutable
	scope state.Keys

	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op
}

func NewView(base state.Immutable, scope state.Keys) *TStateView {
	return &TStateView{
		base:               base,
		scope:              scope,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte], len(scope)),
		ops:                make([]*op, 0, defaultOps),
	}
}

// Rollback restores the view to the ts.ops[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}
		ts.pendingChangedKeys[op.k] = op.pastV
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// PendingChanges returns the number of keys modified by the view.
func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

func (ts *TStateView) checkScope(k string, perm state.Permissions) bool {
	return ts.scope[k].Has(perm)
}

// GetValue returns the value associated with [key]. If [key] was not
// granted [state.Read] an error is returned.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	k := string(key)
	if !ts.checkScope(k, state.Read) {
		return nil, ErrInvalidKeyOrPermission
	}
	v, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (ts *TStateView) getValue(ctx context.Context, k string) ([]byte, bool, error) {
	if v, ok := ts.pendingChangedKeys[k]; ok {
		if v.IsNothing() {
			return nil, false, nil
		}
		return v.Value(), true, nil
	}
	v, err := ts.base.GetValue(ctx, []byte(k))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Insert sets or updates [key]. Creating a key requires [state.Allocate],
// overwriting one requires [state.Write].
//
// Any bytes passed into [Insert] are owned by the view afterwards.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	k := string(key)
	_, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	need := state.Write
	if !exists {
		need = state.Allocate
	}
	if !ts.checkScope(k, need) {
		return ErrInvalidKeyOrPermission
	}
	ts.record(k)
	ts.pendingChangedKeys[k] = maybe.Some(value)
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	if !ts.checkScope(k, state.Write) {
		return ErrInvalidKeyOrPermission
	}
	_, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.record(k)
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

func (ts *TStateView) record(k string) {
	past, changed := ts.pendingChangedKeys[k]
	ts.ops = append(ts.ops, &op{
		k:           k,
		pastChanged: changed,
		pastV:       past,
	})
}

// Commit writes every pending change into a single batch of [db] in key
// order. Either all of the changes reach [db] or none do.
//
// Once [Commit] is called, the view should not be used again.
func (ts *TStateView) Commit(ctx context.Context, db state.Batcher) error {
	batch := db.NewBatch()
	keys := maps.Keys(ts.pendingChangedKeys)
	slices.Sort(keys)
	for _, k := range keys {
		v := ts.pendingChangedKeys[k]
		if v.IsNothing() {
			if err := batch.Remove(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Insert(ctx, []byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}
