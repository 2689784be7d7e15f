// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/crypto/ed25519"
	"github.com/ava-labs/piggybank/state"
)

func TestWallet(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	w := newWallet(state.MutableStorage{})

	_, _, err := w.GetDefaultKey(ctx)
	require.ErrorIs(err, ErrNoKeys)

	alice, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	bob, err := ed25519.GeneratePrivateKey()
	require.NoError(err)

	require.NoError(w.StoreKey(ctx, "alice", alice))
	require.NoError(w.StoreKey(ctx, "bob", bob))
	require.ErrorIs(w.StoreKey(ctx, "alice", bob), ErrDuplicateKeyName)

	names, err := w.Keys(ctx)
	require.NoError(err)
	require.Equal([]string{"alice", "bob"}, names)

	name, priv, err := w.GetDefaultKey(ctx)
	require.NoError(err)
	require.Equal("alice", name)
	require.Equal(alice, priv)

	require.ErrorIs(w.StoreDefaultKey(ctx, "carol"), ErrNamedKeyNotFound)
	require.NoError(w.StoreDefaultKey(ctx, "bob"))
	name, priv, err = w.GetDefaultKey(ctx)
	require.NoError(err)
	require.Equal("bob", name)
	require.Equal(bob, priv)
}
