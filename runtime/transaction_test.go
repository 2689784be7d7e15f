// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/auth"
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/crypto/ed25519"
	"github.com/ava-labs/piggybank/piggybank"
)

func TestTransactionMarshal(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	factory := auth.NewED25519Factory(priv)

	call := &Call{
		Contract:   codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID()),
		Entrypoint: piggybank.InsertAmount,
		Amount:     12,
		Params:     []byte{3},
	}
	tx, err := NewTransaction(7, call).Sign(factory)
	require.NoError(err)
	require.NotEqual(ids.Empty, tx.ID())
	require.Equal(factory.Address(), tx.Auth.Actor())

	b, err := tx.Bytes()
	require.NoError(err)
	parsed, err := UnmarshalTransaction(b)
	require.NoError(err)
	require.Equal(tx.ID(), parsed.ID())
	require.Equal(uint64(7), parsed.Nonce)
	require.Equal(call, parsed.Action)

	_, err = UnmarshalTransaction(append(b, 0))
	require.ErrorIs(err, codec.ErrInvalidSize)

	b[consts.Uint64Len] = 9
	_, err = UnmarshalTransaction(b)
	require.ErrorIs(err, ErrUnknownAction)
}

func TestResultMarshal(t *testing.T) {
	require := require.New(t)

	owner := codec.CreateAddress(consts.ED25519ID, ids.GenerateTestID())
	result := newResult(4, nil)
	result.Effect = piggybank.Transfer(owner, 99)

	p := codec.NewWriter(result.Size(), consts.NetworkSizeLimit)
	result.Marshal(p)
	require.NoError(p.Err())
	require.Len(p.Bytes(), result.Size())

	parsed, err := UnmarshalResult(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit))
	require.NoError(err)
	require.True(parsed.Success)
	require.Equal(result.Effect, parsed.Effect)
	require.Equal(uint64(4), parsed.Height)

	failed := newResult(5, piggybank.ErrUnauthorized)
	p = codec.NewWriter(failed.Size(), consts.NetworkSizeLimit)
	failed.Marshal(p)
	parsed, err = UnmarshalResult(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit))
	require.NoError(err)
	require.False(parsed.Success)
	require.Equal("unauthorized", parsed.Err().Error())
}
