// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/consts"
)

func TestPackerAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(0, ids.GenerateTestID())

	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(addr)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), AddressLen)
	var unpacked Address
	rp.UnpackAddress(&unpacked)
	require.NoError(rp.Err())
	require.True(rp.Empty())
	require.Equal(addr, unpacked)
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(consts.Uint64Len, consts.Uint64Len)
	wp.PackUint64(0)
	rp := NewReader(wp.Bytes(), consts.Uint64Len)
	require.Zero(rp.UnpackUint64(true))
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerUnpackBytesLimit(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(BytesLen([]byte{1, 2, 3}), consts.MaxInt)
	wp.PackBytes([]byte{1, 2, 3})

	var dest []byte
	rp := NewReader(wp.Bytes(), consts.MaxInt)
	rp.UnpackBytes(2, false, &dest)
	require.True(rp.Errored())
}

func TestPackerOverflow(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(1, 1)
	wp.PackUint64(1)
	require.True(wp.Errored())
}
