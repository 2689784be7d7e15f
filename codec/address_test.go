// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

const hrp = "piggy"

func TestAddressBech32(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(0xff, ids.GenerateTestID())
	saddr, err := AddressBech32(hrp, addr)
	require.NoError(err)

	parsed, err := ParseAddressBech32(hrp, saddr)
	require.NoError(err)
	require.Equal(addr, parsed)
	require.Equal(uint8(0xff), parsed.TypeID())
}

func TestParseAddressIncorrectHRP(t *testing.T) {
	require := require.New(t)

	saddr := MustAddressBech32("other", CreateAddress(0, ids.GenerateTestID()))
	_, err := ParseAddressBech32(hrp, saddr)
	require.ErrorIs(err, ErrIncorrectHRP)
}

func TestAddressText(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(1, ids.GenerateTestID())
	b, err := addr.MarshalText()
	require.NoError(err)
	require.Equal("0x"+addr.String(), string(b))

	var parsed Address
	require.NoError(parsed.UnmarshalText(b))
	require.Equal(addr, parsed)

	require.ErrorIs(parsed.UnmarshalText([]byte("0x0102")), ErrInvalidSize)
}
