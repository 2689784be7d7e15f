// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/codec"
)

func TestEffectMarshal(t *testing.T) {
	require := require.New(t)

	e := Transfer(owner, 1_000)
	p := codec.NewWriter(e.Size(), e.Size())
	e.Marshal(p)
	require.NoError(p.Err())
	require.Len(p.Bytes(), e.Size())

	parsed, err := UnmarshalEffect(codec.NewReader(p.Bytes(), e.Size()))
	require.NoError(err)
	require.Equal(e, parsed)

	_, err = UnmarshalEffect(codec.NewReader([]byte{9}, 1))
	require.ErrorIs(err, ErrUnknownEffect)
}

func TestParseState(t *testing.T) {
	require := require.New(t)

	st, err := ParseState(Smashed.Bytes())
	require.NoError(err)
	require.Equal(Smashed, st)

	_, err = ParseState([]byte{2})
	require.ErrorIs(err, ErrDecode)
	_, err = ParseState(nil)
	require.ErrorIs(err, ErrDecode)
}
