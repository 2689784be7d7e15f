// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T) {
	require := require.New(t)

	bal, err := ParseBalance("1.5")
	require.NoError(err)
	require.Equal(uint64(1_500_000), bal)
	require.Equal("1.500000", FormatBalance(bal))

	_, err = ParseBalance("-1")
	require.Error(err)
}

func TestToID(t *testing.T) {
	require := require.New(t)

	require.Equal(ToID([]byte("owner")), ToID([]byte("owner")))
	require.NotEqual(ToID([]byte("owner")), ToID([]byte("sender")))
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	p, err := InitSubDirectory(t.TempDir(), "db")
	require.NoError(err)
	require.DirExists(p)
}
