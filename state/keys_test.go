// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddPermissions(t *testing.T) {
	require := require.New(t)

	keys := make(Keys)
	keys.Add("balance", Read)
	keys.Add("balance", Write)
	require.True(keys["balance"].Has(Read))
	require.True(keys["balance"].Has(Write))
	require.False(keys["balance"].Has(Allocate))

	keys.Add("state", All)
	require.True(keys["state"].Has(Allocate | Write))
	require.True(keys["missing"].Has(None))
	require.False(keys["missing"].Has(Read))
}

func TestHas(t *testing.T) {
	tests := map[string]struct {
		perm    Permissions
		require Permissions
		has     bool
	}{
		"ReadHasRead":        {perm: Read, require: Read, has: true},
		"ReadLacksWrite":     {perm: Read, require: Write, has: false},
		"WriteImpliesRead":   {perm: Write, require: Read, has: true},
		"AllocateLacksWrite": {perm: Allocate, require: Write, has: false},
		"AllHasEverything":   {perm: All, require: Allocate | Write, has: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.has, tt.perm.Has(tt.require))
		})
	}
}
