// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"testing"

	"github.com/stretchr/testify/require"

	oed25519 "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

var oed25519options = &oed25519.Options{
	Verify: oed25519.VerifyOptionsZIP_215,
}

func TestGeneratePrivateKeyDifferent(t *testing.T) {
	require := require.New(t)

	a, err := GeneratePrivateKey()
	require.NoError(err)
	b, err := GeneratePrivateKey()
	require.NoError(err)
	require.NotEqual(EmptyPrivateKey, a)
	require.NotEqual(a, b)
}

func TestSignVerify(t *testing.T) {
	require := require.New(t)

	priv, err := GeneratePrivateKey()
	require.NoError(err)
	msg := []byte("smashAmount")
	sig := Sign(msg, priv)
	require.True(Verify(msg, priv.PublicKey(), sig))
	require.False(Verify([]byte("insertAmount"), priv.PublicKey(), sig))

	// Signatures must also be accepted by an independent ZIP-215 verifier.
	pub := priv.PublicKey()
	require.True(oed25519.VerifyWithOptions(pub[:], msg, sig[:], oed25519options))
}

func TestHexRoundTrip(t *testing.T) {
	require := require.New(t)

	priv, err := GeneratePrivateKey()
	require.NoError(err)
	parsed, err := HexToPrivateKey(priv.ToHex())
	require.NoError(err)
	require.Equal(priv, parsed)

	_, err = HexToPrivateKey("abcd")
	require.ErrorIs(err, ErrInvalidPrivateKey)
}
