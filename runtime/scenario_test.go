// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/auth"
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/crypto/ed25519"
	"github.com/ava-labs/piggybank/piggybank"
	"github.com/ava-labs/piggybank/runtime"
	"github.com/ava-labs/piggybank/schema"
	"github.com/ava-labs/piggybank/state"
	"github.com/ava-labs/piggybank/trace"

	ginkgo "github.com/onsi/ginkgo/v2"
)

func TestScenarios(t *testing.T) {
	ginkgo.RunSpecs(t, "piggybank runtime scenarios")
}

type account struct {
	factory *auth.ED25519Factory
	addr    codec.Address
	nonce   uint64
}

func newAccount(require *require.Assertions) *account {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	factory := auth.NewED25519Factory(priv)
	return &account{factory: factory, addr: factory.Address()}
}

func (a *account) submit(require *require.Assertions, rt *runtime.Runtime, action runtime.Action) *runtime.Result {
	tx, err := runtime.NewTransaction(a.nonce, action).Sign(a.factory)
	require.NoError(err)
	result, err := rt.Submit(context.Background(), tx)
	require.NoError(err)
	a.nonce++
	return result
}

var _ = ginkgo.Describe("[Piggy bank]", ginkgo.Ordered, func() {
	var (
		ctx   = context.Background()
		rt    *runtime.Runtime
		alice *account
		bob   *account
		bank  codec.Address
	)

	ginkgo.BeforeAll(func() {
		require := require.New(ginkgo.GinkgoT())

		var err error
		rt, _, err = runtime.New(
			ctx,
			runtime.NewDefaultConfig(),
			logging.NoLog{},
			trace.Noop(),
			state.NewDatabase(memdb.New()),
		)
		require.NoError(err)

		alice = newAccount(require)
		bob = newAccount(require)
		for _, a := range []*account{alice, bob} {
			_, err := rt.Fund(ctx, a.addr, 1_000)
			require.NoError(err)
		}
	})

	ginkgo.It("deploys an intact bank", func() {
		require := require.New(ginkgo.GinkgoT())

		result := alice.submit(require, rt, &runtime.Deploy{Contract: piggybank.DCBBankName})
		require.True(result.Success)
		bank = result.Contract

		instance, err := rt.Instance(ctx, bank)
		require.NoError(err)
		require.Equal(piggybank.Intact, instance.State)
		require.Equal(alice.addr, instance.Owner)
	})

	ginkgo.It("accepts deposits from anyone", func() {
		require := require.New(ginkgo.GinkgoT())

		for _, a := range []*account{alice, bob} {
			result := a.submit(require, rt, &runtime.Call{
				Contract:   bank,
				Entrypoint: piggybank.InsertAmount,
				Amount:     50,
			})
			require.True(result.Success)
		}
		bal, err := rt.Balance(ctx, bank)
		require.NoError(err)
		require.Equal(uint64(100), bal)
	})

	ginkgo.It("only lets the owner smash", func() {
		require := require.New(ginkgo.GinkgoT())

		result := bob.submit(require, rt, &runtime.Call{Contract: bank, Entrypoint: piggybank.SmashAmount})
		require.ErrorIs(result.Err(), piggybank.ErrUnauthorized)

		result = alice.submit(require, rt, &runtime.Call{Contract: bank, Entrypoint: piggybank.SmashAmount})
		require.True(result.Success)
		require.Equal(piggybank.Transfer(alice.addr, 100), result.Effect)

		bal, err := rt.Balance(ctx, alice.addr)
		require.NoError(err)
		require.Equal(uint64(1_050), bal)
	})

	ginkgo.It("rejects everything once smashed", func() {
		require := require.New(ginkgo.GinkgoT())

		result := alice.submit(require, rt, &runtime.Call{Contract: bank, Entrypoint: piggybank.SmashAmount})
		require.ErrorIs(result.Err(), piggybank.ErrInvalidState)

		result = bob.submit(require, rt, &runtime.Call{
			Contract:   bank,
			Entrypoint: piggybank.InsertAmount,
			Amount:     1,
		})
		require.ErrorIs(result.Err(), piggybank.ErrInvalidState)

		bal, err := rt.Balance(ctx, bob.addr)
		require.NoError(err)
		require.Equal(uint64(950), bal)
		instance, err := rt.Instance(ctx, bank)
		require.NoError(err)
		require.Equal(piggybank.Smashed, instance.State)
		require.Zero(instance.Balance)
	})

	ginkgo.It("starts smashed when the init predicate fails", func() {
		require := require.New(ginkgo.GinkgoT())

		result := bob.submit(require, rt, &runtime.Deploy{
			Contract: piggybank.UserFullDetailsName,
			Params:   schema.StringArray3.MustEncode([3]string{"a", "b", "c"}),
		})
		require.True(result.Success)

		result = alice.submit(require, rt, &runtime.Call{
			Contract:   result.Contract,
			Entrypoint: piggybank.InsertAmount,
			Amount:     1,
			Params:     schema.U8.MustEncode(1),
		})
		require.ErrorIs(result.Err(), piggybank.ErrInvalidState)
	})

	ginkgo.It("consumes the nonce of a failed deploy", func() {
		require := require.New(ginkgo.GinkgoT())

		result := bob.submit(require, rt, &runtime.Deploy{Contract: piggybank.Struct2U8Name, Params: []byte{7}})
		require.ErrorIs(result.Err(), piggybank.ErrDecode)

		nonce, err := rt.Nonce(ctx, bob.addr)
		require.NoError(err)
		require.Equal(bob.nonce, nonce)
	})
})
