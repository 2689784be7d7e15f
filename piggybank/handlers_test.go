// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
)

var (
	owner    = codec.CreateAddress(consts.ED25519ID, ids.ID{1})
	stranger = codec.CreateAddress(consts.ED25519ID, ids.ID{2})
)

func TestDeposit(t *testing.T) {
	tests := map[string]struct {
		state       State
		expectedErr error
	}{
		"intact": {
			state: Intact,
		},
		"smashed": {
			state:       Smashed,
			expectedErr: ErrInvalidState,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)
			// Deposit never looks at the context
			ctx := NewMockContext(ctrl)

			st := tt.state
			effect, err := Deposit(ctx, 100, &st)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.state, st)
			if tt.expectedErr == nil {
				require.Equal(Accept(), effect)
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	tests := map[string]struct {
		sender         codec.Address
		state          State
		balance        uint64
		expectedErr    error
		expectedState  State
		expectedEffect *Effect
	}{
		"owner smashes": {
			sender:         owner,
			state:          Intact,
			balance:        250,
			expectedState:  Smashed,
			expectedEffect: Transfer(owner, 250),
		},
		"owner smashes empty bank": {
			sender:         owner,
			state:          Intact,
			expectedState:  Smashed,
			expectedEffect: Transfer(owner, 0),
		},
		"owner smashes twice": {
			sender:        owner,
			state:         Smashed,
			expectedErr:   ErrInvalidState,
			expectedState: Smashed,
		},
		"stranger": {
			sender:        stranger,
			state:         Intact,
			expectedErr:   ErrUnauthorized,
			expectedState: Intact,
		},
		"stranger on smashed bank": {
			sender:        stranger,
			state:         Smashed,
			expectedErr:   ErrUnauthorized,
			expectedState: Smashed,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)
			ctx := NewMockContext(ctrl)
			ctx.EXPECT().Owner().Return(owner).AnyTimes()
			ctx.EXPECT().Sender().Return(tt.sender).AnyTimes()
			if tt.expectedEffect != nil {
				ctx.EXPECT().SelfBalance().Return(tt.balance).Times(1)
			}

			st := tt.state
			effect, err := Withdraw(ctx, 0, &st)
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expectedState, st)
			require.Equal(tt.expectedEffect, effect)
		})
	}
}

func TestQueryBalance(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	ctx := NewMockContext(ctrl)
	ctx.EXPECT().Owner().Return(owner)
	ctx.EXPECT().Sender().Return(owner)
	ctx.EXPECT().SelfBalance().Return(uint64(42))

	st := Intact
	effect, err := QueryBalance(ctx, 0, &st)
	require.NoError(err)
	require.Equal(Transfer(owner, 42), effect)
	require.Equal(Intact, st)

	ctx = NewMockContext(ctrl)
	ctx.EXPECT().Owner().Return(owner)
	ctx.EXPECT().Sender().Return(stranger)
	_, err = QueryBalance(ctx, 0, &st)
	require.ErrorIs(err, ErrUnauthorized)
}
