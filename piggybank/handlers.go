// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import "fmt"

// ReceiveFunc handles one call to an entry point. [amount] is the value
// attached to the call. A handler may mutate [st]; the runtime persists it
// together with the returned effect, or discards both on error.
type ReceiveFunc func(ctx Context, amount uint64, st *State) (*Effect, error)

var (
	_ ReceiveFunc = Deposit
	_ ReceiveFunc = Withdraw
	_ ReceiveFunc = QueryBalance
)

// Deposit accepts value from anyone while the bank is intact. The balance
// itself is tracked by the runtime.
func Deposit(_ Context, _ uint64, st *State) (*Effect, error) {
	if *st != Intact {
		return nil, fmt.Errorf("%w: already smashed", ErrInvalidState)
	}
	return Accept(), nil
}

// Withdraw smashes the bank and sweeps its whole balance to the owner.
func Withdraw(ctx Context, _ uint64, st *State) (*Effect, error) {
	owner := ctx.Owner()
	if ctx.Sender() != owner {
		return nil, fmt.Errorf("%w: only the owner can smash", ErrUnauthorized)
	}
	if *st != Intact {
		return nil, fmt.Errorf("%w: already smashed", ErrInvalidState)
	}
	*st = Smashed
	return Transfer(owner, ctx.SelfBalance()), nil
}

// QueryBalance sweeps the whole balance to the owner without changing the
// state of the bank.
func QueryBalance(ctx Context, _ uint64, _ *State) (*Effect, error) {
	owner := ctx.Owner()
	if ctx.Sender() != owner {
		return nil, fmt.Errorf("%w: only the owner can query", ErrUnauthorized)
	}
	return Transfer(owner, ctx.SelfBalance()), nil
}
