// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/piggybank"
)

var (
	_ piggybank.InitContext = callContext{}
	_ piggybank.Context     = callContext{}
)

// callContext is the view of the ledger handed to a handler. It is built
// fresh for every call and never outlives it.
type callContext struct {
	owner   codec.Address
	sender  codec.Address
	param   []byte
	balance uint64
}

func newCallContext(owner codec.Address, param []byte) callContext {
	return callContext{owner: owner, sender: owner, param: param}
}

func (c callContext) WithSender(sender codec.Address) callContext {
	c.sender = sender
	return c
}

func (c callContext) WithBalance(balance uint64) callContext {
	c.balance = balance
	return c
}

func (c callContext) Owner() codec.Address  { return c.owner }
func (c callContext) Sender() codec.Address { return c.sender }
func (c callContext) Parameter() []byte     { return c.param }
func (c callContext) SelfBalance() uint64   { return c.balance }
