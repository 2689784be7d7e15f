// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import "github.com/ava-labs/piggybank/codec"

// InitContext is what the runtime hands to a contract's initializer.
type InitContext interface {
	// Owner is the account deploying the instance.
	Owner() codec.Address
	// Parameter is the raw init parameter.
	Parameter() []byte
}

// Context is supplied by the runtime for every call to an entry point. It is
// never stored by the contract.
type Context interface {
	InitContext

	// Sender is the account or contract that issued the call.
	Sender() codec.Address
	// SelfBalance is the instance's balance, including any value attached
	// to the current call.
	SelfBalance() uint64
}
