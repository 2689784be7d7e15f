// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import (
	"errors"

	"github.com/ava-labs/piggybank/schema"
)

// Every error returned by a handler aborts the call. The runtime discards all
// state changes and value movement made during it.
var (
	ErrDecode       = schema.ErrDecode
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")

	ErrDuplicateEntrypoint = errors.New("duplicate entrypoint")
	ErrDuplicateContract   = errors.New("duplicate contract")
)
