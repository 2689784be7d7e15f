// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "errors"

var (
	ErrUnknownContract   = errors.New("unknown contract")
	ErrInstanceNotFound  = errors.New("instance not found")
	ErrUnknownEntrypoint = errors.New("unknown entrypoint")
	ErrNotPayable        = errors.New("entrypoint is not payable")
	ErrParamTooLarge     = errors.New("parameter too large")
	ErrInvalidNonce      = errors.New("invalid nonce")
	ErrUnknownAction     = errors.New("unknown action")
	ErrMissingAuth       = errors.New("missing auth")
)
