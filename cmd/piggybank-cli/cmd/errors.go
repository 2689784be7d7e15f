// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrDuplicateLogger   = errors.New("duplicate logger")
	ErrDuplicateKeyName  = errors.New("duplicate key name")
	ErrNamedKeyNotFound  = errors.New("named key not found")
	ErrNoKeys            = errors.New("no available keys")
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrInvalidStep       = errors.New("invalid step")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
	ErrInvalidParamType  = errors.New("invalid param type")
	ErrInvalidParamValue = errors.New("invalid param value")
	ErrUnknownStepRef    = errors.New("unknown step reference")
	ErrAssertionFailed   = errors.New("assertion failed")
	ErrAborted           = errors.New("aborted")
)
