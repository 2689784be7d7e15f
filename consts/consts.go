// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	BoolLen   = 1
	IDLen     = 32
	IntLen    = 4
	Uint16Len = 2
	Uint64Len = 8

	MaxUint8  = ^uint8(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
	MaxUint64 = ^uint64(0)

	// NetworkSizeLimit bounds any single encoded transaction or result.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)

const (
	HRP    = "piggy"
	Name   = "piggybank"
	Symbol = "GTU"

	// Address TypeIDs
	ED25519ID         uint8 = 0
	ContractAddressID uint8 = 0xff
)
