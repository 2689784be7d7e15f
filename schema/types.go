// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schema

import (
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/piggybank/consts"
)

var (
	U8  = New[uint8]("u8")
	U16 = New[uint16]("u16")
	U32 = New[uint32]("u32")
	U64 = New[uint64]("u64")
	I8  = New[int8]("i8")
	I16 = New[int16]("i16")
	I32 = New[int32]("i32")
	I64 = New[int64]("i64")

	// Strings are length checked before anything is allocated.
	String = NewCustom("string", decodeString, encodeBorsh[string])

	// Bool only accepts the bytes 0 and 1.
	Bool = NewCustom("bool", decodeBool, encodeBool)

	U8Array3     = New[[3]uint8]("[u8;3]")
	StringArray3 = NewCustom("[string;3]", decodeStringArray3, encodeBorsh[[3]string])
)

func decodeBool(b []byte) (bool, error) {
	if len(b) < 1 {
		return false, fmt.Errorf("missing bool byte")
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool byte %d", b[0])
	}
}

func encodeBool(v bool) ([]byte, error) {
	if v {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func encodeBorsh[T any](v T) ([]byte, error) {
	return borsh.Serialize(v)
}

// readString reads a u32 length-prefixed string from the front of [b] and
// returns the remaining bytes. The declared length must fit in [b].
func readString(b []byte) (string, []byte, error) {
	if len(b) < consts.IntLen {
		return "", nil, fmt.Errorf("missing string length")
	}
	n := binary.LittleEndian.Uint32(b)
	b = b[consts.IntLen:]
	if uint64(n) > uint64(len(b)) {
		return "", nil, fmt.Errorf("string length %d exceeds %d remaining bytes", n, len(b))
	}
	return string(b[:n]), b[n:], nil
}

func decodeString(b []byte) (string, error) {
	s, _, err := readString(b)
	return s, err
}

func decodeStringArray3(b []byte) ([3]string, error) {
	var (
		v   [3]string
		err error
	)
	for i := range v {
		v[i], b, err = readString(b)
		if err != nil {
			return [3]string{}, err
		}
	}
	return v, nil
}
