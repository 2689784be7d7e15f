// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ava-labs/piggybank/schema"
)

type Type string

const (
	U8           Type = "u8"
	U16          Type = "u16"
	U32          Type = "u32"
	U64          Type = "u64"
	I8           Type = "i8"
	I16          Type = "i16"
	I32          Type = "i32"
	I64          Type = "i64"
	Bool         Type = "bool"
	String       Type = "string"
	U8Array3     Type = "[u8;3]"
	StringArray3 Type = "[string;3]"
	// Raw bytes, hex encoded.
	Hex Type = "hex"
)

type Parameter struct {
	// The optional name of the parameter. This is only used for readability.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// The type of the parameter. (required)
	Type Type `json:"type" yaml:"type"`
	// The value of the parameter. (required)
	Value interface{} `json:"value" yaml:"value"`
}

// parseParamFlag parses "type:value", e.g. "u8:5" or "[u8;3]:1,2,3".
func parseParamFlag(s string) (Parameter, error) {
	typ, value, ok := strings.Cut(s, ":")
	if !ok {
		return Parameter{}, fmt.Errorf("%w: expected type:value, found %q", ErrInvalidParamValue, s)
	}
	return Parameter{Type: Type(typ), Value: value}, nil
}

// encodeParams concatenates the wire form of every parameter, which is the
// borsh encoding of a struct with those fields.
func encodeParams(params []Parameter) ([]byte, error) {
	var out []byte
	for i, p := range params {
		b, err := encodeParam(p)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func encodeParam(p Parameter) ([]byte, error) {
	switch p.Type {
	case U8:
		return encodeUint(p.Value, 8, func(v uint64) ([]byte, error) { return schema.U8.Encode(uint8(v)) })
	case U16:
		return encodeUint(p.Value, 16, func(v uint64) ([]byte, error) { return schema.U16.Encode(uint16(v)) })
	case U32:
		return encodeUint(p.Value, 32, func(v uint64) ([]byte, error) { return schema.U32.Encode(uint32(v)) })
	case U64:
		return encodeUint(p.Value, 64, schema.U64.Encode)
	case I8:
		return encodeInt(p.Value, 8, func(v int64) ([]byte, error) { return schema.I8.Encode(int8(v)) })
	case I16:
		return encodeInt(p.Value, 16, func(v int64) ([]byte, error) { return schema.I16.Encode(int16(v)) })
	case I32:
		return encodeInt(p.Value, 32, func(v int64) ([]byte, error) { return schema.I32.Encode(int32(v)) })
	case I64:
		return encodeInt(p.Value, 64, schema.I64.Encode)
	case Bool:
		v, err := strconv.ParseBool(scalar(p.Value))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParamValue, err)
		}
		return schema.Bool.Encode(v)
	case String:
		return schema.String.Encode(scalar(p.Value))
	case U8Array3:
		items, err := list(p.Value, 3)
		if err != nil {
			return nil, err
		}
		var v [3]uint8
		for i, item := range items {
			n, err := strconv.ParseUint(item, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidParamValue, err)
			}
			v[i] = uint8(n)
		}
		return schema.U8Array3.Encode(v)
	case StringArray3:
		items, err := list(p.Value, 3)
		if err != nil {
			return nil, err
		}
		return schema.StringArray3.Encode([3]string(items))
	case Hex:
		b, err := hex.DecodeString(strings.TrimPrefix(scalar(p.Value), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParamValue, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidParamType, p.Type)
	}
}

func encodeUint(value interface{}, bits int, encode func(uint64) ([]byte, error)) ([]byte, error) {
	v, err := strconv.ParseUint(scalar(value), 10, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParamValue, err)
	}
	return encode(v)
}

func encodeInt(value interface{}, bits int, encode func(int64) ([]byte, error)) ([]byte, error) {
	v, err := strconv.ParseInt(scalar(value), 10, bits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParamValue, err)
	}
	return encode(v)
}

// scalar renders a yaml, json or flag value as a string. JSON numbers arrive
// as float64, which print without a fraction when they are integral.
func scalar(value interface{}) string {
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

// list accepts a yaml/json sequence or a comma separated string.
func list(value interface{}, size int) ([]string, error) {
	var items []string
	switch v := value.(type) {
	case []interface{}:
		for _, item := range v {
			items = append(items, scalar(item))
		}
	case string:
		items = strings.Split(v, ",")
	default:
		return nil, fmt.Errorf("%w: expected a list, found %T", ErrInvalidParamValue, value)
	}
	if len(items) != size {
		return nil, fmt.Errorf("%w: expected %d items, found %d", ErrInvalidParamValue, size, len(items))
	}
	return items, nil
}
