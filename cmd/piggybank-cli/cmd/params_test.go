// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/schema"
)

func TestEncodeParam(t *testing.T) {
	tests := map[string]struct {
		param       Parameter
		expected    []byte
		expectedErr error
	}{
		"u8 from flag": {
			param:    Parameter{Type: U8, Value: "5"},
			expected: []byte{5},
		},
		"u16 from yaml": {
			param:    Parameter{Type: U16, Value: 513},
			expected: []byte{1, 2},
		},
		"u64 from json": {
			param:    Parameter{Type: U64, Value: float64(1)},
			expected: schema.U64.MustEncode(1),
		},
		"i8 negative": {
			param:    Parameter{Type: I8, Value: "-1"},
			expected: []byte{0xff},
		},
		"u8 overflow": {
			param:       Parameter{Type: U8, Value: 256},
			expectedErr: ErrInvalidParamValue,
		},
		"bool": {
			param:    Parameter{Type: Bool, Value: true},
			expected: []byte{1},
		},
		"u8 array from flag": {
			param:    Parameter{Type: U8Array3, Value: "1,2,3"},
			expected: []byte{1, 2, 3},
		},
		"u8 array from yaml": {
			param:    Parameter{Type: U8Array3, Value: []interface{}{4, 5, 6}},
			expected: []byte{4, 5, 6},
		},
		"short array": {
			param:       Parameter{Type: U8Array3, Value: "1,2"},
			expectedErr: ErrInvalidParamValue,
		},
		"string array": {
			param:    Parameter{Type: StringArray3, Value: []interface{}{"a", "UserFullDetails", "c"}},
			expected: schema.StringArray3.MustEncode([3]string{"a", "UserFullDetails", "c"}),
		},
		"hex": {
			param:    Parameter{Type: Hex, Value: "0xdead"},
			expected: []byte{0xde, 0xad},
		},
		"unknown type": {
			param:       Parameter{Type: "f32", Value: "1"},
			expectedErr: ErrInvalidParamType,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			b, err := encodeParam(tt.param)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr == nil {
				require.Equal(tt.expected, b)
			}
		})
	}
}

func TestParseParamFlag(t *testing.T) {
	require := require.New(t)

	p, err := parseParamFlag("[u8;3]:1,2,3")
	require.NoError(err)
	require.Equal(Parameter{Type: U8Array3, Value: "1,2,3"}, p)

	_, err = parseParamFlag("u8")
	require.ErrorIs(err, ErrInvalidParamValue)

	b, err := encodeParams([]Parameter{{Type: U8, Value: 1}, {Type: Bool, Value: false}})
	require.NoError(err)
	require.Equal([]byte{1, 0}, b)
}
