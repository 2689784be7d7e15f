// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schema

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBool(t *testing.T) {
	tests := map[string]struct {
		input    []byte
		expected bool
		err      error
	}{
		"True":          {input: []byte{1}, expected: true},
		"False":         {input: []byte{0}, expected: false},
		"TrailingBytes": {input: []byte{1, 9, 9}, expected: true},
		"Empty":         {input: nil, err: ErrDecode},
		"NotABool":      {input: []byte{2}, err: ErrDecode},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			v, err := Bool.Decode(tt.input)
			require.ErrorIs(err, tt.err)
			if tt.err == nil {
				require.Equal(tt.expected, v)
			}
		})
	}
}

func TestScalars(t *testing.T) {
	require := require.New(t)

	v, err := U16.Decode([]byte{0x01, 0x02})
	require.NoError(err)
	require.Equal(uint16(0x0201), v) // little endian

	i, err := I8.Decode([]byte{0xff})
	require.NoError(err)
	require.Equal(int8(-1), i)

	_, err = U64.Decode([]byte{1, 2, 3})
	require.ErrorIs(err, ErrDecode)
	require.ErrorIs(U32.Check(nil), ErrDecode)
	require.NoError(U8.Check([]byte{7}))
}

func TestArrays(t *testing.T) {
	require := require.New(t)

	arr, err := U8Array3.Decode([]byte{0, 5, 0})
	require.NoError(err)
	require.Equal([3]uint8{0, 5, 0}, arr)

	_, err = U8Array3.Decode([]byte{0, 5})
	require.ErrorIs(err, ErrDecode)

	b := StringArray3.MustEncode([3]string{"a", "UserFullDetails", "c"})
	strs, err := StringArray3.Decode(b)
	require.NoError(err)
	require.Equal("UserFullDetails", strs[1])

	_, err = StringArray3.Decode(b[:len(b)-1])
	require.ErrorIs(err, ErrDecode)
}

func TestStrings(t *testing.T) {
	tests := map[string]struct {
		schema Schema
		input  []byte
		err    error
	}{
		"String":                 {schema: String, input: String.MustEncode("piggy")},
		"StringTrailingBytes":    {schema: String, input: append(String.MustEncode("piggy"), 1, 2)},
		"StringTruncated":        {schema: String, input: String.MustEncode("piggy")[:6], err: ErrDecode},
		"StringMissingLength":    {schema: String, input: []byte{5, 0}, err: ErrDecode},
		"StringOversizedLength":  {schema: String, input: []byte{0xff, 0xff, 0xff, 0xff}, err: ErrDecode},
		"ArrayOversizedLength":   {schema: StringArray3, input: []byte{0xff, 0xff, 0xff, 0xff}, err: ErrDecode},
		"ArrayOversizedLastItem": {schema: StringArray3, input: append(StringArray3.MustEncode([3]string{"a", "b", ""})[:10], 0xff, 0xff, 0xff, 0x7f), err: ErrDecode},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, tt.schema.Check(tt.input), tt.err)
		})
	}
}

func TestStringLengthNotAllocated(t *testing.T) {
	require := require.New(t)

	input := []byte{0xff, 0xff, 0xff, 0xff}
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := StringArray3.Decode(input)
	runtime.ReadMemStats(&after)
	require.ErrorIs(err, ErrDecode)
	require.Less(after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestName(t *testing.T) {
	require := require.New(t)

	for _, s := range []Schema{U8, I64, Bool, U8Array3, StringArray3} {
		require.NotEmpty(s.Name())
	}
	require.Equal("[u8;3]", U8Array3.Name())
}
