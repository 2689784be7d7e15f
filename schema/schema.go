// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package schema describes the shapes of contract parameters and decodes
// them from their borsh wire form (little-endian scalars, u32 length-prefixed
// strings, fixed-size arrays without a length).
//
// Decoding reads a prefix of the supplied bytes. Anything left over is
// ignored.
package schema

import (
	"errors"
	"fmt"

	"github.com/near/borsh-go"
)

var ErrDecode = errors.New("decode error")

// Schema is the type-erased view of a [Type] used by entry-point tables.
type Schema interface {
	// Name is the human readable name of the schema (e.g. "u8", "[u8;3]").
	Name() string
	// Check decodes [b] and discards the value.
	Check(b []byte) error
}

var _ Schema = (*Type[uint8])(nil)

// Type is a named schema for values of type T.
type Type[T any] struct {
	name   string
	decode func([]byte) (T, error)
	encode func(T) ([]byte, error)
}

// New returns a schema for T using the borsh encoding of T.
func New[T any](name string) *Type[T] {
	return &Type[T]{
		name: name,
		decode: func(b []byte) (T, error) {
			var v T
			err := borsh.Deserialize(&v, b)
			return v, err
		},
		encode: func(v T) ([]byte, error) {
			return borsh.Serialize(v)
		},
	}
}

// NewCustom returns a schema for T with a hand written encoding.
func NewCustom[T any](
	name string,
	decode func([]byte) (T, error),
	encode func(T) ([]byte, error),
) *Type[T] {
	return &Type[T]{name: name, decode: decode, encode: encode}
}

func (t *Type[T]) Name() string {
	return t.name
}

// Decode parses [b] as T. Every failure wraps [ErrDecode].
func (t *Type[T]) Decode(b []byte) (v T, err error) {
	// Reflection based decoders may panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrDecode, t.name, r)
		}
	}()
	v, err = t.decode(b)
	if err != nil {
		return v, fmt.Errorf("%w: %s: %w", ErrDecode, t.name, err)
	}
	return v, nil
}

func (t *Type[T]) Check(b []byte) error {
	_, err := t.Decode(b)
	return err
}

// Encode returns the wire form of [v].
func (t *Type[T]) Encode(v T) ([]byte, error) {
	return t.encode(v)
}

// MustEncode panics if [v] cannot be encoded.
func (t *Type[T]) MustEncode(v T) []byte {
	b, err := t.Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}
