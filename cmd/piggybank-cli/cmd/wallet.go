// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/crypto/ed25519"
	"github.com/ava-labs/piggybank/state"
)

const (
	defaultPrefix byte = 0x0
	keyPrefix     byte = 0x1
	indexPrefix   byte = 0x2

	defaultKeyKey = "key"
	maxKeys       = 1_024
	maxKeyNameLen = 64
)

// wallet stores named ed25519 keys. It lives in its own database so nothing
// the runtime writes can collide with it.
type wallet struct {
	db state.Mutable
}

func newWallet(db state.Mutable) *wallet {
	return &wallet{db: db}
}

func prefixedKey(prefix byte, name string) []byte {
	k := make([]byte, 1+len(name))
	k[0] = prefix
	copy(k[1:], name)
	return k
}

func (w *wallet) StoreKey(ctx context.Context, name string, priv ed25519.PrivateKey) error {
	if len(name) == 0 || len(name) > maxKeyNameLen {
		return fmt.Errorf("%w: key name must be 1-%d bytes", codec.ErrInvalidSize, maxKeyNameLen)
	}
	names, err := w.Keys(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
		}
	}
	if len(names) >= maxKeys {
		return fmt.Errorf("%w: %d keys", codec.ErrTooManyItems, len(names))
	}
	if err := w.db.Insert(ctx, prefixedKey(keyPrefix, name), priv[:]); err != nil {
		return err
	}
	names = append(names, name)
	p := codec.NewWriter(consts.IntLen, consts.NetworkSizeLimit)
	p.PackInt(uint32(len(names)))
	for _, n := range names {
		p.PackString(n)
	}
	if err := p.Err(); err != nil {
		return err
	}
	return w.db.Insert(ctx, []byte{indexPrefix}, p.Bytes())
}

func (w *wallet) GetKey(ctx context.Context, name string) (ed25519.PrivateKey, error) {
	v, err := w.db.GetValue(ctx, prefixedKey(keyPrefix, name))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, name)
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return ed25519.EmptyPrivateKey, ed25519.ErrInvalidPrivateKey
	}
	return ed25519.PrivateKey(v), nil
}

// Keys returns the names of every stored key in insertion order.
func (w *wallet) Keys(ctx context.Context) ([]string, error) {
	v, err := w.db.GetValue(ctx, []byte{indexPrefix})
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, consts.NetworkSizeLimit)
	count := p.UnpackInt(false)
	if count > maxKeys {
		return nil, fmt.Errorf("%w: %d keys", codec.ErrTooManyItems, count)
	}
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		names = append(names, p.UnpackString(true))
	}
	return names, p.Err()
}

func (w *wallet) StoreDefaultKey(ctx context.Context, name string) error {
	if _, err := w.GetKey(ctx, name); err != nil {
		return err
	}
	return w.db.Insert(ctx, prefixedKey(defaultPrefix, defaultKeyKey), []byte(name))
}

// GetDefaultKey falls back to the first stored key if no default was set.
func (w *wallet) GetDefaultKey(ctx context.Context) (string, ed25519.PrivateKey, error) {
	v, err := w.db.GetValue(ctx, prefixedKey(defaultPrefix, defaultKeyKey))
	switch {
	case err == nil:
		name := string(v)
		priv, err := w.GetKey(ctx, name)
		return name, priv, err
	case !errors.Is(err, database.ErrNotFound):
		return "", ed25519.EmptyPrivateKey, err
	}
	names, err := w.Keys(ctx)
	if err != nil {
		return "", ed25519.EmptyPrivateKey, err
	}
	if len(names) == 0 {
		return "", ed25519.EmptyPrivateKey, ErrNoKeys
	}
	priv, err := w.GetKey(ctx, names[0])
	return names[0], priv, err
}
