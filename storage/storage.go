// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/pebble"
	"github.com/ava-labs/piggybank/piggybank"
	"github.com/ava-labs/piggybank/state"
	"github.com/ava-labs/piggybank/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (balance)
//   -> [address] => balance
// 0x1/ (nonce)
//   -> [address] => nonce
// 0x2/ (contract state)
//   -> [contract] => piggybank.State
// 0x3/ (contract)
//   -> [contract] => name|owner
// 0x4/ (height)

const (
	balancePrefix byte = iota
	noncePrefix
	contractStatePrefix
	contractPrefix
	heightPrefix
)

// New opens the pebble database under [dataDir]/[namespace] and registers its
// metrics with [gatherer].
func New(cfg pebble.Config, dataDir string, namespace string, gatherer metrics.MultiGatherer) (*pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, namespace)
	if err != nil {
		return nil, err
	}

	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := gatherer.Register(namespace, registry); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func addressKey(prefix byte, addr codec.Address) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen)
	k[0] = prefix
	copy(k[1:], addr[:])
	return k
}

func getUint64(ctx context.Context, im state.Immutable, key []byte) (uint64, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	val, err := database.ParseUInt64(v)
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func setUint64(ctx context.Context, mu state.Mutable, key []byte, v uint64) error {
	return mu.Insert(ctx, key, binary.BigEndian.AppendUint64(nil, v))
}

// [balancePrefix] + [address]
func BalanceKey(addr codec.Address) []byte {
	return addressKey(balancePrefix, addr)
}

// A missing balance is 0.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	bal, _, err := getUint64(ctx, im, BalanceKey(addr))
	return bal, err
}

// SetBalance removes the record when [balance] is 0.
func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance uint64) error {
	k := BalanceKey(addr)
	if balance == 0 {
		return mu.Remove(ctx, k)
	}
	return setUint64(ctx, mu, k, balance)
}

func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add64(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%v, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	return nbal, SetBalance(ctx, mu, addr, nbal)
}

func SubBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) (uint64, error) {
	bal, err := GetBalance(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%v, amount=%d)",
			ErrInvalidBalance,
			bal,
			addr,
			amount,
		)
	}
	return nbal, SetBalance(ctx, mu, addr, nbal)
}

// [noncePrefix] + [address]
func NonceKey(addr codec.Address) []byte {
	return addressKey(noncePrefix, addr)
}

func GetNonce(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	nonce, _, err := getUint64(ctx, im, NonceKey(addr))
	return nonce, err
}

// IncNonce returns the nonce that was consumed.
func IncNonce(ctx context.Context, mu state.Mutable, addr codec.Address) (uint64, error) {
	k := NonceKey(addr)
	nonce, _, err := getUint64(ctx, mu, k)
	if err != nil {
		return 0, err
	}
	next, err := smath.Add64(nonce, 1)
	if err != nil {
		return 0, err
	}
	return nonce, setUint64(ctx, mu, k, next)
}

// [contractStatePrefix] + [contract]
func ContractStateKey(contract codec.Address) []byte {
	return addressKey(contractStatePrefix, contract)
}

func GetContractState(ctx context.Context, im state.Immutable, contract codec.Address) (piggybank.State, error) {
	v, err := im.GetValue(ctx, ContractStateKey(contract))
	if errors.Is(err, database.ErrNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrContractNotFound, contract)
	}
	if err != nil {
		return 0, err
	}
	return piggybank.ParseState(v)
}

func SetContractState(ctx context.Context, mu state.Mutable, contract codec.Address, st piggybank.State) error {
	return mu.Insert(ctx, ContractStateKey(contract), st.Bytes())
}

// [contractPrefix] + [contract]
func ContractKey(contract codec.Address) []byte {
	return addressKey(contractPrefix, contract)
}

// Contract is the immutable record written when an instance is deployed.
type Contract struct {
	Name  string        `json:"name"`
	Owner codec.Address `json:"owner"`
}

func SetContract(ctx context.Context, mu state.Mutable, addr codec.Address, c *Contract) error {
	p := codec.NewWriter(codec.StringLen(c.Name)+codec.AddressLen, consts.NetworkSizeLimit)
	p.PackString(c.Name)
	p.PackAddress(c.Owner)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, ContractKey(addr), p.Bytes())
}

func GetContract(ctx context.Context, im state.Immutable, addr codec.Address) (*Contract, error) {
	v, err := im.GetValue(ctx, ContractKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, addr)
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, len(v))
	c := &Contract{Name: p.UnpackString(true)}
	p.UnpackAddress(&c.Owner)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: trailing contract bytes", codec.ErrInvalidSize)
	}
	return c, nil
}

// [heightPrefix]
func HeightKey() []byte {
	return []byte{heightPrefix}
}

func GetHeight(ctx context.Context, im state.Immutable) (uint64, error) {
	h, _, err := getUint64(ctx, im, HeightKey())
	return h, err
}

func SetHeight(ctx context.Context, mu state.Mutable, height uint64) error {
	return setUint64(ctx, mu, HeightKey(), height)
}
