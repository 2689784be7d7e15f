// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"errors"

	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/piggybank"
	"github.com/ava-labs/piggybank/utils"
)

// Result is the receipt of an executed call or deploy. A call that is
// rejected (unknown entrypoint, insufficient funds, handler error) still
// produces a Result with [Success] false and no state change besides the
// height and, for transactions, the nonce.
type Result struct {
	Success bool              `json:"success"`
	Error   []byte            `json:"error,omitempty"`
	Effect  *piggybank.Effect `json:"effect,omitempty"`
	// Set for successful deploys.
	Contract codec.Address `json:"contract,omitempty"`
	Height   uint64        `json:"height"`

	err error
}

func newResult(height uint64, err error) *Result {
	r := &Result{Success: err == nil, Height: height, err: err}
	if err != nil {
		r.Error = utils.ErrBytes(err)
	}
	return r
}

// Err returns the error that caused the call to fail, preserving its chain
// for [errors.Is]. It is nil for parsed results; use [Error] instead.
func (r *Result) Err() error {
	if r.err == nil && !r.Success {
		return errors.New(string(r.Error))
	}
	return r.err
}

func (r *Result) Size() int {
	size := consts.BoolLen + codec.BytesLen(r.Error) + consts.BoolLen + codec.AddressLen + consts.Uint64Len
	if r.Effect != nil {
		size += r.Effect.Size()
	}
	return size
}

func (r *Result) Marshal(p *codec.Packer) {
	p.PackBool(r.Success)
	p.PackBytes(r.Error)
	p.PackBool(r.Effect != nil)
	if r.Effect != nil {
		r.Effect.Marshal(p)
	}
	p.PackFixedBytes(r.Contract[:])
	p.PackUint64(r.Height)
}

func UnmarshalResult(p *codec.Packer) (*Result, error) {
	r := &Result{Success: p.UnpackBool()}
	p.UnpackBytes(consts.NetworkSizeLimit, false, &r.Error)
	if len(r.Error) == 0 {
		// Enforce object standardization
		r.Error = nil
	}
	if p.UnpackBool() {
		effect, err := piggybank.UnmarshalEffect(p)
		if err != nil {
			return nil, err
		}
		r.Effect = effect
	}
	contract := r.Contract[:]
	p.UnpackFixedBytes(codec.AddressLen, &contract)
	r.Height = p.UnpackUint64(false)
	return r, p.Err()
}

// Instance is a deployed piggy bank as seen by readers.
type Instance struct {
	Address  codec.Address   `json:"address"`
	Contract string          `json:"contract"`
	Owner    codec.Address   `json:"owner"`
	State    piggybank.State `json:"state"`
	Balance  uint64          `json:"balance"`
}
