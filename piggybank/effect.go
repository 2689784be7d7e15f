// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import (
	"errors"
	"fmt"

	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
)

type EffectKind uint8

const (
	// EffectAccept retains any attached value and moves nothing else.
	EffectAccept EffectKind = iota
	// EffectTransfer moves [Effect.Amount] from the instance to [Effect.To].
	EffectTransfer
)

var ErrUnknownEffect = errors.New("unknown effect")

func (k EffectKind) String() string {
	switch k {
	case EffectAccept:
		return "accept"
	case EffectTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("EffectKind(%d)", uint8(k))
	}
}

// Effect is the outcome of a successful handler, applied by the runtime in
// the same atomic step as the state change.
type Effect struct {
	Kind   EffectKind    `json:"kind"`
	To     codec.Address `json:"to,omitempty"`
	Amount uint64        `json:"amount,omitempty"`
}

func Accept() *Effect {
	return &Effect{Kind: EffectAccept}
}

func Transfer(to codec.Address, amount uint64) *Effect {
	return &Effect{Kind: EffectTransfer, To: to, Amount: amount}
}

func (e *Effect) String() string {
	if e.Kind == EffectTransfer {
		return fmt.Sprintf("transfer(%s, %d)", e.To, e.Amount)
	}
	return e.Kind.String()
}

func (e *Effect) Size() int {
	if e.Kind == EffectTransfer {
		return consts.ByteLen + codec.AddressLen + consts.Uint64Len
	}
	return consts.ByteLen
}

func (e *Effect) Marshal(p *codec.Packer) {
	p.PackByte(byte(e.Kind))
	if e.Kind == EffectTransfer {
		p.PackAddress(e.To)
		p.PackUint64(e.Amount)
	}
}

func UnmarshalEffect(p *codec.Packer) (*Effect, error) {
	e := &Effect{Kind: EffectKind(p.UnpackByte())}
	switch e.Kind {
	case EffectAccept:
	case EffectTransfer:
		p.UnpackAddress(&e.To)
		e.Amount = p.UnpackUint64(false)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEffect, e.Kind)
	}
	return e, p.Err()
}
