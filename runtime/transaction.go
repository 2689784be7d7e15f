// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/piggybank/auth"
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/utils"
)

const (
	DeployID uint8 = 0
	CallID   uint8 = 1

	MaxContractNameSize = 256
	MaxEntrypointSize   = 256
)

// Action is the payload of a [Transaction].
type Action interface {
	GetTypeID() uint8
	Size() int
	Marshal(p *codec.Packer)
}

var (
	_ Action = (*Deploy)(nil)
	_ Action = (*Call)(nil)
)

// Deploy creates a new instance of [Contract] owned by the actor.
type Deploy struct {
	Contract string `json:"contract"`
	Params   []byte `json:"params"`
}

func (*Deploy) GetTypeID() uint8 {
	return DeployID
}

func (d *Deploy) Size() int {
	return codec.StringLen(d.Contract) + codec.BytesLen(d.Params)
}

func (d *Deploy) Marshal(p *codec.Packer) {
	p.PackString(d.Contract)
	p.PackBytes(d.Params)
}

func UnmarshalDeploy(p *codec.Packer) (*Deploy, error) {
	var d Deploy
	d.Contract = p.UnpackString(true)
	p.UnpackBytes(consts.NetworkSizeLimit, false, &d.Params)
	if len(d.Contract) > MaxContractNameSize {
		return nil, fmt.Errorf("%w: contract name", codec.ErrInvalidSize)
	}
	return &d, p.Err()
}

// Call invokes [Entrypoint] on the instance at [Contract]. [Sender] is
// ignored on the wire: signed calls execute as the transaction's actor.
type Call struct {
	Sender     codec.Address `json:"sender"`
	Contract   codec.Address `json:"contract"`
	Entrypoint string        `json:"entrypoint"`
	Amount     uint64        `json:"amount"`
	Params     []byte        `json:"params"`
}

func (*Call) GetTypeID() uint8 {
	return CallID
}

func (c *Call) Size() int {
	return codec.AddressLen + codec.StringLen(c.Entrypoint) + consts.Uint64Len + codec.BytesLen(c.Params)
}

func (c *Call) Marshal(p *codec.Packer) {
	p.PackAddress(c.Contract)
	p.PackString(c.Entrypoint)
	p.PackUint64(c.Amount)
	p.PackBytes(c.Params)
}

func UnmarshalCall(p *codec.Packer) (*Call, error) {
	var c Call
	p.UnpackAddress(&c.Contract)
	c.Entrypoint = p.UnpackString(true)
	c.Amount = p.UnpackUint64(false)
	p.UnpackBytes(consts.NetworkSizeLimit, false, &c.Params)
	if len(c.Entrypoint) > MaxEntrypointSize {
		return nil, fmt.Errorf("%w: entrypoint name", codec.ErrInvalidSize)
	}
	return &c, p.Err()
}

// Transaction is a signed [Action] from a single account.
type Transaction struct {
	// Must equal the account's nonce at execution time.
	Nonce  uint64        `json:"nonce"`
	Action Action        `json:"action"`
	Auth   *auth.ED25519 `json:"auth"`

	bytes []byte
	id    ids.ID
}

func NewTransaction(nonce uint64, action Action) *Transaction {
	return &Transaction{Nonce: nonce, Action: action}
}

func (t *Transaction) digestSize() int {
	return consts.Uint64Len + consts.ByteLen + t.Action.Size()
}

// Digest is the message signed by [Auth].
func (t *Transaction) Digest() ([]byte, error) {
	p := codec.NewWriter(t.digestSize(), consts.NetworkSizeLimit)
	t.marshalDigest(p)
	return p.Bytes(), p.Err()
}

func (t *Transaction) marshalDigest(p *codec.Packer) {
	p.PackUint64(t.Nonce)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
}

// Sign returns a copy of [t] authorized by [factory].
func (t *Transaction) Sign(factory *auth.ED25519Factory) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	signed := NewTransaction(t.Nonce, t.Action)
	signed.Auth = factory.Sign(msg)

	// Ensure the signed transaction round trips
	b, err := signed.Bytes()
	if err != nil {
		return nil, err
	}
	return UnmarshalTransaction(b)
}

func (t *Transaction) Bytes() ([]byte, error) {
	if len(t.bytes) > 0 {
		return t.bytes, nil
	}
	if t.Auth == nil {
		return nil, ErrMissingAuth
	}
	p := codec.NewWriter(t.digestSize()+t.Auth.Size(), consts.NetworkSizeLimit)
	t.marshalDigest(p)
	t.Auth.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	t.bytes = p.Bytes()
	t.id = utils.ToID(t.bytes)
	return t.bytes, nil
}

// ID is only populated once the transaction has been marshaled or parsed.
func (t *Transaction) ID() ids.ID {
	return t.id
}

func UnmarshalTransaction(b []byte) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	t := &Transaction{Nonce: p.UnpackUint64(false)}
	typeID := p.UnpackByte()
	var err error
	switch typeID {
	case DeployID:
		t.Action, err = UnmarshalDeploy(p)
	case CallID:
		t.Action, err = UnmarshalCall(p)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, typeID)
	}
	if err != nil {
		return nil, err
	}
	t.Auth, err = auth.UnmarshalED25519(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: trailing transaction bytes", codec.ErrInvalidSize)
	}
	t.bytes = b
	t.id = utils.ToID(b)
	return t, nil
}
