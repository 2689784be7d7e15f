// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import "github.com/ava-labs/piggybank/schema"

// Contract names
const (
	DCBBankName         = "DCBBank"
	INDBankStructName   = "INDBankStruct"
	Struct2U8Name       = "Struct2U8"
	UserMixedName       = "UserMixed"
	UserFullDetailsName = "UserFullDetails"
)

// Entry point names
const (
	InsertAmount = "insertAmount"
	SmashAmount  = "smashAmount"
	BalanceOf    = "balanceOf"
	ReturnStruct = "returnStruct"
)

func insert(name string, param schema.Schema) *Entrypoint {
	return &Entrypoint{Name: name, Payable: true, Param: param, Handler: Deposit}
}

func smash() *Entrypoint {
	return &Entrypoint{Name: SmashAmount, Handler: Withdraw}
}

func balanceOf() *Entrypoint {
	return &Entrypoint{Name: BalanceOf, Handler: QueryBalance}
}

func isTrue(b bool) bool { return b }

// Contracts returns a fresh copy of every built-in contract.
func Contracts() ([]*Contract, error) {
	builders := []func() (*Contract, error){
		func() (*Contract, error) {
			return NewContract(DCBBankName, NoParameter(),
				insert(InsertAmount, nil),
				smash(),
				balanceOf(),
			)
		},
		func() (*Contract, error) {
			return NewContract(INDBankStructName, FromParameter(schema.Bool, isTrue),
				insert(InsertAmount, schema.U8),
				insert("insertAmount1", schema.U16),
				insert("insertAmount2", schema.U32),
				insert("insertAmount3", schema.U64),
				insert("insertAmount4", schema.I8),
				insert("insertAmount5", schema.I16),
				insert("insertAmount6", schema.I32),
				insert("insertAmount7", schema.I64),
				smash(),
			)
		},
		func() (*Contract, error) {
			return NewContract(Struct2U8Name, FromParameter(schema.Bool, isTrue),
				insert(InsertAmount, schema.U8),
			)
		},
		func() (*Contract, error) {
			intact := func(tokens [3]uint8) bool { return tokens[1] > 0 }
			return NewContract(UserMixedName, FromParameter(schema.U8Array3, intact),
				insert(InsertAmount, schema.U8),
				&Entrypoint{Name: ReturnStruct, Handler: Deposit},
			)
		},
		func() (*Contract, error) {
			intact := func(tokens [3]string) bool { return tokens[1] == UserFullDetailsName }
			return NewContract(UserFullDetailsName, FromParameter(schema.StringArray3, intact),
				insert(InsertAmount, schema.U8),
			)
		},
	}
	contracts := make([]*Contract, 0, len(builders))
	for _, build := range builders {
		c, err := build()
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// NewDefaultRegistry returns a registry holding every built-in contract.
func NewDefaultRegistry() (*Registry, error) {
	contracts, err := Contracts()
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, c := range contracts {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}
