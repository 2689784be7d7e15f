// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/piggybank/schema"
)

// Initializer decides the initial [State] of a new instance.
type Initializer struct {
	// Param is nil when the contract takes no init parameter.
	Param schema.Schema

	init func(InitContext) (State, error)
}

// NoParameter initializers always produce [Intact].
func NoParameter() Initializer {
	return Initializer{
		init: func(InitContext) (State, error) {
			return Intact, nil
		},
	}
}

// FromParameter decodes the init parameter with [s] and starts the instance
// [Intact] if [intact] holds for the decoded value, [Smashed] otherwise.
func FromParameter[T any](s *schema.Type[T], intact func(T) bool) Initializer {
	return Initializer{
		Param: s,
		init: func(ctx InitContext) (State, error) {
			v, err := s.Decode(ctx.Parameter())
			if err != nil {
				return 0, err
			}
			if intact(v) {
				return Intact, nil
			}
			return Smashed, nil
		},
	}
}

// Entrypoint is one row of a contract's dispatch table.
type Entrypoint struct {
	Name string
	// Payable entry points may be called with value attached.
	Payable bool
	// Param is decoded before [Handler] runs and otherwise ignored. Nil when
	// the entry point takes no parameter.
	Param   schema.Schema
	Handler ReceiveFunc
}

// Invoke decodes the parameter (if any) and runs the handler.
func (e *Entrypoint) Invoke(ctx Context, amount uint64, st *State) (*Effect, error) {
	if e.Param != nil {
		if err := e.Param.Check(ctx.Parameter()); err != nil {
			return nil, err
		}
	}
	return e.Handler(ctx, amount, st)
}

// Contract is a named set of entry points with an initializer.
type Contract struct {
	Name string
	Init Initializer

	entrypoints map[string]*Entrypoint
}

func NewContract(name string, init Initializer, entrypoints ...*Entrypoint) (*Contract, error) {
	c := &Contract{
		Name:        name,
		Init:        init,
		entrypoints: make(map[string]*Entrypoint, len(entrypoints)),
	}
	for _, e := range entrypoints {
		if _, ok := c.entrypoints[e.Name]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateEntrypoint, name, e.Name)
		}
		c.entrypoints[e.Name] = e
	}
	return c, nil
}

// Initialize returns the initial state of a new instance of [c].
func (c *Contract) Initialize(ctx InitContext) (State, error) {
	return c.Init.init(ctx)
}

func (c *Contract) Entrypoint(name string) (*Entrypoint, bool) {
	e, ok := c.entrypoints[name]
	return e, ok
}

// Entrypoints returns the entry points of [c] sorted by name.
func (c *Contract) Entrypoints() []*Entrypoint {
	names := maps.Keys(c.entrypoints)
	slices.Sort(names)
	out := make([]*Entrypoint, len(names))
	for i, name := range names {
		out[i] = c.entrypoints[name]
	}
	return out
}
