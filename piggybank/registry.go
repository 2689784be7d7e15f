// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry maps contract names to their dispatch tables. It is populated
// once at startup and read-only afterwards.
type Registry struct {
	contracts map[string]*Contract
}

func NewRegistry() *Registry {
	return &Registry{contracts: map[string]*Contract{}}
}

func (r *Registry) Register(c *Contract) error {
	if _, ok := r.contracts[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateContract, c.Name)
	}
	r.contracts[c.Name] = c
	return nil
}

func (r *Registry) Lookup(name string) (*Contract, bool) {
	c, ok := r.contracts[name]
	return c, ok
}

// Contracts returns every registered contract sorted by name.
func (r *Registry) Contracts() []*Contract {
	names := maps.Keys(r.contracts)
	slices.Sort(names)
	out := make([]*Contract, len(names))
	for i, name := range names {
		out[i] = r.contracts[name]
	}
	return out
}
