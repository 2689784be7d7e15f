// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package piggybank

import "fmt"

// State is the entire persisted state of a piggy bank instance.
type State uint8

const (
	// Intact accepts deposits.
	Intact State = iota
	// Smashed has been emptied by its owner. Smashed is terminal.
	Smashed
)

func (s State) String() string {
	switch s {
	case Intact:
		return "Intact"
	case Smashed:
		return "Smashed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Bytes returns the single byte stored for [s].
func (s State) Bytes() []byte {
	return []byte{byte(s)}
}

// ParseState is the inverse of [State.Bytes].
func ParseState(b []byte) (State, error) {
	if len(b) != 1 {
		return 0, fmt.Errorf("%w: state must be 1 byte, found %d", ErrDecode, len(b))
	}
	s := State(b[0])
	if s > Smashed {
		return 0, fmt.Errorf("%w: unknown state %d", ErrDecode, b[0])
	}
	return s, nil
}
