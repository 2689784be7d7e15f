// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/piggybank/runtime"
	"github.com/ava-labs/piggybank/state"
	"github.com/ava-labs/piggybank/trace"
)

const dcbPlan = `
name: dcb
description: deposit from bob then smash as alice
caller_key: alice
steps:
  - endpoint: key
  - endpoint: key
    key: bob
  - endpoint: fund
    key: bob
    amount: 500
  - endpoint: deploy
    contract: DCBBank
    require: {success: true, state: Intact, balance: 0}
  - endpoint: call
    key: bob
    instance: step_3
    method: insertAmount
    amount: 200
    require: {success: true, balance: 200}
  - endpoint: call
    key: bob
    instance: step_3
    method: smashAmount
    require: {success: false, error: unauthorized, state: Intact}
  - endpoint: call
    instance: step_3
    method: smashAmount
    require: {success: true, state: Smashed, balance: 0}
  - endpoint: call
    instance: step_3
    method: insertAmount
    require: {success: false, error: invalid state}
`

const indPlan = `{
  "name": "ind",
  "callerKey": "alice",
  "steps": [
    {"endpoint": "key"},
    {
      "endpoint": "deploy",
      "contract": "INDBankStruct",
      "params": [{"type": "bool", "value": false}],
      "require": {"success": true, "state": "Smashed"}
    },
    {
      "endpoint": "call",
      "instance": "step_1",
      "method": "insertAmount4",
      "params": [{"type": "i8", "value": -3}],
      "require": {"success": false}
    }
  ]
}`

func newTestRunner(t *testing.T) (*planRunner, *bytes.Buffer) {
	rt, _, err := runtime.New(
		context.Background(),
		runtime.NewDefaultConfig(),
		logging.NoLog{},
		trace.Noop(),
		state.NewDatabase(memdb.New()),
	)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return newPlanRunner(logging.NoLog{}, rt, newWallet(state.MutableStorage{}), out), out
}

func readResponses(t *testing.T, out *bytes.Buffer) []Response {
	var responses []Response
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var resp Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.NoError(t, scanner.Err())
	return responses
}

func TestRunPlan(t *testing.T) {
	tests := map[string]struct {
		plan  string
		steps int
	}{
		"yaml": {plan: dcbPlan, steps: 8},
		"json": {plan: indPlan, steps: 3},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			plan, err := unmarshalPlan([]byte(tt.plan))
			require.NoError(err)

			runner, out := newTestRunner(t)
			require.NoError(runner.Run(context.Background(), plan))

			responses := readResponses(t, out)
			require.Len(responses, tt.steps)
			for i, resp := range responses {
				require.Equal(i, resp.ID)
				require.Empty(resp.Error)
			}
		})
	}
}

func TestRunPlanTransfers(t *testing.T) {
	require := require.New(t)
	plan, err := unmarshalPlan([]byte(dcbPlan))
	require.NoError(err)

	runner, out := newTestRunner(t)
	require.NoError(runner.Run(context.Background(), plan))
	responses := readResponses(t, out)

	bank := responses[3].Result.Instance
	require.NotEmpty(bank)
	require.Equal(bank, responses[6].Result.Instance)
	require.Contains(responses[6].Result.Effect, "transfer")

	alice, err := runner.factory(context.Background(), "alice")
	require.NoError(err)
	bal, err := runner.rt.Balance(context.Background(), alice.Address())
	require.NoError(err)
	require.Equal(uint64(200), bal)
}

func TestRunPlanAssertionFailure(t *testing.T) {
	require := require.New(t)
	plan, err := unmarshalPlan([]byte(`
caller_key: alice
steps:
  - endpoint: key
  - endpoint: deploy
    contract: DCBBank
    require: {state: Smashed}
  - endpoint: key
    key: never
`))
	require.NoError(err)

	runner, out := newTestRunner(t)
	err = runner.Run(context.Background(), plan)
	require.ErrorIs(err, ErrAssertionFailed)

	responses := readResponses(t, out)
	require.Len(responses, 2)
	require.Contains(responses[1].Error, "state Intact != Smashed")

	_, err = runner.wallet.GetKey(context.Background(), "never")
	require.ErrorIs(err, ErrNamedKeyNotFound)
}

func TestPlanVerify(t *testing.T) {
	tests := map[string]struct {
		plan string
		err  error
	}{
		"no steps": {
			plan: `name: empty`,
			err:  ErrInvalidPlan,
		},
		"unknown endpoint": {
			plan: `
steps:
  - endpoint: transfer
    key: alice`,
			err: ErrInvalidEndpoint,
		},
		"call without method": {
			plan: `
caller_key: alice
steps:
  - endpoint: call
    instance: step_0`,
			err: ErrInvalidStep,
		},
		"deploy without key": {
			plan: `
steps:
  - endpoint: deploy
    contract: DCBBank`,
			err: ErrInvalidStep,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			plan, err := unmarshalPlan([]byte(tt.plan))
			require.NoError(err)
			require.ErrorIs(plan.Verify(), tt.err)
		})
	}
}

func TestUnmarshalPlanStrict(t *testing.T) {
	_, err := unmarshalPlan([]byte("steps:\n  - endpoint: key\n    bogus: 1\n"))
	require.ErrorIs(t, err, ErrInvalidPlan)
}

func TestRunPlanUnknownStepRef(t *testing.T) {
	require := require.New(t)
	plan, err := unmarshalPlan([]byte(`
caller_key: alice
steps:
  - endpoint: key
  - endpoint: inspect
    instance: step_0`))
	require.NoError(err)

	runner, _ := newTestRunner(t)
	require.ErrorIs(runner.Run(context.Background(), plan), ErrUnknownStepRef)
}
