// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/piggybank/auth"
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/crypto/ed25519"
	"github.com/ava-labs/piggybank/runtime"
)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// The key used by steps that don't name one.
	CallerKey string `json:"callerKey" yaml:"caller_key"`
	// Steps to perform, in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Endpoint string

const (
	// Create a named key if it does not exist.
	KeyEndpoint Endpoint = "key"
	// Credit [Step.Amount] to the step's key.
	FundEndpoint Endpoint = "fund"
	// Deploy [Step.Contract] owned by the step's key.
	DeployEndpoint Endpoint = "deploy"
	// Call [Step.Method] on [Step.Instance] as the step's key.
	CallEndpoint Endpoint = "call"
	// Read [Step.Instance] without changing anything.
	InspectEndpoint Endpoint = "inspect"
)

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The operation to perform. (required)
	Endpoint Endpoint `json:"endpoint" yaml:"endpoint"`
	// Named key acting in this step. Defaults to the plan's caller key.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Contract name to deploy.
	Contract string `json:"contract,omitempty" yaml:"contract,omitempty"`
	// Instance address, or "step_N" for the instance deployed by step N.
	Instance string `json:"instance,omitempty" yaml:"instance,omitempty"`
	// Entrypoint to call.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	// Value to fund or attach to a call.
	Amount uint64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	// Init or call parameters, encoded in order.
	Params []Parameter `json:"params,omitempty" yaml:"params,omitempty"`
	// Assertions against the result of the step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Require struct {
	Success *bool `json:"success,omitempty" yaml:"success,omitempty"`
	// Substring of the failure message.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Instance state after the step.
	State string `json:"state,omitempty" yaml:"state,omitempty"`
	// Instance balance after the step.
	Balance *uint64 `json:"balance,omitempty" yaml:"balance,omitempty"`
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The result of the step.
	Result Result `json:"result"`
	// Why the step could not run or an assertion failed.
	Error string `json:"error,omitempty"`
}

type Result struct {
	Success bool   `json:"success"`
	Height  uint64 `json:"height,omitempty"`
	// Address of the instance deployed, called or inspected.
	Instance string `json:"instance,omitempty"`
	Effect   string `json:"effect,omitempty"`
	// Failure message of a call that ran and was rejected.
	Failure string `json:"failure,omitempty"`
	State   string `json:"state,omitempty"`
	Balance uint64 `json:"balance"`
	Msg     string `json:"msg,omitempty"`
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	var err error
	if bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		err = json.Unmarshal(b, &p)
	} else {
		err = yaml.UnmarshalStrict(b, &p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return &p, nil
}

func newPlanCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [path]",
		Short: "Run a yaml or json plan and print one JSON response per step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			// "-" reads the plan from stdin
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(b)
			if err != nil {
				return err
			}
			return newPlanRunner(c.log, c.rt, c.wallet, cmd.OutOrStdout()).Run(cmd.Context(), plan)
		},
	}
}

type planRunner struct {
	log    logging.Logger
	rt     *runtime.Runtime
	wallet *wallet
	out    io.Writer

	// instances deployed during this plan by "step_N"
	instances map[string]codec.Address
}

func newPlanRunner(log logging.Logger, rt *runtime.Runtime, w *wallet, out io.Writer) *planRunner {
	return &planRunner{
		log:       log,
		rt:        rt,
		wallet:    w,
		out:       out,
		instances: make(map[string]codec.Address),
	}
}

func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i := range p.Steps {
		if err := p.verifyStep(&p.Steps[i]); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (p *Plan) verifyStep(step *Step) error {
	needs := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("%s requires %s", step.Endpoint, field)
		}
		return nil
	}
	key := step.Key
	if key == "" {
		key = p.CallerKey
	}
	switch step.Endpoint {
	case KeyEndpoint, FundEndpoint:
		return needs("key", key)
	case DeployEndpoint:
		return errors.Join(needs("key", key), needs("contract", step.Contract))
	case CallEndpoint:
		return errors.Join(needs("key", key), needs("instance", step.Instance), needs("method", step.Method))
	case InspectEndpoint:
		return needs("instance", step.Instance)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, step.Endpoint)
	}
}

// Run executes every step in order and stops at the first step that cannot
// run or whose assertions fail.
func (r *planRunner) Run(ctx context.Context, plan *Plan) error {
	if err := plan.Verify(); err != nil {
		return err
	}
	r.log.Info("running plan",
		zap.String("name", plan.Name),
		zap.String("description", plan.Description),
		zap.Int("steps", len(plan.Steps)),
	)
	for i := range plan.Steps {
		step := &plan.Steps[i]
		if step.Key == "" {
			step.Key = plan.CallerKey
		}
		r.log.Info("plan step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("endpoint", string(step.Endpoint)),
			zap.String("method", step.Method),
			zap.Uint64("amount", step.Amount),
		)

		resp := &Response{ID: i}
		err := r.runStep(ctx, i, step, &resp.Result)
		if err == nil && step.Require != nil {
			err = step.Require.check(&resp.Result)
		}
		if err != nil {
			resp.Error = err.Error()
		}
		if perr := r.print(resp); perr != nil {
			return perr
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (r *planRunner) print(resp *Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, string(b))
	return err
}

func (r *planRunner) factory(ctx context.Context, name string) (*auth.ED25519Factory, error) {
	priv, err := r.wallet.GetKey(ctx, name)
	if err != nil {
		return nil, err
	}
	return auth.NewED25519Factory(priv), nil
}

func (r *planRunner) instance(s string) (codec.Address, error) {
	if strings.HasPrefix(s, "step_") {
		addr, ok := r.instances[s]
		if !ok {
			return codec.EmptyAddress, fmt.Errorf("%w: %s", ErrUnknownStepRef, s)
		}
		return addr, nil
	}
	return codec.ParseAddressBech32(consts.HRP, s)
}

func (r *planRunner) runStep(ctx context.Context, i int, step *Step, result *Result) error {
	switch step.Endpoint {
	case KeyEndpoint:
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		err = r.wallet.StoreKey(ctx, step.Key, priv)
		switch {
		case errors.Is(err, ErrDuplicateKeyName):
			r.log.Debug("key already exists", zap.String("name", step.Key))
		case err != nil:
			return err
		}
		factory, err := r.factory(ctx, step.Key)
		if err != nil {
			return err
		}
		result.Success = true
		result.Msg = fmt.Sprintf("key %s has address %s", step.Key, formatAddress(factory.Address()))
		return nil
	case FundEndpoint:
		factory, err := r.factory(ctx, step.Key)
		if err != nil {
			return err
		}
		bal, err := r.rt.Fund(ctx, factory.Address(), step.Amount)
		if err != nil {
			return err
		}
		result.Success = true
		result.Height = r.rt.Height()
		result.Balance = bal
		return nil
	case DeployEndpoint:
		params, err := encodeParams(step.Params)
		if err != nil {
			return err
		}
		res, err := r.submit(ctx, step.Key, &runtime.Deploy{Contract: step.Contract, Params: params})
		if err != nil {
			return err
		}
		r.fill(result, res)
		if res.Success {
			r.instances[fmt.Sprintf("step_%d", i)] = res.Contract
			result.Instance = formatAddress(res.Contract)
			return r.inspect(ctx, res.Contract, result)
		}
		return nil
	case CallEndpoint:
		contract, err := r.instance(step.Instance)
		if err != nil {
			return err
		}
		params, err := encodeParams(step.Params)
		if err != nil {
			return err
		}
		res, err := r.submit(ctx, step.Key, &runtime.Call{
			Contract:   contract,
			Entrypoint: step.Method,
			Amount:     step.Amount,
			Params:     params,
		})
		if err != nil {
			return err
		}
		r.fill(result, res)
		result.Instance = formatAddress(contract)
		return r.inspect(ctx, contract, result)
	case InspectEndpoint:
		contract, err := r.instance(step.Instance)
		if err != nil {
			return err
		}
		result.Success = true
		result.Instance = formatAddress(contract)
		result.Height = r.rt.Height()
		return r.inspect(ctx, contract, result)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, step.Endpoint)
	}
}

func (r *planRunner) submit(ctx context.Context, key string, action runtime.Action) (*runtime.Result, error) {
	factory, err := r.factory(ctx, key)
	if err != nil {
		return nil, err
	}
	return submit(ctx, r.rt, factory, action)
}

func (*planRunner) fill(result *Result, res *runtime.Result) {
	result.Success = res.Success
	result.Height = res.Height
	result.Effect = formatEffect(res.Effect)
	if !res.Success {
		result.Failure = string(res.Error)
	}
}

func (r *planRunner) inspect(ctx context.Context, addr codec.Address, result *Result) error {
	instance, err := r.rt.Instance(ctx, addr)
	if err != nil {
		return err
	}
	result.State = instance.State.String()
	result.Balance = instance.Balance
	return nil
}

func (req *Require) check(result *Result) error {
	if req.Success != nil && *req.Success != result.Success {
		return fmt.Errorf("%w: success %t != %t (%s)", ErrAssertionFailed, result.Success, *req.Success, result.Failure)
	}
	if req.Error != "" && !strings.Contains(result.Failure, req.Error) {
		return fmt.Errorf("%w: failure %q does not contain %q", ErrAssertionFailed, result.Failure, req.Error)
	}
	if req.State != "" && req.State != result.State {
		return fmt.Errorf("%w: state %s != %s", ErrAssertionFailed, result.State, req.State)
	}
	if req.Balance != nil && *req.Balance != result.Balance {
		return fmt.Errorf("%w: balance %d != %d", ErrAssertionFailed, result.Balance, *req.Balance)
	}
	return nil
}
