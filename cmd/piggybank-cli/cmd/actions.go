// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/piggybank/auth"
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/piggybank"
	"github.com/ava-labs/piggybank/runtime"
	"github.com/ava-labs/piggybank/utils"
)

// resolveAddress accepts a bech32 address or the name of a stored key.
func (c *cli) resolveAddress(ctx context.Context, s string) (codec.Address, error) {
	if strings.HasPrefix(s, consts.HRP+"1") {
		return codec.ParseAddressBech32(consts.HRP, s)
	}
	priv, err := c.wallet.GetKey(ctx, s)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return auth.NewED25519Address(priv.PublicKey()), nil
}

// callParams merges --param-hex and every --param into one payload.
func callParams(paramHex string, params []string) ([]byte, error) {
	var out []byte
	if paramHex != "" {
		b, err := hex.DecodeString(strings.TrimPrefix(paramHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParamValue, err)
		}
		out = b
	}
	for _, raw := range params {
		p, err := parseParamFlag(raw)
		if err != nil {
			return nil, err
		}
		b, err := encodeParam(p)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

func (c *cli) submit(ctx context.Context, factory *auth.ED25519Factory, action runtime.Action) (*runtime.Result, error) {
	return submit(ctx, c.rt, factory, action)
}

// submit signs [action] with the next nonce of [factory] and executes it.
func submit(ctx context.Context, rt *runtime.Runtime, factory *auth.ED25519Factory, action runtime.Action) (*runtime.Result, error) {
	nonce, err := rt.Nonce(ctx, factory.Address())
	if err != nil {
		return nil, err
	}
	tx, err := runtime.NewTransaction(nonce, action).Sign(factory)
	if err != nil {
		return nil, err
	}
	return rt.Submit(ctx, tx)
}

func printResult(result *runtime.Result) {
	if !result.Success {
		utils.Outf("{{red}}call failed:{{/}} %s {{yellow}}height:{{/}} %d\n", result.Error, result.Height)
		return
	}
	if result.Contract != codec.EmptyAddress {
		utils.Outf("{{green}}deployed:{{/}} %s {{yellow}}height:{{/}} %d\n", formatAddress(result.Contract), result.Height)
		return
	}
	utils.Outf("{{green}}call succeeded:{{/}} %s {{yellow}}height:{{/}} %d\n", formatEffect(result.Effect), result.Height)
}

func formatEffect(e *piggybank.Effect) string {
	if e == nil {
		return ""
	}
	if e.Kind == piggybank.EffectTransfer {
		return fmt.Sprintf("transfer %s %s to %s", utils.FormatBalance(e.Amount), consts.Symbol, formatAddress(e.To))
	}
	return e.Kind.String()
}

func newFundCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "fund [key or address] [amount]",
		Short: "Credit an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			addr, err := c.resolveAddress(ctx, args[0])
			if err != nil {
				return err
			}
			amount, err := utils.ParseBalance(args[1])
			if err != nil {
				return err
			}
			bal, err := c.rt.Fund(ctx, addr, amount)
			if err != nil {
				return err
			}
			utils.Outf("{{green}}funded{{/}} %s {{cyan}}balance:{{/}} %s %s\n", formatAddress(addr), utils.FormatBalance(bal), consts.Symbol)
			return nil
		},
	}
}

func newDeployCmd(c *cli) *cobra.Command {
	var (
		paramHex string
		params   []string
	)
	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a new piggy bank owned by the default key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract := c.cfg.DefaultContract
			if len(args) == 1 {
				contract = args[0]
			}
			b, err := callParams(paramHex, params)
			if err != nil {
				return err
			}
			factory, err := c.defaultFactory(cmd)
			if err != nil {
				return err
			}
			result, err := c.submit(cmd.Context(), factory, &runtime.Deploy{Contract: contract, Params: b})
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&paramHex, "param-hex", "", "raw init parameter")
	cmd.Flags().StringArrayVar(&params, "param", nil, "typed init parameter (type:value), may be repeated")
	return cmd
}

func newCallCmd(c *cli) *cobra.Command {
	var (
		amount   string
		paramHex string
		params   []string
	)
	cmd := &cobra.Command{
		Use:   "call [instance] [entrypoint]",
		Short: "Call an entrypoint as the default key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			contract, err := codec.ParseAddressBech32(consts.HRP, args[0])
			if err != nil {
				return err
			}
			value, err := utils.ParseBalance(amount)
			if err != nil {
				return err
			}
			b, err := callParams(paramHex, params)
			if err != nil {
				return err
			}
			factory, err := c.defaultFactory(cmd)
			if err != nil {
				return err
			}
			if args[1] == piggybank.SmashAmount && !c.cfg.SkipConfirm {
				instance, err := c.rt.Instance(ctx, contract)
				if err != nil {
					return err
				}
				ok, err := promptBool(fmt.Sprintf(
					"smash %s and sweep %s %s",
					formatAddress(contract),
					utils.FormatBalance(instance.Balance),
					consts.Symbol,
				))
				if err != nil {
					return err
				}
				if !ok {
					utils.Outf("{{red}}exiting...{{/}}\n")
					return nil
				}
			}
			result, err := c.submit(ctx, factory, &runtime.Call{
				Contract:   contract,
				Entrypoint: args[1],
				Amount:     value,
				Params:     b,
			})
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "0", "value to attach")
	cmd.Flags().StringVar(&paramHex, "param-hex", "", "raw call parameter")
	cmd.Flags().StringArrayVar(&params, "param", nil, "typed call parameter (type:value), may be repeated")
	return cmd
}

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [instance]",
		Short: "Show a deployed piggy bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := codec.ParseAddressBech32(consts.HRP, args[0])
			if err != nil {
				return err
			}
			instance, err := c.rt.Instance(cmd.Context(), addr)
			if err != nil {
				return err
			}
			utils.Outf(
				"{{cyan}}contract:{{/}} %s {{cyan}}owner:{{/}} %s {{cyan}}state:{{/}} %s {{cyan}}balance:{{/}} %s %s\n",
				instance.Contract,
				formatAddress(instance.Owner),
				instance.State,
				utils.FormatBalance(instance.Balance),
				consts.Symbol,
			)
			return nil
		},
	}
}

func newBalanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [key or address]",
		Short: "Show the balance of an account or instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			addr, err := c.resolveAddress(ctx, args[0])
			if err != nil {
				return err
			}
			bal, err := c.rt.Balance(ctx, addr)
			if err != nil {
				return err
			}
			nonce, err := c.rt.Nonce(ctx, addr)
			if err != nil {
				return err
			}
			utils.Outf(
				"{{cyan}}address:{{/}} %s {{cyan}}balance:{{/}} %s %s {{cyan}}nonce:{{/}} %d\n",
				formatAddress(addr),
				utils.FormatBalance(bal),
				consts.Symbol,
				nonce,
			)
			return nil
		},
	}
}

func newContractsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "List deployable contracts and their entrypoints",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for _, contract := range c.rt.Registry().Contracts() {
				initParam := "none"
				if contract.Init.Param != nil {
					initParam = contract.Init.Param.Name()
				}
				utils.Outf("{{green}}%s{{/}} {{cyan}}init:{{/}} %s\n", contract.Name, initParam)
				for _, e := range contract.Entrypoints() {
					param := "none"
					if e.Param != nil {
						param = e.Param.Name()
					}
					utils.Outf("  %s {{cyan}}param:{{/}} %s {{cyan}}payable:{{/}} %t\n", e.Name, param, e.Payable)
				}
			}
			return nil
		},
	}
}

func newMetricsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print counters and gauges collected during this run",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			families, err := c.gatherer.Gather()
			if err != nil {
				return err
			}
			for _, family := range families {
				for _, m := range family.GetMetric() {
					switch {
					case m.GetCounter() != nil:
						utils.Outf("%s %v\n", family.GetName(), m.GetCounter().GetValue())
					case m.GetGauge() != nil:
						utils.Outf("%s %v\n", family.GetName(), m.GetGauge().GetValue())
					}
				}
			}
			return nil
		},
	}
}
