// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/piggybank/auth"
	"github.com/ava-labs/piggybank/codec"
	"github.com/ava-labs/piggybank/consts"
	"github.com/ava-labs/piggybank/crypto/ed25519"
	"github.com/ava-labs/piggybank/utils"
)

func newKeyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage signing keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "generate [name]",
			Short: "Generate a new named key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				priv, err := ed25519.GeneratePrivateKey()
				if err != nil {
					return err
				}
				return c.storeKey(cmd, args[0], priv)
			},
		},
		&cobra.Command{
			Use:   "import [name] [private key hex]",
			Short: "Import a named key",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				priv, err := ed25519.HexToPrivateKey(args[1])
				if err != nil {
					return err
				}
				return c.storeKey(cmd, args[0], priv)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored keys and their balances",
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := c.listKeys(cmd)
				return err
			},
		},
		&cobra.Command{
			Use:   "set",
			Short: "Choose the key used to sign transactions",
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := c.listKeys(cmd)
				if err != nil || len(names) == 0 {
					return err
				}
				index, err := promptChoice("set default key", len(names))
				if err != nil {
					return err
				}
				return c.wallet.StoreDefaultKey(cmd.Context(), names[index])
			},
		},
	)
	return cmd
}

func formatAddress(addr codec.Address) string {
	return codec.MustAddressBech32(consts.HRP, addr)
}

func (c *cli) storeKey(cmd *cobra.Command, name string, priv ed25519.PrivateKey) error {
	if err := c.wallet.StoreKey(cmd.Context(), name, priv); err != nil {
		return err
	}
	addr := auth.NewED25519Address(priv.PublicKey())
	c.log.Debug("stored key", zap.String("name", name), zap.Stringer("address", addr))
	utils.Outf("{{green}}stored key:{{/}} %s {{cyan}}address:{{/}} %s\n", name, formatAddress(addr))
	return nil
}

func (c *cli) listKeys(cmd *cobra.Command) ([]string, error) {
	ctx := cmd.Context()
	names, err := c.wallet.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil, nil
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(names))
	for i, name := range names {
		priv, err := c.wallet.GetKey(ctx, name)
		if err != nil {
			return nil, err
		}
		addr := auth.NewED25519Address(priv.PublicKey())
		balance, err := c.rt.Balance(ctx, addr)
		if err != nil {
			return nil, err
		}
		utils.Outf(
			"%d) {{yellow}}%s{{/}} {{cyan}}address:{{/}} %s {{cyan}}balance:{{/}} %s %s\n",
			i,
			name,
			formatAddress(addr),
			utils.FormatBalance(balance),
			consts.Symbol,
		)
	}
	return names, nil
}

// defaultFactory returns the signer for the default key.
func (c *cli) defaultFactory(cmd *cobra.Command) (*auth.ED25519Factory, error) {
	name, priv, err := c.wallet.GetDefaultKey(cmd.Context())
	if err != nil {
		return nil, err
	}
	factory := auth.NewED25519Factory(priv)
	utils.Outf("{{yellow}}key:{{/}} %s {{yellow}}address:{{/}} %s\n", name, formatAddress(factory.Address()))
	return factory, nil
}
