// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cmd implements the piggybank-cli commands.
package cmd

import (
	"context"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/piggybank/config"
	"github.com/ava-labs/piggybank/pebble"
	"github.com/ava-labs/piggybank/runtime"
	"github.com/ava-labs/piggybank/state"
	"github.com/ava-labs/piggybank/storage"
	"github.com/ava-labs/piggybank/trace"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const (
	stateNamespace  = "state"
	walletNamespace = "wallet"
	runtimeMetrics  = "runtime"
)

type cli struct {
	configPath string
	dataDir    string
	logLevel   string
	logDisplay bool
	yes        bool

	cfg        *config.Config
	logFactory *logFactory
	log        logging.Logger
	tracer     avatrace.Tracer
	gatherer   metrics.MultiGatherer

	stateDB  *pebble.Database
	walletDB *pebble.Database

	rt     *runtime.Runtime
	wallet *wallet
}

func NewRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "piggybank-cli",
		Short: "Deploy and drive piggy bank contracts",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd.Context(), cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "yaml or json config file")
	flags.StringVar(&c.dataDir, "data-dir", config.DefaultDataDir, "directory holding the ledger and wallet")
	flags.StringVar(&c.logLevel, "log-level", logging.Info.LowerString(), "log level")
	flags.BoolVar(&c.logDisplay, "log-display", false, "also write logs to stderr")
	flags.BoolVar(&c.yes, "yes", false, "skip confirmation prompts")

	cmd.AddCommand(
		newKeyCmd(c),
		newFundCmd(c),
		newDeployCmd(c),
		newCallCmd(c),
		newInspectCmd(c),
		newBalanceCmd(c),
		newContractsCmd(c),
		newMetricsCmd(c),
		newPlanCmd(c),
	)
	return cmd
}

// loadConfig reads the config file, if any, and applies flags the user set
// explicitly on top of it.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewDefault()
	if c.configPath != "" {
		var err error
		cfg, err = config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") || c.configPath == "" {
		cfg.DataDir = c.dataDir
	}
	if flags.Changed("log-level") || c.configPath == "" {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("log-display") {
		cfg.LogDisplay = c.logDisplay
	}
	if flags.Changed("yes") {
		cfg.SkipConfirm = c.yes
	}
	return cfg, cfg.Verify()
}

func (c *cli) init(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logLevel, err := cfg.GetLogLevel()
	if err != nil {
		return err
	}
	c.logFactory = newLogFactory(logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8, // MB
			MaxFiles:  4,
			MaxAge:    7, // days
			Directory: cfg.GetLogDir(),
			Compress:  true,
		},
		DisableWriterDisplaying: !cfg.LogDisplay,
		LogLevel:                logLevel,
		DisplayLevel:            logLevel,
		LogFormat:               logging.JSON,
	})
	c.log, err = c.logFactory.Make("piggybank")
	if err != nil {
		return err
	}

	c.tracer, err = trace.New(cfg.Trace)
	if err != nil {
		return err
	}

	c.gatherer = metrics.NewMultiGatherer()
	c.stateDB, err = storage.New(cfg.Pebble, cfg.DataDir, stateNamespace, c.gatherer)
	if err != nil {
		return err
	}
	c.walletDB, err = storage.New(cfg.Pebble, cfg.DataDir, walletNamespace, c.gatherer)
	if err != nil {
		return err
	}
	c.wallet = newWallet(state.NewDatabase(c.walletDB))

	rt, registry, err := runtime.New(ctx, runtime.NewDefaultConfig(), c.log, c.tracer, state.NewDatabase(c.stateDB))
	if err != nil {
		return err
	}
	if err := c.gatherer.Register(runtimeMetrics, registry); err != nil {
		return err
	}
	c.rt = rt

	c.log.Debug("cli initialized",
		zap.String("dataDir", cfg.DataDir),
		zap.String("logLevel", cfg.LogLevel),
		zap.Bool("tracing", cfg.Trace.Enabled),
	)
	return nil
}

func (c *cli) close() error {
	errs := wrappers.Errs{}
	if c.tracer != nil {
		errs.Add(c.tracer.Close())
	}
	if c.walletDB != nil {
		errs.Add(c.walletDB.Close())
	}
	if c.stateDB != nil {
		errs.Add(c.stateDB.Close())
	}
	if c.logFactory != nil {
		c.logFactory.Close()
	}
	return errs.Err
}
