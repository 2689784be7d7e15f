// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/piggybank/pebble"
	"github.com/ava-labs/piggybank/trace"
)

const (
	DefaultDataDir = ".piggybank"
	DefaultLogDir  = "logs"
)

type Config struct {
	// Parsed with [logging.ToLevel].
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	// Log files are written here, relative to [DataDir] unless absolute.
	LogDir string `json:"logDir" yaml:"logDir"`
	// Also write logs to stderr.
	LogDisplay bool `json:"logDisplay" yaml:"logDisplay"`

	DataDir string        `json:"dataDir" yaml:"dataDir"`
	Pebble  pebble.Config `json:"pebble"  yaml:"pebble"`
	Trace   trace.Config  `json:"trace"   yaml:"trace"`

	// Contract deployed when none is named.
	DefaultContract string `json:"defaultContract" yaml:"defaultContract"`
	// Skip the confirmation prompt before smashing.
	SkipConfirm bool `json:"skipConfirm" yaml:"skipConfirm"`
}

func NewDefault() *Config {
	return &Config{
		LogLevel:        logging.Info.String(),
		LogDir:          DefaultLogDir,
		DataDir:         DefaultDataDir,
		Pebble:          pebble.NewDefaultConfig(),
		Trace:           trace.NewDefaultConfig(),
		DefaultContract: "DCBBank",
	}
}

// Load reads [path] over the defaults. Files ending in .json are parsed as
// json, everything else as yaml.
func Load(path string) (*Config, error) {
	c := NewDefault()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Parse(b, strings.EqualFold(filepath.Ext(path), ".json"), c); err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return c, c.Verify()
}

func Parse(b []byte, isJSON bool, c *Config) error {
	if isJSON {
		return json.Unmarshal(b, c)
	}
	return yaml.UnmarshalStrict(b, c)
}

func (c *Config) Verify() error {
	if _, err := c.GetLogLevel(); err != nil {
		return err
	}
	if c.DataDir == "" {
		return ErrMissingDataDir
	}
	return nil
}

func (c *Config) GetLogLevel() (logging.Level, error) {
	return logging.ToLevel(c.LogLevel)
}

// GetLogDir resolves [LogDir] against [DataDir].
func (c *Config) GetLogDir() string {
	if filepath.IsAbs(c.LogDir) {
		return c.LogDir
	}
	return filepath.Join(c.DataDir, c.LogDir)
}
