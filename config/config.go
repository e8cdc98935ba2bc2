// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-vesting/blockchain/genesis"
	"github.com/iotexproject/iotex-vesting/db"
	"github.com/iotexproject/iotex-vesting/pkg/log"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

var (
	// Default is the default config
	Default = Config{
		System: System{
			HTTPStatsPort:  8080,
			ReportInterval: time.Minute,
		},
		DB:      db.DefaultConfig,
		Genesis: genesis.Default,
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateDB,
		ValidateSystem,
		ValidateGenesis,
	}
)

type (
	// Config is the root config of the migration service
	Config struct {
		System  System           `yaml:"system"`
		DB      db.Config        `yaml:"db"`
		Log     log.GlobalConfig `yaml:"log"`
		Genesis genesis.Genesis  `yaml:"genesis"`
	}

	// System is the config struct of the service process
	System struct {
		// HTTPStatsPort serves probes and metrics, 0 disables it
		HTTPStatsPort int `yaml:"httpStatsPort"`
		// ReportInterval is the period of the state gauges refresh
		ReportInterval time.Duration `yaml:"reportInterval"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// ValidateDB validates the state store config
func ValidateDB(cfg Config) error {
	switch cfg.DB.DBType {
	case db.DBMemory:
		return nil
	case db.DBBolt, db.DBPebble:
	default:
		return errors.Wrapf(ErrInvalidCfg, "unsupported db type %q", cfg.DB.DBType)
	}
	if cfg.DB.DbPath == "" {
		return errors.Wrap(ErrInvalidCfg, "db path is empty")
	}
	return nil
}

// ValidateSystem validates the service process config
func ValidateSystem(cfg Config) error {
	if cfg.System.HTTPStatsPort < 0 || cfg.System.HTTPStatsPort > 65535 {
		return errors.Wrapf(ErrInvalidCfg, "invalid http stats port %d", cfg.System.HTTPStatsPort)
	}
	if cfg.System.ReportInterval <= 0 {
		return errors.Wrap(ErrInvalidCfg, "report interval should be greater than 0")
	}
	return nil
}

// ValidateGenesis validates that the genesis decodes into an initial state
func ValidateGenesis(cfg Config) error {
	if _, err := cfg.Genesis.MigrationGenesis(); err != nil {
		return errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
