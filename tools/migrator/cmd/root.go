// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/chainservice"
	"github.com/iotexproject/iotex-vesting/config"
	"github.com/iotexproject/iotex-vesting/pkg/log"
)

var (
	_configPaths []string
	_callerStr   string

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:           "migrator",
		Short:         "migrator is the operator console of the legacy token migration",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() {
	RootCmd.PersistentFlags().StringSliceVarP(&_configPaths, "config", "c", nil, "config files, later ones override earlier ones")
	RootCmd.PersistentFlags().StringVar(&_callerStr, "caller", "", "address issuing the action, defaults to the genesis owner")

	RootCmd.AddCommand(_initCmd)
	RootCmd.AddCommand(_bulkInsertCmd)
	RootCmd.AddCommand(_activateCmd)
	RootCmd.AddCommand(_activateForCmd)
	RootCmd.AddCommand(_claimForCmd)
	RootCmd.AddCommand(_setTemplateCmd)
	RootCmd.AddCommand(_enableCategoryCmd)
	RootCmd.AddCommand(_freezeCmd)
	RootCmd.AddCommand(_statusCmd)
	RootCmd.AddCommand(_digestCmd)
	RootCmd.AddCommand(_signCmd)
}

// withService loads the config, starts the chain service on the configured store and runs f
func withService(f func(context.Context, config.Config, *chainservice.ChainService) error) error {
	cfg, err := config.New(_configPaths)
	if err != nil {
		return err
	}
	if err := log.InitLoggers(cfg.Log); err != nil {
		return errors.Wrap(err, "failed to init loggers")
	}
	cfg.System.HTTPStatsPort = 0
	cs, err := chainservice.New(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := cs.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := cs.Stop(ctx); err != nil {
			fmt.Println("failed to stop chain service:", err)
		}
	}()
	return f(ctx, cfg, cs)
}

// execute runs act as the --caller, or as the fallback role when the flag is empty
func execute(ctx context.Context, cs *chainservice.ChainService, fallback string, act action.Action) error {
	callerStr := _callerStr
	if callerStr == "" {
		callerStr = fallback
	}
	caller, err := address.FromString(callerStr)
	if err != nil {
		return errors.Wrapf(err, "invalid caller %q", callerStr)
	}
	r, err := cs.Execute(ctx, caller, act)
	if err != nil {
		return err
	}
	fmt.Printf("%s executed at height %d, action hash %x, %d events\n", act.Name(), r.BlockHeight, r.ActionHash, len(r.Logs()))
	return nil
}

func accountFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVarP(p, "account", "a", "", "account address")
	_ = cmd.MarkFlagRequired("account")
}
