// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/blockchain/genesis"
	"github.com/iotexproject/iotex-vesting/chainservice"
	"github.com/iotexproject/iotex-vesting/config"
)

var (
	_accountStr   string
	_signatureHex string
	_categoryStr  string
	_index        uint8
	_percent      string
	_startTime    uint64
	_cliffTime    uint64
	_endTime      uint64
	_disable      bool

	_initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the genesis state, or check the schema of an existing store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(_ context.Context, cfg config.Config, cs *chainservice.ChainService) error {
				h, err := cfg.Genesis.Hash()
				if err != nil {
					return err
				}
				height, err := cs.Height()
				if err != nil {
					return err
				}
				fmt.Printf("store at height %d, genesis hash %x\n", height, h)
				return nil
			})
		},
	}

	_activateCmd = &cobra.Command{
		Use:   "activate",
		Short: "Activate the --caller with a signature of the authorized signer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := hex.DecodeString(_signatureHex)
			if err != nil {
				return errors.Wrap(err, "invalid signature")
			}
			if _callerStr == "" {
				return errors.New("--caller is required")
			}
			return run("", &action.ActivateAccount{Signature: sig})
		},
	}

	_activateForCmd = &cobra.Command{
		Use:   "activate-for",
		Short: "Activate a legacy user as the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := address.FromString(_accountStr)
			if err != nil {
				return err
			}
			return run("", &action.ActivateAccountFor{Account: account})
		},
	}

	_claimForCmd = &cobra.Command{
		Use:   "claim-for",
		Short: "Claim the vested tokens of a user as the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := address.FromString(_accountStr)
			if err != nil {
				return err
			}
			return run("", &action.ClaimFor{Account: account})
		},
	}

	_setTemplateCmd = &cobra.Command{
		Use:   "set-template",
		Short: "Write one vesting template of a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := vesting.ParseCategory(_categoryStr)
			if err != nil {
				return err
			}
			percentage, err := genesis.ParsePercent(_percent)
			if err != nil {
				return err
			}
			return run("", &action.SetCategoryTemplate{
				Category:   uint8(category),
				Index:      _index,
				Percentage: percentage,
				StartTime:  _startTime,
				CliffTime:  _cliffTime,
				EndTime:    _endTime,
			})
		},
	}

	_enableCategoryCmd = &cobra.Command{
		Use:   "enable-category",
		Short: "Enable, or with --disable disable, activations into a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := vesting.ParseCategory(_categoryStr)
			if err != nil {
				return err
			}
			return run("", &action.SetCategoryEnabled{Category: uint8(category), Enabled: !_disable})
		},
	}

	_freezeCmd = &cobra.Command{
		Use:   "freeze",
		Short: "Permanently lock the category templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("", &action.FreezeCategoryConfig{})
		},
	}
)

func init() {
	_activateCmd.Flags().StringVarP(&_signatureHex, "signature", "s", "", "hex encoded activation signature")
	_ = _activateCmd.MarkFlagRequired("signature")
	accountFlag(_activateForCmd, &_accountStr)
	accountFlag(_claimForCmd, &_accountStr)

	for _, c := range []*cobra.Command{_setTemplateCmd, _enableCategoryCmd} {
		c.Flags().StringVar(&_categoryStr, "category", "", "category name")
		_ = c.MarkFlagRequired("category")
	}
	_setTemplateCmd.Flags().Uint8Var(&_index, "index", 0, "template index, 0 has the highest priority")
	_setTemplateCmd.Flags().StringVar(&_percent, "percent", "", "decimal percentage of the allocation")
	_setTemplateCmd.Flags().Uint64Var(&_startTime, "start", 0, "unix time the linear release starts")
	_setTemplateCmd.Flags().Uint64Var(&_cliffTime, "cliff", 0, "unix time before which nothing is released")
	_setTemplateCmd.Flags().Uint64Var(&_endTime, "end", 0, "unix time the release completes")
	_ = _setTemplateCmd.MarkFlagRequired("percent")
	_enableCategoryCmd.Flags().BoolVar(&_disable, "disable", false, "disable the category instead")
}

// run executes act as the --caller, falling back to the genesis owner, or to fallback when given
func run(fallback string, act action.Action) error {
	return withService(func(ctx context.Context, cfg config.Config, cs *chainservice.ChainService) error {
		if fallback == "" {
			fallback = cfg.Genesis.OwnerAddrStr
		}
		return execute(ctx, cs, fallback, act)
	})
}
