// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/chainservice"
	"github.com/iotexproject/iotex-vesting/config"
	vcrypto "github.com/iotexproject/iotex-vesting/crypto"
)

var (
	_privateKeyHex string

	_statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the global configuration and the migration status of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := address.FromString(_accountStr)
			if err != nil {
				return err
			}
			return withService(func(_ context.Context, _ config.Config, cs *chainservice.ChainService) error {
				gc, err := cs.GlobalConfig()
				if err != nil {
					return err
				}
				s, err := cs.Status(account)
				if err != nil {
					return err
				}
				signer := "-"
				if gc.AuthorizedSigner != nil {
					signer = gc.AuthorizedSigner.String()
				}
				tb := table.New("TradingStart", "MaxVotingPower", "Signer", "Nonce", "Paused")
				tb.AddRow(gc.TradingStartTime, gc.MaxVotingPower, signer, gc.RegistrationNonce, gc.Paused)
				tb.Print()
				fmt.Println()

				tb = table.New("Account", "Balance", "Votes", "Claimable", "Legacy", "Category", "Allocation", "Claimed")
				legacyStatus, category := "no", vesting.CategoryNone
				if s.Legacy != nil {
					legacyStatus, category = "pending", vesting.Category(s.Legacy.Category)
					if s.Legacy.IsActivated {
						legacyStatus = "activated"
					}
				}
				if s.Vest.Initialized {
					category = vesting.Category(s.Vest.Category)
				}
				tb.AddRow(account.String(), s.Balance, s.Votes, s.Claimable, legacyStatus, category, s.Vest.Allocation, s.Vest.Claimed)
				tb.Print()
				return nil
			})
		},
	}

	_digestCmd = &cobra.Command{
		Use:   "digest",
		Short: "Print the activation digest the authorized signer signs for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := address.FromString(_accountStr)
			if err != nil {
				return err
			}
			return withService(func(_ context.Context, _ config.Config, cs *chainservice.ChainService) error {
				fmt.Println(hex.EncodeToString(vcrypto.ActivationDigest(cs.Orchestrator().Domain(), account)))
				return nil
			})
		},
	}

	_signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign the activation digest of an account with the authorized signer key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := address.FromString(_accountStr)
			if err != nil {
				return err
			}
			sk, err := crypto.HexStringToPrivateKey(_privateKeyHex)
			if err != nil {
				return errors.Wrap(err, "invalid private key")
			}
			return withService(func(_ context.Context, _ config.Config, cs *chainservice.ChainService) error {
				sig, err := vcrypto.SignActivation(sk, cs.Orchestrator().Domain(), account)
				if err != nil {
					return err
				}
				fmt.Println(hex.EncodeToString(sig))
				return nil
			})
		},
	}
)

func init() {
	accountFlag(_statusCmd, &_accountStr)
	accountFlag(_digestCmd, &_accountStr)
	accountFlag(_signCmd, &_accountStr)
	_signCmd.Flags().StringVar(&_privateKeyHex, "private-key", "", "hex encoded private key of the authorized signer")
	_ = _signCmd.MarkFlagRequired("private-key")
}
