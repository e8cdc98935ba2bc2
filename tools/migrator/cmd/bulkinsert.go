// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/chainservice"
	"github.com/iotexproject/iotex-vesting/config"
	"github.com/iotexproject/iotex-vesting/pkg/log"
)

var (
	_entriesFile string
	_batchSize   int

	_staleNonceRetryInterval = time.Second
	_staleNonceMaxRetries    = uint64(3)

	_bulkInsertCmd = &cobra.Command{
		Use:   "bulk-insert",
		Short: "Register the legacy holders of an entries file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := ReadEntries(_entriesFile)
			if err != nil {
				return err
			}
			batches, err := Batches(entries, _batchSize)
			if err != nil {
				return err
			}
			return withService(func(ctx context.Context, cfg config.Config, cs *chainservice.ChainService) error {
				fallback := cfg.Genesis.OperatorAddrStr
				if fallback == "" {
					fallback = cfg.Genesis.OwnerAddrStr
				}
				if _callerStr != "" {
					fallback = _callerStr
				}
				caller, err := address.FromString(fallback)
				if err != nil {
					return errors.Wrapf(err, "invalid caller %q", fallback)
				}
				return bulkInsert(ctx, cs, caller, batches)
			})
		},
	}
)

func init() {
	_bulkInsertCmd.Flags().StringVarP(&_entriesFile, "file", "f", "", "yaml or json file listing the legacy holders")
	_bulkInsertCmd.Flags().IntVar(&_batchSize, "batch-size", DefaultBatchSize, "users registered per action")
	_ = _bulkInsertCmd.MarkFlagRequired("file")
}

func bulkInsert(ctx context.Context, cs *chainservice.ChainService, caller address.Address, batches []*action.BulkInsertLegacyUsers) error {
	gc, err := cs.GlobalConfig()
	if err != nil {
		return err
	}
	nonce := gc.RegistrationNonce
	bar := progressbar.New(len(batches))
	for i, b := range batches {
		b.Nonce = nonce
		if err := insertBatch(ctx, cs, caller, b); err != nil {
			return errors.Wrapf(err, "batch %d", i)
		}
		nonce = b.Nonce + 1
		if err := bar.Add(1); err != nil {
			log.L().Debug("Failed to render progress.", zap.Error(err))
		}
	}
	fmt.Println()
	fmt.Printf("%d batches registered\n", len(batches))
	return nil
}

// insertBatch registers a batch at b.Nonce. A stale nonce means another operator registered
// in between; the nonce is re-read and the batch retried.
func insertBatch(ctx context.Context, cs *chainservice.ChainService, caller address.Address, b *action.BulkInsertLegacyUsers) error {
	return backoff.Retry(func() error {
		_, err := cs.Execute(ctx, caller, b)
		if err == nil {
			return nil
		}
		if errors.Cause(err) != protocol.ErrStaleNonce {
			return backoff.Permanent(err)
		}
		gc, rerr := cs.GlobalConfig()
		if rerr != nil {
			return backoff.Permanent(rerr)
		}
		log.L().Warn("Stale registration nonce, retrying.", zap.Uint64("nonce", b.Nonce), zap.Uint64("current", gc.RegistrationNonce))
		b.Nonce = gc.RegistrationNonce
		return err
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(_staleNonceRetryInterval), _staleNonceMaxRetries))
}
