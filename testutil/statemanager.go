// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/db"
	"github.com/iotexproject/iotex-vesting/state/factory"
)

// NewWorkingSet returns a working set over an in-memory store
func NewWorkingSet(t *testing.T) *factory.WorkingSet {
	sf := factory.NewFactory(db.NewMemKVStore())
	require.NoError(t, sf.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, sf.Stop(context.Background()))
	})
	ws, err := sf.NewWorkingSet()
	require.NoError(t, err)
	return ws
}

// Context returns a context carrying the block time ts and the caller
func Context(ts int64, caller address.Address) context.Context {
	ctx := protocol.WithBlockCtx(context.Background(), protocol.BlockCtx{
		BlockHeight:    1,
		BlockTimeStamp: time.Unix(ts, 0),
	})
	return protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     caller,
		ActionHash: hash.Hash256b([]byte(caller.String())),
	})
}
