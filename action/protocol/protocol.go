// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/iotexproject/iotex-vesting/action"
)

// Protocol defines the protocol interfaces atop the state of the migration
type Protocol interface {
	Name() string
	Handle(context.Context, action.Action, StateManager) (*action.Receipt, error)
}
