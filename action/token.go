// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
)

// names of the token actions
const (
	TransferName     = "transfer"
	TransferFromName = "transferFrom"
	ApproveName      = "approve"
	DelegateName     = "delegate"
)

type (
	// Transfer moves tokens from the caller
	Transfer struct {
		To     address.Address
		Amount *big.Int
	}

	// TransferFrom moves tokens from an owner using the caller's allowance
	TransferFrom struct {
		From   address.Address
		To     address.Address
		Amount *big.Int
	}

	// Approve sets the allowance of a spender over the caller's tokens
	Approve struct {
		Spender address.Address
		Amount  *big.Int
	}

	// Delegate assigns the caller's voting weight to a delegatee
	Delegate struct {
		Delegatee address.Address
	}
)

// Name returns the action name
func (*Transfer) Name() string { return TransferName }

// Name returns the action name
func (*TransferFrom) Name() string { return TransferFromName }

// Name returns the action name
func (*Approve) Name() string { return ApproveName }

// Name returns the action name
func (*Delegate) Name() string { return DelegateName }
