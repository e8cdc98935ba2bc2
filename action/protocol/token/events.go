// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package token

import "math/big"

// event names
const (
	TransferEvent             = "Transfer"
	ApprovalEvent             = "Approval"
	DelegateChangedEvent      = "DelegateChanged"
	DelegateVotesChangedEvent = "DelegateVotesChanged"
)

type (
	// Transferred is the payload of Transfer, the zero address marks mint and burn
	Transferred struct {
		From   string
		To     string
		Amount *big.Int
	}

	// Approved is the payload of Approval
	Approved struct {
		Owner   string
		Spender string
		Amount  *big.Int
	}

	// DelegateChanged is the payload of DelegateChanged, an empty delegate means none
	DelegateChanged struct {
		Delegator string
		From      string
		To        string
	}

	// DelegateVotesChanged is the payload of DelegateVotesChanged
	DelegateVotesChanged struct {
		Delegate string
		Previous *big.Int
		Current  *big.Int
	}
)
