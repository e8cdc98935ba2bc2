// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package access

import "math/big"

// event names
const (
	SignerChangedEvent            = "SignerChanged"
	GuardianChangedEvent          = "GuardianChanged"
	OperatorChangedEvent          = "OperatorChanged"
	MaxVotingPowerChangedEvent    = "MaxVotingPowerChanged"
	TradingStartTimeChangedEvent  = "TradingStartTimeChanged"
	AllowListChangedEvent         = "AllowListChanged"
	VotingExclusionChangedEvent   = "VotingExclusionChanged"
	BlacklistChangedEvent         = "BlacklistChanged"
	PausedEvent                   = "Paused"
	UnpausedEvent                 = "Unpaused"
	OwnershipTransferStartedEvent = "OwnershipTransferStarted"
	OwnershipTransferredEvent     = "OwnershipTransferred"
)

type (
	// AddressChanged is the payload of role replacements
	AddressChanged struct {
		Previous string
		Current  string
	}

	// FlagChanged is the payload of per-account flag toggles
	FlagChanged struct {
		Account string
		Value   bool
	}

	// AmountChanged is the payload of MaxVotingPowerChanged
	AmountChanged struct {
		Previous *big.Int
		Current  *big.Int
	}

	// TimeChanged is the payload of TradingStartTimeChanged
	TimeChanged struct {
		Previous uint64
		Current  uint64
	}

	// PauseToggled is the payload of Paused and Unpaused
	PauseToggled struct {
		Account string
	}
)
