// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
)

// names of the administrative actions
const (
	SetAuthorizedSignerName    = "setAuthorizedSigner"
	SetGuardianName            = "setGuardian"
	SetOperatorName            = "setOperator"
	SetMaxVotingPowerName      = "setMaxVotingPower"
	SetTradingStartTimeName    = "setTradingStartTime"
	SetPreTradingAllowListName = "setPreTradingAllowList"
	SetVotingExcludedName      = "setVotingExcluded"
	SetBlacklistedName         = "setBlacklisted"
	PauseName                  = "pause"
	UnpauseName                = "unpause"
	TransferOwnershipName      = "transferOwnership"
	AcceptOwnershipName        = "acceptOwnership"
	RenounceOwnershipName      = "renounceOwnership"
	RescueTokensName           = "rescueTokens"
)

type (
	// SetAuthorizedSigner replaces the signer of self-service activations
	SetAuthorizedSigner struct {
		Signer address.Address
	}

	// SetGuardian adds or removes a guardian
	SetGuardian struct {
		Guardian address.Address
		Enabled  bool
	}

	// SetOperator replaces the bulk-insert operator
	SetOperator struct {
		Operator address.Address
	}

	// SetMaxVotingPower sets the cap of any account's votes
	SetMaxVotingPower struct {
		Amount *big.Int
	}

	// SetTradingStartTime sets the unix time trading opens
	SetTradingStartTime struct {
		Time uint64
	}

	// SetPreTradingAllowList adds or removes a pre-trading sender
	SetPreTradingAllowList struct {
		Account address.Address
		Allowed bool
	}

	// SetVotingExcluded toggles the voting exclusion of an account
	SetVotingExcluded struct {
		Account  address.Address
		Excluded bool
	}

	// SetBlacklisted toggles the blacklist flag of an account
	SetBlacklisted struct {
		Account     address.Address
		Blacklisted bool
	}

	// Pause stops claims and balance movements
	Pause struct{}

	// Unpause resumes claims and balance movements
	Unpause struct{}

	// TransferOwnership starts a two-step ownership handoff
	TransferOwnership struct {
		NewOwner address.Address
	}

	// AcceptOwnership completes a pending ownership handoff
	AcceptOwnership struct{}

	// RenounceOwnership is always rejected
	RenounceOwnership struct{}

	// RescueTokens moves tokens held by the token address itself
	RescueTokens struct {
		To     address.Address
		Token  address.Address
		Amount *big.Int
	}
)

// Name returns the action name
func (*SetAuthorizedSigner) Name() string { return SetAuthorizedSignerName }

// Name returns the action name
func (*SetGuardian) Name() string { return SetGuardianName }

// Name returns the action name
func (*SetOperator) Name() string { return SetOperatorName }

// Name returns the action name
func (*SetMaxVotingPower) Name() string { return SetMaxVotingPowerName }

// Name returns the action name
func (*SetTradingStartTime) Name() string { return SetTradingStartTimeName }

// Name returns the action name
func (*SetPreTradingAllowList) Name() string { return SetPreTradingAllowListName }

// Name returns the action name
func (*SetVotingExcluded) Name() string { return SetVotingExcludedName }

// Name returns the action name
func (*SetBlacklisted) Name() string { return SetBlacklistedName }

// Name returns the action name
func (*Pause) Name() string { return PauseName }

// Name returns the action name
func (*Unpause) Name() string { return UnpauseName }

// Name returns the action name
func (*TransferOwnership) Name() string { return TransferOwnershipName }

// Name returns the action name
func (*AcceptOwnership) Name() string { return AcceptOwnershipName }

// Name returns the action name
func (*RenounceOwnership) Name() string { return RenounceOwnershipName }

// Name returns the action name
func (*RescueTokens) Name() string { return RescueTokensName }
