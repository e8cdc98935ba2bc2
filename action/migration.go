// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
)

// names of the migration actions
const (
	BulkInsertLegacyUsersName = "bulkInsertLegacyUsers"
	SetCategoryTemplateName   = "setCategoryTemplate"
	SetCategoryEnabledName    = "setCategoryEnabled"
	FreezeCategoryConfigName  = "freezeCategoryConfig"
	ActivateAccountName       = "activateAccount"
	ActivateAccountForName    = "activateAccountFor"
	ClaimName                 = "claim"
	ClaimForName              = "claimFor"
	ReallocateName            = "reallocateFrom"
)

type (
	// BulkInsertLegacyUsers registers a batch of legacy holders
	BulkInsertLegacyUsers struct {
		Nonce      uint64
		Users      []address.Address
		Amounts    []*big.Int
		Categories []uint8
	}

	// SetCategoryTemplate writes one vesting template of a category
	SetCategoryTemplate struct {
		Category   uint8
		Index      uint8
		Percentage uint64
		StartTime  uint64
		CliffTime  uint64
		EndTime    uint64
	}

	// SetCategoryEnabled toggles whether users can be activated into a category
	SetCategoryEnabled struct {
		Category uint8
		Enabled  bool
	}

	// FreezeCategoryConfig permanently locks the template configuration
	FreezeCategoryConfig struct{}

	// ActivateAccount is the self-service activation of the caller
	ActivateAccount struct {
		Signature []byte
	}

	// ActivateAccountFor is the owner activation of a legacy user
	ActivateAccountFor struct {
		Account address.Address
	}

	// Claim withdraws the caller's claimable amount
	Claim struct{}

	// ClaimFor withdraws the claimable amount of a user on its behalf
	ClaimFor struct {
		Account address.Address
	}

	// Reallocate moves balance and records of a lost or malicious wallet
	Reallocate struct {
		From   address.Address
		To     address.Address
		Amount *big.Int
	}
)

// Name returns the action name
func (*BulkInsertLegacyUsers) Name() string { return BulkInsertLegacyUsersName }

// Name returns the action name
func (*SetCategoryTemplate) Name() string { return SetCategoryTemplateName }

// Name returns the action name
func (*SetCategoryEnabled) Name() string { return SetCategoryEnabledName }

// Name returns the action name
func (*FreezeCategoryConfig) Name() string { return FreezeCategoryConfigName }

// Name returns the action name
func (*ActivateAccount) Name() string { return ActivateAccountName }

// Name returns the action name
func (*ActivateAccountFor) Name() string { return ActivateAccountForName }

// Name returns the action name
func (*Claim) Name() string { return ClaimName }

// Name returns the action name
func (*ClaimFor) Name() string { return ClaimForName }

// Name returns the action name
func (*Reallocate) Name() string { return ReallocateName }
