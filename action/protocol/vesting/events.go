// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vesting

import "math/big"

// event names
const (
	TemplateSetEvent          = "TemplateSet"
	CategoryEnabledEvent      = "CategoryEnabled"
	CategoryConfigFrozenEvent = "CategoryConfigFrozen"
	VestActivatedEvent        = "VestActivated"
	ClaimedEvent              = "Claimed"
	RecordReallocatedEvent    = "RecordReallocated"
)

type (
	// TemplateSet is the payload of TemplateSet
	TemplateSet struct {
		Category   uint8
		Index      uint8
		Percentage uint64
		StartTime  uint64
		CliffTime  uint64
		EndTime    uint64
	}

	// CategoryEnabled is the payload of CategoryEnabled
	CategoryEnabled struct {
		Category uint8
		Enabled  bool
	}

	// ConfigFrozen is the payload of CategoryConfigFrozen
	ConfigFrozen struct {
		Account string
	}

	// VestActivated is the payload of VestActivated
	VestActivated struct {
		Account  string
		Category uint8
		Amount   *big.Int
	}

	// Claimed is the payload of Claimed
	Claimed struct {
		Account string
		Amount  *big.Int
	}

	// RecordReallocated is the payload of RecordReallocated
	RecordReallocated struct {
		From       string
		To         string
		Allocation *big.Int
		Claimed    *big.Int
	}
)
