// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package legacy

import "math/big"

// event names
const (
	LegacyUserRegisteredEvent    = "LegacyUserRegistered"
	NonceUpdatedEvent            = "NonceUpdated"
	LegacyUserActivatedEvent     = "LegacyUserActivated"
	LegacyRecordReallocatedEvent = "LegacyRecordReallocated"
)

type (
	// UserRecorded is the payload of LegacyUserRegistered and LegacyUserActivated
	UserRecorded struct {
		Account  string
		Amount   *big.Int
		Category uint8
	}

	// NonceUpdated is the payload of NonceUpdated
	NonceUpdated struct {
		Previous uint64
		Current  uint64
	}

	// RecordReallocated is the payload of LegacyRecordReallocated
	RecordReallocated struct {
		From        string
		To          string
		Amount      *big.Int
		Category    uint8
		IsActivated bool
	}
)
