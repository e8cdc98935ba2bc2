// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package migration

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

const (
	AccountActivatedEvent = "AccountActivated"
	ReallocatedEvent      = "Reallocated"
	TokensRescuedEvent    = "TokensRescued"
)

type (
	// Activated is the payload of AccountActivated. Bypassed is true when no vesting record was created.
	Activated struct {
		Account    string
		Category   uint8
		Allocation *big.Int
		Claimed    *big.Int
		Bypassed   bool
	}

	// Reallocated is the payload of Reallocated.
	// LegacyMigrated is true iff the registry record of From moved to To, together with
	// the vesting record when From was activated.
	Reallocated struct {
		From           string
		To             string
		Value          *big.Int
		LegacyMigrated bool
	}

	// Rescued is the payload of TokensRescued
	Rescued struct {
		To     string
		Token  string
		Amount *big.Int
	}

	schemaState struct {
		Version uint32
	}
)

func (s *schemaState) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

func (s *schemaState) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, s)
}
