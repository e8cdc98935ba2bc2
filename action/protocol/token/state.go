// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

type (
	amountState struct {
		Amount *big.Int
	}

	delegateState struct {
		Delegatee []byte
	}
)

func newAmountState() *amountState {
	return &amountState{Amount: big.NewInt(0)}
}

// Serialize serializes the amount into bytes
func (s *amountState) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

// Deserialize deserializes bytes into the amount
func (s *amountState) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, s); err != nil {
		return err
	}
	if s.Amount == nil {
		s.Amount = big.NewInt(0)
	}
	return nil
}

// Serialize serializes the delegatee into bytes
func (s *delegateState) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(s)
}

// Deserialize deserializes bytes into the delegatee
func (s *delegateState) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, s)
}
