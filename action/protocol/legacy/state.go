// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package legacy

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

type (
	// Record is the registration of a legacy holder
	Record struct {
		Amount      *big.Int
		Category    uint8
		IsActivated bool
	}

	nonceState struct {
		Nonce uint64
	}
)

// Serialize serializes the record into bytes
func (r *Record) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// Deserialize deserializes bytes into the record
func (r *Record) Deserialize(data []byte) error {
	if err := rlp.DecodeBytes(data, r); err != nil {
		return err
	}
	if r.Amount == nil {
		r.Amount = big.NewInt(0)
	}
	return nil
}

// Serialize serializes the nonce into bytes
func (n *nonceState) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(n)
}

// Deserialize deserializes bytes into the nonce
func (n *nonceState) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, n)
}
