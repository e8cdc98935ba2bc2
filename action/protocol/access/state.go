// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package access

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-vesting/action/protocol"
)

type (
	// Roles is the tagged role table with the pending half of a two-step ownership handoff
	Roles struct {
		Owner        address.Address
		PendingOwner address.Address
		Operator     address.Address
		Signer       address.Address
	}

	rolesState struct {
		Owner        []byte
		PendingOwner []byte
		Operator     []byte
		Signer       []byte
	}

	// Config is the owner-mutable configuration read by every gated operation
	Config struct {
		TradingStartTime uint64
		MaxVotingPower   *big.Int
		Paused           bool
	}

	// Flags are the independent per-account restrictions and privileges
	Flags struct {
		Blacklisted    bool
		Guardian       bool
		AllowListed    bool
		VotingExcluded bool
	}
)

// Serialize serializes the roles into bytes
func (r *Roles) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(&rolesState{
		Owner:        protocol.AddressBytes(r.Owner),
		PendingOwner: protocol.AddressBytes(r.PendingOwner),
		Operator:     protocol.AddressBytes(r.Operator),
		Signer:       protocol.AddressBytes(r.Signer),
	})
}

// Deserialize deserializes bytes into the roles
func (r *Roles) Deserialize(data []byte) error {
	var rs rolesState
	if err := rlp.DecodeBytes(data, &rs); err != nil {
		return errors.Wrap(err, "failed to decode roles")
	}
	var err error
	if r.Owner, err = protocol.BytesToAddress(rs.Owner); err != nil {
		return err
	}
	if r.PendingOwner, err = protocol.BytesToAddress(rs.PendingOwner); err != nil {
		return err
	}
	if r.Operator, err = protocol.BytesToAddress(rs.Operator); err != nil {
		return err
	}
	r.Signer, err = protocol.BytesToAddress(rs.Signer)
	return err
}

// Serialize serializes the config into bytes
func (c *Config) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

// Deserialize deserializes bytes into the config
func (c *Config) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, c)
}

// Serialize serializes the flags into bytes
func (f *Flags) Serialize() ([]byte, error) {
	return rlp.EncodeToBytes(f)
}

// Deserialize deserializes bytes into the flags
func (f *Flags) Deserialize(data []byte) error {
	return rlp.DecodeBytes(data, f)
}

// restricted returns true when votes and delegation must be withheld
func (f *Flags) restricted() bool {
	return f.Blacklisted || f.VotingExcluded
}

func (f *Flags) empty() bool {
	return !f.Blacklisted && !f.Guardian && !f.AllowListed && !f.VotingExcluded
}
