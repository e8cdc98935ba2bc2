// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"bytes"
	"context"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/pkg/log"
)

// ZeroAddress is the address of 20 zero bytes, used as the counterparty of mint and burn
var ZeroAddress address.Address

func init() {
	addr, err := address.FromString(address.ZeroAddress)
	if err != nil {
		log.L().Panic("Error when decoding zero address", zap.Error(err))
	}
	ZeroAddress = addr
}

// IsZeroAddress returns true for a nil or all-zero address
func IsZeroAddress(addr address.Address) bool {
	return addr == nil || bytes.Equal(addr.Bytes(), ZeroAddress.Bytes())
}

// AddressEqual compares two addresses by bytes
func AddressEqual(a, b address.Address) bool {
	if a == nil || b == nil {
		return a == b
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// HashToAddress derives a deterministic address from a protocol or custody name
func HashToAddress(name string) address.Address {
	h := hash.Hash160b([]byte(name))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		log.L().Panic("Error when constructing the address of protocol", zap.Error(err))
	}
	return addr
}

// NewEventLog builds a log stamped with the current block and action
func NewEventLog(ctx context.Context, addr address.Address, name string, payload interface{}) (*action.Log, error) {
	data, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode event %s", name)
	}
	blkCtx := MustGetBlockCtx(ctx)
	actCtx := MustGetActionCtx(ctx)
	return &action.Log{
		Address:     addr.String(),
		Topics:      []hash.Hash256{action.EventTopic(name)},
		Data:        data,
		BlockHeight: blkCtx.BlockHeight,
		ActionHash:  actCtx.ActionHash,
	}, nil
}

// AddressBytes returns the bytes of addr, nil for a nil address
func AddressBytes(addr address.Address) []byte {
	if addr == nil {
		return nil
	}
	return addr.Bytes()
}

// BytesToAddress converts stored bytes back to an address, nil for empty bytes
func BytesToAddress(b []byte) (address.Address, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return address.FromBytes(b)
}

// AddressString returns the encoded address, empty for a nil address
func AddressString(addr address.Address) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}
