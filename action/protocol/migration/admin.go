// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package migration

import (
	"context"
	"math/big"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/pkg/log"
)

// ReallocateFrom moves value and the records of a lost or malicious wallet to a fresh one
func (p *Protocol) ReallocateFrom(ctx context.Context, sm protocol.StateManager, from, to address.Address, value *big.Int) ([]*action.Log, error) {
	if err := p.gate.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(from) || protocol.IsZeroAddress(to) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "reallocate from or to zero address")
	}
	if value == nil || value.Sign() < 0 {
		return nil, errors.Wrapf(protocol.ErrInvalidParameter, "invalid value %v", value)
	}
	if protocol.AddressEqual(from, to) {
		return nil, errors.Wrap(protocol.ErrInvalidReallocation, "reallocate to itself")
	}
	isLegacy, err := p.registry.IsLegacyUser(sm, to)
	if err != nil {
		return nil, err
	}
	if isLegacy {
		return nil, errors.Wrapf(protocol.ErrInvalidReallocation, "%s is a legacy user", to.String())
	}
	rec, err := p.registry.Record(sm, from)
	if err != nil {
		return nil, err
	}
	migrateVest := false
	if rec != nil && !rec.IsActivated {
		balance, err := p.ledger.BalanceOf(sm, from)
		if err != nil {
			return nil, err
		}
		if value.Cmp(balance) != 0 {
			return nil, errors.Wrapf(protocol.ErrInvalidReallocation, "unactivated legacy user must move its whole balance %s", balance)
		}
	}
	if rec != nil && rec.IsActivated {
		vestRec, err := p.vest.Record(sm, from)
		if err != nil {
			return nil, err
		}
		migrateVest = vestRec.Initialized
	}
	if migrateVest {
		dest, err := p.vest.Record(sm, to)
		if err != nil {
			return nil, err
		}
		if dest.Initialized {
			return nil, errors.Wrapf(protocol.ErrInvalidReallocation, "%s already vests", to.String())
		}
	}

	var logs []*action.Log
	if value.Sign() != 0 {
		if logs, err = p.ledger.Burn(ctx, sm, from, value); err != nil {
			return nil, err
		}
		l, err := p.ledger.Mint(ctx, sm, to, value)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l...)
	}
	if rec != nil {
		l, err := p.registry.ReallocateFrom(ctx, sm, from, to)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l...)
	}
	if migrateVest {
		l, err := p.vest.ReallocateRecord(ctx, sm, from, to)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l...)
	}
	l, err := p.emit(ctx, ReallocatedEvent, &Reallocated{
		From:           from.String(),
		To:             to.String(),
		Value:          value,
		LegacyMigrated: rec != nil,
	})
	if err != nil {
		return nil, err
	}
	_migrationMtc.WithLabelValues("reallocation").Inc()
	log.L().Info("Wallet reallocated.",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("value", value.String()),
		zap.Bool("legacyMigrated", rec != nil),
	)
	return append(logs, l...), nil
}

// RescueTokens sends tokens stuck at the token address to to, capped to what is there
func (p *Protocol) RescueTokens(ctx context.Context, sm protocol.StateManager, to, tokenAddr address.Address, amount *big.Int) ([]*action.Log, error) {
	if err := p.gate.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(to) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "rescue to zero address")
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrapf(protocol.ErrInvalidParameter, "invalid amount %v", amount)
	}
	if !protocol.AddressEqual(tokenAddr, p.ledger.Address()) {
		return nil, errors.Wrapf(protocol.ErrInvalidParameter, "unsupported token %s", protocol.AddressString(tokenAddr))
	}
	balance, err := p.ledger.BalanceOf(sm, tokenAddr)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(amount) < 0 {
		amount = balance
	}
	if amount.Sign() == 0 {
		return nil, nil
	}
	logs, err := p.ledger.Transfer(ctx, sm, tokenAddr, to, amount)
	if err != nil {
		return nil, err
	}
	l, err := p.emit(ctx, TokensRescuedEvent, &Rescued{
		To:     to.String(),
		Token:  tokenAddr.String(),
		Amount: amount,
	})
	if err != nil {
		return nil, err
	}
	return append(logs, l...), nil
}
