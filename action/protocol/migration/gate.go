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

	"github.com/iotexproject/iotex-vesting/action/protocol"
)

// pauseHook blocks every balance movement, mint and burn included, while paused
func (p *Protocol) pauseHook(_ context.Context, sr protocol.StateReader, _, _ address.Address, _ *big.Int) error {
	return p.gate.AssertNotPaused(sr)
}

// restrictionHook gates transfers between accounts. Mint and burn are exempt.
func (p *Protocol) restrictionHook(ctx context.Context, sr protocol.StateReader, from, to address.Address, _ *big.Int) error {
	if protocol.IsZeroAddress(from) || protocol.IsZeroAddress(to) {
		return nil
	}
	if protocol.AddressEqual(to, p.ledger.Address()) {
		return errors.Wrap(protocol.ErrRestricted, "cannot transfer to the token address")
	}
	if err := p.gate.AssertNotBlacklisted(sr, from, to); err != nil {
		return err
	}
	cfg, err := p.gate.Config(sr)
	if err != nil {
		return err
	}
	if protocol.MustGetBlockCtx(ctx).Now() < cfg.TradingStartTime {
		return p.assertPreTrading(ctx, sr, from, to)
	}
	for _, addr := range []address.Address{from, to} {
		pending, err := p.registry.IsLegacyUserAndNotActivated(sr, addr)
		if err != nil {
			return err
		}
		if pending {
			return errors.Wrapf(protocol.ErrRestricted, "legacy user %s is not activated", addr.String())
		}
	}
	return nil
}

func (p *Protocol) assertPreTrading(ctx context.Context, sr protocol.StateReader, from, to address.Address) error {
	caller := protocol.MustGetActionCtx(ctx).Caller
	custody := p.vest.Custody()
	if protocol.AddressEqual(caller, custody) {
		return nil
	}
	if protocol.AddressEqual(from, custody) && protocol.AddressEqual(to, custody) {
		return nil
	}
	isOwner, err := p.gate.IsOwner(sr, caller)
	if err != nil {
		return err
	}
	if isOwner {
		return nil
	}
	f, err := p.gate.Flags(sr, from)
	if err != nil {
		return err
	}
	if f.AllowListed {
		return nil
	}
	return errors.Wrapf(protocol.ErrRestricted, "trading has not started for %s", from.String())
}
