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
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/crypto"
	"github.com/iotexproject/iotex-vesting/pkg/log"
)

// ActivateAccount activates the caller with a signature of the authorized signer over its activation digest
func (p *Protocol) ActivateAccount(ctx context.Context, sm protocol.StateManager, signature []byte) ([]*action.Log, error) {
	caller := protocol.MustGetActionCtx(ctx).Caller
	roles, err := p.gate.Roles(sm)
	if err != nil {
		return nil, err
	}
	if roles.Signer == nil {
		return nil, errors.Wrap(protocol.ErrInvalidSignature, "no authorized signer")
	}
	signer, err := p.verifier.Recover(crypto.ActivationDigest(p.domain, caller), signature)
	if err != nil {
		log.L().Warn("Failed to recover activation signer.", zap.String("account", caller.String()), zap.Error(err))
		return nil, errors.Wrap(protocol.ErrInvalidSignature, err.Error())
	}
	if !protocol.AddressEqual(signer, roles.Signer) {
		return nil, errors.Wrapf(protocol.ErrInvalidSignature, "signed by %s", signer.String())
	}
	return p.activate(ctx, sm, caller)
}

// ActivateAccountFor activates a legacy user on the owner's authority
func (p *Protocol) ActivateAccountFor(ctx context.Context, sm protocol.StateManager, user address.Address) ([]*action.Log, error) {
	if err := p.gate.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(user) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "user is zero address")
	}
	return p.activate(ctx, sm, user)
}

// activate flips the registry record, moves the allocation into vesting custody and claims what is already unlocked
func (p *Protocol) activate(ctx context.Context, sm protocol.StateManager, user address.Address) ([]*action.Log, error) {
	if err := p.gate.AssertNotPaused(sm); err != nil {
		return nil, err
	}
	if err := p.gate.AssertNotBlacklisted(sm, user); err != nil {
		return nil, err
	}
	logs, err := p.registry.Activate(ctx, sm, user)
	if err != nil {
		return nil, err
	}
	category, err := p.registry.Category(sm, user)
	if err != nil {
		return nil, err
	}
	allocation, err := p.registry.Allocation(sm, user)
	if err != nil {
		return nil, err
	}

	claimed := big.NewInt(0)
	bypassed := category == vesting.CategoryNone || allocation.Sign() == 0
	if !bypassed {
		vestLogs, err := p.moveIntoVesting(ctx, sm, user, category, allocation)
		if err != nil {
			return nil, err
		}
		logs = append(logs, vestLogs...)
		amount, claimLogs, err := p.vest.Claim(p.custodyCtx(ctx), sm, user)
		switch errors.Cause(err) {
		case nil:
			claimed = amount
			logs = append(logs, claimLogs...)
		case protocol.ErrNothingToClaim:
		default:
			return nil, err
		}
	}
	l, err := p.emit(ctx, AccountActivatedEvent, &Activated{
		Account:    user.String(),
		Category:   uint8(category),
		Allocation: allocation,
		Claimed:    claimed,
		Bypassed:   bypassed,
	})
	if err != nil {
		return nil, err
	}
	_migrationMtc.WithLabelValues("activation").Inc()
	log.L().Debug("Account activated.",
		zap.String("account", user.String()),
		zap.Stringer("category", category),
		zap.String("allocation", allocation.String()),
		zap.String("claimed", claimed.String()),
	)
	return append(logs, l...), nil
}

// moveIntoVesting grants custody exactly the allocation and lets the vesting engine pull it
func (p *Protocol) moveIntoVesting(ctx context.Context, sm protocol.StateManager, user address.Address, category vesting.Category, allocation *big.Int) ([]*action.Log, error) {
	custody := p.vest.Custody()
	logs, err := p.ledger.Approve(ctx, sm, user, custody, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	l, err := p.ledger.Approve(ctx, sm, user, custody, allocation)
	if err != nil {
		return nil, err
	}
	logs = append(logs, l...)
	l, err = p.vest.ActivateVest(p.custodyCtx(ctx), sm, user, category, allocation)
	if err != nil {
		return nil, err
	}
	logs = append(logs, l...)
	residual, err := p.ledger.Allowance(sm, user, custody)
	if err != nil {
		return nil, err
	}
	if residual.Sign() != 0 {
		return nil, errors.Errorf("residual allowance %s of %s after activation", residual, user.String())
	}
	return logs, nil
}

// Claim pays out the claimable amount of an activated legacy user
func (p *Protocol) Claim(ctx context.Context, sm protocol.StateManager, user address.Address) (*big.Int, []*action.Log, error) {
	activated, err := p.registry.IsLegacyUserAndActivated(sm, user)
	if err != nil {
		return nil, nil, err
	}
	if !activated {
		return nil, nil, errors.Wrapf(protocol.ErrNotInitialized, "%s is not an activated legacy user", user.String())
	}
	amount, logs, err := p.vest.Claim(p.custodyCtx(ctx), sm, user)
	if err != nil {
		return nil, nil, err
	}
	_migrationMtc.WithLabelValues("claim").Inc()
	return amount, logs, nil
}

// ClaimFor pays out the claimable amount of user on the owner's authority
func (p *Protocol) ClaimFor(ctx context.Context, sm protocol.StateManager, user address.Address) (*big.Int, []*action.Log, error) {
	if err := p.gate.AssertOwner(ctx, sm); err != nil {
		return nil, nil, err
	}
	return p.Claim(ctx, sm, user)
}
