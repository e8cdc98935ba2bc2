// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package access

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

// SetAuthorizedSigner replaces the signer of self-service activations
func (p *Protocol) SetAuthorizedSigner(ctx context.Context, sm protocol.StateManager, signer address.Address) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(signer) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "signer is zero address")
	}
	r, err := p.Roles(sm)
	if err != nil {
		return nil, err
	}
	prev := r.Signer
	r.Signer = signer
	if err := p.putState(sm, _rolesKey, r); err != nil {
		return nil, err
	}
	return p.emit(ctx, SignerChangedEvent, &AddressChanged{
		Previous: protocol.AddressString(prev),
		Current:  signer.String(),
	})
}

// SetOperator replaces the bulk-insert operator
func (p *Protocol) SetOperator(ctx context.Context, sm protocol.StateManager, operator address.Address) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(operator) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "operator is zero address")
	}
	r, err := p.Roles(sm)
	if err != nil {
		return nil, err
	}
	prev := r.Operator
	r.Operator = operator
	if err := p.putState(sm, _rolesKey, r); err != nil {
		return nil, err
	}
	return p.emit(ctx, OperatorChangedEvent, &AddressChanged{
		Previous: protocol.AddressString(prev),
		Current:  operator.String(),
	})
}

// SetGuardian adds or removes a guardian
func (p *Protocol) SetGuardian(ctx context.Context, sm protocol.StateManager, guardian address.Address, enabled bool) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(guardian) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "guardian is zero address")
	}
	f, err := p.Flags(sm, guardian)
	if err != nil {
		return nil, err
	}
	f.Guardian = enabled
	if err := p.putFlags(sm, guardian, f); err != nil {
		return nil, err
	}
	return p.emit(ctx, GuardianChangedEvent, &FlagChanged{Account: guardian.String(), Value: enabled})
}

// SetMaxVotingPower sets the cap of any account's votes
func (p *Protocol) SetMaxVotingPower(ctx context.Context, sm protocol.StateManager, amount *big.Int) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 || amount.Cmp(MaxVotingPowerCeiling) > 0 {
		return nil, errors.Wrapf(protocol.ErrInvalidParameter, "max voting power %v out of range", amount)
	}
	c, err := p.Config(sm)
	if err != nil {
		return nil, err
	}
	prev := c.MaxVotingPower
	c.MaxVotingPower = new(big.Int).Set(amount)
	if err := p.putState(sm, _configKey, c); err != nil {
		return nil, err
	}
	return p.emit(ctx, MaxVotingPowerChangedEvent, &AmountChanged{Previous: prev, Current: amount})
}

// SetTradingStartTime sets the unix time trading opens
func (p *Protocol) SetTradingStartTime(ctx context.Context, sm protocol.StateManager, t uint64) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	c, err := p.Config(sm)
	if err != nil {
		return nil, err
	}
	prev := c.TradingStartTime
	c.TradingStartTime = t
	if err := p.putState(sm, _configKey, c); err != nil {
		return nil, err
	}
	return p.emit(ctx, TradingStartTimeChangedEvent, &TimeChanged{Previous: prev, Current: t})
}

// SetPreTradingAllowList adds or removes a sender allowed to move tokens before trading
func (p *Protocol) SetPreTradingAllowList(ctx context.Context, sm protocol.StateManager, account address.Address, allowed bool) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(account) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "account is zero address")
	}
	f, err := p.Flags(sm, account)
	if err != nil {
		return nil, err
	}
	f.AllowListed = allowed
	if err := p.putFlags(sm, account, f); err != nil {
		return nil, err
	}
	return p.emit(ctx, AllowListChangedEvent, &FlagChanged{Account: account.String(), Value: allowed})
}

// SetVotingExcluded toggles the voting exclusion of an account, clearing its delegation when excluded
func (p *Protocol) SetVotingExcluded(ctx context.Context, sm protocol.StateManager, account address.Address, excluded bool) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(account) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "account is zero address")
	}
	f, err := p.Flags(sm, account)
	if err != nil {
		return nil, err
	}
	var logs []*action.Log
	if excluded {
		if logs, err = p.resetDelegation(ctx, sm, account); err != nil {
			return nil, err
		}
	}
	f.VotingExcluded = excluded
	if err := p.putFlags(sm, account, f); err != nil {
		return nil, err
	}
	l, err := p.emit(ctx, VotingExclusionChangedEvent, &FlagChanged{Account: account.String(), Value: excluded})
	if err != nil {
		return nil, err
	}
	return append(logs, l...), nil
}

// SetBlacklisted toggles the blacklist flag of an account, clearing its delegation when blacklisted
func (p *Protocol) SetBlacklisted(ctx context.Context, sm protocol.StateManager, account address.Address, blacklisted bool) ([]*action.Log, error) {
	if err := p.AssertOwnerOrGuardian(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(account) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "account is zero address")
	}
	f, err := p.Flags(sm, account)
	if err != nil {
		return nil, err
	}
	var logs []*action.Log
	if blacklisted {
		if logs, err = p.resetDelegation(ctx, sm, account); err != nil {
			return nil, err
		}
	}
	f.Blacklisted = blacklisted
	if err := p.putFlags(sm, account, f); err != nil {
		return nil, err
	}
	l, err := p.emit(ctx, BlacklistChangedEvent, &FlagChanged{Account: account.String(), Value: blacklisted})
	if err != nil {
		return nil, err
	}
	return append(logs, l...), nil
}

// Pause closes the pause gate, by the owner or a guardian
func (p *Protocol) Pause(ctx context.Context, sm protocol.StateManager) ([]*action.Log, error) {
	if err := p.AssertOwnerOrGuardian(ctx, sm); err != nil {
		return nil, err
	}
	c, err := p.Config(sm)
	if err != nil {
		return nil, err
	}
	if c.Paused {
		return nil, protocol.ErrPaused
	}
	c.Paused = true
	if err := p.putState(sm, _configKey, c); err != nil {
		return nil, err
	}
	caller := protocol.MustGetActionCtx(ctx).Caller
	log.L().Info("Migration paused.", zap.String("by", caller.String()))
	return p.emit(ctx, PausedEvent, &PauseToggled{Account: caller.String()})
}

// Unpause opens the pause gate, by the owner only
func (p *Protocol) Unpause(ctx context.Context, sm protocol.StateManager) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	c, err := p.Config(sm)
	if err != nil {
		return nil, err
	}
	if !c.Paused {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "not paused")
	}
	c.Paused = false
	if err := p.putState(sm, _configKey, c); err != nil {
		return nil, err
	}
	caller := protocol.MustGetActionCtx(ctx).Caller
	log.L().Info("Migration unpaused.", zap.String("by", caller.String()))
	return p.emit(ctx, UnpausedEvent, &PauseToggled{Account: caller.String()})
}

// TransferOwnership records a pending owner, which takes over once it accepts
func (p *Protocol) TransferOwnership(ctx context.Context, sm protocol.StateManager, newOwner address.Address) ([]*action.Log, error) {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(newOwner) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "new owner is zero address")
	}
	r, err := p.Roles(sm)
	if err != nil {
		return nil, err
	}
	r.PendingOwner = newOwner
	if err := p.putState(sm, _rolesKey, r); err != nil {
		return nil, err
	}
	return p.emit(ctx, OwnershipTransferStartedEvent, &AddressChanged{
		Previous: r.Owner.String(),
		Current:  newOwner.String(),
	})
}

// AcceptOwnership completes the handoff, by the pending owner only
func (p *Protocol) AcceptOwnership(ctx context.Context, sm protocol.StateManager) ([]*action.Log, error) {
	caller := protocol.MustGetActionCtx(ctx).Caller
	r, err := p.Roles(sm)
	if err != nil {
		return nil, err
	}
	if r.PendingOwner == nil || !protocol.AddressEqual(r.PendingOwner, caller) {
		return nil, errors.Wrapf(protocol.ErrUnauthorized, "%s is not the pending owner", caller.String())
	}
	prev := r.Owner
	r.Owner, r.PendingOwner = caller, nil
	if err := p.putState(sm, _rolesKey, r); err != nil {
		return nil, err
	}
	log.L().Info("Ownership transferred.", zap.String("from", prev.String()), zap.String("to", caller.String()))
	return p.emit(ctx, OwnershipTransferredEvent, &AddressChanged{
		Previous: prev.String(),
		Current:  caller.String(),
	})
}

// RenounceOwnership is permanently disabled
func (p *Protocol) RenounceOwnership(ctx context.Context, sm protocol.StateManager) error {
	if err := p.AssertOwner(ctx, sm); err != nil {
		return err
	}
	return errors.Wrap(protocol.ErrUnauthorized, "renouncing ownership is disabled")
}

func (p *Protocol) resetDelegation(ctx context.Context, sm protocol.StateManager, account address.Address) ([]*action.Log, error) {
	if p.resetter == nil {
		return nil, nil
	}
	logs, err := p.resetter.ResetDelegation(ctx, sm, account)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reset delegation of %s", account.String())
	}
	return logs, nil
}

func (p *Protocol) emit(ctx context.Context, name string, payload interface{}) ([]*action.Log, error) {
	l, err := protocol.NewEventLog(ctx, p.addr, name, payload)
	if err != nil {
		return nil, err
	}
	log.L().Debug("Access gate updated.", zap.String("event", name))
	return []*action.Log{l}, nil
}
