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

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
)

// Transfer moves amount from the caller to to
func (p *Protocol) Transfer(ctx context.Context, sm protocol.StateManager, to address.Address, amount *big.Int) ([]*action.Log, error) {
	return p.ledger.Transfer(ctx, sm, protocol.MustGetActionCtx(ctx).Caller, to, amount)
}

// TransferFrom moves amount out of from's balance with the caller's allowance
func (p *Protocol) TransferFrom(ctx context.Context, sm protocol.StateManager, from, to address.Address, amount *big.Int) ([]*action.Log, error) {
	spender := protocol.MustGetActionCtx(ctx).Caller
	if err := p.gate.AssertNotBlacklisted(sm, spender); err != nil {
		return nil, err
	}
	return p.ledger.TransferFrom(ctx, sm, spender, from, to, amount)
}

// Approve sets the allowance of spender over the caller's balance
func (p *Protocol) Approve(ctx context.Context, sm protocol.StateManager, spender address.Address, amount *big.Int) ([]*action.Log, error) {
	owner := protocol.MustGetActionCtx(ctx).Caller
	if err := p.gate.AssertNotBlacklisted(sm, owner, spender); err != nil {
		return nil, err
	}
	return p.ledger.Approve(ctx, sm, owner, spender, amount)
}

// Delegate assigns the caller's voting weight to delegatee, a zero delegatee clears it
func (p *Protocol) Delegate(ctx context.Context, sm protocol.StateManager, delegatee address.Address) ([]*action.Log, error) {
	delegator := protocol.MustGetActionCtx(ctx).Caller
	if err := p.gate.AssertNotBlacklisted(sm, delegator, delegatee); err != nil {
		return nil, err
	}
	if !protocol.IsZeroAddress(delegatee) {
		restricted, err := p.gate.IsRestricted(sm, delegator)
		if err != nil {
			return nil, err
		}
		if restricted {
			return nil, errors.Wrapf(protocol.ErrRestricted, "%s is excluded from voting", delegator.String())
		}
	}
	return p.ledger.Delegate(ctx, sm, delegator, delegatee)
}

// Votes returns the voting power of account, capped to the max voting power
func (p *Protocol) Votes(sr protocol.StateReader, account address.Address) (*big.Int, error) {
	restricted, err := p.gate.IsRestricted(sr, account)
	if err != nil {
		return nil, err
	}
	if restricted {
		return big.NewInt(0), nil
	}
	votes, err := p.ledger.DelegatedVotes(sr, account)
	if err != nil {
		return nil, err
	}
	unclaimed, err := p.vest.UnclaimedBalance(sr, account)
	if err != nil {
		return nil, err
	}
	votes.Add(votes, unclaimed)
	delegated, err := p.ledger.HasDelegated(sr, account)
	if err != nil {
		return nil, err
	}
	if !delegated {
		balance, err := p.ledger.BalanceOf(sr, account)
		if err != nil {
			return nil, err
		}
		votes.Add(votes, balance)
	}
	cfg, err := p.gate.Config(sr)
	if err != nil {
		return nil, err
	}
	if votes.Cmp(cfg.MaxVotingPower) > 0 {
		votes.Set(cfg.MaxVotingPower)
	}
	return votes, nil
}
