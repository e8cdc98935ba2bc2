// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package token

import (
	"context"
	"math/big"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/pkg/log"
	"github.com/iotexproject/iotex-vesting/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "token"

	_protocolNamespace = "Token"
)

var (
	_balanceKey   = []byte("bal")
	_allowanceKey = []byte("alw")
	_delegateKey  = []byte("dlg")
	_votesKey     = []byte("vot")
	_supplyKey    = []byte("sup")

	// ErrInsufficientBalance is returned when the sender cannot cover the amount
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance is returned when the spender's allowance cannot cover the amount
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

type (
	// TransferHook checks a balance movement before any vote or balance is touched.
	// from is the zero address for a mint, to is the zero address for a burn.
	TransferHook func(ctx context.Context, sr protocol.StateReader, from, to address.Address, amount *big.Int) error

	// Alloc is an initial balance
	Alloc struct {
		Account address.Address
		Amount  *big.Int
	}

	// Protocol is the fungible-token ledger with vote delegation
	Protocol struct {
		addr  address.Address
		hooks []TransferHook
	}
)

// NewProtocol instantiates the token ledger
func NewProtocol() *Protocol {
	return &Protocol{
		addr: protocol.HashToAddress(ProtocolID),
	}
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Address returns the address of the token itself
func (p *Protocol) Address() address.Address {
	return p.addr
}

// AddHooks appends checks run in order ahead of every balance movement
func (p *Protocol) AddHooks(hooks ...TransferHook) {
	p.hooks = append(p.hooks, hooks...)
}

// CreateGenesisStates mints the initial balances without running the hooks
func (p *Protocol) CreateGenesisStates(ctx context.Context, sm protocol.StateManager, allocs []Alloc) error {
	for _, alloc := range allocs {
		if protocol.IsZeroAddress(alloc.Account) || alloc.Amount == nil || alloc.Amount.Sign() < 0 {
			return errors.Wrap(protocol.ErrInvalidParameter, "invalid genesis balance")
		}
		delegatee, err := p.delegateOf(sm, alloc.Account)
		if err != nil {
			return err
		}
		if _, err := p.moveVotingPower(ctx, sm, nil, delegatee, alloc.Amount, false); err != nil {
			return err
		}
		if err := p.moveBalance(sm, protocol.ZeroAddress, alloc.Account, alloc.Amount); err != nil {
			return err
		}
	}
	return nil
}

// BalanceOf returns the balance of an account
func (p *Protocol) BalanceOf(sr protocol.StateReader, addr address.Address) (*big.Int, error) {
	return p.amount(sr, accountKey(_balanceKey, addr))
}

// TotalSupply returns the total minted minus burnt amount
func (p *Protocol) TotalSupply(sr protocol.StateReader) (*big.Int, error) {
	return p.amount(sr, _supplyKey)
}

// Allowance returns the amount spender may move out of owner's balance
func (p *Protocol) Allowance(sr protocol.StateReader, owner, spender address.Address) (*big.Int, error) {
	return p.amount(sr, allowanceKey(owner, spender))
}

// Delegates returns the delegatee of an account, nil if it never delegated
func (p *Protocol) Delegates(sr protocol.StateReader, addr address.Address) (address.Address, error) {
	var d delegateState
	if err := p.state(sr, accountKey(_delegateKey, addr), &d); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return nil, nil
		}
		return nil, err
	}
	return protocol.BytesToAddress(d.Delegatee)
}

// HasDelegated returns true if the account currently delegates its voting weight
func (p *Protocol) HasDelegated(sr protocol.StateReader, addr address.Address) (bool, error) {
	delegatee, err := p.Delegates(sr, addr)
	return delegatee != nil, err
}

// DelegatedVotes returns the sum of the balances delegated to an account
func (p *Protocol) DelegatedVotes(sr protocol.StateReader, addr address.Address) (*big.Int, error) {
	return p.amount(sr, accountKey(_votesKey, addr))
}

// Transfer moves amount from one account to another
func (p *Protocol) Transfer(ctx context.Context, sm protocol.StateManager, from, to address.Address, amount *big.Int) ([]*action.Log, error) {
	if protocol.IsZeroAddress(from) || protocol.IsZeroAddress(to) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "transfer from or to zero address")
	}
	return p.update(ctx, sm, from, to, amount)
}

// TransferFrom moves amount out of owner's balance, spending the allowance of spender
func (p *Protocol) TransferFrom(ctx context.Context, sm protocol.StateManager, spender, from, to address.Address, amount *big.Int) ([]*action.Log, error) {
	if protocol.IsZeroAddress(from) || protocol.IsZeroAddress(to) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "transfer from or to zero address")
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	key := allowanceKey(from, spender)
	allowance, err := p.amount(sm, key)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(amount) < 0 {
		return nil, errors.Wrapf(ErrInsufficientAllowance, "allowance %s, amount %s", allowance, amount)
	}
	if err := p.putAmount(sm, key, allowance.Sub(allowance, amount)); err != nil {
		return nil, err
	}
	return p.update(ctx, sm, from, to, amount)
}

// Approve sets the allowance of spender over owner's balance
func (p *Protocol) Approve(ctx context.Context, sm protocol.StateManager, owner, spender address.Address, amount *big.Int) ([]*action.Log, error) {
	if protocol.IsZeroAddress(owner) || protocol.IsZeroAddress(spender) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "approve from or to zero address")
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if err := p.putAmount(sm, allowanceKey(owner, spender), amount); err != nil {
		return nil, err
	}
	l, err := protocol.NewEventLog(ctx, p.addr, ApprovalEvent, &Approved{
		Owner:   owner.String(),
		Spender: spender.String(),
		Amount:  amount,
	})
	if err != nil {
		return nil, err
	}
	return []*action.Log{l}, nil
}

// Mint creates amount in the balance of to
func (p *Protocol) Mint(ctx context.Context, sm protocol.StateManager, to address.Address, amount *big.Int) ([]*action.Log, error) {
	if protocol.IsZeroAddress(to) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "mint to zero address")
	}
	return p.update(ctx, sm, protocol.ZeroAddress, to, amount)
}

// Burn destroys amount from the balance of from
func (p *Protocol) Burn(ctx context.Context, sm protocol.StateManager, from address.Address, amount *big.Int) ([]*action.Log, error) {
	if protocol.IsZeroAddress(from) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "burn from zero address")
	}
	return p.update(ctx, sm, from, protocol.ZeroAddress, amount)
}

// Delegate assigns the voting weight of delegator's balance to delegatee, a zero delegatee clears it
func (p *Protocol) Delegate(ctx context.Context, sm protocol.StateManager, delegator, delegatee address.Address) ([]*action.Log, error) {
	if protocol.IsZeroAddress(delegator) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "delegator is zero address")
	}
	prev, err := p.Delegates(sm, delegator)
	if err != nil {
		return nil, err
	}
	if protocol.IsZeroAddress(delegatee) {
		delegatee = nil
	}
	if delegatee == nil {
		err = p.deleteState(sm, accountKey(_delegateKey, delegator))
	} else {
		err = p.putState(sm, accountKey(_delegateKey, delegator), &delegateState{Delegatee: delegatee.Bytes()})
	}
	if err != nil {
		return nil, err
	}
	l, err := protocol.NewEventLog(ctx, p.addr, DelegateChangedEvent, &DelegateChanged{
		Delegator: delegator.String(),
		From:      protocol.AddressString(prev),
		To:        protocol.AddressString(delegatee),
	})
	if err != nil {
		return nil, err
	}
	balance, err := p.BalanceOf(sm, delegator)
	if err != nil {
		return nil, err
	}
	logs, err := p.moveVotingPower(ctx, sm, prev, delegatee, balance, true)
	if err != nil {
		return nil, err
	}
	return append([]*action.Log{l}, logs...), nil
}

// ResetDelegation clears the delegation of an account, a no-op if it never delegated
func (p *Protocol) ResetDelegation(ctx context.Context, sm protocol.StateManager, account address.Address) ([]*action.Log, error) {
	prev, err := p.Delegates(sm, account)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}
	log.L().Debug("Reset delegation.", zap.String("account", account.String()), zap.String("delegatee", prev.String()))
	return p.Delegate(ctx, sm, account, nil)
}

// update runs the hooks, then moves the voting weight, then the balance
func (p *Protocol) update(ctx context.Context, sm protocol.StateManager, from, to address.Address, amount *big.Int) ([]*action.Log, error) {
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if !protocol.IsZeroAddress(from) {
		balance, err := p.BalanceOf(sm, from)
		if err != nil {
			return nil, err
		}
		if balance.Cmp(amount) < 0 {
			return nil, errors.Wrapf(ErrInsufficientBalance, "balance of %s is %s, amount %s", from.String(), balance, amount)
		}
	}
	for _, hook := range p.hooks {
		if err := hook(ctx, sm, from, to, amount); err != nil {
			return nil, err
		}
	}
	fromDelegate, err := p.delegateOf(sm, from)
	if err != nil {
		return nil, err
	}
	toDelegate, err := p.delegateOf(sm, to)
	if err != nil {
		return nil, err
	}
	logs, err := p.moveVotingPower(ctx, sm, fromDelegate, toDelegate, amount, true)
	if err != nil {
		return nil, err
	}
	if err := p.moveBalance(sm, from, to, amount); err != nil {
		return nil, err
	}
	l, err := protocol.NewEventLog(ctx, p.addr, TransferEvent, &Transferred{
		From:   from.String(),
		To:     to.String(),
		Amount: amount,
	})
	if err != nil {
		return nil, err
	}
	return append(logs, l), nil
}

// delegateOf returns nil for the zero address, the counterparty of mint and burn
func (p *Protocol) delegateOf(sr protocol.StateReader, addr address.Address) (address.Address, error) {
	if protocol.IsZeroAddress(addr) {
		return nil, nil
	}
	return p.Delegates(sr, addr)
}

func (p *Protocol) moveVotingPower(ctx context.Context, sm protocol.StateManager, from, to address.Address, amount *big.Int, emit bool) ([]*action.Log, error) {
	if protocol.AddressEqual(from, to) || amount.Sign() == 0 {
		return nil, nil
	}
	var logs []*action.Log
	for _, move := range []struct {
		delegate address.Address
		delta    *big.Int
	}{
		{from, new(big.Int).Neg(amount)},
		{to, amount},
	} {
		if move.delegate == nil {
			continue
		}
		key := accountKey(_votesKey, move.delegate)
		prev, err := p.amount(sm, key)
		if err != nil {
			return nil, err
		}
		current := new(big.Int).Add(prev, move.delta)
		if current.Sign() < 0 {
			return nil, errors.Errorf("delegated votes of %s underflow", move.delegate.String())
		}
		if err := p.putAmount(sm, key, current); err != nil {
			return nil, err
		}
		if !emit {
			continue
		}
		l, err := protocol.NewEventLog(ctx, p.addr, DelegateVotesChangedEvent, &DelegateVotesChanged{
			Delegate: move.delegate.String(),
			Previous: prev,
			Current:  current,
		})
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func (p *Protocol) moveBalance(sm protocol.StateManager, from, to address.Address, amount *big.Int) error {
	supply, err := p.TotalSupply(sm)
	if err != nil {
		return err
	}
	if protocol.IsZeroAddress(from) {
		if err := p.putAmount(sm, _supplyKey, supply.Add(supply, amount)); err != nil {
			return err
		}
	} else {
		key := accountKey(_balanceKey, from)
		balance, err := p.amount(sm, key)
		if err != nil {
			return err
		}
		if balance.Cmp(amount) < 0 {
			return errors.Wrapf(ErrInsufficientBalance, "balance of %s is %s, amount %s", from.String(), balance, amount)
		}
		if err := p.putAmount(sm, key, balance.Sub(balance, amount)); err != nil {
			return err
		}
	}
	if protocol.IsZeroAddress(to) {
		supply, err = p.TotalSupply(sm)
		if err != nil {
			return err
		}
		return p.putAmount(sm, _supplyKey, supply.Sub(supply, amount))
	}
	key := accountKey(_balanceKey, to)
	balance, err := p.amount(sm, key)
	if err != nil {
		return err
	}
	return p.putAmount(sm, key, balance.Add(balance, amount))
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.Wrapf(protocol.ErrInvalidParameter, "invalid amount %v", amount)
	}
	return nil
}

func accountKey(prefix []byte, addr address.Address) []byte {
	k := make([]byte, 0, len(prefix)+20)
	k = append(k, prefix...)
	return append(k, addr.Bytes()...)
}

func allowanceKey(owner, spender address.Address) []byte {
	return append(accountKey(_allowanceKey, owner), spender.Bytes()...)
}

func (p *Protocol) amount(sr protocol.StateReader, key []byte) (*big.Int, error) {
	s := newAmountState()
	if err := p.state(sr, key, s); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return big.NewInt(0), nil
		}
		return nil, err
	}
	return s.Amount, nil
}

func (p *Protocol) putAmount(sm protocol.StateManager, key []byte, amount *big.Int) error {
	if amount.Sign() == 0 {
		return p.deleteState(sm, key)
	}
	return p.putState(sm, key, &amountState{Amount: amount})
}

func (p *Protocol) state(sr protocol.StateReader, key []byte, value interface{}) error {
	keyHash := hash.Hash160b(key)
	_, err := sr.State(value, protocol.NamespaceOption(_protocolNamespace), protocol.KeyOption(keyHash[:]))
	return err
}

func (p *Protocol) putState(sm protocol.StateManager, key []byte, value interface{}) error {
	keyHash := hash.Hash160b(key)
	_, err := sm.PutState(value, protocol.NamespaceOption(_protocolNamespace), protocol.KeyOption(keyHash[:]))
	return err
}

func (p *Protocol) deleteState(sm protocol.StateManager, key []byte) error {
	keyHash := hash.Hash160b(key)
	_, err := sm.DelState(protocol.NamespaceOption(_protocolNamespace), protocol.KeyOption(keyHash[:]))
	return err
}
