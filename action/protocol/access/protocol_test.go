// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package access

import (
	"math/big"
	"testing"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/action/protocol/token"
	"github.com/iotexproject/iotex-vesting/test/identityset"
	"github.com/iotexproject/iotex-vesting/testutil"
)

var (
	_owner    = identityset.Address(0)
	_operator = identityset.Address(1)
	_signer   = identityset.Address(2)
	_guardian = identityset.Address(3)
	_user     = identityset.Address(4)
	_stranger = identityset.Address(5)
)

func initGate(t *testing.T, resetter DelegationResetter) (*Protocol, protocol.StateManager) {
	ws := testutil.NewWorkingSet(t)
	p := NewProtocol(resetter)
	require.NoError(t, p.CreateGenesisStates(testutil.Context(0, _owner), ws, Genesis{
		Owner:            _owner,
		Operator:         _operator,
		Signer:           _signer,
		Guardians:        []address.Address{_guardian},
		TradingStartTime: 1000,
	}))
	return p, ws
}

func TestCreateGenesisStates(t *testing.T) {
	require := require.New(t)

	p, ws := initGate(t, nil)
	r, err := p.Roles(ws)
	require.NoError(err)
	require.Equal(_owner.String(), r.Owner.String())
	require.Equal(_operator.String(), r.Operator.String())
	require.Equal(_signer.String(), r.Signer.String())
	require.Nil(r.PendingOwner)
	c, err := p.Config(ws)
	require.NoError(err)
	require.Equal(uint64(1000), c.TradingStartTime)
	require.Equal(MaxVotingPowerCeiling.String(), c.MaxVotingPower.String())
	require.False(c.Paused)
	f, err := p.Flags(ws, _guardian)
	require.NoError(err)
	require.True(f.Guardian)

	err = p.CreateGenesisStates(testutil.Context(0, _owner), ws, Genesis{Owner: _owner})
	require.Equal(protocol.ErrAlreadyInitialized, errors.Cause(err))

	empty := NewProtocol(nil)
	_, err = empty.Roles(testutil.NewWorkingSet(t))
	require.Equal(protocol.ErrNotInitialized, errors.Cause(err))
	require.Error(empty.CreateGenesisStates(testutil.Context(0, _owner), testutil.NewWorkingSet(t), Genesis{}))
}

func TestGuards(t *testing.T) {
	require := require.New(t)

	p, ws := initGate(t, nil)
	require.NoError(p.AssertOwner(testutil.Context(0, _owner), ws))
	require.Equal(protocol.ErrUnauthorized, errors.Cause(p.AssertOwner(testutil.Context(0, _operator), ws)))
	require.NoError(p.AssertOwnerOrOperator(testutil.Context(0, _operator), ws))
	require.Equal(protocol.ErrUnauthorized, errors.Cause(p.AssertOwnerOrOperator(testutil.Context(0, _guardian), ws)))
	require.NoError(p.AssertOwnerOrGuardian(testutil.Context(0, _guardian), ws))
	require.Equal(protocol.ErrUnauthorized, errors.Cause(p.AssertOwnerOrGuardian(testutil.Context(0, _signer), ws)))
	require.NoError(p.AssertNotPaused(ws))
	require.NoError(p.AssertNotBlacklisted(ws, _user, protocol.ZeroAddress))
}

func TestAdmin(t *testing.T) {
	require := require.New(t)

	p, ws := initGate(t, nil)
	ownerCtx := testutil.Context(0, _owner)
	strangerCtx := testutil.Context(0, _stranger)

	for _, c := range []struct {
		name string
		act  action.Action
	}{
		{"signer", &action.SetAuthorizedSigner{Signer: _user}},
		{"operator", &action.SetOperator{Operator: _user}},
		{"guardian", &action.SetGuardian{Guardian: _user, Enabled: true}},
		{"max voting power", &action.SetMaxVotingPower{Amount: big.NewInt(10)}},
		{"trading start time", &action.SetTradingStartTime{Time: 5}},
		{"allow list", &action.SetPreTradingAllowList{Account: _user, Allowed: true}},
		{"voting excluded", &action.SetVotingExcluded{Account: _user, Excluded: true}},
		{"blacklisted", &action.SetBlacklisted{Account: _user, Blacklisted: true}},
		{"unpause", &action.Unpause{}},
		{"transfer ownership", &action.TransferOwnership{NewOwner: _user}},
		{"renounce ownership", &action.RenounceOwnership{}},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := p.Handle(strangerCtx, c.act, ws)
			require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
		})
	}

	r, err := p.Handle(ownerCtx, &action.SetAuthorizedSigner{Signer: _user}, ws)
	require.NoError(err)
	require.Len(r.Events(SignerChangedEvent), 1)
	roles, err := p.Roles(ws)
	require.NoError(err)
	require.Equal(_user.String(), roles.Signer.String())
	_, err = p.SetAuthorizedSigner(ownerCtx, ws, protocol.ZeroAddress)
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))

	_, err = p.SetMaxVotingPower(ownerCtx, ws, big.NewInt(0))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.SetMaxVotingPower(ownerCtx, ws, new(big.Int).Add(MaxVotingPowerCeiling, big.NewInt(1)))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.SetMaxVotingPower(ownerCtx, ws, big.NewInt(77))
	require.NoError(err)
	cfg, err := p.Config(ws)
	require.NoError(err)
	require.Equal("77", cfg.MaxVotingPower.String())

	_, err = p.SetTradingStartTime(ownerCtx, ws, 42)
	require.NoError(err)
	_, err = p.SetPreTradingAllowList(ownerCtx, ws, _user, true)
	require.NoError(err)
	cfg, err = p.Config(ws)
	require.NoError(err)
	require.Equal(uint64(42), cfg.TradingStartTime)
	f, err := p.Flags(ws, _user)
	require.NoError(err)
	require.True(f.AllowListed)

	// guardians may blacklist but not administer
	_, err = p.SetBlacklisted(testutil.Context(0, _guardian), ws, _user, true)
	require.NoError(err)
	require.Equal(protocol.ErrRestricted, errors.Cause(p.AssertNotBlacklisted(ws, _stranger, _user)))
	restricted, err := p.IsRestricted(ws, _user)
	require.NoError(err)
	require.True(restricted)
	_, err = p.SetBlacklisted(testutil.Context(0, _guardian), ws, _user, false)
	require.NoError(err)
	restricted, err = p.IsRestricted(ws, _user)
	require.NoError(err)
	require.False(restricted)
	_, err = p.SetGuardian(testutil.Context(0, _guardian), ws, _stranger, true)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
}

func TestPause(t *testing.T) {
	require := require.New(t)

	p, ws := initGate(t, nil)
	_, err := p.Unpause(testutil.Context(0, _owner), ws)
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.Pause(testutil.Context(0, _stranger), ws)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))

	logs, err := p.Pause(testutil.Context(0, _guardian), ws)
	require.NoError(err)
	require.True(logs[0].IsEvent(PausedEvent))
	require.Equal(protocol.ErrPaused, errors.Cause(p.AssertNotPaused(ws)))
	_, err = p.Pause(testutil.Context(0, _owner), ws)
	require.Equal(protocol.ErrPaused, errors.Cause(err))

	_, err = p.Unpause(testutil.Context(0, _guardian), ws)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	logs, err = p.Unpause(testutil.Context(0, _owner), ws)
	require.NoError(err)
	require.True(logs[0].IsEvent(UnpausedEvent))
	require.NoError(p.AssertNotPaused(ws))
}

func TestOwnership(t *testing.T) {
	require := require.New(t)

	p, ws := initGate(t, nil)
	_, err := p.TransferOwnership(testutil.Context(0, _owner), ws, _user)
	require.NoError(err)
	isOwner, err := p.IsOwner(ws, _owner)
	require.NoError(err)
	require.True(isOwner)

	_, err = p.AcceptOwnership(testutil.Context(0, _stranger), ws)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	logs, err := p.AcceptOwnership(testutil.Context(0, _user), ws)
	require.NoError(err)
	require.True(logs[0].IsEvent(OwnershipTransferredEvent))
	isOwner, err = p.IsOwner(ws, _user)
	require.NoError(err)
	require.True(isOwner)
	roles, err := p.Roles(ws)
	require.NoError(err)
	require.Nil(roles.PendingOwner)

	err = p.RenounceOwnership(testutil.Context(0, _user), ws)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	isOwner, err = p.IsOwner(ws, _user)
	require.NoError(err)
	require.True(isOwner)
}

func TestRestrictionResetsDelegation(t *testing.T) {
	require := require.New(t)

	tok := token.NewProtocol()
	p, ws := initGate(t, tok)
	ctx := testutil.Context(0, _owner)
	require.NoError(tok.CreateGenesisStates(ctx, ws, []token.Alloc{{Account: _user, Amount: big.NewInt(100)}}))
	_, err := tok.Delegate(testutil.Context(0, _user), ws, _user, _stranger)
	require.NoError(err)
	votes, err := tok.DelegatedVotes(ws, _stranger)
	require.NoError(err)
	require.Equal("100", votes.String())

	logs, err := p.SetVotingExcluded(ctx, ws, _user, true)
	require.NoError(err)
	r := (&action.Receipt{}).AddLogs(logs...)
	require.Len(r.Events(token.DelegateChangedEvent), 1)
	require.Len(r.Events(VotingExclusionChangedEvent), 1)
	delegatee, err := tok.Delegates(ws, _user)
	require.NoError(err)
	require.Nil(delegatee)
	votes, err = tok.DelegatedVotes(ws, _stranger)
	require.NoError(err)
	require.Zero(votes.Sign())
	f, err := p.Flags(ws, _user)
	require.NoError(err)
	require.True(f.VotingExcluded)

	_, err = p.SetVotingExcluded(ctx, ws, _user, false)
	require.NoError(err)
	f, err = p.Flags(ws, _user)
	require.NoError(err)
	require.False(f.VotingExcluded)
}
