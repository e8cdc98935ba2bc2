// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package migration

import (
	"context"
	"math/big"
	"testing"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/action/protocol/access"
	"github.com/iotexproject/iotex-vesting/action/protocol/legacy"
	"github.com/iotexproject/iotex-vesting/action/protocol/token"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/crypto"
	"github.com/iotexproject/iotex-vesting/test/identityset"
	"github.com/iotexproject/iotex-vesting/test/mock/mock_crypto"
	"github.com/iotexproject/iotex-vesting/testutil"
)

const _tradingStart = 1000

var (
	_owner    = identityset.Address(0)
	_operator = identityset.Address(1)
	_signer   = identityset.Address(2)
	_guardian = identityset.Address(3)
	_founder  = identityset.Address(4) // legacy, founders, 1000
	_holder   = identityset.Address(5) // legacy, no vesting, 300
	_member   = identityset.Address(6) // legacy, team, 500
	_trader   = identityset.Address(7) // not legacy, 100
	_peer     = identityset.Address(8)
	_fresh    = identityset.Address(9)
)

func pct(p uint64) uint64 {
	return p * vesting.PercentageBase / 100
}

func requireAmount(t *testing.T, expected int64, actual *big.Int, err error) {
	require.NoError(t, err)
	require.Equal(t, big.NewInt(expected).String(), actual.String())
}

func newMigration(t *testing.T) (*Protocol, protocol.StateManager, *mock_crypto.MockVerifier) {
	ctrl := gomock.NewController(t)
	verifier := mock_crypto.NewMockVerifier(ctrl)
	p := NewProtocol(verifier, crypto.Domain{Name: "IoTeX Vesting", Version: "1", ChainID: 4689})
	ws := testutil.NewWorkingSet(t)
	ctx := testutil.Context(0, _owner)
	require.NoError(t, p.CreateGenesisStates(ctx, ws, Genesis{
		Access: access.Genesis{
			Owner:            _owner,
			Operator:         _operator,
			Signer:           _signer,
			Guardians:        []address.Address{_guardian},
			TradingStartTime: _tradingStart,
		},
		Balances: []token.Alloc{
			{Account: _owner, Amount: big.NewInt(100)},
			{Account: _founder, Amount: big.NewInt(1000)},
			{Account: _holder, Amount: big.NewInt(300)},
			{Account: _member, Amount: big.NewInt(500)},
			{Account: _trader, Amount: big.NewInt(100)},
			{Account: p.Ledger().Address(), Amount: big.NewInt(40)},
		},
		Pipelines: []vesting.GenesisPipeline{
			{
				Category:  vesting.CategoryFounders,
				Enabled:   true,
				Templates: []vesting.Template{{Percentage: pct(100), StartTime: 0, CliffTime: 0, EndTime: 100}},
			},
			{
				Category: vesting.CategoryTeam,
				Enabled:  true,
				Templates: []vesting.Template{
					{Percentage: pct(50), StartTime: 0, CliffTime: 0, EndTime: 100},
					{Percentage: pct(50), StartTime: 100, CliffTime: 100, EndTime: 200},
				},
			},
		},
	}))
	require.NoError(t, p.CheckSchema(ws))
	r, err := p.Handle(testutil.Context(0, _operator), &action.BulkInsertLegacyUsers{
		Nonce:      0,
		Users:      []address.Address{_founder, _holder, _member},
		Amounts:    []*big.Int{big.NewInt(1000), big.NewInt(300), big.NewInt(500)},
		Categories: []uint8{uint8(vesting.CategoryFounders), uint8(vesting.CategoryNone), uint8(vesting.CategoryTeam)},
	}, ws)
	require.NoError(t, err)
	require.Len(t, r.Events(legacy.NonceUpdatedEvent), 1)
	return p, ws, verifier
}

func TestActivateAccount(t *testing.T) {
	require := require.New(t)

	p, ws, verifier := newMigration(t)
	ctx := testutil.Context(50, _founder)
	sig := []byte("signature")
	digest := crypto.ActivationDigest(p.Domain(), _founder)

	verifier.EXPECT().Recover(digest, sig).Return(_trader, nil).Times(1)
	_, err := p.ActivateAccount(ctx, ws, sig)
	require.Equal(protocol.ErrInvalidSignature, errors.Cause(err))
	verifier.EXPECT().Recover(digest, sig).Return(nil, crypto.ErrRecoverFailure).Times(1)
	_, err = p.ActivateAccount(ctx, ws, sig)
	require.Equal(protocol.ErrInvalidSignature, errors.Cause(err))

	verifier.EXPECT().Recover(digest, sig).Return(_signer, nil).Times(2)
	r, err := p.Handle(ctx, &action.ActivateAccount{Signature: sig}, ws)
	require.NoError(err)
	events := r.Events(AccountActivatedEvent)
	require.Len(events, 1)
	require.Len(r.Events(vesting.VestActivatedEvent), 1)
	require.Len(r.Events(vesting.ClaimedEvent), 1)
	require.Len(r.Events(legacy.LegacyUserActivatedEvent), 1)

	activated, err := p.Registry().IsLegacyUserAndActivated(ws, _founder)
	require.NoError(err)
	require.True(activated)
	rec, err := p.Vesting().Record(ws, _founder)
	require.NoError(err)
	require.Equal("1000", rec.Allocation.String())
	require.Equal("500", rec.Claimed.String())
	balance, err := p.Ledger().BalanceOf(ws, _founder)
	requireAmount(t, 500, balance, err)
	balance, err = p.Ledger().BalanceOf(ws, p.Vesting().Custody())
	requireAmount(t, 500, balance, err)
	allowance, err := p.Ledger().Allowance(ws, _founder, p.Vesting().Custody())
	requireAmount(t, 0, allowance, err)

	// the second activation fails and leaves the totals alone
	totals, err := p.Vesting().Totals(ws)
	require.NoError(err)
	_, err = p.ActivateAccount(ctx, ws, sig)
	require.Equal(protocol.ErrAlreadyInitialized, errors.Cause(err))
	after, err := p.Vesting().Totals(ws)
	require.NoError(err)
	require.Equal(totals.TotalAllocated.String(), after.TotalAllocated.String())
	require.Equal(totals.TotalClaimed.String(), after.TotalClaimed.String())
	require.Equal("1000", after.TotalAllocated.String())
	require.Equal("500", after.TotalClaimed.String())
}

func TestActivateAccountFor(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	_, err := p.ActivateAccountFor(testutil.Context(0, _operator), ws, _holder)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	_, err = p.ActivateAccountFor(testutil.Context(0, _owner), ws, _trader)
	require.Equal(protocol.ErrNotInitialized, errors.Cause(err))

	// no vesting for category none
	r, err := p.Handle(testutil.Context(0, _owner), &action.ActivateAccountFor{Account: _holder}, ws)
	require.NoError(err)
	require.Len(r.Events(AccountActivatedEvent), 1)
	require.Empty(r.Events(vesting.VestActivatedEvent))
	rec, err := p.Vesting().Record(ws, _holder)
	require.NoError(err)
	require.False(rec.Initialized)
	balance, err := p.Ledger().BalanceOf(ws, _holder)
	requireAmount(t, 300, balance, err)

	// nothing unlocked yet, the immediate claim is skipped
	_, err = p.ActivateAccountFor(testutil.Context(0, _owner), ws, _member)
	require.NoError(err)
	rec, err = p.Vesting().Record(ws, _member)
	require.NoError(err)
	require.True(rec.Initialized)
	require.Zero(rec.Claimed.Sign())

	_, err = p.Gate().Pause(testutil.Context(0, _guardian), ws)
	require.NoError(err)
	_, err = p.ActivateAccountFor(testutil.Context(0, _owner), ws, _founder)
	require.Equal(protocol.ErrPaused, errors.Cause(err))
}

func TestClaim(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	_, err := p.ActivateAccountFor(testutil.Context(50, _owner), ws, _member)
	require.NoError(err)
	rec, err := p.Vesting().Record(ws, _member)
	require.NoError(err)
	require.Equal("125", rec.Claimed.String())

	_, _, err = p.Claim(testutil.Context(150, _trader), ws, _trader)
	require.Equal(protocol.ErrNotInitialized, errors.Cause(err))
	_, _, err = p.ClaimFor(testutil.Context(150, _trader), ws, _member)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))

	r, err := p.Handle(testutil.Context(150, _member), &action.Claim{}, ws)
	require.NoError(err)
	require.Len(r.Events(vesting.ClaimedEvent), 1)
	balance, err := p.Ledger().BalanceOf(ws, _member)
	requireAmount(t, 375, balance, err)

	_, _, err = p.Claim(testutil.Context(150, _member), ws, _member)
	require.Equal(protocol.ErrNothingToClaim, errors.Cause(err))
	rec, err = p.Vesting().Record(ws, _member)
	require.NoError(err)
	require.Equal("375", rec.Claimed.String())

	amount, _, err := p.ClaimFor(testutil.Context(300, _owner), ws, _member)
	require.NoError(err)
	require.Equal("125", amount.String())
	totals, err := p.Vesting().Totals(ws)
	require.NoError(err)
	require.Equal(totals.TotalAllocated.String(), totals.TotalClaimed.String())
}

func TestTransferGating(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	before := testutil.Context(_tradingStart-1, _trader)
	after := testutil.Context(_tradingStart, _trader)

	_, err := p.Transfer(before, ws, _peer, big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.Transfer(testutil.Context(0, _owner), ws, _peer, big.NewInt(1))
	require.NoError(err)
	_, err = p.Gate().SetPreTradingAllowList(testutil.Context(0, _owner), ws, _trader, true)
	require.NoError(err)
	_, err = p.Transfer(before, ws, _peer, big.NewInt(1))
	require.NoError(err)
	_, err = p.Transfer(before, ws, p.Ledger().Address(), big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))

	// unactivated legacy users can neither send nor receive
	_, err = p.Transfer(after, ws, _member, big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.Transfer(testutil.Context(_tradingStart, _member), ws, _trader, big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.ActivateAccountFor(testutil.Context(_tradingStart, _owner), ws, _holder)
	require.NoError(err)
	_, err = p.Transfer(after, ws, _holder, big.NewInt(2))
	require.NoError(err)

	// allowance path
	_, err = p.Approve(testutil.Context(_tradingStart, _holder), ws, _peer, big.NewInt(5))
	require.NoError(err)
	r, err := p.Handle(testutil.Context(_tradingStart, _peer), &action.TransferFrom{From: _holder, To: _peer, Amount: big.NewInt(5)}, ws)
	require.NoError(err)
	require.Len(r.Events(token.TransferEvent), 1)

	// blacklist in either direction
	_, err = p.Gate().SetBlacklisted(testutil.Context(0, _guardian), ws, _peer, true)
	require.NoError(err)
	_, err = p.Transfer(after, ws, _peer, big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.Transfer(testutil.Context(_tradingStart, _peer), ws, _trader, big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.Approve(after, ws, _peer, big.NewInt(1))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.Delegate(after, ws, _peer)
	require.Equal(protocol.ErrRestricted, errors.Cause(err))

	_, err = p.Gate().Pause(testutil.Context(0, _owner), ws)
	require.NoError(err)
	_, err = p.Transfer(after, ws, _holder, big.NewInt(1))
	require.Equal(protocol.ErrPaused, errors.Cause(err))
}

func TestReallocateFrom(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	ownerCtx := testutil.Context(50, _owner)

	_, err := p.ReallocateFrom(testutil.Context(50, _operator), ws, _member, _fresh, big.NewInt(500))
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	_, err = p.ReallocateFrom(ownerCtx, ws, _member, _founder, big.NewInt(500))
	require.Equal(protocol.ErrInvalidReallocation, errors.Cause(err))
	_, err = p.ReallocateFrom(ownerCtx, ws, _member, _fresh, big.NewInt(499))
	require.Equal(protocol.ErrInvalidReallocation, errors.Cause(err))
	_, err = p.ReallocateFrom(ownerCtx, ws, _member, _member, big.NewInt(500))
	require.Equal(protocol.ErrInvalidReallocation, errors.Cause(err))

	r, err := p.Handle(ownerCtx, &action.Reallocate{From: _member, To: _fresh, Amount: big.NewInt(500)}, ws)
	require.NoError(err)
	events := r.Events(ReallocatedEvent)
	require.Len(events, 1)
	require.Len(r.Events(legacy.LegacyRecordReallocatedEvent), 1)
	pending, err := p.Registry().IsLegacyUserAndNotActivated(ws, _fresh)
	require.NoError(err)
	require.True(pending)
	isLegacy, err := p.Registry().IsLegacyUser(ws, _member)
	require.NoError(err)
	require.False(isLegacy)
	balance, err := p.Ledger().BalanceOf(ws, _fresh)
	requireAmount(t, 500, balance, err)
	balance, err = p.Ledger().BalanceOf(ws, _member)
	requireAmount(t, 0, balance, err)

	// an activated user carries its vesting record along
	_, err = p.ActivateAccountFor(ownerCtx, ws, _founder)
	require.NoError(err)
	target := identityset.Address(10)
	_, err = p.ReallocateFrom(ownerCtx, ws, _founder, target, big.NewInt(200))
	require.NoError(err)
	moved, err := p.Vesting().Record(ws, target)
	require.NoError(err)
	require.True(moved.Initialized)
	require.Equal("1000", moved.Allocation.String())
	require.Equal("500", moved.Claimed.String())
	old, err := p.Vesting().Record(ws, _founder)
	require.NoError(err)
	require.False(old.Initialized)
	activated, err := p.Registry().IsLegacyUserAndActivated(ws, target)
	require.NoError(err)
	require.True(activated)
	balance, err = p.Ledger().BalanceOf(ws, _founder)
	requireAmount(t, 300, balance, err)

	// a non-legacy wallet only moves balance
	r, err = p.Handle(ownerCtx, &action.Reallocate{From: _trader, To: identityset.Address(11), Amount: big.NewInt(0)}, ws)
	require.NoError(err)
	require.Empty(r.Events(token.TransferEvent))
	require.Len(r.Events(ReallocatedEvent), 1)
}

func TestVotes(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	votes, err := p.Votes(ws, _trader)
	requireAmount(t, 100, votes, err)

	_, err = p.ActivateAccountFor(testutil.Context(50, _owner), ws, _founder)
	require.NoError(err)
	votes, err = p.Votes(ws, _founder)
	requireAmount(t, 1000, votes, err)

	_, err = p.Delegate(testutil.Context(0, _trader), ws, _peer)
	require.NoError(err)
	votes, err = p.Votes(ws, _trader)
	requireAmount(t, 0, votes, err)
	votes, err = p.Votes(ws, _peer)
	requireAmount(t, 100, votes, err)

	_, err = p.Gate().SetMaxVotingPower(testutil.Context(0, _owner), ws, big.NewInt(50))
	require.NoError(err)
	for _, addr := range []address.Address{_founder, _peer, _trader, _holder} {
		votes, err = p.Votes(ws, addr)
		require.NoError(err)
		require.True(votes.Cmp(big.NewInt(50)) <= 0)
	}

	// exclusion clears the delegation and zeroes the votes
	_, err = p.Handle(testutil.Context(0, _owner), &action.SetVotingExcluded{Account: _trader, Excluded: true}, ws)
	require.NoError(err)
	delegatee, err := p.Ledger().Delegates(ws, _trader)
	require.NoError(err)
	require.Nil(delegatee)
	votes, err = p.Votes(ws, _trader)
	requireAmount(t, 0, votes, err)
	votes, err = p.Votes(ws, _peer)
	requireAmount(t, 0, votes, err)
	_, err = p.Delegate(testutil.Context(0, _trader), ws, _peer)
	require.Equal(protocol.ErrRestricted, errors.Cause(err))

	_, err = p.Gate().SetBlacklisted(testutil.Context(0, _owner), ws, _founder, true)
	require.NoError(err)
	votes, err = p.Votes(ws, _founder)
	requireAmount(t, 0, votes, err)
}

func TestRescueTokens(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	ctx := testutil.Context(0, _owner)
	tokenAddr := p.Ledger().Address()

	_, err := p.RescueTokens(testutil.Context(0, _guardian), ws, _peer, tokenAddr, big.NewInt(1))
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	_, err = p.RescueTokens(ctx, ws, protocol.ZeroAddress, tokenAddr, big.NewInt(1))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.RescueTokens(ctx, ws, _peer, tokenAddr, big.NewInt(0))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.RescueTokens(ctx, ws, _peer, _trader, big.NewInt(1))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))

	r, err := p.Handle(ctx, &action.RescueTokens{To: _peer, Token: tokenAddr, Amount: big.NewInt(100)}, ws)
	require.NoError(err)
	require.Len(r.Events(TokensRescuedEvent), 1)
	balance, err := p.Ledger().BalanceOf(ws, _peer)
	requireAmount(t, 40, balance, err)
	logs, err := p.RescueTokens(ctx, ws, _peer, tokenAddr, big.NewInt(100))
	require.NoError(err)
	require.Empty(logs)
}

type unknownAction struct{}

func (unknownAction) Name() string { return "unknown" }

func TestHandleDispatch(t *testing.T) {
	require := require.New(t)

	p, ws, _ := newMigration(t)
	ctx := testutil.Context(0, _owner)

	r, err := p.Handle(ctx, &action.SetCategoryTemplate{Category: uint8(vesting.CategoryCommunity), Index: 0, Percentage: pct(100), EndTime: 10}, ws)
	require.NoError(err)
	require.Len(r.Events(vesting.TemplateSetEvent), 1)
	r, err = p.Handle(ctx, &action.Pause{}, ws)
	require.NoError(err)
	require.Len(r.Events(access.PausedEvent), 1)
	_, err = p.Handle(ctx, &action.BulkInsertLegacyUsers{Nonce: 0}, ws)
	require.Equal(protocol.ErrStaleNonce, errors.Cause(err))
	_, err = p.Handle(ctx, unknownAction{}, ws)
	require.Equal(protocol.ErrUnsupportedAction, errors.Cause(err))

	cfg, err := p.GlobalConfig(ws)
	require.NoError(err)
	require.Equal(uint64(_tradingStart), cfg.TradingStartTime)
	require.Equal(uint64(1), cfg.RegistrationNonce)
	require.Equal(_signer.String(), cfg.AuthorizedSigner.String())
	require.Equal(access.MaxVotingPowerCeiling.String(), cfg.MaxVotingPower.String())
	require.True(cfg.Paused)
}

func TestCheckSchema(t *testing.T) {
	require := require.New(t)

	p := NewProtocol(nil, crypto.Domain{})
	ws := testutil.NewWorkingSet(t)
	require.Equal(protocol.ErrNotInitialized, errors.Cause(p.CheckSchema(ws)))
	require.NoError(p.CreateGenesisStates(context.Background(), ws, Genesis{Access: access.Genesis{Owner: _owner}}))
	require.NoError(p.CheckSchema(ws))
	require.Equal(p.Ledger().Address().String(), p.Domain().VerifyingContract.String())
}
