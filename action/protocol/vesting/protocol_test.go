// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vesting

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/action/protocol/token"
	"github.com/iotexproject/iotex-vesting/test/identityset"
	"github.com/iotexproject/iotex-vesting/test/mock/mock_vesting"
	"github.com/iotexproject/iotex-vesting/testutil"
)

func TestCategoryConfig(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	auth := mock_vesting.NewMockAuthorizer(ctrl)
	auth.EXPECT().AssertOwner(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ws := testutil.NewWorkingSet(t)
	ctx := testutil.Context(0, identityset.Address(0))
	p := NewProtocol(auth, mock_vesting.NewMockLedger(ctrl))

	logs, err := p.SetTemplate(ctx, ws, CategoryTeam, 2, Template{Percentage: pct(40), StartTime: 10, CliffTime: 20, EndTime: 30})
	require.NoError(err)
	require.Len(logs, 1)
	require.True(logs[0].IsEvent(TemplateSetEvent))
	pipeline, err := p.Pipeline(ws, CategoryTeam)
	require.NoError(err)
	require.Equal(uint8(3), pipeline.TemplateCount)
	require.Len(pipeline.Templates, MaxTemplates)
	require.Equal(uint64(20), pipeline.Templates[2].CliffTime)
	require.False(pipeline.Enabled)

	for _, c := range []struct {
		name     string
		category Category
		index    uint8
		t        Template
	}{
		{"none category", CategoryNone, 0, Template{Percentage: pct(10), EndTime: 1}},
		{"unknown category", MaxCategory + 1, 0, Template{Percentage: pct(10), EndTime: 1}},
		{"index out of range", CategoryTeam, MaxTemplates, Template{Percentage: pct(10), EndTime: 1}},
		{"cliff after end", CategoryTeam, 0, Template{Percentage: pct(10), CliffTime: 5, EndTime: 1}},
		{"start after cliff", CategoryTeam, 0, Template{Percentage: pct(10), StartTime: 3, CliffTime: 2, EndTime: 4}},
		{"percentage over base", CategoryTeam, 0, Template{Percentage: PercentageBase + 1, EndTime: 1}},
		{"sum over base", CategoryTeam, 0, Template{Percentage: pct(61), EndTime: 1}},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := p.SetTemplate(ctx, ws, c.category, c.index, c.t)
			require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
		})
	}
	pipeline, err = p.Pipeline(ws, CategoryTeam)
	require.NoError(err)
	require.Equal(uint8(3), pipeline.TemplateCount)
	require.False(pipeline.Templates[0].Used())

	// overwriting a slot replaces its share in the sum
	_, err = p.SetTemplate(ctx, ws, CategoryTeam, 2, Template{Percentage: pct(100), EndTime: 1})
	require.NoError(err)

	logs, err = p.SetCategoryEnabled(ctx, ws, CategoryTeam, true)
	require.NoError(err)
	require.True(logs[0].IsEvent(CategoryEnabledEvent))
	pipeline, err = p.Pipeline(ws, CategoryTeam)
	require.NoError(err)
	require.True(pipeline.Enabled)
	_, err = p.SetCategoryEnabled(ctx, ws, CategoryNone, true)
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))

	frozen, err := p.Frozen(ws)
	require.NoError(err)
	require.False(frozen)
	logs, err = p.FreezeCategoryConfig(ctx, ws)
	require.NoError(err)
	require.True(logs[0].IsEvent(CategoryConfigFrozenEvent))
	frozen, err = p.Frozen(ws)
	require.NoError(err)
	require.True(frozen)
	_, err = p.SetTemplate(ctx, ws, CategoryTeam, 0, Template{})
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.FreezeCategoryConfig(ctx, ws)
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	// enabling stays possible after the freeze
	_, err = p.SetCategoryEnabled(ctx, ws, CategoryTeam, false)
	require.NoError(err)
}

func TestCategoryConfigUnauthorized(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	auth := mock_vesting.NewMockAuthorizer(ctrl)
	auth.EXPECT().AssertOwner(gomock.Any(), gomock.Any()).Return(protocol.ErrUnauthorized).Times(3)

	ws := testutil.NewWorkingSet(t)
	ctx := testutil.Context(0, identityset.Address(5))
	p := NewProtocol(auth, mock_vesting.NewMockLedger(ctrl))

	_, err := p.SetTemplate(ctx, ws, CategoryTeam, 0, Template{Percentage: pct(1), EndTime: 1})
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	_, err = p.SetCategoryEnabled(ctx, ws, CategoryTeam, true)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
	_, err = p.FreezeCategoryConfig(ctx, ws)
	require.Equal(protocol.ErrUnauthorized, errors.Cause(err))
}

func TestHandle(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	auth := mock_vesting.NewMockAuthorizer(ctrl)
	auth.EXPECT().AssertOwner(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	ws := testutil.NewWorkingSet(t)
	ctx := testutil.Context(0, identityset.Address(0))
	p := NewProtocol(auth, mock_vesting.NewMockLedger(ctrl))

	r, err := p.Handle(ctx, &action.SetCategoryTemplate{
		Category:   uint8(CategoryAdvisors),
		Index:      0,
		Percentage: pct(100),
		StartTime:  0,
		CliffTime:  0,
		EndTime:    100,
	}, ws)
	require.NoError(err)
	require.Equal(action.ReceiptStatusSuccess, r.Status)
	require.Len(r.Events(TemplateSetEvent), 1)
	r, err = p.Handle(ctx, &action.SetCategoryEnabled{Category: uint8(CategoryAdvisors), Enabled: true}, ws)
	require.NoError(err)
	require.Len(r.Events(CategoryEnabledEvent), 1)

	r, err = p.Handle(ctx, &action.Claim{}, ws)
	require.NoError(err)
	require.Nil(r)
}

func TestVestAndClaim(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	auth := mock_vesting.NewMockAuthorizer(ctrl)
	auth.EXPECT().AssertOwner(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	auth.EXPECT().AssertNotPaused(gomock.Any()).Return(nil).AnyTimes()

	var (
		owner = identityset.Address(0)
		user  = identityset.Address(1)
		other = identityset.Address(2)
		fresh = identityset.Address(3)
		ws    = testutil.NewWorkingSet(t)
		ctx   = testutil.Context(0, owner)
		tok   = token.NewProtocol()
		p     = NewProtocol(auth, tok)
	)
	require.NoError(tok.CreateGenesisStates(ctx, ws, []token.Alloc{
		{Account: user, Amount: big.NewInt(1000)},
		{Account: other, Amount: big.NewInt(10)},
	}))
	_, err := p.SetTemplate(ctx, ws, CategoryFounders, 0, Template{Percentage: pct(50), StartTime: 0, CliffTime: 0, EndTime: 100})
	require.NoError(err)
	_, err = p.SetTemplate(ctx, ws, CategoryFounders, 1, Template{Percentage: pct(50), StartTime: 100, CliffTime: 100, EndTime: 200})
	require.NoError(err)

	_, err = tok.Approve(ctx, ws, user, p.Custody(), big.NewInt(1000))
	require.NoError(err)
	_, err = p.ActivateVest(ctx, ws, user, CategoryFounders, big.NewInt(1000))
	require.Equal(protocol.ErrRestricted, errors.Cause(err))
	_, err = p.SetCategoryEnabled(ctx, ws, CategoryFounders, true)
	require.NoError(err)

	_, err = p.ActivateVest(ctx, ws, user, CategoryNone, big.NewInt(1000))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.ActivateVest(ctx, ws, user, CategoryFounders, big.NewInt(0))
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
	_, err = p.ActivateVest(ctx, ws, other, CategoryFounders, big.NewInt(10))
	require.Equal(token.ErrInsufficientAllowance, errors.Cause(err))

	snapshot := ws.Snapshot()
	logs, err := p.ActivateVest(ctx, ws, user, CategoryFounders, big.NewInt(1000))
	require.NoError(err)
	require.Len((&action.Receipt{}).AddLogs(logs...).Events(VestActivatedEvent), 1)
	require.Len((&action.Receipt{}).AddLogs(logs...).Events(token.TransferEvent), 1)
	balance, err := tok.BalanceOf(ws, p.Custody())
	require.NoError(err)
	require.Equal("1000", balance.String())
	balance, err = tok.BalanceOf(ws, user)
	require.NoError(err)
	require.Zero(balance.Sign())
	allowance, err := tok.Allowance(ws, user, p.Custody())
	require.NoError(err)
	require.Zero(allowance.Sign())

	_, err = p.ActivateVest(ctx, ws, user, CategoryFounders, big.NewInt(1000))
	require.Equal(protocol.ErrAlreadyInitialized, errors.Cause(err))
	totals, err := p.Totals(ws)
	require.NoError(err)
	require.Equal("1000", totals.TotalAllocated.String())

	claimable, err := p.Claimable(testutil.Context(50, user), ws, user)
	require.NoError(err)
	require.Equal("250", claimable.String())
	claimable, err = p.ClaimableAt(ws, user, 150)
	require.NoError(err)
	require.Equal("750", claimable.String())

	amount, logs, err := p.Claim(testutil.Context(150, user), ws, user)
	require.NoError(err)
	require.Equal("750", amount.String())
	require.Len((&action.Receipt{}).AddLogs(logs...).Events(ClaimedEvent), 1)
	balance, err = tok.BalanceOf(ws, user)
	require.NoError(err)
	require.Equal("750", balance.String())

	_, _, err = p.Claim(testutil.Context(150, user), ws, user)
	require.Equal(protocol.ErrNothingToClaim, errors.Cause(err))
	rec, err := p.Record(ws, user)
	require.NoError(err)
	require.Equal("750", rec.Claimed.String())
	unclaimed, err := p.UnclaimedBalance(ws, user)
	require.NoError(err)
	require.Equal("250", unclaimed.String())

	amount, _, err = p.Claim(testutil.Context(1000, user), ws, user)
	require.NoError(err)
	require.Equal("250", amount.String())
	totals, err = p.Totals(ws)
	require.NoError(err)
	require.Equal("1000", totals.TotalClaimed.String())
	require.True(totals.TotalClaimed.Cmp(totals.TotalAllocated) <= 0)

	_, _, err = p.Claim(ctx, ws, other)
	require.Equal(protocol.ErrNotInitialized, errors.Cause(err))

	// reallocation moves the record without touching balances
	_, err = p.ReallocateRecord(ctx, ws, user, user)
	require.Equal(protocol.ErrInvalidReallocation, errors.Cause(err))
	_, err = p.ReallocateRecord(ctx, ws, other, fresh)
	require.Equal(protocol.ErrNotInitialized, errors.Cause(err))
	logs, err = p.ReallocateRecord(ctx, ws, user, fresh)
	require.NoError(err)
	require.True(logs[0].IsEvent(RecordReallocatedEvent))
	rec, err = p.Record(ws, fresh)
	require.NoError(err)
	require.True(rec.Initialized)
	require.Equal("1000", rec.Allocation.String())
	rec, err = p.Record(ws, user)
	require.NoError(err)
	require.False(rec.Initialized)

	require.NoError(ws.Revert(snapshot))
	rec, err = p.Record(ws, user)
	require.NoError(err)
	require.False(rec.Initialized)
	totals, err = p.Totals(ws)
	require.NoError(err)
	require.Zero(totals.TotalAllocated.Sign())
}

func TestClaimPaused(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	auth := mock_vesting.NewMockAuthorizer(ctrl)
	ledger := mock_vesting.NewMockLedger(ctrl)
	auth.EXPECT().AssertOwner(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	auth.EXPECT().AssertNotPaused(gomock.Any()).Return(errors.Wrap(protocol.ErrPaused, "paused")).Times(1)
	ledger.EXPECT().TransferFrom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	ledger.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	user := identityset.Address(1)
	ws := testutil.NewWorkingSet(t)
	ctx := testutil.Context(0, identityset.Address(0))
	p := NewProtocol(auth, ledger)
	_, err := p.SetTemplate(ctx, ws, CategoryEcosystem, 0, Template{Percentage: pct(100), EndTime: 10})
	require.NoError(err)
	_, err = p.SetCategoryEnabled(ctx, ws, CategoryEcosystem, true)
	require.NoError(err)
	_, err = p.ActivateVest(ctx, ws, user, CategoryEcosystem, big.NewInt(100))
	require.NoError(err)

	_, _, err = p.Claim(testutil.Context(20, user), ws, user)
	require.Equal(protocol.ErrPaused, errors.Cause(err))
	rec, err := p.Record(ws, user)
	require.NoError(err)
	require.Zero(rec.Claimed.Sign())
}

func TestCreateGenesisStates(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ws := testutil.NewWorkingSet(t)
	p := NewProtocol(mock_vesting.NewMockAuthorizer(ctrl), mock_vesting.NewMockLedger(ctrl))

	require.NoError(p.CreateGenesisStates(testutil.Context(0, identityset.Address(0)), ws, []GenesisPipeline{
		{
			Category: CategoryPublicSale,
			Enabled:  true,
			Templates: []Template{
				{Percentage: pct(20), EndTime: 1},
				{Percentage: pct(80), StartTime: 1, CliffTime: 1, EndTime: 100},
			},
		},
	}))
	pipeline, err := p.Pipeline(ws, CategoryPublicSale)
	require.NoError(err)
	require.True(pipeline.Enabled)
	require.Equal(uint8(2), pipeline.TemplateCount)
	require.Equal(PercentageBase, pipeline.percentageSum())

	err = p.CreateGenesisStates(testutil.Context(0, identityset.Address(0)), ws, []GenesisPipeline{
		{Category: CategoryTreasury, Templates: []Template{{Percentage: pct(70), EndTime: 1}, {Percentage: pct(70), EndTime: 1}}},
	})
	require.Equal(protocol.ErrInvalidParameter, errors.Cause(err))
}
