// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package vesting

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
	ProtocolID = "vesting"

	_protocolNamespace = "Vesting"
)

var (
	_pipelineKey = []byte("pip")
	_recordKey   = []byte("rec")
	_totalsKey   = []byte("tot")
	_frozenKey   = []byte("frz")

	errMalformedTemplate = errors.Wrap(protocol.ErrInvalidParameter, "malformed template")
)

type (
	// Authorizer checks the caller and the pause gate
	Authorizer interface {
		AssertOwner(context.Context, protocol.StateReader) error
		AssertNotPaused(protocol.StateReader) error
	}

	// Ledger moves the vested tokens in and out of custody
	Ledger interface {
		Transfer(ctx context.Context, sm protocol.StateManager, from, to address.Address, amount *big.Int) ([]*action.Log, error)
		TransferFrom(ctx context.Context, sm protocol.StateManager, spender, from, to address.Address, amount *big.Int) ([]*action.Log, error)
	}

	// GenesisPipeline is the initial configuration of a category
	GenesisPipeline struct {
		Category  Category
		Enabled   bool
		Templates []Template
	}

	// Protocol is the vesting engine: category pipelines and the per-user allocation and claim ledger.
	// Its address is the custody of every vested token.
	Protocol struct {
		addr   address.Address
		auth   Authorizer
		ledger Ledger
	}
)

// NewProtocol instantiates the vesting engine
func NewProtocol(auth Authorizer, ledger Ledger) *Protocol {
	return &Protocol{
		addr:   protocol.HashToAddress(ProtocolID),
		auth:   auth,
		ledger: ledger,
	}
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Custody returns the address holding the vested tokens
func (p *Protocol) Custody() address.Address {
	return p.addr
}

// CreateGenesisStates writes the initial category pipelines
func (p *Protocol) CreateGenesisStates(ctx context.Context, sm protocol.StateManager, pipelines []GenesisPipeline) error {
	for _, gp := range pipelines {
		if err := validCategory(gp.Category); err != nil {
			return err
		}
		if len(gp.Templates) > MaxTemplates {
			return errors.Wrapf(protocol.ErrInvalidParameter, "category %s has %d templates", gp.Category, len(gp.Templates))
		}
		pipeline, err := p.Pipeline(sm, gp.Category)
		if err != nil {
			return err
		}
		for i := range gp.Templates {
			if err := p.placeTemplate(pipeline, uint8(i), gp.Templates[i]); err != nil {
				return errors.Wrapf(err, "category %s", gp.Category)
			}
		}
		pipeline.Enabled = gp.Enabled
		if err := p.putState(sm, pipelineKey(gp.Category), pipeline); err != nil {
			return err
		}
	}
	return nil
}

// Handle handles the category configuration actions
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	var (
		logs []*action.Log
		err  error
	)
	switch act := act.(type) {
	case *action.SetCategoryTemplate:
		logs, err = p.SetTemplate(ctx, sm, Category(act.Category), act.Index, Template{
			Percentage: act.Percentage,
			StartTime:  act.StartTime,
			CliffTime:  act.CliffTime,
			EndTime:    act.EndTime,
		})
	case *action.SetCategoryEnabled:
		logs, err = p.SetCategoryEnabled(ctx, sm, Category(act.Category), act.Enabled)
	case *action.FreezeCategoryConfig:
		logs, err = p.FreezeCategoryConfig(ctx, sm)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return (&action.Receipt{Status: action.ReceiptStatusSuccess}).AddLogs(logs...), nil
}

// SetTemplate writes the template at index of a category
func (p *Protocol) SetTemplate(ctx context.Context, sm protocol.StateManager, category Category, index uint8, t Template) ([]*action.Log, error) {
	if err := p.auth.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if err := p.assertNotFrozen(sm); err != nil {
		return nil, err
	}
	if err := validCategory(category); err != nil {
		return nil, err
	}
	pipeline, err := p.Pipeline(sm, category)
	if err != nil {
		return nil, err
	}
	if err := p.placeTemplate(pipeline, index, t); err != nil {
		return nil, err
	}
	if err := p.putState(sm, pipelineKey(category), pipeline); err != nil {
		return nil, err
	}
	return p.emit(ctx, TemplateSetEvent, &TemplateSet{
		Category:   uint8(category),
		Index:      index,
		Percentage: t.Percentage,
		StartTime:  t.StartTime,
		CliffTime:  t.CliffTime,
		EndTime:    t.EndTime,
	})
}

func (p *Protocol) placeTemplate(pipeline *Pipeline, index uint8, t Template) error {
	if index >= MaxTemplates {
		return errors.Wrapf(protocol.ErrInvalidParameter, "template index %d out of range", index)
	}
	if err := t.validate(); err != nil {
		return err
	}
	prev := pipeline.Templates[index]
	pipeline.Templates[index] = t
	if sum := pipeline.percentageSum(); sum > PercentageBase {
		pipeline.Templates[index] = prev
		return errors.Wrapf(protocol.ErrInvalidParameter, "templates sum up to %d over 100%%", sum)
	}
	if index >= pipeline.TemplateCount {
		pipeline.TemplateCount = index + 1
	}
	return nil
}

// SetCategoryEnabled toggles whether users can be activated into a category
func (p *Protocol) SetCategoryEnabled(ctx context.Context, sm protocol.StateManager, category Category, enabled bool) ([]*action.Log, error) {
	if err := p.auth.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if err := validCategory(category); err != nil {
		return nil, err
	}
	pipeline, err := p.Pipeline(sm, category)
	if err != nil {
		return nil, err
	}
	pipeline.Enabled = enabled
	if err := p.putState(sm, pipelineKey(category), pipeline); err != nil {
		return nil, err
	}
	return p.emit(ctx, CategoryEnabledEvent, &CategoryEnabled{Category: uint8(category), Enabled: enabled})
}

// FreezeCategoryConfig permanently rejects further template changes
func (p *Protocol) FreezeCategoryConfig(ctx context.Context, sm protocol.StateManager) ([]*action.Log, error) {
	if err := p.auth.AssertOwner(ctx, sm); err != nil {
		return nil, err
	}
	if err := p.assertNotFrozen(sm); err != nil {
		return nil, err
	}
	if err := p.putState(sm, _frozenKey, &frozenState{Frozen: true}); err != nil {
		return nil, err
	}
	return p.emit(ctx, CategoryConfigFrozenEvent, &ConfigFrozen{
		Account: protocol.MustGetActionCtx(ctx).Caller.String(),
	})
}

// ActivateVest creates the record of user and pulls amount from user into custody
// through the allowance user granted to the custody.
func (p *Protocol) ActivateVest(ctx context.Context, sm protocol.StateManager, user address.Address, category Category, amount *big.Int) ([]*action.Log, error) {
	if protocol.IsZeroAddress(user) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "user is zero address")
	}
	if category == CategoryNone || !category.Valid() {
		return nil, errors.Wrapf(protocol.ErrInvalidParameter, "cannot vest in category %d", category)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.Wrapf(protocol.ErrInvalidParameter, "invalid amount %v", amount)
	}
	pipeline, err := p.Pipeline(sm, category)
	if err != nil {
		return nil, err
	}
	if !pipeline.Enabled {
		return nil, errors.Wrapf(protocol.ErrRestricted, "category %s is not enabled", category)
	}
	rec, err := p.Record(sm, user)
	if err != nil {
		return nil, err
	}
	if rec.Initialized {
		return nil, errors.Wrapf(protocol.ErrAlreadyInitialized, "%s already vests", user.String())
	}
	totals, err := p.Totals(sm)
	if err != nil {
		return nil, err
	}

	logs, err := p.ledger.TransferFrom(ctx, sm, p.addr, user, p.addr, amount)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pull allocation of %s", user.String())
	}
	rec = &Record{
		Allocation:  new(big.Int).Set(amount),
		Claimed:     big.NewInt(0),
		Category:    uint8(category),
		Initialized: true,
	}
	if err := p.putState(sm, recordKey(user), rec); err != nil {
		return nil, err
	}
	totals.TotalAllocated.Add(totals.TotalAllocated, amount)
	if err := p.putState(sm, _totalsKey, totals); err != nil {
		return nil, err
	}
	l, err := p.emit(ctx, VestActivatedEvent, &VestActivated{
		Account:  user.String(),
		Category: uint8(category),
		Amount:   amount,
	})
	if err != nil {
		return nil, err
	}
	return append(logs, l...), nil
}

// Claimable returns the amount user can claim at the block time
func (p *Protocol) Claimable(ctx context.Context, sr protocol.StateReader, user address.Address) (*big.Int, error) {
	return p.ClaimableAt(sr, user, protocol.MustGetBlockCtx(ctx).Now())
}

// ClaimableAt returns the amount user can claim at asOf
func (p *Protocol) ClaimableAt(sr protocol.StateReader, user address.Address, asOf uint64) (*big.Int, error) {
	rec, pipeline, err := p.recordAndPipeline(sr, user)
	if err != nil {
		return nil, err
	}
	return claimableOf(pipeline, rec, asOf)
}

// UnlockedAt returns the amount of user's allocation unlocked at asOf
func (p *Protocol) UnlockedAt(sr protocol.StateReader, user address.Address, asOf uint64) (*big.Int, error) {
	rec, pipeline, err := p.recordAndPipeline(sr, user)
	if err != nil {
		return nil, err
	}
	return ComputeUnlocked(pipeline, rec, asOf)
}

func (p *Protocol) recordAndPipeline(sr protocol.StateReader, user address.Address) (*Record, *Pipeline, error) {
	rec, err := p.Record(sr, user)
	if err != nil {
		return nil, nil, err
	}
	if !rec.Initialized {
		return rec, newPipeline(), nil
	}
	pipeline, err := p.Pipeline(sr, Category(rec.Category))
	if err != nil {
		return nil, nil, err
	}
	return rec, pipeline, nil
}

// Claim pays out the claimable amount of user from custody
func (p *Protocol) Claim(ctx context.Context, sm protocol.StateManager, user address.Address) (*big.Int, []*action.Log, error) {
	rec, pipeline, err := p.recordAndPipeline(sm, user)
	if err != nil {
		return nil, nil, err
	}
	if !rec.Initialized {
		return nil, nil, errors.Wrapf(protocol.ErrNotInitialized, "%s has no vesting record", user.String())
	}
	if err := p.auth.AssertNotPaused(sm); err != nil {
		return nil, nil, err
	}
	amount, err := claimableOf(pipeline, rec, protocol.MustGetBlockCtx(ctx).Now())
	if err != nil {
		return nil, nil, err
	}
	if amount.Sign() == 0 {
		return nil, nil, protocol.ErrNothingToClaim
	}
	totals, err := p.Totals(sm)
	if err != nil {
		return nil, nil, err
	}

	logs, err := p.ledger.Transfer(ctx, sm, p.addr, user, amount)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to pay out %s to %s", amount, user.String())
	}
	rec.Claimed.Add(rec.Claimed, amount)
	if err := p.putState(sm, recordKey(user), rec); err != nil {
		return nil, nil, err
	}
	totals.TotalClaimed.Add(totals.TotalClaimed, amount)
	if err := p.putState(sm, _totalsKey, totals); err != nil {
		return nil, nil, err
	}
	l, err := p.emit(ctx, ClaimedEvent, &Claimed{Account: user.String(), Amount: amount})
	if err != nil {
		return nil, nil, err
	}
	return amount, append(logs, l...), nil
}

// ReallocateRecord moves the whole record of from to a fresh address without moving tokens
func (p *Protocol) ReallocateRecord(ctx context.Context, sm protocol.StateManager, from, to address.Address) ([]*action.Log, error) {
	if protocol.IsZeroAddress(to) || protocol.AddressEqual(from, to) {
		return nil, errors.Wrap(protocol.ErrInvalidReallocation, "invalid destination")
	}
	dest, err := p.Record(sm, to)
	if err != nil {
		return nil, err
	}
	if dest.Initialized {
		return nil, errors.Wrapf(protocol.ErrInvalidReallocation, "%s already vests", to.String())
	}
	rec, err := p.Record(sm, from)
	if err != nil {
		return nil, err
	}
	if !rec.Initialized {
		return nil, errors.Wrapf(protocol.ErrNotInitialized, "%s has no vesting record", from.String())
	}
	if err := p.putState(sm, recordKey(to), rec); err != nil {
		return nil, err
	}
	if err := p.deleteState(sm, recordKey(from)); err != nil {
		return nil, err
	}
	return p.emit(ctx, RecordReallocatedEvent, &RecordReallocated{
		From:       from.String(),
		To:         to.String(),
		Allocation: rec.Allocation,
		Claimed:    rec.Claimed,
	})
}

// Record returns the record of user, uninitialized if absent
func (p *Protocol) Record(sr protocol.StateReader, user address.Address) (*Record, error) {
	rec := newRecord()
	if err := p.state(sr, recordKey(user), rec); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return newRecord(), nil
		}
		return nil, err
	}
	return rec, nil
}

// UnclaimedBalance returns allocation minus claimed of user
func (p *Protocol) UnclaimedBalance(sr protocol.StateReader, user address.Address) (*big.Int, error) {
	rec, err := p.Record(sr, user)
	if err != nil {
		return nil, err
	}
	return rec.Unclaimed(), nil
}

// Pipeline returns the pipeline of a category
func (p *Protocol) Pipeline(sr protocol.StateReader, category Category) (*Pipeline, error) {
	pipeline := newPipeline()
	if err := p.state(sr, pipelineKey(category), pipeline); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return newPipeline(), nil
		}
		return nil, err
	}
	return pipeline, nil
}

// Totals returns the ledger totals
func (p *Protocol) Totals(sr protocol.StateReader) (*Totals, error) {
	totals := newTotals()
	if err := p.state(sr, _totalsKey, totals); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return newTotals(), nil
		}
		return nil, err
	}
	return totals, nil
}

// Frozen returns true once the category configuration is frozen
func (p *Protocol) Frozen(sr protocol.StateReader) (bool, error) {
	f := frozenState{}
	if err := p.state(sr, _frozenKey, &f); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return false, nil
		}
		return false, err
	}
	return f.Frozen, nil
}

func (p *Protocol) assertNotFrozen(sr protocol.StateReader) error {
	frozen, err := p.Frozen(sr)
	if err != nil {
		return err
	}
	if frozen {
		return errors.Wrap(protocol.ErrRestricted, "category configuration is frozen")
	}
	return nil
}

func validCategory(category Category) error {
	if category == CategoryNone || !category.Valid() {
		return errors.Wrapf(protocol.ErrInvalidParameter, "invalid category %d", category)
	}
	return nil
}

func (p *Protocol) emit(ctx context.Context, name string, payload interface{}) ([]*action.Log, error) {
	l, err := protocol.NewEventLog(ctx, p.addr, name, payload)
	if err != nil {
		return nil, err
	}
	log.L().Debug("Vesting updated.", zap.String("event", name))
	return []*action.Log{l}, nil
}

func pipelineKey(category Category) []byte {
	k := make([]byte, 0, len(_pipelineKey)+1)
	k = append(k, _pipelineKey...)
	return append(k, byte(category))
}

func recordKey(user address.Address) []byte {
	k := make([]byte, 0, len(_recordKey)+20)
	k = append(k, _recordKey...)
	return append(k, user.Bytes()...)
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
