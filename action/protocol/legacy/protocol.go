// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package legacy

import (
	"context"
	"math/big"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/pkg/log"
	"github.com/iotexproject/iotex-vesting/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "legacy"

	// MaxAmountBits is the width of a legacy amount
	MaxAmountBits = 112

	_protocolNamespace = "Legacy"
)

var (
	_recordKey = []byte("rec")
	_nonceKey  = []byte("non")
)

type (
	// Authorizer checks the caller of a bulk insert
	Authorizer interface {
		AssertOwnerOrOperator(context.Context, protocol.StateReader) error
	}

	// Protocol is the registry of legacy holders and their activation status.
	// Activate and ReallocateFrom are only reachable through the migration protocol.
	Protocol struct {
		addr address.Address
		auth Authorizer
	}
)

// NewProtocol instantiates the legacy registry
func NewProtocol(auth Authorizer) *Protocol {
	return &Protocol{
		addr: protocol.HashToAddress(ProtocolID),
		auth: auth,
	}
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Handle handles the bulk insert of legacy users
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	bi, ok := act.(*action.BulkInsertLegacyUsers)
	if !ok {
		return nil, nil
	}
	categories := make([]vesting.Category, len(bi.Categories))
	for i, c := range bi.Categories {
		categories[i] = vesting.Category(c)
	}
	logs, err := p.BulkInsert(ctx, sm, bi.Nonce, bi.Users, bi.Amounts, categories)
	if err != nil {
		return nil, err
	}
	return (&action.Receipt{Status: action.ReceiptStatusSuccess}).AddLogs(logs...), nil
}

// BulkInsert registers a batch of legacy users if expectedNonce equals the stored nonce
func (p *Protocol) BulkInsert(
	ctx context.Context,
	sm protocol.StateManager,
	expectedNonce uint64,
	users []address.Address,
	amounts []*big.Int,
	categories []vesting.Category,
) ([]*action.Log, error) {
	if err := p.auth.AssertOwnerOrOperator(ctx, sm); err != nil {
		return nil, err
	}
	nonce, err := p.Nonce(sm)
	if err != nil {
		return nil, err
	}
	if nonce != expectedNonce {
		return nil, errors.Wrapf(protocol.ErrStaleNonce, "expecting %d, got %d", nonce, expectedNonce)
	}
	if len(users) == 0 || len(users) != len(amounts) || len(users) != len(categories) {
		return nil, errors.Wrapf(
			protocol.ErrInvalidParameter,
			"array lengths users %d, amounts %d, categories %d",
			len(users), len(amounts), len(categories),
		)
	}
	for i := range users {
		if err := p.validateEntry(sm, users[i], amounts[i], categories[i]); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
	}

	logs := make([]*action.Log, 0, len(users)+1)
	for i, user := range users {
		if err := p.putRecord(sm, user, &Record{
			Amount:   new(big.Int).Set(amounts[i]),
			Category: uint8(categories[i]),
		}); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i)
		}
		l, err := protocol.NewEventLog(ctx, p.addr, LegacyUserRegisteredEvent, &UserRecorded{
			Account:  user.String(),
			Amount:   amounts[i],
			Category: uint8(categories[i]),
		})
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := p.putState(sm, _nonceKey, &nonceState{Nonce: nonce + 1}); err != nil {
		return nil, err
	}
	l, err := protocol.NewEventLog(ctx, p.addr, NonceUpdatedEvent, &NonceUpdated{Previous: nonce, Current: nonce + 1})
	if err != nil {
		return nil, err
	}
	log.L().Debug("Legacy users inserted.", zap.Int("count", len(users)), zap.Uint64("nonce", nonce+1))
	return append(logs, l), nil
}

func (p *Protocol) validateEntry(sr protocol.StateReader, user address.Address, amount *big.Int, category vesting.Category) error {
	if protocol.IsZeroAddress(user) {
		return errors.Wrap(protocol.ErrInvalidParameter, "user is zero address")
	}
	if amount == nil || amount.Sign() < 0 || amount.BitLen() > MaxAmountBits {
		return errors.Wrapf(protocol.ErrInvalidParameter, "amount %v out of range", amount)
	}
	if !category.Valid() {
		return errors.Wrapf(protocol.ErrInvalidParameter, "unknown category %d", category)
	}
	rec, err := p.Record(sr, user)
	if err != nil {
		return err
	}
	if rec != nil && rec.IsActivated {
		return errors.Wrapf(protocol.ErrAlreadyInitialized, "%s is already activated", user.String())
	}
	return nil
}

// Activate marks a registered user activated
func (p *Protocol) Activate(ctx context.Context, sm protocol.StateManager, user address.Address) ([]*action.Log, error) {
	rec, err := p.Record(sm, user)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(protocol.ErrNotInitialized, "%s is not a legacy user", user.String())
	}
	if rec.IsActivated {
		return nil, errors.Wrapf(protocol.ErrAlreadyInitialized, "%s is already activated", user.String())
	}
	rec.IsActivated = true
	if err := p.putRecord(sm, user, rec); err != nil {
		return nil, err
	}
	l, err := protocol.NewEventLog(ctx, p.addr, LegacyUserActivatedEvent, &UserRecorded{
		Account:  user.String(),
		Amount:   rec.Amount,
		Category: rec.Category,
	})
	if err != nil {
		return nil, err
	}
	return []*action.Log{l}, nil
}

// ReallocateFrom moves the record of from to a fresh address
func (p *Protocol) ReallocateFrom(ctx context.Context, sm protocol.StateManager, from, to address.Address) ([]*action.Log, error) {
	if protocol.IsZeroAddress(to) {
		return nil, errors.Wrap(protocol.ErrInvalidParameter, "reallocate to zero address")
	}
	dest, err := p.Record(sm, to)
	if err != nil {
		return nil, err
	}
	if dest != nil {
		return nil, errors.Wrapf(protocol.ErrInvalidReallocation, "%s is already a legacy user", to.String())
	}
	rec, err := p.Record(sm, from)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrapf(protocol.ErrNotInitialized, "%s is not a legacy user", from.String())
	}
	if err := p.putRecord(sm, to, rec); err != nil {
		return nil, err
	}
	if err := p.deleteState(sm, recordKey(from)); err != nil {
		return nil, err
	}
	l, err := protocol.NewEventLog(ctx, p.addr, LegacyRecordReallocatedEvent, &RecordReallocated{
		From:        from.String(),
		To:          to.String(),
		Amount:      rec.Amount,
		Category:    rec.Category,
		IsActivated: rec.IsActivated,
	})
	if err != nil {
		return nil, err
	}
	return []*action.Log{l}, nil
}

// Record returns the record of a user, nil if unregistered
func (p *Protocol) Record(sr protocol.StateReader, user address.Address) (*Record, error) {
	rec := Record{}
	if err := p.state(sr, recordKey(user), &rec); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Nonce returns the bulk insert nonce
func (p *Protocol) Nonce(sr protocol.StateReader) (uint64, error) {
	n := nonceState{}
	if err := p.state(sr, _nonceKey, &n); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return 0, nil
		}
		return 0, err
	}
	return n.Nonce, nil
}

// IsLegacyUser returns true if user is registered
func (p *Protocol) IsLegacyUser(sr protocol.StateReader, user address.Address) (bool, error) {
	rec, err := p.Record(sr, user)
	return rec != nil, err
}

// IsLegacyUserAndActivated returns true if user is registered and activated
func (p *Protocol) IsLegacyUserAndActivated(sr protocol.StateReader, user address.Address) (bool, error) {
	rec, err := p.Record(sr, user)
	return rec != nil && rec.IsActivated, err
}

// IsLegacyUserAndNotActivated returns true if user is registered and not yet activated
func (p *Protocol) IsLegacyUserAndNotActivated(sr protocol.StateReader, user address.Address) (bool, error) {
	rec, err := p.Record(sr, user)
	return rec != nil && !rec.IsActivated, err
}

// Category returns the category of user, CategoryNone if unregistered
func (p *Protocol) Category(sr protocol.StateReader, user address.Address) (vesting.Category, error) {
	rec, err := p.Record(sr, user)
	if err != nil || rec == nil {
		return vesting.CategoryNone, err
	}
	return vesting.Category(rec.Category), nil
}

// Allocation returns the registered amount of user, zero if unregistered
func (p *Protocol) Allocation(sr protocol.StateReader, user address.Address) (*big.Int, error) {
	rec, err := p.Record(sr, user)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return big.NewInt(0), nil
	}
	return rec.Amount, nil
}

func recordKey(user address.Address) []byte {
	k := make([]byte, 0, len(_recordKey)+20)
	k = append(k, _recordKey...)
	return append(k, user.Bytes()...)
}

func (p *Protocol) putRecord(sm protocol.StateManager, user address.Address, rec *Record) error {
	return p.putState(sm, recordKey(user), rec)
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
