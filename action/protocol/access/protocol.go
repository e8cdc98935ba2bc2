// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package access

import (
	"context"
	"math/big"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "access"

	_protocolNamespace = "Access"
)

var (
	_rolesKey  = []byte("rol")
	_configKey = []byte("cfg")
	_flagsKey  = []byte("flg")

	// MaxVotingPowerCeiling is the hard ceiling of the configurable voting cap
	MaxVotingPowerCeiling = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))
)

type (
	// DelegationResetter clears the vote delegation of an account
	DelegationResetter interface {
		ResetDelegation(context.Context, protocol.StateManager, address.Address) ([]*action.Log, error)
	}

	// Genesis is the initial role table and configuration
	Genesis struct {
		Owner            address.Address
		Operator         address.Address
		Signer           address.Address
		Guardians        []address.Address
		TradingStartTime uint64
		MaxVotingPower   *big.Int
	}

	// Protocol is the access gate: roles, account flags, pause gate and global config
	Protocol struct {
		addr     address.Address
		resetter DelegationResetter
	}
)

// NewProtocol instantiates an access gate
func NewProtocol(resetter DelegationResetter) *Protocol {
	return &Protocol{
		addr:     protocol.HashToAddress(ProtocolID),
		resetter: resetter,
	}
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Address returns the address the access events are emitted from
func (p *Protocol) Address() address.Address {
	return p.addr
}

// CreateGenesisStates writes the initial role table and configuration
func (p *Protocol) CreateGenesisStates(ctx context.Context, sm protocol.StateManager, g Genesis) error {
	if protocol.IsZeroAddress(g.Owner) {
		return errors.Wrap(protocol.ErrInvalidParameter, "owner is zero address")
	}
	if err := p.state(sm, _rolesKey, &Roles{}); err == nil {
		return errors.Wrap(protocol.ErrAlreadyInitialized, "access gate")
	} else if errors.Cause(err) != state.ErrStateNotExist {
		return err
	}
	maxVotingPower := g.MaxVotingPower
	if maxVotingPower == nil || maxVotingPower.Sign() <= 0 || maxVotingPower.Cmp(MaxVotingPowerCeiling) > 0 {
		maxVotingPower = new(big.Int).Set(MaxVotingPowerCeiling)
	}
	if err := p.putState(sm, _rolesKey, &Roles{
		Owner:    g.Owner,
		Operator: g.Operator,
		Signer:   g.Signer,
	}); err != nil {
		return err
	}
	if err := p.putState(sm, _configKey, &Config{
		TradingStartTime: g.TradingStartTime,
		MaxVotingPower:   new(big.Int).Set(maxVotingPower),
	}); err != nil {
		return err
	}
	for _, guardian := range g.Guardians {
		f, err := p.Flags(sm, guardian)
		if err != nil {
			return err
		}
		f.Guardian = true
		if err := p.putFlags(sm, guardian, f); err != nil {
			return err
		}
	}
	return nil
}

// Handle handles the administrative actions of the access gate
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	var (
		logs []*action.Log
		err  error
	)
	switch act := act.(type) {
	case *action.SetAuthorizedSigner:
		logs, err = p.SetAuthorizedSigner(ctx, sm, act.Signer)
	case *action.SetGuardian:
		logs, err = p.SetGuardian(ctx, sm, act.Guardian, act.Enabled)
	case *action.SetOperator:
		logs, err = p.SetOperator(ctx, sm, act.Operator)
	case *action.SetMaxVotingPower:
		logs, err = p.SetMaxVotingPower(ctx, sm, act.Amount)
	case *action.SetTradingStartTime:
		logs, err = p.SetTradingStartTime(ctx, sm, act.Time)
	case *action.SetPreTradingAllowList:
		logs, err = p.SetPreTradingAllowList(ctx, sm, act.Account, act.Allowed)
	case *action.SetVotingExcluded:
		logs, err = p.SetVotingExcluded(ctx, sm, act.Account, act.Excluded)
	case *action.SetBlacklisted:
		logs, err = p.SetBlacklisted(ctx, sm, act.Account, act.Blacklisted)
	case *action.Pause:
		logs, err = p.Pause(ctx, sm)
	case *action.Unpause:
		logs, err = p.Unpause(ctx, sm)
	case *action.TransferOwnership:
		logs, err = p.TransferOwnership(ctx, sm, act.NewOwner)
	case *action.AcceptOwnership:
		logs, err = p.AcceptOwnership(ctx, sm)
	case *action.RenounceOwnership:
		err = p.RenounceOwnership(ctx, sm)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return (&action.Receipt{Status: action.ReceiptStatusSuccess}).AddLogs(logs...), nil
}

// Roles returns the role table
func (p *Protocol) Roles(sr protocol.StateReader) (*Roles, error) {
	r := Roles{}
	if err := p.state(sr, _rolesKey, &r); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return nil, errors.Wrap(protocol.ErrNotInitialized, "access gate")
		}
		return nil, err
	}
	return &r, nil
}

// Config returns the global configuration
func (p *Protocol) Config(sr protocol.StateReader) (*Config, error) {
	c := Config{}
	if err := p.state(sr, _configKey, &c); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return nil, errors.Wrap(protocol.ErrNotInitialized, "access gate")
		}
		return nil, err
	}
	return &c, nil
}

// Flags returns the flags of an account, all false when never set
func (p *Protocol) Flags(sr protocol.StateReader, addr address.Address) (*Flags, error) {
	f := Flags{}
	if err := p.state(sr, flagsKey(addr), &f); err != nil && errors.Cause(err) != state.ErrStateNotExist {
		return nil, err
	}
	return &f, nil
}

func (p *Protocol) putFlags(sm protocol.StateManager, addr address.Address, f *Flags) error {
	if f.empty() {
		return p.deleteState(sm, flagsKey(addr))
	}
	return p.putState(sm, flagsKey(addr), f)
}

func flagsKey(addr address.Address) []byte {
	k := make([]byte, 0, len(_flagsKey)+len(addr.Bytes()))
	k = append(k, _flagsKey...)
	return append(k, addr.Bytes()...)
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
