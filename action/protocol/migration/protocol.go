// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package migration

import (
	"context"
	"math/big"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/action/protocol/access"
	"github.com/iotexproject/iotex-vesting/action/protocol/legacy"
	"github.com/iotexproject/iotex-vesting/action/protocol/token"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/crypto"
	"github.com/iotexproject/iotex-vesting/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "migration"
	// SchemaVersion is the version of the persisted state layout
	SchemaVersion = uint32(1)

	_protocolNamespace = "Migration"
)

var (
	_schemaKey = []byte("schema")

	// ErrSchemaMismatch indicates the store was written with another state layout
	ErrSchemaMismatch = errors.New("schema version mismatch")

	_migrationMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_vesting_migration",
			Help: "Migration operations by type.",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(_migrationMtc)
}

type (
	// Genesis is the initial state of the whole migration
	Genesis struct {
		Access    access.Genesis
		Balances  []token.Alloc
		Pipelines []vesting.GenesisPipeline
	}

	// GlobalConfig is the configuration read by every gated operation
	GlobalConfig struct {
		TradingStartTime  uint64
		MaxVotingPower    *big.Int
		AuthorizedSigner  address.Address
		RegistrationNonce uint64
		Paused            bool
	}

	// Protocol is the token orchestrator. It composes the access gate, the legacy registry,
	// the vesting engine and the token ledger, and registers the transfer hooks of the ledger.
	Protocol struct {
		addr     address.Address
		gate     *access.Protocol
		registry *legacy.Protocol
		vest     *vesting.Protocol
		ledger   *token.Protocol
		verifier crypto.Verifier
		domain   crypto.Domain
	}
)

// NewProtocol wires the components together. The domain's verifying contract defaults to the token address.
func NewProtocol(verifier crypto.Verifier, domain crypto.Domain) *Protocol {
	ledger := token.NewProtocol()
	gate := access.NewProtocol(ledger)
	p := &Protocol{
		addr:     protocol.HashToAddress(ProtocolID),
		gate:     gate,
		registry: legacy.NewProtocol(gate),
		vest:     vesting.NewProtocol(gate, ledger),
		ledger:   ledger,
		verifier: verifier,
		domain:   domain,
	}
	if p.domain.VerifyingContract == nil {
		p.domain.VerifyingContract = ledger.Address()
	}
	ledger.AddHooks(p.pauseHook, p.restrictionHook)
	return p
}

// Name returns the name of protocol
func (p *Protocol) Name() string {
	return ProtocolID
}

// Gate returns the access gate
func (p *Protocol) Gate() *access.Protocol { return p.gate }

// Registry returns the legacy registry
func (p *Protocol) Registry() *legacy.Protocol { return p.registry }

// Vesting returns the vesting engine
func (p *Protocol) Vesting() *vesting.Protocol { return p.vest }

// Ledger returns the token ledger
func (p *Protocol) Ledger() *token.Protocol { return p.ledger }

// Domain returns the domain of the activation digest
func (p *Protocol) Domain() crypto.Domain { return p.domain }

// CreateGenesisStates writes roles, configuration, initial balances, category pipelines and the schema version
func (p *Protocol) CreateGenesisStates(ctx context.Context, sm protocol.StateManager, g Genesis) error {
	if err := p.gate.CreateGenesisStates(ctx, sm, g.Access); err != nil {
		return errors.Wrap(err, "failed to create access gate")
	}
	if err := p.ledger.CreateGenesisStates(ctx, sm, g.Balances); err != nil {
		return errors.Wrap(err, "failed to create initial balances")
	}
	if err := p.vest.CreateGenesisStates(ctx, sm, g.Pipelines); err != nil {
		return errors.Wrap(err, "failed to create category pipelines")
	}
	keyHash := hash.Hash160b(_schemaKey)
	_, err := sm.PutState(&schemaState{Version: SchemaVersion}, protocol.NamespaceOption(_protocolNamespace), protocol.KeyOption(keyHash[:]))
	return err
}

// CheckSchema fails unless the store carries the current schema version
func (p *Protocol) CheckSchema(sr protocol.StateReader) error {
	s := schemaState{}
	keyHash := hash.Hash160b(_schemaKey)
	if _, err := sr.State(&s, protocol.NamespaceOption(_protocolNamespace), protocol.KeyOption(keyHash[:])); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return errors.Wrap(protocol.ErrNotInitialized, "no schema version")
		}
		return err
	}
	if s.Version != SchemaVersion {
		return errors.Wrapf(ErrSchemaMismatch, "expecting %d, got %d", SchemaVersion, s.Version)
	}
	return nil
}

// Handle dispatches an action to the orchestrator or to the component owning it
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	var (
		logs []*action.Log
		err  error
	)
	caller := protocol.MustGetActionCtx(ctx).Caller
	switch act := act.(type) {
	case *action.ActivateAccount:
		logs, err = p.ActivateAccount(ctx, sm, act.Signature)
	case *action.ActivateAccountFor:
		logs, err = p.ActivateAccountFor(ctx, sm, act.Account)
	case *action.Claim:
		_, logs, err = p.Claim(ctx, sm, caller)
	case *action.ClaimFor:
		_, logs, err = p.ClaimFor(ctx, sm, act.Account)
	case *action.Reallocate:
		logs, err = p.ReallocateFrom(ctx, sm, act.From, act.To, act.Amount)
	case *action.RescueTokens:
		logs, err = p.RescueTokens(ctx, sm, act.To, act.Token, act.Amount)
	case *action.Transfer:
		logs, err = p.Transfer(ctx, sm, act.To, act.Amount)
	case *action.TransferFrom:
		logs, err = p.TransferFrom(ctx, sm, act.From, act.To, act.Amount)
	case *action.Approve:
		logs, err = p.Approve(ctx, sm, act.Spender, act.Amount)
	case *action.Delegate:
		logs, err = p.Delegate(ctx, sm, act.Delegatee)
	default:
		for _, component := range []protocol.Protocol{p.gate, p.registry, p.vest} {
			r, err := component.Handle(ctx, act, sm)
			if err != nil {
				return nil, err
			}
			if r != nil {
				return r, nil
			}
		}
		return nil, errors.Wrapf(protocol.ErrUnsupportedAction, "%s", act.Name())
	}
	if err != nil {
		return nil, err
	}
	return (&action.Receipt{Status: action.ReceiptStatusSuccess}).AddLogs(logs...), nil
}

// GlobalConfig returns the configuration assembled from the access gate and the registry
func (p *Protocol) GlobalConfig(sr protocol.StateReader) (*GlobalConfig, error) {
	cfg, err := p.gate.Config(sr)
	if err != nil {
		return nil, err
	}
	roles, err := p.gate.Roles(sr)
	if err != nil {
		return nil, err
	}
	nonce, err := p.registry.Nonce(sr)
	if err != nil {
		return nil, err
	}
	return &GlobalConfig{
		TradingStartTime:  cfg.TradingStartTime,
		MaxVotingPower:    cfg.MaxVotingPower,
		AuthorizedSigner:  roles.Signer,
		RegistrationNonce: nonce,
		Paused:            cfg.Paused,
	}, nil
}

// custodyCtx makes the vesting custody the caller of the nested ledger movements
func (p *Protocol) custodyCtx(ctx context.Context) context.Context {
	actCtx := protocol.MustGetActionCtx(ctx)
	actCtx.Caller = p.vest.Custody()
	return protocol.WithActionCtx(ctx, actCtx)
}

func (p *Protocol) emit(ctx context.Context, name string, payload interface{}) ([]*action.Log, error) {
	l, err := protocol.NewEventLog(ctx, p.addr, name, payload)
	if err != nil {
		return nil, err
	}
	return []*action.Log{l}, nil
}
