// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action"
	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/action/protocol/legacy"
	"github.com/iotexproject/iotex-vesting/action/protocol/migration"
	"github.com/iotexproject/iotex-vesting/action/protocol/vesting"
	"github.com/iotexproject/iotex-vesting/config"
	"github.com/iotexproject/iotex-vesting/crypto"
	"github.com/iotexproject/iotex-vesting/db"
	"github.com/iotexproject/iotex-vesting/pkg/lifecycle"
	"github.com/iotexproject/iotex-vesting/pkg/log"
	"github.com/iotexproject/iotex-vesting/pkg/probe"
	"github.com/iotexproject/iotex-vesting/pkg/routine"
	"github.com/iotexproject/iotex-vesting/pkg/util/byteutil"
	"github.com/iotexproject/iotex-vesting/state/factory"
)

const _readCacheExpire = 30 * time.Second

var (
	_actionMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_vesting_action",
			Help: "Executed actions by name and status.",
		},
		[]string{"name", "status"},
	)
	_stateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iotex_vesting_state",
			Help: "Committed height and vesting totals.",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(_actionMtc)
	prometheus.MustRegister(_stateGauge)
}

type (
	// Option sets an option of ChainService
	Option func(*ChainService)

	// Status is the migration view of an account
	Status struct {
		Balance   *big.Int
		Votes     *big.Int
		Claimable *big.Int
		Legacy    *legacy.Record
		Vest      *vesting.Record
	}

	// ChainService executes actions against the committed migration state, one at a time
	ChainService struct {
		lifecycle lifecycle.Lifecycle
		mu        sync.Mutex
		cfg       config.Config
		sf        *factory.Factory
		mig       *migration.Protocol
		clk       clock.Clock
		verifier  crypto.Verifier
		readCache *ReadCache
		probe     *probe.Server
		reporter  *routine.RecurringTask
	}
)

// WithClock sets the clock stamping every action
func WithClock(clk clock.Clock) Option {
	return func(cs *ChainService) {
		cs.clk = clk
	}
}

// WithVerifier sets the recoverer of activation signatures
func WithVerifier(v crypto.Verifier) Option {
	return func(cs *ChainService) {
		cs.verifier = v
	}
}

// New creates a chain service on the configured state store
func New(cfg config.Config, opts ...Option) (*ChainService, error) {
	dao, err := db.CreateKVStore(cfg.DB, cfg.DB.DbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create state store")
	}
	cs := &ChainService{
		cfg:       cfg,
		sf:        factory.NewFactory(dao),
		clk:       clock.New(),
		verifier:  crypto.NewSecp256k1Verifier(),
		readCache: NewReadCache(_readCacheExpire),
	}
	for _, opt := range opts {
		opt(cs)
	}
	cs.mig = migration.NewProtocol(cs.verifier, cfg.Genesis.Domain())
	cs.reporter = routine.NewRecurringTask(cs.report, cfg.System.ReportInterval, routine.WithClock(cs.clk))
	cs.lifecycle.Add(cs.reporter)
	if cfg.System.HTTPStatsPort > 0 {
		cs.probe = probe.New(cfg.System.HTTPStatsPort)
		cs.lifecycle.Add(cs.probe)
	}
	return cs, nil
}

// Start opens the state store, writes the genesis state on an empty store and starts the
// background services
func (cs *ChainService) Start(ctx context.Context) error {
	if err := cs.sf.Start(ctx); err != nil {
		return err
	}
	height, err := cs.sf.Height()
	if err != nil {
		return err
	}
	if height == 0 {
		if err := cs.createGenesisStates(ctx); err != nil {
			return errors.Wrap(err, "failed to create genesis states")
		}
	} else if err := cs.mig.CheckSchema(cs.sf); err != nil {
		return errors.Wrap(err, "refusing to start on the state store")
	}
	if err := cs.lifecycle.OnStart(ctx); err != nil {
		return err
	}
	if cs.probe != nil {
		cs.probe.Ready()
	}
	cs.report()
	return nil
}

// Stop stops the background services and closes the state store
func (cs *ChainService) Stop(ctx context.Context) error {
	if cs.probe != nil {
		cs.probe.NotReady()
	}
	if err := cs.lifecycle.OnStop(ctx); err != nil {
		return err
	}
	return cs.sf.Stop(ctx)
}

// Orchestrator returns the migration protocol
func (cs *ChainService) Orchestrator() *migration.Protocol { return cs.mig }

// Height returns the committed height
func (cs *ChainService) Height() (uint64, error) { return cs.sf.Height() }

func (cs *ChainService) createGenesisStates(ctx context.Context) error {
	g, err := cs.cfg.Genesis.MigrationGenesis()
	if err != nil {
		return err
	}
	h, err := cs.cfg.Genesis.Hash()
	if err != nil {
		return err
	}
	ws, err := cs.sf.NewWorkingSet()
	if err != nil {
		return err
	}
	defer ws.Discard()
	height, _ := ws.Height()
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{
		BlockHeight:    height,
		BlockTimeStamp: cs.clk.Now(),
	})
	ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     g.Access.Owner,
		ActionHash: h,
	})
	if err := cs.mig.CreateGenesisStates(ctx, ws, g); err != nil {
		return err
	}
	if err := cs.sf.Commit(ws); err != nil {
		return err
	}
	log.L().Info("Genesis states created.", log.Hex("genesisHash", h[:]), zap.Int("balances", len(g.Balances)))
	return nil
}

// Execute runs an action of caller in its own working set, committing it on success and
// discarding every write on failure.
// The caller is trusted as given: there is no signed envelope, so Execute is meant for a local
// operator process and must not be exposed over the network as is.
func (cs *ChainService) Execute(ctx context.Context, caller address.Address, act action.Action) (*action.Receipt, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	ws, err := cs.sf.NewWorkingSet()
	if err != nil {
		return nil, err
	}
	defer ws.Discard()
	height, _ := ws.Height()
	now := cs.clk.Now()
	actHash := actionHash(caller, act, height)
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{
		BlockHeight:    height,
		BlockTimeStamp: now,
	})
	ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     caller,
		ActionHash: actHash,
	})
	receipt, err := cs.mig.Handle(ctx, act, ws)
	if err != nil {
		_actionMtc.WithLabelValues(act.Name(), "failure").Inc()
		log.L().Warn("Action failed.",
			zap.String("action", act.Name()),
			zap.String("caller", caller.String()),
			zap.Error(err))
		return nil, err
	}
	if err := cs.sf.Commit(ws); err != nil {
		return nil, errors.Wrapf(err, "failed to commit %s", act.Name())
	}
	cs.readCache.Clear()
	receipt.BlockHeight = height
	receipt.ActionHash = actHash
	_actionMtc.WithLabelValues(act.Name(), "success").Inc()
	log.L().Info("Action executed.",
		zap.String("action", act.Name()),
		zap.String("caller", caller.String()),
		zap.Uint64("height", height),
		zap.Int("logs", len(receipt.Logs())))
	return receipt, nil
}

// Claimable returns the amount account could claim now
func (cs *ChainService) Claimable(account address.Address) (*big.Int, error) {
	now := cs.clk.Now().Unix()
	return cs.cachedAmount("claimable", now, account, func() (*big.Int, error) {
		return cs.mig.Vesting().ClaimableAt(cs.sf, account, uint64(now))
	})
}

// Votes returns the voting power of account
func (cs *ChainService) Votes(account address.Address) (*big.Int, error) {
	return cs.cachedAmount("votes", 0, account, func() (*big.Int, error) {
		return cs.mig.Votes(cs.sf, account)
	})
}

// BalanceOf returns the token balance of account
func (cs *ChainService) BalanceOf(account address.Address) (*big.Int, error) {
	return cs.cachedAmount("balance", 0, account, func() (*big.Int, error) {
		return cs.mig.Ledger().BalanceOf(cs.sf, account)
	})
}

// LegacyRecord returns the registry record of account, nil if unregistered
func (cs *ChainService) LegacyRecord(account address.Address) (*legacy.Record, error) {
	return cs.mig.Registry().Record(cs.sf, account)
}

// VestRecord returns the vesting record of account
func (cs *ChainService) VestRecord(account address.Address) (*vesting.Record, error) {
	return cs.mig.Vesting().Record(cs.sf, account)
}

// GlobalConfig returns the committed global configuration
func (cs *ChainService) GlobalConfig() (*migration.GlobalConfig, error) {
	return cs.mig.GlobalConfig(cs.sf)
}

// Status collects the migration view of account
func (cs *ChainService) Status(account address.Address) (*Status, error) {
	var (
		s   Status
		err error
	)
	if s.Balance, err = cs.BalanceOf(account); err != nil {
		return nil, err
	}
	if s.Votes, err = cs.Votes(account); err != nil {
		return nil, err
	}
	if s.Claimable, err = cs.Claimable(account); err != nil {
		return nil, err
	}
	if s.Legacy, err = cs.LegacyRecord(account); err != nil {
		return nil, err
	}
	if s.Vest, err = cs.VestRecord(account); err != nil {
		return nil, err
	}
	return &s, nil
}

func (cs *ChainService) cachedAmount(name string, ts int64, account address.Address, read func() (*big.Int, error)) (*big.Int, error) {
	height, err := cs.sf.Height()
	if err != nil {
		return nil, err
	}
	key := ReadKey{
		Name:      name,
		Height:    height,
		Timestamp: ts,
		Args:      [][]byte{account.Bytes()},
	}
	k := key.Hash()
	if d, ok := cs.readCache.Get(k); ok {
		return new(big.Int).SetBytes(d), nil
	}
	amount, err := read()
	if err != nil {
		return nil, err
	}
	cs.readCache.Put(k, amount.Bytes())
	return amount, nil
}

func (cs *ChainService) report() {
	height, err := cs.sf.Height()
	if err != nil {
		return
	}
	_stateGauge.WithLabelValues("height").Set(float64(height))
	totals, err := cs.mig.Vesting().Totals(cs.sf)
	if err != nil {
		log.L().Warn("Failed to read vesting totals.", zap.Error(err))
		return
	}
	allocated, _ := new(big.Float).SetInt(totals.TotalAllocated).Float64()
	claimed, _ := new(big.Float).SetInt(totals.TotalClaimed).Float64()
	_stateGauge.WithLabelValues("totalAllocated").Set(allocated)
	_stateGauge.WithLabelValues("totalClaimed").Set(claimed)
}

func actionHash(caller address.Address, act action.Action, height uint64) hash.Hash256 {
	b := make([]byte, 0, 64)
	b = append(b, caller.Bytes()...)
	b = append(b, act.Name()...)
	b = append(b, byteutil.Uint64ToBytesBigEndian(height)...)
	return hash.Hash256b(b)
}
