// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/db"
	"github.com/iotexproject/iotex-vesting/pkg/lifecycle"
	"github.com/iotexproject/iotex-vesting/pkg/log"
	"github.com/iotexproject/iotex-vesting/pkg/util/byteutil"
	"github.com/iotexproject/iotex-vesting/state"
)

const (
	// AccountKVNamespace is the default namespace of states
	AccountKVNamespace = "Account"
	// SystemNamespace stores the factory's own metadata
	SystemNamespace = "System"
)

var (
	_currentHeightKey = []byte("currentHeight")

	// ErrInvalidHeight is returned when committing a working set out of order
	ErrInvalidHeight = errors.New("invalid working set height")
)

// Factory owns the committed state and hands out working sets
type Factory struct {
	lifecycle.Readiness
	mutex  sync.RWMutex
	dao    db.KVStore
	height uint64
}

// NewFactory creates a state factory on top of a KV store
func NewFactory(dao db.KVStore) *Factory {
	return &Factory{dao: dao}
}

// Start starts the KV store and loads the committed height, marking an empty store at height 0
func (sf *Factory) Start(ctx context.Context) error {
	if err := sf.dao.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start state store")
	}
	h, err := sf.dao.Get(SystemNamespace, _currentHeightKey)
	switch errors.Cause(err) {
	case nil:
		sf.height = byteutil.BytesToUint64BigEndian(h)
	case db.ErrNotExist:
		sf.height = 0
		if err := sf.dao.Put(SystemNamespace, _currentHeightKey, byteutil.Uint64ToBytesBigEndian(0)); err != nil {
			return errors.Wrap(err, "failed to initialize current height")
		}
	default:
		return errors.Wrap(err, "failed to load current height")
	}
	log.L().Info("State factory started.", zap.Uint64("height", sf.height))
	return sf.TurnOn()
}

// Stop stops the KV store
func (sf *Factory) Stop(ctx context.Context) error {
	if err := sf.TurnOff(); err != nil {
		return err
	}
	return sf.dao.Stop(ctx)
}

// Height returns the committed height
func (sf *Factory) Height() (uint64, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	return sf.height, nil
}

// State reads the committed state of the key
func (sf *Factory) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	ns := namespaceOf(cfg)
	value, err := sf.dao.Get(ns, cfg.Key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return sf.height, errors.Wrapf(state.ErrStateNotExist, "key %x in %s", cfg.Key, ns)
		}
		return sf.height, err
	}
	return sf.height, state.Deserialize(s, value)
}

// NewWorkingSet returns a working set that commits at the next height
func (sf *Factory) NewWorkingSet() (*WorkingSet, error) {
	if !sf.IsReady() {
		return nil, lifecycle.ErrWrongState
	}
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	return newWorkingSet(sf.height+1, sf.dao), nil
}

// Commit writes the staged writes and the new height in one batch
func (sf *Factory) Commit(ws *WorkingSet) error {
	if ws.closed {
		return ErrWorkingSetClosed
	}
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	if ws.height != sf.height+1 {
		return errors.Wrapf(ErrInvalidHeight, "expecting %d, got %d", sf.height+1, ws.height)
	}
	b := ws.batch()
	b.Put(SystemNamespace, _currentHeightKey, byteutil.Uint64ToBytesBigEndian(ws.height), "failed to put height")
	if err := sf.dao.WriteBatch(b); err != nil {
		return errors.Wrapf(err, "failed to commit working set at height %d", ws.height)
	}
	_stateDBMtc.WithLabelValues("commit").Inc()
	sf.height = ws.height
	ws.Discard()
	return nil
}
