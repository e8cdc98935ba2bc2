// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"sort"

	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotexproject/iotex-vesting/action/protocol"
	"github.com/iotexproject/iotex-vesting/db"
	"github.com/iotexproject/iotex-vesting/db/batch"
	"github.com/iotexproject/iotex-vesting/state"
)

var (
	_stateDBMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_vesting_state_db",
			Help: "Working set operations.",
		},
		[]string{"type"},
	)

	// ErrNoSnapshot is returned when reverting to an unknown snapshot
	ErrNoSnapshot = errors.New("snapshot does not exist")
	// ErrWorkingSetClosed is returned when a committed or discarded working set is used again
	ErrWorkingSetClosed = errors.New("working set is closed")
)

func init() {
	prometheus.MustRegister(_stateDBMtc)
}

type (
	cacheEntry struct {
		Namespace string
		Key       []byte
		Value     []byte
		Deleted   bool
	}

	// WorkingSet stages the reads and writes of one action on top of the committed state
	WorkingSet struct {
		height       uint64
		dao          db.KVStore
		cache        map[string]*cacheEntry
		snapshots    map[int]map[string]*cacheEntry
		nextSnapshot int
		closed       bool
	}
)

func newWorkingSet(height uint64, dao db.KVStore) *WorkingSet {
	return &WorkingSet{
		height:    height,
		dao:       dao,
		cache:     make(map[string]*cacheEntry),
		snapshots: make(map[int]map[string]*cacheEntry),
	}
}

func cacheKey(ns string, key []byte) string {
	return ns + "\x00" + string(key)
}

func namespaceOf(cfg *protocol.StateConfig) string {
	if cfg.Namespace == "" {
		return AccountKVNamespace
	}
	return cfg.Namespace
}

// Height returns the height the working set is going to commit
func (ws *WorkingSet) Height() (uint64, error) {
	return ws.height, nil
}

// State reads the state of the key, staged writes first
func (ws *WorkingSet) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	_stateDBMtc.WithLabelValues("get").Inc()
	if ws.closed {
		return ws.height, ErrWorkingSetClosed
	}
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	ns := namespaceOf(cfg)
	if e, ok := ws.cache[cacheKey(ns, cfg.Key)]; ok {
		if e.Deleted {
			return ws.height, errors.Wrapf(state.ErrStateNotExist, "key %x in %s is deleted", cfg.Key, ns)
		}
		return ws.height, state.Deserialize(s, e.Value)
	}
	value, err := ws.dao.Get(ns, cfg.Key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return ws.height, errors.Wrapf(state.ErrStateNotExist, "key %x in %s", cfg.Key, ns)
		}
		return ws.height, errors.Wrapf(err, "failed to get key %x in %s", cfg.Key, ns)
	}
	return ws.height, state.Deserialize(s, value)
}

// PutState stages the state of the key
func (ws *WorkingSet) PutState(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	_stateDBMtc.WithLabelValues("put").Inc()
	if ws.closed {
		return ws.height, ErrWorkingSetClosed
	}
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	value, err := state.Serialize(s)
	if err != nil {
		return ws.height, errors.Wrapf(err, "failed to serialize state %T", s)
	}
	ns := namespaceOf(cfg)
	ws.cache[cacheKey(ns, cfg.Key)] = &cacheEntry{
		Namespace: ns,
		Key:       cfg.Key,
		Value:     value,
	}
	return ws.height, nil
}

// DelState stages the deletion of the key
func (ws *WorkingSet) DelState(opts ...protocol.StateOption) (uint64, error) {
	_stateDBMtc.WithLabelValues("delete").Inc()
	if ws.closed {
		return ws.height, ErrWorkingSetClosed
	}
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	ns := namespaceOf(cfg)
	ws.cache[cacheKey(ns, cfg.Key)] = &cacheEntry{
		Namespace: ns,
		Key:       cfg.Key,
		Deleted:   true,
	}
	return ws.height, nil
}

// Snapshot takes a snapshot of the staged writes
func (ws *WorkingSet) Snapshot() int {
	_stateDBMtc.WithLabelValues("snapshot").Inc()
	id := ws.nextSnapshot
	ws.nextSnapshot++
	ws.snapshots[id] = deepcopy.Copy(ws.cache).(map[string]*cacheEntry)
	return id
}

// Revert restores the staged writes to a snapshot, dropping newer snapshots
func (ws *WorkingSet) Revert(id int) error {
	_stateDBMtc.WithLabelValues("revert").Inc()
	snapshot, ok := ws.snapshots[id]
	if !ok {
		return errors.Wrapf(ErrNoSnapshot, "id %d", id)
	}
	ws.cache = deepcopy.Copy(snapshot).(map[string]*cacheEntry)
	for i := range ws.snapshots {
		if i > id {
			delete(ws.snapshots, i)
		}
	}
	return nil
}

// Discard drops every staged write
func (ws *WorkingSet) Discard() {
	ws.cache = nil
	ws.snapshots = nil
	ws.closed = true
}

// batch flushes the staged writes in key order
func (ws *WorkingSet) batch() batch.KVStoreBatch {
	keys := make([]string, 0, len(ws.cache))
	for k := range ws.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := batch.NewBatch()
	for _, k := range keys {
		e := ws.cache[k]
		if e.Deleted {
			b.Delete(e.Namespace, e.Key, "failed to delete key %x in %s", e.Key, e.Namespace)
			continue
		}
		b.Put(e.Namespace, e.Key, e.Value, "failed to put key %x in %s", e.Key, e.Namespace)
	}
	return b
}
