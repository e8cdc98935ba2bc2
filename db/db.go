// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-vesting/db/batch"
	"github.com/iotexproject/iotex-vesting/pkg/lifecycle"
)

var (
	// ErrNotExist indicates certain item does not exist in the database
	ErrNotExist = errors.New("not exist in DB")
	// ErrIO indicates the generic error of DB I/O operation
	ErrIO = errors.New("DB I/O operation error")
	// ErrDBNotStarted indicates the DB is accessed before Start
	ErrDBNotStarted = errors.New("db has not started")
)

// KVStore is the interface of KV store.
type KVStore interface {
	lifecycle.StartStopper

	// Put insert or update a record identified by (namespace, key)
	Put(string, []byte, []byte) error
	// Get gets a record by (namespace, key)
	Get(string, []byte) ([]byte, error)
	// WriteBatch commits a batch
	WriteBatch(batch.KVStoreBatch) error
}

// memKVStore is the in-memory implementation of KVStore for testing purpose
type memKVStore struct {
	mutex sync.RWMutex
	data  map[string]map[string][]byte
}

// NewMemKVStore instantiates an in-memory KV store
func NewMemKVStore() KVStore {
	return &memKVStore{
		data: make(map[string]map[string][]byte),
	}
}

func (m *memKVStore) Start(_ context.Context) error { return nil }

func (m *memKVStore) Stop(_ context.Context) error { return nil }

// Put inserts a <key, value> record
func (m *memKVStore) Put(namespace string, key, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.put(namespace, key, value)
	return nil
}

func (m *memKVStore) put(namespace string, key, value []byte) {
	bucket, ok := m.data[namespace]
	if !ok {
		bucket = make(map[string][]byte)
		m.data[namespace] = bucket
	}
	v := make([]byte, len(value))
	copy(v, value)
	bucket[string(key)] = v
}

// Get retrieves a record
func (m *memKVStore) Get(namespace string, key []byte) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	bucket, ok := m.data[namespace]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "namespace = %s doesn't exist", namespace)
	}
	value, ok := bucket[string(key)]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
	}
	v := make([]byte, len(value))
	copy(v, value)
	return v, nil
}

// WriteBatch commits a batch
func (m *memKVStore) WriteBatch(b batch.KVStoreBatch) error {
	b.Lock()
	defer b.Unlock()
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i := 0; i < b.Size(); i++ {
		write, err := b.Entry(i)
		if err != nil {
			return err
		}
		switch write.WriteType() {
		case batch.Put:
			m.put(write.Namespace(), write.Key(), write.Value())
		case batch.Delete:
			if bucket, ok := m.data[write.Namespace()]; ok {
				delete(bucket, string(write.Key()))
			}
		default:
			return errors.Errorf("unexpected write type %d", write.WriteType())
		}
	}
	return nil
}
