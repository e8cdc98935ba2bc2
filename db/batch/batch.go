// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrOutOfBound indicates an out of bound error
var ErrOutOfBound = errors.New("out of bound")

type (
	// KVStoreBatch defines a batch buffer interface that stages operations
	// A batch is committed to a KVStore as a single atomic write
	KVStoreBatch interface {
		// Lock locks the batch
		Lock()
		// Unlock unlocks the batch
		Unlock()
		// ClearAndUnlock clears the write queue and unlocks the batch
		ClearAndUnlock()
		// Put inserts a <key, value> record
		Put(string, []byte, []byte, string, ...interface{})
		// Delete deletes a record
		Delete(string, []byte, string, ...interface{})
		// Size returns the size of batch
		Size() int
		// Entry returns the entry at the index
		Entry(int) (*WriteInfo, error)
		// Clear clears entries staged in batch
		Clear()
	}

	baseKVStoreBatch struct {
		mutex      sync.RWMutex
		writeQueue []*WriteInfo
	}
)

// NewBatch returns a batch
func NewBatch() KVStoreBatch {
	return &baseKVStoreBatch{}
}

func (b *baseKVStoreBatch) Lock() {
	b.mutex.Lock()
}

func (b *baseKVStoreBatch) Unlock() {
	b.mutex.Unlock()
}

func (b *baseKVStoreBatch) ClearAndUnlock() {
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// Put inserts a <key, value> record
func (b *baseKVStoreBatch) Put(namespace string, key, value []byte, errorFormat string, errorArgs ...interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = append(b.writeQueue, newWriteInfo(Put, namespace, key, value, errorFormat, errorArgs))
}

// Delete deletes a record
func (b *baseKVStoreBatch) Delete(namespace string, key []byte, errorFormat string, errorArgs ...interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = append(b.writeQueue, newWriteInfo(Delete, namespace, key, nil, errorFormat, errorArgs))
}

// Size returns the size of batch
func (b *baseKVStoreBatch) Size() int {
	return len(b.writeQueue)
}

// Entry returns the entry at the index
func (b *baseKVStoreBatch) Entry(i int) (*WriteInfo, error) {
	if i < 0 || i >= len(b.writeQueue) {
		return nil, errors.Wrapf(ErrOutOfBound, "index %d", i)
	}
	return b.writeQueue[i], nil
}

// Clear clear write queue
func (b *baseKVStoreBatch) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = nil
}
