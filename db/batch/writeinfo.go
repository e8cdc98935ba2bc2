// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"github.com/pkg/errors"
)

const (
	// Put indicate the type of write operation to be Put
	Put WriteType = iota
	// Delete indicate the type of write operation to be Delete
	Delete
)

type (
	// WriteType is the type of write
	WriteType uint8

	// WriteInfo is a staged Put or Delete of one namespaced key
	WriteInfo struct {
		writeType   WriteType
		namespace   string
		key         []byte
		value       []byte
		errorFormat string
		errorArgs   []interface{}
	}
)

func newWriteInfo(writeType WriteType, namespace string, key, value []byte, errorFormat string, errorArgs []interface{}) *WriteInfo {
	wi := &WriteInfo{
		writeType:   writeType,
		namespace:   namespace,
		key:         make([]byte, len(key)),
		errorFormat: errorFormat,
		errorArgs:   errorArgs,
	}
	copy(wi.key, key)
	if value != nil {
		wi.value = make([]byte, len(value))
		copy(wi.value, value)
	}
	return wi
}

// Namespace returns the namespace of a write info
func (wi *WriteInfo) Namespace() string { return wi.namespace }

// WriteType returns the type of a write info
func (wi *WriteInfo) WriteType() WriteType { return wi.writeType }

// Key returns the key, callers must not modify it
func (wi *WriteInfo) Key() []byte { return wi.key }

// Value returns the value, nil for a Delete. Callers must not modify it
func (wi *WriteInfo) Value() []byte { return wi.value }

// Wrap annotates a store failure of this write with the message staged alongside it
func (wi *WriteInfo) Wrap(err error) error {
	if wi.errorFormat == "" {
		return errors.Wrapf(err, "failed to write key %x in %s", wi.key, wi.namespace)
	}
	return errors.Wrapf(err, wi.errorFormat, wi.errorArgs...)
}
