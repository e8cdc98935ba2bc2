// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/iotexproject/go-pkgs/hash"
)

type (
	// Action is an operation submitted by a caller
	Action interface {
		Name() string
	}

	// Log stores an event emitted while executing an action
	Log struct {
		Address     string
		Topics      []hash.Hash256
		Data        []byte
		BlockHeight uint64
		ActionHash  hash.Hash256
	}
)

// EventTopic returns the topic identifying an event by name
func EventTopic(name string) hash.Hash256 {
	return hash.Hash256b([]byte(name))
}

// IsEvent returns true if the log carries the named event
func (l *Log) IsEvent(name string) bool {
	return len(l.Topics) > 0 && l.Topics[0] == EventTopic(name)
}
