// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/iotexproject/go-pkgs/hash"
)

const (
	// ReceiptStatusFailure is the status that an action is failed
	ReceiptStatusFailure = uint64(0)
	// ReceiptStatusSuccess is the status that an action is successful
	ReceiptStatusSuccess = uint64(1)
)

// Receipt represents the result of an action execution
type Receipt struct {
	Status      uint64
	BlockHeight uint64
	ActionHash  hash.Hash256
	logs        []*Log
}

// Logs returns the list of logs stored in receipt
func (receipt *Receipt) Logs() []*Log {
	return receipt.logs
}

// AddLogs adds log to receipt and filter out nil log.
func (receipt *Receipt) AddLogs(logs ...*Log) *Receipt {
	for _, l := range logs {
		if l != nil {
			receipt.logs = append(receipt.logs, l)
		}
	}
	return receipt
}

// Events returns the logs carrying the named event
func (receipt *Receipt) Events(name string) []*Log {
	var found []*Log
	for _, l := range receipt.logs {
		if l.IsEvent(name) {
			found = append(found, l)
		}
	}
	return found
}
