// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrWrongState is returned when a service is turned on twice, or off while not running
var ErrWrongState = errors.New("service is in wrong state")

// Readiness tracks whether a service has been started and not yet stopped.
// Embed it to get TurnOn, TurnOff and IsReady.
type Readiness struct {
	ready atomic.Bool
}

// TurnOn marks the service ready
func (r *Readiness) TurnOn() error {
	if !r.ready.CompareAndSwap(false, true) {
		return errors.Wrap(ErrWrongState, "already started")
	}
	return nil
}

// TurnOff marks the service stopped
func (r *Readiness) TurnOff() error {
	if !r.ready.CompareAndSwap(true, false) {
		return errors.Wrap(ErrWrongState, "not started")
	}
	return nil
}

// IsReady returns true between TurnOn and TurnOff
func (r *Readiness) IsReady() bool {
	return r.ready.Load()
}
