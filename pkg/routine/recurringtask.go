// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package routine

import (
	"context"
	"time"

	"github.com/facebookgo/clock"

	"github.com/iotexproject/iotex-vesting/pkg/lifecycle"
)

var _ lifecycle.StartStopper = (*RecurringTask)(nil)

type (
	// Task is the function run on every tick
	Task func()

	// RecurringTaskOption sets an option of RecurringTask
	RecurringTaskOption func(*RecurringTask)

	// RecurringTask represents a recurring task
	RecurringTask struct {
		t        Task
		interval time.Duration
		clk      clock.Clock
		ticker   *clock.Ticker
		ch       chan interface{}
	}
)

// WithClock sets the clock driving the ticks
func WithClock(clk clock.Clock) RecurringTaskOption {
	return func(t *RecurringTask) {
		t.clk = clk
	}
}

// NewRecurringTask creates an instance of RecurringTask
func NewRecurringTask(t Task, i time.Duration, opts ...RecurringTaskOption) *RecurringTask {
	rt := &RecurringTask{
		t:        t,
		interval: i,
		clk:      clock.New(),
		ch:       make(chan interface{}, 1),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Start starts the timer
func (t *RecurringTask) Start(_ context.Context) error {
	t.ticker = t.clk.Ticker(t.interval)
	ready := make(chan struct{})
	go func() {
		close(ready)
		for {
			select {
			case <-t.ch:
				return
			case <-t.ticker.C:
				t.t()
			}
		}
	}()

	<-ready
	return nil
}

// Stop stops the timer
func (t *RecurringTask) Stop(_ context.Context) error {
	if t.ticker == nil {
		return nil
	}
	t.ticker.Stop()
	t.ch <- struct{}{}
	return nil
}
