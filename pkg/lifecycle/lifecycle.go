// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package lifecycle provides application models' lifecycle management.
package lifecycle

import (
	"context"

	"github.com/pkg/errors"
)

type (
	// Starter is Model has a Start method.
	Starter interface {
		// Start runs on lifecycle start phase.
		Start(context.Context) error
	}

	// Stopper is Model has a Stop method.
	Stopper interface {
		// Stop runs on lifecycle stop phase.
		Stop(context.Context) error
	}

	// StartStopper is the interface that groups Start and Stop.
	StartStopper interface {
		Starter
		Stopper
	}

	// Lifecycle manages lifecycle for models. Currently a Lifecycle has two phases: Start and Stop.
	// Models are started in the order they are added and stopped in reverse order.
	Lifecycle struct {
		models []StartStopper
	}
)

// Add adds a model into LifeCycle.
func (lc *Lifecycle) Add(m StartStopper) { lc.models = append(lc.models, m) }

// AddModels adds multiple models into LifeCycle.
func (lc *Lifecycle) AddModels(m ...StartStopper) { lc.models = append(lc.models, m...) }

// OnStart runs models OnStart function if models implmented it.
func (lc *Lifecycle) OnStart(ctx context.Context) error {
	for _, m := range lc.models {
		if err := m.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// OnStop runs models Stop function if models implmented it.
func (lc *Lifecycle) OnStop(ctx context.Context) error {
	var stopErr error
	for i := len(lc.models) - 1; i >= 0; i-- {
		if err := lc.models[i].Stop(ctx); err != nil && stopErr == nil {
			stopErr = errors.Wrap(err, "failed to stop model")
		}
	}
	return stopErr
}
