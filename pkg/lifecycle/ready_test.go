// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestReady(t *testing.T) {
	r := require.New(t)

	ready := Readiness{}
	r.False(ready.IsReady())
	r.Equal(ErrWrongState, errors.Cause(ready.TurnOff()))

	r.NoError(ready.TurnOn())
	r.True(ready.IsReady())
	r.Equal(ErrWrongState, errors.Cause(ready.TurnOn()))

	r.NoError(ready.TurnOff())
	r.False(ready.IsReady())
	r.Equal(ErrWrongState, errors.Cause(ready.TurnOff()))
}

type recorder struct {
	name    string
	trace   *[]string
	stopErr error
}

func (m *recorder) Start(context.Context) error {
	*m.trace = append(*m.trace, "start "+m.name)
	return nil
}

func (m *recorder) Stop(context.Context) error {
	*m.trace = append(*m.trace, "stop "+m.name)
	return m.stopErr
}

func TestLifecycle(t *testing.T) {
	r := require.New(t)

	var (
		trace []string
		lc    Lifecycle
		ctx   = context.Background()
		err   = errors.New("stop failure")
	)
	lc.Add(&recorder{name: "db", trace: &trace})
	lc.AddModels(&recorder{name: "cache", trace: &trace, stopErr: err})
	r.NoError(lc.OnStart(ctx))
	r.Equal(err, errors.Cause(lc.OnStop(ctx)))
	r.Equal([]string{"start db", "start cache", "stop cache", "stop db"}, trace)
}
