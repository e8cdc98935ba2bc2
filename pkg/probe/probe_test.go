// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package probe

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const _port = 7788

func get(t *testing.T, endpoint string) int {
	resp, err := http.Get("http://localhost:7788" + endpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestBasicProbe(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	s := New(_port)
	require.NoError(s.Start(ctx))
	require.Eventually(func() bool {
		_, err := http.Get("http://localhost:7788/liveness")
		return err == nil
	}, 2*time.Second, 100*time.Millisecond)

	require.Equal(http.StatusOK, get(t, "/liveness"))
	require.Equal(http.StatusServiceUnavailable, get(t, "/readiness"))
	require.Equal(http.StatusServiceUnavailable, get(t, "/health"))
	require.Equal(http.StatusOK, get(t, "/metrics"))

	s.Ready()
	require.Equal(http.StatusOK, get(t, "/readiness"))
	require.Equal(http.StatusOK, get(t, "/health"))
	s.NotReady()
	require.Equal(http.StatusServiceUnavailable, get(t, "/readiness"))

	require.NoError(s.Stop(ctx))
	_, err := http.Get("http://localhost:7788/liveness")
	require.Error(err)
}

func TestReadinessHandler(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	s := New(_port, WithReadinessHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))
	require.NoError(s.Start(ctx))
	defer s.Stop(ctx)
	require.Eventually(func() bool {
		_, err := http.Get("http://localhost:7788/liveness")
		return err == nil
	}, 2*time.Second, 100*time.Millisecond)

	s.Ready()
	require.Equal(http.StatusAccepted, get(t, "/readiness"))
	require.Equal(http.StatusAccepted, get(t, "/health"))
}
