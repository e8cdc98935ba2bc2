// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/iotexproject/go-pkgs/util/httputil"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-vesting/pkg/log"
)

const (
	_ready    = 1
	_notReady = 0
)

type (
	// Server serves the liveness and readiness probes and the prometheus metrics
	Server struct {
		ready            int32 // 0 is not ready, 1 is ready
		server           http.Server
		readinessHandler http.Handler
	}

	// Option sets an option of Server
	Option func(*Server)
)

// WithReadinessHandler replaces the handler answering ready probes
func WithReadinessHandler(h http.Handler) Option {
	return func(s *Server) {
		s.readinessHandler = h
	}
}

// New creates a probe server listening on the port
func New(port int, opts ...Option) *Server {
	s := &Server{
		ready:            _notReady,
		readinessHandler: http.HandlerFunc(successHandleFunc),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/liveness", successHandleFunc)
	readiness := func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&s.ready) == _notReady {
			failureHandleFunc(w, r)
			return
		}
		s.readinessHandler.ServeHTTP(w, r)
	}
	mux.HandleFunc("/readiness", readiness)
	mux.HandleFunc("/health", readiness)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = httputil.Server(fmt.Sprintf(":%d", port), mux)
	return s
}

// Start starts serving in the background
func (s *Server) Start(_ context.Context) error {
	ln, err := httputil.LimitListener(s.server.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(ln); err != nil {
			log.L().Info("Probe server stopped.", zap.Error(err))
		}
	}()
	return nil
}

// Ready turns the readiness probe on
func (s *Server) Ready() { atomic.SwapInt32(&s.ready, _ready) }

// NotReady turns the readiness probe off
func (s *Server) NotReady() { atomic.SwapInt32(&s.ready, _notReady) }

// Stop shuts down the server
func (s *Server) Stop(ctx context.Context) error { return s.server.Shutdown(ctx) }

func successHandleFunc(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.L().Warn("Failed to send http response.", zap.Error(err))
	}
}

func failureHandleFunc(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusServiceUnavailable)
	if _, err := w.Write([]byte("FAIL")); err != nil {
		log.L().Warn("Failed to send http response.", zap.Error(err))
	}
}
