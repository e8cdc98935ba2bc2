// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggers(t *testing.T) {
	require := require.New(t)

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.OutputPaths = []string{"stdout"}
	subCfg := zap.NewDevelopmentConfig()
	subCfg.OutputPaths = []string{"stdout"}
	require.NoError(InitLoggers(GlobalConfig{
		Zap:     &zapCfg,
		SubLogs: map[string]*zap.Config{"migration": &subCfg, "skipped": nil},
	}))
	require.NotNil(L())
	require.NotNil(S())
	require.NotNil(Logger("migration"))
	// unknown names fall back to the global logger
	require.NotNil(Logger("unknown"))

	_subLoggersMu.RLock()
	_, ok := _subLoggers["skipped"]
	_subLoggersMu.RUnlock()
	require.False(ok)

	bad := zap.NewDevelopmentConfig()
	bad.Encoding = "unknown"
	require.Error(InitLoggers(GlobalConfig{Zap: &bad}))
}
