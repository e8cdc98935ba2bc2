// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"encoding/hex"
	"log"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap            *zap.Config            `json:"zap" yaml:"zap"`
	SubLogs        map[string]*zap.Config `json:"subLogs" yaml:"subLogs"`
	RedirectStdLog bool                   `json:"stdLogRedirect" yaml:"stdLogRedirect"`
}

var (
	_subLoggers   = make(map[string]*zap.Logger)
	_subLoggersMu sync.RWMutex
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		log.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	zap.ReplaceGlobals(l)
}

// Hex creates a zap field with hex encoded bytes
func Hex(key string, arr []byte) zap.Field {
	return zap.String(key, hex.EncodeToString(arr))
}

// L wraps zap.L().
func L() *zap.Logger { return zap.L() }

// S wraps zap.S().
func S() *zap.SugaredLogger { return zap.S() }

// Logger returns logger of the given name
func Logger(name string) *zap.Logger {
	_subLoggersMu.RLock()
	logger, ok := _subLoggers[name]
	_subLoggersMu.RUnlock()
	if !ok {
		return L().With(zap.String("logger", name))
	}
	return logger
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig) error {
	if globalCfg.Zap == nil {
		zapCfg := zap.NewProductionConfig()
		globalCfg.Zap = &zapCfg
	}
	logger, err := globalCfg.Zap.Build()
	if err != nil {
		return err
	}
	subLoggers := make(map[string]*zap.Logger, len(globalCfg.SubLogs))
	for name, cfg := range globalCfg.SubLogs {
		if cfg == nil {
			continue
		}
		sub, err := cfg.Build()
		if err != nil {
			return err
		}
		subLoggers[name] = sub.With(zap.String("logger", name))
	}
	if globalCfg.RedirectStdLog {
		zap.RedirectStdLog(logger)
	}
	zap.ReplaceGlobals(logger)

	_subLoggersMu.Lock()
	_subLoggers = subLoggers
	_subLoggersMu.Unlock()
	return nil
}
