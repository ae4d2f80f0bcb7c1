// Package logging holds the process-wide structured logger.
package logging

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLevel = "info"

var current atomic.Pointer[zap.SugaredLogger]

// New builds a JSON zap logger at the given level. An empty or unknown level
// falls back to info.
func New(level string) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil || level == "" {
		_ = lvl.UnmarshalText([]byte(defaultLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:    "message",
		TimeKey:       "timestamp",
		LevelKey:      "severity",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		EncodeTime:    zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	cfg := zap.Config{
		Level:             lvl,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	return cfg.Build()
}

// Set installs l as the process logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l.Sugar())
}

// L returns the process logger, a no-op logger until Set is called.
func L() *zap.SugaredLogger {
	if l := current.Load(); l != nil {
		return l
	}
	return zap.NewNop().Sugar()
}
