package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ============================================================================
// LOGGING — Shared zap logger construction
// ============================================================================

// New builds a production JSON logger at the named level. An empty or
// unrecognized level falls back to info.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
