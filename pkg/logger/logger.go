// Package logger wraps zap construction so binaries and tests build their
// loggers the same way.
package logger

import (
	"go.uber.org/zap"
)

// New builds a named production SugaredLogger. Falls back to a nop logger
// if zap cannot initialize, so callers never receive nil.
func New(name string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.DisableStacktrace = true

	log, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar().Named(name)
	}

	return log.Sugar().Named(name)
}

// Nop returns a logger that discards everything. Used by library consumers
// that want the adapter silent.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
