// Package log holds the process-wide zap logger used for serializer diagnostics.
//
// The default logger discards everything; applications install their own with
// ReplaceGlobals. Individual writers can override it with access.WithLogger.
package log

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var _globalL atomic.Pointer[zap.Logger]

func init() {
	_globalL.Store(zap.NewNop())
}

// L returns the global Logger. It's safe for concurrent use.
func L() *zap.Logger {
	return _globalL.Load()
}

// ReplaceGlobals installs logger as the global Logger and returns a func that
// restores the previous one. A nil logger installs a no-op logger.
func ReplaceGlobals(logger *zap.Logger) func() {
	if logger == nil {
		logger = zap.NewNop()
	}
	prev := _globalL.Swap(logger)
	return func() {
		_globalL.Store(prev)
	}
}

// Warn logs at warn level on the global Logger.
func Warn(msg string, fields ...zap.Field) {
	L().Warn(msg, fields...)
}

// Debug logs at debug level on the global Logger.
func Debug(msg string, fields ...zap.Field) {
	L().Debug(msg, fields...)
}
