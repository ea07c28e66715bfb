// Package logging holds the package-global logger shared by the engine.
// Embedders that already run zap can install their own logger with
// SetLogger; by default output goes to a production-config zap logger.
package logging

import "go.uber.org/zap"

// Logger is the global logger. It is never nil.
var Logger = zap.Must(zap.NewProduction())

// SetLogger replaces the global logger. Passing nil installs a no-op
// logger.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	Logger = logger
}
