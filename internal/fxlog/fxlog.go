// Package fxlog constructs fixity's structured logger (spec.md §2 ambient
// stack): a single zap.Logger built once and threaded through Workspace,
// the facade layer, and cmd/fixi. The teacher is silent on logging
// entirely (pkg/ has no log statements at all), so this is filled in from
// the rest of the retrieval pack's structured-logging texture rather than
// invented from scratch.
package fxlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap.Logger. verbose raises the level to Debug;
// otherwise Info is the floor, matching the CLI's default quiet operation.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// Nop returns a logger that discards everything, used by tests and
// library callers that don't want fixity's own logging.
func Nop() *zap.Logger { return zap.NewNop() }
