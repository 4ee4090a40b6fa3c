// Package logging holds the process-wide structured logger.
package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // Singleton logger is a standard pattern
var (
	globalLogger *zap.Logger
	loggerMu     sync.RWMutex
)

type ctxKey struct{}

// Init creates a JSON logger writing to path at the given level and installs
// it as the global logger. The terminal belongs to the TUI, so logs never go
// to stdout or stderr.
func Init(path, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	Set(logger)
	return logger, nil
}

// Set replaces the global logger.
func Set(logger *zap.Logger) {
	loggerMu.Lock()
	globalLogger = logger
	loggerMu.Unlock()
}

// L returns the global logger, or a no-op logger before Init.
func L() *zap.Logger {
	loggerMu.RLock()
	logger := globalLogger
	loggerMu.RUnlock()

	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// WithConversation tags ctx with a conversation ID for log correlation.
func WithConversation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the global logger enriched with context fields.
func FromContext(ctx context.Context) *zap.Logger {
	logger := L()
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return logger.With(zap.String("conversation_id", id))
	}
	return logger
}

// Field helpers, so callers don't import zap directly.
var (
	String  = zap.String
	Int     = zap.Int
	Float64 = zap.Float64
	Bool    = zap.Bool
	Error   = zap.Error
)
