// Package logging provides the zap logger shared by the pipeline packages.
package logging

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv selects the log level ("debug", "info", "warn", "error").
const LevelEnv = "VIDEO_MCP_LOG_LEVEL"

// NewLogger returns a new zap.SugaredLogger writing to stderr. stdout is
// reserved for the MCP protocol.
func NewLogger() *zap.SugaredLogger {
	return NewLoggerWithLevel(os.Getenv(LevelEnv))
}

// NewLoggerWithLevel is NewLogger with an explicit level. Unknown or empty
// levels fall back to info.
func NewLoggerWithLevel(level string) *zap.SugaredLogger {
	var config zap.Config
	if strings.EqualFold(level, "debug") {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named("video-mcp").Sugar()
}

type loggerKey struct{}

// WithLogger returns a copy of parent context in which the
// value associated with logger key is the supplied logger.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger in the context.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return NewLogger()
}
