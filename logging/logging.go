// Package logging builds the structured logger shared by the CLI and the
// reconciler. Loggers travel through context.Context as logr.Logger values
// backed by zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Config struct {
	// Level is a zap level name such as "debug", "info" or "error".
	Level  string
	Format string
	// Output defaults to stderr so command output on stdout stays parseable.
	Output io.Writer
}

// New builds a logr.Logger from cfg. logr verbosity V(n) is emitted when the
// configured level is at or below zap level -n, so V(1) output needs "debug".
func New(cfg Config) (logr.Logger, error) {
	levelName := strings.TrimSpace(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return logr.Discard(), fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var encoder zapcore.Encoder
	switch strings.TrimSpace(cfg.Format) {
	case "", FormatConsole:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return logr.Discard(), fmt.Errorf("invalid log format %q: use %s or %s", cfg.Format, FormatConsole, FormatJSON)
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zap.NewAtomicLevelAt(level))
	return zapr.NewLogger(zap.New(core)), nil
}

// IntoContext attaches logger to ctx.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger attached to ctx, or a logger that drops
// everything.
func FromContext(ctx context.Context) logr.Logger {
	if ctx == nil {
		return logr.Discard()
	}
	return logr.FromContextOrDiscard(ctx)
}
