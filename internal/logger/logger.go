package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// default logger instance, swapped atomically so hosts can redirect output
var defaultLogger atomic.Pointer[slog.Logger]

// configures where and how log entries are written
type Options struct {
	Environment string
	Output      io.Writer
}

// initializes the logger based on environment
func init() {
	Configure(Options{Environment: os.Getenv("ENVIRONMENT")})
}

// replaces the default logger. production gets JSON at INFO, everything
// else gets human-readable text at DEBUG.
func Configure(opts Options) {
	out := opts.Output

	var handler slog.Handler

	if opts.Environment == "production" {
		if out == nil {
			out = os.Stdout
		}

		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		if out == nil {
			out = os.Stderr
		}

		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	defaultLogger.Store(slog.New(handler))
}

// returns the default logger instance
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// creates a logger with additional context fields
func With(args ...any) *slog.Logger {
	return Default().With(args...)
}

// returns the logger stored in ctx, or the default one
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return Default()
	}

	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	return Default()
}

// adds logger to context
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// logs an error with context
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
}

// logs a fatal error and exits
func Fatal(msg string, args ...any) {
	Default().Error(msg, args...)
	os.Exit(1)
}

// logs a fatal error with error and exits
func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	Default().Error(msg, args...)
	os.Exit(1)
}
