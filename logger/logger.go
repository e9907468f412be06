// Package logger provides structured logging for all components.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ContextKey is the type for values the logger pulls out of a context.
type ContextKey string

const (
	// RequestIDKey carries the proxy request id.
	RequestIDKey ContextKey = "request_id"
	// FeatureKey carries the feature name of a pipeline run.
	FeatureKey ContextKey = "feature"
)

var defaultLogger *slog.Logger

// Init configures the process-wide logger. format is "json" or "text".
func Init(level string, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configured logger, initializing with defaults if
// Init was never called (tests, library use).
func Default() *slog.Logger {
	if defaultLogger == nil {
		Init("info", "text")
	}
	return defaultLogger
}

// FromContext returns the default logger enriched with any known keys
// present on ctx.
func FromContext(ctx context.Context) *slog.Logger {
	log := Default()
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		log = log.With("request_id", requestID)
	}
	if feature := ctx.Value(FeatureKey); feature != nil {
		log = log.With("feature", feature)
	}
	return log
}

// WithContext attaches a logger key to ctx for later extraction.
func WithContext(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}
