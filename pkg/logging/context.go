package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = iota
	// mapIDKey is the context key for the map instance ID.
	mapIDKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// Ctx returns a logger from the context or the default logger.
// This is a shorter alias for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithMapID adds a map instance ID to the context. Several maps can live on
// one page, so log lines carry which instance they belong to.
func WithMapID(ctx context.Context, mapID string) context.Context {
	ctx = context.WithValue(ctx, mapIDKey, mapID)

	logger := FromContext(ctx)
	newLogger := logger.With().Str("map_id", mapID).Logger()
	return WithLogger(ctx, &newLogger)
}

// MapID extracts the map instance ID from context.
func MapID(ctx context.Context) string {
	if id, ok := ctx.Value(mapIDKey).(string); ok {
		return id
	}
	return ""
}
