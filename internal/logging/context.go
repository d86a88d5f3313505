package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithWindowLabel creates a child logger with a window_label field
func WithWindowLabel(ctx context.Context, label string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("window_label", label).Logger()
	return WithContext(ctx, childLogger)
}

// WithMessage creates a child logger scoped to one account message
func WithMessage(ctx context.Context, accountID, messageID uint32) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().
		Uint32("account_id", accountID).
		Uint32("message_id", messageID).
		Logger()
	return WithContext(ctx, childLogger)
}
