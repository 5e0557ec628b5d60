package logger

import "context"

type contextKey string

const loggerKey contextKey = "logger"

// FromContext retrieves the request logger, falling back to fallback.
func FromContext(ctx context.Context, fallback ZapLogger) ZapLogger {
	if l, ok := ctx.Value(loggerKey).(ZapLogger); ok {
		return l
	}
	return fallback
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, l ZapLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}
