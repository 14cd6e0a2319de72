package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey carries the request-scoped logger
	LoggerKey contextKey = "logger"
	// RequestIDKey carries the request id assigned at the HTTP edge
	RequestIDKey contextKey = "request_id"
	// UserIDKey carries the authenticated user's id
	UserIDKey contextKey = "user_id"
)

// WithContext attaches the logger to the context.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext returns the logger attached to the context, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request id on the context and returns the context
// together with a logger that tags every entry with it.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	tagged := log.With(zap.String("request_id", requestID))
	return WithContext(ctx, tagged), tagged
}

// WithUserID stores the authenticated user id on the context and returns the
// context together with a logger that tags every entry with it.
func WithUserID(ctx context.Context, log *zap.Logger, userID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	tagged := log.With(zap.String("user_id", userID))
	return WithContext(ctx, tagged), tagged
}

// GetRequestID returns the request id stored on the context, or "".
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID returns the user id stored on the context, or "".
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
