// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging.
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment.
// Development gets human-readable text output at debug level; everything
// else gets JSON at info level.
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// HTTPRequest logs an HTTP request with timing.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// ChannelFailure logs a failed notification delivery attempt. Channel
// failures are operational events only; they never reach the submitter.
func (l *Logger) ChannelFailure(channel, leadUUID string, attempt int, err error) {
	l.Warn("notification_channel_failed",
		slog.String("channel", channel),
		slog.String("lead_uuid", leadUUID),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

// ChannelSent logs a successful notification delivery.
func (l *Logger) ChannelSent(channel, leadUUID string) {
	l.Info("notification_channel_sent",
		slog.String("channel", channel),
		slog.String("lead_uuid", leadUUID),
	)
}

// DatabaseError logs database errors.
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
