// Package logging builds the slog loggers used by sitesmith and carries them
// through contexts.
//
// HTTP middleware stores a request logger that already holds request_id and
// correlation_id; the transaction coordinator adds txn_id. Failures that
// leave the workspace needing manual cleanup carry [RequiresAttention] so
// they can be alerted on:
//
//	logger.ErrorContext(ctx, "rollback incomplete",
//	    slog.String("txn_id", id),
//	    logging.RequiresAttention(),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
)

type loggerKey struct{}

// New returns a logger writing to w at level ("debug", "info", "warn" or
// "error"; anything else means info). format "text" selects the text
// handler, anything else JSON. Debug loggers include source locations.
// Credentials are redacted from every record.
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: redactor(),
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// RequiresAttention marks a record whose failure left state behind that an
// operator has to inspect.
func RequiresAttention() slog.Attr {
	return slog.Bool("requires_attention", true)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, slog.Default())
}

// FromContextOr returns the logger stored in ctx, or fallback.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}
