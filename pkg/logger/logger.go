package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Service is attached to every record so lines can be told apart once
// shipped next to the backend's own logs.
const Service = "society-platform"

// New returns a JSON logger on stdout. Local and dev environments log at debug
// level, which includes lifecycle transitions.
func New(appEnv string) *slog.Logger {
	return NewWithWriter(os.Stdout, appEnv)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(w io.Writer, appEnv string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelFor(appEnv)})
	return slog.New(h).With("service", Service, "env", appEnv)
}

func levelFor(appEnv string) slog.Level {
	switch appEnv {
	case "local", "dev":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

type ctxKey struct{}

// With stores a logger in context.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From gets a logger from context, falling back to slog.Default().
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}
