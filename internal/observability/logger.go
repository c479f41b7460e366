package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/askdata/askdata/internal/config"
)

type ctxKey string

const traceIDKey ctxKey = "trace_id"

func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	return newLogger(writer, cfg.Observability,
		slog.String("service", cfg.Service.Name),
		slog.String("profile", string(cfg.Profile)),
	)
}

func NewConsoleLogger(cfg config.ConsoleConfig, writer io.Writer) *slog.Logger {
	return newLogger(writer, cfg.Observability,
		slog.String("service", "askdata-console"),
		slog.String("api_url", cfg.APIBaseURL),
	)
}

func newLogger(writer io.Writer, obs config.ObservabilityConfig, attrs ...any) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	var handler slog.Handler
	if obs.LogJSON {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: obs.LogLevel})
	} else {
		handler = slog.NewTextHandler(writer, &slog.HandlerOptions{Level: obs.LogLevel})
	}
	return slog.New(handler).With(attrs...)
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	value, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return ""
	}
	return value
}
