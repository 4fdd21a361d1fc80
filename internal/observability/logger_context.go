// Package observability carries the per-run logger and run id through context.
package observability

import (
	"context"
	"log/slog"
)

// loggerContextKey is the private context key used to store a *slog.Logger.
type loggerContextKey struct{}

// runIDContextKey is the private context key used to store the run id that
// correlates every log line and metric push of one seeding run.
type runIDContextKey struct{}

// ContextWithLogger attaches a non-nil logger to the context.
func ContextWithLogger(ctx context.Context, lg *slog.Logger) context.Context {
	if ctx == nil || lg == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, lg)
}

// LoggerFromContext returns the logger stored in the context. Without one it
// falls back to the default slog logger, tagged with the run id when the
// context carries it.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if lg, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && lg != nil {
		return lg
	}
	if rid := RunIDFromContext(ctx); rid != "" {
		return slog.Default().With(slog.String("run_id", rid))
	}
	return slog.Default()
}

// ContextWithStage scopes the context logger to one pipeline stage, so every
// record logged inside the stage carries a "stage" field.
func ContextWithStage(ctx context.Context, stage string) context.Context {
	if ctx == nil || stage == "" {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, LoggerFromContext(ctx).With(slog.String("stage", stage)))
}

// ContextWithRunID stores a non-empty run id in the context.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil || runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDContextKey{}, runID)
}

// RunIDFromContext retrieves the run id from the context, or an empty
// string when none is present.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(runIDContextKey{}); v != nil {
		if rid, ok := v.(string); ok {
			return rid
		}
	}
	return ""
}
