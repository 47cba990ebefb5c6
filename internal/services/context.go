package services

import "context"

type contextKey string

const (
	traceIDKey contextKey = "trace_id"
	stageKey   contextKey = "stage"
)

// WithTraceID annotates context with the request correlation identifier.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext extracts the correlation identifier if present.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(traceIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
