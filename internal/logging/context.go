package logging

import (
	"context"
	"log/slog"

	"celinker/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTraceID is the standardized structured logging key for request correlation identifiers.
	FieldTraceID = "trace_id"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldQuery is the standardized structured logging key for the part number under resolution.
	FieldQuery = "query"
	// FieldKey is the standardized structured logging key for a derived search key value.
	FieldKey = "key"
	// FieldKeyOrigin is the standardized structured logging key for a search key origin.
	FieldKeyOrigin = "key_origin"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.TraceIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTraceID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
