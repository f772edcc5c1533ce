package logz

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TraceFields returns trace_id and span_id for the span carried by ctx, if any.
func TraceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// WithTrace decorates l (or the global logger) with the request id and trace fields.
func WithTrace(ctx context.Context, l *zap.Logger, requestID string) *zap.Logger {
	if l == nil {
		l = zap.L()
	}
	var fields []zap.Field
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	fields = append(fields, TraceFields(ctx)...)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
