package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// QueryKey is the context key for the query being executed.
	QueryKey contextKey = "query"

	// DocumentKey is the context key for the document path or source.
	DocumentKey contextKey = "document"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// maxQueryField bounds how much of a query is copied into each log line.
const maxQueryField = 256

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// WithQuery adds the query string to the context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, QueryKey, query)
}

// GetQuery retrieves the query string from the context.
func GetQuery(ctx context.Context) string {
	return stringValue(ctx, QueryKey)
}

// WithDocument adds the document path to the context.
func WithDocument(ctx context.Context, document string) context.Context {
	return context.WithValue(ctx, DocumentKey, document)
}

// GetDocument retrieves the document path from the context.
func GetDocument(ctx context.Context) string {
	return stringValue(ctx, DocumentKey)
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, TraceIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if query := GetQuery(ctx); query != "" {
		if len(query) > maxQueryField {
			query = query[:maxQueryField] + "..."
		}
		fields = append(fields, "query", query)
	}
	if document := GetDocument(ctx); document != "" {
		fields = append(fields, "document", document)
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}

	return fields
}
