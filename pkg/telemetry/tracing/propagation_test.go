package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestValidateTraceParent(t *testing.T) {
	tests := []struct {
		name        string
		traceparent string
		want        bool
	}{
		{"valid traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", true},
		{"valid traceparent - not sampled", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00", true},
		{"invalid - wrong number of parts", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7", false},
		{"invalid - version wrong length", "0-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", false},
		{"invalid - trace ID wrong length", "00-4bf92f3577b34da6a3ce929d0e0e473-00f067aa0ba902b7-01", false},
		{"invalid - parent ID wrong length", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902-01", false},
		{"invalid - non-hex trace ID", "00-4bf92f3577b34da6a3ce929d0e0e473g-00f067aa0ba902b7-01", false},
		{"invalid - zero trace ID", "00-00000000000000000000000000000000-00f067aa0ba902b7-01", false},
		{"invalid - zero parent ID", "00-4bf92f3577b34da6a3ce929d0e0e4736-0000000000000000-01", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateTraceParent(tt.traceparent); got != tt.want {
				t.Errorf("ValidateTraceParent(%q) = %v, want %v", tt.traceparent, got, tt.want)
			}
		})
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	var handlerTraceID string
	handler := tracer.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerTraceID = TraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/query", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if handlerTraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("handler trace ID = %q, want the incoming trace", handlerTraceID)
	}
	if got := rec.Header().Get("X-Trace-ID"); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("X-Trace-ID = %q", got)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "POST /v1/query" {
		t.Fatalf("unexpected spans: %v", spans)
	}
}

func TestInjectExtractRoundTrip(t *testing.T) {
	tracer, _ := newRecordingTracer(t)

	ctx, span := tracer.Start(context.Background(), "client")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if !ValidateTraceParent(headers.Get("traceparent")) {
		t.Fatalf("injected traceparent %q is invalid", headers.Get("traceparent"))
	}

	extracted := trace.SpanContextFromContext(Extract(context.Background(), headers))
	if extracted.TraceID() != span.SpanContext().TraceID() {
		t.Error("extracted trace ID does not match injected span")
	}
}
