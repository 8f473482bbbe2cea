package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys recorded on query spans.
const (
	AttrQuery       = "mdnav.query"
	AttrDocument    = "mdnav.document"
	AttrFormat      = "mdnav.format"
	AttrResultCount = "mdnav.results"
	AttrErrorKind   = "mdnav.error.kind"
	AttrRequestID   = "mdnav.request_id"
)

// maxQueryAttr bounds the query attribute so large inline queries do not
// bloat exported spans.
const maxQueryAttr = 512

// SetQueryAttributes records the query text and source document.
func SetQueryAttributes(span trace.Span, query, document string) {
	if len(query) > maxQueryAttr {
		query = query[:maxQueryAttr]
	}
	attrs := []attribute.KeyValue{attribute.String(AttrQuery, query)}
	if document != "" {
		attrs = append(attrs, attribute.String(AttrDocument, document))
	}
	span.SetAttributes(attrs...)
}

// SetResultAttributes records the output format and number of results.
func SetResultAttributes(span trace.Span, format string, count int) {
	attrs := []attribute.KeyValue{attribute.Int(AttrResultCount, count)}
	if format != "" {
		attrs = append(attrs, attribute.String(AttrFormat, format))
	}
	span.SetAttributes(attrs...)
}

// SetErrorAttributes marks the span failed and records the error kind.
func SetErrorAttributes(span trace.Span, err error, kind string) {
	if err == nil {
		return
	}
	if kind != "" {
		span.SetAttributes(attribute.String(AttrErrorKind, kind))
	}
	SetError(span, err)
	SetStatus(span, err)
}

// SetRequestID records the API request ID.
func SetRequestID(span trace.Span, requestID string) {
	if requestID != "" {
		span.SetAttributes(attribute.String(AttrRequestID, requestID))
	}
}
