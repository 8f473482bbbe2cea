package types

import (
	"encoding/json"
	"errors"
	"net/http"

	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	// Kind categorizes the error. Query failures use the query error kinds
	// ("parse_error", "unknown_function", ...); request failures use the
	// Kind* constants below.
	Kind string `json:"kind"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Span is the byte range of the query the error points at.
	Span *Span `json:"span,omitempty"`

	// Suggestions are close matches for an unknown function or property.
	Suggestions []string `json:"suggestions,omitempty"`

	// Detail is the multi-line caret diagnostic, as printed by the CLI.
	Detail string `json:"detail,omitempty"`
}

// Span is a half-open byte range into the query string.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Request failure kinds.
const (
	// KindInvalidRequest indicates a malformed or incomplete request body (400).
	KindInvalidRequest = "invalid_request"

	// KindInvalidDocument indicates the markdown document could not be loaded (422).
	KindInvalidDocument = "invalid_document"

	// KindRequestTooLarge indicates the body exceeded server.max_body_bytes (413).
	KindRequestTooLarge = "request_too_large"

	// KindNotFound indicates an unknown route (404).
	KindNotFound = "not_found"

	// KindMethodNotAllowed indicates a known route with the wrong method (405).
	KindMethodNotAllowed = "method_not_allowed"

	// KindInternal indicates an internal server error (500).
	KindInternal = "internal"
)

// NewErrorResponse creates an error response with the given kind and message.
func NewErrorResponse(kind, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Kind: kind, Message: message}}
}

// NewInvalidRequestError creates an error response for invalid requests (400).
func NewInvalidRequestError(message string) *ErrorResponse {
	return NewErrorResponse(KindInvalidRequest, message)
}

// NewServerError creates an error response for internal server errors (500).
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(KindInternal, message)
}

// NewQueryError converts a query failure into an error response. The caret
// diagnostic is rendered against query. It returns nil when err carries no
// query error.
func NewQueryError(err error, query string) *ErrorResponse {
	var qe *tqlerrors.Error
	if !errors.As(err, &qe) {
		return nil
	}

	detail := ErrorDetail{
		Kind:        string(qe.Kind),
		Message:     qe.Error(),
		Suggestions: qe.Suggestions,
		Detail:      tqlerrors.Detail(qe, query),
	}
	if qe.Span.IsValid() {
		detail.Span = &Span{Start: qe.Span.Start, End: qe.Span.End}
	}
	return &ErrorResponse{Error: detail}
}

// HTTPStatusCode returns the HTTP status for the error kind. Every query
// error is the client's fault.
func (e *ErrorDetail) HTTPStatusCode() int {
	switch e.Kind {
	case KindInternal:
		return http.StatusInternalServerError
	case KindInvalidDocument:
		return http.StatusUnprocessableEntity
	case KindRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusBadRequest
	}
}

// WriteJSON writes body as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes resp with the status derived from its kind.
func WriteError(w http.ResponseWriter, resp *ErrorResponse) {
	WriteJSON(w, resp.Error.HTTPStatusCode(), resp)
}
