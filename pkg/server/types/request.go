package types

import "strings"

// QueryRequest is the body of POST /v1/query.
type QueryRequest struct {
	// Document is the markdown source to query.
	Document string `json:"document"`

	// Query is the query string.
	Query string `json:"query"`

	// Format selects the rendering of the "output" field. JSON formats
	// (the default) omit it; the results array is always present.
	Format string `json:"format,omitempty"`

	// Path names the document in logs, spans and history. Optional.
	Path string `json:"path,omitempty"`
}

// ValidationError is returned by Validate for a missing or invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks required fields. An empty document is valid.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return &ValidationError{Field: "query", Message: "query is required"}
	}
	return nil
}
