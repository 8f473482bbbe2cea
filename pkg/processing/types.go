package processing

import (
	"errors"
	"time"

	"mdnav-hq/mdnav/pkg/document"
	"mdnav-hq/mdnav/pkg/tql/engine"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// ErrQueryTooLong is returned when a query exceeds query.max_query_length.
var ErrQueryTooLong = errors.New("query exceeds maximum length")

// ErrEmptyQuery is returned for a blank query string.
var ErrEmptyQuery = errors.New("query is empty")

// Source labels recorded in history for where a query came from.
const (
	SourceCLI   = "cli"
	SourceWatch = "watch"
	SourceAPI   = "api"
)

// Request is one query execution against raw markdown.
type Request struct {
	// RequestID correlates logs, spans and history. Optional.
	RequestID string

	// Content is the markdown source.
	Content []byte

	// Path names the document in logs and spans ("-" for stdin).
	Path string

	// Query is the query string.
	Query string

	// Source is recorded in history (SourceCLI, SourceWatch, SourceAPI).
	Source string
}

// Result is the outcome of a successful Request.
type Result struct {
	// RequestID is copied from the request.
	RequestID string

	// Document is the parsed document snapshot.
	Document *document.Document

	// Values are the query results in order. Never nil.
	Values []value.Value

	// ParseDuration is the time spent parsing the document and extracting
	// its element inventories.
	ParseDuration time.Duration

	// QueryDuration is the time spent evaluating the query.
	QueryDuration time.Duration
}

// Prepared is a parsed document with its query engine.
type Prepared struct {
	Document      *document.Document
	Engine        *engine.Engine
	ParseDuration time.Duration
}
