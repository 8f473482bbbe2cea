package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mdnav-hq/mdnav/pkg/tql/value"
)

// Entry statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is one recorded query execution.
type Entry struct {
	// ID is a random UUID.
	ID string `json:"id"`

	// Query is the query text as submitted.
	Query string `json:"query"`

	// Source is where the query came from: "cli", "watch" or "api".
	Source string `json:"source"`

	// Status is StatusSuccess or StatusError.
	Status string `json:"status"`

	// ResultCount is the number of values produced.
	ResultCount int `json:"result_count"`

	// Duration covers parsing and evaluation, not document loading.
	Duration time.Duration `json:"duration"`

	// Error and ErrorKind are set for failed executions.
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`

	// CreatedAt is when the execution started, in UTC.
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry starts an entry for query against source.
func NewEntry(query, source string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Query:     query,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
}

// Succeed marks the entry successful.
func (e *Entry) Succeed(results int, duration time.Duration) {
	e.Status = StatusSuccess
	e.ResultCount = results
	e.Duration = duration
}

// Fail marks the entry failed.
func (e *Entry) Fail(err error, kind string, duration time.Duration) {
	e.Status = StatusError
	e.Duration = duration
	e.ErrorKind = kind
	if err != nil {
		e.Error = err.Error()
	}
}

// Value converts the entry into a query value so it can go through the
// regular output formatters.
func (e *Entry) Value() value.Value {
	obj := value.NewObject().
		Set("id", value.String(e.ID)).
		Set("created_at", value.String(e.CreatedAt.Format(time.RFC3339))).
		Set("query", value.String(e.Query)).
		Set("source", value.String(e.Source)).
		Set("status", value.String(e.Status)).
		Set("results", value.Number(e.ResultCount)).
		Set("duration_ms", value.Number(float64(e.Duration.Microseconds())/1000))
	if e.Error != "" {
		obj.Set("error", value.String(e.Error))
	}
	return obj
}

// Filter selects entries. Zero fields do not filter.
type Filter struct {
	// Status restricts to StatusSuccess or StatusError.
	Status string

	// Since and Before bound CreatedAt (inclusive, exclusive).
	Since  *time.Time
	Before *time.Time

	// Limit caps the number of entries returned by List (0 = 100).
	Limit int

	// Offset skips the newest entries.
	Offset int
}

// DefaultLimit is the List limit when Filter.Limit is zero.
const DefaultLimit = 100

// Store persists history entries. Implementations are safe for concurrent use.
type Store interface {
	// Record persists an entry.
	Record(ctx context.Context, entry *Entry) error

	// List returns matching entries, newest first.
	List(ctx context.Context, filter *Filter) ([]*Entry, error)

	// Count returns the number of matching entries, ignoring Limit and Offset.
	Count(ctx context.Context, filter *Filter) (int64, error)

	// Delete removes matching entries and returns how many were removed.
	// An empty filter removes everything.
	Delete(ctx context.Context, filter *Filter) (int64, error)

	// Trim keeps the newest keep entries and removes the rest.
	Trim(ctx context.Context, keep int) (int64, error)

	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
