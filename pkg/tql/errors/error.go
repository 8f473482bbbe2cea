package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mdnav-hq/mdnav/pkg/tql/ast"
)

// Kind categorizes a query error.
type Kind string

const (
	KindParse            Kind = "parse_error"
	KindUnknownFunction  Kind = "unknown_function"
	KindInvalidArity     Kind = "invalid_arity"
	KindPropertyNotFound Kind = "property_not_found"
	KindInvalidRegex     Kind = "invalid_regex"
	KindDivisionByZero   Kind = "division_by_zero"
	KindTypeMismatch     Kind = "type_mismatch"
)

// Title returns the human-readable kind, e.g. "parse error".
func (k Kind) Title() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// Sentinels for errors.Is. They match any error of the same kind.
var (
	ErrParse            = &Error{Kind: KindParse}
	ErrUnknownFunction  = &Error{Kind: KindUnknownFunction}
	ErrInvalidArity     = &Error{Kind: KindInvalidArity}
	ErrPropertyNotFound = &Error{Kind: KindPropertyNotFound}
	ErrInvalidRegex     = &Error{Kind: KindInvalidRegex}
	ErrDivisionByZero   = &Error{Kind: KindDivisionByZero}
	ErrTypeMismatch     = &Error{Kind: KindTypeMismatch}
)

// Error is a query failure. Every error aborts the query it occurred in.
type Error struct {
	Kind    Kind
	Message string
	Span    ast.Span

	// Name is the function or property involved, if any.
	Name string
	// TypeName is the runtime type for PropertyNotFound.
	TypeName string
	// Expected and Got describe an arity mismatch.
	Expected string
	Got      int
	// Pattern is the offending regular expression.
	Pattern string

	Suggestions []string
	Cause       error
}

// Error returns the single-line form: kind, message, span and suggestions.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Title())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Span.IsValid() {
		sb.WriteString(fmt.Sprintf(" at %s", e.Span))
	}
	if len(e.Suggestions) > 0 {
		sb.WriteString(fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", ")))
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" && t.Span == (ast.Span{}) {
		return t.Kind == e.Kind
	}
	return t == e
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err is not a query error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// WithSpan sets the span if the error does not carry one yet.
func (e *Error) WithSpan(span ast.Span) *Error {
	if !e.Span.IsValid() {
		e.Span = span
	}
	return e
}

// Parse reports malformed query syntax.
func Parse(span ast.Span, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...), Span: span}
}

// UnknownFunction reports a call to a name the registry does not know.
func UnknownFunction(name string, span ast.Span, suggestions []string) *Error {
	return &Error{
		Kind:        KindUnknownFunction,
		Message:     fmt.Sprintf("%q", name),
		Span:        span,
		Name:        name,
		Suggestions: suggestions,
	}
}

// InvalidArity reports a call with the wrong number of arguments.
func InvalidArity(name, expected string, got int, span ast.Span) *Error {
	return &Error{
		Kind:     KindInvalidArity,
		Message:  fmt.Sprintf("%s expects %s, got %d", name, expected, got),
		Span:     span,
		Name:     name,
		Expected: expected,
		Got:      got,
	}
}

// PropertyNotFound reports an unknown field for a value's runtime type.
func PropertyNotFound(property, typeName string, span ast.Span, suggestions []string) *Error {
	return &Error{
		Kind:        KindPropertyNotFound,
		Message:     fmt.Sprintf("%q on %s", property, typeName),
		Span:        span,
		Name:        property,
		TypeName:    typeName,
		Suggestions: suggestions,
	}
}

// InvalidRegex reports a pattern the regex engine rejected.
func InvalidRegex(pattern string, cause error, span ast.Span) *Error {
	return &Error{
		Kind:    KindInvalidRegex,
		Message: fmt.Sprintf("%q: %v", pattern, cause),
		Span:    span,
		Pattern: pattern,
		Cause:   cause,
	}
}

// DivisionByZero reports a zero divisor for / or %.
func DivisionByZero(span ast.Span) *Error {
	return &Error{Kind: KindDivisionByZero, Span: span}
}

// TypeMismatch reports operands or inputs of the wrong type.
func TypeMismatch(message string, span ast.Span, cause error) *Error {
	return &Error{Kind: KindTypeMismatch, Message: message, Span: span, Cause: cause}
}

// ErrorList accumulates errors, e.g. from a static check of a whole query.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{Errors: make([]*Error, 0)}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if the list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Error joins the single-line form of every error.
func (el *ErrorList) Error() string {
	msgs := make([]string, len(el.Errors))
	for i, err := range el.Errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByKind returns all errors of the given kind.
func (el *ErrorList) ByKind(kind Kind) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Kind == kind {
			result = append(result, err)
		}
	}
	return result
}
