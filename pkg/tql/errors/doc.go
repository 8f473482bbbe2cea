// Package errors defines the error taxonomy of tql queries.
//
// Every failure is an *Error carrying a Kind, a message and the Span of the
// query text that caused it:
//
//   - parse_error: malformed syntax (bad brackets, unterminated literals)
//   - unknown_function: with ranked "did you mean" suggestions
//   - invalid_arity: function, expected shape and actual argument count
//   - property_not_found: property name and the value's runtime type
//   - invalid_regex: pattern plus the regex engine's error as Cause
//   - division_by_zero: zero divisor for / or %
//   - type_mismatch: operands an operator or function cannot accept
//
// Structural misses are never errors: filters and indexes that match
// nothing simply produce no results.
//
// Use errors.Is with the Err* sentinels to test the kind, and Detail to
// render a caret diagnostic against the query string:
//
//	_, err := eng.Execute(".h2 | cunt")
//	var qerr *tqlerrors.Error
//	if errors.As(err, &qerr) {
//	    fmt.Print(tqlerrors.Detail(qerr, ".h2 | cunt"))
//	}
package errors
