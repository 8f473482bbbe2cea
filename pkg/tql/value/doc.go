// Package value defines the values a tql query produces.
//
// Value is a sealed union: markdown-derived variants (Document, Heading,
// Code, Link, Image, Table, List) and the JSON-like scalars and collections
// (String, Number, Bool, Null, Array, Object). Callers switch on the
// concrete type:
//
//	switch v := v.(type) {
//	case *value.Heading:
//		fmt.Println(v.Level, v.Text)
//	case value.String:
//		fmt.Println(string(v))
//	}
//
// Object preserves insertion order in both JSON and YAML output.
//
// # Semantics
//
// Truthiness: only null and false are falsy. Numbers compare for equality
// within Epsilon. Comparisons between unrelated variants fall back to their
// textual renderings (ToText) so they never fail.
package value
