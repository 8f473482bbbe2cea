// Package ast provides the syntax tree for tql, the markdown query language.
//
// A Query holds one or more PipedExpr values. Each pipeline is a chain of
// stages joined by "|", and each stage is an Expr. Every node records the
// byte Span it was parsed from so errors can point into the query string.
//
// # Core Types
//
// Element: selects markdown elements (.h2, .code[rust], .link[external])
//
// Hierarchy: scopes a child selector to a parent heading section (> and >>)
//
// Property, Index, Function: field access, positional access, built-in calls
//
// Binary, Unary, Literal, Object, Array, Conditional, Group: expressions
//
// Filter and IndexOp: the bracket suffixes of an element selector
//
// # Basic Usage
//
// Walk a parsed query to list the functions it calls:
//
//	q, err := parser.Parse(".h2 | select(.level > 1) | count")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ast.WalkQuery(q, ast.VisitorFunc(func(e ast.Expr) error {
//	    if fn, ok := e.(*ast.Function); ok {
//	        fmt.Println(fn.Name, fn.Span())
//	    }
//	    return nil
//	}))
//
// The tree holds no document state and may be evaluated against any
// number of documents.
package ast
