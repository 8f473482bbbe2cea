package ast

import (
	"strconv"
	"strings"

	"mdnav-hq/mdnav/pkg/tql/value"
)

// Expr is a node of the query syntax tree. The set of implementations is
// closed; consumers switch on the concrete pointer types.
type Expr interface {
	Span() Span
	String() string
	expr()
}

// BinaryOp is an infix operator.
type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpMod    BinaryOp = "%"
	OpConcat BinaryOp = "~"
	OpEq     BinaryOp = "=="
	OpNe     BinaryOp = "!="
	OpLt     BinaryOp = "<"
	OpLe     BinaryOp = "<="
	OpGt     BinaryOp = ">"
	OpGe     BinaryOp = ">="
	OpAnd    BinaryOp = "and"
	OpOr     BinaryOp = "or"
	OpAlt    BinaryOp = "//"
)

// UnaryOp is a prefix operator.
type UnaryOp string

const (
	OpNot UnaryOp = "!"
	OpNeg UnaryOp = "-"
)

// Query is a parsed query string: independent pipelines whose results are
// concatenated in order.
type Query struct {
	Source      string
	Expressions []*PipedExpr
}

// String renders the query back to source form.
func (q *Query) String() string {
	parts := make([]string, len(q.Expressions))
	for i, e := range q.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// PipedExpr is a chain of stages joined by "|".
type PipedExpr struct {
	Pos    Span
	Stages []Expr
}

// Identity is ".".
type Identity struct {
	Pos Span
}

// Element selects every instance of a markdown element kind.
type Element struct {
	Pos  Span
	Kind ElementKind
	// Name is the selector as written, e.g. "links" for ElementLink.
	Name    string
	Filters []Filter
	// Index is nil when the selector has no index suffix.
	Index IndexOp
}

// Property reads a named field of the current value.
type Property struct {
	Pos  Span
	Name string
}

// Index applies a position or slice to the values of Target.
type Index struct {
	Pos    Span
	Target Expr
	Op     IndexOp
}

// Function calls a registry built-in.
type Function struct {
	Pos  Span
	Name string
	Args []Expr
}

// Hierarchy selects Child elements inside the sections of Parent headings.
// Direct selects children only; otherwise any descendant matches.
type Hierarchy struct {
	Pos    Span
	Parent Expr
	Child  *Element
	Direct bool
}

// Binary is an infix operation.
type Binary struct {
	Pos   Span
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// Unary is a prefix operation.
type Unary struct {
	Pos  Span
	Op   UnaryOp
	Expr Expr
}

// Literal is a constant string, number, boolean or null.
type Literal struct {
	Pos   Span
	Value value.Value
}

// ObjectPair is one "key: expr" entry of an object constructor.
type ObjectPair struct {
	Key   string
	Value Expr
}

// Object constructs an object value.
type Object struct {
	Pos   Span
	Pairs []ObjectPair
}

// Array collects the results of its elements into one array value.
type Array struct {
	Pos      Span
	Elements []Expr
}

// Conditional is "if cond then a else b". A missing else branch yields the
// input unchanged.
type Conditional struct {
	Pos       Span
	Condition Expr
	Then      Expr
	Else      Expr
}

// Group is a parenthesized sub-expression.
type Group struct {
	Pos  Span
	Expr Expr
}

func (e *PipedExpr) Span() Span   { return e.Pos }
func (e *Identity) Span() Span    { return e.Pos }
func (e *Element) Span() Span     { return e.Pos }
func (e *Property) Span() Span    { return e.Pos }
func (e *Index) Span() Span       { return e.Pos }
func (e *Function) Span() Span    { return e.Pos }
func (e *Hierarchy) Span() Span   { return e.Pos }
func (e *Binary) Span() Span      { return e.Pos }
func (e *Unary) Span() Span       { return e.Pos }
func (e *Literal) Span() Span     { return e.Pos }
func (e *Object) Span() Span      { return e.Pos }
func (e *Array) Span() Span       { return e.Pos }
func (e *Conditional) Span() Span { return e.Pos }
func (e *Group) Span() Span       { return e.Pos }

func (*PipedExpr) expr()   {}
func (*Identity) expr()    {}
func (*Element) expr()     {}
func (*Property) expr()    {}
func (*Index) expr()       {}
func (*Function) expr()    {}
func (*Hierarchy) expr()   {}
func (*Binary) expr()      {}
func (*Unary) expr()       {}
func (*Literal) expr()     {}
func (*Object) expr()      {}
func (*Array) expr()       {}
func (*Conditional) expr() {}
func (*Group) expr()       {}

func (e *PipedExpr) String() string {
	parts := make([]string, len(e.Stages))
	for i, s := range e.Stages {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}

func (*Identity) String() string { return "." }

func (e *Element) String() string {
	var sb strings.Builder
	sb.WriteString(".")
	sb.WriteString(e.Kind.String())
	for _, f := range e.Filters {
		sb.WriteString(f.String())
	}
	if e.Index != nil {
		sb.WriteString(e.Index.String())
	}
	return sb.String()
}

func (e *Property) String() string { return "." + e.Name }

func (e *Index) String() string {
	if _, ok := e.Target.(*Identity); ok {
		return "." + e.Op.String()
	}
	return e.Target.String() + e.Op.String()
}

func (e *Function) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e *Hierarchy) String() string {
	op := " >> "
	if e.Direct {
		op = " > "
	}
	return e.Parent.String() + op + e.Child.String()
}

func (e *Binary) String() string {
	return e.Left.String() + " " + string(e.Op) + " " + e.Right.String()
}

func (e *Unary) String() string { return string(e.Op) + e.Expr.String() }

func (e *Literal) String() string {
	if s, ok := e.Value.(value.String); ok {
		return strconv.Quote(string(s))
	}
	return value.ToText(e.Value)
}

func (e *Object) String() string {
	parts := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		parts[i] = p.Key + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (e *Array) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (e *Conditional) String() string {
	s := "if " + e.Condition.String() + " then " + e.Then.String()
	if e.Else != nil {
		s += " else " + e.Else.String()
	}
	return s + " end"
}

func (e *Group) String() string { return "(" + e.Expr.String() + ")" }
