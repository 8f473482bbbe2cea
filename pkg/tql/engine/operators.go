package engine

import (
	"errors"

	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// evalBinary evaluates both operands against the input and applies the
// operator to every pair of results. "and" and "or" skip the right side
// when the left already decides the outcome; "//" yields the truthy left
// results, or the right side when there are none.
func (ev *evaluator) evalBinary(e *ast.Binary, input value.Value) ([]value.Value, error) {
	left, err := ev.eval(e.Left, input)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.OpAnd, ast.OpOr:
		return ev.evalLogical(e, left, input)
	case ast.OpAlt:
		var truthy []value.Value
		for _, l := range left {
			if value.Truthy(l) {
				truthy = append(truthy, l)
			}
		}
		if len(truthy) > 0 {
			return truthy, nil
		}
		return ev.eval(e.Right, input)
	}

	right, err := ev.eval(e.Right, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			v, err := evaluateOperator(e.Op, l, r, e.Pos)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (ev *evaluator) evalLogical(e *ast.Binary, left []value.Value, input value.Value) ([]value.Value, error) {
	var (
		out   []value.Value
		right []value.Value
		done  bool
	)
	for _, l := range left {
		lt := value.Truthy(l)
		if e.Op == ast.OpAnd && !lt {
			out = append(out, value.Bool(false))
			continue
		}
		if e.Op == ast.OpOr && lt {
			out = append(out, value.Bool(true))
			continue
		}
		if !done {
			var err error
			if right, err = ev.eval(e.Right, input); err != nil {
				return nil, err
			}
			done = true
		}
		for _, r := range right {
			out = append(out, value.Bool(value.Truthy(r)))
		}
	}
	return out, nil
}

// evaluateOperator applies a non short-circuit binary operator.
func evaluateOperator(op ast.BinaryOp, l, r value.Value, span ast.Span) (value.Value, error) {
	var (
		v   value.Value
		err error
	)
	switch op {
	case ast.OpEq:
		v = value.Bool(value.Equal(l, r))
	case ast.OpNe:
		v = value.Bool(!value.Equal(l, r))
	case ast.OpLt:
		v = value.Bool(value.Compare(l, r) < 0)
	case ast.OpLe:
		v = value.Bool(value.Compare(l, r) <= 0)
	case ast.OpGt:
		v = value.Bool(value.Compare(l, r) > 0)
	case ast.OpGe:
		v = value.Bool(value.Compare(l, r) >= 0)
	case ast.OpConcat:
		v = value.Concat(l, r)
	case ast.OpAdd:
		v, err = value.Add(l, r)
	case ast.OpSub:
		v, err = value.Sub(l, r)
	case ast.OpMul:
		v, err = value.Mul(l, r)
	case ast.OpDiv:
		v, err = value.Div(l, r)
	case ast.OpMod:
		v, err = value.Mod(l, r)
	default:
		return nil, tqlerrors.TypeMismatch("unsupported operator "+string(op), span, nil)
	}
	if err != nil {
		return nil, operandError(err, span)
	}
	return v, nil
}

// operandError maps value-level arithmetic failures onto query errors.
func operandError(err error, span ast.Span) error {
	if errors.Is(err, value.ErrDivisionByZero) {
		return tqlerrors.DivisionByZero(span)
	}
	var oe *value.OperandError
	if errors.As(err, &oe) {
		return tqlerrors.TypeMismatch(oe.Error(), span, err)
	}
	return tqlerrors.TypeMismatch(err.Error(), span, err)
}

func (ev *evaluator) evalUnary(e *ast.Unary, input value.Value) ([]value.Value, error) {
	operands, err := ev.eval(e.Expr, input)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, 0, len(operands))
	for _, v := range operands {
		switch e.Op {
		case ast.OpNot:
			out = append(out, value.Bool(!value.Truthy(v)))
		case ast.OpNeg:
			n, err := value.Negate(v)
			if err != nil {
				return nil, operandError(err, e.Pos)
			}
			out = append(out, n)
		default:
			return nil, tqlerrors.TypeMismatch("unsupported operator "+string(e.Op), e.Pos, nil)
		}
	}
	return out, nil
}
