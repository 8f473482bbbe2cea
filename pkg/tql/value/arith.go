package value

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrDivisionByZero is returned by Div and Mod for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// OperandError reports operand types an arithmetic operator does not accept.
type OperandError struct {
	Op    string
	Left  Type
	Right Type
}

func (e *OperandError) Error() string {
	if e.Right == "" {
		return fmt.Sprintf("cannot apply %s to %s", e.Op, e.Left)
	}
	return fmt.Sprintf("cannot apply %s to %s and %s", e.Op, e.Left, e.Right)
}

func operandError(op string, a, b Value) error {
	return &OperandError{Op: op, Left: a.Type(), Right: b.Type()}
}

// Add sums numbers and concatenates strings or arrays. Null is the identity.
func Add(a, b Value) (Value, error) {
	if _, ok := a.(Null); ok {
		return b, nil
	}
	if _, ok := b.(Null); ok {
		return a, nil
	}
	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return x + y, nil
		}
	case String:
		if y, ok := b.(String); ok {
			return x + y, nil
		}
	case Array:
		if y, ok := b.(Array); ok {
			out := make(Array, 0, len(x)+len(y))
			out = append(out, x...)
			return append(out, y...), nil
		}
	}
	return nil, operandError("+", a, b)
}

// Sub subtracts numbers.
func Sub(a, b Value) (Value, error) {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	if !ok1 || !ok2 {
		return nil, operandError("-", a, b)
	}
	return x - y, nil
}

// Mul multiplies numbers and repeats a string by a non-negative count.
func Mul(a, b Value) (Value, error) {
	switch x := a.(type) {
	case Number:
		switch y := b.(type) {
		case Number:
			return x * y, nil
		case String:
			return repeat(y, x), nil
		}
	case String:
		if y, ok := b.(Number); ok {
			return repeat(x, y), nil
		}
	}
	return nil, operandError("*", a, b)
}

func repeat(s String, n Number) Value {
	count := int(math.Floor(float64(n)))
	if count <= 0 {
		return String("")
	}
	return String(strings.Repeat(string(s), count))
}

// Div divides numbers.
func Div(a, b Value) (Value, error) {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	if !ok1 || !ok2 {
		return nil, operandError("/", a, b)
	}
	if y == 0 {
		return nil, ErrDivisionByZero
	}
	return x / y, nil
}

// Mod returns the floating point remainder of a divided by b.
func Mod(a, b Value) (Value, error) {
	x, ok1 := a.(Number)
	y, ok2 := b.(Number)
	if !ok1 || !ok2 {
		return nil, operandError("%", a, b)
	}
	if y == 0 {
		return nil, ErrDivisionByZero
	}
	return Number(math.Mod(float64(x), float64(y))), nil
}

// Concat stringifies both operands and joins them.
func Concat(a, b Value) Value {
	return String(ToText(a) + ToText(b))
}

// Negate flips the sign of a number.
func Negate(a Value) (Value, error) {
	x, ok := a.(Number)
	if !ok {
		return nil, &OperandError{Op: "-", Left: a.Type()}
	}
	return -x, nil
}
