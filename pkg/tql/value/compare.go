package value

import (
	"cmp"
	"math"
)

// Epsilon is the tolerance used when comparing numbers for equality.
const Epsilon = 1e-9

// Equal reports whether a and b are equal. Numbers compare within Epsilon,
// collections compare element-wise, and mismatched variants fall back to
// comparing their textual renderings. Null equals only null.
func Equal(a, b Value) bool {
	_, aNull := a.(Null)
	_, bNull := b.(Null)
	if aNull || bNull {
		return aNull && bNull
	}

	switch x := a.(type) {
	case Number:
		if y, ok := b.(Number); ok {
			return math.Abs(float64(x)-float64(y)) < Epsilon
		}
	case String:
		if y, ok := b.(String); ok {
			return x == y
		}
	case Bool:
		if y, ok := b.(Bool); ok {
			return x == y
		}
	case Array:
		if y, ok := b.(Array); ok {
			if len(x) != len(y) {
				return false
			}
			for i := range x {
				if !Equal(x[i], y[i]) {
					return false
				}
			}
			return true
		}
	case *Object:
		if y, ok := b.(*Object); ok {
			if x.Len() != y.Len() {
				return false
			}
			equal := true
			x.Range(func(k string, v Value) bool {
				other, ok := y.Get(k)
				equal = ok && Equal(v, other)
				return equal
			})
			return equal
		}
	}
	return ToText(a) == ToText(b)
}

// Compare orders a and b: numbers numerically, strings lexicographically,
// everything else by textual rendering.
func Compare(a, b Value) int {
	if x, ok := a.(Number); ok {
		if y, ok := b.(Number); ok {
			if math.Abs(float64(x)-float64(y)) < Epsilon {
				return 0
			}
			return cmp.Compare(float64(x), float64(y))
		}
	}
	if x, ok := a.(String); ok {
		if y, ok := b.(String); ok {
			return cmp.Compare(string(x), string(y))
		}
	}
	return cmp.Compare(ToText(a), ToText(b))
}
