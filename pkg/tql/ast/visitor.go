package ast

// Visitor is called for each node during Walk.
type Visitor interface {
	Visit(Expr) error
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(Expr) error

// Visit calls f(e).
func (f VisitorFunc) Visit(e Expr) error { return f(e) }

// WalkQuery walks every top-level expression of q in order.
func WalkQuery(q *Query, v Visitor) error {
	for _, e := range q.Expressions {
		if err := Walk(e, v); err != nil {
			return err
		}
	}
	return nil
}

// Walk traverses e depth-first, visiting a node before its children. It
// returns the first error encountered, or nil if traversal completes.
func Walk(e Expr, v Visitor) error {
	if e == nil {
		return nil
	}
	if err := v.Visit(e); err != nil {
		return err
	}

	switch n := e.(type) {
	case *PipedExpr:
		return walkAll(n.Stages, v)
	case *Index:
		return Walk(n.Target, v)
	case *Function:
		return walkAll(n.Args, v)
	case *Hierarchy:
		if err := Walk(n.Parent, v); err != nil {
			return err
		}
		return Walk(n.Child, v)
	case *Binary:
		if err := Walk(n.Left, v); err != nil {
			return err
		}
		return Walk(n.Right, v)
	case *Unary:
		return Walk(n.Expr, v)
	case *Object:
		for _, p := range n.Pairs {
			if err := Walk(p.Value, v); err != nil {
				return err
			}
		}
	case *Array:
		return walkAll(n.Elements, v)
	case *Conditional:
		if err := Walk(n.Condition, v); err != nil {
			return err
		}
		if err := Walk(n.Then, v); err != nil {
			return err
		}
		return Walk(n.Else, v)
	case *Group:
		return Walk(n.Expr, v)
	}
	return nil
}

func walkAll(exprs []Expr, v Visitor) error {
	for _, e := range exprs {
		if err := Walk(e, v); err != nil {
			return err
		}
	}
	return nil
}
