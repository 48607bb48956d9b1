package bn

import "sort"

// Expr is a Boolean update-function expression. The concrete types are
// Const, Lit, Not, And, and Or; construct them directly or via the helper
// constructors below.
//
// Expr trees are immutable once built: every transformation (Simplify,
// Restrict) returns a new tree.
type Expr interface {
	isExpr()
}

// Const is a Boolean literal constant.
type Const bool

func (Const) isExpr() {}

// Lit references a network variable by name.
type Lit string

func (Lit) isExpr() {}

// Not negates its operand.
type Not struct{ X Expr }

func (Not) isExpr() {}

// And is the conjunction of two operands.
type And struct{ X, Y Expr }

func (And) isExpr() {}

// Or is the disjunction of two operands.
type Or struct{ X, Y Expr }

func (Or) isExpr() {}

// AndAll and OrAll (helpers for building flattened n-ary expressions out of
// the binary constructors above) fold a slice of expressions with And/Or.

// AndAll folds xs with And, left to right. AndAll() with no arguments
// returns Const(true) (the identity of conjunction).
func AndAll(xs ...Expr) Expr {
	if len(xs) == 0 {
		return Const(true)
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = And{acc, x}
	}
	return acc
}

// OrAll folds xs with Or, left to right. OrAll() with no arguments returns
// Const(false) (the identity of disjunction).
func OrAll(xs ...Expr) Expr {
	if len(xs) == 0 {
		return Const(false)
	}
	acc := xs[0]
	for _, x := range xs[1:] {
		acc = Or{acc, x}
	}
	return acc
}

// Support returns the sorted, de-duplicated set of variable names that
// appear in e.
func Support(e Expr) []string {
	seen := map[string]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case Lit:
			seen[string(e)] = true
		case Not:
			walk(e.X)
		case And:
			walk(e.X)
			walk(e.Y)
		case Or:
			walk(e.X)
			walk(e.Y)
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Size counts the AST nodes of e. Used (in place of BDD size, which this
// module does not have access to) as the splitting heuristic for DNF
// conversion, see DNF.
func Size(e Expr) int {
	switch e := e.(type) {
	case Const, Lit:
		return 1
	case Not:
		return 1 + Size(e.X)
	case And:
		return 1 + Size(e.X) + Size(e.Y)
	case Or:
		return 1 + Size(e.X) + Size(e.Y)
	default:
		return 1
	}
}

// Eval partially evaluates e under a (possibly partial) subspace. It returns
// ok=false if the result cannot be determined from the fixed variables.
func Eval(e Expr, space Subspace) (value uint8, ok bool) {
	switch e := e.(type) {
	case Const:
		if e {
			return 1, true
		}
		return 0, true
	case Lit:
		v, has := space[string(e)]
		return v, has
	case Not:
		v, ok := Eval(e.X, space)
		if !ok {
			return 0, false
		}
		return 1 - v, true
	case And:
		xv, xok := Eval(e.X, space)
		if xok && xv == 0 {
			return 0, true
		}
		yv, yok := Eval(e.Y, space)
		if yok && yv == 0 {
			return 0, true
		}
		if xok && yok {
			return 1, true
		}
		return 0, false
	case Or:
		xv, xok := Eval(e.X, space)
		if xok && xv == 1 {
			return 1, true
		}
		yv, yok := Eval(e.Y, space)
		if yok && yv == 1 {
			return 1, true
		}
		if xok && yok {
			return 0, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Restrict substitutes a constant value for var throughout e, without
// simplifying the result (callers typically follow with Simplify).
func Restrict(e Expr, variable string, value uint8) Expr {
	switch e := e.(type) {
	case Const:
		return e
	case Lit:
		if string(e) == variable {
			return Const(value == 1)
		}
		return e
	case Not:
		return Not{Restrict(e.X, variable, value)}
	case And:
		return And{Restrict(e.X, variable, value), Restrict(e.Y, variable, value)}
	case Or:
		return Or{Restrict(e.X, variable, value), Restrict(e.Y, variable, value)}
	default:
		return e
	}
}

// RestrictSpace substitutes every variable fixed in space, leaving the rest
// of the expression untouched. The expression is simplified afterwards.
func RestrictSpace(e Expr, space Subspace) Expr {
	result := e
	for v, val := range space {
		result = Restrict(result, v, val)
	}
	return Simplify(result)
}

// Simplify collapses constant sub-expressions (double negation, And/Or with
// a Const operand) bottom-up. It does not perform any tautology/contradiction
// detection beyond purely syntactic constant folding. Percolate does not add
// any either: it iterates Eval, which is likewise syntactic, so an update
// function such as A | !A with A free is not recognized as constant.
func Simplify(e Expr) Expr {
	switch e := e.(type) {
	case Const, Lit:
		return e
	case Not:
		x := Simplify(e.X)
		if c, ok := x.(Const); ok {
			return Const(!bool(c))
		}
		if n, ok := x.(Not); ok {
			return n.X
		}
		return Not{x}
	case And:
		x := Simplify(e.X)
		y := Simplify(e.Y)
		if c, ok := x.(Const); ok {
			if !bool(c) {
				return Const(false)
			}
			return y
		}
		if c, ok := y.(Const); ok {
			if !bool(c) {
				return Const(false)
			}
			return x
		}
		return And{x, y}
	case Or:
		x := Simplify(e.X)
		y := Simplify(e.Y)
		if c, ok := x.(Const); ok {
			if bool(c) {
				return Const(true)
			}
			return y
		}
		if c, ok := y.(Const); ok {
			if bool(c) {
				return Const(true)
			}
			return x
		}
		return Or{x, y}
	default:
		return e
	}
}

// isLiteralConst reports whether e is syntactically Const, i.e. the update
// function is constant regardless of any other variable's value. This is
// the test PercolateStrict uses to decide which variables can never
// percolate beyond their starting value.
func isLiteralConst(e Expr) bool {
	_, ok := e.(Const)
	return ok
}
