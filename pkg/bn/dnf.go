package bn

// DNF converts a Boolean expression into an equivalent disjunctive normal
// form, represented as a list of conjunctive clauses (each a Subspace).
// Clauses are not necessarily disjoint and the list is not necessarily
// minimal; see ExpressionToSpaceList in the Python original.
//
// At each recursion step the splitting variable is the one whose true/false
// restrictions have the smallest combined Size, mirroring the BDD-guided
// recursive DNF enumerator described for the PN-Encoder: this avoids the
// naive exponential clause blow-up of expanding every variable in a fixed
// order. The module has no BDD library to measure true shared-node size
// against (see DESIGN.md), so Size counts syntax-tree nodes after
// restriction instead; this preserves the splitting heuristic's intent
// (favor whichever variable collapses the expression the most) without a
// BDD package.
func DNF(e Expr) []Subspace {
	e = Simplify(e)

	switch c := e.(type) {
	case Const:
		if bool(c) {
			return []Subspace{{}}
		}
		return nil
	}

	support := Support(e)
	if len(support) == 0 {
		// Simplify should have already reduced any closed expression to a
		// Const above; this is just a defensive fallback.
		return nil
	}

	bestVar := support[0]
	bestScore := -1
	var bestT, bestF Expr
	for _, v := range support {
		t := Simplify(Restrict(e, v, 1))
		f := Simplify(Restrict(e, v, 0))
		score := Size(t) + Size(f)
		if bestScore == -1 || score < bestScore {
			bestScore = score
			bestVar = v
			bestT, bestF = t, f
		}
	}

	var out []Subspace
	for _, clause := range DNF(bestT) {
		clause[bestVar] = 1
		out = append(out, clause)
	}
	for _, clause := range DNF(bestF) {
		clause[bestVar] = 0
		out = append(out, clause)
	}
	return out
}
