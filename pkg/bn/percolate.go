package bn

// Percolate computes the smallest subspace that extends space under
// forced-value propagation: repeatedly evaluating each variable's update
// function against the current restriction and fixing any variable whose
// value becomes determined.
//
// If a variable's update function evaluates to a value that conflicts with
// an already-fixed coordinate, the original fixing is preserved unchanged
// and percolation does not propagate further from that contradiction — the
// returned space may then lie "outside" the argument in the sense that it is
// no longer a trap space, but it always preserves every coordinate
// originally fixed in space. When space is already a trap space, Percolate
// returns a trap space that is a subspace of space.
//
// Percolate is idempotent: Percolate(net, Percolate(net, s)) equals
// Percolate(net, s).
func Percolate(net *Network, space Subspace) Subspace {
	working := space.Clone()
	for {
		changed := false
		for _, v := range net.variables {
			fn, ok := net.functions[v]
			if !ok {
				continue // free input, nothing to percolate
			}
			val, ok := Eval(fn, working)
			if !ok {
				continue
			}
			if cur, has := working[v]; has {
				if cur != val {
					// Conflict: keep the original fixing, do not propagate.
					continue
				}
				continue
			}
			working[v] = val
			changed = true
		}
		if !changed {
			break
		}
	}
	return working
}

// PercolateStrict percolates only the *new* constants implied by space,
// ignoring variables whose update function is already a syntactic constant
// (PercolateStrict never re-derives those) and never re-reporting a
// coordinate that was already fixed in space unless it is freshly re-derived
// without conflict. A variable whose update function conflicts with an
// already-fixed value (its own, or one derived earlier in this call) is
// dropped silently and never appears in the result.
func PercolateStrict(net *Network, space Subspace) Subspace {
	restriction := space.Clone()
	result := Subspace{}

	candidates := map[string]bool{}
	for _, v := range net.variables {
		fn, ok := net.functions[v]
		if !ok {
			continue
		}
		if isLiteralConst(fn) {
			continue
		}
		candidates[v] = true
	}

	for {
		progressed := false
		for v := range candidates {
			fn := net.functions[v]
			val, ok := Eval(fn, restriction)
			if !ok {
				continue
			}
			if cur, has := restriction[v]; has && cur != val {
				delete(candidates, v)
				continue
			}
			restriction[v] = val
			result[v] = val
			delete(candidates, v)
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return result
}

// PercolationConflicts returns the set of variables fixed in space whose
// percolated value (see Percolate, or PercolateStrict if strict is true)
// disagrees with the update function evaluated against the percolated
// space.
func PercolationConflicts(net *Network, space Subspace, strict bool) map[string]bool {
	var perc Subspace
	if strict {
		perc = PercolateStrict(net, space)
	} else {
		perc = Percolate(net, space)
	}

	conflicts := map[string]bool{}
	for v, val := range perc {
		fn, ok := net.functions[v]
		if !ok {
			continue
		}
		if fnVal, ok := Eval(fn, perc); ok && fnVal != val {
			conflicts[v] = true
		}
	}
	return conflicts
}

// PercolateNetwork reduces net by percolating space and restricting every
// update function to the result. Free inputs fixed by the percolated space
// become constant functions. If removeConstants is true, variables whose
// update function collapsed to a constant are inlined wherever they are
// referenced and dropped from the returned network.
func PercolateNetwork(net *Network, space Subspace, removeConstants bool) *Network {
	percolated := Percolate(net, space)

	updated := make(map[string]Expr, len(net.functions))
	for _, v := range net.variables {
		fn, ok := net.functions[v]
		if !ok {
			if val, fixed := percolated[v]; fixed {
				updated[v] = Const(val == 1)
			}
			continue
		}
		updated[v] = RestrictSpace(fn, percolated)
	}

	result := net.With(updated)
	if removeConstants {
		result = inlineConstants(result)
	}
	return result
}

// inlineConstants repeatedly substitutes variables whose update function is
// a syntactic constant into every other function that references them, then
// drops those variables from the network.
func inlineConstants(net *Network) *Network {
	functions := make(map[string]Expr, len(net.functions))
	for k, v := range net.functions {
		functions[k] = v
	}

	for {
		constants := Subspace{}
		for v, fn := range functions {
			if c, ok := Simplify(fn).(Const); ok {
				constants[v] = boolToBit(bool(c))
			}
		}
		if len(constants) == 0 {
			break
		}

		remaining := make(map[string]Expr, len(functions))
		for v, fn := range functions {
			if _, isConst := constants[v]; isConst {
				continue
			}
			remaining[v] = Simplify(RestrictSpace(fn, constants))
		}
		functions = remaining
	}

	out, err := New(functions)
	if err != nil {
		// Variable names were already validated by the source network, so
		// this cannot actually happen; fall back defensively.
		return net
	}
	return out
}

func boolToBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
