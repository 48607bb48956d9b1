package petrinet

import (
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

// Restrict produces a copy of pn with every variable fixed by space removed:
// the place corresponding to the fixed value is removed (its effect on
// transitions is assumed already fulfilled), together with every transition
// that depends on the inverse, now-unsatisfiable place, and the inverse
// place itself. Variables fixed in space but absent from pn are ignored.
//
// The result is semantically equivalent to pn percolated to space for the
// purposes of trap-space and fixed-point enumeration; it performs no further
// percolation of its own.
func Restrict(pn *Net, space bn.Subspace) *Net {
	result := pn.clone()

	for variable, value := range space {
		fixedPlace := PlaceName(variable, value)
		inversePlace := PlaceName(variable, 1-value)

		if !result.places[fixedPlace] || !result.places[inversePlace] {
			continue // already removed
		}

		toDelete := map[string]bool{}

		for name, tr := range result.transitions {
			for _, s := range tr.Successors() {
				if s == fixedPlace && !containsPlace(tr.Predecessors(), fixedPlace) {
					toDelete[name] = true
				}
				if s == inversePlace && !containsPlace(tr.Predecessors(), inversePlace) {
					toDelete[name] = true
				}
			}
			for _, p := range tr.Predecessors() {
				if p == inversePlace {
					toDelete[name] = true
				}
			}
		}

		for name := range toDelete {
			delete(result.transitions, name)
		}
		for _, tr := range result.transitions {
			kept := tr.Guards[:0]
			for _, g := range tr.Guards {
				if g != fixedPlace {
					kept = append(kept, g)
				}
			}
			tr.Guards = kept
		}

		delete(result.places, fixedPlace)
		delete(result.places, inversePlace)
	}

	result.variables = extractVariables(result)
	return result
}

func containsPlace(places []string, target string) bool {
	for _, p := range places {
		if p == target {
			return true
		}
	}
	return false
}

func (n *Net) clone() *Net {
	places := make(map[string]bool, len(n.places))
	for k, v := range n.places {
		places[k] = v
	}
	transitions := make(map[string]*Transition, len(n.transitions))
	for k, v := range n.transitions {
		guards := append([]string(nil), v.Guards...)
		transitions[k] = &Transition{Name: v.Name, Variable: v.Variable, Up: v.Up, Guards: guards}
	}
	variables := append([]string(nil), n.variables...)
	return &Net{variables: variables, places: places, transitions: transitions}
}

// extractVariables recomputes the variable list of n from its remaining
// places, sorted lexicographically — mirrors extract_variable_names in the
// Python original (the Petri net does not otherwise preserve BN variable
// order).
func extractVariables(n *Net) []string {
	seen := map[string]bool{}
	for place := range n.places {
		v, _, ok := ParsePlace(place)
		if !ok {
			continue
		}
		seen[v] = true
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// SourceVariables returns the names of the variables that never appear as
// the Variable of any transition: free inputs and variables whose update
// function is the identity. Source variables are fixed all-at-once by
// source-oriented expansion strategies, and are never left as a "*" (free)
// placeholder when enumerating maximal trap spaces (see aspsolver.Max).
func SourceVariables(n *Net) []string {
	changed := map[string]bool{}
	for _, tr := range n.transitions {
		changed[tr.Variable] = true
	}
	var out []string
	for _, v := range n.variables {
		if !changed[v] {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// RemoveTransitionsToward returns a copy of pn with every transition that
// moves a retained variable toward its retained value removed: for
// variable v retained at value, every transition with Variable==v and
// Up==(value==1) is deleted. This is the "has its outgoing transitions
// (toward the retained value) removed" construction spec.md §4.6 uses to
// turn a retained set into a modified Petri net whose fixed points are
// Attractor-Core's initial candidate set.
func RemoveTransitionsToward(pn *Net, retained bn.Subspace) *Net {
	result := pn.clone()
	for name, tr := range result.transitions {
		value, retainedVar := retained[tr.Variable]
		if !retainedVar {
			continue
		}
		if tr.Up == (value == 1) {
			delete(result.transitions, name)
		}
	}
	return result
}
