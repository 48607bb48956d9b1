// Package petrinet implements the PN-Encoder component: translation of a
// Boolean network's update functions into a Petri net whose siphons and
// deadlocks correspond to the network's trap spaces and fixed points.
//
// For each BN variable v, two places b0_v and b1_v represent v=0 and v=1.
// For each clause of the DNF of f_v ∧ ¬v (activation) a transition consumes
// b0_v and the tokens witnessing the clause and produces b1_v; symmetrically
// for deactivation. At every reachable marking exactly one of b0_v, b1_v is
// marked, reflecting a Boolean state.
package petrinet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

// NodeKind distinguishes the two kinds of PN node: Place and Transition.
type NodeKind int

const (
	Place NodeKind = iota
	Transition
)

// Transition is a PN transition node: it moves a token between the two
// places of Variable (in the direction Up: b0->b1, or down: b1->b0), gated
// by read-arcs on the places listed in Guards (each guard place is both a
// predecessor and successor of the transition — the token is read, not
// consumed).
type Transition struct {
	Name     string
	Variable string
	Up       bool // true: b0_v -> b1_v ; false: b1_v -> b0_v
	Guards   []string
}

// Net is a Petri net encoding of a Boolean network, following the two
// places/variable, implicant-per-transition scheme described in the package
// doc comment.
type Net struct {
	variables   []string // sorted; variables that still have places
	places      map[string]bool
	transitions map[string]*Transition
}

// PlaceName returns the Petri net place name for variable taking the given
// value: "b1_<var>" for value=1, "b0_<var>" for value=0.
func PlaceName(variable string, value uint8) string {
	if value == 1 {
		return "b1_" + variable
	}
	return "b0_" + variable
}

// ParsePlace extracts the variable name and fixed value from a place name
// produced by PlaceName. It returns ok=false for anything else.
func ParsePlace(place string) (variable string, value uint8, ok bool) {
	switch {
	case strings.HasPrefix(place, "b1_"):
		return place[3:], 1, true
	case strings.HasPrefix(place, "b0_"):
		return place[3:], 0, true
	default:
		return "", 0, false
	}
}

// Variables returns the names of the variables that still have places in
// the net, sorted lexicographically. After Restrict, this no longer
// necessarily equals the encoding network's full variable list.
func (n *Net) Variables() []string {
	out := make([]string, len(n.variables))
	copy(out, n.variables)
	return out
}

// HasPlace reports whether the net still has place.
func (n *Net) HasPlace(place string) bool {
	return n.places[place]
}

// Transitions returns every transition in the net, sorted by name for
// deterministic iteration.
func (n *Net) Transitions() []*Transition {
	names := make([]string, 0, len(n.transitions))
	for name := range n.transitions {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Transition, len(names))
	for i, name := range names {
		out[i] = n.transitions[name]
	}
	return out
}

// Predecessors returns the places that feed transition t: its source place
// plus every guard place.
func (t *Transition) Predecessors() []string {
	src := PlaceName(t.Variable, boolToBit(!t.Up))
	return append([]string{src}, t.Guards...)
}

// Successors returns the places transition t produces tokens into: its
// target place plus every guard place (guards are read, not consumed, so
// they are both predecessor and successor).
func (t *Transition) Successors() []string {
	dst := PlaceName(t.Variable, boolToBit(t.Up))
	return append([]string{dst}, t.Guards...)
}

func boolToBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Encode translates net into its Petri net encoding. net must already have
// sanitized variable names (see bn.Sanitize) and must contain no parameters:
// every variable either has an update function or is a free input.
func Encode(net *bn.Network) (*Net, error) {
	pn := &Net{
		variables:   append([]string(nil), net.Variables()...),
		places:      map[string]bool{},
		transitions: map[string]*Transition{},
	}

	for _, v := range net.Variables() {
		pn.places[PlaceName(v, 0)] = true
		pn.places[PlaceName(v, 1)] = true
	}

	for _, v := range net.Variables() {
		fn, ok := net.Function(v)
		if !ok {
			continue // free input: no transitions
		}

		activation := bn.Simplify(bn.And{fn, bn.Not{bn.Lit(v)}})
		deactivation := bn.Simplify(bn.And{bn.Not{fn}, bn.Lit(v)})

		if err := addTransitions(pn, v, activation, true); err != nil {
			return nil, err
		}
		if err := addTransitions(pn, v, deactivation, false); err != nil {
			return nil, err
		}
	}

	return pn, nil
}

func addTransitions(pn *Net, variable string, implicantExpr bn.Expr, up bool) error {
	clauses := bn.DNF(implicantExpr)
	dir := "down"
	if up {
		dir = "up"
	}
	for i, clause := range clauses {
		name := fmt.Sprintf("tr_%s_%s_%d", variable, dir, i+1)
		var guards []string
		for g, val := range clause {
			if g == variable {
				continue
			}
			guards = append(guards, PlaceName(g, val))
		}
		sort.Strings(guards)
		pn.transitions[name] = &Transition{
			Name:     name,
			Variable: variable,
			Up:       up,
			Guards:   guards,
		}
	}
	return nil
}
