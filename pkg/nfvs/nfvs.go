// Package nfvs implements the NFVS-Heuristic component: an approximate
// minimum negative feedback vertex set (or, above a configurable variable
// count, an unsigned feedback vertex set) of a Boolean network's signed
// interaction graph, together with the retained-set builder Attractor-Core
// uses to collapse complex attractors down to at most one witness fixed
// point per node.
package nfvs

import (
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

// Compute returns an approximately minimum feedback vertex set of net's
// signed interaction graph: a negative FVS (hits every cycle with an odd
// number of negative edges) when net has at most threshold variables, or an
// unsigned FVS (hits every cycle regardless of sign) above that threshold,
// per spec.md §4.5. The result is sorted and deterministic.
func Compute(net *bn.Network, threshold int) []string {
	g := buildSignedGraph(net)
	negativeOnly := len(net.Variables()) <= threshold
	return g.feedbackVertexSet(negativeOnly)
}

// signedGraph is the static influence graph: edge u->v, sign positive when
// u occurs unnegated (after pushing Not to the leaves) in v's update
// function, negative when it occurs negated. edgeSign can hold both signs,
// but buildSignedGraph sets only one per pair (see signedOccurrences).
type signedGraph struct {
	vars  []string
	edges map[string]map[string]edgeSign // source -> target -> sign
}

type edgeSign struct {
	positive bool
	negative bool
}

func buildSignedGraph(net *bn.Network) *signedGraph {
	g := &signedGraph{
		vars:  append([]string(nil), net.Variables()...),
		edges: map[string]map[string]edgeSign{},
	}
	for _, v := range g.vars {
		g.edges[v] = map[string]edgeSign{}
	}
	for _, v := range net.Variables() {
		fn, ok := net.Function(v)
		if !ok {
			continue
		}
		for src, positive := range signedOccurrences(fn) {
			if _, known := net.Index(src); !known {
				continue
			}
			e := g.edges[src][v]
			if positive {
				e.positive = true
			} else {
				e.negative = true
			}
			g.edges[src][v] = e
		}
	}
	return g
}

// signedOccurrences returns, for every literal in e, whether it appears
// with an even (positive) or odd (negative) number of enclosing negations
// once Not is pushed down to the leaves: one bool per variable name, true
// iff every occurrence is positive. A variable occurring under both
// parities is reported as negative only.
func signedOccurrences(e bn.Expr) map[string]bool {
	result := map[string]bool{}
	var walk func(bn.Expr, bool)
	walk = func(e bn.Expr, negated bool) {
		switch e := e.(type) {
		case bn.Const:
		case bn.Lit:
			if negated {
				result[string(e)] = false
			} else {
				if _, seen := result[string(e)]; !seen {
					result[string(e)] = true
				}
			}
		case bn.Not:
			walk(e.X, !negated)
		case bn.And:
			walk(e.X, negated)
			walk(e.Y, negated)
		case bn.Or:
			walk(e.X, negated)
			walk(e.Y, negated)
		}
	}
	walk(e, false)
	return result
}

// feedbackVertexSet greedily removes the highest-degree vertex on a
// discovered cycle until none remain, mirroring the "approximately minimal,
// deterministic" contract spec.md §4.5 documents for the NFVS heuristic
// (the underlying algorithm in the original's AEON dependency is opaque;
// this is a from-scratch heuristic grounded on the same greedy-removal
// shape katalvlaran-lvlath's cycle detector suggests — see DESIGN.md).
func (g *signedGraph) feedbackVertexSet(negativeOnly bool) []string {
	removed := map[string]bool{}
	var fvs []string
	for {
		cycle, ok := g.findCycle(removed, negativeOnly)
		if !ok {
			break
		}
		victim := g.highestDegree(cycle, removed)
		removed[victim] = true
		fvs = append(fvs, victim)
	}
	sort.Strings(fvs)
	return fvs
}

// findCycle performs a three-color DFS over the remaining vertices,
// reporting the first cycle found. When negativeOnly is set, only cycles
// with an odd number of negative edges are reported (others are traversed
// through but not treated as terminal).
func (g *signedGraph) findCycle(removed map[string]bool, negativeOnly bool) ([]string, bool) {
	const (
		white = iota
		gray
		black
	)
	state := map[string]int{}
	path := map[string]int{} // vertex -> index in stack
	var stack []string
	var negCount []int // running negative-edge parity at each stack depth

	var found []string
	var dfs func(v string) bool
	dfs = func(v string) bool {
		state[v] = gray
		path[v] = len(stack)
		stack = append(stack, v)
		if len(negCount) == 0 {
			negCount = append(negCount, 0)
		}

		targets := make([]string, 0, len(g.edges[v]))
		for t := range g.edges[v] {
			targets = append(targets, t)
		}
		sort.Strings(targets)

		for _, t := range targets {
			if removed[t] {
				continue
			}
			sign := g.edges[v][t]
			negStep := 0
			if sign.negative && !sign.positive {
				negStep = 1
			}
			switch state[t] {
			case white:
				negCount = append(negCount, negCount[len(negCount)-1]^negStep)
				if dfs(t) {
					return true
				}
				negCount = negCount[:len(negCount)-1]
			case gray:
				idx := path[t]
				parity := negCount[len(stack)-1] ^ negCount[idx] ^ negStep
				if !negativeOnly || parity == 1 {
					found = append([]string(nil), stack[idx:]...)
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(path, v)
		state[v] = black
		return false
	}

	for _, v := range g.vars {
		if removed[v] || state[v] != white {
			continue
		}
		negCount = []int{0}
		stack = nil
		if dfs(v) {
			return found, true
		}
	}
	return nil, false
}

// highestDegree returns the vertex in cycle with the largest combined
// in+out degree among still-present vertices, breaking ties
// lexicographically for determinism.
func (g *signedGraph) highestDegree(cycle []string, removed map[string]bool) string {
	best := cycle[0]
	bestDeg := -1
	for _, v := range cycle {
		deg := len(g.edges[v])
		for _, other := range g.vars {
			if removed[other] || other == v {
				continue
			}
			if _, ok := g.edges[other][v]; ok {
				deg++
			}
		}
		if deg > bestDeg || (deg == bestDeg && v < best) {
			best = v
			bestDeg = deg
		}
	}
	return best
}

// RetainedSet builds the subspace described in spec.md §4.5: imposing these
// values as constants leaves at most one fixed point per complex attractor
// of the unmodified network. childMotifs are the child stable motifs of the
// node under consideration, already reduced (parent's fixed variables
// removed).
func RetainedSet(net *bn.Network, nfvsSet []string, childMotifs []bn.Subspace) bn.Subspace {
	nfvs := map[string]bool{}
	for _, v := range nfvsSet {
		nfvs[v] = true
	}

	retained := bn.Subspace{}
	if best, ok := leastOverlapping(nfvs, childMotifs); ok {
		for v, val := range best {
			if nfvs[v] {
				retained[v] = val
			}
		}
	}

	remaining := make([]string, 0, len(nfvsSet))
	for _, v := range nfvsSet {
		if _, fixed := retained[v]; !fixed {
			remaining = append(remaining, v)
		}
	}
	sort.Strings(remaining)

	for _, v := range remaining {
		fn, ok := net.Function(v)
		if !ok {
			continue // free input: no majority value to derive
		}
		retained[v] = majorityValue(fn)
	}
	return retained
}

// leastOverlapping returns the child motif whose support shares the fewest
// variables with nfvs.
func leastOverlapping(nfvs map[string]bool, motifs []bn.Subspace) (bn.Subspace, bool) {
	if len(motifs) == 0 {
		return nil, false
	}
	bestIdx := 0
	bestOverlap := -1
	for i, m := range motifs {
		overlap := 0
		for v := range m {
			if nfvs[v] {
				overlap++
			}
		}
		if bestOverlap == -1 || overlap < bestOverlap {
			bestOverlap = overlap
			bestIdx = i
		}
	}
	return motifs[bestIdx], true
}

// majorityValue returns 1 if fn's satisfying set (over its own support) is
// strictly larger than its falsifying set, 0 otherwise, by brute-force
// enumeration over fn's support — tractable since NFVS variables are a
// small minority of a tractable-sized network (the same scale assumption
// the rest of the trap/fixed-point enumeration already relies on).
func majorityValue(fn bn.Expr) uint8 {
	support := bn.Support(fn)
	total := 1 << uint(len(support))
	trueCount := 0
	for mask := 0; mask < total; mask++ {
		assignment := bn.Subspace{}
		for i, v := range support {
			assignment[v] = uint8((mask >> uint(i)) & 1)
		}
		if val, ok := bn.Eval(fn, assignment); ok && val == 1 {
			trueCount++
		}
	}
	if trueCount*2 > total {
		return 1
	}
	return 0
}
