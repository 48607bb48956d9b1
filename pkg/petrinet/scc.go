package petrinet

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

// dependencyGraph returns, for each variable of net, the set of variables
// its update function directly reads (bn.Support), i.e. edge v->w whenever
// w depends on v. Free inputs have no incoming dependency edges (they have
// no update function to read anything) but have an outgoing edge to every
// variable that reads them.
func dependencyGraph(net *bn.Network) map[string][]string {
	deps := make(map[string][]string, len(net.Variables()))
	for _, v := range net.Variables() {
		deps[v] = nil
	}
	for _, w := range net.Variables() {
		fn, ok := net.Function(w)
		if !ok {
			continue
		}
		for _, v := range bn.Support(fn) {
			deps[v] = append(deps[v], w)
		}
	}
	for v := range deps {
		sort.Strings(deps[v])
	}
	return deps
}

// SCCs returns the strongly connected components of net's variable
// dependency graph (edge v->w when w's update function reads v), computed
// with Tarjan's algorithm, in reverse-topological (condensation) order —
// each component sorted lexicographically, following the same
// three-color/stack traversal idiom used elsewhere in this module's
// dependency-graph utilities (grounded on katalvlaran-lvlath's dfs package
// traversal shape; see DESIGN.md).
func SCCs(net *bn.Network) [][]string {
	deps := dependencyGraph(net)
	vars := net.Variables()

	index := map[string]int{}
	low := map[string]int{}
	onStack := bitset.New(uint(len(vars)))
	var stack []string
	counter := 0
	var components [][]string

	varBit := func(v string) uint {
		i, _ := net.Index(v)
		return uint(i)
	}

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack.Set(varBit(v))

		for _, w := range deps[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack.Test(varBit(w)) {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var comp []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack.Clear(varBit(w))
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sort.Strings(comp)
			components = append(components, comp)
		}
	}

	for _, v := range vars {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return components
}

// SourceSCCs returns the components among SCCs(net) that have no incoming
// dependency edge from a variable outside the component — the "upstream"
// strongly connected components, analogous to source variables but at the
// granularity of a whole cycle.
func SourceSCCs(net *bn.Network) [][]string {
	deps := dependencyGraph(net)
	memberOf := map[string]int{}
	comps := SCCs(net)
	for i, c := range comps {
		for _, v := range c {
			memberOf[v] = i
		}
	}

	hasIncoming := make([]bool, len(comps))
	for v, targets := range deps {
		for _, w := range targets {
			if memberOf[v] != memberOf[w] {
				hasIncoming[memberOf[w]] = true
			}
		}
	}

	var out [][]string
	for i, c := range comps {
		if !hasIncoming[i] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// BackwardClosure returns vars together with every variable it transitively
// depends on (its ancestors in the dependency graph), sorted and
// deduplicated. This is the "backward closure of the variables fixed by a
// motif" spec.md §4.8 describes for source-block expansion.
func BackwardClosure(net *bn.Network, vars []string) []string {
	parentsOf := make(map[string][]string, len(net.Variables()))
	for _, v := range net.Variables() {
		parentsOf[v] = nil
	}
	for _, w := range net.Variables() {
		fn, ok := net.Function(w)
		if !ok {
			continue
		}
		parentsOf[w] = bn.Support(fn)
	}

	seen := bitset.New(uint(len(net.Variables())))
	seenNames := map[string]bool{}
	varBit := func(v string) uint {
		i, _ := net.Index(v)
		return uint(i)
	}
	var stack []string
	for _, v := range vars {
		if !seen.Test(varBit(v)) {
			seen.Set(varBit(v))
			seenNames[v] = true
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		n := len(stack) - 1
		v := stack[n]
		stack = stack[:n]
		for _, p := range parentsOf[v] {
			if !seen.Test(varBit(p)) {
				seen.Set(varBit(p))
				seenNames[p] = true
				stack = append(stack, p)
			}
		}
	}

	out := make([]string, 0, len(seenNames))
	for v := range seenNames {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
