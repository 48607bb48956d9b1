// Package symbolic implements the SymbolicOps component: a thin adapter
// over a symbolic Boolean-function library (normally a BDD package and an
// asynchronous symbolic transition graph). No BDD library ships in this
// module's dependency pack (see DESIGN.md), so Engine is backed by an
// explicit-state representation instead: a StateSet is the set of full
// concrete states satisfying a DNF formula, materialized as needed. For the
// network sizes this engine targets (bounded by MaxMotifsPerNode /
// AttractorCandidatesLimit before ever reaching this package) explicit
// enumeration of a single node's local reachable set is tractable; the
// public surface mirrors what a BDD-backed Engine would expose so swapping
// in a real symbolic library only touches this package.
package symbolic

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

// postCacheSize bounds the per-Engine VarPostOut memoization cache. A single
// Attractor-Core pass repeatedly re-evaluates the same (state, variable)
// transition across many candidates and simulation trajectories sharing one
// Engine, so a bounded LRU (the same caching idiom AKJUS-bsc-erigon uses
// throughout its state/trie layers — see DESIGN.md) avoids recomputing
// bn.Eval against the same update function over and over.
const postCacheSize = 4096

// Engine is the symbolic adapter for one Boolean network. Its network never
// changes once built; the only state its methods update is the VarPostOut
// memoization cache.
type Engine struct {
	net       *bn.Network
	postCache *lru.Cache[string, postResult]
}

type postResult struct {
	state State
	ok    bool
}

// New builds an Engine over net.
func New(net *bn.Network) *Engine {
	cache, _ := lru.New[string, postResult](postCacheSize)
	return &Engine{net: net, postCache: cache}
}

// State is a full concrete state: every network variable is fixed.
type State = bn.Subspace

// StateSet is an explicit-state stand-in for a BDD-represented vertex set:
// the (small, node-local) collection of concrete states it denotes, keyed
// by their bn.Subspace signature for deduplication.
type StateSet struct {
	states map[string]State
}

// NewStateSet builds a StateSet from a list of states (duplicates merged).
func NewStateSet(states ...State) *StateSet {
	s := &StateSet{states: map[string]State{}}
	for _, st := range states {
		s.Add(st)
	}
	return s
}

// Add inserts state into the set.
func (s *StateSet) Add(state State) {
	s.states[signature(state)] = state.Clone()
}

// Contains reports whether state is a member.
func (s *StateSet) Contains(state State) bool {
	_, ok := s.states[signature(state)]
	return ok
}

// Len returns the number of member states.
func (s *StateSet) Len() int {
	return len(s.states)
}

// States returns the member states in a deterministic, signature-sorted
// order.
func (s *StateSet) States() []State {
	keys := make([]string, 0, len(s.states))
	for k := range s.states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]State, len(keys))
	for i, k := range keys {
		out[i] = s.states[k]
	}
	return out
}

// IntersectsSpace reports whether any member state lies in space (i.e. is a
// subspace of it in bn.IsSubspace's sense).
func (s *StateSet) IntersectsSpace(space bn.Subspace) bool {
	for _, st := range s.states {
		if bn.IsSubspace(st, space) {
			return true
		}
	}
	return false
}

func signature(s State) string {
	var b []byte
	for _, name := range s.Names() {
		b = append(b, name...)
		b = append(b, '=', '0'+s[name], ';')
	}
	return string(b)
}

// ClauseToDNF builds the single-clause DNF denoted by space: the
// conjunction of its fixed coordinates, i.e. []bn.Subspace{space}. This is
// the symbolic adapter's "conjunctive clause construction from a subspace"
// primitive; callers needing a disjunction of several subspaces simply
// build the slice directly (the DNF construction primitive is the identity
// at this granularity since bn.Subspace already models one clause).
func ClauseToDNF(space bn.Subspace) []bn.Subspace {
	return []bn.Subspace{space}
}

// Evaluate reports whether valuation (a total state) satisfies the DNF
// formula dnf.
func Evaluate(dnf []bn.Subspace, valuation State) bool {
	return bn.DNFIsTrue(dnf, valuation)
}

// VarPostOut returns the state reached by flipping variable in state if and
// only if the network's asynchronous transition relation enables that
// flip (state[variable]'s update function evaluates to the opposite of its
// current value) — "the target of variable's outgoing transition", per
// spec.md §4.4. ok is false if the transition is not enabled.
func (e *Engine) VarPostOut(state State, variable string) (State, bool) {
	key := signature(state) + "|" + variable
	if e.postCache != nil {
		if cached, ok := e.postCache.Get(key); ok {
			if !cached.ok {
				return nil, false
			}
			return cached.state.Clone(), true
		}
	}

	fn, ok := e.net.Function(variable)
	if !ok {
		// free input never has an enabled self-transition
		if e.postCache != nil {
			e.postCache.Add(key, postResult{ok: false})
		}
		return nil, false
	}
	want, ok := bn.Eval(fn, state)
	if !ok || want == state[variable] {
		if e.postCache != nil {
			e.postCache.Add(key, postResult{ok: false})
		}
		return nil, false
	}
	next := state.Clone()
	next[variable] = want
	if e.postCache != nil {
		e.postCache.Add(key, postResult{state: next.Clone(), ok: true})
	}
	return next, true
}

// VarPost returns every state reachable from state in at most one
// asynchronous step — i.e. {state} ∪ {VarPostOut(state, v)} over every
// variable v whose flip is enabled — mirroring the
// "successor states, including staying put" reading spec.md §4.4 assigns
// to var_post.
func (e *Engine) VarPost(state State) []State {
	out := []State{state.Clone()}
	for _, v := range e.net.Variables() {
		if next, ok := e.VarPostOut(state, v); ok {
			out = append(out, next)
		}
	}
	return out
}

// VarPre returns every state whose single enabled transition on variable
// leads to state: the predecessor set under the asynchronous relation.
func (e *Engine) VarPre(state State, variable string) []State {
	fn, ok := e.net.Function(variable)
	if !ok {
		return nil
	}
	var out []State
	current, has := state[variable]
	if !has {
		return nil
	}
	predecessor := state.Clone()
	predecessor[variable] = 1 - current
	if val, ok := bn.Eval(fn, predecessor); ok && val == current {
		out = append(out, predecessor)
	}
	return out
}

// conflictVariables returns the variables on which pivot and some avoid
// space disagree (fixed in both, to different values) first, followed by
// the remaining network variables — the priority order
// symbolic_attractor_test uses to pick which variable to "saturate" next.
func (e *Engine) conflictVariables(pivot State, avoid []bn.Subspace) []string {
	conflict := map[string]bool{}
	for _, a := range avoid {
		for v, av := range a {
			if pv, ok := pivot[v]; ok && pv != av {
				conflict[v] = true
			}
		}
	}
	var first, rest []string
	for _, v := range e.net.Variables() {
		if conflict[v] {
			first = append(first, v)
		} else {
			rest = append(rest, v)
		}
	}
	return append(first, rest...)
}

// Reachable computes the forward-reachable set from pivot in the
// asynchronous transition graph, closing it under each variable's post
// operator in turn (saturation), prioritizing conflict variables (those
// where pivot and some avoid space disagree) as spec.md §4.4 describes for
// symbolic_attractor_test. It returns ok=false the moment the closure
// touches any space in avoid — the candidate cannot be an attractor seed
// disjoint from avoid.
func (e *Engine) Reachable(pivot State, avoid []bn.Subspace) (*StateSet, bool) {
	closure := NewStateSet(pivot)
	order := e.conflictVariables(pivot, avoid)

	for _, space := range avoid {
		if bn.IsSubspace(pivot, space) {
			return closure, false
		}
	}

	changed := true
	for changed {
		changed = false
		for _, v := range order {
			for _, state := range closure.States() {
				next, ok := e.VarPostOut(state, v)
				if !ok || closure.Contains(next) {
					continue
				}
				for _, space := range avoid {
					if bn.IsSubspace(next, space) {
						return closure, false
					}
				}
				closure.Add(next)
				changed = true
			}
		}
	}
	return closure, true
}
