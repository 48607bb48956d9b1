package aspsolver

import (
	"math/big"
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// BacktrackingSolver is the default Solver: a unit-propagating, chronological
// backtracking search over the clause system buildProgram produces. It plays
// the role the clingo grounder/solver pair plays for biobalm's trap-space and
// fixed-point problems (see the package doc comment for why this module
// carries its own solver rather than shelling out to one).
type BacktrackingSolver struct{}

// Enumerate implements Solver.
//
// clingo's real solve for Min/Max uses a Domain heuristic (--dom-mod=3,16 /
// 5,16) that only ever reports answer sets minimal/maximal in their true
// atoms, rather than every stable model — the raw clause system alone is
// satisfied by every trap space nested inside another one, not only the
// leaves. Lacking that heuristic, this solver instead enumerates every raw
// model and then filters to the inclusion-minimal (Min) or
// inclusion-maximal (Max) subspaces among them, which yields the same
// result set. Fix has no such ambiguity: the totality clause already forces
// every model to fix every variable, so there is nothing to filter.
func (BacktrackingSolver) Enumerate(pn *petrinet.Net, problem Problem, opts Options, onSolution func(bn.Subspace) bool) error {
	p := buildProgram(pn, problem, opts)

	var models [][]int8
	s := &search{program: p, assignment: make([]int8, len(p.atoms))}
	for i := range s.assignment {
		s.assignment[i] = -1
	}
	s.search(0, func(model []int8) bool {
		models = append(models, append([]int8(nil), model...))
		return true
	})

	spaces := make([]bn.Subspace, 0, len(models))
	seen := map[string]bool{}
	for _, m := range models {
		space := decode(p.atoms, m, p.invertedAtoms)
		key := spaceSignature(space)
		if seen[key] {
			continue
		}
		seen[key] = true
		spaces = append(spaces, space)
	}

	switch problem {
	case Min:
		spaces = selectMinimal(spaces)
	case Max:
		spaces = selectMaximal(spaces)
	}

	sort.Slice(spaces, func(i, j int) bool {
		return spaceOrderKey(p.atoms, spaces[i]).Cmp(spaceOrderKey(p.atoms, spaces[j])) < 0
	})

	if limit := opts.SolutionLimit; limit > 0 && len(spaces) > limit {
		spaces = spaces[:limit]
	}

	for _, space := range spaces {
		if !onSolution(space) {
			break
		}
	}
	return nil
}

// selectMinimal keeps only the subspaces with no strictly more specific
// subspace elsewhere in the set (the leaves of the nesting order).
func selectMinimal(spaces []bn.Subspace) []bn.Subspace {
	var out []bn.Subspace
	for i, s := range spaces {
		refined := false
		for j, other := range spaces {
			if i != j && len(other) > len(s) && bn.IsSubspace(other, s) {
				refined = true
				break
			}
		}
		if !refined {
			out = append(out, s)
		}
	}
	return out
}

// selectMaximal keeps only the subspaces with no strictly coarser subspace
// elsewhere in the set (the roots of the nesting order).
func selectMaximal(spaces []bn.Subspace) []bn.Subspace {
	var out []bn.Subspace
	for i, s := range spaces {
		generalized := false
		for j, other := range spaces {
			if i != j && len(other) < len(s) && bn.IsSubspace(s, other) {
				generalized = true
				break
			}
		}
		if !generalized {
			out = append(out, s)
		}
	}
	return out
}

func spaceSignature(space bn.Subspace) string {
	var b []byte
	for _, name := range space.Names() {
		b = append(b, name...)
		b = append(b, '=', '0'+space[name], ';')
	}
	return string(b)
}

// search performs a standard DPLL-style enumeration: unit propagation to a
// fixpoint, then branch on the first unassigned atom trying false then true,
// recursing until every atom is assigned (emit) or a clause is violated
// (backtrack). onModel is invoked once per satisfying total assignment and
// may return false to stop the search early. Enumerate's onModel always
// returns true: it collects every model, because the Min/Max filtering needs
// the whole set, and applies SolutionLimit only afterwards.
type search struct {
	program    *program
	assignment []int8 // -1 unknown, 0 false, 1 true
}

func (s *search) search(depth int, onModel func([]int8) bool) bool {
	assigned, ok := s.propagate()
	if !ok {
		s.undo(assigned)
		return true // conflict: this branch is exhausted, keep searching siblings
	}

	next := -1
	for i, v := range s.assignment {
		if v == -1 {
			next = i
			break
		}
	}
	if next == -1 {
		cont := onModel(s.assignment)
		s.undo(assigned)
		return cont
	}

	for _, val := range [2]int8{0, 1} {
		s.assignment[next] = val
		if !s.search(depth+1, onModel) {
			s.assignment[next] = -1
			s.undo(assigned)
			return false
		}
		s.assignment[next] = -1
	}
	s.undo(assigned)
	return true
}

// propagate repeatedly finds unit clauses (exactly one unassigned literal,
// every other literal false) and forces their value, until a fixpoint or a
// clause is violated (every literal false). It returns the indices it
// assigned, for undo, and ok=false on conflict.
func (s *search) propagate() ([]int, bool) {
	var assigned []int
	changed := true
	for changed {
		changed = false
		for _, c := range s.program.clauses {
			status, unit := s.evalClause(c)
			switch status {
			case clauseViolated:
				return assigned, false
			case clauseUnit:
				idx := s.program.index[unit.place]
				val := int8(1)
				if unit.neg {
					val = 0
				}
				s.assignment[idx] = val
				assigned = append(assigned, idx)
				changed = true
			}
		}
	}
	return assigned, true
}

func (s *search) undo(assigned []int) {
	for _, idx := range assigned {
		s.assignment[idx] = -1
	}
}

type clauseStatus int

const (
	clauseSatisfied clauseStatus = iota
	clauseViolated
	clauseUnit
	clauseUnresolved
)

func (s *search) evalClause(c clause) (clauseStatus, literal) {
	var unassigned []literal
	for _, lit := range c {
		v := s.assignment[s.program.index[lit.place]]
		if v == -1 {
			unassigned = append(unassigned, lit)
			continue
		}
		lv := v == 1
		if lv != lit.neg {
			return clauseSatisfied, literal{}
		}
	}
	switch len(unassigned) {
	case 0:
		return clauseViolated, literal{}
	case 1:
		return clauseUnit, unassigned[0]
	default:
		return clauseUnresolved, literal{}
	}
}

// decode turns a total assignment back into a Subspace. Under the Fix
// (direct-marking) convention, atom b<bit>_v true fixes v to bit. Under the
// Min/Max (siphon-membership) convention, atom b<bit>_v true instead means
// that place can never hold a token again, which fixes v to the OPPOSITE of
// bit (see program.invertedAtoms). An atom left false (or both places of a
// variable left false) leaves that variable free, and is simply omitted.
func decode(atoms []string, assignment []int8, invertedAtoms bool) bn.Subspace {
	space := bn.Subspace{}
	for i, a := range atoms {
		if assignment[i] != 1 {
			continue
		}
		v, value, ok := petrinet.ParsePlace(a)
		if !ok {
			continue
		}
		if invertedAtoms {
			value = 1 - value
		}
		space[v] = value
	}
	return space
}

// spaceOrderKey produces a canonical ordering key for a Subspace so that
// Enumerate's output is deterministic regardless of search order: each
// variable contributes 2 bits at its position in atoms' variable order (10
// for fixed-to-0, 11 for fixed-to-1, 00 for free) — the same 2-bit codes as
// bn.SpaceKey, but with the first variable in the most significant position
// (bn.SpaceKey puts index 0 in the least significant bits). It is computed
// locally since aspsolver works from place names rather than a bn.Network.
func spaceOrderKey(atoms []string, space bn.Subspace) *big.Int {
	variables := variableOrder(atoms)
	key := big.NewInt(0)
	for _, v := range variables {
		key.Lsh(key, 2)
		if value, ok := space[v]; ok {
			key.Or(key, big.NewInt(int64(2+value)))
		}
	}
	return key
}

// variableOrder recovers the sorted, de-duplicated variable names underlying
// a sorted place-name list.
func variableOrder(atoms []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range atoms {
		v, _, ok := petrinet.ParsePlace(a)
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
