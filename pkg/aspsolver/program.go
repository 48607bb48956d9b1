package aspsolver

import (
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// literal is a possibly-negated reference to a Petri net place, playing the
// role of a ground atom in the ASP encodings this package mirrors.
type literal struct {
	place string
	neg   bool
}

// clause is a disjunction of literals: at least one must hold in any model.
// Every constraint in the encodings below — implications, integrity
// constraints, and facts — reduces to one or more clauses of this shape.
type clause []literal

// program is the fully-built constraint system for one Enumerate call: a
// fixed, sorted atom universe plus the clauses every model must satisfy.
//
// invertedAtoms records which of two incompatible atom conventions the
// clauses below use. Min/Max clauses are a siphon-membership encoding:
// atom(b<bit>_v) true means place b<bit>_v can never hold a token again,
// i.e. v is fixed to the OPPOSITE of bit. Fix's deadlock clauses instead
// talk about a literal marking: atom(b<bit>_v) true means v=bit directly.
// decode and the ensure/avoid constraints must read the atom the same way
// the rest of the program was built, hence this flag.
type program struct {
	atoms         []string // sorted place names; the full search domain
	index         map[string]int
	clauses       []clause
	invertedAtoms bool
}

// buildProgram translates pn and the requested problem into the equivalent
// clause system, following the encoding biobalm's trappist_core.py hands to
// clingo: conflict-freedom between b0_v/b1_v, a siphon/trap implication per
// transition for Min and Max, and a deadlock/totality pair for Fix.
//
// For Fix, this package uses the direct "deadlock" encoding from
// biobalm's compute_fixed_point_reduced_STG fast path (forbid every
// transition's predecessors from holding simultaneously) rather than the
// siphon-based encoding also accepted by trappist(problem="fix"); the two
// are equivalent for fixed points of a conflict-free, total marking, and
// the deadlock form needs no S∖P bookkeeping. deadlockClause reads the
// rule body as the conjunction of the transition's predecessors.
func buildProgram(pn *petrinet.Net, problem Problem, opts Options) *program {
	variables := pn.Variables()

	atomSet := map[string]bool{}
	for _, v := range variables {
		atomSet[petrinet.PlaceName(v, 0)] = true
		atomSet[petrinet.PlaceName(v, 1)] = true
	}
	atoms := make([]string, 0, len(atomSet))
	for a := range atomSet {
		atoms = append(atoms, a)
	}
	sort.Strings(atoms)

	index := make(map[string]int, len(atoms))
	for i, a := range atoms {
		index[a] = i
	}

	p := &program{atoms: atoms, index: index, invertedAtoms: problem != Fix}

	for _, v := range variables {
		p.clauses = append(p.clauses, clause{
			{place: petrinet.PlaceName(v, 0), neg: true},
			{place: petrinet.PlaceName(v, 1), neg: true},
		})
	}

	switch problem {
	case Fix:
		for _, v := range variables {
			p.clauses = append(p.clauses, clause{
				{place: petrinet.PlaceName(v, 0)},
				{place: petrinet.PlaceName(v, 1)},
			})
		}
		for _, tr := range pn.Transitions() {
			p.clauses = append(p.clauses, deadlockClause(tr))
		}
	default: // Min, Max
		for _, tr := range pn.Transitions() {
			p.clauses = append(p.clauses, siphonClause(tr, opts.ReverseTime))
		}
		if problem == Max {
			p.addMaxConstraints(pn, opts)
		}
	}

	p.addEnsureSubspace(opts.EnsureSubspace)
	p.addAvoidSubspaces(opts.AvoidSubspaces)

	return p
}

// deadlockClause forbids transition t's predecessors from all holding at
// once: ⊥ ← ⋀ preds(t), i.e. ¬p1 ∨ ¬p2 ∨ ... for p in preds(t).
func deadlockClause(t *petrinet.Transition) clause {
	preds := t.Predecessors()
	c := make(clause, 0, len(preds))
	for _, p := range preds {
		c = append(c, literal{place: p, neg: true})
	}
	return c
}

// siphonClause encodes, for successor s of t not also a predecessor of t,
// the implication (⋁ p∈preds(t)) ← s — i.e. ¬s ∨ p1 ∨ p2 ∨ .... Guards never
// name a place of t's own variable (Encode excludes it), so t's target place
// is always the only such s; the clause always has at least the target's
// negation plus every predecessor.
//
// When reverseTime is set, predecessors and successors trade places,
// computing the corresponding structure of the time-reversed network.
func siphonClause(t *petrinet.Transition, reverseTime bool) clause {
	preds, succs := t.Predecessors(), t.Successors()
	if reverseTime {
		preds, succs = succs, preds
	}

	predSet := map[string]bool{}
	for _, p := range preds {
		predSet[p] = true
	}

	var c clause
	for _, s := range succs {
		if !predSet[s] {
			c = append(c, literal{place: s, neg: true})
		}
	}
	for _, p := range preds {
		c = append(c, literal{place: p})
	}
	return c
}

// addMaxConstraints adds the two extra families trappist's Max encoding
// uses to exclude the degenerate all-free space: a single clause forcing at
// least one "free" place (belonging to a variable not fixed by
// EnsureSubspace) to hold, and a totality clause per source variable not
// fixed by EnsureSubspace (source variables are never left free in a
// maximal trap space).
func (p *program) addMaxConstraints(pn *petrinet.Net, opts Options) {
	var free clause
	for _, a := range p.atoms {
		v, _, ok := petrinet.ParsePlace(a)
		if !ok {
			continue
		}
		if _, fixed := opts.EnsureSubspace[v]; fixed {
			continue
		}
		free = append(free, literal{place: a})
	}
	if len(free) > 0 {
		p.clauses = append(p.clauses, free)
	}

	sources := opts.OptimizeSourceVariables
	if sources == nil {
		sources = petrinet.SourceVariables(pn)
	}
	for _, v := range sources {
		if _, fixed := opts.EnsureSubspace[v]; fixed {
			continue
		}
		p.clauses = append(p.clauses, clause{
			{place: petrinet.PlaceName(v, 0)},
			{place: petrinet.PlaceName(v, 1)},
		})
	}
}

// witnessPlace returns the atom whose truth (under this program's atom
// convention) asserts v=value: the complement place when atoms are
// siphon-inverted (Min/Max), the value's own place otherwise (Fix).
func (p *program) witnessPlace(v string, value uint8) string {
	if p.invertedAtoms {
		return petrinet.PlaceName(v, 1-value)
	}
	return petrinet.PlaceName(v, value)
}

// addEnsureSubspace asserts, for each fixed variable, the place that
// witnesses it — value=0 asserts b1_v under the siphon convention (Min/Max,
// matching trappist's inverted-polarity convention) but b0_v directly under
// Fix's marking convention.
func (p *program) addEnsureSubspace(space bn.Subspace) {
	for v, value := range space {
		p.clauses = append(p.clauses, clause{{place: p.witnessPlace(v, value)}})
	}
}

// addAvoidSubspaces forbids every listed subspace from being realized: for
// each one, the conjunction of its witness places is forbidden, i.e. a
// single clause over their negations.
func (p *program) addAvoidSubspaces(spaces []bn.Subspace) {
	for _, space := range spaces {
		if len(space) == 0 {
			continue
		}
		c := make(clause, 0, len(space))
		for v, value := range space {
			c = append(c, literal{place: p.witnessPlace(v, value), neg: true})
		}
		p.clauses = append(p.clauses, c)
	}
}
