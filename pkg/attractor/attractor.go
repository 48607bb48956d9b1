// Package attractor implements the Attractor-Core component: for a single
// succession-diagram node, producing a list of candidate states guaranteed
// to cover every attractor within the node's space but outside its expanded
// children's spaces, then narrowing candidates to attractor seeds (and
// their full attractor sets) via simulation pruning, optional external
// oracle pruning, and exact symbolic reachability confirmation.
//
// Compute operates entirely in the coordinate space of Network: a Boolean
// network already percolated to the node's own space with every constant
// variable inlined and dropped (see bn.PercolateNetwork(..., true)). Every
// returned Subspace fixes every one of Network's remaining variables (a
// full state of the reduced network); the caller (pkg/sdgraph) is
// responsible for re-unioning results with the node's own fixed
// coordinates to report states in terms of the original network.
package attractor

import (
	"context"
	"errors"
	"math/rand"
	"sort"

	"github.com/jcrozum/biobalm-sub000/pkg/aspsolver"
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/config"
	"github.com/jcrozum/biobalm-sub000/pkg/nfvs"
	"github.com/jcrozum/biobalm-sub000/pkg/oracle"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
	"github.com/jcrozum/biobalm-sub000/pkg/symbolic"
)

// ErrCandidatesExceeded is returned when the initial enumeration produces
// more candidates than Config.AttractorCandidatesLimit allows; per spec.md
// §4.6/§7 this is fatal and the caller should switch to a fully symbolic
// fallback strategy instead of retrying this package.
var ErrCandidatesExceeded = errors.New("attractor: candidate limit exceeded")

// Request bundles everything Compute needs for one node.
type Request struct {
	// Network is the node's percolated, constant-inlined network (only
	// still-free variables remain).
	Network *bn.Network
	// PN is the Petri net encoding of Network (or an equivalent restriction
	// of the global Petri net).
	PN *petrinet.Net
	// ChildSpaces are the node's child stable motifs, reduced to Network's
	// variables (the node's own fixed coordinates already removed).
	ChildSpaces []bn.Subspace
	// NFVS is Network's (negative) feedback vertex set.
	NFVS []string
	// Solver enumerates trap spaces/fixed points over PN.
	Solver aspsolver.Solver
	// Sym is the symbolic adapter over Network, used for the final
	// reachability confirmation.
	Sym *symbolic.Engine
	// Oracle optionally prunes candidates via external reachability
	// checking; nil disables this step.
	Oracle oracle.Oracle
	// Avoid lists additional states (e.g. attractor sets already confirmed
	// elsewhere in the succession diagram) that a seed's closure must not
	// touch, beyond ChildSpaces.
	Avoid []*symbolic.StateSet
	// Config supplies the tunable limits/budgets from spec.md §6.
	Config config.Config
	// Seed is the deterministic PRNG seed base for simulation pruning.
	Seed int64
}

// Result is the outcome of Compute.
type Result struct {
	Candidates []bn.Subspace
	Seeds      []bn.Subspace
	Sets       []*symbolic.StateSet
}

// Compute runs the full pipeline described in spec.md §4.6.
func Compute(ctx context.Context, req Request) (Result, error) {
	vars := req.Network.Variables()

	// Early exit: the reduced network has no free variables left, i.e. the
	// node's space is already a full assignment.
	if len(vars) == 0 {
		state := bn.Subspace{}
		set, _ := req.Sym.Reachable(state, nil)
		return Result{Candidates: []bn.Subspace{state}, Seeds: []bn.Subspace{state}, Sets: []*symbolic.StateSet{set}}, nil
	}

	// Early exit: expanded and non-minimal (it has children) with an empty
	// NFVS — only fixed points exist here and they are all subsumed by a
	// child.
	if len(req.ChildSpaces) > 0 && len(req.NFVS) == 0 {
		return Result{}, nil
	}

	retained := nfvs.RetainedSet(req.Network, req.NFVS, req.ChildSpaces)
	pseudoMinimal := len(req.ChildSpaces) == 0

	// Early exit: the retained set is already a full assignment in a
	// pseudo-minimal node.
	if pseudoMinimal && len(retained) == len(vars) {
		set, _ := req.Sym.Reachable(retained, nil)
		return Result{Candidates: []bn.Subspace{retained}, Seeds: []bn.Subspace{retained}, Sets: []*symbolic.StateSet{set}}, nil
	}

	candidates, err := enumerate(req.PN, req.Solver, retained, req.ChildSpaces)
	if err != nil {
		return Result{}, err
	}
	if limit := req.Config.AttractorCandidatesLimit; limit > 0 && len(candidates) > limit {
		return Result{}, ErrCandidatesExceeded
	}
	initialCount := len(candidates)

	retained, candidates = greedyMinify(req.PN, req.Solver, retained, req.ChildSpaces, candidates)

	if threshold := req.Config.RetainedSetOptimizationThreshold; threshold > 0 && initialCount > threshold {
		retained, candidates = rebuildRetained(req.PN, req.Solver, req.NFVS, req.ChildSpaces)
		retained, candidates = greedyMinify(req.PN, req.Solver, retained, req.ChildSpaces, candidates)
	}

	candidates = simulationPrune(ctx, req, candidates, pseudoMinimal)

	if req.Oracle != nil {
		candidates = oraclePrune(ctx, req, candidates)
	}

	if len(candidates) == 0 {
		return Result{Candidates: candidates}, nil
	}
	if pseudoMinimal && len(candidates) == 1 {
		set, _ := req.Sym.Reachable(candidates[0], req.ChildSpaces)
		return Result{Candidates: candidates, Seeds: []bn.Subspace{candidates[0]}, Sets: []*symbolic.StateSet{set}}, nil
	}

	seeds, sets := symbolicConfirm(req, candidates)
	return Result{Candidates: candidates, Seeds: seeds, Sets: sets}, nil
}

func enumerate(pn *petrinet.Net, solver aspsolver.Solver, retained bn.Subspace, childSpaces []bn.Subspace) ([]bn.Subspace, error) {
	modified := petrinet.RemoveTransitionsToward(pn, retained)
	return aspsolver.All(solver, modified, aspsolver.Fix, aspsolver.Options{AvoidSubspaces: childSpaces})
}

// greedyMinify iteratively flips each retained value, keeping the flip
// whenever it strictly reduces the candidate count, until a full pass makes
// no further improvement.
func greedyMinify(pn *petrinet.Net, solver aspsolver.Solver, retained bn.Subspace, childSpaces []bn.Subspace, candidates []bn.Subspace) (bn.Subspace, []bn.Subspace) {
	names := retained.Names()
	improved := true
	for improved {
		improved = false
		for _, v := range names {
			flipped := retained.Clone()
			flipped[v] = 1 - flipped[v]
			alt, err := enumerate(pn, solver, flipped, childSpaces)
			if err != nil {
				continue
			}
			if len(alt) < len(candidates) {
				retained = flipped
				candidates = alt
				improved = true
			}
		}
	}
	return retained, candidates
}

// rebuildRetained discards the heuristic retained set and rebuilds it
// variable by variable, at each step choosing whichever value yields fewer
// candidates — the "dynamic retained-set refinement" of spec.md §4.6,
// triggered when the initial candidate count exceeds
// RetainedSetOptimizationThreshold.
func rebuildRetained(pn *petrinet.Net, solver aspsolver.Solver, nfvsVars []string, childSpaces []bn.Subspace) (bn.Subspace, []bn.Subspace) {
	ordered := append([]string(nil), nfvsVars...)
	sort.Strings(ordered)

	retained := bn.Subspace{}
	var candidates []bn.Subspace
	for _, v := range ordered {
		tryZero := retained.Clone()
		tryZero[v] = 0
		zeroCandidates, errZero := enumerate(pn, solver, tryZero, childSpaces)

		tryOne := retained.Clone()
		tryOne[v] = 1
		oneCandidates, errOne := enumerate(pn, solver, tryOne, childSpaces)

		switch {
		case errZero == nil && (errOne != nil || len(zeroCandidates) <= len(oneCandidates)):
			retained, candidates = tryZero, zeroCandidates
		case errOne == nil:
			retained, candidates = tryOne, oneCandidates
		}
	}
	return retained, candidates
}

// simulationPrune runs a pseudo-random asynchronous trajectory from each
// candidate for a geometrically growing number of steps, dropping any
// candidate whose trajectory enters another candidate or a child space.
// Pseudo-minimal nodes stop as soon as one candidate remains; otherwise
// rounds continue until a round makes no progress or the shared budget
// (MinimumSimulationBudget * |variables|) is exhausted.
func simulationPrune(ctx context.Context, req Request, candidates []bn.Subspace, pseudoMinimal bool) []bn.Subspace {
	if len(candidates) <= 1 {
		return candidates
	}
	budget := req.Config.MinimumSimulationBudget * len(req.Network.Variables())
	if budget <= 0 {
		return candidates
	}

	steps := 1
	for budget > 0 && len(candidates) > 1 {
		if ctx.Err() != nil {
			return candidates
		}
		progressed := false
		var survivors []bn.Subspace
		for i, c := range candidates {
			if budget <= 0 {
				survivors = append(survivors, candidates[i:]...)
				break
			}
			rng := rand.New(rand.NewSource(req.Seed + int64(i)))
			state := c.Clone()
			absorbed := false
			for s := 0; s < steps && budget > 0; s++ {
				budget--
				nexts := req.Sym.VarPost(state)
				state = nexts[rng.Intn(len(nexts))]
				if hitsOther(state, c, candidates) || bn.DNFIsTrue(symClauses(req.ChildSpaces), state) {
					absorbed = true
					break
				}
			}
			if absorbed {
				progressed = true
				continue
			}
			survivors = append(survivors, c)
			if pseudoMinimal && len(survivors) <= 1 && i == len(candidates)-1 {
				break
			}
		}
		candidates = survivors
		if !progressed {
			break
		}
		if pseudoMinimal && len(candidates) <= 1 {
			break
		}
		steps *= 2
	}
	return candidates
}

func hitsOther(state, self bn.Subspace, candidates []bn.Subspace) bool {
	if state.Equal(self) {
		return false
	}
	for _, c := range candidates {
		if !c.Equal(self) && state.Equal(c) {
			return true
		}
	}
	return false
}

func symClauses(spaces []bn.Subspace) []bn.Subspace {
	return spaces
}

// oraclePrune asks the external oracle whether each candidate can reach the
// union of the other candidates and the child spaces; a "yes" drops it.
func oraclePrune(ctx context.Context, req Request, candidates []bn.Subspace) []bn.Subspace {
	var survivors []bn.Subspace
	for i, c := range candidates {
		goal := append([]bn.Subspace(nil), req.ChildSpaces...)
		for j, other := range candidates {
			if i != j {
				goal = append(goal, other)
			}
		}
		reachable, ok, err := req.Oracle.CanReach(ctx, req.PN, c, goal, req.Config.PintGoalSizeLimit)
		if err != nil || !ok {
			survivors = append(survivors, c) // undecided: kept, per spec.md §7
			continue
		}
		if !reachable {
			survivors = append(survivors, c)
		}
	}
	return survivors
}

// symbolicConfirm runs Sym.Reachable against the union of the child spaces,
// every other remaining candidate, and every previously-confirmed attractor
// set in req.Avoid, keeping a candidate (and its closure) only when the
// forward closure never touches that union.
func symbolicConfirm(req Request, candidates []bn.Subspace) (seeds []bn.Subspace, sets []*symbolic.StateSet) {
	for i, c := range candidates {
		avoid := append([]bn.Subspace(nil), req.ChildSpaces...)
		for j, other := range candidates {
			if i != j {
				avoid = append(avoid, other)
			}
		}
		for _, set := range req.Avoid {
			for _, st := range set.States() {
				avoid = append(avoid, st)
			}
		}
		closure, ok := req.Sym.Reachable(c, avoid)
		if !ok {
			continue
		}
		seeds = append(seeds, c)
		sets = append(sets, closure)
	}
	return seeds, sets
}
