package sdgraph

import (
	"github.com/jcrozum/biobalm-sub000/pkg/aspsolver"
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

// NodeHasCandidate reports whether id's percolated Petri net still admits a
// fixed point outside every subspace in avoid (each expressed over the
// original network's variables), using a single solution_limit=1 Trap-Solver
// call. This is the cheap per-node check the Attractor-Seeds expansion
// strategy uses to decide whether a successor still needs expanding.
func (g *Net) NodeHasCandidate(id int, avoid []bn.Subspace) (bool, error) {
	n, err := g.node(id)
	if err != nil {
		return false, err
	}
	pn, err := g.NodePercolatedPetriNet(id, true)
	if err != nil {
		return false, err
	}
	reducedAvoid := make([]bn.Subspace, len(avoid))
	for i, a := range avoid {
		reducedAvoid[i] = reducedChildSpace(n.space, a)
	}
	found := false
	err = g.solver.Enumerate(pn, aspsolver.Fix, aspsolver.Options{
		AvoidSubspaces: reducedAvoid,
		SolutionLimit:  1,
	}, func(bn.Subspace) bool {
		found = true
		return false
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
