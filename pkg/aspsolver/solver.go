package aspsolver

import (
	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// Default is the Solver used by packages that need one but accept no
// explicit configuration (e.g. a quick exploratory query). Components that
// drive repeated searches over the same engine — sdgraph, attractor — take a
// Solver explicitly instead, so a different back end can be substituted.
var Default Solver = BacktrackingSolver{}

// All is a convenience wrapper around Solver.Enumerate that collects every
// solution into a slice instead of streaming through a callback.
func All(s Solver, pn *petrinet.Net, problem Problem, opts Options) ([]bn.Subspace, error) {
	var out []bn.Subspace
	err := s.Enumerate(pn, problem, opts, func(space bn.Subspace) bool {
		out = append(out, space)
		return true
	})
	return out, err
}
