// Package aspsolver implements the Trap-Solver component: enumeration of
// minimal trap spaces, maximal trap spaces, and fixed points of a Petri net
// by reduction to a Boolean satisfiability problem, mirroring the
// Answer-Set-Programming encoding the engine's external ASP back end would
// otherwise be asked to solve.
//
// No ASP solver ships in this module's dependency pack (see DESIGN.md), so
// Solver is an interface with a single default, pure-Go implementation
// (BacktrackingSolver) that performs the same enumeration via unit
// propagation and chronological backtracking instead of delegating to
// clingo or a similar grounder/solver pair. Swapping in a real ASP back end
// means implementing Solver against it; nothing above this package needs to
// change.
package aspsolver

import (
	"errors"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// Problem selects which structures Enumerate should produce.
type Problem int

const (
	// Min enumerates minimal trap spaces (siphons of the Petri net).
	Min Problem = iota
	// Max enumerates maximal trap spaces.
	Max
	// Fix enumerates fixed points (deadlocks of the Petri net).
	Fix
)

func (p Problem) String() string {
	switch p {
	case Min:
		return "min"
	case Max:
		return "max"
	case Fix:
		return "fix"
	default:
		return "unknown"
	}
}

// Options configures a single Enumerate call.
type Options struct {
	// EnsureSubspace forces the listed variables to the given values in
	// every returned solution.
	EnsureSubspace bn.Subspace

	// AvoidSubspaces excludes solutions lying in any of the listed
	// subspaces.
	AvoidSubspaces []bn.Subspace

	// SolutionLimit caps the number of solutions produced. Zero means
	// unlimited.
	SolutionLimit int

	// OptimizeSourceVariables designates which variables are treated as
	// input nodes for the purposes of maximal trap-space identification
	// (see Problem Max): their fixed values are considered together rather
	// than individually, and they are never left unfixed ("*") in a Max
	// result. If nil, it defaults to the Petri net's own source variables
	// (petrinet.SourceVariables).
	OptimizeSourceVariables []string

	// ReverseTime swaps the siphon/trap relationship used by Min and Max,
	// computing the corresponding structures of the time-reversed network.
	ReverseTime bool
}

// ErrLimitExceeded is returned by callers that enforce a hard cap atop
// SolutionLimit (see config.Config.MaxMotifsPerNode /
// AttractorCandidatesLimit) when that cap is breached.
var ErrLimitExceeded = errors.New("aspsolver: solution limit exceeded")

// Solver enumerates solutions to a trap-space/fixed-point problem over a
// Petri net, invoking onSolution for each one in a fixed, deterministic
// order. Enumeration stops early if onSolution returns false.
type Solver interface {
	Enumerate(pn *petrinet.Net, problem Problem, opts Options, onSolution func(bn.Subspace) bool) error
}
