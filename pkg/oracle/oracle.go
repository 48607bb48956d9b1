// Package oracle implements the optional external reachability oracle
// collaborator from spec.md §1/§4.6/§6: a model checker asked whether a
// pivot state can reach a goal expressed as a disjunction of conjunctive
// valuations. It is consulted only as an additional, optional pruning step
// in Attractor-Core; a nil Oracle simply disables that step.
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

// Oracle answers reachability queries over an automata-network description
// of a Petri net. CanReach reports whether, starting from pivot, the goal
// (a disjunction of the given subspaces) can be reached; "undecided" is
// reported as ok=false, err=nil (spec.md §7: the caller keeps the candidate
// rather than treating this as a fatal solver error).
type Oracle interface {
	CanReach(ctx context.Context, pn *petrinet.Net, pivot bn.Subspace, goal []bn.Subspace, goalSizeLimit int) (reachable bool, ok bool, err error)
}

// ProcessOracle invokes an external command once per query, feeding it the
// automata-network description on stdin and reading a single-line verdict
// from stdout ("YES"/"NO"/anything else treated as "undecided"), mirroring
// the pint wire interface spec.md §6 describes. No pack example shells out
// to a subprocess (see DESIGN.md), so os/exec is used directly rather than
// through a third-party process-management package.
type ProcessOracle struct {
	// Command is the external reachability-checker binary, e.g. "pint".
	Command string
	// Args are extra arguments appended after Command.
	Args []string
}

// CanReach implements Oracle.
func (p ProcessOracle) CanReach(ctx context.Context, pn *petrinet.Net, pivot bn.Subspace, goal []bn.Subspace, goalSizeLimit int) (bool, bool, error) {
	wire := Encode(pn, pivot, goal, goalSizeLimit)

	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Stdin = strings.NewReader(wire)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return false, false, nil // undecided, not fatal: §7 "caught ... as undecided"
	}

	verdict := strings.TrimSpace(out.String())
	switch verdict {
	case "YES":
		return true, true, nil
	case "NO":
		return false, true, nil
	default:
		return false, false, nil
	}
}

// Encode renders pn, pivot, and goal into the automata-network wire format
// spec.md §6 specifies: one line `"v" [0,1]` per variable, one line per
// transition `"v" a -> b when "w1"=k1 and ...`, and the initial/goal
// valuations. The goal is clipped to goalSizeLimit literals total (summed
// across its disjuncts) to stay within command-line limits; truncation is
// always safe per spec.md's design notes (a partial goal that succeeds
// still proves reachability).
func Encode(pn *petrinet.Net, pivot bn.Subspace, goal []bn.Subspace, goalSizeLimit int) string {
	var b strings.Builder

	for _, v := range pn.Variables() {
		fmt.Fprintf(&b, "%q [0,1]\n", v)
	}

	for _, tr := range pn.Transitions() {
		from := boolToBit(!tr.Up)
		to := boolToBit(tr.Up)
		var whens []string
		for _, g := range tr.Guards {
			gv, gval, ok := petrinet.ParsePlace(g)
			if !ok {
				continue
			}
			whens = append(whens, fmt.Sprintf("%q=%d", gv, gval))
		}
		sort.Strings(whens)
		if len(whens) == 0 {
			fmt.Fprintf(&b, "%q %d -> %d\n", tr.Variable, from, to)
		} else {
			fmt.Fprintf(&b, "%q %d -> %d when %s\n", tr.Variable, from, to, strings.Join(whens, " and "))
		}
	}

	b.WriteString("init ")
	for _, v := range pivot.Names() {
		fmt.Fprintf(&b, "%q=%d ", v, pivot[v])
	}
	b.WriteString("\n")

	b.WriteString("goal ")
	budget := goalSizeLimit
	for i, clause := range goal {
		if i > 0 {
			b.WriteString(" or ")
		}
		names := clause.Names()
		var parts []string
		for _, v := range names {
			if budget <= 0 {
				break
			}
			parts = append(parts, fmt.Sprintf("%q=%d", v, clause[v]))
			budget--
		}
		b.WriteString(strings.Join(parts, " and "))
		if budget <= 0 {
			break
		}
	}
	b.WriteString("\n")

	return b.String()
}

func boolToBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
