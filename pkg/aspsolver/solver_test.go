package aspsolver

import (
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/petrinet"
)

func mustEncode(t *testing.T, functions map[string]bn.Expr) *petrinet.Net {
	t.Helper()
	net, err := bn.New(functions)
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}
	pn, err := petrinet.Encode(net)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return pn
}

func spacesEqualSet(t *testing.T, got []bn.Subspace, want ...bn.Subspace) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d solutions %v, want %d %v", len(got), got, len(want), want)
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g.Equal(w) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing expected solution %v in %v", w, got)
		}
	}
}

func TestTogglePairFixedPointsMatchMinAndFix(t *testing.T) {
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
	})

	min, err := All(BacktrackingSolver{}, pn, Min, Options{})
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	spacesEqualSet(t, min, bn.Subspace{"A": 0, "B": 0}, bn.Subspace{"A": 1, "B": 1})

	fix, err := All(BacktrackingSolver{}, pn, Fix, Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	spacesEqualSet(t, fix, bn.Subspace{"A": 0, "B": 0}, bn.Subspace{"A": 1, "B": 1})

	max, err := All(BacktrackingSolver{}, pn, Max, Options{})
	if err != nil {
		t.Fatalf("Max: %v", err)
	}
	spacesEqualSet(t, max, bn.Subspace{"A": 0, "B": 0}, bn.Subspace{"A": 1, "B": 1})
}

func TestOscillatingVariableHasNoFixedPoint(t *testing.T) {
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
		"C": bn.Not{X: bn.Lit("C")},
	})

	fix, err := All(BacktrackingSolver{}, pn, Fix, Options{})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if len(fix) != 0 {
		t.Fatalf("expected no fixed points, got %v", fix)
	}
}

func TestMinimalTrapSpacesAreFullyRefined(t *testing.T) {
	// A := B, B := B: {B:0} and {B:1} are valid but non-minimal trap spaces,
	// each refined further by fixing A to match B.
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("B"),
	})

	min, err := All(BacktrackingSolver{}, pn, Min, Options{})
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	spacesEqualSet(t, min, bn.Subspace{"A": 0, "B": 0}, bn.Subspace{"A": 1, "B": 1})

	max, err := All(BacktrackingSolver{}, pn, Max, Options{})
	if err != nil {
		t.Fatalf("Max: %v", err)
	}
	spacesEqualSet(t, max, bn.Subspace{"B": 0}, bn.Subspace{"B": 1})
}

func TestEnsureSubspaceRestrictsResults(t *testing.T) {
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
	})

	min, err := All(BacktrackingSolver{}, pn, Min, Options{EnsureSubspace: bn.Subspace{"A": 0}})
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	spacesEqualSet(t, min, bn.Subspace{"A": 0, "B": 0})
}

func TestAvoidSubspacesExcludesResults(t *testing.T) {
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
	})

	min, err := All(BacktrackingSolver{}, pn, Min, Options{
		AvoidSubspaces: []bn.Subspace{{"A": 1, "B": 1}},
	})
	if err != nil {
		t.Fatalf("Min: %v", err)
	}
	spacesEqualSet(t, min, bn.Subspace{"A": 0, "B": 0})
}

func TestSolutionLimitTruncatesDeterministically(t *testing.T) {
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
	})

	var got []bn.Subspace
	err := BacktrackingSolver{}.Enumerate(pn, Min, Options{SolutionLimit: 1}, func(s bn.Subspace) bool {
		got = append(got, s)
		return true
	})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 solution, got %v", got)
	}
	if !got[0].Equal(bn.Subspace{"A": 0, "B": 0}) {
		t.Fatalf("expected the canonically first solution {A:0,B:0}, got %v", got[0])
	}
}

func TestOnSolutionEarlyStop(t *testing.T) {
	pn := mustEncode(t, map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
	})

	count := 0
	err := BacktrackingSolver{}.Enumerate(pn, Min, Options{}, func(s bn.Subspace) bool {
		count++
		return false
	})
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected enumeration to stop after the first callback, got %d calls", count)
	}
}
