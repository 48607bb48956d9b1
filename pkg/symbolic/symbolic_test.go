package symbolic

import (
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

func toggleNetwork(t *testing.T) *bn.Network {
	t.Helper()
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Not{X: bn.Lit("A")},
		"B": bn.Lit("B"),
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}
	return net
}

func TestVarPostOutTogglesEnabledVariable(t *testing.T) {
	e := New(toggleNetwork(t))
	next, ok := e.VarPostOut(bn.Subspace{"A": 0, "B": 0}, "A")
	if !ok || next["A"] != 1 {
		t.Fatalf("VarPostOut(A=0,B=0, A) = %v,%v, want A=1,true", next, ok)
	}
	if _, ok := e.VarPostOut(bn.Subspace{"A": 0, "B": 0}, "B"); ok {
		t.Fatalf("expected B's self-loop to be disabled")
	}
}

func TestVarPostIncludesSelfAndEnabledTransitions(t *testing.T) {
	e := New(toggleNetwork(t))
	next := e.VarPost(bn.Subspace{"A": 0, "B": 0})
	if len(next) != 2 {
		t.Fatalf("VarPost = %v, want 2 states (self + A-toggle)", next)
	}
}

func TestReachableClosesUnderAsyncToggle(t *testing.T) {
	e := New(toggleNetwork(t))
	set, ok := e.Reachable(bn.Subspace{"A": 0, "B": 0}, nil)
	if !ok {
		t.Fatalf("Reachable reported not-ok with no avoid set")
	}
	if set.Len() != 2 {
		t.Fatalf("Reachable closure has %d states, want 2 ({A=0,B=0},{A=1,B=0})", set.Len())
	}
	if !set.Contains(bn.Subspace{"A": 1, "B": 0}) {
		t.Fatalf("expected closure to contain A=1,B=0")
	}
}

func TestReachableStopsWhenAvoidIsHit(t *testing.T) {
	e := New(toggleNetwork(t))
	avoid := []bn.Subspace{{"A": 1}}
	_, ok := e.Reachable(bn.Subspace{"A": 0, "B": 0}, avoid)
	if ok {
		t.Fatalf("expected Reachable to report false once the closure reaches A=1")
	}
}

func TestEvaluateAndClauseToDNF(t *testing.T) {
	dnf := ClauseToDNF(bn.Subspace{"A": 1})
	if !Evaluate(dnf, bn.Subspace{"A": 1, "B": 0}) {
		t.Fatalf("expected A=1 clause to be satisfied by A=1,B=0")
	}
	if Evaluate(dnf, bn.Subspace{"A": 0, "B": 0}) {
		t.Fatalf("expected A=1 clause to be unsatisfied by A=0,B=0")
	}
}
