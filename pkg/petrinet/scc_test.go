package petrinet

import (
	"reflect"
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

func TestSCCsFindsCycleAndChain(t *testing.T) {
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
		"C": bn.Lit("B"),
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}

	comps := SCCs(net)
	var sawCycle, sawSingleton bool
	for _, c := range comps {
		if reflect.DeepEqual(c, []string{"A", "B"}) {
			sawCycle = true
		}
		if reflect.DeepEqual(c, []string{"C"}) {
			sawSingleton = true
		}
	}
	if !sawCycle {
		t.Fatalf("SCCs(net) = %v, want an {A,B} component", comps)
	}
	if !sawSingleton {
		t.Fatalf("SCCs(net) = %v, want a {C} component", comps)
	}
}

func TestSourceSCCsExcludesDownstreamComponents(t *testing.T) {
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
		"C": bn.Lit("B"),
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}

	sources := SourceSCCs(net)
	if len(sources) != 1 || !reflect.DeepEqual(sources[0], []string{"A", "B"}) {
		t.Fatalf("SourceSCCs(net) = %v, want [[A B]]", sources)
	}
}

func TestBackwardClosureIncludesAncestors(t *testing.T) {
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("C"),
		"D": bn.Lit("E"),
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}

	closure := BackwardClosure(net, []string{"A"})
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(closure, want) {
		t.Fatalf("BackwardClosure(net, [A]) = %v, want %v", closure, want)
	}
}
