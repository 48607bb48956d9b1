package expansion

import (
	"context"
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
	"github.com/jcrozum/biobalm-sub000/pkg/sdgraph"
)

func flipFlopGraph(t *testing.T) *sdgraph.Net {
	t.Helper()
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
		"C": bn.Not{X: bn.Lit("C")},
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}
	g, err := sdgraph.New(net)
	if err != nil {
		t.Fatalf("sdgraph.New: %v", err)
	}
	return g
}

func TestBFSExpandsWholeFlipFlopDiagram(t *testing.T) {
	g := flipFlopGraph(t)
	ok, err := BFS(context.Background(), g, g.Root(), 0)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if !ok {
		t.Fatalf("BFS reported the size limit was hit with an unlimited budget")
	}
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	for _, id := range g.NodeIDs() {
		expanded, err := g.IsExpanded(id)
		if err != nil {
			t.Fatalf("IsExpanded: %v", err)
		}
		skipped, err := g.IsSkipped(id)
		if err != nil {
			t.Fatalf("IsSkipped: %v", err)
		}
		if !expanded && !skipped {
			t.Fatalf("node %d left unexpanded after an unlimited BFS", id)
		}
	}
}

func TestBFSRespectsASizeLimit(t *testing.T) {
	g := flipFlopGraph(t)
	ok, err := BFS(context.Background(), g, g.Root(), 1)
	if err != nil {
		t.Fatalf("BFS: %v", err)
	}
	if ok {
		t.Fatalf("BFS reported success despite a size limit of 1 on a 3-node diagram")
	}
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (root expansion still materializes both children)", g.Len())
	}
}

func TestDFSAlsoExpandsTheWholeDiagram(t *testing.T) {
	g := flipFlopGraph(t)
	ok, err := DFS(context.Background(), g, g.Root(), 0)
	if err != nil {
		t.Fatalf("DFS: %v", err)
	}
	if !ok {
		t.Fatalf("DFS reported the size limit was hit with an unlimited budget")
	}
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
}

func TestMinimalSpacesReachesBothMinimalTraps(t *testing.T) {
	g := flipFlopGraph(t)
	ok, err := MinimalSpaces(context.Background(), g, g.Root(), 0, false)
	if err != nil {
		t.Fatalf("MinimalSpaces: %v", err)
	}
	if !ok {
		t.Fatalf("MinimalSpaces reported the size limit was hit with an unlimited budget")
	}
	minimal := g.MinimalTrapSpaces()
	if len(minimal) != 2 {
		t.Fatalf("MinimalTrapSpaces() = %v, want 2 entries", minimal)
	}
}

func TestMinimalSpacesWithSkipUncoveredMarksRootSkipped(t *testing.T) {
	g := flipFlopGraph(t)
	ok, err := MinimalSpaces(context.Background(), g, g.Root(), 0, true)
	if err != nil {
		t.Fatalf("MinimalSpaces: %v", err)
	}
	if !ok {
		t.Fatalf("MinimalSpaces reported the size limit was hit with an unlimited budget")
	}
	skipped, err := g.IsSkipped(g.Root())
	if err != nil {
		t.Fatalf("IsSkipped: %v", err)
	}
	if !skipped {
		t.Fatalf("expected root to be shortcut straight to its minimal trap spaces")
	}
}

func TestToTargetStopsOnceFrontierIsInsideTarget(t *testing.T) {
	g := flipFlopGraph(t)
	ok, err := ToTarget(context.Background(), g, g.Root(), bn.Subspace{"A": 1, "B": 1}, 0)
	if err != nil {
		t.Fatalf("ToTarget: %v", err)
	}
	if !ok {
		t.Fatalf("ToTarget reported the size limit was hit with an unlimited budget")
	}
	if _, ok := g.FindNode(bn.Subspace{"A": 1, "B": 1}); !ok {
		t.Fatalf("expected the target subspace to have been materialized")
	}
}
