package sdgraph

import (
	"context"
	"testing"

	"github.com/jcrozum/biobalm-sub000/pkg/bn"
)

func flipFlopNetwork(t *testing.T) *bn.Network {
	t.Helper()
	net, err := bn.New(map[string]bn.Expr{
		"A": bn.Lit("B"),
		"B": bn.Lit("A"),
		"C": bn.Not{X: bn.Lit("C")},
	})
	if err != nil {
		t.Fatalf("bn.New: %v", err)
	}
	return net
}

// TestExpandNodeMatchesScenarioS1 checks the flip-flop scenario documented
// in spec.md §8 (S1): 3 nodes, 2 edges, depth 1, 2 minimal traps.
func TestExpandNodeMatchesScenarioS1(t *testing.T) {
	g, err := New(flipFlopNetwork(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := g.ExpandNode(ctx, g.Root()); err != nil {
		t.Fatalf("ExpandNode: %v", err)
	}

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	if g.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", g.Depth())
	}

	children, err := g.NodeSuccessors(ctx, g.Root(), false)
	if err != nil {
		t.Fatalf("NodeSuccessors: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("NodeSuccessors(root) = %v, want 2 children", children)
	}

	var sawZero, sawOne bool
	for _, c := range children {
		space, err := g.NodeSpace(c)
		if err != nil {
			t.Fatalf("NodeSpace: %v", err)
		}
		if space["A"] == 0 && space["B"] == 0 {
			sawZero = true
		}
		if space["A"] == 1 && space["B"] == 1 {
			sawOne = true
		}
		expanded, err := g.IsExpanded(c)
		if err != nil {
			t.Fatalf("IsExpanded: %v", err)
		}
		if expanded {
			t.Fatalf("child %d should not be expanded yet", c)
		}
	}
	if !sawZero || !sawOne {
		t.Fatalf("children = %v, want one each of {A=0,B=0} and {A=1,B=1}", children)
	}
}

func TestFindNodeLocatesAnAlreadyMaterializedSpace(t *testing.T) {
	g, err := New(flipFlopNetwork(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := g.ExpandNode(context.Background(), g.Root()); err != nil {
		t.Fatalf("ExpandNode: %v", err)
	}
	id, ok := g.FindNode(bn.Subspace{"A": 1, "B": 1})
	if !ok {
		t.Fatalf("FindNode did not locate {A:1,B:1}")
	}
	space, err := g.NodeSpace(id)
	if err != nil {
		t.Fatalf("NodeSpace: %v", err)
	}
	if space["A"] != 1 || space["B"] != 1 {
		t.Fatalf("NodeSpace(%d) = %v, want {A:1,B:1,...}", id, space)
	}
}

func TestNodeSuccessorsReturnsErrNotComputedWithoutCompute(t *testing.T) {
	g, err := New(flipFlopNetwork(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := g.NodeSuccessors(context.Background(), g.Root(), false); err == nil {
		t.Fatalf("expected ErrNotComputed for a stub root queried with compute=false")
	}
}

func TestSkipToMinimalShortcutsDirectlyToMinimalTraps(t *testing.T) {
	g, err := New(flipFlopNetwork(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := g.SkipToMinimal(ctx, g.Root()); err != nil {
		t.Fatalf("SkipToMinimal: %v", err)
	}
	skipped, err := g.IsSkipped(g.Root())
	if err != nil {
		t.Fatalf("IsSkipped: %v", err)
	}
	if !skipped {
		t.Fatalf("expected root to be marked skipped")
	}
	children, err := g.NodeSuccessors(ctx, g.Root(), false)
	if err != nil {
		t.Fatalf("NodeSuccessors: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("NodeSuccessors(root) = %v, want 2 minimal traps", children)
	}
}

func TestMinimalTrapSpacesMatchesScenarioS1(t *testing.T) {
	g, err := New(flipFlopNetwork(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := g.ExpandNode(ctx, g.Root()); err != nil {
		t.Fatalf("ExpandNode: %v", err)
	}
	for _, c := range g.NodeIDs() {
		if c == g.Root() {
			continue
		}
		if err := g.ExpandNode(ctx, c); err != nil {
			t.Fatalf("ExpandNode(%d): %v", c, err)
		}
	}
	minimal := g.MinimalTrapSpaces()
	if len(minimal) != 2 {
		t.Fatalf("MinimalTrapSpaces = %v, want 2 entries", minimal)
	}
}
